package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
)

const (
	userIDKey = "user_id"
	emailKey  = "email"
	claimsKey = "claims"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// tokenErrorStatus reports 401 only for tokens that are bad or revoked.
// Failures to check a token are server errors.
func tokenErrorStatus(err error) int {
	if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrTokenRevoked) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// AuthMiddleware creates a middleware that validates session tokens. The
// token comes from the Authorization header, or from the access_token query
// parameter for clients that cannot set headers on event streams.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, msg := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: msg})
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(tokenErrorStatus(err), ErrorResponse{Error: err.Error()})
			return
		}

		// Store user info in context
		c.Set(userIDKey, claims.UserID)
		c.Set(emailKey, claims.Email)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("access_token"); token != "" {
			return token, ""
		}
		return "", "missing authorization header"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", "invalid authorization header format"
	}
	return parts[1], ""
}

// UserID returns the authenticated user's id
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// Email returns the authenticated user's email
func Email(c *gin.Context) string {
	return c.GetString(emailKey)
}

// Claims returns the validated token claims
func Claims(c *gin.Context) *types.TokenClaims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*types.TokenClaims); ok {
			return claims
		}
	}
	return nil
}
