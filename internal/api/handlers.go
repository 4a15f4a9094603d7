package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/service"
)

// Services bundles what the HTTP API needs
type Services struct {
	Auth      service.IAuthService
	Profiles  service.IProfileService
	Recipes   service.IRecipeService
	Favorites service.IFavoriteService
	Photos    service.IPhotoService
	Health    Pinger

	// Limiters are nil when Redis is not configured
	RecipeCreationLimiter     *middleware.RateLimiter
	RecipeModificationLimiter *middleware.RateLimiter
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc Services, log *zap.Logger) {
	// Health check endpoint (no auth required)
	router.GET("/health", NewHealthHandler(svc.Health).HealthCheck)

	authMiddleware := middleware.AuthMiddleware(svc.Auth)

	v1 := router.Group("/api/v1")
	NewAuthHandler(svc.Auth, log).RegisterRoutes(v1, authMiddleware)

	protected := v1.Group("")
	protected.Use(authMiddleware)
	NewProfileHandler(svc.Profiles, log).RegisterRoutes(protected)
	NewRecipeHandler(svc.Recipes, svc.Favorites, svc.RecipeCreationLimiter, svc.RecipeModificationLimiter, log).RegisterRoutes(protected)
	NewPhotoHandler(svc.Photos, log).RegisterRoutes(protected)
}
