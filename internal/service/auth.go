package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/store"
	"github.com/pageza/recipebook/backend/internal/types"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrEmailTaken         = errors.New("email address is already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// dummyHash is compared against when no account matches so unknown emails
// cost the same bcrypt work as wrong passwords.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
})

// Session is an authenticated identity token scoping data operations to one user
type Session struct {
	Token     string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// AuthService handles identity: accounts, passwords and session tokens
type AuthService struct {
	store     store.Store
	denylist  TokenDenylist
	jwtSecret []byte
	tokenTTL  time.Duration
	log       *zap.Logger

	compare func(hash, password []byte) error
}

var _ IAuthService = (*AuthService)(nil)

// NewAuthService creates a new AuthService instance
func NewAuthService(s store.Store, denylist TokenDenylist, jwtSecret string, tokenTTL time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		store:     s,
		denylist:  denylist,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log,
		compare:   bcrypt.CompareHashAndPassword,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Register creates an account and its profile document. The two writes are
// not atomic: if the profile write fails the account is removed again, and
// a profile lost to a crash in between is recreated by Login.
func (s *AuthService) Register(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	if _, err := s.store.GetAccountByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if err := s.store.CreateProfile(ctx, models.NewProfile(account.ID, email)); err != nil {
		if delErr := s.store.DeleteAccount(ctx, account.ID); delErr != nil {
			s.log.Error("failed to roll back account after profile write failure",
				zap.String("user_id", account.ID),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.log.Info("registered user", zap.String("user_id", account.ID))
	return s.issue(account)
}

// Login checks the credentials and issues a session
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.store.GetAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		_ = s.compare(dummyHash(), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := s.compare([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.ensureProfile(ctx, account); err != nil {
		return nil, err
	}
	return s.issue(account)
}

// ensureProfile recreates a missing profile document with defaults
func (s *AuthService) ensureProfile(ctx context.Context, account *models.Account) error {
	_, err := s.store.GetProfile(ctx, account.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	s.log.Warn("profile missing at login, initializing", zap.String("user_id", account.ID))
	err = s.store.CreateProfile(ctx, models.NewProfile(account.ID, account.Email))
	if err != nil && !errors.Is(err, store.ErrDuplicate) {
		return fmt.Errorf("failed to initialize profile: %w", err)
	}
	return nil
}

// Logout revokes the session token until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, claims *types.TokenClaims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *AuthService) issue(account *models.Account) (*Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: account.ID,
		Email:  account.Email,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		UserID:    account.ID,
		Email:     account.Email,
		ExpiresAt: expiresAt.UTC(),
	}, nil
}

// ValidateToken parses and verifies a session token
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.UserID == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}
