// Package store defines the document store the recipe book persists to.
// Two implementations exist: gormstore (PostgreSQL or SQLite) and
// mongostore (MongoDB).
package store

import (
	"context"
	"errors"

	"github.com/pageza/recipebook/backend/internal/models"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique key already exists.
	ErrDuplicate = errors.New("document already exists")
)

// AccountStore persists identity accounts.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// ProfileStore persists users/{uid} documents.
type ProfileStore interface {
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	CreateProfile(ctx context.Context, profile *models.UserProfile) error
	// MergeProfile writes fields onto the profile, creating the document if
	// it does not exist. Favorites are left untouched.
	MergeProfile(ctx context.Context, uid string, fields models.ProfileFields) (*models.UserProfile, error)
	// ToggleFavorite atomically adds recipeID to the favorites if absent or
	// removes it if present, creating the document if needed.
	ToggleFavorite(ctx context.Context, uid, recipeID string) (models.StringArray, bool, error)
	// RemoveFavorite atomically removes recipeID from the favorites. A
	// missing document is not an error.
	RemoveFavorite(ctx context.Context, uid, recipeID string) (models.StringArray, bool, error)
}

// RecipeStore persists recipes/{id} documents.
type RecipeStore interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	// ReplaceRecipe overwrites every content field of an existing recipe.
	ReplaceRecipe(ctx context.Context, recipe *models.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
	// ListRecipes returns every recipe ordered by creation time, then id.
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
}

// Store is the full document store.
type Store interface {
	AccountStore
	ProfileStore
	RecipeStore
	Ping(ctx context.Context) error
	Close() error
}
