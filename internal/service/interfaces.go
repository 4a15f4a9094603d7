package service

import (
	"context"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, uid, email string, req *types.UpdateProfileRequest) (*models.UserProfile, error)
	WatchProfile(ctx context.Context, uid string) (<-chan types.ProfileSnapshot, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	AddRecipe(ctx context.Context, fields models.RecipeFields) (*models.Recipe, error)
	GetRecipe(ctx context.Context, uid, id string) (*types.RecipeDetail, error)
	UpdateRecipe(ctx context.Context, id string, fields models.RecipeFields) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, uid, id string) ([]string, error)
	ListRecipes(ctx context.Context, uid string, favoritesOnly bool) (*types.RecipeListSnapshot, error)
	WatchRecipes(ctx context.Context, uid string, favoritesOnly bool) (<-chan types.RecipeListSnapshot, error)
	WatchRecipe(ctx context.Context, uid, id string) (<-chan types.RecipeSnapshot, error)
}

// IFavoriteService defines the interface for favorite operations
type IFavoriteService interface {
	ToggleFavorite(ctx context.Context, uid, recipeID string) ([]string, bool, error)
	Favorites(ctx context.Context, uid string) ([]string, error)
}

// IPhotoService defines the interface for recipe photo URLs
type IPhotoService interface {
	UploadURL(ctx context.Context, recipeID string) (*types.PhotoURLResponse, error)
	DownloadURL(ctx context.Context, recipeID string) (*types.PhotoURLResponse, error)
}
