package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pageza/recipebook/backend/internal/photos"
	"github.com/pageza/recipebook/backend/internal/store"
	"github.com/pageza/recipebook/backend/internal/types"
)

// ErrPhotosDisabled is returned when no photo storage is configured
var ErrPhotosDisabled = errors.New("recipe photos are not enabled")

// PhotoService hands out presigned URLs for recipe photos
type PhotoService struct {
	storage photos.Storage
	recipes store.RecipeStore
	expiry  time.Duration
}

var _ IPhotoService = (*PhotoService)(nil)

// NewPhotoService creates a new PhotoService. storage may be nil.
func NewPhotoService(storage photos.Storage, recipes store.RecipeStore, expiry time.Duration) *PhotoService {
	return &PhotoService{storage: storage, recipes: recipes, expiry: expiry}
}

// UploadURL returns a presigned PUT URL for the recipe's photo
func (s *PhotoService) UploadURL(ctx context.Context, recipeID string) (*types.PhotoURLResponse, error) {
	if s.storage == nil {
		return nil, ErrPhotosDisabled
	}
	return s.presign(ctx, recipeID, http.MethodPut, s.storage.UploadURL)
}

// DownloadURL returns a presigned GET URL for the recipe's photo
func (s *PhotoService) DownloadURL(ctx context.Context, recipeID string) (*types.PhotoURLResponse, error) {
	if s.storage == nil {
		return nil, ErrPhotosDisabled
	}
	return s.presign(ctx, recipeID, http.MethodGet, s.storage.DownloadURL)
}

func (s *PhotoService) presign(ctx context.Context, recipeID, method string, sign func(context.Context, string, time.Duration) (string, error)) (*types.PhotoURLResponse, error) {
	if _, err := s.recipes.GetRecipe(ctx, recipeID); err != nil {
		return nil, recipeNotFound(err)
	}

	url, err := sign(ctx, photos.ObjectKey(recipeID), s.expiry)
	if err != nil {
		return nil, err
	}
	return &types.PhotoURLResponse{
		URL:       url,
		Method:    method,
		ExpiresAt: time.Now().Add(s.expiry).UTC(),
	}, nil
}
