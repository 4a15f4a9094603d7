package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
)

// MockRecipeService is a mock implementation of the IRecipeService interface
type MockRecipeService struct {
	mock.Mock
}

var _ service.IRecipeService = (*MockRecipeService)(nil)

func (m *MockRecipeService) AddRecipe(ctx context.Context, fields models.RecipeFields) (*models.Recipe, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, uid, id string) (*types.RecipeDetail, error) {
	args := m.Called(ctx, uid, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeDetail), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, id string, fields models.RecipeFields) (*models.Recipe, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, uid, id string) ([]string, error) {
	args := m.Called(ctx, uid, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, uid string, favoritesOnly bool) (*types.RecipeListSnapshot, error) {
	args := m.Called(ctx, uid, favoritesOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeListSnapshot), args.Error(1)
}

func (m *MockRecipeService) WatchRecipes(ctx context.Context, uid string, favoritesOnly bool) (<-chan types.RecipeListSnapshot, error) {
	args := m.Called(ctx, uid, favoritesOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan types.RecipeListSnapshot), args.Error(1)
}

func (m *MockRecipeService) WatchRecipe(ctx context.Context, uid, id string) (<-chan types.RecipeSnapshot, error) {
	args := m.Called(ctx, uid, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan types.RecipeSnapshot), args.Error(1)
}

// MockFavoriteService is a mock implementation of the IFavoriteService interface
type MockFavoriteService struct {
	mock.Mock
}

var _ service.IFavoriteService = (*MockFavoriteService)(nil)

func (m *MockFavoriteService) ToggleFavorite(ctx context.Context, uid, recipeID string) ([]string, bool, error) {
	args := m.Called(ctx, uid, recipeID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]string), args.Bool(1), args.Error(2)
}

func (m *MockFavoriteService) Favorites(ctx context.Context, uid string) ([]string, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
