package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/photos"
	"github.com/pageza/recipebook/backend/internal/realtime"
	"github.com/pageza/recipebook/backend/internal/store"
	"github.com/pageza/recipebook/backend/internal/types"
)

// ErrRecipeNotFound is returned when recipes/{id} does not exist
var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeService handles recipe operations
type RecipeService struct {
	store  store.Store
	broker realtime.Broker
	photos photos.Storage
	log    *zap.Logger
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance. photoStorage may be
// nil when photos are disabled.
func NewRecipeService(s store.Store, broker realtime.Broker, photoStorage photos.Storage, log *zap.Logger) *RecipeService {
	return &RecipeService{
		store:  s,
		broker: broker,
		photos: photoStorage,
		log:    log,
	}
}

func recipeNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrRecipeNotFound
	}
	return err
}

// AddRecipe creates a new recipe
func (s *RecipeService) AddRecipe(ctx context.Context, fields models.RecipeFields) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	fields.Apply(recipe)
	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	publish(ctx, s.broker, s.log, realtime.Event{Topic: realtime.TopicRecipes, ID: recipe.ID, Op: realtime.OpCreated})
	return recipe, nil
}

// GetRecipe retrieves a recipe with the caller's favorite flag
func (s *RecipeService) GetRecipe(ctx context.Context, uid, id string) (*types.RecipeDetail, error) {
	recipe, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, recipeNotFound(err)
	}

	favorites, err := loadFavorites(ctx, s.store, uid)
	if err != nil {
		return nil, err
	}
	return &types.RecipeDetail{
		Recipe:   *recipe,
		Favorite: models.StringArray(favorites).Contains(id),
	}, nil
}

// UpdateRecipe replaces every content field of an existing recipe
func (s *RecipeService) UpdateRecipe(ctx context.Context, id string, fields models.RecipeFields) (*models.Recipe, error) {
	recipe := &models.Recipe{ID: id}
	fields.Apply(recipe)
	if err := s.store.ReplaceRecipe(ctx, recipe); err != nil {
		return nil, recipeNotFound(err)
	}

	publish(ctx, s.broker, s.log, realtime.Event{Topic: realtime.TopicRecipes, ID: id, Op: realtime.OpUpdated})

	updated, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, recipeNotFound(err)
	}
	return updated, nil
}

// DeleteRecipe deletes a recipe and drops it from the caller's favorites.
// Other users' favorites may keep the id; list filtering ignores it. The
// favorite cleanup and photo removal are best effort. The returned set is
// the caller's favorites after cleanup, or nil if the cleanup failed.
func (s *RecipeService) DeleteRecipe(ctx context.Context, uid, id string) ([]string, error) {
	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		return nil, recipeNotFound(err)
	}
	publish(ctx, s.broker, s.log, realtime.Event{Topic: realtime.TopicRecipes, ID: id, Op: realtime.OpDeleted})

	if s.photos != nil {
		if err := s.photos.Delete(ctx, photos.ObjectKey(id)); err != nil {
			s.log.Warn("failed to delete recipe photo", zap.String("recipe_id", id), zap.Error(err))
		}
	}

	favorites, removed, err := s.store.RemoveFavorite(ctx, uid, id)
	if err != nil {
		s.log.Error("failed to remove deleted recipe from favorites",
			zap.String("user_id", uid),
			zap.String("recipe_id", id),
			zap.Error(err))
		return nil, nil
	}
	if removed {
		publish(ctx, s.broker, s.log, realtime.Event{Topic: realtime.UserTopic(uid), ID: id, Op: realtime.OpUpdated})
	}
	return favorites, nil
}

// ListRecipes returns every recipe, or only the caller's favorites, in list
// order, along with the caller's favorite set
func (s *RecipeService) ListRecipes(ctx context.Context, uid string, favoritesOnly bool) (*types.RecipeListSnapshot, error) {
	recipes, err := s.store.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	favorites, err := loadFavorites(ctx, s.store, uid)
	if err != nil {
		return nil, err
	}

	if favoritesOnly {
		recipes = models.FilterFavorites(recipes, favorites)
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return &types.RecipeListSnapshot{Recipes: recipes, Favorites: favorites}, nil
}

// WatchRecipes streams the list after every recipe write and every change
// to the caller's favorites
func (s *RecipeService) WatchRecipes(ctx context.Context, uid string, favoritesOnly bool) (<-chan types.RecipeListSnapshot, error) {
	topics := []string{realtime.TopicRecipes, realtime.UserTopic(uid)}
	return watch(ctx, s.broker, s.log, topics, func(ctx context.Context) (types.RecipeListSnapshot, error) {
		snapshot, err := s.ListRecipes(ctx, uid, favoritesOnly)
		if err != nil {
			return types.RecipeListSnapshot{}, err
		}
		return *snapshot, nil
	})
}

// WatchRecipe streams one recipe and the caller's favorite flag for it
func (s *RecipeService) WatchRecipe(ctx context.Context, uid, id string) (<-chan types.RecipeSnapshot, error) {
	topics := []string{realtime.TopicRecipes, realtime.UserTopic(uid)}
	return watch(ctx, s.broker, s.log, topics, func(ctx context.Context) (types.RecipeSnapshot, error) {
		detail, err := s.GetRecipe(ctx, uid, id)
		if errors.Is(err, ErrRecipeNotFound) {
			return types.RecipeSnapshot{Found: false}, nil
		}
		if err != nil {
			return types.RecipeSnapshot{}, err
		}
		return types.RecipeSnapshot{Found: true, Recipe: &detail.Recipe, Favorite: detail.Favorite}, nil
	})
}
