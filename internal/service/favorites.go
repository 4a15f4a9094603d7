package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/internal/realtime"
	"github.com/pageza/recipebook/backend/internal/store"
)

// FavoriteService manages the favorites array of users/{uid}
type FavoriteService struct {
	store  store.ProfileStore
	broker realtime.Broker
	log    *zap.Logger
}

var _ IFavoriteService = (*FavoriteService)(nil)

// NewFavoriteService creates a new FavoriteService instance
func NewFavoriteService(s store.ProfileStore, broker realtime.Broker, log *zap.Logger) *FavoriteService {
	return &FavoriteService{store: s, broker: broker, log: log}
}

// ToggleFavorite adds recipeID to the favorites if absent and removes it if
// present. It returns the updated set and whether recipeID is now a favorite.
func (s *FavoriteService) ToggleFavorite(ctx context.Context, uid, recipeID string) ([]string, bool, error) {
	favorites, present, err := s.store.ToggleFavorite(ctx, uid, recipeID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	publish(ctx, s.broker, s.log, realtime.Event{Topic: realtime.UserTopic(uid), ID: recipeID, Op: realtime.OpUpdated})
	return favorites, present, nil
}

// Favorites returns the user's favorite recipe ids. A missing profile has
// no favorites.
func (s *FavoriteService) Favorites(ctx context.Context, uid string) ([]string, error) {
	return loadFavorites(ctx, s.store, uid)
}

func loadFavorites(ctx context.Context, profiles store.ProfileStore, uid string) ([]string, error) {
	profile, err := profiles.GetProfile(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return profile.Favorites, nil
}
