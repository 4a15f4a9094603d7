package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
)

func TestGetProfileNotFound(t *testing.T) {
	s, hub := setupStore(t)
	profiles := service.NewProfileService(s, hub, nopLogger)

	_, err := profiles.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, service.ErrProfileNotFound)
}

func TestSaveProfileKeepsFavorites(t *testing.T) {
	s, hub := setupStore(t)
	profiles := service.NewProfileService(s, hub, nopLogger)
	favorites := service.NewFavoriteService(s, hub, nopLogger)
	ctx := context.Background()

	require.NoError(t, s.CreateProfile(ctx, models.NewProfile("u1", "a@example.com")))
	_, _, err := favorites.ToggleFavorite(ctx, "u1", "r1")
	require.NoError(t, err)

	saved, err := profiles.SaveProfile(ctx, "u1", "a@example.com", &types.UpdateProfileRequest{
		Name:            "Ada",
		DateOfBirth:     "10/12/1815",
		FavoriteCuisine: "Italian",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", saved.Name)
	assert.Equal(t, "a@example.com", saved.Email)

	got, err := profiles.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "10/12/1815", got.DateOfBirth)
	assert.Equal(t, "Italian", got.FavoriteCuisine)
	assert.Equal(t, models.StringArray{"r1"}, got.Favorites)
}

func TestWatchProfile(t *testing.T) {
	s, hub := setupStore(t)
	profiles := service.NewProfileService(s, hub, nopLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := profiles.WatchProfile(ctx, "u1")
	require.NoError(t, err)

	first := nextMatching(t, stream, func(types.ProfileSnapshot) bool { return true })
	assert.False(t, first.Found)

	_, err = profiles.SaveProfile(ctx, "u1", "a@example.com", &types.UpdateProfileRequest{Name: "Ada"})
	require.NoError(t, err)

	next := nextMatching(t, stream, func(s types.ProfileSnapshot) bool { return s.Found })
	assert.Equal(t, "Ada", next.Profile.Name)

	cancel()
	for range stream {
	}
}
