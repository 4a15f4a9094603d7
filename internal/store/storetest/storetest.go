// Package storetest holds behaviour tests shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/store"
)

// Run exercises s. newStore must return an empty store each call.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("Accounts", func(t *testing.T) { testAccounts(t, newStore(t)) })
	t.Run("Profiles", func(t *testing.T) { testProfiles(t, newStore(t)) })
	t.Run("ToggleFavorite", func(t *testing.T) { testToggleFavorite(t, newStore(t)) })
	t.Run("ConcurrentToggles", func(t *testing.T) { testConcurrentToggles(t, newStore(t)) })
	t.Run("RemoveFavorite", func(t *testing.T) { testRemoveFavorite(t, newStore(t)) })
	t.Run("Recipes", func(t *testing.T) { testRecipes(t, newStore(t)) })
	t.Run("ListOrder", func(t *testing.T) { testListOrder(t, newStore(t)) })
}

func testAccounts(t *testing.T, s store.Store) {
	ctx := context.Background()

	account := &models.Account{Email: "cook@example.com", PasswordHash: "hash"}
	require.NoError(t, s.CreateAccount(ctx, account))
	assert.NotEmpty(t, account.ID)

	got, err := s.GetAccountByEmail(ctx, "cook@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	err = s.CreateAccount(ctx, &models.Account{Email: "cook@example.com", PasswordHash: "other"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = s.GetAccountByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeleteAccount(ctx, account.ID))
	_, err = s.GetAccountByEmail(ctx, "cook@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testProfiles(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.CreateProfile(ctx, models.NewProfile("u1", "a@example.com")))
	p, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", p.Email)
	assert.NotNil(t, p.Favorites)
	assert.Empty(t, p.Favorites)

	_, _, err = s.ToggleFavorite(ctx, "u1", "r1")
	require.NoError(t, err)

	merged, err := s.MergeProfile(ctx, "u1", models.ProfileFields{
		Email:           "a@example.com",
		Name:            "Ada",
		DateOfBirth:     "1815-12-10",
		FavoriteCuisine: "French",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", merged.Name)
	assert.Equal(t, "French", merged.FavoriteCuisine)
	assert.Equal(t, models.StringArray{"r1"}, merged.Favorites, "saving a profile keeps favorites")

	// merge onto a missing document creates it
	created, err := s.MergeProfile(ctx, "u2", models.ProfileFields{Email: "b@example.com", Name: "Bo"})
	require.NoError(t, err)
	assert.Equal(t, "Bo", created.Name)
	assert.NotNil(t, created.Favorites)
	assert.Empty(t, created.Favorites)
}

func testToggleFavorite(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateProfile(ctx, models.NewProfile("u1", "a@example.com")))

	favs, present, err := s.ToggleFavorite(ctx, "u1", "r1")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, models.StringArray{"r1"}, favs)

	favs, present, err = s.ToggleFavorite(ctx, "u1", "r2")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, models.StringArray{"r1", "r2"}, favs)

	favs, present, err = s.ToggleFavorite(ctx, "u1", "r1")
	require.NoError(t, err)
	assert.False(t, present)
	assert.Equal(t, models.StringArray{"r2"}, favs)

	p, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StringArray{"r2"}, p.Favorites)

	// toggling without a profile creates one
	favs, present, err = s.ToggleFavorite(ctx, "ghost", "r9")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, models.StringArray{"r9"}, favs)
}

// An even number of toggles of the same id must leave it absent.
func testConcurrentToggles(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateProfile(ctx, models.NewProfile("u1", "a@example.com")))

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.ToggleFavorite(ctx, "u1", "r1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	p, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, p.Favorites)
}

func testRemoveFavorite(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateProfile(ctx, models.NewProfile("u1", "a@example.com")))
	_, _, err := s.ToggleFavorite(ctx, "u1", "r1")
	require.NoError(t, err)
	_, _, err = s.ToggleFavorite(ctx, "u1", "r2")
	require.NoError(t, err)

	favs, removed, err := s.RemoveFavorite(ctx, "u1", "r1")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, models.StringArray{"r2"}, favs)

	favs, removed, err = s.RemoveFavorite(ctx, "u1", "nope")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, models.StringArray{"r2"}, favs)

	favs, removed, err = s.RemoveFavorite(ctx, "missing-user", "r2")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Empty(t, favs)
}

func testRecipes(t *testing.T, s store.Store) {
	ctx := context.Background()

	r := &models.Recipe{
		Name:            "Pancakes",
		PreparationTime: "20 min",
		Difficulty:      "easy",
		Ingredients:     "flour, milk, eggs",
		Directions:      "mix and fry",
	}
	require.NoError(t, s.CreateRecipe(ctx, r))
	require.NotEmpty(t, r.ID)

	got, err := s.GetRecipe(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Name)
	assert.Equal(t, "flour, milk, eggs", got.Ingredients)

	edit := &models.Recipe{ID: r.ID}
	models.RecipeFields{Name: "Crepes", Directions: "thinner"}.Apply(edit)
	require.NoError(t, s.ReplaceRecipe(ctx, edit))

	got, err = s.GetRecipe(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Crepes", got.Name)
	assert.Equal(t, "thinner", got.Directions)
	assert.Empty(t, got.PreparationTime)
	assert.Empty(t, got.Difficulty)
	assert.Empty(t, got.Ingredients)

	err = s.ReplaceRecipe(ctx, &models.Recipe{ID: "does-not-exist", Name: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeleteRecipe(ctx, r.ID))
	_, err = s.GetRecipe(ctx, r.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteRecipe(ctx, r.ID), store.ErrNotFound)
}

func testListOrder(t *testing.T, s store.Store) {
	ctx := context.Background()

	list, err := s.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	names := []string{"first", "second", "third"}
	for _, name := range names {
		require.NoError(t, s.CreateRecipe(ctx, &models.Recipe{Name: name}))
		time.Sleep(5 * time.Millisecond)
	}

	list, err = s.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, name := range names {
		assert.Equal(t, name, list[i].Name)
	}
}
