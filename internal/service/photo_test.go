package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/service"
)

type fakePhotos struct {
	deleted []string
}

func (f *fakePhotos) UploadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://photos.test/" + key + "?put", nil
}

func (f *fakePhotos) DownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://photos.test/" + key + "?get", nil
}

func (f *fakePhotos) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func TestPhotoURLs(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	photos := service.NewPhotoService(&fakePhotos{}, s, 15*time.Minute)

	r := &models.Recipe{Name: "pie"}
	require.NoError(t, s.CreateRecipe(ctx, r))

	up, err := photos.UploadURL(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, up.Method)
	assert.Equal(t, "https://photos.test/recipes/"+r.ID+"/photo?put", up.URL)

	down, err := photos.DownloadURL(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, down.Method)

	_, err = photos.UploadURL(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestPhotosDisabled(t *testing.T) {
	s, _ := setupStore(t)
	photos := service.NewPhotoService(nil, s, time.Minute)

	_, err := photos.UploadURL(context.Background(), "r1")
	assert.ErrorIs(t, err, service.ErrPhotosDisabled)
	_, err = photos.DownloadURL(context.Background(), "r1")
	assert.ErrorIs(t, err, service.ErrPhotosDisabled)
}

func TestDeleteRecipeRemovesPhoto(t *testing.T) {
	s, hub := setupStore(t)
	storage := &fakePhotos{}
	recipes := service.NewRecipeService(s, hub, storage, nopLogger)
	ctx := context.Background()

	r, err := recipes.AddRecipe(ctx, models.RecipeFields{Name: "pie"})
	require.NoError(t, err)
	_, err = recipes.DeleteRecipe(ctx, "u1", r.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"recipes/" + r.ID + "/photo"}, storage.deleted)
}
