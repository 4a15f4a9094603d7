package photos

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebook/backend/config"
)

type fakeMinio struct {
	buckets map[string]bool
	removed []string
	failGet bool
}

func newFakeMinio() *fakeMinio {
	return &fakeMinio{buckets: map[string]bool{}}
}

func (f *fakeMinio) BucketExists(_ context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], nil
}

func (f *fakeMinio) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.buckets[bucket] = true
	return nil
}

func (f *fakeMinio) PresignedPutObject(_ context.Context, bucket, object string, expires time.Duration) (*url.URL, error) {
	return url.Parse(fmt.Sprintf("http://minio.test/%s/%s?op=put&ttl=%d", bucket, object, int(expires.Seconds())))
}

func (f *fakeMinio) PresignedGetObject(_ context.Context, bucket, object string, expires time.Duration, _ url.Values) (*url.URL, error) {
	if f.failGet {
		return nil, errors.New("boom")
	}
	return url.Parse(fmt.Sprintf("http://minio.test/%s/%s?op=get&ttl=%d", bucket, object, int(expires.Seconds())))
}

func (f *fakeMinio) RemoveObject(_ context.Context, _ string, object string, _ minio.RemoveObjectOptions) error {
	f.removed = append(f.removed, object)
	return nil
}

func TestMinioStorageCreatesBucket(t *testing.T) {
	api := newFakeMinio()
	_, err := newMinioStorage(context.Background(), api, "photos")
	require.NoError(t, err)
	assert.True(t, api.buckets["photos"])
}

func TestMinioStoragePresigns(t *testing.T) {
	api := newFakeMinio()
	s, err := newMinioStorage(context.Background(), api, "photos")
	require.NoError(t, err)
	ctx := context.Background()

	up, err := s.UploadURL(ctx, ObjectKey("r1"), 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://minio.test/photos/recipes/r1/photo?op=put&ttl=900", up)

	down, err := s.DownloadURL(ctx, ObjectKey("r1"), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://minio.test/photos/recipes/r1/photo?op=get&ttl=60", down)

	require.NoError(t, s.Delete(ctx, ObjectKey("r1")))
	assert.Equal(t, []string{"recipes/r1/photo"}, api.removed)

	api.failGet = true
	_, err = s.DownloadURL(ctx, ObjectKey("r1"), time.Minute)
	assert.Error(t, err)
}

func TestNewDisabled(t *testing.T) {
	s, err := New(context.Background(), config.Photos{})
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = New(context.Background(), config.Photos{Backend: "ftp"})
	assert.Error(t, err)
}
