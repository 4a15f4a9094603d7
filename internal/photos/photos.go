// Package photos issues presigned URLs for recipe photos kept in an object
// store. The API never proxies image bytes; clients upload and download
// directly against the bucket.
package photos

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pageza/recipebook/backend/config"
)

// Storage presigns object URLs
type Storage interface {
	UploadURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	DownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// ObjectKey is the object key of a recipe's photo
func ObjectKey(recipeID string) string {
	return "recipes/" + recipeID + "/photo"
}

// New builds the configured storage backend. It returns nil when photos
// are disabled.
func New(ctx context.Context, cfg config.Photos) (Storage, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "s3":
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load S3 configuration: %w", err)
		}
		return NewS3Storage(s3cfg), nil
	case "minio":
		client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
			Secure: cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		return NewMinioStorage(ctx, client, cfg.Bucket)
	default:
		return nil, fmt.Errorf("unknown photo backend %q", cfg.Backend)
	}
}
