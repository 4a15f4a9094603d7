package photos

import (
	"context"
	"time"

	"github.com/pageza/recipebook/backend/config"
)

// S3Storage presigns URLs against an AWS S3 bucket
type S3Storage struct {
	cfg *config.S3Config
}

// NewS3Storage wraps an S3 configuration
func NewS3Storage(cfg *config.S3Config) *S3Storage {
	return &S3Storage{cfg: cfg}
}

func (s *S3Storage) UploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return s.cfg.PresignUpload(ctx, key, expiry)
}

func (s *S3Storage) DownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return s.cfg.PresignDownload(ctx, key, expiry)
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	return s.cfg.DeleteObject(ctx, key)
}
