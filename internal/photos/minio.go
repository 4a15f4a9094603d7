package photos

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
)

// minioAPI is the subset of *minio.Client used here.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// MinioStorage presigns URLs against a MinIO (or any S3-compatible) bucket
type MinioStorage struct {
	api    minioAPI
	bucket string
}

// NewMinioStorage creates the storage and makes sure the bucket exists
func NewMinioStorage(ctx context.Context, client *minio.Client, bucket string) (*MinioStorage, error) {
	return newMinioStorage(ctx, client, bucket)
}

func newMinioStorage(ctx context.Context, api minioAPI, bucket string) (*MinioStorage, error) {
	s := &MinioStorage{api: api, bucket: bucket}

	exists, err := api.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return s, nil
}

func (s *MinioStorage) UploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.api.PresignedPutObject(ctx, s.bucket, key, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return u.String(), nil
}

func (s *MinioStorage) DownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.api.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return u.String(), nil
}

func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
