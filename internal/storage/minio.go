package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Rahanur19/youStream/internal/config"
)

// MinioStore writes to a MinIO bucket, used for self-hosted and local setups.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects and creates the bucket if it does not exist yet.
func NewMinioStore(ctx context.Context, cfg config.StorageConfig) (*MinioStore, error) {
	if cfg.Bucket == "" || cfg.MinioEndpoint == "" {
		return nil, fmt.Errorf("missing MinIO storage configuration")
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create minio client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to check minio bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.WithMessage(err, "failed to create minio bucket")
		}
		logrus.WithField("bucket", cfg.Bucket).Info("[Storage] Created MinIO bucket")
	}

	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, body []byte, contentType, cacheControl string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: cacheControl,
	})
	if err != nil {
		return errors.WithMessagef(err, "failed to upload %s to minio", key)
	}
	return nil
}

func (s *MinioStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.WithMessagef(err, "failed to delete %s from minio", key)
	}
	return nil
}
