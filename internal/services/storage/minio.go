package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/phambaophuc/image-task/internal/config"
	"github.com/phambaophuc/image-task/pkg/utils"
)

// MinioMirror copies processed files into an S3-compatible bucket.
type MinioMirror struct {
	client     *minio.Client
	bucketName string
}

// NewMinioMirror connects to the endpoint and creates the bucket when missing.
func NewMinioMirror(ctx context.Context, cfg config.S3Config) (*MinioMirror, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioMirror{
		client:     client,
		bucketName: cfg.Bucket,
	}, nil
}

func (m *MinioMirror) Name() string {
	return "s3"
}

func (m *MinioMirror) Upload(ctx context.Context, localPath string) (string, error) {
	name := filepath.Base(localPath)
	key := utils.GenerateStorageKey(name)

	_, err := m.client.FPutObject(ctx, m.bucketName, key, localPath, minio.PutObjectOptions{
		ContentType: utils.ContentType(name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", m.client.EndpointURL(), m.bucketName, key), nil
}

func (m *MinioMirror) HealthCheck(ctx context.Context) string {
	if _, err := m.client.BucketExists(ctx, m.bucketName); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}
