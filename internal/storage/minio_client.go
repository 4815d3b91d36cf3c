package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"contentplanner/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage holds post thumbnails.
type Storage interface {
	// UploadImage stores the object and returns its public URL.
	UploadImage(ctx context.Context, objectName string, file io.Reader, size int64, contentType string) (string, error)
	DeleteImage(ctx context.Context, objectName string) error
}

type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

var _ Storage = (*MinIOClient)(nil)

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	if cfg.MinIO.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.MinIO.AccessKey == "" || cfg.MinIO.SecretKey == "" {
		return nil, fmt.Errorf("minio access key and secret key are required")
	}

	mc, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinIOClient{
		client:    mc,
		bucket:    cfg.MinIO.BucketName,
		publicURL: publicBaseURL(cfg.MinIO),
	}, nil
}

// publicBaseURL is the prefix thumbnail URLs are built from. MINIO_PUBLIC_URL
// wins; otherwise the endpoint is used with the scheme implied by UseSSL.
func publicBaseURL(cfg config.MinIO) string {
	if cfg.PublicURL != "" {
		return strings.TrimSuffix(cfg.PublicURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
}

func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

func (m *MinIOClient) UploadImage(ctx context.Context, objectName string, file io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := m.client.PutObject(ctx, m.bucket, objectName, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}

	return m.objectURL(objectName), nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("delete %s: %w", objectName, err)
	}
	return nil
}

func (m *MinIOClient) objectURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", m.publicURL, m.bucket, objectName)
}
