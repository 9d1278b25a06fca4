package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/rs/zerolog"

	"cv-insight/internal/config"
)

// MinIO archives uploaded CV originals so a report can always be traced back
// to the exact document it was generated from.
type MinIO struct {
	client *minio.Client
	cfg    *config.MinIOConfig
	logger zerolog.Logger
}

// NewMinIO connects, ensures the uploads bucket and applies the expiry
// lifecycle when configured.
func NewMinIO(cfg *config.MinIOConfig, logger zerolog.Logger) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("minio config must not be nil")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint must not be empty")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	m := &MinIO{client: client, cfg: cfg, logger: logger}
	if err := m.ensureBucketExists(context.Background(), cfg.UploadsBucket, cfg.Location); err != nil {
		return nil, err
	}
	if cfg.ExpireDays > 0 {
		if err := m.setupBucketLifecycle(context.Background(), cfg.UploadsBucket, cfg.ExpireDays); err != nil {
			// Lifecycle is best effort; local MinIO deployments often lack it.
			m.logger.Warn().Err(err).Str("bucket", cfg.UploadsBucket).Msg("could not apply bucket lifecycle")
		}
	}
	return m, nil
}

func (m *MinIO) ensureBucketExists(ctx context.Context, bucketName, location string) error {
	exists, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucketName, err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucketName, err)
	}
	m.logger.Info().Str("bucket", bucketName).Msg("created uploads bucket")
	return nil
}

func (m *MinIO) setupBucketLifecycle(ctx context.Context, bucketName string, expiryDays int) error {
	cfg := lifecycle.NewConfiguration()
	cfg.Rules = []lifecycle.Rule{
		{
			ID:     "expire-archived-uploads",
			Status: "Enabled",
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(expiryDays),
			},
		},
	}
	return m.client.SetBucketLifecycle(ctx, bucketName, cfg)
}

// UploadCV archives an uploaded PDF under <reportID>.pdf and returns the
// object key.
func (m *MinIO) UploadCV(ctx context.Context, reportID string, reader io.Reader, size int64) (string, error) {
	objectKey := fmt.Sprintf("cv/%s.pdf", reportID)

	info, err := m.client.PutObject(ctx, m.cfg.UploadsBucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("upload cv %s: %w", objectKey, err)
	}

	m.logger.Debug().
		Str("object", objectKey).
		Int64("size", info.Size).
		Msg("archived cv upload")
	return objectKey, nil
}

// DownloadCV fetches an archived original.
func (m *MinIO) DownloadCV(ctx context.Context, objectKey string) ([]byte, error) {
	object, err := m.client.GetObject(ctx, m.cfg.UploadsBucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", objectKey, err)
	}
	defer object.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, object); err != nil {
		return nil, fmt.Errorf("read object %s: %w", objectKey, err)
	}
	return buf.Bytes(), nil
}

// GetPresignedURL returns a temporary download link for an archived CV.
func (m *MinIO) GetPresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.cfg.UploadsBucket, objectKey, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", objectKey, err)
	}
	return u.String(), nil
}

// DeleteCV removes an archived original.
func (m *MinIO) DeleteCV(ctx context.Context, objectKey string) error {
	if err := m.client.RemoveObject(ctx, m.cfg.UploadsBucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", objectKey, err)
	}
	return nil
}
