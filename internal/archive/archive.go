// Package archive keeps a copy of every imported report workbook in an
// S3-compatible bucket, keyed by import date.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"

	"github.com/refurbops/opsdash/internal/config"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Store uploads workbooks to one bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// New connects to the configured bucket, creating it when missing. Returns
// (nil, nil) when no endpoint is configured, which disables archiving.
func New(ctx context.Context, cfg *config.ArchiveConfig) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to archive storage: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create archive bucket: %w", err)
		}
	}

	log.Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.Bucket).Msg("report archive enabled")
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// Save stores one workbook under reports/<date>/<filename>. Re-importing the
// same file on the same day overwrites the previous copy.
func (s *Store) Save(ctx context.Context, filename string, data []byte) error {
	key := fmt.Sprintf("reports/%s/%s", time.Now().UTC().Format("2006-01-02"), filename)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: xlsxContentType,
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", filename, err)
	}
	return nil
}
