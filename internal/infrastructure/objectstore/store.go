package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/texforge/resumed/internal/infrastructure/config"
)

const (
	defaultRegion = "us-east-1"

	defaultConnectTimeout = 10 * time.Second

	contentTypePDF = "application/pdf"
)

// Store archives rendered PDFs in an S3-compatible bucket.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// Connect creates the minio client and checks the bucket.
//
// It performs the following setup:
//  1. Parses the endpoint (a scheme of https forces TLS)
//  2. Creates a client with static V4 credentials
//  3. Checks the bucket exists, creating it when create_bucket is set
//
// Parameters:
//   - ctx: Bounds the bucket check (capped at 10s)
//   - cfg: Object store configuration from config.yaml
//
// Returns:
//   - *Store: Ready for PutPDF
//   - error: ErrDisabled, ErrConnectionFailed or ErrBucketMissing
func Connect(ctx context.Context, cfg config.ObjectStoreConfig) (*Store, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	endpoint, secure := parseEndpoint(cfg.Endpoint, cfg.UseSSL)
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	s := &Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}

	checkCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	exists, err := client.BucketExists(checkCtx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	if exists {
		return s, nil
	}
	if !cfg.CreateBucket {
		return nil, fmt.Errorf("%w: %s", ErrBucketMissing, cfg.Bucket)
	}
	if err := client.MakeBucket(checkCtx, cfg.Bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return nil, fmt.Errorf("%w: creating bucket %s: %w", ErrConnectionFailed, cfg.Bucket, err)
	}
	return s, nil
}

// parseEndpoint accepts "host:port" or a URL. An https scheme forces TLS.
func parseEndpoint(raw string, useSSL bool) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw, useSSL
	}
	return u.Host, useSSL || u.Scheme == "https"
}

// Key returns the object key for name under the configured prefix.
func (s *Store) Key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// PutPDF uploads data as name (placed under the prefix) and returns its
// s3:// URL.
func (s *Store) PutPDF(ctx context.Context, name string, data []byte) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: object name is required", ErrUploadFailed)
	}
	key := s.Key(name)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentTypePDF,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUploadFailed, key, err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}

// HealthCheck verifies the bucket is still reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("objectstore health check failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrBucketMissing, s.bucket)
	}
	return nil
}

// Bucket returns the configured bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}
