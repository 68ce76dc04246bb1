// Package storage provides object storage for archiving imported files.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	infraconfig "github.com/fintech/wcm/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Archiver stores a copy of an imported file under the given key.
// Implementations must not be load-bearing for imports: callers treat
// archival failure as a warning.
type Archiver interface {
	Archive(ctx context.Context, key string, body io.Reader, contentType string) error
}

// S3Archiver implements Archiver using AWS S3 SDK v2.
// It is compatible with any S3-compatible storage (AWS S3, MinIO, etc.)
type S3Archiver struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// NewS3Archiver creates an archiver from configuration
func NewS3Archiver(cfg *infraconfig.StorageConfig, logger *zap.Logger) (*S3Archiver, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint
			}
			if _, err := url.Parse(endpoint); err == nil {
				o.BaseEndpoint = aws.String(endpoint)
			}
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Archiver{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.Named("storage"),
	}, nil
}

// Archive uploads the body under the given key
func (a *S3Archiver) Archive(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", key, err)
	}
	a.logger.Debug("archived import file",
		zap.String("bucket", a.bucket),
		zap.String("key", key),
	)
	return nil
}

// NopArchiver discards every archive request. Used when no bucket is
// configured.
type NopArchiver struct{}

// Archive implements Archiver by doing nothing
func (NopArchiver) Archive(ctx context.Context, key string, body io.Reader, contentType string) error {
	return nil
}
