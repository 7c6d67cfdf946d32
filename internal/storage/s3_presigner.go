package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/spec-kit/filedrop/internal/config"
)

type s3Presigner struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

// NewS3Presigner builds a presigner backed by an S3-compatible endpoint.
func NewS3Presigner(cfg config.TransferConfig, ttl time.Duration) (Presigner, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("BUCKET_NAME not provided")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	return &s3Presigner{client: client, bucket: cfg.Bucket, ttl: ttl}, nil
}

func (p *s3Presigner) PresignUpload(ctx context.Context, key string, size int64) (string, error) {
	u, err := p.client.PresignedPutObject(ctx, p.bucket, key, p.ttl)
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}
	return u.String(), nil
}

func (p *s3Presigner) PresignDownload(ctx context.Context, key, filename, contentType string) (string, error) {
	reqParams := make(url.Values)
	reqParams.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", filename))
	reqParams.Set("response-content-type", contentType)

	u, err := p.client.PresignedGetObject(ctx, p.bucket, key, p.ttl, reqParams)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return u.String(), nil
}
