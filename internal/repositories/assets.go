package repositories

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/unicorn-byte/emergency-card/internal/config"
	"github.com/unicorn-byte/emergency-card/internal/logger"
)

// Object storage for rendered card assets (the printable PDF). Optional:
// when no credentials are configured the card endpoints stream bytes
// directly instead.

var (
	assetClient *s3.Client
	assetBucket string
)

// InitAssetStore initializes the S3-compatible client used for card
// assets. Works against Cloudflare R2 via its account endpoint.
func InitAssetStore(cfg config.StorageConfig) error {
	assetBucket = cfg.BucketName
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}

	assetClient = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	logger.L.Info("Successfully initialized card asset store")
	return nil
}

// AssetStoreEnabled reports whether InitAssetStore has run.
func AssetStoreEnabled() bool {
	return assetClient != nil
}

// UploadCardAsset stores rendered card bytes under the given key.
func UploadCardAsset(ctx context.Context, key, contentType string, data []byte) error {
	_, err := assetClient.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(assetBucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

// GenerateAssetDownloadURL creates a presigned URL for downloading a
// stored card asset.
func GenerateAssetDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigner := s3.NewPresignClient(assetClient)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(assetBucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
