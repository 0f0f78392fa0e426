package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	internalConfig "github.com/imagedrop/imagedrop-backend/internal/config"
)

// S3MediaHost stores assets in an S3-compatible bucket (Cloudflare R2). The
// object key doubles as the asset id.
type S3MediaHost struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3MediaHost(cfg *internalConfig.Config) (*S3MediaHost, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.S3.AccountID),
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3MediaHost{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.S3.Bucket,
		publicURL: strings.TrimSuffix(cfg.S3.PublicURL, "/"),
	}, nil
}

func (s *S3MediaHost) UploadLarge(ctx context.Context, payload string) (*UploadResult, error) {
	data, err := decodeDataURI(payload)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}

	key := fmt.Sprintf("images/%s.jpg", uuid.NewString())

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("image/jpeg"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to bucket: %w", err)
	}

	return &UploadResult{
		SecureURL: s.publicURL + "/" + key,
		AssetID:   key,
	}, nil
}

func (s *S3MediaHost) Destroy(ctx context.Context, assetID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(assetID),
	})
	return err
}
