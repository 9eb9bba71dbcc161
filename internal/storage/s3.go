package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store writes blobs to an S3-compatible bucket (AWS S3 or MinIO).
// Path-style addressing is used so MinIO endpoints work without DNS
// bucket tricks.
type S3Store struct {
	uploader    *manager.Uploader
	bucket      string
	endpointURL string
}

// NewS3Store builds a store for the given endpoint and static credentials.
func NewS3Store(ctx context.Context, endpoint, accessKey, secretKey, bucket, region string, useSSL bool) (*S3Store, error) {
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	endpointURL := fmt.Sprintf("%s://%s", scheme, endpoint)

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("loading s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpointURL)
		o.UsePathStyle = true
	})
	return &S3Store{
		uploader:    manager.NewUploader(client),
		bucket:      bucket,
		endpointURL: endpointURL,
	}, nil
}

// Put streams the blob to the bucket under the given key.
func (s *S3Store) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	return nil
}

// URL returns the path-style object URL.
func (s *S3Store) URL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.endpointURL, s.bucket, key)
}
