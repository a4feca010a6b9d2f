package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/garmently/garmently/constants"
	"github.com/garmently/garmently/logger"
)

const s3URLPrefix = "s3://"

// S3BlobStore implements BlobStore using AWS S3. Credentials come from the
// SDK default chain (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, roles).
type S3BlobStore struct {
	client *s3.Client
	bucket string
	region string
}

var _ BlobStore = (*S3BlobStore)(nil)

// NewS3BlobStore creates a new S3BlobStore using the provided context.
func NewS3BlobStore(ctx context.Context, bucket, region string) (*S3BlobStore, error) {
	if bucket == "" || region == "" {
		return nil, logger.Errorf("bucket and region must be non-empty")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3BlobStore{client: s3.NewFromConfig(cfg), bucket: bucket, region: region}, nil
}

func (s *S3BlobStore) Driver() string {
	return constants.MediaDriverS3
}

func (s *S3BlobStore) URL(name string) string {
	return fmt.Sprintf("%s%s/%s", s3URLPrefix, s.bucket, name)
}

// Put uploads data to S3 and returns its URL.
func (s *S3BlobStore) Put(ctx context.Context, data []byte, mime, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidName)
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mime),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return s.URL(name), nil
}

// Get retrieves data from S3 by URL.
func (s *S3BlobStore) Get(ctx context.Context, url string) ([]byte, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}
	if bucket != s.bucket {
		return nil, fmt.Errorf("requested bucket %s does not match configured bucket %s", bucket, s.bucket)
	}
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// parseS3URL splits s3://bucket/key.
func parseS3URL(url string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(url, s3URLPrefix)
	if !ok {
		return "", "", fmt.Errorf("invalid s3 URL: %s", url)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 URL: %s", url)
	}
	return bucket, key, nil
}
