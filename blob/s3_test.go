package blob

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestS3BlobStore(t *testing.T) *S3BlobStore {
	bucket := os.Getenv("S3_TEST_BUCKET")
	region := os.Getenv("S3_TEST_REGION")
	if bucket == "" || region == "" {
		t.Skip("S3_TEST_BUCKET or S3_TEST_REGION not set")
	}
	store, err := NewS3BlobStore(context.Background(), bucket, region)
	require.NoError(t, err)
	return store
}

func TestS3BlobStore_RoundTrip(t *testing.T) {
	store := newTestS3BlobStore(t)
	ctx := context.Background()

	url, err := store.Put(ctx, []byte("test-data"), "text/plain", "garmently-test/test.txt")
	require.NoError(t, err)
	got, err := store.Get(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "test-data", string(got))
}

func TestS3BlobStore_URL(t *testing.T) {
	store := &S3BlobStore{bucket: "garmently-media", region: "eu-west-1"}
	assert.Equal(t, "s3://garmently-media/garments/1.jpg", store.URL("garments/1.jpg"))
	assert.Equal(t, "s3", store.Driver())
}

func TestS3BlobStore_BucketMismatch(t *testing.T) {
	store := &S3BlobStore{bucket: "garmently-media", region: "eu-west-1"}
	_, err := store.Get(context.Background(), "s3://other-bucket/key")
	assert.Error(t, err)
}

func TestNewS3BlobStore_RequiresBucketAndRegion(t *testing.T) {
	_, err := NewS3BlobStore(context.Background(), "", "eu-west-1")
	assert.Error(t, err)
	_, err = NewS3BlobStore(context.Background(), "bucket", "")
	assert.Error(t, err)
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := parseS3URL("s3://bucket/path/to/key.png")
	require.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "path/to/key.png", key)

	for _, bad := range []string{"bucket/key", "s3://bucket", "s3:///key", "s3://bucket/"} {
		_, _, err := parseS3URL(bad)
		assert.Error(t, err, bad)
	}
}
