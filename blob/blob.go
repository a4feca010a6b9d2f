package blob

import (
	"context"
	"errors"

	"github.com/garmently/garmently/config"
	"github.com/garmently/garmently/constants"
	"github.com/garmently/garmently/logger"
)

// ErrInvalidName is returned for object names that would escape the store.
var ErrInvalidName = errors.New("invalid object name")

// BlobStore is the interface for pluggable media storage backends.
type BlobStore interface {
	Driver() string
	// URL returns the location Put would report for name.
	URL(name string) string
	Put(ctx context.Context, data []byte, mime, name string) (url string, err error)
	Get(ctx context.Context, url string) ([]byte, error)
}

// See filesystem.go and s3.go for driver implementations.

// NewDefaultBlobStore returns the BlobStore selected by cfg.
func NewDefaultBlobStore(ctx context.Context, cfg config.MediaConfig) (BlobStore, error) {
	switch cfg.Driver {
	case "", constants.MediaDriverFilesystem:
		return NewFilesystemBlobStore(cfg.Root)
	case constants.MediaDriverS3:
		return NewS3BlobStore(ctx, cfg.Bucket, cfg.Region)
	default:
		return nil, logger.Errorf("unsupported blob driver: %s", cfg.Driver)
	}
}
