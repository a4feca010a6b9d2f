package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/garmently/garmently/constants"
	"github.com/garmently/garmently/logger"
)

const fileURLPrefix = "file://"

// FilesystemBlobStore implements BlobStore using the local filesystem.
type FilesystemBlobStore struct {
	dir string
}

var _ BlobStore = (*FilesystemBlobStore)(nil)

// NewFilesystemBlobStore creates a new FilesystemBlobStore rooted at dir.
// The directory is created on first write.
func NewFilesystemBlobStore(dir string) (*FilesystemBlobStore, error) {
	if dir == "" {
		return nil, logger.Errorf("filesystem blob store requires a directory")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media directory %q: %w", dir, err)
	}
	return &FilesystemBlobStore{dir: abs}, nil
}

func (f *FilesystemBlobStore) Driver() string {
	return constants.MediaDriverFilesystem
}

func (f *FilesystemBlobStore) URL(name string) string {
	return fileURLPrefix + filepath.Join(f.dir, filepath.FromSlash(name))
}

// Put stores the blob as a file in the directory. Returns a file:// URL.
func (f *FilesystemBlobStore) Put(ctx context.Context, data []byte, mime, name string) (string, error) {
	if name == "" {
		name = fmt.Sprintf("blob-%d", time.Now().UnixNano())
	}
	path, err := f.resolve(filepath.Join(f.dir, filepath.FromSlash(name)))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	// Write atomically
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", err
	}
	return fileURLPrefix + path, nil
}

// Get retrieves the blob from a file:// URL inside the store directory.
func (f *FilesystemBlobStore) Get(ctx context.Context, url string) ([]byte, error) {
	if !strings.HasPrefix(url, fileURLPrefix) {
		return nil, logger.Errorf("invalid file URL: %s", url)
	}
	path, err := f.resolve(url[len(fileURLPrefix):])
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (f *FilesystemBlobStore) resolve(path string) (string, error) {
	clean := filepath.Clean(path)
	rel, err := filepath.Rel(f.dir, clean)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, path)
	}
	return clean, nil
}
