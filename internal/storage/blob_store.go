package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mirna-salem/petprofiles/internal/config"
)

var (
	// ErrObjectNotFound is returned when the key does not exist in the container.
	ErrObjectNotFound = errors.New("object not found")
	// ErrUnavailable is returned when the object store cannot be reached.
	ErrUnavailable = errors.New("object store unavailable")
	// ErrSigningUnavailable is returned when no signing credential is configured.
	ErrSigningUnavailable = errors.New("signed urls unavailable")
)

// BlobStore is a thin contract over an object-storage container. It never
// retries; retry policy belongs to the underlying SDK.
type BlobStore interface {
	// EnsureContainer creates the container if it does not already exist.
	EnsureContainer(ctx context.Context) error
	// Upload writes the object, overwriting any existing one with the same key.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Ping(ctx context.Context) error
}

// New builds the blob store selected by cfg.Provider.
func New(ctx context.Context, cfg config.StorageConfig) (BlobStore, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3Store(cfg.Container, cfg.S3)
	case "gcs":
		return NewGCSStore(ctx, cfg.Container, cfg.GCS)
	case "memory":
		return NewMemoryStore(cfg.Container), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
