package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/mirna-salem/petprofiles/internal/config"
)

const gcsPublicHost = "https://storage.googleapis.com"

// GCSStore keeps objects in a Google Cloud Storage bucket.
type GCSStore struct {
	client    *gcs.Client
	bucket    string
	projectID string
}

// NewGCSStore creates a client using the credentials file when given, or
// application default credentials otherwise.
func NewGCSStore(ctx context.Context, bucket string, cfg config.GCSConfig) (*GCSStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init gcs client: %w", err)
	}

	return &GCSStore{
		client:    client,
		bucket:    bucket,
		projectID: cfg.ProjectID,
	}, nil
}

func (s *GCSStore) EnsureContainer(ctx context.Context) error {
	b := s.client.Bucket(s.bucket)
	_, err := b.Attrs(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gcs.ErrBucketNotExist) {
		return fmt.Errorf("bucket attrs %s: %w", s.bucket, wrapGCSError(err))
	}
	if err := b.Create(ctx, s.projectID, nil); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, wrapGCSError(err))
	}
	return nil
}

func (s *GCSStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := s.EnsureContainer(ctx); err != nil {
		return err
	}

	wc := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return fmt.Errorf("write object %s: %w", key, wrapGCSError(err))
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close writer %s: %w", key, wrapGCSError(err))
	}
	return nil
}

func (s *GCSStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, wrapGCSError(err))
	}
	return rc, nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("delete object %s: %w", key, wrapGCSError(err))
	}
	return nil
}

func (s *GCSStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", gcsPublicHost, s.bucket, url.PathEscape(key))
}

// SignedURL needs a credential with a private key (or IAM signBlob access);
// plain user credentials make it fail.
func (s *GCSStore) SignedURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.Bucket(s.bucket).SignedURL(key, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(expiry),
	})
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", key, err)
	}
	return u, nil
}

func (s *GCSStore) Ping(ctx context.Context) error {
	if _, err := s.client.Bucket(s.bucket).Attrs(ctx); err != nil {
		return wrapGCSError(err)
	}
	return nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

func wrapGCSError(err error) error {
	switch {
	case errors.Is(err, gcs.ErrObjectNotExist), errors.Is(err, gcs.ErrBucketNotExist):
		return fmt.Errorf("%w: %v", ErrObjectNotFound, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
