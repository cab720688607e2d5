package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	imageDomain "github.com/mirna-salem/petprofiles/internal/domain/image"
	"github.com/mirna-salem/petprofiles/internal/events"
	"github.com/mirna-salem/petprofiles/internal/platform/domain"
	"github.com/mirna-salem/petprofiles/internal/storage"
)

// ImageOptions configures how the ImageService validates uploads and builds URLs.
type ImageOptions struct {
	// ProxyBasePath prefixes the storage key in the URL handed back on upload.
	ProxyBasePath string
	// PublicBaseURL, when set, is used for direct links instead of the store's own.
	PublicBaseURL  string
	MaxUploadBytes int64
	SignedURLTTL   time.Duration
}

// UploadResult is returned after a successful upload.
type UploadResult struct {
	FileName string `json:"fileName"`
	ImageURL string `json:"imageUrl"`
}

// ImageContent is a stored image opened for reading. Callers must close Body.
type ImageContent struct {
	Body        io.ReadCloser
	ContentType string
}

// URLResult is a direct link to a stored image.
type URLResult struct {
	URL       string     `json:"url"`
	Signed    bool       `json:"signed"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// ImageService implements the image lifecycle on top of a BlobStore.
type ImageService struct {
	store     storage.BlobStore
	publisher events.Publisher
	opts      ImageOptions
	logger    *zap.Logger
	now       func() time.Time
}

// NewImageService creates a new ImageService.
func NewImageService(store storage.BlobStore, publisher events.Publisher, opts ImageOptions, logger *zap.Logger) *ImageService {
	return &ImageService{
		store:     store,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Upload validates the file, stores it under a freshly generated key and
// returns the key with its proxy URL.
func (s *ImageService) Upload(ctx context.Context, r io.Reader, size int64, originalFileName string) (*UploadResult, error) {
	if err := imageDomain.ValidateUpload(originalFileName, size, s.opts.MaxUploadBytes); err != nil {
		return nil, err
	}

	key := imageDomain.NewStorageKey(originalFileName)
	contentType := imageDomain.ContentTypeFor(key)

	if err := s.store.Upload(ctx, key, r, size, contentType); err != nil {
		s.logger.Error("failed to upload image",
			zap.String("file_name", key),
			zap.Int64("size", size),
			zap.Error(err),
		)
		return nil, domain.NewInternalError("failed to upload image", err)
	}

	s.logger.Info("image uploaded",
		zap.String("file_name", key),
		zap.String("original_name", originalFileName),
		zap.Int64("size", size),
	)
	publishBestEffort(ctx, s.publisher, s.logger, key, events.ImageUploaded, events.ImageEvent{
		FileName:    key,
		ContentType: contentType,
		Size:        size,
	})

	return &UploadResult{
		FileName: key,
		ImageURL: s.opts.ProxyBasePath + key,
	}, nil
}

// Download opens the stored image. Every store failure is reported as not found.
func (s *ImageService) Download(ctx context.Context, key string) (*ImageContent, error) {
	if err := imageDomain.ValidateKey(key); err != nil {
		return nil, err
	}

	body, err := s.store.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.logger.Debug("image not found", zap.String("file_name", key))
		} else {
			s.logger.Warn("image download failed", zap.String("file_name", key), zap.Error(err))
		}
		return nil, domain.NewNotFoundError("Image", key)
	}

	return &ImageContent{
		Body:        body,
		ContentType: imageDomain.ContentTypeFor(key),
	}, nil
}

// Delete removes the stored image. Deleting a missing key succeeds.
func (s *ImageService) Delete(ctx context.Context, key string) error {
	if err := imageDomain.ValidateKey(key); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Error("failed to delete image", zap.String("file_name", key), zap.Error(err))
		return domain.NewInternalError("failed to delete image", err)
	}

	s.logger.Info("image deleted", zap.String("file_name", key))
	publishBestEffort(ctx, s.publisher, s.logger, key, events.ImageDeleted, events.ImageEvent{FileName: key})
	return nil
}

// PublicURL returns an unsigned direct link to the object.
func (s *ImageService) PublicURL(key string) string {
	if s.opts.PublicBaseURL != "" {
		return strings.TrimRight(s.opts.PublicBaseURL, "/") + "/" + url.PathEscape(key)
	}
	return s.store.PublicURL(key)
}

// SignedURL returns a read-only link valid for ttl (the configured default
// when ttl <= 0). If the store cannot sign, the unsigned public URL is
// returned with Signed=false instead of an error.
func (s *ImageService) SignedURL(ctx context.Context, key string, ttl time.Duration) (*URLResult, error) {
	if err := imageDomain.ValidateKey(key); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = s.opts.SignedURLTTL
	}

	signed, err := s.store.SignedURL(ctx, key, ttl)
	if err != nil {
		s.logger.Warn("signed url unavailable, falling back to public url",
			zap.String("file_name", key),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)
		return &URLResult{URL: s.PublicURL(key), Signed: false}, nil
	}

	expiresAt := s.now().UTC().Add(ttl)
	return &URLResult{URL: signed, Signed: true, ExpiresAt: &expiresAt}, nil
}

// MaxSignedURLTTL is the longest lifetime S3 V4 presigning accepts.
const MaxSignedURLTTL = 7 * 24 * time.Hour

// ValidateTTL rejects expiry values the stores will not sign for.
func ValidateTTL(ttl time.Duration) error {
	if ttl < 0 {
		return domain.NewValidationError("expiry must not be negative")
	}
	if ttl > MaxSignedURLTTL {
		return domain.NewValidationError(fmt.Sprintf("expiry must be at most %s", MaxSignedURLTTL))
	}
	return nil
}
