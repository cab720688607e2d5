package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore keeps objects in process memory. It has no signing
// credential, so SignedURL always fails.
type MemoryStore struct {
	mu        sync.RWMutex
	container string
	objects   map[string]memoryObject
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(container string) *MemoryStore {
	return &MemoryStore{
		container: container,
		objects:   make(map[string]memoryObject),
	}
}

func (s *MemoryStore) EnsureContainer(context.Context) error { return nil }

func (s *MemoryStore) Upload(ctx context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read upload %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{data: data, contentType: contentType}
	return nil
}

func (s *MemoryStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("download %s: %w", key, ErrObjectNotFound)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemoryStore) PublicURL(key string) string {
	return fmt.Sprintf("memory://%s/%s", s.container, url.PathEscape(key))
}

func (s *MemoryStore) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "", fmt.Errorf("sign %s: %w", key, ErrSigningUnavailable)
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// ContentType returns the stored content type of key, if present.
func (s *MemoryStore) ContentType(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj.contentType, ok
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
