package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/mirna-salem/petprofiles/internal/events"
	"github.com/mirna-salem/petprofiles/internal/storage"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.CloudEvent
	keys   []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, evt events.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// flakyStore wraps a MemoryStore and fails the operations named in failOn.
type flakyStore struct {
	*storage.MemoryStore
	failOn map[string]error
	signed string
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: storage.NewMemoryStore("pet-images"), failOn: map[string]error{}}
}

var errStoreDown = errors.New("connection refused")

func (s *flakyStore) Upload(ctx context.Context, key string, r io.Reader, size int64, ct string) error {
	if err := s.failOn["upload"]; err != nil {
		return err
	}
	return s.MemoryStore.Upload(ctx, key, r, size, ct)
}

func (s *flakyStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := s.failOn["download"]; err != nil {
		return nil, err
	}
	return s.MemoryStore.Download(ctx, key)
}

func (s *flakyStore) Delete(ctx context.Context, key string) error {
	if err := s.failOn["delete"]; err != nil {
		return err
	}
	return s.MemoryStore.Delete(ctx, key)
}

func (s *flakyStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.signed != "" {
		return s.signed + key + "?ttl=" + ttl.String(), nil
	}
	return s.MemoryStore.SignedURL(ctx, key, ttl)
}
