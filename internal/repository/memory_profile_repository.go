package repository

import (
	"context"
	"sort"
	"sync"

	profileDomain "github.com/mirna-salem/petprofiles/internal/domain/profile"
	"github.com/mirna-salem/petprofiles/internal/platform/domain"
)

// MemoryProfileRepository keeps profiles in process memory. Ids come from a
// counter and are never reused.
type MemoryProfileRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]ProfileModel
}

func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{rows: make(map[int64]ProfileModel)}
}

func (r *MemoryProfileRepository) List(ctx context.Context) ([]*profileDomain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	profiles := make([]*profileDomain.Profile, len(ids))
	for i, id := range ids {
		m := r.rows[id]
		profiles[i] = toProfileDomain(&m)
	}
	return profiles, nil
}

func (r *MemoryProfileRepository) FindByID(ctx context.Context, id int64) (*profileDomain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.rows[id]
	if !ok {
		return nil, notFound(id)
	}
	return toProfileDomain(&m), nil
}

func (r *MemoryProfileRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rows[id]
	return ok, nil
}

func (r *MemoryProfileRepository) Save(ctx context.Context, p *profileDomain.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p.AssignID(r.nextID)
	r.rows[p.ID()] = *toProfileModel(p)
	return nil
}

func (r *MemoryProfileRepository) Update(ctx context.Context, p *profileDomain.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[p.ID()]
	if !ok {
		return notFound(p.ID())
	}
	if stored.Version != p.Version()-1 {
		return domain.NewConflictError("profile was modified by another request")
	}

	next := toProfileModel(p)
	next.CreatedAt = stored.CreatedAt
	r.rows[p.ID()] = *next
	return nil
}

func (r *MemoryProfileRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return notFound(id)
	}
	delete(r.rows, id)
	return nil
}
