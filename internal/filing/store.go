package filing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrDraftNotFound is returned when no draft has the requested ID.
var ErrDraftNotFound = errors.New("draft not found")

// Store persists drafts keyed by opaque IDs.
type Store interface {
	Create(ctx context.Context, d Draft) (Draft, error)
	Get(ctx context.Context, id string) (Draft, error)
	Update(ctx context.Context, d Draft) (Draft, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore is an in-process Store. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]Draft
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]Draft), now: time.Now}
}

// Create assigns a new ID and timestamps, then stores the draft.
func (s *MemoryStore) Create(ctx context.Context, d Draft) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	now := s.now().UTC()
	d.ID = uuid.NewString()
	d.CreatedAt = now
	d.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.ID] = d
	return d, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	return d, nil
}

// Update replaces an existing draft, keeping its creation time.
func (s *MemoryStore) Update(ctx context.Context, d Draft) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.drafts[d.ID]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = s.now().UTC()
	s.drafts[d.ID] = d
	return d, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(s.drafts, id)
	return nil
}

// Len returns the number of stored drafts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}
