package activity

import (
	"context"
	"slices"
	"sync"
)

// DefaultCapacity bounds the in-memory log.
const DefaultCapacity = 500

type Repository interface {
	Insert(ctx context.Context, e Entry) error
	// Recent returns the newest entries first. An empty resources list matches every resource.
	Recent(ctx context.Context, limit int, resources []string) ([]Entry, error)
}

// InMemoryRepository is a fixed-size ring used when no database is configured.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

func NewInMemoryRepository(capacity int) *InMemoryRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryRepository{entries: make([]Entry, capacity)}
}

func (r *InMemoryRepository) Insert(_ context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[r.next] = e
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
	return nil
}

func (r *InMemoryRepository) Recent(_ context.Context, limit int, resources []string) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := r.next
	if r.full {
		size = len(r.entries)
	}
	out := make([]Entry, 0, min(limit, size))
	for i := 0; i < size && len(out) < limit; i++ {
		idx := (r.next - 1 - i + len(r.entries)) % len(r.entries)
		e := r.entries[idx]
		if len(resources) > 0 && !slices.Contains(resources, e.Resource) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
