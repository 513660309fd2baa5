package repo

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/viking/internal/domain"
)

// MemoryRepo is the reference Repository backed by a map keyed by identifier.
// It is used in tests, as the behavioural baseline for the other backends,
// and as the "memory" backend of the CLI and API.
//
//   - Add overwrites an existing identifier (last write wins) and keeps its
//     original position in List.
//   - Remove of an identifier that was never added fails with a lookup error
//     wrapping domain.ErrNotFound.
//   - List returns entities in insertion order.
//
// Entities that implement Clone are copied on the way in and on the way out,
// so a caller mutating a returned task never touches the stored one.
type MemoryRepo[E domain.Entity] struct {
	mu       sync.Mutex
	entities map[uuid.UUID]E
	order    []uuid.UUID
}

// compile-time check: MemoryRepo must satisfy Repository.
var _ Repository[*domain.Task] = (*MemoryRepo[*domain.Task])(nil)

// NewMemoryRepo returns a MemoryRepo pre-populated with seed, in order.
func NewMemoryRepo[E domain.Entity](seed ...E) *MemoryRepo[E] {
	r := &MemoryRepo[E]{entities: make(map[uuid.UUID]E, len(seed))}
	for _, e := range seed {
		r.put(e)
	}
	return r
}

// Add stores e, replacing any entity with the same identifier.
func (r *MemoryRepo[E]) Add(_ context.Context, e E) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.put(e)
	return nil
}

// Get returns the entity with the given identifier.
func (r *MemoryRepo[E]) Get(_ context.Context, id uuid.UUID) (E, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entities[id]
	if !ok {
		return e, false, nil
	}
	return cloneOf(e), true, nil
}

// Remove deletes the entity with e's identifier.
func (r *MemoryRepo[E]) Remove(_ context.Context, e E) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := e.ID()
	if _, ok := r.entities[id]; !ok {
		return fmt.Errorf("repo.MemoryRepo.Remove: %s: %w", id, domain.ErrNotFound)
	}
	delete(r.entities, id)
	r.order = slices.DeleteFunc(r.order, func(k uuid.UUID) bool { return k == id })
	return nil
}

// List returns all entities in insertion order.
func (r *MemoryRepo[E]) List(_ context.Context) ([]E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]E, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneOf(r.entities[id]))
	}
	return out, nil
}

// Count returns the number of distinct identifiers stored.
func (r *MemoryRepo[E]) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entities)
}

func (r *MemoryRepo[E]) put(e E) {
	id := e.ID()
	if _, exists := r.entities[id]; !exists {
		r.order = append(r.order, id)
	}
	r.entities[id] = cloneOf(e)
}

// cloner is implemented by entities with mutable state, such as *domain.Task.
type cloner[E any] interface {
	Clone() E
}

func cloneOf[E any](e E) E {
	if c, ok := any(e).(cloner[E]); ok {
		return c.Clone()
	}
	return e
}
