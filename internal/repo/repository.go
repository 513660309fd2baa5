// Package repo contains the storage backends for the Viking task tracker.
// Every backend implements the same Repository contract; front ends and the
// service layer only ever see that interface.
//
// Backends deliberately differ in a few edge cases (duplicate adds, removing
// an absent entity). Those differences are part of each backend's documented
// behaviour and are covered by its tests.
package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/viking/internal/domain"
)

// Repository is the storage-agnostic contract every backend implements.
type Repository[E domain.Entity] interface {
	// Add stores e keyed by its identifier.
	Add(ctx context.Context, e E) error

	// Get returns the entity with the given identifier.
	// A missing identifier is reported as ok == false, never as an error.
	Get(ctx context.Context, id uuid.UUID) (e E, ok bool, err error)

	// Remove deletes the entity matching e's identifier.
	Remove(ctx context.Context, e E) error

	// List returns every stored entity in the backend's natural order.
	List(ctx context.Context) ([]E, error)
}

// Update applies mutate to the stored entity with the given identifier and
// writes it back, preserving the identifier.
//
// It is the remove-old / mutate / re-add cycle expressed once for every
// backend. If mutate fails nothing is written. ok is false when no entity
// with that identifier exists.
func Update[E domain.Entity](ctx context.Context, r Repository[E], id uuid.UUID, mutate func(E) error) (E, bool, error) {
	var zero E

	e, ok, err := r.Get(ctx, id)
	if err != nil {
		return zero, false, fmt.Errorf("repo.Update: get: %w", err)
	}
	if !ok {
		return zero, false, nil
	}

	if err := mutate(e); err != nil {
		return zero, true, err
	}

	if err := r.Remove(ctx, e); err != nil {
		return zero, true, fmt.Errorf("repo.Update: remove: %w", err)
	}
	if err := r.Add(ctx, e); err != nil {
		return zero, true, fmt.Errorf("repo.Update: add: %w", err)
	}
	return e, true, nil
}
