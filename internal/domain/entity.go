// Package domain contains the core types of the Viking task tracker.
// It knows nothing about HTTP, files, or databases and is imported by every
// other internal package (repo, service, handler, cli).
package domain

import (
	"reflect"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Entity is any domain object distinguished by a stable identifier rather
// than by its field values.
type Entity interface {
	ID() uuid.UUID
}

// Field describes one persisted attribute of a Record.
// Value always holds a pointer to the backing struct field so storage
// backends can both read it and rehydrate a zero value in place.
type Field struct {
	Name  string
	Value any
}

// Record is an Entity that can enumerate its persisted fields.
// The first field is always "id". Storage backends use Fields instead of a
// fixed schema, so a new entity type needs no backend changes.
type Record interface {
	Entity
	Fields() []Field
}

// Identity is the identity primitive every entity embeds.
// The identifier is assigned once, at construction, and has no setter.
type Identity struct {
	id uuid.UUID
}

// NewIdentity returns an Identity with a freshly generated random UUID.
func NewIdentity() Identity {
	return Identity{id: uuid.New()}
}

// IdentityOf returns an Identity with a caller-supplied identifier.
// Used when rehydrating stored records and in tests that need two entities
// sharing an identifier.
func IdentityOf(id uuid.UUID) Identity {
	return Identity{id: id}
}

// ID returns the entity identifier.
func (i Identity) ID() uuid.UUID {
	return i.id
}

// Equal reports whether other is an Entity with the same identifier.
// Values that are not entities are never equal.
func (i Identity) Equal(other any) bool {
	e, ok := other.(Entity)
	if !ok || e == nil {
		return false
	}
	// A typed nil such as (*Task)(nil) is not an entity.
	if v := reflect.ValueOf(e); v.Kind() == reflect.Pointer && v.IsNil() {
		return false
	}
	return i.id == e.ID()
}

// Hash is derived solely from the identifier.
func (i Identity) Hash() uint64 {
	return xxhash.Sum64(i.id[:])
}

// Fields implements Record for a bare identity.
func (i *Identity) Fields() []Field {
	return []Field{{Name: "id", Value: &i.id}}
}
