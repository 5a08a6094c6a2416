// Package instance tracks which kind-id pair a live value is registered
// under. The association is non-owning: removing it never destroys the value.
package instance

import (
	"fmt"
	"sync"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/identity"
)

// Kind distinguishes the three registrable value kinds.
type Kind uint8

const (
	Action Kind = iota
	Store
	Widget
)

func (k Kind) String() string {
	switch k {
	case Action:
		return "action"
	case Store:
		return "store"
	case Widget:
		return "widget"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

type association struct {
	id   identity.Identifier
	kind Kind
}

// Registry maps live instances to their kind-id pair. An instance may hold at
// most one association at a time.
type Registry struct {
	mu      sync.Mutex
	entries map[any]association
}

// NewRegistry creates an empty instance registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[any]association)}
}

// Add associates instance with (id, kind) and returns the handle that removes
// the association. Re-registering an instance that already holds an
// association is a conflict naming the existing pair.
func (r *Registry) Add(instance any, id identity.Identifier, kind Kind) (*identity.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[instance]; ok {
		return nil, fmt.Errorf("instance is already registered as %s %q: %w",
			existing.kind, existing.id, apperr.ErrConflict)
	}
	r.entries[instance] = association{id: id, kind: kind}
	return identity.NewHandle(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.entries, instance)
	}), nil
}

// Identify returns the id instance is registered under, requiring the
// association to carry the expected kind. Unknown instances and kind
// mismatches produce the same error on purpose: callers learn only that the
// instance could not be identified as the expected kind.
func (r *Registry) Identify(instance any, expected Kind) (identity.Identifier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.entries[instance]
	if !ok || a.kind != expected {
		return identity.Identifier{}, fmt.Errorf("could not identify %s: %w", expected, apperr.ErrNotFound)
	}
	return a.id, nil
}
