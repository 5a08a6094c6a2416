package identity

import "sync"

type entry[T any] struct {
	id     Identifier
	value  T
	handle *Handle
}

// Registry is a bijective id ↔ value map. Registering the same pair twice is
// a no-op returning the original handle; binding an existing id to a new
// value, or an existing value to a new id, is a conflict. Values must be
// comparable at runtime (pointers and pointer-backed interfaces are).
type Registry[T any] struct {
	mu      sync.Mutex
	entries map[Identifier]*entry[T]
	ids     map[any]Identifier
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		entries: make(map[Identifier]*entry[T]),
		ids:     make(map[any]Identifier),
	}
}

// Register binds id to value and returns the handle that removes the binding.
func (r *Registry[T]) Register(id Identifier, value T) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[id]; ok {
		if any(existing.value) == any(value) {
			return existing.handle, nil
		}
		return nil, DuplicateIdentityError{ID: id}
	}
	if boundTo, ok := r.ids[any(value)]; ok {
		return nil, DuplicateValueError{ID: boundTo}
	}

	e := &entry[T]{id: id, value: value}
	e.handle = NewHandle(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.entries, id)
		delete(r.ids, any(value))
	})
	r.entries[id] = e
	r.ids[any(value)] = id
	return e.handle, nil
}

// ByID returns the value bound to id.
func (r *Registry[T]) ByID(id Identifier) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		var zero T
		return zero, NotFoundError{ID: id}
	}
	return e.value, nil
}

// Identify returns the id a value is bound to.
func (r *Registry[T]) Identify(value T) (Identifier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.ids[any(value)]
	if !ok {
		return Identifier{}, NotIdentifiedError{}
	}
	return id, nil
}

// HasID reports whether id is bound.
func (r *Registry[T]) HasID(id Identifier) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[id]
	return ok
}

// Contains reports whether value is bound.
func (r *Registry[T]) Contains(value T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ids[any(value)]
	return ok
}

// Delete destroys the entry registered under id, reporting whether anything
// was removed.
func (r *Registry[T]) Delete(id Identifier) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	r.mu.Unlock()
	if !ok {
		return false
	}
	e.handle.Destroy()
	return true
}
