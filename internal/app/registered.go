package app

import (
	"context"
	"sync"

	"github.com/vk/appgrid/internal/future"
	"github.com/vk/appgrid/internal/identity"
	"github.com/vk/appgrid/internal/instance"
)

// registered is one factory registration slot. The stored factory is invoked
// at most once: the first resolve call swaps the slot to the in-flight future
// under the lock, before any suspension, so every racing caller waits on the
// identical result.
type registered[T any] struct {
	mu      sync.Mutex
	factory func(ctx context.Context) (T, error)
	fut     *future.Future[T]

	// destroyed suppresses the instance registration of a factory result
	// whose registration handle was destroyed mid-flight. The factory still
	// runs to completion; its side effects are not undone.
	destroyed      bool
	instanceHandle *identity.Handle
}

// newResolved wraps an already-live instance in a pre-resolved slot, keeping
// the invocation protocol uniform for instance registrations.
func newResolved[T any](value T) *registered[T] {
	return &registered[T]{fut: future.Resolved(value)}
}

// resolve returns the slot's eventual value, launching the factory on its own
// goroutine on first use. The factory runs with cancellation detached from
// the first caller: a caller backing out must not poison the memoized result
// for everyone else.
func (r *registered[T]) resolve(ctx context.Context) (T, error) {
	r.mu.Lock()
	if r.fut == nil {
		f := r.factory
		detached := context.WithoutCancel(ctx)
		r.fut = future.Go(func() (T, error) {
			return f(detached)
		})
	}
	fut := r.fut
	r.mu.Unlock()
	return fut.Result(ctx)
}

// adopt records the resolved instance in the instance registry, unless the
// registration was destroyed while the factory was in flight.
func (r *registered[T]) adopt(instances *instance.Registry, value any, id identity.Identifier, kind instance.Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	h, err := instances.Add(value, id, kind)
	if err != nil {
		return err
	}
	r.instanceHandle = h
	return nil
}

// markDestroyed flags the slot and removes any instance association it made.
func (r *registered[T]) markDestroyed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroyed = true
	if r.instanceHandle != nil {
		r.instanceHandle.Destroy()
		r.instanceHandle = nil
	}
}
