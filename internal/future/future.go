// Package future provides the resolved-once asynchronous cell behind the
// registry's at-most-once factory protocol. A Future is created either
// pre-resolved or by launching a function on its own goroutine; any number of
// callers may then wait on the same eventual result.
package future

import (
	"context"
	"sync"
)

// Future holds the eventual result of one asynchronous computation.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error

	resolveOnce sync.Once
}

// New returns an unresolved future and the function that settles it. The
// resolve function is idempotent; only the first call takes effect.
func New[T any]() (*Future[T], func(T, error)) {
	f := &Future[T]{done: make(chan struct{})}
	return f, f.resolve
}

// Go runs fn on its own goroutine and returns the future of its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		v, err := fn()
		f.resolve(v, err)
	}()
	return f
}

// Resolved returns a future already settled with value.
func Resolved[T any](value T) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	f.resolve(value, nil)
	return f
}

// Failed returns a future already settled with err.
func Failed[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	var zero T
	f.resolve(zero, err)
	return f
}

func (f *Future[T]) resolve(value T, err error) {
	f.resolveOnce.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the future settles or ctx is cancelled.
func (f *Future[T]) Result(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Settled reports whether the future has resolved, without blocking.
func (f *Future[T]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
