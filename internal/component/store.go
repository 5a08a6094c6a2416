package component

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/identity"
)

// MemoryStore is the reference Store: a mutex-guarded per-identifier state
// map. It backs the application default stores and most tests.
type MemoryStore struct {
	mu   sync.Mutex
	data map[identity.Identifier]State
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[identity.Identifier]State)}
}

// Add seeds initial state for id. It fails when state already exists, which
// callers seeding declarative defaults treat as "already populated".
func (s *MemoryStore) Add(_ context.Context, id identity.Identifier, initial State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; ok {
		return fmt.Errorf("store already holds state for %q: %w", id, apperr.ErrConflict)
	}
	s.data[id] = cloneState(initial)
	return nil
}

// Get returns a copy of the state held for id.
func (s *MemoryStore) Get(_ context.Context, id identity.Identifier) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.data[id]
	if !ok {
		return nil, fmt.Errorf("store holds no state for %q: %w", id, apperr.ErrNotFound)
	}
	return cloneState(state), nil
}

// Patch merges delta into the state held for id, creating it when absent, and
// returns the merged result.
func (s *MemoryStore) Patch(_ context.Context, id identity.Identifier, delta State) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.data[id]
	if !ok {
		state = make(State, len(delta))
		s.data[id] = state
	}
	for k, v := range delta {
		state[k] = v
	}
	return cloneState(state), nil
}

func cloneState(state State) State {
	out := make(State, len(state))
	for k, v := range state {
		out[k] = v
	}
	return out
}
