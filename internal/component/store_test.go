package component

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/identity"
)

func TestMemoryStore_AddGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()
	id := identity.ID("w")

	require.NoError(t, s.Add(ctx, id, State{"label": "hello"}))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, State{"label": "hello"}, got)

	// Mutating the returned copy must not leak back into the store.
	got["label"] = "changed"
	again, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hello", again["label"])
}

func TestMemoryStore_AddConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()
	id := identity.ID("w")

	require.NoError(t, s.Add(ctx, id, State{"label": "first"}))
	err := s.Add(ctx, id, State{"label": "second"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "first", got["label"], "the original state must survive a conflicting Add")
}

func TestMemoryStore_GetMissing(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	_, err := s.Get(context.Background(), identity.ID("missing"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMemoryStore_Patch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()
	id := identity.ID("w")

	// Patch upserts when no state exists.
	merged, err := s.Patch(ctx, id, State{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, State{"a": 1}, merged)

	merged, err = s.Patch(ctx, id, State{"b": 2})
	require.NoError(t, err)
	assert.Equal(t, State{"a": 1, "b": 2}, merged)
}
