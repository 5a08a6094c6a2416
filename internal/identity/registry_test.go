package identity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/appgrid/internal/apperr"
)

type thing struct{ name string }

func TestRegistry_RoundTrip(t *testing.T) {
	t.Parallel()

	r := NewRegistry[*thing]()
	v := &thing{name: "a"}

	_, err := r.Register(ID("a"), v)
	require.NoError(t, err)

	got, err := r.ByID(ID("a"))
	require.NoError(t, err)
	assert.Same(t, v, got)

	id, err := r.Identify(v)
	require.NoError(t, err)
	assert.Equal(t, ID("a"), id)

	assert.True(t, r.HasID(ID("a")))
	assert.True(t, r.Contains(v))
}

func TestRegistry_RegisterIdempotentSamePair(t *testing.T) {
	t.Parallel()

	r := NewRegistry[*thing]()
	v := &thing{name: "a"}

	h1, err := r.Register(ID("a"), v)
	require.NoError(t, err)
	h2, err := r.Register(ID("a"), v)
	require.NoError(t, err)

	assert.Same(t, h1, h2, "re-registering the same pair should return the original handle")
}

func TestRegistry_Conflicts(t *testing.T) {
	t.Parallel()

	t.Run("same id different value", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry[*thing]()
		_, err := r.Register(ID("a"), &thing{name: "a"})
		require.NoError(t, err)

		_, err = r.Register(ID("a"), &thing{name: "b"})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrConflict)

		var dup DuplicateIdentityError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, ID("a"), dup.ID)
	})

	t.Run("same value different id", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry[*thing]()
		v := &thing{name: "a"}
		_, err := r.Register(ID("a"), v)
		require.NoError(t, err)

		_, err = r.Register(ID("b"), v)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrConflict)

		var dup DuplicateValueError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, ID("a"), dup.ID, "the error should name the id the value is already bound to")
	})
}

func TestRegistry_NotFound(t *testing.T) {
	t.Parallel()

	r := NewRegistry[*thing]()

	_, err := r.ByID(ID("missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = r.Identify(&thing{name: "stranger"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRegistry_HandleRemovesBothDirections(t *testing.T) {
	t.Parallel()

	r := NewRegistry[*thing]()
	v := &thing{name: "a"}
	h, err := r.Register(ID("a"), v)
	require.NoError(t, err)

	h.Destroy()

	assert.False(t, r.HasID(ID("a")))
	assert.False(t, r.Contains(v))

	// The id and the value are both free again.
	_, err = r.Register(ID("a"), v)
	require.NoError(t, err)
}

func TestRegistry_Delete(t *testing.T) {
	t.Parallel()

	r := NewRegistry[*thing]()
	v := &thing{name: "a"}
	_, err := r.Register(ID("a"), v)
	require.NoError(t, err)

	assert.True(t, r.Delete(ID("a")))
	assert.False(t, r.HasID(ID("a")))
	assert.False(t, r.Delete(ID("a")), "deleting an absent id reports false")
}
