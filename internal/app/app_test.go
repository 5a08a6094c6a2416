package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/identity"
)

type testAction struct {
	store component.Store
	id    identity.Identifier
}

func (a *testAction) Do(context.Context, any) error { return nil }

func (a *testAction) Observe(store component.Store, id identity.Identifier) {
	a.store = store
	a.id = id
}

func newTestApp() *App {
	return New(Options{
		DefaultActionStore: component.NewMemoryStore(),
		DefaultWidgetStore: component.NewMemoryStore(),
	})
}

func TestApp_RegisterAndGetInstance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := newTestApp()
	action := &testAction{}

	_, err := a.RegisterAction(identity.ID("log"), action)
	require.NoError(t, err)

	got, err := a.GetAction(ctx, identity.ID("log"))
	require.NoError(t, err)
	assert.Same(t, action, got.(*testAction))

	id, err := a.IdentifyAction(action)
	require.NoError(t, err)
	assert.Equal(t, identity.ID("log"), id)
	assert.True(t, a.HasAction(identity.ID("log")))
}

func TestApp_SharedNamespaceAcrossKinds(t *testing.T) {
	t.Parallel()

	a := newTestApp()
	_, err := a.RegisterAction(identity.ID("thing"), &testAction{})
	require.NoError(t, err)

	// The same id cannot name a store, even though it is a different kind.
	_, err = a.RegisterStore(identity.ID("thing"), component.NewMemoryStore())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestApp_FactoryInvokedAtMostOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := newTestApp()

	var invocations atomic.Int32
	release := make(chan struct{})
	_, err := a.RegisterActionFactory(identity.ID("log"),
		func(context.Context, component.CombinedRegistry) (component.Action, error) {
			invocations.Add(1)
			<-release
			return &testAction{}, nil
		})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]component.Action, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := a.GetAction(ctx, identity.ID("log"))
			assert.NoError(t, err)
			results[i] = got
		}(i)
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), invocations.Load(), "racing first uses share one invocation")
	for _, got := range results[1:] {
		assert.Same(t, results[0], got, "every caller receives the identical instance")
	}

	// The promoted instance is identifiable like a registered one.
	id, err := a.IdentifyAction(results[0])
	require.NoError(t, err)
	assert.Equal(t, identity.ID("log"), id)
}

func TestApp_DestroyHandleBeforeResolveSuppressesPromotion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := newTestApp()

	started := make(chan struct{})
	release := make(chan struct{})
	action := &testAction{}
	handle, err := a.RegisterActionFactory(identity.ID("log"),
		func(context.Context, component.CombinedRegistry) (component.Action, error) {
			close(started)
			<-release
			return action, nil
		})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// The factory is already in flight when the handle dies; the result
		// is still delivered to this waiting caller.
		got, err := a.GetAction(ctx, identity.ID("log"))
		assert.NoError(t, err)
		assert.Same(t, action, got.(*testAction))
	}()

	<-started
	handle.Destroy()
	close(release)
	<-done

	// The destroyed registration must not have adopted the instance.
	_, err = a.IdentifyAction(action)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.False(t, a.HasAction(identity.ID("log")))
}

func TestApp_FactoryErrorIsMemoized(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := newTestApp()

	var invocations atomic.Int32
	_, err := a.RegisterStoreFactory(identity.ID("broken"),
		func(context.Context) (component.Store, error) {
			invocations.Add(1)
			return nil, assert.AnError
		})
	require.NoError(t, err)

	_, err = a.GetStore(ctx, identity.ID("broken"))
	assert.ErrorIs(t, err, assert.AnError)
	_, err = a.GetStore(ctx, identity.ID("broken"))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, int32(1), invocations.Load(), "a failed factory is not retried")
}

func TestApp_DefaultStores(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	shared := component.NewMemoryStore()
	a := New(Options{
		DefaultActionStore: shared,
		DefaultWidgetStore: shared,
	})

	assert.True(t, a.HasStore(identity.DefaultActionStore))
	assert.True(t, a.HasStore(identity.DefaultWidgetStore))

	s1, err := a.GetStore(ctx, identity.DefaultActionStore)
	require.NoError(t, err)
	s2, err := a.GetStore(ctx, identity.DefaultWidgetStore)
	require.NoError(t, err)
	assert.Same(t, shared, s1.(*component.MemoryStore))
	assert.Same(t, shared, s2.(*component.MemoryStore),
		"one store may back both reserved identifiers")

	bare := New(Options{})
	assert.False(t, bare.HasStore(identity.DefaultActionStore))
	_, err = bare.GetStore(ctx, identity.DefaultActionStore)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestApp_GetMissing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := newTestApp()

	_, err := a.GetAction(ctx, identity.ID("missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, err.Error(), `no action factory registered for "missing"`)

	_, err = a.GetWidget(ctx, identity.ID("missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no widget factory registered for "missing"`)
}

func TestApp_CustomElementFactories(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := newTestApp()

	_, err := a.RegisterCustomElementFactory("My-Widget", component.NewBasicWidget)
	require.NoError(t, err)

	// Lookup is case-insensitive.
	assert.True(t, a.HasCustomElementFactory("my-widget"))
	assert.True(t, a.HasCustomElementFactory("MY-WIDGET"))

	f, err := a.GetCustomElementFactory(ctx, "my-widget")
	require.NoError(t, err)
	assert.NotNil(t, f)

	// Reserved realization tags are rejected.
	for _, name := range []string{"app-projector", "app-widget"} {
		_, err := a.RegisterCustomElementFactory(name, component.NewBasicWidget)
		assert.ErrorIs(t, err, apperr.ErrValidation, "name %q must be reserved", name)
	}

	// Element names do not collide with the action/store/widget namespace.
	_, err = a.RegisterAction(identity.ID("my-widget"), &testAction{})
	require.NoError(t, err)
}

func TestApp_RegisterRealizedWidget(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := newTestApp()
	w, err := component.NewBasicWidget(ctx, nil)
	require.NoError(t, err)

	handle, err := a.RegisterRealizedWidget(identity.ID("realized"), w)
	require.NoError(t, err)

	got, err := a.GetWidget(ctx, identity.ID("realized"))
	require.NoError(t, err)
	assert.Same(t, w, got)
	assert.True(t, a.HasWidget(identity.ID("realized")))

	id, err := a.IdentifyWidget(w)
	require.NoError(t, err)
	assert.Equal(t, identity.ID("realized"), id)

	handle.Destroy()
	assert.False(t, a.HasWidget(identity.ID("realized")))
	_, err = a.IdentifyWidget(w)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestApp_HandleReleasesRegistration(t *testing.T) {
	t.Parallel()

	a := newTestApp()
	action := &testAction{}
	handle, err := a.RegisterAction(identity.ID("log"), action)
	require.NoError(t, err)

	handle.Destroy()
	assert.False(t, a.HasAction(identity.ID("log")))

	// The id and instance are reusable after release.
	_, err = a.RegisterAction(identity.ID("log"), action)
	require.NoError(t, err)
}

func TestApp_DestroyReleasesEverything(t *testing.T) {
	t.Parallel()

	a := newTestApp()
	_, err := a.RegisterAction(identity.ID("log"), &testAction{})
	require.NoError(t, err)
	_, err = a.RegisterCustomElementFactory("my-widget", component.NewBasicWidget)
	require.NoError(t, err)

	a.Destroy()
	a.Destroy() // idempotent

	assert.False(t, a.HasAction(identity.ID("log")))
	assert.False(t, a.HasCustomElementFactory("my-widget"))

	// A destroyed application accepts no new registrations.
	_, err = a.RegisterAction(identity.ID("log"), &testAction{})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}
