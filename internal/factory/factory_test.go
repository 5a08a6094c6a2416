package factory

import (
	"context"
	"fmt"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/identity"
)

// fakeRegistry is a minimal CombinedRegistry for factory tests.
type fakeRegistry struct {
	actions map[identity.Identifier]component.Action
	stores  map[identity.Identifier]component.Store
	widgets map[identity.Identifier]component.Widget
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		actions: make(map[identity.Identifier]component.Action),
		stores:  make(map[identity.Identifier]component.Store),
		widgets: make(map[identity.Identifier]component.Widget),
	}
}

func (r *fakeRegistry) GetAction(_ context.Context, id identity.Identifier) (component.Action, error) {
	a, ok := r.actions[id]
	if !ok {
		return nil, fmt.Errorf("no action %q: %w", id, apperr.ErrNotFound)
	}
	return a, nil
}

func (r *fakeRegistry) HasAction(id identity.Identifier) bool {
	_, ok := r.actions[id]
	return ok
}

func (r *fakeRegistry) IdentifyAction(component.Action) (identity.Identifier, error) {
	return identity.Identifier{}, apperr.ErrNotFound
}

func (r *fakeRegistry) GetStore(_ context.Context, id identity.Identifier) (component.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, fmt.Errorf("no store %q: %w", id, apperr.ErrNotFound)
	}
	return s, nil
}

func (r *fakeRegistry) HasStore(id identity.Identifier) bool {
	_, ok := r.stores[id]
	return ok
}

func (r *fakeRegistry) IdentifyStore(component.Store) (identity.Identifier, error) {
	return identity.Identifier{}, apperr.ErrNotFound
}

func (r *fakeRegistry) GetWidget(_ context.Context, id identity.Identifier) (component.Widget, error) {
	w, ok := r.widgets[id]
	if !ok {
		return nil, fmt.Errorf("no widget %q: %w", id, apperr.ErrNotFound)
	}
	return w, nil
}

func (r *fakeRegistry) HasWidget(id identity.Identifier) bool {
	_, ok := r.widgets[id]
	return ok
}

func (r *fakeRegistry) IdentifyWidget(component.Widget) (identity.Identifier, error) {
	return identity.Identifier{}, apperr.ErrNotFound
}

func (r *fakeRegistry) GetCustomElementFactory(_ context.Context, name string) (component.WidgetFactory, error) {
	return nil, fmt.Errorf("no custom element %q: %w", name, apperr.ErrNotFound)
}

func (r *fakeRegistry) HasCustomElementFactory(string) bool { return false }

// recordingAction captures Observe and Do calls.
type recordingAction struct {
	store  component.Store
	id     identity.Identifier
	events []any
}

func (a *recordingAction) Do(_ context.Context, event any) error {
	a.events = append(a.events, event)
	return nil
}

func (a *recordingAction) Observe(store component.Store, id identity.Identifier) {
	a.store = store
	a.id = id
}
