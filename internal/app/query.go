package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/identity"
	"github.com/vk/appgrid/internal/instance"
)

// App implements component.CombinedRegistry; the compiler enforces it here.
var _ component.CombinedRegistry = (*App)(nil)

// GetAction resolves the action registered under id, invoking its factory on
// first use.
func (a *App) GetAction(ctx context.Context, id identity.Identifier) (component.Action, error) {
	slot, err := a.actions.ByID(id)
	if err != nil {
		return nil, fmt.Errorf("no action factory registered for %q: %w", id, apperr.ErrNotFound)
	}
	return slot.resolve(ctx)
}

// HasAction reports whether an action is registered under id.
func (a *App) HasAction(id identity.Identifier) bool {
	return a.actions.HasID(id)
}

// IdentifyAction returns the id action was registered under.
func (a *App) IdentifyAction(action component.Action) (identity.Identifier, error) {
	return a.instances.Identify(action, instance.Action)
}

// GetStore resolves the store registered under id. The reserved default
// identifiers address the application default stores directly.
func (a *App) GetStore(ctx context.Context, id identity.Identifier) (component.Store, error) {
	if store, ok := a.defaultStore(id); ok {
		return store, nil
	}
	slot, err := a.stores.ByID(id)
	if err != nil {
		return nil, fmt.Errorf("no store factory registered for %q: %w", id, apperr.ErrNotFound)
	}
	return slot.resolve(ctx)
}

// HasStore reports whether a store is registered under id.
func (a *App) HasStore(id identity.Identifier) bool {
	if _, ok := a.defaultStore(id); ok {
		return true
	}
	return a.stores.HasID(id)
}

// IdentifyStore returns the id store was registered under.
func (a *App) IdentifyStore(store component.Store) (identity.Identifier, error) {
	return a.instances.Identify(store, instance.Store)
}

func (a *App) defaultStore(id identity.Identifier) (component.Store, bool) {
	switch id {
	case identity.DefaultActionStore:
		return a.defaults.Action, a.defaults.Action != nil
	case identity.DefaultWidgetStore:
		return a.defaults.Widget, a.defaults.Widget != nil
	default:
		return nil, false
	}
}

// GetWidget resolves the widget registered under id, falling back to the
// table of realized widget instances. When both lookups miss, the factory
// error is the one surfaced: a missing factory is the actionable problem.
func (a *App) GetWidget(ctx context.Context, id identity.Identifier) (component.Widget, error) {
	slot, err := a.widgets.ByID(id)
	if err == nil {
		return slot.resolve(ctx)
	}

	a.mu.Lock()
	widget, ok := a.widgetInstances[id]
	a.mu.Unlock()
	if ok {
		return widget, nil
	}
	return nil, fmt.Errorf("no widget factory registered for %q: %w", id, apperr.ErrNotFound)
}

// HasWidget reports whether a widget factory or realized instance exists for
// id.
func (a *App) HasWidget(id identity.Identifier) bool {
	if a.widgets.HasID(id) {
		return true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.widgetInstances[id]
	return ok
}

// IdentifyWidget returns the id widget was registered under.
func (a *App) IdentifyWidget(widget component.Widget) (identity.Identifier, error) {
	return a.instances.Identify(widget, instance.Widget)
}

// GetCustomElementFactory returns the widget factory registered for the tag
// name, case-insensitively.
func (a *App) GetCustomElementFactory(_ context.Context, name string) (component.WidgetFactory, error) {
	entry, err := a.elements.ByID(identity.ID(strings.ToLower(name)))
	if err != nil {
		return nil, fmt.Errorf("no custom element factory registered for %q: %w", name, apperr.ErrNotFound)
	}
	return entry.factory, nil
}

// HasCustomElementFactory reports whether a factory is registered for the tag
// name.
func (a *App) HasCustomElementFactory(name string) bool {
	return a.elements.HasID(identity.ID(strings.ToLower(name)))
}
