package component

import (
	"context"

	"github.com/vk/appgrid/internal/identity"
)

// State is the unit of data a store holds per identifier.
type State map[string]any

// Store keeps per-identifier state. Add seeds initial state and fails with a
// conflict when state already exists for the id; Get retrieves it.
type Store interface {
	Add(ctx context.Context, id identity.Identifier, initial State) error
	Get(ctx context.Context, id identity.Identifier) (State, error)
	Patch(ctx context.Context, id identity.Identifier, delta State) (State, error)
}

// Listener handles one dispatched widget event.
type Listener func(ctx context.Context, event any) error

// Action is an invokable behavior. Observe points the action at the store
// holding its own state; it is called once, after creation, because
// observation cannot be configured through factory options.
type Action interface {
	Do(ctx context.Context, event any) error
	Observe(store Store, id identity.Identifier)
}

// Widget is a renderable UI component with a single parent and ordered
// children.
type Widget interface {
	Parent() Widget
	SetParent(Widget)
	AppendChild(child Widget) error
	Destroy() error
}

// Destroyable is implemented by values that release resources on teardown.
// Registries never call it; teardown handles do.
type Destroyable interface {
	Destroy() error
}

// CombinedRegistry is the query-only view of the application registry handed
// to factories so they can resolve cross-references without mutation rights.
type CombinedRegistry interface {
	GetAction(ctx context.Context, id identity.Identifier) (Action, error)
	HasAction(id identity.Identifier) bool
	IdentifyAction(action Action) (identity.Identifier, error)

	GetStore(ctx context.Context, id identity.Identifier) (Store, error)
	HasStore(id identity.Identifier) bool
	IdentifyStore(store Store) (identity.Identifier, error)

	GetWidget(ctx context.Context, id identity.Identifier) (Widget, error)
	HasWidget(id identity.Identifier) bool
	IdentifyWidget(widget Widget) (identity.Identifier, error)

	GetCustomElementFactory(ctx context.Context, name string) (WidgetFactory, error)
	HasCustomElementFactory(name string) bool
}

// ActionFactory produces an action. The combined registry is injected so the
// action can resolve collaborators lazily.
type ActionFactory func(ctx context.Context, registry CombinedRegistry) (Action, error)

// StoreFactory produces a store from definition options.
type StoreFactory func(ctx context.Context, options map[string]any) (Store, error)

// WidgetOptions carries everything a widget factory receives. Extra holds the
// definition's free-form options; ID, Registry, Stateful, and Listeners are
// injected by the composition layer and must not appear in Extra.
type WidgetOptions struct {
	ID        identity.Identifier
	Registry  CombinedRegistry
	Stateful  Store
	Listeners map[string][]Listener
	Extra     map[string]any
}

// WidgetFactory produces a widget. Custom-element factories have the same
// shape and are invoked once per element instance.
type WidgetFactory func(ctx context.Context, options *WidgetOptions) (Widget, error)
