package schema

import (
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/identity"
)

// StoreRef points a definition at its state source: a registered store id or
// an inline store instance. At most one side is set; the zero value means
// "use the application default".
type StoreRef struct {
	ID    identity.Identifier
	Store component.Store
}

// IsZero reports whether the reference is absent.
func (r StoreRef) IsZero() bool {
	return r.ID.IsZero() && r.Store == nil
}

// ListenerRef names one event listener: a literal callback or an action
// identifier resolved through the action registry.
type ListenerRef struct {
	Listener component.Listener
	ActionID identity.Identifier
}

// Listeners maps an event type to the listeners dispatched for it.
type Listeners map[string][]ListenerRef

// ActionDefinition declares one action.
type ActionDefinition struct {
	ID identity.Identifier

	Factory       component.ActionFactory
	FactoryModule string
	Instance      component.Action
	InstanceModule string

	StateFrom StoreRef
	State     component.State
}

// StoreDefinition declares one store.
type StoreDefinition struct {
	ID identity.Identifier

	Factory        component.StoreFactory
	FactoryModule  string
	Instance       component.Store
	InstanceModule string

	Options map[string]any
}

// WidgetDefinition declares one widget.
type WidgetDefinition struct {
	ID identity.Identifier

	Factory        component.WidgetFactory
	FactoryModule  string
	Instance       component.Widget
	InstanceModule string

	StateFrom StoreRef
	Listeners Listeners
	State     component.State
	Options   map[string]any
}

// CustomElementDefinition declares a widget factory addressed by tag name
// rather than identifier. Only factories are allowed; a single shared
// instance cannot back many elements.
type CustomElementDefinition struct {
	Name          string
	Factory       component.WidgetFactory
	FactoryModule string
}

// Definitions is the root of one declarative definition set.
type Definitions struct {
	Actions        []ActionDefinition
	Stores         []StoreDefinition
	Widgets        []WidgetDefinition
	CustomElements []CustomElementDefinition
}
