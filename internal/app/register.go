package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/factory"
	"github.com/vk/appgrid/internal/identity"
	"github.com/vk/appgrid/internal/instance"
	"github.com/vk/appgrid/internal/realize"
)

// registerInstance implements the common instance-registration protocol:
// claim the id, associate the instance, store a pre-resolved slot.
func registerInstance[T any](a *App, reg *identity.Registry[*registered[T]], id identity.Identifier, value T, kind instance.Kind) (*identity.Handle, error) {
	nsHandle, err := a.claimID(id)
	if err != nil {
		return nil, err
	}
	instHandle, err := a.instances.Add(value, id, kind)
	if err != nil {
		nsHandle.Destroy()
		return nil, err
	}
	slot := newResolved(value)
	regHandle, err := reg.Register(id, slot)
	if err != nil {
		instHandle.Destroy()
		nsHandle.Destroy()
		return nil, err
	}

	handle := identity.Composite(regHandle, instHandle, nsHandle)
	a.track(handle)
	a.logger.Debug("Registered instance.", "kind", kind.String(), "id", id.String())
	return handle, nil
}

// registerFactory implements the common factory-registration protocol. invoke
// runs the user factory and must register the result via the slot itself.
func registerFactory[T any](a *App, reg *identity.Registry[*registered[T]], id identity.Identifier, kind instance.Kind, invoke func(ctx context.Context, slot *registered[T]) (T, error)) (*identity.Handle, error) {
	nsHandle, err := a.claimID(id)
	if err != nil {
		return nil, err
	}
	slot := &registered[T]{}
	slot.factory = func(ctx context.Context) (T, error) {
		return invoke(ctx, slot)
	}
	regHandle, err := reg.Register(id, slot)
	if err != nil {
		nsHandle.Destroy()
		return nil, err
	}

	handle := identity.NewHandle(func() {
		slot.markDestroyed()
		regHandle.Destroy()
		nsHandle.Destroy()
	})
	a.track(handle)
	a.logger.Debug("Registered factory.", "kind", kind.String(), "id", id.String())
	return handle, nil
}

// RegisterAction registers a live action under id.
func (a *App) RegisterAction(id identity.Identifier, action component.Action) (*identity.Handle, error) {
	return registerInstance(a, a.actions, id, action, instance.Action)
}

// RegisterActionFactory registers a factory invoked at most once, on the
// first GetAction for id.
func (a *App) RegisterActionFactory(id identity.Identifier, f component.ActionFactory) (*identity.Handle, error) {
	return registerFactory(a, a.actions, id, instance.Action, func(ctx context.Context, slot *registered[component.Action]) (component.Action, error) {
		action, err := f(ctx, a)
		if err != nil {
			return nil, err
		}
		if err := slot.adopt(a.instances, action, id, instance.Action); err != nil {
			return nil, err
		}
		return action, nil
	})
}

// RegisterStore registers a live store under id.
func (a *App) RegisterStore(id identity.Identifier, store component.Store) (*identity.Handle, error) {
	return registerInstance(a, a.stores, id, store, instance.Store)
}

// RegisterStoreFactory registers a factory invoked at most once, on the first
// GetStore for id.
func (a *App) RegisterStoreFactory(id identity.Identifier, f factory.StoreProducer) (*identity.Handle, error) {
	return registerFactory(a, a.stores, id, instance.Store, func(ctx context.Context, slot *registered[component.Store]) (component.Store, error) {
		store, err := f(ctx)
		if err != nil {
			return nil, err
		}
		if err := slot.adopt(a.instances, store, id, instance.Store); err != nil {
			return nil, err
		}
		return store, nil
	})
}

// RegisterWidget registers a live widget under id.
func (a *App) RegisterWidget(id identity.Identifier, widget component.Widget) (*identity.Handle, error) {
	return registerInstance(a, a.widgets, id, widget, instance.Widget)
}

// RegisterWidgetFactory registers a factory invoked at most once, on the
// first GetWidget for id.
func (a *App) RegisterWidgetFactory(id identity.Identifier, f factory.WidgetProducer) (*identity.Handle, error) {
	return registerFactory(a, a.widgets, id, instance.Widget, func(ctx context.Context, slot *registered[component.Widget]) (component.Widget, error) {
		widget, err := f(ctx, a)
		if err != nil {
			return nil, err
		}
		if err := slot.adopt(a.instances, widget, id, instance.Widget); err != nil {
			return nil, err
		}
		return widget, nil
	})
}

// RegisterCustomElementFactory registers a widget factory under a custom
// element tag name. Names are case-insensitive and live in their own
// namespace; the reserved realization tags are rejected.
func (a *App) RegisterCustomElementFactory(name string, f component.WidgetFactory) (*identity.Handle, error) {
	normalized := strings.ToLower(name)
	if realize.ReservedTag(normalized) {
		return nil, fmt.Errorf("custom element name %q is reserved: %w", name, apperr.ErrValidation)
	}
	entry := &elementEntry{factory: f}
	regHandle, err := a.elements.Register(identity.ID(normalized), entry)
	if err != nil {
		return nil, err
	}
	a.track(regHandle)
	a.logger.Debug("Registered custom element factory.", "name", normalized)
	return regHandle, nil
}

// RegisterRealizedWidget records a widget created by realization so GetWidget
// and identification see it. The handle removes the record without destroying
// the widget.
func (a *App) RegisterRealizedWidget(id identity.Identifier, widget component.Widget) (*identity.Handle, error) {
	nsHandle, err := a.claimID(id)
	if err != nil {
		return nil, err
	}
	instHandle, err := a.instances.Add(widget, id, instance.Widget)
	if err != nil {
		nsHandle.Destroy()
		return nil, err
	}

	a.mu.Lock()
	a.widgetInstances[id] = widget
	a.mu.Unlock()
	tableHandle := identity.NewHandle(func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.widgetInstances, id)
	})

	handle := identity.Composite(tableHandle, instHandle, nsHandle)
	a.track(handle)
	return handle, nil
}
