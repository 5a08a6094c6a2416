package factory

import (
	"context"
	"fmt"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/modules"
	"github.com/vk/appgrid/internal/schema"
)

// DefaultStores carries the application-wide fallback stores handed to
// factory makers. Either field may be nil.
type DefaultStores struct {
	Action component.Store
	Widget component.Store
}

func resolutionError(kind, mid, want string) error {
	return fmt.Errorf("could not resolve module %q to a %s %s: %w", mid, kind, want, apperr.ErrResolution)
}

// resolveModule fetches the value a module identifier points at.
func resolveModule(ctx context.Context, resolver modules.Resolver, mid string) (any, error) {
	if resolver == nil {
		return nil, fmt.Errorf("no module resolver configured, cannot resolve %q: %w", mid, apperr.ErrResolution)
	}
	return resolver.Resolve(ctx, mid)
}

func asActionFactory(v any) (component.ActionFactory, bool) {
	switch f := v.(type) {
	case component.ActionFactory:
		return f, true
	case func(context.Context, component.CombinedRegistry) (component.Action, error):
		return f, true
	}
	return nil, false
}

func asStoreFactory(v any) (component.StoreFactory, bool) {
	switch f := v.(type) {
	case component.StoreFactory:
		return f, true
	case func(context.Context, map[string]any) (component.Store, error):
		return f, true
	}
	return nil, false
}

func asWidgetFactory(v any) (component.WidgetFactory, bool) {
	switch f := v.(type) {
	case component.WidgetFactory:
		return f, true
	case func(context.Context, *component.WidgetOptions) (component.Widget, error):
		return f, true
	}
	return nil, false
}

// resolveStateFrom picks the store a definition's state lives in: an inline
// store, a registered store id, or the supplied default. May be nil when no
// default exists.
func resolveStateFrom(ctx context.Context, registry component.CombinedRegistry, ref schema.StoreRef, fallback component.Store) (component.Store, error) {
	switch {
	case ref.Store != nil:
		return ref.Store, nil
	case !ref.ID.IsZero():
		return registry.GetStore(ctx, ref.ID)
	default:
		return fallback, nil
	}
}
