package app

import (
	"context"

	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/ctxlog"
	"github.com/vk/appgrid/internal/identity"
	"github.com/vk/appgrid/internal/modules"
)

// RegisterCoreModules populates resolver with the module exports compiled
// into the binary, so definition manifests can reference them by identifier.
func RegisterCoreModules(resolver *modules.MapResolver) error {
	if err := resolver.RegisterDefault("appgrid/widgets/basic",
		component.WidgetFactory(component.NewBasicWidget)); err != nil {
		return err
	}
	if err := resolver.RegisterDefault("appgrid/stores/memory",
		component.StoreFactory(func(context.Context, map[string]any) (component.Store, error) {
			return component.NewMemoryStore(), nil
		})); err != nil {
		return err
	}
	return resolver.RegisterDefault("appgrid/actions/log",
		component.ActionFactory(func(context.Context, component.CombinedRegistry) (component.Action, error) {
			return component.NewFuncAction(logAction), nil
		}))
}

// logAction writes dispatched events to the context logger, including the
// action's observed state when it has any.
func logAction(ctx context.Context, event any, store component.Store, id identity.Identifier) error {
	logger := ctxlog.FromContext(ctx)
	if store != nil {
		if state, err := store.Get(ctx, id); err == nil {
			logger.Info("Action dispatched.", "id", id.String(), "event", event, "state", map[string]any(state))
			return nil
		}
	}
	logger.Info("Action dispatched.", "id", id.String(), "event", event)
	return nil
}
