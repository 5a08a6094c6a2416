package factory

import (
	"context"
	"fmt"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/modules"
	"github.com/vk/appgrid/internal/schema"
)

// MakeActionFactory wraps an action definition in a factory that resolves the
// underlying action and points it at its state store. Observation is wired
// strictly after creation: the action's observation API cannot be configured
// through factory options.
func MakeActionFactory(def schema.ActionDefinition, resolver modules.Resolver, defaults DefaultStores) (component.ActionFactory, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	return func(ctx context.Context, registry component.CombinedRegistry) (component.Action, error) {
		action, err := resolveAction(ctx, def, resolver, registry)
		if err != nil {
			return nil, err
		}
		if def.Instance != nil || def.InstanceModule != "" {
			// Instances arrive fully configured; no store wiring.
			return action, nil
		}

		store, err := resolveStateFrom(ctx, registry, def.StateFrom, defaults.Action)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", def.ID, err)
		}
		if store != nil {
			SeedState(ctx, store, def.ID, def.State)
			action.Observe(store, def.ID)
		}
		return action, nil
	}, nil
}

func resolveAction(ctx context.Context, def schema.ActionDefinition, resolver modules.Resolver, registry component.CombinedRegistry) (component.Action, error) {
	switch {
	case def.Factory != nil:
		return def.Factory(ctx, registry)
	case def.Instance != nil:
		return def.Instance, nil
	case def.FactoryModule != "":
		v, err := resolveModule(ctx, resolver, def.FactoryModule)
		if err != nil {
			return nil, err
		}
		f, ok := asActionFactory(v)
		if !ok {
			return nil, resolutionError("action", def.FactoryModule, "factory function")
		}
		return f(ctx, registry)
	case def.InstanceModule != "":
		v, err := resolveModule(ctx, resolver, def.InstanceModule)
		if err != nil {
			return nil, err
		}
		action, ok := v.(component.Action)
		if !ok {
			return nil, resolutionError("action", def.InstanceModule, "instance")
		}
		return action, nil
	default:
		return nil, fmt.Errorf("action %q has no source: %w", def.ID, apperr.ErrValidation)
	}
}
