package factory

import (
	"context"
	"fmt"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/modules"
	"github.com/vk/appgrid/internal/schema"
)

// StoreProducer is the resolved form of a store definition: a zero-argument
// factory whose options were already bound.
type StoreProducer func(ctx context.Context) (component.Store, error)

// MakeStoreFactory wraps a store definition in a producer binding the
// definition's options.
func MakeStoreFactory(def schema.StoreDefinition, resolver modules.Resolver) (StoreProducer, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	return func(ctx context.Context) (component.Store, error) {
		switch {
		case def.Factory != nil:
			return def.Factory(ctx, def.Options)
		case def.Instance != nil:
			return def.Instance, nil
		case def.FactoryModule != "":
			v, err := resolveModule(ctx, resolver, def.FactoryModule)
			if err != nil {
				return nil, err
			}
			f, ok := asStoreFactory(v)
			if !ok {
				return nil, resolutionError("store", def.FactoryModule, "factory function")
			}
			return f(ctx, def.Options)
		case def.InstanceModule != "":
			v, err := resolveModule(ctx, resolver, def.InstanceModule)
			if err != nil {
				return nil, err
			}
			store, ok := v.(component.Store)
			if !ok {
				return nil, resolutionError("store", def.InstanceModule, "instance")
			}
			return store, nil
		default:
			return nil, fmt.Errorf("store %q has no source: %w", def.ID, apperr.ErrValidation)
		}
	}, nil
}
