package factory

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/modules"
	"github.com/vk/appgrid/internal/schema"
)

// WidgetProducer is the resolved form of a widget definition: the combined
// registry is supplied at invocation time so cross-references resolve against
// the live application.
type WidgetProducer func(ctx context.Context, registry component.CombinedRegistry) (component.Widget, error)

// MakeWidgetFactory wraps a widget definition in a producer. The underlying
// factory, the listener map, and the state store resolve concurrently; the
// results are merged into the options the factory receives. Declared initial
// state is seeded into the store before the factory runs.
func MakeWidgetFactory(def schema.WidgetDefinition, resolver modules.Resolver, defaults DefaultStores) (WidgetProducer, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	if def.Instance != nil || def.InstanceModule != "" {
		return func(ctx context.Context, _ component.CombinedRegistry) (component.Widget, error) {
			if def.Instance != nil {
				return def.Instance, nil
			}
			v, err := resolveModule(ctx, resolver, def.InstanceModule)
			if err != nil {
				return nil, err
			}
			widget, ok := v.(component.Widget)
			if !ok {
				return nil, resolutionError("widget", def.InstanceModule, "instance")
			}
			return widget, nil
		}, nil
	}

	return func(ctx context.Context, registry component.CombinedRegistry) (component.Widget, error) {
		var (
			widgetFactory component.WidgetFactory
			listeners     map[string][]component.Listener
			store         component.Store
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			widgetFactory, err = resolveWidgetFactory(gctx, def, resolver)
			return err
		})
		g.Go(func() error {
			var err error
			listeners, err = ResolveListeners(gctx, registry, def.Listeners)
			return err
		})
		g.Go(func() error {
			var err error
			store, err = resolveStateFrom(gctx, registry, def.StateFrom, defaults.Widget)
			if err != nil {
				return fmt.Errorf("widget %q: %w", def.ID, err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		SeedState(ctx, store, def.ID, def.State)

		options := &component.WidgetOptions{
			ID:        def.ID,
			Registry:  registry,
			Stateful:  store,
			Listeners: listeners,
			Extra:     def.Options,
		}
		return widgetFactory(ctx, options)
	}, nil
}

func resolveWidgetFactory(ctx context.Context, def schema.WidgetDefinition, resolver modules.Resolver) (component.WidgetFactory, error) {
	if def.Factory != nil {
		return def.Factory, nil
	}
	v, err := resolveModule(ctx, resolver, def.FactoryModule)
	if err != nil {
		return nil, err
	}
	f, ok := asWidgetFactory(v)
	if !ok {
		return nil, resolutionError("widget", def.FactoryModule, "factory function")
	}
	return f, nil
}
