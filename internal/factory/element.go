package factory

import (
	"context"
	"sync"

	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/future"
	"github.com/vk/appgrid/internal/modules"
	"github.com/vk/appgrid/internal/schema"
)

// MakeCustomElementFactory wraps a custom-element definition in a widget
// factory. Unlike identifier-keyed factories, a custom-element factory runs
// once per element instance, so the module resolution itself is what gets
// memoized: concurrent first uses share one resolution, and every later use
// reuses the resolved factory. A failed resolution stays failed.
func MakeCustomElementFactory(def schema.CustomElementDefinition, resolver modules.Resolver) (component.WidgetFactory, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if def.Factory != nil {
		return def.Factory, nil
	}

	var (
		once sync.Once
		fut  *future.Future[component.WidgetFactory]
	)
	return func(ctx context.Context, options *component.WidgetOptions) (component.Widget, error) {
		once.Do(func() {
			// Detached from the first caller's ctx so its cancellation
			// cannot poison the shared resolution.
			rctx := context.WithoutCancel(ctx)
			fut = future.Go(func() (component.WidgetFactory, error) {
				v, err := resolveModule(rctx, resolver, def.FactoryModule)
				if err != nil {
					return nil, err
				}
				f, ok := asWidgetFactory(v)
				if !ok {
					return nil, resolutionError("custom element", def.FactoryModule, "factory function")
				}
				return f, nil
			})
		})
		f, err := fut.Result(ctx)
		if err != nil {
			return nil, err
		}
		return f(ctx, options)
	}, nil
}
