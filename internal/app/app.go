package app

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/factory"
	"github.com/vk/appgrid/internal/identity"
	"github.com/vk/appgrid/internal/instance"
	"github.com/vk/appgrid/internal/modules"
)

// Options configures a new application instance. All fields are optional.
type Options struct {
	// Logger is the application's isolated logger; defaults to slog.Default.
	Logger *slog.Logger
	// Resolver resolves module identifiers referenced by definitions.
	Resolver modules.Resolver
	// DefaultActionStore backs actions that declare no state source.
	DefaultActionStore component.Store
	// DefaultWidgetStore backs widgets and custom elements that declare no
	// state source.
	DefaultWidgetStore component.Store
	// ProjectorFactory creates the projector attached per realized tree
	// root; defaults to the reference HTML projector.
	ProjectorFactory component.ProjectorFactory
}

// App is one application instance. It owns every registry and the identifier
// namespace; destroying the app releases all registrations.
type App struct {
	logger    *slog.Logger
	resolver  modules.Resolver
	defaults  factory.DefaultStores
	projector component.ProjectorFactory

	actions  *identity.Registry[*registered[component.Action]]
	stores   *identity.Registry[*registered[component.Store]]
	widgets  *identity.Registry[*registered[component.Widget]]
	elements *identity.Registry[*elementEntry]

	instances *instance.Registry

	mu              sync.Mutex
	namespace       map[identity.Identifier]struct{}
	widgetInstances map[identity.Identifier]component.Widget
	handles         []*identity.Handle
	destroyed       bool
}

// elementEntry wraps a custom-element factory so the identity registry has a
// comparable value to key its reverse map on.
type elementEntry struct {
	factory component.WidgetFactory
}

// New creates an application instance.
func New(options Options) *App {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	projector := options.ProjectorFactory
	if projector == nil {
		projector = component.NewHTMLProjector
	}
	return &App{
		logger:    logger,
		resolver:  options.Resolver,
		projector: projector,
		defaults: factory.DefaultStores{
			Action: options.DefaultActionStore,
			Widget: options.DefaultWidgetStore,
		},
		actions:         identity.NewRegistry[*registered[component.Action]](),
		stores:          identity.NewRegistry[*registered[component.Store]](),
		widgets:         identity.NewRegistry[*registered[component.Widget]](),
		elements:        identity.NewRegistry[*elementEntry](),
		instances:       instance.NewRegistry(),
		namespace:       make(map[identity.Identifier]struct{}),
		widgetInstances: make(map[identity.Identifier]component.Widget),
	}
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// claimID reserves id in the namespace shared by actions, stores, and
// widgets. The returned handle releases the claim.
func (a *App) claimID(id identity.Identifier) (*identity.Handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.destroyed {
		return nil, fmt.Errorf("application has been destroyed: %w", apperr.ErrConflict)
	}
	if _, ok := a.namespace[id]; ok {
		return nil, fmt.Errorf("identifier %q is already in use: %w", id, apperr.ErrConflict)
	}
	a.namespace[id] = struct{}{}
	return identity.NewHandle(func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.namespace, id)
	}), nil
}

// track remembers a registration handle so Destroy can release it.
func (a *App) track(h *identity.Handle) {
	a.mu.Lock()
	a.handles = append(a.handles, h)
	a.mu.Unlock()
}

// Destroy tears down every registration made through this application.
func (a *App) Destroy() {
	a.mu.Lock()
	if a.destroyed {
		a.mu.Unlock()
		return
	}
	a.destroyed = true
	handles := a.handles
	a.handles = nil
	a.mu.Unlock()

	for _, h := range handles {
		h.Destroy()
	}
	a.logger.Debug("Application destroyed.", "registrations", len(handles))
}
