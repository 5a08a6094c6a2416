package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html"

	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/ctxlog"
	"github.com/vk/appgrid/internal/modules"
	"github.com/vk/appgrid/internal/schema"
)

// DefinitionLoader loads component definitions from manifest paths.
type DefinitionLoader interface {
	Load(ctx context.Context, paths ...string) (schema.Definitions, error)
}

// NewFromConfig assembles a ready-to-run App: a logger writing to outW, a
// module resolver preloaded with the core modules, and memory-backed default
// stores.
func NewFromConfig(outW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)

	resolver := modules.NewMapResolver()
	if err := RegisterCoreModules(resolver); err != nil {
		return nil, fmt.Errorf("failed to register core modules: %w", err)
	}

	return New(Options{
		Logger:             logger,
		Resolver:           resolver,
		DefaultActionStore: component.NewMemoryStore(),
		DefaultWidgetStore: component.NewMemoryStore(),
	}), nil
}

// Run loads the definition manifests, realizes the custom elements in the
// configured page, and renders the resulting document to pageW.
func (a *App) Run(ctx context.Context, cfg *Config, loader DefinitionLoader, pageW io.Writer) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if cfg.DefsPath != "" {
		if loader == nil {
			return fmt.Errorf("a definition loader is required when DefsPath is set")
		}
		defs, err := loader.Load(ctx, cfg.DefsPath)
		if err != nil {
			return fmt.Errorf("failed to load definitions: %w", err)
		}
		if _, err := a.LoadDefinition(defs); err != nil {
			return fmt.Errorf("failed to register definitions: %w", err)
		}
	}

	pageFile, err := os.Open(cfg.PagePath)
	if err != nil {
		return fmt.Errorf("failed to open page %s: %w", cfg.PagePath, err)
	}
	doc, err := html.Parse(pageFile)
	pageFile.Close()
	if err != nil {
		return fmt.Errorf("failed to parse page %s: %w", cfg.PagePath, err)
	}

	if _, err := a.RealizeCustomElements(ctx, doc); err != nil {
		return fmt.Errorf("failed to realize custom elements: %w", err)
	}
	a.logger.Info("Page realized.", "page", cfg.PagePath)

	if err := html.Render(pageW, doc); err != nil {
		return fmt.Errorf("failed to render realized page: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
