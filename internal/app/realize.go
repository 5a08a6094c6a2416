package app

import (
	"context"

	"golang.org/x/net/html"

	"github.com/vk/appgrid/internal/ctxlog"
	"github.com/vk/appgrid/internal/identity"
	"github.com/vk/appgrid/internal/realize"
	"github.com/vk/appgrid/internal/scene"
)

// RealizeCustomElements realizes every custom-element tree beneath root,
// wiring live widgets into the document. The returned handle tears down
// everything this call created.
func (a *App) RealizeCustomElements(ctx context.Context, root *html.Node) (*identity.Handle, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	handle, err := realize.Realize(ctx, a, root, realize.Options{ProjectorFactory: a.projector})
	if err != nil {
		return nil, err
	}
	a.track(handle)
	return handle, nil
}

// NewSceneRenderer creates a scene renderer mounting beneath root, backed by
// this application's registries.
func (a *App) NewSceneRenderer(root *html.Node) *scene.Renderer {
	return scene.NewRenderer(a, a.projector, root)
}
