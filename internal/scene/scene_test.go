package scene_test

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/net/html"

	"github.com/vk/appgrid/internal/app"
	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/identity"
	"github.com/vk/appgrid/internal/scene"
)

func newSceneApp(t *testing.T) (*app.App, *atomic.Int32) {
	t.Helper()
	a := app.New(app.Options{
		DefaultActionStore: component.NewMemoryStore(),
		DefaultWidgetStore: component.NewMemoryStore(),
	})
	var created atomic.Int32
	_, err := a.RegisterCustomElementFactory("app-box",
		func(ctx context.Context, options *component.WidgetOptions) (component.Widget, error) {
			created.Add(1)
			return component.NewBasicWidget(ctx, options)
		})
	require.NoError(t, err)
	return a, &created
}

func renderRoot(t *testing.T, root *html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, root))
	return buf.String()
}

func TestRenderer_MountsScene(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, created := newSceneApp(t)
	root := &html.Node{Type: html.ElementNode, Data: "body"}
	r := a.NewSceneRenderer(root)

	err := r.Render(ctx, []scene.Node{
		{Element: "app-box", Key: "outer", Options: map[string]any{"label": "outer"}, Children: []scene.Node{
			{Element: "app-box", Key: "inner", Options: map[string]any{"label": "inner"}},
		}},
	})
	require.NoError(t, err)

	out := renderRoot(t, root)
	assert.Contains(t, out, "outer")
	assert.Contains(t, out, "inner")
	assert.Equal(t, int32(2), created.Load())
}

func TestRenderer_UnchangedSubtreeReusesWidgets(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, created := newSceneApp(t)
	root := &html.Node{Type: html.ElementNode, Data: "body"}
	r := a.NewSceneRenderer(root)

	nodes := []scene.Node{
		{Element: "app-box", Key: "outer", Options: map[string]any{"label": "outer"}},
	}
	require.NoError(t, r.Render(ctx, nodes))
	require.NoError(t, r.Render(ctx, nodes))

	assert.Equal(t, int32(1), created.Load(), "an unchanged node keeps its widget across renders")
}

func TestRenderer_ChangedNodeIsRebuilt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, created := newSceneApp(t)
	root := &html.Node{Type: html.ElementNode, Data: "body"}
	r := a.NewSceneRenderer(root)

	require.NoError(t, r.Render(ctx, []scene.Node{
		{Element: "app-box", Key: "box", Options: map[string]any{"label": "before"}},
	}))
	require.NoError(t, r.Render(ctx, []scene.Node{
		{Element: "app-box", Key: "box", Options: map[string]any{"label": "after"}},
	}))

	assert.Equal(t, int32(2), created.Load(), "changed options force a rebuild")
	out := renderRoot(t, root)
	assert.Contains(t, out, "after")
	assert.NotContains(t, out, "before")
}

func TestRenderer_DroppedNodeIsEvicted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, _ := newSceneApp(t)
	root := &html.Node{Type: html.ElementNode, Data: "body"}
	r := a.NewSceneRenderer(root)

	require.NoError(t, r.Render(ctx, []scene.Node{
		{Element: "app-box", Key: "a", Options: map[string]any{"label": "a"}},
		{Element: "app-box", Key: "b", Options: map[string]any{"label": "b"}},
	}))
	require.NoError(t, r.Render(ctx, []scene.Node{
		{Element: "app-box", Key: "a", Options: map[string]any{"label": "a"}},
	}))

	out := renderRoot(t, root)
	assert.Contains(t, out, ">a<")
	assert.False(t, strings.Contains(out, ">b<"), "the dropped node's output is gone")
}

func TestRenderer_WidgetReference(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, _ := newSceneApp(t)
	w, err := component.NewBasicWidget(ctx, &component.WidgetOptions{
		ID:    identity.ID("existing"),
		Extra: map[string]any{"label": "existing"},
	})
	require.NoError(t, err)
	_, err = a.RegisterWidget(identity.ID("existing"), w)
	require.NoError(t, err)

	root := &html.Node{Type: html.ElementNode, Data: "body"}
	r := a.NewSceneRenderer(root)
	require.NoError(t, r.Render(ctx, []scene.Node{{Widget: "existing"}}))
	assert.Contains(t, renderRoot(t, root), "existing")

	// Referenced widgets are not owned: destroying the renderer leaves them
	// registered.
	r.Destroy()
	assert.True(t, a.HasWidget(identity.ID("existing")))
}

func TestRenderer_InvalidNodes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, _ := newSceneApp(t)
	root := &html.Node{Type: html.ElementNode, Data: "body"}
	r := a.NewSceneRenderer(root)

	err := r.Render(ctx, []scene.Node{{}})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = r.Render(ctx, []scene.Node{{Widget: "w", Element: "app-box"}})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRenderer_Destroy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, _ := newSceneApp(t)
	root := &html.Node{Type: html.ElementNode, Data: "body"}
	r := a.NewSceneRenderer(root)

	require.NoError(t, r.Render(ctx, []scene.Node{
		{Element: "app-box", Key: "box", Options: map[string]any{"label": "boxed"}},
	}))

	r.Destroy()
	r.Destroy() // idempotent
	assert.NotContains(t, renderRoot(t, root), "boxed")

	err := r.Render(ctx, []scene.Node{{Widget: "whatever"}})
	require.Error(t, err, "a destroyed renderer renders nothing")
}
