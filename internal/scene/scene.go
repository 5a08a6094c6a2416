// Package scene renders a declarative scene description into widgets,
// diffing each render against the previous one through a key-addressed cache:
// unchanged subtrees keep their widget instances, changed or dropped subtrees
// are destroyed and rebuilt.
package scene

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/ctxlog"
	"github.com/vk/appgrid/internal/identity"
	"github.com/vk/appgrid/internal/realize"
)

// Node describes one widget in a scene: either an existing widget referenced
// by id, or a custom element instantiated with options. Key names the node in
// the render cache; it defaults to the node's position.
type Node struct {
	Widget   string         `json:"widget,omitempty"`
	Element  string         `json:"element,omitempty"`
	Key      string         `json:"key,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
	Children []Node         `json:"children,omitempty"`
}

type cached struct {
	signature string
	widget    component.Widget
	owned     bool
	handle    *identity.Handle
}

// Renderer renders successive scenes beneath one root element.
type Renderer struct {
	registry         realize.Registry
	projectorFactory component.ProjectorFactory
	root             *html.Node

	mu        sync.Mutex
	cache     map[string]*cached
	projector component.Projector
	destroyed bool
}

// NewRenderer creates a renderer mounting scenes beneath root.
func NewRenderer(registry realize.Registry, projectorFactory component.ProjectorFactory, root *html.Node) *Renderer {
	if projectorFactory == nil {
		projectorFactory = component.NewHTMLProjector
	}
	return &Renderer{
		registry:         registry,
		projectorFactory: projectorFactory,
		root:             root,
		cache:            make(map[string]*cached),
	}
}

// Render mounts the scene, reusing cached widgets for unchanged subtrees and
// destroying widgets whose nodes disappeared or changed.
func (r *Renderer) Render(ctx context.Context, nodes []Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return fmt.Errorf("renderer has been destroyed")
	}
	logger := ctxlog.FromContext(ctx)

	desired := make(map[string]struct{})
	var top []component.Widget
	for i, n := range nodes {
		widget, err := r.reconcile(ctx, pathKey("", n, i), n, desired)
		if err != nil {
			return err
		}
		top = append(top, widget)
	}

	// Drop cache entries the new scene no longer names.
	for path, entry := range r.cache {
		if _, keep := desired[path]; keep {
			continue
		}
		r.evict(path, entry, logger)
	}

	// Remount: the previous projector is discarded wholesale; the cache, not
	// the projector, carries state across renders.
	if r.projector != nil {
		if err := r.projector.Destroy(); err != nil {
			logger.Warn("Failed to destroy previous projector.", "error", err)
		}
	}
	r.projector = r.projectorFactory(component.ProjectorOptions{Root: r.root})
	for _, widget := range top {
		if err := r.projector.Append(widget); err != nil {
			return err
		}
	}
	return r.projector.Attach(ctx)
}

// reconcile returns the widget for one scene node, reusing the cached
// instance when the node's subtree is unchanged.
func (r *Renderer) reconcile(ctx context.Context, path string, n Node, desired map[string]struct{}) (component.Widget, error) {
	desired[path] = struct{}{}
	signature := signatureOf(n)

	if entry, ok := r.cache[path]; ok {
		if entry.signature == signature {
			// Subtree unchanged; descendants stay cached too.
			markSubtreeDesired(r.cache, path, desired)
			return entry.widget, nil
		}
		r.evictSubtree(path, ctxlog.FromContext(ctx))
	}

	widget, owned, handle, err := r.create(ctx, n)
	if err != nil {
		return nil, err
	}
	for i, child := range n.Children {
		childWidget, err := r.reconcile(ctx, pathKey(path, child, i), child, desired)
		if err != nil {
			return nil, err
		}
		if err := widget.AppendChild(childWidget); err != nil {
			return nil, err
		}
	}
	r.cache[path] = &cached{signature: signature, widget: widget, owned: owned, handle: handle}
	return widget, nil
}

func (r *Renderer) create(ctx context.Context, n Node) (component.Widget, bool, *identity.Handle, error) {
	switch {
	case n.Widget != "" && n.Element != "":
		return nil, false, nil, fmt.Errorf("scene node cannot name both widget %q and element %q: %w",
			n.Widget, n.Element, apperr.ErrValidation)
	case n.Widget != "":
		widget, err := r.registry.GetWidget(ctx, identity.ID(n.Widget))
		return widget, false, nil, err
	case n.Element != "":
		widgetFactory, err := r.registry.GetCustomElementFactory(ctx, n.Element)
		if err != nil {
			return nil, false, nil, err
		}
		id := identity.ID(uuid.NewString())
		widget, err := widgetFactory(ctx, &component.WidgetOptions{
			ID:       id,
			Registry: r.registry,
			Extra:    n.Options,
		})
		if err != nil {
			return nil, false, nil, err
		}
		handle, err := r.registry.RegisterRealizedWidget(id, widget)
		if err != nil {
			_ = widget.Destroy()
			return nil, false, nil, err
		}
		return widget, true, handle, nil
	default:
		return nil, false, nil, fmt.Errorf("scene node must name a widget or an element: %w", apperr.ErrValidation)
	}
}

// Destroy tears down the projector and every widget the renderer created.
func (r *Renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return
	}
	r.destroyed = true
	if r.projector != nil {
		_ = r.projector.Destroy()
		r.projector = nil
	}
	for path, entry := range r.cache {
		r.evict(path, entry, ctxlog.FromContext(context.Background()))
	}
}

func (r *Renderer) evict(path string, entry *cached, logger interface{ Warn(string, ...any) }) {
	if entry.owned {
		if err := entry.widget.Destroy(); err != nil {
			logger.Warn("Failed to destroy scene widget.", "path", path, "error", err)
		}
	}
	if entry.handle != nil {
		entry.handle.Destroy()
	}
	delete(r.cache, path)
}

func (r *Renderer) evictSubtree(path string, logger interface{ Warn(string, ...any) }) {
	prefix := path + "/"
	for p, entry := range r.cache {
		if p == path || strings.HasPrefix(p, prefix) {
			r.evict(p, entry, logger)
		}
	}
}

func markSubtreeDesired(cache map[string]*cached, path string, desired map[string]struct{}) {
	prefix := path + "/"
	for p := range cache {
		if strings.HasPrefix(p, prefix) {
			desired[p] = struct{}{}
		}
	}
}

func pathKey(parent string, n Node, index int) string {
	key := n.Key
	if key == "" {
		switch {
		case n.Widget != "":
			key = fmt.Sprintf("%s@%d", n.Widget, index)
		default:
			key = fmt.Sprintf("%s@%d", n.Element, index)
		}
	}
	return parent + "/" + key
}

// signatureOf fingerprints a node's entire subtree; equality means the cached
// widget can be reused as-is.
func signatureOf(n Node) string {
	raw, err := json.Marshal(n)
	if err != nil {
		return fmt.Sprintf("%#v", n)
	}
	return string(raw)
}
