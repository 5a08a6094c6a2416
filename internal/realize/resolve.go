package realize

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/factory"
	"github.com/vk/appgrid/internal/identity"
	"github.com/vk/appgrid/internal/schema"
)

// planTree walks one projector tree breadth-first, parsing every node's
// attributes and accumulating the widget-append work list. All structural and
// attribute validation happens here, before any widget is created. The
// returned appends are ordered bottom-up: each entry was prepended as the
// walk went deeper, so a node's children attach before the node itself does.
func planTree(t *tree, registry Registry) ([]*node, []func() error, error) {
	var nodes []*node
	var appends []func() error

	type level struct {
		parent   *node
		siblings []*node
	}
	queue := []level{{parent: t.root, siblings: t.root.children}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, n := range current.siblings {
			if err := planNode(t, n); err != nil {
				return nil, nil, err
			}
			nodes = append(nodes, n)
			if current.parent != t.root {
				parent, child := current.parent, n
				appends = append([]func() error{func() error {
					return parent.widget.AppendChild(child.widget)
				}}, appends...)
			}
			queue = append(queue, level{parent: n, siblings: n.children})
		}
	}
	return nodes, appends, nil
}

func planNode(t *tree, n *node) error {
	el := n.element

	uid, hasUID := attr(el, "data-uid")
	if !hasUID {
		uid, hasUID = attr(el, "id")
	}

	if n.name == TagWidget {
		if !hasUID || uid == "" {
			return fmt.Errorf("<%s> requires a data-uid or id attribute: %w", TagWidget, apperr.ErrStructural)
		}
		n.uid = identity.ID(uid)
		return nil
	}

	if hasUID && uid != "" {
		n.uid = identity.ID(uid)
	} else {
		n.uid = identity.ID(uuid.NewString())
	}

	if raw, ok := attr(el, "data-options"); ok {
		options, err := schema.ParseOptionsAttr("data-options", raw)
		if err != nil {
			return err
		}
		n.options = options
	}
	if raw, ok := attr(el, "data-listeners"); ok {
		listeners, err := schema.ParseListenersAttr("data-listeners", raw)
		if err != nil {
			return err
		}
		n.listeners = listeners
	}
	if raw, ok := attr(el, "data-state"); ok {
		state, err := schema.ParseStateAttr("data-state", raw)
		if err != nil {
			return err
		}
		n.state = state
	}

	// State source precedence: node attribute, then the tree's projector
	// attribute; zero means the application default.
	if sf, ok := attr(el, "data-state-from"); ok && sf != "" {
		n.storeID = identity.ID(sf)
	} else {
		n.storeID = t.stateFrom
	}
	return nil
}

// resolveNode produces the node's widget: an existing-instance lookup for
// widget placeholders, or a custom-element factory invocation with listeners
// and state store resolved concurrently.
func resolveNode(ctx context.Context, registry Registry, n *node) error {
	if n.name == TagWidget {
		widget, err := registry.GetWidget(ctx, n.uid)
		if err != nil {
			return err
		}
		n.widget = widget
		return nil
	}

	widgetFactory, err := registry.GetCustomElementFactory(ctx, n.name)
	if err != nil {
		return err
	}

	var (
		listeners map[string][]component.Listener
		store     component.Store
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		listeners, err = factory.ResolveListeners(gctx, registry, n.listeners)
		return err
	})
	g.Go(func() error {
		switch {
		case !n.storeID.IsZero():
			var err error
			store, err = registry.GetStore(gctx, n.storeID)
			return err
		case registry.HasStore(identity.DefaultWidgetStore):
			var err error
			store, err = registry.GetStore(gctx, identity.DefaultWidgetStore)
			return err
		default:
			return nil
		}
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("custom element <%s>: %w", n.name, err)
	}

	factory.SeedState(ctx, store, n.uid, n.state)

	widget, err := widgetFactory(ctx, &component.WidgetOptions{
		ID:        n.uid,
		Registry:  registry,
		Stateful:  store,
		Listeners: listeners,
		Extra:     n.options,
	})
	if err != nil {
		return fmt.Errorf("custom element <%s>: %w", n.name, err)
	}
	n.widget = widget
	n.owned = true
	return nil
}
