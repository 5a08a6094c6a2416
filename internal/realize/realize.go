package realize

import (
	"context"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/ctxlog"
	"github.com/vk/appgrid/internal/identity"
)

// Registry is the application surface realization works against: the
// combined query interface plus registration of the widgets realization
// creates.
type Registry interface {
	component.CombinedRegistry
	RegisterRealizedWidget(id identity.Identifier, widget component.Widget) (*identity.Handle, error)
}

// Options configures one realization call.
type Options struct {
	// ProjectorFactory creates the projector attached per tree root;
	// defaults to the reference HTML projector.
	ProjectorFactory component.ProjectorFactory
}

// tree is one projector-rooted custom-element tree.
type tree struct {
	root           *node
	stateFrom      identity.Identifier // projector-level data-state-from
	cssTransitions bool
	projector      component.Projector
}

// Realize reconstructs the custom-element forest beneath root, resolves every
// node's widget, builds the widget hierarchy bottom-up, and attaches one
// projector per tree. The returned handle tears down everything realization
// created; widgets that pre-existed in the registry are left alone.
func Realize(ctx context.Context, registry Registry, root *html.Node, options Options) (*identity.Handle, error) {
	logger := ctxlog.FromContext(ctx)
	projectorFactory := options.ProjectorFactory
	if projectorFactory == nil {
		projectorFactory = component.NewHTMLProjector
	}

	// Steps 1-2: flat query, then forest reconstruction. Structural errors
	// abort before any widget exists.
	flat := queryCustomElements(root, registry)
	roots, err := buildForest(flat)
	if err != nil {
		return nil, err
	}

	trees := make([]*tree, 0, len(roots))
	var allNodes []*node
	var appendQueue []func() error
	for _, r := range roots {
		t := &tree{root: r}
		if sf, ok := attr(r.element, "data-state-from"); ok && sf != "" {
			t.stateFrom = identity.ID(sf)
		}
		if raw, ok := attr(r.element, "data-css-transitions"); ok {
			t.cssTransitions = raw != "false"
		}
		nodes, appends, err := planTree(t, registry)
		if err != nil {
			return nil, err
		}
		allNodes = append(allNodes, nodes...)
		appendQueue = append(appendQueue, appends...)
		trees = append(trees, t)
	}

	// Step 3: resolve every widget concurrently, one fan-in for the batch.
	g, gctx := errgroup.WithContext(ctx)
	for _, n := range allNodes {
		n := n
		g.Go(func() error {
			return resolveNode(gctx, registry, n)
		})
	}
	if err := g.Wait(); err != nil {
		destroyOwned(allNodes)
		return nil, err
	}

	// Step 4: usage validation over the complete resolved set, strictly
	// before any DOM mutation.
	seen := make(map[component.Widget]struct{}, len(allNodes))
	for _, n := range allNodes {
		if _, ok := seen[n.widget]; ok {
			destroyOwned(allNodes)
			return nil, fmt.Errorf("cannot attach widget %q multiple times: %w", n.uid, apperr.ErrStructural)
		}
		seen[n.widget] = struct{}{}
		if n.widget.Parent() != nil {
			destroyOwned(allNodes)
			return nil, fmt.Errorf("cannot attach widget %q that already has a parent: %w", n.uid, apperr.ErrStructural)
		}
	}

	var handles []*identity.Handle
	abort := func() {
		for _, h := range handles {
			h.Destroy()
		}
		destroyOwned(allNodes)
	}
	for _, n := range allNodes {
		if !n.owned {
			continue
		}
		h, err := registry.RegisterRealizedWidget(n.uid, n.widget)
		if err != nil {
			abort()
			return nil, err
		}
		handles = append(handles, h)
	}

	// Step 5: bottom-up hierarchy construction.
	for _, appendFn := range appendQueue {
		if err := appendFn(); err != nil {
			abort()
			return nil, err
		}
	}

	// Step 6: one projector per tree root, swapping rendered output in for
	// the immediate placeholder elements on first render.
	for _, t := range trees {
		t.projector = projectorFactory(component.ProjectorOptions{
			Root:           t.root.element,
			CSSTransitions: t.cssTransitions,
		})
		for _, top := range t.root.children {
			if err := t.projector.Append(top.widget); err != nil {
				abort()
				return nil, err
			}
		}
		topLevel := t.root.children
		t.projector.OnAttach(func() {
			for _, top := range topLevel {
				replacePlaceholder(top)
			}
		})
	}
	for _, t := range trees {
		if err := t.projector.Attach(ctx); err != nil {
			abort()
			return nil, err
		}
	}

	logger.Debug("Realization complete.", "trees", len(trees), "widgets", len(allNodes))

	// Step 7: composite teardown.
	projectors := trees
	owned := allNodes
	return identity.NewHandle(func() {
		for _, t := range projectors {
			if t.projector != nil {
				if err := t.projector.Destroy(); err != nil {
					logger.Warn("Failed to destroy projector.", "error", err)
				}
			}
		}
		destroyOwned(owned)
		for _, h := range handles {
			h.Destroy()
		}
	}), nil
}

// replacePlaceholder swaps the original element for the widget's rendered
// output, when the widget can render and the element is still in a document.
func replacePlaceholder(n *node) {
	renderer, ok := n.widget.(component.HTMLRenderer)
	if !ok {
		return
	}
	el := n.element
	if el.Parent == nil {
		return
	}
	rendered := renderer.Render()
	el.Parent.InsertBefore(rendered, el)
	el.Parent.RemoveChild(el)
}

func destroyOwned(nodes []*node) {
	for _, n := range nodes {
		if n.owned && n.widget != nil {
			_ = n.widget.Destroy()
		}
	}
}
