package component

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/net/html"
)

// Projector mounts rendered widget output into the live document. One
// projector serves one tree root.
type Projector interface {
	Append(widget Widget) error
	// OnAttach registers a callback fired exactly once, on the first
	// successful render after Attach.
	OnAttach(fn func())
	Attach(ctx context.Context) error
	Destroy() error
}

// ProjectorOptions configures a projector for one tree root.
type ProjectorOptions struct {
	Root *html.Node
	// CSSTransitions enables transition hooks in renderers that support
	// them. The reference projector records the flag but renders statically.
	CSSTransitions bool
}

// ProjectorFactory creates the projector for a realized tree root.
type ProjectorFactory func(options ProjectorOptions) Projector

// HTMLProjector is the reference projector: it renders appended widgets into
// an html.Node subtree. Placeholder replacement is carried out by OnAttach
// callbacks; when none are registered, rendered output is appended to the
// root instead.
type HTMLProjector struct {
	mu        sync.Mutex
	root      *html.Node
	widgets   []Widget
	callbacks []func()
	inserted  []*html.Node
	attached  bool
	destroyed bool

	cssTransitions bool
}

// NewHTMLProjector creates a projector rendering beneath options.Root.
func NewHTMLProjector(options ProjectorOptions) Projector {
	return &HTMLProjector{root: options.Root, cssTransitions: options.CSSTransitions}
}

func (p *HTMLProjector) Append(widget Widget) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return fmt.Errorf("projector has been destroyed")
	}
	p.widgets = append(p.widgets, widget)
	return nil
}

func (p *HTMLProjector) OnAttach(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callbacks = append(p.callbacks, fn)
}

// Attach performs the first render. Repeat calls are no-ops.
func (p *HTMLProjector) Attach(_ context.Context) error {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return fmt.Errorf("projector has been destroyed")
	}
	if p.attached {
		p.mu.Unlock()
		return nil
	}
	p.attached = true
	callbacks := p.callbacks
	p.callbacks = nil
	widgets := p.widgets
	p.mu.Unlock()

	if len(callbacks) == 0 {
		for _, w := range widgets {
			r, ok := w.(HTMLRenderer)
			if !ok {
				return fmt.Errorf("widget %T cannot render to HTML", w)
			}
			node := r.Render()
			p.root.AppendChild(node)
			p.mu.Lock()
			p.inserted = append(p.inserted, node)
			p.mu.Unlock()
		}
		return nil
	}
	for _, fn := range callbacks {
		fn()
	}
	return nil
}

func (p *HTMLProjector) Destroy() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return nil
	}
	p.destroyed = true
	for _, node := range p.inserted {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
	p.inserted = nil
	p.widgets = nil
	p.callbacks = nil
	return nil
}
