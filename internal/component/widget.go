package component

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLRenderer is implemented by widgets that can render themselves into an
// HTML node tree. The reference projector requires it.
type HTMLRenderer interface {
	Render() *html.Node
}

// BasicWidget is the reference Widget: a plain HTML element with ordered
// children, dispatchable listeners, and an optional text label taken from its
// options.
type BasicWidget struct {
	mu        sync.Mutex
	id        string
	tagName   string
	label     string
	parent    Widget
	children  []Widget
	listeners map[string][]Listener
	destroyed bool
}

// NewBasicWidget builds a widget from factory options. Recognized Extra keys:
// "tagName" (default "div") and "label" (text content).
func NewBasicWidget(_ context.Context, options *WidgetOptions) (Widget, error) {
	if options == nil {
		options = &WidgetOptions{}
	}
	w := &BasicWidget{
		id:        options.ID.String(),
		tagName:   "div",
		listeners: options.Listeners,
	}
	if tag, ok := options.Extra["tagName"].(string); ok && tag != "" {
		w.tagName = tag
	}
	if label, ok := options.Extra["label"].(string); ok {
		w.label = label
	}
	return w, nil
}

func (w *BasicWidget) Parent() Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.parent
}

func (w *BasicWidget) SetParent(parent Widget) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.parent = parent
}

func (w *BasicWidget) AppendChild(child Widget) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return fmt.Errorf("cannot append to a destroyed widget")
	}
	w.children = append(w.children, child)
	child.SetParent(w)
	return nil
}

// Emit dispatches event to every listener registered for eventType.
func (w *BasicWidget) Emit(ctx context.Context, eventType string, event any) error {
	w.mu.Lock()
	listeners := w.listeners[eventType]
	w.mu.Unlock()
	for _, l := range listeners {
		if err := l(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (w *BasicWidget) Destroy() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.destroyed = true
	w.children = nil
	w.parent = nil
	return nil
}

// Render produces the widget's HTML element with its children rendered in
// append order.
func (w *BasicWidget) Render() *html.Node {
	w.mu.Lock()
	defer w.mu.Unlock()

	node := &html.Node{
		Type:     html.ElementNode,
		Data:     w.tagName,
		DataAtom: atom.Lookup([]byte(w.tagName)),
	}
	if w.id != "" {
		node.Attr = append(node.Attr, html.Attribute{Key: "data-widget-id", Val: w.id})
	}
	if w.label != "" {
		node.AppendChild(&html.Node{Type: html.TextNode, Data: w.label})
	}
	for _, child := range w.children {
		if r, ok := child.(HTMLRenderer); ok {
			node.AppendChild(r.Render())
		}
	}
	return node
}
