package realize

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/identity"
	"github.com/vk/appgrid/internal/schema"
)

// Reserved tag names recognized by realization.
const (
	// TagProjector roots a custom-element tree and receives the rendering
	// projector.
	TagProjector = "app-projector"
	// TagWidget marks a placeholder for an already-registered widget
	// instance.
	TagWidget = "app-widget"
)

// ReservedTag reports whether name (already lowercased) is reserved.
func ReservedTag(name string) bool {
	return name == TagProjector || name == TagWidget
}

// node is one custom element in a reconstructed tree.
type node struct {
	element  *html.Node
	name     string
	children []*node

	// parsed synchronously before resolution
	uid       identity.Identifier
	options   map[string]any
	listeners schema.Listeners
	state     component.State
	storeID   identity.Identifier

	// filled in by resolution
	widget component.Widget
	owned  bool
}

func attr(el *html.Node, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// elementName returns the name realization matches an element under: the
// is= attribute when it names a registered custom element, else the tag name,
// both lowercased.
func elementName(el *html.Node, registry component.CombinedRegistry) string {
	if is, ok := attr(el, "is"); ok {
		if lowered := strings.ToLower(is); registry.HasCustomElementFactory(lowered) {
			return lowered
		}
	}
	return strings.ToLower(el.Data)
}

// queryCustomElements walks the subtree under root in document order and
// returns every element matching a reserved tag or a registered custom
// element name.
func queryCustomElements(root *html.Node, registry component.CombinedRegistry) []*node {
	var matched []*node
	var walk func(*html.Node)
	walk = func(el *html.Node) {
		for child := el.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode {
				name := elementName(child, registry)
				if ReservedTag(name) || registry.HasCustomElementFactory(name) {
					matched = append(matched, &node{element: child, name: name})
				}
			}
			walk(child)
		}
	}
	walk(root)
	return matched
}

// containsNode reports whether ancestor contains descendant in the document.
func containsNode(ancestor, descendant *html.Node) bool {
	for p := descendant.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// buildForest folds the flat document-order element list into trees rooted at
// projector elements. The stack holds the currently open ancestor candidates;
// document order guarantees that once an ancestor stops containing the
// current element, no later element can be its descendant either, so a single
// linear pass suffices.
func buildForest(flat []*node) ([]*node, error) {
	var roots []*node
	var stack []*node

	for _, current := range flat {
		for len(stack) > 0 && !containsNode(stack[len(stack)-1].element, current.element) {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			if current.name != TagProjector {
				return nil, fmt.Errorf("custom element <%s> must be contained in a <%s>: %w",
					current.name, TagProjector, apperr.ErrStructural)
			}
			roots = append(roots, current)
		} else {
			if current.name == TagProjector {
				return nil, fmt.Errorf("<%s> cannot be contained in another custom element: %w",
					TagProjector, apperr.ErrStructural)
			}
			top := stack[len(stack)-1]
			top.children = append(top.children, current)
		}
		stack = append(stack, current)
	}
	return roots, nil
}
