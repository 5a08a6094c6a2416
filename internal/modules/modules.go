// Package modules resolves module identifiers referenced by declarative
// definitions to live Go values. The composition layer treats the resolver as
// an external collaborator; MapResolver is the in-process implementation
// populated by Go-side registrations at startup.
package modules

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vk/appgrid/internal/apperr"
)

// DefaultExport is the export name looked up when a module identifier names
// no member.
const DefaultExport = "default"

// Resolver resolves a module identifier to a value. Identifiers take the form
// "module/path" (default export, or all exports when there is none) or
// "module/path:member" (one named export). Implementations may resolve
// asynchronously; Resolve blocks until done or ctx is cancelled.
type Resolver interface {
	Resolve(ctx context.Context, mid string) (any, error)
}

// Split separates a module identifier into its path and optional member.
func Split(mid string) (path, member string) {
	if i := strings.LastIndex(mid, ":"); i >= 0 {
		return mid[:i], mid[i+1:]
	}
	return mid, ""
}

// MapResolver maps module paths to export sets registered from Go code.
type MapResolver struct {
	mu      sync.Mutex
	modules map[string]map[string]any
}

// NewMapResolver creates an empty resolver.
func NewMapResolver() *MapResolver {
	return &MapResolver{modules: make(map[string]map[string]any)}
}

// Register adds a module with the given exports. Registering a path twice is
// a conflict.
func (r *MapResolver) Register(path string, exports map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.modules[path]; ok {
		return fmt.Errorf("module %q is already registered: %w", path, apperr.ErrConflict)
	}
	copied := make(map[string]any, len(exports))
	for name, value := range exports {
		copied[name] = value
	}
	r.modules[path] = copied
	return nil
}

// RegisterDefault adds a module with a single default export.
func (r *MapResolver) RegisterDefault(path string, value any) error {
	return r.Register(path, map[string]any{DefaultExport: value})
}

// Resolve implements Resolver.
func (r *MapResolver) Resolve(_ context.Context, mid string) (any, error) {
	path, member := Split(mid)

	r.mu.Lock()
	exports, ok := r.modules[path]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("module %q is not registered: %w", path, apperr.ErrNotFound)
	}

	if member == "" {
		if value, ok := exports[DefaultExport]; ok {
			return value, nil
		}
		// No default export: hand back all exports.
		all := make(map[string]any, len(exports))
		for name, value := range exports {
			all[name] = value
		}
		return all, nil
	}
	value, ok := exports[member]
	if !ok {
		return nil, fmt.Errorf("module %q has no export %q: %w", path, member, apperr.ErrNotFound)
	}
	return value, nil
}
