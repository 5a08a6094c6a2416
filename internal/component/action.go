package component

import (
	"context"
	"sync"

	"github.com/vk/appgrid/internal/identity"
)

// FuncAction adapts a plain function into an Action. It records the store it
// was pointed at, which is enough for actions whose behavior reads or patches
// their own state.
type FuncAction struct {
	fn func(ctx context.Context, event any, store Store, id identity.Identifier) error

	mu    sync.Mutex
	store Store
	id    identity.Identifier
}

// NewFuncAction wraps fn. The observed store and id are passed through on
// every dispatch; both are zero until Observe is called.
func NewFuncAction(fn func(ctx context.Context, event any, store Store, id identity.Identifier) error) *FuncAction {
	return &FuncAction{fn: fn}
}

func (a *FuncAction) Do(ctx context.Context, event any) error {
	a.mu.Lock()
	store, id := a.store, a.id
	a.mu.Unlock()
	return a.fn(ctx, event, store, id)
}

func (a *FuncAction) Observe(store Store, id identity.Identifier) {
	a.mu.Lock()
	a.store = store
	a.id = id
	a.mu.Unlock()
}

// ObservedStore returns the store and id the action was pointed at.
func (a *FuncAction) ObservedStore() (Store, identity.Identifier) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store, a.id
}
