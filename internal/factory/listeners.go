package factory

import (
	"context"
	"fmt"

	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/schema"
)

// ResolveListeners turns a definition's listener map into dispatchable
// callbacks. Literal listeners pass through; action identifiers resolve
// through the action registry, each becoming a callback into Action.Do.
func ResolveListeners(ctx context.Context, registry component.CombinedRegistry, listeners schema.Listeners) (map[string][]component.Listener, error) {
	if len(listeners) == 0 {
		return nil, nil
	}
	resolved := make(map[string][]component.Listener, len(listeners))
	for eventType, refs := range listeners {
		for _, ref := range refs {
			switch {
			case ref.Listener != nil:
				resolved[eventType] = append(resolved[eventType], ref.Listener)
			case !ref.ActionID.IsZero():
				action, err := registry.GetAction(ctx, ref.ActionID)
				if err != nil {
					return nil, fmt.Errorf("resolve listener for event %q: %w", eventType, err)
				}
				resolved[eventType] = append(resolved[eventType], action.Do)
			default:
				return nil, fmt.Errorf("resolve listener for event %q: empty listener reference", eventType)
			}
		}
	}
	return resolved, nil
}
