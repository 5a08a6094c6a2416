package schema

import (
	"encoding/json"
	"fmt"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/identity"
)

// Attribute-borne definition fragments arrive as JSON strings on custom
// elements. Malformed or wrongly-typed content fails naming the attribute and
// the raw string.

func attrError(attr, raw string, cause error) error {
	return fmt.Errorf("attribute %q contains invalid JSON %q: %v: %w", attr, raw, cause, apperr.ErrValidation)
}

// ParseOptionsAttr decodes a JSON object of factory options.
func ParseOptionsAttr(attr, raw string) (map[string]any, error) {
	var options map[string]any
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		return nil, attrError(attr, raw, err)
	}
	if options == nil {
		return nil, attrError(attr, raw, fmt.Errorf("expected a JSON object"))
	}
	return options, nil
}

// ParseStateAttr decodes a JSON object of initial state.
func ParseStateAttr(attr, raw string) (component.State, error) {
	var state component.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, attrError(attr, raw, err)
	}
	if state == nil {
		return nil, attrError(attr, raw, fmt.Errorf("expected a JSON object"))
	}
	return state, nil
}

// ParseListenersAttr decodes a JSON listener map: event type to an action
// identifier or an array of action identifiers.
func ParseListenersAttr(attr, raw string) (Listeners, error) {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, attrError(attr, raw, err)
	}
	if decoded == nil {
		return nil, attrError(attr, raw, fmt.Errorf("expected a JSON object"))
	}

	listeners := make(Listeners, len(decoded))
	for eventType, value := range decoded {
		refs, err := listenerRefs(value)
		if err != nil {
			return nil, attrError(attr, raw, fmt.Errorf("event %q: %v", eventType, err))
		}
		listeners[eventType] = refs
	}
	return listeners, nil
}

func listenerRefs(value any) ([]ListenerRef, error) {
	switch v := value.(type) {
	case string:
		return []ListenerRef{{ActionID: identity.ID(v)}}, nil
	case []any:
		refs := make([]ListenerRef, 0, len(v))
		for _, item := range v {
			nested, err := listenerRefs(item)
			if err != nil {
				return nil, err
			}
			refs = append(refs, nested...)
		}
		return refs, nil
	default:
		return nil, fmt.Errorf("expected an action identifier or array of identifiers, got %T", value)
	}
}
