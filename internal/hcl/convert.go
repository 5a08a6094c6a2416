package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/identity"
	"github.com/vk/appgrid/internal/schema"
)

// evalObject evaluates an optional expression that must yield an object,
// returning nil when the attribute was omitted.
func evalObject(expr hcl.Expression, attr string) (map[string]any, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("attribute %q: %w: %v", attr, apperr.ErrValidation, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	decoded, err := ctyToGo(val)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w: %v", attr, apperr.ErrValidation, err)
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("attribute %q must be an object: %w", attr, apperr.ErrValidation)
	}
	return obj, nil
}

// ctyToGo converts an evaluated cty value into plain Go data, mirroring the
// shapes JSON decoding produces.
func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for key, elem := range val.AsValueMap() {
			converted, err := ctyToGo(elem)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var out []any
		for _, elem := range val.AsValueSlice() {
			converted, err := ctyToGo(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

func toState(expr hcl.Expression, attr string) (component.State, error) {
	obj, err := evalObject(expr, attr)
	if err != nil || obj == nil {
		return nil, err
	}
	return component.State(obj), nil
}

func toStoreRef(stateFrom *string) schema.StoreRef {
	if stateFrom == nil || *stateFrom == "" {
		return schema.StoreRef{}
	}
	return schema.StoreRef{ID: identity.ID(*stateFrom)}
}

// toListeners converts a listeners object (event type to action id or list of
// action ids) into listener references.
func toListeners(expr hcl.Expression) (schema.Listeners, error) {
	obj, err := evalObject(expr, "listeners")
	if err != nil || obj == nil {
		return nil, err
	}
	listeners := make(schema.Listeners, len(obj))
	for eventType, value := range obj {
		refs, err := listenerRefs(value)
		if err != nil {
			return nil, fmt.Errorf("listeners for event %q: %w: %v", eventType, apperr.ErrValidation, err)
		}
		listeners[eventType] = refs
	}
	return listeners, nil
}

func listenerRefs(value any) ([]schema.ListenerRef, error) {
	switch v := value.(type) {
	case string:
		return []schema.ListenerRef{{ActionID: identity.ID(v)}}, nil
	case []any:
		refs := make([]schema.ListenerRef, 0, len(v))
		for _, item := range v {
			nested, err := listenerRefs(item)
			if err != nil {
				return nil, err
			}
			refs = append(refs, nested...)
		}
		return refs, nil
	default:
		return nil, fmt.Errorf("expected an action identifier or list of identifiers, got %T", value)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
