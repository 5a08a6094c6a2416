package schema

import (
	"fmt"

	"github.com/vk/appgrid/internal/apperr"
)

// The mutual-exclusion rules below run before any asynchronous work: a
// definition must name exactly one of factory/instance, and an inline or
// referenced instance cannot carry factory-time configuration.

func validationError(kind string, id fmt.Stringer, format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s definition %q: %s: %w", kind, id, detail, apperr.ErrValidation)
}

func exactlyOneSource(hasFactory, hasInstance bool) error {
	if hasFactory && hasInstance {
		return fmt.Errorf("cannot specify both factory and instance")
	}
	if !hasFactory && !hasInstance {
		return fmt.Errorf("one of factory or instance is required")
	}
	return nil
}

// Validate checks the action definition's structural rules.
func (d ActionDefinition) Validate() error {
	const kind = "action"
	if d.ID.IsZero() {
		return validationError(kind, d.ID, "id is required")
	}
	hasFactory := d.Factory != nil || d.FactoryModule != ""
	hasInstance := d.Instance != nil || d.InstanceModule != ""
	if err := exactlyOneSource(hasFactory, hasInstance); err != nil {
		return validationError(kind, d.ID, "%v", err)
	}
	if hasInstance {
		if !d.StateFrom.IsZero() {
			return validationError(kind, d.ID, "cannot specify both stateFrom and instance")
		}
		if d.State != nil {
			return validationError(kind, d.ID, "cannot specify both state and instance")
		}
	}
	return nil
}

// Validate checks the store definition's structural rules.
func (d StoreDefinition) Validate() error {
	const kind = "store"
	if d.ID.IsZero() {
		return validationError(kind, d.ID, "id is required")
	}
	hasFactory := d.Factory != nil || d.FactoryModule != ""
	hasInstance := d.Instance != nil || d.InstanceModule != ""
	if err := exactlyOneSource(hasFactory, hasInstance); err != nil {
		return validationError(kind, d.ID, "%v", err)
	}
	if hasInstance && d.Options != nil {
		return validationError(kind, d.ID, "cannot specify both options and instance")
	}
	return nil
}

// reservedOptionKeys are injected by the composition layer and must not
// appear in definition options.
var reservedOptionKeys = []string{"id", "listeners", "stateFrom", "registryProvider"}

// Validate checks the widget definition's structural rules.
func (d WidgetDefinition) Validate() error {
	const kind = "widget"
	if d.ID.IsZero() {
		return validationError(kind, d.ID, "id is required")
	}
	hasFactory := d.Factory != nil || d.FactoryModule != ""
	hasInstance := d.Instance != nil || d.InstanceModule != ""
	if err := exactlyOneSource(hasFactory, hasInstance); err != nil {
		return validationError(kind, d.ID, "%v", err)
	}
	if hasInstance {
		if d.Options != nil {
			return validationError(kind, d.ID, "cannot specify both options and instance")
		}
		if !d.StateFrom.IsZero() {
			return validationError(kind, d.ID, "cannot specify both stateFrom and instance")
		}
		if d.Listeners != nil {
			return validationError(kind, d.ID, "cannot specify both listeners and instance")
		}
		if d.State != nil {
			return validationError(kind, d.ID, "cannot specify both state and instance")
		}
	}
	for _, key := range reservedOptionKeys {
		if _, ok := d.Options[key]; ok {
			return validationError(kind, d.ID, "options must not contain %q", key)
		}
	}
	return nil
}

// Validate checks the custom-element definition's structural rules.
func (d CustomElementDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("custom element definition: name is required: %w", apperr.ErrValidation)
	}
	if !validCustomElementName(d.Name) {
		return fmt.Errorf("custom element definition %q: name must be a valid custom element name: %w",
			d.Name, apperr.ErrValidation)
	}
	if d.Factory == nil && d.FactoryModule == "" {
		return fmt.Errorf("custom element definition %q: factory is required: %w", d.Name, apperr.ErrValidation)
	}
	return nil
}

// validCustomElementName follows the custom-element grammar: lowercase ASCII,
// at least one hyphen, starting with a letter.
func validCustomElementName(name string) bool {
	if name == "" || name[0] < 'a' || name[0] > 'z' {
		return false
	}
	hyphen := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '.', c == '_':
		case c == '-':
			hyphen = true
		default:
			return false
		}
	}
	return hyphen
}
