// Package schema defines the declarative definition records consumed by
// LoadDefinition: actions, stores, widgets, and custom elements, each
// specified as an inline instance, an inline factory, or a module reference.
// It also owns definition validation and the JSON parsing of attribute-borne
// definition fragments.
package schema
