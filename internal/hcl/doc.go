// Package hcl loads declarative definition manifests written in HCL and
// translates them into the format-agnostic schema definitions consumed by
// LoadDefinition. Factories and instances in manifests are module references
// resolved at first use.
package hcl
