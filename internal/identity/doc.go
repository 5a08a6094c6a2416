// Package identity provides the foundational registry of the composition
// layer: a bijective mapping between identifiers and values, with handle-based
// removal. Every other registry in the application is built on top of it.
package identity
