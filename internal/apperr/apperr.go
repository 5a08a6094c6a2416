// Package apperr defines the closed set of error kinds used across the
// composition layer. Every error returned by a public operation wraps exactly
// one of these sentinels, so callers can branch with errors.Is instead of
// matching message text.
package apperr

import "errors"

var (
	// ErrConflict marks duplicate-identity violations: an id or value
	// registered twice, or an instance claimed under two kinds.
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks lookups of identifiers or values that were never
	// registered (or were already removed).
	ErrNotFound = errors.New("not found")

	// ErrValidation marks malformed declarative definitions, raised before
	// any asynchronous work begins.
	ErrValidation = errors.New("invalid definition")

	// ErrResolution marks module references that resolved to the wrong
	// shape, e.g. a non-function where a factory was expected.
	ErrResolution = errors.New("resolution failed")

	// ErrStructural marks malformed custom-element trees during realization.
	ErrStructural = errors.New("structural error")
)
