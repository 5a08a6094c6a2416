package identity

import (
	"fmt"

	"github.com/vk/appgrid/internal/apperr"
)

// DuplicateIdentityError reports an id that is already bound to a different
// value.
type DuplicateIdentityError struct {
	ID Identifier
}

func (e DuplicateIdentityError) Error() string {
	return fmt.Sprintf("identifier %q is already registered with a different value", e.ID)
}

func (e DuplicateIdentityError) Unwrap() error { return apperr.ErrConflict }

// DuplicateValueError reports a value that is already registered under a
// different id.
type DuplicateValueError struct {
	ID Identifier // the id the value is already bound to
}

func (e DuplicateValueError) Error() string {
	return fmt.Sprintf("value is already registered under identifier %q", e.ID)
}

func (e DuplicateValueError) Unwrap() error { return apperr.ErrConflict }

// NotFoundError reports a lookup of an unregistered id.
type NotFoundError struct {
	ID Identifier
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("no value registered under identifier %q", e.ID)
}

func (e NotFoundError) Unwrap() error { return apperr.ErrNotFound }

// NotIdentifiedError reports a reverse lookup of an unregistered value.
type NotIdentifiedError struct{}

func (e NotIdentifiedError) Error() string {
	return "value has not been registered"
}

func (e NotIdentifiedError) Unwrap() error { return apperr.ErrNotFound }
