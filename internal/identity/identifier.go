package identity

import "fmt"

// Identifier names exactly one action, store, or widget within an application
// instance. Ordinary identifiers wrap a user-supplied string; the two reserved
// identifiers carry a non-zero tag instead, so no string id can ever collide
// with them.
type Identifier struct {
	name     string
	reserved uint8
}

const (
	reservedNone uint8 = iota
	reservedActionStore
	reservedWidgetStore
)

// DefaultActionStore and DefaultWidgetStore address the application-wide
// fallback stores. They are not constructible from user input.
var (
	DefaultActionStore = Identifier{reserved: reservedActionStore}
	DefaultWidgetStore = Identifier{reserved: reservedWidgetStore}
)

// ID wraps a plain string identifier.
func ID(name string) Identifier {
	return Identifier{name: name}
}

// IsZero reports whether the identifier is the empty (absent) identifier.
func (id Identifier) IsZero() bool {
	return id.name == "" && id.reserved == reservedNone
}

// Reserved reports whether the identifier is one of the reserved defaults.
func (id Identifier) Reserved() bool {
	return id.reserved != reservedNone
}

func (id Identifier) String() string {
	switch id.reserved {
	case reservedActionStore:
		return "<default action store>"
	case reservedWidgetStore:
		return "<default widget store>"
	default:
		return id.name
	}
}

// GoString makes %#v output readable in test failures.
func (id Identifier) GoString() string {
	return fmt.Sprintf("identity.ID(%q)", id.String())
}
