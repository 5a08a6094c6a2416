// Package app contains the application composition root: the object owning
// the identity registries for actions, stores, widgets, and custom-element
// factories, the shared identifier namespace, and the instance registry. It
// exposes the registration, lookup, and realization surface embedding code
// works with.
package app
