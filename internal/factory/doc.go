// Package factory turns declarative definitions into lazily-invoked factories
// for actions, stores, widgets, and custom elements. Each maker validates its
// definition synchronously, then defers module resolution and cross-registry
// wiring (state stores, listeners) to the factory's first invocation.
package factory
