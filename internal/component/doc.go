// Package component declares the interfaces the composition layer expects
// from its external collaborators: actions, stores, widgets, and the
// rendering projector. It also ships reference implementations (MemoryStore,
// BasicWidget, the HTML projector) used by the CLI and by tests; a real
// embedding is free to bring its own.
package component
