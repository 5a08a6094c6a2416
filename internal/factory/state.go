package factory

import (
	"context"
	"errors"

	"github.com/vk/appgrid/internal/apperr"
	"github.com/vk/appgrid/internal/component"
	"github.com/vk/appgrid/internal/ctxlog"
	"github.com/vk/appgrid/internal/identity"
)

// SeedState writes a definition's initial state into its store before the
// instance is created. Failures are swallowed: a conflict means state already
// exists for the id, which is the expected steady-state case. Any other
// failure is logged at Warn so a misbehaving store is not masked silently.
func SeedState(ctx context.Context, store component.Store, id identity.Identifier, state component.State) {
	if store == nil || state == nil {
		return
	}
	err := store.Add(ctx, id, state)
	if err == nil {
		return
	}
	logger := ctxlog.FromContext(ctx)
	if errors.Is(err, apperr.ErrConflict) {
		logger.Debug("Initial state already present, leaving store untouched.", "id", id.String())
		return
	}
	logger.Warn("Failed to seed initial state, continuing without it.", "id", id.String(), "error", err)
}
