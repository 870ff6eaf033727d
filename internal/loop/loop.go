// Package loop drives the Game Loop: a ticker that advances every
// lobby's state machine once per tick interval until its context is
// canceled.
package loop

import (
	"context"
	"log/slog"
	"time"

	"territoryd/internal/bus"
	"territoryd/internal/lobby"
	"territoryd/internal/registry"
)

// Run ticks table.Advance every interval until ctx is canceled.
func Run(ctx context.Context, table *lobby.Table, reg *registry.Registry, global *bus.Broadcaster, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "game loop starting", slog.Duration("interval", interval))

	for {
		select {
		case <-ticker.C:
			table.Advance(ctx, reg, global)
		case <-ctx.Done():
			slog.InfoContext(ctx, "game loop stopping")
			return
		}
	}
}
