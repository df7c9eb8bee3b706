package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"storefront-engine/internal/pkg/config"
	"storefront-engine/internal/usecase/commands"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Invoke(StartSweeper),
)

// StartSweeper runs the global expiry sweep in the background. Per-request
// lazy sweeps keep each shopper's own view fresh; this loop bounds how long
// an abandoned hold can pin inventory for everyone else.
func StartSweeper(lc fx.Lifecycle, cfg config.Config, cmds commands.SweepCommands) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.Basket.SweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if _, err := cmds.SweepAll(ctx); err != nil {
							slog.Error("global sweep failed", "error", err)
						}
					}
				}
			}()
			slog.Info("expiry sweeper started", "interval", cfg.Basket.SweepInterval)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
