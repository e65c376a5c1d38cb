package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/nanoncore/olt-gateway/syncer"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the periodic sync and status check until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			b, err := a.openBackend(ctx, false)
			if err != nil {
				return err
			}
			defer b.Close()

			sc := syncer.NewScheduler(a.syncer(b),
				time.Duration(a.cfg.Sync.Interval),
				time.Duration(a.cfg.Sync.StatusInterval))
			sc.OnReport = func(r *syncer.RunReport) {
				ev := a.logger.Info()
				if r.Failed > 0 {
					ev = a.logger.Warn()
				}
				ev.Str("run_id", r.RunID).
					Str("scope", r.Scope).
					Int("succeeded", r.Succeeded).
					Int("failed", r.Failed).
					Dur("duration", r.FinishedAt.Sub(r.StartedAt)).
					Msg("Sync run finished")
			}

			a.logger.Info().Msg("oltsync serving")
			if err := sc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			a.logger.Info().Msg("oltsync stopped")
			return nil
		},
	}
}
