package main

import (
	"context"
	"fmt"

	southbound "github.com/nanoncore/olt-gateway"
	"github.com/nanoncore/olt-gateway/config"
	"github.com/nanoncore/olt-gateway/drivers/mock"
	"github.com/nanoncore/olt-gateway/events"
	"github.com/nanoncore/olt-gateway/logger"
	"github.com/nanoncore/olt-gateway/store/memory"
	"github.com/nanoncore/olt-gateway/store/postgres"
	"github.com/nanoncore/olt-gateway/syncer"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds what every subcommand shares once the root has loaded config.
type app struct {
	configPath string
	debug      bool
	simulate   bool

	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "oltsync",
		Short:         "Synchronize ONU inventory from multi-vendor OLTs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to JSON config file")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&a.simulate, "simulate", false, "serve canned device sessions instead of dialing OLTs")

	root.AddCommand(
		newServeCmd(a),
		newSyncCmd(a),
		newProbeCmd(a),
		newVendorsCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Logging.Debug = true
	}

	l, err := logger.New(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg = cfg
	a.logger = l
	return nil
}

func (a *app) gateway() *southbound.Gateway {
	factory := southbound.DefaultTransportFactory(a.logger.With().Str("component", "transport").Logger())
	if a.simulate {
		factory = southbound.MockTransportFactory(&mock.Tracker{})
	}
	return southbound.NewGateway(
		southbound.WithTransportFactory(factory),
		southbound.WithLogger(a.logger.With().Str("component", "gateway").Logger()),
	)
}

// backend is the inventory source, the ONU store and the event sink of one
// invocation.
type backend struct {
	source    syncer.Source
	store     syncer.Store
	publisher syncer.Publisher
	closers   []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackend reads the inventory from postgres when configured, otherwise
// from memory (seeded with the demo fleet when simulating). dryRun keeps
// every write in memory and publishes nothing.
func (a *app) openBackend(ctx context.Context, dryRun bool) (*backend, error) {
	b := &backend{publisher: events.Noop{}}
	mem := memory.New()

	if url := a.cfg.Database.URL; url != "" {
		pg, pool, err := postgres.Connect(ctx, url, a.cfg.Database.MaxConns, a.logger.With().Str("component", "postgres").Logger())
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		b.source, b.store = pg, pg
		if err := pg.EnsureSchema(ctx); err != nil {
			b.Close()
			return nil, err
		}
		if dryRun {
			olts, err := pg.ListOLTs(ctx, 0)
			if err != nil {
				b.Close()
				return nil, err
			}
			for _, olt := range olts {
				mem.AddOLT(olt)
			}
		}
	} else {
		if a.simulate {
			seedDemo(mem)
		} else {
			a.logger.Warn().Msg("No database configured, inventory is empty")
		}
		b.source, b.store = mem, mem
	}

	if dryRun {
		b.store = mem
		return b, nil
	}

	if url := a.cfg.NATS.URL; url != "" {
		pub, nc, err := events.Connect(url, a.cfg.NATS.SubjectPrefix, a.logger.With().Str("component", "events").Logger())
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, nc.Close)
		b.publisher = pub
	}
	return b, nil
}

func (a *app) syncer(b *backend) *syncer.Syncer {
	return syncer.New(b.source, b.store, a.gateway(),
		syncer.WithConfig(syncer.ConfigFrom(a.cfg.Sync)),
		syncer.WithPublisher(b.publisher),
		syncer.WithLogger(a.logger.With().Str("component", "syncer").Logger()),
	)
}
