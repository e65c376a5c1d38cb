package syncer

import (
	"context"
	"time"
)

// Scheduler runs periodic global syncs and status checks, plus on-demand
// tenant syncs requested through Trigger.
type Scheduler struct {
	syncer         *Syncer
	clock          Clock
	syncInterval   time.Duration
	statusInterval time.Duration
	triggers       chan int64

	// OnReport receives every completed run report, if set
	OnReport func(*RunReport)
}

// NewScheduler creates a scheduler. Non-positive intervals disable the
// corresponding loop.
func NewScheduler(s *Syncer, syncInterval, statusInterval time.Duration) *Scheduler {
	return &Scheduler{
		syncer:         s,
		clock:          s.clock,
		syncInterval:   syncInterval,
		statusInterval: statusInterval,
		triggers:       make(chan int64, 16),
	}
}

// Trigger queues a sync of one tenant. It reports false when the queue
// is full.
func (sc *Scheduler) Trigger(tenantID int64) bool {
	select {
	case sc.triggers <- tenantID:
		return true
	default:
		return false
	}
}

// Run blocks until ctx is done. Runs never overlap: a tick that arrives
// while a run is in progress is handled after it.
func (sc *Scheduler) Run(ctx context.Context) error {
	log := sc.syncer.logger

	var syncC, statusC <-chan time.Time
	if sc.syncInterval > 0 {
		t := sc.clock.Ticker(sc.syncInterval)
		defer t.Stop()
		syncC = t.Chan()
	}
	if sc.statusInterval > 0 {
		t := sc.clock.Ticker(sc.statusInterval)
		defer t.Stop()
		statusC = t.Chan()
	}

	log.Info().
		Dur("sync_interval", sc.syncInterval).
		Dur("status_interval", sc.statusInterval).
		Msg("Scheduler started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Scheduler stopped")
			return ctx.Err()
		case <-statusC:
			if _, err := sc.syncer.CheckStatus(ctx); err != nil {
				log.Error().Err(err).Msg("Status check failed")
			}
		case <-syncC:
			report, err := sc.syncer.SyncAll(ctx)
			sc.emit(report, err)
		case tenantID := <-sc.triggers:
			report, err := sc.syncer.SyncTenant(ctx, tenantID)
			sc.emit(report, err)
		}
	}
}

func (sc *Scheduler) emit(report *RunReport, err error) {
	if err != nil {
		sc.syncer.logger.Error().Err(err).Msg("Sync run failed")
		return
	}
	if sc.OnReport != nil {
		sc.OnReport(report)
	}
}
