// Package syncer refreshes persisted ONU state from the OLTs of one tenant
// or of every tenant. Each OLT is an independent unit of work: a failure is
// recorded in the run report and never aborts the other units.
package syncer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	southbound "github.com/nanoncore/olt-gateway"
	"github.com/nanoncore/olt-gateway/config"
	"github.com/nanoncore/olt-gateway/model"
	"github.com/nanoncore/olt-gateway/types"
	"github.com/nanoncore/olt-gateway/vendors/common"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Config bounds a sync run.
type Config struct {
	Concurrency    int
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	OLTTimeout     time.Duration
	// CommandTimeout applies to OLTs without their own timeout
	CommandTimeout time.Duration
}

// DefaultConfig matches the service defaults.
func DefaultConfig() Config {
	return ConfigFrom(config.Default().Sync)
}

// ConfigFrom converts the file configuration.
func ConfigFrom(c config.SyncConfig) Config {
	return Config{
		Concurrency:    c.Concurrency,
		MaxAttempts:    c.MaxAttempts,
		InitialBackoff: time.Duration(c.InitialBackoff),
		MaxBackoff:     time.Duration(c.MaxBackoff),
		OLTTimeout:     time.Duration(c.OLTTimeout),
		CommandTimeout: time.Duration(c.CommandTimeout),
	}
}

// Syncer runs synchronization units.
type Syncer struct {
	cfg       Config
	source    Source
	store     Store
	gateway   Gateway
	publisher Publisher
	clock     Clock
	logger    zerolog.Logger
}

// Option configures a Syncer.
type Option func(*Syncer)

func WithConfig(cfg Config) Option {
	return func(s *Syncer) { s.cfg = cfg }
}

func WithPublisher(p Publisher) Option {
	return func(s *Syncer) { s.publisher = p }
}

func WithClock(c Clock) Option {
	return func(s *Syncer) { s.clock = c }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Syncer) { s.logger = l }
}

// New creates a syncer.
func New(source Source, store Store, gateway Gateway, opts ...Option) *Syncer {
	s := &Syncer{
		cfg:     DefaultConfig(),
		source:  source,
		store:   store,
		gateway: gateway,
		clock:   realClock{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.Concurrency < 1 {
		s.cfg.Concurrency = 1
	}
	if s.cfg.MaxAttempts < 1 {
		s.cfg.MaxAttempts = 1
	}
	return s
}

// SyncTenant syncs every OLT of one tenant.
func (s *Syncer) SyncTenant(ctx context.Context, tenantID int64) (*RunReport, error) {
	olts, err := s.source.ListOLTs(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list OLTs of tenant %d: %w", tenantID, err)
	}
	return s.run(ctx, "tenant:"+strconv.FormatInt(tenantID, 10), olts), nil
}

// SyncAll syncs every online OLT of every tenant. OLTs the status checker
// has not seen online are left for the next cycle.
func (s *Syncer) SyncAll(ctx context.Context) (*RunReport, error) {
	olts, err := s.source.ListOLTs(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list OLTs: %w", err)
	}

	online := olts[:0:0]
	for _, olt := range olts {
		if olt.Status == model.OLTStateOnline {
			online = append(online, olt)
		}
	}
	s.logger.Debug().Int("olts", len(olts)).Int("online", len(online)).Msg("Starting global sync")
	return s.run(ctx, "all", online), nil
}

func (s *Syncer) run(ctx context.Context, scope string, olts []model.OLT) *RunReport {
	runID := uuid.NewString()
	started := s.clock.Now()
	agg := NewAggregator()
	log := s.logger.With().Str("run_id", runID).Str("scope", scope).Logger()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for i := range olts {
		olt := olts[i]
		g.Go(func() error {
			agg.Add(s.syncUnit(gctx, runID, &olt))
			return nil
		})
	}
	_ = g.Wait()

	report := agg.Report(runID, scope, started, s.clock.Now())
	log.Info().
		Int("olts", len(report.Results)).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("Sync run complete")
	return report
}

// syncUnit wraps SyncOLT so a panic in one unit becomes a failed result.
func (s *Syncer) syncUnit(ctx context.Context, runID string, olt *model.OLT) (result OLTResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Int64("olt_id", olt.ID).Msg("Sync unit panicked")
			result = OLTResult{
				RunID:    runID,
				TenantID: olt.TenantID,
				OLTID:    olt.ID,
				OLTName:  olt.Label(),
				Vendor:   olt.Vendor,
				Outcome:  OutcomeFailed,
				Error:    fmt.Sprintf("panic: %v", r),
			}
		}
	}()
	r := s.syncOLT(ctx, runID, olt)
	return *r
}

// SyncOLT syncs one OLT outside of a run.
func (s *Syncer) SyncOLT(ctx context.Context, olt *model.OLT) *OLTResult {
	return s.syncOLT(ctx, uuid.NewString(), olt)
}

func (s *Syncer) syncOLT(ctx context.Context, runID string, olt *model.OLT) *OLTResult {
	start := s.clock.Now()
	transport := primaryTransport(olt)
	result := &OLTResult{
		RunID:     runID,
		TenantID:  olt.TenantID,
		OLTID:     olt.ID,
		OLTName:   olt.Label(),
		Vendor:    olt.Vendor,
		Transport: transport,
		StartedAt: start,
	}
	log := s.logger.With().
		Str("run_id", runID).
		Int64("olt_id", olt.ID).
		Str("olt", olt.Label()).
		Str("vendor", olt.Vendor).
		Logger()

	if s.cfg.OLTTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.OLTTimeout)
		defer cancel()
	}

	err := s.syncPrimary(ctx, olt, transport, result)
	if err == nil && olt.SNMPEnabled && transport != types.TransportSNMP {
		if serr := s.syncSNMP(ctx, olt, result); serr != nil {
			result.SNMPError = serr.Error()
			log.Warn().Err(serr).Msg("SNMP enrichment failed")
		}
	}

	result.Duration = s.clock.Now().Sub(start)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.ErrorKind = types.KindOf(err)
		result.Error = err.Error()
		log.Warn().Err(err).Int("attempts", result.Attempts).Msg("OLT sync failed")
	} else {
		result.Outcome = OutcomeSuccess
		log.Debug().Int("onus", result.ONUs).Int("upserted", result.Upserted).Msg("OLT sync complete")
	}

	if s.publisher != nil {
		if perr := s.publisher.Publish(context.WithoutCancel(ctx), result); perr != nil {
			log.Warn().Err(perr).Msg("Failed to publish sync result")
		}
	}
	return result
}

// syncPrimary lists ONUs over the OLT's main transport and upserts them.
func (s *Syncer) syncPrimary(ctx context.Context, olt *model.OLT, transport types.Transport, result *OLTResult) error {
	desc, err := s.descriptor(ctx, olt, transport)
	if err != nil {
		return err
	}
	onus, attempts, err := s.listWithRetry(ctx, desc)
	result.Attempts = attempts
	if err != nil {
		return err
	}
	result.ONUs = len(onus)

	n, err := s.store.UpsertONUs(ctx, olt.ID, onus)
	if err != nil {
		return fmt.Errorf("failed to store ONUs: %w", err)
	}
	result.Upserted = n
	return nil
}

// syncSNMP refreshes the SNMP view of ONUs already known from the CLI.
func (s *Syncer) syncSNMP(ctx context.Context, olt *model.OLT, result *OLTResult) error {
	desc, err := s.descriptor(ctx, olt, types.TransportSNMP)
	if err != nil {
		return err
	}
	onus, _, err := s.listWithRetry(ctx, desc)
	if err != nil {
		return err
	}
	updated, skipped, err := s.store.UpdateONUsSNMP(ctx, olt.ID, onus)
	if err != nil {
		return fmt.Errorf("failed to store SNMP details: %w", err)
	}
	result.SNMPUpdated = updated
	result.SNMPSkipped = skipped
	return nil
}

// descriptor builds a fresh descriptor; mappings are never cached across
// runs.
func (s *Syncer) descriptor(ctx context.Context, olt *model.OLT, transport types.Transport) (*types.DeviceDescriptor, error) {
	var oids []model.OID
	if transport == types.TransportSNMP {
		var err error
		oids, err = s.source.ListOIDs(ctx, types.Vendor(strings.ToLower(olt.Vendor)))
		if err != nil {
			return nil, fmt.Errorf("failed to load OID mappings: %w", err)
		}
	}
	desc := olt.Descriptor(transport, oids)
	if olt.Timeout <= 0 && s.cfg.CommandTimeout > 0 {
		desc.Timeout = s.cfg.CommandTimeout
	}
	return desc, nil
}

// listWithRetry retries DEVICE_UNREACHABLE with exponential backoff. Every
// other kind is permanent.
func (s *Syncer) listWithRetry(ctx context.Context, desc *types.DeviceDescriptor) ([]types.ONUInfo, int, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.cfg.InitialBackoff
	bo.MaxInterval = s.cfg.MaxBackoff
	bo.Multiplier = 2
	bo.RandomizationFactor = 0

	attempts := 0
	operation := func() ([]types.ONUInfo, error) {
		attempts++
		onus, err := s.gateway.ListONUs(ctx, desc)
		if err != nil && !types.IsRetryable(err) {
			return nil, backoff.Permanent(err)
		}
		return onus, err
	}

	onus, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(s.cfg.MaxAttempts)), //nolint:gosec // validated in New
		backoff.WithMaxElapsedTime(0),
	)
	if err != nil {
		return nil, attempts, common.ClassifyError(desc.Vendor, "list onus", err)
	}
	return onus, attempts, nil
}

// primaryTransport resolves the transport the OLT is listed over.
func primaryTransport(olt *model.OLT) types.Transport {
	if olt.Transport != "" {
		return types.Transport(strings.ToLower(olt.Transport))
	}
	if vendor, err := types.ParseVendor(olt.Vendor); err == nil {
		if caps, ok := southbound.GetVendorCapabilities(vendor); ok {
			return caps.DefaultTransport
		}
	}
	return types.TransportTelnet
}
