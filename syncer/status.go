package syncer

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nanoncore/olt-gateway/model"
	"github.com/nanoncore/olt-gateway/types"
	"golang.org/x/sync/errgroup"
)

// StatusResult is the outcome of probing one OLT.
type StatusResult struct {
	OLTID     int64           `json:"olt_id"`
	Status    model.OLTState  `json:"status"`
	ErrorKind types.ErrorKind `json:"error_kind,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// CheckStatus probes every OLT over its primary transport and records
// online/offline. Only a login that succeeds counts as online.
func (s *Syncer) CheckStatus(ctx context.Context) ([]StatusResult, error) {
	olts, err := s.source.ListOLTs(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list OLTs: %w", err)
	}

	var mu sync.Mutex
	results := make([]StatusResult, 0, len(olts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i := range olts {
		olt := olts[i]
		g.Go(func() error {
			res := s.checkOne(gctx, &olt)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].OLTID < results[j].OLTID })
	return results, nil
}

func (s *Syncer) checkOne(ctx context.Context, olt *model.OLT) StatusResult {
	if s.cfg.OLTTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.OLTTimeout)
		defer cancel()
	}

	res := StatusResult{OLTID: olt.ID, Status: model.OLTStateOnline}
	desc, err := s.descriptor(ctx, olt, primaryTransport(olt))
	if err == nil {
		err = s.gateway.Probe(ctx, desc)
	}
	if err != nil {
		res.Status = model.OLTStateOffline
		res.ErrorKind = types.KindOf(err)
		res.Error = err.Error()
	}

	if uerr := s.store.UpdateOLTStatus(context.WithoutCancel(ctx), olt.ID, res.Status, s.clock.Now()); uerr != nil {
		s.logger.Warn().Err(uerr).Int64("olt_id", olt.ID).Msg("Failed to record OLT status")
	}
	if olt.Status != res.Status {
		s.logger.Info().
			Int64("olt_id", olt.ID).
			Str("olt", olt.Label()).
			Str("from", string(olt.Status)).
			Str("to", string(res.Status)).
			Msg("OLT status changed")
	}
	return res
}
