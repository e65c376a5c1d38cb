package syncer

import (
	"sort"
	"sync"
	"time"

	"github.com/nanoncore/olt-gateway/types"
)

// Outcome is the final state of one OLT within a run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// OLTResult is the outcome of syncing one OLT.
type OLTResult struct {
	RunID     string          `json:"run_id"`
	TenantID  int64           `json:"tenant_id"`
	OLTID     int64           `json:"olt_id"`
	OLTName   string          `json:"olt_name"`
	Vendor    string          `json:"vendor"`
	Transport types.Transport `json:"transport"`
	Outcome   Outcome         `json:"outcome"`

	// ErrorKind is set when Outcome is failed
	ErrorKind types.ErrorKind `json:"error_kind,omitempty"`
	Error     string          `json:"error,omitempty"`

	// Attempts counts gateway round trips of the primary listing
	Attempts int `json:"attempts"`

	ONUs     int `json:"onus"`
	Upserted int `json:"upserted"`

	// SNMP enrichment counters; SNMPError does not fail the OLT
	SNMPUpdated int    `json:"snmp_updated"`
	SNMPSkipped int    `json:"snmp_skipped"`
	SNMPError   string `json:"snmp_error,omitempty"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// RunReport summarizes one SyncTenant or SyncAll invocation.
type RunReport struct {
	RunID      string      `json:"run_id"`
	Scope      string      `json:"scope"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Results    []OLTResult `json:"results"`
	Succeeded  int         `json:"succeeded"`
	Failed     int         `json:"failed"`
}

// Failures returns the failed results.
func (r *RunReport) Failures() []OLTResult {
	var out []OLTResult
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			out = append(out, res)
		}
	}
	return out
}

// Aggregator collects results from concurrent sync units. It is the only
// state shared between units.
type Aggregator struct {
	mu      sync.Mutex
	results []OLTResult
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add records one result. Safe for concurrent use.
func (a *Aggregator) Add(result OLTResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results = append(a.results, result)
}

// Report builds the run summary, ordering results by OLT ID.
func (a *Aggregator) Report(runID, scope string, startedAt, finishedAt time.Time) *RunReport {
	a.mu.Lock()
	results := make([]OLTResult, len(a.results))
	copy(results, a.results)
	a.mu.Unlock()

	sort.Slice(results, func(i, j int) bool { return results[i].OLTID < results[j].OLTID })

	report := &RunReport{
		RunID:      runID,
		Scope:      scope,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Results:    results,
	}
	for _, r := range results {
		if r.Outcome == OutcomeSuccess {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	return report
}
