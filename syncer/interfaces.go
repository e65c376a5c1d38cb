package syncer

//go:generate mockgen -destination=mock_syncer.go -package=syncer github.com/nanoncore/olt-gateway/syncer Source,Store,Publisher,Gateway,Clock,Ticker

import (
	"context"
	"time"

	"github.com/nanoncore/olt-gateway/model"
	"github.com/nanoncore/olt-gateway/types"
)

// Source reads the OLT inventory and vendor OID mappings.
type Source interface {
	// ListOLTs returns the OLTs of a tenant, or of every tenant when
	// tenantID is 0.
	ListOLTs(ctx context.Context, tenantID int64) ([]model.OLT, error)

	// ListOIDs returns the SNMP mappings of a vendor, for every model.
	ListOIDs(ctx context.Context, vendor types.Vendor) ([]model.OID, error)
}

// Store persists sync outcomes. Implementations stamp LastSeen themselves.
type Store interface {
	// UpsertONUs creates or updates ONUs keyed by (oltID, Identifier). The
	// record lands in Details or DetailsSNMP depending on its Source.
	UpsertONUs(ctx context.Context, oltID int64, onus []types.ONUInfo) (int, error)

	// UpdateONUsSNMP refreshes DetailsSNMP of ONUs that already exist and
	// reports how many identifiers were unknown.
	UpdateONUsSNMP(ctx context.Context, oltID int64, onus []types.ONUInfo) (updated, skipped int, err error)

	// UpdateOLTStatus records a reachability check.
	UpdateOLTStatus(ctx context.Context, oltID int64, status model.OLTState, checkedAt time.Time) error
}

// Publisher announces per-OLT results.
type Publisher interface {
	Publish(ctx context.Context, result *OLTResult) error
}

// Gateway is the device round trip used by the syncer.
type Gateway interface {
	ListONUs(ctx context.Context, desc *types.DeviceDescriptor) ([]types.ONUInfo, error)
	Probe(ctx context.Context, desc *types.DeviceDescriptor) error
}

// Clock abstracts time for the scheduler.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker abstracts the ticker behavior.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}
