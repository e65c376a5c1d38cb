// Package memory is a map-backed inventory and ONU store with the same
// semantics as the postgres store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nanoncore/olt-gateway/model"
	"github.com/nanoncore/olt-gateway/types"
)

type onuKey struct {
	oltID      int64
	identifier string
}

// Store is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	olts   map[int64]model.OLT
	oids   []model.OID
	onus   map[onuKey]*model.ONU
	nextID int64
	now    func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		olts: make(map[int64]model.OLT),
		onus: make(map[onuKey]*model.ONU),
		now:  time.Now,
	}
}

// AddOLT registers an OLT, replacing any record with the same ID.
func (s *Store) AddOLT(olt model.OLT) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if olt.Status == "" {
		olt.Status = model.OLTStateUnknown
	}
	s.olts[olt.ID] = olt
}

// AddOIDs registers vendor OID mappings.
func (s *Store) AddOIDs(oids ...model.OID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.oids = append(s.oids, oids...)
}

// ListOLTs returns OLTs ordered by ID. tenantID 0 selects every tenant.
func (s *Store) ListOLTs(ctx context.Context, tenantID int64) ([]model.OLT, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.OLT, 0, len(s.olts))
	for _, olt := range s.olts {
		if tenantID == 0 || olt.TenantID == tenantID {
			out = append(out, olt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListOIDs returns the mappings of a vendor.
func (s *Store) ListOIDs(ctx context.Context, vendor types.Vendor) ([]model.OID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.OID
	for _, o := range s.oids {
		if strings.EqualFold(string(o.Vendor), string(vendor)) {
			out = append(out, o)
		}
	}
	return out, nil
}

// UpsertONUs creates or updates ONUs of an OLT.
func (s *Store) UpsertONUs(ctx context.Context, oltID int64, onus []types.ONUInfo) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.olts[oltID]; !ok {
		return 0, fmt.Errorf("olt %d not found", oltID)
	}
	now := s.now()
	for i := range onus {
		info := onus[i]
		key := onuKey{oltID: oltID, identifier: info.Identifier}
		rec, ok := s.onus[key]
		if !ok {
			s.nextID++
			rec = &model.ONU{ID: s.nextID, OLTID: oltID, Identifier: info.Identifier}
			s.onus[key] = rec
		}
		rec.PONInterface = info.PONPort
		rec.VendorName = string(info.Vendor)
		if info.Source == types.TransportSNMP {
			rec.DetailsSNMP = &info
		} else {
			rec.Details = &info
		}
		rec.LastSeen = now
	}
	return len(onus), nil
}

// UpdateONUsSNMP refreshes the SNMP view of known ONUs only.
func (s *Store) UpdateONUsSNMP(ctx context.Context, oltID int64, onus []types.ONUInfo) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, skipped := 0, 0
	now := s.now()
	for i := range onus {
		info := onus[i]
		rec, ok := s.onus[onuKey{oltID: oltID, identifier: info.Identifier}]
		if !ok {
			skipped++
			continue
		}
		rec.DetailsSNMP = &info
		rec.LastSeen = now
		updated++
	}
	return updated, skipped, nil
}

// UpdateOLTStatus records a reachability check.
func (s *Store) UpdateOLTStatus(ctx context.Context, oltID int64, status model.OLTState, checkedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	olt, ok := s.olts[oltID]
	if !ok {
		return fmt.Errorf("olt %d not found", oltID)
	}
	olt.Status = status
	olt.LastChecked = &checkedAt
	s.olts[oltID] = olt
	return nil
}

// OLT returns a copy of one OLT.
func (s *Store) OLT(id int64) (model.OLT, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	olt, ok := s.olts[id]
	return olt, ok
}

// ONUs returns copies of the ONUs of an OLT ordered by identifier.
func (s *Store) ONUs(oltID int64) []model.ONU {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.ONU
	for key, rec := range s.onus {
		if key.oltID == oltID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out
}
