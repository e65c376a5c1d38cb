package memory

import (
	"context"
	"testing"
	"time"

	"github.com/nanoncore/olt-gateway/model"
	"github.com/nanoncore/olt-gateway/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertAndSNMPUpdate(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.AddOLT(model.OLT{ID: 1, TenantID: 7, Vendor: "zte"})

	n, err := s.UpsertONUs(ctx, 1, []types.ONUInfo{
		{Identifier: "ZTEG00000001", PONPort: "1/1/1", Vendor: types.VendorZTE, Source: types.TransportTelnet},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	updated, skipped, err := s.UpdateONUsSNMP(ctx, 1, []types.ONUInfo{
		{Identifier: "ZTEG00000001", Source: types.TransportSNMP, Name: "snmp-name"},
		{Identifier: "ZTEG0000FFFF", Source: types.TransportSNMP},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 1, skipped)

	onus := s.ONUs(1)
	require.Len(t, onus, 1)
	assert.Equal(t, "1/1/1", onus[0].PONInterface)
	require.NotNil(t, onus[0].Details)
	require.NotNil(t, onus[0].DetailsSNMP)
	assert.Equal(t, "snmp-name", onus[0].DetailsSNMP.Name)

	// second upsert keeps the row
	_, err = s.UpsertONUs(ctx, 1, []types.ONUInfo{{Identifier: "ZTEG00000001", PONPort: "1/1/2"}})
	require.NoError(t, err)
	onus = s.ONUs(1)
	require.Len(t, onus, 1)
	assert.Equal(t, "1/1/2", onus[0].PONInterface)
	assert.NotNil(t, onus[0].DetailsSNMP)
}

func TestUpsertUnknownOLT(t *testing.T) {
	_, err := New().UpsertONUs(context.Background(), 9, []types.ONUInfo{{Identifier: "x"}})
	assert.Error(t, err)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.AddOLT(model.OLT{ID: 2, TenantID: 1})
	s.AddOLT(model.OLT{ID: 1, TenantID: 1})
	s.AddOLT(model.OLT{ID: 3, TenantID: 2})
	s.AddOIDs(model.OID{Function: "rx_power", OID: "1.2.3", Vendor: types.VendorHSGQ})

	all, err := s.ListOLTs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, model.OLTStateUnknown, all[0].Status)

	tenant, err := s.ListOLTs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, tenant, 1)
	assert.Equal(t, int64(3), tenant[0].ID)

	oids, err := s.ListOIDs(ctx, "HSGQ")
	require.NoError(t, err)
	assert.Len(t, oids, 1)
}

func TestUpdateOLTStatus(t *testing.T) {
	s := New()
	s.AddOLT(model.OLT{ID: 1})
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpdateOLTStatus(context.Background(), 1, model.OLTStateOnline, at))
	olt, ok := s.OLT(1)
	require.True(t, ok)
	assert.Equal(t, model.OLTStateOnline, olt.Status)
	assert.Equal(t, at, *olt.LastChecked)

	assert.Error(t, s.UpdateOLTStatus(context.Background(), 2, model.OLTStateOnline, at))
}
