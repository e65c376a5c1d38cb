package syncer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	southbound "github.com/nanoncore/olt-gateway"
	"github.com/nanoncore/olt-gateway/drivers/mock"
	"github.com/nanoncore/olt-gateway/model"
	"github.com/nanoncore/olt-gateway/store/memory"
	"github.com/nanoncore/olt-gateway/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	_ Source  = (*memory.Store)(nil)
	_ Store   = (*memory.Store)(nil)
	_ Gateway = (*southbound.Gateway)(nil)
)

const unreachableAddr = "192.0.2.99"

func testConfig() Config {
	return Config{
		Concurrency:    4,
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		OLTTimeout:     5 * time.Second,
	}
}

func fleet() []model.OLT {
	return []model.OLT{
		{ID: 1, TenantID: 10, Name: "hioso-a", Vendor: "Hioso", PONType: "epon", Address: "192.0.2.1", Status: model.OLTStateOnline},
		{ID: 2, TenantID: 10, Name: "hsgq-b", Vendor: "hsgq", PONType: "gpon", Address: "192.0.2.2", Status: model.OLTStateOnline},
		{ID: 3, TenantID: 10, Name: "zte-c", Vendor: "ZTE", PONType: "gpon", Address: "192.0.2.3", Status: model.OLTStateOnline},
		{ID: 4, TenantID: 10, Name: "zte-down", Vendor: "zte", PONType: "gpon", Address: unreachableAddr, Status: model.OLTStateOnline},
		{ID: 5, TenantID: 20, Name: "other-tenant", Vendor: "hsgq", PONType: "epon", Address: "192.0.2.5", Status: model.OLTStateOffline},
	}
}

// mockGateway serves fixtures for every address except unreachableAddr.
func mockGateway(tracker *mock.Tracker) *southbound.Gateway {
	ok := southbound.MockTransportFactory(tracker)
	down := southbound.MockTransportFactory(tracker, mock.WithConnectError(
		types.Errorf(types.KindDeviceUnreachable, "zte", "dial telnet", "connection refused")))

	return southbound.NewGateway(southbound.WithTransportFactory(
		func(desc *southbound.DeviceDescriptor, dialect southbound.CLIDialect) (southbound.Driver, error) {
			if desc.Address == unreachableAddr {
				return down(desc, dialect)
			}
			return ok(desc, dialect)
		}))
}

func TestSyncTenantToleratesUnreachableOLT(t *testing.T) {
	store := memory.New()
	for _, olt := range fleet() {
		store.AddOLT(olt)
	}
	tracker := &mock.Tracker{}
	s := New(store, store, mockGateway(tracker), WithConfig(testConfig()))

	report, err := s.SyncTenant(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, report.Results, 4)
	assert.Equal(t, 3, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "tenant:10", report.Scope)

	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, int64(4), failures[0].OLTID)
	assert.Equal(t, types.KindDeviceUnreachable, failures[0].ErrorKind)
	assert.Equal(t, 3, failures[0].Attempts)

	for _, res := range report.Results[:3] {
		assert.Equal(t, OutcomeSuccess, res.Outcome, res.OLTName)
		assert.Equal(t, 1, res.Attempts, res.OLTName)
		assert.Positive(t, res.ONUs, res.OLTName)
		assert.Len(t, store.ONUs(res.OLTID), res.ONUs, res.OLTName)
		assert.Equal(t, report.RunID, res.RunID)
	}
	assert.Empty(t, store.ONUs(4))
	assert.Zero(t, tracker.Open(), "sessions leaked")
}

func TestResyncIsStable(t *testing.T) {
	store := memory.New()
	olt := fleet()[2]
	store.AddOLT(olt)
	s := New(store, store, mockGateway(&mock.Tracker{}), WithConfig(testConfig()))

	first := s.SyncOLT(context.Background(), &olt)
	require.Equal(t, OutcomeSuccess, first.Outcome)
	before := store.ONUs(olt.ID)

	second := s.SyncOLT(context.Background(), &olt)
	require.Equal(t, OutcomeSuccess, second.Outcome)
	after := store.ONUs(olt.ID)

	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Details, after[i].Details)
	}
}

func TestSyncAllOnlyOnlineOLTs(t *testing.T) {
	store := memory.New()
	for _, olt := range fleet() {
		store.AddOLT(olt)
	}
	s := New(store, store, mockGateway(&mock.Tracker{}), WithConfig(testConfig()))

	report, err := s.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "all", report.Scope)
	for _, res := range report.Results {
		assert.NotEqual(t, int64(5), res.OLTID, "offline OLT was synced")
	}
	assert.Len(t, report.Results, 4)
}

func TestSyncOLTRetriesOnlyUnreachable(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockSource(ctrl)
	store := NewMockStore(ctrl)
	gw := NewMockGateway(ctrl)
	pub := NewMockPublisher(ctrl)

	unreachable := types.Errorf(types.KindDeviceUnreachable, "zte", "connect", "timeout")
	onus := []types.ONUInfo{{Identifier: "ZTEG00000001", Source: types.TransportTelnet}}

	gomock.InOrder(
		gw.EXPECT().ListONUs(gomock.Any(), gomock.Any()).Return(nil, unreachable),
		gw.EXPECT().ListONUs(gomock.Any(), gomock.Any()).Return(onus, nil),
	)
	store.EXPECT().UpsertONUs(gomock.Any(), int64(3), onus).Return(1, nil)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *OLTResult) error {
		assert.Equal(t, OutcomeSuccess, r.Outcome)
		return nil
	})

	s := New(source, store, gw, WithConfig(testConfig()), WithPublisher(pub))
	olt := fleet()[2]
	res := s.SyncOLT(context.Background(), &olt)

	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 1, res.Upserted)
	assert.Equal(t, types.TransportTelnet, res.Transport)
}

func TestSyncOLTPermanentFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	gw := NewMockGateway(ctrl)
	pub := NewMockPublisher(ctrl)

	gw.EXPECT().ListONUs(gomock.Any(), gomock.Any()).
		Return(nil, types.Errorf(types.KindAuthFailed, "hsgq", "login", "bad password")).Times(1)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("nats down"))

	s := New(NewMockSource(ctrl), store, gw, WithConfig(testConfig()), WithPublisher(pub))
	olt := fleet()[1]
	res := s.SyncOLT(context.Background(), &olt)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, types.KindAuthFailed, res.ErrorKind)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, types.TransportSSH, res.Transport)
}

func TestSyncOLTUnknownVendor(t *testing.T) {
	store := memory.New()
	olt := model.OLT{ID: 9, TenantID: 1, Vendor: "unknown-brand", Address: "192.0.2.9"}
	store.AddOLT(olt)
	tracker := &mock.Tracker{}
	s := New(store, store, mockGateway(tracker), WithConfig(testConfig()))

	res := s.SyncOLT(context.Background(), &olt)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, types.KindUnknownVendor, res.ErrorKind)
	assert.Equal(t, 1, res.Attempts)
	assert.Zero(t, tracker.Dials())
}

func TestSyncOLTSNMPEnrichment(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockSource(ctrl)
	gw := NewMockGateway(ctrl)
	store := memory.New()

	olt := model.OLT{ID: 1, TenantID: 1, Vendor: "zte", PONType: "gpon", Address: "192.0.2.1", SNMPEnabled: true, SNMPPort: 1161}
	store.AddOLT(olt)

	source.EXPECT().ListOIDs(gomock.Any(), types.VendorZTE).Return([]model.OID{
		{Function: "rx_power", OID: "1.3.6.1.4.1.3902.1012.3.50.12.1.1.10", Vendor: types.VendorZTE},
	}, nil)
	gw.EXPECT().ListONUs(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, desc *types.DeviceDescriptor) ([]types.ONUInfo, error) {
			if desc.Transport == types.TransportSNMP {
				assert.Equal(t, 1161, desc.Port)
				assert.Equal(t, "1.3.6.1.4.1.3902.1012.3.50.12.1.1.10", desc.OIDs["rx_power"])
				return []types.ONUInfo{
					{Identifier: "ZTEG00000001", Source: types.TransportSNMP},
					{Identifier: "ZTEG00000009", Source: types.TransportSNMP},
				}, nil
			}
			assert.Empty(t, desc.OIDs)
			return []types.ONUInfo{
				{Identifier: "ZTEG00000001", Source: types.TransportTelnet},
				{Identifier: "ZTEG00000002", Source: types.TransportTelnet},
			}, nil
		}).Times(2)

	s := New(source, store, gw, WithConfig(testConfig()))
	res := s.SyncOLT(context.Background(), &olt)

	require.Equal(t, OutcomeSuccess, res.Outcome)
	assert.Equal(t, 2, res.Upserted)
	assert.Equal(t, 1, res.SNMPUpdated)
	assert.Equal(t, 1, res.SNMPSkipped)
	assert.Empty(t, res.SNMPError)

	onus := store.ONUs(1)
	require.Len(t, onus, 2)
	assert.NotNil(t, onus[0].DetailsSNMP)
	assert.Nil(t, onus[1].DetailsSNMP)
}

func TestSyncTenantBoundedConcurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockSource(ctrl)
	store := NewMockStore(ctrl)
	gw := NewMockGateway(ctrl)

	var olts []model.OLT
	for i := int64(1); i <= 8; i++ {
		olts = append(olts, model.OLT{ID: i, TenantID: 1, Vendor: "zte", Address: "192.0.2.1"})
	}
	source.EXPECT().ListOLTs(gomock.Any(), int64(1)).Return(olts, nil)
	store.EXPECT().UpsertONUs(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()

	var inFlight, peak atomic.Int32
	gw.EXPECT().ListONUs(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, *types.DeviceDescriptor) ([]types.ONUInfo, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
			return nil, nil
		}).Times(8)

	cfg := testConfig()
	cfg.Concurrency = 2
	report, err := New(source, store, gw, WithConfig(cfg)).SyncTenant(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 8, report.Succeeded)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestSyncUnitRecoversPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockSource(ctrl)
	store := NewMockStore(ctrl)
	gw := NewMockGateway(ctrl)

	olts := []model.OLT{
		{ID: 1, TenantID: 1, Vendor: "zte", Address: "192.0.2.1"},
		{ID: 2, TenantID: 1, Vendor: "zte", Address: "192.0.2.2"},
	}
	source.EXPECT().ListOLTs(gomock.Any(), int64(1)).Return(olts, nil)
	store.EXPECT().UpsertONUs(gomock.Any(), int64(2), gomock.Any()).Return(0, nil)
	gw.EXPECT().ListONUs(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, desc *types.DeviceDescriptor) ([]types.ONUInfo, error) {
			if desc.Address == "192.0.2.1" {
				panic("parser bug")
			}
			return nil, nil
		}).Times(2)

	report, err := New(source, store, gw, WithConfig(testConfig())).SyncTenant(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, report.Results[0].Error, "parser bug")
}

func TestSyncTenantSourceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockSource(ctrl)
	source.EXPECT().ListOLTs(gomock.Any(), int64(3)).Return(nil, errors.New("db gone"))

	_, err := New(source, NewMockStore(ctrl), NewMockGateway(ctrl)).SyncTenant(context.Background(), 3)
	assert.Error(t, err)
}

func TestCheckStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := NewMockGateway(ctrl)
	store := memory.New()
	for _, olt := range fleet()[:2] {
		store.AddOLT(olt)
	}

	gw.EXPECT().Probe(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, desc *types.DeviceDescriptor) error {
			if desc.Address == "192.0.2.2" {
				return types.Errorf(types.KindDeviceUnreachable, "hsgq", "dial ssh", "timeout")
			}
			return nil
		}).Times(2)

	results, err := New(store, store, gw, WithConfig(testConfig())).CheckStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, model.OLTStateOnline, results[0].Status)
	assert.Equal(t, model.OLTStateOffline, results[1].Status)
	assert.Equal(t, types.KindDeviceUnreachable, results[1].ErrorKind)

	olt, _ := store.OLT(2)
	assert.Equal(t, model.OLTStateOffline, olt.Status)
	assert.NotNil(t, olt.LastChecked)
}

func TestAggregatorReport(t *testing.T) {
	agg := NewAggregator()
	agg.Add(OLTResult{OLTID: 3, Outcome: OutcomeFailed})
	agg.Add(OLTResult{OLTID: 1, Outcome: OutcomeSuccess})

	report := agg.Report("run", "all", time.Time{}, time.Time{})
	assert.Equal(t, int64(1), report.Results[0].OLTID)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
}
