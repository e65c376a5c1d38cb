package hsgq

import (
	"context"
	"errors"
	"testing"

	"github.com/nanoncore/olt-gateway/drivers/mock"
	"github.com/nanoncore/olt-gateway/types"
)

func newTestAdapter(t *testing.T, pon types.PONType, transport types.Transport, script mock.Script, oids map[string]string) types.Adapter {
	t.Helper()
	desc := &types.DeviceDescriptor{
		Name:      "hsgq-lab",
		Vendor:    types.VendorHSGQ,
		PONType:   pon,
		Address:   "192.0.2.20",
		Transport: transport,
		OIDs:      oids,
	}
	adapter := NewAdapter(mock.NewDriver(desc, script), desc)
	if err := adapter.Connect(context.Background(), desc); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return adapter
}

func TestListONUsGPONSSH(t *testing.T) {
	adapter := newTestAdapter(t, types.PONTypeGPON, types.TransportSSH, mock.HSGQGPONScript(), nil)

	onus, err := adapter.ListONUs(context.Background())
	if err != nil {
		t.Fatalf("ListONUs returned error: %v", err)
	}
	if len(onus) != 2 {
		t.Fatalf("expected 2 ONUs, got %d", len(onus))
	}

	onu := onus[0]
	if onu.Identifier != "HWTC1A2B3C4D" || onu.Serial != "HWTC1A2B3C4D" {
		t.Errorf("identifier/serial = %q/%q", onu.Identifier, onu.Serial)
	}
	if onu.RxPowerDBm == nil || *onu.RxPowerDBm != -21.46 {
		t.Errorf("rx = %v, want -21.46 (rounded)", onu.RxPowerDBm)
	}
	if onu.TxPowerDBm == nil || *onu.TxPowerDBm != 2.31 {
		t.Errorf("tx = %v, want 2.31", onu.TxPowerDBm)
	}
	if onu.TemperatureC == nil || *onu.TemperatureC != 45 {
		t.Errorf("temperature = %v", onu.TemperatureC)
	}
	if onu.Name != "cust_ahmad" {
		t.Errorf("name = %q", onu.Name)
	}
}

func TestGetONUPowerGPONSSH(t *testing.T) {
	adapter := newTestAdapter(t, types.PONTypeGPON, types.TransportSSH, mock.HSGQGPONScript(), nil)

	readings, err := adapter.GetONUPower(context.Background())
	if err != nil {
		t.Fatalf("GetONUPower returned error: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(readings))
	}
	if readings[1].IsWithinSpec {
		t.Errorf("-29.10 dBm should be out of spec")
	}
}

func TestListONUsEPONSSH(t *testing.T) {
	adapter := newTestAdapter(t, types.PONTypeEPON, types.TransportSSH, mock.HSGQEPONScript(), nil)

	onus, err := adapter.ListONUs(context.Background())
	if err != nil {
		t.Fatalf("ListONUs returned error: %v", err)
	}
	if len(onus) != 2 {
		t.Fatalf("expected 2 ONUs, got %d", len(onus))
	}
	if onus[0].Identifier != "aa:bb:cc:dd:ee:01" {
		t.Errorf("identifier = %q, want lower-case colon MAC", onus[0].Identifier)
	}
	if onus[1].OperState != "offline" {
		t.Errorf("oper state = %q", onus[1].OperState)
	}
	if onus[0].Details["registered_at"] != "2024/05/01 10:20:30" {
		t.Errorf("registered_at = %q", onus[0].Details["registered_at"])
	}
}

func TestEPONShellHasNoPower(t *testing.T) {
	adapter := newTestAdapter(t, types.PONTypeEPON, types.TransportSSH, mock.HSGQEPONScript(), nil)

	if adapter.Supports(types.CommandONUPower) {
		t.Fatal("EPON shell should not support onu_power")
	}
	if _, err := adapter.GetONUPower(context.Background()); !errors.Is(err, types.ErrUnsupportedCommand) {
		t.Fatalf("expected UNSUPPORTED_COMMAND, got %v", err)
	}
}

func TestListONUsGPONSNMP(t *testing.T) {
	adapter := newTestAdapter(t, types.PONTypeGPON, types.TransportSNMP, mock.HSGQGPONSNMPScript(), mock.HSGQGPONOIDs)

	onus, err := adapter.ListONUs(context.Background())
	if err != nil {
		t.Fatalf("ListONUs returned error: %v", err)
	}
	if len(onus) != 2 {
		t.Fatalf("expected 2 ONUs, got %d", len(onus))
	}
	if onus[0].Identifier != "HWTC1A2B3C4D" || onus[0].ONUID != 1 {
		t.Errorf("first ONU = %q #%d", onus[0].Identifier, onus[0].ONUID)
	}
	if onus[0].RxPowerDBm == nil || *onus[0].RxPowerDBm != -21.46 {
		t.Errorf("rx = %v", onus[0].RxPowerDBm)
	}
	if onus[1].RxPowerDBm != nil {
		t.Errorf("missing rx column should stay nil, got %v", *onus[1].RxPowerDBm)
	}
}

func TestListONUsEPONSNMPFallback(t *testing.T) {
	adapter := newTestAdapter(t, types.PONTypeEPON, types.TransportSNMP, mock.HSGQEPONSNMPScript(), nil)

	onus, err := adapter.ListONUs(context.Background())
	if err != nil {
		t.Fatalf("ListONUs returned error: %v", err)
	}
	if len(onus) != 2 {
		t.Fatalf("expected 2 ONUs (invalid MAC skipped), got %d", len(onus))
	}

	first := onus[0]
	if first.Identifier != "aa:bb:cc:dd:ee:01" {
		t.Errorf("identifier = %q", first.Identifier)
	}
	if first.OperState != "online" {
		t.Errorf("state = %q", first.OperState)
	}
	if first.TxPowerDBm == nil || *first.TxPowerDBm != 2.31 {
		t.Errorf("tx = %v, want raw/100", first.TxPowerDBm)
	}
	if first.RxPowerDBm == nil || *first.RxPowerDBm != -21.46 {
		t.Errorf("rx = %v, want raw/100", first.RxPowerDBm)
	}
	if first.DistanceM == nil || *first.DistanceM != 1250 {
		t.Errorf("distance = %v", first.DistanceM)
	}
	if onus[1].Identifier != "aa:bb:cc:dd:ee:02" || onus[1].OperState != "offline" {
		t.Errorf("second ONU = %q %q", onus[1].Identifier, onus[1].OperState)
	}
}

func TestSNMPIndex(t *testing.T) {
	tests := []struct {
		suffix string
		want   string
		ok     bool
	}{
		{"7", "7", true},
		{"16777473.12", "12", true},
		{"5.0.0", "5", true},
		{"9.65535.65535", "9", true},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := snmpIndex(tt.suffix)
		if got != tt.want || ok != tt.ok {
			t.Errorf("snmpIndex(%q) = %q, %v; want %q, %v", tt.suffix, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseTablesRejectBrokenRows(t *testing.T) {
	if _, err := ParseOpticalTable("1/1  HWTC1A2B3C4D  n/a", types.TransportSSH); !errors.Is(err, types.ErrParseError) {
		t.Errorf("optical: expected PARSE_ERROR, got %v", err)
	}
	if _, err := ParseONUInfoTable("0/1  aa:bb:cc:dd:ee:01  Unknown", types.TransportSSH); !errors.Is(err, types.ErrParseError) {
		t.Errorf("onu-info: expected PARSE_ERROR, got %v", err)
	}
}

func TestDialect(t *testing.T) {
	gpon := Dialect(&types.DeviceDescriptor{PONType: types.PONTypeGPON, Transport: types.TransportSSH, Password: "pw"})
	if len(gpon.Login) != 2 {
		t.Errorf("GPON SSH login should only enable, got %d steps", len(gpon.Login))
	}
	if !gpon.LegacyAlgorithms {
		t.Error("HSGQ needs legacy SSH algorithms")
	}
	if !gpon.Prompt.MatchString("OLT(config)#") {
		t.Error("prompt should match config mode")
	}

	epon := Dialect(&types.DeviceDescriptor{PONType: types.PONTypeEPON, Transport: types.TransportSSH, Username: "u", Password: "pw"})
	if len(epon.Login) != 4 || epon.Login[0].Send != "u" {
		t.Errorf("EPON login should start with the second username prompt: %+v", epon.Login)
	}
	if !epon.Prompt.MatchString("MSNet_Fiber>") {
		t.Error("prompt should match the EPON user prompt")
	}
	if epon.PagerReply != "\n" {
		t.Errorf("EPON pager reply = %q", epon.PagerReply)
	}
}
