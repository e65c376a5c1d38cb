package zte

import (
	"context"
	"errors"
	"testing"

	"github.com/nanoncore/olt-gateway/drivers/mock"
	"github.com/nanoncore/olt-gateway/types"
)

func newTestAdapter(t *testing.T, transport types.Transport, script mock.Script, metadata map[string]string) types.Adapter {
	t.Helper()
	desc := &types.DeviceDescriptor{
		Name:      "c320-lab",
		Vendor:    types.VendorZTE,
		PONType:   types.PONTypeGPON,
		Model:     "C320",
		Address:   "192.0.2.30",
		Transport: transport,
		Metadata:  metadata,
	}
	adapter := NewAdapter(mock.NewDriver(desc, script), desc)
	if err := adapter.Connect(context.Background(), desc); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return adapter
}

func TestListONUsCLI(t *testing.T) {
	adapter := newTestAdapter(t, types.TransportTelnet, mock.ZTECLIScript(), map[string]string{"pon_ports": "1/1/1,1/1/2"})

	onus, err := adapter.ListONUs(context.Background())
	if err != nil {
		t.Fatalf("ListONUs returned error: %v", err)
	}
	if len(onus) != 2 {
		t.Fatalf("expected 2 ONUs, got %d", len(onus))
	}

	first := onus[0]
	if first.Identifier != "ZTEGC0A1B2C3" {
		t.Errorf("identifier = %q", first.Identifier)
	}
	if first.PONPort != "1/1/1" || first.ONUID != 1 {
		t.Errorf("position = %s:%d", first.PONPort, first.ONUID)
	}
	if first.OperState != "working" || first.AdminState != "enable" {
		t.Errorf("states = %q/%q", first.OperState, first.AdminState)
	}
	if first.RxPowerDBm == nil || *first.RxPowerDBm != -20.12 {
		t.Errorf("rx = %v, want -20.12", first.RxPowerDBm)
	}
	if first.Model != "ZTE-F660" {
		t.Errorf("model = %q", first.Model)
	}

	second := onus[1]
	if second.OperState != "los" {
		t.Errorf("second state = %q, want los", second.OperState)
	}
	if second.RxPowerDBm != nil {
		t.Errorf("N/A power should stay nil")
	}
}

func TestListONUsCLIDefaultPorts(t *testing.T) {
	adapter := newTestAdapter(t, types.TransportSSH, mock.ZTECLIScript(), nil)

	onus, err := adapter.ListONUs(context.Background())
	if err != nil {
		t.Fatalf("ListONUs returned error: %v", err)
	}
	if len(onus) != 2 {
		t.Fatalf("expected absent ports to be skipped, got %d ONUs", len(onus))
	}
}

func TestListONUsSNMP(t *testing.T) {
	adapter := newTestAdapter(t, types.TransportSNMP, mock.ZTESNMPScript(), nil)

	onus, err := adapter.ListONUs(context.Background())
	if err != nil {
		t.Fatalf("ListONUs returned error: %v", err)
	}
	if len(onus) != 2 {
		t.Fatalf("expected 2 ONUs, got %d", len(onus))
	}

	first := onus[0]
	if first.Identifier != "ZTEGC0A1B2C3" || first.Serial != "ZTEGC0A1B2C3" {
		t.Errorf("identifier/serial = %q/%q", first.Identifier, first.Serial)
	}
	if first.PONPort != "1/1/1" || first.ONUID != 1 {
		t.Errorf("position = %s:%d", first.PONPort, first.ONUID)
	}
	if first.OperState != "working" {
		t.Errorf("state = %q", first.OperState)
	}
	if first.RxPowerDBm == nil || *first.RxPowerDBm != -20.12 {
		t.Errorf("rx = %v, want -20.12", first.RxPowerDBm)
	}
	if first.DistanceM == nil || *first.DistanceM != 1532 {
		t.Errorf("distance = %v", first.DistanceM)
	}
	if onus[1].Identifier != "HWTC1A2B3C4D" || onus[1].OperState != "los" {
		t.Errorf("second ONU = %q %q", onus[1].Identifier, onus[1].OperState)
	}
	if onus[1].RxPowerDBm != nil {
		t.Errorf("65535 is not a reading")
	}
}

func TestGetOLTStatusSNMP(t *testing.T) {
	adapter := newTestAdapter(t, types.TransportSNMP, mock.ZTESNMPScript(), nil)

	status, err := adapter.GetOLTStatus(context.Background())
	if err != nil {
		t.Fatalf("GetOLTStatus returned error: %v", err)
	}
	if status.Firmware != "V2.1.0" {
		t.Errorf("firmware = %q", status.Firmware)
	}
	if status.UptimeSeconds != 86400 {
		t.Errorf("uptime = %d", status.UptimeSeconds)
	}
	if status.TotalONUs != 2 || status.ActiveONUs != 1 {
		t.Errorf("onus = %d/%d, want 1/2", status.ActiveONUs, status.TotalONUs)
	}
	if len(status.PONPorts) != 1 || status.PONPorts[0] != "1/1/1" {
		t.Errorf("pon ports = %v", status.PONPorts)
	}
}

func TestUnreachableDuringWalk(t *testing.T) {
	desc := &types.DeviceDescriptor{Vendor: types.VendorZTE, Address: "192.0.2.30", Transport: types.TransportSNMP}
	walkErr := types.Errorf(types.KindDeviceUnreachable, "zte", "snmp walk", "request timeout")
	driver := mock.NewDriver(desc, mock.ZTESNMPScript(), mock.WithCommandError(OIDONUName, walkErr))
	adapter := NewAdapter(driver, desc)
	if err := adapter.Connect(context.Background(), desc); err != nil {
		t.Fatal(err)
	}

	if _, err := adapter.ListONUs(context.Background()); !errors.Is(err, types.ErrDeviceUnreachable) {
		t.Fatalf("expected DEVICE_UNREACHABLE, got %v", err)
	}
}

func TestDecodeIfIndex(t *testing.T) {
	tests := map[uint32]string{
		268501248: "1/1/1",
		268501504: "1/1/2",
		268566784: "1/2/1",
	}
	for in, want := range tests {
		if got := DecodeIfIndex(in); got != want {
			t.Errorf("DecodeIfIndex(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeSerial(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ZTEG\xc0\xa1\xb2\xc3", "ZTEGC0A1B2C3"},
		{"ZTEG\x41\x42\x43\x44", "ZTEG41424344"},
		{"ZTEGC0A1B2C3", "ZTEGC0A1B2C3"},
		{"0x5a544547c0a1b2c3", "ZTEGC0A1B2C3"},
		{"zteg-c0a1b2c3", "ZTEGC0A1B2C3"},
	}
	for _, tt := range tests {
		if got := DecodeSerial(tt.in); got != tt.want {
			t.Errorf("DecodeSerial(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParsePortTablesRejectsBrokenRows(t *testing.T) {
	_, err := ParsePortTables("gpon-onu_1/1/1:1  ZTE-F660", "", "", types.TransportTelnet)
	if !errors.Is(err, types.ErrParseError) {
		t.Fatalf("expected PARSE_ERROR, got %v", err)
	}
}

func TestDialect(t *testing.T) {
	telnet := Dialect(&types.DeviceDescriptor{Transport: types.TransportTelnet, Username: "zte", Password: "zte"})
	if len(telnet.Login) != 2 {
		t.Errorf("telnet login steps = %d, want 2", len(telnet.Login))
	}
	ssh := Dialect(&types.DeviceDescriptor{Transport: types.TransportSSH})
	if len(ssh.Login) != 0 {
		t.Errorf("ssh login steps = %d, want 0", len(ssh.Login))
	}
	if !telnet.Prompt.MatchString("ZXAN#") || !telnet.Prompt.MatchString("ZXAN(config-if)#") {
		t.Error("prompt should match ZXAN modes")
	}
	if len(telnet.Setup) != 1 || telnet.Setup[0] != "terminal length 0" {
		t.Errorf("setup = %v", telnet.Setup)
	}
}
