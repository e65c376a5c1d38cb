package snmp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/nanoncore/olt-gateway/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertValue(t *testing.T) {
	tests := []struct {
		name string
		pdu  gosnmp.SnmpPDU
		want interface{}
	}{
		{"octet string", gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: []byte("onu-1")}, "onu-1"},
		{"integer", gosnmp.SnmpPDU{Type: gosnmp.Integer, Value: 4}, int64(4)},
		{"negative integer", gosnmp.SnmpPDU{Type: gosnmp.Integer, Value: -2146}, int64(-2146)},
		{"gauge", gosnmp.SnmpPDU{Type: gosnmp.Gauge32, Value: uint(65535)}, uint64(65535)},
		{"timeticks", gosnmp.SnmpPDU{Type: gosnmp.TimeTicks, Value: uint32(123456)}, uint64(123456)},
		{"counter64", gosnmp.SnmpPDU{Type: gosnmp.Counter64, Value: uint64(1 << 40)}, uint64(1 << 40)},
		{"oid", gosnmp.SnmpPDU{Type: gosnmp.ObjectIdentifier, Value: ".1.3.6.1"}, ".1.3.6.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convertValue(tt.pdu))
		})
	}
}

func TestNewDriverValidation(t *testing.T) {
	_, err := NewDriver(nil, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewDriver(&types.DeviceDescriptor{Transport: types.TransportSNMP}, zerolog.Nop())
	assert.Error(t, err)
}

func TestNotConnected(t *testing.T) {
	d, err := NewDriver(&types.DeviceDescriptor{Vendor: types.VendorZTE, Address: "192.0.2.1"}, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, d.IsConnected())

	_, err = d.WalkSNMP(context.Background(), "1.3.6.1.2.1.1")
	assert.Equal(t, types.KindDeviceUnreachable, types.KindOf(err))
	assert.NoError(t, d.Disconnect(context.Background()))
}

// A silent UDP listener looks like a wrong community: every request times out.
func TestSilentAgentIsUnreachable(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	desc := &types.DeviceDescriptor{
		Vendor:    types.VendorHSGQ,
		Address:   "127.0.0.1",
		Port:      pc.LocalAddr().(*net.UDPAddr).Port,
		Transport: types.TransportSNMP,
		Community: "wrong",
		Timeout:   100 * time.Millisecond,
	}
	d, err := NewDriver(desc, zerolog.Nop())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, d.Connect(ctx, nil))
	defer d.Disconnect(ctx)
	assert.True(t, d.IsConnected())

	err = d.HealthCheck(ctx)
	require.Error(t, err)
	assert.Equal(t, types.KindDeviceUnreachable, types.KindOf(err))
}

func TestCancelledContext(t *testing.T) {
	desc := &types.DeviceDescriptor{Vendor: types.VendorHioso, Address: "127.0.0.1", Port: 1161, Transport: types.TransportSNMP}
	d, err := NewDriver(desc, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, d.Connect(context.Background(), nil))
	defer d.Disconnect(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.BulkGetSNMP(ctx, []string{"1.3.6.1.2.1.1.1.0"})
	assert.Equal(t, types.KindDeviceUnreachable, types.KindOf(err))
}
