package snmp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/nanoncore/olt-gateway/types"
	"github.com/rs/zerolog"
)

// Standard MIB-II objects used for health checks and OLT status.
const (
	OIDSysDescr  = "1.3.6.1.2.1.1.1.0"
	OIDSysUpTime = "1.3.6.1.2.1.1.3.0"
	OIDSysName   = "1.3.6.1.2.1.1.5.0"
)

// Driver implements types.Driver and types.SNMPExecutor with gosnmp.
// SNMP is request/response; Connect only opens the UDP socket.
type Driver struct {
	desc   *types.DeviceDescriptor
	snmp   *gosnmp.GoSNMP
	logger zerolog.Logger
}

// NewDriver creates a new SNMP driver
func NewDriver(desc *types.DeviceDescriptor, logger zerolog.Logger) (*Driver, error) {
	if desc == nil {
		return nil, fmt.Errorf("descriptor is required")
	}
	if desc.Address == "" {
		return nil, fmt.Errorf("address is required")
	}
	if desc.Timeout == 0 {
		desc.Timeout = 10 * time.Second
	}

	return &Driver{
		desc:   desc,
		logger: logger.With().Str("device", desc.Label()).Str("transport", "snmp").Logger(),
	}, nil
}

// Connect prepares the SNMP client
func (d *Driver) Connect(ctx context.Context, desc *types.DeviceDescriptor) error {
	if desc != nil {
		d.desc = desc
	}

	version := gosnmp.Version2c
	switch d.desc.SNMPVersion {
	case "1":
		version = gosnmp.Version1
	case "3":
		version = gosnmp.Version3
	}

	community := d.desc.Community
	if community == "" {
		community = "public"
	}

	port := d.desc.EffectivePort()
	if port <= 0 || port > 65535 {
		port = 161
	}
	client := &gosnmp.GoSNMP{
		Context:            ctx,
		Target:             d.desc.Address,
		Port:               uint16(port), //nolint:gosec // validated above
		Community:          community,
		Version:            version,
		Timeout:            d.desc.Timeout,
		Retries:            1,
		MaxOids:            gosnmp.MaxOids,
		MaxRepetitions:     25,
		ExponentialTimeout: false,
	}

	// For SNMPv3, set security parameters
	if version == gosnmp.Version3 {
		client.SecurityModel = gosnmp.UserSecurityModel
		client.SecurityParameters = &gosnmp.UsmSecurityParameters{
			UserName:                 d.desc.Username,
			AuthenticationProtocol:   gosnmp.SHA,
			AuthenticationPassphrase: d.desc.Password,
			PrivacyProtocol:          gosnmp.AES,
			PrivacyPassphrase:        d.desc.Password,
		}
		client.MsgFlags = gosnmp.AuthPriv
	}

	if err := client.Connect(); err != nil {
		return types.NewError(types.KindDeviceUnreachable, string(d.desc.Vendor), "snmp connect "+d.desc.Target(), err)
	}

	d.snmp = client
	return nil
}

// Disconnect closes the SNMP connection
func (d *Driver) Disconnect(ctx context.Context) error {
	if d.snmp != nil && d.snmp.Conn != nil {
		err := d.snmp.Conn.Close()
		d.snmp = nil
		return err
	}
	d.snmp = nil
	return nil
}

// IsConnected returns true if connected
func (d *Driver) IsConnected() bool {
	return d.snmp != nil
}

// bind points the client at the caller's context so cancellation aborts
// in-flight requests.
func (d *Driver) bind(ctx context.Context, op string) error {
	if d.snmp == nil {
		return types.Errorf(types.KindDeviceUnreachable, string(d.desc.Vendor), op, "not connected")
	}
	if err := ctx.Err(); err != nil {
		return types.NewError(types.KindDeviceUnreachable, string(d.desc.Vendor), op, err)
	}
	d.snmp.Context = ctx
	return nil
}

// requestErr classifies a failed request. Wrong v2c communities are
// indistinguishable from an unreachable agent, both time out.
func (d *Driver) requestErr(op string, err error) error {
	return types.NewError(types.KindDeviceUnreachable, string(d.desc.Vendor), op, err)
}

// HealthCheck performs a health check
func (d *Driver) HealthCheck(ctx context.Context) error {
	_, err := d.GetSNMP(ctx, OIDSysDescr)
	return err
}

// GetSNMP implements types.SNMPExecutor - retrieves a single SNMP value
func (d *Driver) GetSNMP(ctx context.Context, oid string) (interface{}, error) {
	if err := d.bind(ctx, "snmp get "+oid); err != nil {
		return nil, err
	}

	result, err := d.snmp.Get([]string{oid})
	if err != nil {
		return nil, d.requestErr("snmp get "+oid, err)
	}
	if len(result.Variables) == 0 {
		return nil, types.Errorf(types.KindParseError, string(d.desc.Vendor), "snmp get "+oid, "empty response")
	}

	variable := result.Variables[0]
	if variable.Type == gosnmp.NoSuchObject || variable.Type == gosnmp.NoSuchInstance {
		return nil, types.Errorf(types.KindUnsupportedCommand, string(d.desc.Vendor), "snmp get "+oid, "object not implemented by agent")
	}
	return convertValue(variable), nil
}

// WalkSNMP implements types.SNMPExecutor. Results are keyed by the index
// below oid, without a leading dot.
func (d *Driver) WalkSNMP(ctx context.Context, oid string) (map[string]interface{}, error) {
	if err := d.bind(ctx, "snmp walk "+oid); err != nil {
		return nil, err
	}

	base := "." + strings.TrimPrefix(oid, ".")
	results := make(map[string]interface{})
	walk := func(pdu gosnmp.SnmpPDU) error {
		name := "." + strings.TrimPrefix(pdu.Name, ".")
		if !strings.HasPrefix(name, base+".") {
			return nil
		}
		results[name[len(base)+1:]] = convertValue(pdu)
		return nil
	}

	var err error
	if d.snmp.Version == gosnmp.Version1 {
		err = d.snmp.Walk(base, walk)
	} else {
		err = d.snmp.BulkWalk(base, walk)
	}
	if err != nil {
		return nil, d.requestErr("snmp walk "+oid, err)
	}

	d.logger.Debug().Str("oid", oid).Int("rows", len(results)).Msg("SNMP walk complete")
	return results, nil
}

// BulkGetSNMP implements types.SNMPExecutor - retrieves multiple OIDs
func (d *Driver) BulkGetSNMP(ctx context.Context, oids []string) (map[string]interface{}, error) {
	if err := d.bind(ctx, "snmp get"); err != nil {
		return nil, err
	}

	results := make(map[string]interface{}, len(oids))
	for start := 0; start < len(oids); start += gosnmp.MaxOids {
		end := start + gosnmp.MaxOids
		if end > len(oids) {
			end = len(oids)
		}
		result, err := d.snmp.Get(oids[start:end])
		if err != nil {
			return nil, d.requestErr("snmp get", err)
		}
		for _, variable := range result.Variables {
			if variable.Type == gosnmp.NoSuchObject || variable.Type == gosnmp.NoSuchInstance {
				continue
			}
			results[variable.Name] = convertValue(variable)
		}
	}
	return results, nil
}

// convertValue maps gosnmp PDU values onto plain Go types.
func convertValue(pdu gosnmp.SnmpPDU) interface{} {
	switch pdu.Type {
	case gosnmp.OctetString:
		if b, ok := pdu.Value.([]byte); ok {
			return string(b)
		}
		return pdu.Value
	case gosnmp.Integer:
		if v, ok := pdu.Value.(int); ok {
			return int64(v)
		}
		return pdu.Value
	case gosnmp.Counter32, gosnmp.Gauge32, gosnmp.TimeTicks, gosnmp.Uinteger32:
		return gosnmp.ToBigInt(pdu.Value).Uint64()
	case gosnmp.Counter64:
		if v, ok := pdu.Value.(uint64); ok {
			return v
		}
		return gosnmp.ToBigInt(pdu.Value).Uint64()
	default:
		return pdu.Value
	}
}

var (
	_ types.Driver       = (*Driver)(nil)
	_ types.SNMPExecutor = (*Driver)(nil)
)
