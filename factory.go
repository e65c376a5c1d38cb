package southbound

import (
	"fmt"
	"sort"

	"github.com/nanoncore/olt-gateway/drivers/cli"
	"github.com/nanoncore/olt-gateway/drivers/mock"
	"github.com/nanoncore/olt-gateway/drivers/snmp"
	"github.com/nanoncore/olt-gateway/types"
	"github.com/nanoncore/olt-gateway/vendors/hioso"
	"github.com/nanoncore/olt-gateway/vendors/hsgq"
	"github.com/nanoncore/olt-gateway/vendors/zte"
	"github.com/rs/zerolog"
)

// VendorCapabilities defines what transports and PON types a vendor supports
type VendorCapabilities struct {
	// DefaultTransport is used when a descriptor names none
	DefaultTransport Transport

	SupportedTransports []Transport
	PONTypes            []PONType
}

// Supports reports whether the vendor can be reached over t.
func (c VendorCapabilities) Supports(t Transport) bool {
	for _, s := range c.SupportedTransports {
		if s == t {
			return true
		}
	}
	return false
}

// CapabilityMatrix defines what each vendor supports
var CapabilityMatrix = map[Vendor]VendorCapabilities{
	VendorHioso: {
		DefaultTransport:    TransportTelnet,
		SupportedTransports: []Transport{TransportTelnet, TransportSNMP},
		PONTypes:            []PONType{PONTypeEPON},
	},
	VendorHSGQ: {
		DefaultTransport:    TransportSSH,
		SupportedTransports: []Transport{TransportSSH, TransportTelnet, TransportSNMP},
		PONTypes:            []PONType{PONTypeGPON, PONTypeEPON},
	},
	VendorZTE: {
		DefaultTransport:    TransportTelnet,
		SupportedTransports: []Transport{TransportTelnet, TransportSSH, TransportSNMP},
		PONTypes:            []PONType{PONTypeGPON},
	},
}

// AdapterFactory wraps an opened transport in a vendor adapter.
type AdapterFactory func(base Driver, desc *DeviceDescriptor) Adapter

// DialectFactory describes a vendor's shell for a descriptor.
type DialectFactory func(desc *DeviceDescriptor) CLIDialect

type vendorEntry struct {
	dialect DialectFactory
	adapter AdapterFactory
}

// registry is the fixed vendor dispatch table.
var registry = map[Vendor]vendorEntry{
	VendorHioso: {dialect: hioso.Dialect, adapter: hioso.NewAdapter},
	VendorHSGQ:  {dialect: hsgq.Dialect, adapter: hsgq.NewAdapter},
	VendorZTE:   {dialect: zte.Dialect, adapter: zte.NewAdapter},
}

// TransportFactory builds the (unconnected) transport for a prepared
// descriptor. The dialect is only meaningful for CLI transports.
type TransportFactory func(desc *DeviceDescriptor, dialect CLIDialect) (Driver, error)

// DefaultTransportFactory opens real Telnet, SSH and SNMP sessions.
func DefaultTransportFactory(logger zerolog.Logger) TransportFactory {
	return func(desc *DeviceDescriptor, dialect CLIDialect) (Driver, error) {
		switch desc.Transport {
		case TransportSNMP:
			return snmp.NewDriver(desc, logger)
		case TransportSSH, TransportTelnet:
			return cli.NewDriver(desc, dialect, logger)
		default:
			return nil, types.Errorf(types.KindUnsupportedCommand, string(desc.Vendor), "open transport",
				"unsupported transport %q", desc.Transport)
		}
	}
}

// MockTransportFactory serves canned vendor sessions without touching the
// network. Every driver shares tracker.
func MockTransportFactory(tracker *mock.Tracker, opts ...mock.Option) TransportFactory {
	return func(desc *DeviceDescriptor, dialect CLIDialect) (Driver, error) {
		script := mock.FixtureFor(string(desc.Vendor), string(desc.PONType), string(desc.Transport))
		all := append([]mock.Option{mock.WithTracker(tracker), mock.WithDialect(dialect)}, opts...)
		return mock.NewDriver(desc, script, all...), nil
	}
}

// Prepare validates a descriptor and returns a normalized copy: the vendor
// is parsed (UNKNOWN_VENDOR otherwise), the transport defaults per vendor
// and must be one the vendor supports.
func Prepare(desc *DeviceDescriptor) (*DeviceDescriptor, error) {
	if desc == nil {
		return nil, fmt.Errorf("descriptor is required")
	}
	vendor, err := types.ParseVendor(string(desc.Vendor))
	if err != nil {
		return nil, err
	}

	d := *desc
	d.Vendor = vendor
	caps := CapabilityMatrix[vendor]
	if d.Transport == "" {
		d.Transport = caps.DefaultTransport
	}
	if !caps.Supports(d.Transport) {
		return nil, types.Errorf(types.KindUnsupportedCommand, string(vendor), "prepare",
			"vendor %s does not support transport %q", vendor, d.Transport)
	}
	if d.PONType == "" {
		d.PONType = caps.PONTypes[0]
	}
	if d.Address == "" {
		return nil, fmt.Errorf("address is required for %s", d.Label())
	}
	return &d, nil
}

// NewAdapter creates a vendor adapter over a freshly built transport.
// The vendor is checked before the factory is called, so an unknown vendor
// never constructs a transport.
func NewAdapter(desc *DeviceDescriptor, factory TransportFactory) (Adapter, error) {
	d, err := Prepare(desc)
	if err != nil {
		return nil, err
	}
	entry, ok := registry[d.Vendor]
	if !ok {
		return nil, types.Errorf(types.KindUnknownVendor, string(d.Vendor), "new adapter", "vendor adapter not implemented")
	}

	dialect := entry.dialect(d)
	base, err := factory(d, dialect)
	if err != nil {
		if _, ok := types.AsDeviceError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create %s driver: %w", d.Transport, err)
	}
	return entry.adapter(base, d), nil
}

// GetSupportedVendors returns a list of all supported vendors
func GetSupportedVendors() []Vendor {
	vendors := make([]Vendor, 0, len(CapabilityMatrix))
	for v := range CapabilityMatrix {
		vendors = append(vendors, v)
	}
	sort.Slice(vendors, func(i, j int) bool { return vendors[i] < vendors[j] })
	return vendors
}

// GetVendorCapabilities returns the capabilities for a vendor
func GetVendorCapabilities(vendor Vendor) (VendorCapabilities, bool) {
	caps, ok := CapabilityMatrix[vendor]
	return caps, ok
}
