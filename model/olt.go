// Package model contains the persisted records the synchronization task reads
// and writes: tenants, OLTs, their ONUs and vendor OID mappings. These are
// owned by the management backend; the gateway only ever sees them converted
// into a types.DeviceDescriptor.
package model

import (
	"strconv"
	"time"

	"github.com/nanoncore/olt-gateway/types"
)

// Tenant is the isolation boundary for OLT ownership.
type Tenant struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OLTState is the reachability state maintained by the status checker.
type OLTState string

const (
	OLTStateUnknown OLTState = "unknown"
	OLTStateOnline  OLTState = "online"
	OLTStateOffline OLTState = "offline"
)

// OLT represents one optical line terminal registered by a tenant.
type OLT struct {
	ID       int64  `json:"id"`
	TenantID int64  `json:"tenant_id"`
	Name     string `json:"name"`

	// Vendor is the free-form vendor name as entered by the operator.
	// It is validated only when the gateway routes a request.
	Vendor string `json:"vendor"`

	// PONType is "gpon" or "epon"
	PONType string `json:"olt_type"`

	// Model is the hardware model (scopes OID mappings)
	Model string `json:"model,omitempty"`

	// Address is the management IP/hostname
	Address string `json:"ip"`

	Username string `json:"username"`
	Password string `json:"password"`

	SSHPort    int `json:"ssh_port"`
	TelnetPort int `json:"telnet_port"`
	SNMPPort   int `json:"snmp_port"`

	// Community is the SNMP read community
	Community string `json:"community"`

	// Transport is the primary transport (telnet or ssh for CLI vendors, snmp
	// for SNMP-only deployments). Empty selects the vendor default.
	Transport string `json:"transport,omitempty"`

	// SNMPEnabled runs an SNMP enrichment pass after the primary sync
	SNMPEnabled bool `json:"snmp_enabled"`

	Status      OLTState   `json:"status"`
	LastChecked *time.Time `json:"last_checked,omitempty"`

	// CommandDelay is the pause between CLI commands
	CommandDelay time.Duration `json:"ssh_delay"`

	// Timeout bounds connect and each command
	Timeout time.Duration `json:"ssh_timeout"`

	// Metadata carries vendor options such as pon_ports
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Defaults for OLT records created without explicit values.
const (
	DefaultSSHPort    = 22
	DefaultTelnetPort = 23
	DefaultSNMPPort   = 161
	DefaultCommunity  = "public"
	DefaultTimeout    = 10 * time.Second
)

// PortFor returns the configured port for a transport.
func (o *OLT) PortFor(t types.Transport) int {
	switch t {
	case types.TransportSSH:
		if o.SSHPort > 0 {
			return o.SSHPort
		}
		return DefaultSSHPort
	case types.TransportTelnet:
		if o.TelnetPort > 0 {
			return o.TelnetPort
		}
		return DefaultTelnetPort
	case types.TransportSNMP:
		if o.SNMPPort > 0 {
			return o.SNMPPort
		}
		return DefaultSNMPPort
	}
	return 0
}

// Label is a log-friendly name.
func (o *OLT) Label() string {
	if o.Name != "" {
		return o.Name
	}
	return o.Address + "#" + strconv.FormatInt(o.ID, 10)
}

// Descriptor converts the record into a connection descriptor for the given
// transport. The vendor is passed through unparsed; routing validates it.
func (o *OLT) Descriptor(transport types.Transport, oids []OID) *types.DeviceDescriptor {
	community := o.Community
	if community == "" {
		community = DefaultCommunity
	}

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	metadata := make(map[string]string, len(o.Metadata))
	for k, v := range o.Metadata {
		metadata[k] = v
	}

	return &types.DeviceDescriptor{
		Name:         o.Label(),
		Vendor:       types.Vendor(o.Vendor),
		PONType:      types.PONType(o.PONType),
		Model:        o.Model,
		Address:      o.Address,
		Port:         o.PortFor(transport),
		Transport:    transport,
		Username:     o.Username,
		Password:     o.Password,
		Community:    community,
		SNMPVersion:  "2c",
		Timeout:      timeout,
		CommandDelay: o.CommandDelay,
		OIDs:         OIDMap(oids, o.Model),
		Metadata:     metadata,
	}
}
