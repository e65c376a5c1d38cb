package types

import (
	"context"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Transport represents the southbound transport used to reach an OLT
type Transport string

const (
	TransportTelnet Transport = "telnet"
	TransportSSH    Transport = "ssh"
	TransportSNMP   Transport = "snmp"
)

// DefaultPort returns the well-known port for the transport.
func (t Transport) DefaultPort() int {
	switch t {
	case TransportTelnet:
		return 23
	case TransportSSH:
		return 22
	case TransportSNMP:
		return 161
	default:
		return 0
	}
}

// IsCLI reports whether the transport is an interactive shell.
func (t Transport) IsCLI() bool {
	return t == TransportTelnet || t == TransportSSH
}

// Vendor represents the OLT vendor
type Vendor string

const (
	VendorHioso Vendor = "hioso"
	VendorHSGQ  Vendor = "hsgq"
	VendorZTE   Vendor = "zte"
)

// KnownVendors lists every vendor with a protocol adapter.
var KnownVendors = []Vendor{VendorHioso, VendorHSGQ, VendorZTE}

// ParseVendor maps a free-form vendor name onto the fixed enumeration.
// Matching is case-insensitive; anything else is an UNKNOWN_VENDOR error.
func ParseVendor(name string) (Vendor, error) {
	v := Vendor(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range KnownVendors {
		if v == known {
			return v, nil
		}
	}
	return "", Errorf(KindUnknownVendor, name, "parse vendor", "vendor %q has no protocol adapter", name)
}

// PONType is the PON technology of an OLT
type PONType string

const (
	PONTypeGPON PONType = "gpon"
	PONTypeEPON PONType = "epon"
)

// DeviceDescriptor is everything a transport and adapter need to reach one OLT.
// It is built from the persisted OLT record on every sync and never cached.
type DeviceDescriptor struct {
	// Name is a human label used in logs and errors
	Name string

	// Vendor selects the protocol adapter
	Vendor Vendor

	// PONType selects the command dialect within a vendor (GPON vs EPON)
	PONType PONType

	// Model is the hardware model, used to scope OID mappings
	Model string

	// Address is the management IP/hostname
	Address string

	// Port is the management port; zero means the transport default
	Port int

	// Transport is the transport to open
	Transport Transport

	Username       string
	Password       string
	EnablePassword string

	// Community is the SNMP community string (v1/v2c)
	Community string

	// SNMPVersion is "1", "2c" or "3"
	SNMPVersion string

	// Timeout bounds dialing and every single command
	Timeout time.Duration

	// CommandDelay is a pause between consecutive CLI commands
	CommandDelay time.Duration

	// OIDs maps a metric function (e.g. "rx_power") to an SNMP OID
	OIDs map[string]string

	// Metadata contains vendor-specific options (pon_ports, identifier_key, ...)
	Metadata map[string]string
}

// EffectivePort returns Port or the transport default.
func (d *DeviceDescriptor) EffectivePort() int {
	if d.Port > 0 {
		return d.Port
	}
	return d.Transport.DefaultPort()
}

// Target returns host:port for dialing.
func (d *DeviceDescriptor) Target() string {
	return net.JoinHostPort(d.Address, strconv.Itoa(d.EffectivePort()))
}

// Label identifies the device in logs.
func (d *DeviceDescriptor) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Address
}

// LoginStep is one prompt/response exchange of an interactive login.
type LoginStep struct {
	// Expect is the prompt waited for before sending
	Expect *regexp.Regexp

	// Send is written followed by a newline
	Send string

	// Secret masks Send in debug logs
	Secret bool

	// Optional steps are skipped when the shell prompt shows up first
	Optional bool
}

// CLIDialect describes how a vendor shell behaves. Adapters publish one and
// the CLI transports use it to log in, detect prompts and page output.
type CLIDialect struct {
	// Prompt matches the shell prompt in any mode
	Prompt *regexp.Regexp

	// Login runs after the transport connects (telnet login, or the second
	// login some firmware requests over SSH)
	Login []LoginStep

	// Setup commands run once after login, output discarded
	Setup []string

	// Pager matches a "more" marker; PagerReply is sent to continue
	Pager      *regexp.Regexp
	PagerReply string

	// LegacyAlgorithms enables old SSH key exchanges and CBC ciphers
	LegacyAlgorithms bool
}

// Driver is the interface that all southbound transports implement
type Driver interface {
	// Connect establishes and authenticates the session
	Connect(ctx context.Context, desc *DeviceDescriptor) error

	// Disconnect closes the session; safe to call more than once
	Disconnect(ctx context.Context) error

	// IsConnected returns true if connected
	IsConnected() bool

	// HealthCheck performs a cheap round trip on an open session
	HealthCheck(ctx context.Context) error
}

// CLIExecutor is an optional interface for drivers that support CLI execution
// Vendor adapters can use this to send vendor-specific commands
type CLIExecutor interface {
	// ExecCommand executes a CLI command and returns the output
	ExecCommand(ctx context.Context, command string) (string, error)

	// ExecCommands executes multiple CLI commands sequentially
	ExecCommands(ctx context.Context, commands []string) ([]string, error)
}

// SNMPExecutor is an optional interface for drivers that support SNMP queries
type SNMPExecutor interface {
	// GetSNMP retrieves a single SNMP value by OID
	GetSNMP(ctx context.Context, oid string) (interface{}, error)

	// WalkSNMP performs an SNMP walk on an OID subtree, keyed by index suffix
	WalkSNMP(ctx context.Context, oid string) (map[string]interface{}, error)

	// BulkGetSNMP retrieves multiple OIDs in one request
	BulkGetSNMP(ctx context.Context, oids []string) (map[string]interface{}, error)
}

// Command is a logical, vendor-neutral operation.
type Command string

const (
	CommandListONUs  Command = "list_onus"
	CommandONUPower  Command = "onu_power"
	CommandOLTStatus Command = "olt_status"
)

// ParseCommand validates a command name.
func ParseCommand(name string) (Command, error) {
	switch c := Command(strings.ToLower(strings.TrimSpace(name))); c {
	case CommandListONUs, CommandONUPower, CommandOLTStatus:
		return c, nil
	}
	return "", Errorf(KindUnsupportedCommand, "", "parse command", "unknown command %q", name)
}

// Adapter is a vendor protocol adapter bound to one transport session.
type Adapter interface {
	Driver

	// Vendor returns the vendor this adapter speaks
	Vendor() Vendor

	// Supports reports whether the command can run over the bound transport
	Supports(cmd Command) bool

	// ListONUs returns every ONU registered on the OLT
	ListONUs(ctx context.Context) ([]ONUInfo, error)

	// GetONUPower returns optical readings for every ONU that reports them
	GetONUPower(ctx context.Context) ([]ONUPowerReading, error)

	// GetOLTStatus returns chassis-level information
	GetOLTStatus(ctx context.Context) (*OLTStatus, error)
}
