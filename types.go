package southbound

// Re-export types from the types sub-package so callers only need to import
// the root package for the common case.

import (
	"github.com/nanoncore/olt-gateway/types"
)

// Type aliases
type (
	Vendor           = types.Vendor
	Transport        = types.Transport
	PONType          = types.PONType
	Command          = types.Command
	DeviceDescriptor = types.DeviceDescriptor
	CLIDialect       = types.CLIDialect
	Driver           = types.Driver
	CLIExecutor      = types.CLIExecutor
	SNMPExecutor     = types.SNMPExecutor
	Adapter          = types.Adapter
	ONUInfo          = types.ONUInfo
	ONUStatus        = types.ONUStatus
	ONUPowerReading  = types.ONUPowerReading
	OLTStatus        = types.OLTStatus
	DeviceError      = types.DeviceError
	ErrorKind        = types.ErrorKind
)

// Re-export constants
const (
	VendorHioso = types.VendorHioso
	VendorHSGQ  = types.VendorHSGQ
	VendorZTE   = types.VendorZTE

	TransportTelnet = types.TransportTelnet
	TransportSSH    = types.TransportSSH
	TransportSNMP   = types.TransportSNMP

	PONTypeGPON = types.PONTypeGPON
	PONTypeEPON = types.PONTypeEPON

	CommandListONUs  = types.CommandListONUs
	CommandONUPower  = types.CommandONUPower
	CommandOLTStatus = types.CommandOLTStatus
)
