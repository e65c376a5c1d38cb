package hioso

import (
	"context"
	"fmt"

	"github.com/nanoncore/olt-gateway/types"
	"github.com/nanoncore/olt-gateway/vendors/common"
)

// Adapter wraps a base driver with Hioso-specific logic.
// Hioso EPON OLTs are read over a Telnet shell or SNMP; the shell has no
// optical readings, so power only comes from SNMP.
type Adapter struct {
	baseDriver   types.Driver
	cliExecutor  types.CLIExecutor
	snmpExecutor types.SNMPExecutor
	desc         *types.DeviceDescriptor
}

// NewAdapter creates a new Hioso adapter
func NewAdapter(baseDriver types.Driver, desc *types.DeviceDescriptor) types.Adapter {
	adapter := &Adapter{baseDriver: baseDriver, desc: desc}

	switch {
	case desc.Transport == types.TransportSNMP:
		if executor, ok := baseDriver.(types.SNMPExecutor); ok {
			adapter.snmpExecutor = executor
		}
	case desc.Transport.IsCLI():
		if executor, ok := baseDriver.(types.CLIExecutor); ok {
			adapter.cliExecutor = executor
		}
	}

	return adapter
}

func (a *Adapter) Connect(ctx context.Context, desc *types.DeviceDescriptor) error {
	return common.ClassifyError(types.VendorHioso, "connect", a.baseDriver.Connect(ctx, desc))
}

func (a *Adapter) Disconnect(ctx context.Context) error {
	return a.baseDriver.Disconnect(ctx)
}

func (a *Adapter) IsConnected() bool {
	return a.baseDriver.IsConnected()
}

func (a *Adapter) HealthCheck(ctx context.Context) error {
	return common.ClassifyError(types.VendorHioso, "health check", a.baseDriver.HealthCheck(ctx))
}

func (a *Adapter) Vendor() types.Vendor {
	return types.VendorHioso
}

// Supports reports the commands available over the bound transport.
func (a *Adapter) Supports(cmd types.Command) bool {
	switch cmd {
	case types.CommandListONUs, types.CommandOLTStatus:
		return a.cliExecutor != nil || a.snmpExecutor != nil
	case types.CommandONUPower:
		return a.snmpExecutor != nil
	}
	return false
}

// ListONUs returns every registered ONU.
func (a *Adapter) ListONUs(ctx context.Context) ([]types.ONUInfo, error) {
	switch {
	case a.cliExecutor != nil:
		return a.listONUsCLI(ctx)
	case a.snmpExecutor != nil:
		return a.listONUsSNMP(ctx)
	}
	return nil, a.unsupported(types.CommandListONUs)
}

// GetONUPower returns optical readings. Only the SNMP agent exposes them.
func (a *Adapter) GetONUPower(ctx context.Context) ([]types.ONUPowerReading, error) {
	if a.snmpExecutor == nil {
		return nil, a.unsupported(types.CommandONUPower)
	}
	onus, err := a.listONUsSNMP(ctx)
	if err != nil {
		return nil, err
	}
	readings := make([]types.ONUPowerReading, 0, len(onus))
	for i := range onus {
		if onus[i].HasPower() {
			readings = append(readings, onus[i].PowerReading())
		}
	}
	return readings, nil
}

// GetOLTStatus reports the chassis state and ONU counts.
func (a *Adapter) GetOLTStatus(ctx context.Context) (*types.OLTStatus, error) {
	switch {
	case a.cliExecutor != nil:
		return a.statusCLI(ctx)
	case a.snmpExecutor != nil:
		status, err := common.SystemStatus(ctx, a.snmpExecutor, types.VendorHioso)
		if err != nil {
			return nil, err
		}
		status.Model = a.desc.Model
		if len(a.desc.OIDs) > 0 {
			onus, err := a.listONUsSNMP(ctx)
			if err != nil {
				return nil, err
			}
			common.TallyONUs(status, onus, common.IsOnline)
		}
		return status, nil
	}
	return nil, a.unsupported(types.CommandOLTStatus)
}

func (a *Adapter) unsupported(cmd types.Command) error {
	return types.Errorf(types.KindUnsupportedCommand, string(types.VendorHioso), string(cmd),
		"not available over %s", a.desc.Transport)
}

var _ types.Adapter = (*Adapter)(nil)

// String identifies the adapter in logs.
func (a *Adapter) String() string {
	return fmt.Sprintf("hioso(%s/%s)", a.desc.Label(), a.desc.Transport)
}
