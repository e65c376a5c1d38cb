package hsgq

import (
	"context"

	"github.com/nanoncore/olt-gateway/types"
	"github.com/nanoncore/olt-gateway/vendors/common"
)

// Adapter wraps a base driver with HSGQ-specific logic.
// HSGQ ships GPON and EPON lines with different shells; PONType on the
// descriptor picks the dialect.
type Adapter struct {
	baseDriver   types.Driver
	cliExecutor  types.CLIExecutor
	snmpExecutor types.SNMPExecutor
	desc         *types.DeviceDescriptor
}

// NewAdapter creates a new HSGQ adapter
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
	return common.ClassifyError(types.VendorHSGQ, "connect", a.baseDriver.Connect(ctx, desc))
}

func (a *Adapter) Disconnect(ctx context.Context) error {
	return a.baseDriver.Disconnect(ctx)
}

func (a *Adapter) IsConnected() bool {
	return a.baseDriver.IsConnected()
}

func (a *Adapter) HealthCheck(ctx context.Context) error {
	return common.ClassifyError(types.VendorHSGQ, "health check", a.baseDriver.HealthCheck(ctx))
}

func (a *Adapter) Vendor() types.Vendor {
	return types.VendorHSGQ
}

func (a *Adapter) isEPON() bool {
	return a.desc.PONType == types.PONTypeEPON
}

// Supports reports the commands available over the bound transport. The
// EPON shell lists ONUs without optics.
func (a *Adapter) Supports(cmd types.Command) bool {
	switch cmd {
	case types.CommandListONUs, types.CommandOLTStatus:
		return a.cliExecutor != nil || a.snmpExecutor != nil
	case types.CommandONUPower:
		return a.snmpExecutor != nil || (a.cliExecutor != nil && !a.isEPON())
	}
	return false
}

// ListONUs returns every registered ONU.
func (a *Adapter) ListONUs(ctx context.Context) ([]types.ONUInfo, error) {
	switch {
	case a.cliExecutor != nil && a.isEPON():
		return a.listEPONCLI(ctx)
	case a.cliExecutor != nil:
		return a.listGPONCLI(ctx)
	case a.snmpExecutor != nil:
		return a.listONUsSNMP(ctx)
	}
	return nil, a.unsupported(types.CommandListONUs)
}

// GetONUPower returns optical readings for every ONU that reports them.
func (a *Adapter) GetONUPower(ctx context.Context) ([]types.ONUPowerReading, error) {
	if !a.Supports(types.CommandONUPower) {
		return nil, a.unsupported(types.CommandONUPower)
	}
	onus, err := a.ListONUs(ctx)
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
	var status *types.OLTStatus
	switch {
	case a.cliExecutor != nil:
		version, err := a.exec(ctx, "show version")
		if err != nil {
			return nil, err
		}
		status = &types.OLTStatus{
			Vendor:      types.VendorHSGQ,
			Firmware:    common.FirmwareFrom(version),
			IsReachable: true,
			Metadata:    common.ParseKeyValues(version),
		}
		if uptime, ok := status.Metadata["uptime"]; ok {
			status.UptimeSeconds = common.ParseUptime(uptime)
		}
	case a.snmpExecutor != nil:
		var err error
		if status, err = common.SystemStatus(ctx, a.snmpExecutor, types.VendorHSGQ); err != nil {
			return nil, err
		}
	default:
		return nil, a.unsupported(types.CommandOLTStatus)
	}
	status.Model = a.desc.Model

	onus, err := a.ListONUs(ctx)
	if err != nil && types.KindOf(err) != types.KindUnsupportedCommand {
		return nil, err
	}
	common.TallyONUs(status, onus, common.IsOnline)
	return status, nil
}

func (a *Adapter) unsupported(cmd types.Command) error {
	return types.Errorf(types.KindUnsupportedCommand, string(types.VendorHSGQ), string(cmd),
		"not available for %s over %s", a.desc.PONType, a.desc.Transport)
}

var _ types.Adapter = (*Adapter)(nil)
