package southbound

import (
	"context"
	"fmt"
	"time"

	"github.com/nanoncore/olt-gateway/types"
	"github.com/nanoncore/olt-gateway/vendors/common"
	"github.com/rs/zerolog"
)

// Result is the normalized outcome of one gateway command. Exactly one of
// ONUs, Power and Status is set, matching Command.
type Result struct {
	Command   Command           `json:"command"`
	Vendor    Vendor            `json:"vendor"`
	Transport Transport         `json:"transport"`
	ONUs      []ONUInfo         `json:"onus,omitempty"`
	Power     []ONUPowerReading `json:"power,omitempty"`
	Status    *OLTStatus        `json:"status,omitempty"`
	Duration  time.Duration     `json:"duration"`
}

// Gateway routes logical commands to the vendor adapter for a device.
// It holds no per-device state; every call opens and releases its own
// session, so a Gateway is safe for concurrent use.
type Gateway struct {
	factory TransportFactory
	logger  zerolog.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithTransportFactory replaces the transport factory.
func WithTransportFactory(f TransportFactory) GatewayOption {
	return func(g *Gateway) { g.factory = f }
}

// WithLogger sets the gateway logger.
func WithLogger(logger zerolog.Logger) GatewayOption {
	return func(g *Gateway) { g.logger = logger }
}

// NewGateway creates a gateway that opens real transports unless told otherwise.
func NewGateway(opts ...GatewayOption) *Gateway {
	g := &Gateway{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	if g.factory == nil {
		g.factory = DefaultTransportFactory(g.logger)
	}
	return g
}

// Execute runs cmd against the device described by desc. The session is
// released on every path, including failures and cancellation. Errors are
// always DeviceErrors; the gateway never retries.
func (g *Gateway) Execute(ctx context.Context, desc *DeviceDescriptor, cmd Command) (*Result, error) {
	if _, err := types.ParseCommand(string(cmd)); err != nil {
		return nil, err
	}

	prepared, err := Prepare(desc)
	if err != nil {
		return nil, asDeviceError(desc, "new adapter", err)
	}
	adapter, err := NewAdapter(prepared, g.factory)
	if err != nil {
		return nil, asDeviceError(prepared, "new adapter", err)
	}
	if !adapter.Supports(cmd) {
		return nil, types.Errorf(types.KindUnsupportedCommand, string(prepared.Vendor), string(cmd),
			"%s over %s is not supported", cmd, prepared.Transport)
	}

	log := g.logger.With().
		Str("device", prepared.Label()).
		Str("vendor", string(prepared.Vendor)).
		Str("transport", string(prepared.Transport)).
		Str("command", string(cmd)).
		Logger()

	start := time.Now()
	defer func() {
		// Disconnect must run even when ctx is already done.
		if derr := adapter.Disconnect(context.WithoutCancel(ctx)); derr != nil {
			log.Debug().Err(derr).Msg("Disconnect failed")
		}
	}()

	if err := adapter.Connect(ctx, prepared); err != nil {
		log.Warn().Err(err).Msg("Connect failed")
		return nil, asDeviceError(prepared, "connect", err)
	}

	result := &Result{Command: cmd, Vendor: prepared.Vendor, Transport: prepared.Transport}
	switch cmd {
	case CommandListONUs:
		var onus []ONUInfo
		if onus, err = adapter.ListONUs(ctx); err == nil {
			result.ONUs = NormalizeONUs(onus)
		}
	case CommandONUPower:
		var power []ONUPowerReading
		if power, err = adapter.GetONUPower(ctx); err == nil {
			result.Power = NormalizePower(power)
		}
	case CommandOLTStatus:
		var status *OLTStatus
		if status, err = adapter.GetOLTStatus(ctx); err == nil {
			result.Status = NormalizeStatus(status, prepared.Vendor)
		}
	}
	result.Duration = time.Since(start)

	if err != nil {
		log.Warn().Err(err).Dur("duration", result.Duration).Msg("Command failed")
		return nil, asDeviceError(prepared, string(cmd), err)
	}

	log.Debug().
		Int("onus", len(result.ONUs)).
		Int("readings", len(result.Power)).
		Dur("duration", result.Duration).
		Msg("Command complete")
	return result, nil
}

// ListONUs returns the normalized ONU inventory of a device.
func (g *Gateway) ListONUs(ctx context.Context, desc *DeviceDescriptor) ([]ONUInfo, error) {
	res, err := g.Execute(ctx, desc, CommandListONUs)
	if err != nil {
		return nil, err
	}
	return res.ONUs, nil
}

// GetONUPower returns normalized optical readings.
func (g *Gateway) GetONUPower(ctx context.Context, desc *DeviceDescriptor) ([]ONUPowerReading, error) {
	res, err := g.Execute(ctx, desc, CommandONUPower)
	if err != nil {
		return nil, err
	}
	return res.Power, nil
}

// GetOLTStatus returns the chassis status.
func (g *Gateway) GetOLTStatus(ctx context.Context, desc *DeviceDescriptor) (*OLTStatus, error) {
	res, err := g.Execute(ctx, desc, CommandOLTStatus)
	if err != nil {
		return nil, err
	}
	return res.Status, nil
}

// Probe connects, authenticates and runs the transport health check.
func (g *Gateway) Probe(ctx context.Context, desc *DeviceDescriptor) error {
	prepared, err := Prepare(desc)
	if err != nil {
		return asDeviceError(desc, "new adapter", err)
	}
	adapter, err := NewAdapter(prepared, g.factory)
	if err != nil {
		return asDeviceError(prepared, "new adapter", err)
	}
	defer adapter.Disconnect(context.WithoutCancel(ctx)) //nolint:errcheck

	if err := adapter.Connect(ctx, prepared); err != nil {
		return asDeviceError(prepared, "connect", err)
	}
	if err := adapter.HealthCheck(ctx); err != nil {
		return asDeviceError(prepared, "health check", err)
	}
	return nil
}

// asDeviceError guarantees a taxonomy error. Descriptor validation
// failures are reported as UNSUPPORTED_COMMAND since no device was touched.
func asDeviceError(desc *DeviceDescriptor, op string, err error) error {
	if _, ok := types.AsDeviceError(err); ok {
		return err
	}
	vendor := Vendor("")
	if desc != nil {
		vendor = desc.Vendor
	}
	if op == "new adapter" {
		return types.NewError(types.KindUnsupportedCommand, string(vendor), op, fmt.Errorf("invalid descriptor: %w", err))
	}
	return common.ClassifyError(vendor, op, err)
}
