package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nanoncore/olt-gateway/types"
	"github.com/rs/zerolog"
)

// Driver implements types.Driver and types.CLIExecutor over an interactive
// shell reached by SSH or Telnet.
type Driver struct {
	desc    *types.DeviceDescriptor
	dialect types.CLIDialect
	logger  zerolog.Logger

	mu      sync.Mutex
	conn    io.Closer
	session *ExpectSession
}

// NewDriver creates a new CLI driver for an SSH or Telnet descriptor.
func NewDriver(desc *types.DeviceDescriptor, dialect types.CLIDialect, logger zerolog.Logger) (*Driver, error) {
	if desc == nil {
		return nil, fmt.Errorf("descriptor is required")
	}
	if desc.Address == "" {
		return nil, fmt.Errorf("address is required")
	}
	if !desc.Transport.IsCLI() {
		return nil, fmt.Errorf("transport %q is not a CLI transport", desc.Transport)
	}
	if desc.Timeout == 0 {
		desc.Timeout = 30 * time.Second
	}

	return &Driver{
		desc:    desc,
		dialect: dialect,
		logger: logger.With().
			Str("device", desc.Label()).
			Str("transport", string(desc.Transport)).
			Logger(),
	}, nil
}

// Connect dials the device, authenticates and runs the dialect's login script.
func (d *Driver) Connect(ctx context.Context, desc *types.DeviceDescriptor) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if desc != nil {
		d.desc = desc
	}
	if d.session != nil {
		return nil
	}

	var err error
	switch d.desc.Transport {
	case types.TransportSSH:
		err = d.connectSSH(ctx)
	case types.TransportTelnet:
		err = d.connectTelnet(ctx)
	default:
		err = fmt.Errorf("transport %q is not a CLI transport", d.desc.Transport)
	}
	if err != nil {
		d.closeLocked()
		return err
	}

	d.logger.Debug().Msg("CLI session established")
	return nil
}

// startSession wraps a spawned expecter in a logged-in ExpectSession.
func (d *Driver) startSession(ctx context.Context, cfg ExpectSessionConfig) error {
	cfg.Vendor = string(d.desc.Vendor)
	cfg.Timeout = d.desc.Timeout
	cfg.Dialect = d.dialect
	cfg.Logger = d.logger

	session, err := NewExpectSession(ctx, cfg)
	if err != nil {
		return err
	}
	d.session = session
	return nil
}

// Disconnect closes the shell and the underlying connection.
func (d *Driver) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeLocked()
}

func (d *Driver) closeLocked() error {
	if d.session != nil {
		_ = d.session.Close()
		d.session = nil
	}
	if d.conn != nil {
		err := d.conn.Close()
		d.conn = nil
		return err
	}
	return nil
}

// IsConnected returns true if connected
func (d *Driver) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session != nil && d.session.Alive()
}

// execCommand executes one CLI command, honoring the configured inter-command delay
func (d *Driver) execCommand(ctx context.Context, command string) (string, error) {
	d.mu.Lock()
	session := d.session
	d.mu.Unlock()

	if session == nil || !session.Alive() {
		return "", types.Errorf(types.KindDeviceUnreachable, string(d.desc.Vendor), command, "not connected to device")
	}

	if d.desc.CommandDelay > 0 {
		select {
		case <-time.After(d.desc.CommandDelay):
		case <-ctx.Done():
			return "", types.NewError(types.KindDeviceUnreachable, string(d.desc.Vendor), command, ctx.Err())
		}
	}

	return session.Execute(ctx, command)
}

// HealthCheck sends an empty line and waits for the prompt.
func (d *Driver) HealthCheck(ctx context.Context) error {
	_, err := d.execCommand(ctx, "")
	return err
}

// ExecCommand implements types.CLIExecutor - executes a single CLI command
func (d *Driver) ExecCommand(ctx context.Context, command string) (string, error) {
	return d.execCommand(ctx, command)
}

// ExecCommands implements types.CLIExecutor - executes multiple CLI commands sequentially
func (d *Driver) ExecCommands(ctx context.Context, commands []string) ([]string, error) {
	results := make([]string, 0, len(commands))
	for _, cmd := range commands {
		output, err := d.execCommand(ctx, cmd)
		if err != nil {
			return results, fmt.Errorf("command %q failed: %w", cmd, err)
		}
		results = append(results, output)
	}
	return results, nil
}

var (
	_ types.Driver      = (*Driver)(nil)
	_ types.CLIExecutor = (*Driver)(nil)
)
