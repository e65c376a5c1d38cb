package mock

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nanoncore/olt-gateway/types"
)

// UnknownCommandOutput is what the simulated shell prints for a command
// that has no scripted response and no default.
const UnknownCommandOutput = "% Unknown command."

// Script holds the canned responses of a simulated OLT.
type Script struct {
	// CLI maps a command to successive outputs. Each call consumes one
	// output; the last one repeats.
	CLI map[string][]string

	// DefaultCLI is returned for unscripted commands when set; otherwise
	// UnknownCommandOutput is.
	DefaultCLI *string

	// Walks maps a walked base OID (no leading dot) to index -> value.
	Walks map[string]map[string]interface{}

	// Gets maps a full OID (no leading dot) to a value.
	Gets map[string]interface{}
}

// On scripts successive outputs for a command.
func (s *Script) On(command string, outputs ...string) *Script {
	if s.CLI == nil {
		s.CLI = make(map[string][]string)
	}
	s.CLI[command] = append(s.CLI[command], outputs...)
	return s
}

// Walk scripts the rows returned for a base OID.
func (s *Script) Walk(base string, rows map[string]interface{}) *Script {
	if s.Walks == nil {
		s.Walks = make(map[string]map[string]interface{})
	}
	s.Walks[strings.TrimPrefix(base, ".")] = rows
	return s
}

// Tracker counts sessions across every driver sharing it, so tests can
// assert that no session outlives a gateway call.
type Tracker struct {
	dials atomic.Int64
	open  atomic.Int64
}

// Dials is the number of Connect attempts.
func (t *Tracker) Dials() int64 { return t.dials.Load() }

// Open is the number of sessions currently connected.
func (t *Tracker) Open() int64 { return t.open.Load() }

// Driver simulates an OLT transport without touching the network. It
// implements both executor interfaces; which one an adapter uses depends
// on the descriptor transport.
type Driver struct {
	mu        sync.Mutex
	desc      *types.DeviceDescriptor
	dialect   types.CLIDialect
	script    Script
	cursor    map[string]int
	connected bool
	history   []string

	connectErr  error
	commandErrs map[string]error
	delay       time.Duration
	tracker     *Tracker
}

// Option configures a mock driver.
type Option func(*Driver)

// WithConnectError makes Connect fail with err.
func WithConnectError(err error) Option {
	return func(d *Driver) { d.connectErr = err }
}

// WithCommandError makes one command (or walk base OID) fail with err.
func WithCommandError(command string, err error) Option {
	return func(d *Driver) { d.commandErrs[command] = err }
}

// WithDelay makes every command take d, honoring context cancellation.
func WithDelay(delay time.Duration) Option {
	return func(d *Driver) { d.delay = delay }
}

// WithTracker shares a session tracker.
func WithTracker(t *Tracker) Option {
	return func(d *Driver) { d.tracker = t }
}

// WithDialect records the dialect the factory passed in.
func WithDialect(dialect types.CLIDialect) Option {
	return func(d *Driver) { d.dialect = dialect }
}

// NewDriver creates a new mock driver
func NewDriver(desc *types.DeviceDescriptor, script Script, opts ...Option) *Driver {
	d := &Driver{
		desc:        desc,
		script:      script,
		cursor:      make(map[string]int),
		commandErrs: make(map[string]error),
		tracker:     &Tracker{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) vendor() string {
	if d.desc == nil {
		return ""
	}
	return string(d.desc.Vendor)
}

// Connect simulates connecting to equipment
func (d *Driver) Connect(ctx context.Context, desc *types.DeviceDescriptor) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if desc != nil {
		d.desc = desc
	}
	d.tracker.dials.Add(1)
	d.recordCommand("connect")

	if err := ctx.Err(); err != nil {
		return types.NewError(types.KindDeviceUnreachable, d.vendor(), "connect", err)
	}
	if d.connectErr != nil {
		return d.connectErr
	}
	if !d.connected {
		d.connected = true
		d.tracker.open.Add(1)
	}
	return nil
}

// Disconnect closes the simulated connection
func (d *Driver) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		d.connected = false
		d.tracker.open.Add(-1)
	}
	d.recordCommand("disconnect")
	return nil
}

// IsConnected returns connection status
func (d *Driver) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

// HealthCheck succeeds whenever the session is up.
func (d *Driver) HealthCheck(ctx context.Context) error {
	_, err := d.ExecCommand(ctx, "")
	return err
}

// wait applies the configured delay and fails if the session is down.
func (d *Driver) wait(ctx context.Context, op string) error {
	if d.delay > 0 {
		select {
		case <-time.After(d.delay):
		case <-ctx.Done():
			return types.NewError(types.KindDeviceUnreachable, d.vendor(), op, ctx.Err())
		}
	}
	if !d.IsConnected() {
		return types.Errorf(types.KindDeviceUnreachable, d.vendor(), op, "not connected to device")
	}
	return nil
}

// ExecCommand returns the next scripted output for command.
func (d *Driver) ExecCommand(ctx context.Context, command string) (string, error) {
	if err := d.wait(ctx, command); err != nil {
		return "", err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.recordCommand(command)
	if err, ok := d.commandErrs[command]; ok {
		return "", err
	}
	if command == "" {
		return "", nil
	}

	outputs, ok := d.script.CLI[command]
	if !ok || len(outputs) == 0 {
		if d.script.DefaultCLI != nil {
			return *d.script.DefaultCLI, nil
		}
		return UnknownCommandOutput, nil
	}

	i := d.cursor[command]
	if i >= len(outputs) {
		i = len(outputs) - 1
	} else {
		d.cursor[command] = i + 1
	}
	return outputs[i], nil
}

// ExecCommands executes multiple commands
func (d *Driver) ExecCommands(ctx context.Context, commands []string) ([]string, error) {
	results := make([]string, 0, len(commands))
	for _, cmd := range commands {
		out, err := d.ExecCommand(ctx, cmd)
		if err != nil {
			return results, err
		}
		results = append(results, out)
	}
	return results, nil
}

// GetSNMP returns a scripted scalar.
func (d *Driver) GetSNMP(ctx context.Context, oid string) (interface{}, error) {
	op := "snmp get " + oid
	if err := d.wait(ctx, op); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	oid = strings.TrimPrefix(oid, ".")
	d.recordCommand(op)
	if err, ok := d.commandErrs[oid]; ok {
		return nil, err
	}
	v, ok := d.script.Gets[oid]
	if !ok {
		return nil, types.Errorf(types.KindUnsupportedCommand, d.vendor(), op, "object not implemented by agent")
	}
	return v, nil
}

// WalkSNMP returns a copy of the scripted rows below oid.
func (d *Driver) WalkSNMP(ctx context.Context, oid string) (map[string]interface{}, error) {
	op := "snmp walk " + oid
	if err := d.wait(ctx, op); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	oid = strings.TrimPrefix(oid, ".")
	d.recordCommand(op)
	if err, ok := d.commandErrs[oid]; ok {
		return nil, err
	}
	rows := make(map[string]interface{}, len(d.script.Walks[oid]))
	for k, v := range d.script.Walks[oid] {
		rows[k] = v
	}
	return rows, nil
}

// BulkGetSNMP returns every scripted scalar that was requested.
func (d *Driver) BulkGetSNMP(ctx context.Context, oids []string) (map[string]interface{}, error) {
	results := make(map[string]interface{}, len(oids))
	for _, oid := range oids {
		v, err := d.GetSNMP(ctx, oid)
		if types.KindOf(err) == types.KindUnsupportedCommand {
			continue
		}
		if err != nil {
			return nil, err
		}
		results[oid] = v
	}
	return results, nil
}

// GetCommandHistory returns the commands received, including connect and
// disconnect markers.
func (d *Driver) GetCommandHistory() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	history := make([]string, len(d.history))
	copy(history, d.history)
	return history
}

// Dialect returns the dialect the driver was built with.
func (d *Driver) Dialect() types.CLIDialect {
	return d.dialect
}

func (d *Driver) recordCommand(cmd string) {
	d.history = append(d.history, cmd)
}

var (
	_ types.Driver       = (*Driver)(nil)
	_ types.CLIExecutor  = (*Driver)(nil)
	_ types.SNMPExecutor = (*Driver)(nil)
)
