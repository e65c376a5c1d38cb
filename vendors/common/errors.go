package common

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/nanoncore/olt-gateway/types"
)

// cliErrorPattern maps a device error string onto a normalized kind.
type cliErrorPattern struct {
	Pattern string
	Kind    types.ErrorKind
	Human   string
}

// cliErrorPatterns are matched case-insensitively against command output.
// Order matters: the first match wins.
var cliErrorPatterns = []cliErrorPattern{
	{"% unknown command", types.KindUnsupportedCommand, "command not recognized by the OLT"},
	{"unknown command", types.KindUnsupportedCommand, "command not recognized by the OLT"},
	{"% invalid input", types.KindUnsupportedCommand, "command rejected by the OLT"},
	{"invalid input detected", types.KindUnsupportedCommand, "command rejected by the OLT"},
	{"command not found", types.KindUnsupportedCommand, "command not recognized by the OLT"},
	{"unrecognized command", types.KindUnsupportedCommand, "command not recognized by the OLT"},
	{"incomplete command", types.KindUnsupportedCommand, "command incomplete for this firmware"},
	{"% error: permission denied", types.KindAuthFailed, "account lacks privilege for the command"},
	{"access denied", types.KindAuthFailed, "access denied"},
	{"authentication failed", types.KindAuthFailed, "authentication failed"},
	{"bad password", types.KindAuthFailed, "authentication failed"},
}

// CheckCLIOutput inspects command output for a device-side rejection.
// It returns nil when the output looks like a normal result.
func CheckCLIOutput(vendor types.Vendor, command, output string) error {
	lower := strings.ToLower(CleanCLIOutput(output))
	for _, p := range cliErrorPatterns {
		if strings.Contains(lower, p.Pattern) {
			return &types.DeviceError{
				Kind:    p.Kind,
				Vendor:  string(vendor),
				Op:      command,
				Message: p.Human,
				Raw:     strings.TrimSpace(output),
			}
		}
	}
	return nil
}

// transportErrorPatterns classify errors whose concrete type was lost to
// string wrapping by a dependency.
var transportErrorPatterns = []struct {
	Pattern string
	Kind    types.ErrorKind
}{
	{"unable to authenticate", types.KindAuthFailed},
	{"permission denied", types.KindAuthFailed},
	{"login incorrect", types.KindAuthFailed},
	{"authentication fail", types.KindAuthFailed},
	{"timeout", types.KindDeviceUnreachable},
	{"timed out", types.KindDeviceUnreachable},
	{"connection refused", types.KindDeviceUnreachable},
	{"connection reset", types.KindDeviceUnreachable},
	{"no route to host", types.KindDeviceUnreachable},
	{"broken pipe", types.KindDeviceUnreachable},
	{"use of closed network connection", types.KindDeviceUnreachable},
	{"expect: process not running", types.KindDeviceUnreachable},
}

// ClassifyError converts any error crossing the adapter boundary into a
// DeviceError. Errors that already carry a kind are returned unchanged.
// Unclassifiable transport errors default to DEVICE_UNREACHABLE since the
// session can no longer be trusted.
func ClassifyError(vendor types.Vendor, op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := types.AsDeviceError(err); ok {
		return err
	}

	wrap := func(kind types.ErrorKind) error {
		return types.NewError(kind, string(vendor), op, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return wrap(types.KindDeviceUnreachable)
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return wrap(types.KindDeviceUnreachable)
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EHOSTUNREACH) {
		return wrap(types.KindDeviceUnreachable)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return wrap(types.KindDeviceUnreachable)
	}

	lower := strings.ToLower(err.Error())
	for _, p := range transportErrorPatterns {
		if strings.Contains(lower, p.Pattern) {
			return wrap(p.Kind)
		}
	}
	return wrap(types.KindDeviceUnreachable)
}

// ParseErrorf builds a PARSE_ERROR carrying the offending output.
func ParseErrorf(vendor types.Vendor, op, raw, message string) error {
	return &types.DeviceError{
		Kind:    types.KindParseError,
		Vendor:  string(vendor),
		Op:      op,
		Message: message,
		Raw:     raw,
	}
}
