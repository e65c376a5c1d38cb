package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"
	"testing"

	"github.com/nanoncore/olt-gateway/types"
)

func TestCheckCLIOutput(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		wantKind types.ErrorKind
	}{
		{"normal table", "OnuIndex  Type  State\n1/1/1:1 F660 working", ""},
		{"zte unknown command", "show gpon onu baseinfo gpon-olt_1/1/9\n%Error 20202: Invalid input detected at '^' marker.", types.KindUnsupportedCommand},
		{"hioso unknown", "% Unknown command.", types.KindUnsupportedCommand},
		{"privilege", "% Error: Permission denied", types.KindAuthFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCLIOutput(types.VendorZTE, "cmd", tt.output)
			if got := types.KindOf(err); got != tt.wantKind {
				t.Errorf("CheckCLIOutput() kind = %q, want %q (err=%v)", got, tt.wantKind, err)
			}
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	already := types.Errorf(types.KindParseError, "hsgq", "parse", "bad row")

	tests := []struct {
		name     string
		err      error
		wantKind types.ErrorKind
	}{
		{"deadline", fmt.Errorf("exec: %w", context.DeadlineExceeded), types.KindDeviceUnreachable},
		{"eof", io.EOF, types.KindDeviceUnreachable},
		{"refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), types.KindDeviceUnreachable},
		{"net timeout", timeoutErr{}, types.KindDeviceUnreachable},
		{"ssh auth", errors.New("ssh: handshake failed: ssh: unable to authenticate, attempted methods [none password]"), types.KindAuthFailed},
		{"unknown string", errors.New("something odd"), types.KindDeviceUnreachable},
		{"already classified", already, types.KindParseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClassifyError(types.VendorHSGQ, "op", tt.err)
			if got := types.KindOf(err); got != tt.wantKind {
				t.Errorf("ClassifyError() kind = %q, want %q", got, tt.wantKind)
			}
			if !errors.Is(err, tt.err) && tt.err != already {
				t.Errorf("ClassifyError() lost the cause: %v", err)
			}
		})
	}

	if ClassifyError(types.VendorZTE, "op", nil) != nil {
		t.Error("ClassifyError(nil) should be nil")
	}
}
