package types

import (
	"errors"
	"fmt"
)

// ErrorKind is the normalized failure category surfaced by the gateway.
type ErrorKind string

const (
	KindDeviceUnreachable  ErrorKind = "DEVICE_UNREACHABLE"
	KindAuthFailed         ErrorKind = "AUTH_FAILED"
	KindUnsupportedCommand ErrorKind = "UNSUPPORTED_COMMAND"
	KindUnknownVendor      ErrorKind = "UNKNOWN_VENDOR"
	KindParseError         ErrorKind = "PARSE_ERROR"
)

// Sentinels for errors.Is matching against a DeviceError.
var (
	ErrDeviceUnreachable    = errors.New("device unreachable")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUnsupportedCommand   = errors.New("unsupported command")
	ErrUnknownVendor        = errors.New("unknown vendor")
	ErrParseError           = errors.New("parse error")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindDeviceUnreachable:
		return ErrDeviceUnreachable
	case KindAuthFailed:
		return ErrAuthenticationFailed
	case KindUnsupportedCommand:
		return ErrUnsupportedCommand
	case KindUnknownVendor:
		return ErrUnknownVendor
	case KindParseError:
		return ErrParseError
	}
	return nil
}

// Retryable reports whether a failure of this kind may succeed on retry.
func (k ErrorKind) Retryable() bool {
	return k == KindDeviceUnreachable
}

// DeviceError wraps transport and vendor errors with a normalized kind.
// Adapters and transports return this type; nothing above the gateway needs
// to look at vendor output to decide what happened.
type DeviceError struct {
	// Kind is the normalized error category
	Kind ErrorKind `json:"kind"`

	// Vendor is the vendor that produced the error
	Vendor string `json:"vendor,omitempty"`

	// Op is the operation in progress (connect, login, show onu all, ...)
	Op string `json:"op,omitempty"`

	// Message is the human-readable error message
	Message string `json:"message"`

	// Raw is the raw output from the device, if any
	Raw string `json:"raw,omitempty"`

	// Err is the underlying cause
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *DeviceError) Error() string {
	msg := string(e.Kind)
	if e.Vendor != "" {
		msg = "[" + e.Vendor + "] " + msg
	}
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *DeviceError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewError wraps err with a kind.
func NewError(kind ErrorKind, vendor, op string, err error) *DeviceError {
	return &DeviceError{Kind: kind, Vendor: vendor, Op: op, Err: err}
}

// Errorf builds a DeviceError with a formatted message and no cause.
func Errorf(kind ErrorKind, vendor, op, format string, args ...interface{}) *DeviceError {
	return &DeviceError{Kind: kind, Vendor: vendor, Op: op, Message: fmt.Sprintf(format, args...)}
}

// AsDeviceError extracts the outermost DeviceError from err's chain.
func AsDeviceError(err error) (*DeviceError, bool) {
	var de *DeviceError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" if err carries none.
func KindOf(err error) ErrorKind {
	if de, ok := AsDeviceError(err); ok {
		return de.Kind
	}
	return ""
}

// IsRetryable returns true if the error should be retried.
func IsRetryable(err error) bool {
	return KindOf(err).Retryable()
}
