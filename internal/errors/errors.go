// Package errors provides domain-specific error types for the lwnet tools.
//
// These types carry structured context (operation, connection id, driver
// error code) that lets callers map failures to exit codes and diagnostics
// without string matching.
package errors

import (
	"errors"
	"fmt"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	// ErrNotReady marks the transient "no data right now" condition on a
	// non-blocking read or write.  It is never fatal; callers skip the
	// operation and try again on a later iteration.
	ErrNotReady = errors.New("not ready")

	// ErrDeviceUnavailable means the transport handle could not be
	// obtained at all (e.g. /dev/lwnet missing or the driver not loaded).
	ErrDeviceUnavailable = errors.New("network device unavailable")

	// ErrNotConnected is returned when an operation references a
	// descriptor that is not in the Active state.
	ErrNotConnected = errors.New("not connected")
)

// ── Structured error types ───────────────────────────────────────────

// OpenError represents a transport rejection of a connect attempt.
type OpenError struct {
	Host string
	Port int
	Code int   // driver error code, 0 if unknown
	Err  error // underlying error
}

func (e *OpenError) Error() string {
	s := fmt.Sprintf("open %s:%d: %v", e.Host, e.Port, e.Err)
	if e.Code != 0 {
		s += fmt.Sprintf(" (code %d)", e.Code)
	}
	return s
}

func (e *OpenError) Unwrap() error { return e.Err }

// CloseError represents a failed close command.  Callers treat it as
// best-effort cleanup gone wrong: logged, never escalated.
type CloseError struct {
	ConnID int
	Err    error
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("close conn %d: %v", e.ConnID, e.Err)
}

func (e *CloseError) Unwrap() error { return e.Err }

// DeviceError represents a failure of a single transport command.
type DeviceError struct {
	Op     string // "open", "poll", "read", "write", "close"
	ConnID int    // -1 when no connection is involved
	Err    error
}

func (e *DeviceError) Error() string {
	if e.ConnID >= 0 {
		return fmt.Sprintf("device %s conn %d: %v", e.Op, e.ConnID, e.Err)
	}
	return fmt.Sprintf("device %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// ConfigError represents an invalid argument or configuration value,
// detected locally before any transport command is issued.
type ConfigError struct {
	Field   string      // flag or field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: %s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// WrapDevice creates a DeviceError for the given command.
func WrapDevice(op string, connID int, err error) *DeviceError {
	return &DeviceError{Op: op, ConnID: connID, Err: err}
}

// IsNotReady reports whether err is the transient not-ready condition.
func IsNotReady(err error) bool {
	return errors.Is(err, ErrNotReady)
}

// ── Re-exports for convenience ───────────────────────────────────────
//
// These allow callers to use lwnet/internal/errors as a drop-in
// replacement for the standard library in common operations.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
