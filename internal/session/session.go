// Package session manages the lifecycle of a single relay connection:
// local validation, the open command, and best-effort close.
//
// The connection is an explicit Descriptor value passed to every
// operation — never hidden process-wide state — so several simulated
// connections can coexist in one test process.
package session

import (
	"context"

	"lwnet/internal/errors"
	"lwnet/internal/transport"
	"lwnet/util"
)

// ConnStatus is the descriptor's local bookkeeping state.  It is never
// transmitted.
type ConnStatus int

const (
	StatusActive ConnStatus = iota
	StatusClosed
	StatusErrored
)

func (s ConnStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusClosed:
		return "closed"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Descriptor identifies one active relay session.  ConnID is
// meaningful only while the status is Active.
type Descriptor struct {
	Host   string
	Port   int
	ConnID int

	status ConnStatus
}

// Active reports whether the descriptor may be used for transport
// commands.
func (d *Descriptor) Active() bool { return d.status == StatusActive }

// Status returns the local bookkeeping state.
func (d *Descriptor) Status() ConnStatus { return d.status }

// MarkErrored records that the connection died on the wire.  The
// descriptor can no longer be used for data commands; Close still
// accepts it once.
func (d *Descriptor) MarkErrored() {
	if d.status == StatusActive {
		d.status = StatusErrored
	}
}

// maxHostLen is the driver's host field capacity minus the NUL.
const maxHostLen = 255

// Manager owns the open/close half of the transport command interface.
type Manager struct {
	tr     transport.Transport
	logger *util.Logger
}

// NewManager returns a Manager driving tr.
func NewManager(tr transport.Transport, logger *util.Logger) *Manager {
	return &Manager{tr: tr, logger: logger}
}

// Open validates host and port locally — rejections here never touch
// the transport — then issues the open command and returns an Active
// descriptor carrying the driver-assigned conn_id.
func (m *Manager) Open(ctx context.Context, host string, port int) (*Descriptor, error) {
	if host == "" {
		return nil, &errors.ConfigError{Field: "host", Message: "hostname is required"}
	}
	if len(host) > maxHostLen {
		return nil, &errors.ConfigError{Field: "host", Value: host, Message: "exceeds 255 bytes"}
	}
	if port < 1 || port > 65535 {
		return nil, &errors.ConfigError{Field: "port", Value: port, Message: "out of range 1-65535"}
	}

	id, err := m.tr.Open(ctx, host, port)
	if err != nil {
		var oe *errors.OpenError
		if errors.As(err, &oe) {
			return nil, err
		}
		return nil, &errors.OpenError{Host: host, Port: port, Err: err}
	}

	m.logger.Verbose("opened %s (conn_id=%d)", util.FormatAddr(host, port), id)
	return &Descriptor{Host: host, Port: port, ConnID: id, status: StatusActive}, nil
}

// Close issues the close command exactly once per descriptor.  A
// second call, or a call on an errored descriptor that was already
// cleaned up, is a logged no-op.  Failures come back as CloseError;
// callers log them and move on.
func (m *Manager) Close(ctx context.Context, d *Descriptor) error {
	if d == nil {
		return nil
	}
	if d.status == StatusClosed {
		m.logger.Debug("close skipped: conn %d already closed", d.ConnID)
		return nil
	}

	prev := d.status
	d.status = StatusClosed

	if err := m.tr.Close(ctx, d.ConnID); err != nil {
		var ce *errors.CloseError
		if errors.As(err, &ce) {
			return err
		}
		return &errors.CloseError{ConnID: d.ConnID, Err: err}
	}
	m.logger.Verbose("closed conn %d (was %s)", d.ConnID, prev)
	return nil
}
