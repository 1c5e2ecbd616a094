// Package transport implements the lwnet command interface — the fixed
// vocabulary of open, poll, read, write, and close through which a
// connection is driven.  Three backends speak it: the kernel char
// device (ioctl), a websocket gateway, and an in-memory loopback.
//
// The relay never sees how commands travel; it holds a Transport and a
// connection id and nothing else.
package transport

import "context"

// Status is the four-valued result of polling a connection.
type Status int

// Poll status values — must match the kernel driver bit-for-bit.
const (
	StatusNoData  Status = 0
	StatusHasData Status = 1
	StatusClosed  Status = 2
	StatusError   Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusNoData:
		return "no-data"
	case StatusHasData:
		return "has-data"
	case StatusClosed:
		return "closed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// MaxChunk is the per-call byte bound on the data path.
const MaxChunk = 4096

// Transport is the command interface to the external TCP driver.
// Implementations are used by exactly one relay loop at a time; calls
// are strictly sequential.
type Transport interface {
	// Open connects to host:port and returns the driver-assigned
	// connection id.  The id is meaningful only until Close.
	Open(ctx context.Context, host string, port int) (int, error)

	// Poll reports the current readiness of the connection.  It never
	// blocks beyond the driver's bounded command time and performs no
	// retries.
	Poll(ctx context.Context, connID int) (Status, error)

	// Read copies up to MaxChunk available bytes into p.  It returns
	// errors.ErrNotReady when no data is available right now.
	Read(ctx context.Context, connID int, p []byte) (int, error)

	// Write sends up to MaxChunk bytes from p and returns how many the
	// driver accepted, which may be fewer than len(p).  It returns
	// errors.ErrNotReady when the driver cannot accept data right now.
	Write(ctx context.Context, connID int, p []byte) (int, error)

	// Close tears down the connection.  Callers treat failure as
	// best-effort cleanup gone wrong, never fatal.
	Close(ctx context.Context, connID int) error

	// Release frees the underlying handle (device fd, websocket).
	// The Transport is unusable afterwards.
	Release() error
}
