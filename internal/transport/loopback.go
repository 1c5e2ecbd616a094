package transport

import (
	"bytes"
	"context"
	"sync"

	"lwnet/internal/errors"
)

var _ Transport = (*Loopback)(nil)

// Loopback is an in-memory Transport.  By default it echoes every
// written byte back as readable data, which makes it usable both as
// the --transport loopback self-test backend and as the test double
// for the relay loop.
//
// The zero value is not usable; construct with NewLoopback.
type Loopback struct {
	mu     sync.Mutex
	nextID int
	conns  map[int]*loopConn

	// Echo controls whether writes become readable data.
	Echo bool

	// OpenErr, when set, makes every Open fail with it.
	OpenErr error

	// FailAfterPolls > 0 makes Poll report StatusError once a
	// connection has been polled that many times.
	FailAfterPolls int

	// WriteLimit > 0 caps how many bytes a single Write accepts,
	// forcing partial writes.
	WriteLimit int

	// Call counters for assertions.
	OpenCalls  int
	CloseCalls int
}

type loopConn struct {
	host       string
	port       int
	readable   bytes.Buffer // data the client can read
	written    bytes.Buffer // everything the client wrote
	polls      int
	closed     bool
	peerClosed bool
}

// NewLoopback returns an echoing loopback transport.
func NewLoopback() *Loopback {
	return &Loopback{Echo: true, conns: make(map[int]*loopConn)}
}

// Open assigns the next connection id.
func (l *Loopback) Open(_ context.Context, host string, port int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.OpenCalls++
	if l.OpenErr != nil {
		return 0, &errors.OpenError{Host: host, Port: port, Err: l.OpenErr}
	}
	l.nextID++
	l.conns[l.nextID] = &loopConn{host: host, port: port}
	return l.nextID, nil
}

// Poll reports readiness.  Remaining readable data is always drained
// before a peer close is reported.
func (l *Loopback) Poll(_ context.Context, connID int) (Status, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, err := l.conn(connID, "poll")
	if err != nil {
		return StatusError, err
	}
	c.polls++
	if l.FailAfterPolls > 0 && c.polls > l.FailAfterPolls {
		return StatusError, nil
	}
	if c.readable.Len() > 0 {
		return StatusHasData, nil
	}
	if c.peerClosed {
		return StatusClosed, nil
	}
	return StatusNoData, nil
}

// Read drains buffered data.
func (l *Loopback) Read(_ context.Context, connID int, p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, err := l.conn(connID, "read")
	if err != nil {
		return 0, err
	}
	if c.readable.Len() == 0 {
		return 0, errors.ErrNotReady
	}
	if len(p) > MaxChunk {
		p = p[:MaxChunk]
	}
	return c.readable.Read(p)
}

// Write records (and with Echo, reflects) written data.
func (l *Loopback) Write(_ context.Context, connID int, p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, err := l.conn(connID, "write")
	if err != nil {
		return 0, err
	}
	if len(p) > MaxChunk {
		p = p[:MaxChunk]
	}
	if l.WriteLimit > 0 && len(p) > l.WriteLimit {
		p = p[:l.WriteLimit]
	}
	c.written.Write(p)
	if l.Echo {
		c.readable.Write(p)
	}
	return len(p), nil
}

// Close tears down the connection.  Closing an unknown or already
// closed id reports CloseError; it never panics.
func (l *Loopback) Close(_ context.Context, connID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.CloseCalls++
	c, ok := l.conns[connID]
	if !ok || c.closed {
		return &errors.CloseError{ConnID: connID, Err: errors.ErrNotConnected}
	}
	c.closed = true
	return nil
}

// Release is a no-op for the in-memory transport.
func (l *Loopback) Release() error { return nil }

// ── Test controls ────────────────────────────────────────────────────

// Inject appends data to the connection's readable buffer, simulating
// bytes arriving from the peer.
func (l *Loopback) Inject(connID int, data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.conns[connID]; ok {
		c.readable.Write(data)
	}
}

// ClosePeer simulates the remote end closing the connection.  Buffered
// data remains readable until drained.
func (l *Loopback) ClosePeer(connID int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.conns[connID]; ok {
		c.peerClosed = true
	}
}

// Written returns a copy of everything the client has written so far.
func (l *Loopback) Written(connID int) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.conns[connID]
	if !ok {
		return nil
	}
	out := make([]byte, c.written.Len())
	copy(out, c.written.Bytes())
	return out
}

func (l *Loopback) conn(connID int, op string) (*loopConn, error) {
	c, ok := l.conns[connID]
	if !ok || c.closed {
		return nil, errors.WrapDevice(op, connID, errors.ErrNotConnected)
	}
	return c, nil
}
