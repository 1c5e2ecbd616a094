package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"lwnet/internal/errors"
	"lwnet/internal/retry"
)

var _ Transport = (*Bridge)(nil)

// Bridge speaks the command interface to a websocket gateway instead of
// the kernel driver — the browser-side network daemon exposes the same
// open/poll/read/write/close vocabulary as JSON frames.  Commands are
// strictly request/response; the relay is single-threaded, so there is
// never more than one frame in flight.
type Bridge struct {
	mu   sync.Mutex
	conn *websocket.Conn
	url  string
}

// bridgeRequest is one command frame sent to the gateway.
type bridgeRequest struct {
	Op   string `json:"op"` // "open", "poll", "read", "write", "close"
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`
	Conn int    `json:"conn,omitempty"`
	Data []byte `json:"data,omitempty"` // write payload (base64 on the wire)
	Max  int    `json:"max,omitempty"`  // read size bound
}

// bridgeResponse is the gateway's reply.
type bridgeResponse struct {
	OK       bool   `json:"ok"`
	Conn     int    `json:"conn,omitempty"`
	Status   int    `json:"status,omitempty"`
	Data     []byte `json:"data,omitempty"`
	N        int    `json:"n,omitempty"`
	Code     int    `json:"code,omitempty"`
	Err      string `json:"error,omitempty"`
	NotReady bool   `json:"not_ready,omitempty"`
}

// BridgeOptions tune the gateway dial.
type BridgeOptions struct {
	DialTimeout time.Duration
	Attempts    int
	Backoff     time.Duration
}

// DialBridge connects to the gateway at url, retrying transient dial
// failures with exponential backoff.  A dial that never succeeds
// unwraps to errors.ErrDeviceUnavailable, same as a missing device.
func DialBridge(ctx context.Context, url string, opts BridgeOptions) (*Bridge, error) {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 10 * time.Second
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}

	b := &retry.Backoff{
		InitialDelay: opts.Backoff,
		MaxDelay:     5 * time.Second,
		MaxAttempts:  opts.Attempts,
		Jitter:       true,
	}

	var conn *websocket.Conn
	err := b.Do(ctx, func(int) error {
		dialCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
		defer cancel()
		c, _, err := websocket.Dial(dialCtx, url, nil)
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bridge %s: %v: %w", url, err, errors.ErrDeviceUnavailable)
	}
	return &Bridge{conn: conn, url: url}, nil
}

// Open asks the gateway to connect to host:port.
func (b *Bridge) Open(ctx context.Context, host string, port int) (int, error) {
	resp, err := b.roundTrip(ctx, bridgeRequest{Op: "open", Host: host, Port: port})
	if err != nil {
		return 0, errors.WrapDevice("open", -1, err)
	}
	if !resp.OK {
		return 0, &errors.OpenError{
			Host: host, Port: port, Code: resp.Code,
			Err: errors.New(resp.Err),
		}
	}
	return resp.Conn, nil
}

// Poll queries readiness for connID.
func (b *Bridge) Poll(ctx context.Context, connID int) (Status, error) {
	resp, err := b.roundTrip(ctx, bridgeRequest{Op: "poll", Conn: connID})
	if err != nil {
		return StatusError, errors.WrapDevice("poll", connID, err)
	}
	if !resp.OK {
		return StatusError, errors.WrapDevice("poll", connID, errors.New(resp.Err))
	}
	return Status(resp.Status), nil
}

// Read fetches up to len(p) (bounded by MaxChunk) available bytes.
func (b *Bridge) Read(ctx context.Context, connID int, p []byte) (int, error) {
	max := len(p)
	if max > MaxChunk {
		max = MaxChunk
	}
	resp, err := b.roundTrip(ctx, bridgeRequest{Op: "read", Conn: connID, Max: max})
	if err != nil {
		return 0, errors.WrapDevice("read", connID, err)
	}
	switch {
	case resp.NotReady:
		return 0, errors.ErrNotReady
	case !resp.OK:
		return 0, errors.WrapDevice("read", connID, errors.New(resp.Err))
	default:
		return copy(p, resp.Data), nil
	}
}

// Write sends up to MaxChunk bytes; the gateway reports how many it
// accepted.
func (b *Bridge) Write(ctx context.Context, connID int, p []byte) (int, error) {
	if len(p) > MaxChunk {
		p = p[:MaxChunk]
	}
	resp, err := b.roundTrip(ctx, bridgeRequest{Op: "write", Conn: connID, Data: p})
	if err != nil {
		return 0, errors.WrapDevice("write", connID, err)
	}
	switch {
	case resp.NotReady:
		return 0, errors.ErrNotReady
	case !resp.OK:
		return 0, errors.WrapDevice("write", connID, errors.New(resp.Err))
	default:
		return resp.N, nil
	}
}

// Close tears down connID on the gateway.
func (b *Bridge) Close(ctx context.Context, connID int) error {
	resp, err := b.roundTrip(ctx, bridgeRequest{Op: "close", Conn: connID})
	if err != nil {
		return &errors.CloseError{ConnID: connID, Err: err}
	}
	if !resp.OK {
		return &errors.CloseError{ConnID: connID, Err: errors.New(resp.Err)}
	}
	return nil
}

// Release closes the websocket.
func (b *Bridge) Release() error {
	return b.conn.Close(websocket.StatusNormalClosure, "done")
}

func (b *Bridge) roundTrip(ctx context.Context, req bridgeRequest) (*bridgeResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := wsjson.Write(ctx, b.conn, req); err != nil {
		return nil, err
	}
	var resp bridgeResponse
	if err := wsjson.Read(ctx, b.conn, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
