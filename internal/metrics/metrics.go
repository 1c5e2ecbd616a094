// Package metrics provides lightweight counters for tracking runtime
// statistics of a relay session.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for one relay session.
// A nil Collector is safe to use — all methods become no-ops.
type Collector struct {
	iterations  atomic.Int64
	polls       atomic.Int64
	bytesIn     atomic.Int64 // socket → output
	bytesOut    atomic.Int64 // input → socket
	inputStalls atomic.Int64 // not-ready reads from input
	writeStalls atomic.Int64 // not-ready writes to the socket

	mu           sync.RWMutex
	startTime    time.Time
	lastErrorMsg string
	lastError    time.Time
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// Iteration records one pass of the relay loop.
func (c *Collector) Iteration() {
	if c == nil {
		return
	}
	c.iterations.Add(1)
}

// Poll records one readiness query.
func (c *Collector) Poll() {
	if c == nil {
		return
	}
	c.polls.Add(1)
}

// BytesReceived records n bytes moved from the socket to output.
func (c *Collector) BytesReceived(n int64) {
	if c == nil {
		return
	}
	c.bytesIn.Add(n)
}

// BytesSent records n bytes moved from input to the socket.
func (c *Collector) BytesSent(n int64) {
	if c == nil {
		return
	}
	c.bytesOut.Add(n)
}

// InputStall records a transient not-ready read from input.
func (c *Collector) InputStall() {
	if c == nil {
		return
	}
	c.inputStalls.Add(1)
}

// WriteStall records a transient not-ready write to the socket.
func (c *Collector) WriteStall() {
	if c == nil {
		return
	}
	c.writeStalls.Add(1)
}

// RecordError stores the most recent error message.
func (c *Collector) RecordError(msg string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// TotalBytesIn returns total bytes relayed socket → output.
func (c *Collector) TotalBytesIn() int64 {
	if c == nil {
		return 0
	}
	return c.bytesIn.Load()
}

// TotalBytesOut returns total bytes relayed input → socket.
func (c *Collector) TotalBytesOut() int64 {
	if c == nil {
		return 0
	}
	return c.bytesOut.Load()
}

// Iterations returns the loop pass count.
func (c *Collector) Iterations() int64 {
	if c == nil {
		return 0
	}
	return c.iterations.Load()
}

// Polls returns the readiness query count.
func (c *Collector) Polls() int64 {
	if c == nil {
		return 0
	}
	return c.polls.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime           string `json:"uptime"`
	Iterations       int64  `json:"iterations"`
	Polls            int64  `json:"polls"`
	BytesIn          int64  `json:"bytes_in"`
	BytesOut         int64  `json:"bytes_out"`
	InputStalls      int64  `json:"input_stalls"`
	WriteStalls      int64  `json:"write_stalls"`
	LastError        string `json:"last_error,omitempty"`
	LastErrorMessage string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:      time.Since(c.startTime).Truncate(time.Millisecond).String(),
		Iterations:  c.iterations.Load(),
		Polls:       c.polls.Load(),
		BytesIn:     c.bytesIn.Load(),
		BytesOut:    c.bytesOut.Load(),
		InputStalls: c.inputStalls.Load(),
		WriteStalls: c.writeStalls.Load(),
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
