// Package relay implements the connection lifecycle around the polling
// byte-relay loop: open, run to a terminal condition, close exactly
// once, map the outcome to an error.
package relay

import (
	"context"
	"fmt"
	"io"
	"time"

	"lwnet/internal/metrics"
	"lwnet/internal/session"
	"lwnet/internal/transport"
	"lwnet/util"
)

// Relay runs one complete session: a single connection bridged to one
// input/output stream pair.
type Relay struct {
	Transport transport.Transport
	Host      string
	Port      int
	Input     util.NonBlockingReader
	Output    io.Writer
	Logger    *util.Logger
	Metrics   *metrics.Collector
	Interval  time.Duration
}

// New returns a ready-to-run Relay.
func New(tr transport.Transport, host string, port int, in util.NonBlockingReader, out io.Writer, logger *util.Logger) *Relay {
	return &Relay{
		Transport: tr,
		Host:      host,
		Port:      port,
		Input:     in,
		Output:    out,
		Logger:    logger,
		Metrics:   metrics.New(),
	}
}

// Run opens the connection, drives the loop, and closes best-effort on
// every path, fatal or clean: there is exactly one close attempt.
// The returned error is nil only for a clean peer-initiated close.
func (r *Relay) Run(ctx context.Context) error {
	mgr := session.NewManager(r.Transport, r.Logger)

	desc, err := mgr.Open(ctx, r.Host, r.Port)
	if err != nil {
		return err
	}
	r.Logger.Info("connected to %s (conn_id=%d)", util.FormatAddr(r.Host, r.Port), desc.ConnID)

	loop := &Loop{
		Transport: r.Transport,
		Desc:      desc,
		Poller:    NewPoller(r.Transport, desc, r.Metrics),
		Input:     r.Input,
		Output:    r.Output,
		Logger:    r.Logger,
		Metrics:   r.Metrics,
		Interval:  r.Interval,
	}

	reason, loopErr := loop.Run(ctx)

	// Cleanup must run even when ctx is already canceled.
	if cerr := mgr.Close(context.WithoutCancel(ctx), desc); cerr != nil {
		r.Logger.Warn("cleanup: %v", cerr)
	}

	if r.Logger.Level() >= util.LogDebug {
		r.Logger.Debug("session metrics:\n%s", r.Metrics.JSON())
	}

	switch {
	case reason.Success():
		r.Logger.Info("connection closed by peer (%d bytes in, %d bytes out)",
			r.Metrics.TotalBytesIn(), r.Metrics.TotalBytesOut())
		return nil
	case loopErr != nil:
		return fmt.Errorf("%s: %w", reason, loopErr)
	default:
		return fmt.Errorf("%s", reason)
	}
}
