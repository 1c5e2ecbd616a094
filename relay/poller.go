package relay

import (
	"context"

	"lwnet/internal/errors"
	"lwnet/internal/metrics"
	"lwnet/internal/session"
	"lwnet/internal/transport"
)

// Poller issues the readiness query for one connection.  The loop
// calls it exactly once per iteration, before any read.
type Poller struct {
	tr      transport.Transport
	desc    *session.Descriptor
	metrics *metrics.Collector
}

// NewPoller binds a poller to a descriptor.
func NewPoller(tr transport.Transport, desc *session.Descriptor, m *metrics.Collector) *Poller {
	return &Poller{tr: tr, desc: desc, metrics: m}
}

// Poll performs a single non-blocking readiness query.  An error here
// is a transport-level failure, distinct from a StatusError result,
// and is fatal to the loop.
func (p *Poller) Poll(ctx context.Context) (transport.Status, error) {
	if !p.desc.Active() {
		return transport.StatusError, errors.ErrNotConnected
	}
	p.metrics.Poll()
	st, err := p.tr.Poll(ctx, p.desc.ConnID)
	if err != nil {
		return transport.StatusError, err
	}
	return st, nil
}
