package relay

import (
	"context"
	"io"
	"time"

	"lwnet/internal/errors"
	"lwnet/internal/metrics"
	"lwnet/internal/session"
	"lwnet/internal/transport"
	"lwnet/util"
)

// Loop is the relay state machine.  Each iteration services the
// socket → output direction first, then input → socket, then sleeps
// the pacing interval.  The two directions are independent half-duplex
// flows: input EOF is a permanent half-close that leaves the socket
// side running.
type Loop struct {
	Transport transport.Transport
	Desc      *session.Descriptor
	Poller    *Poller
	Input     util.NonBlockingReader
	Output    io.Writer
	Logger    *util.Logger
	Metrics   *metrics.Collector
	Interval  time.Duration

	inputDone bool
}

// Run iterates until a terminal condition fires.  The returned error
// carries the underlying cause when there is one; it is nil for
// ReasonPeerClosed.  Run never closes the connection; that is the
// caller's job, on every path.
func (l *Loop) Run(ctx context.Context) (Reason, error) {
	interval := l.Interval
	if interval <= 0 {
		interval = time.Millisecond
	}

	buf := util.GetBuf()
	defer util.PutBuf(buf)

	for {
		l.Metrics.Iteration()

		// Socket → output, always evaluated first.
		st, err := l.Poller.Poll(ctx)
		if err != nil {
			l.Desc.MarkErrored()
			return ReasonPollFailed, err
		}

		switch st {
		case transport.StatusHasData:
			if reason, err := l.drainSocket(ctx, *buf); reason != ReasonNone {
				return reason, err
			}

		case transport.StatusClosed:
			// The socket side is never read again.
			return ReasonPeerClosed, nil

		case transport.StatusError:
			l.Desc.MarkErrored()
			l.Metrics.RecordError("socket error reported by transport")
			return ReasonSocketError, nil

		case transport.StatusNoData:
			// No socket I/O this iteration; the input step still runs.
		}

		// Input → socket.
		if !l.inputDone {
			if reason, err := l.forwardInput(ctx, *buf); reason != ReasonNone {
				return reason, err
			}
		}

		// Pacing: a fixed sleep bounds CPU usage between polls.
		select {
		case <-ctx.Done():
			return ReasonCanceled, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// drainSocket reads one bounded chunk from the socket and writes it,
// in full, to the output stream.
func (l *Loop) drainSocket(ctx context.Context, buf []byte) (Reason, error) {
	n, err := l.Transport.Read(ctx, l.Desc.ConnID, buf)
	switch {
	case errors.IsNotReady(err):
		// Poll raced ahead of the driver's buffer; not an error.
		return ReasonNone, nil
	case err != nil:
		l.Desc.MarkErrored()
		l.Metrics.RecordError(err.Error())
		return ReasonSocketError, err
	case n == 0:
		return ReasonNone, nil
	}

	if _, werr := l.Output.Write(buf[:n]); werr != nil {
		l.Metrics.RecordError(werr.Error())
		return ReasonOutputWriteFailed, werr
	}
	l.Metrics.BytesReceived(int64(n))
	return ReasonNone, nil
}

// forwardInput reads once from input and, if bytes arrived, writes all
// of them to the socket.
func (l *Loop) forwardInput(ctx context.Context, buf []byte) (Reason, error) {
	n, err := l.Input.ReadNonBlock(buf)
	switch {
	case n > 0:
		if werr := l.writeFull(ctx, buf[:n]); werr != nil {
			if errors.Is(werr, context.Canceled) || errors.Is(werr, context.DeadlineExceeded) {
				return ReasonCanceled, werr
			}
			l.Metrics.RecordError(werr.Error())
			return ReasonSocketWriteFailed, werr
		}
		l.Metrics.BytesSent(int64(n))
		return ReasonNone, nil

	case err == io.EOF:
		// Permanent half-close; keep servicing the socket side.
		l.inputDone = true
		l.Logger.Verbose("input exhausted, draining socket side")
		return ReasonNone, nil

	case errors.IsNotReady(err):
		l.Metrics.InputStall()
		return ReasonNone, nil

	case err != nil:
		l.Metrics.RecordError(err.Error())
		return ReasonInputReadFailed, err

	default:
		return ReasonNone, nil
	}
}

// writeFull pushes p to the socket until the driver has accepted every
// byte.  The driver may take fewer bytes than offered per call; short
// writes are not assumed away, they are retried with pacing.
func (l *Loop) writeFull(ctx context.Context, p []byte) error {
	interval := l.Interval
	if interval <= 0 {
		interval = time.Millisecond
	}

	for len(p) > 0 {
		chunk := p
		if len(chunk) > transport.MaxChunk {
			chunk = p[:transport.MaxChunk]
		}

		n, err := l.Transport.Write(ctx, l.Desc.ConnID, chunk)
		if errors.IsNotReady(err) {
			l.Metrics.WriteStall()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
			continue
		}
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}
