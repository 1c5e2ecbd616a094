package relay

// Reason says why the relay loop stopped.  Exactly one reason fires
// per run; only ReasonPeerClosed is a success.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonPeerClosed
	ReasonSocketError
	ReasonPollFailed
	ReasonOutputWriteFailed
	ReasonSocketWriteFailed
	ReasonInputReadFailed
	ReasonCanceled
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "running"
	case ReasonPeerClosed:
		return "closed by peer"
	case ReasonSocketError:
		return "socket error"
	case ReasonPollFailed:
		return "poll failed"
	case ReasonOutputWriteFailed:
		return "output write failed"
	case ReasonSocketWriteFailed:
		return "socket write failed"
	case ReasonInputReadFailed:
		return "input read failed"
	case ReasonCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Success reports whether the loop ended cleanly.
func (r Reason) Success() bool { return r == ReasonPeerClosed }
