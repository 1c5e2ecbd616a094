package transport

import (
	"context"
	"net/http"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"lwnet/internal/errors"
)

// GatewayHandler serves the bridge protocol over websocket, forwarding
// every command to a backing Transport.  It is the reference
// implementation of the browser-side gateway and the server half of
// the bridge tests.
type GatewayHandler struct {
	Backing Transport
}

// ServeHTTP upgrades the request and answers command frames until the
// client goes away.
func (g *GatewayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusInternalError, "gateway terminated") //nolint:errcheck

	ctx := r.Context()
	for {
		var req bridgeRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			return
		}
		resp := g.dispatch(ctx, &req)
		if err := wsjson.Write(ctx, conn, resp); err != nil {
			return
		}
	}
}

func (g *GatewayHandler) dispatch(ctx context.Context, req *bridgeRequest) *bridgeResponse {
	switch req.Op {
	case "open":
		id, err := g.Backing.Open(ctx, req.Host, req.Port)
		if err != nil {
			return failure(err)
		}
		return &bridgeResponse{OK: true, Conn: id}

	case "poll":
		st, err := g.Backing.Poll(ctx, req.Conn)
		if err != nil {
			return failure(err)
		}
		return &bridgeResponse{OK: true, Status: int(st)}

	case "read":
		max := req.Max
		if max <= 0 || max > MaxChunk {
			max = MaxChunk
		}
		buf := make([]byte, max)
		n, err := g.Backing.Read(ctx, req.Conn, buf)
		if err != nil {
			return failure(err)
		}
		return &bridgeResponse{OK: true, Data: buf[:n]}

	case "write":
		n, err := g.Backing.Write(ctx, req.Conn, req.Data)
		if err != nil {
			return failure(err)
		}
		return &bridgeResponse{OK: true, N: n}

	case "close":
		if err := g.Backing.Close(ctx, req.Conn); err != nil {
			return failure(err)
		}
		return &bridgeResponse{OK: true}

	default:
		return &bridgeResponse{Err: "unknown op: " + req.Op}
	}
}

func failure(err error) *bridgeResponse {
	resp := &bridgeResponse{Err: err.Error()}
	if errors.IsNotReady(err) {
		resp.NotReady = true
		resp.Err = ""
	}
	var oe *errors.OpenError
	if errors.As(err, &oe) {
		resp.Code = oe.Code
	}
	return resp
}
