package relay

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"lwnet/config"
	"lwnet/internal/errors"
	"lwnet/internal/transport"
	"lwnet/util"
)

func TestRelay_CleanPeerClose(t *testing.T) {
	lb := transport.NewLoopback()
	var out bytes.Buffer
	r := New(lb, "example.com", 80, util.FromReader(strings.NewReader("PING")), &out, util.NewLogger(0))
	r.Interval = 100 * time.Microsecond

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	waitFor(t, func() bool { return string(lb.Written(1)) == "PING" }, "forwarded input")
	lb.ClosePeer(1)

	if err := <-done; err != nil {
		t.Fatalf("clean close should be success, got %v", err)
	}
	if out.String() != "PING" {
		t.Errorf("output = %q", out.String())
	}
	if lb.CloseCalls != 1 {
		t.Errorf("close commands = %d, want exactly 1", lb.CloseCalls)
	}
}

// TestRelay_DefaultVerbosityDiagnostics pins the stderr contract: the
// connect and close lines print at the normal level, without any -v.
func TestRelay_DefaultVerbosityDiagnostics(t *testing.T) {
	lb := transport.NewLoopback()
	logger := util.NewLogger(config.DefaultVerbosity)
	var diag bytes.Buffer
	logger.SetOutput(&diag)

	var out bytes.Buffer
	r := New(lb, "example.com", 80, util.FromReader(strings.NewReader("PING")), &out, logger)
	r.Interval = 100 * time.Microsecond

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	waitFor(t, func() bool { return string(lb.Written(1)) == "PING" }, "forwarded input")
	lb.ClosePeer(1)

	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(diag.String(), "connected to example.com:80 (conn_id=1)") {
		t.Errorf("connect line missing from diagnostics:\n%s", diag.String())
	}
	if !strings.Contains(diag.String(), "connection closed by peer") {
		t.Errorf("close line missing from diagnostics:\n%s", diag.String())
	}
	if strings.Contains(out.String(), "connected") {
		t.Errorf("diagnostics leaked into payload output: %q", out.String())
	}
}

func TestRelay_SocketErrorStillCloses(t *testing.T) {
	lb := transport.NewLoopback()
	lb.FailAfterPolls = 2
	var out bytes.Buffer
	r := New(lb, "example.com", 80, util.FromReader(bytes.NewReader(nil)), &out, util.NewLogger(0))
	r.Interval = 100 * time.Microsecond

	err := r.Run(context.Background())
	if err == nil {
		t.Fatal("socket error must be reported")
	}
	if out.Len() != 0 {
		t.Errorf("output = %q, want none", out.String())
	}
	if lb.CloseCalls != 1 {
		t.Errorf("close commands = %d, want exactly 1", lb.CloseCalls)
	}
}

func TestRelay_OpenFailureNoClose(t *testing.T) {
	lb := transport.NewLoopback()
	lb.OpenErr = errors.New("refused")
	var out bytes.Buffer
	r := New(lb, "example.com", 80, util.FromReader(bytes.NewReader(nil)), &out, util.NewLogger(0))

	err := r.Run(context.Background())
	var oe *errors.OpenError
	if !errors.As(err, &oe) {
		t.Fatalf("got %v, want OpenError", err)
	}
	// Nothing was opened, so nothing may be closed.
	if lb.CloseCalls != 0 {
		t.Errorf("close commands = %d, want 0", lb.CloseCalls)
	}
}

func TestRelay_BadPortNoTransportCalls(t *testing.T) {
	lb := transport.NewLoopback()
	var out bytes.Buffer

	for _, port := range []int{0, -1, 65536, 99999} {
		r := New(lb, "example.com", port, util.FromReader(bytes.NewReader(nil)), &out, util.NewLogger(0))
		err := r.Run(context.Background())
		var ce *errors.ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("port %d: got %v, want ConfigError", port, err)
		}
	}
	if lb.OpenCalls != 0 || lb.CloseCalls != 0 {
		t.Errorf("transport touched (%d opens, %d closes), want none",
			lb.OpenCalls, lb.CloseCalls)
	}
}

func TestRelay_CancellationCloses(t *testing.T) {
	lb := transport.NewLoopback()
	var out bytes.Buffer
	r := New(lb, "example.com", 80, util.FromReader(zeroReader{}), &out, util.NewLogger(0))
	r.Interval = 100 * time.Microsecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	if err := <-done; err == nil {
		t.Fatal("canceled run should be reported as failure")
	}
	if lb.CloseCalls != 1 {
		t.Errorf("close commands = %d, want exactly 1", lb.CloseCalls)
	}
}

func TestReason_Strings(t *testing.T) {
	if ReasonPeerClosed.String() != "closed by peer" || !ReasonPeerClosed.Success() {
		t.Error("peer close must be the success reason")
	}
	for _, r := range []Reason{ReasonSocketError, ReasonPollFailed, ReasonOutputWriteFailed,
		ReasonSocketWriteFailed, ReasonInputReadFailed, ReasonCanceled} {
		if r.Success() {
			t.Errorf("%v must not be a success", r)
		}
		if r.String() == "unknown" {
			t.Errorf("missing string for reason %d", r)
		}
	}
}
