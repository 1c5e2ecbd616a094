package session

import (
	"context"
	"strings"
	"testing"

	"lwnet/internal/errors"
	"lwnet/internal/transport"
	"lwnet/util"
)

func newManager(t *testing.T) (*Manager, *transport.Loopback) {
	t.Helper()
	lb := transport.NewLoopback()
	return NewManager(lb, util.NewLogger(0)), lb
}

func TestOpen_LocalValidationSkipsTransport(t *testing.T) {
	tests := []struct {
		name string
		host string
		port int
	}{
		{"port zero", "example.com", 0},
		{"port negative", "example.com", -5},
		{"port too high", "example.com", 65536},
		{"empty host", "", 80},
		{"oversized host", strings.Repeat("x", 256), 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, lb := newManager(t)
			_, err := m.Open(context.Background(), tt.host, tt.port)

			var ce *errors.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("got %v, want ConfigError", err)
			}
			if lb.OpenCalls != 0 {
				t.Errorf("transport contacted %d times, want 0", lb.OpenCalls)
			}
		})
	}
}

func TestOpen_Success(t *testing.T) {
	m, _ := newManager(t)
	d, err := m.Open(context.Background(), "example.com", 80)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !d.Active() {
		t.Error("descriptor should be active")
	}
	if d.Host != "example.com" || d.Port != 80 {
		t.Errorf("descriptor = %s:%d", d.Host, d.Port)
	}
}

func TestOpen_TransportRejection(t *testing.T) {
	m, lb := newManager(t)
	lb.OpenErr = errors.New("refused")

	_, err := m.Open(context.Background(), "example.com", 80)
	var oe *errors.OpenError
	if !errors.As(err, &oe) {
		t.Fatalf("got %v, want OpenError", err)
	}
}

func TestClose_ExactlyOnce(t *testing.T) {
	m, lb := newManager(t)
	ctx := context.Background()

	d, err := m.Open(ctx, "example.com", 80)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Close(ctx, d); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if d.Status() != StatusClosed {
		t.Errorf("status = %v, want closed", d.Status())
	}

	// Second close is a no-op: no extra transport call, no error.
	if err := m.Close(ctx, d); err != nil {
		t.Errorf("second close: %v", err)
	}
	if lb.CloseCalls != 1 {
		t.Errorf("transport close called %d times, want 1", lb.CloseCalls)
	}
}

func TestClose_ErroredDescriptorStillCloses(t *testing.T) {
	m, lb := newManager(t)
	ctx := context.Background()

	d, err := m.Open(ctx, "example.com", 80)
	if err != nil {
		t.Fatal(err)
	}
	d.MarkErrored()

	if err := m.Close(ctx, d); err != nil {
		t.Fatalf("close after error: %v", err)
	}
	if lb.CloseCalls != 1 {
		t.Errorf("transport close called %d times, want 1", lb.CloseCalls)
	}
}

func TestClose_NilDescriptor(t *testing.T) {
	m, _ := newManager(t)
	if err := m.Close(context.Background(), nil); err != nil {
		t.Errorf("nil descriptor close: %v", err)
	}
}

func TestClose_ReportsFailure(t *testing.T) {
	m, lb := newManager(t)
	ctx := context.Background()

	d, err := m.Open(ctx, "example.com", 80)
	if err != nil {
		t.Fatal(err)
	}
	// Close the transport-side connection out from under the manager so
	// its close command fails.
	if err := lb.Close(ctx, d.ConnID); err != nil {
		t.Fatal(err)
	}

	err = m.Close(ctx, d)
	var ce *errors.CloseError
	if !errors.As(err, &ce) {
		t.Fatalf("got %v, want CloseError", err)
	}
}

func TestMultipleDescriptors(t *testing.T) {
	m, lb := newManager(t)
	ctx := context.Background()

	d1, err := m.Open(ctx, "a.example.com", 80)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := m.Open(ctx, "b.example.com", 443)
	if err != nil {
		t.Fatal(err)
	}
	if d1.ConnID == d2.ConnID {
		t.Fatal("descriptors share a conn_id")
	}

	if err := m.Close(ctx, d1); err != nil {
		t.Fatal(err)
	}
	if !d2.Active() {
		t.Error("closing d1 must not affect d2")
	}
	if lb.OpenCalls != 2 || lb.CloseCalls != 1 {
		t.Errorf("transport calls = (%d opens, %d closes)", lb.OpenCalls, lb.CloseCalls)
	}
}
