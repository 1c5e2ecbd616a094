// Package config defines the runtime configuration for the lwnet tools
// and provides helpers for parsing and validating the CLI surface.
package config

import (
	"strconv"
	"time"

	"lwnet/internal/errors"
)

// Transport backend names accepted by --transport.
const (
	TransportAuto     = "auto"     // lwnet device if present, otherwise bridge
	TransportLwnet    = "lwnet"    // kernel char device
	TransportBridge   = "bridge"   // websocket gateway
	TransportLoopback = "loopback" // in-memory echo, for self-test
)

// Config holds every tuneable for a single lwtcp session.
type Config struct {
	// ── Connection ───────────────────────────────────────────────────
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// ── Transport ────────────────────────────────────────────────────
	Transport   string        `yaml:"transport"`    // auto|lwnet|bridge|loopback
	DevicePath  string        `yaml:"device"`       // char device path
	BridgeURL   string        `yaml:"bridge"`       // ws:// gateway URL
	DialTimeout time.Duration `yaml:"dial_timeout"` // bridge connect timeout

	// ── Relay loop ───────────────────────────────────────────────────
	PollInterval time.Duration `yaml:"poll_interval"` // pacing between iterations

	// ── Output ───────────────────────────────────────────────────────
	Verbose int `yaml:"verbose"`
}

// ParsePort converts a positional port argument, rejecting anything
// outside 1-65535 before any transport command is issued.
func ParsePort(spec string) (int, error) {
	port, err := strconv.Atoi(spec)
	if err != nil {
		return 0, &errors.ConfigError{
			Field: "port", Value: spec,
			Message: "not a number",
		}
	}
	if port < 1 || port > 65535 {
		return 0, &errors.ConfigError{
			Field: "port", Value: port,
			Message: "out of range 1-65535",
		}
	}
	return port, nil
}

// Validate checks that the configuration is internally consistent.
// It performs purely local checks; the transport is never contacted.
func (c *Config) Validate() error {
	if c.Host == "" {
		return &errors.ConfigError{
			Field: "host", Message: "hostname is required",
			Hint: "usage: lwtcp <host> <port>",
		}
	}
	if len(c.Host) > MaxHostLen {
		return &errors.ConfigError{
			Field: "host", Value: c.Host,
			Message: "exceeds 255 bytes",
		}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &errors.ConfigError{
			Field: "port", Value: c.Port,
			Message: "out of range 1-65535",
		}
	}

	switch c.Transport {
	case TransportAuto, TransportLwnet, TransportBridge, TransportLoopback:
	default:
		return &errors.ConfigError{
			Field: "transport", Value: c.Transport,
			Message: "unknown backend",
			Hint:    "one of: auto, lwnet, bridge, loopback",
		}
	}

	if c.Transport == TransportBridge && c.BridgeURL == "" {
		return &errors.ConfigError{
			Field: "bridge", Message: "bridge URL is required with --transport bridge",
		}
	}

	if c.PollInterval <= 0 {
		return &errors.ConfigError{
			Field: "interval", Value: c.PollInterval.String(),
			Message: "must be positive",
		}
	}

	return nil
}
