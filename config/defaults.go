package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, config file parsing, and environment variable
// loading.

const (
	// DefaultDevicePath is where the lwnet driver registers its char
	// device.
	DefaultDevicePath = "/dev/lwnet"

	// DefaultPollInterval is the pacing sleep between relay loop
	// iterations.  It bounds CPU usage without adding noticeable
	// latency.
	DefaultPollInterval = time.Millisecond

	// DefaultDialTimeout is the websocket bridge connect timeout.
	DefaultDialTimeout = 10 * time.Second

	// DefaultDialAttempts is how many times the bridge dial is retried
	// before giving up.
	DefaultDialAttempts = 3

	// DefaultDialBackoff is the initial delay between bridge dial
	// attempts.
	DefaultDialBackoff = 500 * time.Millisecond

	// MaxHostLen is the driver's host field capacity minus the NUL
	// terminator.
	MaxHostLen = 255

	// DefaultVerbosity is the normal log level: the connect and close
	// diagnostic lines print, verbose and debug output does not.
	DefaultVerbosity = 1
)

// Defaults returns a Config populated with default values.  Callers
// overlay the config file, environment, and CLI flags on top, in that
// order.
func Defaults() *Config {
	return &Config{
		Transport:    TransportAuto,
		DevicePath:   DefaultDevicePath,
		DialTimeout:  DefaultDialTimeout,
		PollInterval: DefaultPollInterval,
		Verbose:      DefaultVerbosity,
	}
}
