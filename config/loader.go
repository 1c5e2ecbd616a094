package config

// loader.go - configuration loading from a YAML file and environment
// variables.
//
// Precedence order (highest wins):
//   1. CLI flags   (handled by the cli package)
//   2. Environment variables  (LoadFromEnv)
//   3. Config file (LoadFile)
//   4. Defaults    (defaults.go)

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadFile overlays the YAML file at path onto cfg.  A missing file is
// not an error when optional is true, so the default config location
// can simply not exist.
func LoadFile(cfg *Config, path string, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

// DefaultConfigPath returns the conventional config file location,
// or "" when the home directory cannot be determined.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.config/lwtcp.yaml"
}

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the LWTCP_ prefix.  Durations accept
// either a Go duration string or bare milliseconds.

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("LWTCP_DEVICE"); v != "" {
		cfg.DevicePath = v
	}
	if v := os.Getenv("LWTCP_BRIDGE"); v != "" {
		cfg.BridgeURL = v
	}
	if v := os.Getenv("LWTCP_TRANSPORT"); v != "" {
		cfg.Transport = v
	}
	if v := envDuration("LWTCP_POLL_INTERVAL"); v > 0 {
		cfg.PollInterval = v
	}
	if v := envDuration("LWTCP_DIAL_TIMEOUT"); v > 0 {
		cfg.DialTimeout = v
	}
	if v := envInt("LWTCP_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
}

// ── Helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envDuration(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	// Accept bare milliseconds for convenience.
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}
