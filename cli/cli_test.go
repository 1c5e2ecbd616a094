package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lwnet/config"
	"lwnet/internal/errors"
)

// parse is a helper that isolates parseConfig from the developer's real
// home directory and environment.
func parse(t *testing.T, args ...string) (*config.Config, bool, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return parseConfig(args, os.Stderr)
}

func TestParseConfig_Positional(t *testing.T) {
	cfg, done, err := parse(t, "example.com", "80")
	if err != nil || done {
		t.Fatalf("parse: %v (done=%v)", err, done)
	}
	if cfg.Host != "example.com" || cfg.Port != 80 {
		t.Errorf("got %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.Transport != config.TransportAuto {
		t.Errorf("Transport = %q", cfg.Transport)
	}
}

func TestParseConfig_MissingArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"no port", []string{"example.com"}},
		{"too many", []string{"example.com", "80", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, done, err := parse(t, tt.args...)
			if done {
				t.Error("short-circuited; missing arguments must surface an error")
			}
			var ce *errors.ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("got %v, want ConfigError", err)
			}
		})
	}
}

func TestParseConfig_BadPort(t *testing.T) {
	for _, port := range []string{"0", "65536", "-1", "http"} {
		t.Run(port, func(t *testing.T) {
			_, _, err := parse(t, "example.com", port)
			var ce *errors.ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("port %s: got %v, want ConfigError", port, err)
			}
		})
	}
}

func TestParseConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("LWTCP_TRANSPORT", "lwnet")
	t.Setenv("LWTCP_DEVICE", "/dev/lwnet-env")

	cfg, _, err := parse(t, "-t", "loopback", "example.com", "80")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Transport != config.TransportLoopback {
		t.Errorf("flag should beat env, got %q", cfg.Transport)
	}
	// Untouched flag falls through to the env value.
	if cfg.DevicePath != "/dev/lwnet-env" {
		t.Errorf("DevicePath = %q", cfg.DevicePath)
	}
}

func TestParseConfig_FileUnderEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lwtcp.yaml")
	if err := os.WriteFile(path, []byte("device: /dev/lwnet-file\npoll_interval: 7ms\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LWTCP_DEVICE", "/dev/lwnet-env")

	cfg, _, err := parse(t, "--config", path, "example.com", "80")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DevicePath != "/dev/lwnet-env" {
		t.Errorf("env should beat file, got %q", cfg.DevicePath)
	}
	if cfg.PollInterval != 7*time.Millisecond {
		t.Errorf("file value should survive, got %v", cfg.PollInterval)
	}
}

func TestParseConfig_Verbosity(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"default is normal", []string{"example.com", "80"}, 1},
		{"one -v is verbose", []string{"-v", "example.com", "80"}, 2},
		{"two -v is debug", []string{"-vv", "example.com", "80"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _, err := parse(t, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Verbose != tt.want {
				t.Errorf("Verbose = %d, want %d", cfg.Verbose, tt.want)
			}
		})
	}
}

func TestParseConfig_Interval(t *testing.T) {
	cfg, _, err := parse(t, "-i", "250us", "example.com", "80")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PollInterval != 250*time.Microsecond {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
}

func TestParseConfig_HelpAndVersion(t *testing.T) {
	null, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer null.Close()

	for _, args := range [][]string{{"-h"}, {"--version"}} {
		t.Setenv("HOME", t.TempDir())
		_, done, err := parseConfig(args, null)
		if err != nil || !done {
			t.Errorf("args %v: (done=%v, err=%v), want short-circuit", args, done, err)
		}
	}
}

func TestParseConfig_BridgeRequiresURL(t *testing.T) {
	_, _, err := parse(t, "-t", "bridge", "example.com", "80")
	var ce *errors.ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("got %v, want ConfigError", err)
	}
}
