package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lwtcp.yaml")
	data := []byte("transport: bridge\nbridge: ws://gateway.local:9000/lwnet\npoll_interval: 5ms\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := LoadFile(cfg, path, false); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Transport != TransportBridge {
		t.Errorf("Transport = %q", cfg.Transport)
	}
	if cfg.BridgeURL != "ws://gateway.local:9000/lwnet" {
		t.Errorf("BridgeURL = %q", cfg.BridgeURL)
	}
	if cfg.PollInterval != 5*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	// Untouched fields keep their defaults.
	if cfg.DevicePath != DefaultDevicePath {
		t.Errorf("DevicePath = %q", cfg.DevicePath)
	}
}

func TestLoadFile_MissingOptional(t *testing.T) {
	cfg := Defaults()
	if err := LoadFile(cfg, filepath.Join(t.TempDir(), "nope.yaml"), true); err != nil {
		t.Errorf("optional missing file should not error, got %v", err)
	}
}

func TestLoadFile_MissingRequired(t *testing.T) {
	cfg := Defaults()
	if err := LoadFile(cfg, filepath.Join(t.TempDir(), "nope.yaml"), false); err == nil {
		t.Error("required missing file should error")
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("transport: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Defaults()
	if err := LoadFile(cfg, path, false); err == nil {
		t.Error("malformed yaml should error")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LWTCP_DEVICE", "/dev/lwnet0")
	t.Setenv("LWTCP_TRANSPORT", "lwnet")
	t.Setenv("LWTCP_POLL_INTERVAL", "2") // bare milliseconds
	t.Setenv("LWTCP_DIAL_TIMEOUT", "3s")

	cfg := Defaults()
	LoadFromEnv(cfg)

	if cfg.DevicePath != "/dev/lwnet0" {
		t.Errorf("DevicePath = %q", cfg.DevicePath)
	}
	if cfg.Transport != TransportLwnet {
		t.Errorf("Transport = %q", cfg.Transport)
	}
	if cfg.PollInterval != 2*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.DialTimeout != 3*time.Second {
		t.Errorf("DialTimeout = %v", cfg.DialTimeout)
	}
}

func TestLoadFromEnv_EmptyLeavesDefaults(t *testing.T) {
	t.Setenv("LWTCP_DEVICE", "")
	cfg := Defaults()
	LoadFromEnv(cfg)
	if cfg.DevicePath != DefaultDevicePath {
		t.Errorf("DevicePath = %q", cfg.DevicePath)
	}
}
