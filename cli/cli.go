// Package cli wires up the lwtcp command line and dispatches to the
// relay core.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"lwnet/config"
	"lwnet/internal/errors"
	"lwnet/internal/transport"
	"lwnet/relay"
	"lwnet/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X lwnet/cli.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs the relay.  A nil return means a clean
// peer-initiated close; every other outcome is an error the caller
// maps to exit code 1.
func Execute(ctx context.Context, args []string) error {
	cfg, done, err := parseConfig(args, os.Stderr)
	if done || err != nil {
		return err
	}

	logger := util.NewLogger(cfg.Verbose)

	tr, err := openTransport(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer tr.Release() //nolint:errcheck

	if term.IsTerminal(int(os.Stdin.Fd())) {
		logger.Warn("stdin is a terminal; end input with Ctrl-D")
	}
	in, err := util.NewNonBlockingFile(os.Stdin)
	if err != nil {
		return err
	}

	r := relay.New(tr, cfg.Host, cfg.Port, in, os.Stdout, logger)
	r.Interval = cfg.PollInterval
	return r.Run(ctx)
}

// parseConfig layers defaults, config file, environment, and flags (in
// that order, highest last) and applies the positional <host> <port>.
// done is true when --help or --version short-circuited.
func parseConfig(args []string, usageOut *os.File) (*config.Config, bool, error) {
	fs := flag.NewFlagSet("lwtcp", flag.ContinueOnError)
	fs.SetOutput(usageOut)

	var (
		configPath    string
		device        string
		bridge        string
		transportName string
		interval      time.Duration
		verbose       int

		showVersion, showHelp bool
	)

	fs.StringVar(&configPath, "config", "", "Config file (default ~/.config/lwtcp.yaml)")
	fs.StringVarP(&device, "device", "d", config.DefaultDevicePath, "lwnet char device path")
	fs.StringVarP(&bridge, "bridge", "b", "", "Websocket gateway URL")
	fs.StringVarP(&transportName, "transport", "t", config.TransportAuto,
		"Transport backend (auto|lwnet|bridge|loopback)")
	fs.DurationVarP(&interval, "interval", "i", config.DefaultPollInterval,
		"Polling interval between relay iterations")
	fs.CountVarP(&verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs, usageOut) }

	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}

	if showHelp {
		printUsage(fs, usageOut)
		return nil, true, nil
	}
	if showVersion {
		fmt.Fprintf(usageOut, "lwtcp %s\n", version)
		return nil, true, nil
	}

	// ── layered configuration ────────────────────────────────────
	cfg := config.Defaults()

	path, optional := configPath, false
	if path == "" {
		path, optional = config.DefaultConfigPath(), true
	}
	if path != "" {
		if err := config.LoadFile(cfg, path, optional); err != nil {
			return nil, false, err
		}
	}
	config.LoadFromEnv(cfg)

	if fs.Changed("device") {
		cfg.DevicePath = device
	}
	if fs.Changed("bridge") {
		cfg.BridgeURL = bridge
	}
	if fs.Changed("transport") {
		cfg.Transport = transportName
	}
	if fs.Changed("interval") {
		cfg.PollInterval = interval
	}
	// -v is additive on top of the configured level, so the default
	// (normal) plus one -v is verbose, plus two is debug.
	cfg.Verbose += verbose

	// ── positional arguments ─────────────────────────────────────
	rest := fs.Args()
	switch {
	case len(rest) < 1:
		return nil, false, &errors.ConfigError{
			Field: "host", Message: "hostname is required",
			Hint: "usage: lwtcp <host> <port>",
		}
	case len(rest) < 2:
		return nil, false, &errors.ConfigError{
			Field: "port", Message: "port is required",
			Hint: "usage: lwtcp <host> <port>",
		}
	case len(rest) > 2:
		return nil, false, &errors.ConfigError{
			Field: "args", Value: rest[2:],
			Message: "too many arguments",
		}
	}
	cfg.Host = rest[0]
	port, err := config.ParsePort(rest[1])
	if err != nil {
		return nil, false, err
	}
	cfg.Port = port

	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}

// openTransport picks and acquires a backend per cfg.Transport.
func openTransport(ctx context.Context, cfg *config.Config, logger *util.Logger) (transport.Transport, error) {
	switch cfg.Transport {
	case config.TransportLoopback:
		logger.Info("loopback transport: written bytes echo back as readable data")
		return transport.NewLoopback(), nil

	case config.TransportLwnet:
		return transport.OpenDevice(cfg.DevicePath)

	case config.TransportBridge:
		logger.Verbose("dialing gateway %s", cfg.BridgeURL)
		return transport.DialBridge(ctx, cfg.BridgeURL, bridgeOptions(cfg))

	default: // auto
		dev, err := transport.OpenDevice(cfg.DevicePath)
		if err == nil {
			return dev, nil
		}
		if cfg.BridgeURL != "" && errors.Is(err, errors.ErrDeviceUnavailable) {
			logger.Verbose("device unavailable, falling back to gateway %s", cfg.BridgeURL)
			return transport.DialBridge(ctx, cfg.BridgeURL, bridgeOptions(cfg))
		}
		logger.Error("make sure the lwnet driver is loaded, or pass --bridge <url>")
		return nil, err
	}
}

func bridgeOptions(cfg *config.Config) transport.BridgeOptions {
	return transport.BridgeOptions{
		DialTimeout: cfg.DialTimeout,
		Attempts:    config.DefaultDialAttempts,
		Backoff:     config.DefaultDialBackoff,
	}
}

func printUsage(fs *flag.FlagSet, out *os.File) {
	fmt.Fprintf(out, `lwtcp - TCP relay over the lwnet driver v%s

Opens a TCP connection through the lwnet command interface and pipes
stdin to the socket and the socket to stdout.

Usage:
  lwtcp [options] <host> <port>

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(out, `
Examples:
  echo -e "GET / HTTP/1.0\r\nHost: example.com\r\n\r\n" | lwtcp example.com 80
  lwtcp -t bridge -b ws://localhost:9000/lwnet example.com 80
  lwtcp -t loopback -v echo.test 7
`)
}
