// Command pm100ctl is an interactive controller for Thorlabs
// PM100-series optical power meters.
//
// It enumerates instruments from static configuration and LXI mDNS
// discovery, opens a SCPI socket session to one of them, and offers
// configuration and measurement commands at a readline prompt.
//
// Usage:
//
//	pm100ctl [flags]
//
// Flags:
//
//	-config string     Configuration file path (YAML)
//	-resource string   Connect to this resource immediately
//	-log-file string   Append session events to this CBOR log file
//	-timeout duration  Session timeout (default 2.5s)
//	-no-discovery      Disable LXI mDNS discovery
//	-verbose           Log configuration and reading events
//
// Examples:
//
//	# Browse the network and pick an instrument interactively
//	pm100ctl
//
//	# Connect straight to a known instrument with event logging
//	pm100ctl -resource TCPIP0::192.168.1.50::5025::SOCKET -log-file pm100.cborlog -verbose
package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smk-uk/pm100-go/cmd/pm100ctl/interactive"
	"github.com/smk-uk/pm100-go/pkg/log"
	"github.com/smk-uk/pm100-go/pkg/meter"
	"github.com/smk-uk/pm100-go/pkg/visa"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Configuration file path (YAML)")
		resource    = flag.String("resource", "", "Connect to this resource immediately")
		logFile     = flag.String("log-file", "", "Append session events to this CBOR log file")
		timeout     = flag.Duration("timeout", meter.DefaultOpenTimeout, "Session timeout")
		noDiscovery = flag.Bool("no-discovery", false, "Disable LXI mDNS discovery")
		verbose     = flag.Bool("verbose", false, "Log configuration and reading events")
	)
	flag.Parse()

	var fileCfg FileConfig
	if *configPath != "" {
		cfg, err := loadFileConfig(*configPath)
		if err != nil {
			stdlog.Fatalf("Config error: %v", err)
		}
		fileCfg = cfg
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Shut down cleanly on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	ui, err := interactive.New(interactive.Defaults{
		Unit:       meter.Unit(fileCfg.Defaults.Unit),
		Wavelength: fileCfg.Defaults.Wavelength,
		Bandwidth:  meter.Bandwidth(fileCfg.Defaults.Bandwidth),
		AutoRange:  fileCfg.Defaults.AutoRange,
	})
	if err != nil {
		stdlog.Fatalf("Failed to start: %v", err)
	}

	logger, closeLogger, err := buildLogger(ui, *logFile)
	if err != nil {
		stdlog.Fatalf("Log error: %v", err)
	}
	defer closeLogger()

	manager := visa.NewManager(visa.ManagerConfig{
		Resources:        fileCfg.Resources,
		DisableDiscovery: *noDiscovery || fileCfg.Discovery.Disabled,
		BrowseTimeout:    time.Duration(fileCfg.Discovery.TimeoutSeconds) * time.Second,
		Interface:        fileCfg.Discovery.Interface,
	})

	ctrl, err := meter.New(ctx, meter.ControllerConfig{
		ResourceManager: manager,
		Chooser:         ui,
		Logger:          logger,
		Verbose:         *verbose,
		OpenTimeout:     *timeout,
	})
	if err != nil {
		stdlog.Fatalf("Failed to start: %v", err)
	}
	ui.SetController(ctrl)

	if *resource != "" {
		if err := ctrl.Initialize(ctx, *resource); err != nil {
			stdlog.Fatalf("Connection failed: %v", err)
		}
		fmt.Printf("Connected to %s\n", ctrl.Device())
	}

	ui.Run(ctx, cancel)

	if ctrl.Connected() {
		if err := ctrl.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Close failed: %v\n", err)
		}
	}
}

// buildLogger assembles the session event logger: slog to the readline
// stdout, plus an optional CBOR file logger.
func buildLogger(ui *interactive.Meter, logFile string) (log.Logger, func(), error) {
	slogger := log.NewSlogAdapter(slog.New(slog.NewTextHandler(ui.Stdout(), nil)))

	if logFile == "" {
		return slogger, func() {}, nil
	}

	fileLogger, err := log.NewFileLogger(logFile)
	if err != nil {
		return nil, nil, err
	}
	return log.MultiLogger{slogger, fileLogger}, func() { _ = fileLogger.Close() }, nil
}
