// Package main is the entry point for the ocean simulator CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/seacraft/internal/config"
	"github.com/Faultbox/seacraft/internal/logger"
	"github.com/Faultbox/seacraft/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	metrics, closeMetrics, err := setupTelemetry(cfg.Telemetry)
	if err != nil {
		logger.Error("telemetry setup failed", zap.Error(err))
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metrics.Shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
		closeMetrics()
	}()
	logger.Sugar.Debugf("Config: %+v", cfg)

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		return 1
	}

	command, rest := args[0], args[1:]
	switch command {
	case "generate", "gen":
		err = cmdGenerate(cfg, rest)
	case "bake":
		err = cmdBake(cfg, rest)
	case "sample":
		err = cmdSample(cfg, rest)
	case "run":
		err = cmdRun(cfg, rest)
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return 1
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		return 1
	}
	return 0
}

// setupTelemetry installs the metric provider before any component asks for
// instruments. The returned func closes the export file, if one was opened.
func setupTelemetry(tc config.TelemetryConfig) (*telemetry.Provider, func(), error) {
	telemetry.SetEnabled(tc.Enabled)

	closeOut := func() {}
	var w io.Writer = os.Stderr
	if tc.Enabled && tc.Output != "" {
		f, err := os.Create(tc.Output)
		if err != nil {
			return nil, nil, fmt.Errorf("opening metrics output: %w", err)
		}
		w = f
		closeOut = func() { _ = f.Close() }
	}

	p, err := telemetry.NewProvider(telemetry.Config{
		Enabled:     tc.Enabled,
		ServiceName: "oceansim",
		Interval:    tc.Interval,
		Writer:      w,
	})
	if err != nil {
		closeOut()
		return nil, nil, err
	}
	p.Install()
	if p.Enabled() {
		logger.Info("telemetry enabled", zap.Duration("interval", tc.Interval), zap.String("output", tc.Output))
	}
	return p, closeOut, nil
}

func printUsage() {
	fmt.Println(`oceansim - ocean spectrum and buoyancy simulator

Usage:
  oceansim [flags] <command> [arguments]

Commands:
  generate                     Build the spectrum and report its statistics
  bake <out.png> [t]           Evolve to time t (default 0) and write the height map
  sample <image> <x> <y>       Query elevation, normal and velocity on an image
  run [ticks]                  Simulate the ocean and one ship (default 300 ticks)

Flags:
  -config <path>     Config file (default ./oceansim.yaml)
  -debug             Debug logging and telemetry
  -seed <n>          Spectrum seed
  -dimension <n>     Spectrum grid size (power of two)
  -workers <n>       Worker goroutines
  -heightmap <path>  Use an image instead of baking

Examples:
  oceansim generate
  oceansim -dimension 256 bake ocean.png 12.5
  oceansim sample ocean.png 1200 -340
  oceansim -heightmap ocean.png run 600`)
}
