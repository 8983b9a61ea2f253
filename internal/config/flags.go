package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagSeed      = flag.Uint64("seed", 0, "Spectrum random seed (0 keeps the configured seed)")
	flagDimension = flag.Int("dimension", 0, "Spectrum grid dimension (power of two)")
	flagWorkers   = flag.Int("workers", 0, "Evolution and bake worker count")
	flagHeightMap = flag.String("heightmap", "", "Height map image to load instead of baking")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Telemetry.Enabled = true
	}
	if *flagSeed != 0 {
		cfg.Spectrum.Seed = *flagSeed
	}
	if *flagDimension > 0 {
		cfg.Spectrum.Dimension = *flagDimension
	}
	if *flagWorkers > 0 {
		cfg.Simulation.Workers = *flagWorkers
	}
	if *flagHeightMap != "" {
		cfg.Ocean.HeightMap = *flagHeightMap
	}
}
