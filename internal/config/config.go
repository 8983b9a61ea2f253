// Package config handles simulator configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/seacraft/internal/buoyancy"
	"github.com/Faultbox/seacraft/internal/ocean"
	"github.com/Faultbox/seacraft/internal/ocean/spectrum"
	"github.com/Faultbox/seacraft/internal/vehicle"
	"github.com/Faultbox/seacraft/pkg/math"
)

// FileName is the config file looked up in the working and config directories.
const FileName = "oceansim.yaml"

// Config holds all simulator settings.
type Config struct {
	Spectrum   spectrum.Config  `yaml:"spectrum"`
	Ocean      OceanConfig      `yaml:"ocean"`
	Simulation SimulationConfig `yaml:"simulation"`
	Vehicle    VehicleConfig    `yaml:"vehicle"`
	Logging    LoggingConfig    `yaml:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// OceanConfig holds the ocean runtime state and its height map source.
type OceanConfig struct {
	State ocean.State `yaml:",inline"`
	// HeightMap is an image path. Empty means the map is baked from the spectrum.
	HeightMap  string   `yaml:"heightmap"`
	SRGB       bool     `yaml:"srgb"`
	AssetRoots []string `yaml:"asset_roots"`
}

// SimulationConfig holds tick pipeline settings.
type SimulationConfig struct {
	TickRate int `yaml:"tick_rate"` // Ticks per second
	Workers  int `yaml:"workers"`   // 0 = GOMAXPROCS
	// BakeEvery re-bakes the height map every N ticks. 0 disables live baking.
	BakeEvery   int     `yaml:"bake_every"`
	HeightRange float32 `yaml:"bake_height_range"`
	Gravity     float32 `yaml:"gravity"`
	// LinearDamping and AngularDamping are fractions of velocity lost per second.
	LinearDamping  float32 `yaml:"linear_damping"`
	AngularDamping float32 `yaml:"angular_damping"`
}

// VehicleConfig holds the simulated ship.
type VehicleConfig struct {
	Buoyancy buoyancy.Params `yaml:"buoyancy"`
	Controls vehicle.Config  `yaml:"controls"`
	Spawn    math.Vec3       `yaml:"spawn"`
	Gear     int             `yaml:"gear"`
	Rudder   float32         `yaml:"rudder"`

	// SpawnRotation is the initial heading and trim of the ship.
	SpawnRotation math.Rotator `yaml:"spawn_rotation"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// TelemetryConfig controls metric collection and export.
type TelemetryConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"` // Export period, e.g. "10s"
	Output   string        `yaml:"output"`   // Export file, stderr when empty
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Spectrum: spectrum.DefaultConfig(),
		Ocean: OceanConfig{
			State:      ocean.DefaultState(),
			AssetRoots: []string{"."},
		},
		Simulation: SimulationConfig{
			TickRate:       30,
			Workers:        0,
			BakeEvery:      15,
			HeightRange:    0,
			Gravity:        980,
			LinearDamping:  0.5,
			AngularDamping: 0.8,
		},
		Vehicle: VehicleConfig{
			Buoyancy: buoyancy.DefaultParams(),
			Controls: vehicle.DefaultConfig(),
			Gear:     1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Interval: 10 * time.Second,
		},
	}
}

// Validate checks the settings that would otherwise fail deep in the pipeline.
func (c *Config) Validate() error {
	if err := c.Spectrum.Validate(); err != nil {
		return err
	}
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %d", c.Simulation.TickRate)
	}
	if c.Simulation.BakeEvery < 0 {
		return fmt.Errorf("simulation.bake_every must not be negative, got %d", c.Simulation.BakeEvery)
	}
	if c.Vehicle.Buoyancy.Mass <= 0 {
		return fmt.Errorf("vehicle.buoyancy.mass must be positive, got %v", c.Vehicle.Buoyancy.Mass)
	}
	if c.Telemetry.Interval < 0 {
		return fmt.Errorf("telemetry.interval must not be negative, got %v", c.Telemetry.Interval)
	}
	return nil
}
