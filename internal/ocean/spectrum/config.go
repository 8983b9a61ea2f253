// Package spectrum builds the static frequency-domain ocean height field H(0)
// from wind parameters using the Phillips spectrum.
package spectrum

import (
	"errors"
	"fmt"
	stdmath "math"

	"github.com/Faultbox/seacraft/pkg/math"
)

// MaxDimension bounds the grid size to keep allocations sane.
const MaxDimension = 4096

// Configuration errors. Use errors.Is against a *ConfigError.
var (
	ErrInvalidDimension   = errors.New("dimension must be a positive power of two")
	ErrInvalidPatchLength = errors.New("patch length must be positive")
	ErrInvalidWindSpeed   = errors.New("wind speed must be non-negative")
	ErrInvalidChoppyScale = errors.New("choppy scale must be non-negative")
)

// ConfigError reports an invalid Config field. Generation never produces a partial field.
type ConfigError struct {
	Field string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("spectrum config %s=%v: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Config holds the spectrum parameters. Immutable for the lifetime of a generated field.
type Config struct {
	// Dimension is the displacement map size N. Must be a power of two.
	Dimension int `yaml:"dimension"`
	// PatchLength is the world-space side length of the square patch. Typically 1000 ~ 2000.
	PatchLength float32 `yaml:"patch_length"`
	// TimeScale adjusts simulation speed.
	TimeScale float32 `yaml:"time_scale"`
	// WaveAmplitude is around 1.0, not a world-space height.
	WaveAmplitude float32 `yaml:"wave_amplitude"`
	// WindDirection need not be normalized.
	WindDirection math.Vec2 `yaml:"wind_direction"`
	// WindSpeed controls crest scale. Around 100 ~ 1000.
	WindSpeed float32 `yaml:"wind_speed"`
	// WindDependency damps waves moving against the wind. Smaller means stronger dependency.
	WindDependency float32 `yaml:"wind_dependency"`
	// ChoppyScale scales horizontal displacement. Higher values give pointier crests.
	ChoppyScale float32 `yaml:"choppy_scale"`
	// Seed drives the Gaussian draws.
	Seed uint64 `yaml:"seed"`
}

// DefaultConfig returns the stock ocean parameters.
func DefaultConfig() Config {
	return Config{
		Dimension:      512,
		PatchLength:    2000,
		TimeScale:      0.8,
		WaveAmplitude:  0.35,
		WindDirection:  math.Vec2{X: 0.8, Y: 0.6},
		WindSpeed:      600,
		WindDependency: 0.07,
		ChoppyScale:    1.3,
		Seed:           1,
	}
}

// Validate checks the invariants required by Generate.
func (c Config) Validate() error {
	if c.Dimension <= 0 || c.Dimension > MaxDimension || c.Dimension&(c.Dimension-1) != 0 {
		return &ConfigError{Field: "dimension", Value: c.Dimension, Err: ErrInvalidDimension}
	}
	if !(c.PatchLength > 0) || stdmath.IsInf(float64(c.PatchLength), 0) {
		return &ConfigError{Field: "patch_length", Value: c.PatchLength, Err: ErrInvalidPatchLength}
	}
	if !(c.WindSpeed >= 0) {
		return &ConfigError{Field: "wind_speed", Value: c.WindSpeed, Err: ErrInvalidWindSpeed}
	}
	if !(c.ChoppyScale >= 0) {
		return &ConfigError{Field: "choppy_scale", Value: c.ChoppyScale, Err: ErrInvalidChoppyScale}
	}
	return nil
}
