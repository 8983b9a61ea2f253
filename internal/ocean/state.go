// Package ocean exposes the ocean query facade used by vehicles: global level,
// elevation, surface normal and wave velocity at a world position.
package ocean

// UnitScale converts texture advection into world units per second.
const UnitScale = 100

// State is the per-ocean runtime parameter set. Gameplay mutates it through
// the Ocean setters; every query reads a consistent copy.
type State struct {
	// GlobalLevel is the Z offset of the whole ocean.
	GlobalLevel float32 `yaml:"global_level"`
	// WaveHeight scales the sampled alpha into world units.
	WaveHeight float32 `yaml:"wave_height"`
	// WaterHeight is subtracted after scaling.
	WaterHeight float32 `yaml:"water_height"`
	// WorldPositionDivider and WaveUVDivider together map world XY onto UV.
	WorldPositionDivider float32 `yaml:"world_position_divider"`
	WaveUVDivider        float32 `yaml:"wave_uv_divider"`
	PannerX              float32 `yaml:"panner_x"`
	PannerY              float32 `yaml:"panner_y"`
	PannerTime           float32 `yaml:"panner_time"`
	Waves                int     `yaml:"waves"`
}

// DefaultState returns the stock ocean parameters.
func DefaultState() State {
	return State{
		GlobalLevel:          0,
		WaveHeight:           100,
		WaterHeight:          100,
		WorldPositionDivider: 0.5,
		WaveUVDivider:        11000,
		PannerX:              0.015,
		PannerY:              0.01,
		PannerTime:           0,
		Waves:                1,
	}
}

// Period returns the world distance after which the height map repeats.
func (s State) Period() float32 {
	return s.WorldPositionDivider * s.WaveUVDivider
}

// UV maps a world XY position to unwrapped texture coordinates, including panning.
func (s State) UV(x, y float32) (float64, float64) {
	period := float64(s.Period())
	if period == 0 {
		period = 1
	}
	pt := float64(s.PannerTime)
	return float64(x)/period + float64(s.PannerX)*pt,
		float64(y)/period + float64(s.PannerY)*pt
}
