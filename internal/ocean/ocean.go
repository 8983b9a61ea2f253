package ocean

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/seacraft/internal/logger"
	"github.com/Faultbox/seacraft/internal/ocean/heightmap"
	"github.com/Faultbox/seacraft/internal/telemetry"
	"github.com/Faultbox/seacraft/pkg/math"
)

// Ocean answers surface queries against the current height map and runtime
// state. Queries are safe from any number of goroutines and never fail: with
// no height map they return zero elevation and a zero normal.
type Ocean struct {
	mu    sync.RWMutex
	state State

	sampler atomic.Pointer[heightmap.Sampler]
	source  atomic.Value // string

	// warned is set once the missing height map has been reported and
	// cleared when a usable map is installed.
	warned  atomic.Bool
	metrics *telemetry.Instruments
	log     *zap.Logger
}

// New creates an ocean with the given state and no height map.
func New(state State) *Ocean {
	o := &Ocean{
		state:   state,
		metrics: telemetry.Default(),
		log:     logger.Named("ocean"),
	}
	o.sampler.Store(heightmap.NewSampler(nil))
	o.source.Store("")
	return o
}

// SetHeightMap installs img as the sampled surface. A nil or malformed image
// puts the ocean in degraded mode. source names the image in diagnostics.
func (o *Ocean) SetHeightMap(img *heightmap.Image, source string) {
	s := heightmap.NewSampler(img)
	o.sampler.Store(s)
	o.source.Store(source)

	if !s.Ready() {
		o.warnDegraded(source)
		return
	}
	o.warned.Store(false)
	o.log.Debug("ocean heightmap installed",
		zap.String("source", source),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Bool("srgb", img.SRGB),
	)
}

// HeightMapReady reports whether queries read real pixel data.
func (o *Ocean) HeightMapReady() bool {
	return o.sampler.Load().Ready()
}

// HeightMapSource returns the source name given to the last SetHeightMap.
func (o *Ocean) HeightMapSource() string {
	return o.source.Load().(string)
}

// State returns a copy of the runtime state.
func (o *Ocean) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// SetState replaces the runtime state.
func (o *Ocean) SetState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// SetGlobalOceanLevel moves the whole ocean to z.
func (o *Ocean) SetGlobalOceanLevel(z float32) {
	o.mu.Lock()
	o.state.GlobalLevel = z
	o.mu.Unlock()
}

// SetWaveHeightPannerTime sets the accumulated panning time.
func (o *Ocean) SetWaveHeightPannerTime(t float32) {
	o.mu.Lock()
	o.state.PannerTime = t
	o.mu.Unlock()
}

// AdvancePannerTime adds dt seconds of panning.
func (o *Ocean) AdvancePannerTime(dt float32) {
	o.mu.Lock()
	o.state.PannerTime += dt
	o.mu.Unlock()
}

// GlobalLevel returns the global ocean level offset.
func (o *Ocean) GlobalLevel() float32 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state.GlobalLevel
}

// WavesCount returns the number of waves the ocean represents.
func (o *Ocean) WavesCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state.Waves
}

func (o *Ocean) sample(pos math.Vec3) (State, float32, heightmap.LinearColor, bool) {
	st := o.State()
	s := o.sampler.Load()
	if !s.Ready() {
		o.degraded()
		return st, 0, heightmap.LinearColor{}, false
	}
	u, v := st.UV(pos.X, pos.Y)
	alpha, c := s.Sample(u, v)
	return st, alpha, c, true
}

func (o *Ocean) degraded() {
	o.metrics.DegradedQueries.Add(context.Background(), 1)
	o.warnDegraded(o.HeightMapSource())
}

func (o *Ocean) warnDegraded(source string) {
	if o.warned.CompareAndSwap(false, true) {
		o.log.Warn("ocean heightmap unavailable, elevation is zero until one is installed",
			zap.String("source", source))
	}
}

// ElevationAt returns the water surface Z under pos, or 0 without a height map.
func (o *Ocean) ElevationAt(pos math.Vec3) float32 {
	st, alpha, _, ok := o.sample(pos)
	if !ok {
		return 0
	}
	return alpha*st.WaveHeight - st.WaterHeight + st.GlobalLevel
}

// SurfaceNormalAt returns the sampled normal color under pos.
func (o *Ocean) SurfaceNormalAt(pos math.Vec3) heightmap.LinearColor {
	_, _, c, _ := o.sample(pos)
	return c
}

// WaveVelocityAt returns the horizontal advection of the panned surface. It
// does not depend on pos.
func (o *Ocean) WaveVelocityAt(math.Vec3) math.Vec3 {
	st := o.State()
	scale := st.WorldPositionDivider * st.WaveUVDivider / UnitScale
	return math.Vec3{X: st.PannerX * scale, Y: st.PannerY * scale}
}
