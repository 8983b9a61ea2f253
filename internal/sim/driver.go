// Package sim drives the ocean pipeline once per tick: pending spectrum
// rebuilds, evolution, publish, height map baking, vehicle reactions and
// panning, in that order.
package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/seacraft/internal/buoyancy"
	"github.com/Faultbox/seacraft/internal/config"
	"github.com/Faultbox/seacraft/internal/logger"
	"github.com/Faultbox/seacraft/internal/ocean"
	"github.com/Faultbox/seacraft/internal/ocean/bake"
	"github.com/Faultbox/seacraft/internal/ocean/evolve"
	"github.com/Faultbox/seacraft/internal/ocean/heightmap"
	"github.com/Faultbox/seacraft/internal/ocean/spectrum"
	"github.com/Faultbox/seacraft/internal/telemetry"
	"github.com/Faultbox/seacraft/internal/vehicle"
	"github.com/Faultbox/seacraft/pkg/math"
)

// TickStats summarises one tick.
type TickStats struct {
	Tick      uint64
	Time      float32
	Rebuilt   int
	Evolved   bool
	Baked     bool
	Submerged int
	Elapsed   time.Duration
}

// Driver owns the spectrum, the time-varying field and the level's ocean.
// Tick must not be called concurrently; accessors are safe from any goroutine.
type Driver struct {
	cfg   *config.Config
	level *ocean.Level
	ocean *ocean.Ocean

	source   *Source
	registry *Registry
	evolver  *evolve.Evolver
	buffer   *evolve.Buffer
	baker    *bake.Baker
	live     bool

	mu       sync.RWMutex
	vehicles []*Vehicle
	simTime  float32
	ticks    uint64
	lastBake bake.Stats

	metrics *telemetry.Instruments
	log     *zap.Logger
}

// NewDriver generates the spectrum, registers a new ocean in level and bakes
// the first height map. A configuration error aborts before anything is registered.
func NewDriver(cfg *config.Config, level *ocean.Level) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	field, err := spectrum.Generate(cfg.Spectrum)
	if err != nil {
		return nil, fmt.Errorf("generating spectrum: %w", err)
	}

	baker, err := bake.NewBaker(field.N, bakeConfig(cfg, field.Config))
	if err != nil {
		return nil, err
	}

	o := ocean.New(cfg.Ocean.State)
	if err := level.Register(o); err != nil {
		return nil, err
	}

	d := &Driver{
		cfg:      cfg,
		level:    level,
		ocean:    o,
		source:   NewSource("main", field),
		registry: NewRegistry(),
		evolver:  evolve.NewEvolver(cfg.Simulation.Workers),
		buffer:   evolve.NewBuffer(field.N),
		baker:    baker,
		live:     true,
		metrics:  telemetry.Default(),
		log:      logger.Named("sim"),
	}

	if err := d.evolveAndBake(0); err != nil {
		level.Unregister(o)
		return nil, err
	}

	d.log.Info("ocean simulation ready",
		zap.Int("dimension", field.N),
		zap.Float32("patch_length", field.Config.PatchLength),
		zap.Int("workers", d.evolver.Workers()),
		zap.Float64("energy", field.Energy()),
	)
	return d, nil
}

func bakeConfig(cfg *config.Config, sc spectrum.Config) bake.Config {
	return bake.Config{
		PatchLength: sc.PatchLength,
		HeightRange: cfg.Simulation.HeightRange,
		Workers:     cfg.Simulation.Workers,
	}
}

// UseHeightMap replaces live baking with a fixed image. A nil image leaves the
// ocean in degraded mode.
func (d *Driver) UseHeightMap(img *heightmap.Image, source string) {
	d.mu.Lock()
	d.live = false
	d.mu.Unlock()
	d.ocean.SetHeightMap(img, source)
}

// Live reports whether the height map is baked from the spectrum.
func (d *Driver) Live() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.live
}

// Ocean returns the driver's ocean.
func (d *Driver) Ocean() *ocean.Ocean {
	return d.ocean
}

// Level returns the level the ocean is registered in.
func (d *Driver) Level() *ocean.Level {
	return d.level
}

// Source returns the spectrum source.
func (d *Driver) Source() *Source {
	return d.source
}

// Registry returns the deferred rebuild queue.
func (d *Driver) Registry() *Registry {
	return d.registry
}

// Field returns the last published time-varying field.
func (d *Driver) Field() *evolve.Field {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buffer.Front()
}

// Time returns the simulation time in seconds.
func (d *Driver) Time() float32 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.simTime
}

// Ticks returns the number of completed ticks.
func (d *Driver) Ticks() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ticks
}

// LastBake returns the stats of the most recent bake.
func (d *Driver) LastBake() bake.Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastBake
}

// UpdateSpectrumConfig validates sc and queues a rebuild for the next tick.
func (d *Driver) UpdateSpectrumConfig(sc spectrum.Config) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	d.source.setConfig(sc)
	d.registry.Enqueue(d.source)
	return nil
}

// AddVehicle spawns a ship from the vehicle configuration at loc.
func (d *Driver) AddVehicle(name string, loc math.Vec3, authoritative bool) *Vehicle {
	vc := d.cfg.Vehicle
	v := &Vehicle{
		Name:          name,
		Authoritative: authoritative,
		Body:          NewBody(vc.Buoyancy, loc),
		Controls:      vehicle.NewControls(vc.Controls),
		Model:         buoyancy.NewModel(vc.Buoyancy),
	}
	v.Controls.SetTargetGear(vc.Gear)
	v.Controls.SetTargetTurnAngle(vc.Rudder)

	d.mu.Lock()
	d.vehicles = append(d.vehicles, v)
	d.mu.Unlock()
	return v
}

// Vehicles returns the spawned vehicles.
func (d *Driver) Vehicles() []*Vehicle {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Vehicle, len(d.vehicles))
	copy(out, d.vehicles)
	return out
}

// Close removes the ocean from its level.
func (d *Driver) Close() {
	d.level.Unregister(d.ocean)
}

// Tick advances the simulation by dt seconds. The tick runs to completion;
// the returned error only reports an evolution or bake failure, after which
// the previous height map stays in place.
func (d *Driver) Tick(dt float32) (TickStats, error) {
	start := time.Now()

	d.mu.Lock()
	d.ticks++
	d.simTime += dt
	stats := TickStats{Tick: d.ticks, Time: d.simTime}
	live := d.live
	d.mu.Unlock()

	stats.Rebuilt = d.registry.Drain(d.rebuild)

	var tickErr error
	if live {
		bakeNow := d.cfg.Simulation.BakeEvery > 0 && stats.Tick%uint64(d.cfg.Simulation.BakeEvery) == 0
		if err := d.step(stats.Time, bakeNow); err != nil {
			tickErr = err
		} else {
			stats.Evolved = true
			stats.Baked = bakeNow
		}
	}

	stats.Submerged = d.stepVehicles(dt)
	d.ocean.AdvancePannerTime(dt)

	stats.Elapsed = time.Since(start)
	d.metrics.TickDuration.Record(context.Background(), float64(stats.Elapsed.Microseconds())/1000)
	if ce := d.log.Check(zap.DebugLevel, "tick"); ce != nil {
		ce.Write(
			zap.Uint64("tick", stats.Tick),
			zap.Float32("t", stats.Time),
			zap.Bool("baked", stats.Baked),
			zap.Int("submerged", stats.Submerged),
			zap.Duration("elapsed", stats.Elapsed),
		)
	}
	return stats, tickErr
}

// Run ticks n times at the configured tick rate without pacing, stopping early
// when ctx is done. Ticks are never cut short.
func (d *Driver) Run(ctx context.Context, n int, each func(TickStats)) error {
	dt := 1 / float32(d.cfg.Simulation.TickRate)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats, err := d.Tick(dt)
		if err != nil {
			return err
		}
		if each != nil {
			each(stats)
		}
	}
	return nil
}

func (d *Driver) rebuild(s *Source) {
	prev := s.Field()
	field, err := s.rebuild()
	if err != nil {
		d.log.Error("spectrum rebuild failed, keeping previous field",
			zap.String("source", s.Name), zap.Error(err))
		return
	}
	d.metrics.SpectrumRebuild.Add(context.Background(), 1)

	if field.N != prev.N || field.Config.PatchLength != prev.Config.PatchLength {
		baker, err := bake.NewBaker(field.N, bakeConfig(d.cfg, field.Config))
		if err != nil {
			d.log.Error("resizing baker failed", zap.Error(err))
			return
		}
		d.mu.Lock()
		d.buffer = evolve.NewBuffer(field.N)
		d.baker = baker
		d.mu.Unlock()
	}
	d.log.Info("spectrum rebuilt",
		zap.String("source", s.Name),
		zap.Int("dimension", field.N),
		zap.Uint64("seed", field.Config.Seed),
	)
}

// step evolves into the back buffer, publishes it and optionally bakes the
// published field into the ocean height map.
func (d *Driver) step(t float32, bakeNow bool) error {
	field := d.source.Field()
	if field.N != d.buffer.Back().N {
		return fmt.Errorf("sim: spectrum %d does not match buffer %d", field.N, d.buffer.Back().N)
	}
	if err := d.evolver.Evolve(field, t*field.Config.TimeScale, field.Config.ChoppyScale, d.buffer.Back()); err != nil {
		return err
	}
	d.buffer.Publish()

	if !bakeNow {
		return nil
	}
	img, stats, err := d.baker.Bake(d.buffer.Front())
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.lastBake = stats
	d.mu.Unlock()
	d.ocean.SetHeightMap(img, "baked")
	return nil
}

func (d *Driver) evolveAndBake(t float32) error {
	return d.step(t, true)
}

func (d *Driver) stepVehicles(dt float32) int {
	vehicles := d.Vehicles()
	if len(vehicles) == 0 {
		return 0
	}
	sc := d.cfg.Simulation

	var g errgroup.Group
	g.SetLimit(max(1, d.evolver.Workers()))
	for _, v := range vehicles {
		g.Go(func() error {
			v.step(d.level, dt, sc.Gravity, sc.LinearDamping, sc.AngularDamping)
			return nil
		})
	}
	_ = g.Wait()

	submerged := 0
	for _, v := range vehicles {
		submerged += v.last.Submerged
	}
	return submerged
}
