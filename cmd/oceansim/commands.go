package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/seacraft/internal/assets"
	"github.com/Faultbox/seacraft/internal/config"
	"github.com/Faultbox/seacraft/internal/logger"
	"github.com/Faultbox/seacraft/internal/ocean"
	"github.com/Faultbox/seacraft/internal/ocean/bake"
	"github.com/Faultbox/seacraft/internal/ocean/evolve"
	"github.com/Faultbox/seacraft/internal/ocean/heightmap"
	"github.com/Faultbox/seacraft/internal/ocean/spectrum"
	"github.com/Faultbox/seacraft/internal/sim"
	"github.com/Faultbox/seacraft/pkg/math"
)

var errUsage = errors.New("invalid arguments")

func parseFloat(s, name string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", errUsage, name, s, err)
	}
	return float32(v), nil
}

func cmdGenerate(cfg *config.Config, _ []string) error {
	field, err := spectrum.Generate(cfg.Spectrum)
	if err != nil {
		return err
	}

	finite := 0
	for _, h := range field.H0 {
		if math.IsFinite(real(h)) && math.IsFinite(imag(h)) {
			finite++
		}
	}

	logger.Info("spectrum generated",
		zap.Int("dimension", field.N),
		zap.Int("cells", len(field.H0)),
		zap.Uint64("seed", field.Config.Seed),
	)
	fmt.Printf("Dimension:    %d (%dx%d cells)\n", field.N, field.Stride, field.Stride)
	fmt.Printf("Patch length: %.1f\n", field.Config.PatchLength)
	fmt.Printf("Seed:         %d\n", field.Config.Seed)
	fmt.Printf("Energy:       %.6g\n", field.Energy())
	fmt.Printf("Finite cells: %d/%d\n", finite, len(field.H0))
	fmt.Printf("DC term:      %v\n", field.AtWave(0, 0))
	return nil
}

func cmdBake(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: oceansim bake <out.png> [t]")
		return errUsage
	}
	out := args[0]
	var t float32
	if len(args) > 1 {
		var err error
		if t, err = parseFloat(args[1], "time"); err != nil {
			return err
		}
	}

	field, err := spectrum.Generate(cfg.Spectrum)
	if err != nil {
		return err
	}

	ht := evolve.NewField(field.N)
	if err := evolve.NewEvolver(cfg.Simulation.Workers).Evolve(field, t*field.Config.TimeScale, field.Config.ChoppyScale, ht); err != nil {
		return err
	}

	baker, err := bake.NewBaker(field.N, bake.Config{
		PatchLength: field.Config.PatchLength,
		HeightRange: cfg.Simulation.HeightRange,
		Workers:     cfg.Simulation.Workers,
	})
	if err != nil {
		return err
	}
	img, stats, err := baker.Bake(ht)
	if err != nil {
		return err
	}
	if err := heightmap.SavePNG(out, img); err != nil {
		return err
	}

	logger.Info("heightmap written",
		zap.String("path", out),
		zap.Float32("t", t),
		zap.Float32("min", stats.MinHeight),
		zap.Float32("max", stats.MaxHeight),
		zap.Int("clipped", stats.Clipped),
	)
	return nil
}

func cmdSample(cfg *config.Config, args []string) error {
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: oceansim sample <image> <x> <y>")
		return errUsage
	}
	x, err := parseFloat(args[1], "x")
	if err != nil {
		return err
	}
	y, err := parseFloat(args[2], "y")
	if err != nil {
		return err
	}

	mgr := assets.NewManager(cfg.Ocean.AssetRoots...)
	defer mgr.Close()

	o := ocean.New(cfg.Ocean.State)
	img, err := mgr.LoadHeightMap(args[0], cfg.Ocean.SRGB)
	if err != nil {
		logger.Warn("heightmap load failed", zap.String("image", args[0]), zap.Error(err))
	}
	o.SetHeightMap(img, args[0])

	level := ocean.NewLevel()
	if err := level.Register(o); err != nil {
		return err
	}

	pos := math.Vec3{X: x, Y: y}
	n := level.SurfaceNormalAt(pos)
	nx, ny, nz := n.Normal()
	v := level.WaveVelocityAt(pos)

	fmt.Printf("Position:  (%.2f, %.2f)\n", x, y)
	fmt.Printf("Elevation: %.4f\n", level.ElevationAt(pos))
	fmt.Printf("Normal:    (%.4f, %.4f, %.4f)\n", nx, ny, nz)
	fmt.Printf("Velocity:  (%.4f, %.4f, %.4f)\n", v.X, v.Y, v.Z)
	fmt.Printf("Waves:     %d\n", level.WavesCount())
	fmt.Printf("Degraded:  %v\n", !o.HeightMapReady())
	return nil
}

func cmdRun(cfg *config.Config, args []string) error {
	ticks := 300
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("%w: ticks %q", errUsage, args[0])
		}
		ticks = n
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := ocean.NewLevel()
	driver, err := sim.NewDriver(cfg, level)
	if err != nil {
		return err
	}
	defer driver.Close()

	if cfg.Ocean.HeightMap != "" {
		mgr := assets.NewManager(cfg.Ocean.AssetRoots...)
		defer mgr.Close()
		img, err := mgr.LoadHeightMap(cfg.Ocean.HeightMap, cfg.Ocean.SRGB)
		if err != nil {
			logger.Warn("heightmap load failed, running degraded",
				zap.String("image", cfg.Ocean.HeightMap), zap.Error(err))
		}
		driver.UseHeightMap(img, cfg.Ocean.HeightMap)
	}

	ship := driver.AddVehicle("ship", cfg.Vehicle.Spawn, true)
	ship.Body.Transform.Rotation = cfg.Vehicle.SpawnRotation.Quat()
	every := max(1, cfg.Simulation.TickRate)

	err = driver.Run(ctx, ticks, func(s sim.TickStats) {
		if s.Tick%uint64(every) != 0 {
			return
		}
		loc := ship.Body.Transform.Location
		logger.Info("tick",
			zap.Uint64("tick", s.Tick),
			zap.Float32("t", s.Time),
			zap.Float32("x", loc.X),
			zap.Float32("y", loc.Y),
			zap.Float32("z", loc.Z),
			zap.Float32("altitude", ship.Altitude(level)),
			zap.Int("submerged", s.Submerged),
			zap.Duration("elapsed", s.Elapsed),
		)
	})
	if errors.Is(err, context.Canceled) {
		logger.Info("simulation interrupted", zap.Uint64("ticks", driver.Ticks()))
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("simulation finished",
		zap.Uint64("ticks", driver.Ticks()),
		zap.Float32("time", driver.Time()),
	)
	return nil
}
