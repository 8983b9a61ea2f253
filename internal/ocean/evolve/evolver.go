package evolve

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/seacraft/internal/logger"
	"github.com/Faultbox/seacraft/internal/ocean/spectrum"
	"github.com/Faultbox/seacraft/internal/telemetry"
)

// Evolver runs the per-cell evolution across a bounded set of goroutines,
// splitting the grid into horizontal bands.
type Evolver struct {
	workers int
	metrics *telemetry.Instruments
	log     *zap.Logger
}

// NewEvolver creates an evolver. workers <= 0 uses GOMAXPROCS.
func NewEvolver(workers int) *Evolver {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Evolver{
		workers: workers,
		metrics: telemetry.Default(),
		log:     logger.Named("evolve"),
	}
}

// Workers returns the band count used per step.
func (e *Evolver) Workers() int {
	return e.workers
}

// Evolve writes the field for time t into dst. It returns once every band has
// finished, so dst is complete when Evolve returns.
func (e *Evolver) Evolve(src *spectrum.Field, t, choppy float32, dst *Field) error {
	if err := checkDims(src, dst); err != nil {
		return err
	}
	start := time.Now()

	bands := e.workers
	if bands > dst.N {
		bands = dst.N
	}
	rowsPerBand := (dst.N + bands - 1) / bands

	var g errgroup.Group
	for y0 := 0; y0 < dst.N; y0 += rowsPerBand {
		y1 := min(y0+rowsPerBand, dst.N)
		g.Go(func() error {
			evolveRows(src, t, choppy, dst, y0, y1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	dst.Time = t

	elapsed := time.Since(start)
	e.metrics.EvolveDuration.Record(context.Background(), float64(elapsed.Microseconds())/1000)
	e.log.Debug("spectrum evolved",
		zap.Float32("t", t),
		zap.Int("n", dst.N),
		zap.Int("bands", bands),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}
