// Package bake turns the evolved frequency-domain field into a spatial height
// map: height normalised into alpha and the displaced surface normal in RGB.
package bake

import (
	"context"
	"errors"
	"fmt"
	stdmath "math"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/seacraft/internal/logger"
	"github.com/Faultbox/seacraft/internal/ocean/evolve"
	"github.com/Faultbox/seacraft/internal/ocean/heightmap"
	"github.com/Faultbox/seacraft/internal/telemetry"
	"github.com/Faultbox/seacraft/pkg/math"
)

// ErrSizeMismatch is returned when a field does not match the baker dimension.
var ErrSizeMismatch = errors.New("bake: field size mismatch")

// Config controls baking.
type Config struct {
	// PatchLength is the world size of one tile, used for the normal slopes.
	PatchLength float32
	// HeightRange maps +-HeightRange to alpha 0..1. Zero uses the largest
	// absolute height of each bake.
	HeightRange float32
	Workers     int
}

// Stats describes the last bake.
type Stats struct {
	Time      float32
	MinHeight float32
	MaxHeight float32
	Range     float32
	Clipped   int
}

// Baker owns the scratch buffers for one grid size. It is not safe for
// concurrent use; each Bake returns a fresh image.
type Baker struct {
	n       int
	cfg     Config
	h       []complex128
	dx      []complex128
	dy      []complex128
	height  []float32
	metrics *telemetry.Instruments
	log     *zap.Logger
}

// NewBaker allocates a baker for an n x n field.
func NewBaker(n int, cfg Config) (*Baker, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("bake: dimension %d is not a power of two", n)
	}
	if cfg.PatchLength <= 0 {
		return nil, fmt.Errorf("bake: patch length %v must be positive", cfg.PatchLength)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	size := n * n
	return &Baker{
		n:       n,
		cfg:     cfg,
		h:       make([]complex128, size),
		dx:      make([]complex128, size),
		dy:      make([]complex128, size),
		height:  make([]float32, size),
		metrics: telemetry.Default(),
		log:     logger.Named("bake"),
	}, nil
}

// N returns the grid dimension.
func (b *Baker) N() int {
	return b.n
}

// Height returns the spatial height of cell (x, y) from the last bake.
func (b *Baker) Height(x, y int) float32 {
	return b.height[y*b.n+x]
}

// Displacement returns the horizontal displacement of cell (x, y) from the last bake.
func (b *Baker) Displacement(x, y int) (float32, float32) {
	i := y*b.n + x
	return float32(real(b.dx[i])), float32(real(b.dy[i]))
}

// Bake transforms f into the spatial domain and encodes it as a height map.
func (b *Baker) Bake(f *evolve.Field) (*heightmap.Image, Stats, error) {
	if f == nil || f.N != b.n || len(f.Ht) != b.n*b.n {
		return nil, Stats{}, ErrSizeMismatch
	}
	start := time.Now()

	for i := range f.Ht {
		b.h[i] = complex128(f.Ht[i])
		b.dx[i] = complex128(f.Dx[i])
		b.dy[i] = complex128(f.Dy[i])
	}

	var g errgroup.Group
	for _, grid := range [][]complex128{b.h, b.dx, b.dy} {
		g.Go(func() error {
			return inverse2D(grid, b.n, max(1, b.cfg.Workers/3))
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	stats := b.resolve()
	stats.Time = f.Time
	img := b.encode(&stats)

	elapsed := time.Since(start)
	b.metrics.BakeDuration.Record(context.Background(), float64(elapsed.Microseconds())/1000)
	b.log.Debug("heightmap baked",
		zap.Float32("t", f.Time),
		zap.Float32("min", stats.MinHeight),
		zap.Float32("max", stats.MaxHeight),
		zap.Float32("range", stats.Range),
		zap.Int("clipped", stats.Clipped),
		zap.Duration("elapsed", elapsed),
	)
	return img, stats, nil
}

// resolve applies the (-1)^(x+y) shift that moves the centred spectrum origin
// to index 0, and records the height extent.
func (b *Baker) resolve() Stats {
	s := Stats{MinHeight: stdmath.MaxFloat32, MaxHeight: -stdmath.MaxFloat32}
	n := b.n
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := y*n + x
			if (x+y)&1 == 1 {
				b.h[i] = -b.h[i]
				b.dx[i] = -b.dx[i]
				b.dy[i] = -b.dy[i]
			}
			h := float32(real(b.h[i]))
			b.height[i] = h
			s.MinHeight = min(s.MinHeight, h)
			s.MaxHeight = max(s.MaxHeight, h)
		}
	}

	s.Range = b.cfg.HeightRange
	if s.Range <= 0 {
		s.Range = max(-s.MinHeight, s.MaxHeight)
	}
	return s
}

func (b *Baker) encode(s *Stats) *heightmap.Image {
	n := b.n
	img := heightmap.NewImage(n, n, false)
	cell := float64(b.cfg.PatchLength) / float64(n)
	wrap := func(v int) int { return (v + n) % n }

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := y*n + x
			h := b.height[i]

			a := float32(0.5)
			if s.Range > 0 {
				a = 0.5 + 0.5*h/s.Range
			}
			if a < 0 || a > 1 {
				s.Clipped++
			}

			l, r := y*n+wrap(x-1), y*n+wrap(x+1)
			d, u := wrap(y-1)*n+x, wrap(y+1)*n+x

			tx := math.Vec3{
				X: float32(2*cell + real(b.dx[r]) - real(b.dx[l])),
				Y: float32(real(b.dy[r]) - real(b.dy[l])),
				Z: b.height[r] - b.height[l],
			}
			ty := math.Vec3{
				X: float32(real(b.dx[u]) - real(b.dx[d])),
				Y: float32(2*cell + real(b.dy[u]) - real(b.dy[d])),
				Z: b.height[u] - b.height[d],
			}
			nrm := tx.Cross(ty).Normalize()
			if nrm.Z < 0 {
				nrm = nrm.Scale(-1)
			}

			p := img.Pix[i*4 : i*4+4 : i*4+4]
			p[0] = unitToByte(nrm.X*0.5 + 0.5)
			p[1] = unitToByte(nrm.Y*0.5 + 0.5)
			p[2] = unitToByte(nrm.Z*0.5 + 0.5)
			p[3] = unitToByte(a)
		}
	}
	return img
}

func unitToByte(v float32) byte {
	return byte(math.Clamp(v, 0, 1)*255 + 0.5)
}
