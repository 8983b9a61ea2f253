package spectrum

import (
	stdmath "math"
	"math/rand/v2"

	"github.com/Faultbox/seacraft/pkg/math"
)

// Field is the static spectrum: H(0) amplitudes and angular frequencies on an
// (N+1)x(N+1) row-major grid. Row i holds K.y = (i - N/2) * 2pi/L and column j
// holds K.x = (j - N/2) * 2pi/L, so cell (N-i, N-j) is the mirror -K of (i, j).
// A Field is read-only after Generate returns.
type Field struct {
	Config Config
	N      int
	Stride int
	H0     []complex64
	Omega  []float32
}

// Index returns the slice index of row i, column j.
func (f *Field) Index(i, j int) int {
	return i*f.Stride + j
}

// At returns h0 and omega at row i, column j.
func (f *Field) At(i, j int) (complex64, float32) {
	idx := i*f.Stride + j
	return f.H0[idx], f.Omega[idx]
}

// AtWave returns h0 for the signed wave numbers (kx, ky) in [-N/2, N/2].
func (f *Field) AtWave(kx, ky int) complex64 {
	return f.H0[f.Index(ky+f.N/2, kx+f.N/2)]
}

// WaveVector returns K for row i, column j.
func (f *Field) WaveVector(i, j int) math.Vec2 {
	return waveVector(f.N, f.Config.PatchLength, i, j)
}

// Energy returns the sum of |h0|^2 over the grid.
func (f *Field) Energy() float64 {
	var e float64
	for _, h := range f.H0 {
		re, im := float64(real(h)), float64(imag(h))
		e += re*re + im*im
	}
	return e
}

func waveVector(n int, patchLength float32, i, j int) math.Vec2 {
	step := float32(2 * stdmath.Pi / float64(patchLength))
	half := float32(n) / 2
	return math.Vec2{
		X: (-half + float32(j)) * step,
		Y: (-half + float32(i)) * step,
	}
}

// Generate builds the field from cfg, seeding the Gaussian stream with cfg.Seed.
func Generate(cfg Config) (*Field, error) {
	return GenerateWithRand(cfg, rand.New(rand.NewPCG(cfg.Seed, 0)))
}

// GenerateWithRand builds the field drawing Gaussian variates from r.
// Each cell draws two variates in row-major order.
func GenerateWithRand(cfg Config, r *rand.Rand) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := cfg.Dimension
	stride := n + 1
	f := &Field{
		Config: cfg,
		N:      n,
		Stride: stride,
		H0:     make([]complex64, stride*stride),
		Omega:  make([]float32, stride*stride),
	}

	wind := cfg.WindDirection.Normalize()
	a := cfg.WaveAmplitude * amplitudeScale

	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			k := waveVector(n, cfg.PatchLength, i, j)

			var phil float32
			if k.X != 0 || k.Y != 0 {
				phil = sqrt32(Phillips(k, wind, cfg.WindSpeed, a, cfg.WindDependency))
			}

			re := phil * Gauss(r) * halfSqrt2
			im := phil * Gauss(r) * halfSqrt2

			idx := i*stride + j
			f.H0[idx] = complex(re, im)
			f.Omega[idx] = Omega(k)
		}
	}

	return f, nil
}
