package spectrum

import (
	"errors"
	stdmath "math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/seacraft/pkg/math"
)

func scenarioConfig() Config {
	cfg := DefaultConfig()
	cfg.Dimension = 64
	cfg.PatchLength = 2000
	cfg.WaveAmplitude = 0.35
	cfg.WindDirection = math.Vec2{X: 0.8, Y: 0.6}
	cfg.WindSpeed = 600
	cfg.WindDependency = 0.07
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"defaults", func(*Config) {}, nil},
		{"zero dimension", func(c *Config) { c.Dimension = 0 }, ErrInvalidDimension},
		{"negative dimension", func(c *Config) { c.Dimension = -8 }, ErrInvalidDimension},
		{"not power of two", func(c *Config) { c.Dimension = 48 }, ErrInvalidDimension},
		{"too large", func(c *Config) { c.Dimension = MaxDimension * 2 }, ErrInvalidDimension},
		{"zero patch", func(c *Config) { c.PatchLength = 0 }, ErrInvalidPatchLength},
		{"negative patch", func(c *Config) { c.PatchLength = -10 }, ErrInvalidPatchLength},
		{"nan patch", func(c *Config) { c.PatchLength = float32(stdmath.NaN()) }, ErrInvalidPatchLength},
		{"negative wind", func(c *Config) { c.WindSpeed = -1 }, ErrInvalidWindSpeed},
		{"negative choppy", func(c *Config) { c.ChoppyScale = -1 }, ErrInvalidChoppyScale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			var cerr *ConfigError
			assert.True(t, errors.As(err, &cerr))
		})
	}
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dimension = 100
	f, err := Generate(cfg)
	assert.Nil(t, f)
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestGenerateScenario(t *testing.T) {
	f, err := Generate(scenarioConfig())
	require.NoError(t, err)

	assert.Equal(t, 64, f.N)
	assert.Equal(t, 65, f.Stride)
	assert.Len(t, f.H0, 65*65)
	assert.Len(t, f.Omega, 65*65)

	for i, h := range f.H0 {
		require.True(t, math.IsFinite(real(h)) && math.IsFinite(imag(h)), "h0[%d] = %v", i, h)
		require.True(t, math.IsFinite(f.Omega[i]), "omega[%d] = %v", i, f.Omega[i])
	}

	assert.Equal(t, complex64(0), f.AtWave(0, 0), "DC term must be suppressed")
	_, omega := f.At(f.N/2, f.N/2)
	assert.Equal(t, float32(0), omega)
	assert.Greater(t, f.Energy(), 0.0)
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	cfg := scenarioConfig()
	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, a.H0, b.H0)

	cfg.Seed++
	c, err := Generate(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.H0, c.H0)
}

func TestWaveVectorLayout(t *testing.T) {
	f, err := Generate(scenarioConfig())
	require.NoError(t, err)

	step := float32(2 * stdmath.Pi / 2000)
	k := f.WaveVector(0, 0)
	assert.InDelta(t, -32*step, k.X, 1e-6)
	assert.InDelta(t, -32*step, k.Y, 1e-6)

	// Mirror cell holds -K.
	k1 := f.WaveVector(10, 3)
	k2 := f.WaveVector(f.N-10, f.N-3)
	assert.InDelta(t, -k1.X, k2.X, 1e-6)
	assert.InDelta(t, -k1.Y, k2.Y, 1e-6)

	// Column drives K.x, row drives K.y.
	k3 := f.WaveVector(f.N/2, f.N/2+1)
	assert.InDelta(t, step, k3.X, 1e-6)
	assert.Equal(t, float32(0), k3.Y)
}

func TestPhillipsNonNegativeAndDirectionalDamping(t *testing.T) {
	wind := math.Vec2{X: 0.8, Y: 0.6}
	const (
		speed = 600
		amp   = 0.35e-7
		dep   = 0.07
	)
	for i := -16; i <= 16; i++ {
		for j := -16; j <= 16; j++ {
			k := math.Vec2{X: float32(j) * 0.003, Y: float32(i) * 0.003}
			undamped := Phillips(k, wind, speed, amp, 1)
			damped := Phillips(k, wind, speed, amp, dep)
			require.GreaterOrEqual(t, undamped, float32(0))

			dot := k.X*wind.X + k.Y*wind.Y
			if dot > -1e-6 && dot < 1e-6 {
				continue
			}
			if dot < 0 {
				assert.InDelta(t, undamped*dep, damped, float64(undamped)*1e-5+1e-30)
			} else {
				assert.Equal(t, undamped, damped)
			}
		}
	}
	assert.Equal(t, float32(0), Phillips(math.Vec2{}, wind, speed, amp, dep))
}

func TestPhillipsPerpendicularToWindIsZero(t *testing.T) {
	wind := math.Vec2{X: 1, Y: 0}
	assert.Equal(t, float32(0), Phillips(math.Vec2{X: 0, Y: 0.01}, wind, 600, 1e-7, 0.07))
}

func TestGaussStatistics(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 0))
	const n = 20000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		g := float64(Gauss(r))
		require.False(t, stdmath.IsNaN(g) || stdmath.IsInf(g, 0))
		sum += g
		sumSq += g * g
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	assert.InDelta(t, 0, mean, 0.05)
	assert.InDelta(t, 1, variance, 0.05)
}

func TestOmegaDispersion(t *testing.T) {
	k := math.Vec2{X: 0.03, Y: 0.04}
	assert.InDelta(t, stdmath.Sqrt(Gravity*0.05), float64(Omega(k)), 1e-4)
}
