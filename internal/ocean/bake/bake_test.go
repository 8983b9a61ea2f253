package bake

import (
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/seacraft/internal/ocean/evolve"
	"github.com/Faultbox/seacraft/internal/ocean/spectrum"
	"github.com/Faultbox/seacraft/pkg/math"
)

// singleWave returns a field holding one unit mode at K = (1, 0).
func singleWave(n int) *evolve.Field {
	f := evolve.NewField(n)
	f.Ht[f.Index(n/2+1, n/2)] = 1
	f.Time = 2.5
	return f
}

func TestBakeSingleWave(t *testing.T) {
	const n = 16
	b, err := NewBaker(n, Config{PatchLength: n, Workers: 2})
	require.NoError(t, err)

	img, stats, err := b.Bake(singleWave(n))
	require.NoError(t, err)

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			want := stdmath.Cos(2 * stdmath.Pi * float64(x) / n)
			assert.InDelta(t, want, b.Height(x, y), 1e-5, "cell (%d,%d)", x, y)
		}
	}

	assert.Equal(t, float32(2.5), stats.Time)
	assert.InDelta(t, 1, stats.MaxHeight, 1e-5)
	assert.InDelta(t, -1, stats.MinHeight, 1e-5)
	assert.InDelta(t, 1, stats.Range, 1e-5)
	assert.Zero(t, stats.Clipped)

	assert.False(t, img.SRGB)
	assert.Equal(t, uint8(255), img.At(0, 3).A)
	assert.Equal(t, uint8(0), img.At(n/2, 3).A)

	// The crest falls away towards +x at a quarter period, so the normal leans +x.
	assert.Greater(t, img.At(n/4, 0).R, uint8(150))
	assert.Less(t, img.At(3*n/4, 0).R, uint8(105))
	assert.InDelta(t, 128, int(img.At(n/4, 0).G), 1)
}

func TestBakeFlatField(t *testing.T) {
	b, err := NewBaker(8, Config{PatchLength: 100})
	require.NoError(t, err)

	img, stats, err := b.Bake(evolve.NewField(8))
	require.NoError(t, err)
	assert.Zero(t, stats.Range)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := img.At(x, y)
			assert.Equal(t, uint8(128), c.A)
			assert.Equal(t, uint8(128), c.R)
			assert.Equal(t, uint8(128), c.G)
			assert.Equal(t, uint8(255), c.B)
		}
	}
}

func TestBakeFixedRangeClips(t *testing.T) {
	b, err := NewBaker(16, Config{PatchLength: 16, HeightRange: 0.5})
	require.NoError(t, err)

	_, stats, err := b.Bake(singleWave(16))
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), stats.Range)
	assert.Positive(t, stats.Clipped)
}

func TestBakeWorkersAgree(t *testing.T) {
	cfg := spectrum.DefaultConfig()
	cfg.Dimension = 32
	cfg.WindDirection = math.Vec2{X: 0.8, Y: 0.6}
	src, err := spectrum.Generate(cfg)
	require.NoError(t, err)

	f := evolve.NewField(32)
	evolve.Evolve(src, 1.5, cfg.ChoppyScale, f)

	one, err := NewBaker(32, Config{PatchLength: cfg.PatchLength, Workers: 1})
	require.NoError(t, err)
	many, err := NewBaker(32, Config{PatchLength: cfg.PatchLength, Workers: 7})
	require.NoError(t, err)

	a, _, err := one.Bake(f)
	require.NoError(t, err)
	b, statsB, err := many.Bake(f)
	require.NoError(t, err)

	assert.Equal(t, a.Pix, b.Pix)
	assert.NoError(t, b.Validate())
	assert.True(t, math.IsFinite(statsB.Range))
	assert.Positive(t, statsB.Range)
}

func TestBakeRejectsMismatch(t *testing.T) {
	b, err := NewBaker(16, Config{PatchLength: 10})
	require.NoError(t, err)

	_, _, err = b.Bake(evolve.NewField(8))
	assert.ErrorIs(t, err, ErrSizeMismatch)
	_, _, err = b.Bake(nil)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestNewBakerValidates(t *testing.T) {
	_, err := NewBaker(12, Config{PatchLength: 10})
	assert.Error(t, err)
	_, err = NewBaker(16, Config{})
	assert.Error(t, err)
}
