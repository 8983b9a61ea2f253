package heightmap

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// gradient builds an image where alpha encodes x and red encodes y.
func gradient(w, h int) *Image {
	m := NewImage(w, h, false)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.NRGBA{R: uint8(y), G: 128, B: 255, A: uint8(x * 10)})
		}
	}
	return m
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{0.25, 0.25},
		{1, 0},
		{1.5, 0.5},
		{-0.25, 0.75},
		{-1, 0},
		{-2.5, 0.5},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, Wrap(tt.in), 1e-12, "Wrap(%v)", tt.in)
	}
}

func TestSampleBoundariesStayInBounds(t *testing.T) {
	m := gradient(16, 8)
	s := NewSampler(m)
	require.True(t, s.Ready())

	for _, u := range []float64{0, 1, -1, 0.999999999, -0.000000001, 1e9, -1e9} {
		for _, v := range []float64{0, 1, -1, 0.999999999} {
			x, y := s.Pixel(u, v)
			assert.True(t, x >= 0 && x < m.Width, "x=%d for u=%v", x, u)
			assert.True(t, y >= 0 && y < m.Height, "y=%d for v=%v", y, v)
			assert.NotPanics(t, func() { s.Sample(u, v) })
		}
	}
}

func TestPixelAddressing(t *testing.T) {
	s := NewSampler(gradient(11, 11))

	x, y := s.Pixel(0, 0)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	// floor(0.55*10) = 5
	x, _ = s.Pixel(0.55, 0)
	assert.Equal(t, 5, x)

	x, _ = s.Pixel(0.1, 0)
	assert.Equal(t, 1, x)

	// Just below one stays one short of the last pixel.
	x, _ = s.Pixel(0.9999, 0)
	assert.Equal(t, 9, x)

	// Negative coordinates wrap from the top: -0.45 -> 0.55.
	x, _ = s.Pixel(-0.45, 0)
	assert.Equal(t, 5, x)
}

func TestFirstColumnIsSampled(t *testing.T) {
	m := NewImage(8, 8, false)
	for y := 0; y < 8; y++ {
		m.Set(0, y, color.NRGBA{A: 255})
	}
	s := NewSampler(m)

	hits := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if elev, _ := s.Sample(float64(i)/n, 0.5); elev == 1 {
			hits++
		}
	}
	// u in [0, 1/7) addresses column 0.
	assert.InDelta(t, n/7, hits, 2)
}

func TestSampleReadsAlphaAsElevation(t *testing.T) {
	s := NewSampler(gradient(11, 11))

	// Pixel (5, 3).
	elev, c := s.Sample(0.55, 0.35)
	assert.InDelta(t, 50.0/255, elev, 1e-6)
	assert.InDelta(t, 3.0/255, c.R, 1e-6)
	assert.InDelta(t, 128.0/255, c.G, 1e-6)
	assert.Equal(t, float32(1), c.B)
	assert.Equal(t, elev, c.A)
}

func TestSampleIsPeriodic(t *testing.T) {
	s := NewSampler(gradient(11, 11))

	e0, c0 := s.Sample(0.33, 0.71)
	for _, shift := range []float64{1, 2, -1, -3} {
		e, c := s.Sample(0.33+shift, 0.71+shift)
		assert.Equal(t, e0, e, "shift %v", shift)
		assert.Equal(t, c0, c, "shift %v", shift)
	}
}

func TestSRGBConversion(t *testing.T) {
	m := NewImage(2, 2, true)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			m.Set(x, y, color.NRGBA{R: 188, G: 0, B: 255, A: 188})
		}
	}
	_, c := NewSampler(m).Sample(0.5, 0.5)

	// sRGB 188 is roughly linear 0.5; alpha stays a plain ratio.
	assert.InDelta(t, 0.5, c.R, 0.01)
	assert.Equal(t, float32(0), c.G)
	assert.InDelta(t, 1, c.B, 1e-6)
	assert.InDelta(t, 188.0/255, c.A, 1e-6)
}

func TestNeutralSampler(t *testing.T) {
	for _, s := range []*Sampler{nil, NewSampler(nil), NewSampler(&Image{Width: 4, Height: 4})} {
		assert.False(t, s.Ready())
		elev, c := s.Sample(0.5, 0.5)
		assert.Zero(t, elev)
		assert.Equal(t, LinearColor{}, c)
	}
}

func TestNormalDecode(t *testing.T) {
	x, y, z := LinearColor{R: 0.5, G: 0.5, B: 1}.Normal()
	assert.Equal(t, float32(0), x)
	assert.Equal(t, float32(0), y)
	assert.Equal(t, float32(1), z)
}

func TestFromImageKeepsStraightAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 10})

	m, err := FromImage(src, false)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 10}, m.At(0, 0))

	_, err = FromImage(image.NewNRGBA(image.Rect(0, 0, 0, 0)), false)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestPNGRoundTrip(t *testing.T) {
	m := gradient(5, 3)
	path := filepath.Join(t.TempDir(), "ocean.png")
	require.NoError(t, SavePNG(path, m))

	got, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, m.Width, got.Width)
	assert.Equal(t, m.Height, got.Height)
	assert.Equal(t, m.Pix, got.Pix)
}

func TestLoadBMPAndTIFF(t *testing.T) {
	dir := t.TempDir()

	opaque := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for i := range opaque.Pix {
		opaque.Pix[i] = 255
	}
	opaque.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, opaque))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bmp"), buf.Bytes(), 0o644))

	m, err := Load(filepath.Join(dir, "a.bmp"), true)
	require.NoError(t, err)
	assert.True(t, m.SRGB)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, m.At(1, 1))

	src := gradient(4, 4).ToNRGBA()
	buf.Reset()
	require.NoError(t, tiff.Encode(&buf, src, nil))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.tiff"), buf.Bytes(), 0o644))

	m, err = Load(filepath.Join(dir, "a.tiff"), false)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, m.Pix)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.png"), false)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "ocean.jpg")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))
	_, err = Load(path, false)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	path = filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o644))
	_, err = Load(path, false)
	assert.Error(t, err)
}

func tgaHeader(imageType byte, w, h int, bpp byte, descriptor byte) []byte {
	hdr := make([]byte, 18)
	hdr[2] = imageType
	hdr[12] = byte(w)
	hdr[13] = byte(w >> 8)
	hdr[14] = byte(h)
	hdr[15] = byte(h >> 8)
	hdr[16] = bpp
	hdr[17] = descriptor
	return hdr
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// Bottom-up 2x2, 32 bpp, BGRA.
	data := tgaHeader(tgaTypeUncompressed, 2, 2, 32, 0)
	data = append(data,
		1, 2, 3, 4, 5, 6, 7, 8, // bottom row
		9, 10, 11, 12, 13, 14, 15, 16, // top row
	)

	img, err := DecodeTGA(data)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 11, G: 10, B: 9, A: 12}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 3, G: 2, B: 1, A: 4}, img.NRGBAAt(0, 1))
	assert.Equal(t, color.NRGBA{R: 7, G: 6, B: 5, A: 8}, img.NRGBAAt(1, 1))
}

func TestDecodeTGARLE(t *testing.T) {
	// Top-down 3x1, 24 bpp: one run of two pixels and one raw pixel.
	data := tgaHeader(tgaTypeRLE, 3, 1, 24, 0x20)
	data = append(data,
		0x81, 30, 20, 10,
		0x00, 3, 2, 1,
	)

	m, err := Decode(data, "tga", false)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, m.At(0, 0))
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, m.At(1, 0))
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, m.At(2, 0))
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short", []byte{0, 0, 2}},
		{"color mapped", append([]byte{0, 1}, make([]byte, 16)...)},
		{"bad type", tgaHeader(3, 1, 1, 24, 0)},
		{"bad depth", tgaHeader(tgaTypeUncompressed, 1, 1, 16, 0)},
		{"truncated", tgaHeader(tgaTypeUncompressed, 2, 2, 24, 0)},
		{"truncated rle", tgaHeader(tgaTypeRLE, 2, 2, 24, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTGA(tt.data)
			assert.Error(t, err)
		})
	}
}
