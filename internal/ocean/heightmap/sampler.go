package heightmap

import (
	stdmath "math"

	"github.com/Faultbox/seacraft/pkg/math"
)

// Sampler reads elevation and normal from an Image at wrapped UV coordinates.
// A Sampler is immutable and safe for concurrent use.
type Sampler struct {
	img *Image
}

// NewSampler wraps img. A nil or malformed image yields a sampler that
// returns neutral values.
func NewSampler(img *Image) *Sampler {
	if img.Validate() != nil {
		return &Sampler{}
	}
	return &Sampler{img: img}
}

// Ready reports whether pixel data is available.
func (s *Sampler) Ready() bool {
	return s != nil && s.img != nil
}

// Image returns the sampled image, or nil when not ready.
func (s *Sampler) Image() *Image {
	if s == nil {
		return nil
	}
	return s.img
}

// Wrap maps any coordinate into [0, 1): positive values keep their fractional
// part, the rest are shifted up by one.
func Wrap(u float64) float64 {
	if u > 0 {
		return math.Fractional(u)
	}
	w := 1 + math.Fractional(u)
	if w >= 1 {
		// u is a non-positive integer
		w = 0
	}
	return w
}

// pixelIndex maps a wrapped coordinate onto [0, size) as floor(u*(size-1)).
// The last pixel is only reached by u == 1, which Wrap never yields.
func pixelIndex(u float64, size int) int {
	p := int(stdmath.Floor(u * float64(size-1)))
	return min(max(p, 0), size-1)
}

// Pixel returns the pixel coordinates that (u, v) addresses.
func (s *Sampler) Pixel(u, v float64) (x, y int) {
	if !s.Ready() {
		return 0, 0
	}
	return pixelIndex(Wrap(u), s.img.Width), pixelIndex(Wrap(v), s.img.Height)
}

// Sample returns the elevation (alpha in [0, 1]) and the stored color at (u, v).
// Without pixel data it returns zero elevation and a zero normal.
func (s *Sampler) Sample(u, v float64) (float32, LinearColor) {
	if !s.Ready() {
		return 0, LinearColor{}
	}
	x, y := s.Pixel(u, v)
	i := s.img.Offset(x, y)
	p := s.img.Pix[i : i+4 : i+4]
	c := linearize(p[0], p[1], p[2], p[3], s.img.SRGB)
	return c.A, c
}
