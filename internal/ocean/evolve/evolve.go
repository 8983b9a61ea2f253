// Package evolve advances the static spectrum H(0) to H(t) and derives the
// horizontal displacement spectra Dx(t), Dy(t) using the dispersion relation.
package evolve

import (
	"errors"
	"fmt"
	stdmath "math"

	"github.com/Faultbox/seacraft/internal/ocean/spectrum"
)

// ErrDimensionMismatch is returned when the output field does not match the spectrum size.
var ErrDimensionMismatch = errors.New("evolve: field dimension mismatch")

// minWaveLengthSqr guards the direction normalisation near K = 0.
const minWaveLengthSqr = 1e-12

// Field is the time-varying spectrum on an N x N row-major grid (row = y).
// It is overwritten in place every step and carries no history.
type Field struct {
	N    int
	Time float32
	Ht   []complex64
	Dx   []complex64
	Dy   []complex64
}

// NewField allocates an N x N time-varying field.
func NewField(n int) *Field {
	size := n * n
	return &Field{
		N:  n,
		Ht: make([]complex64, size),
		Dx: make([]complex64, size),
		Dy: make([]complex64, size),
	}
}

// Index returns the slice index of cell (x, y).
func (f *Field) Index(x, y int) int {
	return y*f.N + x
}

func checkDims(src *spectrum.Field, dst *Field) error {
	if src == nil || dst == nil {
		return fmt.Errorf("%w: nil field", ErrDimensionMismatch)
	}
	size := dst.N * dst.N
	if src.N != dst.N || len(dst.Ht) != size || len(dst.Dx) != size || len(dst.Dy) != size {
		return fmt.Errorf("%w: spectrum %d, output %d", ErrDimensionMismatch, src.N, dst.N)
	}
	if len(src.H0) != src.Stride*src.Stride || src.Stride != src.N+1 {
		return fmt.Errorf("%w: spectrum stride %d", ErrDimensionMismatch, src.Stride)
	}
	return nil
}

// Evolve writes H(t), Dx(t) and Dy(t) for time t into dst on the calling goroutine.
// It panics if the dimensions of src and dst disagree.
func Evolve(src *spectrum.Field, t, choppy float32, dst *Field) {
	if err := checkDims(src, dst); err != nil {
		panic(err)
	}
	evolveRows(src, t, choppy, dst, 0, dst.N)
	dst.Time = t
}

// evolveRows evaluates rows [y0, y1). Every cell depends only on src, so bands are independent.
func evolveRows(src *spectrum.Field, t, choppy float32, dst *Field, y0, y1 int) {
	n := dst.N
	half := n / 2
	tt := float64(t)

	for y := y0; y < y1; y++ {
		ky := float64(y - half)
		for x := 0; x < n; x++ {
			inIdx := y*src.Stride + x
			mirrorIdx := (n-y)*src.Stride + (n - x)

			h0k := src.H0[inIdx]
			h0mk := src.H0[mirrorIdx]

			sinV, cosV := stdmath.Sincos(float64(src.Omega[inIdx]) * tt)
			sin, cos := float32(sinV), float32(cosV)

			// H(t) = h0(K) e^(iwt) + conj(h0(-K)) e^(-iwt)
			htRe := (real(h0k)+real(h0mk))*cos - (imag(h0k)+imag(h0mk))*sin
			htIm := (real(h0k)-real(h0mk))*sin + (imag(h0k)-imag(h0mk))*cos

			kx := float64(x - half)
			sqrK := kx*kx + ky*ky
			var nx, ny float32
			if sqrK > minWaveLengthSqr {
				r := 1 / stdmath.Sqrt(sqrK)
				nx = float32(kx * r)
				ny = float32(ky * r)
			}

			out := y*n + x
			dst.Ht[out] = complex(htRe, htIm)
			// D(t) = -i * K/|K| * H(t)
			dst.Dx[out] = complex(htIm*nx*choppy, -htRe*nx*choppy)
			dst.Dy[out] = complex(htIm*ny*choppy, -htRe*ny*choppy)
		}
	}
}
