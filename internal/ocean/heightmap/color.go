package heightmap

import stdmath "math"

// LinearColor is a color with float channels in [0, 1], converted from the
// stored bytes. It doubles as the encoded surface normal.
type LinearColor struct {
	R, G, B, A float32
}

// Normal decodes RGB as a direction, mapping [0, 1] to [-1, 1].
func (c LinearColor) Normal() (x, y, z float32) {
	return c.R*2 - 1, c.G*2 - 1, c.B*2 - 1
}

var (
	srgbToLinear [256]float32
	byteToUnit   [256]float32
)

func init() {
	for i := range 256 {
		c := float64(i) / 255
		byteToUnit[i] = float32(c)
		if c <= 0.04045 {
			srgbToLinear[i] = float32(c / 12.92)
		} else {
			srgbToLinear[i] = float32(stdmath.Pow((c+0.055)/1.055, 2.4))
		}
	}
}

// linearize converts a raw pixel to LinearColor. RGB goes through the sRGB
// curve when srgb is set; alpha is always a plain byte/255.
func linearize(r, g, b, a byte, srgb bool) LinearColor {
	table := &byteToUnit
	if srgb {
		table = &srgbToLinear
	}
	return LinearColor{
		R: table[r],
		G: table[g],
		B: table[b],
		A: byteToUnit[a],
	}
}
