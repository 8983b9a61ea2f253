// Package math provides the small vector and rotation types shared by the ocean and vehicle code.
package math

import "math"

// Vec2 is a horizontal vector: a wave vector or a wind direction.
type Vec2 struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Length is computed in float64 so tiny wave vectors keep their precision.
func (v Vec2) Length() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// Normalize returns v scaled to unit length. The zero vector stays zero so an
// unset wind direction never produces NaN.
func (v Vec2) Normalize() Vec2 {
	if l := v.Length(); l > 0 {
		return v.Scale(1 / l)
	}
	return Vec2{}
}
