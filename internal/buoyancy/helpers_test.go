package buoyancy

import stdmath "math"

func sin32(x float32) float32 { return float32(stdmath.Sin(float64(x))) }
func cos32(x float32) float32 { return float32(stdmath.Cos(float64(x))) }
