package spectrum

import (
	stdmath "math"
	"math/rand/v2"

	"github.com/Faultbox/seacraft/pkg/math"
)

// Gravity is the gravitational acceleration in engine units (cm/s^2).
const Gravity = 981.0

const (
	halfSqrt2 = 0.7071068
	// amplitudeScale maps the editor-friendly amplitude (~1.0) into the Phillips constant.
	amplitudeScale = 1e-7
	// minUniform keeps the Box-Muller log away from zero.
	minUniform = 1e-6
)

// Phillips returns the spectral density for wave vector k.
// wind must be normalized; amplitude is the raw Phillips constant.
func Phillips(k, wind math.Vec2, windSpeed, amplitude, windDependency float32) float32 {
	kx, ky := float64(k.X), float64(k.Y)
	ksqr := kx*kx + ky*ky
	if ksqr == 0 {
		return 0
	}

	// Largest possible wave from constant wind of velocity v
	l := float64(windSpeed) * float64(windSpeed) / Gravity
	// Damp out waves with very small length w << l
	w := l / 1000

	kcos := kx*float64(wind.X) + ky*float64(wind.Y)
	p := float64(amplitude) * stdmath.Exp(-1/(l*l*ksqr)) / (ksqr * ksqr * ksqr) * (kcos * kcos)

	if kcos < 0 {
		p *= float64(windDependency)
	}

	return float32(p * stdmath.Exp(-ksqr*w*w))
}

// Gauss draws a standard normal variate via Box-Muller.
func Gauss(r *rand.Rand) float32 {
	u1 := r.Float64()
	u2 := r.Float64()
	if u1 < minUniform {
		u1 = minUniform
	}
	return float32(stdmath.Sqrt(-2*stdmath.Log(u1)) * stdmath.Cos(2*stdmath.Pi*u2))
}

// Omega returns the deep-water angular frequency sqrt(g*|k|).
func Omega(k math.Vec2) float32 {
	return float32(stdmath.Sqrt(Gravity * float64(k.Length())))
}

func sqrt32(v float32) float32 {
	return float32(stdmath.Sqrt(float64(v)))
}
