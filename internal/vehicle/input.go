// Package vehicle resolves ship control input: slew-limited throttle and
// steering derived from the selected gear and turn angle, and the replicated
// state remote observers consume instead of raw input.
package vehicle

import "github.com/Faultbox/seacraft/pkg/math"

// InputRate limits how fast an input value may change, in units per second.
type InputRate struct {
	Rise float32 `yaml:"rise"`
	Fall float32 `yaml:"fall"`
}

// Interp moves current towards target by at most dt*Rise when the magnitude
// grows and dt*Fall when it shrinks or changes sign.
func (r InputRate) Interp(dt, current, target float32) float32 {
	delta := target - current
	rising := (delta > 0) == (current > 0)
	limit := dt * r.Fall
	if rising {
		limit = dt * r.Rise
	}
	return current + math.Clamp(delta, -limit, limit)
}
