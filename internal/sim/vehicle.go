package sim

import (
	"github.com/Faultbox/seacraft/internal/buoyancy"
	"github.com/Faultbox/seacraft/internal/vehicle"
)

// Vehicle is one simulated ship. Authoritative vehicles resolve their own
// input; the others replay the state applied through Controls.ApplyReplicated.
type Vehicle struct {
	Name          string
	Authoritative bool
	Body          Body
	Controls      *vehicle.Controls
	Model         *buoyancy.Model

	last buoyancy.Reaction
}

// LastReaction returns the reaction applied on the last tick.
func (v *Vehicle) LastReaction() buoyancy.Reaction {
	return v.last
}

// Altitude returns the body height above the given surface.
func (v *Vehicle) Altitude(s buoyancy.Surface) float32 {
	loc := v.Body.Transform.Location
	return loc.Z - s.ElevationAt(loc)
}

func (v *Vehicle) step(s buoyancy.Surface, dt, gravity, linearDamping, angularDamping float32) {
	if v.Authoritative {
		v.Controls.UpdateAuthoritative(dt)
	}
	v.last = v.Model.Tick(s, v.Body.Transform, v.Controls.Input(), dt)
	v.Body.Integrate(v.last, dt, gravity, linearDamping, angularDamping)
}
