package sim

import (
	"github.com/Faultbox/seacraft/internal/buoyancy"
	"github.com/Faultbox/seacraft/pkg/math"
)

// Body is a rigid body integrated with explicit Euler. Reaction forces and
// torques are impulses, already scaled by dt.
type Body struct {
	Transform buoyancy.Transform
	Velocity  math.Vec3
	// AngularVelocity is in radians per second, world space.
	AngularVelocity math.Vec3
	Mass            float32
	Inertia         float32
}

// NewBody creates a body at rest. Inertia is approximated from the spread of
// the tension points around the centre of mass.
func NewBody(p buoyancy.Params, at math.Vec3) Body {
	var spread float32
	for _, tp := range p.TensionPoints {
		spread += tp.Sub(p.COMOffset).LengthSquared()
	}
	if n := len(p.TensionPoints); n > 0 {
		spread /= float32(n)
	}
	return Body{
		Transform: buoyancy.Transform{Location: at, Rotation: math.QuatIdentity()},
		Mass:      p.Mass,
		Inertia:   max(p.Mass*spread, 1),
	}
}

// Integrate applies r and gravity for one step of dt seconds. The yaw rate in
// r replaces the body-up component of the angular velocity.
func (b *Body) Integrate(r buoyancy.Reaction, dt, gravity, linearDamping, angularDamping float32) {
	if b.Mass > 0 {
		b.Velocity = b.Velocity.Add(r.Force.Scale(1 / b.Mass))
	}
	b.Velocity.Z -= gravity * dt

	b.AngularVelocity = b.AngularVelocity.Add(r.Torque.Scale(1 / b.Inertia))
	up := b.Transform.Rotation.RotateVector(math.AxisZ)
	yaw := r.AngularVelocity.Scale(math.DegToRad(1))
	b.AngularVelocity = b.AngularVelocity.Sub(up.Scale(b.AngularVelocity.Dot(up))).Add(yaw)

	b.Velocity = b.Velocity.Scale(max(0, 1-linearDamping*dt))
	b.AngularVelocity = b.AngularVelocity.Scale(max(0, 1-angularDamping*dt))

	b.Transform.Location = b.Transform.Location.Add(b.Velocity.Scale(dt))
	if w := b.AngularVelocity.Length(); w > 0 {
		step := math.QuatFromAxisAngle(b.AngularVelocity.Scale(1/w), w*dt)
		b.Transform.Rotation = step.Mul(b.Transform.Rotation).Normalize()
	}
}
