package buoyancy

import (
	"context"

	"go.uber.org/zap"

	"github.com/Faultbox/seacraft/internal/logger"
	"github.com/Faultbox/seacraft/internal/ocean/heightmap"
	"github.com/Faultbox/seacraft/internal/telemetry"
	"github.com/Faultbox/seacraft/pkg/math"
)

// pressureFactor is half the density of seawater relative to fresh water.
const pressureFactor = 0.515

// Surface is the ocean as seen by a vehicle.
type Surface interface {
	ElevationAt(pos math.Vec3) float32
	SurfaceNormalAt(pos math.Vec3) heightmap.LinearColor
	WaveVelocityAt(pos math.Vec3) math.Vec3
}

// Reaction is the accumulated result of one tick. Force and Torque are
// impulses already multiplied by dt and mass.
type Reaction struct {
	Force  math.Vec3
	Torque math.Vec3
	// AngularVelocity is the yaw rate in degrees per second to add to the body.
	AngularVelocity math.Vec3
	Submerged       int
}

// Sample records what one tension point saw during the last tick.
type Sample struct {
	Point    math.Vec3
	Altitude float32
	Normal   heightmap.LinearColor
	Velocity math.Vec3
	Force    math.Vec3
}

// DynamicPressure returns 0.515 * |v|^2.
func DynamicPressure(v math.Vec3) float32 {
	return pressureFactor * v.LengthSquared()
}

// Model computes the reaction of one vehicle. A Model keeps a per-tick sample
// buffer, so each vehicle needs its own.
type Model struct {
	params  Params
	samples []Sample
	metrics *telemetry.Instruments
	log     *zap.Logger
}

// NewModel creates a model for the given vehicle parameters.
func NewModel(p Params) *Model {
	return &Model{
		params:  p,
		samples: make([]Sample, 0, len(p.TensionPoints)),
		metrics: telemetry.Default(),
		log:     logger.Named("buoyancy"),
	}
}

// Params returns the vehicle parameters.
func (m *Model) Params() Params {
	return m.params
}

// LastSamples returns the submerged points of the last tick. The slice is
// reused by the next Tick.
func (m *Model) LastSamples() []Sample {
	return m.samples
}

// Tick samples every tension point against s and returns the total reaction
// for the step. Point contributions are summed before anything is returned.
func (m *Model) Tick(s Surface, tr Transform, in Input, dt float32) Reaction {
	p := &m.params
	var r Reaction
	m.samples = m.samples[:0]

	com := tr.ToWorld(p.COMOffset)
	threshold := min(p.MinimumAltitudeToReact, 0)

	for _, local := range p.TensionPoints {
		world := tr.ToWorld(local)
		altitude := world.Z - s.ElevationAt(world)
		if altitude > 0 || altitude >= threshold {
			continue
		}
		depth := threshold - altitude

		vel := s.WaveVelocityAt(world)
		f := m.pointForce(depth, vel, dt)

		r.Force = r.Force.Add(f)
		r.Torque = r.Torque.Add(world.Sub(com).Cross(f))
		r.Submerged++

		m.samples = append(m.samples, Sample{
			Point:    world,
			Altitude: altitude,
			Normal:   s.SurfaceNormalAt(world),
			Velocity: vel,
			Force:    f,
		})
	}

	if p.UseMetacentricForces && r.Submerged > 0 {
		r.Torque = r.Torque.Add(m.metacentricTorque(tr.Rotation, dt))
	}

	m.applyMotor(&r, tr, com, in, dt)

	if r.Submerged > 0 {
		m.metrics.SubmergedPoints.Add(context.Background(), int64(r.Submerged))
	}
	if ce := m.log.Check(zap.DebugLevel, "wave reaction"); ce != nil {
		ce.Write(
			zap.Int("submerged", r.Submerged),
			zap.Float32("fz", r.Force.Z),
			zap.Float32("dt", dt),
		)
	}
	return r
}

func (m *Model) pointForce(depth float32, vel math.Vec3, dt float32) math.Vec3 {
	p := &m.params
	k := dt * p.Mass

	fz := DynamicPressure(vel) * depth * p.TensionDepthFactor * k
	if p.AltitudeFactor > 0 {
		lift := p.AltitudeFactor * depth
		if p.MaxAltitudeForce > 0 {
			lift = min(lift, p.MaxAltitudeForce)
		}
		fz += lift * k
	}

	var drift math.Vec3
	if p.VelocityFactor != 0 {
		drift = vel.Scale(p.VelocityFactor * k)
	}
	return math.Vec3{X: drift.X, Y: drift.Y, Z: fz}
}

// metacentricTorque returns the small-angle restoring torque: the tilt of the
// body up axis split into roll and pitch, each scaled by its metacenter height.
func (m *Model) metacentricTorque(rot math.Quat, dt float32) math.Vec3 {
	p := &m.params
	bodyX := rot.RotateVector(math.AxisX)
	bodyY := rot.RotateVector(math.AxisY)
	bodyUp := rot.RotateVector(math.AxisZ)

	tilt := bodyUp.Cross(math.AxisZ)
	roll := tilt.Dot(bodyX)
	pitch := tilt.Dot(bodyY)

	k := p.TensionTorqueFactor * p.Mass * dt
	return bodyX.Scale(roll * p.TensionTorqueRollFactor * p.TransverseMetacenter.Z * k).
		Add(bodyY.Scale(pitch * p.TensionTorquePitchFactor * p.LongitudinalMetacenter.Z * k))
}

func (m *Model) applyMotor(r *Reaction, tr Transform, com math.Vec3, in Input, dt float32) {
	p := &m.params
	forward := tr.Rotation.RotateVector(math.AxisX)
	up := tr.Rotation.RotateVector(math.AxisZ)

	r.AngularVelocity = up.Scale(p.TurnTorqueFactor * in.Steering)

	if in.Throttle == 0 {
		return
	}
	factor := p.ReverseForceFactor
	if in.Throttle > 0 {
		factor = p.ThrustForceFactor
	}
	f := forward.Scale(factor * p.Mass * in.Throttle * dt).
		RotateAngleAxis(p.MaxTurnAngle*-in.Steering, math.AxisZ)

	motor := tr.ToWorld(p.MotorLocation)
	r.Force = r.Force.Add(f)
	r.Torque = r.Torque.Add(motor.Sub(com).Cross(f))
}
