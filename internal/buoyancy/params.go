// Package buoyancy accumulates the per-tick wave reaction of a floating
// vehicle: dynamic-pressure lift at hull tension points, an optional
// metacentric restoring torque and the motor thrust.
package buoyancy

import "github.com/Faultbox/seacraft/pkg/math"

// Params describes one vehicle type. Offsets are in vehicle-local space.
type Params struct {
	Mass          float32   `yaml:"mass"`
	COMOffset     math.Vec3 `yaml:"com_offset"`
	MotorLocation math.Vec3 `yaml:"motor_location"`

	// TensionPoints are the hull sample locations.
	TensionPoints []math.Vec3 `yaml:"tension_points"`

	TensionDepthFactor       float32 `yaml:"tension_depth_factor"`
	TensionTorqueFactor      float32 `yaml:"tension_torque_factor"`
	TensionTorqueRollFactor  float32 `yaml:"tension_torque_roll_factor"`
	TensionTorquePitchFactor float32 `yaml:"tension_torque_pitch_factor"`

	UseMetacentricForces   bool      `yaml:"use_metacentric_forces"`
	LongitudinalMetacenter math.Vec3 `yaml:"longitudinal_metacenter"`
	TransverseMetacenter   math.Vec3 `yaml:"transverse_metacenter"`

	// AltitudeFactor adds a depth-proportional lift per point, capped by
	// MaxAltitudeForce when that is positive. Zero disables it.
	AltitudeFactor   float32 `yaml:"altitude_factor"`
	MaxAltitudeForce float32 `yaml:"max_altitude_force"`
	// VelocityFactor drags submerged points along the wave velocity. Zero disables it.
	VelocityFactor float32 `yaml:"velocity_factor"`

	ThrustForceFactor  float32 `yaml:"thrust_force_factor"`
	ReverseForceFactor float32 `yaml:"reverse_force_factor"`
	TurnTorqueFactor   float32 `yaml:"turn_torque_factor"`
	// MaxTurnAngle is in degrees.
	MaxTurnAngle float32 `yaml:"max_turn_angle"`

	// MinimumAltitudeToReact is the altitude below which points produce force.
	// Positive values are treated as zero.
	MinimumAltitudeToReact float32 `yaml:"minimum_altitude_to_react"`
}

// DefaultParams returns a small patrol boat hull.
func DefaultParams() Params {
	return Params{
		Mass:          1500,
		MotorLocation: math.Vec3{X: -300},
		TensionPoints: []math.Vec3{
			{X: 250, Y: 0, Z: -40},
			{X: 100, Y: -120, Z: -40},
			{X: 100, Y: 120, Z: -40},
			{X: -100, Y: -120, Z: -40},
			{X: -100, Y: 120, Z: -40},
			{X: -250, Y: 0, Z: -40},
		},
		TensionDepthFactor:       10,
		TensionTorqueFactor:      1,
		TensionTorqueRollFactor:  1,
		TensionTorquePitchFactor: 1,
		LongitudinalMetacenter:   math.Vec3{Z: 200},
		TransverseMetacenter:     math.Vec3{Z: 80},
		ThrustForceFactor:        40000,
		ReverseForceFactor:       10000,
		TurnTorqueFactor:         40,
		MaxTurnAngle:             10,
	}
}

// Transform is a vehicle pose in world space.
type Transform struct {
	Location math.Vec3
	Rotation math.Quat
}

// ToWorld maps a vehicle-local offset to world space.
func (t Transform) ToWorld(local math.Vec3) math.Vec3 {
	return t.Location.Add(t.Rotation.RotateVector(local))
}

// Input is the resolved control state for one tick, both in [-1, 1].
type Input struct {
	Throttle float32
	Steering float32
}
