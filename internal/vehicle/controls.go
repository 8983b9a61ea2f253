package vehicle

import (
	"github.com/Faultbox/seacraft/internal/buoyancy"
)

// Config holds the control limits of one ship type.
type Config struct {
	MaxGearForward  int     `yaml:"max_gear_forward"`
	MaxGearBackward int     `yaml:"max_gear_backward"`
	MaxTurnAngle    float32 `yaml:"max_turn_angle"`

	ThrottleRate InputRate `yaml:"throttle_rate"`
	SteeringRate InputRate `yaml:"steering_rate"`
}

// DefaultConfig returns the stock ship controls.
func DefaultConfig() Config {
	return Config{
		MaxGearForward:  4,
		MaxGearBackward: -2,
		MaxTurnAngle:    10,
		ThrottleRate:    InputRate{Rise: 6, Fall: 10},
		SteeringRate:    InputRate{Rise: 2.5, Fall: 5},
	}
}

// ReplicatedState is what the authoritative side publishes each tick.
type ReplicatedState struct {
	Steering        float32 `json:"steering"`
	Throttle        float32 `json:"throttle"`
	Gear            int     `json:"gear"`
	TargetTurnAngle float32 `json:"target_turn_angle"`
}

// Controls tracks the selected gear and turn angle and the resolved inputs.
// Not safe for concurrent use; each vehicle owns one.
type Controls struct {
	cfg             Config
	gear            int
	targetTurnAngle float32
	steering        float32
	throttle        float32
	replicated      ReplicatedState
}

// NewControls creates controls in neutral.
func NewControls(cfg Config) *Controls {
	return &Controls{cfg: cfg}
}

// Config returns the control limits.
func (c *Controls) Config() Config {
	return c.cfg
}

// SetTargetGear selects gear, clamped to [MaxGearBackward, MaxGearForward].
func (c *Controls) SetTargetGear(gear int) {
	if gear > 0 {
		c.gear = min(gear, c.cfg.MaxGearForward)
	} else {
		c.gear = max(gear, c.cfg.MaxGearBackward)
	}
}

// ShiftUp selects the next forward gear.
func (c *Controls) ShiftUp() {
	c.SetTargetGear(c.gear + 1)
}

// ShiftDown selects the next backward gear.
func (c *Controls) ShiftDown() {
	c.SetTargetGear(c.gear - 1)
}

// Gear returns the selected gear.
func (c *Controls) Gear() int {
	return c.gear
}

// SetTargetTurnAngle sets the rudder angle in degrees, clamped to +-MaxTurnAngle.
func (c *Controls) SetTargetTurnAngle(angle float32) {
	if angle > 0 {
		c.targetTurnAngle = min(angle, c.cfg.MaxTurnAngle)
	} else {
		c.targetTurnAngle = max(angle, -c.cfg.MaxTurnAngle)
	}
}

// TargetTurnAngle returns the rudder angle in degrees.
func (c *Controls) TargetTurnAngle() float32 {
	return c.targetTurnAngle
}

// Clear zeroes the resolved inputs without touching gear or rudder.
func (c *Controls) Clear() {
	c.steering = 0
	c.throttle = 0
}

// targetThrottle maps the gear onto [-1, 1].
func (c *Controls) targetThrottle() float32 {
	if c.gear < 0 {
		if c.cfg.MaxGearBackward == 0 {
			return 0
		}
		return -float32(c.gear) / float32(c.cfg.MaxGearBackward)
	}
	if c.cfg.MaxGearForward == 0 {
		return 0
	}
	return float32(c.gear) / float32(c.cfg.MaxGearForward)
}

func (c *Controls) targetSteering() float32 {
	if c.cfg.MaxTurnAngle == 0 {
		return 0
	}
	return c.targetTurnAngle / c.cfg.MaxTurnAngle
}

// UpdateAuthoritative slews the inputs towards the gear and rudder targets
// and returns the state to replicate.
func (c *Controls) UpdateAuthoritative(dt float32) ReplicatedState {
	c.steering = c.cfg.SteeringRate.Interp(dt, c.steering, c.targetSteering())
	c.throttle = c.cfg.ThrottleRate.Interp(dt, c.throttle, c.targetThrottle())

	c.replicated = ReplicatedState{
		Steering:        c.steering,
		Throttle:        c.throttle,
		Gear:            c.gear,
		TargetTurnAngle: c.targetTurnAngle,
	}
	return c.replicated
}

// ApplyReplicated adopts a state received from the authoritative side as is.
func (c *Controls) ApplyReplicated(s ReplicatedState) {
	c.replicated = s
	c.steering = s.Steering
	c.throttle = s.Throttle
	c.targetTurnAngle = s.TargetTurnAngle
	c.SetTargetGear(s.Gear)
}

// Replicated returns the last published or applied state.
func (c *Controls) Replicated() ReplicatedState {
	return c.replicated
}

// Input returns the resolved inputs for the wave reaction model.
func (c *Controls) Input() buoyancy.Input {
	return buoyancy.Input{Throttle: c.throttle, Steering: c.steering}
}
