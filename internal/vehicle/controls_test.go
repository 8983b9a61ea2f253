package vehicle

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputRateInterp(t *testing.T) {
	r := InputRate{Rise: 2, Fall: 4}

	tests := []struct {
		name    string
		current float32
		target  float32
		want    float32
	}{
		{"rise from positive", 0.5, 1, 0.7},
		{"fall towards zero", 0.5, 0, 0.1},
		{"leaving zero uses rise", 0, -1, -0.2},
		{"reversing uses fall", 0.5, -1, 0.1},
		{"rise negative", -0.5, -1, -0.7},
		{"small step lands", 0.5, 0.55, 0.55},
		{"at target", 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, r.Interp(0.1, tt.current, tt.target), 1e-6)
		})
	}
}

func TestGearClamping(t *testing.T) {
	c := NewControls(DefaultConfig())

	c.SetTargetGear(9)
	assert.Equal(t, 4, c.Gear())
	c.SetTargetGear(-9)
	assert.Equal(t, -2, c.Gear())

	c.SetTargetGear(0)
	for i := 0; i < 6; i++ {
		c.ShiftUp()
	}
	assert.Equal(t, 4, c.Gear())
	for i := 0; i < 10; i++ {
		c.ShiftDown()
	}
	assert.Equal(t, -2, c.Gear())
}

func TestTurnAngleClamping(t *testing.T) {
	c := NewControls(DefaultConfig())

	c.SetTargetTurnAngle(25)
	assert.Equal(t, float32(10), c.TargetTurnAngle())
	c.SetTargetTurnAngle(-25)
	assert.Equal(t, float32(-10), c.TargetTurnAngle())
	c.SetTargetTurnAngle(3)
	assert.Equal(t, float32(3), c.TargetTurnAngle())
}

func TestThrottleFromGear(t *testing.T) {
	c := NewControls(DefaultConfig())

	tests := []struct {
		gear int
		want float32
	}{
		{0, 0},
		{1, 0.25},
		{4, 1},
		{-1, -0.5},
		{-2, -1},
	}
	for _, tt := range tests {
		c.SetTargetGear(tt.gear)
		assert.Equal(t, tt.want, c.targetThrottle(), "gear %d", tt.gear)
	}
}

func TestAuthoritativeSlewsToTarget(t *testing.T) {
	c := NewControls(DefaultConfig())
	c.SetTargetGear(4)
	c.SetTargetTurnAngle(5)

	s := c.UpdateAuthoritative(0.1)
	assert.InDelta(t, 0.6, s.Throttle, 1e-6)
	assert.InDelta(t, 0.25, s.Steering, 1e-6)
	assert.Equal(t, 4, s.Gear)
	assert.Equal(t, float32(5), s.TargetTurnAngle)

	for i := 0; i < 20; i++ {
		s = c.UpdateAuthoritative(0.1)
	}
	assert.InDelta(t, 1, s.Throttle, 1e-6)
	assert.InDelta(t, 0.5, s.Steering, 1e-6)
	assert.Equal(t, s, c.Replicated())

	in := c.Input()
	assert.Equal(t, s.Throttle, in.Throttle)
	assert.Equal(t, s.Steering, in.Steering)

	c.Clear()
	assert.Zero(t, c.Input().Throttle)
	assert.Equal(t, 4, c.Gear())
}

func TestRemoteCopiesReplicatedState(t *testing.T) {
	server := NewControls(DefaultConfig())
	server.SetTargetGear(-1)
	server.SetTargetTurnAngle(-10)
	server.UpdateAuthoritative(0.05)
	state := server.UpdateAuthoritative(0.05)

	data, err := json.Marshal(state)
	require.NoError(t, err)
	var received ReplicatedState
	require.NoError(t, json.Unmarshal(data, &received))

	remote := NewControls(DefaultConfig())
	remote.ApplyReplicated(received)
	assert.Equal(t, server.Input(), remote.Input())
	assert.Equal(t, -1, remote.Gear())
	assert.Equal(t, float32(-10), remote.TargetTurnAngle())
	assert.Equal(t, state, remote.Replicated())
}
