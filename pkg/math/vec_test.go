package math

import (
	"math"
	"testing"
)

func TestVec2Scale(t *testing.T) {
	got := Vec2{1, -2}.Scale(3)
	want := Vec2{3, -6}
	if got != want {
		t.Errorf("Vec2.Scale() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Normalize(t *testing.T) {
	n := Vec2{0.8, 0.6}.Scale(7).Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
	}
	if z := (Vec2{}).Normalize(); z != (Vec2{}) {
		t.Errorf("zero Vec2.Normalize() = %v, want zero", z)
	}
}

func TestVec3Cross(t *testing.T) {
	got := AxisX.Cross(AxisY)
	if got != AxisZ {
		t.Errorf("Vec3.Cross() = %v, want %v", got, AxisZ)
	}
}

func TestVec3RotateAngleAxis(t *testing.T) {
	got := AxisX.RotateAngleAxis(90, AxisZ)
	if !near(got, AxisY) {
		t.Errorf("RotateAngleAxis(90, Z) of X = %v, want %v", got, AxisY)
	}
}

func TestFractional(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.25, 0.25},
		{-1.25, -0.25},
		{0, 0},
		{3, 0},
	}
	for _, tt := range tests {
		if got := Fractional(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Fractional(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1) {
		t.Error("1 should be finite")
	}
	if IsFinite(float32(math.NaN())) || IsFinite(float32(math.Inf(1))) {
		t.Error("NaN and Inf should not be finite")
	}
}

func near(a, b Vec3) bool {
	return a.Sub(b).Length() < 1e-5
}
