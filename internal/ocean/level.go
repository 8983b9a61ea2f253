package ocean

import (
	"errors"
	"sync"

	"github.com/Faultbox/seacraft/internal/ocean/heightmap"
	"github.com/Faultbox/seacraft/pkg/math"
)

// ErrOceanExists is returned when a level already owns an ocean.
var ErrOceanExists = errors.New("ocean: level already has an ocean")

// Level holds the single ocean of a level. Every query falls back to zero
// values while no ocean is registered.
type Level struct {
	mu    sync.RWMutex
	ocean *Ocean
}

// NewLevel creates an empty level.
func NewLevel() *Level {
	return &Level{}
}

// Register makes o the level's ocean.
func (l *Level) Register(o *Ocean) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ocean != nil && l.ocean != o {
		return ErrOceanExists
	}
	l.ocean = o
	return nil
}

// Unregister removes o if it is the level's ocean.
func (l *Level) Unregister(o *Ocean) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ocean != o || o == nil {
		return false
	}
	l.ocean = nil
	return true
}

// Ocean returns the registered ocean or nil.
func (l *Level) Ocean() *Ocean {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ocean
}

// GlobalLevel returns the ocean's global level, or 0.
func (l *Level) GlobalLevel() float32 {
	if o := l.Ocean(); o != nil {
		return o.GlobalLevel()
	}
	return 0
}

// ElevationAt returns the ocean elevation at pos, or 0.
func (l *Level) ElevationAt(pos math.Vec3) float32 {
	if o := l.Ocean(); o != nil {
		return o.ElevationAt(pos)
	}
	return 0
}

// SurfaceNormalAt returns the ocean surface normal at pos, or a zero color.
func (l *Level) SurfaceNormalAt(pos math.Vec3) heightmap.LinearColor {
	if o := l.Ocean(); o != nil {
		return o.SurfaceNormalAt(pos)
	}
	return heightmap.LinearColor{}
}

// WaveVelocityAt returns the ocean wave velocity at pos, or zero.
func (l *Level) WaveVelocityAt(pos math.Vec3) math.Vec3 {
	if o := l.Ocean(); o != nil {
		return o.WaveVelocityAt(pos)
	}
	return math.Vec3{}
}

// WavesCount returns the ocean's wave count, or 0.
func (l *Level) WavesCount() int {
	if o := l.Ocean(); o != nil {
		return o.WavesCount()
	}
	return 0
}
