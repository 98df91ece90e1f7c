// Package lighting provides the light and environment values shaders read
// from their shader-global constants.
package lighting

import (
	"github.com/Faultbox/tickframe/internal/engine/constants"
	"github.com/Faultbox/tickframe/pkg/math"
)

// PointLight writes Position and Color. A light with an anchor follows it,
// so a lamp attached to a moving body is drawn at the interpolated pose.
type PointLight struct {
	Position  math.Vec3
	Color     math.Vec3
	Intensity float32

	anchor func(interp float32) math.Vec3
	offset math.Vec3
}

// NewPointLight returns a static light. Color components are clamped to
// [0, 1].
func NewPointLight(pos, color math.Vec3, intensity float32) *PointLight {
	return &PointLight{Position: pos, Color: clampColor(color), Intensity: intensity}
}

// Follow makes the light track anchor, displaced by offset.
func (l *PointLight) Follow(anchor func(interp float32) math.Vec3, offset math.Vec3) {
	l.anchor = anchor
	l.offset = offset
}

// Unfollow pins the light at its last Position.
func (l *PointLight) Unfollow() { l.anchor = nil }

// PositionAt returns where the light is at interp.
func (l *PointLight) PositionAt(interp float32) math.Vec3 {
	if l.anchor == nil {
		return l.Position
	}
	return l.anchor(interp).Add(l.offset)
}

// ApplyConstants implements constants.Provider.
func (l *PointLight) ApplyConstants(h *constants.Holder, interp float32) {
	constants.TrySet(h, constants.Position, l.PositionAt(interp))
	constants.TrySet(h, constants.Color, l.Color.Scale(l.Intensity))
}

func clampColor(c math.Vec3) math.Vec3 {
	return math.Vec3{X: clamp01(c.X), Y: clamp01(c.Y), Z: clamp01(c.Z)}
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
