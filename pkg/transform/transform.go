// Package transform provides the position/rotation/scale value type shared by
// physics bodies, render models and anything else that needs a pose that can
// be blended between two simulation ticks.
package transform

import (
	"github.com/Faultbox/tickframe/pkg/math"
)

// Transform is a value type; methods never mutate the receiver.
// Scale components are expected to be positive.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform {
	return Transform{
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3One(),
	}
}

// At returns an unrotated, unit-scale transform at p.
func At(p math.Vec3) Transform {
	t := Identity()
	t.Position = p
	return t
}

// Lerp blends a towards b. Position and scale are interpolated linearly and
// rotation spherically along the shorter arc.
//
// t is normally in [0, 1]. Values slightly outside that range show up when
// frame timing jitters; they extrapolate along the same path instead of
// clamping.
func Lerp(a, b Transform, t float32) Transform {
	return Transform{
		Position: a.Position.Lerp(b.Position, t),
		Rotation: a.Rotation.Slerp(b.Rotation, t),
		Scale:    a.Scale.Lerp(b.Scale, t),
	}
}

// Compose maps child, expressed in parent space, into the space parent lives in.
func Compose(parent, child Transform) Transform {
	return Transform{
		Position: parent.Position.Add(parent.Rotation.Rotate(child.Position.Mul(parent.Scale))),
		Rotation: parent.Rotation.Mul(child.Rotation).Normalize(),
		Scale:    parent.Scale.Mul(child.Scale),
	}
}

// Mul is Compose with t as the parent.
func (t Transform) Mul(child Transform) Transform {
	return Compose(t, child)
}

// Matrix returns the column-major matrix that scales, then rotates, then translates.
func (t Transform) Matrix() math.Mat4 {
	return math.FromTRS(t.Position, t.Rotation, t.Scale)
}

// TransformPoint maps a local point into the transform's parent space.
func (t Transform) TransformPoint(p math.Vec3) math.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(p.Mul(t.Scale)))
}

// Inverse returns the transform that undoes t. Only exact for uniform scale.
func (t Transform) Inverse() Transform {
	invRot := t.Rotation.Normalize().Conjugate()
	invScale := math.Vec3One().Div(t.Scale)
	return Transform{
		Position: invRot.Rotate(t.Position).Mul(invScale).Scale(-1),
		Rotation: invRot,
		Scale:    invScale,
	}
}

// WithPosition returns a copy of t at p.
func (t Transform) WithPosition(p math.Vec3) Transform {
	t.Position = p
	return t
}

// WithScale returns a copy of t with scale s.
func (t Transform) WithScale(s math.Vec3) Transform {
	t.Scale = s
	return t
}

// Approx reports whether t and other are equal within eps (rotation in radians).
func (t Transform) Approx(other Transform, eps float32) bool {
	return t.Position.Approx(other.Position, eps) &&
		t.Rotation.Approx(other.Rotation, eps) &&
		t.Scale.Approx(other.Scale, eps)
}
