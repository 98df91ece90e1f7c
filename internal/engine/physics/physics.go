// Package physics defines the contract between render models and a rigid
// body simulation, and runs the simulation's fixed tick.
package physics

import (
	"github.com/Faultbox/tickframe/pkg/math"
	"github.com/Faultbox/tickframe/pkg/transform"
)

// Pose is a body's position and orientation. Bodies carry no scale; scale
// is baked into their shape.
type Pose struct {
	Position math.Vec3
	Rotation math.Quat
}

// PoseOf drops the scale of t.
func PoseOf(t transform.Transform) Pose {
	return Pose{Position: t.Position, Rotation: t.Rotation}
}

// WithScale returns the pose as a transform with the given scale.
func (p Pose) WithScale(scale math.Vec3) transform.Transform {
	return transform.Transform{Position: p.Position, Rotation: p.Rotation, Scale: scale}
}

// Shape is a collision shape. Shapes are immutable.
type Shape interface {
	// ScaledClone returns a copy of the shape scaled by ratio relative to its
	// current baked scale.
	ScaledClone(ratio math.Vec3) Shape
	// Convex reports whether the shape can back a mass-based body.
	Convex() bool
}

// Body is a collidable owned by a World.
type Body interface {
	Pose() Pose
	SetPose(Pose)
	Velocity() math.Vec3
	SetVelocity(math.Vec3)
	Shape() Shape
	SetShape(Shape)
	// Dynamic reports whether the solver moves the body.
	Dynamic() bool
}

// BodyDesc creates a body. A positive Mass makes the body dynamic.
type BodyDesc struct {
	Shape Shape
	Pose  Pose
	Mass  float32
}

// World owns bodies. Only attached bodies take part in Step.
type World interface {
	NewBody(desc BodyDesc) Body
	Attach(b Body)
	Detach(b Body)
	Step(dt float32)
}
