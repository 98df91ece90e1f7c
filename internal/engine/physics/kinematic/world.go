// Package kinematic is a small deterministic physics world. It integrates
// velocity and gravity for dynamic bodies and rests them on an optional
// ground plane. It does not resolve body-to-body contacts.
package kinematic

import (
	"github.com/Faultbox/tickframe/internal/assert"
	"github.com/Faultbox/tickframe/internal/engine/physics"
	"github.com/Faultbox/tickframe/pkg/math"
)

type extenter interface {
	Extents() math.Vec3
}

// Body is a kinematic body.
type Body struct {
	pose     physics.Pose
	velocity math.Vec3
	shape    physics.Shape
	mass     float32
	attached bool
}

func (b *Body) Pose() physics.Pose       { return b.pose }
func (b *Body) SetPose(p physics.Pose)   { b.pose = p }
func (b *Body) Velocity() math.Vec3      { return b.velocity }
func (b *Body) SetVelocity(v math.Vec3)  { b.velocity = v }
func (b *Body) Shape() physics.Shape     { return b.shape }
func (b *Body) SetShape(s physics.Shape) { b.shape = s }
func (b *Body) Dynamic() bool            { return b.mass > 0 }
func (b *Body) Attached() bool           { return b.attached }
func (b *Body) Mass() float32            { return b.mass }

// World integrates attached bodies.
type World struct {
	gravity math.Vec3
	ground  *float32
	bodies  []*Body
}

// Option configures a World.
type Option func(*World)

// WithGround rests dynamic bodies on the plane y = height.
func WithGround(height float32) Option {
	return func(w *World) { w.ground = &height }
}

// New returns an empty world.
func New(gravity math.Vec3, opts ...Option) *World {
	w := &World{gravity: gravity}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

var _ physics.World = (*World)(nil)

func (w *World) NewBody(desc physics.BodyDesc) physics.Body {
	assert.T(desc.Shape != nil, "body without shape")
	assert.T(desc.Mass <= 0 || desc.Shape.Convex(), "dynamic body needs a convex shape")
	pose := desc.Pose
	if pose.Rotation == (math.Quat{}) {
		pose.Rotation = math.QuatIdentity()
	}
	return &Body{pose: pose, shape: desc.Shape, mass: desc.Mass}
}

func (w *World) Attach(b physics.Body) {
	kb := w.own(b)
	assert.T(!kb.attached, "body attached twice")
	kb.attached = true
	w.bodies = append(w.bodies, kb)
}

func (w *World) Detach(b physics.Body) {
	kb := w.own(b)
	assert.T(kb.attached, "detaching a body that is not attached")
	kb.attached = false
	for i, cur := range w.bodies {
		if cur == kb {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
}

// Bodies returns how many bodies are attached.
func (w *World) Bodies() int { return len(w.bodies) }

// Step applies gravity and velocity to every attached dynamic body.
func (w *World) Step(dt float32) {
	for _, b := range w.bodies {
		if !b.Dynamic() {
			continue
		}
		b.velocity = b.velocity.Add(w.gravity.Scale(dt))
		b.pose.Position = b.pose.Position.Add(b.velocity.Scale(dt))
		w.rest(b)
	}
}

func (w *World) rest(b *Body) {
	if w.ground == nil {
		return
	}
	var bottom float32
	if e, ok := b.shape.(extenter); ok {
		bottom = e.Extents().Y
	}
	if floor := *w.ground + bottom; b.pose.Position.Y < floor {
		b.pose.Position.Y = floor
		if b.velocity.Y < 0 {
			b.velocity.Y = 0
		}
	}
}

func (w *World) own(b physics.Body) *Body {
	kb, ok := b.(*Body)
	assert.T(ok, "body %T does not belong to a kinematic world", b)
	return kb
}
