package model

import (
	"github.com/Faultbox/tickframe/internal/assert"
	"github.com/Faultbox/tickframe/internal/engine/physics"
	"github.com/Faultbox/tickframe/internal/engine/template"
	"github.com/Faultbox/tickframe/pkg/math"
	"github.com/Faultbox/tickframe/pkg/transform"
)

// State is whether a physics model takes part in the simulation.
type State int

const (
	Detached State = iota
	Attached
)

func (s State) String() string {
	if s == Attached {
		return "attached"
	}
	return "detached"
}

// PhysicsModel is a model whose transform lives in a physics body.
type PhysicsModel struct {
	*Model

	body   physics.Body
	sim    *physics.Simulation
	scale  math.Vec3
	offset math.Vec3
	state  State
}

// NewPhysics creates a static body for t at world. The body is not in the
// simulation until OnAdd.
func NewPhysics(t *template.Physics, sim *physics.Simulation, world transform.Transform) (*PhysicsModel, error) {
	return newPhysics(t, sim, world, 0)
}

func newPhysics(t *template.Physics, sim *physics.Simulation, world transform.Transform, mass float32) (*PhysicsModel, error) {
	base, err := New(t, world)
	if err != nil {
		return nil, err
	}

	shape := t.Shape
	if world.Scale != math.Vec3One() {
		shape = shape.ScaledClone(world.Scale)
	}
	pm := &PhysicsModel{
		Model:  base,
		sim:    sim,
		scale:  world.Scale,
		offset: t.OffsetFromCenter,
		body: sim.World().NewBody(physics.BodyDesc{
			Shape: shape,
			Pose:  physics.PoseOf(world),
			Mass:  mass,
		}),
	}
	base.matrixAt = func(float32) math.Mat4 { return pm.centered(pm.WorldTransform()) }
	return pm, nil
}

// Body returns the collidable.
func (p *PhysicsModel) Body() physics.Body { return p.body }

// State returns whether the body is in the simulation.
func (p *PhysicsModel) State() State { return p.state }

// WorldTransform reads the body pose.
func (p *PhysicsModel) WorldTransform() transform.Transform {
	return p.body.Pose().WithScale(p.scale)
}

// SetWorldTransform writes the body pose. A scale change replaces the
// body's shape with one scaled by the ratio of new to old scale.
func (p *PhysicsModel) SetWorldTransform(t transform.Transform) {
	p.rescale(t.Scale)
	p.body.SetPose(physics.PoseOf(t))
}

// Scale returns the scale baked into the body's shape.
func (p *PhysicsModel) Scale() math.Vec3 { return p.scale }

func (p *PhysicsModel) rescale(s math.Vec3) {
	if s == p.scale {
		return
	}
	ratio := s.Div(p.scale)
	p.body.SetShape(p.body.Shape().ScaledClone(ratio))
	p.scale = s
}

// centered shifts mesh space so the shape's center sits at the body origin.
func (p *PhysicsModel) centered(t transform.Transform) math.Mat4 {
	neg := p.offset.Scale(-1)
	return t.Matrix().Mul(math.Translate(neg.X, neg.Y, neg.Z))
}

// OnAdd attaches the body to the world.
func (p *PhysicsModel) OnAdd() {
	assert.T(p.state == Detached, "physics model added while %s", p.state)
	p.sim.World().Attach(p.body)
	p.state = Attached
}

// OnRemove detaches the body.
func (p *PhysicsModel) OnRemove() {
	assert.T(p.state == Attached, "physics model removed while %s", p.state)
	p.sim.World().Detach(p.body)
	p.state = Detached
}

// Release detaches the body if needed and frees the model.
func (p *PhysicsModel) Release() {
	if p.state == Attached {
		p.OnRemove()
	}
	p.Model.Release()
}
