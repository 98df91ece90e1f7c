package model

import (
	"github.com/Faultbox/tickframe/internal/assert"
	"github.com/Faultbox/tickframe/internal/engine/physics"
	"github.com/Faultbox/tickframe/internal/engine/template"
	"github.com/Faultbox/tickframe/pkg/math"
	"github.com/Faultbox/tickframe/pkg/transform"
)

// DynamicPhysicsModel is moved by the solver and rendered between the
// poses captured after the last two ticks.
type DynamicPhysicsModel struct {
	*PhysicsModel

	previous transform.Transform
	current  transform.Transform
}

// NewDynamic creates a mass-based body. A non-convex shape cannot be scaled
// for a dynamic body.
func NewDynamic(t *template.Physics, sim *physics.Simulation, world transform.Transform, mass float32) (*DynamicPhysicsModel, error) {
	assert.T(mass > 0, "dynamic model needs positive mass, got %v", mass)
	assert.T(t.Shape.Convex() || world.Scale == math.Vec3One(),
		"non-convex shape cannot be scaled on a dynamic body")

	pm, err := newPhysics(t, sim, world, mass)
	if err != nil {
		return nil, err
	}
	d := &DynamicPhysicsModel{PhysicsModel: pm, previous: world, current: world}
	pm.Model.matrixAt = func(interp float32) math.Mat4 {
		return pm.centered(d.RenderTransform(interp))
	}
	return d, nil
}

// OnAdd attaches the body and joins the after-step phase.
func (d *DynamicPhysicsModel) OnAdd() {
	d.PhysicsModel.OnAdd()
	d.sim.Subscribe(d)
}

// OnRemove leaves the after-step phase and detaches the body.
func (d *DynamicPhysicsModel) OnRemove() {
	d.sim.Unsubscribe(d)
	d.PhysicsModel.OnRemove()
}

// Release detaches if needed and frees the model.
func (d *DynamicPhysicsModel) Release() {
	if d.state == Attached {
		d.OnRemove()
	}
	d.Model.Release()
}

// AfterStep captures the body pose at the end of a tick.
func (d *DynamicPhysicsModel) AfterStep() {
	d.previous = d.current
	d.current = d.PhysicsModel.WorldTransform()
}

// SetWorldTransform teleports: the body, Previous and Current all become t,
// so nothing is interpolated toward the new pose.
func (d *DynamicPhysicsModel) SetWorldTransform(t transform.Transform) {
	d.checkScale(t.Scale)
	d.PhysicsModel.SetWorldTransform(t)
	d.previous = t
	d.current = t
}

// TransformSmooth moves the body without touching the captured poses.
// Rendering keeps blending toward the last captured Current until the next
// tick picks up the new pose.
func (d *DynamicPhysicsModel) TransformSmooth(t transform.Transform) {
	d.checkScale(t.Scale)
	d.PhysicsModel.SetWorldTransform(t)
}

// Previous returns the pose captured one tick before Current.
func (d *DynamicPhysicsModel) Previous() transform.Transform { return d.previous }

// Current returns the pose captured after the last tick.
func (d *DynamicPhysicsModel) Current() transform.Transform { return d.current }

// RenderTransform blends Previous toward Current.
func (d *DynamicPhysicsModel) RenderTransform(interp float32) transform.Transform {
	return transform.Lerp(d.previous, d.current, interp)
}

func (d *DynamicPhysicsModel) checkScale(s math.Vec3) {
	assert.T(s == d.scale || d.body.Shape().Convex(),
		"non-convex shape cannot be rescaled on a dynamic body")
}
