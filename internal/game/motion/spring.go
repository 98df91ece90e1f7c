// Package motion moves simulated models toward goals with critically
// damped springs, advancing once per simulation tick.
package motion

import (
	"github.com/charmbracelet/harmonica"

	"github.com/Faultbox/tickframe/internal/engine/physics"
	"github.com/Faultbox/tickframe/pkg/math"
	"github.com/Faultbox/tickframe/pkg/transform"
)

// Target is a model whose pose can be set without breaking interpolation.
// model.DynamicPhysicsModel satisfies it.
type Target interface {
	Current() transform.Transform
	TransformSmooth(t transform.Transform)
}

// Spring drives a target's position toward a goal. It is a scene entity:
// the scene calls Update once per tick, before the physics step.
type Spring struct {
	target Target
	spring harmonica.Spring

	goal   math.Vec3
	pos    [3]float64
	vel    [3]float64
	moving bool
}

// NewSpring returns a spring stepping at tickRate Hz. Damping 1 is
// critically damped; below 1 overshoots.
func NewSpring(target Target, tickRate int, frequency, damping float64) *Spring {
	return &Spring{
		target: target,
		spring: harmonica.NewSpring(harmonica.FPS(tickRate), frequency, damping),
	}
}

// MoveTo sets a new goal, starting from the target's current position.
// Velocity carries over so goals can be retargeted mid-flight.
func (s *Spring) MoveTo(goal math.Vec3) {
	if !s.moving {
		p := s.target.Current().Position
		s.pos = [3]float64{float64(p.X), float64(p.Y), float64(p.Z)}
	}
	s.goal = goal
	s.moving = true
}

// Stop freezes the target where it is.
func (s *Spring) Stop() {
	s.moving = false
	s.vel = [3]float64{}
}

// Goal returns the current goal.
func (s *Spring) Goal() math.Vec3 { return s.goal }

// Moving reports whether the spring is driving the target.
func (s *Spring) Moving() bool { return s.moving }

// Update advances the spring one tick and hands the result to the target.
// The spring settles, and stops, once within 1mm of the goal at rest.
func (s *Spring) Update(float32) {
	if !s.moving {
		return
	}
	goal := [3]float64{float64(s.goal.X), float64(s.goal.Y), float64(s.goal.Z)}
	settled := true
	for i := range s.pos {
		s.pos[i], s.vel[i] = s.spring.Update(s.pos[i], s.vel[i], goal[i])
		if abs(goal[i]-s.pos[i]) > 1e-3 || abs(s.vel[i]) > 1e-3 {
			settled = false
		}
	}
	if settled {
		s.pos = goal
		s.Stop()
	}

	cur := s.target.Current()
	cur.Position = math.Vec3{X: float32(s.pos[0]), Y: float32(s.pos[1]), Z: float32(s.pos[2])}
	s.target.TransformSmooth(cur)
}

// OnAdd does nothing; springs hold no simulation resources.
func (s *Spring) OnAdd() {}

// OnRemove stops the spring.
func (s *Spring) OnRemove() { s.Stop() }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Kinematic holds a body's velocity at zero while a spring drives it, so
// gravity does not fight the goal. It runs in the after-step phase.
type Kinematic struct {
	Spring *Spring
	Body   physics.Body
}

// AfterStep clears the body velocity while the spring is moving.
func (k Kinematic) AfterStep() {
	if k.Spring.Moving() {
		k.Body.SetVelocity(math.Vec3{})
	}
}
