package motion

import (
	"testing"

	"github.com/Faultbox/tickframe/internal/engine/physics"
	"github.com/Faultbox/tickframe/internal/engine/physics/kinematic"
	"github.com/Faultbox/tickframe/pkg/math"
	"github.com/Faultbox/tickframe/pkg/transform"
)

type fakeTarget struct {
	pose  transform.Transform
	calls int
}

func (f *fakeTarget) Current() transform.Transform { return f.pose }

func (f *fakeTarget) TransformSmooth(t transform.Transform) {
	f.pose = t
	f.calls++
}

func TestSpringReachesGoal(t *testing.T) {
	target := &fakeTarget{pose: transform.Identity()}
	s := NewSpring(target, 60, 6, 1)
	goal := math.Vec3{X: 10, Z: -4}
	s.MoveTo(goal)

	last := float32(0)
	for i := 0; i < 600 && s.Moving(); i++ {
		s.Update(1.0 / 60)
		if target.pose.Position.X < last-1e-4 {
			t.Fatalf("tick %d: critically damped spring moved backwards", i)
		}
		last = target.pose.Position.X
	}
	if s.Moving() {
		t.Fatal("spring did not settle in 10s")
	}
	if target.pose.Position != goal {
		t.Errorf("position = %v, want %v", target.pose.Position, goal)
	}
	if target.pose.Rotation != math.QuatIdentity() {
		t.Error("spring changed rotation")
	}

	calls := target.calls
	s.Update(1.0 / 60)
	if target.calls != calls {
		t.Error("settled spring still moving target")
	}
}

func TestSpringRetarget(t *testing.T) {
	target := &fakeTarget{pose: transform.Identity()}
	s := NewSpring(target, 60, 6, 1)
	s.MoveTo(math.Vec3{X: 10})
	for i := 0; i < 10; i++ {
		s.Update(0)
	}
	mid := target.pose.Position.X
	if mid <= 0 {
		t.Fatalf("no progress after 10 ticks: %v", mid)
	}

	s.MoveTo(math.Vec3{X: -10})
	s.Update(0)
	if d := target.pose.Position.X - mid; d < -1 || d > 1 {
		t.Errorf("retarget jumped by %v", d)
	}
	if s.Goal().X != -10 {
		t.Errorf("goal = %v", s.Goal())
	}
}

func TestKinematicClearsVelocity(t *testing.T) {
	w := kinematic.New(math.Vec3{Y: -10})
	body := w.NewBody(physics.BodyDesc{Shape: kinematic.Sphere{Radius: 1}, Mass: 1})
	w.Attach(body)
	sim := physics.NewSimulation(w)

	target := &fakeTarget{pose: transform.Identity()}
	s := NewSpring(target, 60, 6, 1)
	sim.Subscribe(Kinematic{Spring: s, Body: body})

	s.MoveTo(math.Vec3{X: 1})
	sim.Tick(1.0 / 60)
	if v := body.Velocity(); v != (math.Vec3{}) {
		t.Errorf("velocity while moving = %v", v)
	}

	s.Stop()
	sim.Tick(1.0 / 60)
	if body.Velocity().Y >= 0 {
		t.Error("gravity not applied once the spring stopped")
	}
}
