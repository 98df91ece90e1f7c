package kinematic

import (
	"testing"

	"github.com/Faultbox/tickframe/internal/assert"
	"github.com/Faultbox/tickframe/internal/engine/physics"
	"github.com/Faultbox/tickframe/pkg/math"
)

const eps = 1e-5

func TestStepIntegratesDynamicBodies(t *testing.T) {
	w := New(math.Vec3{Y: -10})
	dyn := w.NewBody(physics.BodyDesc{Shape: Sphere{Radius: 1}, Mass: 1})
	static := w.NewBody(physics.BodyDesc{Shape: Box{HalfExtents: math.Vec3One()}})
	loose := w.NewBody(physics.BodyDesc{Shape: Sphere{Radius: 1}, Mass: 1})
	w.Attach(dyn)
	w.Attach(static)

	dyn.SetVelocity(math.Vec3{X: 2})
	w.Step(0.5)

	want := math.Vec3{X: 1, Y: -2.5}
	if got := dyn.Pose().Position; !got.Approx(want, eps) {
		t.Errorf("dynamic position = %v, want %v", got, want)
	}
	if got := static.Pose().Position; got != (math.Vec3{}) {
		t.Errorf("static body moved to %v", got)
	}
	if got := loose.Pose().Position; got != (math.Vec3{}) {
		t.Errorf("detached body moved to %v", got)
	}
}

func TestGroundRestsBodies(t *testing.T) {
	w := New(math.Vec3{Y: -10}, WithGround(0))
	b := w.NewBody(physics.BodyDesc{Shape: Box{HalfExtents: math.Vec3{X: 1, Y: 0.5, Z: 1}}, Mass: 1})
	w.Attach(b)
	for range 120 {
		w.Step(1.0 / 60)
	}
	if got := b.Pose().Position.Y; got != 0.5 {
		t.Errorf("resting height = %v, want 0.5", got)
	}
	if b.Velocity().Y != 0 {
		t.Errorf("resting velocity = %v", b.Velocity())
	}
}

func TestAttachDetach(t *testing.T) {
	w := New(math.Vec3{})
	b := w.NewBody(physics.BodyDesc{Shape: Sphere{Radius: 1}})
	w.Attach(b)
	if w.Bodies() != 1 {
		t.Fatalf("bodies = %d", w.Bodies())
	}
	if _, ok := assert.Panics(func() { w.Attach(b) }); !ok {
		t.Error("double attach should panic")
	}
	w.Detach(b)
	if w.Bodies() != 0 {
		t.Errorf("bodies after detach = %d", w.Bodies())
	}
	if _, ok := assert.Panics(func() { w.Detach(b) }); !ok {
		t.Error("double detach should panic")
	}
}

func TestDynamicNonConvexPanics(t *testing.T) {
	w := New(math.Vec3{})
	_, ok := assert.Panics(func() {
		w.NewBody(physics.BodyDesc{Shape: TriangleMesh{}, Mass: 1})
	})
	if !ok {
		t.Error("dynamic triangle mesh should panic")
	}
}

func TestScaledClone(t *testing.T) {
	tests := []struct {
		name  string
		shape physics.Shape
		ratio math.Vec3
		want  math.Vec3
	}{
		{"box", Box{HalfExtents: math.Vec3{X: 1, Y: 2, Z: 3}}, math.Vec3{X: 2, Y: 2, Z: 0.5}, math.Vec3{X: 2, Y: 4, Z: 1.5}},
		{"sphere uses largest ratio", Sphere{Radius: 2}, math.Vec3{X: 1, Y: 3, Z: 2}, math.Vec3{X: 6, Y: 6, Z: 6}},
		{"mesh", TriangleMesh{Vertices: []math.Vec3{{X: 1, Y: -1}}}, math.Vec3{X: 2, Y: 2, Z: 2}, math.Vec3{X: 2, Y: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.shape.ScaledClone(tt.ratio).(extenter).Extents()
			if !got.Approx(tt.want, eps) {
				t.Errorf("extents = %v, want %v", got, tt.want)
			}
		})
	}
}
