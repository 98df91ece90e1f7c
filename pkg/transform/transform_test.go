package transform

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/tickframe/pkg/math"
)

const eps = 0.001

func sampleTransforms() []Transform {
	return []Transform{
		Identity(),
		{
			Position: math.Vec3{X: 1, Y: 2, Z: 3},
			Rotation: math.QuatFromAxisAngle(math.Vec3{Y: 1}, 0.5),
			Scale:    math.Vec3{X: 1, Y: 2, Z: 3},
		},
		{
			Position: math.Vec3{X: -10, Y: 0, Z: 4},
			Rotation: math.QuatFromAxisAngle(math.Vec3{X: 1, Y: 1}.Normalize(), 2.5),
			Scale:    math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
		},
		{
			Position: math.Vec3{Z: 100},
			Rotation: math.QuatFromAxisAngle(math.Vec3{Z: 1}, -3),
			Scale:    math.Vec3One(),
		},
	}
}

func TestLerpEndpoints(t *testing.T) {
	samples := sampleTransforms()
	for i, a := range samples {
		for j, b := range samples {
			if got := Lerp(a, b, 0); !got.Approx(a, eps) {
				t.Errorf("Lerp(%d, %d, 0) = %+v, want %+v", i, j, got, a)
			}
			if got := Lerp(a, b, 1); !got.Approx(b, eps) {
				t.Errorf("Lerp(%d, %d, 1) = %+v, want %+v", i, j, got, b)
			}
		}
	}
}

func TestLerpRotationUnitAndShortArc(t *testing.T) {
	samples := sampleTransforms()
	steps := []float32{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1}

	for i, a := range samples {
		for j, b := range samples {
			// Flip b's sign on odd pairs so the double cover is exercised.
			if (i+j)%2 == 1 {
				b.Rotation = math.Quat{X: -b.Rotation.X, Y: -b.Rotation.Y, Z: -b.Rotation.Z, W: -b.Rotation.W}
			}
			for _, s := range steps {
				r := Lerp(a, b, s).Rotation
				if l := r.Length(); gomath.Abs(float64(l-1)) > eps {
					t.Errorf("Lerp(%d, %d, %v) rotation length = %v", i, j, s, l)
				}
				if s <= 0.5 && a.Rotation.Angle(r) > float32(gomath.Pi/2)+eps {
					t.Errorf("Lerp(%d, %d, %v) took the long arc: %v rad", i, j, s, a.Rotation.Angle(r))
				}
			}
		}
	}
}

func TestLerpOutsideRangeExtrapolates(t *testing.T) {
	a := At(math.Vec3{})
	b := At(math.Vec3{X: 10})

	got := Lerp(a, b, 1.2)
	if !got.Position.Approx(math.Vec3{X: 12}, eps) {
		t.Errorf("Lerp(1.2) position = %+v, want (12, 0, 0)", got.Position)
	}
	got = Lerp(a, b, -0.1)
	if !got.Position.Approx(math.Vec3{X: -1}, eps) {
		t.Errorf("Lerp(-0.1) position = %+v, want (-1, 0, 0)", got.Position)
	}
}

func TestMatrixOrder(t *testing.T) {
	tr := Transform{
		Position: math.Vec3{X: 5},
		Rotation: math.QuatFromAxisAngle(math.Vec3{Z: 1}, float32(gomath.Pi/2)),
		Scale:    math.Vec3{X: 2, Y: 1, Z: 1},
	}

	// Scale (1,0,0) -> (2,0,0), rotate -> (0,2,0), translate -> (5,2,0).
	got := tr.Matrix().TransformVec3(math.Vec3{X: 1})
	if !got.Approx(math.Vec3{X: 5, Y: 2}, eps) {
		t.Errorf("Matrix point = %+v, want (5, 2, 0)", got)
	}
	if p := tr.TransformPoint(math.Vec3{X: 1}); !p.Approx(got, eps) {
		t.Errorf("TransformPoint = %+v, Matrix = %+v", p, got)
	}
}

func TestCompose(t *testing.T) {
	parent := Transform{
		Position: math.Vec3{X: 1, Y: 2, Z: 3},
		Rotation: math.QuatFromAxisAngle(math.Vec3{Y: 1}, 0.8),
		Scale:    math.Vec3{X: 2, Y: 2, Z: 2},
	}
	child := Transform{
		Position: math.Vec3{X: 0, Y: 1, Z: -1},
		Rotation: math.QuatFromAxisAngle(math.Vec3{X: 1}, 0.3),
		Scale:    math.Vec3{X: 1, Y: 0.5, Z: 1},
	}

	world := Compose(parent, child)
	want := parent.Matrix().Mul(child.Matrix())
	if !world.Matrix().Approx(want, eps) {
		t.Errorf("Compose matrix = %v, want %v", world.Matrix(), want)
	}
}

func TestInverse(t *testing.T) {
	tr := Transform{
		Position: math.Vec3{X: 3, Y: -1, Z: 2},
		Rotation: math.QuatFromAxisAngle(math.Vec3{Y: 1}, 1.1),
		Scale:    math.Vec3{X: 2, Y: 2, Z: 2},
	}

	got := Compose(tr, tr.Inverse())
	if !got.Approx(Identity(), eps) {
		t.Errorf("t * inverse(t) = %+v, want identity", got)
	}
}
