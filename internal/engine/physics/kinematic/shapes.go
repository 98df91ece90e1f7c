package kinematic

import (
	"github.com/Faultbox/tickframe/internal/engine/physics"
	"github.com/Faultbox/tickframe/pkg/math"
)

// Box is an oriented box.
type Box struct {
	HalfExtents math.Vec3
}

func (b Box) ScaledClone(ratio math.Vec3) physics.Shape {
	return Box{HalfExtents: b.HalfExtents.Mul(ratio.Abs())}
}

func (Box) Convex() bool { return true }

// Extents returns the half size along each axis.
func (b Box) Extents() math.Vec3 { return b.HalfExtents }

// Sphere scales by the largest ratio component.
type Sphere struct {
	Radius float32
}

func (s Sphere) ScaledClone(ratio math.Vec3) physics.Shape {
	return Sphere{Radius: s.Radius * ratio.Abs().MaxComponent()}
}

func (Sphere) Convex() bool { return true }

func (s Sphere) Extents() math.Vec3 { return math.Vec3{X: s.Radius, Y: s.Radius, Z: s.Radius} }

// TriangleMesh is arbitrary static geometry. It is not convex.
type TriangleMesh struct {
	Vertices []math.Vec3
	Indices  []uint32
}

func (m TriangleMesh) ScaledClone(ratio math.Vec3) physics.Shape {
	out := TriangleMesh{Vertices: make([]math.Vec3, len(m.Vertices)), Indices: m.Indices}
	for i, v := range m.Vertices {
		out.Vertices[i] = v.Mul(ratio)
	}
	return out
}

func (TriangleMesh) Convex() bool { return false }

func (m TriangleMesh) Extents() math.Vec3 {
	var e math.Vec3
	for _, v := range m.Vertices {
		a := v.Abs()
		e.X = max(e.X, a.X)
		e.Y = max(e.Y, a.Y)
		e.Z = max(e.Z, a.Z)
	}
	return e
}
