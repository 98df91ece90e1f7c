// Package picking casts rays from screen positions into the world.
package picking

import (
	gomath "math"

	"github.com/Faultbox/tickframe/pkg/math"
)

// Ray is a half-line with a unit Direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point t units along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB is an axis-aligned box.
type AABB struct {
	Min, Max math.Vec3
}

// Box returns the AABB of half extents around center. Negative extents are
// folded so Min never exceeds Max.
func Box(center, half math.Vec3) AABB {
	half = half.Abs()
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// ScreenToRay unprojects pixel (x, y) of a w by h viewport through
// invViewProj. Pixel rows grow downward.
func ScreenToRay(x, y, w, h float32, invViewProj math.Mat4) Ray {
	ndcX := 2*x/w - 1
	ndcY := 1 - 2*y/h

	// The second point sits at mid depth: the far plane loses too much
	// float32 precision once the near/far ratio grows.
	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1, 1})
	mid := unproject(invViewProj, math.Vec4{ndcX, ndcY, 0, 1})
	return Ray{Origin: near, Direction: mid.Sub(near).Normalize()}
}

func unproject(m math.Mat4, p math.Vec4) math.Vec3 {
	v := m.MulVec4(p)
	if v[3] != 0 {
		v[0], v[1], v[2] = v[0]/v[3], v[1]/v[3], v[2]/v[3]
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// IntersectPlaneY returns where the ray crosses the horizontal plane at
// height y. Rays parallel to the plane or pointing away from it miss.
func (r Ray) IntersectPlaneY(y float32) (math.Vec3, bool) {
	if gomath.Abs(float64(r.Direction.Y)) < 1e-3 {
		return math.Vec3{}, false
	}
	t := (y - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false
	}
	p := r.At(t)
	p.Y = y
	return p, true
}

// IntersectAABB returns the distance to the first hit with box. A ray that
// starts inside the box hits at its exit point.
func (r Ray) IntersectAABB(box AABB) (float32, bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin, dir := r.Origin.Array(), r.Direction.Array()
	lo, hi := box.Min.Array(), box.Max.Array()
	for axis := range 3 {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Nearest returns the index of the closest box the ray hits, or -1.
func (r Ray) Nearest(boxes []AABB) (int, float32) {
	best, bestT := -1, float32(gomath.MaxFloat32)
	for i, b := range boxes {
		if t, ok := r.IntersectAABB(b); ok && t < bestT {
			best, bestT = i, t
		}
	}
	return best, bestT
}
