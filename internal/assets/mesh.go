package assets

import (
	"github.com/Faultbox/tickframe/internal/engine/gpu"
	"github.com/Faultbox/tickframe/pkg/math"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max math.Vec3
}

// EmptyBounds returns an inverted box that any point expands.
func EmptyBounds() Bounds {
	const big = 3.4e38
	return Bounds{Min: math.Vec3{X: big, Y: big, Z: big}, Max: math.Vec3{X: -big, Y: -big, Z: -big}}
}

// Extend grows b to contain p.
func (b *Bounds) Extend(p [3]float32) {
	b.Min = math.Vec3{X: min(b.Min.X, p[0]), Y: min(b.Min.Y, p[1]), Z: min(b.Min.Z, p[2])}
	b.Max = math.Vec3{X: max(b.Max.X, p[0]), Y: max(b.Max.Y, p[1]), Z: max(b.Max.Z, p[2])}
}

// Union grows b to contain o.
func (b *Bounds) Union(o Bounds) {
	b.Extend(o.Min.Array())
	b.Extend(o.Max.Array())
}

// Valid reports whether any point was added.
func (b Bounds) Valid() bool { return b.Min.X <= b.Max.X }

// Center returns the box midpoint.
func (b Bounds) Center() math.Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

// HalfExtents returns half the box size.
func (b Bounds) HalfExtents() math.Vec3 { return b.Max.Sub(b.Min).Scale(0.5) }

// BoundsOf returns the bounds of every vertex position.
func BoundsOf(vertices []gpu.Vertex) Bounds {
	b := EmptyBounds()
	for i := range vertices {
		b.Extend(vertices[i].Position)
	}
	return b
}

// FlatNormals gives every triangle's vertices the face normal.
func FlatNormals(vertices []gpu.Vertex, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		pa := vec(vertices[a].Position)
		n := vec(vertices[b].Position).Sub(pa).Cross(vec(vertices[c].Position).Sub(pa)).Normalize()
		for _, idx := range [3]uint32{a, b, c} {
			vertices[idx].Normal = n.Array()
		}
	}
}

// SmoothNormals averages normals at shared vertex positions.
func SmoothNormals(vertices []gpu.Vertex) {
	const epsilon float32 = 0.001

	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}
		var sum math.Vec3
		for _, idx := range idxs {
			sum = sum.Add(vec(vertices[idx].Normal))
		}
		avg := sum.Normalize().Array()
		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}

func vec(a [3]float32) math.Vec3 { return math.Vec3{X: a[0], Y: a[1], Z: a[2]} }

// CubeMesh returns a cube centered on the origin with per-face normals.
func CubeMesh(name string, half float32) gpu.MeshData {
	type face struct{ n, u, v math.Vec3 }
	faces := [6]face{
		{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}},
		{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: -1}},
		{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
		{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: 1}},
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	md := gpu.MeshData{Name: name, Format: gpu.FormatPositionNormalUV}
	for _, f := range faces {
		base := uint32(len(md.Vertices))
		for _, c := range corners {
			p := f.n.Add(f.u.Scale(c[0])).Add(f.v.Scale(c[1])).Scale(half)
			md.Vertices = append(md.Vertices, gpu.Vertex{
				Position: p.Array(),
				Normal:   f.n.Array(),
				TexCoord: [2]float32{(c[0] + 1) / 2, (1 - c[1]) / 2},
			})
		}
		md.Indices = append(md.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return md
}

// PlaneMesh returns a horizontal square facing +Y whose texture repeats
// once per unit.
func PlaneMesh(name string, size float32) gpu.MeshData {
	h := size / 2
	up := [3]float32{0, 1, 0}
	return gpu.MeshData{
		Name:   name,
		Format: gpu.FormatPositionNormalUV,
		Vertices: []gpu.Vertex{
			{Position: [3]float32{-h, 0, h}, Normal: up, TexCoord: [2]float32{0, 0}},
			{Position: [3]float32{h, 0, h}, Normal: up, TexCoord: [2]float32{size, 0}},
			{Position: [3]float32{h, 0, -h}, Normal: up, TexCoord: [2]float32{size, size}},
			{Position: [3]float32{-h, 0, -h}, Normal: up, TexCoord: [2]float32{0, size}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}
