// Package template describes which meshes and materials make up a model and
// who owns the GPU resources behind them.
//
// Exactly one Owning template exists per resource set. Everything else that
// needs the meshes holds a derivative: a Dependent that keeps the owner
// alive, or a Value that owns nothing. The owner's resources are freed when
// the last of the owner and its derivatives is released.
package template

import (
	"github.com/Faultbox/tickframe/internal/engine/physics"
	"github.com/Faultbox/tickframe/internal/engine/renderer"
	"github.com/Faultbox/tickframe/internal/engine/resource"
	"github.com/Faultbox/tickframe/pkg/math"
)

// Template is an immutable mesh list with defined ownership.
type Template interface {
	Meshes() []renderer.MeshMaterial
	// CreateDerivative returns a template that shares the meshes. Every
	// derivative must be released.
	CreateDerivative() Template
	Release()
}

// Releaser frees a GPU resource.
type Releaser interface {
	Release()
}

// Value wraps meshes owned elsewhere.
type Value struct {
	meshes []renderer.MeshMaterial
}

// NewValue returns a non-owning template.
func NewValue(meshes ...renderer.MeshMaterial) *Value {
	return &Value{meshes: meshes}
}

func (v *Value) Meshes() []renderer.MeshMaterial { return v.meshes }
func (v *Value) CreateDerivative() Template      { return v }
func (v *Value) Release()                        {}

// Owning exclusively owns its meshes and any extra resources handed to it.
type Owning struct {
	arena  *resource.Arena
	handle resource.Handle
	meshes []renderer.MeshMaterial
}

// NewOwning registers the meshes, their materials and owned with the arena.
// A mesh or material already owned by a live template panics. The returned
// template holds one reference.
func NewOwning(arena *resource.Arena, meshes []renderer.MeshMaterial, owned ...Releaser) *Owning {
	claims := make([]any, 0, 2*len(meshes)+len(owned))
	seen := make(map[any]bool, cap(claims))
	claim := func(c any) {
		if !seen[c] {
			seen[c] = true
			claims = append(claims, c)
		}
	}
	for _, mm := range meshes {
		claim(mm.Mesh)
		claim(mm.Material)
	}
	for _, r := range owned {
		claim(r)
	}

	release := func() {
		done := make(map[any]bool, len(meshes))
		for _, mm := range meshes {
			if !done[mm.Mesh] {
				done[mm.Mesh] = true
				mm.Mesh.Release()
			}
		}
		for _, r := range owned {
			r.Release()
		}
	}
	return &Owning{
		arena:  arena,
		handle: arena.Insert(release, claims...),
		meshes: meshes,
	}
}

func (o *Owning) Meshes() []renderer.MeshMaterial { return o.meshes }

// CreateDerivative returns a new Dependent holding a reference to o.
func (o *Owning) CreateDerivative() Template {
	o.arena.Retain(o.handle)
	return &Dependent{owner: o}
}

// Release drops the owner's own reference.
func (o *Owning) Release() { o.arena.Release(o.handle) }

// Refs returns the live references: the owner's own plus one per
// outstanding derivative.
func (o *Owning) Refs() int { return o.arena.Refs(o.handle) }

// Alive reports whether the resources are still allocated.
func (o *Owning) Alive() bool { return o.arena.Alive(o.handle) }

// Dependent keeps an Owning template alive and exposes its meshes.
type Dependent struct {
	owner *Owning
}

func (d *Dependent) Meshes() []renderer.MeshMaterial { return d.owner.meshes }

// CreateDerivative adds a reference and returns d itself.
func (d *Dependent) CreateDerivative() Template {
	d.owner.arena.Retain(d.owner.handle)
	return d
}

// Release drops one reference.
func (d *Dependent) Release() { d.owner.Release() }

// Owner returns the template that owns the resources.
func (d *Dependent) Owner() *Owning { return d.owner }

// Physics adds a collision shape to a template. The shape is immutable and
// shared between derivatives.
type Physics struct {
	Template
	Shape            physics.Shape
	OffsetFromCenter math.Vec3
}

// CreateDerivative wraps the inner derivative, returning p itself when the
// inner template shares itself.
func (p *Physics) CreateDerivative() Template {
	inner := p.Template.CreateDerivative()
	if inner == p.Template {
		return p
	}
	return &Physics{Template: inner, Shape: p.Shape, OffsetFromCenter: p.OffsetFromCenter}
}

// OwnerOf returns the Owning template behind t, if any.
func OwnerOf(t Template) (*Owning, bool) {
	switch v := t.(type) {
	case *Owning:
		return v, true
	case *Dependent:
		return v.owner, true
	case *Physics:
		return OwnerOf(v.Template)
	}
	return nil, false
}
