package template

import (
	"errors"
	"testing"

	"github.com/Faultbox/tickframe/internal/assert"
	"github.com/Faultbox/tickframe/internal/engine/constants"
	"github.com/Faultbox/tickframe/internal/engine/gpu"
	"github.com/Faultbox/tickframe/internal/engine/gpu/gputest"
	"github.com/Faultbox/tickframe/internal/engine/physics/kinematic"
	"github.com/Faultbox/tickframe/internal/engine/renderer"
	"github.com/Faultbox/tickframe/internal/engine/resource"
	"github.com/Faultbox/tickframe/internal/engine/shader"
	"github.com/Faultbox/tickframe/pkg/math"
)

func newShader(t *testing.T, dev *gputest.Device) *shader.Shader {
	t.Helper()
	s, err := shader.NewLibrary(dev).Register(shader.Kind{
		Source:   gpu.ProgramSource{Name: "lit", Format: gpu.FormatPositionNormalUV},
		Global:   constants.NewLayout(constants.NewBlock("Frame", 0, constants.MemberViewProjection)),
		Instance: constants.NewLayout(constants.NewBlock("Object", 1, constants.MemberWorldMatrix)),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return s
}

func crate(s *shader.Shader) ([]renderer.MeshMaterial, *gputest.Mesh) {
	mesh := &gputest.Mesh{Name: "crate", Format: gpu.FormatPositionNormalUV}
	return []renderer.MeshMaterial{{Mesh: mesh, Material: s.CreateMaterial("wood")}}, mesh
}

func TestValueTemplateSharesItself(t *testing.T) {
	s := newShader(t, gputest.NewDevice(1, 1))
	meshes, mesh := crate(s)
	v := NewValue(meshes...)

	if v.CreateDerivative() != Template(v) {
		t.Error("value derivative should be the template itself")
	}
	v.Release()
	if mesh.Releases != 0 {
		t.Error("value template must not release meshes")
	}
}

func TestDependentKeepsOwnerAlive(t *testing.T) {
	s := newShader(t, gputest.NewDevice(1, 1))
	meshes, mesh := crate(s)
	arena := resource.NewArena()
	owner := NewOwning(arena, meshes)

	a := owner.CreateDerivative()
	b := owner.CreateDerivative()
	if a == b {
		t.Error("owning derivatives should be distinct dependents")
	}
	if owner.Refs() != 3 {
		t.Fatalf("refs = %d, want 3", owner.Refs())
	}

	owner.Release()
	a.Release()
	if mesh.Releases != 0 {
		t.Fatal("mesh freed while a derivative is alive")
	}
	if got := b.Meshes()[0].Mesh; got != mesh {
		t.Error("dependent lost the owner's meshes")
	}

	b.Release()
	if mesh.Releases != 1 {
		t.Errorf("mesh releases = %d, want 1", mesh.Releases)
	}
	if owner.Alive() {
		t.Error("owner should be freed after the last release")
	}
}

func TestDependentDerivativeIsSelf(t *testing.T) {
	s := newShader(t, gputest.NewDevice(1, 1))
	meshes, mesh := crate(s)
	owner := NewOwning(resource.NewArena(), meshes)

	d := owner.CreateDerivative()
	d2 := d.CreateDerivative()
	if d2 != d {
		t.Error("dependent derivative should be the dependent itself")
	}
	if d.(*Dependent).Owner() != owner {
		t.Error("dependent should reference the root owner")
	}

	owner.Release()
	d.Release()
	if mesh.Releases != 0 {
		t.Fatal("freed with one reference outstanding")
	}
	d2.Release()
	if mesh.Releases != 1 {
		t.Errorf("mesh releases = %d, want 1", mesh.Releases)
	}
}

func TestSecondOwnerPanics(t *testing.T) {
	s := newShader(t, gputest.NewDevice(1, 1))
	meshes, _ := crate(s)
	arena := resource.NewArena()
	NewOwning(arena, meshes)

	if _, ok := assert.Panics(func() { NewOwning(arena, meshes) }); !ok {
		t.Error("owning the same meshes twice should panic")
	}
}

func TestOwningReleasesExtras(t *testing.T) {
	s := newShader(t, gputest.NewDevice(1, 1))
	meshes, _ := crate(s)
	tex := &gputest.Texture{Name: "wood"}
	owner := NewOwning(resource.NewArena(), meshes, tex)
	owner.Release()
	if tex.Releases != 1 {
		t.Errorf("texture releases = %d, want 1", tex.Releases)
	}
}

func TestPhysicsDerivative(t *testing.T) {
	s := newShader(t, gputest.NewDevice(1, 1))
	meshes, mesh := crate(s)
	shape := kinematic.Box{HalfExtents: math.Vec3One()}
	offset := math.Vec3{Y: 0.5}

	root := &Physics{Template: NewOwning(resource.NewArena(), meshes), Shape: shape, OffsetFromCenter: offset}
	d := root.CreateDerivative().(*Physics)
	if d == root {
		t.Fatal("physics over owning should wrap a new dependent")
	}
	if d.Shape != shape || d.OffsetFromCenter != offset {
		t.Error("derivative lost shape or offset")
	}
	if d.CreateDerivative() != Template(d) {
		t.Error("physics over dependent should return itself")
	}

	root.Release()
	d.Release()
	if mesh.Releases != 0 {
		t.Fatal("freed with one reference outstanding")
	}
	d.Release()
	if mesh.Releases != 1 {
		t.Errorf("mesh releases = %d, want 1", mesh.Releases)
	}

	value := &Physics{Template: NewValue(meshes...), Shape: shape}
	if value.CreateDerivative() != Template(value) {
		t.Error("physics over value should return itself")
	}
}

func TestInstantiateIndependentConstants(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	s := newShader(t, dev)
	meshes, _ := crate(s)
	tpl := NewValue(meshes...)

	perInstance := func(sh *shader.Shader) (*constants.Holder, error) {
		return sh.TryCreateInstanceConstants()
	}
	a, err := Instantiate(tpl, perInstance)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Instantiate(tpl, perInstance)
	if err != nil {
		t.Fatal(err)
	}

	if a[0].Mesh != b[0].Mesh || a[0].Material != b[0].Material {
		t.Error("instances should share mesh and material")
	}
	if a[0].Constants == nil || a[0].Constants == b[0].Constants {
		t.Error("instances should have independent constant holders")
	}

	constants.TrySet(a[0].Constants, constants.WorldMatrix, math.Translate(1, 2, 3))
	if got, _ := constants.TryGet(b[0].Constants, constants.WorldMatrix); got == math.Translate(1, 2, 3) {
		t.Error("write to one instance leaked into the other")
	}
}

func TestInstantiateErrors(t *testing.T) {
	dev := gputest.NewDevice(1, 1)
	s := newShader(t, dev)
	meshes, _ := crate(s)

	dev.FailBuffers = true
	_, err := Instantiate(NewValue(meshes...), func(sh *shader.Shader) (*constants.Holder, error) {
		return sh.TryCreateInstanceConstants()
	})
	if !errors.Is(err, gputest.ErrInjected) {
		t.Errorf("err = %v, want injected", err)
	}

	bad := renderer.MeshMaterial{Mesh: &gputest.Mesh{Format: gpu.FormatPosition2DUV}, Material: s.CreateMaterial("m")}
	if _, ok := assert.Panics(func() { Instantiate(NewValue(bad), nil) }); !ok {
		t.Error("format mismatch should panic")
	}
}
