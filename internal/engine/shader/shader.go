// Package shader pairs a compiled program with the constant layouts it
// declares, and builds materials (texture sets) against it.
package shader

import (
	"fmt"

	"github.com/Faultbox/tickframe/internal/assert"
	"github.com/Faultbox/tickframe/internal/engine/constants"
	"github.com/Faultbox/tickframe/internal/engine/gpu"
)

// Desc describes a shader kind.
type Desc struct {
	Name    string
	Program gpu.Program
	// Global blocks are shared by every draw with this shader.
	Global *constants.Layout
	// Instance blocks, if any, are allocated per mesh instance.
	Instance *constants.Layout
}

// Shader is one shader kind: a program, its shader-global constant holder
// and the providers that fill it.
type Shader struct {
	name     string
	program  gpu.Program
	alloc    constants.Allocator
	global   *constants.Holder
	globals  *constants.ProviderSet
	instance *constants.Layout
	released bool
}

// New creates a shader and allocates its global constant holder. The shader
// takes ownership of the program.
func New(alloc constants.Allocator, d Desc) (*Shader, error) {
	assert.T(d.Program != nil, "shader %s has no program", d.Name)
	assert.T(!d.Global.SharesSlot(d.Instance), "shader %s: global and instance blocks share a slot", d.Name)

	s := &Shader{
		name:     d.Name,
		program:  d.Program,
		alloc:    alloc,
		instance: d.Instance,
	}

	global := d.Global
	if global == nil {
		global = constants.NewLayout()
	}
	h, err := constants.NewHolder(alloc, global)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", d.Name, err)
	}
	s.global = h
	s.globals = constants.NewProviderSet(h)
	return s, nil
}

// Name returns the shader kind.
func (s *Shader) Name() string { return s.name }

// Apply binds the pipeline.
func (s *Shader) Apply(cmd gpu.CommandList) {
	s.program.Apply(cmd)
}

// VertexFormat returns the vertex layout the program expects.
func (s *Shader) VertexFormat() gpu.VertexFormat {
	return s.program.VertexFormat()
}

// Constants returns the shader-global holder.
func (s *Shader) Constants() *constants.Holder { return s.global }

// Globals returns the providers attached to the shader-global holder.
func (s *Shader) Globals() *constants.ProviderSet { return s.globals }

// HasInstanceConstants reports whether the shader declares per-instance blocks.
func (s *Shader) HasInstanceConstants() bool { return s.instance != nil }

// TryCreateInstanceConstants allocates a fresh per-instance holder. It returns
// nil, nil when the shader has no per-instance blocks. The caller owns the
// holder and must Release it.
func (s *Shader) TryCreateInstanceConstants() (*constants.Holder, error) {
	if s.instance == nil {
		return nil, nil
	}
	h, err := constants.NewHolder(s.alloc, s.instance)
	if err != nil {
		return nil, fmt.Errorf("shader %s instance constants: %w", s.name, err)
	}
	return h, nil
}

// CreateMaterial returns a material drawing with this shader. Textures are
// bound to units in the order given and stay owned by the caller.
func (s *Shader) CreateMaterial(name string, textures ...gpu.Texture) *Material {
	return &Material{name: name, shader: s, textures: textures}
}

// Release frees the program and the global holder.
func (s *Shader) Release() {
	assert.T(!s.released, "shader %s released twice", s.name)
	s.released = true
	s.global.Release()
	s.program.Release()
}

// Material is a shader plus the textures it samples.
type Material struct {
	name     string
	shader   *Shader
	textures []gpu.Texture
}

// Name returns the material name.
func (m *Material) Name() string { return m.name }

// Shader returns the shader the material draws with.
func (m *Material) Shader() *Shader { return m.shader }

// Textures returns the bound textures in unit order.
func (m *Material) Textures() []gpu.Texture { return m.textures }

// ApplyTextures binds every texture to its unit.
func (m *Material) ApplyTextures(cmd gpu.CommandList) {
	for i, tex := range m.textures {
		tex.Bind(cmd, uint32(i))
	}
}

func (m *Material) String() string {
	return fmt.Sprintf("%s/%s", m.shader.name, m.name)
}
