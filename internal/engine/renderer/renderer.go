// Package renderer issues draws against a render target, skipping
// redundant pipeline, material and geometry binds between consecutive draws.
package renderer

import (
	"github.com/Faultbox/tickframe/internal/assert"
	"github.com/Faultbox/tickframe/internal/engine/constants"
	"github.com/Faultbox/tickframe/internal/engine/gpu"
	"github.com/Faultbox/tickframe/internal/engine/shader"
)

// MeshMaterial is the unit of drawing: geometry plus the material that
// shades it.
type MeshMaterial struct {
	Mesh     gpu.Mesh
	Material *shader.Material
}

// Shader returns the material's shader.
func (mm MeshMaterial) Shader() *shader.Shader { return mm.Material.Shader() }

// Compatible reports whether the mesh's vertex layout matches the shader.
func (mm MeshMaterial) Compatible() bool {
	return mm.Mesh.VertexFormat() == mm.Material.Shader().VertexFormat()
}

// Stats counts the work issued since the last Start.
type Stats struct {
	ShaderBinds   int
	MaterialBinds int
	MeshBinds     int
	Draws         int
	Uploads       int
}

// Target renders into one surface through one command list.
type Target struct {
	surface gpu.Surface
	cmd     gpu.CommandList
	clear   [4]float32

	full     gpu.Rect
	scissors []gpu.Rect
	started  bool

	shader   *shader.Shader
	material *shader.Material
	mesh     gpu.Mesh

	stats Stats
}

// New returns a target. clearColor is used only on primary surfaces.
func New(surface gpu.Surface, cmd gpu.CommandList, clearColor [4]float32) *Target {
	return &Target{surface: surface, cmd: cmd, clear: clearColor}
}

// CommandList returns the list draws are recorded into.
func (t *Target) CommandList() gpu.CommandList { return t.cmd }

// Size returns the surface dimensions.
func (t *Target) Size() (int32, int32) { return t.surface.Size() }

// Stats returns the counters for the current pass.
func (t *Target) Stats() Stats { return t.stats }

// Start binds the surface, resets viewport and scissor to the full surface
// and clears. Color is cleared only for the primary surface.
func (t *Target) Start() {
	assert.T(!t.started, "render target started twice")
	t.started = true
	t.stats = Stats{}

	w, h := t.surface.Size()
	t.full = gpu.Rect{W: w, H: h}

	t.surface.Bind(t.cmd)
	t.cmd.SetViewport(t.full)
	t.cmd.SetScissor(t.full)

	flags := gpu.ClearDepthStencil
	if t.surface.Primary() {
		flags |= gpu.ClearColor
	}
	t.cmd.Clear(flags, t.clear)
}

// ClearDepthStencil clears depth and stencil mid-pass.
func (t *Target) ClearDepthStencil() {
	t.cmd.Clear(gpu.ClearDepthStencil, t.clear)
}

// Render draws one mesh. Binds are issued in order shader, material,
// geometry, and each is skipped when unchanged since the previous draw.
// Shader-global constants are bound before the optional per-instance
// holder, so instance blocks bound later win.
func (t *Target) Render(mm MeshMaterial, instance *constants.Holder) {
	assert.T(t.started, "render outside Start/End")
	assert.T(mm.Compatible(), "mesh %v does not match vertex format of shader %s", mm.Mesh, mm.Shader().Name())

	sh := mm.Shader()
	if sh != t.shader {
		sh.Apply(t.cmd)
		t.shader = sh
		t.material = nil
		t.mesh = nil
		t.stats.ShaderBinds++
	}
	if mm.Material != t.material {
		mm.Material.ApplyTextures(t.cmd)
		t.material = mm.Material
		t.stats.MaterialBinds++
	}
	if mm.Mesh != t.mesh {
		mm.Mesh.ApplyGeometry(t.cmd)
		t.mesh = mm.Mesh
		t.stats.MeshBinds++
	}

	t.stats.Uploads += sh.Constants().Bind(t.cmd)
	if instance != nil {
		t.stats.Uploads += instance.Bind(t.cmd)
	}

	mm.Mesh.Draw(t.cmd)
	t.stats.Draws++
}

// End submits the pass and forgets all bind state.
func (t *Target) End() {
	assert.T(t.started, "render target ended without Start")
	assert.T(len(t.scissors) == 0, "render target ended with %d scissors pushed", len(t.scissors))
	t.cmd.Submit()
	t.started = false
	t.shader = nil
	t.material = nil
	t.mesh = nil
	t.scissors = t.scissors[:0]
}
