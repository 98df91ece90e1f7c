// Package gputest provides recording fakes of the gpu contracts. Every fake
// counts the calls made on it and, when driven through a *CommandList, appends
// them to the list's call log in order.
package gputest

import (
	"errors"
	"fmt"
	"image"

	"github.com/Faultbox/tickframe/internal/engine/gpu"
)

// Op names recorded in a CommandList log.
const (
	OpViewport = "viewport"
	OpScissor  = "scissor"
	OpClear    = "clear"
	OpSubmit   = "submit"
	OpSurface  = "surface"
	OpProgram  = "program"
	OpTexture  = "texture"
	OpGeometry = "geometry"
	OpDraw     = "draw"
	OpUpload   = "upload"
	OpBuffer   = "buffer"
)

// ErrInjected is returned by Device constructors configured to fail.
var ErrInjected = errors.New("gputest: injected failure")

// Call is one recorded command.
type Call struct {
	Op    string
	Name  string
	Rect  gpu.Rect
	Slot  uint32
	Flags gpu.ClearFlags
}

// CommandList records every command issued through it.
type CommandList struct {
	Calls []Call
}

var _ gpu.CommandList = (*CommandList)(nil)

func (c *CommandList) SetViewport(r gpu.Rect) { c.record(Call{Op: OpViewport, Rect: r}) }
func (c *CommandList) SetScissor(r gpu.Rect)  { c.record(Call{Op: OpScissor, Rect: r}) }
func (c *CommandList) Submit()                { c.record(Call{Op: OpSubmit}) }

func (c *CommandList) Clear(flags gpu.ClearFlags, _ [4]float32) {
	c.record(Call{Op: OpClear, Flags: flags})
}

func (c *CommandList) record(call Call) {
	c.Calls = append(c.Calls, call)
}

// Count returns how many calls with op were recorded.
func (c *CommandList) Count(op string) int {
	n := 0
	for _, call := range c.Calls {
		if call.Op == op {
			n++
		}
	}
	return n
}

// Filter returns the recorded calls with op, in order.
func (c *CommandList) Filter(op string) []Call {
	var out []Call
	for _, call := range c.Calls {
		if call.Op == op {
			out = append(out, call)
		}
	}
	return out
}

// Scissors returns the scissor rectangles applied, in order.
func (c *CommandList) Scissors() []gpu.Rect {
	var out []gpu.Rect
	for _, call := range c.Filter(OpScissor) {
		out = append(out, call.Rect)
	}
	return out
}

// Reset clears the log.
func (c *CommandList) Reset() {
	c.Calls = c.Calls[:0]
}

func record(cmd gpu.CommandList, call Call) {
	if cl, ok := cmd.(*CommandList); ok {
		cl.record(call)
	}
}

// Program is a fake pipeline.
type Program struct {
	Name     string
	Format   gpu.VertexFormat
	Applies  int
	Releases int
}

func (p *Program) Apply(cmd gpu.CommandList) {
	p.Applies++
	record(cmd, Call{Op: OpProgram, Name: p.Name})
}

func (p *Program) VertexFormat() gpu.VertexFormat { return p.Format }
func (p *Program) Release()                       { p.Releases++ }

// Mesh is fake geometry.
type Mesh struct {
	Name     string
	Format   gpu.VertexFormat
	Data     gpu.MeshData
	Binds    int
	Draws    int
	Releases int
}

func (m *Mesh) ApplyGeometry(cmd gpu.CommandList) {
	m.Binds++
	record(cmd, Call{Op: OpGeometry, Name: m.Name})
}

func (m *Mesh) Draw(cmd gpu.CommandList) {
	m.Draws++
	record(cmd, Call{Op: OpDraw, Name: m.Name})
}

func (m *Mesh) VertexFormat() gpu.VertexFormat { return m.Format }
func (m *Mesh) Release()                       { m.Releases++ }

// Texture is a fake image.
type Texture struct {
	Name     string
	W, H     int32
	Binds    int
	Releases int
}

func (t *Texture) Bind(cmd gpu.CommandList, unit uint32) {
	t.Binds++
	record(cmd, Call{Op: OpTexture, Name: t.Name, Slot: unit})
}

func (t *Texture) Size() (int32, int32) { return t.W, t.H }
func (t *Texture) Release()             { t.Releases++ }

// Buffer is a fake uniform buffer holding the last uploaded bytes.
type Buffer struct {
	Name     string
	Data     []byte
	Uploads  int
	Binds    int
	Releases int
	Slot     uint32
}

func (b *Buffer) Upload(cmd gpu.CommandList, data []byte) {
	b.Uploads++
	b.Data = append(b.Data[:0], data...)
	record(cmd, Call{Op: OpUpload, Name: b.Name})
}

func (b *Buffer) Bind(cmd gpu.CommandList, slot uint32) {
	b.Binds++
	b.Slot = slot
	record(cmd, Call{Op: OpBuffer, Name: b.Name, Slot: slot})
}

func (b *Buffer) Release() { b.Releases++ }

// Surface is a fake render surface.
type Surface struct {
	W, H      int32
	IsPrimary bool
	Binds     int
}

func (s *Surface) Bind(cmd gpu.CommandList) {
	s.Binds++
	record(cmd, Call{Op: OpSurface, Rect: gpu.Rect{W: s.W, H: s.H}})
}

func (s *Surface) Size() (int32, int32) { return s.W, s.H }
func (s *Surface) Primary() bool        { return s.IsPrimary }

// Device hands out fakes and remembers every one it created.
type Device struct {
	Primary *Surface

	Lists    []*CommandList
	Buffers  []*Buffer
	Meshes   []*Mesh
	Textures []*Texture
	Programs []*Program

	FailBuffers  bool
	FailMeshes   bool
	FailTextures bool
	FailPrograms bool
}

var _ gpu.Device = (*Device)(nil)

// NewDevice returns a device whose primary surface is w x h.
func NewDevice(w, h int32) *Device {
	return &Device{Primary: &Surface{W: w, H: h, IsPrimary: true}}
}

func (d *Device) NewCommandList() gpu.CommandList {
	cl := &CommandList{}
	d.Lists = append(d.Lists, cl)
	return cl
}

func (d *Device) NewBuffer(size int) (gpu.Buffer, error) {
	if d.FailBuffers {
		return nil, ErrInjected
	}
	b := &Buffer{Name: fmt.Sprintf("buffer%d", len(d.Buffers)), Data: make([]byte, size)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) NewMesh(data gpu.MeshData) (gpu.Mesh, error) {
	if d.FailMeshes {
		return nil, ErrInjected
	}
	m := &Mesh{Name: data.Name, Format: data.Format, Data: data}
	d.Meshes = append(d.Meshes, m)
	return m, nil
}

func (d *Device) NewTexture(img *image.RGBA) (gpu.Texture, error) {
	if d.FailTextures {
		return nil, ErrInjected
	}
	b := img.Bounds()
	t := &Texture{Name: fmt.Sprintf("texture%d", len(d.Textures)), W: int32(b.Dx()), H: int32(b.Dy())}
	d.Textures = append(d.Textures, t)
	return t, nil
}

func (d *Device) NewProgram(src gpu.ProgramSource) (gpu.Program, error) {
	if d.FailPrograms {
		return nil, ErrInjected
	}
	p := &Program{Name: src.Name, Format: src.Format}
	d.Programs = append(d.Programs, p)
	return p, nil
}

func (d *Device) Surface() gpu.Surface { return d.Primary }
