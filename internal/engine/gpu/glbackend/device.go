// Package glbackend implements the gpu contracts on OpenGL 4.1 core. Every
// call must be made on the thread that owns the GL context.
package glbackend

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/tickframe/internal/engine/gpu"
	"github.com/Faultbox/tickframe/internal/logger"
)

// Device creates GL resources for the current context.
type Device struct {
	primary *windowSurface
	log     *zap.Logger
}

var _ gpu.Device = (*Device)(nil)

// New loads the GL entry points. A context must be current.
func New(width, height int32) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	d := &Device{
		primary: &windowSurface{width: width, height: height},
		log:     logger.Named("gl"),
	}
	d.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.Enable(gl.SCISSOR_TEST)
	return d, nil
}

// Resize updates the primary surface after the window changed size.
func (d *Device) Resize(width, height int32) {
	d.primary.width, d.primary.height = width, height
}

func (d *Device) Surface() gpu.Surface { return d.primary }

func (d *Device) NewCommandList() gpu.CommandList { return &commandList{} }

func (d *Device) NewBuffer(size int) (gpu.Buffer, error) {
	b := &buffer{size: size}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.id)
	gl.BufferData(gl.UNIFORM_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	if err := glError("uniform buffer"); err != nil {
		gl.DeleteBuffers(1, &b.id)
		return nil, err
	}
	return b, nil
}

func (d *Device) NewTexture(img *image.RGBA) (gpu.Texture, error) {
	return newTexture(img)
}

func (d *Device) NewMesh(data gpu.MeshData) (gpu.Mesh, error) {
	return newMesh(data)
}

func (d *Device) NewProgram(src gpu.ProgramSource) (gpu.Program, error) {
	return newProgram(src)
}

// NewFramebuffer creates an offscreen surface.
func (d *Device) NewFramebuffer(width, height int32) (*Framebuffer, error) {
	return NewFramebuffer(width, height)
}

// glError drains the GL error queue and reports the first error.
func glError(what string) error {
	var first uint32
	for e := gl.GetError(); e != gl.NO_ERROR; e = gl.GetError() {
		if first == 0 {
			first = e
		}
	}
	if first != 0 {
		return fmt.Errorf("%s: GL error 0x%x", what, first)
	}
	return nil
}

// commandList issues commands immediately; Submit flushes the GL queue.
type commandList struct{}

func (commandList) SetViewport(r gpu.Rect) { gl.Viewport(r.X, r.Y, r.W, r.H) }
func (commandList) SetScissor(r gpu.Rect)  { gl.Scissor(r.X, r.Y, r.W, r.H) }
func (commandList) Submit()                { gl.Flush() }

func (commandList) Clear(flags gpu.ClearFlags, color [4]float32) {
	var mask uint32
	if flags&gpu.ClearColor != 0 {
		gl.ClearColor(color[0], color[1], color[2], color[3])
		mask |= gl.COLOR_BUFFER_BIT
	}
	if flags&gpu.ClearDepth != 0 {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if flags&gpu.ClearStencil != 0 {
		mask |= gl.STENCIL_BUFFER_BIT
	}
	if mask != 0 {
		gl.Clear(mask)
	}
}

// windowSurface is the default framebuffer.
type windowSurface struct {
	width, height int32
}

func (s *windowSurface) Bind(gpu.CommandList) { gl.BindFramebuffer(gl.FRAMEBUFFER, 0) }
func (s *windowSurface) Size() (int32, int32) { return s.width, s.height }
func (s *windowSurface) Primary() bool        { return true }

type buffer struct {
	id   uint32
	size int
}

func (b *buffer) Upload(_ gpu.CommandList, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.id)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, min(len(data), b.size), gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

func (b *buffer) Bind(_ gpu.CommandList, slot uint32) {
	gl.BindBufferBase(gl.UNIFORM_BUFFER, slot, b.id)
}

func (b *buffer) Release() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}
