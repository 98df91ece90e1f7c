package glbackend

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/tickframe/internal/engine/gpu"
)

// Framebuffer is an offscreen surface with color and depth attachments.
type Framebuffer struct {
	fbo      uint32
	color    texture
	depthRBO uint32
}

var _ gpu.Surface = (*Framebuffer)(nil)

// NewFramebuffer creates a framebuffer of at least 1x1 pixels.
func NewFramebuffer(width, height int32) (*Framebuffer, error) {
	fb := &Framebuffer{color: texture{width: max(width, 1), height: max(height, 1)}}
	if err := fb.create(); err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	return fb, nil
}

func (fb *Framebuffer) create() error {
	gl.GenFramebuffers(1, &fb.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)

	gl.GenTextures(1, &fb.color.id)
	gl.BindTexture(gl.TEXTURE_2D, fb.color.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, fb.color.width, fb.color.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.color.id, 0)

	gl.GenRenderbuffers(1, &fb.depthRBO)
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRBO)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, fb.color.width, fb.color.height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, fb.depthRBO)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.Release()
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

// Bind makes the framebuffer the draw target.
func (fb *Framebuffer) Bind(gpu.CommandList) { gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo) }

// Size returns the attachment dimensions.
func (fb *Framebuffer) Size() (int32, int32) { return fb.color.width, fb.color.height }

// Primary is false: offscreen targets are never presented.
func (fb *Framebuffer) Primary() bool { return false }

// ColorTexture returns the color attachment for sampling. It is owned by
// the framebuffer.
func (fb *Framebuffer) ColorTexture() gpu.Texture { return &fb.color }

// Resize reallocates the attachments if the size changed.
func (fb *Framebuffer) Resize(width, height int32) {
	width, height = max(width, 1), max(height, 1)
	if width == fb.color.width && height == fb.color.height {
		return
	}
	fb.color.width, fb.color.height = width, height

	gl.BindTexture(gl.TEXTURE_2D, fb.color.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRBO)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, width, height)
}

// ReadImage reads the color attachment top row first.
func (fb *Framebuffer) ReadImage() *image.RGBA {
	w, h := fb.Size()
	pixels := make([]byte, w*h*4)

	var prev int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prev)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prev))

	return flipRows(pixels, int(w), int(h))
}

// Release frees the GL objects.
func (fb *Framebuffer) Release() {
	if fb.fbo != 0 {
		gl.DeleteFramebuffers(1, &fb.fbo)
		fb.fbo = 0
	}
	fb.color.Release()
	if fb.depthRBO != 0 {
		gl.DeleteRenderbuffers(1, &fb.depthRBO)
		fb.depthRBO = 0
	}
}
