// Package gpu defines the opaque handle contracts the engine core draws
// through. Concrete backends live in subpackages; the core never touches the
// graphics API directly.
package gpu

import (
	"fmt"
	"image"
)

// ClearFlags selects which surface attachments Clear resets.
type ClearFlags uint8

const (
	ClearColor ClearFlags = 1 << iota
	ClearDepth
	ClearStencil

	ClearDepthStencil = ClearDepth | ClearStencil
	ClearAll          = ClearColor | ClearDepthStencil
)

// Rect is a pixel rectangle with its origin at the bottom-left corner.
type Rect struct {
	X, Y, W, H int32
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// VertexFormat identifies the vertex layout a mesh provides or a program expects.
type VertexFormat uint8

const (
	// FormatPositionNormalUV is Vertex: position, normal, texcoord.
	FormatPositionNormalUV VertexFormat = iota + 1
	// FormatPosition2DUV is a flat quad vertex used by screen-space drawing.
	FormatPosition2DUV
)

func (f VertexFormat) String() string {
	switch f {
	case FormatPositionNormalUV:
		return "position-normal-uv"
	case FormatPosition2DUV:
		return "position2d-uv"
	default:
		return fmt.Sprintf("VertexFormat(%d)", uint8(f))
	}
}

// Vertex is the interleaved FormatPositionNormalUV vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// MeshData is CPU-side geometry ready for upload.
type MeshData struct {
	Name     string
	Format   VertexFormat
	Vertices []Vertex
	Indices  []uint32
}

// CommandList records or issues work against the current surface.
type CommandList interface {
	SetViewport(r Rect)
	SetScissor(r Rect)
	Clear(flags ClearFlags, color [4]float32)
	// Submit hands everything recorded since the last Submit to the GPU.
	Submit()
}

// Program is a linked pipeline.
type Program interface {
	Apply(cmd CommandList)
	VertexFormat() VertexFormat
	Release()
}

// Mesh is uploaded geometry.
type Mesh interface {
	ApplyGeometry(cmd CommandList)
	Draw(cmd CommandList)
	VertexFormat() VertexFormat
	Release()
}

// Texture is an uploaded image.
type Texture interface {
	Bind(cmd CommandList, unit uint32)
	Size() (width, height int32)
	Release()
}

// Buffer is a GPU uniform buffer.
type Buffer interface {
	Upload(cmd CommandList, data []byte)
	Bind(cmd CommandList, slot uint32)
	Release()
}

// Surface is something a render target can draw into.
type Surface interface {
	Bind(cmd CommandList)
	Size() (width, height int32)
	// Primary reports whether this is the presented back buffer.
	Primary() bool
}

// BlockBinding ties a named uniform block in shader source to a buffer slot.
type BlockBinding struct {
	Name string
	Slot uint32
}

// ProgramSource describes a program to compile.
type ProgramSource struct {
	Name     string
	Vertex   string
	Fragment string
	Format   VertexFormat
	Blocks   []BlockBinding
	Samplers []string // sampler uniform names, bound to units in order
}

// Device creates GPU resources.
type Device interface {
	NewCommandList() CommandList
	NewBuffer(size int) (Buffer, error)
	NewMesh(data MeshData) (Mesh, error)
	NewTexture(img *image.RGBA) (Texture, error)
	NewProgram(src ProgramSource) (Program, error)
	// Surface returns the primary surface.
	Surface() Surface
}
