package glbackend

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/tickframe/internal/engine/gpu"
)

// Attribute locations shared by every program.
const (
	attribPosition = 0
	attribNormal   = 1
	attribTexCoord = 2
)

type mesh struct {
	vao, vbo, ebo uint32
	count         int32
	format        gpu.VertexFormat
}

func newMesh(data gpu.MeshData) (*mesh, error) {
	if len(data.Vertices) == 0 || len(data.Indices) == 0 {
		return nil, fmt.Errorf("mesh %s: no geometry", data.Name)
	}
	m := &mesh{count: int32(len(data.Indices)), format: data.Format}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data.Vertices)*int(unsafe.Sizeof(gpu.Vertex{})), gl.Ptr(data.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)

	// Vertex: Position(12) + Normal(12) + TexCoord(8) = 32 bytes
	stride := int32(unsafe.Sizeof(gpu.Vertex{}))
	switch data.Format {
	case gpu.FormatPosition2DUV:
		gl.EnableVertexAttribArray(attribPosition)
		gl.VertexAttribPointerWithOffset(attribPosition, 2, gl.FLOAT, false, stride, 0)
	default:
		gl.EnableVertexAttribArray(attribPosition)
		gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, stride, 0)
		gl.EnableVertexAttribArray(attribNormal)
		gl.VertexAttribPointerWithOffset(attribNormal, 3, gl.FLOAT, false, stride, 12)
	}
	gl.EnableVertexAttribArray(attribTexCoord)
	gl.VertexAttribPointerWithOffset(attribTexCoord, 2, gl.FLOAT, false, stride, 24)

	gl.BindVertexArray(0)
	if err := glError("mesh " + data.Name); err != nil {
		m.Release()
		return nil, err
	}
	return m, nil
}

func (m *mesh) ApplyGeometry(gpu.CommandList) { gl.BindVertexArray(m.vao) }

func (m *mesh) Draw(gpu.CommandList) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, 0)
}

func (m *mesh) VertexFormat() gpu.VertexFormat { return m.format }

func (m *mesh) Release() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
		m.vao, m.vbo, m.ebo = 0, 0, 0
	}
}
