package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/tickframe/internal/engine/gpu"
)

type program struct {
	id     uint32
	format gpu.VertexFormat
}

func newProgram(src gpu.ProgramSource) (*program, error) {
	id, err := compileProgram(src.Vertex, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", src.Name, err)
	}

	for _, b := range src.Blocks {
		idx := gl.GetUniformBlockIndex(id, gl.Str(b.Name+"\x00"))
		if idx == gl.INVALID_INDEX {
			// Optimized out by the compiler; binding the buffer is harmless.
			continue
		}
		gl.UniformBlockBinding(id, idx, b.Slot)
	}

	gl.UseProgram(id)
	for unit, name := range src.Samplers {
		if loc := gl.GetUniformLocation(id, gl.Str(name+"\x00")); loc >= 0 {
			gl.Uniform1i(loc, int32(unit))
		}
	}
	gl.UseProgram(0)

	return &program{id: id, format: src.Format}, nil
}

func (p *program) Apply(gpu.CommandList)          { gl.UseProgram(p.id) }
func (p *program) VertexFormat() gpu.VertexFormat { return p.format }

func (p *program) Release() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// compileProgram compiles vertex and fragment shaders and links them.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(prog, logLen, nil, &log[0])
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link: %s", gl.GoStr(&log[0]))
	}
	return prog, nil
}

func compileShader(source string, kind uint32, name string) (uint32, error) {
	sh := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csource, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(sh, logLen, nil, &log[0])
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("%s shader: %s", name, gl.GoStr(&log[0]))
	}
	return sh, nil
}
