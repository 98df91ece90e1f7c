package template

import (
	"github.com/Faultbox/tickframe/internal/assert"
	"github.com/Faultbox/tickframe/internal/engine/constants"
	"github.com/Faultbox/tickframe/internal/engine/renderer"
	"github.com/Faultbox/tickframe/internal/engine/shader"
)

// MeshInstance is one drawable mesh of a model with its optional
// per-instance constants.
type MeshInstance struct {
	renderer.MeshMaterial
	Constants *constants.Holder
}

// ConstantsFunc picks the per-instance holder for a shader. It may return
// nil when the instance uses only the shader's global constants.
type ConstantsFunc func(s *shader.Shader) (*constants.Holder, error)

// Instantiate creates one MeshInstance per template mesh. A mesh whose
// vertex format does not match its shader panics.
func Instantiate(t Template, constantsFor ConstantsFunc) ([]MeshInstance, error) {
	meshes := t.Meshes()
	out := make([]MeshInstance, 0, len(meshes))
	for _, mm := range meshes {
		assert.T(mm.Compatible(), "mesh %v does not match vertex format of shader %s", mm.Mesh, mm.Shader().Name())
		inst := MeshInstance{MeshMaterial: mm}
		if constantsFor != nil {
			h, err := constantsFor(mm.Shader())
			if err != nil {
				return nil, err
			}
			inst.Constants = h
		}
		out = append(out, inst)
	}
	return out, nil
}
