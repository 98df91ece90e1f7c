// Package model turns templates into drawable entities whose world matrix
// is interpolated between simulation ticks.
package model

import (
	"fmt"

	"github.com/Faultbox/tickframe/internal/assert"
	"github.com/Faultbox/tickframe/internal/engine/constants"
	"github.com/Faultbox/tickframe/internal/engine/renderer"
	"github.com/Faultbox/tickframe/internal/engine/shader"
	"github.com/Faultbox/tickframe/internal/engine/template"
	"github.com/Faultbox/tickframe/pkg/math"
	"github.com/Faultbox/tickframe/pkg/transform"
)

// Model is a static drawable. It provides WorldMatrix to every holder its
// meshes draw with.
type Model struct {
	template  template.Template
	instances []template.MeshInstance

	// One provider set per distinct per-instance holder.
	sets  []*constants.ProviderSet
	owned []*constants.Holder
	// Providers applied to shader-global holders right before each draw.
	shared []constants.Provider

	world    transform.Transform
	matrixAt func(interp float32) math.Mat4
	released bool
}

// New builds a model from t and takes over the caller's reference to it.
// Shaders that declare per-instance blocks get one holder per shader, owned
// by the model.
func New(t template.Template, world transform.Transform) (*Model, error) {
	m := &Model{template: t, world: world}
	m.matrixAt = func(float32) math.Mat4 { return m.world.Matrix() }

	byShader := make(map[*shader.Shader]*constants.Holder)
	instances, err := template.Instantiate(t, func(s *shader.Shader) (*constants.Holder, error) {
		if h, ok := byShader[s]; ok {
			return h, nil
		}
		h, err := s.TryCreateInstanceConstants()
		if err != nil {
			return nil, err
		}
		byShader[s] = h
		if h != nil {
			m.owned = append(m.owned, h)
			m.sets = append(m.sets, constants.NewProviderSet(h))
		}
		return h, nil
	})
	if err != nil {
		m.releaseHolders()
		return nil, fmt.Errorf("instantiating model: %w", err)
	}
	m.instances = instances
	m.AddProvider(m)
	return m, nil
}

// Template returns the template the model keeps alive.
func (m *Model) Template() template.Template { return m.template }

// Instances returns the drawable meshes.
func (m *Model) Instances() []template.MeshInstance { return m.instances }

// WorldTransform returns the model's transform.
func (m *Model) WorldTransform() transform.Transform { return m.world }

// SetWorldTransform moves the model.
func (m *Model) SetWorldTransform(t transform.Transform) { m.world = t }

// WorldMatrix returns the matrix drawn at interp.
func (m *Model) WorldMatrix(interp float32) math.Mat4 { return m.matrixAt(interp) }

// ApplyConstants writes WorldMatrix into h.
func (m *Model) ApplyConstants(h *constants.Holder, interp float32) {
	constants.TrySet(h, constants.WorldMatrix, m.matrixAt(interp))
}

// AddProvider attaches p to every holder the model's meshes draw with. It
// reports false if p was already attached.
func (m *Model) AddProvider(p constants.Provider) bool {
	for _, cur := range m.shared {
		if cur == p {
			return false
		}
	}
	m.shared = append(m.shared, p)
	for _, set := range m.sets {
		set.Add(p)
	}
	return true
}

// RemoveProvider detaches p.
func (m *Model) RemoveProvider(p constants.Provider) bool {
	for i, cur := range m.shared {
		if cur == p {
			m.shared = append(m.shared[:i], m.shared[i+1:]...)
			for _, set := range m.sets {
				set.Remove(p)
			}
			return true
		}
	}
	return false
}

// OnAdd and OnRemove are scene hooks; a static model has nothing to attach.
func (m *Model) OnAdd()    {}
func (m *Model) OnRemove() {}

// Holders returns the distinct per-instance holders the model owns.
func (m *Model) Holders() []*constants.Holder { return m.owned }

// Render applies providers and draws every mesh. Per-instance holders are
// filled once; a mesh without one gets the providers written into its
// shader's global holder immediately before its draw.
func (m *Model) Render(t *renderer.Target, interp float32) {
	assert.T(!m.released, "render of released model")
	for _, set := range m.sets {
		set.Apply(interp)
	}
	for _, inst := range m.instances {
		if inst.Constants == nil {
			global := inst.Shader().Constants()
			for _, p := range m.shared {
				p.ApplyConstants(global, interp)
			}
		}
		t.Render(inst.MeshMaterial, inst.Constants)
	}
}

// Release frees the holders the model created and drops its template
// reference. Shared meshes and materials are untouched.
func (m *Model) Release() {
	assert.T(!m.released, "model released twice")
	m.released = true
	m.releaseHolders()
	m.template.Release()
}

// Released reports whether Release was called.
func (m *Model) Released() bool { return m.released }

func (m *Model) releaseHolders() {
	for _, h := range m.owned {
		h.Release()
	}
	m.owned = nil
	m.sets = nil
}
