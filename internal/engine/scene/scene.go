// Package scene keeps the list of live entities, invokes their lifecycle
// hooks and renders them.
package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tickframe/internal/assert"
	"github.com/Faultbox/tickframe/internal/engine/constants"
	"github.com/Faultbox/tickframe/internal/engine/renderer"
	"github.com/Faultbox/tickframe/internal/engine/shader"
	"github.com/Faultbox/tickframe/internal/logger"
)

// Entity is anything that can live in a scene.
type Entity interface {
	// OnAdd is called once when the entity enters the scene.
	OnAdd()
	// OnRemove is called once when it leaves.
	OnRemove()
}

// Drawable entities are rendered every frame.
type Drawable interface {
	Render(t *renderer.Target, interp float32)
}

// Updater entities run once per simulation tick, before physics.
type Updater interface {
	Update(dt float32)
}

// Scene owns entity membership. Global providers (camera, lights,
// environment) are attached to every registered shader.
type Scene struct {
	shaders  []*shader.Shader
	globals  []constants.Provider
	entities []Entity
	log      *zap.Logger
}

// New returns an empty scene drawing with shaders.
func New(shaders ...*shader.Shader) *Scene {
	return &Scene{shaders: shaders, log: logger.Named("scene")}
}

// AddShader registers another shader and attaches the existing globals to it.
func (s *Scene) AddShader(sh *shader.Shader) {
	s.shaders = append(s.shaders, sh)
	for _, p := range s.globals {
		sh.Globals().Add(p)
	}
}

// AddGlobal attaches p to every shader's global constants.
func (s *Scene) AddGlobal(p constants.Provider) {
	s.globals = append(s.globals, p)
	for _, sh := range s.shaders {
		sh.Globals().Add(p)
	}
}

// RemoveGlobal detaches p from every shader.
func (s *Scene) RemoveGlobal(p constants.Provider) {
	for i, cur := range s.globals {
		if cur == p {
			s.globals = append(s.globals[:i], s.globals[i+1:]...)
			break
		}
	}
	for _, sh := range s.shaders {
		sh.Globals().Remove(p)
	}
}

// Add inserts e and calls its OnAdd. Adding an entity twice panics.
func (s *Scene) Add(e Entity) {
	assert.T(!s.Contains(e), "entity %T added to scene twice", e)
	s.entities = append(s.entities, e)
	e.OnAdd()
}

// Remove takes e out and calls its OnRemove. It reports false if e was not
// in the scene.
func (s *Scene) Remove(e Entity) bool {
	for i, cur := range s.entities {
		if cur == e {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			e.OnRemove()
			return true
		}
	}
	return false
}

// Contains reports whether e is in the scene.
func (s *Scene) Contains(e Entity) bool {
	for _, cur := range s.entities {
		if cur == e {
			return true
		}
	}
	return false
}

// Len returns the number of entities.
func (s *Scene) Len() int { return len(s.entities) }

// Update runs every Updater.
func (s *Scene) Update(dt float32) {
	for _, e := range s.entities {
		if u, ok := e.(Updater); ok {
			u.Update(dt)
		}
	}
}

// Render fills shader-global constants, then draws every Drawable in
// insertion order.
func (s *Scene) Render(t *renderer.Target, interp float32) {
	for _, sh := range s.shaders {
		sh.Globals().Apply(interp)
	}
	for _, e := range s.entities {
		if d, ok := e.(Drawable); ok {
			d.Render(t, interp)
		}
	}
}

// Clear removes every entity, newest first.
func (s *Scene) Clear() {
	for i := len(s.entities) - 1; i >= 0; i-- {
		s.entities[i].OnRemove()
	}
	if n := len(s.entities); n > 0 {
		s.log.Debug("scene cleared", zap.Int("entities", n))
	}
	s.entities = nil
}
