package shader

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/tickframe/internal/assert"
	"github.com/Faultbox/tickframe/internal/engine/constants"
	"github.com/Faultbox/tickframe/internal/engine/gpu"
	"github.com/Faultbox/tickframe/internal/logger"
)

// Kind is everything needed to build one shader kind.
type Kind struct {
	Source   gpu.ProgramSource
	Global   *constants.Layout
	Instance *constants.Layout
}

// Compiler builds programs. gpu.Device satisfies it.
type Compiler interface {
	constants.Allocator
	NewProgram(src gpu.ProgramSource) (gpu.Program, error)
}

// Library holds exactly one Shader per kind name for the lifetime of the
// graphics device.
type Library struct {
	dev     Compiler
	shaders map[string]*Shader
	order   []string
	log     *zap.Logger
}

// NewLibrary returns an empty library.
func NewLibrary(dev Compiler) *Library {
	return &Library{
		dev:     dev,
		shaders: make(map[string]*Shader),
		log:     logger.Named("shader"),
	}
}

// Register compiles and stores a kind. Registering a name twice is a
// programming error.
func (l *Library) Register(k Kind) (*Shader, error) {
	name := k.Source.Name
	_, dup := l.shaders[name]
	assert.T(!dup, "shader kind %s registered twice", name)

	prog, err := l.dev.NewProgram(k.Source)
	if err != nil {
		return nil, fmt.Errorf("compiling shader %s: %w", name, err)
	}
	s, err := New(l.dev, Desc{Name: name, Program: prog, Global: k.Global, Instance: k.Instance})
	if err != nil {
		prog.Release()
		return nil, err
	}

	l.shaders[name] = s
	l.order = append(l.order, name)
	l.log.Debug("shader registered", zap.String("name", name), zap.Bool("instanced", s.HasInstanceConstants()))
	return s, nil
}

// Get returns the shader for a kind.
func (l *Library) Get(name string) (*Shader, bool) {
	s, ok := l.shaders[name]
	return s, ok
}

// All returns the shaders in registration order.
func (l *Library) All() []*Shader {
	out := make([]*Shader, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.shaders[name])
	}
	return out
}

// Close releases every shader.
func (l *Library) Close() {
	for i := len(l.order) - 1; i >= 0; i-- {
		l.shaders[l.order[i]].Release()
	}
	l.shaders = make(map[string]*Shader)
	l.order = nil
}
