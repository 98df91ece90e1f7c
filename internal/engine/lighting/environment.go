package lighting

import (
	"github.com/Faultbox/tickframe/internal/engine/constants"
)

// Environment holds the scene-wide ambient term and fog distances.
type Environment struct {
	Ambient float32
	Fog     constants.Fog
}

// DefaultEnvironment is a dim ambient with fog starting at 50 units.
func DefaultEnvironment() *Environment {
	return &Environment{Ambient: 0.25, Fog: constants.Fog{Near: 50, Far: 200}}
}

// ApplyConstants implements constants.Provider.
func (e *Environment) ApplyConstants(h *constants.Holder, _ float32) {
	constants.TrySet(h, constants.AmbientLight, e.Ambient)
	constants.TrySet(h, constants.FogRange, e.Fog)
}
