package physics

import (
	"github.com/Faultbox/tickframe/internal/assert"
)

// StepListener is called once per tick after the world has integrated.
type StepListener interface {
	AfterStep()
}

// Simulation runs the world's fixed step followed by the after-step phase.
// Listeners run synchronously in subscription order, so every pose written
// by a tick is captured before the next render reads it.
type Simulation struct {
	world     World
	listeners []StepListener
	ticks     uint64
}

// NewSimulation wraps a world.
func NewSimulation(w World) *Simulation {
	return &Simulation{world: w}
}

// World returns the wrapped world.
func (s *Simulation) World() World { return s.world }

// Subscribe adds l to the after-step phase. Subscribing twice is a
// programming error.
func (s *Simulation) Subscribe(l StepListener) {
	assert.T(!s.Subscribed(l), "step listener %p subscribed twice", l)
	s.listeners = append(s.listeners, l)
}

// Unsubscribe removes l and reports whether it was subscribed.
func (s *Simulation) Unsubscribe(l StepListener) bool {
	for i, cur := range s.listeners {
		if cur == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Subscribed reports whether l is in the after-step phase.
func (s *Simulation) Subscribed(l StepListener) bool {
	for _, cur := range s.listeners {
		if cur == l {
			return true
		}
	}
	return false
}

// Listeners returns how many listeners are subscribed.
func (s *Simulation) Listeners() int { return len(s.listeners) }

// Tick advances the world by dt seconds and runs the after-step phase.
func (s *Simulation) Tick(dt float32) {
	s.world.Step(dt)
	for _, l := range s.listeners {
		l.AfterStep()
	}
	s.ticks++
}

// Ticks returns how many ticks have run.
func (s *Simulation) Ticks() uint64 { return s.ticks }
