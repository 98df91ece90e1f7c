package physics

import (
	"testing"

	"github.com/Faultbox/tickframe/internal/assert"
)

type stepRecorder struct {
	world *countingWorld
	name  string
	log   *[]string
}

func (r *stepRecorder) AfterStep() {
	if r.world.steps == 0 {
		panic("listener ran before the world stepped")
	}
	*r.log = append(*r.log, r.name)
}

type countingWorld struct {
	steps int
}

func (w *countingWorld) NewBody(BodyDesc) Body { return nil }
func (w *countingWorld) Attach(Body)           {}
func (w *countingWorld) Detach(Body)           {}
func (w *countingWorld) Step(float32)          { w.steps++ }

func TestTickRunsListenersAfterStepInOrder(t *testing.T) {
	w := &countingWorld{}
	sim := NewSimulation(w)
	var log []string
	a := &stepRecorder{world: w, name: "a", log: &log}
	b := &stepRecorder{world: w, name: "b", log: &log}
	sim.Subscribe(a)
	sim.Subscribe(b)

	sim.Tick(1.0 / 60)

	if len(log) != 2 || log[0] != "a" || log[1] != "b" {
		t.Errorf("after-step order = %v", log)
	}
	if sim.Ticks() != 1 || w.steps != 1 {
		t.Errorf("ticks = %d, steps = %d", sim.Ticks(), w.steps)
	}
}

func TestUnsubscribedListenerIsNotCalled(t *testing.T) {
	w := &countingWorld{}
	sim := NewSimulation(w)
	var log []string
	a := &stepRecorder{world: w, name: "a", log: &log}
	sim.Subscribe(a)

	if !sim.Unsubscribe(a) {
		t.Fatal("Unsubscribe returned false for a subscribed listener")
	}
	if sim.Unsubscribe(a) {
		t.Error("second Unsubscribe should return false")
	}
	sim.Tick(1.0 / 60)
	if len(log) != 0 {
		t.Errorf("removed listener ran: %v", log)
	}
}

func TestDoubleSubscribePanics(t *testing.T) {
	w := &countingWorld{}
	sim := NewSimulation(w)
	var log []string
	a := &stepRecorder{world: w, name: "a", log: &log}
	sim.Subscribe(a)
	if _, ok := assert.Panics(func() { sim.Subscribe(a) }); !ok {
		t.Error("double subscribe should panic")
	}
}
