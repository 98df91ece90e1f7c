package game

import (
	"testing"
	"time"

	"github.com/Faultbox/tickframe/internal/assert"
)

func TestClockAdvance(t *testing.T) {
	const step = 10 * time.Millisecond
	tests := []struct {
		name       string
		frames     []time.Duration
		wantTicks  int
		wantInterp float32
	}{
		{"less than a tick", []time.Duration{4 * time.Millisecond}, 0, 0.4},
		{"exact tick", []time.Duration{step}, 1, 0},
		{"accumulates", []time.Duration{6 * time.Millisecond, 6 * time.Millisecond}, 1, 0.2},
		{"several ticks", []time.Duration{35 * time.Millisecond}, 3, 0.5},
		{"negative ignored", []time.Duration{-time.Second, 5 * time.Millisecond}, 0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClock(step, 10)
			var ticks int
			var interp float32
			for _, f := range tt.frames {
				n, i := c.Advance(f)
				ticks += n
				interp = i
			}
			if ticks != tt.wantTicks {
				t.Errorf("ticks = %d, want %d", ticks, tt.wantTicks)
			}
			if d := interp - tt.wantInterp; d > 1e-4 || d < -1e-4 {
				t.Errorf("interp = %v, want %v", interp, tt.wantInterp)
			}
		})
	}
}

func TestClockCapsTicksPerFrame(t *testing.T) {
	c := NewClock(10*time.Millisecond, 3)
	n, interp := c.Advance(105 * time.Millisecond)
	if n != 3 {
		t.Errorf("ticks = %d, want 3", n)
	}
	if interp < 0.49 || interp > 0.51 {
		t.Errorf("interp = %v, want 0.5", interp)
	}
	if c.Dropped() != 70*time.Millisecond {
		t.Errorf("dropped = %v, want 70ms", c.Dropped())
	}
	if n, _ := c.Advance(0); n != 0 {
		t.Errorf("dropped time was replayed: %d ticks", n)
	}
	if c.Ticks() != 3 {
		t.Errorf("total ticks = %d", c.Ticks())
	}
}

func TestClockInterpStaysBelowOne(t *testing.T) {
	c := NewClock(16*time.Millisecond, 5)
	for i := 0; i < 1000; i++ {
		_, interp := c.Advance(time.Duration(i%23) * time.Millisecond)
		if interp < 0 || interp >= 1 {
			t.Fatalf("frame %d: interp %v out of [0, 1)", i, interp)
		}
	}
}

func TestNewClockRejectsZeroStep(t *testing.T) {
	if _, ok := assert.Panics(func() { NewClock(0, 1) }); !ok {
		t.Error("zero step accepted")
	}
	if _, ok := assert.Panics(func() { NewClock(time.Millisecond, 0) }); !ok {
		t.Error("zero max ticks accepted")
	}
}
