package game

import (
	"time"

	"github.com/Faultbox/tickframe/internal/assert"
)

// Clock converts wall-clock frame time into fixed simulation ticks and the
// interpolation factor between the last two of them.
type Clock struct {
	step     time.Duration
	maxTicks int

	acc     time.Duration
	ticks   uint64
	dropped time.Duration
}

// NewClock returns a clock ticking every step. At most maxTicks run per
// frame; time beyond that is dropped so a stall cannot snowball.
func NewClock(step time.Duration, maxTicks int) *Clock {
	assert.T(step > 0, "clock step must be positive, got %v", step)
	assert.T(maxTicks >= 1, "clock needs at least one tick per frame, got %d", maxTicks)
	return &Clock{step: step, maxTicks: maxTicks}
}

// Step returns the tick length.
func (c *Clock) Step() time.Duration { return c.step }

// Advance adds elapsed frame time. It returns how many ticks to run now and
// the factor in [0, 1) at which to render between the previous and current
// tick.
func (c *Clock) Advance(elapsed time.Duration) (ticks int, interp float32) {
	if elapsed > 0 {
		c.acc += elapsed
	}
	n := int(c.acc / c.step)
	c.acc -= time.Duration(n) * c.step
	if n > c.maxTicks {
		c.dropped += time.Duration(n-c.maxTicks) * c.step
		n = c.maxTicks
	}
	c.ticks += uint64(n)
	return n, float32(c.acc) / float32(c.step)
}

// Ticks returns the total ticks handed out.
func (c *Clock) Ticks() uint64 { return c.ticks }

// Dropped returns the simulation time discarded by the per-frame cap.
func (c *Clock) Dropped() time.Duration { return c.dropped }
