package renderer

import (
	"github.com/Faultbox/tickframe/internal/assert"
	"github.com/Faultbox/tickframe/internal/engine/gpu"
)

// PushScissor restricts drawing to a rectangle. Rectangles do not intersect
// with the ones below them.
func (t *Target) PushScissor(x, y, w, h int32) {
	assert.T(t.started, "scissor outside Start/End")
	r := gpu.Rect{X: x, Y: y, W: w, H: h}
	t.scissors = append(t.scissors, r)
	t.cmd.SetScissor(r)
}

// PopScissor restores the previous rectangle, or the full surface when the
// stack becomes empty.
func (t *Target) PopScissor() {
	assert.T(len(t.scissors) > 0, "pop on empty scissor stack")
	t.scissors = t.scissors[:len(t.scissors)-1]
	if n := len(t.scissors); n > 0 {
		t.cmd.SetScissor(t.scissors[n-1])
		return
	}
	t.cmd.SetScissor(t.full)
}

// ScissorDepth returns the number of pushed rectangles.
func (t *Target) ScissorDepth() int { return len(t.scissors) }
