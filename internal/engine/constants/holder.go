package constants

import (
	"fmt"

	"github.com/Faultbox/tickframe/internal/assert"
	"github.com/Faultbox/tickframe/internal/engine/gpu"
)

// Allocator creates GPU uniform buffers. gpu.Device satisfies it.
type Allocator interface {
	NewBuffer(size int) (gpu.Buffer, error)
}

type holderBlock struct {
	layout *Block
	data   []byte
	buf    gpu.Buffer
	dirty  bool
}

// Holder owns the staging bytes and GPU buffer of every block in a Layout.
// Each block tracks its own dirty flag; Flush uploads only dirty blocks.
type Holder struct {
	layout   *Layout
	blocks   []holderBlock
	released bool
}

// NewHolder allocates one GPU buffer per block. New holders start dirty so the
// first bind uploads the zeroed contents.
func NewHolder(alloc Allocator, layout *Layout) (*Holder, error) {
	h := &Holder{layout: layout, blocks: make([]holderBlock, 0, len(layout.blocks))}
	for _, b := range layout.blocks {
		buf, err := alloc.NewBuffer(b.size)
		if err != nil {
			h.Release()
			return nil, fmt.Errorf("allocating constant block %s: %w", b.name, err)
		}
		h.blocks = append(h.blocks, holderBlock{
			layout: b,
			data:   make([]byte, b.size),
			buf:    buf,
			dirty:  true,
		})
	}
	return h, nil
}

// Layout returns the layout the holder was built for.
func (h *Holder) Layout() *Layout { return h.layout }

// TrySet writes v into every block that declares m and marks those blocks
// dirty. It returns false, and does nothing, when no block declares m.
func TrySet[T any](h *Holder, m Member[T], v T) bool {
	assert.T(!h.released, "set %s on released constant holder", m.id)
	ok := false
	for i := range h.blocks {
		b := &h.blocks[i]
		off, has := b.layout.Offset(m.id)
		if !has {
			continue
		}
		m.put(b.data[off:], v)
		b.dirty = true
		ok = true
	}
	return ok
}

// TryGet reads m from the first block that declares it.
func TryGet[T any](h *Holder, m Member[T]) (T, bool) {
	for i := range h.blocks {
		b := &h.blocks[i]
		if off, has := b.layout.Offset(m.id); has {
			return m.get(b.data[off:]), true
		}
	}
	var zero T
	return zero, false
}

// Dirty reports whether any block has unflushed writes.
func (h *Holder) Dirty() bool {
	for i := range h.blocks {
		if h.blocks[i].dirty {
			return true
		}
	}
	return false
}

// Flush uploads dirty blocks and returns how many were uploaded.
func (h *Holder) Flush(cmd gpu.CommandList) int {
	assert.T(!h.released, "flush of released constant holder")
	n := 0
	for i := range h.blocks {
		b := &h.blocks[i]
		if !b.dirty {
			continue
		}
		b.buf.Upload(cmd, b.data)
		b.dirty = false
		n++
	}
	return n
}

// Bind flushes, then binds every block at its slot. It returns the number of
// blocks uploaded by the flush.
func (h *Holder) Bind(cmd gpu.CommandList) int {
	n := h.Flush(cmd)
	for i := range h.blocks {
		b := &h.blocks[i]
		b.buf.Bind(cmd, b.layout.slot)
	}
	return n
}

// Release frees the GPU buffers. Releasing twice is a programming error.
func (h *Holder) Release() {
	assert.T(!h.released, "constant holder released twice")
	h.released = true
	for i := range h.blocks {
		h.blocks[i].buf.Release()
	}
	h.blocks = nil
}

// Released reports whether Release was called.
func (h *Holder) Released() bool { return h.released }
