// Package constants implements shader constant (uniform) members, the
// buffers that hold them, and the providers that fill them per draw.
//
// A shader declares its uniform blocks as a Layout: an ordered list of
// Blocks, each bound at its own slot and listing the members it carries.
// Offsets follow std140 and are computed once when the Block is built.
// A Holder owns the CPU and GPU copies of one Layout. Writing a member the
// layout does not declare is a silent no-op, so a single draw loop can offer
// every value to every shader.
package constants

import (
	"github.com/Faultbox/tickframe/internal/assert"
)

// Block is the layout of one uniform block.
type Block struct {
	name    string
	slot    uint32
	size    int
	members []MemberID
	offsets [memberCount]int
}

// NewBlock lays out members in the given order using std140 rules.
func NewBlock(name string, slot uint32, members ...MemberID) *Block {
	b := &Block{name: name, slot: slot, members: members}
	for i := range b.offsets {
		b.offsets[i] = -1
	}

	offset := 0
	for _, id := range members {
		assert.T(id < memberCount, "block %s: unknown member %d", name, id)
		assert.T(b.offsets[id] < 0, "block %s: member %s declared twice", name, id)

		elem, count := id.Element(), id.Count()
		if count > 1 {
			offset = alignUp(offset, 16)
			b.offsets[id] = offset
			offset += elem.ArrayStride() * count
			continue
		}
		offset = alignUp(offset, elem.Alignment())
		b.offsets[id] = offset
		offset += elem.Size()
	}
	b.size = alignUp(offset, 16)
	if b.size == 0 {
		b.size = 16
	}
	return b
}

// Name returns the block name used in shader source.
func (b *Block) Name() string { return b.name }

// Slot returns the binding slot.
func (b *Block) Slot() uint32 { return b.slot }

// Size returns the buffer size in bytes, padded to 16.
func (b *Block) Size() int { return b.size }

// Members returns the declared members in layout order.
func (b *Block) Members() []MemberID { return b.members }

// Offset returns the byte offset of id, or false if the block lacks it.
func (b *Block) Offset(id MemberID) (int, bool) {
	if id >= memberCount || b.offsets[id] < 0 {
		return 0, false
	}
	return b.offsets[id], true
}

// Layout is the full set of blocks a shader binds at one scope
// (shader-global or per-instance).
type Layout struct {
	blocks   []*Block
	declared [memberCount]bool
}

// NewLayout groups blocks. Slots must be distinct.
func NewLayout(blocks ...*Block) *Layout {
	l := &Layout{blocks: blocks}
	seen := make(map[uint32]string, len(blocks))
	for _, b := range blocks {
		prev, dup := seen[b.slot]
		assert.T(!dup, "blocks %s and %s share slot %d", prev, b.name, b.slot)
		seen[b.slot] = b.name
		for _, id := range b.members {
			l.declared[id] = true
		}
	}
	return l
}

// Blocks returns the blocks in binding order.
func (l *Layout) Blocks() []*Block { return l.blocks }

// Declares reports whether any block carries id.
func (l *Layout) Declares(id MemberID) bool {
	return id < memberCount && l.declared[id]
}

// SharesSlot reports whether any block of l binds at a slot used by other.
func (l *Layout) SharesSlot(other *Layout) bool {
	if l == nil || other == nil {
		return false
	}
	for _, a := range l.blocks {
		for _, b := range other.blocks {
			if a.slot == b.slot {
				return true
			}
		}
	}
	return false
}
