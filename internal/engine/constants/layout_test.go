package constants

import (
	"testing"

	"github.com/Faultbox/tickframe/internal/assert"
)

func TestBlockStd140Offsets(t *testing.T) {
	b := NewBlock("Frame", 0,
		MemberViewProjection,
		MemberPosition,
		MemberColor,
		MemberAmbientLight,
		MemberFogRange,
	)

	tests := []struct {
		id   MemberID
		want int
	}{
		{MemberViewProjection, 0},
		{MemberPosition, 64},
		{MemberColor, 80},
		{MemberAmbientLight, 92}, // packs into the vec3's trailing 4 bytes
		{MemberFogRange, 96},
	}
	for _, tt := range tests {
		got, ok := b.Offset(tt.id)
		if !ok {
			t.Errorf("%s missing from block", tt.id)
			continue
		}
		if got != tt.want {
			t.Errorf("offset(%s) = %d, want %d", tt.id, got, tt.want)
		}
	}
	if b.Size() != 112 {
		t.Errorf("block size = %d, want 112", b.Size())
	}
	if _, ok := b.Offset(MemberWorldMatrix); ok {
		t.Error("undeclared member should have no offset")
	}
}

func TestBlockArrayOffsets(t *testing.T) {
	b := NewBlock("Skin", 2, MemberAmbientLight, MemberBoneTransforms, MemberScale2D)

	if off, _ := b.Offset(MemberBoneTransforms); off != 16 {
		t.Errorf("array must start on a 16 byte boundary, got %d", off)
	}
	if off, _ := b.Offset(MemberScale2D); off != 16+64*MaxBones {
		t.Errorf("member after array at %d, want %d", off, 16+64*MaxBones)
	}
}

func TestBlockDuplicateMemberPanics(t *testing.T) {
	if _, ok := assert.Panics(func() { NewBlock("Bad", 0, MemberColor, MemberColor) }); !ok {
		t.Error("duplicate member should be a programming error")
	}
}

func TestLayoutSlots(t *testing.T) {
	frame := NewBlock("Frame", 0, MemberViewProjection)
	object := NewBlock("Object", 1, MemberWorldMatrix)

	global := NewLayout(frame)
	instance := NewLayout(object)
	if global.SharesSlot(instance) {
		t.Error("slots 0 and 1 reported as shared")
	}
	if !global.SharesSlot(NewLayout(NewBlock("Other", 0, MemberColor))) {
		t.Error("slot 0 clash not reported")
	}

	if _, ok := assert.Panics(func() { NewLayout(frame, NewBlock("Clash", 0, MemberColor)) }); !ok {
		t.Error("two blocks at one slot should be a programming error")
	}

	if !instance.Declares(MemberWorldMatrix) || instance.Declares(MemberColor) {
		t.Error("Declares does not match block members")
	}
}
