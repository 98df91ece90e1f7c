package constants

import (
	"encoding/binary"
	gomath "math"

	"github.com/Faultbox/tickframe/pkg/math"
)

// MemberID identifies a logical uniform a block may or may not declare.
// The set is closed: adding a member means adding it here.
type MemberID uint8

const (
	MemberWorldMatrix MemberID = iota
	MemberViewProjection
	MemberColor
	MemberPosition
	MemberScale2D
	MemberTexCoords
	MemberRotation2D
	MemberAmbientLight
	MemberFogRange
	MemberBoneTransforms

	memberCount
)

// MaxBones is the length of the BoneTransforms array.
const MaxBones = 64

type descriptor struct {
	name  string
	elem  ElementType
	count int
}

var descriptors = [memberCount]descriptor{
	MemberWorldMatrix:    {"WorldMatrix", ElementMat4, 1},
	MemberViewProjection: {"ViewProjection", ElementMat4, 1},
	MemberColor:          {"Color", ElementVec3, 1},
	MemberPosition:       {"Position", ElementVec3, 1},
	MemberScale2D:        {"Scale2D", ElementVec2, 1},
	MemberTexCoords:      {"TexCoords", ElementVec4, 1},
	MemberRotation2D:     {"Rotation2D", ElementVec2, 1},
	MemberAmbientLight:   {"AmbientLight", ElementFloat32, 1},
	MemberFogRange:       {"FogRange", ElementVec2, 1},
	MemberBoneTransforms: {"BoneTransforms", ElementMat4, MaxBones},
}

func (id MemberID) String() string {
	if id >= memberCount {
		return "MemberID(invalid)"
	}
	return descriptors[id].name
}

// Element returns the GPU type of the member.
func (id MemberID) Element() ElementType { return descriptors[id].elem }

// Count returns the array length, 1 for scalars.
func (id MemberID) Count() int { return descriptors[id].count }

// Fog is the FogRange payload.
type Fog struct {
	Near, Far float32
}

// Member is a typed handle to a MemberID, carrying the encoding between the
// Go value and its std140 bytes.
type Member[T any] struct {
	id  MemberID
	put func(dst []byte, v T)
	get func(src []byte) T
}

// ID returns the member's identifier.
func (m Member[T]) ID() MemberID { return m.id }

func (m Member[T]) String() string { return m.id.String() }

// The members in use. Rotation2D carries (sin, cos) of the angle.
var (
	WorldMatrix    = Member[math.Mat4]{MemberWorldMatrix, putMat4, getMat4}
	ViewProjection = Member[math.Mat4]{MemberViewProjection, putMat4, getMat4}
	Color          = Member[math.Vec3]{MemberColor, putVec3, getVec3}
	Position       = Member[math.Vec3]{MemberPosition, putVec3, getVec3}
	Scale2D        = Member[math.Vec2]{MemberScale2D, putVec2, getVec2}
	TexCoords      = Member[math.Vec4]{MemberTexCoords, putVec4, getVec4}
	Rotation2D     = Member[math.Vec2]{MemberRotation2D, putVec2, getVec2}
	AmbientLight   = Member[float32]{MemberAmbientLight, putFloat, getFloat}
	FogRange       = Member[Fog]{MemberFogRange, putFog, getFog}
	BoneTransforms = Member[[]math.Mat4]{MemberBoneTransforms, putBones, getBones}
)

var le = binary.LittleEndian

func putFloat(dst []byte, v float32) {
	le.PutUint32(dst, gomath.Float32bits(v))
}

func getFloat(src []byte) float32 {
	return gomath.Float32frombits(le.Uint32(src))
}

func putFloats(dst []byte, vs ...float32) {
	for i, v := range vs {
		putFloat(dst[i*4:], v)
	}
}

func putVec2(dst []byte, v math.Vec2) { putFloats(dst, v.X, v.Y) }
func putVec3(dst []byte, v math.Vec3) { putFloats(dst, v.X, v.Y, v.Z) }
func putVec4(dst []byte, v math.Vec4) { putFloats(dst, v[:]...) }
func putMat4(dst []byte, m math.Mat4) { putFloats(dst, m[:]...) }
func putFog(dst []byte, f Fog)        { putFloats(dst, f.Near, f.Far) }

func getVec2(src []byte) math.Vec2 {
	return math.Vec2{X: getFloat(src), Y: getFloat(src[4:])}
}

func getVec3(src []byte) math.Vec3 {
	return math.Vec3{X: getFloat(src), Y: getFloat(src[4:]), Z: getFloat(src[8:])}
}

func getVec4(src []byte) math.Vec4 {
	var v math.Vec4
	for i := range v {
		v[i] = getFloat(src[i*4:])
	}
	return v
}

func getMat4(src []byte) math.Mat4 {
	var m math.Mat4
	for i := range m {
		m[i] = getFloat(src[i*4:])
	}
	return m
}

func getFog(src []byte) Fog {
	return Fog{Near: getFloat(src), Far: getFloat(src[4:])}
}

// putBones writes up to MaxBones matrices and zeroes the slots after them,
// so a shorter skeleton never inherits bones from an earlier draw.
func putBones(dst []byte, bones []math.Mat4) {
	stride := ElementMat4.ArrayStride()
	n := min(len(bones), MaxBones)
	for i := range n {
		putMat4(dst[i*stride:], bones[i])
	}
	clear(dst[n*stride : MaxBones*stride])
}

func getBones(src []byte) []math.Mat4 {
	stride := ElementMat4.ArrayStride()
	bones := make([]math.Mat4, MaxBones)
	for i := range bones {
		bones[i] = getMat4(src[i*stride:])
	}
	return bones
}
