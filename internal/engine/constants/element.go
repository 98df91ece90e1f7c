package constants

import "fmt"

// ElementType is the GPU-side type of a constant member.
type ElementType uint8

const (
	ElementFloat32 ElementType = iota + 1
	ElementVec2
	ElementVec3
	ElementVec4
	ElementMat4
)

// Size returns the packed size in bytes of one element.
func (e ElementType) Size() int {
	switch e {
	case ElementFloat32:
		return 4
	case ElementVec2:
		return 8
	case ElementVec3:
		return 12
	case ElementVec4:
		return 16
	case ElementMat4:
		return 64
	default:
		return 0
	}
}

// Alignment returns the std140 base alignment of a single (non-array) element.
func (e ElementType) Alignment() int {
	switch e {
	case ElementFloat32:
		return 4
	case ElementVec2:
		return 8
	case ElementVec3, ElementVec4, ElementMat4:
		return 16
	default:
		return 0
	}
}

// ArrayStride returns the std140 distance between array elements, which is
// always rounded up to a vec4.
func (e ElementType) ArrayStride() int {
	return alignUp(e.Size(), 16)
}

func (e ElementType) String() string {
	switch e {
	case ElementFloat32:
		return "float"
	case ElementVec2:
		return "vec2"
	case ElementVec3:
		return "vec3"
	case ElementVec4:
		return "vec4"
	case ElementMat4:
		return "mat4"
	default:
		return fmt.Sprintf("ElementType(%d)", uint8(e))
	}
}

func alignUp(v, boundary int) int {
	if rem := v % boundary; rem != 0 {
		return v + boundary - rem
	}
	return v
}
