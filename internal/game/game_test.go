package game

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/tickframe/pkg/math"
)

func TestCameraRelative(t *testing.T) {
	tests := []struct {
		name           string
		yaw            float32
		forward, right float32
		want           math.Vec3
	}{
		{"forward at rest", 0, 1, 0, math.Vec3{Z: -1}},
		{"right at rest", 0, 0, 1, math.Vec3{X: 1}},
		{"back at rest", 0, -1, 0, math.Vec3{Z: 1}},
		{"forward quarter turn", float32(gomath.Pi / 2), 1, 0, math.Vec3{X: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cameraRelative(tt.yaw, tt.forward, tt.right)
			if !got.Approx(tt.want, 1e-5) {
				t.Errorf("cameraRelative = %v, want %v", got, tt.want)
			}
		})
	}
}
