// Package camera provides cameras that supply the ViewProjection constant.
package camera

import (
	gomath "math"

	"github.com/Faultbox/tickframe/internal/engine/constants"
	"github.com/Faultbox/tickframe/pkg/math"
	"github.com/Faultbox/tickframe/pkg/transform"
)

// Projection is a perspective frustum.
type Projection struct {
	FovY   float32 // radians
	Aspect float32
	Near   float32
	Far    float32
}

// DefaultProjection is a 60 degree frustum.
func DefaultProjection(aspect float32) Projection {
	return Projection{FovY: gomath.Pi / 3, Aspect: aspect, Near: 0.1, Far: 500}
}

// Matrix returns the projection matrix.
func (p Projection) Matrix() math.Mat4 {
	return math.Perspective(p.FovY, p.Aspect, p.Near, p.Far)
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32
	RotationX float32 // pitch, radians
	RotationY float32 // yaw, radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32

	Projection Projection

	// Target, when set, moves Center to the interpolated position every frame.
	Target func(interp float32) math.Vec3
}

// NewOrbitCamera creates an orbit camera with default settings.
func NewOrbitCamera(aspect float32) *OrbitCamera {
	return &OrbitCamera{
		Distance:        12,
		RotationX:       0.5,
		MinDistance:     2,
		MaxDistance:     100,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		Projection:      DefaultProjection(aspect),
	}
}

// Follow tracks the interpolated transform returned by at.
func (c *OrbitCamera) Follow(at func(interp float32) transform.Transform) {
	c.Target = func(interp float32) math.Vec3 { return at(interp).Position }
}

func (c *OrbitCamera) centerAt(interp float32) math.Vec3 {
	if c.Target != nil {
		return c.Target(interp)
	}
	return c.Center
}

// PositionAt returns the eye position in world space.
func (c *OrbitCamera) PositionAt(interp float32) math.Vec3 {
	pitch, yaw := float64(c.RotationX), float64(c.RotationY)
	offset := math.Vec3{
		X: c.Distance * float32(gomath.Cos(pitch)*gomath.Sin(yaw)),
		Y: c.Distance * float32(gomath.Sin(pitch)),
		Z: c.Distance * float32(gomath.Cos(pitch)*gomath.Cos(yaw)),
	}
	return c.centerAt(interp).Add(offset)
}

// ViewMatrix returns the view matrix at interp.
func (c *OrbitCamera) ViewMatrix(interp float32) math.Mat4 {
	return math.LookAt(c.PositionAt(interp), c.centerAt(interp), math.Vec3{Y: 1})
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection(interp float32) math.Mat4 {
	return c.Projection.Matrix().Mul(c.ViewMatrix(interp))
}

// ApplyConstants implements constants.Provider.
func (c *OrbitCamera) ApplyConstants(h *constants.Holder, interp float32) {
	constants.TrySet(h, constants.ViewProjection, c.ViewProjection(interp))
}

// ListenerPose returns the eye position and the camera's right vector on
// the ground plane.
func (c *OrbitCamera) ListenerPose(interp float32) (pos, right math.Vec3) {
	yaw := float64(c.RotationY)
	return c.PositionAt(interp), math.Vec3{X: float32(gomath.Cos(yaw)), Z: float32(-gomath.Sin(yaw))}
}

// SetAspect updates the projection after a resize.
func (c *OrbitCamera) SetAspect(w, h int32) {
	if h > 0 {
		c.Projection.Aspect = float32(w) / float32(h)
	}
}

// HandleDrag updates rotation from a mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = min(max(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance from a scroll delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}

// HandleMovement pans the center relative to the current yaw. It has no
// effect while following a target.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	speed := c.Distance * 0.01
	yaw := float64(c.RotationY)
	dirX, dirZ := float32(gomath.Sin(yaw)), float32(gomath.Cos(yaw))
	rightX, rightZ := float32(gomath.Cos(yaw)), float32(-gomath.Sin(yaw))

	c.Center.X += (-dirX*forward + rightX*right) * speed
	c.Center.Z += (-dirZ*forward + rightZ*right) * speed
	c.Center.Y += up * speed
}

// FitToBounds centers on a box and backs off far enough to see it.
func (c *OrbitCamera) FitToBounds(lo, hi math.Vec3) {
	c.Center = lo.Add(hi).Scale(0.5)
	size := hi.Sub(lo).Abs().MaxComponent()
	c.Distance = min(max(size*1.5, c.MinDistance), c.MaxDistance)
	c.RotationX = 0.6
	c.RotationY = 0
}
