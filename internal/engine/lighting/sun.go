package lighting

import (
	gomath "math"

	"github.com/Faultbox/tickframe/pkg/math"
)

// SunDirection converts longitude (rotation around Y) and latitude
// (elevation above the horizon), both in degrees, to a unit vector pointing
// at the sun.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := float64(longitude) * gomath.Pi / 180
	lat := float64(latitude) * gomath.Pi / 180
	return math.Vec3{
		X: float32(gomath.Cos(lat) * gomath.Sin(lon)),
		Y: float32(gomath.Sin(lat)),
		Z: float32(gomath.Cos(lat) * gomath.Cos(lon)),
	}
}

// NewSun returns a point light placed far away along the sun direction from
// center, standing in for a directional light.
func NewSun(center math.Vec3, longitude, latitude, distance float32, color math.Vec3) *PointLight {
	pos := center.Add(SunDirection(longitude, latitude).Scale(distance))
	return NewPointLight(pos, color, 1)
}
