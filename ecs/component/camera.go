package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera looks at Target from a point on a sphere of Radius around it.
// Yaw is measured from +X toward +Z, Pitch upward from the XZ plane, both in
// radians.
type OrbitCamera struct {
	Target mgl32.Vec3
	Radius float32
	Yaw    float32
	Pitch  float32

	FOV  float32
	Near float32
	Far  float32

	RotateSensitivity float32
	ZoomSensitivity   float32
	MinRadius         float32
	MaxRadius         float32
}

// Eye returns the camera position in world space.
func (c OrbitCamera) Eye() mgl32.Vec3 {
	cp, sp := math.Cos(float64(c.Pitch)), math.Sin(float64(c.Pitch))
	cy, sy := math.Cos(float64(c.Yaw)), math.Sin(float64(c.Yaw))
	offset := mgl32.Vec3{float32(cp * cy), float32(sp), float32(cp * sy)}
	return c.Target.Add(offset.Mul(c.Radius))
}

// NewOrbitCamera derives yaw, pitch and radius from an eye position.
func NewOrbitCamera(eye, target mgl32.Vec3) OrbitCamera {
	d := eye.Sub(target)
	r := d.Len()
	var pitch, yaw float32
	if r > 0 {
		pitch = float32(math.Asin(float64(d.Y() / r)))
		yaw = float32(math.Atan2(float64(d.Z()), float64(d.X())))
	}
	return OrbitCamera{
		Target:            target,
		Radius:            r,
		Yaw:               yaw,
		Pitch:             pitch,
		FOV:               mgl32.DegToRad(45),
		Near:              0.1,
		Far:               1000,
		RotateSensitivity: 0.005,
		ZoomSensitivity:   0.1,
		MinRadius:         5,
		MaxRadius:         400,
	}
}

type CameraTag struct{}

var (
	OrbitCameraComponent = NewComponent[OrbitCamera]()
	CameraTagComponent   = NewComponent[CameraTag]()
)
