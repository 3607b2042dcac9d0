package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/limbopass/ecs/component"
	"github.com/stretchr/testify/assert"
)

func TestProjectCenterAndBehind(t *testing.T) {
	cam := component.NewOrbitCamera(mgl32.Vec3{-100, 60, 20}, mgl32.Vec3{})
	vp := ViewProjection(cam, 16.0/9.0)

	p, depth, ok := Project(mgl32.Vec3{}, vp, 1280, 720, cam.Near)
	assert.True(t, ok)
	assert.InDelta(t, 640, p.X(), 0.5)
	assert.InDelta(t, 360, p.Y(), 0.5)
	assert.InDelta(t, cam.Radius, depth, 0.01)

	_, _, ok = Project(cam.Eye().Mul(2), vp, 1280, 720, cam.Near)
	assert.False(t, ok)
}

func TestShadeAmbientOnly(t *testing.T) {
	env := component.Environment{AmbientColor: mgl32.Vec3{0.75, 0.75, 0.75}, AmbientBrightness: 0.6}
	c := Shade(mgl32.Vec4{1, 1, 1, 1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{}, env, nil)
	assert.InDelta(t, 0.45, c.X(), 1e-5)
	assert.Equal(t, float32(1), c.W())
}

func TestShadePointLightRange(t *testing.T) {
	env := component.Environment{}
	light := Light{
		Position:   mgl32.Vec3{0, 10, 0},
		PointLight: component.PointLight{Color: mgl32.Vec3{1, 0, 0}, Range: 50, Intensity: 20000},
	}

	lit := Shade(mgl32.Vec4{1, 1, 1, 1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{}, env, []Light{light})
	assert.Greater(t, lit.X(), float32(0))
	assert.Equal(t, float32(0), lit.Y())

	far := Shade(mgl32.Vec4{1, 1, 1, 1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{100, 0, 0}, env, []Light{light})
	assert.Equal(t, float32(0), far.X())
}
