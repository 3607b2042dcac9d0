package component

import "github.com/go-gl/mathgl/mgl32"

// PointLight is positioned by the entity's Transform. Color channels are
// sRGB 0..1.
type PointLight struct {
	Color     mgl32.Vec3
	Range     float32
	Radius    float32
	Intensity float32
}

// Environment holds the world-wide clear color and ambient light. One entity
// carries it.
type Environment struct {
	ClearColor        mgl32.Vec3
	AmbientColor      mgl32.Vec3
	AmbientBrightness float32
	Gravity           mgl32.Vec3
}

var (
	PointLightComponent  = NewComponent[PointLight]()
	EnvironmentComponent = NewComponent[Environment]()
)
