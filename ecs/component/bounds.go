package component

import "github.com/go-gl/mathgl/mgl32"

// PlayBounds is the square play area on the XZ plane. A body whose X or Z
// leaves [-MaxCoord, MaxCoord] is teleported to Spawn.
type PlayBounds struct {
	MaxCoord      float32
	Spawn         mgl32.Vec3
	ResetVelocity bool
}

// Contains reports whether p lies inside the bounds. Y is not checked.
func (b PlayBounds) Contains(p mgl32.Vec3) bool {
	return p.X() <= b.MaxCoord && p.X() >= -b.MaxCoord &&
		p.Z() <= b.MaxCoord && p.Z() >= -b.MaxCoord
}

var PlayBoundsComponent = NewComponent[PlayBounds]()
