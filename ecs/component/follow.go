package component

import "github.com/go-gl/mathgl/mgl32"

// Follow keeps an entity's translation at Offset from Target.
type Follow struct {
	Target uint64 // ecs.Entity
	Offset mgl32.Vec3
}

var FollowComponent = NewComponent[Follow]()
