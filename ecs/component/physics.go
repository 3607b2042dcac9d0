package component

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/limbopass/common"
)

type ColliderShape int

const (
	ColliderBall ColliderShape = iota
	ColliderTriMesh
)

// Collider describes the collision shape of an entity.
type Collider struct {
	Shape  ColliderShape
	Radius float32
	Mesh   *common.TriMesh
}

// RigidBody stores the physics runtime handles of a body. Static bodies are
// never integrated. Dynamic bodies only yaw; LockRotationX and LockRotationZ
// are expected to be set and the physics system warns when they are not.
type RigidBody struct {
	Static        bool
	LockRotationX bool
	LockRotationZ bool
	Density       float32

	Body *cp.Body
	// vertical axis state kept alongside the planar Chipmunk body
	Y        float32
	VY       float32
	Grounded bool
}

// Velocity is written back by the physics system every step.
type Velocity struct {
	Linear  mgl32.Vec3
	Angular mgl32.Vec3
}

// ExternalForce is the force and torque applied during the next physics step.
// Writers replace it; it is not an impulse and it is not accumulated.
type ExternalForce struct {
	Force  mgl32.Vec3
	Torque mgl32.Vec3
}

var (
	ColliderComponent      = NewComponent[Collider]()
	RigidBodyComponent     = NewComponent[RigidBody]()
	VelocityComponent      = NewComponent[Velocity]()
	ExternalForceComponent = NewComponent[ExternalForce]()
)
