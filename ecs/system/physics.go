package system

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/limbopass/common"
	"github.com/milk9111/limbopass/ecs"
	"github.com/milk9111/limbopass/ecs/component"
)

// groundSnap lets a body settle onto a surface slightly above its center
// after a fast fall within one step.
const groundSnap = 0.05

// PhysicsSystem integrates dynamic ball bodies. Chipmunk handles the
// horizontal plane: world X maps to cp X, world Z to cp Y, and yaw is the
// negated cp angle. The vertical axis is integrated here against gravity and
// the height of static triangle-mesh colliders.
type PhysicsSystem struct {
	space *cp.Space
	dt    float64

	bodies  map[ecs.Entity]*bodyInfo
	terrain map[ecs.Entity]*terrainInfo
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	radius float32

	// last values written back, used to detect teleports by other systems
	translation mgl32.Vec3
	rotation    mgl32.Quat
	linear      mgl32.Vec3
	angular     mgl32.Vec3
}

type terrainInfo struct {
	source *common.TriMesh
	matrix mgl32.Mat4
	world  *common.TriMesh
}

func NewPhysicsSystem() *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})
	return &PhysicsSystem{
		space:   space,
		dt:      float64(common.FixedDelta),
		bodies:  make(map[ecs.Entity]*bodyInfo),
		terrain: make(map[ecs.Entity]*terrainInfo),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	gravity := mgl32.Vec3{}
	if ent, ok := ecs.First(w, component.EnvironmentComponent.Kind()); ok {
		if env, ok := ecs.Get(w, ent, component.EnvironmentComponent.Kind()); ok {
			gravity = env.Gravity
		}
	}

	ground := ps.syncTerrain(w)
	ps.syncBodies(w)
	ps.space.Step(ps.dt)
	ps.writeBack(w, gravity, ground)
}

// syncTerrain returns the world-space static meshes, rebuilding the cached
// copy only when a mesh or its transform changes.
func (ps *PhysicsSystem) syncTerrain(w *ecs.World) []*common.TriMesh {
	seen := make(map[ecs.Entity]bool)
	var out []*common.TriMesh
	ecs.ForEach(w, component.ColliderComponent.Kind(), func(e ecs.Entity, c *component.Collider) {
		if c.Shape != component.ColliderTriMesh || c.Mesh == nil {
			return
		}
		seen[e] = true
		mat := mgl32.Ident4()
		if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			mat = tr.Matrix()
		}
		info, ok := ps.terrain[e]
		if !ok || info.source != c.Mesh || info.matrix != mat {
			world := c.Mesh
			if mat != mgl32.Ident4() {
				world = c.Mesh.Transformed(mat)
			}
			info = &terrainInfo{source: c.Mesh, matrix: mat, world: world}
			ps.terrain[e] = info
		}
		out = append(out, info.world)
	})
	for e := range ps.terrain {
		if !seen[e] {
			delete(ps.terrain, e)
		}
	}
	return out
}

func (ps *PhysicsSystem) syncBodies(w *ecs.World) {
	seen := make(map[ecs.Entity]bool)
	ecs.ForEach4(w,
		component.RigidBodyComponent.Kind(),
		component.ColliderComponent.Kind(),
		component.TransformComponent.Kind(),
		component.VelocityComponent.Kind(),
		func(e ecs.Entity, rb *component.RigidBody, col *component.Collider, tr *component.Transform, vel *component.Velocity) {
			if rb.Static || col.Shape != component.ColliderBall {
				return
			}
			seen[e] = true

			info, ok := ps.bodies[e]
			if !ok {
				info = ps.createBody(e, rb, col, tr, vel)
				ps.bodies[e] = info
			}

			if tr.Translation != info.translation {
				info.body.SetPosition(cp.Vector{X: float64(tr.Translation.X()), Y: float64(tr.Translation.Z())})
				rb.Y = tr.Translation.Y()
			}
			if tr.Rotation != info.rotation {
				info.body.SetAngle(-float64(Yaw(tr.Rotation)))
			}
			if vel.Linear != info.linear {
				info.body.SetVelocity(float64(vel.Linear.X()), float64(vel.Linear.Z()))
				rb.VY = vel.Linear.Y()
			}
			if vel.Angular != info.angular {
				info.body.SetAngularVelocity(-float64(vel.Angular.Y()))
			}

			if ext, ok := ecs.Get(w, e, component.ExternalForceComponent.Kind()); ok {
				info.body.SetForce(cp.Vector{X: float64(ext.Force.X()), Y: float64(ext.Force.Z())})
				info.body.SetTorque(-float64(ext.Torque.Y()))
			}
		})

	for e, info := range ps.bodies {
		if seen[e] {
			continue
		}
		ps.space.RemoveShape(info.shape)
		ps.space.RemoveBody(info.body)
		delete(ps.bodies, e)
	}
}

// createBody derives mass from a solid sphere of the collider radius. The
// planar body only yaws, so bodies are always held upright.
func (ps *PhysicsSystem) createBody(e ecs.Entity, rb *component.RigidBody, col *component.Collider, tr *component.Transform, vel *component.Velocity) *bodyInfo {
	if !rb.LockRotationX || !rb.LockRotationZ {
		slog.Warn("rigid body tilt is not simulated, keeping it upright",
			"entity", e, "lock_rotation_x", rb.LockRotationX, "lock_rotation_z", rb.LockRotationZ)
	}
	mass, moment := BallMass(rb.Density, col.Radius)
	body := cp.NewBody(mass, moment)
	body.SetPosition(cp.Vector{X: float64(tr.Translation.X()), Y: float64(tr.Translation.Z())})
	body.SetAngle(-float64(Yaw(tr.Rotation)))
	body.SetVelocity(float64(vel.Linear.X()), float64(vel.Linear.Z()))
	body.SetAngularVelocity(-float64(vel.Angular.Y()))
	ps.space.AddBody(body)

	shape := cp.NewCircle(body, float64(col.Radius), cp.Vector{})
	shape.SetFriction(0)
	ps.space.AddShape(shape)

	rb.Body = body
	rb.Y = tr.Translation.Y()
	rb.VY = vel.Linear.Y()

	return &bodyInfo{
		body:        body,
		shape:       shape,
		radius:      col.Radius,
		translation: tr.Translation,
		rotation:    tr.Rotation,
		linear:      vel.Linear,
		angular:     vel.Angular,
	}
}

func (ps *PhysicsSystem) writeBack(w *ecs.World, gravity mgl32.Vec3, ground []*common.TriMesh) {
	dt := float32(ps.dt)
	for e, info := range ps.bodies {
		rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
		if !ok {
			continue
		}
		tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		vel, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
		if tr == nil || vel == nil {
			continue
		}

		fy := float32(0)
		if ext, ok := ecs.Get(w, e, component.ExternalForceComponent.Kind()); ok {
			fy = ext.Force.Y()
		}
		prevY := rb.Y
		rb.VY += (fy/float32(info.body.Mass()) + gravity.Y()) * dt
		rb.Y += rb.VY * dt
		rb.Grounded = false

		pos := info.body.Position()
		x, z := float32(pos.X), float32(pos.Y)
		if h, ok := highestSurface(ground, x, z, prevY+groundSnap); ok && rb.Y-info.radius <= h {
			rb.Y = h + info.radius
			if rb.VY < 0 {
				rb.VY = 0
			}
			rb.Grounded = true
		}

		v := info.body.Velocity()
		tr.Translation = mgl32.Vec3{x, rb.Y, z}
		tr.Rotation = mgl32.QuatRotate(-float32(info.body.Angle()), mgl32.Vec3{0, 1, 0})
		vel.Linear = mgl32.Vec3{float32(v.X), rb.VY, float32(v.Y)}
		vel.Angular = mgl32.Vec3{0, -float32(info.body.AngularVelocity()), 0}

		info.translation = tr.Translation
		info.rotation = tr.Rotation
		info.linear = vel.Linear
		info.angular = vel.Angular
	}
}

func highestSurface(meshes []*common.TriMesh, x, z, maxY float32) (float32, bool) {
	best, found := float32(0), false
	for _, m := range meshes {
		if h, ok := m.HeightAt(x, z, maxY); ok && (!found || h > best) {
			best, found = h, true
		}
	}
	return best, found
}

// BallMass returns the mass and yaw moment of inertia of a solid sphere.
func BallMass(density, radius float32) (mass, moment float64) {
	if density <= 0 {
		density = 1
	}
	r := float64(radius)
	mass = float64(density) * 4.0 / 3.0 * math.Pi * r * r * r
	if mass <= 0 {
		mass = 1
	}
	moment = 0.4 * mass * r * r
	if moment <= 0 {
		moment = 1
	}
	return mass, moment
}

// Yaw returns the rotation about +Y of q, measured from +X toward -Z.
func Yaw(q mgl32.Quat) float32 {
	if q.Len() == 0 {
		return 0
	}
	f := q.Normalize().Rotate(mgl32.Vec3{1, 0, 0})
	return float32(math.Atan2(float64(-f.Z()), float64(f.X())))
}
