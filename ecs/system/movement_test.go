package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/limbopass/common"
	"github.com/milk9111/limbopass/ecs"
	"github.com/milk9111/limbopass/ecs/component"
	"github.com/milk9111/limbopass/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type heldKeys map[ebiten.Key]bool

func (h heldKeys) IsKeyPressed(k ebiten.Key) bool { return h[k] }

func spawnTestForm(t *testing.T, w *ecs.World, at mgl32.Vec3) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	tr := component.NewTransform(at.X(), at.Y(), at.Z())
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &tr))
	require.NoError(t, ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{LockRotationX: true, LockRotationZ: true, Density: 1}))
	require.NoError(t, ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Shape: component.ColliderBall, Radius: 2.3}))
	require.NoError(t, ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{}))
	require.NoError(t, ecs.Add(w, e, component.ExternalForceComponent.Kind(), &component.ExternalForce{}))
	require.NoError(t, ecs.Add(w, e, component.IntentsComponent.Kind(), &component.Intents{}))
	require.NoError(t, ecs.Add(w, e, component.FormComponent.Kind(), &component.Form{
		Thrust: mgl32.Vec3{300, 100, 300},
		Drag:   mgl32.Vec3{250, 500, 250},
	}))
	require.NoError(t, ecs.SetControlled(w, e))
	return e
}

func addBounds(t *testing.T, w *ecs.World, reset bool) {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.PlayBoundsComponent.Kind(), &component.PlayBounds{
		MaxCoord: 50, Spawn: mgl32.Vec3{0, 20, 0}, ResetVelocity: reset,
	}))
}

func get[T any](t *testing.T, w *ecs.World, e ecs.Entity, h component.ComponentHandle[T]) *T {
	t.Helper()
	v, ok := ecs.Get(w, e, h.Kind())
	require.True(t, ok)
	return v
}

func TestIntentSystemCollectsHeldBindings(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnTestForm(t, w, mgl32.Vec3{})
	keys := heldKeys{ebiten.KeyArrowUp: true, ebiten.KeyW: true, ebiten.KeySpace: true}
	sys := NewIntentSystem(keys, nil)

	sys.Update(w)
	intents := get(t, w, e, component.IntentsComponent)
	assert.Equal(t, []component.Intent{
		{Kind: component.PushForward, Magnitude: 30},
		{Kind: component.Lift, Magnitude: 90},
	}, intents.Items)

	delete(keys, ebiten.KeyW)
	delete(keys, ebiten.KeyArrowUp)
	delete(keys, ebiten.KeySpace)
	sys.Update(w)
	assert.Empty(t, intents.Items)
}

func TestIntentCollectionWithNothingHeldStaysEmpty(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnTestForm(t, w, mgl32.Vec3{})
	intents := get(t, w, e, component.IntentsComponent)
	intents.Push(component.PushForward, 30)
	intents.Push(component.TurnRight, 20)
	sys := NewIntentSystem(heldKeys{}, nil)

	sys.Update(w)
	assert.Empty(t, intents.Items)

	sys.Update(w)
	assert.Empty(t, intents.Items)
}

func TestForceForwardAndTurnScenario(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnTestForm(t, w, mgl32.Vec3{})
	intents := get(t, w, e, component.IntentsComponent)
	intents.Push(component.PushForward, 30)
	intents.Push(component.TurnLeft, 20)

	NewForceSystem().Update(w)

	ext := get(t, w, e, component.ExternalForceComponent)
	assert.Equal(t, mgl32.Vec3{9000, 0, 0}, ext.Force)
	assert.Equal(t, mgl32.Vec3{0, 2000, 0}, ext.Torque)
}

func TestForceFollowsBodyRotation(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnTestForm(t, w, mgl32.Vec3{})
	get(t, w, e, component.TransformComponent).Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	get(t, w, e, component.IntentsComponent).Push(component.PushForward, 30)

	NewForceSystem().Update(w)

	f := get(t, w, e, component.ExternalForceComponent).Force
	assert.InDelta(t, 0, f.X(), 1e-2)
	assert.InDelta(t, 0, f.Y(), 1e-2)
	assert.InDelta(t, -9000, f.Z(), 1e-2)
}

func TestForceSubtractsDrag(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnTestForm(t, w, mgl32.Vec3{})
	vel := get(t, w, e, component.VelocityComponent)
	vel.Linear = mgl32.Vec3{2, 1, -1}
	vel.Angular = mgl32.Vec3{0, 0.5, 0}

	NewForceSystem().Update(w)

	ext := get(t, w, e, component.ExternalForceComponent)
	assert.Equal(t, mgl32.Vec3{-500, -500, 250}, ext.Force)
	assert.Equal(t, mgl32.Vec3{0, -250, 0}, ext.Torque)
}

func TestEmptyIntentsAtRestAreIdempotent(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnTestForm(t, w, mgl32.Vec3{})
	sys := NewForceSystem()

	sys.Update(w)
	first := *get(t, w, e, component.ExternalForceComponent)
	sys.Update(w)
	second := *get(t, w, e, component.ExternalForceComponent)

	assert.Equal(t, component.ExternalForce{}, first)
	assert.Equal(t, first, second)
}

func TestMovementWithoutControlledBodyIsNoop(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnTestForm(t, w, mgl32.Vec3{60, 0, 0})
	addBounds(t, w, false)
	require.NoError(t, ecs.SetControlled(w, 0))
	get(t, w, e, component.IntentsComponent).Push(component.Lift, 90)

	NewIntentSystem(heldKeys{ebiten.KeyW: true}, nil).Update(w)
	NewForceSystem().Update(w)
	NewBoundsWrapSystem().Update(w)

	assert.Len(t, get(t, w, e, component.IntentsComponent).Items, 1)
	assert.Equal(t, component.ExternalForce{}, *get(t, w, e, component.ExternalForceComponent))
	assert.Equal(t, float32(60), get(t, w, e, component.TransformComponent).Translation.X())
}

func TestBoundsWrap(t *testing.T) {
	cases := []struct {
		name    string
		at      mgl32.Vec3
		wrapped bool
	}{
		{"just outside x", mgl32.Vec3{50.01, 3, 0}, true},
		{"just inside x", mgl32.Vec3{49.99, 3, 0}, false},
		{"on the edge", mgl32.Vec3{50, 3, -50}, false},
		{"outside negative z", mgl32.Vec3{0, 3, -50.01}, true},
		{"high y is ignored", mgl32.Vec3{0, 5000, 0}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := spawnTestForm(t, w, c.at)
			addBounds(t, w, false)
			get(t, w, e, component.VelocityComponent).Linear = mgl32.Vec3{5, 0, 0}

			NewBoundsWrapSystem().Update(w)

			tr := get(t, w, e, component.TransformComponent)
			if c.wrapped {
				assert.Equal(t, mgl32.Vec3{0, 20, 0}, tr.Translation)
			} else {
				assert.Equal(t, c.at, tr.Translation)
			}
			assert.Equal(t, mgl32.Vec3{5, 0, 0}, get(t, w, e, component.VelocityComponent).Linear)
		})
	}
}

func TestBoundsWrapCanResetVelocity(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnTestForm(t, w, mgl32.Vec3{-51, 0, 0})
	addBounds(t, w, true)
	get(t, w, e, component.VelocityComponent).Linear = mgl32.Vec3{-30, 0, 0}

	NewBoundsWrapSystem().Update(w)

	assert.Equal(t, mgl32.Vec3{0, 20, 0}, get(t, w, e, component.TransformComponent).Translation)
	assert.Equal(t, mgl32.Vec3{}, get(t, w, e, component.VelocityComponent).Linear)
}

func TestSteadyStateSpeedIsThrustOverDrag(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnTestForm(t, w, mgl32.Vec3{})
	s := ecs.NewScheduler()
	require.NoError(t, s.Add(IntentSystemName, NewIntentSystem(heldKeys{ebiten.KeyW: true}, nil)))
	require.NoError(t, s.Add(ForceSystemName, NewForceSystem(), ecs.After(IntentSystemName)))
	require.NoError(t, s.Add(PhysicsSystemName, NewPhysicsSystem(), ecs.After(ForceSystemName)))

	for range 10 * common.TicksPerSecond {
		require.NoError(t, s.Update(w))
	}

	vel := get(t, w, e, component.VelocityComponent)
	assert.InDelta(t, 300.0*30/250, vel.Linear.X(), 0.01)
	assert.InDelta(t, 0, vel.Linear.Z(), 1e-3)
	assert.InDelta(t, 0, vel.Angular.Y(), 1e-3)
}

func TestMisorderedForceSeesPreviousIntents(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnTestForm(t, w, mgl32.Vec3{})
	keys := heldKeys{ebiten.KeyW: true}
	s := ecs.NewScheduler()
	require.NoError(t, s.Add(ForceSystemName, NewForceSystem()))
	require.NoError(t, s.Add(IntentSystemName, NewIntentSystem(keys, nil), ecs.After(ForceSystemName)))

	require.NoError(t, s.Update(w))
	ext := get(t, w, e, component.ExternalForceComponent)
	assert.Equal(t, mgl32.Vec3{}, ext.Force)

	delete(keys, ebiten.KeyW)
	require.NoError(t, s.Update(w))
	assert.Equal(t, mgl32.Vec3{9000, 0, 0}, ext.Force)
	assert.Empty(t, get(t, w, e, component.IntentsComponent).Items)
}

func TestAddMovementOrder(t *testing.T) {
	s := ecs.NewScheduler()
	require.NoError(t, AddMovement(s, heldKeys{}, nil, nil))
	require.NoError(t, s.Build())
	assert.Equal(t, []string{IntentSystemName, ForceSystemName, BoundsWrapSystemName, PhysicsSystemName}, s.Systems())
}

func TestBindingsFromSpecs(t *testing.T) {
	specs, err := prefabs.LoadBindings(prefabs.ControlsScript)
	require.NoError(t, err)
	bindings, err := BindingsFromSpecs(specs)
	require.NoError(t, err)
	assert.Equal(t, DefaultBindings(), bindings)
	assert.Equal(t, bindings, LoadBindings(prefabs.ControlsScript))

	_, ok := ParseKey("Unknown")
	assert.False(t, ok)
	k, ok := ParseKey("arrowleft")
	require.True(t, ok)
	assert.Equal(t, ebiten.KeyArrowLeft, k)
}
