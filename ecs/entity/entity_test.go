package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/limbopass/ecs"
	"github.com/milk9111/limbopass/ecs/component"
	"github.com/milk9111/limbopass/prefabs"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDoc(withIndices bool) *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{-60, 0, -60}, {60, 0, -60}, {60, 0, 60}, {-60, 0, 60}})
	prim := &gltf.Primitive{Attributes: map[string]int{gltf.POSITION: pos}}
	if withIndices {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3}))
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: "TERRAIN", Primitives: []*gltf.Primitive{prim}})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: gltf.Index(0)})
	doc.Scenes = append(doc.Scenes,
		&gltf.Scene{Name: "TERRAIN", Nodes: []int{0}},
		&gltf.Scene{Name: "FORM", Nodes: []int{0}},
	)
	return doc
}

func TestNewFormBuildsControlledBody(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewForm(w, "form.yaml", testDoc(true))
	require.NoError(t, err)

	controlled, ok := ecs.Controlled(w)
	require.True(t, ok)
	assert.Equal(t, e, controlled)

	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{-45, 1.5, 0}, tr.Translation)

	form, ok := ecs.Get(w, e, component.FormComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{300, 100, 300}, form.Thrust)
	assert.Equal(t, mgl32.Vec3{250, 500, 250}, form.Drag)

	rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
	require.True(t, ok)
	assert.True(t, rb.LockRotationX)
	assert.True(t, rb.LockRotationZ)
	assert.False(t, rb.Static)

	col, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, component.ColliderBall, col.Shape)
	assert.InDelta(t, 2.3, col.Radius, 1e-6)

	for _, has := range []bool{
		ecs.Has(w, e, component.VelocityComponent.Kind()),
		ecs.Has(w, e, component.ExternalForceComponent.Kind()),
		ecs.Has(w, e, component.IntentsComponent.Kind()),
		ecs.Has(w, e, component.FormTagComponent.Kind()),
		ecs.Has(w, e, component.ModelComponent.Kind()),
	} {
		assert.True(t, has)
	}

	var lights int
	ecs.ForEach2(w, component.PointLightComponent.Kind(), component.FollowComponent.Kind(), func(_ ecs.Entity, l *component.PointLight, f *component.Follow) {
		lights++
		assert.Equal(t, uint64(e), f.Target)
		assert.Equal(t, float32(2), l.Range)
		assert.InDelta(t, 1, l.Color.Y(), 1e-6)
	})
	assert.Equal(t, 1, lights)
}

func TestNewFormWithoutSceneHasNoModel(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewForm(w, "form.yaml", nil)
	require.NoError(t, err)
	assert.False(t, ecs.Has(w, e, component.ModelComponent.Kind()))
}

func TestNewTerrain(t *testing.T) {
	spec := prefabs.SceneSpec{TerrainScene: "TERRAIN", TerrainMesh: "TERRAIN"}

	t.Run("usable mesh gets collider", func(t *testing.T) {
		w := ecs.NewWorld()
		e, err := NewTerrain(w, testDoc(true), spec)
		require.NoError(t, err)
		col, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
		require.True(t, ok)
		assert.Equal(t, component.ColliderTriMesh, col.Shape)
		h, ok := col.Mesh.HeightAt(0, 0, 10)
		require.True(t, ok)
		assert.InDelta(t, 0, h, 1e-6)
		assert.True(t, ecs.Has(w, e, component.ModelComponent.Kind()))
	})

	t.Run("unindexed mesh is drawn without collider", func(t *testing.T) {
		w := ecs.NewWorld()
		e, err := NewTerrain(w, testDoc(false), spec)
		require.NoError(t, err)
		assert.False(t, ecs.Has(w, e, component.ColliderComponent.Kind()))
		assert.True(t, ecs.Has(w, e, component.ModelComponent.Kind()))
	})
}

func TestWorldSetupFromGameSpec(t *testing.T) {
	spec, err := prefabs.LoadGameSpec()
	require.NoError(t, err)
	w := ecs.NewWorld()

	_, err = NewEnvironment(w, spec.Environment)
	require.NoError(t, err)
	lights, err := NewPointLights(w, spec.Lights)
	require.NoError(t, err)
	assert.Len(t, lights, 4)
	camEnt, err := NewCamera(w, spec.Camera)
	require.NoError(t, err)
	_, err = NewPlayBounds(w, spec.Bounds)
	require.NoError(t, err)

	cam, ok := ecs.Get(w, camEnt, component.OrbitCameraComponent.Kind())
	require.True(t, ok)
	eye := cam.Eye()
	assert.InDeltaSlice(t, []float32{-100, 60, 20}, eye[:], 1e-2)

	envEnt, ok := ecs.First(w, component.EnvironmentComponent.Kind())
	require.True(t, ok)
	env, _ := ecs.Get(w, envEnt, component.EnvironmentComponent.Kind())
	assert.Equal(t, mgl32.Vec3{0, -100, 0}, env.Gravity)
	assert.InDelta(t, 0.6, env.AmbientBrightness, 1e-6)
}

func TestNewMusicPlayerUsesPrefabVolumes(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewMusicPlayer(w, nil)
	require.NoError(t, err)
	player, ok := ecs.Get(w, e, component.MusicPlayerComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 1.0, player.TrackVolumes["audio/overworld.ogg"])
	assert.NotNil(t, player.Tracks)
}

func TestBuildEntityRejectsUnknownComponent(t *testing.T) {
	w := ecs.NewWorld()
	_, err := BuildEntity(w, "game.yaml", nil)
	require.Error(t, err)
	assert.Empty(t, ecs.Entities(w))
}
