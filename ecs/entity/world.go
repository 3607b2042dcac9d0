package entity

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/limbopass/ecs"
	"github.com/milk9111/limbopass/ecs/component"
	"github.com/milk9111/limbopass/prefabs"
	"github.com/milk9111/limbopass/scene"
	"github.com/qmuntal/gltf"
)

const MusicPlayerPrefab = "music_player.yaml"

// NewForm builds the form prefab and makes it the controlled body.
func NewForm(w *ecs.World, prefab string, doc *gltf.Document) (ecs.Entity, error) {
	e, err := BuildEntity(w, prefab, &BuildContext{Scene: doc})
	if err != nil {
		return 0, fmt.Errorf("form: %w", err)
	}
	if err := ecs.SetControlled(w, e); err != nil {
		return 0, fmt.Errorf("form: %w", err)
	}
	return e, nil
}

// NewTerrain renders the terrain scene and, when the terrain mesh is usable,
// gives it a static triangle-mesh collider. An unusable mesh only logs a
// warning; the terrain is still drawn.
func NewTerrain(w *ecs.World, doc *gltf.Document, spec prefabs.SceneSpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	t := component.NewTransform(0, 0, 0)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &t); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.TerrainTagComponent.Kind(), &component.TerrainTag{}); err != nil {
		return 0, err
	}

	if spec.TerrainScene != "" {
		tris, err := scene.Triangles(doc, spec.TerrainScene)
		if err != nil {
			slog.Warn("terrain scene not rendered", "scene", spec.TerrainScene, "err", err)
		} else if err := ecs.Add(w, e, component.ModelComponent.Kind(), &component.Model{Name: spec.TerrainScene, Triangles: tris}); err != nil {
			return 0, err
		}
	}

	mesh, err := scene.TerrainMesh(doc, spec.TerrainMesh)
	if err != nil {
		slog.Warn("terrain has no collider", "mesh", spec.TerrainMesh, "err", err)
		return e, nil
	}
	if err := ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{Static: true}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Shape: component.ColliderTriMesh, Mesh: mesh}); err != nil {
		return 0, err
	}
	return e, nil
}

// NewEnvironment stores clear color, ambient light and gravity. Colors must
// already be validated.
func NewEnvironment(w *ecs.World, spec prefabs.EnvironmentSpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	err := ecs.Add(w, e, component.EnvironmentComponent.Kind(), &component.Environment{
		ClearColor:        prefabs.MustColor(spec.ClearColor),
		AmbientColor:      prefabs.MustColor(spec.AmbientColor),
		AmbientBrightness: spec.AmbientBrightness,
		Gravity:           spec.Gravity.Vec3(),
	})
	return e, err
}

func NewPointLights(w *ecs.World, specs []prefabs.PointLightSpec) ([]ecs.Entity, error) {
	out := make([]ecs.Entity, 0, len(specs))
	for _, s := range specs {
		e := ecs.CreateEntity(w)
		pos := s.Position.Vec3()
		t := component.NewTransform(pos.X(), pos.Y(), pos.Z())
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &t); err != nil {
			return nil, err
		}
		if err := ecs.Add(w, e, component.PointLightComponent.Kind(), &component.PointLight{
			Color:     prefabs.MustColor(s.Color),
			Range:     s.Range,
			Radius:    s.Radius,
			Intensity: s.Intensity,
		}); err != nil {
			return nil, err
		}
		if err := ecs.Add(w, e, component.LightTagComponent.Kind(), &component.LightTag{}); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func NewCamera(w *ecs.World, spec prefabs.CameraSpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	cam := component.NewOrbitCamera(spec.Eye.Vec3(), spec.Target.Vec3())
	if spec.FOV > 0 {
		cam.FOV = mgl32.DegToRad(spec.FOV)
	}
	eye := cam.Eye()
	t := component.NewTransform(eye.X(), eye.Y(), eye.Z())
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &t); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.OrbitCameraComponent.Kind(), &cam); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, err
	}
	return e, nil
}

func NewPlayBounds(w *ecs.World, spec prefabs.BoundsSpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	err := ecs.Add(w, e, component.PlayBoundsComponent.Kind(), &component.PlayBounds{
		MaxCoord:      spec.MaxCoord,
		Spawn:         spec.Spawn.Vec3(),
		ResetVelocity: spec.ResetVelocity,
	})
	return e, err
}

func NewMusicPlayer(w *ecs.World, tracks map[string]component.Track) (ecs.Entity, error) {
	ent, err := BuildEntity(w, MusicPlayerPrefab, &BuildContext{Tracks: tracks})
	if err != nil {
		return 0, fmt.Errorf("music player: %w", err)
	}
	return ent, nil
}
