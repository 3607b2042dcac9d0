package entity

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/limbopass/ecs"
	"github.com/milk9111/limbopass/ecs/component"
	"github.com/milk9111/limbopass/prefabs"
	"github.com/milk9111/limbopass/scene"
	"github.com/qmuntal/gltf"
)

// BuildContext carries loaded assets that prefab components refer to.
type BuildContext struct {
	PrefabPath string
	Scene      *gltf.Document
	Tracks     map[string]component.Track
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *BuildContext) error

var componentRegistry = map[string]componentBuildFn{
	"form_tag":       addFormTag,
	"camera_tag":     addCameraTag,
	"transform":      addTransform,
	"rigid_body":     addRigidBody,
	"collider":       addCollider,
	"velocity":       addVelocity,
	"external_force": addExternalForce,
	"intents":        addIntents,
	"form":           addForm,
	"model":          addModel,
	"foot_light":     addFootLight,
	"music_player":   addMusicPlayer,
}

// foot_light follows the entity, so transform must exist before it.
var componentBuildOrder = []string{
	"form_tag",
	"camera_tag",
	"transform",
	"rigid_body",
	"collider",
	"velocity",
	"external_force",
	"intents",
	"form",
	"model",
	"foot_light",
	"music_player",
}

func BuildEntity(w *ecs.World, prefabPath string, ctx *BuildContext) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}
	if ctx == nil {
		ctx = &BuildContext{}
	}
	ctx.PrefabPath = prefabPath

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		if _, ok := componentRegistry[k]; !ok {
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, k)
		}
		remaining[k] = v
	}

	order := append([]string(nil), componentBuildOrder...)
	var extra []string
	for name := range remaining {
		if !contains(order, name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	e := ecs.CreateEntity(w)
	for _, name := range order {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			destroyWithDependents(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}
	return e, nil
}

// destroyWithDependents also removes followers created for e, such as its
// foot light.
func destroyWithDependents(w *ecs.World, e ecs.Entity) {
	var followers []ecs.Entity
	ecs.ForEach(w, component.FollowComponent.Kind(), func(f ecs.Entity, fc *component.Follow) {
		if ecs.Entity(fc.Target) == e {
			followers = append(followers, f)
		}
	})
	for _, f := range followers {
		ecs.DestroyEntity(w, f)
	}
	ecs.DestroyEntity(w, e)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func addFormTag(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.FormTagComponent.Kind(), &component.FormTag{})
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	t := component.NewTransform(spec.X, spec.Y, spec.Z)
	if spec.Yaw != 0 {
		t.Rotation = mgl32.QuatRotate(mgl32.DegToRad(spec.Yaw), mgl32.Vec3{0, 1, 0})
	}
	if spec.Scale != nil {
		t.Scale = spec.Scale.Vec3()
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &t)
}

func addRigidBody(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RigidBodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode rigid_body spec: %w", err)
	}
	density := spec.Density
	if density <= 0 {
		density = 1
	}
	return ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{
		Static:        spec.Static,
		LockRotationX: spec.LockRotationX,
		LockRotationZ: spec.LockRotationZ,
		Density:       density,
	})
}

func addCollider(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ColliderComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}
	switch spec.Shape {
	case "ball", "":
		if spec.Radius <= 0 {
			return fmt.Errorf("ball collider radius must be positive, got %v", spec.Radius)
		}
		return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Shape: component.ColliderBall, Radius: spec.Radius})
	default:
		return fmt.Errorf("unsupported collider shape %q", spec.Shape)
	}
}

func addVelocity(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{})
}

func addExternalForce(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.ExternalForceComponent.Kind(), &component.ExternalForce{})
}

func addIntents(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.IntentsComponent.Kind(), &component.Intents{})
}

func addForm(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.FormComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode form spec: %w", err)
	}
	return ecs.Add(w, e, component.FormComponent.Kind(), &component.Form{
		Thrust: spec.Thrust.Vec3(),
		Drag:   spec.Drag.Vec3(),
	})
}

// addModel attaches the triangles of a named glTF scene. Without a loaded
// document the entity simply has no visual.
func addModel(w *ecs.World, e ecs.Entity, raw any, ctx *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ModelComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode model spec: %w", err)
	}
	if ctx.Scene == nil {
		return nil
	}
	tris, err := scene.Triangles(ctx.Scene, spec.Scene)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.ModelComponent.Kind(), &component.Model{Name: spec.Scene, Triangles: tris})
}

// addFootLight spawns a separate light entity that follows e.
func addFootLight(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.FootLightComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode foot_light spec: %w", err)
	}
	color, err := prefabs.ParseColor(spec.Color)
	if err != nil {
		return fmt.Errorf("foot_light color: %w", err)
	}

	pos := spec.Offset.Vec3()
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		pos = tr.Translation.Add(pos)
	}
	light := ecs.CreateEntity(w)
	t := component.NewTransform(pos.X(), pos.Y(), pos.Z())
	if err := ecs.Add(w, light, component.TransformComponent.Kind(), &t); err != nil {
		return err
	}
	if err := ecs.Add(w, light, component.PointLightComponent.Kind(), &component.PointLight{
		Color:     color,
		Range:     spec.Range,
		Radius:    spec.Radius,
		Intensity: spec.Intensity,
	}); err != nil {
		return err
	}
	if err := ecs.Add(w, light, component.LightTagComponent.Kind(), &component.LightTag{}); err != nil {
		return err
	}
	return ecs.Add(w, light, component.FollowComponent.Kind(), &component.Follow{Target: uint64(e), Offset: spec.Offset.Vec3()})
}

func addMusicPlayer(w *ecs.World, e ecs.Entity, raw any, ctx *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MusicPlayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode music_player spec: %w", err)
	}
	tracks := make(map[string]component.Track, len(ctx.Tracks))
	for name, t := range ctx.Tracks {
		tracks[name] = t
	}
	volumes := make(map[string]float64, len(spec.TrackVolumes))
	for name, v := range spec.TrackVolumes {
		volumes[name] = v
	}
	return ecs.Add(w, e, component.MusicPlayerComponent.Kind(), &component.MusicPlayer{Tracks: tracks, TrackVolumes: volumes})
}
