package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X     float32   `yaml:"x"`
	Y     float32   `yaml:"y"`
	Z     float32   `yaml:"z"`
	Yaw   float32   `yaml:"yaw"`
	Scale *Vec3Spec `yaml:"scale"`
}

type RigidBodyComponentSpec struct {
	Static        bool    `yaml:"static"`
	LockRotationX bool    `yaml:"lock_rotation_x"`
	LockRotationZ bool    `yaml:"lock_rotation_z"`
	Density       float32 `yaml:"density"`
}

type ColliderComponentSpec struct {
	Shape  string  `yaml:"shape"`
	Radius float32 `yaml:"radius"`
}

type FormComponentSpec struct {
	Thrust Vec3Spec `yaml:"thrust"`
	Drag   Vec3Spec `yaml:"drag"`
}

type ModelComponentSpec struct {
	Scene string `yaml:"scene"`
}

type FootLightComponentSpec struct {
	Color     string   `yaml:"color"`
	Range     float32  `yaml:"range"`
	Radius    float32  `yaml:"radius"`
	Intensity float32  `yaml:"intensity"`
	Offset    Vec3Spec `yaml:"offset"`
}

type MusicPlayerComponentSpec struct {
	TrackVolumes map[string]float64 `yaml:"track_volumes"`
}

// LoadFormSpec returns the form component of an entity prefab, for tuning
// reloads that only need thrust and drag.
func LoadFormSpec(filename string) (FormComponentSpec, error) {
	spec, err := LoadEntityBuildSpec(filename)
	if err != nil {
		return FormComponentSpec{}, err
	}
	return DecodeComponentSpec[FormComponentSpec](spec.Components["form"])
}
