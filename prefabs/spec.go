package prefabs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("prefabs: invalid config")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Vec3Spec [3]float32

func (v Vec3Spec) Vec3() mgl32.Vec3 {
	return mgl32.Vec3(v)
}

type WindowSpec struct {
	Title string `yaml:"title"`
}

type AssetsSpec struct {
	Font  string `yaml:"font"`
	Theme string `yaml:"theme"`
	Scene string `yaml:"scene"`
}

type LifecycleSpec struct {
	SkipMenu bool `yaml:"skip_menu"`
}

type EnvironmentSpec struct {
	ClearColor        string   `yaml:"clear_color"`
	AmbientColor      string   `yaml:"ambient_color"`
	AmbientBrightness float32  `yaml:"ambient_brightness"`
	Gravity           Vec3Spec `yaml:"gravity"`
}

type PointLightSpec struct {
	Color     string   `yaml:"color"`
	Range     float32  `yaml:"range"`
	Radius    float32  `yaml:"radius"`
	Intensity float32  `yaml:"intensity"`
	Position  Vec3Spec `yaml:"position"`
}

type CameraSpec struct {
	Eye    Vec3Spec `yaml:"eye"`
	Target Vec3Spec `yaml:"target"`
	FOV    float32  `yaml:"fov"`
}

type BoundsSpec struct {
	MaxCoord      float32  `yaml:"max_coord"`
	Spawn         Vec3Spec `yaml:"spawn"`
	ResetVelocity bool     `yaml:"reset_velocity"`
}

type SceneSpec struct {
	FormScene    string `yaml:"form_scene"`
	TerrainScene string `yaml:"terrain_scene"`
	TerrainMesh  string `yaml:"terrain_mesh"`
}

type ThemeSpec struct {
	Volume       float64 `yaml:"volume"`
	PlayingLabel string  `yaml:"playing_label"`
	MutedLabel   string  `yaml:"muted_label"`
}

type UISpec struct {
	Title        string  `yaml:"title"`
	PlayLabel    string  `yaml:"play_label"`
	ButtonColor  string  `yaml:"button_color"`
	HoverColor   string  `yaml:"hover_color"`
	TextColor    string  `yaml:"text_color"`
	FontSize     float64 `yaml:"font_size"`
	ControlsHelp string  `yaml:"controls_help"`
}

// GameSpec is the top-level game configuration in game.yaml.
type GameSpec struct {
	Name        string           `yaml:"name"`
	Window      WindowSpec       `yaml:"window"`
	Assets      AssetsSpec       `yaml:"assets"`
	Lifecycle   LifecycleSpec    `yaml:"lifecycle"`
	Environment EnvironmentSpec  `yaml:"environment"`
	Lights      []PointLightSpec `yaml:"lights"`
	Camera      CameraSpec       `yaml:"camera"`
	Bounds      BoundsSpec       `yaml:"bounds"`
	Scene       SceneSpec        `yaml:"scene"`
	Theme       ThemeSpec        `yaml:"theme"`
	UI          UISpec           `yaml:"ui"`
	Form        string           `yaml:"form"`
}

func LoadGameSpec() (*GameSpec, error) {
	spec, err := LoadSpec[GameSpec]("game.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks everything that would otherwise fail mid-game: colors,
// asset paths and play-area bounds. All problems are reported together.
func (s *GameSpec) Validate() error {
	var errs []error
	color := func(field, v string) {
		if _, err := ParseColor(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}
	required := func(field, v string) {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("%s: must not be empty", field))
		}
	}

	required("assets.font", s.Assets.Font)
	required("assets.theme", s.Assets.Theme)
	required("assets.scene", s.Assets.Scene)
	required("scene.form_scene", s.Scene.FormScene)
	required("scene.terrain_mesh", s.Scene.TerrainMesh)
	required("form", s.Form)

	color("environment.clear_color", s.Environment.ClearColor)
	color("environment.ambient_color", s.Environment.AmbientColor)
	for i, l := range s.Lights {
		color(fmt.Sprintf("lights[%d].color", i), l.Color)
	}
	color("ui.button_color", s.UI.ButtonColor)
	color("ui.hover_color", s.UI.HoverColor)
	color("ui.text_color", s.UI.TextColor)
	if s.Form != "" {
		if err := validateFormPrefab(s.Form); err != nil {
			errs = append(errs, fmt.Errorf("form: %w", err))
		}
	}

	if s.Bounds.MaxCoord <= 0 {
		errs = append(errs, fmt.Errorf("bounds.max_coord: must be positive, got %v", s.Bounds.MaxCoord))
	}
	if s.Theme.Volume < 0 {
		errs = append(errs, fmt.Errorf("theme.volume: must not be negative, got %v", s.Theme.Volume))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// validateFormPrefab checks the form prefab's colors, which are otherwise
// only parsed when the scene spawns.
func validateFormPrefab(filename string) error {
	spec, err := LoadEntityBuildSpec(filename)
	if err != nil {
		return err
	}
	raw, ok := spec.Components["foot_light"]
	if !ok {
		return nil
	}
	light, err := DecodeComponentSpec[FootLightComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("foot_light: %w", err)
	}
	if _, err := ParseColor(light.Color); err != nil {
		return fmt.Errorf("foot_light.color: %w", err)
	}
	return nil
}

// ParseColor parses "rrggbb" or "#rrggbb" into sRGB 0..1 channels. Lighting
// works on these values directly, without converting to linear.
func ParseColor(hex string) (mgl32.Vec3, error) {
	s := strings.TrimSpace(hex)
	if s == "" {
		return mgl32.Vec3{}, fmt.Errorf("empty color")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("couldn't make hex color from %q: %w", hex, err)
	}
	return mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}, nil
}

// MustColor is for colors already checked by Validate.
func MustColor(hex string) mgl32.Vec3 {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}
