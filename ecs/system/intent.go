package system

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/limbopass/ecs"
	"github.com/milk9111/limbopass/ecs/component"
	"github.com/milk9111/limbopass/prefabs"
)

// KeySource reports held keys. The game uses ebiten; tests use a fake.
type KeySource interface {
	IsKeyPressed(key ebiten.Key) bool
}

type EbitenKeys struct{}

func (EbitenKeys) IsKeyPressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

// Binding fires its intent while any of its keys is held.
type Binding struct {
	Keys      []ebiten.Key
	Intent    component.IntentKind
	Magnitude float32
}

func DefaultBindings() []Binding {
	return []Binding{
		{Keys: []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}, Intent: component.PushForward, Magnitude: 30},
		{Keys: []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown}, Intent: component.PushBackward, Magnitude: 30},
		{Keys: []ebiten.Key{ebiten.KeyA}, Intent: component.PushLeft, Magnitude: 30},
		{Keys: []ebiten.Key{ebiten.KeyD}, Intent: component.PushRight, Magnitude: 30},
		{Keys: []ebiten.Key{ebiten.KeyArrowLeft}, Intent: component.TurnLeft, Magnitude: 20},
		{Keys: []ebiten.Key{ebiten.KeyArrowRight}, Intent: component.TurnRight, Magnitude: 20},
		{Keys: []ebiten.Key{ebiten.KeySpace}, Intent: component.Lift, Magnitude: 90},
	}
}

var keyNames = map[string]ebiten.Key{
	"a": ebiten.KeyA, "b": ebiten.KeyB, "c": ebiten.KeyC, "d": ebiten.KeyD,
	"e": ebiten.KeyE, "f": ebiten.KeyF, "g": ebiten.KeyG, "h": ebiten.KeyH,
	"i": ebiten.KeyI, "j": ebiten.KeyJ, "k": ebiten.KeyK, "l": ebiten.KeyL,
	"m": ebiten.KeyM, "n": ebiten.KeyN, "o": ebiten.KeyO, "p": ebiten.KeyP,
	"q": ebiten.KeyQ, "r": ebiten.KeyR, "s": ebiten.KeyS, "t": ebiten.KeyT,
	"u": ebiten.KeyU, "v": ebiten.KeyV, "w": ebiten.KeyW, "x": ebiten.KeyX,
	"y": ebiten.KeyY, "z": ebiten.KeyZ,

	"arrowup":    ebiten.KeyArrowUp,
	"arrowdown":  ebiten.KeyArrowDown,
	"arrowleft":  ebiten.KeyArrowLeft,
	"arrowright": ebiten.KeyArrowRight,
	"space":      ebiten.KeySpace,
	"shiftleft":  ebiten.KeyShiftLeft,
	"shiftright": ebiten.KeyShiftRight,
	"enter":      ebiten.KeyEnter,
	"tab":        ebiten.KeyTab,
}

func ParseKey(name string) (ebiten.Key, bool) {
	k, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

func BindingsFromSpecs(specs []prefabs.BindingSpec) ([]Binding, error) {
	out := make([]Binding, 0, len(specs))
	for i, s := range specs {
		kind, ok := component.ParseIntentKind(s.Intent)
		if !ok {
			return nil, fmt.Errorf("binding %d: unknown intent %q", i, s.Intent)
		}
		b := Binding{Intent: kind, Magnitude: s.Magnitude}
		for _, name := range s.Keys {
			key, ok := ParseKey(name)
			if !ok {
				return nil, fmt.Errorf("binding %d: unknown key %q", i, name)
			}
			b.Keys = append(b.Keys, key)
		}
		out = append(out, b)
	}
	return out, nil
}

// LoadBindings reads the controls script, falling back to DefaultBindings
// when it is missing or invalid.
func LoadBindings(script string) []Binding {
	specs, err := prefabs.LoadBindings(script)
	if err != nil {
		slog.Warn("controls script unusable, using default bindings", "script", script, "err", err)
		return DefaultBindings()
	}
	bindings, err := BindingsFromSpecs(specs)
	if err != nil {
		slog.Warn("controls script unusable, using default bindings", "script", script, "err", err)
		return DefaultBindings()
	}
	return bindings
}

// IntentSystem rebuilds the controlled body's intent set from held keys.
type IntentSystem struct {
	keys     KeySource
	bindings []Binding
}

func NewIntentSystem(keys KeySource, bindings []Binding) *IntentSystem {
	if keys == nil {
		keys = EbitenKeys{}
	}
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &IntentSystem{keys: keys, bindings: bindings}
}

func (s *IntentSystem) SetBindings(bindings []Binding) {
	s.bindings = bindings
}

func (s *IntentSystem) Update(w *ecs.World) {
	e, ok := ecs.Controlled(w)
	if !ok {
		return
	}
	intents, ok := ecs.Get(w, e, component.IntentsComponent.Kind())
	if !ok {
		return
	}

	intents.Reset()
	for _, b := range s.bindings {
		if s.anyHeld(b.Keys) {
			intents.Push(b.Intent, b.Magnitude)
		}
	}
}

func (s *IntentSystem) anyHeld(keys []ebiten.Key) bool {
	for _, k := range keys {
		if s.keys.IsKeyPressed(k) {
			return true
		}
	}
	return false
}
