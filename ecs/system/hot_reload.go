package system

import (
	"log/slog"
	"path/filepath"

	"github.com/milk9111/limbopass/ecs"
	"github.com/milk9111/limbopass/ecs/component"
	"github.com/milk9111/limbopass/prefabs"
)

// ChangeSource reports prefab files changed since the last poll.
// *prefabs.Watcher satisfies it.
type ChangeSource interface {
	Poll() []string
}

// HotReloadSystem re-reads tuning files while the game runs: the form prefab
// updates the controlled body's thrust and drag, the controls script
// replaces the key bindings.
type HotReloadSystem struct {
	changes    ChangeSource
	formFile   string
	scriptFile string
	intents    *IntentSystem
}

func NewHotReloadSystem(changes ChangeSource, formFile, scriptFile string, intents *IntentSystem) *HotReloadSystem {
	return &HotReloadSystem{changes: changes, formFile: formFile, scriptFile: scriptFile, intents: intents}
}

func (s *HotReloadSystem) Update(w *ecs.World) {
	if s == nil || s.changes == nil {
		return
	}
	for _, name := range s.changes.Poll() {
		switch name {
		case filepath.Base(s.formFile):
			s.reloadForm(w)
		case filepath.Base(s.scriptFile):
			s.reloadBindings()
		}
	}
}

func (s *HotReloadSystem) reloadForm(w *ecs.World) {
	e, ok := ecs.Controlled(w)
	if !ok {
		return
	}
	form, ok := ecs.Get(w, e, component.FormComponent.Kind())
	if !ok {
		return
	}
	spec, err := prefabs.LoadFormSpec(s.formFile)
	if err != nil {
		slog.Warn("form reload failed", "file", s.formFile, "err", err)
		return
	}
	form.Thrust = spec.Thrust.Vec3()
	form.Drag = spec.Drag.Vec3()
	slog.Info("form reloaded", "thrust", form.Thrust, "drag", form.Drag)
}

func (s *HotReloadSystem) reloadBindings() {
	if s.intents == nil {
		return
	}
	specs, err := prefabs.LoadBindings(s.scriptFile)
	if err != nil {
		slog.Warn("controls reload failed", "script", s.scriptFile, "err", err)
		return
	}
	bindings, err := BindingsFromSpecs(specs)
	if err != nil {
		slog.Warn("controls reload failed", "script", s.scriptFile, "err", err)
		return
	}
	s.intents.SetBindings(bindings)
	slog.Info("controls reloaded", "bindings", len(bindings))
}
