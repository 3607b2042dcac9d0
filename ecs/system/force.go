package system

import (
	"github.com/milk9111/limbopass/ecs"
	"github.com/milk9111/limbopass/ecs/component"
)

// ForceSystem turns the controlled body's intents and current velocity into
// the external force and torque for the next physics step.
type ForceSystem struct{}

func NewForceSystem() *ForceSystem {
	return &ForceSystem{}
}

func (s *ForceSystem) Update(w *ecs.World) {
	e, ok := ecs.Controlled(w)
	if !ok {
		return
	}
	form, ok := ecs.Get(w, e, component.FormComponent.Kind())
	if !ok {
		return
	}
	intents, ok := ecs.Get(w, e, component.IntentsComponent.Kind())
	if !ok {
		return
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	vel, ok := ecs.Get(w, e, component.VelocityComponent.Kind())
	if !ok {
		return
	}
	ext, ok := ecs.Get(w, e, component.ExternalForceComponent.Kind())
	if !ok {
		return
	}

	ext.Force, ext.Torque = form.Resolve(intents.Items, tr.Matrix(), vel.Linear, vel.Angular)
}
