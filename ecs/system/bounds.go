package system

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/limbopass/ecs"
	"github.com/milk9111/limbopass/ecs/component"
)

// BoundsWrapSystem teleports the controlled body back to spawn once it
// leaves the play area.
type BoundsWrapSystem struct{}

func NewBoundsWrapSystem() *BoundsWrapSystem {
	return &BoundsWrapSystem{}
}

func (s *BoundsWrapSystem) Update(w *ecs.World) {
	be, ok := ecs.First(w, component.PlayBoundsComponent.Kind())
	if !ok {
		return
	}
	bounds, ok := ecs.Get(w, be, component.PlayBoundsComponent.Kind())
	if !ok {
		return
	}
	e, ok := ecs.Controlled(w)
	if !ok {
		return
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || bounds.Contains(tr.Translation) {
		return
	}

	slog.Debug("form left play area", "at", tr.Translation, "spawn", bounds.Spawn)
	tr.Translation = bounds.Spawn
	if !bounds.ResetVelocity {
		return
	}
	if vel, ok := ecs.Get(w, e, component.VelocityComponent.Kind()); ok {
		vel.Linear = mgl32.Vec3{}
		vel.Angular = mgl32.Vec3{}
	}
}
