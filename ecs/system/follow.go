package system

import (
	"github.com/milk9111/limbopass/ecs"
	"github.com/milk9111/limbopass/ecs/component"
)

// FollowSystem pins followers at an offset from their target. Followers of
// a destroyed target stay where they are.
type FollowSystem struct{}

func NewFollowSystem() *FollowSystem {
	return &FollowSystem{}
}

func (s *FollowSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.FollowComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, f *component.Follow, tr *component.Transform) {
		target := ecs.Entity(f.Target)
		if !ecs.IsAlive(w, target) {
			return
		}
		if tt, ok := ecs.Get(w, target, component.TransformComponent.Kind()); ok {
			tr.Translation = tt.Translation.Add(f.Offset)
		}
	})
}
