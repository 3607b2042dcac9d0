package system

import (
	"github.com/milk9111/limbopass/ecs"
)

const (
	IntentSystemName     = "intent"
	ForceSystemName      = "force"
	BoundsWrapSystemName = "bounds_wrap"
	PhysicsSystemName    = "physics"
)

// AddMovement registers the movement pipeline: intents are collected, turned
// into force, wrapped into bounds and then integrated, in that order.
func AddMovement(s *ecs.Scheduler, keys KeySource, bindings []Binding, physics *PhysicsSystem, opts ...ecs.SystemOption) error {
	if physics == nil {
		physics = NewPhysicsSystem()
	}
	steps := []struct {
		name  string
		sys   ecs.System
		after string
	}{
		{IntentSystemName, NewIntentSystem(keys, bindings), ""},
		{ForceSystemName, NewForceSystem(), IntentSystemName},
		{BoundsWrapSystemName, NewBoundsWrapSystem(), ForceSystemName},
		{PhysicsSystemName, physics, BoundsWrapSystemName},
	}
	for _, step := range steps {
		o := append([]ecs.SystemOption(nil), opts...)
		if step.after != "" {
			o = append(o, ecs.After(step.after))
		}
		if err := s.Add(step.name, step.sys, o...); err != nil {
			return err
		}
	}
	return nil
}
