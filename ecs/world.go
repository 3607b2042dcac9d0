package ecs

import "github.com/milk9111/limbopass/ecs/component"

// World owns entities, component stores and the controlled body handle.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet

	controlled Entity
	tick       uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// Tick returns the number of completed scheduler passes.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w == nil {
		return nil
	}
	s, ok := w.stores[id]
	if !ok && create {
		if w.stores == nil {
			w.stores = make(map[component.ComponentID]*SparseSet)
		}
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes every component of e and releases its id. Destroying
// the controlled body clears the controlled handle.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(int(e.id()))
	}
	if w.controlled == e {
		w.controlled = 0
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// SetControlled marks e as the single body driven by player input. Passing
// the zero entity clears the handle.
func SetControlled(w *World, e Entity) error {
	if w == nil {
		return nil
	}
	if e != 0 && !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	w.controlled = e
	return nil
}

// Controlled returns the controlled body, if one is set and still alive.
func Controlled(w *World) (Entity, bool) {
	if w == nil || w.controlled == 0 || !w.entities.isAlive(w.controlled) {
		return 0, false
	}
	return w.controlled, true
}
