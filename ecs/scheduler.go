package ecs

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateSystem = errors.New("ecs: duplicate system name")
	ErrUnknownSystem   = errors.New("ecs: unknown system dependency")
	ErrSystemCycle     = errors.New("ecs: system dependency cycle")
)

type System interface {
	Update(w *World)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) { f(w) }

// Condition gates a system for the current tick.
type Condition func(w *World) bool

type SystemOption func(*systemEntry)

// After orders the system behind the named systems.
func After(names ...string) SystemOption {
	return func(e *systemEntry) {
		e.after = append(e.after, names...)
	}
}

// RunIf skips the system on ticks where cond reports false.
func RunIf(cond Condition) SystemOption {
	return func(e *systemEntry) {
		if cond != nil {
			e.conds = append(e.conds, cond)
		}
	}
}

type systemEntry struct {
	name   string
	system System
	after  []string
	conds  []Condition
}

// Scheduler runs systems once per tick in dependency order.
type Scheduler struct {
	entries []*systemEntry
	order   []*systemEntry
	dirty   bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Add registers a named system. Ordering is resolved lazily by Build.
func (s *Scheduler) Add(name string, system System, opts ...SystemOption) error {
	if system == nil {
		return nil
	}
	for _, e := range s.entries {
		if e.name == name {
			return fmt.Errorf("%w: %q", ErrDuplicateSystem, name)
		}
	}
	entry := &systemEntry{name: name, system: system}
	for _, opt := range opts {
		opt(entry)
	}
	s.entries = append(s.entries, entry)
	s.dirty = true
	return nil
}

// Build resolves the run order. Systems without a dependency between them
// keep their registration order.
func (s *Scheduler) Build() error {
	index := make(map[string]int, len(s.entries))
	for i, e := range s.entries {
		index[e.name] = i
	}

	indegree := make([]int, len(s.entries))
	dependents := make([][]int, len(s.entries))
	for i, e := range s.entries {
		for _, dep := range e.after {
			j, ok := index[dep]
			if !ok {
				return fmt.Errorf("%w: %q runs after %q", ErrUnknownSystem, e.name, dep)
			}
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	order := make([]*systemEntry, 0, len(s.entries))
	done := make([]bool, len(s.entries))
	for len(order) < len(s.entries) {
		progressed := false
		for i, e := range s.entries {
			if done[i] || indegree[i] > 0 {
				continue
			}
			done[i] = true
			order = append(order, e)
			for _, d := range dependents[i] {
				indegree[d]--
			}
			progressed = true
			break
		}
		if !progressed {
			return fmt.Errorf("%w among %v", ErrSystemCycle, s.pending(done))
		}
	}

	s.order = order
	s.dirty = false
	return nil
}

func (s *Scheduler) pending(done []bool) []string {
	var names []string
	for i, e := range s.entries {
		if !done[i] {
			names = append(names, e.name)
		}
	}
	return names
}

// Update runs one tick.
func (s *Scheduler) Update(w *World) error {
	if s.dirty {
		if err := s.Build(); err != nil {
			return err
		}
	}
	for _, e := range s.order {
		if !e.enabled(w) {
			continue
		}
		e.system.Update(w)
	}
	if w != nil {
		w.tick++
	}
	return nil
}

func (e *systemEntry) enabled(w *World) bool {
	for _, cond := range e.conds {
		if !cond(w) {
			return false
		}
	}
	return true
}

// Systems returns system names in run order.
func (s *Scheduler) Systems() []string {
	names := make([]string, 0, len(s.order))
	for _, e := range s.order {
		names = append(names, e.name)
	}
	return names
}

// Lookup returns the registered system with the given name.
func (s *Scheduler) Lookup(name string) (System, bool) {
	for _, e := range s.entries {
		if e.name == name {
			return e.system, true
		}
	}
	return nil, false
}
