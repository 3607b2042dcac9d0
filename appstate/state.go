package appstate

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

var ErrInvalidTransition = errors.New("appstate: invalid transition")

type State int

const (
	Loading State = iota
	MainMenu
	Running
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case MainMenu:
		return "main_menu"
	case Running:
		return "running"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var transitions = map[State][]State{
	Loading:  {MainMenu, Running},
	MainMenu: {Running},
}

// CanTransition reports whether from -> to is an allowed edge.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Hook func(from, to State) error

// Machine is the application lifecycle. It starts in Loading and only moves
// forward.
type Machine struct {
	current State
	enter   map[State][]Hook
	exit    map[State][]Hook
	log     *slog.Logger
}

func NewMachine(log *slog.Logger) *Machine {
	if log == nil {
		log = slog.Default()
	}
	return &Machine{
		current: Loading,
		enter:   make(map[State][]Hook),
		exit:    make(map[State][]Hook),
		log:     log,
	}
}

func (m *Machine) Current() State {
	return m.current
}

func (m *Machine) In(s State) bool {
	return m.current == s
}

func (m *Machine) OnEnter(s State, h Hook) {
	if h != nil {
		m.enter[s] = append(m.enter[s], h)
	}
}

func (m *Machine) OnExit(s State, h Hook) {
	if h != nil {
		m.exit[s] = append(m.exit[s], h)
	}
}

// Start runs the OnEnter hooks of the initial state.
func (m *Machine) Start() error {
	for _, h := range m.enter[m.current] {
		if err := h(m.current, m.current); err != nil {
			return fmt.Errorf("appstate: enter %s: %w", m.current, err)
		}
	}
	return nil
}

// Transition runs the exit hooks of the current state, switches, then runs
// the enter hooks of the new one. A failing exit hook leaves the state
// unchanged.
func (m *Machine) Transition(to State) error {
	from := m.current
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	for _, h := range m.exit[from] {
		if err := h(from, to); err != nil {
			return fmt.Errorf("appstate: exit %s: %w", from, err)
		}
	}
	m.current = to
	m.log.Info("state changed", "from", from.String(), "to", to.String())
	for _, h := range m.enter[to] {
		if err := h(from, to); err != nil {
			return fmt.Errorf("appstate: enter %s: %w", to, err)
		}
	}
	return nil
}

// Readiness is the result of polling one gate predicate.
type Readiness int

const (
	Pending Readiness = iota
	Ready
	Failed
)

type Check func() (Readiness, error)

// Gate collects named readiness checks that must all pass before Loading ends.
type Gate struct {
	checks map[string]Check
}

func NewGate() *Gate {
	return &Gate{checks: make(map[string]Check)}
}

func (g *Gate) Require(name string, c Check) {
	g.checks[name] = c
}

// Poll returns true once every check is Ready. The first failure is
// returned as an error naming the check; pending names are returned so the
// loading screen can show them.
func (g *Gate) Poll() (bool, []string, error) {
	names := make([]string, 0, len(g.checks))
	for name := range g.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	var pending []string
	for _, name := range names {
		r, err := g.checks[name]()
		switch r {
		case Failed:
			if err == nil {
				err = errors.New("failed")
			}
			return false, nil, fmt.Errorf("appstate: %s: %w", name, err)
		case Pending:
			pending = append(pending, name)
		}
	}
	return len(pending) == 0, pending, nil
}
