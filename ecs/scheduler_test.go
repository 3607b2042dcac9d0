package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recorder(log *[]string, name string) System {
	return SystemFunc(func(*World) { *log = append(*log, name) })
}

func TestSchedulerOrdersByDependency(t *testing.T) {
	var ran []string
	s := NewScheduler()
	require.NoError(t, s.Add("wrap", recorder(&ran, "wrap"), After("force")))
	require.NoError(t, s.Add("force", recorder(&ran, "force"), After("intent")))
	require.NoError(t, s.Add("intent", recorder(&ran, "intent")))
	require.NoError(t, s.Add("render", recorder(&ran, "render")))

	w := NewWorld()
	require.NoError(t, s.Update(w))

	assert.Equal(t, []string{"intent", "force", "wrap", "render"}, ran)
	assert.Equal(t, ran, s.Systems())
	assert.Equal(t, uint64(1), w.Tick())
}

func TestSchedulerRunIf(t *testing.T) {
	var ran []string
	enabled := false
	s := NewScheduler()
	require.NoError(t, s.Add("gated", recorder(&ran, "gated"), RunIf(func(*World) bool { return enabled })))
	require.NoError(t, s.Add("always", recorder(&ran, "always")))

	w := NewWorld()
	require.NoError(t, s.Update(w))
	enabled = true
	require.NoError(t, s.Update(w))

	assert.Equal(t, []string{"always", "gated", "always"}, ran)
}

func TestSchedulerBuildErrors(t *testing.T) {
	noop := SystemFunc(func(*World) {})

	t.Run("duplicate", func(t *testing.T) {
		s := NewScheduler()
		require.NoError(t, s.Add("a", noop))
		assert.ErrorIs(t, s.Add("a", noop), ErrDuplicateSystem)
	})

	t.Run("unknown", func(t *testing.T) {
		s := NewScheduler()
		require.NoError(t, s.Add("a", noop, After("missing")))
		assert.ErrorIs(t, s.Build(), ErrUnknownSystem)
	})

	t.Run("cycle", func(t *testing.T) {
		s := NewScheduler()
		require.NoError(t, s.Add("a", noop, After("b")))
		require.NoError(t, s.Add("b", noop, After("a")))
		assert.ErrorIs(t, s.Update(NewWorld()), ErrSystemCycle)
	})
}
