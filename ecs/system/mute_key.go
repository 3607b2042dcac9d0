package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/limbopass/ecs"
)

// MuteKeySystem toggles the music on each press of its key.
type MuteKeySystem struct {
	keys KeySource
	key  ebiten.Key
	held bool
}

func NewMuteKeySystem(keys KeySource, key ebiten.Key) *MuteKeySystem {
	if keys == nil {
		keys = EbitenKeys{}
	}
	return &MuteKeySystem{keys: keys, key: key}
}

func (s *MuteKeySystem) Update(w *ecs.World) {
	down := s.keys.IsKeyPressed(s.key)
	if down && !s.held {
		ToggleMute(w)
	}
	s.held = down
}
