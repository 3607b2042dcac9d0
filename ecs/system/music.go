package system

import (
	"log/slog"
	"strings"

	"github.com/milk9111/limbopass/common"
	"github.com/milk9111/limbopass/ecs"
	"github.com/milk9111/limbopass/ecs/component"
)

const (
	defaultMusicVolume     = 1.0
	defaultMusicFadeFrames = 30
)

type MusicSystem struct{}

func NewMusicSystem() *MusicSystem {
	return &MusicSystem{}
}

func RequestMusic(w *ecs.World, track string, volume float64) {
	RequestMusicWithOptions(w, &component.MusicRequest{Track: track, Volume: volume, Loop: true, FadeOutFrames: defaultMusicFadeFrames})
}

func RequestMusicWithOptions(w *ecs.World, req *component.MusicRequest) {
	if w == nil || req == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.MusicRequestComponent.Kind(), req)
}

func StopMusic(w *ecs.World) {
	RequestMusicWithOptions(w, &component.MusicRequest{FadeOutFrames: defaultMusicFadeFrames})
}

// ToggleMute queues a request that flips the mute state of the music player.
func ToggleMute(w *ecs.World) {
	if w == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.MuteRequestComponent.Kind(), &component.MuteRequest{})
}

// SetMuted queues a request for an explicit mute state.
func SetMuted(w *ecs.World, muted bool) {
	if w == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.MuteRequestComponent.Kind(), &component.MuteRequest{Muted: &muted})
}

// MusicMuted reports the mute state of the music player, if there is one.
func MusicMuted(w *ecs.World) bool {
	ent, ok := ecs.First(w, component.MusicPlayerComponent.Kind())
	if !ok {
		return false
	}
	player, ok := ecs.Get(w, ent, component.MusicPlayerComponent.Kind())
	return ok && player.Muted
}

func (m *MusicSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	latest, requestEntities := m.consumeLatestRequest(w)
	mutes, muteEntities := m.consumeMuteRequests(w)
	for _, ent := range append(requestEntities, muteEntities...) {
		ecs.DestroyEntity(w, ent)
	}

	ent, ok := ecs.First(w, component.MusicPlayerComponent.Kind())
	if !ok {
		return
	}
	player, ok := ecs.Get(w, ent, component.MusicPlayerComponent.Kind())
	if !ok || player == nil {
		return
	}
	if player.Tracks == nil {
		player.Tracks = make(map[string]component.Track)
	}
	if player.TrackVolumes == nil {
		player.TrackVolumes = make(map[string]float64)
	}

	if latest != nil {
		m.applyRequest(player, *latest)
	}
	for _, req := range mutes {
		m.applyMute(player, req)
	}

	if player.PendingActive {
		m.updateTransition(player)
		return
	}

	current := m.currentTrack(player)
	if current != nil && !player.Muted && !current.IsPlaying() && player.CurrentTrack != "" && player.CurrentLoop {
		_ = current.Rewind()
		current.SetVolume(player.CurrentVolume)
		current.Play()
	}
}

func (m *MusicSystem) consumeLatestRequest(w *ecs.World) (*component.MusicRequest, []ecs.Entity) {
	var latest *component.MusicRequest
	requestEntities := make([]ecs.Entity, 0)

	ecs.ForEach(w, component.MusicRequestComponent.Kind(), func(ent ecs.Entity, req *component.MusicRequest) {
		requestEntities = append(requestEntities, ent)
		if req == nil {
			return
		}
		copy := *req
		latest = &copy
	})

	return latest, requestEntities
}

func (m *MusicSystem) consumeMuteRequests(w *ecs.World) ([]component.MuteRequest, []ecs.Entity) {
	var reqs []component.MuteRequest
	var ents []ecs.Entity
	ecs.ForEach(w, component.MuteRequestComponent.Kind(), func(ent ecs.Entity, req *component.MuteRequest) {
		ents = append(ents, ent)
		if req != nil {
			reqs = append(reqs, *req)
		}
	})
	return reqs, ents
}

// applyMute pauses or resumes the current track without rewinding it.
func (m *MusicSystem) applyMute(player *component.MusicPlayer, req component.MuteRequest) {
	muted := !player.Muted
	if req.Muted != nil {
		muted = *req.Muted
	}
	if muted == player.Muted {
		return
	}
	player.Muted = muted

	current := m.currentTrack(player)
	if current == nil {
		return
	}
	if muted {
		current.Pause()
		return
	}
	current.SetVolume(player.CurrentVolume)
	current.Play()
}

func (m *MusicSystem) applyRequest(player *component.MusicPlayer, req component.MusicRequest) {
	if player == nil {
		return
	}

	track := strings.TrimSpace(req.Track)
	volume := req.Volume
	if volume <= 0 {
		if v, ok := player.TrackVolumes[track]; ok && v > 0 {
			volume = v
		} else {
			volume = defaultMusicVolume
		}
	}
	volume = float64(common.Clamp(float32(volume), 0, 1))
	loop := req.Loop
	fadeFrames := req.FadeOutFrames
	if fadeFrames <= 0 {
		fadeFrames = defaultMusicFadeFrames
	}

	if track == "" {
		player.PendingActive = false
		if m.currentTrack(player) == nil {
			player.CurrentTrack = ""
			player.CurrentVolume = 0
			player.CurrentLoop = false
			return
		}
		player.PendingTrack = ""
		player.PendingVolume = 0
		player.PendingLoop = false
		player.PendingActive = true
		player.FadeStep = player.CurrentVolume / float64(fadeFrames)
		if player.FadeStep <= 0 {
			player.FadeStep = 1
		}
		return
	}

	current := m.currentTrack(player)
	if !player.PendingActive && player.CurrentTrack == track && current != nil {
		player.CurrentVolume = volume
		current.SetVolume(player.CurrentVolume)
		if !current.IsPlaying() && !player.Muted {
			_ = current.Rewind()
			current.Play()
		}
		return
	}

	player.PendingTrack = track
	player.PendingVolume = volume
	player.PendingLoop = loop
	player.PendingActive = true
	if current == nil {
		m.switchToPending(player)
		return
	}

	player.FadeStep = player.CurrentVolume / float64(fadeFrames)
	if player.FadeStep <= 0 {
		player.FadeStep = 1
	}
}

func (m *MusicSystem) updateTransition(player *component.MusicPlayer) {
	if player == nil {
		return
	}

	current := m.currentTrack(player)
	if current == nil {
		m.switchToPending(player)
		return
	}

	player.CurrentVolume -= player.FadeStep
	if player.CurrentVolume > 0 {
		current.SetVolume(player.CurrentVolume)
		return
	}

	player.CurrentVolume = 0
	current.SetVolume(0)
	current.Pause()
	_ = current.Rewind()
	player.CurrentTrack = ""
	player.CurrentLoop = false
	m.switchToPending(player)
}

func (m *MusicSystem) switchToPending(player *component.MusicPlayer) {
	if player == nil || !player.PendingActive {
		return
	}

	reqTrack := strings.TrimSpace(player.PendingTrack)
	reqVolume := player.PendingVolume
	reqLoop := player.PendingLoop

	player.PendingTrack = ""
	player.PendingVolume = 0
	player.PendingLoop = false
	player.PendingActive = false
	player.FadeStep = 0

	if reqTrack == "" {
		player.CurrentTrack = ""
		player.CurrentVolume = 0
		player.CurrentLoop = false
		return
	}

	track, ok := player.Tracks[reqTrack]
	if !ok || track == nil {
		slog.Warn("music track not loaded", "track", reqTrack)
		player.CurrentTrack = ""
		player.CurrentVolume = 0
		player.CurrentLoop = false
		return
	}

	player.CurrentTrack = reqTrack
	player.CurrentVolume = reqVolume
	player.CurrentLoop = reqLoop
	_ = track.Rewind()
	track.SetVolume(player.CurrentVolume)
	if !player.Muted {
		track.Play()
	}
}

func (m *MusicSystem) currentTrack(player *component.MusicPlayer) component.Track {
	if player == nil || strings.TrimSpace(player.CurrentTrack) == "" || player.Tracks == nil {
		return nil
	}
	track, ok := player.Tracks[player.CurrentTrack]
	if !ok || track == nil {
		return nil
	}
	return track
}
