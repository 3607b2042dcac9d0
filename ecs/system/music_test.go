package system

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/limbopass/ecs"
	"github.com/milk9111/limbopass/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrack struct {
	playing bool
	volume  float64
	rewinds int
}

func (f *fakeTrack) Play() { f.playing = true }
func (f *fakeTrack) Pause() { f.playing = false }
func (f *fakeTrack) Rewind() error { f.rewinds++; return nil }
func (f *fakeTrack) SetVolume(v float64) { f.volume = v }
func (f *fakeTrack) IsPlaying() bool { return f.playing }

func newMusicWorld(t *testing.T, tracks map[string]component.Track) (*ecs.World, *component.MusicPlayer) {
	t.Helper()
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	player := &component.MusicPlayer{Tracks: tracks}
	require.NoError(t, ecs.Add(w, e, component.MusicPlayerComponent.Kind(), player))
	return w, player
}

func TestMusicStartsLoopedTheme(t *testing.T) {
	theme := &fakeTrack{}
	w, player := newMusicWorld(t, map[string]component.Track{"audio/overworld.ogg": theme})
	sys := NewMusicSystem()

	RequestMusic(w, "audio/overworld.ogg", 0.5)
	sys.Update(w)

	assert.True(t, theme.playing)
	assert.Equal(t, 0.5, theme.volume)
	assert.Equal(t, "audio/overworld.ogg", player.CurrentTrack)
	assert.True(t, player.CurrentLoop)

	_, ok := ecs.First(w, component.MusicRequestComponent.Kind())
	assert.False(t, ok, "requests are consumed")

	theme.playing = false
	sys.Update(w)
	assert.True(t, theme.playing, "looped track restarts when it ends")
}

func TestMusicVolumeIsClamped(t *testing.T) {
	theme := &fakeTrack{}
	w, _ := newMusicWorld(t, map[string]component.Track{"theme": theme})

	RequestMusic(w, "theme", 4)
	NewMusicSystem().Update(w)

	assert.Equal(t, 1.0, theme.volume)
}

func TestMuteTogglesPlayback(t *testing.T) {
	theme := &fakeTrack{}
	w, player := newMusicWorld(t, map[string]component.Track{"theme": theme})
	sys := NewMusicSystem()
	RequestMusic(w, "theme", 1)
	sys.Update(w)
	rewinds := theme.rewinds

	ToggleMute(w)
	sys.Update(w)
	assert.True(t, player.Muted)
	assert.True(t, MusicMuted(w))
	assert.False(t, theme.playing)

	sys.Update(w)
	assert.False(t, theme.playing, "muted track is not restarted")

	ToggleMute(w)
	sys.Update(w)
	assert.False(t, player.Muted)
	assert.True(t, theme.playing)
	assert.Equal(t, rewinds, theme.rewinds, "resume continues where it paused")

	SetMuted(w, false)
	sys.Update(w)
	assert.True(t, theme.playing)
}

func TestMusicCrossfadesToNewTrack(t *testing.T) {
	a, b := &fakeTrack{}, &fakeTrack{}
	w, player := newMusicWorld(t, map[string]component.Track{"a": a, "b": b})
	sys := NewMusicSystem()
	RequestMusic(w, "a", 1)
	sys.Update(w)

	RequestMusicWithOptions(w, &component.MusicRequest{Track: "b", Volume: 1, Loop: true, FadeOutFrames: 2})
	sys.Update(w)
	assert.True(t, a.playing)
	assert.Equal(t, 0.5, a.volume)

	sys.Update(w)
	assert.False(t, a.playing)
	assert.True(t, b.playing)
	assert.Equal(t, "b", player.CurrentTrack)
}

func TestMusicMissingTrack(t *testing.T) {
	w, player := newMusicWorld(t, nil)
	RequestMusic(w, "nope", 1)
	NewMusicSystem().Update(w)
	assert.Empty(t, player.CurrentTrack)
}

func TestMuteKeyTogglesOncePerPress(t *testing.T) {
	theme := &fakeTrack{}
	w, player := newMusicWorld(t, map[string]component.Track{"theme": theme})
	music := NewMusicSystem()
	keys := heldKeys{}
	mute := NewMuteKeySystem(keys, ebiten.KeyM)
	RequestMusic(w, "theme", 1)
	music.Update(w)

	keys[ebiten.KeyM] = true
	for range 3 {
		mute.Update(w)
		music.Update(w)
	}
	assert.True(t, player.Muted)

	keys[ebiten.KeyM] = false
	mute.Update(w)
	keys[ebiten.KeyM] = true
	mute.Update(w)
	music.Update(w)
	assert.False(t, player.Muted)
	assert.True(t, theme.playing)
}
