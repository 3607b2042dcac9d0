package component

// Track is one playable music stream. *audio.Player satisfies it.
type Track interface {
	Play()
	Pause()
	Rewind() error
	SetVolume(volume float64)
	IsPlaying() bool
}

// MusicPlayer stores global music playback state on a dedicated ECS entity.
// The music system mutates this component; no playback state is kept on the system.
type MusicPlayer struct {
	Tracks       map[string]Track
	TrackVolumes map[string]float64

	CurrentTrack  string
	CurrentVolume float64
	CurrentLoop   bool

	PendingTrack  string
	PendingVolume float64
	PendingLoop   bool
	PendingActive bool

	FadeStep float64
	Muted    bool
}

// MusicRequest is a one-shot request for global music playback.
//
// Only one song plays at a time. When a new request arrives while another
// song is active, the current song fades out to silence, then the requested
// song starts immediately.
type MusicRequest struct {
	Track         string
	Volume        float64
	Loop          bool
	FadeOutFrames int
}

// MuteRequest pauses or resumes the current song. A nil Muted toggles.
type MuteRequest struct {
	Muted *bool
}

var (
	MusicPlayerComponent  = NewComponent[MusicPlayer]()
	MusicRequestComponent = NewComponent[MusicRequest]()
	MuteRequestComponent  = NewComponent[MuteRequest]()
)
