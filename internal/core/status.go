package core

import "time"

// PlayState is the daemon's playback state, using the daemon's own
// spellings.
type PlayState string

const (
	StatePlaying PlayState = "play"
	StatePaused  PlayState = "pause"
	StateStopped PlayState = "stop"
)

// PlaybackStatus is a snapshot of daemon state, re-fetched every poll.
// Zero values mark absent fields: NextSongID 0 means the queue has no
// following track, UpdatingJob 0 means no rescan is in flight.
type PlaybackStatus struct {
	State       PlayState     `json:"state"`
	Elapsed     time.Duration `json:"elapsed"`
	Duration    time.Duration `json:"duration"`
	SongID      int           `json:"song_id"`
	NextSongID  int           `json:"next_song_id"`
	Crossfade   time.Duration `json:"crossfade"`
	UpdatingJob int           `json:"updating_job"`
}

// Playing returns true if the daemon is actively playing.
func (s PlaybackStatus) Playing() bool {
	return s.State == StatePlaying
}

// HasNext returns true if a next queue entry is scheduled.
func (s PlaybackStatus) HasNext() bool {
	return s.NextSongID != 0
}

// Updating returns true if a library rescan job is in flight.
func (s PlaybackStatus) Updating() bool {
	return s.UpdatingJob != 0
}

// Remaining returns the time left in the current song, never negative.
func (s PlaybackStatus) Remaining() time.Duration {
	if s.Duration <= s.Elapsed {
		return 0
	}
	return s.Duration - s.Elapsed
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s PlaybackStatus) ProgressPercent() float64 {
	if s.Duration == 0 {
		return 0
	}
	return float64(s.Elapsed) / float64(s.Duration) * 100
}
