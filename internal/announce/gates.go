// Package announce decides when to speak, produces the clip, and puts
// it on air. It owns the moderator loop: gate checks against playback
// status, prompt/synthesis/pipeline orchestration, and the
// rescan-then-inject dance against the daemon's queue.
package announce

import (
	"time"

	"github.com/tessro/emcee/internal/core"
	"github.com/tessro/emcee/internal/metrics"
)

// MinLead is the least time that must remain in the current song for a
// cycle to fire. Producing a clip takes a while (chat round, streaming
// synthesis, rescan); anything shorter risks the clip arriving after
// its slot.
const MinLead = 120 * time.Second

// LeadGate checks the status-side preconditions: no rescan in flight,
// playback running, an upcoming song selected, and enough of the
// current song left. When it refuses, reason is the skip label to
// record.
func LeadGate(st core.PlaybackStatus) (remaining time.Duration, reason string, ok bool) {
	switch {
	case st.Updating():
		return 0, metrics.SkipUpdating, false
	case !st.Playing():
		return 0, metrics.SkipNotPlaying, false
	case !st.HasNext():
		return 0, metrics.SkipNoNext, false
	}

	remaining = st.Remaining()
	if remaining < MinLead {
		return remaining, metrics.SkipShortLead, false
	}
	return remaining, "", true
}

// OwnClipGate refuses to moderate around the station's own clips. When
// either the playing entry or the upcoming one lives under the clips
// directory, announcing would talk over (or about) an announcement.
func OwnClipGate(clipsDir string, current, next core.Track) (reason string, ok bool) {
	if current.UnderDir(clipsDir) || next.UnderDir(clipsDir) {
		return metrics.SkipOwnClip, false
	}
	return "", true
}

// ReasonText renders a skip label for people instead of metrics.
func ReasonText(reason string) string {
	switch reason {
	case metrics.SkipUpdating:
		return "library rescan running"
	case metrics.SkipNotPlaying:
		return "not playing"
	case metrics.SkipNoNext:
		return "end of queue"
	case metrics.SkipShortLead:
		return "under 2 minutes left"
	case metrics.SkipOwnClip:
		return "clip playing or queued"
	case metrics.SkipNoArt:
		return "no cover art"
	case metrics.SkipPointer:
		return "queue moved on"
	}
	return reason
}
