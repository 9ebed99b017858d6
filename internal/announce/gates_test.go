package announce

import (
	"testing"
	"time"

	"github.com/tessro/emcee/internal/core"
	"github.com/tessro/emcee/internal/metrics"
)

func playingStatus() core.PlaybackStatus {
	return core.PlaybackStatus{
		State:      core.StatePlaying,
		Elapsed:    10 * time.Second,
		Duration:   200 * time.Second,
		SongID:     1,
		NextSongID: 7,
	}
}

func TestLeadGate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*core.PlaybackStatus)
		wantReason string
	}{
		{"rescan in flight", func(st *core.PlaybackStatus) { st.UpdatingJob = 4 }, metrics.SkipUpdating},
		{"stopped", func(st *core.PlaybackStatus) { st.State = core.StateStopped }, metrics.SkipNotPlaying},
		{"paused", func(st *core.PlaybackStatus) { st.State = core.StatePaused }, metrics.SkipNotPlaying},
		{"no next song", func(st *core.PlaybackStatus) { st.NextSongID = 0 }, metrics.SkipNoNext},
		{"short lead", func(st *core.PlaybackStatus) { st.Elapsed = 81 * time.Second }, metrics.SkipShortLead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := playingStatus()
			tt.mutate(&st)
			if _, reason, ok := LeadGate(st); ok || reason != tt.wantReason {
				t.Errorf("LeadGate = (%q, %v), want (%q, false)", reason, ok, tt.wantReason)
			}
		})
	}
}

func TestLeadGatePasses(t *testing.T) {
	remaining, reason, ok := LeadGate(playingStatus())
	if !ok || reason != "" {
		t.Fatalf("LeadGate = (%q, %v), want pass", reason, ok)
	}
	if remaining != 190*time.Second {
		t.Errorf("remaining = %v, want 190s", remaining)
	}
}

func TestLeadGateBoundary(t *testing.T) {
	st := playingStatus()
	st.Elapsed = st.Duration - MinLead
	if _, _, ok := LeadGate(st); !ok {
		t.Error("LeadGate refused at exactly the minimum lead")
	}
	st.Elapsed += time.Second
	if _, _, ok := LeadGate(st); ok {
		t.Error("LeadGate passed one second under the minimum lead")
	}
}

func TestReasonText(t *testing.T) {
	if got := ReasonText(metrics.SkipShortLead); got != "under 2 minutes left" {
		t.Errorf("ReasonText(short_lead) = %q", got)
	}
	// Unknown labels pass through untouched.
	if got := ReasonText("strange"); got != "strange" {
		t.Errorf("ReasonText(strange) = %q", got)
	}
}

func TestOwnClipGate(t *testing.T) {
	song := core.Track{File: "albums/x/y.flac"}
	clip := core.Track{File: "clips/20260824T170000.flac"}

	if reason, ok := OwnClipGate("clips", clip, song); ok || reason != metrics.SkipOwnClip {
		t.Error("clip as current song not refused")
	}
	if reason, ok := OwnClipGate("clips", song, clip); ok || reason != metrics.SkipOwnClip {
		t.Error("clip as upcoming song not refused")
	}
	if _, ok := OwnClipGate("clips", song, core.Track{File: "albums/z/w.flac"}); !ok {
		t.Error("two library songs refused")
	}
}
