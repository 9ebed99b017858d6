package core

import (
	"testing"
	"time"
)

func TestStatusRemaining(t *testing.T) {
	s := PlaybackStatus{Elapsed: 60 * time.Second, Duration: 300 * time.Second}
	if got := s.Remaining(); got != 240*time.Second {
		t.Errorf("Remaining() = %v, want %v", got, 240*time.Second)
	}

	// Never negative, even when elapsed overshoots.
	s = PlaybackStatus{Elapsed: 310 * time.Second, Duration: 300 * time.Second}
	if got := s.Remaining(); got != 0 {
		t.Errorf("Remaining() = %v, want 0", got)
	}
}

func TestStatusFlags(t *testing.T) {
	s := PlaybackStatus{State: StatePlaying, NextSongID: 7, UpdatingJob: 3}
	if !s.Playing() || !s.HasNext() || !s.Updating() {
		t.Errorf("flags = %v/%v/%v, want true/true/true", s.Playing(), s.HasNext(), s.Updating())
	}

	var zero PlaybackStatus
	if zero.Playing() || zero.HasNext() || zero.Updating() {
		t.Errorf("zero status flags = %v/%v/%v, want false/false/false", zero.Playing(), zero.HasNext(), zero.Updating())
	}
}

func TestProgressPercent(t *testing.T) {
	s := PlaybackStatus{Elapsed: 30 * time.Second, Duration: 120 * time.Second}
	if got := s.ProgressPercent(); got != 25 {
		t.Errorf("ProgressPercent() = %v, want 25", got)
	}
	if got := (PlaybackStatus{}).ProgressPercent(); got != 0 {
		t.Errorf("ProgressPercent() on zero status = %v, want 0", got)
	}
}
