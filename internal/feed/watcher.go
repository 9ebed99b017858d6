// Package feed turns daemon idle notifications into a typed stream of
// station events for the tail command and the monitor UI.
package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"go.uber.org/zap"

	"github.com/tessro/emcee/internal/core"
)

// EventType classifies a station event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventClipOnAir
	EventPause
	EventResume
	EventStop
	EventRescanStart
	EventRescanDone
)

// Event is one observed change in daemon state.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *Snapshot
	Current   *Snapshot
}

// Snapshot pairs a status reading with the song playing at that time.
type Snapshot struct {
	Status core.PlaybackStatus
	Track  core.Track
	At     time.Time
}

// Source is the daemon view the watcher reads.
type Source interface {
	Status() (core.PlaybackStatus, error)
	CurrentSong() (core.Track, error)
}

// Notifier delivers idle notifications from the daemon.
type Notifier interface {
	Events() <-chan string
	Errors() <-chan error
}

// fingerprint is the part of a snapshot that defines "something
// happened". Elapsed time is deliberately absent: it advances on every
// reading, and hashing it would defeat deduplication.
type fingerprint struct {
	State    core.PlayState
	SongID   int
	NextID   int
	File     string
	Updating int
}

// Watcher diffs daemon state on every idle notification and emits
// typed events. Notifications that change nothing observable are
// dropped.
type Watcher struct {
	source   Source
	notifier Notifier
	clipsDir string
	events   chan Event
	log      *zap.Logger
}

func NewWatcher(source Source, notifier Notifier, clipsDir string, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		source:   source,
		notifier: notifier,
		clipsDir: clipsDir,
		events:   make(chan Event, 16),
		log:      log,
	}
}

// Events returns the channel of station events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start consumes idle notifications until ctx ends. The event channel
// closes on return.
func (w *Watcher) Start(ctx context.Context) error {
	defer close(w.events)

	prev, prevHash, err := w.snapshot()
	if err != nil {
		return err
	}
	if prev.Track.File != "" && prev.Status.Playing() {
		typ := EventTrackChange
		if prev.Track.UnderDir(w.clipsDir) {
			typ = EventClipOnAir
		}
		w.emit(Event{Type: typ, Timestamp: prev.At, Current: prev})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-w.notifier.Errors():
			return fmt.Errorf("idle stream: %w", err)
		case _, ok := <-w.notifier.Events():
			if !ok {
				return errors.New("idle stream closed")
			}
			curr, hash, err := w.snapshot()
			if err != nil {
				w.log.Warn("snapshot failed", zap.Error(err))
				continue
			}
			if hash == prevHash {
				continue
			}
			for _, e := range diff(prev, curr, w.clipsDir) {
				w.emit(e)
			}
			prev, prevHash = curr, hash
		}
	}
}

func (w *Watcher) snapshot() (*Snapshot, uint64, error) {
	st, err := w.source.Status()
	if err != nil {
		return nil, 0, fmt.Errorf("status: %w", err)
	}
	track, err := w.source.CurrentSong()
	if err != nil {
		return nil, 0, fmt.Errorf("current song: %w", err)
	}

	snap := &Snapshot{Status: st, Track: track, At: time.Now()}
	hash, err := hashstructure.Hash(fingerprint{
		State:    st.State,
		SongID:   st.SongID,
		NextID:   st.NextSongID,
		File:     track.File,
		Updating: st.UpdatingJob,
	}, hashstructure.FormatV2, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("fingerprint: %w", err)
	}
	return snap, hash, nil
}

func (w *Watcher) emit(e Event) {
	select {
	case w.events <- e:
	default:
		// Slow consumer; drop rather than stall the idle stream.
	}
}

// diff compares two snapshots and returns the events between them.
func diff(prev, curr *Snapshot, clipsDir string) []Event {
	now := curr.At
	var events []Event

	if prev.Track.File != curr.Track.File || prev.Status.SongID != curr.Status.SongID {
		if prev.Track.File != "" {
			typ := EventTrackSkip
			if finished(prev, now) {
				typ = EventTrackComplete
			}
			events = append(events, Event{Type: typ, Timestamp: now, Previous: prev, Current: curr})
		}
		if curr.Track.File != "" && curr.Status.State != core.StateStopped {
			typ := EventTrackChange
			if curr.Track.UnderDir(clipsDir) {
				typ = EventClipOnAir
			}
			events = append(events, Event{Type: typ, Timestamp: now, Previous: prev, Current: curr})
		}
	}

	switch {
	case prev.Status.Playing() && curr.Status.State == core.StatePaused:
		events = append(events, Event{Type: EventPause, Timestamp: now, Previous: prev, Current: curr})
	case prev.Status.State == core.StatePaused && curr.Status.Playing():
		events = append(events, Event{Type: EventResume, Timestamp: now, Previous: prev, Current: curr})
	case prev.Status.State != core.StateStopped && curr.Status.State == core.StateStopped:
		events = append(events, Event{Type: EventStop, Timestamp: now, Previous: prev, Current: curr})
	}

	if prev.Status.UpdatingJob == 0 && curr.Status.UpdatingJob != 0 {
		events = append(events, Event{Type: EventRescanStart, Timestamp: now, Previous: prev, Current: curr})
	} else if prev.Status.UpdatingJob != 0 && curr.Status.UpdatingJob == 0 {
		events = append(events, Event{Type: EventRescanDone, Timestamp: now, Previous: prev, Current: curr})
	}

	return events
}

// finished decides whether the song in prev played through. Snapshots
// are event-driven, so prev's elapsed reading is as old as the last
// event; project it forward to the moment of the change before
// comparing against the duration.
func finished(prev *Snapshot, at time.Time) bool {
	d := prev.Status.Duration
	if d == 0 || !prev.Status.Playing() {
		return false
	}
	projected := prev.Status.Elapsed + at.Sub(prev.At)
	return projected*100 >= d*95
}
