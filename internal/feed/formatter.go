package feed

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"text/template"
	"time"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, eventDescription(e))

	return strings.Join(parts, " ")
}

func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      eventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
	}

	if e.Current != nil {
		data.Title = e.Current.Track.Title
		data.Artist = e.Current.Track.Artist
		data.Album = e.Current.Track.Album
		data.File = e.Current.Track.File
		data.Job = e.Current.Status.UpdatingJob
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Title     string
	Artist    string
	Album     string
	File      string
	Job       int
}

// Record is the JSON shape of an event for machine consumers.
type Record struct {
	Type   string    `json:"type"`
	Time   time.Time `json:"time"`
	Artist string    `json:"artist,omitempty"`
	Title  string    `json:"title,omitempty"`
	File   string    `json:"file,omitempty"`
	Job    int       `json:"job,omitempty"`
}

// NewRecord flattens an event for JSON output.
func NewRecord(e Event) Record {
	r := Record{Type: eventTypeName(e.Type), Time: e.Timestamp}
	snap := e.Current
	if e.Type == EventTrackComplete || e.Type == EventTrackSkip {
		snap = e.Previous
	}
	if snap != nil {
		r.Artist = snap.Track.Artist
		r.Title = snap.Track.Title
		r.File = snap.Track.File
	}
	if e.Current != nil && (e.Type == EventRescanStart || e.Type == EventRescanDone) {
		r.Job = e.Current.Status.UpdatingJob
	}
	return r
}

// eventDescription returns a human-readable description of the event.
func eventDescription(e Event) string {
	switch e.Type {
	case EventTrackChange:
		if e.Current != nil {
			return fmt.Sprintf("Now playing: %s", e.Current.Track.Display())
		}
		return "Track changed"

	case EventTrackComplete:
		if e.Previous != nil {
			return fmt.Sprintf("Finished: %s", e.Previous.Track.Display())
		}
		return "Track completed"

	case EventTrackSkip:
		if e.Previous != nil {
			return fmt.Sprintf("Skipped: %s", e.Previous.Track.Display())
		}
		return "Track skipped"

	case EventClipOnAir:
		if e.Current != nil {
			return fmt.Sprintf("Announcement on air: %s", path.Base(e.Current.Track.File))
		}
		return "Announcement on air"

	case EventPause:
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventStop:
		return "Stopped"

	case EventRescanStart:
		if e.Current != nil && e.Current.Status.UpdatingJob != 0 {
			return fmt.Sprintf("Library rescan started (job %d)", e.Current.Status.UpdatingJob)
		}
		return "Library rescan started"

	case EventRescanDone:
		return "Library rescan finished"

	default:
		return "Unknown event"
	}
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventTrackChange:
		return "🎵"
	case EventTrackComplete:
		return "✅"
	case EventTrackSkip:
		return "⏭️"
	case EventClipOnAir:
		return "📻"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventStop:
		return "⏹️"
	case EventRescanStart:
		return "🔄"
	case EventRescanDone:
		return "📀"
	default:
		return "❓"
	}
}

// eventTypeName returns the name of the event type.
func eventTypeName(t EventType) string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventTrackComplete:
		return "track_complete"
	case EventTrackSkip:
		return "track_skip"
	case EventClipOnAir:
		return "clip_on_air"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventStop:
		return "stop"
	case EventRescanStart:
		return "rescan_start"
	case EventRescanDone:
		return "rescan_done"
	default:
		return "unknown"
	}
}
