package core

import (
	"path"
	"sort"
	"strings"
	"time"
)

// Track represents one entry in the daemon's queue or library.
//
// Song facts (title, artist, ...) are separated from queue bookkeeping
// (ID, Pos, Prio, Duration): only the facts describe the song itself and
// only they may feed announcement prompts.
type Track struct {
	File        string            `json:"file"`
	Title       string            `json:"title,omitempty"`
	Artist      string            `json:"artist,omitempty"`
	Album       string            `json:"album,omitempty"`
	AlbumArtist string            `json:"album_artist,omitempty"`
	Genre       string            `json:"genre,omitempty"`
	Date        string            `json:"date,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`

	// Queue bookkeeping, parsed out of the daemon response but never
	// treated as a song fact.
	ID       int           `json:"id,omitempty"`
	Pos      int           `json:"pos,omitempty"`
	Prio     int           `json:"prio,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Empty returns true if the track carries no file path.
func (t Track) Empty() bool {
	return t.File == ""
}

// Display returns a short human-readable label for the track.
func (t Track) Display() string {
	switch {
	case t.Artist != "" && t.Title != "":
		return t.Artist + " - " + t.Title
	case t.Title != "":
		return t.Title
	default:
		return t.File
	}
}

// Facts returns the song facts as a flat map: the file path, the named
// tag fields, and any extra tags. Queue bookkeeping is never included.
func (t Track) Facts() map[string]string {
	m := make(map[string]string, len(t.Extra)+8)
	for k, v := range t.Extra {
		m[k] = v
	}
	m["file"] = t.File
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set("title", t.Title)
	set("artist", t.Artist)
	set("album", t.Album)
	set("albumartist", t.AlbumArtist)
	set("genre", t.Genre)
	set("date", t.Date)
	return m
}

// FactsLine renders the song facts as a single deterministic line,
// sorted by key, suitable for prompt text.
func (t Track) FactsLine() string {
	facts := t.Facts()
	keys := make([]string, 0, len(facts))
	for k := range facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(facts[k])
	}
	return sb.String()
}

// UnderDir reports whether the track's file lies under dir. Paths are
// daemon URIs (slash-separated, library-relative), so this uses path
// semantics rather than the host filesystem's.
func (t Track) UnderDir(dir string) bool {
	if t.File == "" || dir == "" {
		return false
	}
	prefix := path.Clean(dir) + "/"
	return strings.HasPrefix(path.Clean(t.File), prefix)
}
