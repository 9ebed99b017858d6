package mpd

import (
	"strconv"
	"strings"
	"time"

	gompd "github.com/fhs/gompd/v2/mpd"

	"github.com/tessro/emcee/internal/core"
)

// ParseStatus converts a raw status response into a typed snapshot.
// Absent keys stay at their zero values, which the core types treat as
// "not present" (no next song, no rescan in flight).
func ParseStatus(attrs gompd.Attrs) core.PlaybackStatus {
	st := core.PlaybackStatus{
		State:       core.PlayState(attrs["state"]),
		Elapsed:     parseSeconds(attrs["elapsed"]),
		Duration:    parseSeconds(attrs["duration"]),
		SongID:      parseInt(attrs["songid"]),
		NextSongID:  parseInt(attrs["nextsongid"]),
		Crossfade:   time.Duration(parseInt(attrs["xfade"])) * time.Second,
		UpdatingJob: parseInt(attrs["updating_db"]),
	}

	// Older daemons report "time: elapsed:total" instead of split keys.
	if st.Duration == 0 {
		if _, total, ok := strings.Cut(attrs["time"], ":"); ok {
			st.Duration = parseSeconds(total)
			if st.Elapsed == 0 {
				elapsed, _, _ := strings.Cut(attrs["time"], ":")
				st.Elapsed = parseSeconds(elapsed)
			}
		}
	}

	return st
}

// ParseTrack converts a raw song response into a typed track. The
// daemon's bookkeeping keys (id, pos, prio, duration, time, format,
// last-modified) are parsed into dedicated fields or dropped here, at
// the boundary, so they can never leak into announcement prompts.
func ParseTrack(attrs gompd.Attrs) core.Track {
	var t core.Track

	for key, value := range attrs {
		switch strings.ToLower(key) {
		case "file":
			t.File = value
		case "title":
			t.Title = value
		case "artist":
			t.Artist = value
		case "album":
			t.Album = value
		case "albumartist":
			t.AlbumArtist = value
		case "genre":
			t.Genre = value
		case "date":
			t.Date = value
		case "id":
			t.ID = parseInt(value)
		case "pos":
			t.Pos = parseInt(value)
		case "prio":
			t.Prio = parseInt(value)
		case "duration":
			t.Duration = parseSeconds(value)
		case "time", "format", "last-modified", "added":
			// bookkeeping with no song-fact value
		default:
			if t.Extra == nil {
				t.Extra = make(map[string]string)
			}
			t.Extra[strings.ToLower(key)] = value
		}
	}

	return t
}

func parseInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseSeconds(s string) time.Duration {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}
