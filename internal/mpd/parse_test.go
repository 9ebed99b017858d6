package mpd

import (
	"testing"
	"time"

	gompd "github.com/fhs/gompd/v2/mpd"
)

func TestParseStatus(t *testing.T) {
	attrs := gompd.Attrs{
		"state":       "play",
		"elapsed":     "62.250",
		"duration":    "252.000",
		"songid":      "11",
		"nextsongid":  "7",
		"xfade":       "10",
		"updating_db": "3",
	}

	st := ParseStatus(attrs)

	if !st.Playing() {
		t.Error("Playing() = false, want true")
	}
	if st.Elapsed != 62250*time.Millisecond {
		t.Errorf("Elapsed = %v, want 62.25s", st.Elapsed)
	}
	if st.Duration != 252*time.Second {
		t.Errorf("Duration = %v, want 252s", st.Duration)
	}
	if st.NextSongID != 7 {
		t.Errorf("NextSongID = %d, want 7", st.NextSongID)
	}
	if st.Crossfade != 10*time.Second {
		t.Errorf("Crossfade = %v, want 10s", st.Crossfade)
	}
	if st.UpdatingJob != 3 {
		t.Errorf("UpdatingJob = %d, want 3", st.UpdatingJob)
	}
}

func TestParseStatusAbsentKeys(t *testing.T) {
	st := ParseStatus(gompd.Attrs{"state": "stop"})

	if st.HasNext() {
		t.Error("HasNext() = true for status without nextsongid")
	}
	if st.Updating() {
		t.Error("Updating() = true for status without updating_db")
	}
	if st.Remaining() != 0 {
		t.Errorf("Remaining() = %v, want 0", st.Remaining())
	}
}

func TestParseStatusLegacyTime(t *testing.T) {
	st := ParseStatus(gompd.Attrs{"state": "play", "time": "30:300"})

	if st.Duration != 300*time.Second {
		t.Errorf("Duration = %v, want 300s", st.Duration)
	}
	if st.Elapsed != 30*time.Second {
		t.Errorf("Elapsed = %v, want 30s", st.Elapsed)
	}
}

func TestParseTrack(t *testing.T) {
	attrs := gompd.Attrs{
		"file":          "albums/band/01 song.flac",
		"Title":         "Song",
		"Artist":        "Band",
		"Album":         "Record",
		"Genre":         "Rock",
		"Date":          "1979",
		"Composer":      "Someone",
		"duration":      "252.000",
		"Time":          "252",
		"Format":        "44100:16:2",
		"Id":            "7",
		"Pos":           "4",
		"Prio":          "12",
		"Last-Modified": "2024-01-01T00:00:00Z",
	}

	tr := ParseTrack(attrs)

	if tr.File != "albums/band/01 song.flac" {
		t.Errorf("File = %q", tr.File)
	}
	if tr.Title != "Song" || tr.Artist != "Band" {
		t.Errorf("Title/Artist = %q/%q", tr.Title, tr.Artist)
	}
	if tr.ID != 7 || tr.Pos != 4 || tr.Prio != 12 {
		t.Errorf("ID/Pos/Prio = %d/%d/%d, want 7/4/12", tr.ID, tr.Pos, tr.Prio)
	}
	if tr.Duration != 252*time.Second {
		t.Errorf("Duration = %v, want 252s", tr.Duration)
	}
	if tr.Extra["composer"] != "Someone" {
		t.Errorf("Extra[composer] = %q, want Someone", tr.Extra["composer"])
	}

	// Bookkeeping must be stripped from the facts, whatever the case of
	// the wire keys.
	facts := tr.Facts()
	for _, k := range []string{"id", "pos", "prio", "duration", "time", "format", "last-modified"} {
		if _, ok := facts[k]; ok {
			t.Errorf("Facts() leaked bookkeeping key %q", k)
		}
	}

	// Parsing the same response again yields the same facts.
	if ParseTrack(attrs).FactsLine() != tr.FactsLine() {
		t.Error("ParseTrack() not deterministic")
	}
}

func TestNetworkFor(t *testing.T) {
	tests := []struct {
		addr        string
		wantNetwork string
		wantDial    string
	}{
		{"/run/mpd/socket", "unix", "/run/mpd/socket"},
		{"./mpd.sock", "unix", "./mpd.sock"},
		{"localhost", "tcp", "localhost:6600"},
		{"mpd.lan:6601", "tcp", "mpd.lan:6601"},
	}

	for _, tt := range tests {
		network, dial := networkFor(tt.addr)
		if network != tt.wantNetwork || dial != tt.wantDial {
			t.Errorf("networkFor(%q) = %s %s, want %s %s", tt.addr, network, dial, tt.wantNetwork, tt.wantDial)
		}
	}
}
