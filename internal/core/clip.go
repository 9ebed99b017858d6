package core

import (
	"path"
	"path/filepath"
	"time"
)

// ClipTimeFormat is the compact timestamp used for clip filenames.
const ClipTimeFormat = "20060102T150405"

// Clip is one generated announcement file. Its identity is a
// timestamp-derived name under the clips directory; that ancestry is
// also how emcee recognizes its own past output in the queue.
// Clips are written once and never deleted by emcee.
type Clip struct {
	Dir  string `json:"dir"`
	Name string `json:"name"`
}

// NewClip names a clip for the given creation time and audio format.
func NewClip(dir string, at time.Time, format string) Clip {
	return Clip{
		Dir:  path.Clean(dir),
		Name: at.Format(ClipTimeFormat) + "." + format,
	}
}

// Rel returns the clip's library-relative daemon URI.
func (c Clip) Rel() string {
	return path.Join(c.Dir, c.Name)
}

// AbsIn returns the clip's path on disk under the given music root.
func (c Clip) AbsIn(musicRoot string) string {
	return filepath.Join(musicRoot, filepath.FromSlash(c.Rel()))
}

// Track returns the queue-entry view of the clip, as the daemon would
// report it after a rescan.
func (c Clip) Track() Track {
	return Track{File: c.Rel()}
}
