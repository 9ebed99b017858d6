package components

import (
	"fmt"
	"path"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/emcee/internal/core"
	"github.com/tessro/emcee/internal/tui/styles"
)

// Queue displays the daemon's queue from the playing entry onward.
type Queue struct {
	offset int
}

// NewQueue creates a new Queue component
func NewQueue() *Queue {
	return &Queue{offset: 0}
}

// ScrollDown scrolls the queue down
func (q *Queue) ScrollDown() {
	q.offset++
}

// ScrollUp scrolls the queue up
func (q *Queue) ScrollUp() {
	if q.offset > 0 {
		q.offset--
	}
}

// Render renders the queue panel. Clip entries are marked so injected
// announcements stand out from songs.
func (q *Queue) Render(tracks []core.Track, songID, nextID int, clipsDir string, width, height int, focused bool) string {
	title := styles.PanelTitle("Queue", focused)

	var content string
	if len(tracks) == 0 {
		content = styles.Muted.Render("Queue is empty")
	} else {
		content = q.renderQueue(tracks, songID, nextID, clipsDir, width-4, height-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (q *Queue) renderQueue(tracks []core.Track, songID, nextID int, clipsDir string, width, maxLines int) string {
	// Show from the playing entry onward.
	start := 0
	if songID != 0 {
		for i, t := range tracks {
			if t.ID == songID {
				start = i
				break
			}
		}
	}
	upcoming := tracks[start:]

	// Adjust offset if needed
	if q.offset >= len(upcoming) {
		q.offset = 0
	}

	visibleCount := maxLines - 1 // Leave room for "more" indicator
	if visibleCount < 1 {
		visibleCount = 1
	}

	from := q.offset
	to := from + visibleCount
	if to > len(upcoming) {
		to = len(upcoming)
	}

	lines := make([]string, 0, to-from+1)

	// Fixed overhead: "XX. " (4) + marker (2) + " — " (3) = 9 chars
	const overhead = 9

	for i := from; i < to; i++ {
		track := upcoming[i]
		num := fmt.Sprintf("%2d.", start+i+1)

		if track.UnderDir(clipsDir) {
			label := truncate("station break: "+path.Base(track.File), width-overhead)
			marker := "  "
			if track.ID == songID {
				marker = "▶ "
			}
			lines = append(lines, fmt.Sprintf("%s %s%s",
				styles.Dim.Render(num), marker, styles.OnAir.Render(label)))
			continue
		}

		title, artist := fitTitleArtist(track.Title, track.Artist, width-overhead)

		switch {
		case track.ID == songID && songID != 0:
			lines = append(lines, styles.Playing.Render(fmt.Sprintf("%s ▶ %s — %s", num, title, artist)))
		case track.ID == nextID && nextID != 0:
			lines = append(lines, fmt.Sprintf("%s → %s — %s",
				styles.Dim.Render(num), title, styles.Muted.Render(artist)))
		default:
			lines = append(lines, fmt.Sprintf("%s   %s — %s",
				styles.Dim.Render(num), title, styles.Muted.Render(artist)))
		}
	}

	// Show "more" indicator
	if to < len(upcoming) {
		more := styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(upcoming)-to))
		lines = append(lines, more)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// fitTitleArtist squeezes a title and artist into the available width,
// keeping the artist at least a third of the space.
func fitTitleArtist(title, artist string, available int) (string, string) {
	if len(title)+len(artist) <= available {
		return title, artist
	}

	minArtist := available / 3
	if minArtist < 10 {
		minArtist = 10
	}
	if minArtist > available-10 {
		minArtist = available - 10
	}

	artistSpace := minArtist
	if len(artist) < artistSpace {
		artistSpace = len(artist)
	}
	titleSpace := available - artistSpace

	return truncate(title, titleSpace), truncate(artist, artistSpace)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
