package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/emcee/internal/history"
	"github.com/tessro/emcee/internal/tui/styles"
)

// Announcements lists recent journal entries, newest first.
type Announcements struct {
	offset int
}

// NewAnnouncements creates a new Announcements component
func NewAnnouncements() *Announcements {
	return &Announcements{offset: 0}
}

// ScrollDown scrolls the list down
func (a *Announcements) ScrollDown() {
	a.offset++
}

// ScrollUp scrolls the list up
func (a *Announcements) ScrollUp() {
	if a.offset > 0 {
		a.offset--
	}
}

// Render renders the announcements panel.
func (a *Announcements) Render(entries []history.Entry, width, height int, focused bool) string {
	title := styles.PanelTitle("Announcements", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("No announcements yet")
	} else {
		content = a.renderEntries(entries, width-4, height-4)
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

func (a *Announcements) renderEntries(entries []history.Entry, width, maxLines int) string {
	// The journal is oldest first; walk it backwards.
	if a.offset >= len(entries) {
		a.offset = len(entries) - 1
	}

	lines := make([]string, 0, maxLines)

	// Fixed overhead: icon (2) + quotes (2) + spacing
	const overhead = 6

	for n := 0; n < maxLines; n++ {
		i := len(entries) - 1 - a.offset - n
		if i < 0 {
			break
		}
		entry := entries[i]

		// Time ago (right-aligned)
		timeAgo := formatTimeAgo(entry.Time)

		// Aired or produced-but-never-queued
		icon := styles.Playing.Render("✓")
		if !entry.Inserted {
			icon = styles.Dim.Render("·")
		}

		available := width - overhead - len(timeAgo)
		text := truncate(entry.Announcement, available)

		padding := width - overhead - len(text) - len(timeAgo) + 2
		if padding < 1 {
			padding = 1
		}

		line := fmt.Sprintf("%s \"%s\"%s%s",
			icon,
			text,
			lipgloss.NewStyle().Width(padding).Render(""),
			styles.Dim.Render(timeAgo))

		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatTimeAgo(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return t.Format("Jan 2")
}
