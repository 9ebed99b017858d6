package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/emcee/internal/core"
	"github.com/tessro/emcee/internal/tui/styles"
)

// AnnouncerState carries the moderator's gate verdicts for display.
type AnnouncerState struct {
	Status     core.PlaybackStatus
	LeadOK     bool
	LeadReason string
	OwnClipOK  bool
	ArtKnown   bool
	ArtCount   int
	Always     bool
}

// Announcer summarizes what the moderator would do right now.
type Announcer struct{}

// NewAnnouncer creates a new Announcer component
func NewAnnouncer() *Announcer {
	return &Announcer{}
}

// Render renders the announcer panel.
func (a *Announcer) Render(state AnnouncerState, width, height int, focused bool) string {
	title := styles.PanelTitle("Announcer", focused)

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		a.renderGates(state),
	))
}

func (a *Announcer) renderGates(state AnnouncerState) string {
	leadDetail := formatClock(state.Status.Remaining()) + " until next song"
	if !state.LeadOK {
		leadDetail = state.LeadReason
	}

	ownDetail := "clear"
	if !state.OwnClipOK {
		ownDetail = "clip playing or queued"
	}

	artOK := state.ArtCount > 0 || state.Always
	var artDetail string
	switch {
	case !state.ArtKnown:
		artDetail = "checking..."
	case state.ArtCount > 0:
		artDetail = fmt.Sprintf("%d attachments", state.ArtCount)
	case state.Always:
		artDetail = "always mode"
	default:
		artDetail = "none"
	}

	lines := []string{
		gateLine(state.LeadOK, "lead time", leadDetail),
		gateLine(state.OwnClipOK, "own clips", ownDetail),
		gateLine(artOK, "cover art", artDetail),
		"",
	}

	if state.LeadOK && state.OwnClipOK && state.ArtKnown && artOK {
		lines = append(lines, styles.Playing.Render("● would announce now"))
	} else {
		lines = append(lines, styles.Dim.Render("○ waiting"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func gateLine(ok bool, name, detail string) string {
	mark := styles.Playing.Render("✓")
	if !ok {
		mark = styles.Paused.Render("✗")
	}
	return fmt.Sprintf("%s %-10s %s", mark, name, styles.Muted.Render(detail))
}
