package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/emcee/internal/core"
	"github.com/tessro/emcee/internal/tui/styles"
)

// NowPlaying displays the song currently on air.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the on-air panel.
func (n *NowPlaying) Render(st core.PlaybackStatus, track core.Track, isClip bool, width, height int, focused bool) string {
	title := styles.PanelTitle("On Air", focused)

	var content string
	if track.Empty() {
		content = styles.Muted.Render("Nothing playing")
	} else {
		content = n.renderTrack(st, track, isClip, width-4)
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

func (n *NowPlaying) renderTrack(st core.PlaybackStatus, track core.Track, isClip bool, width int) string {
	icon := styles.StatusIcon(st.Playing())

	label := track.Title
	if label == "" {
		label = track.File
	}
	head := styles.Title.Width(width - 4).Render(label)
	if isClip {
		head = styles.OnAir.Render("station break")
	}

	artist := styles.Subtitle.Render(track.Artist)
	album := styles.Dim.Render(track.Album)

	// Progress bar with times on either side
	progressWidth := width - 14
	if progressWidth < 10 {
		progressWidth = 10
	}
	bar := styles.ProgressBar(st.ProgressPercent(), progressWidth)
	progress := fmt.Sprintf("%s %s %s", formatClock(st.Elapsed), bar, formatClock(st.Duration))

	var extras []string
	if st.Crossfade > 0 {
		extras = append(extras, fmt.Sprintf("crossfade %ds", int(st.Crossfade.Seconds())))
	}
	if st.Updating() {
		extras = append(extras, fmt.Sprintf("rescan job %d", st.UpdatingJob))
	}
	info := ""
	if len(extras) > 0 {
		info = styles.Dim.Render(strings.Join(extras, "  "))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+head,
		"  "+artist,
		"  "+album,
		"",
		progress,
		info,
	)
}

func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
