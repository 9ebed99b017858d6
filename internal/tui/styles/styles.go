package styles

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Colors come from the Catppuccin palettes: Latte on light terminals,
// Mocha on dark ones.
var (
	Primary   lipgloss.TerminalColor
	Success   lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor
	Alert     lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	Text      lipgloss.TerminalColor
	TextMuted lipgloss.TerminalColor
	TextDim   lipgloss.TerminalColor
)

// Text styles
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	OnAir     lipgloss.Style
)

// Border styles
var (
	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style
)

func init() {
	SetTheme("auto")
}

// SetTheme selects the palette: Latte for light, Mocha for dark, or
// terminal background detection when auto.
func SetTheme(theme string) {
	light := catppuccin.Latte
	dark := catppuccin.Mocha

	pick := func(l, d string) lipgloss.TerminalColor {
		switch theme {
		case "light":
			return lipgloss.Color(l)
		case "dark":
			return lipgloss.Color(d)
		default:
			return lipgloss.AdaptiveColor{Light: l, Dark: d}
		}
	}

	Primary = pick(light.Mauve().Hex, dark.Mauve().Hex)
	Success = pick(light.Green().Hex, dark.Green().Hex)
	Warning = pick(light.Yellow().Hex, dark.Yellow().Hex)
	Alert = pick(light.Red().Hex, dark.Red().Hex)
	Border = pick(light.Surface2().Hex, dark.Surface2().Hex)
	Text = pick(light.Text().Hex, dark.Text().Hex)
	TextMuted = pick(light.Subtext0().Hex, dark.Subtext0().Hex)
	TextDim = pick(light.Overlay0().Hex, dark.Overlay0().Hex)

	Title = lipgloss.NewStyle().Bold(true).Foreground(Text)
	Subtitle = lipgloss.NewStyle().Foreground(TextMuted)
	Label = lipgloss.NewStyle().Foreground(TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	Dim = lipgloss.NewStyle().Foreground(TextDim)
	Playing = lipgloss.NewStyle().Foreground(Success)
	Paused = lipgloss.NewStyle().Foreground(Warning)
	OnAir = lipgloss.NewStyle().Foreground(pick(light.Peach().Hex, dark.Peach().Hex))

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)
}

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar creates a progress bar string
func ProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}
