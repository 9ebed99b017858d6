package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/emcee/internal/announce"
	"github.com/tessro/emcee/internal/artwork"
	"github.com/tessro/emcee/internal/core"
	"github.com/tessro/emcee/internal/history"
	"github.com/tessro/emcee/internal/mpd"
	"github.com/tessro/emcee/internal/tui/components"
	"github.com/tessro/emcee/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelOnAir Panel = iota
	PanelQueue
	PanelAnnouncer
	PanelAnnouncements
)

// Options configures the station monitor.
type Options struct {
	Socket      string
	Password    string
	ClipsDir    string
	HistoryFile string
	Theme       string
	Refresh     time.Duration
	Always      bool
}

// App holds the monitor's connections
type App struct {
	client  *mpd.Client
	journal *history.Journal
	opts    Options
}

// NewApp dials the daemon and opens the journal.
func NewApp(opts Options) (*App, error) {
	client, err := mpd.Dial(opts.Socket, opts.Password)
	if err != nil {
		return nil, err
	}

	return &App{
		client:  client,
		journal: history.NewJournal(opts.HistoryFile),
		opts:    opts,
	}, nil
}

// Close releases the daemon connection.
func (a *App) Close() {
	_ = a.client.Close()
}

// Model is the main TUI model
type Model struct {
	app          *App
	width        int
	height       int
	focusedPanel Panel

	// State
	status  core.PlaybackStatus
	current core.Track
	next    core.Track
	queue   []core.Track
	entries []history.Entry

	// Cover art cache for the upcoming song
	artFile  string
	artCount int
	artKnown bool

	// Components
	onAir         *components.NowPlaying
	queueView     *components.Queue
	announcerView *components.Announcer
	announcements *components.Announcements

	// Overlays
	showHelp bool

	// Transient feedback
	flash       string
	flashExpiry time.Time

	// Error handling
	lastError   error
	errorExpiry time.Time

	// Quit flag
	quitting bool
}

// NewModel creates a new TUI model
func NewModel(app *App) Model {
	return Model{
		app:           app,
		focusedPanel:  PanelOnAir,
		onAir:         components.NewNowPlaying(),
		queueView:     components.NewQueue(),
		announcerView: components.NewAnnouncer(),
		announcements: components.NewAnnouncements(),
	}
}

// Messages
type tickMsg time.Time
type stationMsg struct {
	status  core.PlaybackStatus
	current core.Track
	next    core.Track
	queue   []core.Track
}
type announcementsMsg []history.Entry
type artMsg struct {
	file  string
	count int
}
type errMsg error
type yankMsg struct{ err error }

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.app.opts.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchStation reads one coherent snapshot of daemon state. The
// client serializes commands, so everything fetches in a single
// command rather than a batch of concurrent ones.
func (m Model) fetchStation() tea.Cmd {
	return func() tea.Msg {
		st, err := m.app.client.Status()
		if err != nil {
			return errMsg(err)
		}

		var current, next core.Track
		if st.State != core.StateStopped {
			current, _ = m.app.client.CurrentSong()
		}
		if st.HasNext() {
			next, _ = m.app.client.SongByQueueID(st.NextSongID)
		}
		queue, _ := m.app.client.QueueTracks()

		return stationMsg{status: st, current: current, next: next, queue: queue}
	}
}

func (m Model) fetchAnnouncements() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.app.journal.Recent(50)
		if err != nil {
			return errMsg(err)
		}
		return announcementsMsg(entries)
	}
}

func (m Model) fetchArt(file string) tea.Cmd {
	return func() tea.Msg {
		count := len(artwork.NewFetcher(m.app.client, nil).Fetch(file))
		return artMsg{file: file, count: count}
	}
}

func (m Model) yankAnnouncement() tea.Cmd {
	entries := m.entries
	return func() tea.Msg {
		if len(entries) == 0 {
			return yankMsg{err: fmt.Errorf("no announcements yet")}
		}
		last := entries[len(entries)-1]
		if err := clipboard.WriteAll(last.Announcement); err != nil {
			return yankMsg{err: err}
		}
		return yankMsg{}
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		m.fetchStation(),
		m.fetchAnnouncements(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.tick(), m.fetchStation(), m.fetchAnnouncements())

	case stationMsg:
		if time.Now().After(m.errorExpiry) {
			m.lastError = nil
		}
		m.status = msg.status
		m.current = msg.current
		m.next = msg.next
		m.queue = msg.queue

		// Re-check cover art when the upcoming song changes.
		if m.next.Empty() {
			m.artFile = ""
			m.artCount = 0
			m.artKnown = true
			return m, nil
		}
		if m.next.File != m.artFile {
			m.artFile = m.next.File
			m.artKnown = false
			return m, m.fetchArt(m.next.File)
		}
		return m, nil

	case announcementsMsg:
		m.entries = msg
		return m, nil

	case artMsg:
		if msg.file == m.artFile {
			m.artCount = msg.count
			m.artKnown = true
		}
		return m, nil

	case errMsg:
		m.lastError = msg
		m.errorExpiry = time.Now().Add(5 * time.Second) // Show error for 5 seconds
		return m, nil

	case yankMsg:
		if msg.err != nil {
			m.flash = "yank failed: " + msg.err.Error()
		} else {
			m.flash = "announcement copied to clipboard"
		}
		m.flashExpiry = time.Now().Add(3 * time.Second)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys (always work)
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	// Normal mode
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % 4
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + 3) % 4
		return m, nil

	case "r":
		return m, tea.Batch(m.fetchStation(), m.fetchAnnouncements())

	case "y":
		return m, m.yankAnnouncement()
	}

	// Panel-specific keys
	switch m.focusedPanel {
	case PanelQueue:
		switch msg.String() {
		case "j", "down":
			m.queueView.ScrollDown()
		case "k", "up":
			m.queueView.ScrollUp()
		}
	case PanelAnnouncements:
		switch msg.String() {
		case "j", "down":
			m.announcements.ScrollDown()
		case "k", "up":
			m.announcements.ScrollUp()
		}
	}

	return m, nil
}

// announcerState mirrors the moderator's gates against current state.
func (m Model) announcerState() components.AnnouncerState {
	_, reason, leadOK := announce.LeadGate(m.status)
	_, ownOK := announce.OwnClipGate(m.app.opts.ClipsDir, m.current, m.next)

	return components.AnnouncerState{
		Status:     m.status,
		LeadOK:     leadOK,
		LeadReason: announce.ReasonText(reason),
		OwnClipOK:  ownOK,
		ArtKnown:   m.artKnown,
		ArtCount:   m.artCount,
		Always:     m.app.opts.Always,
	}
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	// Main layout: two columns
	// Left: On Air (top), Queue (bottom)
	// Right: Announcer (top), Announcements (bottom)

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := m.height * 40 / 100
	bottomHeight := m.height - topHeight - 2

	isClip := !m.current.Empty() && m.current.UnderDir(m.app.opts.ClipsDir)

	onAir := m.onAir.Render(m.status, m.current, isClip, leftWidth-2, topHeight-2, m.focusedPanel == PanelOnAir)
	queueView := m.queueView.Render(m.queue, m.status.SongID, m.status.NextSongID, m.app.opts.ClipsDir, leftWidth-2, bottomHeight-2, m.focusedPanel == PanelQueue)
	announcerView := m.announcerView.Render(m.announcerState(), rightWidth-2, topHeight-2, m.focusedPanel == PanelAnnouncer)
	announcementsView := m.announcements.Render(m.entries, rightWidth-2, bottomHeight-2, m.focusedPanel == PanelAnnouncements)

	// Compose layout
	leftCol := lipgloss.JoinVertical(lipgloss.Left, onAir, queueView)
	rightCol := lipgloss.JoinVertical(lipgloss.Left, announcerView, announcementsView)

	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)

	// Status bar
	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, main, statusBar)
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  r:refresh  y:yank announcement  j/k:scroll  tab:switch panel")

	if m.flash != "" && time.Now().Before(m.flashExpiry) {
		status = styles.Playing.Render(m.flash)
	}
	if m.lastError != nil {
		status = styles.Paused.Render("Error: " + m.lastError.Error())
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "Emcee Monitor - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  Tab          Next panel
  Shift+Tab    Previous panel
  r            Refresh
  y            Copy latest announcement

  Queue / Announcements Panel
  ───────────────────────────
  j/↓          Scroll down
  k/↑          Scroll up

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

// Run starts the station monitor.
func Run(opts Options) error {
	if opts.Refresh <= 0 {
		opts.Refresh = time.Second
	}
	styles.SetTheme(opts.Theme)

	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	model := NewModel(app)
	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err = p.Run()
	return err
}
