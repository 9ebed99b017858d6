package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/emcee/internal/tui"
)

var watchRefresh int

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"ui"},
	Short:   "Launch the interactive station monitor",
	Long: `Launch the interactive terminal monitor.

The monitor provides a live view with:
  • On Air - current track, progress, station breaks
  • Queue - upcoming tracks
  • Announcer - whether the next gap will get an announcement
  • Announcements - recent announcements from the journal

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  y            Copy latest announcement
  j/k          Scroll queue or announcements
  Tab          Switch panel`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchRefresh, "refresh", 0, "Refresh interval in milliseconds (default from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	refresh := cfg.TUI.RefreshInterval
	if cmd.Flags().Changed("refresh") {
		refresh = watchRefresh
	}
	if refresh <= 0 {
		refresh = 1000
	}

	return tui.Run(tui.Options{
		Socket:      cfg.MPD.Socket,
		Password:    cfg.MPD.Password,
		ClipsDir:    cfg.Station.ClipsDir,
		HistoryFile: cfg.History.File,
		Theme:       cfg.TUI.Theme,
		Refresh:     time.Duration(refresh) * time.Millisecond,
		Always:      cfg.Station.Always,
	})
}
