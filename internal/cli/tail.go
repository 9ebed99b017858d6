package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tessro/emcee/internal/feed"
	"github.com/tessro/emcee/internal/history"
	"github.com/tessro/emcee/internal/logging"
	"github.com/tessro/emcee/internal/mpd"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow station events in real-time",
	Long: `Watch the daemon and print station events as they happen.

Events tracked:
  - Track changes (new song started)
  - Track completions (song finished)
  - Track skips (song cut short)
  - Announcement clips going on air
  - Pause/Resume/Stop
  - Library rescans starting and finishing`,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	client, err := dialDaemon()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	idle, err := mpd.Watch(cfg.MPD.Socket, cfg.MPD.Password, "player", "playlist", "update")
	if err != nil {
		return fmt.Errorf("idle connection: %w", err)
	}
	defer func() { _ = idle.Close() }()

	// Create formatter
	formatter := feed.NewFormatter(
		feed.WithEmoji(!tailNoEmoji),
		feed.WithTimestamp(tailTimestamp),
		feed.WithTemplate(tailFormat),
	)

	// Handle Ctrl+C gracefully
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	// Show recent announcements on startup
	if !JSONOutput() {
		showRecentAnnouncements()
	}

	// Create watcher
	watcher := feed.NewWatcher(client, idle, cfg.Station.ClipsDir, logging.L())

	// Start watching in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	// Print events as they arrive
	enc := json.NewEncoder(os.Stdout)
	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			if JSONOutput() {
				_ = enc.Encode(feed.NewRecord(event))
			} else {
				fmt.Println(formatter.Format(event))
			}

		case err := <-errCh:
			if err == context.Canceled {
				return nil
			}
			return err
		}
	}
}

// showRecentAnnouncements prints the last few journal entries so the
// stream opens with context.
func showRecentAnnouncements() {
	journal := history.NewJournal(cfg.History.File)
	entries, err := journal.Recent(5)
	if err != nil || len(entries) == 0 {
		return
	}

	for _, entry := range entries {
		timestamp := ""
		if tailTimestamp {
			timestamp = entry.Time.Local().Format("15:04:05") + " "
		}
		emoji := ""
		if !tailNoEmoji {
			emoji = "⏪ "
		}
		fmt.Printf("%s%s%s: %s\n", timestamp, emoji, entry.Title, TruncateString(entry.Announcement, 80))
	}
}
