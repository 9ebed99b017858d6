package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/emcee/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent announcements",
	Long:  `Lists announcements from the journal, oldest first.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	journal := history.NewJournal(cfg.History.File)
	entries, err := journal.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	if JSONOutput() {
		if entries == nil {
			entries = []history.Entry{}
		}
		return json.NewEncoder(os.Stdout).Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No announcements yet")
		return nil
	}

	table := NewTable("WHEN", "SONG", "ANNOUNCEMENT", "AIRED")
	for _, e := range entries {
		song := e.Title
		if e.Artist != "" {
			song = e.Artist + " - " + e.Title
		}
		aired := "-"
		if e.Inserted {
			aired = "✓"
		}
		table.Row(
			humanize.Time(e.Time),
			TruncateString(song, 40),
			TruncateString(e.Announcement, 60),
			aired,
		)
	}
	table.Flush()
	return nil
}
