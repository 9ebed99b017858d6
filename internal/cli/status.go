package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/emcee/internal/announce"
	"github.com/tessro/emcee/internal/artwork"
	"github.com/tessro/emcee/internal/core"
	"github.com/tessro/emcee/internal/logging"
	"github.com/tessro/emcee/internal/mpd"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show station status",
	Long: `Shows what the daemon is playing, what comes next, and whether the
announcer would speak at the upcoming hand-off.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := dialDaemon()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	st, err := client.Status()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	var current, next core.Track
	if st.State != core.StateStopped {
		current, _ = client.CurrentSong()
	}
	if st.HasNext() {
		next, _ = client.SongByQueueID(st.NextSongID)
	}

	verdict := gateVerdict(client, st, current, next)

	if JSONOutput() {
		return outputStatusJSON(st, current, next, verdict)
	}
	outputStatusText(st, current, next, verdict)
	return nil
}

// statusVerdict mirrors the announcer's gates for display.
type statusVerdict struct {
	LeadOK     bool
	LeadReason string
	OwnClipOK  bool
	ArtCount   int
	ArtOK      bool
	Announce   bool
}

func gateVerdict(client *mpd.Client, st core.PlaybackStatus, current, next core.Track) statusVerdict {
	var v statusVerdict

	_, v.LeadReason, v.LeadOK = announce.LeadGate(st)
	_, v.OwnClipOK = announce.OwnClipGate(cfg.Station.ClipsDir, current, next)

	if !next.Empty() {
		v.ArtCount = len(artwork.NewFetcher(client, logging.L()).Fetch(next.File))
	}
	v.ArtOK = v.ArtCount > 0 || cfg.Station.Always

	v.Announce = v.LeadOK && v.OwnClipOK && v.ArtOK
	return v
}

func outputStatusJSON(st core.PlaybackStatus, current, next core.Track, v statusVerdict) error {
	item := map[string]interface{}{
		"state":             string(st.State),
		"elapsed_seconds":   st.Elapsed.Seconds(),
		"duration_seconds":  st.Duration.Seconds(),
		"remaining_seconds": st.Remaining().Seconds(),
		"crossfade_seconds": st.Crossfade.Seconds(),
		"updating_job":      st.UpdatingJob,
	}

	if !current.Empty() {
		item["current"] = current
	}
	if !next.Empty() {
		item["next"] = next
	}

	item["announcer"] = map[string]interface{}{
		"lead_ok":        v.LeadOK,
		"lead_reason":    v.LeadReason,
		"own_clip_ok":    v.OwnClipOK,
		"art_count":      v.ArtCount,
		"art_ok":         v.ArtOK,
		"would_announce": v.Announce,
	}

	return json.NewEncoder(os.Stdout).Encode(item)
}

func outputStatusText(st core.PlaybackStatus, current, next core.Track, v statusVerdict) {
	if current.Empty() {
		fmt.Printf("Not playing (state: %s)\n", st.State)
		return
	}

	playIcon := "▶"
	if st.State == core.StatePaused {
		playIcon = "⏸"
	}

	fmt.Printf("%s %s\n", playIcon, current.Title)
	if current.Artist != "" || current.Album != "" {
		fmt.Printf("  %s — %s\n", current.Artist, current.Album)
	}

	fmt.Printf("  %s %s / %s\n",
		FormatProgress(st.Elapsed, st.Duration, 30),
		FormatDuration(st.Elapsed),
		FormatDuration(st.Duration))

	if st.Crossfade > 0 {
		fmt.Printf("  crossfade: %s\n", st.Crossfade)
	}
	if st.Updating() {
		fmt.Printf("  rescan job %d running\n", st.UpdatingJob)
	}

	fmt.Println()
	if !next.Empty() {
		fmt.Printf("Next: %s\n", next.Display())
	} else {
		fmt.Println("Next: (end of queue)")
	}

	fmt.Println()
	fmt.Println("Announcer:")
	if v.LeadOK {
		fmt.Printf("  %s lead time (%s until next song)\n", gateMark(true), FormatDuration(st.Remaining()))
	} else {
		fmt.Printf("  %s lead time (%s)\n", gateMark(false), announce.ReasonText(v.LeadReason))
	}
	fmt.Printf("  %s own clips clear\n", gateMark(v.OwnClipOK))
	switch {
	case v.ArtCount > 0:
		fmt.Printf("  %s cover art (%d attachments)\n", gateMark(true), v.ArtCount)
	case cfg.Station.Always:
		fmt.Printf("  %s cover art (always mode)\n", gateMark(true))
	default:
		fmt.Printf("  %s cover art\n", gateMark(false))
	}

	if v.Announce {
		fmt.Println("  → would announce now")
	}
}

func gateMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
