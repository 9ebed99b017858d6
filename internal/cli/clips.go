package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/emcee/internal/core"
	"github.com/tessro/emcee/internal/errors"
)

var clipsCmd = &cobra.Command{
	Use:   "clips",
	Short: "List announcement clips on disk",
	Long: `Lists the clips emcee has written into the music library, newest
first. Requires a local daemon connection: the daemon only reports its
music directory over the local socket.`,
	RunE: runClips,
}

func init() {
	rootCmd.AddCommand(clipsCmd)
}

type clipInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

func runClips(cmd *cobra.Command, args []string) error {
	if cfg.Station.ClipsDir == "" {
		return fmt.Errorf("no clips directory configured (station.clips_dir)")
	}

	client, err := dialDaemon()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	musicDir, err := client.MusicDirectory()
	if err != nil {
		return err
	}

	dir := filepath.Join(musicDir, cfg.Station.ClipsDir)
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", errors.ErrClipsDirMissing, dir)
		}
		return fmt.Errorf("read clips directory: %w", err)
	}

	var clips []clipInfo
	var total int64
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		stamp := strings.TrimSuffix(name, filepath.Ext(name))
		if _, err := time.Parse(core.ClipTimeFormat, stamp); err != nil {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		clips = append(clips, clipInfo{Name: name, Size: info.Size(), Modified: info.ModTime()})
		total += info.Size()
	}

	// Timestamp names sort lexically, so this is newest first.
	sort.Slice(clips, func(i, j int) bool { return clips[i].Name > clips[j].Name })

	if JSONOutput() {
		if clips == nil {
			clips = []clipInfo{}
		}
		return json.NewEncoder(os.Stdout).Encode(clips)
	}

	if len(clips) == 0 {
		fmt.Printf("No clips in %s\n", dir)
		return nil
	}

	table := NewTable("CLIP", "SIZE", "AGE")
	for _, c := range clips {
		table.Row(c.Name, humanize.Bytes(uint64(c.Size)), humanize.Time(c.Modified))
	}
	table.Flush()
	fmt.Printf("\n%d clips, %s in %s\n", len(clips), humanize.Bytes(uint64(total)), dir)
	return nil
}
