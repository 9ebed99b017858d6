package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/emcee/internal/wizard"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file",
	Long: `Create a configuration file interactively.

Walks through daemon connection, clips directory, voice, and API key
setup, then writes the result to ~/.emceerc (or the --config path).
Without a terminal, writes the default configuration instead.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := getConfigPath()

	created, err := wizard.Run(path)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{
			"status": "created",
			"path":   path,
		})
	}

	fmt.Printf("\nCreated config file: %s\n", path)
	fmt.Println("\nNext steps:")
	if created.Station.ClipsDir != "" {
		fmt.Printf("  1. Create the '%s' directory inside your music library\n", created.Station.ClipsDir)
	} else {
		fmt.Println("  1. Set station.clips_dir to a directory inside your music library")
	}
	fmt.Println("  2. Run 'emcee run' to start the moderator")

	return nil
}
