package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/emcee/internal/config"
	"github.com/tessro/emcee/internal/errors"
	"github.com/tessro/emcee/internal/logging"
	"github.com/tessro/emcee/internal/mpd"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "emcee",
	Short: "AI radio moderator for MPD",
	Long: `Emcee keeps a radio station talking. It watches an MPD queue and,
whenever there is room before the next song starts, has a language model
write a short moderation, speaks it, and slips the clip into the queue so
it airs at the hand-off.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.emceerc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}

	logCfg := logging.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	logging.Init(logCfg)

	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(errors.ExitCode(err))
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}

// dialDaemon opens the command connection using the loaded config.
func dialDaemon() (*mpd.Client, error) {
	client, err := mpd.Dial(cfg.MPD.Socket, cfg.MPD.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDaemonUnreachable, err)
	}
	return client, nil
}
