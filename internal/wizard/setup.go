// Package wizard implements the first-run setup flow.
package wizard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/tessro/emcee/internal/browser"
	"github.com/tessro/emcee/internal/config"
)

const apiKeysURL = "https://platform.openai.com/api-keys"

var voices = []string{"alloy", "ash", "ballad", "coral", "echo", "fable", "nova", "onyx", "sage", "shimmer"}

var formats = []string{"flac", "mp3", "opus", "aac", "wav", "pcm"}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Run walks through first-time setup, writes a config file to path,
// and returns what was written. Without a terminal it writes the
// defaults instead of prompting.
func Run(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("config file already exists at %s", path)
	}

	cfg := config.Default()

	if IsTerminal() {
		if err := askStation(cfg); err != nil {
			return nil, err
		}
		if err := askVoice(cfg); err != nil {
			return nil, err
		}
		if err := askAPIKey(cfg); err != nil {
			return nil, err
		}
	}

	if err := writeConfig(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func askStation(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("MPD socket").
				Description("Unix socket path or host:port of the music daemon").
				Value(&cfg.MPD.Socket).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("socket must not be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Clips directory").
				Description("Where announcement clips are stored, relative to the music directory").
				Placeholder("clips").
				Value(&cfg.Station.ClipsDir).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("clips directory must not be empty")
					}
					sc := config.StationConfig{ClipsDir: s}
					return sc.Validate()
				}),
			huh.NewConfirm().
				Title("Announce songs without cover art?").
				Description("Normally only songs with embedded artwork get announcements").
				Value(&cfg.Station.Always),
		),
	)

	return form.Run()
}

func askVoice(cfg *config.Config) error {
	var voiceOpts []huh.Option[string]
	for _, v := range voices {
		voiceOpts = append(voiceOpts, huh.NewOption(v, v))
	}

	var formatOpts []huh.Option[string]
	for _, f := range formats {
		formatOpts = append(formatOpts, huh.NewOption(f, f))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Chat model").
				Description("Vision-capable models can describe the cover art on air").
				Value(&cfg.Chat.Model),
			huh.NewSelect[string]().
				Title("Announcer voice").
				Options(voiceOpts...).
				Value(&cfg.Speech.Voice),
			huh.NewSelect[string]().
				Title("Clip format").
				Description("Pick one your daemon's decoders support").
				Options(formatOpts...).
				Value(&cfg.Speech.Format),
		),
	)

	return form.Run()
}

func askAPIKey(cfg *config.Config) error {
	var openPage bool
	confirm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Open the OpenAI API keys page in your browser?").
				Description(apiKeysURL).
				Value(&openPage),
		),
	)
	if err := confirm.Run(); err != nil {
		return err
	}

	if openPage {
		if err := browser.Open(apiKeysURL); err != nil {
			fmt.Printf("Could not open browser automatically.\n")
			fmt.Printf("Please open this URL in your browser:\n\n%s\n\n", apiKeysURL)
		}
	}

	var key string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API key").
				Description("Leave blank to use the OPENAI_API_KEY environment variable").
				EchoMode(huh.EchoModePassword).
				Value(&key),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Chat.APIKey = key
	cfg.Speech.APIKey = key
	return nil
}

func writeConfig(path string, cfg *config.Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "# Emcee Configuration")
	_, _ = fmt.Fprintln(f, "# https://github.com/tessro/emcee")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
