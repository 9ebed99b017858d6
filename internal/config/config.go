package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.emceerc, $XDG_CONFIG_HOME/emcee/config.toml, ~/.config/emcee/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	// Try loading from file
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Dir returns the emcee configuration directory. Template files live
// under it ("templates/<module>/<name>.toml").
func Dir() string {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "emcee")
}

// DefaultPath returns where the init wizard writes its config.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".emceerc"),
	}

	// XDG_CONFIG_HOME or default
	if dir := Dir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "config.toml"))
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Station
	if v := os.Getenv("EMCEE_TEMPLATE"); v != "" {
		cfg.Station.Template = v
	}
	if v := os.Getenv("EMCEE_CLIPS_DIR"); v != "" {
		cfg.Station.ClipsDir = v
	}

	// MPD
	if v := os.Getenv("EMCEE_MPD_SOCKET"); v != "" {
		cfg.MPD.Socket = v
	}
	if v := os.Getenv("EMCEE_MPD_PASSWORD"); v != "" {
		cfg.MPD.Password = v
	}
	// MPD_HOST is the daemon's own convention, optionally password@host.
	if v := os.Getenv("MPD_HOST"); v != "" && os.Getenv("EMCEE_MPD_SOCKET") == "" {
		if pw, host, ok := strings.Cut(v, "@"); ok {
			cfg.MPD.Password = pw
			cfg.MPD.Socket = host
		} else {
			cfg.MPD.Socket = v
		}
	}

	// Chat
	if v := os.Getenv("EMCEE_CHAT_MODEL"); v != "" {
		cfg.Chat.Model = v
	}
	if v := os.Getenv("EMCEE_CHAT_API_KEY"); v != "" {
		cfg.Chat.APIKey = v
	}
	if v := os.Getenv("EMCEE_CHAT_BASE_URL"); v != "" {
		cfg.Chat.BaseURL = v
	}

	// Speech
	if v := os.Getenv("EMCEE_SPEECH_MODEL"); v != "" {
		cfg.Speech.Model = v
	}
	if v := os.Getenv("EMCEE_SPEECH_VOICE"); v != "" {
		cfg.Speech.Voice = v
	}
	if v := os.Getenv("EMCEE_SPEECH_API_KEY"); v != "" {
		cfg.Speech.APIKey = v
	}
	if v := os.Getenv("EMCEE_SPEECH_FORMAT"); v != "" {
		cfg.Speech.Format = v
	}

	// OPENAI_API_KEY is the shared fallback for both API keys.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if cfg.Chat.APIKey == "" {
			cfg.Chat.APIKey = v
		}
		if cfg.Speech.APIKey == "" {
			cfg.Speech.APIKey = v
		}
	}

	// Log
	if v := os.Getenv("EMCEE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("EMCEE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	// Metrics
	if v := os.Getenv("EMCEE_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}

	// TUI
	if v := os.Getenv("EMCEE_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}
}
