package config

import (
	"errors"
	"fmt"
	"net"
	"path"
	"strings"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Station.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("station: %w", err))
	}
	if err := c.MPD.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("mpd: %w", err))
	}
	if err := c.Chat.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("chat: %w", err))
	}
	if err := c.Speech.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("speech: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	if err := c.Metrics.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("metrics: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks StationConfig for errors.
func (c *StationConfig) Validate() error {
	if c.Template != "" && !strings.Contains(c.Template, ":") {
		return fmt.Errorf("invalid template reference: %s (must be module:name)", c.Template)
	}
	if c.ClipsDir != "" {
		if path.IsAbs(c.ClipsDir) {
			return errors.New("clips_dir must be relative to the music directory")
		}
		clean := path.Clean(c.ClipsDir)
		if clean == ".." || strings.HasPrefix(clean, "../") {
			return errors.New("clips_dir must not escape the music directory")
		}
	}
	return nil
}

// Validate checks MPDConfig for errors.
func (c *MPDConfig) Validate() error {
	if c.Socket == "" {
		return errors.New("socket must not be empty")
	}
	return nil
}

// Validate checks ChatConfig for errors.
func (c *ChatConfig) Validate() error {
	switch c.Vision {
	case "", "auto", "on", "off":
		// valid
	default:
		return fmt.Errorf("invalid vision setting: %s (must be auto, on, or off)", c.Vision)
	}
	return nil
}

// Validate checks SpeechConfig for errors.
func (c *SpeechConfig) Validate() error {
	switch c.Format {
	case "", "flac", "mp3", "opus", "aac", "wav", "pcm":
		// valid
	default:
		return fmt.Errorf("invalid audio format: %s (must be flac, mp3, opus, aac, wav, or pcm)", c.Format)
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return errors.New("rotation limits must be non-negative")
	}
	return nil
}

// Validate checks MetricsConfig for errors.
func (c *MetricsConfig) Validate() error {
	if c.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}
	return nil
}
