package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Station: StationConfig{
			Template: "station:default",
		},
		MPD: MPDConfig{
			Socket: "/run/mpd/socket",
		},
		Chat: ChatConfig{
			Model:  "o4-mini",
			Vision: "auto",
		},
		Speech: SpeechConfig{
			Model:  "gpt-4o-mini-tts",
			Voice:  "nova",
			Format: "flac",
		},
		Audio: AudioConfig{
			FFmpeg: "ffmpeg",
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 1000,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Station
	if c.Station.Template == "" {
		c.Station.Template = d.Station.Template
	}

	// MPD
	if c.MPD.Socket == "" {
		c.MPD.Socket = d.MPD.Socket
	}

	// Chat
	if c.Chat.Model == "" {
		c.Chat.Model = d.Chat.Model
	}
	if c.Chat.Vision == "" {
		c.Chat.Vision = d.Chat.Vision
	}

	// Speech
	if c.Speech.Model == "" {
		c.Speech.Model = d.Speech.Model
	}
	if c.Speech.Voice == "" {
		c.Speech.Voice = d.Speech.Voice
	}
	if c.Speech.Format == "" {
		c.Speech.Format = d.Speech.Format
	}

	// Audio
	if c.Audio.FFmpeg == "" {
		c.Audio.FFmpeg = d.Audio.FFmpeg
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = d.Log.MaxBackups
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = d.Log.MaxAgeDays
	}
}
