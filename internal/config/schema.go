package config

// Config is the root configuration structure.
type Config struct {
	Station StationConfig `toml:"station"`
	MPD     MPDConfig     `toml:"mpd"`
	Chat    ChatConfig    `toml:"chat"`
	Speech  SpeechConfig  `toml:"speech"`
	Audio   AudioConfig   `toml:"audio"`
	History HistoryConfig `toml:"history"`
	TUI     TUIConfig     `toml:"tui"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
}

// StationConfig holds announcer behavior and station identity.
type StationConfig struct {
	Template string            `toml:"template"`
	Params   map[string]string `toml:"params"`
	Tools    []string          `toml:"tools"`
	ClipsDir string            `toml:"clips_dir"`
	Always   bool              `toml:"always"`
}

// MPDConfig holds daemon connection settings.
type MPDConfig struct {
	Socket   string `toml:"socket"`
	Password string `toml:"password"`
}

// ChatConfig holds language-model settings.
type ChatConfig struct {
	Model   string `toml:"model"`
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Vision  string `toml:"vision"`
}

// SpeechConfig holds text-to-speech settings.
type SpeechConfig struct {
	Model  string `toml:"model"`
	Voice  string `toml:"voice"`
	APIKey string `toml:"api_key"`
	Format string `toml:"format"`
}

// AudioConfig holds post-processing settings.
type AudioConfig struct {
	FFmpeg string `toml:"ffmpeg"`
}

// HistoryConfig holds announcement journal settings.
type HistoryConfig struct {
	File string `toml:"file"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// MetricsConfig holds the optional Prometheus listener settings.
// An empty address disables the listener.
type MetricsConfig struct {
	Addr string `toml:"addr"`
}
