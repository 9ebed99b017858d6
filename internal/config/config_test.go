package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.MPD.Socket != "/run/mpd/socket" {
		t.Errorf("MPD.Socket = %q, want /run/mpd/socket", cfg.MPD.Socket)
	}
	if cfg.Station.Template != "station:default" {
		t.Errorf("Station.Template = %q, want station:default", cfg.Station.Template)
	}
	if cfg.Chat.Model != "o4-mini" {
		t.Errorf("Chat.Model = %q, want o4-mini", cfg.Chat.Model)
	}
	if cfg.Speech.Model != "gpt-4o-mini-tts" {
		t.Errorf("Speech.Model = %q, want gpt-4o-mini-tts", cfg.Speech.Model)
	}
	if cfg.Speech.Voice != "nova" {
		t.Errorf("Speech.Voice = %q, want nova", cfg.Speech.Voice)
	}
	if cfg.Speech.Format != "flac" {
		t.Errorf("Speech.Format = %q, want flac", cfg.Speech.Format)
	}
	if cfg.Audio.FFmpeg != "ffmpeg" {
		t.Errorf("Audio.FFmpeg = %q, want ffmpeg", cfg.Audio.FFmpeg)
	}
}

func TestDefaultsDoNotClobber(t *testing.T) {
	cfg := &Config{}
	cfg.Speech.Voice = "alloy"
	cfg.ApplyDefaults()

	if cfg.Speech.Voice != "alloy" {
		t.Errorf("Speech.Voice = %q, want alloy", cfg.Speech.Voice)
	}
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[station]
clips_dir = "clips"
always = true

[station.params]
name = "Ada"

[mpd]
socket = "/tmp/mpd.sock"

[speech]
voice = "shimmer"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.MPD.Socket != "/tmp/mpd.sock" {
		t.Errorf("MPD.Socket = %q, want /tmp/mpd.sock", cfg.MPD.Socket)
	}
	if !cfg.Station.Always {
		t.Error("Station.Always = false, want true")
	}
	if cfg.Station.Params["name"] != "Ada" {
		t.Errorf("Station.Params[name] = %q, want Ada", cfg.Station.Params["name"])
	}
	if cfg.Speech.Voice != "shimmer" {
		t.Errorf("Speech.Voice = %q, want shimmer", cfg.Speech.Voice)
	}
	// Defaults still fill the rest.
	if cfg.Chat.Model != "o4-mini" {
		t.Errorf("Chat.Model = %q, want o4-mini", cfg.Chat.Model)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("EMCEE_MPD_SOCKET", "/custom/socket")
	t.Setenv("EMCEE_SPEECH_VOICE", "onyx")
	t.Setenv("OPENAI_API_KEY", "sk-fallback")
	t.Setenv("EMCEE_CHAT_API_KEY", "sk-chat")

	cfg := &Config{}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	if cfg.MPD.Socket != "/custom/socket" {
		t.Errorf("MPD.Socket = %q, want /custom/socket", cfg.MPD.Socket)
	}
	if cfg.Speech.Voice != "onyx" {
		t.Errorf("Speech.Voice = %q, want onyx", cfg.Speech.Voice)
	}
	// Explicit key wins over the shared fallback; the fallback fills the rest.
	if cfg.Chat.APIKey != "sk-chat" {
		t.Errorf("Chat.APIKey = %q, want sk-chat", cfg.Chat.APIKey)
	}
	if cfg.Speech.APIKey != "sk-fallback" {
		t.Errorf("Speech.APIKey = %q, want sk-fallback", cfg.Speech.APIKey)
	}
}

func TestMPDHostEnv(t *testing.T) {
	t.Setenv("MPD_HOST", "secret@/var/run/mpd.sock")
	t.Setenv("EMCEE_MPD_SOCKET", "")

	cfg := &Config{}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	if cfg.MPD.Socket != "/var/run/mpd.sock" {
		t.Errorf("MPD.Socket = %q, want /var/run/mpd.sock", cfg.MPD.Socket)
	}
	if cfg.MPD.Password != "secret" {
		t.Errorf("MPD.Password = %q, want secret", cfg.MPD.Password)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"absolute clips dir", func(c *Config) { c.Station.ClipsDir = "/clips" }, true},
		{"escaping clips dir", func(c *Config) { c.Station.ClipsDir = "../clips" }, true},
		{"relative clips dir", func(c *Config) { c.Station.ClipsDir = "radio/clips" }, false},
		{"template without module", func(c *Config) { c.Station.Template = "default" }, true},
		{"empty socket", func(c *Config) { c.MPD.Socket = "" }, true},
		{"bad vision", func(c *Config) { c.Chat.Vision = "maybe" }, true},
		{"bad format", func(c *Config) { c.Speech.Format = "ogg" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad metrics addr", func(c *Config) { c.Metrics.Addr = "no-port" }, true},
		{"good metrics addr", func(c *Config) { c.Metrics.Addr = "127.0.0.1:9090" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.ApplyDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
