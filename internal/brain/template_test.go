package brain

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	emceeerrors "github.com/tessro/emcee/internal/errors"
)

func TestRenderSystemDefaults(t *testing.T) {
	got := builtinDefault.RenderSystem(nil)
	for _, want := range []string{"Nova", "Radio Mario", "Graz", "Austria", "austrian german"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderSystem missing %q in:\n%s", want, got)
		}
	}
}

func TestRenderSystemParamsOverride(t *testing.T) {
	params := map[string]string{"name": "Ida", "station": "Radio Atlantis"}
	got := builtinDefault.RenderSystem(params)
	if !strings.Contains(got, "Ida") || !strings.Contains(got, "Radio Atlantis") {
		t.Errorf("params not substituted:\n%s", got)
	}
	if strings.Contains(got, "Nova") {
		t.Errorf("default survived an override:\n%s", got)
	}
	// Unset params still fall back to defaults.
	if !strings.Contains(got, "Graz") {
		t.Errorf("default for unset param lost:\n%s", got)
	}
}

func TestRenderPromptComputedWins(t *testing.T) {
	tpl := Template{
		Prompt:   DefaultPromptBody,
		Defaults: map[string]string{"date": "never"},
	}
	computed := map[string]string{
		"date":  "2026-08-24 17:30:00",
		"prev":  "artist=Kraftwerk, title=Autobahn",
		"input": "artist=Falco, title=Rock Me Amadeus",
	}
	got := tpl.RenderPrompt(map[string]string{"date": "also never"}, computed)

	want := "Date: 2026-08-24 17:30:00\nPrevious: artist=Kraftwerk, title=Autobahn\nNext: artist=Falco, title=Rock Me Amadeus"
	if got != want {
		t.Errorf("RenderPrompt = %q, want %q", got, want)
	}
}

func TestRenderUnknownVariable(t *testing.T) {
	tpl := Template{System: "greetings from $whodis"}
	if got := tpl.RenderSystem(nil); got != "greetings from $whodis" {
		t.Errorf("unknown variable mangled: %q", got)
	}
}

func TestResolveTemplateBuiltin(t *testing.T) {
	tpl, err := ResolveTemplate("station:default", t.TempDir())
	if err != nil {
		t.Fatalf("ResolveTemplate: %v", err)
	}
	if tpl.System != builtinDefault.System {
		t.Error("station:default did not resolve to the builtin")
	}
}

func TestResolveTemplateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates", "station", "night.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	body := `system = "You are the night voice of $station."

[defaults]
station = "Radio Mitternacht"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	tpl, err := ResolveTemplate("station:night", dir)
	if err != nil {
		t.Fatalf("ResolveTemplate: %v", err)
	}
	if got := tpl.RenderSystem(nil); got != "You are the night voice of Radio Mitternacht." {
		t.Errorf("RenderSystem = %q", got)
	}
	if tpl.Prompt != DefaultPromptBody {
		t.Errorf("empty prompt not defaulted: %q", tpl.Prompt)
	}
}

func TestResolveTemplateNotFound(t *testing.T) {
	for _, ref := range []string{"station:missing", "noseparator", ":default", "station:"} {
		_, err := ResolveTemplate(ref, t.TempDir())
		if !errors.Is(err, emceeerrors.ErrTemplateNotFound) {
			t.Errorf("ResolveTemplate(%q) error = %v, want ErrTemplateNotFound", ref, err)
		}
	}
}
