package brain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tessro/emcee/internal/errors"
)

// Template is an announcement prompt pair with substitution variables
// in $var form. Unknown variables are left untouched so a typo is
// visible in the output rather than silently dropped.
type Template struct {
	System   string            `toml:"system"`
	Prompt   string            `toml:"prompt"`
	Defaults map[string]string `toml:"defaults"`
}

// DefaultPromptBody is the user-prompt shape shared by all templates:
// the air date, the song wrapping up, and the song to introduce.
const DefaultPromptBody = "Date: $date\nPrevious: $prev\nNext: $input"

// builtinDefault is the station:default template.
var builtinDefault = Template{
	System: strings.TrimSpace(`
You are $name, the radio moderator of $station in $location, $region.
You introduce the next song on air, speaking $language. Work from the
song metadata and the cover art you are given: mention the artist and
title naturally, and when the artwork shows something striking, weave
it in. Two or three sentences, warm and conversational, no emoji, no
stage directions, and never read out file names or raw tag lists.
`),
	Prompt: DefaultPromptBody,
	Defaults: map[string]string{
		"name":     "Nova",
		"station":  "Radio Mario",
		"location": "Graz",
		"region":   "Austria",
		"language": "austrian german",
	},
}

// ResolveTemplate loads the template for a module:name reference.
// station:default is builtin; anything else is read from
// <dir>/templates/<module>/<name>.toml.
func ResolveTemplate(ref, dir string) (Template, error) {
	module, name, ok := strings.Cut(ref, ":")
	if !ok || module == "" || name == "" {
		return Template{}, fmt.Errorf("%w: %q is not in module:name form", errors.ErrTemplateNotFound, ref)
	}

	if module == "station" && name == "default" {
		return builtinDefault, nil
	}

	path := filepath.Join(dir, "templates", module, name+".toml")
	var tpl Template
	if _, err := toml.DecodeFile(path, &tpl); err != nil {
		if os.IsNotExist(err) {
			return Template{}, fmt.Errorf("%w: %s", errors.ErrTemplateNotFound, path)
		}
		return Template{}, fmt.Errorf("template %s: %w", path, err)
	}
	if tpl.Prompt == "" {
		tpl.Prompt = DefaultPromptBody
	}
	return tpl, nil
}

// RenderSystem substitutes variables into the system text, with params
// overriding the template's own defaults.
func (t Template) RenderSystem(params map[string]string) string {
	return t.render(t.System, params, nil)
}

// RenderPrompt substitutes variables into the prompt body. computed
// holds the per-cycle variables (date, prev, input) and wins over
// everything else.
func (t Template) RenderPrompt(params, computed map[string]string) string {
	return t.render(t.Prompt, params, computed)
}

func (t Template) render(text string, params, computed map[string]string) string {
	return os.Expand(text, func(name string) string {
		if v, ok := computed[name]; ok {
			return v
		}
		if v, ok := params[name]; ok {
			return v
		}
		if v, ok := t.Defaults[name]; ok {
			return v
		}
		// Unknown variable: keep the reference visible.
		return "$" + name
	})
}
