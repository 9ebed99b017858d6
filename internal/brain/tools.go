package brain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"

	"github.com/tessro/emcee/internal/history"
)

// Tool is one function the model may call while composing an
// announcement. Arguments arrive as the raw JSON the model produced.
type Tool struct {
	Name        string
	Description string
	Parameters  openai.FunctionParameters
	Run         func(ctx context.Context, args string) (string, error)
}

// Tools resolves enabled tool names to implementations.
func Tools(names []string, journal *history.Journal) ([]*Tool, error) {
	var tools []*Tool
	for _, name := range names {
		switch name {
		case "current_time":
			tools = append(tools, CurrentTimeTool())
		case "recent_plays":
			tools = append(tools, RecentPlaysTool(journal))
		default:
			return nil, fmt.Errorf("unknown tool %q (available: current_time, recent_plays)", name)
		}
	}
	return tools, nil
}

// CurrentTimeTool tells the model the station's wall-clock time.
func CurrentTimeTool() *Tool {
	return &Tool{
		Name:        "current_time",
		Description: "Get the current date and time at the station",
		Parameters: openai.FunctionParameters{
			"type":       "object",
			"properties": map[string]any{},
		},
		Run: func(ctx context.Context, args string) (string, error) {
			return time.Now().Format("Monday, 2 January 2006, 15:04"), nil
		},
	}
}

// RecentPlaysTool lets the model recall what it announced before, so
// it can vary its phrasing and call back to earlier songs.
func RecentPlaysTool(journal *history.Journal) *Tool {
	return &Tool{
		Name:        "recent_plays",
		Description: "List the most recent announcements made on this station",
		Parameters: openai.FunctionParameters{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{
					"type":        "integer",
					"description": "How many announcements to return (default 5, max 20)",
				},
			},
		},
		Run: func(ctx context.Context, args string) (string, error) {
			limit := 5
			if args != "" {
				var parsed struct {
					Limit int `json:"limit"`
				}
				if err := json.Unmarshal([]byte(args), &parsed); err == nil && parsed.Limit > 0 {
					limit = parsed.Limit
				}
			}
			if limit > 20 {
				limit = 20
			}

			entries, err := journal.Recent(limit)
			if err != nil {
				return "", fmt.Errorf("read history: %w", err)
			}
			if len(entries) == 0 {
				return "No announcements yet.", nil
			}

			var sb strings.Builder
			for _, e := range entries {
				fmt.Fprintf(&sb, "%s  %s - %s: %s\n",
					e.Time.Format("15:04"), e.Artist, e.Title, e.Announcement)
			}
			return sb.String(), nil
		},
	}
}
