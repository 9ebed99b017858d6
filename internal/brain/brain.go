// Package brain drives the announcement conversation with the
// language model.
package brain

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"go.uber.org/zap"

	"github.com/tessro/emcee/internal/core"
	"github.com/tessro/emcee/internal/errors"
	"github.com/tessro/emcee/internal/metrics"
)

// toolRoundLimit bounds how many tool-call rounds one announcement may
// take before the attempt is abandoned.
const toolRoundLimit = 4

// Config holds brain construction settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Vision  string // auto, on, or off
	Params  map[string]string
	Tools   []*Tool
	Metrics *metrics.Metrics
}

// Brain owns the chat client, the resolved template, the enabled
// tools, and the running session. It is owned by a single loop and is
// not safe for concurrent use.
type Brain struct {
	client     *openai.Client
	model      string
	vision     string
	template   Template
	params     map[string]string
	systemText string
	tools      []*Tool
	session    *Session
	metrics    *metrics.Metrics
	log        *zap.Logger
}

// New creates a brain speaking through the given template.
func New(cfg Config, tpl Template, log *zap.Logger) *Brain {
	if log == nil {
		log = zap.NewNop()
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &Brain{
		client:     &client,
		model:      cfg.Model,
		vision:     cfg.Vision,
		template:   tpl,
		params:     cfg.Params,
		systemText: tpl.RenderSystem(cfg.Params),
		tools:      cfg.Tools,
		metrics:    cfg.Metrics,
		log:        log,
	}
}

// Model returns the configured chat model identifier.
func (b *Brain) Model() string {
	return b.model
}

// NewSession starts a fresh conversation carrying the rendered system
// text.
func (b *Brain) NewSession() *Session {
	return newSession(b.systemText)
}

// visionModelPrefixes lists model families known to accept image
// input. Capability metadata is not exposed by the API, so detection
// is by name; chat.vision = "on" overrides it for unlisted models.
var visionModelPrefixes = []string{
	"gpt-4o",
	"gpt-4.1",
	"gpt-4-turbo",
	"gpt-5",
	"chatgpt-4o",
	"o1",
	"o3",
	"o4",
}

// VerifyVision checks that the configured model can look at cover art.
// Announcements are conditioned on artwork, so a text-only model is a
// startup failure, not something to discover one cycle at a time.
func (b *Brain) VerifyVision() error {
	switch b.vision {
	case "on":
		return nil
	case "off":
		return fmt.Errorf("%w: %s (chat.vision = \"off\")", errors.ErrNoVisionSupport, b.model)
	}

	model := strings.ToLower(b.model)
	for _, prefix := range visionModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", errors.ErrNoVisionSupport, b.model)
}

// Compose produces one announcement on the brain's own session,
// rotating the session once it exceeds the turn ceiling. The session
// persists across cycles so the voice can refer back to what it said
// earlier in the shift.
func (b *Brain) Compose(ctx context.Context, req Request) (string, error) {
	if b.session != nil && b.session.Expired() {
		b.log.Info("rotating chat session", zap.Int("exchanges", b.session.Exchanges()))
		b.metrics.SessionRotated()
		b.session = nil
	}
	if b.session == nil {
		b.session = b.NewSession()
	}
	return b.Announce(ctx, b.session, req)
}

// Request carries everything one announcement prompt needs.
type Request struct {
	Date        time.Time
	Prev        core.Track
	Next        core.Track
	Attachments []core.Attachment
}

// Announce runs one prompt/response round (plus any tool rounds) on
// the session and returns the announcement text. On error the session
// is rewound to its pre-call state so a failed cycle leaves no
// dangling transcript entries.
func (b *Brain) Announce(ctx context.Context, sess *Session, req Request) (text string, err error) {
	mark := sess.mark()
	defer func() {
		if err != nil {
			sess.rewind(mark)
		}
	}()

	sess.push(b.userMessage(req))

	for round := 0; round < toolRoundLimit; round++ {
		params := openai.ChatCompletionNewParams{
			Messages: sess.messages,
			Model:    openai.ChatModel(b.model),
		}
		if len(b.tools) > 0 {
			params.Tools = b.toolParams()
		}

		resp, err := b.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("chat completion: no choices")
		}
		choice := resp.Choices[0]

		if choice.Message.Refusal != "" {
			return "", fmt.Errorf("chat completion refused: %s", choice.Message.Refusal)
		}

		switch choice.FinishReason {
		case "tool_calls":
			sess.push(choice.Message.ToParam())
			for _, call := range choice.Message.ToolCalls {
				result := b.runTool(ctx, call.Function.Name, call.Function.Arguments)
				sess.push(openai.ToolMessage(result, call.ID))
			}

		case "stop":
			if choice.Message.Content == "" {
				return "", fmt.Errorf("chat completion: empty announcement")
			}
			sess.push(choice.Message.ToParam())
			sess.exchanges++
			return choice.Message.Content, nil

		default:
			return "", fmt.Errorf("chat completion: unexpected finish reason %q", choice.FinishReason)
		}
	}

	return "", fmt.Errorf("chat completion: no answer after %d tool rounds", toolRoundLimit)
}

// userMessage builds the per-cycle user message: the rendered prompt
// text plus one image part per attachment.
func (b *Brain) userMessage(req Request) openai.ChatCompletionMessageParamUnion {
	computed := map[string]string{
		"date":  req.Date.Format("2006-01-02 15:04:05"),
		"prev":  req.Prev.FactsLine(),
		"input": req.Next.FactsLine(),
	}
	text := b.template.RenderPrompt(b.params, computed)

	if len(req.Attachments) == 0 {
		return openai.UserMessage(text)
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(text),
	}
	for _, att := range req.Attachments {
		uri := "data:" + att.MIME + ";base64," + base64.StdEncoding.EncodeToString(att.Data)
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: uri,
		}))
	}

	return openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfArrayOfContentParts: parts,
			},
		},
	}
}

func (b *Brain) toolParams() []openai.ChatCompletionToolParam {
	params := make([]openai.ChatCompletionToolParam, 0, len(b.tools))
	for _, t := range b.tools {
		params = append(params, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: param.NewOpt(t.Description),
				Parameters:  t.Parameters,
			},
		})
	}
	return params
}

// runTool dispatches one tool call. Failures become tool results
// rather than errors so the conversation stays well-formed.
func (b *Brain) runTool(ctx context.Context, name, args string) string {
	for _, tool := range b.tools {
		if tool.Name != name {
			continue
		}
		result, err := tool.Run(ctx, args)
		if err != nil {
			b.log.Warn("tool failed", zap.String("tool", name), zap.Error(err))
			return fmt.Sprintf("error: %v", err)
		}
		b.log.Debug("tool ran", zap.String("tool", name))
		return result
	}
	return fmt.Sprintf("error: unknown tool %q", name)
}
