package brain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/openai/openai-go"

	"github.com/tessro/emcee/internal/core"
	emceeerrors "github.com/tessro/emcee/internal/errors"
)

func TestVerifyVision(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		vision  string
		wantErr bool
	}{
		{"gpt-4o auto", "gpt-4o-mini", "auto", false},
		{"o4 auto", "o4-mini", "auto", false},
		{"gpt-5 auto", "gpt-5", "auto", false},
		{"text model auto", "gpt-3.5-turbo", "auto", true},
		{"unknown model forced on", "local-llava", "on", false},
		{"vision model forced off", "gpt-4o", "off", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(Config{APIKey: "test", Model: tt.model, Vision: tt.vision}, builtinDefault, nil)
			err := b.VerifyVision()
			if tt.wantErr {
				if !errors.Is(err, emceeerrors.ErrNoVisionSupport) {
					t.Errorf("VerifyVision() = %v, want ErrNoVisionSupport", err)
				}
			} else if err != nil {
				t.Errorf("VerifyVision() = %v, want nil", err)
			}
		})
	}
}

func TestSessionRotation(t *testing.T) {
	sess := newSession("system text")
	if sess.Expired() {
		t.Error("fresh session already expired")
	}

	sess.exchanges = MaxExchanges
	if sess.Expired() {
		t.Errorf("session expired at exactly %d exchanges", MaxExchanges)
	}
	sess.exchanges = MaxExchanges + 1
	if !sess.Expired() {
		t.Errorf("session not expired past %d exchanges", MaxExchanges)
	}
}

func TestSessionRewind(t *testing.T) {
	sess := newSession("system text")
	mark := sess.mark()
	sess.push(openai.UserMessage("hello"))
	sess.push(openai.UserMessage("dangling"))
	sess.rewind(mark)

	if got := len(sess.messages); got != 1 {
		t.Errorf("messages after rewind = %d, want 1 (system only)", got)
	}
}

// chatServer fakes the chat completions endpoint. Each call pops the
// next scripted response; request bodies are recorded for inspection.
func chatServer(t *testing.T, responses []string) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var bodies []map[string]any
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		bodies = append(bodies, body)

		if calls >= len(responses) {
			t.Errorf("unexpected call %d to chat endpoint", calls+1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, responses[calls])
		calls++
	}))
	t.Cleanup(srv.Close)
	return srv, &bodies
}

func stopResponse(content string) string {
	return fmt.Sprintf(`{
		"id": "chatcmpl-test",
		"object": "chat.completion",
		"created": 1724500000,
		"model": "gpt-4o-mini",
		"choices": [{
			"index": 0,
			"finish_reason": "stop",
			"message": {"role": "assistant", "content": %q}
		}]
	}`, content)
}

const toolCallResponse = `{
	"id": "chatcmpl-test",
	"object": "chat.completion",
	"created": 1724500000,
	"model": "gpt-4o-mini",
	"choices": [{
		"index": 0,
		"finish_reason": "tool_calls",
		"message": {
			"role": "assistant",
			"tool_calls": [{
				"id": "call_1",
				"type": "function",
				"function": {"name": "current_time", "arguments": "{}"}
			}]
		}
	}]
}`

func testRequest() Request {
	return Request{
		Date: time.Date(2026, 8, 24, 17, 30, 0, 0, time.UTC),
		Prev: core.Track{File: "a/autobahn.flac", Artist: "Kraftwerk", Title: "Autobahn"},
		Next: core.Track{File: "f/amadeus.flac", Artist: "Falco", Title: "Rock Me Amadeus"},
	}
}

func TestAnnounce(t *testing.T) {
	srv, bodies := chatServer(t, []string{stopResponse("Up next, a classic from Falco.")})
	b := New(Config{APIKey: "test", BaseURL: srv.URL, Model: "gpt-4o-mini"}, builtinDefault, nil)
	sess := b.NewSession()

	text, err := b.Announce(context.Background(), sess, testRequest())
	if err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if text != "Up next, a classic from Falco." {
		t.Errorf("Announce = %q", text)
	}
	if sess.Exchanges() != 1 {
		t.Errorf("Exchanges = %d, want 1", sess.Exchanges())
	}
	// system + user + assistant
	if got := len(sess.messages); got != 3 {
		t.Errorf("transcript length = %d, want 3", got)
	}

	raw, _ := json.Marshal((*bodies)[0])
	for _, want := range []string{"Kraftwerk", "Falco", "2026-08-24 17:30:00"} {
		if !strings.Contains(string(raw), want) {
			t.Errorf("request missing %q", want)
		}
	}
}

func TestAnnounceToolRound(t *testing.T) {
	srv, bodies := chatServer(t, []string{toolCallResponse, stopResponse("It is getting late out there.")})
	tool := &Tool{
		Name:        "current_time",
		Description: "clock",
		Run: func(ctx context.Context, args string) (string, error) {
			return "half past five", nil
		},
	}
	b := New(Config{APIKey: "test", BaseURL: srv.URL, Model: "gpt-4o-mini", Tools: []*Tool{tool}}, builtinDefault, nil)
	sess := b.NewSession()

	text, err := b.Announce(context.Background(), sess, testRequest())
	if err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if text != "It is getting late out there." {
		t.Errorf("Announce = %q", text)
	}
	if len(*bodies) != 2 {
		t.Fatalf("chat calls = %d, want 2", len(*bodies))
	}

	// The second request must carry the tool result back.
	raw, _ := json.Marshal((*bodies)[1])
	if !strings.Contains(string(raw), "half past five") {
		t.Error("tool result not sent back to the model")
	}
	if !strings.Contains(string(raw), "call_1") {
		t.Error("tool call id not echoed in the tool message")
	}
	// system + user + assistant(tool_calls) + tool + assistant
	if got := len(sess.messages); got != 5 {
		t.Errorf("transcript length = %d, want 5", got)
	}
}

func TestAnnounceAttachments(t *testing.T) {
	srv, bodies := chatServer(t, []string{stopResponse("Look at that cover.")})
	b := New(Config{APIKey: "test", BaseURL: srv.URL, Model: "gpt-4o-mini"}, builtinDefault, nil)

	req := testRequest()
	req.Attachments = []core.Attachment{{Data: []byte{0x89, 'P', 'N', 'G'}, MIME: "image/png"}}
	if _, err := b.Announce(context.Background(), b.NewSession(), req); err != nil {
		t.Fatalf("Announce: %v", err)
	}

	raw, _ := json.Marshal((*bodies)[0])
	if !strings.Contains(string(raw), "data:image/png;base64,") {
		t.Error("attachment not sent as a data URI image part")
	}
	if !strings.Contains(string(raw), "image_url") {
		t.Error("no image_url content part in request")
	}
}

func TestAnnounceErrorRewindsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	b := New(Config{APIKey: "test", BaseURL: srv.URL, Model: "gpt-4o-mini"}, builtinDefault, nil)
	sess := b.NewSession()

	if _, err := b.Announce(context.Background(), sess, testRequest()); err == nil {
		t.Fatal("Announce succeeded against a failing endpoint")
	}
	if got := len(sess.messages); got != 1 {
		t.Errorf("transcript length after failure = %d, want 1 (system only)", got)
	}
	if sess.Exchanges() != 0 {
		t.Errorf("Exchanges after failure = %d, want 0", sess.Exchanges())
	}
}

func TestComposeRotatesSession(t *testing.T) {
	srv, _ := chatServer(t, []string{stopResponse("First."), stopResponse("Second.")})
	b := New(Config{APIKey: "test", BaseURL: srv.URL, Model: "gpt-4o-mini"}, builtinDefault, nil)

	if _, err := b.Compose(context.Background(), testRequest()); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	first := b.session
	if first == nil || first.Exchanges() != 1 {
		t.Fatalf("session after first compose = %+v", first)
	}

	first.exchanges = MaxExchanges + 1
	if _, err := b.Compose(context.Background(), testRequest()); err != nil {
		t.Fatalf("Compose after expiry: %v", err)
	}
	if b.session == first {
		t.Error("expired session was reused instead of rotated")
	}
	if b.session.Exchanges() != 1 {
		t.Errorf("fresh session exchanges = %d, want 1", b.session.Exchanges())
	}
}

func TestRunToolUnknown(t *testing.T) {
	b := New(Config{APIKey: "test", Model: "gpt-4o-mini"}, builtinDefault, nil)
	got := b.runTool(context.Background(), "nope", "{}")
	if !strings.Contains(got, "unknown tool") {
		t.Errorf("runTool = %q, want unknown-tool error text", got)
	}
}
