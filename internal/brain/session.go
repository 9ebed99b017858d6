package brain

import (
	"github.com/openai/openai-go"
)

// MaxExchanges is the turn-count ceiling after which a session is
// replaced with a fresh one, bounding context growth.
const MaxExchanges = 20

// Session is one multi-turn conversation with the model. It is owned
// by a single loop and replaced, never shared; rotation constructs a
// new Session rather than mutating the old one in place.
type Session struct {
	messages  []openai.ChatCompletionMessageParamUnion
	exchanges int
}

func newSession(systemText string) *Session {
	s := &Session{}
	if systemText != "" {
		s.messages = append(s.messages, openai.SystemMessage(systemText))
	}
	return s
}

// Exchanges returns how many completed prompt/response rounds the
// session has accumulated.
func (s *Session) Exchanges() int {
	return s.exchanges
}

// Expired reports whether the session has exceeded its turn ceiling
// and should be replaced before the next announcement.
func (s *Session) Expired() bool {
	return s.exchanges > MaxExchanges
}

func (s *Session) push(msg openai.ChatCompletionMessageParamUnion) {
	s.messages = append(s.messages, msg)
}

// mark and rewind bracket one announcement attempt: a failed attempt
// must not leave a dangling user message or unanswered tool call in
// the transcript.
func (s *Session) mark() int {
	return len(s.messages)
}

func (s *Session) rewind(mark int) {
	s.messages = s.messages[:mark]
}
