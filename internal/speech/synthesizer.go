// Package speech turns announcement text into streamed audio.
package speech

import (
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// ChunkSize is how much synthesized audio is moved per write. Chunks
// flow into the audio pipeline as they arrive; the whole clip is never
// held in memory.
const ChunkSize = 4096

// Config holds synthesizer construction settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Voice   string
	Format  string
}

// Synthesizer streams text-to-speech audio from the API.
type Synthesizer struct {
	client *openai.Client
	model  string
	voice  string
	format string
	log    *zap.Logger
}

// NewSynthesizer creates a synthesizer for one voice/model/format
// combination.
func NewSynthesizer(cfg Config, log *zap.Logger) *Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &Synthesizer{
		client: &client,
		model:  cfg.Model,
		voice:  cfg.Voice,
		format: cfg.Format,
		log:    log,
	}
}

// Format returns the audio container format the synthesizer produces.
func (s *Synthesizer) Format() string {
	return s.format
}

// Stream synthesizes text and writes the encoded audio to w in
// ChunkSize pieces, returning the number of bytes written. Writes block
// on w's backpressure, which throttles the download to the consumer's
// throughput.
func (s *Synthesizer) Stream(ctx context.Context, text string, w io.Writer) (int64, error) {
	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(s.model),
		Voice:          openai.AudioSpeechNewParamsVoice(s.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormat(s.format),
	})
	if err != nil {
		return 0, fmt.Errorf("synthesize speech: %w", err)
	}
	defer resp.Body.Close()

	var written int64
	buf := make([]byte, ChunkSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return written, fmt.Errorf("write speech chunk: %w", werr)
			}
			written += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return written, fmt.Errorf("read speech stream: %w", err)
		}
	}

	s.log.Debug("speech synthesized",
		zap.Int64("bytes", written),
		zap.String("voice", s.voice),
		zap.String("format", s.format))

	return written, nil
}
