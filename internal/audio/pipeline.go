// Package audio post-processes announcement speech through ffmpeg.
//
// The filter chain loudness-normalizes the clip, then delays it by the
// padding duration and pads the total length by the same amount, so a
// crossfading daemon fades over silence instead of speech.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/emcee/internal/errors"
)

// Pipeline spawns one ffmpeg process per clip.
type Pipeline struct {
	ffmpeg string
	log    *zap.Logger
}

// NewPipeline creates a pipeline using the given ffmpeg binary.
func NewPipeline(ffmpegPath string, log *zap.Logger) *Pipeline {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{ffmpeg: ffmpegPath, log: log}
}

// Padding returns the silence to wrap around a clip given the daemon's
// crossfade setting: the crossfade less a fifth, in whole seconds.
func Padding(crossfade time.Duration) time.Duration {
	secs := int(crossfade.Seconds())
	return time.Duration(secs-secs/5) * time.Second
}

// Process runs one scoped ffmpeg invocation: fn receives the process's
// stdin as a sink for encoded audio in the given format, and the
// filtered result is written to outPath. The sink is closed before the
// process is awaited, and on every exit path (fn error, panic, context
// cancellation, normal return) the process is dead by the time Process
// returns. A non-zero ffmpeg exit fails the call with captured stderr.
func (p *Pipeline) Process(ctx context.Context, format string, padding time.Duration, outPath string, fn func(w io.Writer) error) error {
	args := buildArgs(format, padding, outPath)

	cmd := exec.CommandContext(ctx, p.ffmpeg, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdin: %w", err)
	}

	p.log.Debug("starting ffmpeg",
		zap.String("out", outPath),
		zap.Duration("padding", padding))

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.ffmpeg, err)
	}

	// ProcessState is only set once Wait has run; if it is still nil on
	// the way out, the process survived its scope and must die here.
	defer func() {
		if cmd.ProcessState == nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
		}
	}()

	if err := fn(stdin); err != nil {
		return fmt.Errorf("stream into ffmpeg: %w", err)
	}
	if err := stdin.Close(); err != nil {
		return fmt.Errorf("close ffmpeg stdin: %w", err)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%w: %v: %s", errors.ErrPipelineFailed, err, stderrTail(&stderr))
	}

	return nil
}

func buildArgs(format string, padding time.Duration, outPath string) []string {
	pad := int(padding.Seconds())
	filter := fmt.Sprintf(
		"[0]loudnorm=I=-16:LRA=11:TP=-1[s0];[s0]adelay=%ds:all=1[s1];[s1]apad=pad_dur=%d[s2]",
		pad, pad)

	return []string{
		"-loglevel", "error",
		"-f", format,
		"-i", "pipe:0",
		"-filter_complex", filter,
		"-map", "[s2]",
		"-y", outPath,
	}
}

func stderrTail(buf *bytes.Buffer) string {
	s := strings.TrimSpace(buf.String())
	if s == "" {
		return "(no stderr output)"
	}
	const max = 400
	if len(s) > max {
		s = "..." + s[len(s)-max:]
	}
	return s
}
