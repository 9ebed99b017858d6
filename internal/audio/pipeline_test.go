package audio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	emceeerrors "github.com/tessro/emcee/internal/errors"
)

func TestPadding(t *testing.T) {
	tests := []struct {
		crossfade time.Duration
		want      time.Duration
	}{
		{0, 0},
		{4 * time.Second, 4 * time.Second},
		{5 * time.Second, 4 * time.Second},
		{10 * time.Second, 8 * time.Second},
		{14 * time.Second, 12 * time.Second},
	}

	for _, tt := range tests {
		if got := Padding(tt.crossfade); got != tt.want {
			t.Errorf("Padding(%v) = %v, want %v", tt.crossfade, got, tt.want)
		}
	}
}

func TestBuildArgs(t *testing.T) {
	got := buildArgs("flac", 8*time.Second, "/music/clips/x.flac")
	want := []string{
		"-loglevel", "error",
		"-f", "flac",
		"-i", "pipe:0",
		"-filter_complex", "[0]loudnorm=I=-16:LRA=11:TP=-1[s0];[s0]adelay=8s:all=1[s1];[s1]apad=pad_dur=8[s2]",
		"-map", "[s2]",
		"-y", "/music/clips/x.flac",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildArgs() = %v, want %v", got, want)
	}
}

// fakeFFmpeg writes a shell script standing in for the real binary.
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}
	return path
}

func TestProcessSuccess(t *testing.T) {
	p := NewPipeline(fakeFFmpeg(t, "cat >/dev/null"), nil)

	err := p.Process(context.Background(), "flac", 0, filepath.Join(t.TempDir(), "out.flac"), func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(make([]byte, 8192)))
		return err
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
}

func TestProcessExitStatus(t *testing.T) {
	p := NewPipeline(fakeFFmpeg(t, "cat >/dev/null; echo 'boom' >&2; exit 3"), nil)

	err := p.Process(context.Background(), "flac", 0, "unused", func(w io.Writer) error {
		_, err := w.Write([]byte("data"))
		return err
	})
	if err == nil {
		t.Fatal("Process() = nil, want error for non-zero exit")
	}
	if !errors.Is(err, emceeerrors.ErrPipelineFailed) {
		t.Errorf("error %v does not wrap ErrPipelineFailed", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %v does not carry captured stderr", err)
	}
}

func TestProcessKillsOnWriteError(t *testing.T) {
	// The fake hangs far longer than the test; a fn error must kill it
	// rather than wait it out.
	p := NewPipeline(fakeFFmpeg(t, "exec sleep 30"), nil)

	start := time.Now()
	wantErr := errors.New("synthesis failed")
	err := p.Process(context.Background(), "flac", 0, "unused", func(w io.Writer) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Process() error = %v, want wrapped %v", err, wantErr)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Process() took %v, expected prompt kill", elapsed)
	}
}

func TestProcessContextCancel(t *testing.T) {
	p := NewPipeline(fakeFFmpeg(t, "exec sleep 30"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := p.Process(ctx, "flac", 0, "unused", func(w io.Writer) error {
		// Block until the pipe breaks under us.
		buf := make([]byte, 1<<16)
		for {
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
	})
	if err == nil {
		t.Fatal("Process() = nil, want error after cancellation")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Process() took %v after cancel", elapsed)
	}
}
