package speech

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// chunkRecorder captures writes and their sizes.
type chunkRecorder struct {
	buf    bytes.Buffer
	writes []int
}

func (r *chunkRecorder) Write(p []byte) (int, error) {
	r.writes = append(r.writes, len(p))
	return r.buf.Write(p)
}

func TestStream(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 10000)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.Contains(r.URL.Path, "audio/speech") {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write(payload)
	}))
	defer srv.Close()

	s := NewSynthesizer(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gpt-4o-mini-tts",
		Voice:   "nova",
		Format:  "flac",
	}, nil)

	var rec chunkRecorder
	n, err := s.Stream(context.Background(), "hello listeners", &rec)
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if n != int64(len(payload)) {
		t.Errorf("Stream() wrote %d bytes, want %d", n, len(payload))
	}
	if !bytes.Equal(rec.buf.Bytes(), payload) {
		t.Error("streamed bytes do not match payload")
	}
	for i, size := range rec.writes {
		if size > ChunkSize {
			t.Errorf("write %d was %d bytes, want <= %d", i, size, ChunkSize)
		}
	}
}

func TestStreamAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "bad voice"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewSynthesizer(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "m", Voice: "x", Format: "flac"}, nil)

	var rec chunkRecorder
	if _, err := s.Stream(context.Background(), "text", &rec); err == nil {
		t.Fatal("Stream() = nil error, want API error")
	}
	if rec.buf.Len() != 0 {
		t.Errorf("wrote %d bytes despite API error", rec.buf.Len())
	}
}

func TestFormat(t *testing.T) {
	s := NewSynthesizer(Config{Format: "mp3"}, nil)
	if s.Format() != "mp3" {
		t.Errorf("Format() = %q, want mp3", s.Format())
	}
}
