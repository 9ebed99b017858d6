// Package history keeps an append-only journal of announcements.
//
// The journal is a JSON-lines file: one entry per announcement, oldest
// first. It feeds the history command, the watch view, and the
// recent_plays tool.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry records one aired (or at least produced) announcement.
type Entry struct {
	Time         time.Time `json:"time"`
	File         string    `json:"file"`
	Artist       string    `json:"artist,omitempty"`
	Title        string    `json:"title,omitempty"`
	Announcement string    `json:"announcement"`
	Clip         string    `json:"clip"`
	Inserted     bool      `json:"inserted"`
}

// Journal is a append-only store of entries backed by one file.
type Journal struct {
	mu   sync.Mutex
	path string
}

// NewJournal opens a journal at path, creating parent directories on
// first append. An empty path selects the default location.
func NewJournal(path string) *Journal {
	if path == "" {
		path = DefaultPath()
	}
	return &Journal{path: path}
}

// DefaultPath returns the journal location under the state directory.
func DefaultPath() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "emcee-history.jsonl"
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "emcee", "history.jsonl")
}

// Path returns the journal's file location.
func (j *Journal) Path() string {
	return j.path
}

// Append writes one entry to the end of the journal.
func (j *Journal) Append(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	return nil
}

// Recent returns up to n entries, oldest first. Lines that fail to
// parse are skipped so one corrupt record cannot wedge the journal.
func (j *Journal) Recent(n int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}
