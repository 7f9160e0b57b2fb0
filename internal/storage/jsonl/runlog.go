// Package jsonl appends finished runs to runs.jsonl in the user's data
// directory, one JSON object per line.
package jsonl

import (
	"arena-roguelite/internal/run"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// AppName is the data directory name under $XDG_DATA_HOME.
const AppName = "arena-roguelite"

// FileName is the log file inside the data directory.
const FileName = "runs.jsonl"

// Log is a run.ResultSink writing to Dir/runs.jsonl.
type Log struct {
	Dir string

	mu sync.Mutex
}

// New returns a log rooted at dir, or at DataDir() when dir is empty.
func New(dir string) (*Log, error) {
	if dir == "" {
		d, err := DataDir()
		if err != nil {
			return nil, fmt.Errorf("run log: data dir: %w", err)
		}
		dir = d
	}
	return &Log{Dir: dir}, nil
}

// Path is the full path of the log file.
func (l *Log) Path() string { return filepath.Join(l.Dir, FileName) }

// SaveResult appends r as a single line. The SSH host shares one log
// between sessions, so writes are serialized.
func (l *Log) SaveResult(r run.Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("run log: marshal: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return fmt.Errorf("run log: create dir: %w", err)
	}
	f, err := os.OpenFile(l.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("run log: open: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("run log: write: %w", err)
	}
	return f.Close()
}

// DataDir follows the XDG base directory layout: $XDG_DATA_HOME/arena-roguelite,
// defaulting to ~/.local/share/arena-roguelite.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName), nil
}
