// Package logging configures the daemon's append-mode JSONL log output.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Runtime bundles the configured logger and its open file handle lifecycle.
type Runtime struct {
	Logger *slog.Logger
	Path   string
	closer io.Closer
}

// Close flushes and closes the logger output sink.
func (r Runtime) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// New builds a JSONL logger appending to path, creating parent directories
// and the file as needed. The daemon points redirected stdout/stderr at the
// same file, so log records and stray prints land in one place.
func New(path string) (Runtime, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return Runtime{}, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return Runtime{}, err
	}

	h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})
	return Runtime{Logger: slog.New(h), Path: path, closer: f}, nil
}

// NewStderr builds a logger for foreground runs that should not touch the
// log file.
func NewStderr() Runtime {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	return Runtime{Logger: slog.New(h)}
}
