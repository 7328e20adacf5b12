package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ParseLevel accepts debug, info, warn or error. Blank means info.
func ParseLevel(raw string) (log.Level, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(raw)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("unknown log level %q", raw)
	}
	return lvl, nil
}

// New builds a logger writing to w.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	})
}

// OpenFile returns a logger appending to path. The TUI owns the terminal,
// so everything it logs goes to a file.
func OpenFile(path string, level log.Level) (*log.Logger, io.Closer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(f, level), f, nil
}

func Stderr(level log.Level) *log.Logger {
	return New(os.Stderr, level)
}

func Discard() *log.Logger {
	return log.New(io.Discard)
}
