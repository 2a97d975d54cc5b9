package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Separator starts every run section in the backup log file.
const Separator = "------------------------------"

// LogFile is the append-only backup log. It takes both structured records
// (through [LogFile.Handler]) and raw output of external tools (through
// [LogFile.Write]).
type LogFile struct {
	mu   sync.Mutex
	file *os.File
}

// OpenLogFile opens path for appending, creating it and its parent
// directories if needed.
func OpenLogFile(path string) (*LogFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("(logging-file) failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("(logging-file) failed to open: %w", err)
	}

	return &LogFile{file: f}, nil
}

func (l *LogFile) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Write(p)
}

// Section appends the separator line and the date, starting a new run.
func (l *LogFile) Section(now time.Time) error {
	if _, err := fmt.Fprintf(l, "%s\n%s\n", Separator, now.Format(time.UnixDate)); err != nil {
		return fmt.Errorf("(logging-file) failed to write section: %w", err)
	}

	return nil
}

// Handler returns a text handler writing timestamped records to the file.
func (l *LogFile) Handler(level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(l, &slog.HandlerOptions{Level: level})
}

func (l *LogFile) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

var _ io.WriteCloser = (*LogFile)(nil)
