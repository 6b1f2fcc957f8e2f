package pipeline

import (
	"fmt"
	"log/slog"
	"sync"
)

// LineWriter is the on-disk activity log.
type LineWriter interface {
	WriteLine(message string) error
}

// RunLog collects the human readable events of one run in order. Every entry
// is also appended to the sink when one is set.
type RunLog struct {
	sink    LineWriter
	entries []string
	mu      sync.Mutex
}

func NewRunLog(sink LineWriter) *RunLog {
	return &RunLog{sink: sink, entries: []string{}}
}

func (l *RunLog) Add(format string, args ...any) {
	message := fmt.Sprintf(format, args...)

	l.mu.Lock()
	l.entries = append(l.entries, message)
	l.mu.Unlock()

	if l.sink != nil {
		if err := l.sink.WriteLine(message); err != nil {
			slog.Warn("Failed to write activity log", "error", err)
		}
	}
}

func (l *RunLog) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]string, len(l.entries))
	copy(entries, l.entries)
	return entries
}
