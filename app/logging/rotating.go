package logging

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultMaxSize is the size after which the active log is moved to the _old file.
const DefaultMaxSize int64 = 5 * 1024 * 1024

// RotatingFile is an append-only file sink that keeps a single previous
// generation next to the active file.
type RotatingFile struct {
	path    string
	maxSize int64
	mu      sync.Mutex
}

func NewRotatingFile(path string, maxSize int64) *RotatingFile {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &RotatingFile{path: path, maxSize: maxSize}
}

func (r *RotatingFile) Path() string {
	return r.path
}

// OldPath returns "<dir>/<name>_old<ext>".
func (r *RotatingFile) OldPath() string {
	ext := filepath.Ext(r.path)
	return strings.TrimSuffix(r.path, ext) + "_old" + ext
}

func (r *RotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.rotateIfNeeded(int64(len(p))); err != nil {
		return 0, err
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	return f.Write(p)
}

// WriteLine appends a "[YYYY-MM-DD HH:MM:SS] message" line.
func (r *RotatingFile) WriteLine(message string) error {
	line := fmt.Sprintf("[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), message)
	_, err := r.Write([]byte(line))
	return err
}

// Tail returns up to n last non-empty lines of the active file.
func (r *RotatingFile) Tail(n int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	lines := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	return lines, nil
}

func (r *RotatingFile) rotateIfNeeded(incoming int64) error {
	info, err := os.Stat(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	if info.Size()+incoming <= r.maxSize {
		return nil
	}

	if err := os.Rename(r.path, r.OldPath()); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	return nil
}
