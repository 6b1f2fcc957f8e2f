package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingFileOldPath(t *testing.T) {
	sink := NewRotatingFile("/var/log/autonews.log", 0)

	if sink.OldPath() != "/var/log/autonews_old.log" {
		t.Errorf("Expected '/var/log/autonews_old.log', got '%s'", sink.OldPath())
	}
}

func TestRotatingFileRotatesPastThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.txt")
	sink := NewRotatingFile(path, 64)

	first := strings.Repeat("a", 60) + "\n"
	if _, err := sink.Write([]byte(first)); err != nil {
		t.Fatal(err)
	}

	second := "second line\n"
	if _, err := sink.Write([]byte(second)); err != nil {
		t.Fatal(err)
	}

	old, err := os.ReadFile(sink.OldPath())
	if err != nil {
		t.Fatalf("Expected rotated file to exist: %v", err)
	}
	if string(old) != first {
		t.Errorf("Expected rotated file to hold the first write, got %q", string(old))
	}

	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(current) != second {
		t.Errorf("Expected active file to hold only the second write, got %q", string(current))
	}
}

func TestRotatingFileKeepsSingleGeneration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.txt")
	sink := NewRotatingFile(path, 10)

	for _, line := range []string{"generation-1\n", "generation-2\n", "generation-3\n"} {
		if _, err := sink.Write([]byte(line)); err != nil {
			t.Fatal(err)
		}
	}

	old, err := os.ReadFile(sink.OldPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(old) != "generation-2\n" {
		t.Errorf("Expected only the previous generation to be kept, got %q", string(old))
	}
}

func TestRotatingFileTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.txt")
	sink := NewRotatingFile(path, 0)

	for _, msg := range []string{"one", "two", "three"} {
		if err := sink.WriteLine(msg); err != nil {
			t.Fatal(err)
		}
	}

	lines, err := sink.Tail(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], "] two") || !strings.HasSuffix(lines[1], "] three") {
		t.Errorf("Expected last two lines, got %v", lines)
	}
	if !strings.HasPrefix(lines[0], "[") {
		t.Errorf("Expected timestamp prefix, got '%s'", lines[0])
	}
}

func TestRotatingFileTailMissingFile(t *testing.T) {
	sink := NewRotatingFile(filepath.Join(t.TempDir(), "missing.txt"), 0)

	lines, err := sink.Tail(100)
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Expected no lines, got %d", len(lines))
	}
}
