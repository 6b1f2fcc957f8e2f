package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/autonews/app/feed"
	"github.com/lysyi3m/autonews/app/pipeline"
)

type MockPipeline struct {
	calls   int
	sources []feed.Source
	config  pipeline.Config
	panics  bool
	err     error
}

func (m *MockPipeline) RunWith(ctx context.Context, sources []feed.Source, config pipeline.Config, runLog *pipeline.RunLog) error {
	m.calls++
	m.sources = sources
	m.config = config
	runLog.Add("Starting feed processing")
	if m.panics {
		runLog.Add("Published: Before the crash")
		panic("nil map write")
	}
	return m.err
}

type MockSources struct {
	sources []feed.Source
	err     error
	loads   int
}

func (m *MockSources) Run() error {
	m.loads++
	return m.err
}

func (m *MockSources) GetSources() []feed.Source {
	return m.sources
}

func staticConfig(config pipeline.Config) func() (pipeline.Config, error) {
	return func() (pipeline.Config, error) { return config, nil }
}

func TestRunnerRunsPipeline(t *testing.T) {
	p := &MockPipeline{}
	sources := &MockSources{sources: []feed.Source{{URL: "https://x.test/feed.xml"}}}
	runner := NewRunner(p, sources, pipeline.NewRunLock(time.Minute), staticConfig(pipeline.Config{APIKey: "sk-test"}), nil)

	runLog, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if p.calls != 1 {
		t.Errorf("Expected 1 pipeline call, got %d", p.calls)
	}
	if sources.loads != 1 {
		t.Errorf("Expected sources to be reloaded, got %d loads", sources.loads)
	}
	if len(p.sources) != 1 || p.config.APIKey != "sk-test" {
		t.Errorf("Expected sources and config to be passed through, got %v / %+v", p.sources, p.config)
	}
	if len(runLog.Entries()) != 1 {
		t.Errorf("Expected run log from the pipeline, got %v", runLog.Entries())
	}
}

func TestRunnerRejectsOverlappingRun(t *testing.T) {
	p := &MockPipeline{}
	lock := pipeline.NewRunLock(time.Minute)
	runner := NewRunner(p, &MockSources{}, lock, staticConfig(pipeline.Config{}), nil)

	token, err := lock.Acquire()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := runner.Run(context.Background()); !errors.Is(err, pipeline.ErrRunInProgress) {
		t.Errorf("Expected ErrRunInProgress, got: %v", err)
	}
	if p.calls != 0 {
		t.Errorf("Expected pipeline not to run, got %d calls", p.calls)
	}

	lock.Release(token)

	if _, err := runner.Run(context.Background()); err != nil {
		t.Errorf("Expected run after release to succeed, got: %v", err)
	}
	if lock.Held() {
		t.Error("Expected runner to release the lock")
	}
}

func TestRunnerConfigError(t *testing.T) {
	p := &MockPipeline{}
	config := func() (pipeline.Config, error) {
		return pipeline.Config{}, errors.New("failed to read prompt file")
	}
	runner := NewRunner(p, &MockSources{}, pipeline.NewRunLock(time.Minute), config, nil)

	runLog, err := runner.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error")
	}
	if p.calls != 0 {
		t.Errorf("Expected pipeline not to run, got %d calls", p.calls)
	}
	if runLog == nil || len(runLog.Entries()) != 1 {
		t.Errorf("Expected error entry in run log, got %v", runLog)
	}
}

func TestRunnerRecoversPanic(t *testing.T) {
	lock := pipeline.NewRunLock(time.Minute)
	runner := NewRunner(&MockPipeline{panics: true}, &MockSources{}, lock, staticConfig(pipeline.Config{}), nil)

	runLog, err := runner.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error from panicking run")
	}
	if runLog == nil {
		t.Fatal("Expected run log with the error")
	}

	entries := runLog.Entries()
	if len(entries) != 3 {
		t.Fatalf("Expected entries written before the panic plus the error, got %v", entries)
	}
	if entries[1] != "Published: Before the crash" {
		t.Errorf("Expected entry written before the panic, got '%s'", entries[1])
	}
	if !strings.Contains(entries[2], "panicked") {
		t.Errorf("Expected panic error entry, got '%s'", entries[2])
	}
	if lock.Held() {
		t.Error("Expected lock to be released after panic")
	}
}

func TestRunnerKeepsPreviousSourcesOnReloadError(t *testing.T) {
	p := &MockPipeline{}
	sources := &MockSources{
		sources: []feed.Source{{URL: "https://x.test/feed.xml"}},
		err:     errors.New("failed to parse YAML"),
	}
	runner := NewRunner(p, sources, pipeline.NewRunLock(time.Minute), staticConfig(pipeline.Config{}), nil)

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(p.sources) != 1 {
		t.Errorf("Expected previous sources to be used, got %v", p.sources)
	}
}
