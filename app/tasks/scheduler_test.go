package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lysyi3m/autonews/app/pipeline"
)

// MockRunner signals every run on a channel
type MockRunner struct {
	runs chan struct{}
	err  error
}

func NewMockRunner() *MockRunner {
	return &MockRunner{runs: make(chan struct{}, 10)}
}

func (m *MockRunner) Run(ctx context.Context) (*pipeline.RunLog, error) {
	m.runs <- struct{}{}
	if m.err != nil {
		return nil, m.err
	}
	return pipeline.NewRunLog(nil), nil
}

func waitForRun(t *testing.T, runner *MockRunner) {
	t.Helper()
	select {
	case <-runner.runs:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected pipeline run")
	}
}

func TestNewScheduler(t *testing.T) {
	runner := NewMockRunner()
	scheduler := NewScheduler(runner, time.Hour)

	if scheduler == nil {
		t.Fatal("Expected scheduler to be created")
	}
	if scheduler.interval != time.Hour {
		t.Errorf("Expected interval 1h, got %v", scheduler.interval)
	}
	if scheduler.taskTimeout != pipeline.DefaultLockTTL {
		t.Errorf("Expected task timeout %v, got %v", pipeline.DefaultLockTTL, scheduler.taskTimeout)
	}
}

func TestSchedulerExecutesEnqueuedTask(t *testing.T) {
	runner := NewMockRunner()
	scheduler := NewScheduler(runner, 0)
	scheduler.Start()
	defer scheduler.Stop()

	if err := scheduler.EnqueueTask(NewRunPipelineTask(TriggerManual, runner)); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	waitForRun(t, runner)
}

func TestSchedulerRunsOnInterval(t *testing.T) {
	runner := NewMockRunner()
	scheduler := NewScheduler(runner, 10*time.Millisecond)
	scheduler.Start()
	defer scheduler.Stop()

	waitForRun(t, runner)
	waitForRun(t, runner)
}

func TestSchedulerRejectsTasksAfterStop(t *testing.T) {
	runner := NewMockRunner()
	scheduler := NewScheduler(runner, 0)
	scheduler.Start()
	scheduler.Stop()

	if err := scheduler.EnqueueTask(NewRunPipelineTask(TriggerManual, runner)); err == nil {
		t.Error("Expected error when enqueueing on a stopped scheduler")
	}
}

func TestSchedulerQueueFull(t *testing.T) {
	runner := NewMockRunner()
	scheduler := NewScheduler(runner, 0)
	defer scheduler.Stop()

	for i := 0; i < cap(scheduler.taskQueue); i++ {
		if err := scheduler.EnqueueTask(NewRunPipelineTask(TriggerManual, runner)); err != nil {
			t.Fatalf("Unexpected error filling queue: %v", err)
		}
	}

	if err := scheduler.EnqueueTask(NewRunPipelineTask(TriggerManual, runner)); err == nil {
		t.Error("Expected error when the queue is full")
	}
}

func TestRunPipelineTaskIgnoresRunInProgress(t *testing.T) {
	runner := NewMockRunner()
	runner.err = pipeline.ErrRunInProgress

	task := NewRunPipelineTask(TriggerSchedule, runner)
	task.Start()

	if err := task.Execute(context.Background()); err != nil {
		t.Errorf("Expected overlapping run to be skipped quietly, got: %v", err)
	}
}

func TestRunPipelineTaskWrapsErrors(t *testing.T) {
	runner := NewMockRunner()
	runner.err = &pipeline.ConfigError{Field: "API key"}

	err := NewRunPipelineTask(TriggerSchedule, runner).Execute(context.Background())

	var configErr *pipeline.ConfigError
	if !errors.As(err, &configErr) {
		t.Errorf("Expected wrapped ConfigError, got: %v", err)
	}
}

func TestNewTask(t *testing.T) {
	first := NewTask(TaskTypeRunPipeline, TriggerManual)
	second := NewTask(TaskTypeRunPipeline, TriggerManual)

	if first.ID == "" || first.ID == second.ID {
		t.Errorf("Expected unique task ids, got '%s' and '%s'", first.ID, second.ID)
	}
	if first.CanRetry() {
		t.Error("Expected pipeline tasks not to be retried")
	}
	if first.GetDuration() != 0 {
		t.Error("Expected zero duration before start")
	}
}
