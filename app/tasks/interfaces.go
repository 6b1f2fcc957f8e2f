package tasks

import (
	"context"

	"github.com/lysyi3m/autonews/app/pipeline"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to trigger pipeline runs periodically.
// Example usage:
//
//	scheduler := NewScheduler(runner, time.Hour)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewRunPipelineTask(TriggerManual, runner))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// PipelineRunner is the single entry point shared by scheduled and manual runs.
type PipelineRunner interface {
	Run(ctx context.Context) (*pipeline.RunLog, error)
}
