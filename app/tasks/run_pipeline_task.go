package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/autonews/app/pipeline"
)

const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

type RunPipelineTask struct {
	Task
	runner PipelineRunner
}

func NewRunPipelineTask(trigger string, runner PipelineRunner) *RunPipelineTask {
	return &RunPipelineTask{
		Task:   NewTask(TaskTypeRunPipeline, trigger),
		runner: runner,
	}
}

func (t *RunPipelineTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	runLog, err := t.runner.Run(ctx)
	if errors.Is(err, pipeline.ErrRunInProgress) {
		slog.Info("Pipeline run already in progress, skipping", "trigger", t.Trigger)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run pipeline: %w", err)
	}

	slog.Info("Task completed",
		"type", "RunPipeline",
		"trigger", t.Trigger,
		"duration", t.GetDuration(),
		"events", len(runLog.Entries()))

	return nil
}
