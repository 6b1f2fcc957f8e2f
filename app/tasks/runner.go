package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/autonews/app/feed"
	"github.com/lysyi3m/autonews/app/pipeline"
)

type SourceLoader interface {
	Run() error
	GetSources() []feed.Source
}

type Pipeline interface {
	RunWith(ctx context.Context, sources []feed.Source, config pipeline.Config, runLog *pipeline.RunLog) error
}

var (
	_ SourceLoader   = (*feed.SourceCache)(nil)
	_ Pipeline       = (*pipeline.Pipeline)(nil)
	_ PipelineRunner = (*Runner)(nil)
)

// Runner guards pipeline runs with the run lock. Sources and configuration
// are reloaded on every run.
type Runner struct {
	pipeline Pipeline
	sources  SourceLoader
	lock     *pipeline.RunLock
	config   func() (pipeline.Config, error)
	sink     pipeline.LineWriter
}

func NewRunner(p Pipeline, sources SourceLoader, lock *pipeline.RunLock,
	config func() (pipeline.Config, error), sink pipeline.LineWriter) *Runner {
	return &Runner{
		pipeline: p,
		sources:  sources,
		lock:     lock,
		config:   config,
		sink:     sink,
	}
}

// Run executes one pipeline run. It returns pipeline.ErrRunInProgress when
// another run holds the lock. A panic inside the run is recovered and
// returned as an error; posts inserted before it stay committed.
func (r *Runner) Run(ctx context.Context) (runLog *pipeline.RunLog, err error) {
	token, err := r.lock.Acquire()
	if err != nil {
		return nil, err
	}
	defer r.lock.Release(token)

	startedAt := time.Now()
	runLog = pipeline.NewRunLog(r.sink)

	defer func() {
		if recovered := recover(); recovered != nil {
			slog.Error("Pipeline run panicked", "panic", recovered)
			err = fmt.Errorf("pipeline run panicked: %v", recovered)
			runLog.Add("Error: %v", err)
		}
	}()

	config, err := r.config()
	if err != nil {
		runLog.Add("Error: %v", err)
		return runLog, err
	}

	if err := r.sources.Run(); err != nil {
		slog.Warn("Failed to reload feed sources, using previous list", "error", err)
	}

	err = r.pipeline.RunWith(ctx, r.sources.GetSources(), config, runLog)

	slog.Debug("Pipeline run finished", "duration", time.Since(startedAt), "error", err)

	return runLog, err
}
