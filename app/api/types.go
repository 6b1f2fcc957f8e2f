package api

import (
	"context"

	"github.com/lysyi3m/autonews/app/database"
	"github.com/lysyi3m/autonews/app/feed"
	"github.com/lysyi3m/autonews/app/logging"
	"github.com/lysyi3m/autonews/app/tasks"
)

type LogTailer interface {
	Tail(n int) ([]string, error)
}

type SourceCounter interface {
	GetSourceCount() int
}

type PostCounter interface {
	GetPostCount(ctx context.Context) (int, error)
}

var (
	_ LogTailer     = (*logging.RotatingFile)(nil)
	_ SourceCounter = (*feed.SourceCache)(nil)
	_ PostCounter   = (database.PostRepository)(nil)
)

type Handler struct {
	runner  tasks.PipelineRunner
	logs    LogTailer
	sources SourceCounter
	posts   PostCounter
	nonces  *NonceStore
	version string
}

type runRequest struct {
	Nonce string `json:"nonce" binding:"required"`
}

type runData struct {
	Logs []string `json:"logs"`
}

type logsData struct {
	Lines []string `json:"lines"`
}

type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
