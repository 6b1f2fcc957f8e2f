package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/autonews/app/pipeline"
	"github.com/lysyi3m/autonews/app/tasks"
)

const (
	defaultLogLines = 100
	maxLogLines     = 1000
)

func NewHandler(runner tasks.PipelineRunner, logs LogTailer, sources SourceCounter,
	posts PostCounter, nonces *NonceStore, version string) *Handler {
	return &Handler{
		runner:  runner,
		logs:    logs,
		sources: sources,
		posts:   posts,
		nonces:  nonces,
		version: version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"feeds":     h.sources.GetSourceCount(),
	}

	if postCount, err := h.posts.GetPostCount(c.Request.Context()); err == nil {
		health["posts"] = postCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIGetNonce(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"nonce": h.nonces.Issue()})
}

// APIRunPipeline runs the pipeline synchronously and returns its log. The
// run outlives a disconnected client.
func (h *Handler) APIRunPipeline(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{Error: "Missing nonce"})
		return
	}

	if !h.nonces.Consume(req.Nonce) {
		c.JSON(http.StatusForbidden, response{Error: "Invalid or expired nonce"})
		return
	}

	slog.Info("Manual pipeline run requested", "client", c.ClientIP())

	runLog, err := h.runner.Run(context.WithoutCancel(c.Request.Context()))
	if errors.Is(err, pipeline.ErrRunInProgress) {
		c.JSON(http.StatusConflict, response{Error: err.Error()})
		return
	}

	logs := []string{}
	if runLog != nil {
		logs = runLog.Entries()
	}

	if err != nil {
		slog.Error("Manual pipeline run failed", "error", err)
		c.JSON(http.StatusOK, response{Success: false, Data: runData{Logs: logs}, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response{Success: true, Data: runData{Logs: logs}})
}

func (h *Handler) APIGetLogs(c *gin.Context) {
	lines := defaultLogLines
	if raw := c.Query("lines"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, response{Error: "Invalid lines parameter"})
			return
		}
		lines = min(n, maxLogLines)
	}

	tail, err := h.logs.Tail(lines)
	if err != nil {
		slog.Error("Failed to read activity log", "error", err)
		c.JSON(http.StatusInternalServerError, response{Error: "Failed to read log"})
		return
	}

	c.JSON(http.StatusOK, response{Success: true, Data: logsData{Lines: tail}})
}
