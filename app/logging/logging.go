package logging

import (
	"log/slog"
	"os"
)

// Setup installs the default slog text logger on stdout. Run events are
// written separately to the RotatingFile activity log.
func Setup(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return logger
}
