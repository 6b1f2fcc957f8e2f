package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/autonews/app/api"
	"github.com/lysyi3m/autonews/app/cfg"
	"github.com/lysyi3m/autonews/app/database"
	"github.com/lysyi3m/autonews/app/feed"
	"github.com/lysyi3m/autonews/app/images"
	"github.com/lysyi3m/autonews/app/logging"
	"github.com/lysyi3m/autonews/app/media"
	"github.com/lysyi3m/autonews/app/notify"
	"github.com/lysyi3m/autonews/app/pipeline"
	"github.com/lysyi3m/autonews/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// help was shown
		return
	}

	logging.Setup(appCfg.Debug)

	slog.Info("Starting AutoNews server", "version", appCfg.Version)

	ctx := context.Background()

	db, err := database.Open(ctx, appCfg.DBDriver, appCfg.DBDSN)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "driver", db.Driver, "migration_version", version, "dirty", dirty)

	sources := feed.NewSourceCache(appCfg.FeedsFile, appCfg.FeedURLs, appCfg.FeedCategories)
	if err := sources.Run(); err != nil {
		slog.Error("Failed to load feed sources", "error", err)
		os.Exit(1)
	}
	slog.Info("Feed sources loaded", "count", sources.GetSourceCount())

	postRepo := database.NewPostRepository(db)
	activityLog := logging.NewRotatingFile(appCfg.LogFile, logging.DefaultMaxSize)
	fetcher := feed.NewFetcher(&http.Client{}, appCfg.UserAgent)
	timeout := time.Duration(appCfg.FeedTimeout) * time.Second

	feedPipeline := pipeline.New(pipeline.Deps{
		Feeds:      feed.NewParser(fetcher),
		Extractor:  feed.NewContentExtractor(fetcher, timeout),
		Validator:  images.NewValidator(fetcher, timeout),
		Media:      media.NewStore(appCfg.MediaDir, database.NewMediaRepository(db)),
		Posts:      postRepo,
		Categories: database.NewCategoryRepository(db),
		Authors:    database.NewAuthorRepository(db),
		Notifier:   notify.New(appCfg.TelegramToken, appCfg.TelegramChatID),
	})

	runner := tasks.NewRunner(feedPipeline, sources, pipeline.NewRunLock(pipeline.DefaultLockTTL),
		func() (pipeline.Config, error) { return pipeline.NewConfig(cfg.Get()) }, activityLog)

	scheduler := tasks.NewScheduler(runner, time.Duration(appCfg.SchedulerInterval)*time.Minute)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(runner, activityLog, sources, postRepo, api.NewNonceStore(api.DefaultNonceTTL), appCfg.Version)

	// manual runs are synchronous, so the write timeout covers a whole run
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: pipeline.DefaultLockTTL,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("AutoNews server shutdown complete")
}
