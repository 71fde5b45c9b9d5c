package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/translation-backend/internal/app"
	"github.com/joseph-ayodele/translation-backend/internal/async"
	"github.com/joseph-ayodele/translation-backend/internal/cache"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/ingest"
	"github.com/joseph-ayodele/translation-backend/internal/queue"
)

func main() {
	logger := app.NewLogger(slog.LevelInfo)
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if cfg.Cache.RedisAddr == "" && cfg.Worker.WatchDir == "" {
		logger.Error("nothing to do: set REDIS_ADDR for the job queue or WATCH_DIR for a hot folder")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, app.Options{Ledger: true, Cache: true}, logger)
	if err != nil {
		logger.Error("failed to build translation stack", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	q := async.NewProcessorQueue(a.Processor, logger,
		async.WithWorkers(cfg.Worker.Concurrency),
		async.WithQueueSize(128),
		async.WithProcessTimeout(cfg.Worker.JobTimeout),
	)

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Cache.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.Cache.RedisAddr, logger)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		consumer := queue.NewConsumer(queue.Config{
			QueueName: cfg.Worker.QueueName,
			ResultTTL: cfg.Worker.ResultTTL,
		}, client, q, logger)
		g.Go(func() error { return consumer.Run(gctx) })
	}
	if cfg.Worker.WatchDir != "" {
		hf := ingest.NewHotFolder(ingest.HotFolderConfig{
			WatchDir:  cfg.Worker.WatchDir,
			OutputDir: cfg.Worker.OutputDir,
			SrcLang:   cfg.Worker.DefaultSrc,
			TgtLang:   cfg.Worker.DefaultTgt,
			Engine:    cfg.Translation.DefaultEngine,
			MaxBytes:  int64(cfg.Server.MaxImageBytes),
		}, q, logger)
		g.Go(func() error { return hf.Run(gctx) })
	}

	logger.Info("translate-worker started", "queue", cfg.Worker.QueueName, "watch_dir", cfg.Worker.WatchDir,
		"workers", cfg.Worker.Concurrency)
	err = g.Wait()
	q.Shutdown(context.Background())
	if err != nil && ctx.Err() == nil {
		logger.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}
