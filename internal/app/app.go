// Package app assembles the translation stack from configuration. Every
// binary under cmd/ builds its processor through here.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/translation-backend/internal/cache"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/export"
	"github.com/joseph-ayodele/translation-backend/internal/lang"
	"github.com/joseph-ayodele/translation-backend/internal/ocr"
	"github.com/joseph-ayodele/translation-backend/internal/ocr/strategy"
	"github.com/joseph-ayodele/translation-backend/internal/pipeline"
	"github.com/joseph-ayodele/translation-backend/internal/render"
	"github.com/joseph-ayodele/translation-backend/internal/repository"
	"github.com/joseph-ayodele/translation-backend/internal/translate"
)

// NewLogger writes text records without time or level, matching the
// service's log format.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// Options toggles the optional stores.
type Options struct {
	Ledger bool // open the database and record jobs
	Cache  bool // connect to Redis when REDIS_ADDR is set
}

// App holds the built stack and the resources it must release.
type App struct {
	Config     *common.Config
	Processor  *pipeline.Processor
	Dispatcher *translate.Dispatcher
	Exporter   *export.Service
	DB         *repository.DB
	Jobs       repository.TranslationJobRepository

	Extractor ocr.Extractor

	closers []func()
	logger    *slog.Logger
}

// Build wires OCR, engines, renderer and the optional ledger and cache.
// On error everything opened so far is released.
func Build(ctx context.Context, cfg *common.Config, opts Options, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, logger: logger}
	built, err := a.build(ctx, opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	return built, nil
}

func (a *App) build(ctx context.Context, opts Options) (*App, error) {
	cfg, logger := a.Config, a.logger

	extractor, err := strategy.New(cfg.OCR, logger)
	if err != nil {
		return nil, err
	}
	a.Extractor = extractor
	if c, ok := extractor.(io.Closer); ok {
		a.closers = append(a.closers, func() { _ = c.Close() })
	}

	registry, err := translate.NewDefaultRegistry(cfg.Translation, logger)
	if err != nil {
		return nil, err
	}
	a.Dispatcher = translate.NewDispatcher(registry, logger)

	renderer, err := render.NewRenderer(render.Config{
		FontPath:   cfg.Render.FontPath,
		BlurRadius: cfg.Render.BlurRadius,
		FontShrink: cfg.Render.FontShrink,
	}, logger)
	if err != nil {
		return nil, err
	}

	var popts []pipeline.Option
	if cfg.Translation.DetectorURL != "" {
		popts = append(popts, pipeline.WithDetector(lang.NewHTTPDetector(cfg.Translation.DetectorURL, 10*time.Second, logger)))
	}

	if opts.Ledger {
		db, err := repository.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		a.DB = db
		a.closers = append(a.closers, func() { db.Close(logger) })
		if err := db.HealthCheck(ctx, 5*time.Second); err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			return nil, err
		}
		a.Jobs = repository.NewTranslationJobRepository(db, logger)
		popts = append(popts, pipeline.WithLedger(a.Jobs))
	}
	a.Exporter = export.NewService(a.Jobs, logger)

	if opts.Cache && cfg.Cache.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.Cache.RedisAddr, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		popts = append(popts, pipeline.WithCache(cache.NewRedis(client, cfg.Cache.TTL)))
	}

	a.Processor = pipeline.NewProcessor(pipeline.Config{
		LineYThreshold: cfg.Render.LineYThreshold,
		DefaultEngine:  cfg.Translation.DefaultEngine,
	}, extractor, a.Dispatcher, renderer, logger, popts...)
	return a, nil
}

// Health probes every engine that supports it and joins the failures.
func (a *App) Health(ctx context.Context) error {
	var errs []error
	for _, sel := range a.Dispatcher.Engines() {
		if err := a.Dispatcher.Health(ctx, sel.String()); err != nil {
			errs = append(errs, common.WrapError(err, sel.String()))
		}
	}
	return errors.Join(errs...)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
