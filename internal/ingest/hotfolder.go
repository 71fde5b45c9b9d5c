package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/translation-backend/internal/async"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/pipeline"
)

type HotFolderConfig struct {
	WatchDir  string
	OutputDir string
	SrcLang   string
	TgtLang   string
	Engine    string
	MaxBytes  int64         // files larger than this are skipped; 0 means no limit
	Debounce  time.Duration // default 500ms
}

// HotFolder translates images dropped into WatchDir and writes both variants
// to OutputDir.
type HotFolder struct {
	cfg    HotFolderConfig
	queue  async.Queue
	logger *slog.Logger
}

func NewHotFolder(cfg HotFolderConfig, q async.Queue, logger *slog.Logger) *HotFolder {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(cfg.WatchDir, "out")
	}
	return &HotFolder{cfg: cfg, queue: q, logger: logger}
}

// Run watches until ctx is done.
func (h *HotFolder) Run(ctx context.Context) error {
	if err := os.MkdirAll(h.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	events, errs, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{h.cfg.WatchDir},
		InitialScan: true,
		Debounce:    h.cfg.Debounce,
	}, h.logger)
	if err != nil {
		return err
	}
	for {
		select {
		case path, ok := <-events:
			if !ok {
				return nil
			}
			if err := h.Submit(ctx, path); err != nil {
				h.logger.Warn("hotfolder.skip", "path", path, "error", err)
			}
		case err, ok := <-errs:
			if ok {
				h.logger.Warn("hotfolder.watch_error", "error", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// Submit reads path and queues it for translation.
func (h *HotFolder) Submit(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if h.cfg.MaxBytes > 0 && info.Size() > h.cfg.MaxBytes {
		return common.InvalidInput(fmt.Sprintf("file is %d bytes, limit %d", info.Size(), h.cfg.MaxBytes), nil)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	edited, transcript := OutputPaths(h.cfg.OutputDir, path)
	return h.queue.Enqueue(ctx, async.Job{
		Source: "watch",
		Request: pipeline.ImageRequest{
			Image:   raw,
			SrcLang: h.cfg.SrcLang,
			TgtLang: h.cfg.TgtLang,
			Engine:  h.cfg.Engine,
		},
		OnDone: func(_ context.Context, res pipeline.ImageResult, err error) {
			if err != nil {
				h.logger.Error("hotfolder.failed", "path", path, "kind", common.KindOf(err), "error", err)
				return
			}
			if err := writeOutputs(edited, transcript, res); err != nil {
				h.logger.Error("hotfolder.write_failed", "path", path, "error", err)
				return
			}
			h.logger.Info("hotfolder.done", "path", path, "edited", edited, "transcript", transcript, "lines", len(res.Lines))
		},
	})
}

func writeOutputs(edited, transcript string, res pipeline.ImageResult) error {
	if err := os.WriteFile(edited, res.Edited, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(transcript, res.Transcript, 0o644); err != nil {
		_ = os.Remove(edited)
		return err
	}
	return nil
}
