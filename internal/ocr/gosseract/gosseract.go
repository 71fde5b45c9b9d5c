// Package gosseract extracts word regions through libtesseract bindings.
package gosseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"sync"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/joseph-ayodele/translation-backend/internal/entity"
	"github.com/joseph-ayodele/translation-backend/internal/ocr"
)

type Config struct {
	Languages   []string
	TessdataDir string
}

// Extractor owns one tesseract client. The client is not safe for concurrent
// use, so calls are serialized.
type Extractor struct {
	mu     sync.Mutex
	client *gosseract.Client
	logger *slog.Logger
}

var _ ocr.Extractor = (*Extractor)(nil)

func New(cfg Config, logger *slog.Logger) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := gosseract.NewClient()
	if cfg.TessdataDir != "" {
		c.TessdataPrefix = cfg.TessdataDir
	}
	langs := cfg.Languages
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	if err := c.SetLanguage(langs...); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("set languages: %w", err)
	}
	return &Extractor{client: c, logger: logger}, nil
}

func (e *Extractor) Extract(ctx context.Context, img image.Image) ([]entity.TextRegion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("bounding boxes: %w", err)
	}

	regions := make([]entity.TextRegion, 0, len(boxes))
	for _, b := range boxes {
		regions = append(regions, entity.TextRegion{
			Text:       b.Word,
			Box:        entity.BoxFromRect(b.Box),
			Confidence: b.Confidence / 100,
		})
	}
	regions = ocr.FilterEmpty(regions)
	e.logger.Info("ocr.extract", "strategy", "gosseract", "regions", len(regions),
		"elapsed_ms", time.Since(start).Milliseconds())
	return regions, nil
}

func (e *Extractor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client.Close()
}
