// Package pipeline sequences the image text-replacement stages and the plain
// text entry point.
package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/translation-backend/constants"
	"github.com/joseph-ayodele/translation-backend/internal/cache"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/entity"
	"github.com/joseph-ayodele/translation-backend/internal/lang"
	"github.com/joseph-ayodele/translation-backend/internal/lines"
	"github.com/joseph-ayodele/translation-backend/internal/ocr"
	"github.com/joseph-ayodele/translation-backend/internal/orient"
	"github.com/joseph-ayodele/translation-backend/internal/render"
	"github.com/joseph-ayodele/translation-backend/internal/translate"
	"github.com/joseph-ayodele/translation-backend/internal/utils"
)

type Config struct {
	LineYThreshold int    // default constants.LineYThreshold
	DefaultEngine  string // used when a request leaves the selector empty
}

// Processor owns the shared stage implementations. It holds no per-request
// state and is safe for concurrent use.
type Processor struct {
	cfg        Config
	extractor  ocr.Extractor
	dispatcher *translate.Dispatcher
	renderer   *render.Renderer
	detector   lang.Detector
	ledger     Ledger
	cache      Cache
	logger     *slog.Logger
}

type Option func(*Processor)

func WithLedger(l Ledger) Option          { return func(p *Processor) { p.ledger = l } }
func WithCache(c Cache) Option            { return func(p *Processor) { p.cache = c } }
func WithDetector(d lang.Detector) Option { return func(p *Processor) { p.detector = d } }

func NewProcessor(cfg Config, extractor ocr.Extractor, dispatcher *translate.Dispatcher, renderer *render.Renderer, logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.LineYThreshold <= 0 {
		cfg.LineYThreshold = constants.LineYThreshold
	}
	if cfg.DefaultEngine == "" {
		cfg.DefaultEngine = string(constants.FamilyNeural)
	}
	p := &Processor{
		cfg:        cfg,
		extractor:  extractor,
		dispatcher: dispatcher,
		renderer:   renderer,
		logger:     logger,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

type ImageRequest struct {
	Image   []byte
	SrcLang string // detected from the OCR text when empty and a detector is set
	TgtLang string
	Engine  string
}

type ImageResult struct {
	JobID      uuid.UUID                `json:"job_id"`
	SrcLang    string                   `json:"src_lang"`
	Edited     []byte                   `json:"edited"`
	Transcript []byte                   `json:"transcript"`
	Lines      []entity.LineTranslation `json:"lines"`
	Cached     bool                     `json:"-"`
}

// TranslateImage runs the full image pipeline. Any stage failure aborts the
// run; orientation problems are the only ones that are logged and skipped.
func (p *Processor) TranslateImage(ctx context.Context, req ImageRequest) (ImageResult, error) {
	ctx, _ = common.EnsureRequestID(ctx)
	if req.Engine == "" {
		req.Engine = p.cfg.DefaultEngine
	}
	if req.TgtLang == "" {
		return ImageResult{}, common.InvalidInput("tgt_lang is required", nil)
	}
	digest := utils.SHA256Hex(req.Image)

	var key string
	if p.cache != nil && req.SrcLang != "" {
		key = cache.ImageKey(req.SrcLang, req.TgtLang, req.Engine, digest)
		if res, ok := p.cachedImage(ctx, key); ok {
			return res, nil
		}
	}

	job := p.startJob(ctx, entity.TranslationJob{
		Kind:        string(constants.JobKindImage),
		SrcLang:     req.SrcLang,
		TgtLang:     req.TgtLang,
		Engine:      req.Engine,
		InputSHA256: digest,
	})
	if job != uuid.Nil {
		ctx = common.WithJobID(ctx, job)
	}
	log := common.LoggerFrom(ctx, p.logger)

	start := time.Now()
	res, err := p.runImage(ctx, log, req)
	if err != nil {
		p.failJob(ctx, job, err)
		log.Error("pipeline.image.failed", "kind", common.KindOf(err), "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return ImageResult{}, err
	}
	res.JobID = job
	p.finishJob(ctx, job, len(res.Lines))
	log.Info("pipeline.image.done", "lines", len(res.Lines), "engine", req.Engine,
		"edited_bytes", len(res.Edited), "transcript_bytes", len(res.Transcript),
		"elapsed_ms", time.Since(start).Milliseconds())

	if p.cache != nil {
		if key == "" {
			key = cache.ImageKey(res.SrcLang, req.TgtLang, req.Engine, digest)
		}
		p.storeImage(ctx, key, res)
	}
	return res, nil
}

func (p *Processor) runImage(ctx context.Context, log *slog.Logger, req ImageRequest) (ImageResult, error) {
	img, format, err := Decode(req.Image)
	if err != nil {
		return ImageResult{}, err
	}
	log.Debug("pipeline.decode", "format", format, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	img = orient.Correct(ctx, req.Image, img, log)

	regions, err := p.extractor.Extract(ctx, img)
	if err != nil {
		return ImageResult{}, common.WrapError(err, "extract regions")
	}
	merged := lines.MergeAll(lines.Group(regions, p.cfg.LineYThreshold))
	log.Info("pipeline.lines", "regions", len(regions), "lines", len(merged))
	if len(merged) == 0 {
		return ImageResult{}, common.NoTextDetected("no text detected in image")
	}

	src := req.SrcLang
	texts := lines.Texts(merged)
	if src == "" {
		if src, err = p.detect(ctx, strings.Join(texts, "\n")); err != nil {
			return ImageResult{}, err
		}
	}

	translated, err := p.dispatcher.Translate(ctx, texts, src, req.TgtLang, req.Engine)
	if err != nil {
		return ImageResult{}, err
	}

	boxes := lines.Boxes(merged)
	out, err := p.renderer.Render(ctx, img, translated, boxes)
	if err != nil {
		return ImageResult{}, err
	}
	enc, err := render.EncodePNG(out)
	if err != nil {
		return ImageResult{}, err
	}

	pairs := make([]entity.LineTranslation, len(merged))
	for i, m := range merged {
		pairs[i] = entity.LineTranslation{Index: i, Source: m.Text, Translation: translated[i], Box: m.Box}
	}
	return ImageResult{SrcLang: src, Edited: enc.Edited, Transcript: enc.Transcript, Lines: pairs}, nil
}

type TextRequest struct {
	Text    string
	SrcLang string
	TgtLang string
	Engine  string
}

type TextResult struct {
	JobID       uuid.UUID `json:"job_id"`
	SrcLang     string    `json:"src_lang"`
	Translation string    `json:"translation"`
	Cached      bool      `json:"-"`
}

// TranslateText sends one string through the dispatcher as a single-element
// batch.
func (p *Processor) TranslateText(ctx context.Context, req TextRequest) (TextResult, error) {
	ctx, _ = common.EnsureRequestID(ctx)
	if req.Engine == "" {
		req.Engine = p.cfg.DefaultEngine
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return TextResult{}, common.NoTextDetected("text is empty")
	}
	if req.TgtLang == "" {
		return TextResult{}, common.InvalidInput("tgt_lang is required", nil)
	}
	src := req.SrcLang
	if src == "" {
		var err error
		if src, err = p.detect(ctx, text); err != nil {
			return TextResult{}, err
		}
	}

	var key string
	if p.cache != nil {
		key = cache.TextKey(src, req.TgtLang, req.Engine, text)
		if v, ok, err := p.cache.Get(ctx, key); err != nil {
			p.logger.Warn("cache.get_failed", "key", key, "error", err)
		} else if ok {
			return TextResult{SrcLang: src, Translation: string(v), Cached: true}, nil
		}
	}

	job := p.startJob(ctx, entity.TranslationJob{
		Kind:        string(constants.JobKindText),
		SrcLang:     src,
		TgtLang:     req.TgtLang,
		Engine:      req.Engine,
		InputSHA256: utils.SHA256Hex([]byte(text)),
	})
	if job != uuid.Nil {
		ctx = common.WithJobID(ctx, job)
	}

	out, err := p.dispatcher.Translate(ctx, []string{text}, src, req.TgtLang, req.Engine)
	if err != nil {
		p.failJob(ctx, job, err)
		return TextResult{}, err
	}
	p.finishJob(ctx, job, 1)

	if key != "" {
		if err := p.cache.Set(ctx, key, []byte(out[0])); err != nil {
			p.logger.Warn("cache.set_failed", "key", key, "error", err)
		}
	}
	return TextResult{JobID: job, SrcLang: src, Translation: out[0]}, nil
}

// DetectLanguage returns the folded language code of text.
func (p *Processor) DetectLanguage(ctx context.Context, text string) (lang.Detection, error) {
	if p.detector == nil {
		return lang.Detection{}, common.InvalidInput("language detection is not configured", nil)
	}
	return p.detector.Detect(ctx, text)
}

// Engines lists the selectors requests may use.
func (p *Processor) Engines() []translate.Selector {
	return p.dispatcher.Engines()
}

func (p *Processor) detect(ctx context.Context, text string) (string, error) {
	if p.detector == nil {
		return "", common.InvalidInput("src_lang is required", nil)
	}
	d, err := p.detector.Detect(ctx, text)
	if err != nil {
		return "", err
	}
	common.LoggerFrom(ctx, p.logger).Info("pipeline.detect", "lang", d.Language, "confidence", d.Confidence)
	return d.Language, nil
}

func (p *Processor) cachedImage(ctx context.Context, key string) (ImageResult, bool) {
	v, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.logger.Warn("cache.get_failed", "key", key, "error", err)
		return ImageResult{}, false
	}
	if !ok {
		return ImageResult{}, false
	}
	var res ImageResult
	if err := json.Unmarshal(v, &res); err != nil {
		p.logger.Warn("cache.decode_failed", "key", key, "error", err)
		return ImageResult{}, false
	}
	res.Cached = true
	common.LoggerFrom(ctx, p.logger).Info("pipeline.image.cache_hit", "key", key)
	return res, true
}

func (p *Processor) storeImage(ctx context.Context, key string, res ImageResult) {
	v, err := json.Marshal(res)
	if err != nil {
		p.logger.Warn("cache.encode_failed", "key", key, "error", err)
		return
	}
	if err := p.cache.Set(ctx, key, v); err != nil {
		p.logger.Warn("cache.set_failed", "key", key, "error", err)
	}
}

func (p *Processor) startJob(ctx context.Context, job entity.TranslationJob) uuid.UUID {
	if p.ledger == nil {
		return uuid.Nil
	}
	row, err := p.ledger.Start(ctx, job)
	if err != nil {
		p.logger.Warn("ledger.start_failed", "error", err)
		return uuid.Nil
	}
	return row.ID
}

func (p *Processor) finishJob(ctx context.Context, id uuid.UUID, lineCount int) {
	if p.ledger == nil || id == uuid.Nil {
		return
	}
	if err := p.ledger.Finish(ctx, id, lineCount); err != nil {
		p.logger.Warn("ledger.finish_failed", "job_id", id, "error", err)
	}
}

func (p *Processor) failJob(ctx context.Context, id uuid.UUID, cause error) {
	if p.ledger == nil || id == uuid.Nil {
		return
	}
	if err := p.ledger.Fail(ctx, id, string(common.KindOf(cause)), cause.Error()); err != nil {
		p.logger.Warn("ledger.fail_failed", "job_id", id, "error", err)
	}
}
