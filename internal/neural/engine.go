package neural

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/llm"
	"github.com/joseph-ayodele/translation-backend/internal/utils"
)

const providerName = "neural"

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Engine translates batches with one model on the model server:
// POST {base}/translate {"model", "src_lang", "tgt_lang", "texts"} -> {"translations": [...]}.
type Engine struct {
	model   Model
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewEngine(model Model, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Engine{
		model:   model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger.With("provider", providerName, "model", model.ID),
	}
}

type translateRequest struct {
	Model   string   `json:"model"`
	SrcLang string   `json:"src_lang"`
	TgtLang string   `json:"tgt_lang"`
	Texts   []string `json:"texts"`
}

type translateResponse struct {
	Translations []string `json:"translations"`
}

// Translate returns one translation per input text, in order.
func (e *Engine) Translate(ctx context.Context, texts []string, src, tgt string) ([]string, error) {
	if len(texts) == 0 {
		return nil, common.NoTextDetected("no text to translate")
	}
	srcCode, err := e.model.NativeCode(src)
	if err != nil {
		return nil, err
	}
	tgtCode, err := e.model.NativeCode(tgt)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	log := common.LoggerFrom(ctx, e.logger)
	raw, _, err := utils.SendJSON(ctx, e.client, e.baseURL+"/translate", translateRequest{
		Model:   e.model.ID,
		SrcLang: srcCode,
		TgtLang: tgtCode,
		Texts:   texts,
	}, nil, log)
	if err != nil {
		return nil, llm.Classify(providerName, err)
	}

	var out translateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, common.ProviderError(common.KindProviderGeneric, providerName, fmt.Errorf("decode translations: %w", err))
	}
	if len(out.Translations) != len(texts) {
		return nil, common.ProviderError(common.KindProviderGeneric, providerName,
			fmt.Errorf("model returned %d translations for %d texts", len(out.Translations), len(texts)))
	}
	log.Info("neural.translated",
		"lines", len(texts),
		"src", srcCode,
		"tgt", tgtCode,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out.Translations, nil
}

// Health asks the model server whether it is up.
func (e *Engine) Health(ctx context.Context) error {
	if _, _, err := utils.Get(ctx, e.client, e.baseURL+"/health", nil, e.logger); err != nil {
		return llm.Classify(providerName, err)
	}
	return nil
}

// Warm asks the model server to load the model weights ahead of traffic.
func (e *Engine) Warm(ctx context.Context) error {
	if _, _, err := utils.SendJSON(ctx, e.client, e.baseURL+"/load", map[string]string{"model": e.model.ID}, nil, e.logger); err != nil {
		return llm.Classify(providerName, err)
	}
	e.logger.Info("neural.warm", "ok", true)
	return nil
}
