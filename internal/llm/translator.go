package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/translation-backend/internal/common"
)

// Translator adapts a Provider to the batch translation contract.
type Translator struct {
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
}

func NewTranslator(p Provider, timeout time.Duration, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Translator{provider: p, timeout: timeout, logger: logger}
}

// Health runs the provider's pre-flight probe under the call timeout.
func (t *Translator) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return Classify(t.provider.Name(), t.provider.Health(ctx))
}

// Translate probes the provider, sends the whole batch as one prompt and
// returns exactly len(lines) translations in input order.
func (t *Translator) Translate(ctx context.Context, lines []string, src, tgt string) ([]string, error) {
	name := t.provider.Name()
	log := common.LoggerFrom(ctx, t.logger).With("provider", name)
	if len(lines) == 0 {
		return nil, common.NoTextDetected("no text to translate")
	}

	if err := t.Health(ctx); err != nil {
		log.Warn("llm.health", "ok", false, "kind", common.KindOf(err), "error", err)
		return nil, err
	}

	req := BatchRequest{Lines: lines, SrcLang: src, TgtLang: tgt}
	start := time.Now()

	cctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	raw, err := t.provider.Complete(cctx, BuildSystemPrompt(req), BuildUserPrompt(req))
	if err != nil {
		err = Classify(name, err)
		log.Error("llm.complete", "kind", common.KindOf(err), "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	out, method, err := ParseBatch(raw, len(lines))
	if err != nil {
		log.Error("llm.parse", "method", method, "error", err)
		return nil, common.ProviderError(common.KindProviderGeneric, name, fmt.Errorf("parse reply: %w", err))
	}
	log.Info("llm.translated",
		"lines", len(out),
		"method", method,
		"src", src,
		"tgt", tgt,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
