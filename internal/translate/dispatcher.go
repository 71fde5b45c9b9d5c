package translate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/translation-backend/internal/common"
)

// Dispatcher routes batches to the engine named by a selector.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Resolve parses selector and returns its engine.
func (d *Dispatcher) Resolve(selector string) (Selector, Engine, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return Selector{}, nil, err
	}
	eng, err := d.registry.Engine(sel)
	if err != nil {
		return sel, nil, err
	}
	return sel, eng, nil
}

// Translate returns one translation per line, in order. An empty batch fails
// with NoTextDetected before any engine is resolved or called.
func (d *Dispatcher) Translate(ctx context.Context, lines []string, src, tgt, selector string) ([]string, error) {
	if len(lines) == 0 {
		return nil, common.NoTextDetected("no text to translate")
	}
	sel, eng, err := d.Resolve(selector)
	if err != nil {
		return nil, err
	}

	log := common.LoggerFrom(ctx, d.logger).With("engine", sel.String(), "src", src, "tgt", tgt)
	start := time.Now()
	out, err := eng.Translate(ctx, lines, src, tgt)
	if err != nil {
		log.Error("translate.dispatch", "lines", len(lines), "kind", common.KindOf(err), "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	if len(out) != len(lines) {
		err := common.ProviderError(common.KindProviderGeneric, sel.String(),
			fmt.Errorf("engine returned %d lines for %d inputs", len(out), len(lines)))
		log.Error("translate.dispatch", "lines", len(lines), "error", err)
		return nil, err
	}
	log.Info("translate.dispatch", "lines", len(lines), "elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}

// Health probes the engine behind selector when it supports probing.
func (d *Dispatcher) Health(ctx context.Context, selector string) error {
	_, eng, err := d.Resolve(selector)
	if err != nil {
		return err
	}
	if hc, ok := eng.(HealthChecker); ok {
		return hc.Health(ctx)
	}
	return nil
}

// Engines lists every engine the dispatcher can route to.
func (d *Dispatcher) Engines() []Selector {
	return d.registry.Engines()
}
