package translate

import (
	"context"
	"sort"
	"sync"

	"github.com/joseph-ayodele/translation-backend/internal/common"
)

// Engine translates an ordered batch. Implementations must return exactly
// one output per input, in order.
type Engine interface {
	Translate(ctx context.Context, texts []string, src, tgt string) ([]string, error)
}

// HealthChecker is implemented by engines that can probe their backend.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Factory builds an engine. It runs at most once per selector.
type Factory func() (Engine, error)

// Registry maps selectors to lazily built engines. Register everything at
// start-up; after that the registry is read-only and safe for concurrent use.
type Registry struct {
	entries map[Selector]func() (Engine, error)
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[Selector]func() (Engine, error))}
}

// Register binds sel to f. The engine is built on first use and shared after.
func (r *Registry) Register(sel Selector, f Factory) {
	r.entries[sel] = sync.OnceValues(f)
}

// Engine returns the shared engine for sel, building it on first call.
func (r *Registry) Engine(sel Selector) (Engine, error) {
	get, ok := r.entries[sel]
	if !ok {
		return nil, common.UnsupportedEngine(sel.String())
	}
	e, err := get()
	if err != nil {
		return nil, common.WrapError(err, "build engine "+sel.String())
	}
	return e, nil
}

// Engines lists registered selectors, sorted for stable output.
func (r *Registry) Engines() []Selector {
	out := make([]Selector, 0, len(r.entries))
	for sel := range r.entries {
		out = append(out, sel)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
