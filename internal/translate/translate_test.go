package translate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"google.golang.org/grpc/codes"

	"github.com/joseph-ayodele/translation-backend/constants"
	"github.com/joseph-ayodele/translation-backend/internal/common"
)

type upperEngine struct {
	calls atomic.Int32
	drop  bool
}

func (e *upperEngine) Translate(_ context.Context, texts []string, _, _ string) ([]string, error) {
	e.calls.Add(1)
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		out = append(out, strings.ToUpper(t))
	}
	if e.drop {
		out = out[:len(out)-1]
	}
	return out, nil
}

func TestParseSelector(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Selector
	}{
		{"ml_:_facebook/m2m100_1.2B", Selector{constants.FamilyNeural, constants.ModelM2M100Large}},
		{"ml", Selector{constants.FamilyNeural, constants.ModelM2M100Small}},
		{"llm_:_OpenAI", Selector{constants.FamilyLLM, constants.ProviderOpenAI}},
		{"llm", Selector{constants.FamilyLLM, constants.ProviderOpenAI}},
		{"nmt_:_facebook/mbart-large-50-many-to-many-mmt", Selector{constants.FamilyNeural, constants.ModelMBart50}},
	}
	for _, tc := range cases {
		got, err := ParseSelector(tc.in)
		if err != nil {
			t.Fatalf("ParseSelector(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseSelector(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseSelectorRejectsUnknownFamily(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "rules_:_x", "_:_openai"} {
		if _, err := ParseSelector(in); !common.IsKind(err, common.KindUnsupportedEngine) {
			t.Fatalf("ParseSelector(%q) err = %v, want UnsupportedEngine", in, err)
		}
	}
}

func TestSelectorString(t *testing.T) {
	t.Parallel()

	s := Selector{Family: constants.FamilyLLM, Model: "anthropic"}
	if got := s.String(); got != "llm_:_anthropic" {
		t.Fatalf("String() = %q", got)
	}
}

func TestRegistryBuildsOnce(t *testing.T) {
	t.Parallel()

	var builds atomic.Int32
	r := NewRegistry()
	sel := Selector{Family: constants.FamilyNeural, Model: "m"}
	r.Register(sel, func() (Engine, error) {
		builds.Add(1)
		return &upperEngine{}, nil
	})

	var wg sync.WaitGroup
	engines := make([]Engine, 8)
	for i := range engines {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := r.Engine(sel)
			if err != nil {
				t.Errorf("Engine: %v", err)
				return
			}
			engines[i] = e
		}(i)
	}
	wg.Wait()

	if n := builds.Load(); n != 1 {
		t.Fatalf("factory ran %d times, want 1", n)
	}
	for _, e := range engines[1:] {
		if e != engines[0] {
			t.Fatal("callers received different engine instances")
		}
	}
}

func TestRegistryFactoryErrorIsSticky(t *testing.T) {
	t.Parallel()

	var builds atomic.Int32
	r := NewRegistry()
	sel := Selector{Family: constants.FamilyLLM, Model: "broken"}
	r.Register(sel, func() (Engine, error) {
		builds.Add(1)
		return nil, errors.New("no credentials")
	})
	for i := 0; i < 3; i++ {
		if _, err := r.Engine(sel); err == nil {
			t.Fatal("expected factory error")
		}
	}
	if n := builds.Load(); n != 1 {
		t.Fatalf("factory ran %d times, want 1", n)
	}
}

func TestDispatcherTranslate(t *testing.T) {
	t.Parallel()

	eng := &upperEngine{}
	r := NewRegistry()
	r.Register(Selector{Family: constants.FamilyNeural, Model: constants.ModelM2M100Small}, func() (Engine, error) { return eng, nil })
	d := NewDispatcher(r, nil)

	got, err := d.Translate(context.Background(), []string{"Hola Mundo", "adios"}, "es", "en", "ml")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(got) != 2 || got[0] != "HOLA MUNDO" || got[1] != "ADIOS" {
		t.Fatalf("got %q", got)
	}
}

func TestDispatcherEmptyBatchSkipsEngine(t *testing.T) {
	t.Parallel()

	eng := &upperEngine{}
	r := NewRegistry()
	r.Register(Selector{Family: constants.FamilyNeural, Model: constants.ModelM2M100Small}, func() (Engine, error) { return eng, nil })
	d := NewDispatcher(r, nil)

	_, err := d.Translate(context.Background(), nil, "es", "en", "ml")
	if !common.IsKind(err, common.KindNoTextDetected) {
		t.Fatalf("err = %v, want NoTextDetected", err)
	}
	if eng.calls.Load() != 0 {
		t.Fatal("engine called for empty batch")
	}
}

func TestDispatcherUnknownModel(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(NewRegistry(), nil)
	_, err := d.Translate(context.Background(), []string{"x"}, "es", "en", "ml_:_unknown-model")
	if !common.IsKind(err, common.KindUnsupportedEngine) {
		t.Fatalf("err = %v, want UnsupportedEngine", err)
	}
}

func TestDispatcherLengthMismatch(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(Selector{Family: constants.FamilyLLM, Model: "openai"}, func() (Engine, error) { return &upperEngine{drop: true}, nil })
	d := NewDispatcher(r, nil)

	_, err := d.Translate(context.Background(), []string{"a", "b"}, "es", "en", "llm_:_openai")
	if !common.IsKind(err, common.KindProviderGeneric) {
		t.Fatalf("err = %v, want ProviderGeneric", err)
	}
}

func TestDefaultRegistrySelectors(t *testing.T) {
	t.Parallel()

	r, err := NewDefaultRegistry(common.TranslationConfig{}, nil)
	if err != nil {
		t.Fatalf("NewDefaultRegistry: %v", err)
	}
	want := map[string]bool{
		"ml_:_" + constants.ModelM2M100Small: false,
		"ml_:_" + constants.ModelM2M100Large: false,
		"ml_:_" + constants.ModelMBart50:     false,
		"llm_:_openai":                       false,
		"llm_:_anthropic":                    false,
	}
	for _, sel := range r.Engines() {
		if _, ok := want[sel.String()]; ok {
			want[sel.String()] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Fatalf("selector %s not registered", k)
		}
	}
}

func TestDefaultRegistryAnthropicWithoutKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	r, err := NewDefaultRegistry(common.TranslationConfig{}, nil)
	if err != nil {
		t.Fatalf("NewDefaultRegistry: %v", err)
	}
	_, err = NewDispatcher(r, nil).Translate(context.Background(), []string{"Hola"}, "es", "en", "llm_:_anthropic")
	if !common.IsKind(err, common.KindProviderAuth) {
		t.Fatalf("err = %v (kind %q), want ProviderAuth", err, common.KindOf(err))
	}
	if got := common.GRPCCode(common.KindOf(err)); got != codes.Unauthenticated {
		t.Fatalf("code = %v, want Unauthenticated", got)
	}
}
