package translate

import (
	"log/slog"

	"github.com/joseph-ayodele/translation-backend/constants"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/llm"
	"github.com/joseph-ayodele/translation-backend/internal/llm/anthropic"
	"github.com/joseph-ayodele/translation-backend/internal/llm/openai"
	"github.com/joseph-ayodele/translation-backend/internal/neural"
)

// NewDefaultRegistry registers every catalog model and both LLM providers.
// Nothing is dialled until an engine is first used.
func NewDefaultRegistry(cfg common.TranslationConfig, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	catalog, err := neural.LoadCatalog()
	if err != nil {
		return nil, err
	}

	r := NewRegistry()
	for _, id := range catalog.IDs() {
		model, _ := catalog.Lookup(id)
		r.Register(Selector{Family: constants.FamilyNeural, Model: id}, func() (Engine, error) {
			logger.Info("engine.init", "engine", constants.FamilyNeural, "model", model.ID)
			return neural.NewEngine(model, neural.Config{BaseURL: cfg.NeuralBaseURL, Timeout: cfg.NeuralTimeout}, logger), nil
		})
	}

	r.Register(Selector{Family: constants.FamilyLLM, Model: constants.ProviderOpenAI}, func() (Engine, error) {
		logger.Info("engine.init", "engine", constants.FamilyLLM, "model", constants.ProviderOpenAI)
		c := openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			Temperature: float32(cfg.Temperature),
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.LLMTimeout,
		}, logger)
		return llm.NewTranslator(c, cfg.LLMTimeout, logger), nil
	})

	r.Register(Selector{Family: constants.FamilyLLM, Model: constants.ProviderAnthropic}, func() (Engine, error) {
		logger.Info("engine.init", "engine", constants.FamilyLLM, "model", constants.ProviderAnthropic)
		c, err := anthropic.NewClient(anthropic.Config{
			APIKey:      cfg.AnthropicAPIKey,
			BaseURL:     cfg.AnthropicBaseURL,
			Model:       cfg.AnthropicModel,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.LLMTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return llm.NewTranslator(c, cfg.LLMTimeout, logger), nil
	})
	return r, nil
}
