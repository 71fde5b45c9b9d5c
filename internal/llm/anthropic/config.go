package anthropic

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	lcanthropic "github.com/tmc/langchaingo/llms/anthropic"

	"github.com/joseph-ayodele/translation-backend/internal/common"
)

const (
	apiVersion   = "2023-06-01"
	providerName = "anthropic"
)

// Config for the Anthropic provider.
type Config struct {
	APIKey      string // if empty, falls back to env ANTHROPIC_API_KEY
	BaseURL     string // default https://api.anthropic.com/v1
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type Client struct {
	cfg    Config
	model  *lcanthropic.LLM
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, common.ProviderError(common.KindProviderAuth, providerName, errors.New("missing API key"))
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "claude-3-7-sonnet-20250219"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	model, err := lcanthropic.New(
		lcanthropic.WithModel(cfg.Model),
		lcanthropic.WithToken(cfg.APIKey),
		lcanthropic.WithBaseURL(cfg.BaseURL),
		lcanthropic.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, common.ProviderError(common.KindProviderGeneric, providerName, fmt.Errorf("anthropic client: %w", err))
	}
	return &Client{
		cfg:    cfg,
		model:  model,
		http:   httpClient,
		logger: logger.With("provider", providerName, "model", cfg.Model),
	}, nil
}
