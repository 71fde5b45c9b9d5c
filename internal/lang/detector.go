package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/utils"
)

// Detector identifies the language of a text.
type Detector interface {
	Detect(ctx context.Context, text string) (Detection, error)
}

type Detection struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// HTTPDetector calls a language-identification sidecar:
// POST {base}/detect {"text": "...", "k": 1} -> {"language": "bs", "confidence": 0.93}.
// The returned language is normalised and folded onto its parent.
type HTTPDetector struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewHTTPDetector(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPDetector {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPDetector{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (d *HTTPDetector) Detect(ctx context.Context, text string) (Detection, error) {
	clean := prepare(text)
	if clean == "" {
		return Detection{}, common.NoTextDetected("nothing to detect a language from")
	}
	raw, _, err := utils.SendJSON(ctx, d.client, d.baseURL+"/detect", map[string]any{"text": clean, "k": 1}, nil, d.logger)
	if err != nil {
		return Detection{}, fmt.Errorf("detect language: %w", err)
	}
	var out Detection
	if err := json.Unmarshal(raw, &out); err != nil {
		return Detection{}, fmt.Errorf("decode detection: %w", err)
	}
	out.Language = strings.TrimPrefix(out.Language, "__label__")
	code, err := Normalize(out.Language)
	if err != nil {
		return Detection{}, err
	}
	out.Language = Parent(code)
	return out, nil
}

var punct = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// prepare lowercases text, drops punctuation and collapses whitespace.
func prepare(text string) string {
	text = punct.ReplaceAllString(strings.ToLower(text), " ")
	return strings.Join(strings.Fields(text), " ")
}
