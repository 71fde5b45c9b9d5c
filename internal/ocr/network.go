package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joseph-ayodele/translation-backend/internal/entity"
	"github.com/joseph-ayodele/translation-backend/internal/utils"
)

type NetworkConfig struct {
	BaseURL   string
	Languages []string
	Timeout   time.Duration
}

// NetworkExtractor calls a detection service that returns word quadrilaterals:
// POST {base}/ocr {"image_b64", "languages"} ->
// {"regions": [{"text", "points": [[x,y] x4], "confidence"}]}.
type NetworkExtractor struct {
	cfg    NetworkConfig
	client *http.Client
	logger *slog.Logger
}

func NewNetworkExtractor(cfg NetworkConfig, logger *slog.Logger) *NetworkExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &NetworkExtractor{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}, logger: logger}
}

type networkRequest struct {
	ImageB64  string   `json:"image_b64"`
	Languages []string `json:"languages,omitempty"`
}

type networkRegion struct {
	Text       string      `json:"text"`
	Points     [][]float64 `json:"points"`
	Confidence float64     `json:"confidence"`
}

type networkResponse struct {
	Regions []networkRegion `json:"regions"`
}

func (e *NetworkExtractor) Extract(ctx context.Context, img image.Image) ([]entity.TextRegion, error) {
	start := time.Now()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	req := networkRequest{
		ImageB64:  base64.StdEncoding.EncodeToString(buf.Bytes()),
		Languages: e.cfg.Languages,
	}
	body, _, err := utils.SendJSON(ctx, e.client, e.cfg.BaseURL+"/ocr", req, nil, e.logger)
	if err != nil {
		return nil, fmt.Errorf("ocr service: %w", err)
	}
	var resp networkResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode ocr response: %w", err)
	}

	regions := make([]entity.TextRegion, 0, len(resp.Regions))
	for _, r := range resp.Regions {
		box, ok := QuadToBox(r.Points)
		if !ok {
			continue
		}
		regions = append(regions, entity.TextRegion{Text: r.Text, Box: box, Confidence: r.Confidence})
	}
	regions = FilterEmpty(regions)
	e.logger.Info("ocr.extract", "strategy", "network", "regions", len(regions),
		"elapsed_ms", time.Since(start).Milliseconds())
	return regions, nil
}

// QuadToBox converts a quadrilateral to its axis-aligned bounding box.
func QuadToBox(points [][]float64) (entity.Box, bool) {
	if len(points) == 0 || len(points[0]) < 2 {
		return entity.Box{}, false
	}
	minX, minY := points[0][0], points[0][1]
	maxX, maxY := minX, minY
	for _, p := range points {
		if len(p) < 2 {
			return entity.Box{}, false
		}
		minX, maxX = min(minX, p[0]), max(maxX, p[0])
		minY, maxY = min(minY, p[1]), max(maxY, p[1])
	}
	return entity.Box{
		X: int(minX),
		Y: int(minY),
		W: int(maxX) - int(minX),
		H: int(maxY) - int(minY),
	}, true
}
