// Package strategy builds the configured OCR extractor.
package strategy

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/ocr"
	"github.com/joseph-ayodele/translation-backend/internal/ocr/gosseract"
)

const (
	Gosseract    = "gosseract"
	TesseractCLI = "tesseract-cli"
	Network      = "network"
)

// New returns the extractor named by cfg.Strategy.
func New(cfg common.OCRConfig, logger *slog.Logger) (ocr.Extractor, error) {
	switch cfg.Strategy {
	case Gosseract, "":
		return gosseract.New(gosseract.Config{Languages: cfg.Languages, TessdataDir: cfg.TessdataDir}, logger)
	case TesseractCLI:
		return ocr.NewCLIExtractor(ocr.CLIConfig{
			Tesseract:   cfg.TesseractPath,
			Languages:   cfg.Languages,
			TessdataDir: cfg.TessdataDir,
		}, logger), nil
	case Network:
		return ocr.NewNetworkExtractor(ocr.NetworkConfig{
			BaseURL:   cfg.NetworkURL,
			Languages: cfg.Languages,
			Timeout:   cfg.Timeout,
		}, logger), nil
	default:
		return nil, common.InvalidInput(fmt.Sprintf("unknown ocr strategy %q", cfg.Strategy), nil)
	}
}
