package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/entity"
)

// tsvWordLevel is the "level" column value tesseract uses for words.
const tsvWordLevel = 5

type CLIConfig struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Languages   []string
	TessdataDir string
	PSM         int // page segmentation mode; 0 leaves tesseract's default
}

// CLIExtractor shells out to the tesseract binary and parses its TSV output.
type CLIExtractor struct {
	cfg    CLIConfig
	runner Runner
	logger *slog.Logger
}

func NewCLIExtractor(cfg CLIConfig, logger *slog.Logger) *CLIExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	return &CLIExtractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the command runner.
func (e *CLIExtractor) WithRunner(r Runner) *CLIExtractor {
	e.runner = r
	return e
}

func (e *CLIExtractor) Extract(ctx context.Context, img image.Image) ([]entity.TextRegion, error) {
	start := time.Now()
	tmpDir, err := os.MkdirTemp("", "tb-ocr-*")
	if err != nil {
		return nil, common.WrapError(err, "ocr temp dir")
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("ocr.cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	path := filepath.Join(tmpDir, "page.png")
	if err := writePNG(path, img); err != nil {
		return nil, common.WrapError(err, "ocr write image")
	}

	// tesseract <file> stdout -l <langs> [--psm n] [--tessdata-dir d] tsv
	args := []string{path, "stdout", "-l", LanguageArg(e.cfg.Languages)}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return nil, fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	regions, err := ParseTSV(string(out))
	if err != nil {
		return nil, err
	}
	regions = FilterEmpty(regions)
	e.logger.Info("ocr.extract", "strategy", "tesseract-cli", "regions", len(regions),
		"elapsed_ms", time.Since(start).Milliseconds())
	return regions, nil
}

// ParseTSV reads word rows from tesseract TSV output. Columns are
// level page block par line word left top width height conf text.
func ParseTSV(tsv string) ([]entity.TextRegion, error) {
	var regions []entity.TextRegion
	for i, ln := range strings.Split(tsv, "\n") {
		if i == 0 || strings.TrimSpace(ln) == "" {
			continue
		}
		cols := strings.Split(strings.TrimRight(ln, "\r"), "\t")
		if len(cols) < 12 {
			continue
		}
		level, err := strconv.Atoi(cols[0])
		if err != nil || level != tsvWordLevel {
			continue
		}
		var nums [4]int
		for j := range nums {
			n, err := strconv.Atoi(cols[6+j])
			if err != nil {
				return nil, fmt.Errorf("tsv row %d: bad column %d: %w", i, 6+j, err)
			}
			nums[j] = n
		}
		conf, _ := strconv.ParseFloat(cols[10], 64)
		if conf < 0 {
			continue
		}
		regions = append(regions, entity.TextRegion{
			Text:       strings.Join(cols[11:], "\t"),
			Box:        entity.Box{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]},
			Confidence: conf / 100,
		})
	}
	return regions, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
