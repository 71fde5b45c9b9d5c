// Package ocr extracts word-level text regions from images.
package ocr

import (
	"context"
	"image"
	"strings"

	"github.com/joseph-ayodele/translation-backend/internal/entity"
)

// Extractor returns word regions in image pixel coordinates.
type Extractor interface {
	Extract(ctx context.Context, img image.Image) ([]entity.TextRegion, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, img image.Image) ([]entity.TextRegion, error)

func (f ExtractorFunc) Extract(ctx context.Context, img image.Image) ([]entity.TextRegion, error) {
	return f(ctx, img)
}

// FilterEmpty trims region text and drops regions that end up blank or have
// no area.
func FilterEmpty(regions []entity.TextRegion) []entity.TextRegion {
	out := regions[:0:0]
	for _, r := range regions {
		r.Text = strings.TrimSpace(r.Text)
		if r.Text == "" || r.Box.W <= 0 || r.Box.H <= 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}

// LanguageArg joins tesseract language packs the way the CLI expects.
func LanguageArg(langs []string) string {
	if len(langs) == 0 {
		return "eng"
	}
	return strings.Join(langs, "+")
}
