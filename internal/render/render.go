// Package render erases detected text lines and draws their translations,
// producing an edited image and a white-background transcript image.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/joseph-ayodele/translation-backend/constants"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/entity"
)

type Config struct {
	FontPath   string
	BlurRadius float64
	FontShrink float64
	TextColor  color.Color
}

// Renderer is safe for concurrent use; it only holds the parsed font.
type Renderer struct {
	font   *Font
	blur   float64
	shrink float64
	ink    color.Color
	logger *slog.Logger
}

// Result holds both rendered variants. Both are set or neither is.
type Result struct {
	Edited     image.Image
	Transcript image.Image
	Plan       entity.RenderPlan
}

func NewRenderer(cfg Config, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := LoadFont(cfg.FontPath)
	if err != nil {
		return nil, common.RenderingFailure("load font", err)
	}
	if cfg.BlurRadius <= 0 {
		cfg.BlurRadius = constants.BlurRadius
	}
	if cfg.FontShrink <= 0 {
		cfg.FontShrink = constants.FontShrinkFactor
	}
	if cfg.TextColor == nil {
		cfg.TextColor = color.Black
	}
	return &Renderer{font: f, blur: cfg.BlurRadius, shrink: cfg.FontShrink, ink: cfg.TextColor, logger: logger}, nil
}

// Render blurs every box on a copy of src, draws each translation over it, and
// draws the same text on a white canvas of the same size.
func (r *Renderer) Render(ctx context.Context, src image.Image, translated []string, boxes []entity.Box) (res Result, err error) {
	start := time.Now()
	log := common.LoggerFrom(ctx, r.logger)

	plan, err := Plan(translated, boxes, r.shrink)
	if err != nil {
		return Result{}, err
	}

	defer func() {
		if p := recover(); p != nil {
			res = Result{}
			err = common.RenderingFailure("draw text", fmt.Errorf("%v", p))
		}
	}()

	edited := imaging.Clone(src)
	for _, it := range plan.Items {
		eraseBox(edited, it.Box, r.blur)
	}

	face := r.font.Face(plan.FontSize)
	defer face.Close()

	dc := gg.NewContextForImage(edited)
	dc.SetFontFace(face)
	dc.SetColor(r.ink)

	b := edited.Bounds()
	tc := gg.NewContext(b.Dx(), b.Dy())
	tc.SetColor(color.White)
	tc.Clear()
	tc.SetFontFace(face)
	tc.SetColor(r.ink)

	for _, it := range plan.Items {
		x, baseline := placeText(r.font, plan.FontSize, it)
		dc.DrawString(it.Text, x, baseline)
		tc.DrawString(it.Text, x, baseline)
	}

	log.Info("render.done",
		"lines", len(plan.Items),
		"font_size", plan.FontSize,
		"font", r.font.Name(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{Edited: dc.Image(), Transcript: tc.Image(), Plan: plan}, nil
}

// eraseBox replaces the pixels under box with a blurred copy of themselves.
func eraseBox(img *image.NRGBA, box entity.Box, sigma float64) {
	rect := box.Rect().Intersect(img.Bounds())
	if rect.Empty() {
		return
	}
	blurred := imaging.Blur(imaging.Crop(img, rect), sigma)
	draw.Draw(img, rect, blurred, image.Point{}, draw.Src)
}

// placeText returns the pen position (baseline) that puts the top of the ink
// at TextTop for this item.
func placeText(m Metrics, size float64, it entity.RenderItem) (x, baseline float64) {
	g := m.GlyphBounds(it.Text, size)
	x, top := TextTop(it.Box, g.Height)
	return x, top - g.Top
}
