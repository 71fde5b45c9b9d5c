package render

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Metrics reports the ink bounds of text at a font size. Top is the offset
// of the highest ink pixel from the baseline (negative for ascenders).
type Metrics interface {
	GlyphBounds(text string, size float64) GlyphBounds
}

// GlyphBounds is the ink box of a rendered string relative to its origin.
type GlyphBounds struct {
	Width  float64
	Height float64
	Top    float64
}

// Font is a parsed TrueType font shared by all renders. Faces are created per
// call because font.Face values are not safe for concurrent use.
type Font struct {
	ttf  *truetype.Font
	name string
}

// LoadFont parses the TTF at path, or the bundled Go Regular font when path is empty.
func LoadFont(path string) (*Font, error) {
	data := goregular.TTF
	name := "goregular"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
		data, name = b, path
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	return &Font{ttf: ttf, name: name}, nil
}

// Name returns the font source for logging.
func (f *Font) Name() string { return f.name }

// Face returns a new face at size points (72 DPI so points equal pixels).
func (f *Font) Face(size float64) font.Face {
	return truetype.NewFace(f.ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
}

func (f *Font) GlyphBounds(text string, size float64) GlyphBounds {
	face := f.Face(size)
	defer face.Close()
	b, _ := font.BoundString(face, text)
	return GlyphBounds{
		Width:  fixedToFloat(b.Max.X - b.Min.X),
		Height: fixedToFloat(b.Max.Y - b.Min.Y),
		Top:    fixedToFloat(b.Min.Y),
	}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
