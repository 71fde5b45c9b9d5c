package render

import (
	"fmt"
	"math"

	"github.com/joseph-ayodele/translation-backend/constants"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/entity"
)

// FontSize is round(mean(box heights) * shrink), shared by every block of an
// image. It fails on an empty box list.
func FontSize(boxes []entity.Box, shrink float64) (float64, error) {
	if len(boxes) == 0 {
		return 0, common.NoTextDetected("no boxes to size a font for")
	}
	var sum float64
	for _, b := range boxes {
		sum += float64(b.H)
	}
	size := math.Round(sum / float64(len(boxes)) * shrink)
	return math.Max(size, constants.MinFontSize), nil
}

// Plan pairs translations with their boxes and computes the shared font size.
func Plan(translated []string, boxes []entity.Box, shrink float64) (entity.RenderPlan, error) {
	if len(translated) != len(boxes) {
		return entity.RenderPlan{}, common.RenderingFailure(
			fmt.Sprintf("%d translations for %d boxes", len(translated), len(boxes)), nil)
	}
	size, err := FontSize(boxes, shrink)
	if err != nil {
		return entity.RenderPlan{}, err
	}
	items := make([]entity.RenderItem, len(boxes))
	for i := range boxes {
		items[i] = entity.RenderItem{Text: translated[i], Box: boxes[i]}
	}
	return entity.RenderPlan{FontSize: size, Items: items}, nil
}

// TextTop is where the top of the ink goes: left-aligned to the box and
// vertically centred in it.
func TextTop(box entity.Box, glyphHeight float64) (x, y float64) {
	return float64(box.X), float64(box.Y) + (float64(box.H)-glyphHeight)/2
}
