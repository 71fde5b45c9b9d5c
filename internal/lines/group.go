// Package lines clusters word regions into text lines and collapses each
// line into a single string and box.
package lines

import (
	"sort"

	"github.com/joseph-ayodele/translation-backend/internal/entity"
)

// Group clusters regions into lines by top coordinate.
//
// Regions are visited top to bottom. A region joins the open line when its
// top is within yThreshold of the top of the line's first member; otherwise
// it starts a new line. The anchor never moves, so a long run of words with
// growing vertical jitter can split into several lines.
//
// The input slice is not modified.
func Group(regions []entity.TextRegion, yThreshold int) []entity.Line {
	if len(regions) == 0 {
		return nil
	}
	sorted := make([]entity.TextRegion, len(regions))
	copy(sorted, regions)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Box.Y < sorted[j].Box.Y })

	var (
		out     []entity.Line
		current entity.Line
		anchorY int
	)
	for _, r := range sorted {
		if len(current) == 0 {
			current = entity.Line{r}
			anchorY = r.Box.Y
			continue
		}
		if abs(r.Box.Y-anchorY) < yThreshold {
			current = append(current, r)
			continue
		}
		out = append(out, current)
		current = entity.Line{r}
		anchorY = r.Box.Y
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
