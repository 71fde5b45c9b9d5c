package lines

import (
	"sort"
	"strings"

	"github.com/joseph-ayodele/translation-backend/internal/entity"
)

// Merge joins a line's words left to right with single spaces and returns the
// union box of its members. An empty line yields the zero MergedLine.
func Merge(line entity.Line) entity.MergedLine {
	if len(line) == 0 {
		return entity.MergedLine{}
	}
	ordered := make(entity.Line, len(line))
	copy(ordered, line)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Box.X < ordered[j].Box.X })

	texts := make([]string, len(ordered))
	minX, minY := ordered[0].Box.X, ordered[0].Box.Y
	maxX, maxY := ordered[0].Box.Right(), ordered[0].Box.Bottom()
	for i, r := range ordered {
		texts[i] = r.Text
		minX = min(minX, r.Box.X)
		minY = min(minY, r.Box.Y)
		maxX = max(maxX, r.Box.Right())
		maxY = max(maxY, r.Box.Bottom())
	}

	return entity.MergedLine{
		Text: strings.Join(texts, " "),
		Box:  entity.Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY},
	}
}

// MergeAll merges every line, keeping order.
func MergeAll(lines []entity.Line) []entity.MergedLine {
	out := make([]entity.MergedLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, Merge(l))
	}
	return out
}

// Texts returns the merged texts in order.
func Texts(merged []entity.MergedLine) []string {
	out := make([]string, len(merged))
	for i, m := range merged {
		out[i] = m.Text
	}
	return out
}

// Boxes returns the merged boxes in order.
func Boxes(merged []entity.MergedLine) []entity.Box {
	out := make([]entity.Box, len(merged))
	for i, m := range merged {
		out[i] = m.Box
	}
	return out
}
