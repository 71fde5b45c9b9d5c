package entity

import "image"

// Box is an axis-aligned pixel rectangle: left, top, width, height.
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"width"`
	H int `json:"height"`
}

func (b Box) Right() int  { return b.X + b.W }
func (b Box) Bottom() int { return b.Y + b.H }

// Rect converts to an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.Right(), b.Bottom())
}

// BoxFromRect converts an image.Rectangle to a Box.
func BoxFromRect(r image.Rectangle) Box {
	return Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// TextRegion is one detected word and its box in source pixels.
type TextRegion struct {
	Text       string  `json:"text"`
	Box        Box     `json:"box"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Line is a set of regions judged to lie on the same text line.
type Line []TextRegion

// MergedLine is a line collapsed to one string and its union box.
type MergedLine struct {
	Text string `json:"text"`
	Box  Box    `json:"box"`
}

// RenderItem pairs a translated string with the box it replaces.
type RenderItem struct {
	Text string
	Box  Box
}

// RenderPlan is the shared font size plus the ordered items to draw.
type RenderPlan struct {
	FontSize float64
	Items    []RenderItem
}
