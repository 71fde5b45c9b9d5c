package constants

// Layout tunables. Each has an env override in common.RenderConfig.
const (
	// LineYThreshold is the max distance in pixels between a word's top and
	// the top of the first word of the line it joins.
	LineYThreshold = 30
	// FontShrinkFactor scales the mean line height down to a font size.
	FontShrinkFactor = 0.75
	// BlurRadius is the gaussian sigma used to erase the original text.
	BlurRadius = 30.0
	// MinFontSize keeps tiny detections legible.
	MinFontSize = 1
)
