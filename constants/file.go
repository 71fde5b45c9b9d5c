package constants

import "strings"

// ImageFormats are the encodings accepted as pipeline input.
var ImageFormats = []string{"PNG", "JPEG", "GIF", "WEBP", "BMP", "TIFF"}

// AllowedExtensions holds the image extensions picked up by the hot-folder watcher.
var AllowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"webp": {},
	"bmp":  {},
	"tif":  {},
	"tiff": {},
}

// Suffixes appended to the input file name for worker outputs.
const (
	EditedSuffix     = ".translated.png"
	TranscriptSuffix = ".transcript.png"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsImageExt reports whether ext (with or without dot) is an accepted image extension.
func IsImageExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
