package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/translation-backend/constants"
)

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

// IsOutput reports whether path is a file this service wrote.
func IsOutput(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(base, constants.EditedSuffix) || strings.HasSuffix(base, constants.TranscriptSuffix)
}

// Candidate reports whether path should be translated.
func Candidate(path string) bool {
	return constants.IsImageExt(filepath.Ext(path)) && !IsHidden(path) && !IsOutput(path)
}

// OutputPaths returns the edited and transcript paths for input under outDir.
func OutputPaths(outDir, input string) (edited, transcript string) {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, stem+constants.EditedSuffix), filepath.Join(outDir, stem+constants.TranscriptSuffix)
}
