package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	// itemSep matches the quote-comma-quote between items of a one-line list.
	itemSep    = regexp.MustCompile(`['"]\s*,\s*['"]`)
	openMarks  = regexp.MustCompile(`^\s*\[?\s*['"]?`)
	closeMarks = regexp.MustCompile(`['"]?\s*,?\s*\]?\s*$`)
)

// CleanTranslatedLines splits a list-looking reply into lines. Literal "\n"
// escapes count as line breaks, list delimiters are removed, and lines left
// empty are dropped. At most one quote is taken from each end of an item, so
// apostrophes inside a translation survive.
func CleanTranslatedLines(raw string) []string {
	text := strings.ReplaceAll(raw, `\n`, "\n")
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for _, item := range itemSep.Split(line, -1) {
			item = openMarks.ReplaceAllString(item, "")
			item = closeMarks.ReplaceAllString(item, "")
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseBatch extracts exactly n translations from a reply. It first tries the
// JSON array contract, then falls back to CleanTranslatedLines when the reply
// holds no parsable string array. method reports
// which path succeeded ("json" or "cleanup").
func ParseBatch(raw string, n int) (lines []string, method string, err error) {
	body := stripCodeFence(raw)
	if start, end := strings.IndexByte(body, '['), strings.LastIndexByte(body, ']'); start >= 0 && end > start {
		candidate := []byte(body[start : end+1])
		var out []string
		if jerr := json.Unmarshal(candidate, &out); jerr == nil {
			// A well-formed array is authoritative; a wrong count is never
			// repaired by the line fallback.
			if verr := ValidateJSONAgainstSchema(BuildBatchJSONSchema(n), candidate); verr != nil {
				return nil, "json", fmt.Errorf("reply has %d items, want %d: %w", len(out), n, verr)
			}
			return out, "json", nil
		}
	}

	cleaned := CleanTranslatedLines(body)
	if len(cleaned) != n {
		return nil, "cleanup", fmt.Errorf("reply has %d lines, want %d", len(cleaned), n)
	}
	return cleaned, "cleanup", nil
}
