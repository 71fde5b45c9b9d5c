package llm

// BuildBatchJSONSchema returns a JSON-Schema for a reply of exactly n strings.
// It is used locally to validate the strict parse path.
func BuildBatchJSONSchema(n int) map[string]any {
	return map[string]any{
		"type":     "array",
		"items":    map[string]any{"type": "string"},
		"minItems": n,
		"maxItems": n,
	}
}
