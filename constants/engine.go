package constants

import "strings"

// EngineFamily is the first half of an engine selector ("<family>_:_<model>").
type EngineFamily string

const (
	FamilyNeural EngineFamily = "ml"
	FamilyLLM    EngineFamily = "llm"
)

// SelectorSeparator joins family and model in a composite engine key.
const SelectorSeparator = "_:_"

// Neural model identifiers served by the model server.
const (
	ModelM2M100Small = "facebook/m2m100_418M"
	ModelM2M100Large = "facebook/m2m100_1.2B"
	ModelMBart50     = "facebook/mbart-large-50-many-to-many-mmt"
)

// LLM provider identifiers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// DefaultModel is used when a selector names only the family.
var DefaultModel = map[EngineFamily]string{
	FamilyNeural: ModelM2M100Small,
	FamilyLLM:    ProviderOpenAI,
}

var allFamilies = []EngineFamily{FamilyNeural, FamilyLLM}

// CanonicalFamily maps user input onto a known family. Accepts a few aliases
// seen in clients ("neural", "nmt", "gpt").
func CanonicalFamily(input string) (EngineFamily, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}

	synonyms := map[string]EngineFamily{
		"neural":  FamilyNeural,
		"nmt":     FamilyNeural,
		"seq2seq": FamilyNeural,
		"gpt":     FamilyLLM,
	}
	if f, ok := synonyms[normalized]; ok {
		return f, true
	}
	for _, f := range allFamilies {
		if normalized == string(f) {
			return f, true
		}
	}
	return "", false
}
