// Package translate resolves engine selectors to load-once engine instances
// and dispatches ordered line batches to them.
package translate

import (
	"strings"

	"github.com/joseph-ayodele/translation-backend/constants"
	"github.com/joseph-ayodele/translation-backend/internal/common"
)

// Selector is the parsed form of "<family>_:_<model-or-provider>".
type Selector struct {
	Family constants.EngineFamily
	Model  string
}

func (s Selector) String() string {
	return string(s.Family) + constants.SelectorSeparator + s.Model
}

// ParseSelector parses a composite engine key. A bare family selects that
// family's default model. It only checks syntax and family; whether the model
// exists is decided by the Registry.
func ParseSelector(raw string) (Selector, error) {
	raw = strings.TrimSpace(raw)
	familyPart, model, _ := strings.Cut(raw, constants.SelectorSeparator)
	family, ok := constants.CanonicalFamily(familyPart)
	if !ok {
		return Selector{}, common.UnsupportedEngine(raw)
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = constants.DefaultModel[family]
	}
	if family == constants.FamilyLLM {
		model = strings.ToLower(model)
	}
	return Selector{Family: family, Model: model}, nil
}
