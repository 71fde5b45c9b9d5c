// Package neural talks to the seq2seq model server and maps request language
// codes onto each model's native vocabulary.
package neural

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/lang"
	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var catalogYAML []byte

// Model describes one served model and its code table.
type Model struct {
	ID        string            `yaml:"id"`
	Scheme    string            `yaml:"scheme"` // "iso" | "mapped"
	Languages []string          `yaml:"languages"`
	Codes     map[string]string `yaml:"codes"`
}

// Catalog indexes models by id.
type Catalog struct {
	models map[string]Model
}

// LoadCatalog parses the embedded model table.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Models []Model `yaml:"models"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse model catalog: %w", err)
	}
	c := &Catalog{models: make(map[string]Model, len(doc.Models))}
	for _, m := range doc.Models {
		switch m.Scheme {
		case "iso":
			m.Codes = make(map[string]string, len(m.Languages))
			for _, l := range m.Languages {
				m.Codes[l] = l
			}
		case "mapped":
			if len(m.Codes) == 0 {
				return nil, fmt.Errorf("model %s: mapped scheme without codes", m.ID)
			}
		default:
			return nil, fmt.Errorf("model %s: unknown scheme %q", m.ID, m.Scheme)
		}
		c.models[m.ID] = m
	}
	return c, nil
}

// Lookup returns the model with id.
func (c *Catalog) Lookup(id string) (Model, bool) {
	m, ok := c.models[id]
	return m, ok
}

// IDs returns the model ids in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.models))
	for id := range c.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NativeCode maps a request code ("hr", "hr-HR", "bs") to the model's code.
// Relatives the model lacks fall back to their parent language.
func (m Model) NativeCode(code string) (string, error) {
	base, err := lang.Normalize(code)
	if err != nil {
		return "", err
	}
	if native, ok := m.Codes[base]; ok {
		return native, nil
	}
	if native, ok := m.Codes[lang.Parent(base)]; ok {
		return native, nil
	}
	return "", common.InvalidInput(fmt.Sprintf("language %q not supported by %s", code, m.ID), nil)
}
