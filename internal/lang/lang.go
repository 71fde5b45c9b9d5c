// Package lang normalises language codes and folds closely related
// languages onto the one the engines are tuned for.
package lang

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/translation-backend/internal/common"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// parents maps a language to the relatives a detector commonly confuses it with.
var parents = map[string][]string{
	"hr": {"bs", "sr"},
	"nl": {"af", "fy"},
	"es": {"ca", "gl"},
	"en": {"cy"},
}

var childToParent = func() map[string]string {
	m := make(map[string]string)
	for parent, children := range parents {
		for _, c := range children {
			m[c] = parent
		}
	}
	return m
}()

// Normalize reduces a BCP-47 tag or model-style code ("hr_HR", "pt-BR",
// "EN") to its base ISO 639 code.
func Normalize(code string) (string, error) {
	c := strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if c == "" {
		return "", common.InvalidInput("empty language code", nil)
	}
	primary, _, _ := strings.Cut(c, "-")
	tag, err := language.Parse(primary)
	if err != nil {
		return "", common.InvalidInput(fmt.Sprintf("unknown language %q", code), err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// Parent folds a detected language onto its parent, or returns it unchanged.
func Parent(code string) string {
	if p, ok := childToParent[code]; ok {
		return p
	}
	return code
}

// DisplayName returns the English name of code, or code itself when unknown.
func DisplayName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
