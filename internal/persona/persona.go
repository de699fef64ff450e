// Package persona holds the per-language oracle directives and selects which
// one a given exchange should use.
package persona

import (
	"sort"
	"strings"
)

// the language used when neither the request nor the account names a supported one
const DefaultLanguage = "en"

// immutable mapping of language code to directive text, built at startup
type Library struct {
	directives map[string]string
}

// creates a library over the built-in directive set
func NewLibrary() *Library {
	return &Library{directives: directives}
}

// reports whether the library carries a directive for the language
func (l *Library) Supports(lang string) bool {
	_, ok := l.directives[strings.ToLower(lang)]
	return ok
}

// lists the supported language codes in stable order
func (l *Library) Languages() []string {
	langs := make([]string, 0, len(l.directives))
	for lang := range l.directives {
		langs = append(langs, lang)
	}

	sort.Strings(langs)

	return langs
}

// resolves the directive language for an exchange
//
// Resolution order: the requested language if supported, else the account's
// stored language if supported, else the default. The caller persists the
// resolved language back onto the account as the new stored preference.
func (l *Library) Resolve(requested, stored string) string {
	if lang := strings.ToLower(strings.TrimSpace(requested)); lang != "" && l.Supports(lang) {
		return lang
	}

	if lang := strings.ToLower(strings.TrimSpace(stored)); lang != "" && l.Supports(lang) {
		return lang
	}

	return DefaultLanguage
}

// returns the directive text for a resolved language
func (l *Library) Directive(lang string) string {
	if text, ok := l.directives[strings.ToLower(lang)]; ok {
		return text
	}

	return l.directives[DefaultLanguage]
}
