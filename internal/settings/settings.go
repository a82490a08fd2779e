// Package settings holds the user-configurable behavior of the correction
// engine and the case-insensitive lookup sets derived from it.
package settings

import (
	"strings"

	"golang.org/x/text/cases"
)

// Keys under which settings are persisted.
const (
	KeyExclusionWords      = "exclusionWords"
	KeyAbbreviations       = "abbreviations"
	KeyCapitalizeListItems = "capitalizeListItems"
	KeyCapitalizeSentences = "capitalizeSentences"
)

// DefaultAbbreviations are the abbreviations used when none are configured.
var DefaultAbbreviations = []string{"e.g.", "i.e.", "etc.", "vs."}

// Settings is the persisted configuration of the engine.
type Settings struct {
	// ExclusionWords are never modified by the word and list-item rules.
	ExclusionWords []string `json:"exclusionWords" toml:"exclusionWords" yaml:"exclusionWords"`

	// Abbreviations end with a terminator that does not end a sentence.
	Abbreviations []string `json:"abbreviations" toml:"abbreviations" yaml:"abbreviations"`

	// CapitalizeListItems enables the list-item rule.
	CapitalizeListItems bool `json:"capitalizeListItems" toml:"capitalizeListItems" yaml:"capitalizeListItems"`

	// CapitalizeSentences enables the sentence-start rule.
	CapitalizeSentences bool `json:"capitalizeSentences" toml:"capitalizeSentences" yaml:"capitalizeSentences"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		ExclusionWords: []string{},
		Abbreviations:  append([]string(nil), DefaultAbbreviations...),
	}
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	c := s
	c.ExclusionWords = append([]string(nil), s.ExclusionWords...)
	c.Abbreviations = append([]string(nil), s.Abbreviations...)
	return c
}

// Lookup is the read-only view of Settings used during a correction pass.
// Word sets are case-folded so membership tests are case-insensitive.
type Lookup struct {
	excluded      map[string]struct{}
	abbreviations map[string]struct{}

	ListItems bool
	Sentences bool
}

// Lookup builds the case-folded lookup sets for s.
func (s Settings) Lookup() *Lookup {
	fold := cases.Fold()
	return &Lookup{
		excluded:      foldSet(fold, s.ExclusionWords),
		abbreviations: foldSet(fold, s.Abbreviations),
		ListItems:     s.CapitalizeListItems,
		Sentences:     s.CapitalizeSentences,
	}
}

func foldSet(fold cases.Caser, words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		set[fold.String(w)] = struct{}{}
	}
	return set
}

// IsExcluded reports whether word is in the exclusion set.
func (l *Lookup) IsExcluded(word string) bool {
	if l == nil || len(l.excluded) == 0 {
		return false
	}
	_, ok := l.excluded[cases.Fold().String(word)]
	return ok
}

// IsAbbreviation reports whether token is a configured abbreviation.
func (l *Lookup) IsAbbreviation(token string) bool {
	if l == nil || len(l.abbreviations) == 0 {
		return false
	}
	_, ok := l.abbreviations[cases.Fold().String(token)]
	return ok
}
