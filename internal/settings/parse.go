package settings

import (
	"strings"
)

// FromMap builds Settings from a generic configuration map, as produced by
// the TOML, YAML and JSON loaders. Each field falls back to its default
// independently when it is absent or has the wrong type.
func FromMap(m map[string]any) Settings {
	s := Default()
	if m == nil {
		return s
	}

	if words, ok := stringList(m[KeyExclusionWords]); ok {
		s.ExclusionWords = words
	}
	if words, ok := stringList(m[KeyAbbreviations]); ok {
		s.Abbreviations = words
	}
	if b, ok := boolValue(m[KeyCapitalizeListItems]); ok {
		s.CapitalizeListItems = b
	}
	if b, ok := boolValue(m[KeyCapitalizeSentences]); ok {
		s.CapitalizeSentences = b
	}
	return s
}

// ToMap returns s as a generic configuration map.
func (s Settings) ToMap() map[string]any {
	return map[string]any{
		KeyExclusionWords:      toAnySlice(s.ExclusionWords),
		KeyAbbreviations:       toAnySlice(s.Abbreviations),
		KeyCapitalizeListItems: s.CapitalizeListItems,
		KeyCapitalizeSentences: s.CapitalizeSentences,
	}
}

// stringList accepts a list of strings or a comma-separated string.
// Non-string list elements make the whole value invalid.
func stringList(v any) ([]string, bool) {
	switch val := v.(type) {
	case []string:
		return append([]string{}, val...), true
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case string:
		out := []string{}
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func boolValue(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "on", "1":
			return true, true
		case "false", "no", "off", "0":
			return false, true
		}
	}
	return false, false
}

func toAnySlice(words []string) []any {
	out := make([]any, len(words))
	for i, w := range words {
		out[i] = w
	}
	return out
}
