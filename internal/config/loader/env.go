package loader

import (
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// ValueKind controls how an environment value is converted.
type ValueKind uint8

const (
	KindString ValueKind = iota
	KindBool
	KindList
)

// EnvVar maps an environment variable to a configuration path.
type EnvVar struct {
	Name string
	Path string
	Kind ValueKind
}

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	vars   []EnvVar
	lookup func(string) (string, bool)
}

// NewEnvLoader creates a loader for the given variables.
func NewEnvLoader(vars ...EnvVar) *EnvLoader {
	return &EnvLoader{vars: vars, lookup: os.LookupEnv}
}

// NewEnvLoaderWithLookup creates a loader reading values through lookup
// instead of the process environment.
func NewEnvLoaderWithLookup(lookup func(string) (string, bool), vars ...EnvVar) *EnvLoader {
	return &EnvLoader{vars: vars, lookup: lookup}
}

// Load reads the mapped variables and returns a configuration map.
// Unset variables are skipped; an empty value is kept.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for _, v := range l.vars {
		raw, ok := l.lookup(v.Name)
		if !ok {
			continue
		}
		value, ok := parseValue(raw, v.Kind)
		if !ok {
			continue
		}
		setByPath(config, v.Path, value)
	}
	return config, nil
}

// parseValue converts raw according to kind. Lists are JSON arrays or
// comma-separated strings.
func parseValue(raw string, kind ValueKind) (any, bool) {
	switch kind {
	case KindBool:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "yes", "on", "1":
			return true, true
		case "false", "no", "off", "0":
			return false, true
		}
		return nil, false
	case KindList:
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "[") && gjson.Valid(trimmed) {
			var out []any
			for _, item := range gjson.Parse(trimmed).Array() {
				out = append(out, item.String())
			}
			if out == nil {
				out = []any{}
			}
			return out, true
		}
		out := []any{}
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, true
	default:
		return raw, true
	}
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// GetByPath returns the value at a dot-separated path.
func GetByPath(data map[string]any, path string) (any, bool) {
	current := any(data)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}
	return current, true
}
