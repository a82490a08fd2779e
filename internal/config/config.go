package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/capfix/internal/config/loader"
	"github.com/dshills/capfix/internal/settings"
)

// Environment variables read by the default loader.
const (
	EnvExclusionWords      = "CAPFIX_EXCLUSION_WORDS"
	EnvAbbreviations       = "CAPFIX_ABBREVIATIONS"
	EnvCapitalizeListItems = "CAPFIX_CAPITALIZE_LIST_ITEMS"
	EnvCapitalizeSentences = "CAPFIX_CAPITALIZE_SENTENCES"
	EnvLogLevel            = "CAPFIX_LOG_LEVEL"
)

// KeyLogLevel is the path of the log level in the settings file.
const KeyLogLevel = "logging.level"

// EnvVars returns the environment mapping used by Load.
func EnvVars() []loader.EnvVar {
	return []loader.EnvVar{
		{Name: EnvExclusionWords, Path: settings.KeyExclusionWords, Kind: loader.KindList},
		{Name: EnvAbbreviations, Path: settings.KeyAbbreviations, Kind: loader.KindList},
		{Name: EnvCapitalizeListItems, Path: settings.KeyCapitalizeListItems, Kind: loader.KindBool},
		{Name: EnvCapitalizeSentences, Path: settings.KeyCapitalizeSentences, Kind: loader.KindBool},
		{Name: EnvLogLevel, Path: KeyLogLevel},
	}
}

// Config is the result of loading all sources.
type Config struct {
	// Path is the settings file, empty when none is used.
	Path string

	Settings settings.Settings

	// LogLevel is the configured level name, empty when unset.
	LogLevel string
}

// Loader loads Config from a settings file and the environment.
type Loader struct {
	path string
	fs   loader.FileSystem
	env  loader.Loader
}

// Option configures a Loader.
type Option func(*Loader)

// WithFS sets the file system the settings file is read from.
func WithFS(fsys loader.FileSystem) Option {
	return func(l *Loader) {
		if fsys != nil {
			l.fs = fsys
		}
	}
}

// WithEnvLookup reads environment variables through lookup.
func WithEnvLookup(lookup func(string) (string, bool)) Option {
	return func(l *Loader) {
		l.env = loader.NewEnvLoaderWithLookup(lookup, EnvVars()...)
	}
}

// NewLoader creates a loader for the settings file at path. An empty path
// loads defaults and environment only.
func NewLoader(path string, opts ...Option) *Loader {
	l := &Loader{
		path: path,
		fs:   loader.DefaultFS(),
		env:  loader.NewEnvLoader(EnvVars()...),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the settings file path.
func (l *Loader) Path() string {
	return l.path
}

// Load reads every source and merges them over the defaults.
// A missing settings file is not an error.
func (l *Loader) Load() (*Config, error) {
	merged := map[string]any{}

	if l.path != "" {
		fl, err := loader.ForPath(l.fs, l.path)
		if err != nil {
			return nil, err
		}
		fileConfig, err := fl.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, fileConfig)
	}

	envConfig, err := l.env.Load()
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	merged = loader.DeepMerge(merged, envConfig)

	cfg := &Config{
		Path:     l.path,
		Settings: settings.FromMap(merged),
	}
	if level, ok := loader.GetByPath(merged, KeyLogLevel); ok {
		if s, ok := level.(string); ok {
			cfg.LogLevel = s
		}
	}
	return cfg, nil
}

// Reload loads the configuration again and publishes its settings to store.
// The store is left unchanged when loading fails.
func (l *Loader) Reload(store *settings.Store) (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}
	store.Update(cfg.Settings)
	return cfg, nil
}

// Load loads the configuration from path and the process environment.
func Load(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// DefaultPath returns the settings file used when none is given:
// capfix/settings.toml under the user configuration directory. It returns
// an empty string when that directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "capfix", "settings.toml")
}
