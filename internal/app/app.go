// Package app wires configuration, logging, the settings store and the
// correction engine into the two ways capfix runs: an interactive editor
// and a batch fixer.
package app

import (
	"io"
	"os"

	"github.com/dshills/capfix/internal/config"
	"github.com/dshills/capfix/internal/logging"
	"github.com/dshills/capfix/internal/settings"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty means defaults and environment.
	ConfigPath string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Files are the documents to open or fix.
	Files []string

	// Write rewrites fixed documents in place instead of printing them.
	Write bool

	// Env replaces the process environment lookup.
	Env func(string) (string, bool)
}

// Application holds the components shared by both run modes.
type Application struct {
	opts   Options
	loader *config.Loader
	config *config.Config
	store  *settings.Store
	logger *logging.Logger
}

// New loads the configuration and creates the application.
func New(opts Options) (*Application, error) {
	var loaderOpts []config.Option
	if opts.Env != nil {
		loaderOpts = append(loaderOpts, config.WithEnvLookup(opts.Env))
	}
	l := config.NewLoader(opts.ConfigPath, loaderOpts...)

	cfg, err := l.Load()
	if err != nil {
		return nil, NewOperationError("load", opts.ConfigPath, err)
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLogLevel(level)
	logCfg.Output = out

	app := &Application{
		opts:   opts,
		loader: l,
		config: cfg,
		store:  settings.NewStore(cfg.Settings),
		logger: logging.New(logCfg),
	}
	app.logger.Debug("settings loaded from %q: %+v", opts.ConfigPath, cfg.Settings)
	return app, nil
}

// Settings returns the settings store.
func (a *Application) Settings() *settings.Store {
	return a.store
}

// Logger returns the application logger.
func (a *Application) Logger() *logging.Logger {
	return a.logger
}
