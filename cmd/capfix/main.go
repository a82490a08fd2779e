// Package main is the entry point for capfix.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/capfix/internal/app"
	"github.com/dshills/capfix/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app.Options
	fix     bool
	logFile string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: opening log file: %v\n", err)
			return 1
		}
		defer f.Close()
		opts.LogOutput = f
	} else if !opts.fix {
		// Log lines would corrupt the editor screen.
		opts.LogOutput = io.Discard
	}

	application, err := app.New(opts.Options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.fix {
		if err := application.Fix(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.RunInteractive(ctx, screen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string) (cliOptions, error) {
	var opts cliOptions
	var showVersion bool

	fs := flag.NewFlagSet("capfix", flag.ContinueOnError)
	fs.StringVar(&opts.ConfigPath, "config", config.DefaultPath(), "Path to settings file (.toml, .yaml, .json)")
	fs.StringVar(&opts.ConfigPath, "c", config.DefaultPath(), "Path to settings file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	fs.BoolVar(&opts.fix, "fix", false, "Correct the given files and exit")
	fs.BoolVar(&opts.Write, "write", false, "With -fix, rewrite files in place instead of printing them")
	fs.BoolVar(&opts.Write, "w", false, "With -fix, rewrite files in place (shorthand)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "capfix - capitalization correction while you type\n\n")
		fmt.Fprintf(out, "Usage: capfix [options] [file]\n")
		fmt.Fprintf(out, "       capfix -fix [-write] files...\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nEditor keys:\n")
		fmt.Fprintf(out, "  Ctrl+S save   Ctrl+F fix document   Ctrl+L toggle list items\n")
		fmt.Fprintf(out, "  Ctrl+T toggle sentences   Ctrl+Q quit\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if showVersion {
		fmt.Printf("capfix %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return opts, flag.ErrHelp
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
	}

	if opts.Write && !opts.fix {
		return opts, errors.New("-write requires -fix")
	}

	opts.Files = fs.Args()
	return opts, nil
}
