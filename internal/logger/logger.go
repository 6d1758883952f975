// Package logger provides logging functionality for quadforge.
package logger

import (
	"io"
	"log/slog"
	"os"
)

var log *slog.Logger

// Init initializes the application logger. Verbose enables debug-level
// output; otherwise only warnings and errors are emitted.
func Init(verbose bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	log = slog.New(handler)
	slog.SetDefault(log)
}

// Get returns the configured logger, initializing a quiet default one if
// Init was never called (e.g. from package tests).
func Get() *slog.Logger {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return log
}
