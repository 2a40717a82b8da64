// logging.go - Package-wide structured logger

package main

import (
	"log/slog"
	"os"
)

// logger is the package-wide structured logger. Safe to use before initLogger
// is called; defaults to slog.Default().
var logger = slog.Default()

// initLogger configures the shared slog logger and routes the stdlib log
// package through the same handler.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}
