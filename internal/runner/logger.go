package runner

import (
	"io"
	"log/slog"
)

// NewLogger creates the structured logger injected into executors, handlers
// and the MCP server. verbosity is one of normal, verbose, quiet.
func NewLogger(w io.Writer, verbosity string) *slog.Logger {
	level := slog.LevelInfo
	switch verbosity {
	case "verbose":
		level = slog.LevelDebug
	case "quiet":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewDiscardLogger returns a logger that drops every record.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
