package logging

import (
	"io"
	"log/slog"
)

// NewLogger returns a structured logger writing to w.
// If verbose == true, level = Debug, else Info.
// format "text" selects the text handler; anything else is JSON.
func NewLogger(w io.Writer, verbose bool, format string) *slog.Logger {
	level := new(slog.LevelVar)
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
