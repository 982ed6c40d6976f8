package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a text slog.Logger writing to w; a nil w targets stdout.
// The level string comes straight from config.
func New(w io.Writer, level string) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level(level),
	})
	return slog.New(handler)
}

// Level maps a config level string to a slog.Level. Unknown or empty values
// resolve to debug so misconfiguration loses nothing.
func Level(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
