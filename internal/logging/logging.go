package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a text slog.Logger on stderr at the given level.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

func NewWithWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: LevelFromString(level),
	})
	return slog.New(handler)
}

// LevelFromString maps a config value to a slog level. Unknown values mean info.
func LevelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
