package server

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the process-wide structured logger.
var Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// NewLogger builds a slog logger writing JSON, or text when format is "text".
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// InitLogger replaces Logger and the slog default.
func InitLogger(level slog.Level, format string) *slog.Logger {
	Logger = NewLogger(os.Stdout, level, format)
	slog.SetDefault(Logger)
	return Logger
}
