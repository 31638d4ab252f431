package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var level = new(slog.LevelVar)

// ParseLevel parses a string to an slog level; unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel changes the level of the installed logger at runtime.
func SetLevel(s string) { level.Set(ParseLevel(s)) }

// Init installs a text logger writing to every output (stderr when none given)
// as the slog default.
func Init(levelStr string, outputs ...io.Writer) *slog.Logger {
	SetLevel(levelStr)

	var out io.Writer = os.Stderr
	if len(outputs) == 1 {
		out = outputs[0]
	} else if len(outputs) > 1 {
		out = io.MultiWriter(outputs...)
	}

	l := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(l)
	return l
}
