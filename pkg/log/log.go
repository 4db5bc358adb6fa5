// Package log configures the process-wide slog default and hands out
// module-scoped loggers.
package log

import (
	"log/slog"
	"os"
)

// Setup installs a text handler on stderr as the process default.
// Unrecognized level names fall back to info.
func Setup(logLevel string) {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// WithModule tags a logger with the owning module's name.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
