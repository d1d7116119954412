// Package logging builds the structured loggers used by the server.
//
// Two loggers exist: the application logger (human-readable tint output
// in development, JSON in production) and the access logger, which always
// writes one JSON line per request so the file stays machine-readable.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/juegos-api/backend/internal/config"
)

const accessLogPermissions = 0o640

// New creates the application logger for cfg, writing to w.
//
// Format "json" selects slog's JSON handler; anything else selects tint's
// coloured text handler. Every record carries service=juegos-api.
func New(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	level := ParseLevel(cfg.Level)

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
			NoColor:    !isTerminal(w),
		})
	}

	return slog.New(handler).With(slog.String("service", "juegos-api"))
}

// ParseLevel converts a level name to slog.Level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// OpenAccessLog opens (appending) the access log file at path and returns
// a JSON logger over it. The caller closes the returned io.Closer on shutdown.
//
// An empty path returns fallback and a no-op closer.
func OpenAccessLog(path string, fallback *slog.Logger) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return fallback, io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, accessLogPermissions)
	if err != nil {
		return nil, nil, fmt.Errorf("opening access log: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, nil)), f, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
