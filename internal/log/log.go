// Package log builds the process logger. Records logged with a context get
// the correlation id and the active trace and span ids attached.
package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/tuanvumaihuynh/product-inventory/internal/config"
)

// errorColor is the ANSI color tint uses for error attributes.
const errorColor = 9

// NewSlogLogger creates a logger writing to stdout and installs it as the
// default logger.
func NewSlogLogger(cfg config.Log) *slog.Logger {
	log := New(cfg, os.Stdout)
	slog.SetDefault(log)

	return log
}

// New creates a logger writing to w.
func New(cfg config.Log, w io.Writer) *slog.Logger {
	return slog.New(newEnrichedHandler(newHandler(cfg, w)))
}

func newHandler(cfg config.Log, w io.Writer) slog.Handler {
	switch cfg.Format {
	case config.LogFormatText:
		return tint.NewHandler(w, &tint.Options{
			Level:       cfg.Level,
			AddSource:   cfg.AddSource,
			TimeFormat:  time.RFC3339,
			ReplaceAttr: colorErrors,
		})
	default:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     cfg.Level,
			AddSource: cfg.AddSource,
		})
	}
}

func colorErrors(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return a
	}
	if _, ok := a.Value.Any().(error); ok {
		return tint.Attr(errorColor, a)
	}
	return a
}
