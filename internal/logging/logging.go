// Package logging builds the [log/slog] logger used for diagnostics and
// carries it on a context.Context.
//
// Text output omits timestamps so that diagnostics read like plain CLI
// messages; JSON output keeps them for machine consumption.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/hupe1980/manifestsplit/internal/config"
)

var levels = map[string]slog.Level{
	config.LogLevelDebug: slog.LevelDebug,
	config.LogLevelInfo:  slog.LevelInfo,
	config.LogLevelWarn:  slog.LevelWarn,
	config.LogLevelError: slog.LevelError,
}

// New returns a logger writing records at or above level to w in the given
// format (config.LogFormatText or config.LogFormatJSON). Unknown formats
// fall back to text.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: dropTime,
	}))
}

// SetupWithWriter builds the logger described by cfg on w and installs it as
// the slog default.
func SetupWithWriter(cfg *config.Config, w io.Writer) *slog.Logger {
	logger := New(w, ParseLevel(cfg.EffectiveLogLevel()), cfg.LogFormat)
	slog.SetDefault(logger)

	return logger
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a config log level to a slog.Level; unknown values map to
// info.
func ParseLevel(level string) slog.Level {
	if l, ok := levels[level]; ok {
		return l
	}

	return slog.LevelInfo
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}

	return a
}

type ctxKey struct{}

// NewContext returns a child context carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}

	return slog.Default()
}
