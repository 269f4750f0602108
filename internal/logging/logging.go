package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// Format selects the stderr encoding (--log-format).
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// LevelTrace is below Debug and enabled by -vvv. It logs every watch event
// and parsed server record.
const LevelTrace = slog.LevelDebug - 4

// Config describes a logger. A nil Output means os.Stderr and an unknown
// Format means FormatText.
type Config struct {
	Level  slog.Level
	Format Format
	Output io.Writer

	// File receives every record at Debug or above as JSON regardless of
	// Level (--log-file).
	File io.Writer
}

// New builds the logger described by cfg.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level, ReplaceAttr: redactAttr}

	var h slog.Handler = NewHandler(out, opts)
	if cfg.Format == FormatJSON {
		h = slog.NewJSONHandler(out, opts)
	}
	if cfg.File != nil {
		h = NewTeeHandler(h, slog.NewJSONHandler(cfg.File, &slog.HandlerOptions{
			Level:       min(cfg.Level, slog.LevelDebug),
			ReplaceAttr: redactAttr,
		}))
	}
	return slog.New(h)
}

// redactAttr masks sensitive string attributes in the JSON handlers.
func redactAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	if len(groups) == 0 && isBuiltinKey(a.Key) {
		return a
	}
	return slog.String(a.Key, Redact(a.Key, a.Value.String()))
}

func isBuiltinKey(key string) bool {
	switch key {
	case slog.TimeKey, slog.LevelKey, slog.MessageKey, slog.SourceKey:
		return true
	}
	return false
}

// LevelFromVerbosity maps the count of -v flags to a level:
// none logs warnings, -v info, -vv debug and -vvv or more trace.
func LevelFromVerbosity(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	case verbosity == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// Default logs warnings and above as text to stderr.
func Default() *slog.Logger {
	return New(Config{Level: slog.LevelWarn})
}

// NewDiscard returns a logger for -q and for code running without one.
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or a discarding logger when
// there is none, so callers never need a nil check.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return NewDiscard()
}

// testWriter sends each handler line to t.Log, which adds its own newline.
type testWriter struct {
	t *testing.T
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// ForTest logs everything down to Trace through t.Log, so output shows up
// only for failing tests or under go test -v.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return New(Config{Level: LevelTrace, Output: &testWriter{t: t}})
}
