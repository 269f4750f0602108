package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Line(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	at := time.Date(2026, 3, 1, 15, 4, 0, 0, time.UTC)
	r := slog.NewRecord(at, slog.LevelWarn, "source server issue", 0)
	r.AddAttrs(slog.String("tool", "cursor"), slog.Int("servers", 2))
	require.NoError(t, h.Handle(t.Context(), r))

	assert.Equal(t, "3:04PM WARN  source server issue tool=cursor servers=2\n", buf.String())
}

func TestHandler_NoTime(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil)

	require.NoError(t, h.Handle(t.Context(), slog.NewRecord(time.Time{}, slog.LevelInfo, "no time", 0)))
	assert.Equal(t, "INFO  no time\n", buf.String())
}

func TestHandler_Enabled(t *testing.T) {
	h := NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, h.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, h.Enabled(t.Context(), slog.LevelWarn))
	assert.True(t, h.Enabled(t.Context(), slog.LevelError))

	def := NewHandler(&bytes.Buffer{}, nil)
	assert.True(t, def.Enabled(t.Context(), slog.LevelInfo), "default level is info")
	assert.False(t, def.Enabled(t.Context(), slog.LevelDebug))
}

func TestHandler_Attrs(t *testing.T) {
	tests := []struct {
		name string
		log  func(*slog.Logger)
		want []string
		not  []string
	}{
		{
			name: "with attrs",
			log:  func(l *slog.Logger) { l.With("source", "claude").Info("msg", "local", "val") },
			want: []string{"source=claude", "local=val"},
		},
		{
			name: "groups become dotted keys",
			log: func(l *slog.Logger) {
				l.WithGroup("sync").With("source", "codex").Info("done", slog.Group("servers", "written", 2))
			},
			want: []string{"sync.source=codex", "sync.servers.written=2"},
		},
		{
			name: "secret keys masked",
			log:  func(l *slog.Logger) { l.Info("env", "api_key", "secret12345", "Token", "ghp_abcdef") },
			want: []string{"api_key=****2345", "Token=****cdef"},
			not:  []string{"secret12345", "ghp_abcdef"},
		},
		{
			name: "token values masked under any key",
			log:  func(l *slog.Logger) { l.Info("arg", "foo", "ghp_secrettoken") },
			want: []string{"foo=****oken"},
			not:  []string{"ghp_secrettoken"},
		},
		{
			name: "empty attrs skipped",
			log:  func(l *slog.Logger) { l.Info("msg", slog.Attr{}, slog.Group("empty")) },
			not:  []string{"=", "empty"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(slog.New(NewHandler(&buf, nil)))

			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
			for _, n := range tt.not {
				assert.NotContains(t, buf.String(), n)
			}
		})
	}
}

func TestHandler_TraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))

	logger.Log(t.Context(), LevelTrace, "fs event", "op", "WRITE")
	assert.Contains(t, buf.String(), "TRACE fs event op=WRITE")
}

type errHandler struct{ slog.Handler }

func (errHandler) Handle(context.Context, slog.Record) error { return assert.AnError }

func TestTeeHandler(t *testing.T) {
	var info, debug bytes.Buffer
	tee := NewTeeHandler(
		NewHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	logger := slog.New(tee).With("run", 1).WithGroup("g")

	logger.Debug("only debug")
	logger.Info("both", "k", "v")

	assert.NotContains(t, info.String(), "only debug")
	assert.Contains(t, info.String(), "run=1")
	assert.Contains(t, info.String(), "g.k=v")
	assert.Contains(t, debug.String(), `"only debug"`)
	assert.Contains(t, debug.String(), `"g":{"k":"v"}`)

	assert.False(t, tee.Enabled(t.Context(), LevelTrace))

	single := NewHandler(&info, nil)
	assert.Same(t, single, NewTeeHandler(single))

	failing := NewTeeHandler(errHandler{slog.NewJSONHandler(&debug, nil)}, NewHandler(&info, nil))
	err := failing.Handle(t.Context(), slog.NewRecord(time.Now(), slog.LevelInfo, "x", 0))
	assert.ErrorIs(t, err, assert.AnError)
}
