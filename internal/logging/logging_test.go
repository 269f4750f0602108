package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		isJSON bool
	}{
		{"json", FormatJSON, true},
		{"text", FormatText, false},
		{"unknown falls back to text", Format("xml"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: slog.LevelInfo, Format: tt.format, Output: &buf})

			logger.Info("synced", "target", "codex")

			var parsed map[string]any
			err := json.Unmarshal(buf.Bytes(), &parsed)
			if tt.isJSON {
				require.NoError(t, err, buf.String())
				assert.Equal(t, "synced", parsed["msg"])
				assert.Equal(t, "codex", parsed["target"])
				return
			}
			assert.Error(t, err)
			assert.Contains(t, buf.String(), "target=codex")
		})
	}
}

func TestNew_Levels(t *testing.T) {
	logAll := func(l *slog.Logger) {
		l.Log(t.Context(), LevelTrace, "trace")
		l.Debug("debug")
		l.Info("info")
		l.Warn("warn")
		l.Error("error")
	}

	tests := []struct {
		level slog.Level
		want  []string
	}{
		{LevelTrace, []string{"trace", "debug", "info", "warn", "error"}},
		{slog.LevelInfo, []string{"info", "warn", "error"}},
		{slog.LevelError, []string{"error"}},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logAll(New(Config{Level: tt.level, Format: FormatJSON, Output: &buf}))

			var got []string
			for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
				var rec map[string]any
				require.NoError(t, json.Unmarshal([]byte(line), &rec))
				got = append(got, rec["msg"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{9, LevelTrace},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFromVerbosity(tt.verbosity), "verbosity %d", tt.verbosity)
	}
	assert.Less(t, LevelTrace, slog.LevelDebug)
}

func TestNew_FileReceivesDebugAsJSON(t *testing.T) {
	var console, file bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelWarn,
		Format: FormatText,
		Output: &console,
		File:   &file,
	})

	logger.Debug("parsed source", "servers", 3)
	logger.Warn("target unparsable", "path", "/tmp/x.json")

	assert.NotContains(t, console.String(), "parsed source")
	assert.Contains(t, console.String(), "target unparsable")

	lines := strings.Split(strings.TrimSpace(file.String()), "\n")
	require.Len(t, lines, 2, file.String())
	for _, line := range lines {
		assert.True(t, json.Valid([]byte(line)), line)
	}
}

func TestNew_JSONRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("env", "GITHUB_TOKEN", "ghp_supersecret", "command", "npx")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "****cret", parsed["GITHUB_TOKEN"])
	assert.Equal(t, "npx", parsed["command"])
	assert.Equal(t, "env", parsed["msg"], "builtin keys are never redacted")
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
	assert.NotNil(t, Default())
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf})

	FromContext(NewContext(t.Context(), logger)).Info("from context")
	assert.Contains(t, buf.String(), "from context")

	assert.NotNil(t, FromContext(t.Context()), "missing logger yields a discard logger")
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	assert.True(t, logger.Enabled(t.Context(), LevelTrace))
	logger.Log(t.Context(), LevelTrace, "visible with -v")

	tw := &testWriter{t: t}
	n, err := tw.Write([]byte("line\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}
