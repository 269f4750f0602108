package commands

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/syncmcp/internal/config"
)

// fakeEditor installs an $EDITOR that writes content to the file it opens,
// appending or replacing.
func fakeEditor(t *testing.T, content string, replace bool) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script editor")
	}
	dir := t.TempDir()
	payload := filepath.Join(dir, "payload")
	require.NoError(t, os.WriteFile(payload, []byte(content), 0o600))
	script := filepath.Join(dir, "editor.sh")
	redirect := ">>"
	if replace {
		redirect = ">"
	}
	body := "#!/bin/sh\ncat " + payload + " " + redirect + " \"$1\"\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))
	t.Setenv("EDITOR", script)
	t.Setenv("VISUAL", "")
}

func TestConfigEdit(t *testing.T) {
	t.Run("edits loaded file", func(t *testing.T) {
		env := newTestEnv(t)
		fakeEditor(t, "watch:\n  debounce: 1s\n", false)

		_, stderr, err := execute(t, "", "config", "edit")
		require.NoError(t, err)
		assert.Contains(t, stderr, "Saved")

		data := env.read(t, filepath.Join(env.dir, "config", "config.yaml"))
		assert.Contains(t, data, "debounce: 1s")
	})

	t.Run("creates missing file", func(t *testing.T) {
		newTestEnv(t)
		cfgDir := filepath.Join(t.TempDir(), "fresh")
		t.Setenv("SYNC_MCP_CONFIG_DIR", cfgDir)
		fakeEditor(t, "", false)

		_, stderr, err := execute(t, "", "config", "edit")
		require.NoError(t, err)
		assert.Contains(t, stderr, "Created")

		data, err := os.ReadFile(filepath.Join(cfgDir, config.FileName))
		require.NoError(t, err)
		assert.Equal(t, config.Template, string(data))
	})

	t.Run("rejects invalid result", func(t *testing.T) {
		newTestEnv(t)
		fakeEditor(t, "version: 7\n", true)

		_, _, err := execute(t, "", "config", "edit")
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrUnsupportedVersion)
	})
}
