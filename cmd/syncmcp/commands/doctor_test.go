package commands

import (
	"encoding/json"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/syncmcp/internal/doctor"
	"github.com/thoreinstein/syncmcp/internal/errors"
)

func TestDoctor(t *testing.T) {
	t.Run("no tools configured warns", func(t *testing.T) {
		newTestEnv(t)

		out, _, err := execute(t, "", "doctor")
		require.Error(t, err)
		assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
		assert.Contains(t, out, "[tools] tool-detection")
		assert.Contains(t, out, "Summary:")
	})

	t.Run("broken config is an error", func(t *testing.T) {
		env := newTestEnv(t)
		env.write(t, env.cursor, "{broken")

		out, _, err := execute(t, "", "doctor")
		require.Error(t, err)
		assert.Equal(t, errors.ExitSystem, errors.ExitCode(err))
		assert.Contains(t, out, "config-syntax")
		assert.Contains(t, out, env.cursor)
	})

	t.Run("json report", func(t *testing.T) {
		env := newTestEnv(t)
		env.write(t, env.claude, claudeConfig)

		out, _, _ := execute(t, "", "doctor", "--json")

		var report doctor.Report
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		require.Len(t, report.Results, 4)
		assert.Equal(t, "tool-detection", report.Results[0].Name)
		assert.Equal(t, doctor.SeverityPass, report.Results[0].Status)
	})

	t.Run("json and quiet conflict", func(t *testing.T) {
		newTestEnv(t)

		_, _, err := execute(t, "", "doctor", "--json", "-q")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})
}

func TestDoctor_Fix(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	env := newTestEnv(t)
	env.write(t, env.claude, claudeConfig)
	require.NoError(t, os.Chmod(env.claude, 0o644))

	out, _, _ := execute(t, "", "doctor", "--fix")
	assert.Contains(t, out, "fixed "+env.claude)

	info, err := os.Stat(env.claude)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
