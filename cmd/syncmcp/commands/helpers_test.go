package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/syncmcp/internal/logging"
)

const claudeConfig = `{
  "theme": "dark",
  "mcpServers": {
    "github": {
      "command": "npx",
      "args": ["-y", "@modelcontextprotocol/server-github"],
      "env": {"GITHUB_TOKEN": "ghp_0123456789abcdef"}
    }
  }
}
`

// testEnv is an isolated set of tool config paths, backup directory and
// history database wired in through a temporary config file.
type testEnv struct {
	dir     string
	claude  string
	codex   string
	cursor  string
	backups string
	history string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:     dir,
		claude:  filepath.Join(dir, "home", ".claude.json"),
		codex:   filepath.Join(dir, "home", ".codex", "config.toml"),
		cursor:  filepath.Join(dir, "home", ".cursor", "mcp.json"),
		backups: filepath.Join(dir, "backups"),
		history: filepath.Join(dir, "history.db"),
	}

	cfgDir := filepath.Join(dir, "config")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	cfg := strings.Join([]string{
		"version: 1",
		"backup:",
		"  dir: " + env.backups,
		"history:",
		"  path: " + env.history,
		"tools:",
		"  claude:",
		"    path: " + env.claude,
		"  codex:",
		"    path: " + env.codex,
		"  cursor:",
		"    path: " + env.cursor,
		"  gemini:",
		"    path: " + filepath.Join(dir, "home", ".gemini", "settings.json"),
		"  copilot:",
		"    path: " + filepath.Join(dir, "home", ".copilot", "mcp-config.json"),
		"  vscode:",
		"    path: " + filepath.Join(dir, "home", ".config", "Code", "User", "mcp.json"),
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(cfg), 0o600))

	t.Setenv("SYNC_MCP_CONFIG_DIR", cfgDir)
	t.Setenv("NO_COLOR", "1")
	prevNoColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prevNoColor })
	t.Cleanup(resetState)
	return env
}

func (e *testEnv) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func (e *testEnv) read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// execute runs the root command with args and captures its output.
func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetState()

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetContext(context.Background())

	err = Execute()
	return out.String(), errOut.String(), err
}

// resetState clears flag values and loaded state left by a previous run.
func resetState() {
	resetFlags(rootCmd)
	loadedConfig = nil
	configLoadErr = nil
	_ = closeLogFile()
	slog.SetDefault(logging.NewDiscard())
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
