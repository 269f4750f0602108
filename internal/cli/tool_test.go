package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/mcp"
	"github.com/thoreinstein/syncmcp/internal/platform"
)

func TestResolveTool(t *testing.T) {
	tests := []struct {
		keyword string
		want    string
		wantErr bool
	}{
		{"codex", "codex", false},
		{"Claude Code", "claude", false},
		{" GH ", "copilot", false},
		{"emacs", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			got, err := ResolveTool(tt.keyword)
			if tt.wantErr {
				require.ErrorIs(t, err, errors.ErrUnknownTool)
				assert.Contains(t, errors.FlattenHints(err), "Supported keywords: codex, claude")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestResolveTools(t *testing.T) {
	home := t.TempDir()
	loc := platform.Locator{Host: mcp.Host{OS: "linux"}, Home: home, ConfigHome: filepath.Join(home, ".config")}

	_, err := ResolveTools(loc, nil)
	require.ErrorIs(t, err, ErrNoToolsDetected)

	claude, _ := platform.ByID("claude")
	path := loc.ConfigPath(claude)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	tools, err := ResolveTools(loc, nil)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "claude", tools[0].ID)

	tools, err = ResolveTools(loc, []string{"cursor", "vs code"})
	require.NoError(t, err)
	assert.Equal(t, "cursor", tools[0].ID)
	assert.Equal(t, "vscode", tools[1].ID)

	_, err = ResolveTools(loc, []string{"cursor", "emacs", "vim"})
	require.ErrorIs(t, err, errors.ErrUnknownTool)
	assert.Contains(t, err.Error(), "emacs, vim")
}

func TestKeywords(t *testing.T) {
	kw := Keywords()
	assert.Equal(t, []string{"codex", "claude", "cursor", "gemini", "copilot", "vscode"}, kw[:6])
	assert.Contains(t, kw, "openai")
	assert.Contains(t, kw, "gh")

	seen := make(map[string]bool)
	for _, k := range kw {
		assert.False(t, seen[k], "duplicate keyword %q", k)
		seen[k] = true
	}
}

func TestEndpoint(t *testing.T) {
	codex, _ := platform.ByID("codex")

	known := Endpoint{Tool: &codex, Path: "/x/config.toml"}
	assert.Equal(t, "codex", known.ToolID())
	assert.Equal(t, "Codex", known.Label())

	unknown := Endpoint{Path: "/x/servers.json"}
	assert.Empty(t, unknown.ToolID())
	assert.Equal(t, "/x/servers.json", unknown.Label())
}
