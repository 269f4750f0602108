package prompt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/syncmcp/internal/cli"
	"github.com/thoreinstein/syncmcp/internal/mcp"
	"github.com/thoreinstein/syncmcp/internal/platform"
)

// scripted returns a Finder that answers with the label matching each
// prefix in turn, and records the labels it was offered.
func scripted(t *testing.T, offered *[][]string, picks ...string) Finder {
	t.Helper()
	return func(title string, items []Item) (int, error) {
		labels := make([]string, len(items))
		for i, it := range items {
			labels[i] = it.Label
		}
		*offered = append(*offered, labels)

		require.NotEmpty(t, picks, "unexpected prompt %q", title)
		pick := picks[0]
		picks = picks[1:]
		for i, l := range labels {
			if strings.HasPrefix(l, pick) {
				return i, nil
			}
		}
		t.Fatalf("no item starting with %q in %v", pick, labels)
		return 0, nil
	}
}

func testLocator(t *testing.T) platform.Locator {
	t.Helper()
	home := t.TempDir()
	return platform.Locator{
		Host:       mcp.Host{OS: "linux"},
		Home:       home,
		ConfigHome: filepath.Join(home, ".config"),
	}
}

func install(t *testing.T, loc platform.Locator, id string) string {
	t.Helper()
	tool, ok := platform.ByID(id)
	require.True(t, ok)
	path := loc.ConfigPath(tool)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	return path
}

func TestWizard_DetectedSourceAndTarget(t *testing.T) {
	loc := testLocator(t)
	claudePath := install(t, loc, "claude")
	cursorPath := install(t, loc, "cursor")

	var offered [][]string
	var out bytes.Buffer
	w := NewWizard(loc, scripted(t, &offered, "Claude Code", "Cursor"), strings.NewReader(""), &out)

	src, err := w.SelectSource()
	require.NoError(t, err)
	assert.Equal(t, "claude", src.ToolID())
	assert.Equal(t, claudePath, src.Path)

	tgt, err := w.SelectTarget(src)
	require.NoError(t, err)
	assert.Equal(t, "cursor", tgt.ToolID())
	assert.Equal(t, cursorPath, tgt.Path)

	require.Len(t, offered, 2)
	assert.Len(t, offered[0], 3)
	assert.Equal(t, "Custom path...", offered[0][2])
	// The source tool is not offered as a target.
	assert.Len(t, offered[1], 2)
	assert.NotContains(t, strings.Join(offered[1], "\n"), "Claude Code")
}

func TestWizard_CustomSourceInfersTool(t *testing.T) {
	loc := testLocator(t)
	custom := filepath.Join(t.TempDir(), "backup-of-codex", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(custom), 0o755))
	require.NoError(t, os.WriteFile(custom, []byte(""), 0o600))

	var offered [][]string
	var out bytes.Buffer
	in := strings.NewReader("\n" + custom + "\n")
	w := NewWizard(loc, scripted(t, &offered, "Custom path"), in, &out)

	src, err := w.SelectSource()
	require.NoError(t, err)
	assert.Equal(t, custom, src.Path)
	assert.Equal(t, "codex", src.ToolID())
	assert.Contains(t, out.String(), "Path is required.")
	assert.Contains(t, out.String(), "Detected Codex configuration.")
}

func TestWizard_CustomSourceUnknownTool(t *testing.T) {
	loc := testLocator(t)
	custom := filepath.Join(t.TempDir(), "servers.json")
	require.NoError(t, os.WriteFile(custom, []byte("{}"), 0o600))

	var offered [][]string
	w := NewWizard(loc, scripted(t, &offered, "Custom path"), strings.NewReader(custom+"\n"), &bytes.Buffer{})

	src, err := w.SelectSource()
	require.NoError(t, err)
	assert.Nil(t, src.Tool)
}

func TestWizard_CustomSourceGivesUp(t *testing.T) {
	loc := testLocator(t)
	missing := filepath.Join(t.TempDir(), "missing.json")

	var offered [][]string
	var out bytes.Buffer
	in := strings.NewReader(strings.Repeat(missing+"\n", maxPathAttempts))
	w := NewWizard(loc, scripted(t, &offered, "Custom path"), in, &out)

	_, err := w.SelectSource()
	require.ErrorIs(t, err, ErrInvalidSelection)
	assert.Equal(t, maxPathAttempts, strings.Count(out.String(), "File not found"))
}

func TestWizard_AnotherTool(t *testing.T) {
	loc := testLocator(t)

	var offered [][]string
	w := NewWizard(loc, scripted(t, &offered, "Another tool", "GitHub Copilot CLI"), strings.NewReader(""), &bytes.Buffer{})

	tgt, err := w.SelectTarget(cli.Endpoint{Path: "/elsewhere/config.json"})
	require.NoError(t, err)
	assert.Equal(t, "copilot", tgt.ToolID())

	copilot, _ := platform.ByID("copilot")
	assert.Equal(t, loc.ConfigPath(copilot), tgt.Path)
	require.Len(t, offered, 2)
	assert.Len(t, offered[1], len(platform.Tools()))
}

func TestWizard_Cancelled(t *testing.T) {
	loc := testLocator(t)
	cancel := func(string, []Item) (int, error) { return 0, ErrSelectionCancelled }
	w := NewWizard(loc, cancel, strings.NewReader(""), &bytes.Buffer{})

	_, err := w.SelectSource()
	require.ErrorIs(t, err, ErrSelectionCancelled)
}

func TestWizard_DefaultFinderIsLineBased(t *testing.T) {
	loc := testLocator(t)
	install(t, loc, "gemini")

	var out bytes.Buffer
	w := NewWizard(loc, nil, strings.NewReader("1\n"), &out)

	src, err := w.SelectSource()
	require.NoError(t, err)
	assert.Equal(t, "gemini", src.ToolID())
	assert.Contains(t, out.String(), "[2] Custom path...")
}
