package codex

import (
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/mcp"
	"github.com/thoreinstein/syncmcp/pkg/ordered"
)

var linux = mcp.Host{OS: "linux"}

func decodeTOML(t *testing.T, text string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, toml.Unmarshal([]byte(text), &out), "output is not valid TOML:\n%s", text)
	return out
}

func TestParse_WindowsShellUnwrapped(t *testing.T) {
	raw := `[mcp_servers.fs]
command = "CMD.EXE"
args = ["/C", "npx", "-y", "pkg"]
`
	cfg, _, err := NewTranslator().ParseDocument(raw)
	require.NoError(t, err)

	s, ok := cfg.Get("fs")
	require.True(t, ok)
	assert.Equal(t, "npx", s.Command)
	assert.Equal(t, []string{"-y", "pkg"}, s.Args)
}

func TestParse_ShellWithoutSwitchKept(t *testing.T) {
	cfg, _, err := NewTranslator().ParseDocument("[mcp_servers.x]\ncommand = \"cmd\"\nargs = [\"/q\", \"run\"]\n")
	require.NoError(t, err)

	s, _ := cfg.Get("x")
	assert.Equal(t, "cmd", s.Command)
	assert.Equal(t, []string{"/q", "run"}, s.Args)
}

func TestParse_CanonicalFields(t *testing.T) {
	raw := `[mcp_servers.api]
command = "node"
args = ["server.js"]
env = { PORT = "8080", DEBUG = "1" }
startup_timeout_ms = 30_000
cwd = "/srv/api"
description = "API server"
enabled = false

[mcp_servers.api.extra]
note = "nested"
`
	cfg, meta, err := NewTranslator().ParseDocument(raw)
	require.NoError(t, err)

	s, ok := cfg.Get("api")
	require.True(t, ok)
	assert.Equal(t, "node", s.Command)
	assert.Equal(t, "/srv/api", s.Cwd)
	assert.Equal(t, "API server", s.Description)
	assert.Equal(t, []string{"PORT", "DEBUG"}, s.EnvKeys())
	assert.Equal(t, []string{"note", "startup_timeout_ms", "enabled"}, s.Extra.Keys())

	timeout, _ := s.Extra.Get("startup_timeout_ms")
	assert.Equal(t, int64(30000), timeout)

	assert.Equal(t, []string{"api"}, meta.Order)
	assert.True(t, meta.ExistingServers.Has("api"))
}

func TestFormat_Fresh(t *testing.T) {
	cfg := mcp.NewConfig()
	s := &mcp.Server{Command: "npx", Args: []string{"pkg"}}
	s.SetEnv("FOO", "bar")
	cfg.Set("fs", s)
	cfg.Set("py", &mcp.Server{Command: "uvx", Args: []string{"mcp-server-time"}})

	got := NewTranslator().FormatDocument(cfg, nil, linux)

	want := `[mcp_servers.fs]
command = "npx"
args = [
  "-y",
  "pkg"
]
env = { FOO="bar" }
startup_timeout_ms = 60_000

[mcp_servers.py]
command = "uvx"
args = [
  "mcp-server-time"
]
env = {}
startup_timeout_ms = 60_000
`
	assert.Equal(t, want, got)
	decodeTOML(t, got)
}

func TestFormat_WindowsHost(t *testing.T) {
	host := mcp.Host{OS: "windows", LookupEnv: func(k string) (string, bool) {
		if k == "SystemRoot" {
			return `D:\Windows`, true
		}
		return "", false
	}}
	cfg := mcp.NewConfig()
	cfg.Set("fs", &mcp.Server{Command: "npx", Args: []string{"pkg"}})

	got := NewTranslator().FormatDocument(cfg, nil, host)

	want := `[mcp_servers.fs]
command = "cmd"
args = [
  "/c",
  "npx",
  "-y",
  "pkg"
]
env = { SystemRoot="D:\\Windows", PROGRAMFILES="C:\\Program Files" }
startup_timeout_ms = 60_000
`
	assert.Equal(t, want, got)

	// Re-parsing recovers the logical command.
	back, _, err := NewTranslator().ParseDocument(got)
	require.NoError(t, err)
	s, _ := back.Get("fs")
	assert.Equal(t, "npx", s.Command)
	assert.Equal(t, []string{"-y", "pkg"}, s.Args)
}

func TestFormat_WindowsEnvNotOverridden(t *testing.T) {
	cfg := mcp.NewConfig()
	s := &mcp.Server{Command: "node"}
	s.SetEnv("SystemRoot", `E:\Win`)
	cfg.Set("n", s)

	got := NewTranslator().FormatDocument(cfg, nil, mcp.Host{OS: "windows"})
	assert.Contains(t, got, `SystemRoot="E:\\Win"`)
	assert.Contains(t, got, `PROGRAMFILES="C:\\Program Files"`)
}

func TestFormat_EmptyConfig(t *testing.T) {
	assert.Equal(t, "\n", NewTranslator().FormatDocument(nil, nil, linux))
}

func TestFormat_FractionalExistingTimeout(t *testing.T) {
	tr := NewTranslator()
	_, meta, err := tr.ParseDocument("[mcp_servers.a]\ncommand = \"x\"\nstartup_timeout_ms = 1500.5\n")
	require.NoError(t, err)

	cfg := mcp.NewConfig()
	cfg.Set("a", &mcp.Server{Command: "y"})
	got := tr.FormatDocument(cfg, meta, linux)
	assert.Contains(t, got, "startup_timeout_ms = 1_501\n")
	assert.NotContains(t, got, "1500.5")

	// Servers only present on disk are re-emitted with the same rounding.
	got = tr.FormatDocument(mcp.NewConfig(), meta, linux)
	assert.Contains(t, got, "startup_timeout_ms = 1_501\n")
}

func TestFormat_StartupTimeoutPrecedence(t *testing.T) {
	existing := "[mcp_servers.a]\ncommand = \"x\"\nstartup_timeout_ms = 90_000\n"
	tr := NewTranslator()
	_, meta, err := tr.ParseDocument(existing)
	require.NoError(t, err)

	tests := []struct {
		name  string
		extra any
		meta  *Meta
		want  string
	}{
		{"default", nil, nil, "startup_timeout_ms = 60_000"},
		{"existing", nil, meta, "startup_timeout_ms = 90_000"},
		{"canonical extra wins", int64(15000), meta, "startup_timeout_ms = 15_000"},
		{"small value", int64(500), nil, "startup_timeout_ms = 500"},
		{"fractional canonical rounded", 1500.5, nil, "startup_timeout_ms = 1_501"},
		{"fractional below half", 1500.4, nil, "startup_timeout_ms = 1_500"},
		{"non-numeric falls back", "soon", meta, "startup_timeout_ms = 90_000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &mcp.Server{Command: "x", Extra: ordered.New()}
			if tt.extra != nil {
				s.Extra.Set("startup_timeout_ms", tt.extra)
			}
			cfg := mcp.NewConfig()
			cfg.Set("a", s)

			got := tr.FormatDocument(cfg, tt.meta, linux)
			assert.Contains(t, got, tt.want)
			assert.Equal(t, 1, countLines(got, "startup_timeout_ms"), "timeout must be written once:\n%s", got)
		})
	}
}

func TestFormat_MergesIntoExisting(t *testing.T) {
	existing := `# my codex config
model = "o3"

[mcp_servers.keep]
command = "legacy"
args = ["--flag"]
custom = { level = 3 }

[mcp_servers.fs]
command = "old"
env = { FOO = "1", BAR = "2" }
enabled = true

[features]
web_search = true
`
	tr := NewTranslator()
	_, meta, err := tr.ParseDocument(existing)
	require.NoError(t, err)

	src := &mcp.Server{Command: "npx", Args: []string{"-y", "server-fs"}, Cwd: "/work"}
	src.SetEnv("FOO", "9")
	cfg := mcp.NewConfig()
	cfg.Set("new", &mcp.Server{Command: "uvx"})
	cfg.Set("fs", src)

	got := tr.FormatDocument(cfg, meta, linux)
	doc := decodeTOML(t, got)

	assert.Equal(t, "o3", doc["model"])
	assert.Equal(t, map[string]any{"web_search": true}, doc["features"])

	servers := doc["mcp_servers"].(map[string]any)

	keep := servers["keep"].(map[string]any)
	assert.Equal(t, "legacy", keep["command"])
	assert.Equal(t, []any{"--flag"}, keep["args"])
	assert.Equal(t, map[string]any{"level": int64(3)}, keep["custom"])

	fs := servers["fs"].(map[string]any)
	assert.Equal(t, "npx", fs["command"])
	assert.Equal(t, map[string]any{"FOO": "9", "BAR": "2"}, fs["env"])
	assert.Equal(t, true, fs["enabled"])
	assert.Equal(t, "/work", fs["cwd"])

	assert.Contains(t, servers, "new")

	// Original order first, then canonical-only servers.
	assert.Less(t, strings.Index(got, "[mcp_servers.keep]"), strings.Index(got, "[mcp_servers.fs]"))
	assert.Less(t, strings.Index(got, "[mcp_servers.fs]"), strings.Index(got, "[mcp_servers.new]"))
	assert.Less(t, strings.Index(got, "[mcp_servers.new]"), strings.Index(got, "[features]"))
	assert.True(t, strings.HasPrefix(got, "# my codex config\nmodel = \"o3\"\n\n[mcp_servers.keep]"))
}

func TestFormat_DoesNotMutateMeta(t *testing.T) {
	tr := NewTranslator()
	_, meta, err := tr.ParseDocument("[mcp_servers.a]\ncommand = \"x\"\nenv = { K = \"v\" }\n")
	require.NoError(t, err)
	before := tr.FormatDocument(mcp.NewConfig(), meta, linux)

	cfg := mcp.NewConfig()
	s := &mcp.Server{Command: "y"}
	s.SetEnv("K", "changed")
	cfg.Set("a", s)
	tr.FormatDocument(cfg, meta, linux)

	assert.Equal(t, before, tr.FormatDocument(mcp.NewConfig(), meta, linux))
}

func TestRoundTrip_SameTool(t *testing.T) {
	raw := `model = "o3"

[mcp_servers.github]
command = "npx"
args = [
  "-y",
  "@modelcontextprotocol/server-github"
]
env = { GITHUB_TOKEN="abc" }
startup_timeout_ms = 60_000

[mcp_servers.time]
command = "uvx"
args = [
  "mcp-server-time"
]
env = {}
startup_timeout_ms = 20_000
enabled = true
`
	tr := NewTranslator()
	res, err := tr.Parse(raw)
	require.NoError(t, err)

	out, err := tr.Format(res.Config, mcp.FormatOptions{Meta: res.Meta, Host: linux})
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

type foreignMeta struct{}

func (foreignMeta) Family() mcp.Family { return mcp.FamilyJSON }

func TestFormat_ForeignMeta(t *testing.T) {
	_, err := NewTranslator().Format(mcp.NewConfig(), mcp.FormatOptions{Meta: foreignMeta{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, mcp.ErrFormat))
	assert.True(t, errors.Is(err, mcp.ErrMetaMismatch))
}

func TestServerOrder(t *testing.T) {
	cfg := mcp.NewConfig()
	cfg.Set("c", &mcp.Server{})
	cfg.Set("a", &mcp.Server{})
	existing := ordered.New()
	existing.Set("b", ordered.New())
	existing.Set("z", ordered.New())

	got := serverOrder([]string{"a", "gone", "b"}, cfg, existing)
	assert.Equal(t, []string{"a", "b", "c", "z"}, got)
}

func TestEnsureNonInteractive(t *testing.T) {
	assert.Equal(t, []string{"-y", "pkg"}, ensureNonInteractive("npx", []string{"pkg"}))
	assert.Equal(t, []string{"pkg", "-y"}, ensureNonInteractive("npx", []string{"pkg", "-y"}))
	assert.Equal(t, []string{"pkg"}, ensureNonInteractive("uvx", []string{"pkg"}))
}

func countLines(text, prefix string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func TestFormat_CwdAlwaysWrittenOtherFieldsOnlyRefreshed(t *testing.T) {
	tr := NewTranslator()
	_, meta, err := tr.ParseDocument("[mcp_servers.a]\ncommand = \"x\"\ndescription = \"old\"\n")
	require.NoError(t, err)

	cfg := mcp.NewConfig()
	cfg.Set("a", &mcp.Server{Command: "x", Cwd: "/srv", Description: "new", Type: mcp.TypeStdio})
	cfg.Set("b", &mcp.Server{Command: "y", Cwd: "/opt", Description: "fresh", Transport: "stdio"})

	servers := decodeTOML(t, tr.FormatDocument(cfg, meta, linux))["mcp_servers"].(map[string]any)

	a := servers["a"].(map[string]any)
	assert.Equal(t, "/srv", a["cwd"])
	assert.Equal(t, "new", a["description"])
	assert.NotContains(t, a, "type")

	b := servers["b"].(map[string]any)
	assert.Equal(t, "/opt", b["cwd"])
	assert.NotContains(t, b, "description")
	assert.NotContains(t, b, "transport")
}
