package platform

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/syncmcp/internal/mcp"
	"github.com/thoreinstein/syncmcp/internal/paths"
	"github.com/thoreinstein/syncmcp/internal/platform/codex"
	"github.com/thoreinstein/syncmcp/internal/platform/jsonconfig"
)

// Base names the directory a tool's config location is relative to.
type Base string

const (
	// BaseHome is the user's home directory.
	BaseHome Base = "home"

	// BaseAppData is the Windows roaming application data directory.
	BaseAppData Base = "appdata"

	// BaseConfig is the XDG config home (~/.config on Linux,
	// ~/Library/Application Support on macOS).
	BaseConfig Base = "config"
)

// Location is a config file path relative to a base directory.
type Location struct {
	Base     Base
	Segments []string
}

// Tool describes a developer tool whose MCP server config sync-mcp manages.
// The values are static; a Tool is safe to copy and share.
type Tool struct {
	// ID is the identifier used on the command line and by the translators.
	ID string

	// Name is the human-readable name shown in prompts and listings.
	Name string

	// Keywords are additional case-insensitive aliases accepted by Resolve.
	Keywords []string

	// DocsURL points at the tool's MCP configuration documentation.
	DocsURL string

	// Unix is the config location on Linux and macOS.
	Unix Location

	// Windows is the config location on Windows.
	Windows Location
}

// catalog lists the known tools in presentation order.
var catalog = []Tool{
	{
		ID:       codex.Tool,
		Name:     "Codex",
		Keywords: []string{"codex", "openai", "codex cli"},
		DocsURL:  "https://github.com/openai/codex/blob/main/docs/config.md",
		Unix:     Location{Base: BaseHome, Segments: []string{".codex", "config.toml"}},
		Windows:  Location{Base: BaseHome, Segments: []string{".codex", "config.toml"}},
	},
	{
		ID:       jsonconfig.ToolClaude,
		Name:     "Claude Code",
		Keywords: []string{"claude", "claude-code", "claude code", "anthropic"},
		DocsURL:  "https://docs.anthropic.com/en/docs/claude-code",
		Unix:     Location{Base: BaseHome, Segments: []string{".claude.json"}},
		Windows:  Location{Base: BaseHome, Segments: []string{".claude.json"}},
	},
	{
		ID:       jsonconfig.ToolCursor,
		Name:     "Cursor",
		Keywords: []string{"cursor", "cursor ide"},
		DocsURL:  "https://docs.cursor.com/context/mcp",
		Unix:     Location{Base: BaseHome, Segments: []string{".cursor", "mcp.json"}},
		Windows:  Location{Base: BaseHome, Segments: []string{".cursor", "mcp.json"}},
	},
	{
		ID:       jsonconfig.ToolGemini,
		Name:     "Gemini CLI",
		Keywords: []string{"gemini", "gemini cli", "google", "gcloud"},
		DocsURL:  "https://github.com/google-gemini/gemini-cli/blob/main/docs/tools/mcp-server.md",
		Unix:     Location{Base: BaseHome, Segments: []string{".gemini", "settings.json"}},
		Windows:  Location{Base: BaseHome, Segments: []string{".gemini", "settings.json"}},
	},
	{
		ID:       jsonconfig.ToolCopilot,
		Name:     "GitHub Copilot CLI",
		Keywords: []string{"copilot", "copilot cli", "github", "gh"},
		DocsURL:  "https://github.com/github/docs/blob/main/content/copilot/how-tos/use-copilot-agents/use-copilot-cli.md",
		Unix:     Location{Base: BaseHome, Segments: []string{".copilot", "mcp-config.json"}},
		Windows:  Location{Base: BaseHome, Segments: []string{".copilot", "mcp-config.json"}},
	},
	{
		ID:       jsonconfig.ToolVSCode,
		Name:     "Visual Studio Code",
		Keywords: []string{"vscode", "vs code", "vs-code", "code"},
		DocsURL:  "https://code.visualstudio.com/docs/copilot/copilot-customization/copilot/chat/mcp-servers",
		Unix:     Location{Base: BaseConfig, Segments: []string{"Code", "User", "mcp.json"}},
		Windows:  Location{Base: BaseAppData, Segments: []string{"Code", "User", "mcp.json"}},
	},
}

// Tools returns every known tool in presentation order.
func Tools() []Tool {
	out := make([]Tool, len(catalog))
	copy(out, catalog)
	return out
}

// SupportedTools returns the identifiers of every known tool in
// presentation order.
func SupportedTools() []string {
	ids := make([]string, 0, len(catalog))
	for _, t := range catalog {
		ids = append(ids, t.ID)
	}
	return ids
}

// ValidTool returns true if id names a known tool. Matching is exact.
func ValidTool(id string) bool {
	_, ok := ByID(id)
	return ok
}

// ByID returns the tool with the given identifier.
func ByID(id string) (Tool, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}

// Resolve finds the tool named by keyword. The keyword is trimmed and
// compared case-insensitively against each tool's ID, Name and Keywords.
func Resolve(keyword string) (Tool, bool) {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return Tool{}, false
	}
	for _, t := range catalog {
		if t.ID == k || strings.ToLower(t.Name) == k {
			return t, true
		}
		for _, alias := range t.Keywords {
			if strings.ToLower(alias) == k {
				return t, true
			}
		}
	}
	return Tool{}, false
}

// Locator resolves tool config file locations for a host.
type Locator struct {
	// Host selects the Unix or Windows location.
	Host mcp.Host

	// Home, AppData and ConfigHome are the base directories.
	Home       string
	AppData    string
	ConfigHome string

	// Overrides maps tool IDs to config paths that replace the default.
	Overrides map[string]string
}

// DefaultLocator returns a Locator for the current machine with the given
// path overrides.
func DefaultLocator(overrides map[string]string) Locator {
	return Locator{
		Host:       mcp.CurrentHost(),
		Home:       paths.Home(),
		AppData:    paths.AppData(),
		ConfigHome: paths.ConfigHome(),
		Overrides:  overrides,
	}
}

// DefaultPath returns the conventional config path of t, ignoring overrides.
// Returns an empty string when the base directory is unknown.
func (l Locator) DefaultPath(t Tool) string {
	loc := t.Unix
	if l.Host.IsWindows() {
		loc = t.Windows
	}

	var base string
	switch loc.Base {
	case BaseAppData:
		base = l.AppData
	case BaseConfig:
		base = l.ConfigHome
	default:
		base = l.Home
	}
	if base == "" {
		return ""
	}
	return filepath.Join(append([]string{base}, loc.Segments...)...)
}

// ConfigPath returns the config path of t: the override when one is set,
// the default location otherwise.
func (l Locator) ConfigPath(t Tool) string {
	if p := l.Overrides[t.ID]; p != "" {
		if expanded, err := paths.Expand(p); err == nil {
			return expanded
		}
		return p
	}
	return l.DefaultPath(t)
}

// InferFromPath guesses which tool owns the file at path. A path equal to
// a tool's config path wins; otherwise the first tool whose ID or
// space-free lower-case name appears in the path is returned.
func (l Locator) InferFromPath(path string) (Tool, bool) {
	if path == "" {
		return Tool{}, false
	}
	for _, t := range catalog {
		if paths.Same(path, l.ConfigPath(t)) {
			return t, true
		}
	}

	normalized := strings.ToLower(paths.Normalize(path))
	for _, t := range catalog {
		squashed := strings.Join(strings.Fields(strings.ToLower(t.Name)), "")
		if strings.Contains(normalized, t.ID) || strings.Contains(normalized, squashed) {
			return t, true
		}
	}
	return Tool{}, false
}
