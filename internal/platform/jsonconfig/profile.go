package jsonconfig

import "github.com/thoreinstein/syncmcp/internal/mcp"

// Profile captures the per-tool conventions of a JSON MCP configuration.
type Profile struct {
	// Tool is the tool identifier.
	Tool string

	// ServersKey is the top-level key holding the server map.
	ServersKey string

	// SuppressTransport drops the transport field from output because the
	// tool does not support alternate transports.
	SuppressTransport bool

	// DefaultType is written as the server type when neither side sets one.
	DefaultType string

	// OmitEmptyEnv leaves out the env field when it would be empty.
	OmitEmptyEnv bool
}

// Tool identifiers handled by this package.
const (
	ToolClaude  = "claude"
	ToolCursor  = "cursor"
	ToolGemini  = "gemini"
	ToolCopilot = "copilot"
	ToolVSCode  = "vscode"
)

var profiles = []Profile{
	{Tool: ToolClaude, ServersKey: "mcpServers", SuppressTransport: true, DefaultType: mcp.TypeStdio},
	{Tool: ToolCursor, ServersKey: "mcpServers"},
	{Tool: ToolGemini, ServersKey: "mcpServers"},
	{Tool: ToolCopilot, ServersKey: "mcpServers"},
	{Tool: ToolVSCode, ServersKey: "servers", OmitEmptyEnv: true},
}

// LookupProfile returns the profile for tool.
func LookupProfile(tool string) (Profile, bool) {
	for _, p := range profiles {
		if p.Tool == tool {
			return p, true
		}
	}
	return Profile{}, false
}

// Tools returns the identifiers of every JSON-based tool.
func Tools() []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Tool
	}
	return out
}

// extraBlacklist lists internal-only extra fields that never appear in
// JSON output.
var extraBlacklist = map[string]bool{
	"startup_timeout_ms": true,
}
