// Package cli provides helpers shared by the sync-mcp commands.
package cli

import (
	"fmt"
	"strings"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/paths"
	"github.com/thoreinstein/syncmcp/internal/platform"
)

// ErrNoToolsDetected is returned when no tool has a config file on disk.
var ErrNoToolsDetected = errors.New("no tool configurations detected")

// Endpoint is one side of a sync: a config file and, when known, the tool
// that owns it.
type Endpoint struct {
	// Tool is nil for a file whose format is not recognized.
	Tool *platform.Tool
	Path string
}

// ToolID returns the endpoint's tool id, or an empty string.
func (e Endpoint) ToolID() string {
	if e.Tool == nil {
		return ""
	}
	return e.Tool.ID
}

// Label returns the tool name, or the display path for unknown files.
func (e Endpoint) Label() string {
	if e.Tool != nil {
		return e.Tool.Name
	}
	return paths.Display(e.Path)
}

// ResolveTool maps a command-line keyword to a catalog tool.
func ResolveTool(keyword string) (platform.Tool, error) {
	t, ok := platform.Resolve(keyword)
	if !ok {
		return platform.Tool{}, errors.WithHint(
			errors.Wrapf(errors.ErrUnknownTool, "%q", keyword),
			"Supported keywords: "+strings.Join(Keywords(), ", "),
		)
	}
	return t, nil
}

// ResolveTools maps keywords to tools. With no keywords it returns every
// tool whose config exists. All unknown keywords are reported together.
func ResolveTools(loc platform.Locator, keywords []string) ([]platform.Tool, error) {
	if len(keywords) == 0 {
		detected := loc.DetectInstalled()
		if len(detected) == 0 {
			return nil, ErrNoToolsDetected
		}
		tools := make([]platform.Tool, 0, len(detected))
		for _, d := range detected {
			tools = append(tools, d.Tool)
		}
		return tools, nil
	}

	var invalid []string
	tools := make([]platform.Tool, 0, len(keywords))
	for _, k := range keywords {
		t, ok := platform.Resolve(k)
		if !ok {
			invalid = append(invalid, k)
			continue
		}
		tools = append(tools, t)
	}
	if len(invalid) > 0 {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrUnknownTool, "%s", strings.Join(invalid, ", ")),
			"Supported keywords: "+strings.Join(Keywords(), ", "),
		)
	}
	return tools, nil
}

// Keywords lists every accepted tool keyword, ids first.
func Keywords() []string {
	var out []string
	for _, t := range platform.Tools() {
		out = append(out, t.ID)
	}
	for _, t := range platform.Tools() {
		for _, k := range t.Keywords {
			if k != t.ID {
				out = append(out, k)
			}
		}
	}
	return out
}

// DescribeTool formats a tool and its config path for listings.
func DescribeTool(t platform.Tool, path string) string {
	return fmt.Sprintf("%s (%s)", t.Name, paths.Display(path))
}
