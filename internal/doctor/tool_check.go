package doctor

import (
	"fmt"

	"github.com/thoreinstein/syncmcp/internal/platform"
)

// ToolCheck reports which supported tools have an MCP config on disk.
type ToolCheck struct {
	loc platform.Locator
}

var _ Check = (*ToolCheck)(nil)

// NewToolCheck creates a tool detection check.
func NewToolCheck(loc platform.Locator) *ToolCheck {
	return &ToolCheck{loc: loc}
}

// Name returns the unique identifier for this check.
func (c *ToolCheck) Name() string {
	return "tool-detection"
}

// Category returns the grouping for this check.
func (c *ToolCheck) Category() string {
	return "tools"
}

// Run executes the detection and summarizes it.
func (c *ToolCheck) Run() *CheckResult {
	results := c.loc.DetectAll()

	tools := make(map[string]any, len(results))
	var installed, partial int
	for _, r := range results {
		tools[r.Tool.ID] = map[string]any{
			"status":      string(r.Status),
			"config_path": r.ConfigPath,
		}
		switch r.Status {
		case platform.StatusInstalled:
			installed++
		case platform.StatusPartial:
			partial++
		}
	}

	details := map[string]any{
		"tools":     tools,
		"installed": installed,
		"partial":   partial,
		"total":     len(results),
	}

	if installed == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "no tool has an MCP config file; there is nothing to sync from",
			Details:  details,
			FixHint:  "configure an MCP server in one tool, or set tools.<id>.path in the sync-mcp config",
		}
	}

	msg := fmt.Sprintf("%d of %d tools have an MCP config", installed, len(results))
	if partial > 0 {
		msg += fmt.Sprintf(", %d installed without one", partial)
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  msg,
		Details:  details,
	}
}
