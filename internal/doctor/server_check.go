package doctor

import (
	"fmt"

	"github.com/thoreinstein/syncmcp/pkg/fileutil"
	"github.com/thoreinstein/syncmcp/internal/mcp/validator"
	"github.com/thoreinstein/syncmcp/internal/platform"
)

// ServerCheck validates the server entries of every parseable tool config.
// Files that fail to parse are left to ConfigSyntaxCheck.
type ServerCheck struct {
	loc      platform.Locator
	reg      *platform.Registry
	lookPath func(string) (string, error)
}

var _ Check = (*ServerCheck)(nil)

// NewServerCheck creates a server validation check. A nil lookPath skips
// the check that server commands resolve.
func NewServerCheck(loc platform.Locator, reg *platform.Registry, lookPath func(string) (string, error)) *ServerCheck {
	return &ServerCheck{loc: loc, reg: reg, lookPath: lookPath}
}

// Name returns the unique identifier for this check.
func (c *ServerCheck) Name() string {
	return "mcp-servers"
}

// Category returns the grouping for this check.
func (c *ServerCheck) Category() string {
	return "config"
}

type serverIssue struct {
	Tool     string `json:"tool"`
	Server   string `json:"server"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Run validates each config and aggregates the issues.
func (c *ServerCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	opts := []validator.Option{validator.WithAllowEmpty(true)}
	if c.lookPath != nil {
		opts = append(opts, validator.WithCommandLookup(c.lookPath))
	}
	v := validator.New(opts...)

	var issues []serverIssue
	var servers, nErrors, nWarnings int
	for _, d := range c.loc.DetectInstalled() {
		data, err := fileutil.ReadFileWithLimit(d.ConfigPath)
		if err != nil {
			continue
		}
		parsed, err := c.reg.Parse(d.Tool.ID, string(data))
		if err != nil {
			continue
		}
		servers += parsed.Config.Len()

		found := v.Validate(parsed.Config)
		errs, warns := validator.Split(found)
		nErrors += len(errs)
		nWarnings += len(warns)
		for _, issue := range found {
			result.Findings = append(result.Findings, Finding{
				Subject: d.Tool.ID + "/" + issue.Server,
				Message: string(issue.Severity) + ": " + issue.Message,
			})
			issues = append(issues, serverIssue{
				Tool:     d.Tool.ID,
				Server:   issue.Server,
				Severity: string(issue.Severity),
				Message:  issue.Message,
			})
		}
	}

	result.Details = map[string]any{"servers": servers}
	if len(issues) > 0 {
		result.Details["issues"] = issues
	}

	switch {
	case nErrors > 0:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d server error(s), %d warning(s)", nErrors, nWarnings)
		result.FixHint = "servers with errors are copied as-is but the target tool will not start them"
	case nWarnings > 0:
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%d server warning(s)", nWarnings)
	case servers == 0:
		result.Status = SeverityInfo
		result.Message = "no MCP servers configured"
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("%d server(s) valid", servers)
	}
	return result
}
