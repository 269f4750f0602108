package doctor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/platform"
	"github.com/thoreinstein/syncmcp/internal/platform/codex"
	"github.com/thoreinstein/syncmcp/pkg/fileutil"
)

// ConfigSyntaxCheck parses every present tool config with the adapter
// sync-mcp would use for it, so a sync never starts from a file it would
// have to discard.
type ConfigSyntaxCheck struct {
	loc platform.Locator
	reg *platform.Registry
}

var _ Check = (*ConfigSyntaxCheck)(nil)

func NewConfigSyntaxCheck(loc platform.Locator, reg *platform.Registry) *ConfigSyntaxCheck {
	return &ConfigSyntaxCheck{loc: loc, reg: reg}
}

func (c *ConfigSyntaxCheck) Name() string     { return "config-syntax" }
func (c *ConfigSyntaxCheck) Category() string { return "config" }

// fileSyntax is the per-file entry of the "files" detail.
type fileSyntax struct {
	Tool    string `json:"tool"`
	Path    string `json:"path"`
	OK      bool   `json:"ok"`
	Servers int    `json:"servers,omitempty"`
	Problem string `json:"problem,omitempty"`
}

func (c *ConfigSyntaxCheck) Run() *CheckResult {
	res := &CheckResult{Name: c.Name(), Category: c.Category()}

	var files []fileSyntax
	for _, d := range c.loc.DetectInstalled() {
		f := c.parse(d.Tool.ID, d.ConfigPath)
		if !f.OK {
			res.Findings = append(res.Findings, Finding{Subject: f.Path, Message: f.Problem})
		}
		files = append(files, f)
	}

	switch {
	case len(files) == 0:
		res.Status = SeverityInfo
		res.Message = "no config files to check"
	case len(res.Findings) > 0:
		res.Status = SeverityError
		res.Message = fmt.Sprintf("%d of %d config file(s) cannot be parsed", len(res.Findings), len(files))
		res.FixHint = "fix the reported syntax error; sync-mcp refuses to overwrite files it cannot parse"
	default:
		res.Status = SeverityPass
		res.Message = fmt.Sprintf("%d config file(s) parsed", len(files))
	}
	if len(files) > 0 {
		res.Details = map[string]any{"files": files}
	}
	return res
}

func (c *ConfigSyntaxCheck) parse(tool, path string) fileSyntax {
	f := fileSyntax{Tool: tool, Path: path}
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		f.Problem = err.Error()
		return f
	}
	parsed, err := c.reg.Parse(tool, string(data))
	if err != nil {
		f.Problem = locateSyntaxError(tool, data, err)
		return f
	}
	f.OK = true
	f.Servers = parsed.Config.Len()
	return f
}

// locateSyntaxError re-decodes data with a strict decoder to put a line and
// column on an adapter failure. When the strict decoder accepts the text
// the adapter's own message is kept.
func locateSyntaxError(tool string, data []byte, adapterErr error) string {
	var v any
	if tool == codex.Tool {
		var de *toml.DecodeError
		if err := toml.Unmarshal(data, &v); errors.As(err, &de) {
			line, col := de.Position()
			return fmt.Sprintf("TOML syntax error at line %d, column %d: %v", line, col, de)
		}
		return adapterErr.Error()
	}

	err := json.Unmarshal(data, &v)
	var se *json.SyntaxError
	switch {
	case errors.As(err, &se):
		line, col := lineCol(data, int(se.Offset))
		return fmt.Sprintf("JSON syntax error at line %d, column %d: %v", line, col, se)
	case err != nil:
		return "JSON error: " + err.Error()
	}
	return adapterErr.Error()
}

// lineCol converts a byte offset into 1-based line and column numbers,
// clamping the offset to data.
func lineCol(data []byte, offset int) (line, col int) {
	head := data[:min(max(offset, 0), len(data))]
	start := bytes.LastIndexByte(head, '\n') + 1
	return bytes.Count(head, []byte{'\n'}) + 1, len(head) - start + 1
}
