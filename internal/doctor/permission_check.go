package doctor

import (
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/thoreinstein/syncmcp/internal/logging"
	"github.com/thoreinstein/syncmcp/internal/mcp"
	"github.com/thoreinstein/syncmcp/internal/paths"
	"github.com/thoreinstein/syncmcp/internal/platform"
	"github.com/thoreinstein/syncmcp/pkg/fileutil"
)

// secretFilePerm is the mode for config files that carry credentials.
const secretFilePerm fs.FileMode = 0o600

// PathPermissionCheck inspects the permissions of tool configs and of
// sync-mcp's own directories. Backups copy tool configs verbatim, so they
// hold the same secrets and get the same scrutiny.
type PathPermissionCheck struct {
	PermissionFixer

	loc  platform.Locator
	reg  *platform.Registry
	dirs []string
}

var (
	_ Check = (*PathPermissionCheck)(nil)
	_ Fixer = (*PathPermissionCheck)(nil)
)

// NewPathPermissionCheck creates a permission check over the configs loc
// finds and the given directories.
func NewPathPermissionCheck(loc platform.Locator, reg *platform.Registry, dirs ...string) *PathPermissionCheck {
	return &PathPermissionCheck{loc: loc, reg: reg, dirs: dirs}
}

// Name returns the unique identifier for this check.
func (c *PathPermissionCheck) Name() string {
	return "path-permissions"
}

// Category returns the grouping for this check.
func (c *PathPermissionCheck) Category() string {
	return "filesystem"
}

// pathIssue is one permission problem and, when fixable, the mode that
// repairs it.
type pathIssue struct {
	Path     string      `json:"path"`
	Type     string      `json:"type"`
	Problem  string      `json:"problem"`
	Mode     string      `json:"mode"`
	Severity Severity    `json:"severity"`
	Fixable  bool        `json:"fixable"`
	FixPerm  fs.FileMode `json:"-"`
}

// Run stats every path and collects problems.
func (c *PathPermissionCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}
	c.setIssues(nil)

	if runtime.GOOS == "windows" {
		result.Status = SeverityInfo
		result.Message = "permission checks are not supported on Windows"
		return result
	}

	var issues []pathIssue
	var checked int
	for _, d := range c.loc.DetectInstalled() {
		checked++
		issues = append(issues, c.checkConfigFile(d.Tool.ID, d.ConfigPath)...)
	}
	for _, dir := range c.dirs {
		if !fileutil.Exists(dir) {
			continue
		}
		checked++
		issues = append(issues, checkDir(dir)...)
	}
	c.setIssues(issues)

	if checked == 0 {
		result.Status = SeverityInfo
		result.Message = "no paths to check"
		return result
	}

	result.Details = map[string]any{"checked": checked}
	if len(issues) == 0 {
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("%d path(s) have safe permissions", checked)
		return result
	}

	result.Details["issues"] = issues
	levels := make([]Severity, 0, len(issues))
	for _, issue := range issues {
		levels = append(levels, issue.Severity)
		msg := issue.Problem
		if issue.Mode != "" {
			msg += " (mode " + issue.Mode + ")"
		}
		result.Findings = append(result.Findings, Finding{Subject: issue.Path, Message: msg})
	}
	result.Status = worst(levels...)
	result.Message = fmt.Sprintf("%d permission issue(s) found", len(issues))
	if n := c.CountFixable(); n > 0 {
		result.Fixable = true
		result.FixHint = fmt.Sprintf("run 'sync-mcp doctor --fix' to repair %d issue(s)", n)
	}
	return result
}

func (c *PathPermissionCheck) checkConfigFile(tool, path string) []pathIssue {
	info, err := os.Stat(path)
	if err != nil {
		return []pathIssue{{
			Path:     path,
			Type:     "file",
			Problem:  err.Error(),
			Severity: SeverityError,
		}}
	}
	mode := info.Mode().Perm()

	var issues []pathIssue
	if mode&0o400 == 0 {
		issues = append(issues, pathIssue{
			Path:     path,
			Type:     "file",
			Problem:  "not readable by owner",
			Mode:     fmt.Sprintf("%04o", mode),
			Severity: SeverityError,
			Fixable:  true,
			FixPerm:  mode | 0o600,
		})
		return issues
	}

	switch {
	case mode&0o077 != 0 && c.hasSecrets(tool, path):
		issues = append(issues, pathIssue{
			Path:     path,
			Type:     "file",
			Problem:  "contains credentials and is accessible by other users",
			Mode:     fmt.Sprintf("%04o", mode),
			Severity: SeverityWarning,
			Fixable:  true,
			FixPerm:  secretFilePerm,
		})
	case mode&0o002 != 0:
		issues = append(issues, pathIssue{
			Path:     path,
			Type:     "file",
			Problem:  "world-writable",
			Mode:     fmt.Sprintf("%04o", mode),
			Severity: SeverityWarning,
			Fixable:  true,
			FixPerm:  mode &^ 0o022,
		})
	}
	return issues
}

// hasSecrets reports whether any server in the config carries a value that
// would be masked in output.
func (c *PathPermissionCheck) hasSecrets(tool, path string) bool {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return false
	}
	parsed, err := c.reg.Parse(tool, string(data))
	if err != nil {
		return false
	}
	for _, id := range parsed.Config.IDs() {
		if serverHasSecrets(parsed.Config.Servers[id]) {
			return true
		}
	}
	return false
}

func serverHasSecrets(s *mcp.Server) bool {
	if s == nil {
		return false
	}
	for k, v := range s.Env {
		if v != "" && logging.IsSecret(k, v) {
			return true
		}
	}
	for _, arg := range s.Args {
		if logging.IsSecret("", arg) {
			return true
		}
	}
	return false
}

func checkDir(dir string) []pathIssue {
	info, err := os.Stat(dir)
	if err != nil {
		return []pathIssue{{
			Path:     dir,
			Type:     "directory",
			Problem:  err.Error(),
			Severity: SeverityError,
		}}
	}
	if !info.IsDir() {
		return []pathIssue{{
			Path:     dir,
			Type:     "directory",
			Problem:  "not a directory",
			Severity: SeverityError,
		}}
	}

	mode := info.Mode().Perm()
	switch {
	case mode&0o700 != 0o700:
		return []pathIssue{{
			Path:     dir,
			Type:     "directory",
			Problem:  "not writable by owner",
			Mode:     fmt.Sprintf("%04o", mode),
			Severity: SeverityError,
			Fixable:  true,
			FixPerm:  paths.DefaultDirPerm,
		}}
	case mode&0o077 != 0:
		return []pathIssue{{
			Path:     dir,
			Type:     "directory",
			Problem:  "accessible by other users",
			Mode:     fmt.Sprintf("%04o", mode),
			Severity: SeverityWarning,
			Fixable:  true,
			FixPerm:  paths.DefaultDirPerm,
		}}
	}
	return nil
}
