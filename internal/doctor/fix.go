package doctor

import (
	"fmt"
	"os"
	"slices"

	"github.com/thoreinstein/syncmcp/internal/errors"
)

// Fixer is implemented by checks that can repair what their last Run found.
type Fixer interface {
	CanFix() bool
	Fix() []FixResult
}

// FixResult is the outcome of one repair. Error is set when Fixed is false.
type FixResult struct {
	Path        string `json:"path"`
	Fixed       bool   `json:"fixed"`
	Description string `json:"description"`
	Error       error  `json:"-"`
}

// PermissionFixer chmods the paths a PathPermissionCheck flagged to the
// mode it proposed.
type PermissionFixer struct {
	pending []pathIssue
}

func (f *PermissionFixer) CanFix() bool {
	return f.CountFixable() > 0
}

func (f *PermissionFixer) CountFixable() int {
	return len(f.fixable())
}

func (f *PermissionFixer) Fix() []FixResult {
	todo := f.fixable()
	results := make([]FixResult, len(todo))
	for i, issue := range todo {
		results[i] = chmodIssue(issue)
	}
	return results
}

func (f *PermissionFixer) fixable() []pathIssue {
	return slices.DeleteFunc(slices.Clone(f.pending), func(i pathIssue) bool {
		return !i.Fixable
	})
}

func (f *PermissionFixer) setIssues(issues []pathIssue) {
	f.pending = issues
}

func chmodIssue(issue pathIssue) FixResult {
	mode := fmt.Sprintf("%04o", issue.FixPerm)
	if err := os.Chmod(issue.Path, issue.FixPerm); err != nil {
		return FixResult{
			Path:        issue.Path,
			Description: "chmod " + mode + " failed",
			Error:       errors.Wrapf(err, "chmod %s %s", mode, issue.Path),
		}
	}
	return FixResult{
		Path:        issue.Path,
		Fixed:       true,
		Description: fmt.Sprintf("chmod %s (%s)", mode, issue.Problem),
	}
}
