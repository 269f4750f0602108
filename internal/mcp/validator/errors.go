// Package validator reports problems in canonical MCP server sets that a
// conversion would carry into the target file unnoticed.
package validator

import (
	"strconv"
	"strings"

	"github.com/thoreinstein/syncmcp/internal/errors"
)

var (
	ErrEmptyConfig       = errors.New("config has no servers")
	ErrMissingServerName = errors.New("server id is required")
	ErrMissingCommand    = errors.New("server requires a command or url")
	ErrUnknownType       = errors.New("unknown transport type")
	ErrEmptyEnvKey       = errors.New("environment variable key is empty")
	ErrInvalidEnvKey     = errors.New("invalid environment variable key")
	ErrCommandNotFound   = errors.New("command not found")
)

// Severity grades an Issue.
type Severity string

const (
	// SeverityError means the server cannot start as written.
	SeverityError Severity = "error"
	// SeverityWarning means a likely problem that does not block a sync.
	SeverityWarning Severity = "warning"
)

// Issue is one problem found in a config. Server is empty for problems with
// the config as a whole.
type Issue struct {
	Server   string
	Field    string
	Message  string
	Severity Severity
	Err      error
}

func (i *Issue) Error() string {
	var where []string
	if i.Server != "" {
		where = append(where, "server "+strconv.Quote(i.Server))
	}
	if i.Field != "" {
		where = append(where, "field "+strconv.Quote(i.Field))
	}
	head := string(i.Severity)
	if len(where) > 0 {
		head += ": " + strings.Join(where, " ")
	}
	return head + ": " + i.Message
}

func (i *Issue) Unwrap() error {
	return i.Err
}

// Split separates issues by severity, keeping their order.
func Split(issues []*Issue) (errs, warnings []*Issue) {
	for _, i := range issues {
		if i.Severity == SeverityError {
			errs = append(errs, i)
		} else {
			warnings = append(warnings, i)
		}
	}
	return errs, warnings
}

// Blocking reports whether any issue has error severity.
func Blocking(issues []*Issue) bool {
	errs, _ := Split(issues)
	return len(errs) > 0
}
