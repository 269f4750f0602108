// Package doctor provides diagnostic checks for the tool configurations
// sync-mcp reads and writes, and for its own storage.
package doctor

import (
	"slices"

	"github.com/thoreinstein/syncmcp/internal/errors"
)

// Severity grades a CheckResult. Higher is worse.
type Severity int

const (
	SeverityPass Severity = iota
	SeverityInfo
	// SeverityWarning is a problem a sync survives.
	SeverityWarning
	// SeverityError is a problem that makes a sync fail or lose data.
	SeverityError
)

var severityNames = []string{"pass", "info", "warning", "error"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// MarshalText writes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	i := slices.Index(severityNames, string(text))
	if i < 0 {
		return errors.Newf("unknown severity %q", text)
	}
	*s = Severity(i)
	return nil
}

// CheckResult is what one check reports.
type CheckResult struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Status   Severity `json:"status"`
	Message  string   `json:"message"`

	// Details is check-specific context for --json output.
	Details map[string]any `json:"details,omitempty"`

	// Findings are the individual files or servers behind a non-pass status.
	Findings []Finding `json:"findings,omitempty"`

	// Fixable is set when doctor --fix can repair the problem; FixHint
	// tells the user what to do otherwise.
	Fixable bool   `json:"fixable,omitempty"`
	FixHint string `json:"fix_hint,omitempty"`
}

// Finding is one problem within a check. Subject is a path or tool/server.
type Finding struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Summary counts results per severity.
type Summary struct {
	Passed   int `json:"passed"`
	Info     int `json:"info"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

func (s *Summary) add(status Severity) {
	switch status {
	case SeverityPass:
		s.Passed++
	case SeverityInfo:
		s.Info++
	case SeverityWarning:
		s.Warnings++
	case SeverityError:
		s.Errors++
	}
}

func worst(levels ...Severity) Severity {
	out := SeverityPass
	for _, s := range levels {
		out = max(out, s)
	}
	return out
}
