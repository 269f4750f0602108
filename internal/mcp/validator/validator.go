package validator

import (
	"os/exec"
	"regexp"
	"slices"
	"strings"

	"github.com/thoreinstein/syncmcp/internal/mcp"
	"github.com/thoreinstein/syncmcp/pkg/ordered"
)

// knownTypes are the transport types understood by at least one tool.
var knownTypes = []string{"", mcp.TypeStdio, "sse", "http", "streamable-http", "local", "remote"}

// urlKeys are the Extra keys the supported tools use for remote servers.
var urlKeys = []string{"url", "serverUrl", "httpUrl"}

var envKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Option configures a Validator.
type Option func(*Validator)

// Validator validates canonical MCP configurations.
type Validator struct {
	// allowEmpty permits configs with no servers.
	allowEmpty bool

	// lookPath resolves commands; nil skips the PATH check.
	lookPath func(string) (string, error)
}

// New creates a Validator. By default a config needs at least one server
// and commands are not looked up.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WithAllowEmpty configures whether empty configs (no servers) are allowed.
func WithAllowEmpty(allow bool) Option {
	return func(v *Validator) {
		v.allowEmpty = allow
	}
}

// WithCommandLookup warns about commands that lookPath cannot resolve.
// Pass exec.LookPath to check the current PATH.
func WithCommandLookup(lookPath func(string) (string, error)) Option {
	return func(v *Validator) {
		v.lookPath = lookPath
	}
}

// WithPathLookup is WithCommandLookup(exec.LookPath).
func WithPathLookup() Option {
	return WithCommandLookup(exec.LookPath)
}

// Validate checks a Config for issues, in server order. It returns nil when
// nothing was found. Use [Split] to tell errors from warnings.
func (v *Validator) Validate(cfg *mcp.Config) []*Issue {
	if cfg == nil {
		return []*Issue{{
			Message:  "config is nil",
			Severity: SeverityError,
		}}
	}

	var errs []*Issue
	if !v.allowEmpty && cfg.Len() == 0 {
		errs = append(errs, &Issue{
			Message:  "config has no servers",
			Severity: SeverityError,
			Err:      ErrEmptyConfig,
		})
	}

	for _, id := range cfg.IDs() {
		errs = append(errs, v.validateServer(id, cfg.Servers[id])...)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (v *Validator) validateServer(id string, s *mcp.Server) []*Issue {
	var errs []*Issue
	if strings.TrimSpace(id) == "" {
		errs = append(errs, &Issue{
			Field:    "id",
			Message:  "server id is required",
			Severity: SeverityError,
			Err:      ErrMissingServerName,
		})
	}
	if s == nil {
		return append(errs, &Issue{
			Server:   id,
			Message:  "server has no settings",
			Severity: SeverityError,
			Err:      ErrMissingCommand,
		})
	}

	errs = append(errs, v.validateLaunch(id, s)...)
	errs = append(errs, validateType(id, s)...)
	errs = append(errs, validateEnv(id, s)...)
	return errs
}

// validateLaunch checks that the server can be started or reached.
func (v *Validator) validateLaunch(id string, s *mcp.Server) []*Issue {
	url := remoteURL(s)
	switch {
	case s.Command == "" && url == "":
		return []*Issue{{
			Server:   id,
			Field:    mcp.FieldCommand,
			Message:  "server has neither a command nor a url",
			Severity: SeverityError,
			Err:      ErrMissingCommand,
		}}
	case s.Command != "" && url != "":
		return []*Issue{{
			Server:   id,
			Message:  "server has both command and url; tools disagree on which wins",
			Severity: SeverityWarning,
		}}
	case s.Command != "" && v.lookPath != nil:
		if _, err := v.lookPath(s.Command); err != nil {
			return []*Issue{{
				Server:   id,
				Field:    mcp.FieldCommand,
				Message:  "command " + s.Command + " not found on PATH",
				Severity: SeverityWarning,
				Err:      ErrCommandNotFound,
			}}
		}
	}
	return nil
}

func validateType(id string, s *mcp.Server) []*Issue {
	if slices.Contains(knownTypes, s.Type) {
		return nil
	}
	return []*Issue{{
		Server:   id,
		Field:    mcp.FieldType,
		Message:  "type " + s.Type + " is not understood by any supported tool",
		Severity: SeverityWarning,
		Err:      ErrUnknownType,
	}}
}

// validateEnv reports an empty key once and each key a shell cannot export.
func validateEnv(id string, s *mcp.Server) []*Issue {
	var errs []*Issue
	reportedEmpty := false
	for _, key := range s.EnvKeys() {
		switch {
		case key == "":
			if reportedEmpty {
				continue
			}
			reportedEmpty = true
			errs = append(errs, &Issue{
				Server:   id,
				Field:    mcp.FieldEnv,
				Message:  "environment variable key cannot be empty",
				Severity: SeverityError,
				Err:      ErrEmptyEnvKey,
			})
		case !envKeyPattern.MatchString(key):
			errs = append(errs, &Issue{
				Server:   id,
				Field:    mcp.FieldEnv,
				Message:  "environment variable " + key + " is not a valid name",
				Severity: SeverityWarning,
				Err:      ErrInvalidEnvKey,
			})
		}
	}
	return errs
}

func remoteURL(s *mcp.Server) string {
	for _, k := range urlKeys {
		if v, ok := s.Extra.Get(k); ok {
			if str := ordered.String(v); str != "" {
				return str
			}
		}
	}
	return ""
}
