package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Process exit codes. ExitUser covers bad input and config, ExitSystem
// covers I/O and permission failures.
const (
	ExitSuccess = 0
	ExitUser    = 1
	ExitSystem  = 2
)

var (
	ErrNotFound      = crdb.New("resource not found")
	ErrInvalidConfig = crdb.New("invalid configuration")
	// ErrUnknownTool is returned when a keyword matches no catalog entry.
	ErrUnknownTool = crdb.New("unknown tool")
)

// Re-exported helpers so callers only import one errors package.
var (
	New      = crdb.New
	Newf     = crdb.Newf
	Wrap     = crdb.Wrap
	Wrapf    = crdb.Wrapf
	Is       = crdb.Is
	As       = crdb.As
	Mark     = crdb.Mark
	WithHint = crdb.WithHint
	Join     = crdb.Join

	// FlattenHints joins every hint attached anywhere in an error chain.
	FlattenHints = crdb.FlattenHints
)

// ExitError carries the process exit code for err up to main, along with
// a one-line hint printed under the message.
type ExitError struct {
	Err        error
	Code       int
	Suggestion string
}

func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// NewUserError marks err as caused by the user's input: bad arguments,
// unknown tools, missing files they named.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitUser, Suggestion: suggestion}
}

// NewSystemError marks err as an environment failure such as an
// unwritable directory.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitSystem, Suggestion: suggestion}
}

// NewConfigError reports an unusable sync-mcp config file.
func NewConfigError(err error) *ExitError {
	return NewUserError(err, "Check the file with 'sync-mcp config path', or fix it with 'sync-mcp config edit'")
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code carried by err, ExitUser for any other
// non-nil error, and ExitSuccess for nil.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUser
}
