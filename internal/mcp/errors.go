package mcp

import (
	"fmt"

	"github.com/thoreinstein/syncmcp/internal/errors"
)

// Sentinel errors for conversion operations. Use errors.Is to test for them;
// the concrete error types below carry the details.
var (
	// ErrUnsupportedTool indicates a tool identifier no adapter handles.
	ErrUnsupportedTool = errors.New("unsupported tool")

	// ErrParse indicates raw file text could not be decoded.
	ErrParse = errors.New("parse failed")

	// ErrStructural indicates the text decoded but has the wrong shape,
	// for example a JSON document whose root is an array.
	ErrStructural = errors.New("unexpected document structure")

	// ErrFormat indicates a canonical config could not be rendered.
	ErrFormat = errors.New("format failed")

	// ErrMetaMismatch indicates metadata produced by a different adapter
	// family was passed to Format.
	ErrMetaMismatch = errors.New("metadata belongs to a different adapter")
)

// UnsupportedToolError reports a tool identifier outside the supported set.
type UnsupportedToolError struct {
	Tool string
	Op   string
}

func (e *UnsupportedToolError) Error() string {
	return fmt.Sprintf("%s: unsupported tool %q", e.Op, e.Tool)
}

// Is matches [ErrUnsupportedTool].
func (e *UnsupportedToolError) Is(target error) bool {
	return target == ErrUnsupportedTool
}

// ParseError reports text that could not be decoded for a tool.
type ParseError struct {
	// Tool is the tool whose format was being parsed.
	Tool string

	// Fragment is the offending piece of input, when one can be isolated.
	Fragment string

	// Err is the underlying cause.
	Err error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parsing %s config", e.Tool)
	if e.Fragment != "" {
		msg += fmt.Sprintf(" near %q", e.Fragment)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches [ErrParse].
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// FormatError reports a canonical config that could not be rendered for a tool.
type FormatError struct {
	Tool string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("formatting %s config", e.Tool)
	}
	return fmt.Sprintf("formatting %s config: %v", e.Tool, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is matches [ErrFormat].
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// NewStructuralError returns a ParseError for a document of the wrong shape.
func NewStructuralError(tool, detail string) *ParseError {
	return &ParseError{
		Tool: tool,
		Err:  errors.Wrap(ErrStructural, detail),
	}
}
