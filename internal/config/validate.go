package config

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/platform"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates a version this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidTool indicates an override key that names no known tool.
	ErrInvalidTool = errors.New("invalid tool override key")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidRetention indicates a backup retention below one.
	ErrInvalidRetention = errors.New("backup retention must be >= 1")

	// ErrInvalidDebounce indicates a negative watch debounce.
	ErrInvalidDebounce = errors.New("watch debounce must not be negative")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors in a stable order.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != DefaultVersion {
		errs = append(errs, errors.Wrapf(ErrUnsupportedVersion, "%d", cfg.Version))
	}

	if cfg.Backup.Retention < 1 {
		errs = append(errs, ErrInvalidRetention)
	}

	if cfg.Watch.Debounce < 0 {
		errs = append(errs, ErrInvalidDebounce)
	}

	if err := validatePath(cfg.Backup.Dir); err != nil {
		errs = append(errs, &PathError{Field: "backup.dir", Path: cfg.Backup.Dir, Err: err})
	}

	if err := validatePath(cfg.History.Path); err != nil {
		errs = append(errs, &PathError{Field: "history.path", Path: cfg.History.Path, Err: err})
	}

	ids := make([]string, 0, len(cfg.Tools))
	for id := range cfg.Tools {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		if !platform.ValidTool(id) {
			errs = append(errs, &ToolError{Tool: id, Err: ErrInvalidTool})
			continue
		}
		p := cfg.Tools[id].Path
		if err := validatePath(p); err != nil {
			errs = append(errs, &PathError{Field: "tools." + id + ".path", Path: p, Err: err})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths mean "use default"
	if path == "" {
		return nil
	}

	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// ToolError represents an error for a specific tool override.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return e.Err.Error() + ": " + e.Tool
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
