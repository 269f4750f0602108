// Package errors is the single errors package imported by sync-mcp code.
//
// It re-exports the github.com/cockroachdb/errors helpers (New, Wrap, Is,
// As, Mark, WithHint, Join, ...) so wrapped errors keep stack traces and
// hints, and adds the pieces the CLI needs on top.
//
// Sentinels such as [ErrNotFound] and [ErrUnknownTool] mark failure kinds
// that commands translate into user-facing messages:
//
//	if errors.Is(err, errors.ErrUnknownTool) {
//	    return errors.NewUserError(err, "Run 'sync-mcp list' to see tool keywords")
//	}
//
// [ExitError] attaches a process exit code and a one-line suggestion.
// [ExitCode] maps any error to the code main passes to os.Exit: 0 for nil,
// the carried code for an ExitError, and [ExitUser] otherwise. [ExitSystem]
// is reserved for failures the user cannot fix by changing arguments, such
// as unwritable files.
package errors
