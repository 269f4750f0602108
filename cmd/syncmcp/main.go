// Package main is the entry point for the sync-mcp CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/syncmcp/cmd/syncmcp/commands"
	"github.com/thoreinstein/syncmcp/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[sync-mcp] %v\n", err)

		var exitErr *errors.ExitError
		switch {
		case errors.As(err, &exitErr) && exitErr.Suggestion != "":
			fmt.Fprintf(os.Stderr, "  %s\n", exitErr.Suggestion)
		default:
			if hint := errors.FlattenHints(err); hint != "" {
				fmt.Fprintf(os.Stderr, "  %s\n", hint)
			}
		}
		os.Exit(errors.ExitCode(err))
	}
}
