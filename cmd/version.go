// Package cmd holds the build metadata stamped into sync-mcp binaries.
package cmd

import (
	"fmt"
	"runtime"
)

// Set with -ldflags "-X github.com/thoreinstein/syncmcp/cmd.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// BuildInfo returns a multi-line description of the running binary.
func BuildInfo() string {
	return fmt.Sprintf("sync-mcp version %s\n  commit: %s\n  built:  %s\n  go:     %s %s/%s\n",
		Version, Commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
