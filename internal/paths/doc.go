// Package paths resolves the directories sync-mcp reads and writes.
//
// The package wraps github.com/adrg/xdg for the XDG base directories. On
// Linux these are ~/.config, ~/.local/share and ~/.local/state; macOS and
// Windows map them onto their native locations.
//
//	paths.AppConfigDir() // <ConfigHome>/sync-mcp
//	paths.BackupDir()    // <DataHome>/sync-mcp/backups
//	paths.HistoryFile()  // <StateHome>/sync-mcp/history.db
//
// Tool config files live under the home directory or, for some tools on
// Windows, under [AppData]; the tool catalog in internal/platform composes
// those locations from the helpers here.
//
// # Display and comparison
//
// [Display] replaces the home prefix with ~ for messages. [Same] compares two
// paths after [Normalize], which makes them absolute and folds case on
// Windows:
//
//	if paths.Same(source, target) {
//	    return nil // nothing to sync
//	}
package paths
