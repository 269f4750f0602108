// Package flags shares root-level settings with the noun subpackages
// (backup and the like) without an import cycle on the root command.
package flags

import (
	"github.com/thoreinstein/syncmcp/internal/config"
	"github.com/thoreinstein/syncmcp/internal/platform"
)

// configSource returns the configuration loaded by the root command.
var configSource = config.Default

// SetConfigSource installs the function subcommands use to read the loaded
// configuration. Tests use it to point commands at a temporary setup.
func SetConfigSource(fn func() *config.Config) {
	if fn == nil {
		fn = config.Default
	}
	configSource = fn
}

// Config returns the active configuration.
func Config() *config.Config {
	return configSource()
}

// Locator returns a tool path locator honoring configured overrides.
func Locator() platform.Locator {
	return platform.DefaultLocator(Config().ToolPaths())
}
