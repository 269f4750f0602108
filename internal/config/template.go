package config

import (
	"path/filepath"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/paths"
	"github.com/thoreinstein/syncmcp/pkg/fileutil"
)

// FileName is the config file searched for in the config directory.
const FileName = "config.yaml"

// Template is written by WriteDefault. It sets every key to its default.
const Template = `# sync-mcp configuration
version: 1

backup:
  enabled: true
  retention: 5
  # dir: ~/sync-mcp-backups

history:
  enabled: true
  # path: ~/.local/state/sync-mcp/history.db

watch:
  debounce: 300ms

# Replace a tool's config location:
# tools:
#   codex:
#     path: ~/work/.codex/config.toml
`

// DefaultPath returns the location of the user config file.
func DefaultPath() string {
	return filepath.Join(configDir(), FileName)
}

// WriteDefault writes Template to path unless a file already exists there.
// It reports whether a file was created.
func WriteDefault(path string) (bool, error) {
	if fileutil.Exists(path) {
		return false, nil
	}
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return false, errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteFile(path, []byte(Template), 0o600); err != nil {
		return false, errors.Wrap(err, "writing config file")
	}
	return true, nil
}
