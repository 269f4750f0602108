// Package config provides configuration management for the sync-mcp CLI.
//
// This package handles sync-mcp's own settings. It is distinct from the MCP
// configurations of the tools being synced, which the platform translators
// read and write.
//
// # Configuration File
//
// The default location is ~/.config/sync-mcp/config.yaml (the directory can
// be replaced with SYNC_MCP_CONFIG_DIR); ./config.yaml takes precedence:
//
//	version: 1
//	backup:
//	  enabled: true
//	  retention: 5
//	  dir: ~/sync-mcp-backups  # optional
//	history:
//	  enabled: true
//	watch:
//	  debounce: 300ms
//	tools:
//	  codex:
//	    path: ~/work/.codex/config.toml
//
// Every key can be overridden from the environment with the SYNC_MCP_
// prefix, e.g. SYNC_MCP_BACKUP_RETENTION=10.
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load(flagPath)
//	if err != nil {
//	    return errors.NewConfigError(err)
//	}
//
// Load validates the result; [Validate] can also be called directly and
// reports every problem at once.
package config
