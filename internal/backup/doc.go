// Package backup saves tool configuration files before sync-mcp overwrites
// them and puts them back on request.
//
// Each backup is a directory holding a manifest and copies of the saved
// files:
//
//	~/.local/share/sync-mcp/backups/
//	└── {tool}/
//	    └── {id}/
//	        ├── manifest.json
//	        └── {copied files...}
//
// IDs are UTC timestamps with millisecond precision, such as
// 20261019T142501.337, with a numeric suffix when two backups land in the
// same millisecond.
//
// # Taking Backups
//
// The sync engine calls [Manager.BackupBeforeWrite] with the content about
// to be written. The hash of that content is kept in the manifest so a
// later restore can tell whether the file was edited by hand since:
//
//	mgr := backup.NewManager(backup.WithRetentionCount(cfg.Backup.Retention))
//	m, err := mgr.BackupBeforeWrite("codex", target, out)
//
// Older backups beyond the retention count are pruned afterwards. In watch
// mode a [Session] limits this to one backup per target.
//
// # Restoring
//
// [Manager.Restore] verifies every stored file against its SHA256 hash and
// refuses with [ErrRestoreConflict] when the file on disk has changed since
// sync-mcp wrote it. Pass force to overwrite regardless.
package backup
