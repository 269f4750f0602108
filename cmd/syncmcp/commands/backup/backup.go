// Package backup provides the CLI commands for managing target backups.
package backup

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/syncmcp/cmd"
	"github.com/thoreinstein/syncmcp/cmd/syncmcp/commands/flags"
	"github.com/thoreinstein/syncmcp/internal/backup"
	"github.com/thoreinstein/syncmcp/internal/cli"
	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/platform"
)

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	boldStyle    = color.New(color.Bold)
	successStyle = color.New(color.FgGreen)
	dimStyle     = color.New(color.FgHiBlack)
)

// toolKeywords holds the value of the --tool flag.
var toolKeywords []string

func init() {
	Cmd.PersistentFlags().StringSliceVarP(&toolKeywords, "tool", "t", nil,
		"limit to these tools (repeatable, e.g. --tool claude --tool codex)")
}

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage backups of overwritten configurations",
	Long: `Manage the backups sync-mcp takes before it overwrites a target file.

Every sync that replaces an existing file first copies it into the backup
directory (~/.local/state/sync-mcp/backups by default), grouped by tool.
Old backups beyond the configured retention are removed automatically.`,
	Example: `  # List all backups
  sync-mcp backup list

  # Undo the last sync into Codex
  sync-mcp backup restore --tool codex

  # Keep only the 3 most recent backups per tool
  sync-mcp backup prune --keep 3

  See Also:
    sync-mcp backup list    - List available backups
    sync-mcp backup restore - Restore a backup
    sync-mcp backup create  - Back up config files now
    sync-mcp backup prune   - Remove old backups`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func newManager() *backup.Manager {
	cfg := flags.Config()
	return backup.NewManager(
		backup.WithBackupDir(cfg.BackupDir()),
		backup.WithRetentionCount(cfg.Backup.Retention),
		backup.WithVersion(cmd.Version),
	)
}

// selectedTools returns the tool ids named by --tool, or every tool with
// a backup directory when the flag is absent.
func selectedTools(mgr *backup.Manager) ([]string, error) {
	if len(toolKeywords) == 0 {
		return mgr.Tools()
	}
	ids := make([]string, 0, len(toolKeywords))
	for _, kw := range toolKeywords {
		if kw == unknownTool {
			ids = append(ids, kw)
			continue
		}
		t, err := cli.ResolveTool(kw)
		if err != nil {
			return nil, errors.NewUserError(err, "Run 'sync-mcp list' to see supported tools")
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// unknownTool is the directory for backups of files no tool claims.
const unknownTool = "custom"

func displayName(id string) string {
	if t, ok := platform.ByID(id); ok {
		return t.Name
	}
	if id == unknownTool {
		return "Custom files"
	}
	return id
}
