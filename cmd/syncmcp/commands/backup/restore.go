package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/syncmcp/internal/backup"
	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/paths"
)

var restoreForce bool

func init() {
	restoreCmd.Flags().BoolVarP(&restoreForce, "force", "f", false,
		"overwrite files that changed since the backup was taken")
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [backup-id]",
	Short: "Restore a configuration from a backup",
	Long: `Restore a tool's configuration file from a backup.

Without a backup ID the most recent backup is restored. Exactly one --tool
is required. If the file was edited after sync-mcp overwrote it, the
restore is refused unless --force is given.`,
	Example: `  # Undo the last sync into Codex
  sync-mcp backup restore --tool codex

  # Restore a specific backup
  sync-mcp backup restore 20261019T120000.000 --tool cursor`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := "latest"
		if len(args) == 1 {
			id = args[0]
		}
		return runRestore(cmd.OutOrStdout(), id)
	},
}

func runRestore(w io.Writer, id string) error {
	if len(toolKeywords) != 1 {
		return errors.NewUserError(
			errors.New("restore needs exactly one tool"),
			"Pass --tool, e.g. sync-mcp backup restore --tool codex",
		)
	}

	mgr := newManager()
	tools, err := selectedTools(mgr)
	if err != nil {
		return err
	}
	tool := tools[0]

	restored, err := mgr.Restore(tool, id, restoreForce)
	if err != nil {
		switch {
		case errors.Is(err, backup.ErrNoBackupsFound):
			return errors.NewUserError(err, "Run 'sync-mcp backup list' to see available backups")
		case errors.Is(err, backup.ErrRestoreConflict):
			return errors.NewUserError(err, "Use --force to overwrite it anyway")
		}
		return errors.Wrapf(err, "restoring %s backup", displayName(tool))
	}

	for _, p := range restored {
		fmt.Fprintf(w, "%s Restored %s\n", successStyle.Sprint("✓"), paths.Display(p))
	}
	return nil
}
