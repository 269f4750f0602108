package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/syncmcp/internal/errors"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", -1,
		"number of backups to retain per tool (default: backup.retention from config)")
	Cmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old backups",
	Long: `Remove backups beyond the retention count, oldest first.

The retention count defaults to backup.retention from the config file (5
unless changed). Use --keep 0 to remove every backup.`,
	Example: `  # Prune every tool down to the configured retention
  sync-mcp backup prune

  # Keep only the newest Cursor backup
  sync-mcp backup prune --tool cursor --keep 1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		keep := pruneKeep
		if !cmd.Flags().Changed("keep") {
			keep = retention()
		}
		return runPrune(cmd.OutOrStdout(), keep)
	},
}

func runPrune(w io.Writer, keep int) error {
	if keep < 0 {
		return errors.NewUserError(errors.New("--keep must be non-negative"), "")
	}

	mgr := newManager()
	tools, err := selectedTools(mgr)
	if err != nil {
		return err
	}

	total := 0
	for _, tool := range tools {
		n, err := mgr.Prune(tool, keep)
		if err != nil {
			return errors.Wrapf(err, "pruning backups for %s", displayName(tool))
		}
		if n > 0 {
			fmt.Fprintf(w, "%s: removed %d\n", displayName(tool), n)
		}
		total += n
	}

	if total == 0 {
		fmt.Fprintln(w, "No backups to prune.")
		return nil
	}
	fmt.Fprintf(w, "%s Pruned %d backup(s)\n", successStyle.Sprint("✓"), total)
	return nil
}
