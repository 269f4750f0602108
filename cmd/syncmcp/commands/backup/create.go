package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/syncmcp/cmd/syncmcp/commands/flags"
	"github.com/thoreinstein/syncmcp/internal/backup"
	"github.com/thoreinstein/syncmcp/internal/cli"
	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/paths"
)

func init() {
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Back up tool configurations now",
	Long: `Copy the current config file of each selected tool into the backup
directory. Without --tool every detected tool is backed up.`,
	Example: `  # Back up every detected tool
  sync-mcp backup create

  # Back up only Claude Code
  sync-mcp backup create --tool claude`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCreate(cmd.OutOrStdout())
	},
}

func runCreate(w io.Writer) error {
	loc := flags.Locator()
	tools, err := cli.ResolveTools(loc, toolKeywords)
	if err != nil {
		if errors.Is(err, cli.ErrNoToolsDetected) {
			return errors.NewUserError(err, "Pass --tool to choose tools explicitly")
		}
		return errors.NewUserError(err, "")
	}

	mgr := newManager()
	created := 0
	for _, t := range tools {
		path := loc.ConfigPath(t)
		m, err := mgr.Backup(t.ID, []string{path})
		if errors.Is(err, backup.ErrNothingToBackUp) {
			fmt.Fprintf(w, "%s: %s\n", t.Name, dimStyle.Sprintf("no config at %s", paths.Display(path)))
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "backing up %s", t.Name)
		}
		if _, err := mgr.Prune(t.ID, retention()); err != nil {
			return errors.Wrapf(err, "pruning backups for %s", t.Name)
		}
		fmt.Fprintf(w, "%s %s backed up as %s\n", successStyle.Sprint("✓"), t.Name, m.ID)
		created++
	}

	if created == 0 {
		return errors.NewUserError(backup.ErrNothingToBackUp, "None of the selected tools has a config file yet")
	}
	return nil
}

func retention() int {
	if n := flags.Config().Backup.Retention; n > 0 {
		return n
	}
	return backup.DefaultRetentionCount
}
