package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/history"
	"github.com/thoreinstein/syncmcp/internal/paths"
	"github.com/thoreinstein/syncmcp/internal/platform"
	"github.com/thoreinstein/syncmcp/internal/syncer"
)

var (
	historyLimit int
	historyJSON  bool
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show (0 for all)")
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "Output in JSON format")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past sync runs",
	Long: `Show the journal of sync runs, newest first.

Each entry records the source and target, what was done, how many servers
were written, and the backup taken of the target. The journal lives in
~/.local/state/sync-mcp/history.db unless history.path says otherwise.`,
	Example: `  # Last 20 runs
  sync-mcp history

  # Details of one run, by id prefix
  sync-mcp history show 3f2a

  # Forget everything
  sync-mcp history clear`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		return withHistory(func(store *history.Store) error {
			return runHistory(c.OutOrStdout(), store, historyLimit)
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one sync run",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		return withHistory(func(store *history.Store) error {
			return runHistoryShow(c.OutOrStdout(), store, args[0])
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the sync journal",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		return withHistory(func(store *history.Store) error {
			n, err := store.Clear()
			if err != nil {
				return err
			}
			success(c.OutOrStdout(), "Removed %d history entries", n)
			return nil
		})
	},
}

// withHistory opens the configured journal for the duration of fn.
func withHistory(fn func(*history.Store) error) error {
	cfg := currentConfig()
	if !cfg.History.Enabled {
		return errors.NewUserError(
			errors.New("history is disabled"),
			"Set history.enabled: true in the config file",
		)
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		if errors.Is(err, history.ErrLocked) {
			return errors.NewUserError(err, "Another sync-mcp process (probably --watch) holds the journal")
		}
		return err
	}
	defer store.Close()
	return fn(store)
}

func runHistory(w io.Writer, store *history.Store, limit int) error {
	if limit < 0 {
		return errors.NewUserError(errors.New("--limit must be non-negative"), "")
	}
	records, err := store.List(limit)
	if err != nil {
		return err
	}

	if historyJSON {
		if records == nil {
			records = []history.Record{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No sync runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		boldStyle.Sprint("ID"), boldStyle.Sprint("TIME"), boldStyle.Sprint("FROM"),
		boldStyle.Sprint("TO"), boldStyle.Sprint("RESULT"))
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			shortID(r.ID),
			r.Time.Local().Format("2006-01-02 15:04:05"),
			endpointName(r.SourceTool, r.SourcePath),
			endpointName(r.TargetTool, r.TargetPath),
			resultSummary(r),
		)
	}
	return errors.Wrap(tw.Flush(), "writing table")
}

func runHistoryShow(w io.Writer, store *history.Store, id string) error {
	r, err := store.Get(id)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return errors.NewUserError(err, "Run 'sync-mcp history' to see recorded runs")
		}
		return errors.NewUserError(err, "")
	}

	if historyJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(w, "%s %s\n", boldStyle.Sprint("Run"), r.ID)
	fmt.Fprintf(w, "  Time:    %s\n", r.Time.Local().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "  Source:  %s (%s)\n", endpointName(r.SourceTool, r.SourcePath), paths.Display(r.SourcePath))
	fmt.Fprintf(w, "  Target:  %s (%s)\n", endpointName(r.TargetTool, r.TargetPath), paths.Display(r.TargetPath))
	fmt.Fprintf(w, "  Result:  %s\n", resultSummary(*r))
	if r.Trigger != "" {
		fmt.Fprintf(w, "  Trigger: %s\n", r.Trigger)
	}
	if r.BackupID != "" {
		tool := r.TargetTool
		if tool == "" {
			tool = "custom"
		}
		fmt.Fprintf(w, "  Backup:  %s\n", r.BackupID)
		fmt.Fprintf(w, "\n%s\n", dimStyle.Sprintf("Undo with: sync-mcp backup restore %s --tool %s", r.BackupID, tool))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func endpointName(tool, path string) string {
	if t, ok := platform.ByID(tool); ok {
		return t.Name
	}
	return paths.Display(path)
}

func resultSummary(r history.Record) string {
	label := syncer.Action(r.Action).Label()
	if r.Action == string(syncer.ActionConverted) {
		label += fmt.Sprintf(" (%s)", plural(r.Servers, "server"))
	}
	if r.DryRun {
		label += " [dry run]"
	}
	return label
}
