package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/syncmcp/internal/backup"
	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/paths"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	Long: `List configuration backups grouped by tool, most recent first.`,
	Example: `  # List all backups
  sync-mcp backup list

  # Only Codex backups, as JSON
  sync-mcp backup list --tool codex --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runList(cmd.OutOrStdout())
	},
}

type listOutput struct {
	Tool    string       `json:"tool"`
	Backups []backupInfo `json:"backups"`
}

type backupInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Files     []string  `json:"files"`
	Version   string    `json:"sync_mcp_version"`
}

func runList(w io.Writer) error {
	mgr := newManager()
	tools, err := selectedTools(mgr)
	if err != nil {
		return err
	}

	output := make([]listOutput, 0, len(tools))
	for _, tool := range tools {
		manifests, err := mgr.List(tool)
		if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.Wrapf(err, "listing backups for %s", tool)
		}
		entry := listOutput{Tool: tool, Backups: make([]backupInfo, 0, len(manifests))}
		for _, m := range manifests {
			entry.Backups = append(entry.Backups, backupInfo{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				Files:     m.Paths(),
				Version:   m.SyncMCPVersion,
			})
		}
		output = append(output, entry)
	}

	if listJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}
	return printList(w, output)
}

func printList(w io.Writer, output []listOutput) error {
	if len(output) == 0 {
		fmt.Fprintln(w, "No backups found.")
		return nil
	}

	for i, entry := range output {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, headerStyle.Sprint(displayName(entry.Tool)))

		if len(entry.Backups) == 0 {
			fmt.Fprintf(w, "  %s\n", dimStyle.Sprint("(no backups available)"))
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  %s\t%s\t%s\n",
			boldStyle.Sprint("ID"), boldStyle.Sprint("CREATED"), boldStyle.Sprint("FILE"))
		for _, b := range entry.Backups {
			file := ""
			if len(b.Files) > 0 {
				file = paths.Display(b.Files[0])
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n",
				b.ID, b.CreatedAt.Local().Format("2006-01-02 15:04:05"), file)
		}
		if err := tw.Flush(); err != nil {
			return errors.Wrap(err, "writing table")
		}
	}
	return nil
}
