package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/mcp"
	"github.com/thoreinstein/syncmcp/internal/paths"
	"github.com/thoreinstein/syncmcp/internal/platform"
	"github.com/thoreinstein/syncmcp/pkg/fileutil"
)

var (
	listJSON    bool
	listServers bool
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVarP(&listServers, "servers", "s", false, "also list each tool's servers")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "tools"},
	Short:   "List supported tools and where their configs live",
	Long: `List every supported tool with its config path, whether the file
exists, and how many MCP servers it defines.`,
	Example: `  sync-mcp list
  sync-mcp list --servers
  sync-mcp list --json`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		return runList(c.OutOrStdout(), locator())
	},
}

type toolStatus struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Keywords   []string `json:"keywords"`
	ConfigPath string   `json:"config_path"`
	Status     string   `json:"status"`
	Servers    []string `json:"servers"`
	Error      string   `json:"error,omitempty"`
	DocsURL    string   `json:"docs_url"`

	config *mcp.Config
}

func runList(w io.Writer, loc platform.Locator) error {
	results := loc.DetectAll()
	statuses := make([]toolStatus, 0, len(results))
	for _, r := range results {
		statuses = append(statuses, collectStatus(r))
	}

	if listJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		boldStyle.Sprint("TOOL"), boldStyle.Sprint("KEYWORD"), boldStyle.Sprint("STATUS"),
		boldStyle.Sprint("SERVERS"), boldStyle.Sprint("PATH"))
	for _, s := range statuses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.Name, s.ID, statusLabel(s), serverCount(s), paths.Display(s.ConfigPath))
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "writing table")
	}

	if !listServers {
		return nil
	}
	for _, s := range statuses {
		if s.config == nil || s.config.Len() == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", headerStyle.Sprint(s.Name))
		for _, id := range s.config.IDs() {
			fmt.Fprintf(w, "  %s  %s\n", id, dimStyle.Sprint(describeServer(s.config.Servers[id])))
		}
	}
	return nil
}

// collectStatus parses an installed tool's config to count its servers.
func collectStatus(r *platform.DetectionResult) toolStatus {
	s := toolStatus{
		ID:         r.Tool.ID,
		Name:       r.Tool.Name,
		Keywords:   r.Tool.Keywords,
		ConfigPath: r.ConfigPath,
		Status:     string(r.Status),
		Servers:    []string{},
		DocsURL:    r.Tool.DocsURL,
	}
	if r.Status != platform.StatusInstalled {
		return s
	}

	data, err := fileutil.ReadFileWithLimit(r.ConfigPath)
	if err != nil {
		s.Error = err.Error()
		return s
	}
	res, err := platform.DefaultRegistry().Parse(r.Tool.ID, string(data))
	if err != nil {
		s.Error = err.Error()
		return s
	}
	s.config = res.Config
	s.Servers = res.Config.IDs()
	return s
}

func statusLabel(s toolStatus) string {
	switch {
	case s.Error != "":
		return warnStyle.Sprint("unreadable")
	case s.Status == string(platform.StatusInstalled):
		return successStyle.Sprint("found")
	case s.Status == string(platform.StatusPartial):
		return "no config"
	default:
		return dimStyle.Sprint("not installed")
	}
}

func serverCount(s toolStatus) string {
	if s.config == nil {
		return "-"
	}
	return strconv.Itoa(len(s.Servers))
}
