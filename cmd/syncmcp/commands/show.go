package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/syncmcp/internal/cli"
	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/logging"
	"github.com/thoreinstein/syncmcp/internal/mcp"
	"github.com/thoreinstein/syncmcp/internal/paths"
	"github.com/thoreinstein/syncmcp/internal/platform"
	"github.com/thoreinstein/syncmcp/pkg/fileutil"
	"github.com/thoreinstein/syncmcp/pkg/ordered"
)

// Output formats accepted by show --format.
const (
	formatYAML = "yaml"
	formatJSON = "json"
	formatTOML = "toml"
)

var (
	showPath   string
	showFormat string
	showReveal bool
)

func init() {
	showCmd.Flags().StringVar(&showPath, "path", "", "read this file instead of the tool's config")
	showCmd.Flags().StringVarP(&showFormat, "format", "f", formatYAML, "output format: yaml, json, toml")
	showCmd.Flags().BoolVar(&showReveal, "reveal", false, "show secret environment values unmasked")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <tool> [server]",
	Short: "Display the MCP servers configured for a tool",
	Long: `Parse a tool's config file and print its MCP servers in the
tool-independent form sync-mcp converts through.

Environment values that look like secrets are masked unless --reveal is
given.`,
	Example: `  # Servers configured in Codex
  sync-mcp show codex

  # One Claude Code server as JSON
  sync-mcp show claude github --format json

  See Also: sync-mcp list, sync-mcp convert`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runShow,
}

func runShow(c *cobra.Command, args []string) error {
	t, err := cli.ResolveTool(args[0])
	if err != nil {
		return errors.NewUserError(err, "Run 'sync-mcp list' to see supported tools")
	}
	switch showFormat {
	case formatYAML, formatJSON, formatTOML:
	default:
		return errors.NewUserError(
			errors.Newf("invalid format %q", showFormat),
			"Use --format yaml, json or toml",
		)
	}

	path := locator().ConfigPath(t)
	if showPath != "" {
		if path, err = paths.Expand(showPath); err != nil {
			return errors.NewUserError(err, "")
		}
	}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.NewUserError(
				errors.Newf("no %s configuration at %s", t.Name, paths.Display(path)),
				"Pass --path if the file lives elsewhere",
			)
		}
		return errors.Wrapf(err, "reading %s", paths.Display(path))
	}

	res, err := platform.DefaultRegistry().Parse(t.ID, string(data))
	if err != nil {
		return errors.Wrapf(err, "parsing %s", paths.Display(path))
	}

	cfg := res.Config
	if len(args) == 2 {
		s, ok := cfg.Get(args[1])
		if !ok {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrNotFound, "server %q not found in %s configuration", args[1], t.Name),
				"Available servers: "+strings.Join(cfg.IDs(), ", "),
			)
		}
		cfg = mcp.NewConfig()
		cfg.Set(args[1], s)
	}

	if cfg.Len() == 0 {
		status(c.ErrOrStderr(), "No MCP servers configured in %s.", paths.Display(path))
		return nil
	}
	return writeServers(c.OutOrStdout(), serversView(cfg, !showReveal), showFormat)
}

// serversView lays a canonical config out as an ordered document.
func serversView(cfg *mcp.Config, mask bool) *ordered.Map {
	servers := ordered.New()
	for _, id := range cfg.IDs() {
		servers.Set(id, serverView(cfg.Servers[id], mask))
	}
	doc := ordered.New()
	doc.Set("servers", servers)
	return doc
}

func serverView(s *mcp.Server, mask bool) *ordered.Map {
	out := ordered.New()
	setNonEmpty := func(key, value string) {
		if value != "" {
			out.Set(key, value)
		}
	}

	setNonEmpty(mcp.FieldCommand, s.Command)
	if len(s.Args) > 0 {
		out.Set(mcp.FieldArgs, append([]string(nil), s.Args...))
	}
	if len(s.Env) > 0 {
		values := s.Env
		if mask {
			values = logging.MaskEnv(s.Env)
		}
		env := ordered.New()
		for _, k := range s.EnvKeys() {
			env.Set(k, values[k])
		}
		out.Set(mcp.FieldEnv, env)
	}
	setNonEmpty(mcp.FieldType, s.Type)
	setNonEmpty(mcp.FieldTransport, s.Transport)
	setNonEmpty(mcp.FieldCwd, s.Cwd)
	setNonEmpty(mcp.FieldDescription, s.Description)
	for k, v := range s.Extra.All() {
		out.Set(k, ordered.Clone(v))
	}
	return out
}

func writeServers(w io.Writer, doc *ordered.Map, format string) error {
	switch format {
	case formatJSON:
		data, err := json.Marshal(doc)
		if err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
		data = pretty.Pretty(data)
		if logging.SupportsColor(w) {
			data = pretty.Color(data, nil)
		}
		_, err = w.Write(data)
		return errors.Wrap(err, "writing output")

	case formatTOML:
		data, err := toml.Marshal(ordered.Plain(doc))
		if err != nil {
			return errors.Wrap(err, "encoding TOML")
		}
		_, err = w.Write(data)
		return errors.Wrap(err, "writing output")

	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return errors.Wrap(enc.Close(), "encoding YAML")
	}
}

// describeServer returns a one-line summary used by list output.
func describeServer(s *mcp.Server) string {
	parts := append([]string{s.Command}, s.Args...)
	line := strings.TrimSpace(strings.Join(parts, " "))
	if n := len(s.Env); n > 0 {
		line += fmt.Sprintf(" (%s)", plural(n, "env var"))
	}
	return line
}
