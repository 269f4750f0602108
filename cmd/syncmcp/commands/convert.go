package commands

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/syncmcp/internal/cli"
	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/paths"
	"github.com/thoreinstein/syncmcp/internal/syncer"
	"github.com/thoreinstein/syncmcp/pkg/fileutil"
)

var (
	convertIn       string
	convertExisting string
	convertOut      string
)

func init() {
	convertCmd.Flags().StringVarP(&convertIn, "in", "i", "-", "source config file (- for stdin)")
	convertCmd.Flags().StringVarP(&convertExisting, "existing", "e", "",
		"existing target config to merge into")
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "-", "output file (- for stdout)")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <source-tool> <target-tool>",
	Short: "Convert a config between tool formats without touching tool files",
	Long: `Convert MCP server definitions from one tool's format to another's.

Reads the source document from --in (stdin by default) and writes the result
to --out (stdout by default). With --existing, settings from that target
file are kept the same way a sync would keep them. No backups are taken and
no history is recorded.`,
	Example: `  # Claude Code JSON to Codex TOML
  sync-mcp convert claude codex < ~/.claude.json

  # Merge into a copy of an existing Codex config
  sync-mcp convert claude codex -i ~/.claude.json -e ~/.codex/config.toml -o /tmp/config.toml`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func runConvert(c *cobra.Command, args []string) error {
	src, err := cli.ResolveTool(args[0])
	if err != nil {
		return errors.NewUserError(errors.Wrap(err, "source"), "Run 'sync-mcp list' to see supported tools")
	}
	tgt, err := cli.ResolveTool(args[1])
	if err != nil {
		return errors.NewUserError(errors.Wrap(err, "target"), "Run 'sync-mcp list' to see supported tools")
	}

	source, err := readInput(c.InOrStdin(), convertIn)
	if err != nil {
		return err
	}
	var existing string
	if convertExisting != "" {
		existing, err = readInput(c.InOrStdin(), convertExisting)
		if err != nil {
			return err
		}
	}

	conv, err := syncer.New().Convert(src.ID, tgt.ID, source, existing)
	if err != nil {
		return errors.Wrapf(err, "converting %s configuration for %s", src.Name, tgt.Name)
	}
	if conv.FreshTarget {
		warn(c.ErrOrStderr(), "Existing %s configuration could not be parsed and was ignored.", tgt.Name)
	}

	if convertOut == "-" {
		_, err := io.WriteString(c.OutOrStdout(), conv.Output)
		return errors.Wrap(err, "writing output")
	}
	out, err := paths.Expand(convertOut)
	if err != nil {
		return errors.NewUserError(err, "")
	}
	if err := paths.EnsureDir(filepath.Dir(out), paths.DefaultDirPerm); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	if err := fileutil.AtomicWriteFile(out, []byte(conv.Output), 0o600); err != nil {
		return errors.Wrapf(err, "writing %s", paths.Display(out))
	}
	success(c.ErrOrStderr(), "Wrote %s (%s)", paths.Display(out), plural(conv.Servers, "server"))
	return nil
}

// readInput reads a file, or the command's stdin when name is "-".
func readInput(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(io.LimitReader(stdin, fileutil.MaxFileSize+1))
		if err != nil {
			return "", errors.Wrap(err, "reading stdin")
		}
		if len(data) > fileutil.MaxFileSize {
			return "", errors.NewUserError(fileutil.ErrFileTooLarge, "")
		}
		return string(data), nil
	}

	p, err := paths.Expand(name)
	if err != nil {
		return "", errors.NewUserError(err, "")
	}
	data, err := fileutil.ReadFileWithLimit(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errors.NewUserError(errors.Newf("file not found: %s", paths.Display(p)), "")
		}
		return "", errors.Wrapf(err, "reading %s", paths.Display(p))
	}
	return string(data), nil
}
