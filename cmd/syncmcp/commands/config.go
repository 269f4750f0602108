package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/syncmcp/internal/config"
	"github.com/thoreinstein/syncmcp/internal/editor"
	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/paths"
)

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective sync-mcp configuration",
	Long: `Print the configuration in effect after defaults, the config file and
SYNC_MCP_* environment variables are applied, along with the resolved
backup and history locations.`,
	Example: `  # Effective configuration
  sync-mcp config

  # Which file was loaded
  sync-mcp config path

  # Open the config file in $EDITOR, creating it first if needed
  sync-mcp config edit`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		return runConfigShow(c.OutOrStdout(), currentConfig())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the path of the loaded config file",
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, _ []string) {
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintln(c.OutOrStdout(), used)
			return
		}
		fmt.Fprintln(c.OutOrStdout(), dimStyle.Sprint("no config file loaded, using defaults"))
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in your editor",
	Long: `Open the sync-mcp config file in $EDITOR (or $VISUAL, nano, vi). When no
config file exists yet, one holding the defaults is written first. The file
is validated after the editor exits.`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

// editTarget is the file config edit opens: --config, the loaded file, or
// the default location.
func editTarget() string {
	switch {
	case configFile != "":
		return configFile
	case viper.ConfigFileUsed() != "":
		return viper.ConfigFileUsed()
	default:
		return config.DefaultPath()
	}
}

func runConfigEdit(c *cobra.Command, _ []string) error {
	path := editTarget()
	created, err := config.WriteDefault(path)
	if err != nil {
		return errors.NewSystemError(err, "check permissions on "+paths.Display(filepath.Dir(path)))
	}
	if created {
		status(c.ErrOrStderr(), "Created %s", paths.Display(path))
	}

	err = editor.Open(c.Context(), path, editor.Streams{
		In:  c.InOrStdin(),
		Out: c.OutOrStdout(),
		Err: c.ErrOrStderr(),
	})
	if err != nil {
		return errors.NewUserError(err, "set $EDITOR to your preferred editor")
	}

	config.Init()
	if _, err := config.Load(path); err != nil {
		return errors.NewUserError(err, "run 'sync-mcp config edit' again to fix it")
	}
	success(c.ErrOrStderr(), "Saved %s", paths.Display(path))
	return nil
}

// effectiveConfig adds resolved locations to the loaded configuration.
type effectiveConfig struct {
	config.Config `yaml:",inline"`

	Resolved struct {
		BackupDir   string            `yaml:"backup_dir"`
		HistoryPath string            `yaml:"history_path"`
		ToolPaths   map[string]string `yaml:"tool_paths"`
	} `yaml:"resolved"`
}

func runConfigShow(w io.Writer, cfg *config.Config) error {
	out := effectiveConfig{Config: *cfg}
	out.Resolved.BackupDir = paths.Display(cfg.BackupDir())
	out.Resolved.HistoryPath = paths.Display(cfg.HistoryPath())
	out.Resolved.ToolPaths = make(map[string]string)
	loc := locator()
	for _, r := range loc.DetectAll() {
		out.Resolved.ToolPaths[r.Tool.ID] = paths.Display(r.ConfigPath)
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "writing output")
}
