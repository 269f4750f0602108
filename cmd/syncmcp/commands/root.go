// Package commands implements the CLI commands for sync-mcp.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/syncmcp/cmd"
	"github.com/thoreinstein/syncmcp/cmd/syncmcp/commands/flags"
	"github.com/thoreinstein/syncmcp/internal/config"
	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/logging"
	"github.com/thoreinstein/syncmcp/internal/platform"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// loadedConfig is the configuration read during initialization.
var loadedConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

// logFileHandle is closed when the command finishes.
var logFileHandle *os.File

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ~/.config/sync-mcp/config.yaml)")

	addSyncFlags(rootCmd)
	flags.SetConfigSource(currentConfig)

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("sync-mcp version {{.Version}}\n")

	// Silence errors and usage so main controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "sync-mcp [source target]",
	Short: "Sync MCP server configurations between AI coding tools",
	Long: `sync-mcp copies MCP server definitions from one tool's configuration
file into another's, translating between formats.

Supported tools: Codex, Claude Code, Cursor, Gemini CLI, GitHub Copilot CLI
and Visual Studio Code. Codex uses TOML; the others use JSON.

Run with two tool keywords to sync directly, or with no arguments on a
terminal to pick the source and target interactively. Settings in the
target file that are not MCP servers are kept, and the previous target is
backed up before it is overwritten.`,
	Example: `  # Copy Claude Code servers into Codex
  sync-mcp claude codex

  # Preview the result without writing
  sync-mcp claude codex --dry-run

  # Keep Cursor in sync with Claude Code while editing
  sync-mcp claude cursor --watch

  # Pick source and target interactively
  sync-mcp

  See Also: sync-mcp list, sync-mcp convert, sync-mcp backup`,
	Args:              cobra.MatchAll(cobra.MaximumNArgs(2), rejectOneArg),
	PersistentPreRunE: preRun,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeLogFile()
	},
	RunE: runSync,
}

// preRun configures logging and reports config load failures.
func preRun(cmd *cobra.Command, _ []string) error {
	if err := setupLogging(cmd); err != nil {
		return err
	}

	// Version and help work with a broken config file
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

func rejectOneArg(_ *cobra.Command, args []string) error {
	if len(args) == 1 {
		return errors.NewUserError(
			errors.New("expected a source and a target keyword"),
			"Usage: sync-mcp <source> <target>, or run without arguments for interactive mode",
		)
	}
	return nil
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	level := logging.LevelFromVerbosity(verbosity)
	if quiet {
		level = slog.LevelError
	}

	format := logging.Format(logFormat)
	if format != logging.FormatText && format != logging.FormatJSON {
		return errors.NewUserError(
			errors.Newf("invalid log format %q", logFormat),
			"Use --log-format text or --log-format json",
		)
	}

	logCfg := logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		logFileHandle = f
		logCfg.File = f
	}

	logger := logging.New(logCfg)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))
	return nil
}

func closeLogFile() error {
	if logFileHandle == nil {
		return nil
	}
	err := logFileHandle.Close()
	logFileHandle = nil
	return errors.Wrap(err, "closing log file")
}

// currentConfig returns the loaded configuration, or defaults when
// initialization did not run.
func currentConfig() *config.Config {
	if loadedConfig == nil {
		return config.Default()
	}
	return loadedConfig
}

// locator resolves tool config paths with the configured overrides.
func locator() platform.Locator {
	return flags.Locator()
}

// Execute runs the root command.
func Execute() error {
	defer closeLogFile()
	return rootCmd.Execute()
}
