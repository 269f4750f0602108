package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/syncmcp/cmd"
	"github.com/thoreinstein/syncmcp/internal/backup"
	"github.com/thoreinstein/syncmcp/internal/cli"
	"github.com/thoreinstein/syncmcp/internal/cli/prompt"
	"github.com/thoreinstein/syncmcp/internal/config"
	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/history"
	"github.com/thoreinstein/syncmcp/internal/logging"
	"github.com/thoreinstein/syncmcp/internal/paths"
	"github.com/thoreinstein/syncmcp/internal/platform"
	"github.com/thoreinstein/syncmcp/internal/syncer"
)

var (
	dryRun     bool
	watch      bool
	noBackup   bool
	sourcePath string
	targetPath string
)

func addSyncFlags(c *cobra.Command) {
	c.Flags().BoolVar(&dryRun, "dry-run", false, "print the result instead of writing it")
	c.Flags().BoolVarP(&watch, "watch", "w", false, "re-sync whenever the source file changes")
	c.Flags().BoolVar(&noBackup, "no-backup", false, "do not back up the target before overwriting it")
	c.Flags().StringVar(&sourcePath, "source-path", "", "read the source tool's config from this file")
	c.Flags().StringVar(&targetPath, "target-path", "", "write the target tool's config to this file")
	c.MarkFlagsMutuallyExclusive("dry-run", "watch")
}

func runSync(c *cobra.Command, args []string) error {
	ctx := c.Context()
	out := c.OutOrStdout()
	cfg := currentConfig()
	loc := locator()

	src, tgt, err := resolveEndpoints(c, loc, args)
	if err != nil {
		return err
	}
	if src, err = overridePath(src, sourcePath); err != nil {
		return err
	}
	if tgt, err = overridePath(tgt, targetPath); err != nil {
		return err
	}

	s, mgr, closeStore := newSyncer(ctx, cfg)
	defer closeStore()

	req := syncer.Request{
		SourceTool: src.ToolID(),
		SourcePath: src.Path,
		TargetTool: tgt.ToolID(),
		TargetPath: tgt.Path,
		DryRun:     dryRun,
	}

	status(c.ErrOrStderr(), "Syncing from %s -> %s", src.Label(), tgt.Label())

	if watch {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		status(c.ErrOrStderr(), "Watching %s (press Ctrl+C to stop)", paths.Display(src.Path))
		return s.Watch(ctx, req, cfg.Watch.Debounce, func(res *syncer.Result, err error) {
			if err != nil {
				warn(c.ErrOrStderr(), "%v", err)
				return
			}
			printResult(out, c.ErrOrStderr(), src, tgt, res, mgr)
		})
	}

	res, err := s.Sync(ctx, req)
	if err != nil {
		if errors.Is(err, syncer.ErrSourceNotFound) {
			return errors.NewUserError(err, "Run 'sync-mcp list' to see where each tool's config is expected")
		}
		return err
	}
	printResult(out, c.ErrOrStderr(), src, tgt, res, mgr)
	return nil
}

// resolveEndpoints turns two keywords into endpoints, or runs the
// interactive wizard when none are given.
func resolveEndpoints(c *cobra.Command, loc platform.Locator, args []string) (cli.Endpoint, cli.Endpoint, error) {
	if len(args) == 2 {
		srcTool, err := cli.ResolveTool(args[0])
		if err != nil {
			return cli.Endpoint{}, cli.Endpoint{}, errors.NewUserError(errors.Wrap(err, "source"), "Run 'sync-mcp list' to see supported tools")
		}
		tgtTool, err := cli.ResolveTool(args[1])
		if err != nil {
			return cli.Endpoint{}, cli.Endpoint{}, errors.NewUserError(errors.Wrap(err, "target"), "Run 'sync-mcp list' to see supported tools")
		}
		return cli.Endpoint{Tool: &srcTool, Path: loc.ConfigPath(srcTool)},
			cli.Endpoint{Tool: &tgtTool, Path: loc.ConfigPath(tgtTool)},
			nil
	}

	if !logging.IsInteractive(c.InOrStdin(), c.OutOrStdout()) {
		return cli.Endpoint{}, cli.Endpoint{}, errors.NewUserError(
			errors.New("no source and target given"),
			"Usage: sync-mcp <source> <target>. Interactive mode needs a terminal.",
		)
	}

	w := prompt.NewWizard(loc, finder(), c.InOrStdin(), c.OutOrStdout())
	src, err := w.SelectSource()
	if err != nil {
		return cli.Endpoint{}, cli.Endpoint{}, cancelled(err)
	}
	tgt, err := w.SelectTarget(src)
	if err != nil {
		return cli.Endpoint{}, cli.Endpoint{}, cancelled(err)
	}
	return src, tgt, nil
}

// finder picks the fuzzy finder unless the terminal cannot draw it.
func finder() prompt.Finder {
	if os.Getenv("TERM") == "dumb" {
		return nil
	}
	return prompt.FuzzyFinder
}

func cancelled(err error) error {
	if errors.Is(err, prompt.ErrSelectionCancelled) {
		return errors.NewUserError(err, "")
	}
	return err
}

func overridePath(ep cli.Endpoint, override string) (cli.Endpoint, error) {
	if override == "" {
		return ep, nil
	}
	p, err := paths.Expand(override)
	if err != nil {
		return ep, errors.NewUserError(err, "Pass an absolute path or one starting with ~")
	}
	ep.Path = p
	return ep, nil
}

// newSyncer wires backups and history according to cfg and the flags. The
// returned func closes the history store.
func newSyncer(ctx context.Context, cfg *config.Config) (*syncer.Syncer, *backup.Manager, func()) {
	logger := logging.FromContext(ctx)
	var opts []syncer.Option

	var mgr *backup.Manager
	if cfg.Backup.Enabled && !noBackup {
		mgr = newBackupManager(cfg)
		opts = append(opts, syncer.WithBackups(mgr))
	}

	closeStore := func() {}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			logger.Warn("history disabled for this run", "error", err)
		} else {
			opts = append(opts, syncer.WithHistory(store))
			closeStore = func() {
				if err := store.Close(); err != nil {
					logger.Warn("closing history", "error", err)
				}
			}
		}
	}
	return syncer.New(opts...), mgr, closeStore
}

func newBackupManager(cfg *config.Config) *backup.Manager {
	return backup.NewManager(
		backup.WithBackupDir(cfg.BackupDir()),
		backup.WithRetentionCount(cfg.Backup.Retention),
		backup.WithVersion(cmd.Version),
	)
}

func printResult(out, errOut io.Writer, src, tgt cli.Endpoint, res *syncer.Result, mgr *backup.Manager) {
	switch {
	case res.Action == syncer.ActionNone:
		status(errOut, "Source and target files are identical. No action taken.")
		return
	case res.DryRun:
		_, _ = io.WriteString(out, res.Output)
		status(errOut, "Dry run: would write %s (%s)", paths.Display(res.TargetPath), res.Action)
		return
	}

	if res.FreshTarget {
		warn(errOut, "Existing %s configuration could not be parsed. A fresh file was generated.", tgt.Label())
	}
	detail := ""
	if res.Action == syncer.ActionConverted {
		detail = " (" + plural(res.Servers, "server") + ")"
	}
	success(out, "%s %s -> %s%s.", res.Action.Label(), src.Label(), tgt.Label(), detail)
	if p := res.BackupPath(mgr); p != "" {
		status(out, "%s", dimStyle.Sprintf("Backup stored at %s", paths.Display(p)))
	}
}
