package syncer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"

	"github.com/thoreinstein/syncmcp/internal/backup"
	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/history"
	"github.com/thoreinstein/syncmcp/internal/logging"
	"github.com/thoreinstein/syncmcp/internal/mcp"
	"github.com/thoreinstein/syncmcp/internal/mcp/validator"
	"github.com/thoreinstein/syncmcp/internal/paths"
	"github.com/thoreinstein/syncmcp/internal/platform"
	"github.com/thoreinstein/syncmcp/internal/platform/codex"
	"github.com/thoreinstein/syncmcp/pkg/fileutil"
)

// unknownTool is the backup directory used for targets outside the catalog.
const unknownTool = "custom"

// filePerm is used for newly created target files. MCP configs routinely
// hold API keys.
const filePerm = 0o600

// Syncer copies MCP server definitions from one tool's config file into
// another's.
type Syncer struct {
	registry *platform.Registry
	host     mcp.Host
	backups  *backup.Manager
	history  *history.Store
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithRegistry replaces the default translator registry.
func WithRegistry(r *platform.Registry) Option {
	return func(s *Syncer) {
		s.registry = r
	}
}

// WithHost sets the machine the output is written for.
func WithHost(h mcp.Host) Option {
	return func(s *Syncer) {
		s.host = h
	}
}

// WithBackups enables backups of the target before each write. A nil
// manager disables them.
func WithBackups(m *backup.Manager) Option {
	return func(s *Syncer) {
		s.backups = m
	}
}

// WithHistory journals each run into store. A nil store disables the
// journal.
func WithHistory(store *history.Store) Option {
	return func(s *Syncer) {
		s.history = store
	}
}

// New returns a Syncer for the current host using the default registry.
// Backups and history are off unless enabled by options.
func New(opts ...Option) *Syncer {
	s := &Syncer{
		registry: platform.DefaultRegistry(),
		host:     mcp.CurrentHost(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Conversion is the outcome of translating one document.
type Conversion struct {
	Output  string
	Servers int

	// FreshTarget is set when the existing target text could not be parsed
	// and was ignored. TargetErr holds the parse failure.
	FreshTarget bool
	TargetErr   error

	// Issues lists problems found in the source servers. They are carried
	// into the output unchanged.
	Issues []*validator.Issue
}

// CanConvert reports whether both tools have a translator.
func (s *Syncer) CanConvert(sourceTool, targetTool string) bool {
	_, srcOK := s.registry.Get(sourceTool)
	_, tgtOK := s.registry.Get(targetTool)
	return srcOK && tgtOK
}

// Convert translates source, the config text of sourceTool, into the
// format of targetTool. When existing is non-empty it is parsed as the
// current target so its unrelated settings survive; if that parse fails a
// fresh document is produced instead.
func (s *Syncer) Convert(sourceTool, targetTool, source, existing string) (*Conversion, error) {
	parsed, err := s.registry.Parse(sourceTool, source)
	if err != nil {
		return nil, err
	}

	conv := &Conversion{
		Servers: parsed.Config.Len(),
		Issues:  validator.New(validator.WithAllowEmpty(true)).Validate(parsed.Config),
	}
	opts := []platform.FormatOption{platform.WithHost(s.host)}
	if existing != "" {
		target, err := s.registry.Parse(targetTool, existing)
		if err != nil {
			conv.FreshTarget = true
			conv.TargetErr = err
		} else {
			opts = append(opts, platform.WithMeta(target.Meta))
		}
	}

	conv.Output, err = s.registry.Format(targetTool, parsed.Config, opts...)
	if err != nil {
		return nil, err
	}
	if err := verify(targetTool, conv.Output); err != nil {
		return nil, err
	}
	return conv, nil
}

// Sync performs one run described by req.
//
// Identical source and target paths are a no-op. When both tools are
// known the source is converted into the target's format; otherwise the
// source file is copied unchanged. Unless req.DryRun is set, the previous
// target is backed up and the new content written atomically.
func (s *Syncer) Sync(ctx context.Context, req Request) (*Result, error) {
	return s.run(ctx, req, nil)
}

func (s *Syncer) run(ctx context.Context, req Request, session *backup.Session) (*Result, error) {
	logger := logging.FromContext(ctx)

	src, err := paths.Expand(req.SourcePath)
	if err != nil {
		return nil, errors.Wrap(err, "resolving source path")
	}
	tgt, err := paths.Expand(req.TargetPath)
	if err != nil {
		return nil, errors.Wrap(err, "resolving target path")
	}

	res := &Result{
		SourceTool: req.SourceTool,
		SourcePath: src,
		TargetTool: req.TargetTool,
		TargetPath: tgt,
		DryRun:     req.DryRun,
	}

	if paths.Same(src, tgt) {
		res.Action = ActionNone
		logger.Info("source and target are the same file", "path", src)
		return res, nil
	}

	if !fileutil.Exists(src) {
		return nil, errors.WithHint(
			errors.Wrapf(ErrSourceNotFound, "%s does not exist", paths.Display(src)),
			"Check the tool's config path or pass --source-path",
		)
	}

	source, err := fileutil.ReadFileWithLimit(src)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", paths.Display(src))
	}

	if s.CanConvert(req.SourceTool, req.TargetTool) {
		var existing []byte
		if fileutil.Exists(tgt) {
			existing, err = fileutil.ReadFileWithLimit(tgt)
			if err != nil {
				return nil, errors.Wrapf(err, "reading %s", paths.Display(tgt))
			}
		}

		conv, err := s.Convert(req.SourceTool, req.TargetTool, string(source), string(existing))
		if err != nil {
			return nil, errors.Wrapf(err, "converting %s configuration for %s", toolName(req.SourceTool), toolName(req.TargetTool))
		}
		for _, issue := range conv.Issues {
			logger.Warn("source server issue", "tool", req.SourceTool, "problem", issue.Error())
		}
		if conv.FreshTarget {
			logger.Warn("existing target could not be parsed, generating a fresh file",
				"tool", req.TargetTool, "path", paths.Display(tgt), "error", conv.TargetErr)
		}
		res.Action = ActionConverted
		res.Output = conv.Output
		res.Servers = conv.Servers
		res.FreshTarget = conv.FreshTarget
	} else {
		res.Action = ActionCopied
		res.Output = string(source)
	}

	logger.Debug("sync prepared",
		"action", string(res.Action),
		"source", paths.Display(src),
		"target", paths.Display(tgt),
		"servers", res.Servers,
		"dry_run", req.DryRun)

	if req.DryRun {
		s.record(ctx, req, res)
		return res, nil
	}

	if err := paths.EnsureDir(filepath.Dir(tgt), paths.DefaultDirPerm); err != nil {
		return nil, errors.Wrap(err, "creating target directory")
	}

	res.Backup, err = s.backupTarget(req.TargetTool, tgt, []byte(res.Output), session)
	if err != nil {
		return nil, err
	}
	if res.Backup != nil {
		logger.Info("backed up target", "id", res.Backup.ID, "dir", s.backups.Path(res.Backup.Tool, res.Backup.ID))
	}

	perm := os.FileMode(filePerm)
	if info, err := os.Stat(tgt); err == nil {
		perm = info.Mode().Perm()
	}
	if err := fileutil.AtomicWriteFile(tgt, []byte(res.Output), perm); err != nil {
		return nil, errors.Wrapf(err, "writing %s", paths.Display(tgt))
	}

	logger.Info("sync complete", "action", string(res.Action), "target", paths.Display(tgt))
	s.record(ctx, req, res)
	return res, nil
}

// backupTarget saves the current target before it is overwritten. Within a
// watch session only the first write is backed up.
func (s *Syncer) backupTarget(tool, path string, next []byte, session *backup.Session) (*backup.Manifest, error) {
	if s.backups == nil {
		return nil, nil
	}
	if tool == "" {
		tool = unknownTool
	}
	if session != nil {
		m, created, err := session.EnsureBackedUp(tool, path, next)
		if !created {
			return nil, err
		}
		return m, err
	}
	m, err := s.backups.BackupBeforeWrite(tool, path, next)
	if err != nil {
		return nil, errors.Wrapf(err, "backing up %s", paths.Display(path))
	}
	return m, nil
}

// record journals a run. Journal failures are logged and otherwise ignored.
func (s *Syncer) record(ctx context.Context, req Request, res *Result) {
	if s.history == nil {
		return
	}
	trigger := req.Trigger
	if trigger == "" {
		trigger = TriggerManual
	}
	r := &history.Record{
		SourceTool: res.SourceTool,
		SourcePath: res.SourcePath,
		TargetTool: res.TargetTool,
		TargetPath: res.TargetPath,
		Action:     string(res.Action),
		Servers:    res.Servers,
		DryRun:     res.DryRun,
		Trigger:    trigger,
	}
	if res.Backup != nil {
		r.BackupID = res.Backup.ID
	}
	if err := s.history.Append(r); err != nil {
		logging.FromContext(ctx).Warn("recording history failed", "error", err)
	}
}

// verify decodes output with a parser independent of the adapter that
// produced it.
func verify(tool, output string) error {
	if tool == codex.Tool {
		var doc map[string]any
		if err := toml.Unmarshal([]byte(output), &doc); err != nil {
			return errors.Wrapf(ErrVerification, "%s output is not valid TOML: %v", tool, err)
		}
		return nil
	}
	if !gjson.Valid(output) {
		return errors.Wrapf(ErrVerification, "%s output is not valid JSON", tool)
	}
	return nil
}

func toolName(id string) string {
	if t, ok := platform.ByID(id); ok {
		return t.Name
	}
	if id == "" {
		return "unknown"
	}
	return id
}
