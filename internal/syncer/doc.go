// Package syncer copies MCP server definitions between the config files of
// different tools.
//
// A run reads the source file, converts it into the target tool's format
// (or copies it verbatim when either side is not a known tool), checks the
// output with an independent decoder, backs up the old target, and writes
// the new one atomically:
//
//	s := syncer.New(
//	    syncer.WithBackups(backup.NewManager()),
//	    syncer.WithHistory(store),
//	)
//	res, err := s.Sync(ctx, syncer.Request{
//	    SourceTool: "claude",
//	    SourcePath: "~/.claude.json",
//	    TargetTool: "codex",
//	    TargetPath: "~/.codex/config.toml",
//	})
//
// [Syncer.Watch] repeats the run whenever the source changes.
//
// The logger is taken from the context with [logging.FromContext].
package syncer
