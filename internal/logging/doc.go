// Package logging configures log/slog for sync-mcp.
//
// [New] builds a logger from a [Config]: a colorized one-line-per-record
// [Handler] for terminals, or slog's JSON handler for --log-format json.
// With [Config.File] set, a second JSON handler receives Debug and above
// regardless of the console level, which is how --log-file works.
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbose),
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// Packages below the CLI take the logger from the context with
// [FromContext]. [LevelTrace] sits below Debug and is enabled by -vvv.
//
// # Redaction
//
// MCP server environments carry API tokens, so every handler masks
// attribute values that [IsSecret] flags and hides passwords embedded in
// URLs. [MaskEnv] applies the same rules to a whole env map for display.
//
// In tests, [ForTest] routes log lines to t.Log.
package logging
