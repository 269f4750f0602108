// Package platform ties the tool catalog to the format translators.
//
// The catalog lists every tool whose MCP server configuration sync-mcp can
// read and write: Codex (TOML) and Claude Code, Cursor, Gemini CLI, GitHub
// Copilot CLI and VS Code (JSON). Each [Tool] carries its identifier,
// display name, keyword aliases and config file location per OS.
//
// # Conversion
//
// [Parse] and [Format] dispatch on the tool identifier to the translator
// registered for it:
//
//	res, err := platform.Parse("codex", raw)
//	if err != nil {
//	    return err
//	}
//	out, err := platform.Format("claude", res.Config, platform.WithMeta(existing.Meta))
//
// Unknown identifiers fail with errors matching [mcp.ErrUnsupportedTool].
//
// # Locating and detecting configs
//
// A [Locator] resolves config paths for a host, honoring per-tool overrides:
//
//	loc := platform.DefaultLocator(cfg.ToolPaths())
//	for _, result := range loc.DetectInstalled() {
//	    fmt.Printf("%s: %s\n", result.Tool.Name, result.ConfigPath)
//	}
//
// [Resolve] maps user keywords such as "claude code" or "gh" onto tools,
// and [Locator.InferFromPath] guesses the tool behind a custom file path.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use.
package platform
