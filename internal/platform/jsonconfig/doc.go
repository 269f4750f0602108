// Package jsonconfig translates the JSON MCP configurations of Claude Code,
// Cursor, Gemini CLI, GitHub Copilot CLI and VS Code.
//
// The five tools share one document shape and differ only in a few
// conventions captured by [Profile]: the top-level servers key ("servers"
// for VS Code, "mcpServers" elsewhere), whether a transport field is
// allowed, the default server type and whether an empty env is written.
//
// Parsing keeps the whole document. Keys outside the servers map land in
// [Meta.Rest] and are written back in their original position, so a
// conversion into ~/.claude.json leaves its unrelated settings untouched.
package jsonconfig
