// Package mcp provides the canonical MCP (Model Context Protocol) server
// model that every tool adapter converts to and from.
//
// A [Server] describes one launchable server: command, arguments,
// environment, a few descriptive fields, and an ordered [Server.Extra]
// map for anything no adapter recognizes. A [Config] holds servers by id
// and remembers insertion order so output is deterministic:
//
//	cfg := mcp.NewConfig()
//	cfg.Set("github", &mcp.Server{
//	    Command: "npx",
//	    Args:    []string{"-y", "@modelcontextprotocol/server-github"},
//	    Env:     map[string]string{"GITHUB_TOKEN": "${GITHUB_TOKEN}"},
//	})
//
// # Normalization
//
// [NormalizeServer] coerces loosely-typed input (decoded documents or
// partially filled structs) into a fully populated Server. Arguments and
// environment values become strings, null environment entries are dropped,
// and a server passing --stdio without a declared type is marked
// [TypeStdio]. Normalization is idempotent.
//
// # Merging
//
// When a conversion writes into a file that already exists, adapters merge
// the canonical side over the existing records with [MergeEnv] and
// [MergeExtra]. Both return fresh values; inputs are never modified, so a
// [Meta] obtained from one Parse may be reused across many Format calls.
//
// # Errors
//
// Adapters report failures as [*ParseError], [*FormatError] and
// [*UnsupportedToolError]. Each matches its sentinel under errors.Is:
//
//	if errors.Is(err, mcp.ErrParse) {
//	    // the file text could not be decoded
//	}
package mcp
