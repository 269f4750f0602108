// Package codex translates the [mcp_servers.<id>] tables of the Codex CLI
// config.toml.
//
// The package reads only the TOML that Codex itself writes: key/value
// pairs, basic and literal strings, arrays, inline tables, numbers with
// underscore grouping, booleans, line comments and dotted table headers.
// Everything outside the server tables is kept as text and reproduced
// around the regenerated sections.
//
// On Windows hosts commands are wrapped as cmd /c and the SystemRoot and
// PROGRAMFILES variables Codex needs to spawn servers are filled in.
// Parsing unwraps the shell again so the canonical command stays portable.
package codex
