package codex

import (
	"strings"
	"unicode"

	"github.com/thoreinstein/syncmcp/internal/mcp"
	"github.com/thoreinstein/syncmcp/pkg/ordered"
)

// Tool is the identifier of the Codex CLI.
const Tool = "codex"

// Meta preserves the parts of a Codex config outside the server tables.
type Meta struct {
	// ExistingServers maps server ids to their raw tables as read.
	ExistingServers *ordered.Map

	// Preamble is the text before the first server table.
	Preamble string

	// Epilogue is the non-server text that followed the first server table.
	Epilogue string

	// Order is the original server id sequence.
	Order []string
}

// Family implements [mcp.Meta].
func (m *Meta) Family() mcp.Family {
	return mcp.FamilyTOML
}

// Translator converts between Codex's config.toml and the canonical model.
//
// Codex keeps servers in tables such as:
//
//	[mcp_servers.github]
//	command = "npx"
//	args = [
//	  "-y",
//	  "@modelcontextprotocol/server-github"
//	]
//	env = { GITHUB_TOKEN="..." }
//	startup_timeout_ms = 60_000
//
// Only the server tables are parsed and rewritten; every other part of the
// file is carried through verbatim.
type Translator struct{}

var _ mcp.Translator = (*Translator)(nil)

// NewTranslator creates a Codex translator.
func NewTranslator() *Translator {
	return &Translator{}
}

// Tool returns the tool identifier.
func (t *Translator) Tool() string {
	return Tool
}

// Parse implements [mcp.Translator].
func (t *Translator) Parse(raw string) (*mcp.Result, error) {
	cfg, meta, err := t.ParseDocument(raw)
	if err != nil {
		return nil, err
	}
	return &mcp.Result{Config: cfg, Meta: meta}, nil
}

// ParseDocument decodes Codex config text into canonical servers and the
// metadata needed to rewrite it.
func (t *Translator) ParseDocument(raw string) (*mcp.Config, *Meta, error) {
	doc, err := parseDocument(raw)
	if err != nil {
		return nil, nil, err
	}

	cfg := mcp.NewConfig()
	for id, table := range doc.servers.All() {
		cfg.Set(id, fromCodexServer(table.(*ordered.Map)))
	}

	meta := &Meta{
		ExistingServers: doc.servers.Clone(),
		Preamble:        doc.preamble,
		Epilogue:        joinEpilogue(doc.epilogue),
		Order:           doc.servers.Keys(),
	}
	return cfg, meta, nil
}

// Format implements [mcp.Translator].
func (t *Translator) Format(cfg *mcp.Config, opts mcp.FormatOptions) (string, error) {
	var meta *Meta
	if opts.Meta != nil {
		m, ok := opts.Meta.(*Meta)
		if !ok {
			return "", &mcp.FormatError{Tool: Tool, Err: mcp.ErrMetaMismatch}
		}
		meta = m
	}
	return t.FormatDocument(cfg, meta, opts.Host), nil
}

// FormatDocument renders cfg as Codex config text for host. With a non-nil
// meta, destination-only servers and surrounding text are kept; meta is
// never modified.
func (t *Translator) FormatDocument(cfg *mcp.Config, meta *Meta, host mcp.Host) string {
	cfg = mcp.EnsureCanonical(cfg)
	if meta == nil {
		meta = &Meta{}
	}
	existing := meta.ExistingServers
	if existing == nil {
		existing = ordered.New()
	}

	var parts []string
	if strings.TrimSpace(meta.Preamble) != "" {
		parts = append(parts, strings.TrimRightFunc(meta.Preamble, unicode.IsSpace))
	}
	for _, id := range serverOrder(meta.Order, cfg, existing) {
		canonical, _ := cfg.Get(id)
		prev, _ := existing.Get(id)
		parts = append(parts, renderSection(id, buildRecord(canonical, prev, host)))
	}
	if strings.TrimSpace(meta.Epilogue) != "" {
		parts = append(parts, strings.TrimLeftFunc(meta.Epilogue, unicode.IsSpace))
	}

	return strings.TrimRightFunc(strings.Join(parts, "\n\n"), unicode.IsSpace) + "\n"
}

// joinEpilogue stitches foreign text blocks together, one blank line apart.
func joinEpilogue(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed = append(trimmed, strings.TrimRightFunc(strings.TrimLeft(p, "\r\n"), unicode.IsSpace))
	}
	return strings.Join(trimmed, "\n\n")
}
