package codex

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/mcp"
	"github.com/thoreinstein/syncmcp/pkg/ordered"
)

// serversTable is the top-level table holding MCP server definitions.
const serversTable = "mcp_servers"

// document is the result of scanning a Codex config file.
type document struct {
	// servers maps server ids to their raw tables in first-seen order.
	servers *ordered.Map

	// preamble is the text before the first server table.
	preamble string

	// epilogue holds text outside server tables that follows the first one.
	epilogue []string
}

// header is a parsed [table] header line.
type header struct {
	keys []string
}

// server reports whether the header opens a server table or one of its subtables.
func (h header) server() bool {
	return len(h.keys) >= 2 && h.keys[0] == serversTable
}

type parser struct {
	s       *scanner
	doc     *document
	defined map[string]bool
}

// parseDocument splits raw Codex config text into server tables and the
// surrounding text.
//
// Server tables are fully parsed. Everything else is kept verbatim: text
// before the first server table becomes the preamble and foreign tables
// found later are collected into the epilogue in order.
func parseDocument(raw string) (*document, error) {
	p := &parser{
		s:       newScanner(raw),
		doc:     &document{servers: ordered.New()},
		defined: make(map[string]bool),
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

func (p *parser) run() error {
	inPreamble := true
	foreignStart := 0

	for {
		lineStart := p.s.pos
		if p.s.peek() == eof {
			p.flushForeign(inPreamble, foreignStart, lineStart)
			return nil
		}

		h, ok := p.peekServerHeader()
		if !ok {
			p.s.skipLine()
			continue
		}

		p.flushForeign(inPreamble, foreignStart, lineStart)
		inPreamble = false

		rest, err := p.parseSection(h)
		if err != nil {
			return err
		}
		foreignStart = rest
	}
}

// flushForeign records non-server text between from and to.
func (p *parser) flushForeign(inPreamble bool, from, to int) {
	text := p.s.text(from, to)
	if inPreamble {
		p.doc.preamble = text
		return
	}
	if strings.TrimSpace(text) != "" {
		p.doc.epilogue = append(p.doc.epilogue, text)
	}
}

// peekServerHeader reports whether the current line is a server table
// header without consuming it.
func (p *parser) peekServerHeader() (header, bool) {
	start := p.s.pos
	defer func() { p.s.pos = start }()

	p.s.skipSpace()
	if p.s.peek() != '[' || p.s.peekAt(1) == '[' {
		return header{}, false
	}
	h, err := p.parseHeader()
	if err != nil || !h.server() {
		return header{}, false
	}
	return h, true
}

// parseHeader reads "[key.key...]" and the remainder of its line.
func (p *parser) parseHeader() (header, error) {
	start := p.s.pos
	p.s.next() // [
	p.s.skipSpace()

	keys, err := p.parseKeyPath()
	if err != nil {
		return header{}, err
	}
	p.s.skipSpace()
	if p.s.next() != ']' {
		return header{}, p.errorf(start, "malformed table header")
	}
	p.s.skipSpace()
	if p.s.peek() == '#' {
		p.s.skipComment()
	}
	if !p.s.atLineEnd() {
		return header{}, p.errorf(start, "unexpected content after table header")
	}
	return header{keys: keys}, nil
}

// parseSection consumes a server table header and its body. It returns
// the offset where text that does not belong to the section begins.
//
// Comment lines that directly precede a foreign table header, or trail the
// last section in the file, are handed back as foreign text so they stay
// attached to what follows them.
func (p *parser) parseSection(h header) (int, error) {
	p.s.skipLine()
	table := p.openTable(h)
	pending := -1

	for {
		lineStart := p.s.pos
		p.s.skipSpace()

		switch r := p.s.peek(); r {
		case eof:
			if pending >= 0 {
				return pending, nil
			}
			return p.s.pos, nil
		case '\r', '\n':
			p.s.skipLine()
		case '#':
			if pending < 0 {
				pending = lineStart
			}
			p.s.skipLine()
		case '[':
			p.s.pos = lineStart
			if _, ok := p.peekServerHeader(); ok || pending < 0 {
				return lineStart, nil
			}
			return pending, nil
		default:
			if err := p.parseAssignment(table); err != nil {
				return 0, err
			}
			pending = -1
		}
	}
}

// openTable returns the table that assignments under h write into.
// Repeating a server's own header replaces its earlier definition.
func (p *parser) openTable(h header) *ordered.Map {
	id := h.keys[1]
	explicit := len(h.keys) == 2

	var server *ordered.Map
	if v, ok := p.doc.servers.Get(id); ok && !(explicit && p.defined[id]) {
		server, _ = v.(*ordered.Map)
	}
	if server == nil {
		server = ordered.New()
		p.doc.servers.Set(id, server)
	}
	if explicit {
		p.defined[id] = true
	}
	return subtable(server, h.keys[2:])
}

// parseAssignment reads one "key = value" line into table.
func (p *parser) parseAssignment(table *ordered.Map) error {
	start := p.s.pos
	keys, err := p.parseKeyPath()
	if err != nil {
		return err
	}
	p.s.skipSpace()
	if p.s.peek() != '=' {
		return p.errorf(start, "expected '=' after key %q", strings.Join(keys, "."))
	}
	p.s.next()
	p.s.skipSpace()

	value, err := p.parseValue()
	if err != nil {
		return err
	}

	p.s.skipSpace()
	if p.s.peek() == '#' {
		p.s.skipComment()
	}
	if !p.s.atLineEnd() {
		return p.errorf(start, "unexpected content after value")
	}
	p.s.skipLine()

	setPath(table, keys, value)
	return nil
}

// subtable walks keys below m, creating tables as needed.
func subtable(m *ordered.Map, keys []string) *ordered.Map {
	for _, k := range keys {
		child, ok := m.Get(k)
		next, isMap := child.(*ordered.Map)
		if !ok || !isMap {
			next = ordered.New()
			m.Set(k, next)
		}
		m = next
	}
	return m
}

// setPath stores value under a dotted key path.
func setPath(m *ordered.Map, keys []string, value any) {
	subtable(m, keys[:len(keys)-1]).Set(keys[len(keys)-1], value)
}

// errorf returns a ParseError quoting the line that contains offset from.
func (p *parser) errorf(from int, format string, args ...any) error {
	return &mcp.ParseError{
		Tool:     Tool,
		Fragment: truncate(strings.TrimSpace(p.s.lineAt(from)), 60),
		Err:      errors.Newf("line %d: %s", p.lineOf(from), fmt.Sprintf(format, args...)),
	}
}

func (p *parser) lineOf(offset int) int {
	line := 1
	for i := 0; i < offset && i < len(p.s.src); i++ {
		if p.s.src[i] == '\n' {
			line++
		}
	}
	return line
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
