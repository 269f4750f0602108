package codex

import (
	"math"
	"strconv"
	"strings"

	"github.com/thoreinstein/syncmcp/pkg/ordered"
)

// parseKeyPath reads a possibly dotted key such as env.HOME or "my.server".
func (p *parser) parseKeyPath() ([]string, error) {
	var keys []string
	for {
		k, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)

		m := p.s.pos
		p.s.skipSpace()
		if p.s.peek() != '.' {
			p.s.pos = m
			return keys, nil
		}
		p.s.next()
		p.s.skipSpace()
	}
}

func (p *parser) parseKey() (string, error) {
	switch p.s.peek() {
	case '"':
		return p.parseBasicString()
	case '\'':
		return p.parseLiteralString()
	}

	start := p.s.pos
	for isBareKeyRune(p.s.peek()) {
		p.s.next()
	}
	if p.s.pos == start {
		return "", p.errorf(start, "expected a key")
	}
	return p.s.text(start, p.s.pos), nil
}

func isBareKeyRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-'
}

// parseValue reads one value, classified by its leading character.
func (p *parser) parseValue() (any, error) {
	switch p.s.peek() {
	case '"':
		return p.parseBasicString()
	case '\'':
		return p.parseLiteralString()
	case '[':
		return p.parseArray()
	case '{':
		return p.parseInlineTable()
	case eof, '\r', '\n', '#':
		return nil, p.errorf(p.s.pos, "missing value")
	default:
		return p.parseScalar()
	}
}

func (p *parser) parseBasicString() (string, error) {
	start := p.s.pos
	p.s.next() // "

	var b strings.Builder
	for {
		r := p.s.next()
		switch r {
		case eof, '\n':
			return "", p.errorf(start, "unterminated string")
		case '"':
			return b.String(), nil
		case '\\':
			if err := p.parseEscape(&b, start); err != nil {
				return "", err
			}
		default:
			b.WriteRune(r)
		}
	}
}

func (p *parser) parseEscape(b *strings.Builder, start int) error {
	switch r := p.s.next(); r {
	case 'b':
		b.WriteByte('\b')
	case 't':
		b.WriteByte('\t')
	case 'n':
		b.WriteByte('\n')
	case 'f':
		b.WriteByte('\f')
	case 'r':
		b.WriteByte('\r')
	case '"', '\\':
		b.WriteRune(r)
	case 'u', 'U':
		n := 4
		if r == 'U' {
			n = 8
		}
		var hex strings.Builder
		for range n {
			hex.WriteRune(p.s.next())
		}
		code, err := strconv.ParseUint(hex.String(), 16, 32)
		if err != nil {
			return p.errorf(start, "invalid unicode escape \\%c%s", r, hex.String())
		}
		b.WriteRune(rune(code))
	default:
		return p.errorf(start, "invalid escape sequence \\%c", r)
	}
	return nil
}

func (p *parser) parseLiteralString() (string, error) {
	start := p.s.pos
	p.s.next() // '
	for {
		switch p.s.peek() {
		case eof, '\n':
			return "", p.errorf(start, "unterminated string")
		case '\'':
			s := p.s.text(start+1, p.s.pos)
			p.s.next()
			return s, nil
		}
		p.s.next()
	}
}

// parseArray reads a bracketed list that may span lines and carry
// comments and a trailing comma.
func (p *parser) parseArray() ([]any, error) {
	start := p.s.pos
	p.s.next() // [

	items := []any{}
	for {
		p.s.skipTrivia()
		switch p.s.peek() {
		case ']':
			p.s.next()
			return items, nil
		case eof:
			return nil, p.errorf(start, "unterminated array")
		}

		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		p.s.skipTrivia()
		switch p.s.next() {
		case ',':
		case ']':
			return items, nil
		case eof:
			return nil, p.errorf(start, "unterminated array")
		default:
			return nil, p.errorf(start, "expected ',' or ']' in array")
		}
	}
}

// parseInlineTable reads a braced table. Line breaks and a trailing comma
// are accepted.
func (p *parser) parseInlineTable() (*ordered.Map, error) {
	start := p.s.pos
	p.s.next() // {

	m := ordered.New()
	for {
		p.s.skipTrivia()
		switch p.s.peek() {
		case '}':
			p.s.next()
			return m, nil
		case eof:
			return nil, p.errorf(start, "unterminated inline table")
		}

		keys, err := p.parseKeyPath()
		if err != nil {
			return nil, err
		}
		p.s.skipSpace()
		if p.s.next() != '=' {
			return nil, p.errorf(start, "expected '=' in inline table")
		}
		p.s.skipSpace()
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		setPath(m, keys, v)

		p.s.skipTrivia()
		switch p.s.next() {
		case ',':
		case '}':
			return m, nil
		case eof:
			return nil, p.errorf(start, "unterminated inline table")
		default:
			return nil, p.errorf(start, "expected ',' or '}' in inline table")
		}
	}
}

// parseScalar reads a bare boolean or number.
func (p *parser) parseScalar() (any, error) {
	start := p.s.pos
	for !isValueEnd(p.s.peek()) {
		p.s.next()
	}
	tok := p.s.text(start, p.s.pos)

	switch tok {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	v, ok := parseNumber(tok)
	if !ok {
		return nil, p.errorf(start, "invalid value %q", tok)
	}
	return v, nil
}

func isValueEnd(r rune) bool {
	switch r {
	case eof, ' ', '\t', '\r', '\n', ',', ']', '}', '#':
		return true
	}
	return false
}

// parseNumber converts a TOML number. Underscore separators are ignored;
// a decimal point or exponent makes it a float64, otherwise an int64.
func parseNumber(tok string) (any, bool) {
	clean := strings.ReplaceAll(tok, "_", "")
	switch clean {
	case "inf", "+inf":
		return math.Inf(1), true
	case "-inf":
		return math.Inf(-1), true
	case "nan", "+nan", "-nan":
		return math.NaN(), true
	}

	unsigned := strings.TrimLeft(clean, "+-")
	if len(unsigned) > 2 && unsigned[0] == '0' && strings.ContainsRune("xob", rune(unsigned[1])) {
		i, err := strconv.ParseInt(clean, 0, 64)
		return i, err == nil
	}
	if strings.ContainsAny(clean, ".eE") {
		f, err := strconv.ParseFloat(clean, 64)
		return f, err == nil
	}
	i, err := strconv.ParseInt(clean, 10, 64)
	return i, err == nil
}
