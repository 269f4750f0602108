package codex

const eof rune = -1

// scanner walks TOML source one rune at a time with arbitrary lookahead.
type scanner struct {
	src []rune
	pos int
}

func newScanner(src string) *scanner {
	return &scanner{src: []rune(src)}
}

func (s *scanner) peek() rune {
	return s.peekAt(0)
}

func (s *scanner) peekAt(n int) rune {
	if s.pos+n >= len(s.src) {
		return eof
	}
	return s.src[s.pos+n]
}

func (s *scanner) next() rune {
	r := s.peek()
	if r == eof {
		return eof
	}
	s.pos++
	return r
}

// text returns the source between two rune offsets.
func (s *scanner) text(from, to int) string {
	if to > len(s.src) {
		to = len(s.src)
	}
	if from >= to {
		return ""
	}
	return string(s.src[from:to])
}

// skipSpace consumes spaces and tabs.
func (s *scanner) skipSpace() {
	for r := s.peek(); r == ' ' || r == '\t'; r = s.peek() {
		s.next()
	}
}

// skipTrivia consumes whitespace, newlines and comments.
func (s *scanner) skipTrivia() {
	for {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.next()
		case '#':
			s.skipComment()
		default:
			return
		}
	}
}

// skipComment consumes a comment up to, but not including, the line break.
func (s *scanner) skipComment() {
	for r := s.peek(); r != eof && r != '\n'; r = s.peek() {
		s.next()
	}
}

// skipLine consumes the rest of the current line including its break.
func (s *scanner) skipLine() {
	for {
		r := s.next()
		if r == eof || r == '\n' {
			return
		}
	}
}

// atLineEnd reports whether only a line break or end of input follows.
func (s *scanner) atLineEnd() bool {
	switch s.peek() {
	case eof, '\n':
		return true
	case '\r':
		return s.peekAt(1) == '\n' || s.peekAt(1) == eof
	}
	return false
}

// lineAt returns the full line containing offset.
func (s *scanner) lineAt(offset int) string {
	start := offset
	for start > 0 && s.src[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(s.src) && s.src[end] != '\n' && s.src[end] != '\r' {
		end++
	}
	return s.text(start, end)
}
