package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Separators are the runes that terminate an identifier, besides
// whitespace and control characters.
const Separators = `()<>@,;:\"/[]={}`

// eof is returned by the scanner at the end of input.
const eof rune = -1

// IsSeparator reports whether r belongs to the fixed separator set.
// Space and tab are separators too.
func IsSeparator(r rune) bool {
	return r == ' ' || r == '\t' || strings.ContainsRune(Separators, r)
}

// IsControl reports whether r is a control character. Newlines are
// control characters, so identifiers never span lines.
func IsControl(r rune) bool {
	return unicode.IsControl(r)
}

// IsIdentRune reports whether r may appear inside an identifier.
// Dots are allowed, so schema-qualified names like SCHEMA.TYPE are
// single identifiers.
func IsIdentRune(r rune) bool {
	return r != eof && r != utf8.RuneError && !IsSeparator(r) && !IsControl(r)
}

// IsIdentStart reports whether r may start an identifier.
func IsIdentStart(r rune) bool {
	return unicode.IsLetter(r)
}

// Quote returns s as a quoted string literal of the grammar.
// Backslashes and double quotes are escaped with a backslash.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// Unquote decodes a quoted string literal. A backslash escapes the
// character that follows it, whatever it is.
func Unquote(s string) (string, error) {
	sc := newScanner(s)
	v, err := sc.qstring()
	if err != nil {
		return "", err
	}
	if !sc.eof() {
		return "", sc.errorf("end of string")
	}
	return v, nil
}

// mark is a saved scanner position.
type mark struct {
	pos, line, col int
}

// scanner walks a document rune by rune and tracks line and column
// (both 1-based) for error reporting.
type scanner struct {
	src string
	mark
}

func newScanner(src string) *scanner {
	return &scanner{src: src, mark: mark{line: 1, col: 1}}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

// save returns the current position.
func (s *scanner) save() mark { return s.mark }

// restore rewinds the scanner to m.
func (s *scanner) restore(m mark) { s.mark = m }

// peek returns the next rune without consuming it.
func (s *scanner) peek() rune {
	if s.eof() {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return r
}

// next consumes and returns the next rune.
func (s *scanner) next() rune {
	if s.eof() {
		return eof
	}
	r, w := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += w
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

// skipInline skips spaces and tabs, never newlines.
func (s *scanner) skipInline() {
	for r := s.peek(); r == ' ' || r == '\t'; r = s.peek() {
		s.next()
	}
}

// skipSpace skips all whitespace including newlines.
func (s *scanner) skipSpace() {
	for r := s.peek(); r != eof && unicode.IsSpace(r); r = s.peek() {
		s.next()
	}
}

// ident scans an identifier: a letter followed by identifier runes.
func (s *scanner) ident() (string, bool) {
	if !IsIdentStart(s.peek()) {
		return "", false
	}
	start := s.pos
	for IsIdentRune(s.peek()) {
		s.next()
	}
	return s.src[start:s.pos], true
}

// keyword consumes kw if it is next in the input and is not immediately
// followed by another identifier rune. Matching is case-insensitive
// unless strict is set.
func (s *scanner) keyword(kw string, strict bool) bool {
	if len(s.src)-s.pos < len(kw) {
		return false
	}
	word := s.src[s.pos : s.pos+len(kw)]
	if strict && word != kw || !strict && !strings.EqualFold(word, kw) {
		return false
	}
	m := s.save()
	for range kw {
		s.next()
	}
	if IsIdentRune(s.peek()) {
		s.restore(m)
		return false
	}
	return true
}

// char consumes r if it is next in the input.
func (s *scanner) char(r rune) bool {
	if s.peek() != r {
		return false
	}
	s.next()
	return true
}

// qstring scans a double-quoted string and returns its decoded value.
func (s *scanner) qstring() (string, error) {
	if !s.char('"') {
		return "", s.errorf("quoted string")
	}
	start := s.save()
	var b strings.Builder
	for {
		switch r := s.next(); r {
		case eof:
			err := s.errorf("closing quote")
			err.Line, err.Column = start.line, start.col-1
			err.Message = "unterminated quoted string"
			return "", err
		case '"':
			return b.String(), nil
		case '\\':
			esc := s.next()
			if esc == eof {
				continue
			}
			b.WriteRune(esc)
		default:
			b.WriteRune(r)
		}
	}
}

// found describes the input at the current position for error messages.
func (s *scanner) found() string {
	switch r := s.peek(); {
	case r == eof:
		return "end of input"
	case r == '\n':
		return "newline"
	case IsIdentStart(r):
		m := s.save()
		id, _ := s.ident()
		s.restore(m)
		return quoteFound(id)
	default:
		return quoteFound(string(r))
	}
}

func quoteFound(s string) string {
	return `"` + s + `"`
}

// errorf returns a syntax error at the current position.
func (s *scanner) errorf(expected string) *Error {
	return &Error{
		Line:     s.line,
		Column:   s.col,
		Expected: expected,
		Found:    s.found(),
	}
}
