package parser

import (
	"math"
	"strconv"
	"strings"
)

// scanner walks a survey document with two delimiter modes:
//   - token mode skips whitespace and inline "#" comments between short tokens
//   - line mode skips blank and full-line "#" comment lines to reach a free-text line
//
// Typed reads (tryInt, tryFloat) consume only on success, and mark/reset lets the
// grammar look ahead across several tokens without committing.
type scanner struct {
	src string
	pos int
}

func newScanner(src string) *scanner {
	// Normalize line endings so "\r" never leaks into text fields
	src = strings.ReplaceAll(src, "\r\n", "\n")
	return &scanner{src: src}
}

func (s *scanner) mark() int      { return s.pos }
func (s *scanner) reset(mark int) { s.pos = mark }

// line returns the 1-based line number of the current position
func (s *scanner) line() int {
	return strings.Count(s.src[:s.pos], "\n") + 1
}

func (s *scanner) atLineStart() bool {
	return s.pos == 0 || s.src[s.pos-1] == '\n'
}

// skipSpace consumes whitespace and inline comments
func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch c := s.src[s.pos]; {
		case c == '#':
			if i := strings.IndexByte(s.src[s.pos:], '\n'); i >= 0 {
				s.pos += i + 1
			} else {
				s.pos = len(s.src)
			}
		case isSpace(c):
			s.pos++
		default:
			return
		}
	}
}

// next consumes and returns the next whitespace-delimited token.
// ok is false at end of input.
func (s *scanner) next() (string, bool) {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.src) && !isSpace(s.src[s.pos]) && s.src[s.pos] != '#' {
		s.pos++
	}
	if start == s.pos {
		return "", false
	}
	return s.src[start:s.pos], true
}

// startsLine reports whether the next token is the first on its line
func (s *scanner) startsLine() bool {
	m := s.mark()
	s.skipSpace()
	i := s.pos
	s.reset(m)
	for i > 0 && (s.src[i-1] == ' ' || s.src[i-1] == '\t') {
		i--
	}
	return i == 0 || s.src[i-1] == '\n'
}

// peek returns the next token without consuming it
func (s *scanner) peek() (string, bool) {
	m := s.mark()
	tok, ok := s.next()
	s.reset(m)
	return tok, ok
}

// tryInt consumes the next token only if it parses as an integer
func (s *scanner) tryInt() (int, bool) {
	m := s.mark()
	tok, ok := s.next()
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		s.reset(m)
		return 0, false
	}
	return v, true
}

// tryFloat consumes the next token only if it parses as a finite float
func (s *scanner) tryFloat() (float64, bool) {
	m := s.mark()
	tok, ok := s.next()
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		s.reset(m)
		return 0, false
	}
	return v, true
}

// skipLine consumes the remainder of the current line including its newline.
// It does nothing when already positioned at the start of a line.
func (s *scanner) skipLine() {
	if s.atLineStart() {
		return
	}
	if i := strings.IndexByte(s.src[s.pos:], '\n'); i >= 0 {
		s.pos += i + 1
	} else {
		s.pos = len(s.src)
	}
}

// readLine skips blank and comment lines, then consumes and returns the next
// line trimmed of surrounding whitespace. ok is false at end of input.
func (s *scanner) readLine() (string, bool) {
	for s.pos < len(s.src) {
		end := strings.IndexByte(s.src[s.pos:], '\n')
		var raw string
		next := len(s.src)
		if end >= 0 {
			raw = s.src[s.pos : s.pos+end]
			next = s.pos + end + 1
		} else {
			raw = s.src[s.pos:]
		}
		s.pos = next

		text := strings.TrimSpace(raw)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		return text, true
	}
	return "", false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
