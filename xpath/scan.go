package xpath

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Position struct {
	Line   int
	Column int
}

// Scanner splits an expression into the lexemes expected by the
// compilers: names, quoted literals (quotes included), numbers, "::", ".",
// ".." and single character delimiters. "//" and "!=" are given as two
// tokens.
type Scanner struct {
	input *bufio.Reader
	char  rune
	str   bytes.Buffer

	eof     bool
	invalid bool

	Position
	old Position
}

func Scan(r io.Reader) *Scanner {
	scan := &Scanner{
		input: bufio.NewReader(r),
	}
	scan.Line = 1
	scan.read()
	return scan
}

// Tokenize fills a token queue with all the lexemes of expr.
func Tokenize(expr string) (*TokenQueue, error) {
	var (
		scan  = Scan(strings.NewReader(expr))
		queue TokenQueue
	)
	for {
		tok, err := scan.Scan()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		queue.Push(tok)
	}
	return &queue, nil
}

func (s *Scanner) Scan() (Token, error) {
	var tok Token
	s.skipBlank()
	if s.invalid {
		tok.Position = s.Position
		err := SyntaxError{
			Code:     CodeGenericError,
			Cause:    fmt.Sprintf("%s: invalid UTF-8 encoding", ErrToken),
			Err:      ErrToken,
			Position: s.Position,
		}
		return tok, &err
	}
	if s.done() {
		tok.Position = s.Position
		return tok, io.EOF
	}
	s.str.Reset()
	tok.Position = s.Position

	switch {
	case s.char == apos || s.char == quote:
		s.scanLiteral(&tok)
	case unicode.IsDigit(s.char) || (s.char == dot && isDigit(s.peek())):
		s.scanNumber(&tok)
	case s.char == dot:
		s.scanDot(&tok)
	case s.char == colon:
		s.scanColon(&tok)
	case isDelimiter(s.char):
		s.write()
		s.read()
		tok.Text = s.str.String()
	case unicode.IsLetter(s.char) || s.char == underscore:
		s.scanIdent(&tok)
	default:
		err := SyntaxError{
			Code:     CodeGenericError,
			Cause:    fmt.Sprintf("%s: %q", ErrToken, s.char),
			Err:      ErrToken,
			Position: s.Position,
		}
		return tok, &err
	}
	return tok, nil
}

func (s *Scanner) scanLiteral(tok *Token) {
	quote := s.char
	s.write()
	s.read()
	for !s.done() && s.char != quote {
		s.write()
		s.read()
	}
	if s.char == quote {
		s.write()
		s.read()
	}
	tok.Text = s.str.String()
}

func (s *Scanner) scanNumber(tok *Token) {
	for !s.done() && (isDigit(s.char) || s.char == dot) {
		s.write()
		s.read()
	}
	tok.Text = s.str.String()
}

func (s *Scanner) scanDot(tok *Token) {
	s.write()
	s.read()
	if s.char == dot {
		s.write()
		s.read()
	}
	tok.Text = s.str.String()
}

func (s *Scanner) scanColon(tok *Token) {
	s.write()
	s.read()
	if s.char == colon {
		s.write()
		s.read()
	}
	tok.Text = s.str.String()
}

func (s *Scanner) scanIdent(tok *Token) {
	accept := func() bool {
		return unicode.IsLetter(s.char) || unicode.IsDigit(s.char) ||
			s.char == dash || s.char == underscore || s.char == dot
	}
	for !s.done() && accept() {
		s.write()
		s.read()
	}
	tok.Text = s.str.String()
}

func (s *Scanner) skipBlank() {
	for !s.done() && unicode.IsSpace(s.char) {
		s.read()
	}
}

func (s *Scanner) write() {
	s.str.WriteRune(s.char)
}

func (s *Scanner) read() {
	s.old = s.Position
	if s.char == '\n' {
		s.Column = 0
		s.Line++
	}
	s.Column++
	c, size, err := s.input.ReadRune()
	if err != nil {
		s.char = 0
		s.eof = true
		return
	}
	s.char = c
	s.invalid = c == utf8.RuneError && size == 1
}

func (s *Scanner) peek() rune {
	defer s.input.UnreadRune()
	c, _, _ := s.input.ReadRune()
	return c
}

func (s *Scanner) done() bool {
	return s.eof || s.invalid
}

const (
	langle     = '<'
	rangle     = '>'
	lsquare    = '['
	rsquare    = ']'
	lparen     = '('
	rparen     = ')'
	colon      = ':'
	quote      = '"'
	apos       = '\''
	slash      = '/'
	bang       = '!'
	equal      = '='
	dash       = '-'
	underscore = '_'
	dot        = '.'
	arobase    = '@'
	comma      = ','
	plus       = '+'
	star       = '*'
	pipe       = '|'
	dollar     = '$'
)

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isDelimiter(c rune) bool {
	switch c {
	case slash, lparen, rparen, lsquare, rsquare, arobase, comma, pipe:
		return true
	case plus, dash, star, equal, bang, langle, rangle, dollar:
		return true
	default:
		return false
	}
}
