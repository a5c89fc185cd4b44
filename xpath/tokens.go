package xpath

import (
	"strings"
)

// Token is a lexeme of an expression. Value is set by the compiler once
// a literal or a number has been converted, or once the prefix of a
// namespace node test has been resolved.
type Token struct {
	Text  string
	Value Value
	Position
}

func (t Token) String() string {
	if t.Value != nil {
		return t.Value.String()
	}
	return t.Text
}

func (t Token) Is(c byte) bool {
	return len(t.Text) == 1 && t.Text[0] == c
}

type TokenQueue struct {
	tokens []Token
}

func NewTokenQueue(tokens ...Token) *TokenQueue {
	return &TokenQueue{
		tokens: tokens,
	}
}

// QueueStrings builds a queue from already split lexemes.
func QueueStrings(lexemes ...string) *TokenQueue {
	var q TokenQueue
	for i := range lexemes {
		q.Push(Token{Text: lexemes[i]})
	}
	return &q
}

func (q *TokenQueue) Push(tok Token) {
	q.tokens = append(q.tokens, tok)
}

func (q *TokenQueue) Len() int {
	return len(q.tokens)
}

func (q *TokenQueue) At(i int) (Token, bool) {
	if i < 0 || i >= len(q.tokens) {
		return Token{}, false
	}
	return q.tokens[i], true
}

func (q *TokenQueue) Text(i int) string {
	tok, _ := q.At(i)
	return tok.Text
}

// Value returns the converted value of the token at i, or its raw text
// when it was never converted.
func (q *TokenQueue) Value(i int) Value {
	tok, ok := q.At(i)
	if !ok {
		return nil
	}
	if tok.Value != nil {
		return tok.Value
	}
	return String(tok.Text)
}

func (q *TokenQueue) Replace(i int, v Value) {
	if i < 0 || i >= len(q.tokens) {
		return
	}
	q.tokens[i].Value = v
}

func (q *TokenQueue) Tokens() []Token {
	return q.tokens
}

func (q *TokenQueue) String() string {
	var str strings.Builder
	for i := range q.tokens {
		if i > 0 {
			str.WriteString(" ")
		}
		str.WriteString(q.tokens[i].Text)
	}
	return str.String()
}
