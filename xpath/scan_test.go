package xpath

import (
	"errors"
	"slices"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		Expr string
		Want []string
	}{
		{
			Expr: "//item",
			Want: []string{"/", "/", "item"},
		},
		{
			Expr: "child::ns:item[@id != 'a b']",
			Want: []string{"child", "::", "ns", ":", "item", "[", "@", "id", "!", "=", "'a b'", "]"},
		},
		{
			Expr: "../.",
			Want: []string{"..", "/", "."},
		},
		{
			Expr: "1.5+.5 - 3.",
			Want: []string{"1.5", "+", ".5", "-", "3."},
		},
		{
			Expr: "1.2.3",
			Want: []string{"1.2.3"},
		},
		{
			Expr: "$foo-bar.baz <= count(x_y)",
			Want: []string{"$", "foo-bar.baz", "<", "=", "count", "(", "x_y", ")"},
		},
		{
			Expr: "\"it's\" | 'say \"hi\"'",
			Want: []string{"\"it's\"", "|", "'say \"hi\"'"},
		},
		{
			Expr: "'unterminated",
			Want: []string{"'unterminated"},
		},
		{
			Expr: "concat(a,b)*2",
			Want: []string{"concat", "(", "a", ",", "b", ")", "*", "2"},
		},
		{
			Expr: "processing-instruction()",
			Want: []string{"processing-instruction", "(", ")"},
		},
		{
			Expr: "concat('a\uFFFDb', 'héllo')",
			Want: []string{"concat", "(", "'a\uFFFDb'", ",", "'héllo'", ")"},
		},
		{
			Expr: "  ",
		},
	}
	for _, tt := range tests {
		queue, err := Tokenize(tt.Expr)
		if err != nil {
			t.Errorf("%s: fail to tokenize: %s", tt.Expr, err)
			continue
		}
		var got []string
		for _, tok := range queue.Tokens() {
			got = append(got, tok.Text)
		}
		if !slices.Equal(got, tt.Want) {
			t.Errorf("%s: tokens mismatched!\nwant: %q\ngot:  %q", tt.Expr, tt.Want, got)
		}
	}
}

func TestTokenizePosition(t *testing.T) {
	queue, err := Tokenize("a +\n  'b'")
	if err != nil {
		t.Fatalf("fail to tokenize: %s", err)
	}
	want := []Position{
		{Line: 1, Column: 1},
		{Line: 1, Column: 3},
		{Line: 2, Column: 3},
	}
	for i, tok := range queue.Tokens() {
		if tok.Position != want[i] {
			t.Errorf("%s: position mismatched! want %v, got %v", tok.Text, want[i], tok.Position)
		}
	}
}

func TestTokenizeError(t *testing.T) {
	for _, str := range []string{"1 # 2", "a;b", "{x}", "a%b"} {
		_, err := Tokenize(str)
		if !errors.Is(err, ErrToken) {
			t.Errorf("%s: expected invalid character, got %v", str, err)
		}
		var serr *SyntaxError
		if !errors.As(err, &serr) || serr.Column == 0 {
			t.Errorf("%s: expected syntax error with position, got %v", str, err)
		}
	}
}

func TestTokenizeInvalidEncoding(t *testing.T) {
	tests := []struct {
		Expr   string
		Column int
	}{
		{Expr: "1 + 2 \xff + 3", Column: 7},
		{Expr: "'a\xffb'", Column: 3},
		{Expr: "foo\xc3", Column: 4},
	}
	for _, tt := range tests {
		_, err := Tokenize(tt.Expr)
		if !errors.Is(err, ErrToken) {
			t.Errorf("%q: expected invalid encoding, got %v", tt.Expr, err)
			continue
		}
		var serr *SyntaxError
		if !errors.As(err, &serr) || serr.Column != tt.Column {
			t.Errorf("%q: column mismatched! want %d, got %v", tt.Expr, tt.Column, err)
		}
	}
}

func TestTokenQueue(t *testing.T) {
	queue := QueueStrings("count", "(", "'a'", ")")
	if n := queue.Len(); n != 4 {
		t.Fatalf("length mismatched! want 4, got %d", n)
	}
	if str := queue.String(); str != "count ( 'a' )" {
		t.Errorf("string mismatched! got %s", str)
	}
	if v := queue.Value(0); v != String("count") {
		t.Errorf("raw value mismatched! got %v", v)
	}
	queue.Replace(2, String("a"))
	if v := queue.Value(2); v != String("a") {
		t.Errorf("replaced value mismatched! got %v", v)
	}
	if txt := queue.Text(2); txt != "'a'" {
		t.Errorf("replace should keep the raw text, got %s", txt)
	}
	if _, ok := queue.At(4); ok {
		t.Errorf("token out of range should not be found")
	}
	if v := queue.Value(-1); v != nil {
		t.Errorf("value out of range should be nil, got %v", v)
	}
}
