package main

import (
	"bytes"
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/midbel/xpc/xpath"
)

func TestSplitBinding(t *testing.T) {
	tests := []struct {
		Input string
		Name  string
		Value string
		Err   error
	}{
		{Input: "xsl=http://www.w3.org/1999/XSL/Transform", Name: "xsl", Value: "http://www.w3.org/1999/XSL/Transform"},
		{Input: "x=", Name: "x"},
		{Input: "a=b=c", Name: "a", Value: "b=c"},
		{Input: "novalue", Err: errBinding},
		{Input: "=uri", Err: errBinding},
	}
	for _, tt := range tests {
		name, value, err := splitBinding(tt.Input)
		if !errors.Is(err, tt.Err) {
			t.Errorf("%s: error mismatched! want %v, got %v", tt.Input, tt.Err, err)
			continue
		}
		if name != tt.Name || value != tt.Value {
			t.Errorf("%s: binding mismatched! got %s=%s", tt.Input, name, value)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		Input string
		Want  xpath.Value
	}{
		{Input: "42", Want: xpath.Number(42)},
		{Input: "-1.5", Want: xpath.Number(-1.5)},
		{Input: "foo", Want: xpath.String("foo")},
		{Input: "true()", Want: xpath.Boolean(true)},
		{Input: "false()", Want: xpath.Boolean(false)},
	}
	for _, tt := range tests {
		if got := parseValue(tt.Input); got != tt.Want {
			t.Errorf("%s: value mismatched! want %v, got %v", tt.Input, tt.Want, got)
		}
	}
}

func TestParseResultType(t *testing.T) {
	for str, want := range map[string]xpath.ValueType{
		"":        xpath.TypeAny,
		"string":  xpath.TypeString,
		"number":  xpath.TypeNumber,
		"boolean": xpath.TypeBoolean,
		"bool":    xpath.TypeBoolean,
	} {
		got, err := parseResultType(str)
		if err != nil || got != want {
			t.Errorf("%s: type mismatched! want %s, got %s (%v)", str, want, got, err)
		}
	}
	if _, err := parseResultType("node-set"); err == nil {
		t.Errorf("node-set should be rejected")
	}
}

func TestRenderProgram(t *testing.T) {
	prog, err := xpath.Compile("count(//item) + 1")
	if err != nil {
		t.Fatalf("fail to compile expression: %s", err)
	}
	var (
		plain    = prog.String()
		rendered = renderProgram(prog)
	)
	if got, want := strings.Count(rendered, "\n"), strings.Count(plain, "\n"); got != want {
		t.Errorf("line count mismatched! want %d, got %d", want, got)
	}
	for _, str := range []string{"OP_PLUS", "count()", "FROM_DESCENDANTS_OR_SELF"} {
		if !strings.Contains(rendered, str) {
			t.Errorf("rendered program should contain %s", str)
		}
	}
}

func TestCompilerOptions(t *testing.T) {
	var opts CompilerOptions
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	opts.Register(set)
	if err := set.Parse([]string{"-ns", "x=urn:x", "-max-depth", "2", "namespace::x"}); err != nil {
		t.Fatalf("fail to parse flags: %s", err)
	}
	cp := xpath.NewCompiler(opts.Options()...)
	prog, err := cp.Compile(set.Arg(0))
	if err != nil {
		t.Fatalf("fail to compile expression: %s", err)
	}
	step := prog.Children(2)[0]
	if v := prog.Value(prog.StepLocalName(step)); v != xpath.String("urn:x") {
		t.Errorf("namespace not resolved: %v", v)
	}
	if _, err := cp.Compile("(((1)))"); !errors.Is(err, xpath.ErrLimit) {
		t.Errorf("expected limit error, got %v", err)
	}
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		Expr string
		Want []string
	}{
		{Expr: "1 + #", Want: []string{"  1 + #", "      ^"}},
		{Expr: "1 +\n  count(", Want: []string{"    count(", "         ^"}},
	}
	for _, tt := range tests {
		_, err := xpath.Compile(tt.Expr)
		if err == nil {
			t.Errorf("%q: expected error but compilation succeeded", tt.Expr)
			continue
		}
		var buf bytes.Buffer
		printError(&buf, err)
		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		if len(lines) < 3 {
			t.Errorf("%q: marker missing! got %q", tt.Expr, lines)
			continue
		}
		lines = lines[len(lines)-2:]
		if lines[0] != tt.Want[0] || lines[1] != tt.Want[1] {
			t.Errorf("%q: marker mismatched!\nwant: %q\ngot:  %q", tt.Expr, tt.Want, lines)
		}
	}

	var buf bytes.Buffer
	printError(&buf, errBinding)
	if got := buf.String(); got != errBinding.Error()+"\n" {
		t.Errorf("plain error mismatched! got %q", got)
	}
}
