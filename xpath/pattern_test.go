package xpath

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompilePattern(t *testing.T) {
	tests := []string{
		"/",
		"*",
		"item",
		"/root/item",
		"//item",
		"root//item",
		"item[1]",
		"item[@id = 'foo']//name",
		"@id",
		"@*",
		"attribute::lang",
		"child::item/@id",
		"text()",
		"comment()",
		"node()",
		"processing-instruction('xml-stylesheet')",
		"ns:item",
		"ns:*",
		"id('foo')",
		"id('foo')/item",
		"id('foo')//item",
		"key('idx', 'foo')//item",
		"item | @id | /",
	}
	for _, str := range tests {
		prog, err := CompilePattern(str)
		if err != nil {
			t.Errorf("%s: fail to compile pattern: %s", str, err)
			continue
		}
		if err := prog.Validate(); err != nil {
			t.Errorf("%s: invalid operation map: %s", str, err)
		}
		if prog.Kind() != OpMatchPattern {
			t.Errorf("%s: unexpected kind %s", str, OpName(prog.Kind()))
		}
		if last := prog.Op(prog.Len() - 1); last != EndOp {
			t.Errorf("%s: pattern not terminated: %s", str, OpName(last))
		}
	}
}

func TestCompilePatternOpMap(t *testing.T) {
	tests := []struct {
		Expr string
		Want []int32
	}{
		{
			Expr: "/",
			Want: []int32{
				OpMatchPattern, 10,
				OpLocationPathPattern, 7,
				FromRoot, 4, 4, NodeTypeRoot,
				EndOp,
				EndOp,
			},
		},
		{
			Expr: "/a",
			Want: []int32{
				OpMatchPattern, 16,
				OpLocationPathPattern, 13,
				FromRoot, 4, 4, NodeTypeRoot,
				MatchImmediateAncestor, 6, 6, NodeName, Empty, 1,
				EndOp,
				EndOp,
			},
		},
		{
			Expr: "//a",
			Want: []int32{
				OpMatchPattern, 16,
				OpLocationPathPattern, 13,
				MatchAnyAncestor, 4, 4, NodeTypeRoot,
				MatchAnyAncestor, 6, 6, NodeName, Empty, 2,
				EndOp,
				EndOp,
			},
		},
		{
			Expr: "a//b",
			Want: []int32{
				OpMatchPattern, 18,
				OpLocationPathPattern, 15,
				MatchAnyAncestor, 6, 6, NodeName, Empty, 0,
				MatchImmediateAncestor, 6, 6, NodeName, Empty, 3,
				EndOp,
				EndOp,
			},
		},
	}
	for _, tt := range tests {
		prog, err := CompilePattern(tt.Expr)
		require.NoError(t, err, tt.Expr)
		require.Equal(t, tt.Want, prog.Ops(), tt.Expr)
		require.NoError(t, prog.Validate(), tt.Expr)
	}
}

func TestCompilePatternSteps(t *testing.T) {
	tests := []struct {
		Expr  string
		Steps []Opcode
	}{
		{
			Expr:  "a",
			Steps: []Opcode{MatchImmediateAncestor},
		},
		{
			Expr:  "a/b",
			Steps: []Opcode{MatchImmediateAncestor, MatchImmediateAncestor},
		},
		{
			Expr:  "a[1]//b",
			Steps: []Opcode{MatchAnyAncestor, MatchImmediateAncestor},
		},
		{
			Expr:  "@id",
			Steps: []Opcode{MatchAttribute},
		},
		{
			Expr:  "attribute::id",
			Steps: []Opcode{MatchAttribute},
		},
		{
			Expr:  "child::a/@b",
			Steps: []Opcode{MatchImmediateAncestor, MatchAttribute},
		},
		{
			Expr:  "id('x')/a",
			Steps: []Opcode{OpFunction, MatchImmediateAncestor},
		},
		{
			Expr:  "id('x')//a",
			Steps: []Opcode{OpFunction, MatchAnyAncestor, MatchImmediateAncestor},
		},
	}
	for _, tt := range tests {
		prog, err := CompilePattern(tt.Expr)
		if err != nil {
			t.Errorf("%s: fail to compile pattern: %s", tt.Expr, err)
			continue
		}
		var got []Opcode
		for _, c := range prog.Children(2) {
			got = append(got, prog.Op(c))
		}
		require.Equal(t, tt.Steps, got, tt.Expr)
	}
}

func TestCompilePatternIdKey(t *testing.T) {
	prog, err := CompilePattern("id('x')//a")
	require.NoError(t, err)

	steps := prog.Children(2)
	require.Len(t, steps, 3)
	require.Equal(t, FuncID, prog.FunctionID(steps[0]))
	require.Equal(t, NodeTypeFuncTest, prog.StepTest(steps[1]))
	require.Equal(t, 4, prog.Length(steps[1]))

	prog, err = CompilePattern("key('idx', 'x')")
	require.NoError(t, err)
	steps = prog.Children(2)
	require.Len(t, steps, 1)
	require.Equal(t, FuncKey, prog.FunctionID(steps[0]))
	require.Len(t, prog.Children(steps[0]), 2)
}

func TestCompilePatternUnion(t *testing.T) {
	prog, err := CompilePattern("a | @b | /")
	require.NoError(t, err)

	paths := prog.Children(0)
	require.Len(t, paths, 3)
	for _, pos := range paths {
		require.Equal(t, OpLocationPathPattern, prog.Op(pos))
	}
	require.Equal(t, MatchAttribute, prog.Op(prog.Children(paths[1])[0]))
	require.Equal(t, FromRoot, prog.Op(prog.Children(paths[2])[0]))
}

func TestCompilePatternErrors(t *testing.T) {
	tests := []struct {
		Expr string
		Err  error
	}{
		{Expr: "", Err: ErrLocationPath},
		{Expr: "| a", Err: ErrLocationPath},
		{Expr: "a |", Err: ErrLocationPath},
		{Expr: "a/", Err: ErrLocationStep},
		{Expr: "id('x')/", Err: ErrLocationStep},
		{Expr: "id('x')//", Err: ErrLocationStep},
		{Expr: "ancestor::a", Err: ErrAxisNotAllowed},
		{Expr: "descendant-or-self::node()", Err: ErrAxisNotAllowed},
		{Expr: "a/following-sibling::b", Err: ErrAxisNotAllowed},
		{Expr: "a[1", Err: ErrExpected},
		{Expr: "a b", Err: ErrExtraTokens},
		{Expr: "foo()", Err: ErrNodeType},
	}
	for _, tt := range tests {
		_, err := CompilePattern(tt.Expr)
		if err == nil {
			t.Errorf("%s: expected error but compilation succeeded", tt.Expr)
			continue
		}
		if !errors.Is(err, tt.Err) {
			t.Errorf("%s: error mismatched! want %s, got %s", tt.Expr, tt.Err, err)
		}
	}
}

func TestCompilePatternAxisCode(t *testing.T) {
	var list Collector
	_, err := CompilePattern("parent::a", WithListener(&list))
	require.ErrorIs(t, err, ErrAxisNotAllowed)
	require.Len(t, list.Fatals, 1)
	require.Equal(t, CodeBadAxis, list.Fatals[0].Code)
}

func TestEvaluatePattern(t *testing.T) {
	prog, err := CompilePattern("a")
	require.NoError(t, err)

	_, err = Evaluate(prog, nil)
	require.ErrorIs(t, err, ErrType)
}
