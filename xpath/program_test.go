package xpath

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProgramDump(t *testing.T) {
	tests := []struct {
		Expr string
		Want []string
	}{
		{
			Expr: "1 + 2",
			Want: []string{
				"OP_XPATH 10",
				"  OP_PLUS 8",
				"    OP_NUMBERLIT 3 1",
				"    OP_NUMBERLIT 3 2",
			},
		},
		{
			Expr: "concat($x, 'a')",
			Want: []string{
				"OP_XPATH 17",
				"  OP_FUNCTION 15 concat()",
				"    OP_ARGUMENT 6",
				"      OP_VARIABLE 4 $x",
				"    OP_ARGUMENT 5",
				"      OP_LITERAL 3 \"a\"",
			},
		},
		{
			Expr: "ns:*[1]",
			Want: []string{
				"OP_XPATH 17",
				"  OP_LOCATIONPATH 15",
				"    FROM_CHILDREN 12 6 NODENAME ns:*",
				"      OP_PREDICATE 6",
				"        OP_NUMBERLIT 3 1",
			},
		},
		{
			Expr: "processing-instruction('pi')",
			Want: []string{
				"OP_XPATH 10",
				"  OP_LOCATIONPATH 8",
				"    FROM_CHILDREN 5 5 NODETYPE_PI \"pi\"",
			},
		},
		{
			Expr: "*:item | x:fn()",
			Want: []string{
				"OP_XPATH 19",
				"  OP_UNION 17",
				"    OP_LOCATIONPATH 9",
				"      FROM_CHILDREN 6 6 NODENAME *:item",
				"    OP_EXTFUNCTION 5 x:fn()",
			},
		},
	}
	for _, tt := range tests {
		prog, err := Compile(tt.Expr)
		if err != nil {
			t.Errorf("%s: fail to compile expression: %s", tt.Expr, err)
			continue
		}
		got := strings.Split(strings.TrimSpace(prog.String()), "\n")
		if !slices.Equal(got, tt.Want) {
			t.Errorf("%s: dump mismatched!\nwant:\n%s\ngot:\n%s", tt.Expr, strings.Join(tt.Want, "\n"), prog)
		}
	}
}

func TestProgramWalk(t *testing.T) {
	prog, err := Compile("a[1 + 2]/b")
	require.NoError(t, err)

	var ops []Opcode
	err = prog.Walk(func(pos, depth int) error {
		ops = append(ops, prog.Op(pos))
		return nil
	})
	require.NoError(t, err)
	want := []Opcode{
		OpXPath,
		OpLocationPath,
		FromChildren,
		OpPredicate,
		OpPlus,
		OpNumberLit,
		OpNumberLit,
		FromChildren,
	}
	require.Equal(t, want, ops)

	stop := errors.New("stop")
	var count int
	err = prog.Walk(func(pos, depth int) error {
		count++
		if prog.Op(pos) == OpPredicate {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 4, count)
}

func TestProgramSkip(t *testing.T) {
	if _, err := Compile("f(1, g(2, 3), 4) and $x"); err == nil {
		t.Fatalf("f should not be known")
	}
	ft := NewFunctionTable()
	ft.Install("f", Prototype(variadicFunc{}))
	ft.Install("g", Prototype(variadicFunc{}))

	prog, err := Compile("f(1, g(2, 3), 4) and $x", WithFunctions(ft))
	require.NoError(t, err)

	and := 2
	require.Equal(t, OpAnd, prog.Op(and))
	call := prog.FirstChild(and)
	require.Equal(t, OpFunction, prog.Op(call))
	args := prog.Children(call)
	require.Len(t, args, 3)
	require.Equal(t, OpFunction, prog.Op(args[1]+2))

	next := prog.Next(call)
	require.Equal(t, OpVariable, prog.Op(next))
	require.Equal(t, prog.Next(and), prog.Next(next))
	require.Equal(t, prog.Len(), prog.Next(0))
}

func TestProgramValidate(t *testing.T) {
	prog, err := Compile("a/b[1]")
	require.NoError(t, err)
	require.NoError(t, prog.Validate())

	broken := func(fn func([]int32)) *Program {
		ops := prog.Ops()
		fn(ops)
		return &Program{ops: ops, tokens: prog.Tokens()}
	}
	tests := []*Program{
		broken(func(ops []int32) { ops[1]++ }),
		broken(func(ops []int32) { ops[3] += 4 }),
		broken(func(ops []int32) { ops[6] = 2 }),
		broken(func(ops []int32) { ops[5] = 1 }),
		{ops: []int32{OpXPath}},
	}
	for i, p := range tests {
		if err := p.Validate(); !errors.Is(err, ErrProgram) {
			t.Errorf("%d: expected invalid program, got %v", i, err)
		}
	}
}

func TestProgramAccessors(t *testing.T) {
	prog, err := Compile("ns:item")
	require.NoError(t, err)

	step := prog.Children(2)[0]
	prefix, ok := prog.Token(prog.StepPrefix(step))
	require.True(t, ok)
	require.Equal(t, "ns", prefix.Text)
	local, ok := prog.Token(prog.StepLocalName(step))
	require.True(t, ok)
	require.Equal(t, "item", local.Text)

	require.Equal(t, EndOp, prog.Op(-1))
	require.Equal(t, EndOp, prog.Op(prog.Len()))
	require.Equal(t, -1, prog.FirstChild(prog.Len()))
	require.Equal(t, 0, prog.Length(prog.Len()))

	ops := prog.Ops()
	ops[0] = OpMatchPattern
	require.Equal(t, OpXPath, prog.Kind())

	prog, err = Compile("text()")
	require.NoError(t, err)
	step = prog.Children(2)[0]
	require.Equal(t, Empty, prog.StepPrefix(step))
	require.Equal(t, Empty, prog.StepLocalName(step))
}

type variadicFunc struct{}

func (variadicFunc) Arity() (int, int) {
	return 0, -1
}

func (variadicFunc) Call(_ *Context, args []Value) (Value, error) {
	return Number(len(args)), nil
}
