package xpath

import (
	"fmt"
	"math"
)

// Evaluate interprets an expression that does not need a document. Location
// paths, unions and functions working on nodes give ErrNodeSet.
func Evaluate(prog *Program, ctx *Context) (Value, error) {
	if prog.Kind() != OpXPath {
		return nil, fmt.Errorf("%w: %s can not be evaluated", ErrType, OpName(prog.Kind()))
	}
	if ctx == nil {
		ctx = NewContext()
	}
	ev := evaluator{
		prog: prog,
		ctx:  ctx,
	}
	return ev.eval(2)
}

type evaluator struct {
	prog *Program
	ctx  *Context
}

func (e evaluator) eval(pos int) (Value, error) {
	switch op := e.prog.Op(pos); op {
	case OpLiteral, OpNumberLit:
		return e.prog.Value(e.prog.Op(pos + 2)), nil
	case OpVariable:
		return e.evalVariable(pos)
	case OpGroup, OpArgument:
		return e.eval(pos + 2)
	case OpNeg:
		v, err := e.eval(pos + 2)
		if err != nil {
			return nil, err
		}
		return Number(-v.Number()), nil
	case OpString, OpBool, OpNumber:
		v, err := e.eval(pos + 2)
		if err != nil {
			return nil, err
		}
		return convert(op, v), nil
	case OpOr, OpAnd:
		return e.evalLogical(op, pos)
	case OpEquals, OpNotEquals, OpLt, OpLte, OpGt, OpGte:
		left, right, err := e.evalOperands(pos)
		if err != nil {
			return nil, err
		}
		return Boolean(compare(op, left, right)), nil
	case OpPlus, OpMinus, OpMult, OpDiv, OpMod, OpQuo:
		left, right, err := e.evalOperands(pos)
		if err != nil {
			return nil, err
		}
		return Number(apply(op, left.Number(), right.Number())), nil
	case OpFunction:
		return e.evalFunction(pos)
	case OpExtFunction:
		return e.evalExtension(pos)
	case OpUnion, OpLocationPath:
		return nil, ErrNodeSet
	default:
		return nil, fmt.Errorf("%w: unexpected %s at %d", ErrProgram, OpName(op), pos)
	}
}

func (e evaluator) evalOperands(pos int) (Value, Value, error) {
	left, err := e.eval(pos + 2)
	if err != nil {
		return nil, nil, err
	}
	right, err := e.eval(e.prog.Next(pos + 2))
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (e evaluator) evalLogical(op Opcode, pos int) (Value, error) {
	left, err := e.eval(pos + 2)
	if err != nil {
		return nil, err
	}
	if ok := left.Bool(); (op == OpOr && ok) || (op == OpAnd && !ok) {
		return Boolean(ok), nil
	}
	right, err := e.eval(e.prog.Next(pos + 2))
	if err != nil {
		return nil, err
	}
	return Boolean(right.Bool()), nil
}

func (e evaluator) evalVariable(pos int) (Value, error) {
	var (
		prefix = e.text(e.prog.Op(pos + 2))
		local  = e.text(e.prog.Op(pos + 3))
	)
	v, err := e.ctx.resolveVariable(prefix, local)
	if err != nil {
		if prefix != "" {
			local = prefix + ":" + local
		}
		return nil, fmt.Errorf("$%s: %w", local, ErrUndefined)
	}
	return v, nil
}

func (e evaluator) evalFunction(pos int) (Value, error) {
	funcs := e.prog.Functions()
	if funcs == nil {
		funcs = e.ctx.functions()
	}
	id := e.prog.FunctionID(pos)
	name, _ := funcs.Name(id)
	fn, err := funcs.Resolve(id)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(pos)
	if err != nil {
		return nil, err
	}
	v, err := fn.Call(e.ctx, args)
	if err != nil {
		return nil, fmt.Errorf("%s(): %w", name, err)
	}
	return v, nil
}

func (e evaluator) evalExtension(pos int) (Value, error) {
	var (
		prefix = e.text(e.prog.Op(pos + 2))
		local  = e.text(e.prog.Op(pos + 3))
	)
	fn, err := e.ctx.resolveExtension(prefix, local)
	if err != nil {
		return nil, fmt.Errorf("%s:%s(): %w", prefix, local, ErrFunction)
	}
	args, err := e.evalArgs(pos)
	if err != nil {
		return nil, err
	}
	if err := checkArgs(fn, len(args)); err != nil {
		return nil, fmt.Errorf("%s:%s(): %w", prefix, local, err)
	}
	v, err := fn.Call(e.ctx, args)
	if err != nil {
		return nil, fmt.Errorf("%s:%s(): %w", prefix, local, err)
	}
	return v, nil
}

func (e evaluator) evalArgs(pos int) ([]Value, error) {
	var args []Value
	for _, c := range e.prog.Children(pos) {
		v, err := e.eval(c)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (e evaluator) text(ix Opcode) string {
	if ix == Empty {
		return ""
	}
	tok, _ := e.prog.Token(ix)
	return tok.Text
}

func convert(op Opcode, v Value) Value {
	switch op {
	case OpString:
		return String(v.String())
	case OpBool:
		return Boolean(v.Bool())
	default:
		return Number(v.Number())
	}
}

func compare(op Opcode, left, right Value) bool {
	if op == OpEquals || op == OpNotEquals {
		var eq bool
		switch {
		case left.Type() == TypeBoolean || right.Type() == TypeBoolean:
			eq = left.Bool() == right.Bool()
		case left.Type() == TypeNumber || right.Type() == TypeNumber:
			eq = left.Number() == right.Number()
		default:
			eq = left.String() == right.String()
		}
		if op == OpNotEquals {
			return !eq
		}
		return eq
	}
	x, y := left.Number(), right.Number()
	switch op {
	case OpLt:
		return x < y
	case OpLte:
		return x <= y
	case OpGt:
		return x > y
	default:
		return x >= y
	}
}

func apply(op Opcode, x, y float64) float64 {
	switch op {
	case OpPlus:
		return x + y
	case OpMinus:
		return x - y
	case OpMult:
		return x * y
	case OpDiv:
		return x / y
	case OpMod:
		return math.Mod(x, y)
	default:
		return math.Trunc(x / y)
	}
}
