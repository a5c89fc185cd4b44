package xpath

import (
	"fmt"
	"slices"
)

// Program is the frozen result of a compilation: the operation map trimmed
// to its used length and the token queue its records point into.
type Program struct {
	Expr   string
	Errors []*SyntaxError

	ops    []int32
	tokens *TokenQueue
	funcs  *FunctionTable
}

// Kind is OpXPath for expressions and OpMatchPattern for patterns.
func (p *Program) Kind() Opcode {
	return p.Op(0)
}

func (p *Program) Len() int {
	return len(p.ops)
}

// Op reads the slot at pos. Out of range reads give EndOp.
func (p *Program) Op(pos int) Opcode {
	if pos < 0 || pos >= len(p.ops) {
		return EndOp
	}
	return p.ops[pos]
}

func (p *Program) Length(pos int) int {
	if pos < 0 || pos+MapIndexLength >= len(p.ops) {
		return 0
	}
	return int(p.ops[pos+MapIndexLength])
}

// Next is the position of the record following the one at pos.
func (p *Program) Next(pos int) int {
	return pos + p.Length(pos)
}

// FirstChild gives the position of the first record nested in the one at
// pos, or -1 for records without child.
func (p *Program) FirstChild(pos int) int {
	switch op := p.Op(pos); {
	case op == OpLiteral || op == OpNumberLit || op == OpVariable:
		return -1
	case op == OpFunction:
		return pos + 3
	case op == OpExtFunction:
		return pos + 4
	case IsAxis(op):
		return p.FirstPredicate(pos)
	case op == EndOp:
		return -1
	default:
		return pos + 2
	}
}

// StepLength is the length of the step at pos without its predicates.
func (p *Program) StepLength(pos int) int {
	return int(p.Op(pos + 2))
}

func (p *Program) StepTest(pos int) Opcode {
	return p.Op(pos + 3)
}

// StepPrefix gives the token index of the prefix of a name test, Empty or
// ElemWildcard. Steps testing a node type have no prefix.
func (p *Program) StepPrefix(pos int) Opcode {
	if p.StepTest(pos) != NodeName {
		return Empty
	}
	return p.Op(pos + 4)
}

// StepLocalName gives the token index of the local name of a name test, or
// of the literal given to processing-instruction().
func (p *Program) StepLocalName(pos int) Opcode {
	switch p.StepTest(pos) {
	case NodeName:
		return p.Op(pos + 5)
	case NodeTypePI:
		if p.StepLength(pos) > 4 {
			return p.Op(pos + 4)
		}
	}
	return Empty
}

func (p *Program) FirstPredicate(pos int) int {
	return pos + p.StepLength(pos)
}

func (p *Program) FunctionID(pos int) int32 {
	return p.Op(pos + 2)
}

func (p *Program) Token(ix int32) (Token, bool) {
	return p.tokens.At(int(ix))
}

// Value gives the value of the token at ix: the converted value of literals
// and numbers, or the raw text of names.
func (p *Program) Value(ix int32) Value {
	return p.tokens.Value(int(ix))
}

func (p *Program) Ops() []int32 {
	return slices.Clone(p.ops)
}

func (p *Program) Tokens() *TokenQueue {
	return p.tokens
}

func (p *Program) Functions() *FunctionTable {
	return p.funcs
}

// Children lists the positions of the records directly nested in the one
// at pos, stopping at the end of the record or at its EndOp.
func (p *Program) Children(pos int) []int {
	var (
		list []int
		end  = p.Next(pos)
	)
	for c := p.FirstChild(pos); c >= 0 && c < end; c = p.Next(c) {
		if p.Op(c) == EndOp || p.Length(c) <= 0 {
			break
		}
		list = append(list, c)
	}
	return list
}

// Walk visits every record depth first, starting with the root.
func (p *Program) Walk(fn func(pos, depth int) error) error {
	if len(p.ops) == 0 {
		return nil
	}
	return p.walk(0, 0, fn)
}

func (p *Program) walk(pos, depth int, fn func(int, int) error) error {
	if err := fn(pos, depth); err != nil {
		return err
	}
	for _, c := range p.Children(pos) {
		if err := p.walk(c, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that every record can be skipped over: from a record at
// pos, pos+length lands on its next sibling, on the EndOp closing its
// parent or on the end of its parent.
func (p *Program) Validate() error {
	if len(p.ops) < 2 {
		return fmt.Errorf("%w: map too short", ErrProgram)
	}
	if n := p.Length(0); n != len(p.ops) {
		return fmt.Errorf("%w: root length %d, map length %d", ErrProgram, n, len(p.ops))
	}
	return p.validate(0, len(p.ops))
}

func (p *Program) validate(pos, limit int) error {
	var (
		size = p.Length(pos)
		end  = pos + size
	)
	if size < 2 || end > limit {
		return fmt.Errorf("%w: %s at %d has length %d (limit %d)", ErrProgram, OpName(p.Op(pos)), pos, size, limit)
	}
	if IsAxis(p.Op(pos)) {
		if n := p.StepLength(pos); n < 4 || n > size {
			return fmt.Errorf("%w: step at %d has length %d without predicates", ErrProgram, pos, n)
		}
	}
	c := p.FirstChild(pos)
	if c < 0 {
		return nil
	}
	for c < end {
		if p.Op(c) == EndOp {
			if c != end-1 {
				return fmt.Errorf("%w: end of %s at %d is not its last slot", ErrProgram, OpName(p.Op(pos)), c)
			}
			return nil
		}
		if err := p.validate(c, end); err != nil {
			return err
		}
		c = p.Next(c)
	}
	return nil
}
