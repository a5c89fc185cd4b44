package xpath

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record is one line of a dump: a record of the operation map with the
// text of its payload.
type Record struct {
	Pos    int
	Depth  int
	Op     Opcode
	Length int
	Label  string
}

func (r Record) String() string {
	var str strings.Builder
	str.WriteString(strings.Repeat("  ", r.Depth))
	str.WriteString(OpName(r.Op))
	str.WriteString(" ")
	str.WriteString(strconv.Itoa(r.Length))
	if r.Label != "" {
		str.WriteString(" ")
		str.WriteString(r.Label)
	}
	return str.String()
}

func (p *Program) Records() []Record {
	var list []Record
	p.Walk(func(pos, depth int) error {
		r := Record{
			Pos:    pos,
			Depth:  depth,
			Op:     p.Op(pos),
			Length: p.Length(pos),
			Label:  p.label(pos),
		}
		list = append(list, r)
		return nil
	})
	return list
}

func (p *Program) Dump(w io.Writer) error {
	for _, r := range p.Records() {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}
	return nil
}

func (p *Program) String() string {
	var str strings.Builder
	p.Dump(&str)
	return str.String()
}

func (p *Program) label(pos int) string {
	switch op := p.Op(pos); {
	case op == OpLiteral:
		return strconv.Quote(p.Value(p.Op(pos + 2)).String())
	case op == OpNumberLit:
		return p.Value(p.Op(pos + 2)).String()
	case op == OpVariable:
		return "$" + p.qname(p.Op(pos+2), p.Op(pos+3))
	case op == OpFunction:
		id := p.FunctionID(pos)
		if p.funcs != nil {
			if name, ok := p.funcs.Name(id); ok {
				return name + "()"
			}
		}
		return "#" + strconv.Itoa(int(id))
	case op == OpExtFunction:
		return p.qname(p.Op(pos+2), p.Op(pos+3)) + "()"
	case IsAxis(op):
		return p.stepLabel(pos)
	default:
		return ""
	}
}

func (p *Program) stepLabel(pos int) string {
	var (
		test = p.StepTest(pos)
		str  strings.Builder
	)
	str.WriteString(strconv.Itoa(p.StepLength(pos)))
	str.WriteString(" ")
	str.WriteString(OpName(test))
	switch test {
	case NodeName:
		str.WriteString(" ")
		str.WriteString(p.qname(p.StepPrefix(pos), p.StepLocalName(pos)))
	case NodeTypePI:
		if ix := p.StepLocalName(pos); ix != Empty {
			str.WriteString(" ")
			str.WriteString(strconv.Quote(p.Value(ix).String()))
		}
	}
	return str.String()
}

func (p *Program) qname(prefix, local Opcode) string {
	name := p.name(local)
	switch prefix {
	case Empty:
		return name
	case ElemWildcard:
		return "*:" + name
	default:
		return p.name(prefix) + ":" + name
	}
}

func (p *Program) name(ix Opcode) string {
	if ix == ElemWildcard {
		return "*"
	}
	v := p.Value(ix)
	if v == nil {
		return "?"
	}
	return v.String()
}
