package xpath

import (
	"fmt"
	"math"
	"strings"
)

type builtinFunc func(*Context, []Value) (Value, error)

type builtin struct {
	minArgs int
	maxArgs int
	call    builtinFunc
}

func (b builtin) Arity() (int, int) {
	return b.minArgs, b.maxArgs
}

func (b builtin) Call(ctx *Context, args []Value) (Value, error) {
	if err := checkArgs(b, len(args)); err != nil {
		return nil, err
	}
	return b.call(ctx, args)
}

func checkArgs(fn Function, count int) error {
	lo, hi := fn.Arity()
	if count < lo || (hi >= 0 && count > hi) {
		return fmt.Errorf("%w: %d given", ErrArity, count)
	}
	return nil
}

func checkArity(minArgs, maxArgs int, fn builtinFunc) Factory {
	return func() (Function, error) {
		b := builtin{
			minArgs: minArgs,
			maxArgs: maxArgs,
			call:    fn,
		}
		return b, nil
	}
}

type builtinEntry struct {
	name    string
	factory Factory
}

var builtinFunctions map[int32]builtinEntry

func init() {
	builtinFunctions = map[int32]builtinEntry{
		FuncCurrent:           {"current", checkArity(0, 0, callNodeSet)},
		FuncLast:              {"last", checkArity(0, 0, callLast)},
		FuncPosition:          {"position", checkArity(0, 0, callPosition)},
		FuncCount:             {"count", checkArity(1, 1, callNodeSet)},
		FuncID:                {"id", checkArity(1, 1, callNodeSet)},
		FuncKey:               {"key", checkArity(2, 2, callNodeSet)},
		FuncLocalName:         {"local-name", checkArity(0, 1, callNodeSet)},
		FuncNamespaceURI:      {"namespace-uri", checkArity(0, 1, callNodeSet)},
		FuncName:              {"name", checkArity(0, 1, callNodeSet)},
		FuncGenerateID:        {"generate-id", checkArity(0, 1, callNodeSet)},
		FuncNot:               {"not", checkArity(1, 1, callNot)},
		FuncTrue:              {"true", checkArity(0, 0, callTrue)},
		FuncFalse:             {"false", checkArity(0, 0, callFalse)},
		FuncBoolean:           {"boolean", checkArity(1, 1, callBoolean)},
		FuncNumber:            {"number", checkArity(0, 1, callNumber)},
		FuncFloor:             {"floor", checkArity(1, 1, callFloor)},
		FuncCeiling:           {"ceiling", checkArity(1, 1, callCeiling)},
		FuncRound:             {"round", checkArity(1, 1, callRound)},
		FuncSum:               {"sum", checkArity(1, 1, callNodeSet)},
		FuncString:            {"string", checkArity(0, 1, callString)},
		FuncStartsWith:        {"starts-with", checkArity(2, 2, callStartsWith)},
		FuncContains:          {"contains", checkArity(2, 2, callContains)},
		FuncSubstringBefore:   {"substring-before", checkArity(2, 2, callSubstringBefore)},
		FuncSubstringAfter:    {"substring-after", checkArity(2, 2, callSubstringAfter)},
		FuncNormalizeSpace:    {"normalize-space", checkArity(0, 1, callNormalizeSpace)},
		FuncTranslate:         {"translate", checkArity(3, 3, callTranslate)},
		FuncConcat:            {"concat", checkArity(2, -1, callConcat)},
		FuncSubstring:         {"substring", checkArity(2, 3, callSubstring)},
		FuncStringLength:      {"string-length", checkArity(0, 1, callStringLength)},
		FuncSystemProperty:    {"system-property", checkArity(1, 1, callSystemProperty)},
		FuncLang:              {"lang", checkArity(1, 1, callNodeSet)},
		FuncFunctionAvailable: {"function-available", checkArity(1, 1, callFunctionAvailable)},
		FuncElementAvailable:  {"element-available", checkArity(1, 1, callElementAvailable)},
		FuncUnparsedEntityURI: {"unparsed-entity-uri", checkArity(1, 1, callNodeSet)},
		FuncDocumentLocation:  {"document-location", checkArity(0, 1, callNodeSet)},
	}
}

func callNodeSet(_ *Context, _ []Value) (Value, error) {
	return nil, ErrNodeSet
}

func callLast(ctx *Context, _ []Value) (Value, error) {
	return Number(ctx.Size), nil
}

func callPosition(ctx *Context, _ []Value) (Value, error) {
	return Number(ctx.Position), nil
}

func callNot(_ *Context, args []Value) (Value, error) {
	return Boolean(!args[0].Bool()), nil
}

func callTrue(_ *Context, _ []Value) (Value, error) {
	return Boolean(true), nil
}

func callFalse(_ *Context, _ []Value) (Value, error) {
	return Boolean(false), nil
}

func callBoolean(_ *Context, args []Value) (Value, error) {
	return Boolean(args[0].Bool()), nil
}

func callNumber(_ *Context, args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, ErrNodeSet
	}
	return Number(args[0].Number()), nil
}

func callFloor(_ *Context, args []Value) (Value, error) {
	return Number(math.Floor(args[0].Number())), nil
}

func callCeiling(_ *Context, args []Value) (Value, error) {
	return Number(math.Ceil(args[0].Number())), nil
}

func callRound(_ *Context, args []Value) (Value, error) {
	return Number(round(args[0].Number())), nil
}

func round(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	if f < 0 && f >= -0.5 {
		return math.Copysign(0, -1)
	}
	return math.Floor(f + 0.5)
}

func callString(_ *Context, args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, ErrNodeSet
	}
	return String(args[0].String()), nil
}

func callStartsWith(_ *Context, args []Value) (Value, error) {
	ok := strings.HasPrefix(args[0].String(), args[1].String())
	return Boolean(ok), nil
}

func callContains(_ *Context, args []Value) (Value, error) {
	ok := strings.Contains(args[0].String(), args[1].String())
	return Boolean(ok), nil
}

func callSubstringBefore(_ *Context, args []Value) (Value, error) {
	before, _, ok := strings.Cut(args[0].String(), args[1].String())
	if !ok {
		return String(""), nil
	}
	return String(before), nil
}

func callSubstringAfter(_ *Context, args []Value) (Value, error) {
	_, after, ok := strings.Cut(args[0].String(), args[1].String())
	if !ok {
		return String(""), nil
	}
	return String(after), nil
}

func callNormalizeSpace(_ *Context, args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, ErrNodeSet
	}
	fields := strings.FieldsFunc(args[0].String(), isSpace)
	return String(strings.Join(fields, " ")), nil
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func callTranslate(_ *Context, args []Value) (Value, error) {
	var (
		str  = args[0].String()
		from = []rune(args[1].String())
		to   = []rune(args[2].String())
		res  strings.Builder
	)
	for _, c := range str {
		ix := -1
		for i := range from {
			if from[i] == c {
				ix = i
				break
			}
		}
		switch {
		case ix < 0:
			res.WriteRune(c)
		case ix < len(to):
			res.WriteRune(to[ix])
		}
	}
	return String(res.String()), nil
}

func callConcat(_ *Context, args []Value) (Value, error) {
	var str strings.Builder
	for i := range args {
		str.WriteString(args[i].String())
	}
	return String(str.String()), nil
}

func callSubstring(_ *Context, args []Value) (Value, error) {
	var (
		str   = []rune(args[0].String())
		start = round(args[1].Number())
		end   = math.Inf(1)
		res   []rune
	)
	if len(args) == 3 {
		end = start + round(args[2].Number())
	}
	for i := range str {
		pos := float64(i + 1)
		if pos >= start && pos < end {
			res = append(res, str[i])
		}
	}
	return String(string(res)), nil
}

func callStringLength(_ *Context, args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, ErrNodeSet
	}
	return Number(len([]rune(args[0].String()))), nil
}

var systemProperties = map[string]Value{
	"xsl:version":    Number(1),
	"xsl:vendor":     String("midbel"),
	"xsl:vendor-url": String("https://github.com/midbel/xpc"),
}

func callSystemProperty(ctx *Context, args []Value) (Value, error) {
	name := args[0].String()
	if v, ok := ctx.Properties[name]; ok {
		return String(v), nil
	}
	if v, ok := systemProperties[name]; ok {
		return v, nil
	}
	return String(""), nil
}

func callFunctionAvailable(ctx *Context, args []Value) (Value, error) {
	name := args[0].String()
	if ctx.Extensions != nil && ctx.Extensions.Defined(name) {
		return Boolean(true), nil
	}
	_, ok := ctx.functions().Lookup(name)
	return Boolean(ok), nil
}

func callElementAvailable(_ *Context, _ []Value) (Value, error) {
	return Boolean(false), nil
}
