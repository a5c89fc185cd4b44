package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/midbel/xpc/xpath"
)

var errBinding = errors.New("binding should be given as name=value")

type CompilerOptions struct {
	Trace    bool
	Color    bool
	MaxDepth int
	Bindings map[string]string
}

func (c *CompilerOptions) Register(set *flag.FlagSet) {
	c.Bindings = make(map[string]string)
	set.BoolVar(&c.Trace, "trace", false, "trace the rules of the compiler on stderr")
	set.BoolVar(&c.Color, "color", false, "colorize the operation map")
	set.IntVar(&c.MaxDepth, "max-depth", 0, "maximum nesting of parenthesis and brackets")
	set.Func("ns", "bind a namespace prefix (prefix=uri)", func(str string) error {
		prefix, uri, err := splitBinding(str)
		if err == nil {
			c.Bindings[prefix] = uri
		}
		return err
	})
}

func (c *CompilerOptions) Options() []xpath.Option {
	var options []xpath.Option
	for prefix, uri := range c.Bindings {
		options = append(options, xpath.WithNamespace(prefix, uri))
	}
	if c.Trace {
		options = append(options, xpath.WithTracer(xpath.TraceStderr()))
	}
	if c.MaxDepth > 0 {
		options = append(options, xpath.WithMaxDepth(c.MaxDepth))
	}
	return options
}

func splitBinding(str string) (string, string, error) {
	name, value, ok := strings.Cut(str, "=")
	if !ok || name == "" {
		return "", "", fmt.Errorf("%s: %w", str, errBinding)
	}
	return name, value, nil
}

func parseValue(str string) xpath.Value {
	switch str {
	case "true()":
		return xpath.Boolean(true)
	case "false()":
		return xpath.Boolean(false)
	}
	if f, err := strconv.ParseFloat(str, 64); err == nil {
		return xpath.Number(f)
	}
	return xpath.String(str)
}

// readExpr gives the expression from the arguments or, when none is given
// or the argument is "-", from stdin.
func readExpr(args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return strings.Join(args, " "), nil
	}
	buf, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(buf)), nil
}

func parseResultType(str string) (xpath.ValueType, error) {
	switch str {
	case "", "any":
		return xpath.TypeAny, nil
	case "string":
		return xpath.TypeString, nil
	case "number":
		return xpath.TypeNumber, nil
	case "boolean", "bool":
		return xpath.TypeBoolean, nil
	default:
		return xpath.TypeAny, fmt.Errorf("%s: unknown result type", str)
	}
}

var (
	operatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#d75f87")).Bold(true)
	axisStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafd7"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#87af5f"))
	callStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#d7af5f"))
	lengthStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")).Bold(true)
)

func printProgram(w io.Writer, prog *xpath.Program, color bool) {
	if !color {
		prog.Dump(w)
		return
	}
	fmt.Fprint(w, renderProgram(prog))
}

func renderProgram(prog *xpath.Program) string {
	var str strings.Builder
	for _, r := range prog.Records() {
		str.WriteString(renderRecord(r))
		str.WriteString("\n")
	}
	return str.String()
}

func renderRecord(r xpath.Record) string {
	var (
		name  = xpath.OpName(r.Op)
		label = r.Label
	)
	switch {
	case xpath.IsAxis(r.Op):
		name = axisStyle.Render(name)
	case r.Op == xpath.OpLiteral || r.Op == xpath.OpNumberLit || r.Op == xpath.OpVariable:
		label = valueStyle.Render(label)
	case r.Op == xpath.OpFunction || r.Op == xpath.OpExtFunction:
		label = callStyle.Render(label)
	default:
		name = operatorStyle.Render(name)
	}
	parts := []string{
		strings.Repeat("  ", r.Depth) + name,
		lengthStyle.Render(strconv.Itoa(r.Length)),
	}
	if label != "" {
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

func printWarnings(w io.Writer, list []*xpath.SyntaxError, color bool) {
	for _, e := range list {
		msg := "warning: " + e.Error()
		if color {
			msg = errorStyle.Render(msg)
		}
		fmt.Fprintln(w, msg)
	}
}

// printError prints err and, for syntax errors, the line of the expression
// where it occurred with a marker under the column.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, err)

	var serr *xpath.SyntaxError
	if !errors.As(err, &serr) || serr.Line <= 0 || serr.Column <= 0 {
		return
	}
	lines := strings.Split(serr.Expr, "\n")
	if serr.Line > len(lines) {
		return
	}
	fmt.Fprintln(w, "  "+lines[serr.Line-1])
	fmt.Fprintln(w, "  "+strings.Repeat(" ", serr.Column-1)+"^")
}
