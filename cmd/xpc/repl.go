package main

import (
	"flag"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/midbel/cli"
	"github.com/midbel/xpc/xpath"
)

var replCmd = cli.Command{
	Name:    "repl",
	Summary: "compile expressions interactively",
	Handler: &ReplCmd{},
}

type ReplCmd struct {
	Pattern bool
	CompilerOptions
}

func (r *ReplCmd) Run(args []string) error {
	set := flag.NewFlagSet("repl", flag.ContinueOnError)
	r.CompilerOptions.Register(set)
	set.BoolVar(&r.Pattern, "pattern", false, "compile the input as a match pattern")
	if err := set.Parse(args); err != nil {
		return err
	}
	// tracing would write over the view
	r.Trace = false

	m := createModel(xpath.NewCompiler(r.Options()...), r.Pattern)
	_, err := tea.NewProgram(m).Run()
	return err
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5fafd7"))
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87af5f"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

type model struct {
	input    textinput.Model
	compiler *xpath.Compiler
	pattern  bool

	prog   *xpath.Program
	result string
	err    error
}

func createModel(cp *xpath.Compiler, pattern bool) model {
	input := textinput.New()
	input.Prompt = "xpath> "
	input.Placeholder = "expression"
	if pattern {
		input.Prompt = "match> "
		input.Placeholder = "pattern"
	}
	input.Focus()
	return model{
		input:    input,
		compiler: cp,
		pattern:  pattern,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.evaluate()
			return m, nil
		case "ctrl+l":
			m.input.Reset()
			m.compile()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.compile()
	return m, cmd
}

func (m *model) compile() {
	m.prog, m.err, m.result = nil, nil, ""

	expr := strings.TrimSpace(m.input.Value())
	if expr == "" {
		return
	}
	if m.pattern {
		m.prog, m.err = m.compiler.CompilePattern(expr)
	} else {
		m.prog, m.err = m.compiler.Compile(expr)
	}
}

func (m *model) evaluate() {
	if m.prog == nil || m.pattern {
		return
	}
	ctx := xpath.NewContext()
	ctx.Resolver = m.compiler.Resolver()
	res, err := xpath.Evaluate(m.prog, ctx)
	if err != nil {
		m.result = errorStyle.Render(err.Error())
		return
	}
	m.result = resultStyle.Render(res.Type().String() + "(" + res.String() + ")")
}

func (m model) View() tea.View {
	var str strings.Builder
	str.WriteString(titleStyle.Render("xpc"))
	str.WriteString("\n\n")
	str.WriteString(m.input.View())
	str.WriteString("\n\n")
	switch {
	case m.err != nil:
		str.WriteString(errorStyle.Render(m.err.Error()))
		str.WriteString("\n")
	case m.prog != nil:
		str.WriteString(renderProgram(m.prog))
	}
	if m.result != "" {
		str.WriteString("\n")
		str.WriteString(m.result)
		str.WriteString("\n")
	}
	str.WriteString("\n")
	str.WriteString(helpStyle.Render("enter: evaluate • ctrl+l: clear • esc: quit"))
	str.WriteString("\n")
	return tea.NewView(str.String())
}
