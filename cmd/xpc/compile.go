package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/midbel/cli"
	"github.com/midbel/xpc/xpath"
)

var tokensCmd = cli.Command{
	Name:    "tokens",
	Summary: "print the tokens of an expression",
	Handler: &TokensCmd{},
}

var compileCmd = cli.Command{
	Name:    "compile",
	Summary: "compile an xpath expression and print its operation map",
	Handler: &CompileCmd{},
}

var matchCmd = cli.Command{
	Name:    "match",
	Summary: "compile a match pattern and print its operation map",
	Handler: &CompileCmd{Pattern: true},
}

type TokensCmd struct{}

func (t *TokensCmd) Run(args []string) error {
	set := flag.NewFlagSet("tokens", flag.ContinueOnError)
	if err := set.Parse(args); err != nil {
		return err
	}
	expr, err := readExpr(set.Args())
	if err != nil {
		return err
	}
	queue, err := xpath.Tokenize(expr)
	if err != nil {
		return err
	}
	for i, tok := range queue.Tokens() {
		fmt.Fprintf(os.Stdout, "%3d %d:%d %s", i, tok.Line, tok.Column, tok.Text)
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

type CompileCmd struct {
	Pattern bool
	Quiet   bool
	Type    xpath.ValueType
	CompilerOptions
}

func (c *CompileCmd) Run(args []string) error {
	name := "compile"
	if c.Pattern {
		name = "match"
	}
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	c.CompilerOptions.Register(set)
	set.BoolVar(&c.Quiet, "quiet", false, "only check the expression, don't print the operation map")
	if !c.Pattern {
		set.BoolVar(&c.Pattern, "pattern", false, "compile the expression as a match pattern")
		set.Func("type", "convert the result (string, number, boolean)", func(str string) error {
			t, err := parseResultType(str)
			if err == nil {
				c.Type = t
			}
			return err
		})
	}
	if err := set.Parse(args); err != nil {
		return err
	}
	expr, err := readExpr(set.Args())
	if err != nil {
		return err
	}

	var (
		list    xpath.Collector
		options = c.Options()
		prog    *xpath.Program
	)
	options = append(options, xpath.WithListener(&list), xpath.WithResultType(c.Type))
	if c.Pattern {
		prog, err = xpath.CompilePattern(expr, options...)
	} else {
		prog, err = xpath.Compile(expr, options...)
	}
	printWarnings(os.Stderr, list.Warnings, c.Color)
	printWarnings(os.Stderr, list.Errors, c.Color)
	if err != nil {
		return err
	}
	if err := prog.Validate(); err != nil {
		return err
	}
	if !c.Quiet {
		printProgram(os.Stdout, prog, c.Color)
	}
	return nil
}
