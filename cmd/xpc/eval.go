package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/midbel/cli"
	"github.com/midbel/xpc/xpath"
)

var evalCmd = cli.Command{
	Name:    "eval",
	Summary: "evaluate an expression that does not need a document",
	Handler: &EvalCmd{},
}

type EvalCmd struct {
	Dump bool
	CompilerOptions
}

func (e *EvalCmd) Run(args []string) error {
	var (
		set = flag.NewFlagSet("eval", flag.ContinueOnError)
		ctx = xpath.NewContext()
	)
	e.CompilerOptions.Register(set)
	set.BoolVar(&e.Dump, "dump", false, "print the operation map before the result")
	set.Func("var", "define a variable (name=value)", func(str string) error {
		name, value, err := splitBinding(str)
		if err == nil {
			ctx.Define(name, parseValue(value))
		}
		return err
	})
	set.Func("prop", "override a system property (name=value)", func(str string) error {
		name, value, err := splitBinding(str)
		if err == nil {
			ctx.Properties[name] = value
		}
		return err
	})
	if err := set.Parse(args); err != nil {
		return err
	}
	expr, err := readExpr(set.Args())
	if err != nil {
		return err
	}
	cp := xpath.NewCompiler(e.Options()...)
	prog, err := cp.Compile(expr)
	if err != nil {
		return err
	}
	ctx.Resolver = cp.Resolver()
	if e.Dump {
		printProgram(os.Stdout, prog, e.Color)
	}
	res, err := xpath.Evaluate(prog, ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s(%s)", res.Type(), res)
	fmt.Fprintln(os.Stdout)
	return nil
}
