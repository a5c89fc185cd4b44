package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/midbel/cli"
)

var errFail = errors.New("fail")

var (
	summary = "xpc compiles xpath 1.0 expressions and xslt patterns into operation maps"
	help    = `usage: xpc <command> [options] <expression>

commands:
  tokens   print the tokens of an expression
  compile  compile an expression and print its operation map
  match    compile a match pattern and print its operation map
  eval     compile and evaluate an expression that needs no document
  repl     compile expressions interactively`
)

func main() {
	var (
		set  = cli.NewFlagSet("xpc")
		root = prepare()
	)
	root.SetSummary(summary)
	root.SetHelp(help)
	if err := set.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			root.Help()
			os.Exit(2)
		}
	}
	err := root.Execute(set.Args())
	if err != nil {
		if s, ok := err.(cli.SuggestionError); ok && len(s.Others) > 0 {
			fmt.Fprintln(os.Stderr, "similar command(s)")
			for _, n := range s.Others {
				fmt.Fprintln(os.Stderr, "-", n)
			}
		}
		if !errors.Is(err, errFail) {
			printError(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func prepare() *cli.CommandTrie {
	root := cli.New()
	root.Register([]string{"tokens"}, &tokensCmd)
	root.Register([]string{"compile"}, &compileCmd)
	root.Register([]string{"compile", "pattern"}, &matchCmd)
	root.Register([]string{"match"}, &matchCmd)
	root.Register([]string{"eval"}, &evalCmd)
	root.Register([]string{"repl"}, &replCmd)

	return root
}
