/*
Lrgen is a small demonstration front-end for the boolsimp worked example: it
parses a boolean expression (&&, ||, !, parens, true/false) from the command
line or an interactive session, evaluates it, and prints its simplified form.

Usage:

	lrgen [flags] EXPRESSION
	lrgen repl [flags]

The flags are:

	-t, --trace
		Print every shift/reduce/accept the parser performs to stderr.

	-g, --graph FILE
		Write the LALR(0) automaton as a Graphviz DOT file and exit without
		parsing anything.

Once in repl mode, each line read is parsed and evaluated independently; type
"quit" or send EOF to exit.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/lrgen/automaton"
	"github.com/dekarrin/lrgen/examples/boolsimp"
	"github.com/dekarrin/lrgen/parse"
	"github.com/dekarrin/lrgen/table"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitParseError indicates an unsuccessful program execution due to a
	// syntax or tokenization error in the user's input.
	ExitParseError

	// ExitBuildError indicates an unsuccessful program execution due to a
	// problem building the grammar, automaton, or table.
	ExitBuildError
)

var (
	returnCode int  = ExitSuccess
	flagTrace  *bool   = pflag.BoolP("trace", "t", false, "Print every shift/reduce/accept to stderr")
	flagGraph  *string = pflag.StringP("graph", "g", "", "Write the LALR(0) automaton as Graphviz DOT to this file and exit")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()
	args := pflag.Args()

	g, _, err := boolsimp.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: building grammar: %s\n", err)
		returnCode = ExitBuildError
		return
	}
	a, err := automaton.Build(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: building automaton: %s\n", err)
		returnCode = ExitBuildError
		return
	}

	if *flagGraph != "" {
		f, err := os.Create(*flagGraph)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			returnCode = ExitBuildError
			return
		}
		defer f.Close()
		if err := a.WriteDOT(f); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			returnCode = ExitBuildError
			return
		}
		return
	}

	if len(args) > 0 && args[0] == "repl" {
		runRepl()
		return
	}

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "ERROR: expected an EXPRESSION argument or the \"repl\" subcommand")
		returnCode = ExitParseError
		return
	}

	result, err := evalOnce(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitParseError
		return
	}
	fmt.Println(result)
}

func evalOnce(input string) (string, error) {
	g, tz, err := boolsimp.Build()
	if err != nil {
		return "", err
	}
	a, err := automaton.Build(g)
	if err != nil {
		return "", err
	}
	tbl, report, err := table.Build(g, a, table.Options{})
	if err != nil {
		return "", err
	}
	if !report.OK() && *flagTrace {
		fmt.Fprintln(os.Stderr, report.String())
	}

	if err := tz.Prepare(); err != nil {
		return "", err
	}
	if err := tz.PushStream("<argument>", strings.NewReader(input)); err != nil {
		return "", err
	}

	p := parse.New(g, a, tbl, tz)
	if *flagTrace {
		p.OnTrace(func(line string) { fmt.Fprintln(os.Stderr, line) })
	}
	expr, err := p.Parse()
	if err != nil {
		return "", err
	}

	simplified := boolsimp.Simplify(expr)
	return fmt.Sprintf("%s = %v", simplified, expr.Eval()), nil
}

func runRepl() {
	rl, err := readline.NewEx(&readline.Config{Prompt: "lrgen> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: create readline session: %s\n", err)
		returnCode = ExitBuildError
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}

		result, err := evalOnce(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			continue
		}
		fmt.Println(result)
	}
}
