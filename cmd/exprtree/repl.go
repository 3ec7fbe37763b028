package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/zephyrtronium/exprtree"
)

// repl evaluates one expression per line. A line "name = expr" binds name to
// the value of expr for later lines.
func repl(ctx *exprtree.Context, in io.Reader, out io.Writer, opts options) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, src, bind := strings.Cut(line, "=")
		if !bind {
			src = line
		}
		a, err := exprtree.Parse(src)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if !bind {
			report(out, ctx, a, opts)
			continue
		}
		name, err = varname(name)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		r, err := ctx.Eval(a)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		ctx.Set(name, r)
		fmt.Fprintf(out, "%s = "+opts.verb, name, r)
	}
	fmt.Fprintln(out)
}

// varname checks that s is usable as a variable name in an expression.
func varname(s string) (string, error) {
	toks, err := exprtree.Tokenize(s)
	if err != nil || len(toks) != 1 || toks[0].Kind != exprtree.TokenVar {
		return "", fmt.Errorf("cannot bind %q: not a variable name", strings.TrimSpace(s))
	}
	return toks[0].Text, nil
}
