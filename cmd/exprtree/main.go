package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/zephyrtronium/exprtree"
)

type options struct {
	verb      string
	echo      bool
	tokens    bool
	dump      bool
	roundtrip bool
}

func main() {
	log.SetFlags(0)
	var (
		inname string
		with   [][2]string
		nl     bool
		prec   int
		opts   options
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&opts.verb, "fmt", "%g", "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.IntVar(&prec, "p", exprtree.DefaultPrec, "precision of calculations in bits")
	flag.BoolVar(&nl, "n", false, "parse separate input lines as separate expressions")
	flag.BoolVar(&opts.echo, "echo", false, "print canonical forms")
	flag.BoolVar(&opts.tokens, "tokens", false, "print token lists")
	flag.BoolVar(&opts.dump, "dump", false, "print expression trees")
	flag.BoolVar(&opts.roundtrip, "roundtrip", false, "also evaluate the reparsed canonical form")
	flag.Parse()
	if prec <= 0 {
		log.Fatalf("precision (%d) must be positive", prec)
	}
	opts.verb += "\n"

	ctx := exprtree.NewContext(exprtree.Prec(uint(prec)))
	for _, d := range with {
		nm, err := varname(d[0])
		if err != nil {
			log.Fatal(err)
		}
		vl := d[1]
		r, err := exprtree.EvalString(vl, exprtree.Prec(uint(prec)))
		if err != nil {
			log.Fatalf("setting %s: %v", nm, err)
		}
		ctx.Set(nm, r)
	}

	if inname == "" && flag.NArg() == 0 && isatty.IsTerminal(os.Stdin.Fd()) {
		repl(ctx, os.Stdin, os.Stdout, opts)
		return
	}

	var srcs []string
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if f != nil {
		b, err := io.ReadAll(f)
		if err != nil {
			log.Fatal(err)
		}
		if nl {
			for _, line := range strings.Split(string(b), "\n") {
				if strings.TrimSpace(line) != "" {
					srcs = append(srcs, line)
				}
			}
		} else {
			srcs = append(srcs, string(b))
		}
	}
	srcs = append(srcs, flag.Args()...)

	var p []*exprtree.Expr
	for _, src := range srcs {
		a, err := exprtree.Parse(src)
		if err != nil {
			log.Fatalf("%q: %v", strings.TrimSpace(src), err)
		}
		p = append(p, a)
	}
	for _, a := range p {
		report(os.Stdout, ctx, a, opts)
	}
}

// report prints the result of evaluating a, along with whatever else opts
// ask for. Evaluation errors are printed in place of the result.
func report(w io.Writer, ctx *exprtree.Context, a *exprtree.Expr, opts options) {
	if opts.tokens {
		fmt.Fprintln(w, a.Tokens())
	}
	if opts.dump {
		fmt.Fprintln(w, dump(a.Root()))
	}
	if opts.echo {
		fmt.Fprintf(w, "%v : ", a)
	}
	r, err := ctx.Eval(a)
	if err != nil {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintf(w, opts.verb, r)
	if !opts.roundtrip {
		return
	}
	b, err := exprtree.Parse(a.String())
	if err != nil {
		fmt.Fprintf(w, "reparsing %v: %v\n", a, err)
		return
	}
	s, err := ctx.Eval(b)
	if err != nil {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintf(w, "%v : "+opts.verb, b, s)
}

func infile(inname string, std bool) (io.Reader, error) {
	var f *os.File
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		f = in
	case inname == "-", std:
		f = os.Stdin
	}
	if f == nil {
		return nil, nil
	}
	return bufio.NewReader(f), nil
}
