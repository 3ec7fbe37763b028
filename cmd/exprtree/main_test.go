package main

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/exprtree"
)

func TestVarname(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"x", "x", true},
		{" alpha ", "alpha", true},
		{"x y", "xy", true},
		{"π", "π", true},
		{"", "", false},
		{"1", "", false},
		{"sin", "", false},
		{"x+y", "", false},
		{"(x)", "", false},
		{"$", "", false},
	}
	for _, c := range cases {
		got, err := varname(c.in)
		if c.ok {
			require.NoError(t, err, "%q", c.in)
			require.Equal(t, c.want, got)
		} else {
			require.Error(t, err, "%q gave %q", c.in, got)
		}
	}
}

func TestMirror(t *testing.T) {
	a, err := exprtree.Parse("sin(x)*2-y")
	require.NoError(t, err)
	want := dumpNode{
		Op: "-",
		Left: dumpNode{
			Op:    "*",
			Left:  dumpNode{Op: "sin", Left: dumpVar("x")},
			Right: "2",
		},
		Right: dumpVar("y"),
	}
	if diff := cmp.Diff(want, mirror(a.Root())); diff != "" {
		t.Errorf("wrong mirror (-want +got):\n%s", diff)
	}
	d := dump(a.Root())
	for _, s := range []string{`"-"`, `"*"`, `"sin"`, `"x"`, `"2"`, `"y"`} {
		require.Contains(t, d, s)
	}
}

func TestReport(t *testing.T) {
	ctx := exprtree.NewContext(exprtree.SetVar("x", big.NewFloat(2)))
	cases := []struct {
		name string
		src  string
		opts options
		want string
	}{
		{"plain", "x*3", options{verb: "%g\n"}, "6\n"},
		{"echo", "x * 3", options{verb: "%g\n", echo: true}, "(x*3) : 6\n"},
		{"roundtrip", "x*3+1", options{verb: "%g\n", roundtrip: true}, "7\n((x*3)+1) : 7\n"},
		{"tokens", "x+1", options{verb: "%g\n", tokens: true}, "[Var:x@1 Op:+@2 Const:1@3]\n3\n"},
		{"verb", "1/4", options{verb: "%.3f\n"}, "0.250\n"},
		{"error", "y", options{verb: "%g\n", echo: true}, `y : undefined variable: "y"` + "\n"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			a, err := exprtree.Parse(c.src)
			require.NoError(t, err)
			var b bytes.Buffer
			report(&b, ctx, a, c.opts)
			require.Equal(t, c.want, b.String())
		})
	}
}

func TestREPL(t *testing.T) {
	in := strings.Join([]string{
		"x = 2",
		"x*3",
		"",
		"y = (",
		"q = 1/0",
		"sin = 1",
		"x",
	}, "\n")
	want := strings.Join([]string{
		"> x = 2",
		"> 6",
		"> > 2: open bracket ( with no close bracket",
		`> division by zero in "/"`,
		`> cannot bind "sin": not a variable name`,
		"> 2",
		"> ",
	}, "\n") + "\n"
	var out bytes.Buffer
	repl(exprtree.NewContext(), strings.NewReader(in), &out, options{verb: "%g\n"})
	require.Equal(t, want, out.String())
}
