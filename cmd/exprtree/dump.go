package main

import (
	"github.com/alecthomas/repr"

	"github.com/zephyrtronium/exprtree"
)

// dumpNode mirrors exprtree.Node with plain values so that repr shows the
// shape of the tree rather than the internals of math/big.
type dumpNode struct {
	Op    string
	Left  interface{}
	Right interface{}
}

type dumpVar string

func dump(t exprtree.Term) string {
	return repr.String(mirror(t), repr.Indent("  "))
}

func mirror(t exprtree.Term) interface{} {
	switch t := t.(type) {
	case exprtree.Constant:
		return t.Value.String()
	case exprtree.Variable:
		return dumpVar(t.Name)
	case *exprtree.Node:
		n := dumpNode{Op: t.Op.Symbol(), Left: mirror(t.Left)}
		if t.Right != nil {
			n.Right = mirror(t.Right)
		}
		return n
	default:
		panic("exprtree: unknown term type")
	}
}
