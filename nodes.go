package exprtree

import (
	"math/big"
	"strings"
)

// Term is a node or leaf of an expression tree. Its implementations are
// Constant, Variable, and *Node.
type Term interface {
	// String returns the canonical form of the term.
	String() string

	fmt(b *strings.Builder)
	eval(ctx *Context) error
}

// Constant is a leaf holding a non-negative integer literal. Constants built
// by Parse own their values.
type Constant struct {
	Value *big.Int
}

// Variable is a leaf naming a value supplied at evaluation.
type Variable struct {
	Name string
}

// Node applies an operator to its children. Right is nil exactly when Op is
// monovalent.
type Node struct {
	Op    *Operator
	Left  Term
	Right Term
}

var (
	_ Term = Constant{}
	_ Term = Variable{}
	_ Term = (*Node)(nil)
)

func (c Constant) String() string {
	return c.Value.String()
}

func (c Constant) fmt(b *strings.Builder) {
	b.WriteString(c.Value.String())
}

func (v Variable) String() string {
	return v.Name
}

func (v Variable) fmt(b *strings.Builder) {
	b.WriteString(v.Name)
}

func (n *Node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the fully parenthesized form: (l+r) for binary operators and
// sin(x) for unary ones.
func (n *Node) fmt(b *strings.Builder) {
	if n.Op.Monovalent() {
		b.WriteString(n.Op.symbol)
		b.WriteByte('(')
		n.Left.fmt(b)
		b.WriteByte(')')
		return
	}
	b.WriteByte('(')
	n.Left.fmt(b)
	b.WriteString(n.Op.symbol)
	n.Right.fmt(b)
	b.WriteByte(')')
}

// clone makes a deep copy of t.
func clone(t Term) Term {
	switch t := t.(type) {
	case Constant:
		return Constant{Value: new(big.Int).Set(t.Value)}
	case *Node:
		n := &Node{Op: t.Op, Left: clone(t.Left)}
		if t.Right != nil {
			n.Right = clone(t.Right)
		}
		return n
	default:
		return t
	}
}

// walk calls f on t and each of its descendants in prefix order.
func walk(t Term, f func(Term)) {
	f(t)
	if n, ok := t.(*Node); ok {
		walk(n.Left, f)
		if n.Right != nil {
			walk(n.Right, f)
		}
	}
}
