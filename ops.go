package exprtree

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Operators contains the runes which are single-character operators. The
// remaining operators are the keywords sin, cos, and exp.
const Operators = "^*/%+-"

// Operator is an entry in the fixed operator vocabulary. Operators are only
// obtained from Tokenize or LookupOperator and are never modified.
type Operator struct {
	symbol string
	arity  int
	rank   int
	// apply sets r to the operator's result. r may alias x. y is nil for
	// monovalent operators.
	apply func(r, x, y *big.Float) error
}

// Symbol returns the operator as it is written in source.
func (op *Operator) Symbol() string {
	return op.symbol
}

// Arity returns the number of operands: 1 for sin, cos, and exp, otherwise 2.
func (op *Operator) Arity() int {
	return op.arity
}

// Rank returns the precedence rank. Higher ranks bind tighter.
func (op *Operator) Rank() int {
	return op.rank
}

// Monovalent is shorthand for op.Arity() == 1.
func (op *Operator) Monovalent() bool {
	return op.arity == 1
}

func (op *Operator) String() string {
	return op.symbol
}

var operators = [...]Operator{
	{symbol: "+", arity: 2, rank: 1, apply: add},
	{symbol: "-", arity: 2, rank: 1, apply: sub},
	{symbol: "%", arity: 2, rank: 2, apply: mod},
	{symbol: "*", arity: 2, rank: 3, apply: mul},
	{symbol: "/", arity: 2, rank: 3, apply: quo},
	{symbol: "^", arity: 2, rank: 4, apply: pow},
	{symbol: "sin", arity: 1, rank: 5, apply: sin},
	{symbol: "cos", arity: 1, rank: 5, apply: cos},
	{symbol: "exp", arity: 1, rank: 5, apply: exp},
}

// longestKeyword is the length in runes of the longest operator symbol. The
// lexer stops looking for keywords once a run of letters is longer.
var longestKeyword = func() int {
	n := 0
	for _, op := range operators {
		if len(op.symbol) > n {
			n = len(op.symbol)
		}
	}
	return n
}()

// LookupOperator returns the operator with the given symbol, or nil if there
// is none.
func LookupOperator(symbol string) *Operator {
	for i := range operators {
		if operators[i].symbol == symbol {
			return &operators[i]
		}
	}
	return nil
}

func add(r, x, y *big.Float) error {
	r.Add(x, y)
	return nil
}

func sub(r, x, y *big.Float) error {
	r.Sub(x, y)
	return nil
}

func mul(r, x, y *big.Float) error {
	r.Mul(x, y)
	return nil
}

func quo(r, x, y *big.Float) error {
	if y.Sign() == 0 {
		return &DivisionError{Op: "/"}
	}
	if x.IsInf() && y.IsInf() {
		return &DomainError{X: dup(y), Arg: 2, Func: "/"}
	}
	r.Quo(x, y)
	return nil
}

// mod is the floored modulus: the result has the sign of the divisor. Both
// operands must be integers.
func mod(r, x, y *big.Float) error {
	if y.Sign() == 0 {
		return &DivisionError{Op: "%"}
	}
	if !x.IsInt() {
		return &DomainError{X: dup(x), Arg: 1, Func: "%"}
	}
	if !y.IsInt() {
		return &DomainError{X: dup(y), Arg: 2, Func: "%"}
	}
	a, _ := x.Int(nil)
	b, _ := y.Int(nil)
	// big.Int.Mod is Euclidean, so 0 <= a < |b| here.
	a.Mod(a, b)
	if a.Sign() != 0 && b.Sign() < 0 {
		a.Add(a, b)
	}
	r.SetInt(a)
	return nil
}

func pow(r, x, y *big.Float) error {
	switch {
	case y.Sign() == 0:
		r.SetInt64(1)
		return nil
	case x.IsInf(), y.IsInf():
		return powf64(r, x, y)
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return &DivisionError{Op: "^"}
		}
		r.SetInt64(0)
		return nil
	}
	if n, acc := y.Int64(); acc == big.Exact {
		powint(r, x, n)
		return nil
	}
	// Negative bases only have real powers for integer exponents.
	if x.Sign() < 0 && !y.IsInt() {
		return &DomainError{X: dup(x), Arg: 1, Func: "^"}
	}
	neg := false
	if x.Sign() < 0 {
		n, _ := y.Int(nil)
		neg = n.Bit(0) == 1
	}
	ax := new(big.Float).Abs(x)
	switch s := powscale(ax, y); {
	case s > big.MaxExp:
		r.SetInf(neg)
	case s < big.MinExp:
		r.SetInt64(0)
	default:
		bigfloat.Pow(r, ax, y)
		if neg {
			r.Neg(r)
		}
	}
	return nil
}

// powscale estimates log2(x^y) for positive x.
func powscale(x, y *big.Float) float64 {
	var m big.Float
	e := x.MantExp(&m)
	f, _ := m.Float64()
	g, _ := y.Float64()
	return g * (float64(e) + math.Log2(f))
}

// powint raises x to an integer power by repeated squaring, so that integer
// powers of integers are exact within the precision of r.
func powint(r, x *big.Float, n int64) {
	neg := n < 0
	if neg {
		n = -n
	}
	b := new(big.Float).SetPrec(r.Prec()).Set(x)
	acc := new(big.Float).SetPrec(r.Prec()).SetInt64(1)
	for u := uint64(n); u > 0; u >>= 1 {
		if u&1 != 0 {
			acc.Mul(acc, b)
		}
		if u > 1 {
			b.Mul(b, b)
		}
	}
	if neg {
		acc.Quo(big.NewFloat(1), acc)
	}
	r.Set(acc)
}

// powf64 handles exponentiation involving infinities, which bigfloat does not.
func powf64(r, x, y *big.Float) error {
	a, _ := x.Float64()
	b, _ := y.Float64()
	v := math.Pow(a, b)
	if math.IsNaN(v) {
		return &DomainError{X: dup(x), Arg: 1, Func: "^"}
	}
	r.SetFloat64(v)
	return nil
}

// expLimit bounds arguments to exp. Beyond it, the result's exponent does not
// fit in a big.Float.
var expLimit = big.NewFloat(1e9)

func exp(r, x, _ *big.Float) error {
	switch {
	case x.IsInf() || x.Cmp(expLimit) > 0:
		if x.Signbit() {
			r.SetInt64(0)
		} else {
			r.SetInf(false)
		}
		return nil
	case new(big.Float).Neg(x).Cmp(expLimit) > 0:
		r.SetInt64(0)
		return nil
	}
	in := dup(x)
	bigfloat.Exp(r, in)
	return nil
}

// sin and cos are computed to float64 accuracy. bigfloat has no trig.
func sin(r, x, _ *big.Float) error {
	return trig(r, x, math.Sin, "sin")
}

func cos(r, x, _ *big.Float) error {
	return trig(r, x, math.Cos, "cos")
}

func trig(r, x *big.Float, f func(float64) float64, name string) error {
	a, _ := x.Float64()
	v := f(a)
	if math.IsNaN(v) {
		return &DomainError{X: dup(x), Arg: 1, Func: name}
	}
	r.SetFloat64(v)
	return nil
}

func dup(x *big.Float) *big.Float {
	return new(big.Float).Copy(x)
}

// DomainError is an error returned when an operator is applied to operands
// outside its domain, such as a fractional power of a negative number. When
// the error comes from an undefined big.Float operation like Inf-Inf, X is nil
// and DomainError unwraps to the big.ErrNaN.
type DomainError struct {
	// X is the out-of-domain operand.
	X *big.Float
	// Arg is the 1-based index of the operand.
	Arg int
	// Func is the operator symbol.
	Func string
	// Err is the arithmetic fault, if any.
	Err error
}

func (err *DomainError) Error() string {
	if err.X == nil {
		if err.Err != nil && err.Err.Error() != "" {
			return "undefined result: " + err.Err.Error()
		}
		return "undefined result"
	}
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (operand " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err *DomainError) Unwrap() error {
	return err.Err
}

func (err *DomainError) Is(target error) bool {
	return target == ErrEval
}

// DivisionError is an error returned for a zero divisor in / or %, or for
// raising zero to a negative power.
type DivisionError struct {
	// Op is the operator symbol.
	Op string
}

func (err *DivisionError) Error() string {
	return "division by zero in " + strconv.Quote(err.Op)
}

func (err *DivisionError) Is(target error) bool {
	return target == ErrEval
}
