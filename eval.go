package exprtree

import (
	"errors"
	"math"
	"math/big"
	"strconv"
)

// Context is a context for evaluating expressions. It holds variable values
// and the precision of calculations. It is not safe to use a Context
// concurrently; Clone one per goroutine instead.
type Context struct {
	stack []*big.Float
	names map[string]*big.Float
	prec  uint
}

// DefaultPrec is the precision of a Context created without Prec.
const DefaultPrec = 64

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  *big.Float
	}
	varsopt   map[string]*big.Float
	floatsopt map[string]float64
	precopt   uint
)

func (varopt) ctxOption()    {}
func (varsopt) ctxOption()   {}
func (floatsopt) ctxOption() {}
func (precopt) ctxOption()   {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val *big.Float) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]*big.Float) ContextOption {
	return varsopt(vars)
}

// SetFloats sets the values of any number of variables in the context from
// float64s. Applying it panics if any value is NaN.
func SetFloats(vars map[string]float64) ContextOption {
	return floatsopt(vars)
}

// Prec sets the precision of calculations in bits. Zero selects DefaultPrec.
// sin and cos are the exception: they are computed in float64 whatever the
// precision, so their operands must be finite as float64 values, which is
// magnitudes below about 1.8e308. Larger operands give a *DomainError.
func Prec(prec uint) ContextOption {
	if prec == 0 {
		prec = DefaultPrec
	}
	return precopt(prec)
}

// NewContext creates a new evaluation context.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{prec: DefaultPrec}
	return ctx.Clone(opts...)
}

// Eval evaluates an expression and returns the result. If a variable has no
// value in ctx or an operand is outside its operator's domain, the result is
// nil and the error reports it.
func (ctx *Context) Eval(e *Expr) (*big.Float, error) {
	return ctx.EvalTerm(e.root)
}

// EvalTerm evaluates an expression tree. Errors are *NameError, *DivisionError,
// or *DomainError.
func (ctx *Context) EvalTerm(t Term) (r *big.Float, err error) {
	if len(ctx.stack) != 0 {
		panic("exprtree: Eval during Eval")
	}
	defer func() {
		ctx.stack = ctx.stack[:0]
		p := recover()
		if p == nil {
			return
		}
		// math/big panics on undefined results like Inf-Inf.
		nan, ok := p.(big.ErrNaN)
		if !ok {
			panic(p)
		}
		r, err = nil, &DomainError{Err: nan}
	}()
	if err := t.eval(ctx); err != nil {
		return nil, err
	}
	if len(ctx.stack) != 1 {
		panic("exprtree: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad tree?)")
	}
	return new(big.Float).Copy(ctx.stack[0]), nil
}

// Set sets the value of a variable. Returns ctx for chaining. Calling Set
// while the context is being used to evaluate an expression panics.
func (ctx *Context) Set(name string, value *big.Float) *Context {
	if len(ctx.stack) != 0 {
		panic("exprtree: Set on in-use context")
	}
	if ctx.names == nil {
		ctx.names = make(map[string]*big.Float)
	}
	ctx.names[name] = new(big.Float).SetPrec(ctx.prec).Set(value)
	return ctx
}

// Lookup returns a copy of the value of a variable. If there is no such
// variable in the context, then the result is nil.
func (ctx *Context) Lookup(name string) *big.Float {
	v := ctx.names[name]
	if v == nil {
		return nil
	}
	return new(big.Float).Copy(v)
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Clone creates a copy of a context and applies options to it. The returned
// context shares nothing with ctx.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		stack: make([]*big.Float, 0, cap(ctx.stack)),
		names: make(map[string]*big.Float, len(ctx.names)),
		prec:  ctx.prec,
	}
	// Loop backward so we apply the last precision.
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(precopt); ok {
			n.prec = uint(p)
			break
		}
	}
	// Values are never modified in place, so pointers can be shared when the
	// precision is the same.
	if n.prec == ctx.prec {
		for name, val := range ctx.names {
			n.names[name] = val
		}
	} else {
		for name, val := range ctx.names {
			n.names[name] = new(big.Float).SetPrec(n.prec).Set(val)
		}
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.name] = new(big.Float).SetPrec(n.prec).Set(opt.val)
		case varsopt:
			for k, v := range opt {
				n.names[k] = new(big.Float).SetPrec(n.prec).Set(v)
			}
		case floatsopt:
			for k, v := range opt {
				if math.IsNaN(v) {
					panic("exprtree: NaN value for variable " + strconv.Quote(k))
				}
				n.names[k] = new(big.Float).SetPrec(n.prec).SetFloat64(v)
			}
		case precopt:
			// Already done. Do nothing.
		default:
			panic("exprtree: unknown option type")
		}
	}
	return &n
}

// push ensures a settable value on the stack.
func (ctx *Context) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Float).SetPrec(ctx.prec)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Float).SetPrec(ctx.prec))
	}
	return ctx.stack[len(ctx.stack)-1]
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future node evaluations.
func (ctx *Context) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *Context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

func (c Constant) eval(ctx *Context) error {
	ctx.push().SetInt(c.Value)
	return nil
}

func (v Variable) eval(ctx *Context) error {
	x := ctx.names[v.Name]
	if x == nil {
		return &NameError{Name: v.Name}
	}
	ctx.push().Set(x)
	return nil
}

// eval evaluates the children left to right, then replaces them on the stack
// with the operator's result.
func (n *Node) eval(ctx *Context) error {
	if err := n.Left.eval(ctx); err != nil {
		return err
	}
	if n.Right == nil {
		x := ctx.top()
		return n.Op.apply(x, x, nil)
	}
	if err := n.Right.eval(ctx); err != nil {
		return err
	}
	y := ctx.pop()
	x := ctx.top()
	return n.Op.apply(x, x, y)
}

// Evaluate evaluates the expression with float64 variable values. It uses a
// fresh context at DefaultPrec, so it is safe to call concurrently.
func (e *Expr) Evaluate(vars map[string]float64) (float64, error) {
	for k, v := range vars {
		if math.IsNaN(v) {
			return 0, &DomainError{Err: errors.New("NaN value for variable " + strconv.Quote(k))}
		}
	}
	r, err := NewContext(SetFloats(vars)).Eval(e)
	if err != nil {
		return 0, err
	}
	f, _ := r.Float64()
	return f, nil
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (*big.Float, error) {
	a, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return NewContext(opts...).Eval(a)
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation context.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

func (err *NameError) Is(target error) bool {
	return target == ErrEval
}
