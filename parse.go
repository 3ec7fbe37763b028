package exprtree

import "math/big"

// Expr is a parsed expression that can be evaluated with a context. It is
// immutable and safe to share between goroutines.
type Expr struct {
	// src is the text the expression was parsed from.
	src string
	// tokens is the token list of src.
	tokens []Token
	// root is the root of the tree.
	root Term
	// names is the sorted list of variable names used in the expression.
	names []string
}

// Parse tokenizes and builds an expression. Errors from tokenizing are
// *LexError; errors from building are the parse errors documented on Build.
func Parse(src string) (*Expr, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	root, err := Build(toks)
	if err != nil {
		return nil, err
	}
	ex := Expr{
		src:    src,
		tokens: toks,
		root:   root,
	}
	seen := make(map[string]bool)
	walk(root, func(t Term) {
		if v, ok := t.(Variable); ok && !seen[v.Name] {
			seen[v.Name] = true
			ex.names = append(ex.names, v.Name)
		}
	})
	sortstrs(ex.names)
	return &ex, nil
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// Build creates an expression tree from tokens produced by Tokenize. The tree
// is split at the weakest operator outside all brackets: the one with the
// lowest rank. Among binary operators of equal rank, the split is at the last,
// so that the earlier ones end up deeper and apply first. Each side is then
// built the same way.
//
// Errors are *BracketError for unbalanced brackets, *EmptyExpressionError for
// no tokens or empty brackets, *OperandError for an operator without its
// operands, and *TermError for terms with no operator between them.
func Build(tokens []Token) (Term, error) {
	if err := checkBrackets(tokens); err != nil {
		return nil, err
	}
	return build(tokens, Token{Col: endcol(tokens)})
}

// build creates the tree for a balanced token list. end is the token after
// toks in the source, or a token with empty text at the end of input.
func build(toks []Token, end Token) (Term, error) {
	// Redundant brackets never change the tree.
	for len(toks) >= 2 && toks[0].Kind == TokenOpen && closing(toks, 0) == len(toks)-1 {
		end = toks[len(toks)-1]
		toks = toks[1 : len(toks)-1]
	}
	if len(toks) == 0 {
		return nil, &EmptyExpressionError{Col: end.Col, End: end.Text}
	}
	k := weakest(toks)
	if k < 0 {
		if len(toks) > 1 {
			next := toks[nextterm(toks, 0)]
			return nil, &TermError{Col: next.Col, Text: next.Text}
		}
		return leaf(toks[0]), nil
	}
	tok := toks[k]
	op := tok.Op
	if op.Monovalent() {
		if k != 0 {
			return nil, &TermError{Col: tok.Col, Text: tok.Text}
		}
		return buildunary(toks, end)
	}
	if k == 0 {
		return nil, &OperandError{Col: tok.Col, Op: op.symbol, Right: false}
	}
	if k == len(toks)-1 {
		return nil, &OperandError{Col: tok.Col, Op: op.symbol, Right: true}
	}
	left, err := build(toks[:k], tok)
	if err != nil {
		return nil, err
	}
	right, err := build(toks[k+1:], end)
	if err != nil {
		return nil, err
	}
	return &Node{Op: op, Left: left, Right: right}, nil
}

// buildunary builds a monovalent operator at toks[0] and its operand, which is
// the next leaf or bracketed group and must be the last.
func buildunary(toks []Token, end Token) (Term, error) {
	tok := toks[0]
	if len(toks) == 1 {
		return nil, &OperandError{Col: tok.Col, Op: tok.Op.symbol, Right: true}
	}
	j := 2
	if toks[1].Kind == TokenOpen {
		j = closing(toks, 1) + 1
	}
	if j < len(toks) {
		return nil, &TermError{Col: toks[j].Col, Text: toks[j].Text}
	}
	arg, err := build(toks[1:j], end)
	if err != nil {
		return nil, err
	}
	return &Node{Op: tok.Op, Left: arg}, nil
}

// leaf converts a constant or variable token to a term.
func leaf(tok Token) Term {
	switch tok.Kind {
	case TokenConst:
		return Constant{Value: new(big.Int).Set(tok.Value)}
	case TokenVar:
		return Variable{Name: tok.Text}
	default:
		panic("exprtree: leaf from " + tok.String())
	}
}

// weakest finds the index of the operator at bracket depth zero with the
// lowest rank. Ties go to the rightmost binary operator, or to the leftmost
// monovalent one, which is the only one that could be valid. If there is no
// such operator, the result is -1.
func weakest(toks []Token) int {
	depth := 0
	k := -1
	for i, tok := range toks {
		switch tok.Kind {
		case TokenOpen:
			depth++
		case TokenClose:
			depth--
		case TokenOp:
			if depth != 0 {
				continue
			}
			if k < 0 || tok.Op.rank < toks[k].Op.rank || tok.Op.rank == toks[k].Op.rank && !tok.Op.Monovalent() {
				k = i
			}
		}
	}
	return k
}

// closing finds the index of the bracket closing the one at toks[i].
func closing(toks []Token, i int) int {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch toks[j].Kind {
		case TokenOpen:
			depth++
		case TokenClose:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	panic("exprtree: unbalanced brackets after check")
}

// nextterm finds the index of the term following the one starting at toks[i].
func nextterm(toks []Token, i int) int {
	if toks[i].Kind == TokenOpen {
		return closing(toks, i) + 1
	}
	return i + 1
}

// checkBrackets verifies that every bracket in toks is matched.
func checkBrackets(toks []Token) error {
	var open []Token
	for _, tok := range toks {
		switch tok.Kind {
		case TokenOpen:
			open = append(open, tok)
		case TokenClose:
			if len(open) == 0 {
				return &BracketError{Col: tok.Col, Right: tok.Text}
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) != 0 {
		tok := open[len(open)-1]
		return &BracketError{Col: tok.Col, Left: tok.Text}
	}
	return nil
}

// endcol gives the column just past the last token.
func endcol(toks []Token) int {
	if len(toks) == 0 {
		return 1
	}
	tok := toks[len(toks)-1]
	return tok.Col + len([]rune(tok.Text))
}

// Root returns a copy of the expression tree. Modifying it does not affect e.
func (e *Expr) Root() Term {
	return clone(e.root)
}

// Tokens returns a copy of the token list the expression was built from.
func (e *Expr) Tokens() []Token {
	toks := append(([]Token)(nil), e.tokens...)
	for i := range toks {
		if toks[i].Value != nil {
			toks[i].Value = new(big.Int).Set(toks[i].Value)
		}
	}
	return toks
}

// Source returns the text the expression was parsed from.
func (e *Expr) Source() string {
	return e.src
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String returns the canonical form of the expression: every binary operation
// in parentheses and every unary operand in parentheses. Parsing the result
// gives the same tree.
func (e *Expr) String() string {
	return e.root.String()
}
