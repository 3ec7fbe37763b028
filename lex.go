package exprtree

import (
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// Token is a lexical unit of an expression.
type Token struct {
	// Kind is the type of the token.
	Kind TokenKind
	// Text is the token as it appears in the source, minus whitespace.
	Text string
	// Col is the 1-based rune column of the token's first character in the
	// original source.
	Col int
	// Value is the value of a TokenConst.
	Value *big.Int
	// Op is the operator of a TokenOp.
	Op *Operator
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Col)
}

// TokenKind is the type of a token.
type TokenKind int

const (
	tokenNone TokenKind = iota
	// TokenConst is a non-negative integer literal.
	TokenConst
	// TokenVar is a variable name.
	TokenVar
	// TokenOp is an operator.
	TokenOp
	// TokenOpen is an open bracket.
	TokenOpen
	// TokenClose is a close bracket.
	TokenClose
)

func (k TokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case TokenConst:
		return "Const"
	case TokenVar:
		return "Var"
	case TokenOp:
		return "Op"
	case TokenOpen:
		return "Open"
	case TokenClose:
		return "Close"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

type lexer struct {
	// src is the input with whitespace removed.
	src []rune
	// cols holds the original column of each rune in src.
	cols []int
	pos  int
}

func lex(s string) *lexer {
	l := lexer{
		src:  make([]rune, 0, len(s)),
		cols: make([]int, 0, len(s)),
	}
	col := 0
	for _, r := range s {
		col++
		if unicode.IsSpace(r) {
			continue
		}
		l.src = append(l.src, r)
		l.cols = append(l.cols, col)
	}
	return &l
}

// Tokenize splits an expression into tokens. Whitespace is removed before
// scanning, so it never separates tokens. The error, if any, is a *LexError.
func Tokenize(src string) ([]Token, error) {
	l := lex(src)
	var toks []Token
	for l.pos < len(l.src) {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

// next scans the token at the cursor. There must be input remaining.
func (l *lexer) next() (Token, error) {
	r := l.src[l.pos]
	tok := Token{Col: l.cols[l.pos]}
	switch {
	case unicode.IsLetter(r):
		return l.scanWord(tok), nil
	case isDigit(r):
		return l.scanNum(tok)
	case r == '(':
		tok.Kind = TokenOpen
	case r == ')':
		tok.Kind = TokenClose
	case strings.ContainsRune(Operators, r):
		tok.Kind = TokenOp
		tok.Op = LookupOperator(string(r))
	default:
		return tok, &LexError{Text: string(r), Col: tok.Col}
	}
	tok.Text = string(r)
	l.pos++
	return tok, nil
}

// scanWord scans a run of letters. As soon as the letters so far spell an
// operator keyword, the keyword is the token, even if more letters follow.
func (l *lexer) scanWord(tok Token) Token {
	start := l.pos
	for l.pos < len(l.src) && unicode.IsLetter(l.src[l.pos]) {
		l.pos++
		if l.pos-start > longestKeyword {
			continue
		}
		if op := LookupOperator(string(l.src[start:l.pos])); op != nil {
			tok.Kind = TokenOp
			tok.Text = op.symbol
			tok.Op = op
			return tok
		}
	}
	tok.Kind = TokenVar
	tok.Text = string(l.src[start:l.pos])
	return tok
}

func (l *lexer) scanNum(tok Token) (Token, error) {
	start := l.pos
	v := new(big.Int)
	ten := big.NewInt(10)
	var d big.Int
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		d.SetInt64(digitValue(l.src[l.pos]))
		v.Mul(v, ten).Add(v, &d)
		l.pos++
	}
	if l.pos < len(l.src) && unicode.IsLetter(l.src[l.pos]) {
		return tok, &LexError{
			Text: string(l.src[start : l.pos+1]),
			Kind: "number",
			Col:  l.cols[l.pos],
		}
	}
	tok.Kind = TokenConst
	tok.Text = string(l.src[start:l.pos])
	tok.Value = v
	return tok, nil
}

// isDigit reports whether r is a decimal digit in any script.
func isDigit(r rune) bool {
	return unicode.IsDigit(r)
}

// digitValue gives the value of a decimal digit. Unicode encodes decimal
// digits in contiguous runs of ten, from zero to nine.
func digitValue(r rune) int64 {
	z := r
	for unicode.IsDigit(z - 1) {
		z--
	}
	return int64(r-z) % 10
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is "number" for a number followed directly by a letter, or the
	// empty string for a rune that starts no token.
	Kind string
	// Col is the column of the invalid rune.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "unknown operator or character at " + pos + ": " + strconv.Quote(err.Text)
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text + " (a number must be followed by an operator or a bracket)"
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Is(target error) bool {
	return target == ErrLex
}
