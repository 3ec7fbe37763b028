package exprtree

import (
	"errors"
	"strconv"
)

// Error classes. Every error returned by this package reports itself as
// exactly one of these through errors.Is.
var (
	// ErrLex classifies errors from tokenizing.
	ErrLex = errors.New("exprtree: lex error")
	// ErrParse classifies errors from building a tree out of tokens.
	ErrParse = errors.New("exprtree: parse error")
	// ErrEval classifies errors from evaluating a tree.
	ErrEval = errors.New("exprtree: eval error")
)

// BracketError is an error indicating unbalanced brackets in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the unmatched bracket.
	Col int
	// Left is the open bracket with no close bracket, if any.
	Left string
	// Right is the close bracket with no open bracket, if any.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Is(target error) bool {
	return target == ErrParse
}

// OperandError is an error indicating an operator missing an operand. It
// implements InputError.
type OperandError struct {
	// Col is the position of the operator.
	Col int
	// Op is the operator symbol.
	Op string
	// Right is true if the missing operand is the one after the operator.
	Right bool
}

func (err *OperandError) Error() string {
	side := "left"
	if err.Right {
		side = "right"
	}
	return errpos(err.Col, "operator "+strconv.Quote(err.Op)+" missing "+side+" operand")
}

func (err *OperandError) Pos() int {
	return err.Col
}

func (err *OperandError) Is(target error) bool {
	return target == ErrParse
}

// TermError is an error indicating two terms with no operator between them,
// such as "(1)(2)" or "2sin(x)". It implements InputError.
type TermError struct {
	// Col is the position of the second term.
	Col int
	// Text is the first token of the second term.
	Text string
}

func (err *TermError) Error() string {
	return errpos(err.Col, "missing operator before "+strconv.Quote(err.Text))
}

func (err *TermError) Pos() int {
	return err.Col
}

func (err *TermError) Is(target error) bool {
	return target == ErrParse
}

// EmptyExpressionError is an error indicating an empty input or an empty pair
// of brackets.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression, or the empty string at
	// the end of the input.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *EmptyExpressionError) Is(target error) bool {
	return target == ErrParse
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the column of the rune that caused the error.
	Pos() int
}

var (
	_ InputError = (*BracketError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*TermError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LexError)(nil)
)
