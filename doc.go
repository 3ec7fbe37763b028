// Package exprtree parses arithmetic expressions into binary expression trees
// and evaluates them.
//
// The grammar is deliberately small. Constants are non-negative integers
// written with decimal digits of any script (the canonical form uses ASCII),
// variables are runs of letters, and the operators are + - % * / ^ (all
// binary) and sin, cos, exp (unary). Whitespace is ignored entirely, so
// "s in(x)" is the same as "sin(x)".
//
// Trees are built by repeatedly splitting the token list at its weakest
// operator: the least nested one with the lowest precedence. When several
// binary operators share that precedence, the split is at the last, which
// leaves the leftmost deepest in the tree. Every binary operator is therefore
// left-associative, including ^, so "2^3^2" is (2^3)^2 = 64.
//
// The String form of a tree is fully parenthesized and parses back to the
// same tree.
package exprtree
