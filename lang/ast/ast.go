// Package ast defines the tagged-variant abstract syntax tree produced by
// lang/parser, mutated in place by lang/lower and lang/resolver, and
// consumed by lang/compiler. There are no parent pointers or cycles: every
// reference from a use site to its binding is indirected through an
// Identifier's (RefType, RefIndex) pair, filled in by the resolver.
package ast

import "github.com/InAnYan/loop/lang/token"

// Node is any AST node.
type Node interface {
	// Span reports the node's source extent.
	Span() token.Span
	// Walk visits this node's direct children, in order, with v.
	Walk(v Visitor)
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	// BlockEnding reports whether this statement may only appear last in a
	// block (return, break, continue, throw).
	BlockEnding() bool
	stmt()
}

// Pattern is a binding-target pattern: IdentifierPattern or ListPattern.
type Pattern interface {
	Node
	pattern()
}
