package ast

import "github.com/InAnYan/loop/lang/token"

// UnaryOpType enumerates the unary operator kinds.
type UnaryOpType int

const (
	UnaryPlus UnaryOpType = iota
	UnaryNegate
	UnaryNot
)

// BinaryOpType enumerates the binary operator kinds, including the two
// short-circuit logical operators and the `is` type-test operator.
type BinaryOpType int

const (
	BinAdd BinaryOpType = iota
	BinSubtract
	BinMultiply
	BinDivide
	BinEqual
	BinNotEqual
	BinGreater
	BinGreaterEqual
	BinLess
	BinLessEqual
	BinLogicalAnd
	BinLogicalOr
	BinIs
)

// IntegerLiteral is a bare integer constant.
type IntegerLiteral struct {
	SpanVal token.Span
	Value   int64
}

func (*IntegerLiteral) expr()              {}
func (n *IntegerLiteral) Span() token.Span { return n.SpanVal }
func (n *IntegerLiteral) Walk(Visitor)     {}

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	SpanVal token.Span
	Value   bool
}

func (*BoolLiteral) expr()              {}
func (n *BoolLiteral) Span() token.Span { return n.SpanVal }
func (n *BoolLiteral) Walk(Visitor)     {}

// NullLiteral is the `null` literal.
type NullLiteral struct {
	SpanVal token.Span
}

func (*NullLiteral) expr()              {}
func (n *NullLiteral) Span() token.Span { return n.SpanVal }
func (n *NullLiteral) Walk(Visitor)     {}

// StringLiteral is a string constant.
type StringLiteral struct {
	SpanVal token.Span
	Value   string
}

func (*StringLiteral) expr()              {}
func (n *StringLiteral) Span() token.Span { return n.SpanVal }
func (n *StringLiteral) Walk(Visitor)     {}

// VarExpr is a bare name occurrence used as a value.
type VarExpr struct {
	Ident *Identifier
}

func (*VarExpr) expr()              {}
func (n *VarExpr) Span() token.Span { return n.Ident.Span() }
func (n *VarExpr) Walk(v Visitor)   { Walk(v, n.Ident) }

// Assignment writes Value to Target, which must be a VarExpr, GetAttrExpr
// or GetItemExpr (checked by the resolver).
type Assignment struct {
	SpanVal token.Span
	Target  Expr
	Value   Expr
}

func (*Assignment) expr()              {}
func (n *Assignment) Span() token.Span { return n.SpanVal }
func (n *Assignment) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Value)
}

// UnaryOp applies Op to Operand.
type UnaryOp struct {
	SpanVal token.Span
	Op      UnaryOpType
	Operand Expr
}

func (*UnaryOp) expr()              {}
func (n *UnaryOp) Span() token.Span { return n.SpanVal }
func (n *UnaryOp) Walk(v Visitor)   { Walk(v, n.Operand) }

// BinaryOp applies Op to Left and Right.
type BinaryOp struct {
	SpanVal     token.Span
	Op          BinaryOpType
	Left, Right Expr
}

func (*BinaryOp) expr()              {}
func (n *BinaryOp) Span() token.Span { return n.SpanVal }
func (n *BinaryOp) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

// CallExpr calls Callee with Args.
type CallExpr struct {
	SpanVal token.Span
	Callee  Expr
	Args    []Expr
}

func (*CallExpr) expr()              {}
func (n *CallExpr) Span() token.Span { return n.SpanVal }
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}

// GetAttrExpr reads Name off Obj (`obj.name`).
type GetAttrExpr struct {
	SpanVal token.Span
	Obj     Expr
	Name    *Identifier
}

func (*GetAttrExpr) expr()              {}
func (n *GetAttrExpr) Span() token.Span { return n.SpanVal }
func (n *GetAttrExpr) Walk(v Visitor) {
	Walk(v, n.Obj)
	Walk(v, n.Name)
}

// GetItemExpr indexes Obj by Index (`obj[i1][i2]…`, each index compiled in
// order and combined into one GetItem instruction by the emitter).
type GetItemExpr struct {
	SpanVal token.Span
	Obj     Expr
	Index   []Expr
}

func (*GetItemExpr) expr()              {}
func (n *GetItemExpr) Span() token.Span { return n.SpanVal }
func (n *GetItemExpr) Walk(v Visitor) {
	Walk(v, n.Obj)
	for _, i := range n.Index {
		Walk(v, i)
	}
}

// DictionaryPair is one key/value entry of a DictionaryLiteral.
type DictionaryPair struct {
	Key, Value Expr
}

// DictionaryLiteral builds a dictionary from an ordered list of pairs.
type DictionaryLiteral struct {
	SpanVal token.Span
	Pairs   []DictionaryPair
}

func (*DictionaryLiteral) expr()              {}
func (n *DictionaryLiteral) Span() token.Span { return n.SpanVal }
func (n *DictionaryLiteral) Walk(v Visitor) {
	for _, p := range n.Pairs {
		Walk(v, p.Key)
		Walk(v, p.Value)
	}
}

// ListLiteral builds a list from an ordered list of elements.
type ListLiteral struct {
	SpanVal  token.Span
	Elements []Expr
}

func (*ListLiteral) expr()              {}
func (n *ListLiteral) Span() token.Span { return n.SpanVal }
func (n *ListLiteral) Walk(v Visitor) {
	for _, e := range n.Elements {
		Walk(v, e)
	}
}
