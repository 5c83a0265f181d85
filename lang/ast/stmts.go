package ast

import "github.com/InAnYan/loop/lang/token"

// BlockLocal records, for one binding popped at the end of a BlockStmt,
// whether it was captured by a nested closure. The resolver records one
// entry per binding introduced directly in the block, in pop order (the
// last introduced binding first); the emitter walks them in that order at
// block exit, emitting CloseUpvalue for captured slots and Pop otherwise.
type BlockLocal struct {
	IsCaptured bool
}

// UpvalueDesc is one entry of a function's upvalue list: either a direct
// capture of a local slot in the immediately enclosing function (IsLocal
// true) or a forwarded capture of one of that function's own upvalues.
type UpvalueDesc struct {
	Index   int
	IsLocal bool
}

// PrintStmt evaluates Value and prints it.
type PrintStmt struct {
	SpanVal token.Span
	Value   Expr
}

func (*PrintStmt) stmt()              {}
func (*PrintStmt) BlockEnding() bool  { return false }
func (n *PrintStmt) Span() token.Span { return n.SpanVal }
func (n *PrintStmt) Walk(v Visitor)   { Walk(v, n.Value) }

// ExprStmt evaluates Value and discards the result.
type ExprStmt struct {
	SpanVal token.Span
	Value   Expr
}

func (*ExprStmt) stmt()              {}
func (*ExprStmt) BlockEnding() bool  { return false }
func (n *ExprStmt) Span() token.Span { return n.SpanVal }
func (n *ExprStmt) Walk(v Visitor)   { Walk(v, n.Value) }

// VarDecl declares a mutable binding. Init may be nil (binds null).
type VarDecl struct {
	SpanVal token.Span
	Export  bool
	Target  Pattern
	Init    Expr
}

func (*VarDecl) stmt()              {}
func (*VarDecl) BlockEnding() bool  { return false }
func (n *VarDecl) Span() token.Span { return n.SpanVal }
func (n *VarDecl) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Init)
}

// LetDecl declares a final (non-reassignable) binding. The resolver
// enforces finality; lowering-after demotes every surviving LetDecl to a
// VarDecl once that check has run.
type LetDecl struct {
	SpanVal token.Span
	Export  bool
	Target  Pattern
	Init    Expr
}

func (*LetDecl) stmt()              {}
func (*LetDecl) BlockEnding() bool  { return false }
func (n *LetDecl) Span() token.Span { return n.SpanVal }
func (n *LetDecl) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Init)
}

// BlockStmt is a brace-delimited sequence of statements. Locals is filled
// in by the resolver at block-exit time (see BlockLocal).
type BlockStmt struct {
	SpanVal token.Span
	Stmts   []Stmt
	Locals  []BlockLocal
}

func (*BlockStmt) stmt()              {}
func (*BlockStmt) BlockEnding() bool  { return false }
func (n *BlockStmt) Span() token.Span { return n.SpanVal }
func (n *BlockStmt) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	SpanVal token.Span
	Cond    Expr
	Then    *BlockStmt
	Else    *BlockStmt // nil if absent
}

func (*IfStmt) stmt()              {}
func (*IfStmt) BlockEnding() bool  { return false }
func (n *IfStmt) Span() token.Span { return n.SpanVal }
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}

// WhileStmt loops Body while Cond holds.
type WhileStmt struct {
	SpanVal token.Span
	Cond    Expr
	Body    *BlockStmt
}

func (*WhileStmt) stmt()              {}
func (*WhileStmt) BlockEnding() bool  { return false }
func (n *WhileStmt) Span() token.Span { return n.SpanVal }
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}

// FuncDecl declares a named function. Upvalues is filled in by the
// resolver.
type FuncDecl struct {
	SpanVal  token.Span
	Export   bool
	Name     *Identifier
	Params   []*Identifier
	Body     *BlockStmt
	Upvalues []UpvalueDesc
}

func (*FuncDecl) stmt()              {}
func (*FuncDecl) BlockEnding() bool  { return false }
func (n *FuncDecl) Span() token.Span { return n.SpanVal }
func (n *FuncDecl) Walk(v Visitor) {
	Walk(v, n.Name)
	for _, p := range n.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
}

// ReturnStmt returns Value from the enclosing function. Value is nil for
// a bare `return;`.
type ReturnStmt struct {
	SpanVal token.Span
	Value   Expr
}

func (*ReturnStmt) stmt()              {}
func (*ReturnStmt) BlockEnding() bool  { return true }
func (n *ReturnStmt) Span() token.Span { return n.SpanVal }
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}

// Method is one method of a ClassDecl; it resolves and compiles like a
// FuncDecl but is never itself a top-level binding.
type Method struct {
	SpanVal  token.Span
	Name     *Identifier
	Params   []*Identifier
	Body     *BlockStmt
	Upvalues []UpvalueDesc
}

func (n *Method) Span() token.Span { return n.SpanVal }
func (n *Method) Walk(v Visitor) {
	Walk(v, n.Name)
	for _, p := range n.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
}

// ClassDecl declares a class with an optional parent and an ordered list
// of methods.
type ClassDecl struct {
	SpanVal token.Span
	Export  bool
	Name    *Identifier
	Parent  *Identifier // nil if absent
	Methods []*Method
}

func (*ClassDecl) stmt()              {}
func (*ClassDecl) BlockEnding() bool  { return false }
func (n *ClassDecl) Span() token.Span { return n.SpanVal }
func (n *ClassDecl) Walk(v Visitor) {
	Walk(v, n.Name)
	if n.Parent != nil {
		Walk(v, n.Parent)
	}
	for _, m := range n.Methods {
		Walk(v, m)
	}
}

// TryStmt runs Try; if it throws, the thrown value is bound to CatchName
// (final, one leading synthetic local slot on Catch) and Catch runs.
type TryStmt struct {
	SpanVal   token.Span
	Try       *BlockStmt
	CatchName *Identifier
	Catch     *BlockStmt
}

func (*TryStmt) stmt()              {}
func (*TryStmt) BlockEnding() bool  { return false }
func (n *TryStmt) Span() token.Span { return n.SpanVal }
func (n *TryStmt) Walk(v Visitor) {
	Walk(v, n.Try)
	Walk(v, n.CatchName)
	Walk(v, n.Catch)
}

// ThrowStmt raises Value. Value is nil for a bare `throw;` re-raise;
// neither the parser nor the resolver checks that a bare throw appears
// inside a catch block.
type ThrowStmt struct {
	SpanVal token.Span
	Value   Expr
}

func (*ThrowStmt) stmt()              {}
func (*ThrowStmt) BlockEnding() bool  { return true }
func (n *ThrowStmt) Span() token.Span { return n.SpanVal }
func (n *ThrowStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}

// ForInStmt iterates Iterable, binding each element to Target for one run
// of Body. Body receives one leading synthetic local slot for the loop
// variable, the same way TryStmt.Catch does for the caught value.
type ForInStmt struct {
	SpanVal  token.Span
	Target   Pattern
	Iterable Expr
	Body     *BlockStmt
}

func (*ForInStmt) stmt()              {}
func (*ForInStmt) BlockEnding() bool  { return false }
func (n *ForInStmt) Span() token.Span { return n.SpanVal }
func (n *ForInStmt) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Iterable)
	Walk(v, n.Body)
}

// BreakStmt exits the nearest enclosing loop.
type BreakStmt struct {
	SpanVal token.Span
}

func (*BreakStmt) stmt()              {}
func (*BreakStmt) BlockEnding() bool  { return true }
func (n *BreakStmt) Span() token.Span { return n.SpanVal }
func (n *BreakStmt) Walk(Visitor)     {}

// ContinueStmt jumps to the next iteration of the nearest enclosing loop.
type ContinueStmt struct {
	SpanVal token.Span
}

func (*ContinueStmt) stmt()              {}
func (*ContinueStmt) BlockEnding() bool  { return true }
func (n *ContinueStmt) Span() token.Span { return n.SpanVal }
func (n *ContinueStmt) Walk(Visitor)     {}

// ImportAsStmt imports Path and binds it (final) to Name.
type ImportAsStmt struct {
	SpanVal token.Span
	Path    string
	Name    *Identifier
}

func (*ImportAsStmt) stmt()              {}
func (*ImportAsStmt) BlockEnding() bool  { return false }
func (n *ImportAsStmt) Span() token.Span { return n.SpanVal }
func (n *ImportAsStmt) Walk(v Visitor)   { Walk(v, n.Name) }

// ImportFromStmt imports specific Names out of the module at Path.
// lang/lower's before-pass desugars this into an ImportAsStmt plus one
// LetDecl per name before the resolver ever sees it.
type ImportFromStmt struct {
	SpanVal token.Span
	Names   []*Identifier
	Path    string
}

func (*ImportFromStmt) stmt()              {}
func (*ImportFromStmt) BlockEnding() bool  { return false }
func (n *ImportFromStmt) Span() token.Span { return n.SpanVal }
func (n *ImportFromStmt) Walk(v Visitor) {
	for _, name := range n.Names {
		Walk(v, name)
	}
}
