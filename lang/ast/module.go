package ast

import "github.com/InAnYan/loop/lang/token"

// Module is the root of one compiled source file: its path, its ordered
// top-level statements, and the globals count the resolver fills in once
// it has finished visiting the whole tree.
type Module struct {
	Path         string
	Stmts        []Stmt
	GlobalsCount int
}

func (m *Module) Span() token.Span {
	if len(m.Stmts) == 0 {
		return token.Span{}
	}
	return token.MergeSpan(m.Stmts[0].Span(), m.Stmts[len(m.Stmts)-1].Span())
}

func (m *Module) Walk(v Visitor) {
	for _, s := range m.Stmts {
		Walk(v, s)
	}
}
