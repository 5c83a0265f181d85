package lower

import "github.com/InAnYan/loop/lang/ast"

// After runs once resolution is complete: it demotes every surviving
// LetDecl to a VarDecl (the distinction only mattered to the resolver's
// finality check) and otherwise passes the tree through unchanged. It is
// idempotent: running it again on an already-lowered tree is a no-op,
// since there are no LetDecls left to find.
type After struct{}

// NewAfter returns an After pass. It holds no state.
func NewAfter() *After { return &After{} }

// Lower runs the after-pass over mod's top-level statements, in place.
func (a *After) Lower(mod *ast.Module) {
	mod.Stmts = a.lowerStmts(mod.Stmts)
}

func (a *After) lowerStmts(stmts []ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = a.lowerStmt(s)
	}
	return out
}

func (a *After) lowerBlock(blk *ast.BlockStmt) *ast.BlockStmt {
	if blk == nil {
		return nil
	}
	blk.Stmts = a.lowerStmts(blk.Stmts)
	return blk
}

func (a *After) lowerStmt(s ast.Stmt) ast.Stmt {
	switch n := s.(type) {
	case *ast.LetDecl:
		return &ast.VarDecl{SpanVal: n.SpanVal, Export: n.Export, Target: n.Target, Init: n.Init}

	case *ast.BlockStmt:
		return a.lowerBlock(n)

	case *ast.IfStmt:
		n.Then = a.lowerBlock(n.Then)
		n.Else = a.lowerBlock(n.Else)
		return n

	case *ast.WhileStmt:
		n.Body = a.lowerBlock(n.Body)
		return n

	case *ast.ForInStmt:
		n.Body = a.lowerBlock(n.Body)
		return n

	case *ast.FuncDecl:
		n.Body = a.lowerBlock(n.Body)
		return n

	case *ast.ClassDecl:
		for _, m := range n.Methods {
			m.Body = a.lowerBlock(m.Body)
		}
		return n

	case *ast.TryStmt:
		n.Try = a.lowerBlock(n.Try)
		n.Catch = a.lowerBlock(n.Catch)
		return n

	default:
		return s
	}
}
