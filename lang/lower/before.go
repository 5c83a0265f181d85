// Package lower implements the two AST rewriting passes that run around
// resolution: Before (desugaring that introduces new bindings, which must
// happen before the resolver ever sees them) and After (rewrites that are
// only safe once binding is fixed).
package lower

import (
	"fmt"

	"github.com/InAnYan/loop/lang/ast"
	"github.com/InAnYan/loop/lang/token"
	"golang.org/x/exp/slices"
)

// Before rewrites import-from, list-pattern var-decls and list-pattern
// for-in loops into their desugared equivalents. It is pure and
// structural except for synthetic name generation, which uses a counter
// held on the Before value itself (not a package-level variable) so that
// compiling several modules in one process stays hermetic, per the
// process-wide-counter note in the design notes this mirrors.
type Before struct {
	counter int
}

// NewBefore returns a fresh Before pass with its counter at zero.
func NewBefore() *Before { return &Before{} }

func (b *Before) next() int {
	n := b.counter
	b.counter++
	return n
}

func (b *Before) synthName(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, b.next())
}

// Lower runs the before-pass over every top-level statement of mod,
// in place.
func (b *Before) Lower(mod *ast.Module) {
	mod.Stmts = b.lowerStmts(mod.Stmts)
}

func (b *Before) lowerStmts(stmts []ast.Stmt) []ast.Stmt {
	var out []ast.Stmt
	for _, s := range stmts {
		out = append(out, b.lowerStmt(s)...)
	}
	return out
}

func (b *Before) lowerBlock(blk *ast.BlockStmt) *ast.BlockStmt {
	if blk == nil {
		return nil
	}
	blk.Stmts = b.lowerStmts(blk.Stmts)
	return blk
}

// lowerStmt returns the statements s lowers to; most statements lower to
// exactly one (themselves, with children lowered), but ImportFromStmt and
// a list-pattern VarDecl/ForInStmt expand to several.
func (b *Before) lowerStmt(s ast.Stmt) []ast.Stmt {
	switch n := s.(type) {
	case *ast.ImportFromStmt:
		return b.lowerImportFrom(n)

	case *ast.VarDecl:
		if lp, ok := n.Target.(*ast.ListPattern); ok {
			return b.lowerListVarDecl(n.SpanVal, n.Export, lp, n.Init)
		}
		return []ast.Stmt{n}

	case *ast.LetDecl:
		// A LetDecl carries a ListPattern only when lowerListForIn builds one
		// for a nested sub-pattern; destructure it like a VarDecl and keep
		// every resulting binding final.
		if lp, ok := n.Target.(*ast.ListPattern); ok {
			out := b.lowerListVarDecl(n.SpanVal, n.Export, lp, n.Init)
			for i, s := range out {
				if v, ok := s.(*ast.VarDecl); ok {
					out[i] = &ast.LetDecl{SpanVal: v.SpanVal, Export: v.Export, Target: v.Target, Init: v.Init}
				}
			}
			return out
		}
		return []ast.Stmt{n}

	case *ast.ForInStmt:
		if lp, ok := n.Target.(*ast.ListPattern); ok {
			return []ast.Stmt{b.lowerListForIn(n, lp)}
		}
		n.Body = b.lowerBlock(n.Body)
		return []ast.Stmt{n}

	case *ast.FuncDecl:
		n.Body = b.lowerBlock(n.Body)
		return []ast.Stmt{n}

	case *ast.ClassDecl:
		for _, m := range n.Methods {
			m.Body = b.lowerBlock(m.Body)
		}
		return []ast.Stmt{n}

	case *ast.BlockStmt:
		return []ast.Stmt{b.lowerBlock(n)}

	case *ast.IfStmt:
		n.Then = b.lowerBlock(n.Then)
		n.Else = b.lowerBlock(n.Else)
		return []ast.Stmt{n}

	case *ast.WhileStmt:
		n.Body = b.lowerBlock(n.Body)
		return []ast.Stmt{n}

	case *ast.TryStmt:
		n.Try = b.lowerBlock(n.Try)
		n.Catch = b.lowerBlock(n.Catch)
		return []ast.Stmt{n}

	default:
		return []ast.Stmt{s}
	}
}

// lowerImportFrom implements spec.md §4.1's ImportFromStmt rule:
// `from path import n1, n2` becomes one ImportAsStmt binding a synthetic
// module name, followed by one LetDecl per imported name reading it off
// that synthetic module via GetAttrExpr.
func (b *Before) lowerImportFrom(n *ast.ImportFromStmt) []ast.Stmt {
	modName := b.synthName("__module")
	modIdent := &ast.Identifier{SpanVal: n.SpanVal, Text: modName}
	out := []ast.Stmt{
		&ast.ImportAsStmt{SpanVal: n.SpanVal, Path: n.Path, Name: modIdent},
	}
	for _, name := range n.Names {
		out = append(out, &ast.LetDecl{
			SpanVal: name.SpanVal,
			Export:  false,
			Target:  &ast.IdentifierPattern{Ident: name},
			Init: &ast.GetAttrExpr{
				SpanVal: name.SpanVal,
				Obj:     &ast.VarExpr{Ident: &ast.Identifier{SpanVal: n.SpanVal, Text: modName}},
				Name:    &ast.Identifier{SpanVal: name.SpanVal, Text: name.Text},
			},
		})
	}
	return out
}

// lowerListVarDecl implements spec.md §4.1's list-destructuring VarDecl
// rule: `var [p1, …, pk] = expr` becomes a synthetic LetDecl capturing
// expr once, followed by one VarDecl per sub-pattern reading its element
// back out by index, each re-lowered in case it is itself a ListPattern.
func (b *Before) lowerListVarDecl(span token.Span, export bool, lp *ast.ListPattern, init ast.Expr) []ast.Stmt {
	synth := b.synthName("__mainVar")
	synthIdent := &ast.Identifier{SpanVal: span, Text: synth}
	out := []ast.Stmt{
		&ast.LetDecl{
			SpanVal: span,
			Export:  export,
			Target:  &ast.IdentifierPattern{Ident: synthIdent},
			Init:    init,
		},
	}
	for i, sub := range lp.Patterns {
		index := &ast.IntegerLiteral{SpanVal: sub.Span(), Value: int64(i)}
		elem := &ast.GetItemExpr{
			SpanVal: sub.Span(),
			Obj:     &ast.VarExpr{Ident: &ast.Identifier{SpanVal: span, Text: synth}},
			Index:   []ast.Expr{index},
		}
		decl := &ast.VarDecl{SpanVal: sub.Span(), Export: export, Target: sub, Init: elem}
		out = append(out, b.lowerStmt(decl)...)
	}
	return out
}

// lowerListForIn implements spec.md §4.1's list-destructuring ForInStmt
// rule: `for [p1, …, pk] in expr { body }` becomes a for-in over a
// synthetic single variable whose body begins with one LetDecl per
// sub-pattern, extracting elements by index, followed by the original
// body statements.
func (b *Before) lowerListForIn(n *ast.ForInStmt, lp *ast.ListPattern) ast.Stmt {
	synth := b.synthName("__mainVar")
	synthIdent := &ast.Identifier{SpanVal: n.SpanVal, Text: synth}

	var prelude []ast.Stmt
	for i, sub := range lp.Patterns {
		index := &ast.IntegerLiteral{SpanVal: sub.Span(), Value: int64(i)}
		elem := &ast.GetItemExpr{
			SpanVal: sub.Span(),
			Obj:     &ast.VarExpr{Ident: &ast.Identifier{SpanVal: n.SpanVal, Text: synth}},
			Index:   []ast.Expr{index},
		}
		prelude = append(prelude, b.lowerStmt(&ast.LetDecl{SpanVal: sub.Span(), Target: sub, Init: elem})...)
	}

	body := b.lowerBlock(n.Body)
	body.Stmts = slices.Insert(body.Stmts, 0, prelude...)

	return &ast.ForInStmt{
		SpanVal:  n.SpanVal,
		Target:   &ast.IdentifierPattern{Ident: synthIdent},
		Iterable: n.Iterable,
		Body:     body,
	}
}
