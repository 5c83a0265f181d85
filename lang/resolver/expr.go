package resolver

import (
	"context"

	"github.com/InAnYan/loop/lang/ast"
)

func (r *Resolver) expr(ctx context.Context, e ast.Expr) {
	switch n := e.(type) {
	case *ast.IntegerLiteral, *ast.BoolLiteral, *ast.NullLiteral, *ast.StringLiteral:
		// no identifiers to resolve
	case *ast.VarExpr:
		r.varExpr(n)
	case *ast.Assignment:
		r.assignment(ctx, n)
	case *ast.UnaryOp:
		r.expr(ctx, n.Operand)
	case *ast.BinaryOp:
		r.expr(ctx, n.Left)
		r.expr(ctx, n.Right)
	case *ast.CallExpr:
		r.expr(ctx, n.Callee)
		for _, a := range n.Args {
			r.expr(ctx, a)
		}
	case *ast.GetAttrExpr:
		r.expr(ctx, n.Obj)
	case *ast.GetItemExpr:
		r.expr(ctx, n.Obj)
		for _, i := range n.Index {
			r.expr(ctx, i)
		}
	case *ast.DictionaryLiteral:
		for _, p := range n.Pairs {
			r.expr(ctx, p.Key)
			r.expr(ctx, p.Value)
		}
	case *ast.ListLiteral:
		for _, el := range n.Elements {
			r.expr(ctx, el)
		}
	default:
		panic("resolver: unhandled expression node")
	}
}

func (r *Resolver) varExpr(n *ast.VarExpr) {
	if n.Ident.Text == "super" {
		if r.classes == 0 {
			r.errs.Errorf(n.Span(), "cannot use 'super' outside of a method")
		}
		return
	}
	r.env.resolve(n.Ident)
}

func (r *Resolver) assignment(ctx context.Context, n *ast.Assignment) {
	switch t := n.Target.(type) {
	case *ast.VarExpr:
		if t.Ident.Text == "super" || !r.env.checkAssignable(t.Ident) {
			r.errs.Errorf(n.Span(), "cannot assign to '%s'", t.Ident.Text)
		} else {
			r.expr(ctx, t)
		}
	case *ast.GetAttrExpr, *ast.GetItemExpr:
		r.expr(ctx, n.Target)
	default:
		r.errs.Errorf(n.Span(), "invalid assignment target")
	}
	r.expr(ctx, n.Value)
}
