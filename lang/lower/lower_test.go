package lower_test

import (
	"testing"

	"github.com/InAnYan/loop/lang/ast"
	"github.com/InAnYan/loop/lang/diag"
	"github.com/InAnYan/loop/lang/lower"
	"github.com/InAnYan/loop/lang/parser"
	"github.com/InAnYan/loop/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseModule(t *testing.T, src string) *ast.Module {
	t.Helper()
	f := token.NewFile("t.loop", src)
	var b diag.Bag
	mod := parser.Parse(f, &b)
	require.False(t, b.HadError())
	return mod
}

func TestLowerImportFromDesugars(t *testing.T) {
	mod := parseModule(t, `from "m" import x, y;`)
	lower.NewBefore().Lower(mod)

	require.Len(t, mod.Stmts, 3)
	imp, ok := mod.Stmts[0].(*ast.ImportAsStmt)
	require.True(t, ok)
	assert.Equal(t, "m", imp.Path)
	synthName := imp.Name.Text

	let1, ok := mod.Stmts[1].(*ast.LetDecl)
	require.True(t, ok)
	ip, ok := let1.Target.(*ast.IdentifierPattern)
	require.True(t, ok)
	assert.Equal(t, "x", ip.Ident.Text)
	attr, ok := let1.Init.(*ast.GetAttrExpr)
	require.True(t, ok)
	assert.Equal(t, "x", attr.Name.Text)
	objVar, ok := attr.Obj.(*ast.VarExpr)
	require.True(t, ok)
	assert.Equal(t, synthName, objVar.Ident.Text)

	let2, ok := mod.Stmts[2].(*ast.LetDecl)
	require.True(t, ok)
	ip2 := let2.Target.(*ast.IdentifierPattern)
	assert.Equal(t, "y", ip2.Ident.Text)
}

func TestLowerForInDestructuring(t *testing.T) {
	mod := parseModule(t, "for [a, b] in pairs { print a; }")
	lower.NewBefore().Lower(mod)

	require.Len(t, mod.Stmts, 1)
	fi, ok := mod.Stmts[0].(*ast.ForInStmt)
	require.True(t, ok)
	ip, ok := fi.Target.(*ast.IdentifierPattern)
	require.True(t, ok)
	assert.NotEmpty(t, ip.Ident.Text)

	// body now starts with two LetDecls extracting a and b by index,
	// followed by the original print statement.
	require.Len(t, fi.Body.Stmts, 3)
	let0, ok := fi.Body.Stmts[0].(*ast.LetDecl)
	require.True(t, ok)
	assert.Equal(t, "a", let0.Target.(*ast.IdentifierPattern).Ident.Text)
	item0 := let0.Init.(*ast.GetItemExpr)
	assert.Equal(t, int64(0), item0.Index[0].(*ast.IntegerLiteral).Value)

	let1, ok := fi.Body.Stmts[1].(*ast.LetDecl)
	require.True(t, ok)
	assert.Equal(t, "b", let1.Target.(*ast.IdentifierPattern).Ident.Text)

	_, ok = fi.Body.Stmts[2].(*ast.PrintStmt)
	assert.True(t, ok)
}

func TestLowerListVarDecl(t *testing.T) {
	mod := parseModule(t, "var [a, b] = pair;")
	lower.NewBefore().Lower(mod)

	require.Len(t, mod.Stmts, 3)
	_, ok := mod.Stmts[0].(*ast.LetDecl)
	require.True(t, ok)
	vd1, ok := mod.Stmts[1].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "a", vd1.Target.(*ast.IdentifierPattern).Ident.Text)
	vd2, ok := mod.Stmts[2].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "b", vd2.Target.(*ast.IdentifierPattern).Ident.Text)
}

func TestLowerAfterDemotesLetToVar(t *testing.T) {
	mod := parseModule(t, "let x = 1;")
	lower.NewAfter().Lower(mod)

	require.Len(t, mod.Stmts, 1)
	_, isVar := mod.Stmts[0].(*ast.VarDecl)
	assert.True(t, isVar)
}

func TestLowerAfterIdempotent(t *testing.T) {
	mod := parseModule(t, "let x = 1; var y = 2;")
	after := lower.NewAfter()
	after.Lower(mod)
	first := len(mod.Stmts)
	after.Lower(mod)
	assert.Equal(t, first, len(mod.Stmts))
	for _, s := range mod.Stmts {
		_, isVar := s.(*ast.VarDecl)
		assert.True(t, isVar)
	}
}

func TestBeforeCounterIsPerInstanceNotGlobal(t *testing.T) {
	mod1 := parseModule(t, `from "m" import x;`)
	mod2 := parseModule(t, `from "m" import x;`)
	lower.NewBefore().Lower(mod1)
	lower.NewBefore().Lower(mod2)

	name1 := mod1.Stmts[0].(*ast.ImportAsStmt).Name.Text
	name2 := mod2.Stmts[0].(*ast.ImportAsStmt).Name.Text
	assert.Equal(t, name1, name2, "a fresh Before instance must start its counter at 0 again")
}
