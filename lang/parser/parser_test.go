package parser_test

import (
	"testing"

	"github.com/InAnYan/loop/lang/ast"
	"github.com/InAnYan/loop/lang/diag"
	"github.com/InAnYan/loop/lang/parser"
	"github.com/InAnYan/loop/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*ast.Module, *diag.Bag) {
	t.Helper()
	f := token.NewFile("t.loop", src)
	var b diag.Bag
	return parser.Parse(f, &b), &b
}

func TestParseTopLevelGlobalsAndPrint(t *testing.T) {
	mod, b := parse(t, "var x = 1 + 2;\nprint x;\n")
	require.False(t, b.HadError())
	require.Len(t, mod.Stmts, 2)

	decl, ok := mod.Stmts[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.False(t, decl.Export)
	bin, ok := decl.Init.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.BinAdd, bin.Op)

	pr, ok := mod.Stmts[1].(*ast.PrintStmt)
	require.True(t, ok)
	v, ok := pr.Value.(*ast.VarExpr)
	require.True(t, ok)
	assert.Equal(t, "x", v.Ident.Text)
}

func TestParseImportFrom(t *testing.T) {
	mod, b := parse(t, `from "m" import x, y;`)
	require.False(t, b.HadError())
	require.Len(t, mod.Stmts, 1)
	imp, ok := mod.Stmts[0].(*ast.ImportFromStmt)
	require.True(t, ok)
	assert.Equal(t, "m", imp.Path)
	require.Len(t, imp.Names, 2)
	assert.Equal(t, "x", imp.Names[0].Text)
	assert.Equal(t, "y", imp.Names[1].Text)
}

func TestParseForInDestructure(t *testing.T) {
	mod, b := parse(t, "for [a, b] in pairs { print a; }")
	require.False(t, b.HadError())
	fi, ok := mod.Stmts[0].(*ast.ForInStmt)
	require.True(t, ok)
	lp, ok := fi.Target.(*ast.ListPattern)
	require.True(t, ok)
	assert.Len(t, lp.Patterns, 2)
}

func TestParseClosureShape(t *testing.T) {
	mod, b := parse(t, `func make() { let n = 0; func inner() { n = n + 1; return n; } return inner; }`)
	require.False(t, b.HadError())
	fd, ok := mod.Stmts[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "make", fd.Name.Text)
	assert.Len(t, fd.Body.Stmts, 3)
}

func TestParseRedefinitionStillParses(t *testing.T) {
	mod, b := parse(t, "var a = 1; var a = 2;")
	require.False(t, b.HadError())
	require.Len(t, mod.Stmts, 2)
}

func TestParseSyntaxErrorRecorded(t *testing.T) {
	_, b := parse(t, "var = ;")
	assert.True(t, b.HadError())
}
