package token_test

import (
	"testing"

	"github.com/InAnYan/loop/lang/token"
	"github.com/stretchr/testify/assert"
)

func TestFileLine(t *testing.T) {
	f := token.NewFile("a.loop", "var x = 1;\nprint x;\n")
	assert.Equal(t, "var x = 1;", f.Line(1))
	assert.Equal(t, "print x;", f.Line(2))
	assert.Equal(t, "", f.Line(3))
	assert.Equal(t, "", f.Line(0))
}

func TestFileSetMemoizes(t *testing.T) {
	fs := token.NewFileSet()
	f1 := fs.AddFile("a.loop", "one")
	f2 := fs.AddFile("a.loop", "two")
	assert.Same(t, f1, f2)
	assert.Equal(t, "one", f1.Contents)
	assert.Same(t, f1, fs.Get("a.loop"))
}

func TestMergeSpan(t *testing.T) {
	f := token.NewFile("a.loop", "")
	a := token.Span{File: f, Start: token.Pos{Line: 1, Col: 1}, End: token.Pos{Line: 1, Col: 5}}
	b := token.Span{File: f, Start: token.Pos{Line: 2, Col: 3}, End: token.Pos{Line: 2, Col: 9}}
	m := token.MergeSpan(a, b)
	assert.Equal(t, token.Pos{Line: 1, Col: 1}, m.Start)
	assert.Equal(t, token.Pos{Line: 2, Col: 9}, m.End)

	assert.Equal(t, b, token.MergeSpan(token.Span{}, b))
	assert.Equal(t, a, token.MergeSpan(a, token.Span{}))
}

func TestPosUnknown(t *testing.T) {
	assert.True(t, token.Pos{}.Unknown())
	assert.False(t, token.Pos{Line: 1, Col: 1}.Unknown())
}
