package diag_test

import (
	"bytes"
	"testing"

	"github.com/InAnYan/loop/lang/diag"
	"github.com/InAnYan/loop/lang/token"
	"github.com/stretchr/testify/assert"
)

func TestBagHadError(t *testing.T) {
	var b diag.Bag
	assert.False(t, b.HadError())
	b.Notef(token.Span{}, "just a note")
	assert.False(t, b.HadError())
	b.Errorf(token.Span{}, "boom")
	assert.True(t, b.HadError())
}

func TestSilent(t *testing.T) {
	var s diag.Silent
	s.Notef(token.Span{}, "ignored")
	assert.False(t, s.HadError())
	s.Errorf(token.Span{}, "ignored too, but tracked")
	assert.True(t, s.HadError())
}

func TestFprintEchoesSourceLine(t *testing.T) {
	f := token.NewFile("m.loop", "var x = ;\n")
	var b diag.Bag
	b.Errorf(token.Span{File: f, Start: token.Pos{Line: 1, Col: 9}}, "expected expression")

	var buf bytes.Buffer
	diag.Fprint(&buf, &b)

	out := buf.String()
	assert.Contains(t, out, "m.loop:1: error: expected expression")
	assert.Contains(t, out, "var x = ;")
	assert.Contains(t, out, "^")
}

func TestSortOrdersByPosition(t *testing.T) {
	f := token.NewFile("m.loop", "a\nb\n")
	var b diag.Bag
	b.Errorf(token.Span{File: f, Start: token.Pos{Line: 2, Col: 1}}, "second")
	b.Errorf(token.Span{File: f, Start: token.Pos{Line: 1, Col: 1}}, "first")
	b.Sort()

	all := b.All()
	assert.Equal(t, "first", all[0].Message)
	assert.Equal(t, "second", all[1].Message)
}
