package scanner_test

import (
	"testing"

	"github.com/InAnYan/loop/lang/diag"
	"github.com/InAnYan/loop/lang/scanner"
	"github.com/InAnYan/loop/lang/token"
	"github.com/stretchr/testify/assert"
)

func scanAll(t *testing.T, src string) ([]scanner.TokenAndValue, *diag.Bag) {
	t.Helper()
	f := token.NewFile("t.loop", src)
	var b diag.Bag
	s := scanner.New(f, &b)
	return s.ScanAll(), &b
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks, b := scanAll(t, "var x = 1;")
	assert.False(t, b.HadError())
	kinds := make([]token.Token, 0, len(toks))
	for _, tv := range toks {
		kinds = append(kinds, tv.Token)
	}
	assert.Equal(t, []token.Token{token.VAR, token.IDENT, token.EQ, token.INT, token.SEMI, token.EOF}, kinds)
}

func TestScanStringEscapes(t *testing.T) {
	toks, b := scanAll(t, `"a\nb"`)
	assert.False(t, b.HadError())
	assert.Equal(t, "a\nb", toks[0].Lit)
}

func TestScanUnterminatedString(t *testing.T) {
	_, b := scanAll(t, `"abc`)
	assert.True(t, b.HadError())
}

func TestScanOperators(t *testing.T) {
	toks, b := scanAll(t, "== != <= >= && || !")
	assert.False(t, b.HadError())
	var kinds []token.Token
	for _, tv := range toks {
		kinds = append(kinds, tv.Token)
	}
	assert.Equal(t, []token.Token{token.EQL, token.NEQ, token.LE, token.GE, token.AND, token.OR, token.BANG, token.EOF}, kinds)
}

func TestScanSkipsLineComments(t *testing.T) {
	toks, b := scanAll(t, "1 // comment\n2")
	assert.False(t, b.HadError())
	assert.Equal(t, token.INT, toks[0].Token)
	assert.Equal(t, "1", toks[0].Lit)
	assert.Equal(t, token.INT, toks[1].Token)
	assert.Equal(t, "2", toks[1].Lit)
}
