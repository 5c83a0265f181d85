package compiler_test

import (
	"context"
	"testing"

	"github.com/InAnYan/loop/lang/compiler"
	"github.com/InAnYan/loop/lang/diag"
	"github.com/InAnYan/loop/lang/lower"
	"github.com/InAnYan/loop/lang/parser"
	"github.com/InAnYan/loop/lang/resolver"
	"github.com/InAnYan/loop/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) (*compiler.ModuleValue, *diag.Bag) {
	t.Helper()
	f := token.NewFile("t.loop", src)
	var b diag.Bag
	mod := parser.Parse(f, &b)
	require.False(t, b.HadError(), "parse errors: %v", b.All())
	lower.NewBefore().Lower(mod)
	r := resolver.New("", nil, &b)
	r.Resolve(context.Background(), mod)
	lower.NewAfter().Lower(mod)
	require.False(t, b.HadError(), "resolve errors: %v", b.All())
	mv := compiler.CompileModule(mod, &b)
	return mv, &b
}

func opcodes(code []byte) []compiler.Opcode {
	ops := make([]compiler.Opcode, len(code))
	for i, b := range code {
		ops[i] = compiler.Opcode(b)
	}
	return ops
}

func TestS1TopLevelGlobalsAndPrint(t *testing.T) {
	mv, b := compile(t, "var x = 1 + 2;\nprint x;\n")
	require.False(t, b.HadError())
	assert.Equal(t, 1, mv.GlobalsCount)

	code := mv.Chunk.Code
	require.GreaterOrEqual(t, len(code), 1)
	assert.Equal(t, byte(compiler.PushConstant), code[0])
	// PushConstant idx, PushConstant idx, Add, SetGlobal 0, Pop, GetGlobal 0, Print, ModuleEnd
	assert.Equal(t, byte(compiler.PushConstant), code[2])
	assert.Equal(t, byte(compiler.Add), code[4])
	assert.Equal(t, byte(compiler.SetGlobal), code[5])
	assert.Equal(t, byte(0), code[6])
	assert.Equal(t, byte(compiler.Pop), code[7])
	assert.Equal(t, byte(compiler.GetGlobal), code[8])
	assert.Equal(t, byte(0), code[9])
	assert.Equal(t, byte(compiler.Print), code[10])
	assert.Equal(t, byte(compiler.ModuleEnd), code[11])

	require.Len(t, mv.Chunk.Constants, 2)
	i1, ok := mv.Chunk.Constants[0].(*compiler.IntegerValue)
	require.True(t, ok)
	assert.Equal(t, int64(1), i1.Num)
}

func TestS2ShortCircuitOr(t *testing.T) {
	mv, b := compile(t, "print true || false;")
	require.False(t, b.HadError())

	code := mv.Chunk.Code
	// PushTrue; JumpIfTrue <2b>; Pop; PushFalse; Print; ModuleEnd
	require.GreaterOrEqual(t, len(code), 6)
	assert.Equal(t, byte(compiler.PushTrue), code[0])
	assert.Equal(t, byte(compiler.JumpIfTrue), code[1])
	jumpSite := 1
	displacement := int(code[jumpSite+1]) | int(code[jumpSite+2])<<8
	afterJump := jumpSite + 3 + displacement
	assert.Equal(t, byte(compiler.Pop), code[jumpSite+3])
	assert.Equal(t, byte(compiler.PushFalse), code[jumpSite+4])
	assert.Equal(t, byte(compiler.Print), code[afterJump])
	assert.Equal(t, byte(compiler.ModuleEnd), code[afterJump+1])
}

func TestS3ClosureCapture(t *testing.T) {
	mv, b := compile(t, `
func make() {
  var n = 0;
  func inner() { n = n + 1; return n; }
  return inner;
}
`)
	require.False(t, b.HadError())

	// Top level: PushConstant[Function<make>]; SetGlobal 0; Pop; ModuleEnd
	code := mv.Chunk.Code
	require.GreaterOrEqual(t, len(code), 1)
	assert.Equal(t, byte(compiler.PushConstant), code[0])

	makeFn, ok := mv.Chunk.Constants[0].(*compiler.FunctionValue)
	require.True(t, ok)
	makeCode := makeFn.Chunk.Code

	// Somewhere in make's body: PushConstant[inner], BuildClosure 1 1 <slot>
	foundBuildClosure := false
	for i := 0; i+4 < len(makeCode); i++ {
		if makeCode[i] == byte(compiler.PushConstant) && makeCode[i+2] == byte(compiler.BuildClosure) {
			assert.Equal(t, byte(1), makeCode[i+3], "upvalue count must be 1")
			assert.Equal(t, byte(1), makeCode[i+4], "n is captured as a direct local, is_local=1")
			foundBuildClosure = true
		}
	}
	assert.True(t, foundBuildClosure, "expected a PushConstant-then-BuildClosure pair for inner")

	var innerFn *compiler.FunctionValue
	for _, c := range makeFn.Chunk.Constants {
		if fv, ok := c.(*compiler.FunctionValue); ok && fv.Name == "inner" {
			innerFn = fv
		}
	}
	require.NotNil(t, innerFn)
	assert.Contains(t, opcodes(innerFn.Chunk.Code), compiler.GetUpvalue)
	assert.Contains(t, opcodes(innerFn.Chunk.Code), compiler.SetUpvalue)

	assert.Contains(t, opcodes(makeFn.Chunk.Code), compiler.CloseUpvalue)
}

func TestIsOperatorCompilesToTop(t *testing.T) {
	mv, b := compile(t, `
class C { }
var c = C();
print c is C;
`)
	require.False(t, b.HadError())
	assert.Contains(t, opcodes(mv.Chunk.Code), compiler.Top)
}

func TestClassDeclMethodsHaveNoBuildClosure(t *testing.T) {
	mv, b := compile(t, `
class C {
  func greet() { return 1; }
}
`)
	require.False(t, b.HadError())
	cv, ok := mv.Chunk.Constants[0].(*compiler.ClassValue)
	require.True(t, ok)
	require.Len(t, cv.Methods, 1)
	assert.NotContains(t, opcodes(cv.Methods[0].Chunk.Code), compiler.BuildClosure)
}

func TestForInReportsUnsupportedDiagnostic(t *testing.T) {
	_, b := compile(t, `
var xs = [1, 2];
for x in xs { print x; }
`)
	assert.True(t, b.HadError())
}

func TestTryThrowReportsUnsupportedDiagnostic(t *testing.T) {
	_, b := compile(t, `
try { throw 1; } catch (e) { print e; }
`)
	assert.True(t, b.HadError())
}

func TestBreakContinueReportUnsupportedDiagnostic(t *testing.T) {
	_, b := compile(t, `
while (true) {
  break;
}
`)
	assert.True(t, b.HadError())
}

func TestFunctionBodyGetsImplicitNullReturn(t *testing.T) {
	mv, b := compile(t, "func f() { }\n")
	require.False(t, b.HadError())
	fv, ok := mv.Chunk.Constants[0].(*compiler.FunctionValue)
	require.True(t, ok)
	code := fv.Chunk.Code
	require.Len(t, code, 2)
	assert.Equal(t, byte(compiler.PushNull), code[0])
	assert.Equal(t, byte(compiler.Return), code[1])
}

func TestInitMethodGetsImplicitThisReturn(t *testing.T) {
	mv, b := compile(t, `
class C {
  func init() { }
}
`)
	require.False(t, b.HadError())
	cv, ok := mv.Chunk.Constants[0].(*compiler.ClassValue)
	require.True(t, ok)
	code := cv.Methods[0].Chunk.Code
	require.Len(t, code, 3)
	assert.Equal(t, byte(compiler.GetLocal), code[0])
	assert.Equal(t, byte(0), code[1])
	assert.Equal(t, byte(compiler.Return), code[2])
}

func TestExplicitReturnNoPadding(t *testing.T) {
	mv, b := compile(t, "func f() { return 1; }\n")
	require.False(t, b.HadError())
	fv, ok := mv.Chunk.Constants[0].(*compiler.FunctionValue)
	require.True(t, ok)
	code := fv.Chunk.Code
	last := code[len(code)-1]
	assert.Equal(t, byte(compiler.Return), last)
	// No doubled push_null/return pair tacked on.
	assert.NotEqual(t, byte(compiler.PushNull), code[len(code)-2])
}
