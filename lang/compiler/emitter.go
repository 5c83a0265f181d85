package compiler

import (
	"github.com/InAnYan/loop/lang/diag"
	"github.com/InAnYan/loop/lang/token"
	"github.com/dolthub/swiss"
)

// constKey is the comparable projection of a scalar Value used to back
// the emitter's constant-pool dedup index (see nameIndex in
// lang/resolver for the same swiss.Map-backed lookup-table shape applied
// to a different hot path). FunctionValue/ClassValue/ModuleValue have no
// key — dedupKey returns false for them, so they always get a fresh
// pool entry.
type constKey struct {
	kind string
	data any
}

func dedupKey(v Value) (constKey, bool) {
	switch vv := v.(type) {
	case *IntegerValue:
		return constKey{kind: "Integer", data: vv.Num}, true
	case *BoolValue:
		return constKey{kind: "Boolean", data: vv.B}, true
	case *NullValue:
		return constKey{kind: "Null", data: nil}, true
	case *StringValue:
		return constKey{kind: "String", data: vv.Text}, true
	default:
		return constKey{}, false
	}
}

// LongInst names the long-instruction kinds accepted by EmitLong — the
// family of opcodes that take a one-byte constant-pool index.
type LongInst int

const (
	LongPushConstant LongInst = iota
	LongImport
	LongGetAttribute
	LongSetAttribute
	LongExport
	LongGetExport
	LongSetExport
)

var longInstOpcode = map[LongInst]Opcode{
	LongPushConstant: PushConstant,
	LongImport:       Import,
	LongGetAttribute: GetAttribute,
	LongSetAttribute: SetAttribute,
	LongExport:       Export,
	LongGetExport:    GetExport,
	LongSetExport:    SetExport,
}

// Emitter accumulates one chunk's worth of bytecode: the appendable
// code stream, a deduplicated constant pool and a one-line-per-byte
// line table.
type Emitter struct {
	errs      diag.Listener
	code      []byte
	constants []Value
	lines     []int
	dedup     *swiss.Map[constKey, int]
}

// NewEmitter creates an Emitter reporting diagnostics (too many
// constants, jump too far) to errs.
func NewEmitter(errs diag.Listener) *Emitter {
	return &Emitter{errs: errs, dedup: swiss.NewMap[constKey, int](8)}
}

// Pos returns the offset of the next byte to be emitted.
func (e *Emitter) Pos() int { return len(e.code) }

// EmitOpcode appends op's byte.
func (e *Emitter) EmitOpcode(op Opcode, span token.Span) {
	e.EmitByte(byte(op), span)
}

// EmitByte appends a raw byte.
func (e *Emitter) EmitByte(b byte, span token.Span) {
	e.code = append(e.code, b)
	e.lines = append(e.lines, span.Line())
}

// AddConstant returns v's index in the constant pool, reusing an
// existing equal entry if one exists. An index beyond 255 is reported
// as a diagnostic but does not stop emission.
func (e *Emitter) AddConstant(v Value, span token.Span) int {
	key, dedupable := dedupKey(v)
	if dedupable {
		if index, found := e.dedup.Get(key); found {
			return index
		}
	}

	index := e.appendConstant(v, span)
	if dedupable {
		e.dedup.Put(key, index)
	}
	return index
}

func (e *Emitter) appendConstant(v Value, span token.Span) int {
	e.constants = append(e.constants, v)
	index := len(e.constants) - 1
	if index > 255 {
		e.errs.Errorf(span, "too many constants in one chunk (max 256)")
	}
	return index
}

// EmitLong emits the single-byte opcode for kind followed by the
// constant-pool index of v.
func (e *Emitter) EmitLong(kind LongInst, v Value, span token.Span) {
	index := e.AddConstant(v, span)
	op, ok := longInstOpcode[kind]
	if !ok {
		panic("compiler: unknown long instruction kind")
	}
	e.EmitOpcode(op, span)
	e.EmitByte(byte(index), span)
}

// EmitJump emits op followed by two placeholder bytes, returning the
// offset of op for a later PatchJump call.
func (e *Emitter) EmitJump(op Opcode, span token.Span) int {
	site := e.Pos()
	e.EmitOpcode(op, span)
	e.EmitByte(0xFF, span)
	e.EmitByte(0xFF, span)
	return site
}

// PatchJump writes the forward displacement from the instruction at
// patchSite to the current position into the two bytes following it.
func (e *Emitter) PatchJump(patchSite int, span token.Span) {
	displacement := e.Pos() - patchSite - 3
	if displacement > 0xFFFF {
		e.errs.Errorf(span, "jump is too far")
	}
	e.code[patchSite+1] = byte(displacement & 0xFF)
	e.code[patchSite+2] = byte((displacement >> 8) & 0xFF)
}

// EmitLoop emits Loop with a 16-bit backward displacement to target.
func (e *Emitter) EmitLoop(target int, span token.Span) {
	site := e.Pos()
	displacement := site + 3 - target
	if displacement > 0xFFFF {
		e.errs.Errorf(span, "jump is too far")
	}
	e.EmitOpcode(Loop, span)
	e.EmitByte(byte(displacement&0xFF), span)
	e.EmitByte(byte((displacement>>8)&0xFF), span)
}

// LastOpcode returns the most recently emitted opcode and whether any
// byte has been emitted at all.
func (e *Emitter) LastOpcode() (Opcode, bool) {
	if len(e.code) == 0 {
		return 0, false
	}
	return Opcode(e.code[len(e.code)-1]), true
}

// MakeChunk finalises the emitter's state into a Chunk.
func (e *Emitter) MakeChunk() *Chunk {
	return &Chunk{Code: codeBytes(e.code), Constants: e.constants, Lines: e.lines}
}
