// Package compiler implements the bytecode emitter and the tree-walking
// code generator: it turns a fully resolved module (every Identifier
// carrying a ref_type/ref_index) into a Chunk of bytes, a constant pool
// and a line table, ready for JSON assembly by internal/artifact.
package compiler

import "fmt"

// Opcode is one instruction byte. Numeric values are part of the
// artifact's stable wire format and must never be renumbered.
type Opcode uint8

const (
	Return        Opcode = 0
	PushConstant  Opcode = 1
	Negate        Opcode = 2
	Add           Opcode = 3
	Subtract      Opcode = 4
	Multiply      Opcode = 5
	Divide        Opcode = 6
	Print         Opcode = 7
	Pop           Opcode = 8
	Plus          Opcode = 9
	Equal         Opcode = 10
	Not           Opcode = 11
	JumpIfFalse   Opcode = 12
	JumpIfTrue    Opcode = 13
	PushTrue      Opcode = 14
	PushFalse     Opcode = 15
	Greater       Opcode = 16
	Less          Opcode = 17
	PushNull      Opcode = 18
	BuildList     Opcode = 19
	GetGlobal     Opcode = 20
	SetGlobal     Opcode = 21
	GetLocal      Opcode = 22
	SetLocal      Opcode = 23
	JumpIfFalsePop Opcode = 24
	Jump          Opcode = 25
	Loop          Opcode = 26
	Call          Opcode = 27
	Export        Opcode = 28
	Import        Opcode = 29
	Top           Opcode = 30
	GetAttribute  Opcode = 31
	ModuleEnd     Opcode = 32
	BuildDictionary Opcode = 33
	GetItem       Opcode = 34
	SetItem       Opcode = 35
	SetAttribute  Opcode = 36
	GetExport     Opcode = 37
	SetExport     Opcode = 38
	BuildClosure  Opcode = 39
	GetUpvalue    Opcode = 40
	SetUpvalue    Opcode = 41
	CloseUpvalue  Opcode = 42
)

var opcodeNames = [...]string{
	Return:          "return",
	PushConstant:    "push_constant",
	Negate:          "negate",
	Add:             "add",
	Subtract:        "subtract",
	Multiply:        "multiply",
	Divide:          "divide",
	Print:           "print",
	Pop:             "pop",
	Plus:            "plus",
	Equal:           "equal",
	Not:             "not",
	JumpIfFalse:     "jump_if_false",
	JumpIfTrue:      "jump_if_true",
	PushTrue:        "push_true",
	PushFalse:       "push_false",
	Greater:         "greater",
	Less:            "less",
	PushNull:        "push_null",
	BuildList:       "build_list",
	GetGlobal:       "get_global",
	SetGlobal:       "set_global",
	GetLocal:        "get_local",
	SetLocal:        "set_local",
	JumpIfFalsePop:  "jump_if_false_pop",
	Jump:            "jump",
	Loop:            "loop",
	Call:            "call",
	Export:          "export",
	Import:          "import",
	Top:             "top",
	GetAttribute:    "get_attribute",
	ModuleEnd:       "module_end",
	BuildDictionary: "build_dictionary",
	GetItem:         "get_item",
	SetItem:         "set_item",
	SetAttribute:    "set_attribute",
	GetExport:       "get_export",
	SetExport:       "set_export",
	BuildClosure:    "build_closure",
	GetUpvalue:      "get_upvalue",
	SetUpvalue:      "set_upvalue",
	CloseUpvalue:    "close_upvalue",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		if name := opcodeNames[op]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("illegal opcode (%d)", op)
}
