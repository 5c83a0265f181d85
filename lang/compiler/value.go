package compiler

import "encoding/json"

// Value is a constant-pool entry. Every variant marshals itself to the
// `{"type": T, "data": D}` envelope required by the on-disk artifact
// format, except NullValue which marshals as a bare `null`. Constant-pool
// dedup (add_constant treats equal scalar values as the same entry) is
// handled by the Emitter's dedup index, keyed on dedupKey(v).
type Value interface {
	json.Marshaler
	typeName() string
}

func marshalEnvelope(typeName string, data interface{}) ([]byte, error) {
	return json.Marshal(struct {
		Type string      `json:"type"`
		Data interface{} `json:"data"`
	}{typeName, data})
}

// IntegerValue is a constant integer.
type IntegerValue struct{ Num int64 }

func (v *IntegerValue) typeName() string             { return "Integer" }
func (v *IntegerValue) MarshalJSON() ([]byte, error) { return marshalEnvelope("Integer", v.Num) }

// BoolValue is a constant boolean. PushTrue/PushFalse make this rarely
// used directly as a constant, but it exists for completeness of the
// Value union (e.g. a boolean appearing inside a dictionary literal's
// key position still goes through the generic constant path only if
// compiled as a key of a BuildDictionary entry, which it is not —
// BoolLiteral always compiles to PushTrue/PushFalse. Kept for the Value
// envelope's T ∈ {..., Boolean, ...} contract).
type BoolValue struct{ B bool }

func (v *BoolValue) typeName() string             { return "Boolean" }
func (v *BoolValue) MarshalJSON() ([]byte, error) { return marshalEnvelope("Boolean", v.B) }

// NullValue is the null constant, serialised as a bare JSON null rather
// than the usual {"type","data"} envelope.
type NullValue struct{}

func (v *NullValue) typeName() string             { return "Null" }
func (v *NullValue) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// StringValue is a constant string.
type StringValue struct{ Text string }

func (v *StringValue) typeName() string             { return "String" }
func (v *StringValue) MarshalJSON() ([]byte, error) { return marshalEnvelope("String", v.Text) }

// FunctionValue is a compiled function: its own independent Chunk plus
// the metadata the VM needs to set up a call frame.
type FunctionValue struct {
	Name  string
	Arity int
	Chunk *Chunk
}

// Functions are never deduplicated in the constant pool: two textually
// identical function bodies are still distinct closures with distinct
// code identity. dedupKey (emitter.go) has no case for *FunctionValue,
// so every PushConstant of one gets its own pool entry.
func (v *FunctionValue) typeName() string { return "Function" }
func (v *FunctionValue) MarshalJSON() ([]byte, error) {
	return marshalEnvelope("Function", struct {
		Name  string `json:"name"`
		Arity int    `json:"arity"`
		Chunk *Chunk `json:"chunk"`
	}{v.Name, v.Arity, v.Chunk})
}

// ClassValue is a compiled class: its methods, each a FunctionValue.
type ClassValue struct {
	Name    string
	Methods []*FunctionValue
}

func (v *ClassValue) typeName() string { return "Class" }
func (v *ClassValue) MarshalJSON() ([]byte, error) {
	return marshalEnvelope("Class", struct {
		Name    string           `json:"name"`
		Methods []*FunctionValue `json:"methods"`
	}{v.Name, v.Methods})
}

// ModuleValue is a compiled module: its top-level Chunk plus the count
// of global slots it declares. It is also the shape written, unwrapped
// (without the {"type","data"} envelope), as the on-disk artifact root
// by internal/artifact — see ArtifactJSON.
type ModuleValue struct {
	GlobalsCount int
	Chunk        *Chunk
}

func (v *ModuleValue) typeName() string { return "Module" }
func (v *ModuleValue) MarshalJSON() ([]byte, error) {
	return marshalEnvelope("Module", v.artifactData())
}

type moduleArtifactData struct {
	GlobalsCount int    `json:"globals_count"`
	Chunk        *Chunk `json:"chunk"`
}

func (v *ModuleValue) artifactData() moduleArtifactData {
	return moduleArtifactData{GlobalsCount: v.GlobalsCount, Chunk: v.Chunk}
}

// ArtifactJSON renders the module as the bare on-disk artifact root —
// {"globals_count": ..., "chunk": ...} — with no surrounding Value
// envelope, matching the external on-disk layout (distinct from how a
// ModuleValue marshals when it appears nested inside another chunk's
// constant pool, which does use the envelope).
func (v *ModuleValue) ArtifactJSON() ([]byte, error) {
	return json.Marshal(v.artifactData())
}

// codeBytes is []byte with a JSON encoding of a plain array of small
// integers instead of Go's default base64-string encoding for []byte.
type codeBytes []byte

func (b codeBytes) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(b))
	for i, x := range b {
		ints[i] = int(x)
	}
	return json.Marshal(ints)
}

// Chunk is a compiled code object: bytes, a deduplicated constant pool,
// and one source line per emitted byte.
type Chunk struct {
	Code      codeBytes `json:"code"`
	Constants []Value   `json:"constants"`
	Lines     []int     `json:"lines"`
}
