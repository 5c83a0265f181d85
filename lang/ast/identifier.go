package ast

import "github.com/InAnYan/loop/lang/token"

// RefType classifies how an Identifier's binding was resolved. Unresolved
// is the zero value, valid only before lang/resolver has run; every
// Identifier the emitter sees must have moved past it.
type RefType int

const (
	Unresolved RefType = iota
	Global
	Export
	Local
	Upvalue
)

func (r RefType) String() string {
	switch r {
	case Global:
		return "global"
	case Export:
		return "export"
	case Local:
		return "local"
	case Upvalue:
		return "upvalue"
	default:
		return "unresolved"
	}
}

// Identifier is a name occurrence: its source span, text, and the two
// slots the resolver fills in (RefType, RefIndex). Identifiers are not
// shared: a binding's declaration site and every use site that resolves to
// it are separate Identifier values, carrying the same pair once resolved.
type Identifier struct {
	SpanVal token.Span
	Text    string

	RefType  RefType
	RefIndex int
}

func (id *Identifier) Span() token.Span { return id.SpanVal }
func (id *Identifier) Walk(Visitor)     {}

// Resolve records the binding site found by the resolver.
func (id *Identifier) Resolve(rt RefType, index int) {
	id.RefType = rt
	id.RefIndex = index
}
