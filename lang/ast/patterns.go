package ast

import "github.com/InAnYan/loop/lang/token"

// IdentifierPattern binds a single name.
type IdentifierPattern struct {
	Ident *Identifier
}

func (p *IdentifierPattern) pattern()          {}
func (p *IdentifierPattern) Span() token.Span  { return p.Ident.Span() }
func (p *IdentifierPattern) Walk(v Visitor)    { Walk(v, p.Ident) }

// ListPattern destructures a list into sub-patterns by position.
type ListPattern struct {
	SpanVal  token.Span
	Patterns []Pattern
}

func (p *ListPattern) pattern()         {}
func (p *ListPattern) Span() token.Span { return p.SpanVal }
func (p *ListPattern) Walk(v Visitor) {
	for _, sub := range p.Patterns {
		Walk(v, sub)
	}
}
