package token

import "fmt"

// Pos is a 1-based line and column position within a single File. A zero
// value means "unknown" (used for synthetic nodes introduced by lowering
// passes that have no source text of their own).
type Pos struct {
	Line int
	Col  int
}

// Unknown reports whether p carries no usable position.
func (p Pos) Unknown() bool { return p.Line == 0 }

func (p Pos) String() string {
	if p.Unknown() {
		return "?:?"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span is a half-open range [Start, End) of positions within File. It is
// attached to every AST node and carried through to the emitted line table.
type Span struct {
	File  *File
	Start Pos
	End   Pos
}

// Line is a convenience accessor returning the span's starting line,
// which is all the bytecode line table records.
func (s Span) Line() int { return s.Start.Line }

func (s Span) String() string {
	path := "<unknown>"
	if s.File != nil {
		path = s.File.Path
	}
	return fmt.Sprintf("%s:%s", path, s.Start)
}

// MergeSpan returns the smallest span covering both a and b. Either may be
// the zero Span, in which case the other is returned unchanged; this lets
// callers fold spans over a list without special-casing the first element.
func MergeSpan(a, b Span) Span {
	if a.File == nil {
		return b
	}
	if b.File == nil {
		return a
	}
	start, end := a.Start, a.End
	if before(b.Start, start) {
		start = b.Start
	}
	if before(end, b.End) {
		end = b.End
	}
	return Span{File: a.File, Start: start, End: end}
}

func before(a, b Pos) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Col < b.Col
}
