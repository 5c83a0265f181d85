// Package diag implements the diagnostic-reporting contract shared by the
// scanner, parser, resolver and code generator: problems are accumulated rather than
// raised, so a single run can report every error it finds instead of
// stopping at the first one.
package diag

import (
	"fmt"
	"sort"

	"github.com/InAnYan/loop/lang/token"
)

// Severity distinguishes an error from a supporting note attached to it
// (for example "previous definition was here").
type Severity int

const (
	Error Severity = iota
	Note
)

func (s Severity) String() string {
	if s == Note {
		return "note"
	}
	return "error"
}

// Diagnostic is one reported problem, anchored to a span so it can be
// sorted and pretty-printed with its offending source line.
type Diagnostic struct {
	Severity Severity
	Span     token.Span
	Message  string
}

// Listener is the capability every pass reports diagnostics through. It is
// implemented by Bag (accumulate, used by the orchestrator) and by
// Silent (discard, for callers that only need a pass/fail signal,
// mirroring SilentErrorListener in the Python original).
type Listener interface {
	Errorf(span token.Span, format string, args ...any)
	Notef(span token.Span, format string, args ...any)
	HadError() bool
}

// Bag accumulates diagnostics in report order and can re-sort them by
// source position, the way scanner.ErrorList does in the Go standard
// library (the teacher's scanner reuses that type directly; Bag is the
// equivalent tailored to this language's richer two-position Span and to
// carrying Note severities alongside Errors).
type Bag struct {
	diags []Diagnostic
}

var _ Listener = (*Bag)(nil)

func (b *Bag) Errorf(span token.Span, format string, args ...any) {
	b.diags = append(b.diags, Diagnostic{Severity: Error, Span: span, Message: fmt.Sprintf(format, args...)})
}

func (b *Bag) Notef(span token.Span, format string, args ...any) {
	b.diags = append(b.diags, Diagnostic{Severity: Note, Span: span, Message: fmt.Sprintf(format, args...)})
}

// HadError reports whether any Error-severity diagnostic was recorded.
// Note-only bags are not considered failing, matching ErrorListener's
// had_error flag which only Error.error() sets.
func (b *Bag) HadError() bool {
	for _, d := range b.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// All returns every recorded diagnostic in report order.
func (b *Bag) All() []Diagnostic { return b.diags }

// Sort orders diagnostics by file path, then line, then column, keeping
// Error before Note when positions tie. A note at an earlier position than
// its error (such as a previous definition) sorts before that error.
func (b *Bag) Sort() {
	sort.SliceStable(b.diags, func(i, j int) bool {
		a, c := b.diags[i], b.diags[j]
		ap, cp := "", ""
		if a.Span.File != nil {
			ap = a.Span.File.Path
		}
		if c.Span.File != nil {
			cp = c.Span.File.Path
		}
		if ap != cp {
			return ap < cp
		}
		if a.Span.Start.Line != c.Span.Start.Line {
			return a.Span.Start.Line < c.Span.Start.Line
		}
		if a.Span.Start.Col != c.Span.Start.Col {
			return a.Span.Start.Col < c.Span.Start.Col
		}
		return a.Severity < c.Severity
	})
}

// Silent discards every diagnostic but still tracks HadError, for callers
// that only need a pass/fail signal (for instance a test that feeds
// deliberately-invalid input and checks only that an error was reported,
// without caring about message text).
type Silent struct {
	errored bool
}

var _ Listener = (*Silent)(nil)

func (s *Silent) Errorf(token.Span, string, ...any) { s.errored = true }
func (s *Silent) Notef(token.Span, string, ...any)  {}
func (s *Silent) HadError() bool                    { return s.errored }
