package diag

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes every diagnostic in b to w in the format
// "<path>:<line>: error|note: <message>" followed by the offending source
// line, mirroring DefaultErrorListener.error_impl/note in the Python
// original. b is sorted first so output reads top-to-bottom through the
// source regardless of visit order.
func Fprint(w io.Writer, b *Bag) {
	b.Sort()
	for _, d := range b.diags {
		path := "<unknown>"
		if d.Span.File != nil {
			path = d.Span.File.Path
		}
		fmt.Fprintf(w, "%s:%d: %s: %s\n", path, d.Span.Start.Line, d.Severity, d.Message)
		if line := d.Span.File.Line(d.Span.Start.Line); line != "" {
			fmt.Fprintf(w, "%s\n", line)
			if d.Span.Start.Col > 0 {
				fmt.Fprintf(w, "%s^\n", strings.Repeat(" ", d.Span.Start.Col-1))
			}
		}
	}
}
