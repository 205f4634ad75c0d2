// Package source tracks positions in rule-document text for diagnostics.
package source

import "fmt"

// Location identifies where a token or AST node came from in the original
// expression string (and, transitively, in the YAML document that embedded
// it).
type Location struct {
	Line    int
	Column  int
	Offset  int
	Snippet string
}

// String renders a location the way diagnostics want it: "line:column".
func (l Location) String() string {
	if l.Line == 0 && l.Column == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Zero reports whether the location was never set.
func (l Location) Zero() bool {
	return l.Line == 0 && l.Column == 0 && l.Offset == 0
}
