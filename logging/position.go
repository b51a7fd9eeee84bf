package logging

import "fmt"

// Location is a single point in a source file.  Row and Col are 0-based
// internally; user-facing output adds one to both.  Pos is the byte offset
// into the source buffer.
type Location struct {
	Row, Col, Pos int

	// FileName is a handle into the source registry, not an owned copy
	FileName string
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.FileName, l.Row+1, l.Col+1)
}

// Span is an inclusive-exclusive pair of locations within one file.  Every
// token, AST node, type, and symbol carries exactly one span.
type Span struct {
	Start, End Location
}

// SpanBetween builds the span covering two existing spans (used when a parent
// node spans from its first to its last child)
func SpanBetween(start, end Span) Span {
	return Span{Start: start.Start, End: end.End}
}

func (s Span) String() string {
	return fmt.Sprintf("Start %s, End %s", s.Start, s.End)
}
