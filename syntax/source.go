package syntax

import "enki/logging"

// SourceBuffer owns the text of one source file.  Tokens, spans, and
// diagnostics all borrow into it; it is never mutated after load.
type SourceBuffer struct {
	FileName string
	Text     string
}

// NewSourceBuffer wraps a loaded file
func NewSourceBuffer(fileName, text string) *SourceBuffer {
	return &SourceBuffer{FileName: fileName, Text: text}
}

// LogContext builds the diagnostic context for errors anchored in this file
func (sb *SourceBuffer) LogContext() *logging.LogContext {
	return &logging.LogContext{FilePath: sb.FileName, Source: sb.Text}
}

// Lexeme extracts the raw text covered by a span
func (sb *SourceBuffer) Lexeme(span logging.Span) string {
	return sb.Text[span.Start.Pos:span.End.Pos]
}
