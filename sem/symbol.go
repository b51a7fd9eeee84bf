package sem

import (
	"enki/logging"
	"enki/typing"
)

// SymbolKind is the kind of definition that produced a symbol
type SymbolKind int

const (
	KindFunction SymbolKind = iota
	KindVariable
	KindArgument
	KindEnum
	KindStruct
)

var symbolKindNames = map[SymbolKind]string{
	KindFunction: "function",
	KindVariable: "variable",
	KindArgument: "argument",
	KindEnum:     "enum",
	KindStruct:   "struct",
}

func (k SymbolKind) String() string {
	return symbolKindNames[k]
}

// Symbol represents a named symbol (globally or locally)
type Symbol struct {
	// Name is the name of the symbol (as it is referenced in source code)
	Name string

	// Kind is the kind of definition that produced this symbol
	Kind SymbolKind

	// Type stores the data type of this symbol
	Type *typing.Type

	// Span is where this symbol is defined
	Span logging.Span
}
