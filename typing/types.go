package typing

import (
	"enki/logging"
)

// BaseType enumerates the closed set of type categories the language knows
type BaseType int

const (
	Void BaseType = iota
	Int
	Float
	String
	Bool
	Char
	Pointer
	Enum
	Struct
	Function

	// TypeMeta is the meta-type: the "type" of an identifier that names a
	// type rather than a value.  Only extern parameters use it.
	TypeMeta

	// Identifier is a legacy category for identifiers appearing in type
	// position; the parser produces Unknown instead, but the category is kept
	// so every base a serialized AST may carry can round-trip
	Identifier

	// Unknown is the parser's placeholder when an identifier appears where a
	// type is expected; the name is resolved during type checking
	Unknown

	// Any accepts any operand.  Internal; only the built-in print parameter
	// uses it.
	Any
)

var baseTypeNames = map[BaseType]string{
	Void:       "void",
	Int:        "int",
	Float:      "float",
	String:     "string",
	Bool:       "bool",
	Char:       "char",
	Pointer:    "pointer",
	Enum:       "enum",
	Struct:     "struct",
	Function:   "function",
	TypeMeta:   "type",
	Identifier: "identifier",
	Unknown:    "unknown",
	Any:        "any",
}

func (b BaseType) String() string {
	return baseTypeNames[b]
}

// BaseTypeFromName is the inverse of BaseType.String, used when decoding a
// serialized AST
func BaseTypeFromName(name string) (BaseType, bool) {
	for base, n := range baseTypeNames {
		if n == name {
			return base, true
		}
	}

	return Void, false
}

// Type is the resolved or unresolved type of an expression or declaration.
// At most one of the structure fields below is populated, selected by Base;
// primitive types populate none.
type Type struct {
	Base BaseType

	// Name carries the identifier's text when Base is Unknown, and the
	// declared name for enum and struct types
	Name string

	Span logging.Span

	// structure, indexed by Base
	Pointee    *Type       // Base == Pointer
	EnumType   *EnumType   // Base == Enum
	StructType *StructType // Base == Struct
	FuncType   *FuncType   // Base == Function
}

// Variable is a named, typed slot: an enum member, a struct field, or a
// function parameter
type Variable struct {
	Name string
	Span logging.Span
	Type *Type
}

// EnumType describes a user-defined enum.  Members are kept both as an
// ordered declaration list and a name lookup index.
type EnumType struct {
	Name    string
	Span    logging.Span
	Members []*Variable

	memberIndex map[string]int
}

// AddMember appends a member in declaration order
func (et *EnumType) AddMember(v *Variable) {
	if et.memberIndex == nil {
		et.memberIndex = make(map[string]int)
	}

	et.memberIndex[v.Name] = len(et.Members)
	et.Members = append(et.Members, v)
}

// Member looks a member up by name; the second return is false if no member
// with that name was declared
func (et *EnumType) Member(name string) (*Variable, bool) {
	i, ok := et.memberIndex[name]
	if !ok {
		return nil, false
	}

	return et.Members[i], true
}

// StructType describes a user-defined struct with an ordered field sequence
type StructType struct {
	Name   string
	Span   logging.Span
	Fields []*Variable
}

// Field looks a field up by name with a linear scan of the declaration order
func (st *StructType) Field(name string) (*Variable, bool) {
	for _, f := range st.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return nil, false
}

// FuncType describes a callable signature: a top-level function, an extern,
// or a compiler-synthesised function
type FuncType struct {
	Name       string
	Span       logging.Span
	Params     []*Variable
	ReturnType *Type
}

// -----------------------------------------------------------------------------

// PointerTo builds a pointer type wrapping pointee
func PointerTo(pointee *Type, span logging.Span) *Type {
	return &Type{Base: Pointer, Pointee: pointee, Span: span}
}

// Primitive builds a structureless type of the given base
func Primitive(base BaseType, span logging.Span) *Type {
	return &Type{Base: base, Span: span}
}

// Equal implements structural type equality.  Any (as the destination)
// accepts everything; otherwise bases must match.  Pointers compare their
// pointees recursively; enums and structs compare nominally by name;
// primitives compare by base alone.
func Equal(dest, src *Type) bool {
	if dest == nil || src == nil {
		return false
	}

	if dest.Base == Any {
		return true
	}

	if dest.Base != src.Base {
		return false
	}

	switch dest.Base {
	case Enum:
		return dest.EnumType.Name == src.EnumType.Name
	case Struct:
		return dest.StructType.Name == src.StructType.Name
	case Pointer:
		return Equal(dest.Pointee, src.Pointee)
	}

	return true
}

// CanAssign reports whether a value of type src may be stored in a slot of
// type dest
func CanAssign(dest, src *Type) bool {
	return Equal(dest, src)
}

// CanAssignWithContext is CanAssign with one overload: if dest is the
// meta-type, assignment is legal only when the source expression is a type
// reference (an identifier naming an enum, a struct, or a primitive type)
func CanAssignWithContext(dest, src *Type, isTypeReference bool) bool {
	if dest.Base == TypeMeta {
		return isTypeReference
	}

	return Equal(dest, src)
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}

	switch t.Base {
	case Pointer:
		return "&" + t.Pointee.String()
	case Enum:
		return "enum " + t.EnumType.Name
	case Struct:
		return "struct " + t.StructType.Name
	case Function:
		s := "define " + t.FuncType.Name + "("
		for i, p := range t.FuncType.Params {
			if i > 0 {
				s += ", "
			}
			s += p.Type.String()
		}
		return s + ") -> " + t.FuncType.ReturnType.String()
	case Unknown:
		return "unknown " + t.Name
	}

	return baseTypeNames[t.Base]
}
