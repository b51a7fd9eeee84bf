package syntax

import (
	"enki/logging"
	"enki/sem"
	"enki/typing"
)

// Node is implemented by every AST node; every node carries exactly one span
type Node interface {
	Span() logging.Span
}

// Expression is an AST node that produces a value.  ResolvedType is absent
// until the type checker fills it in.
type Expression interface {
	Node
	Type() *typing.Type
	SetType(*typing.Type)
	exprNode()
}

// Statement is an AST node executed for effect
type Statement interface {
	Node
	stmtNode()
}

// ExprBase carries the fields shared by all expressions
type ExprBase struct {
	Pos          logging.Span
	ResolvedType *typing.Type
}

func (e *ExprBase) Span() logging.Span     { return e.Pos }
func (e *ExprBase) Type() *typing.Type     { return e.ResolvedType }
func (e *ExprBase) SetType(t *typing.Type) { e.ResolvedType = t }
func (e *ExprBase) exprNode()              {}

// -----------------------------------------------------------------------------
// Expressions

// Identifier is a bare name reference
type Identifier struct {
	ExprBase
	Name string
}

// Literal is an int, float, string, bool, or char literal.  LitType carries
// the literal's base type as produced by the scanner; Value is the raw
// lexeme (without quotes for strings and chars).
type Literal struct {
	ExprBase
	LitType *typing.Type
	Value   string
}

// BinaryOpKind enumerates the binary operators
type BinaryOpKind int

const (
	OpAdd BinaryOpKind = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpEquals
	OpNotEquals
	OpLessThan
	OpGreaterThan
	OpLessThanOrEqual
	OpGreaterThanOrEqual
)

var binaryOpNames = map[BinaryOpKind]string{
	OpAdd:                "+",
	OpSubtract:           "-",
	OpMultiply:           "*",
	OpDivide:             "/",
	OpModulo:             "%",
	OpEquals:             "==",
	OpNotEquals:          "!=",
	OpLessThan:           "<",
	OpGreaterThan:        ">",
	OpLessThanOrEqual:    "<=",
	OpGreaterThanOrEqual: ">=",
}

func (op BinaryOpKind) String() string {
	return binaryOpNames[op]
}

// BinaryOpPrecedence orders the operators tightest-first: multiplicative,
// additive, relational, equality.  All operators are left-associative.
func BinaryOpPrecedence(op BinaryOpKind) int {
	switch op {
	case OpMultiply, OpDivide, OpModulo:
		return 10
	case OpAdd, OpSubtract:
		return 20
	case OpLessThan, OpGreaterThan, OpLessThanOrEqual, OpGreaterThanOrEqual:
		return 30
	case OpEquals, OpNotEquals:
		return 40
	}

	return -1
}

// TokenToBinaryOp maps an operator token onto its binary operator; the second
// return is false for tokens that are not binary operators, which simply
// terminate an expression's binary cascade
func TokenToBinaryOp(kind int) (BinaryOpKind, bool) {
	switch kind {
	case PLUS:
		return OpAdd, true
	case MINUS:
		return OpSubtract, true
	case STAR:
		return OpMultiply, true
	case DIVIDE:
		return OpDivide, true
	case PERCENT:
		return OpModulo, true
	case LT:
		return OpLessThan, true
	case GT:
		return OpGreaterThan, true
	case LTEQ:
		return OpLessThanOrEqual, true
	case GTEQ:
		return OpGreaterThanOrEqual, true
	case EQ:
		return OpEquals, true
	case NEQ:
		return OpNotEquals, true
	}

	return 0, false
}

// BinaryOp is a left-associative binary operator application
type BinaryOp struct {
	ExprBase
	Op    BinaryOpKind
	Left  Expression
	Right Expression
}

// Call is a function invocation; the callee is always an identifier in this
// revision
type Call struct {
	ExprBase
	Callee Expression
	Args   []Expression
}

// Dereference is the prefix `*` operator
type Dereference struct {
	ExprBase
	Operand Expression
}

// AddressOf is the prefix `&` operator
type AddressOf struct {
	ExprBase
	Operand Expression
}

// Dot is member access: a struct field or an enum variant
type Dot struct {
	ExprBase
	Left  Expression
	Right Expression
}

// StructInstantiation is `struct Name { args... }`.  Struct is filled in by
// the type checker once the named struct is resolved.
type StructInstantiation struct {
	ExprBase
	TypeName *Identifier
	Args     []Expression
	Struct   *typing.StructType
}

// -----------------------------------------------------------------------------
// Statements

// StmtBase carries the span shared by all statements
type StmtBase struct {
	Pos logging.Span
}

func (s *StmtBase) Span() logging.Span { return s.Pos }
func (s *StmtBase) stmtNode()          {}

// VarDecl is `let name = init`.  DeclaredType is nil when the declaration
// has no annotation and the variable takes the initializer's type.
type VarDecl struct {
	StmtBase
	Name         *Identifier
	DeclaredType *typing.Type
	Init         Expression
}

// Assignment is `target = value`; only identifiers are assignable targets in
// this revision
type Assignment struct {
	StmtBase
	Target Expression
	Value  Expression
}

// ExprStmt wraps a call used for its effect
type ExprStmt struct {
	StmtBase
	Expr Expression
}

// Return exits the enclosing function.  Expr is nil for a bare return.
// EnclosingFunc and ValueType are filled in by the type checker.
type Return struct {
	StmtBase
	Expr          Expression
	EnclosingFunc *typing.FuncType
	ValueType     *typing.Type
}

// If is a conditional with an optional else branch
type If struct {
	StmtBase
	Cond Expression
	Then Statement
	Else Statement
}

// While is a pre-checked loop
type While struct {
	StmtBase
	Cond Expression
	Body Statement
}

// Block is a brace-delimited statement sequence with its own scope
type Block struct {
	StmtBase
	Statements []Statement
	Scope      *sem.Scope
}

// Import records `import <"path">`; the module itself is loaded during
// parsing through the program's module context
type Import struct {
	StmtBase
	ModulePath *Literal
}

// Extern declares a function implemented outside the source language, with a
// module-path hint for the back-end
type Extern struct {
	StmtBase
	Name       *Identifier
	ArgTypes   []*typing.Type
	ReturnType *typing.Type
	ModulePath string
}

// Parameter is one formal parameter of a function definition
type Parameter struct {
	Pos      logging.Span
	Name     *Identifier
	ParaType *typing.Type
}

// FunctionDefinition is `define name(params) -> type { body }`.  Func is the
// signature metadata registered by the type checker.  A nil body marks a
// compiler builtin that the back-end lowers directly.
type FunctionDefinition struct {
	StmtBase
	Name       *Identifier
	Params     []*Parameter
	ReturnType *typing.Type
	Body       *Block
	Func       *typing.FuncType
}

// EnumDefinition is `enum Name { members }`.  EnumType is built at parse
// time; ToStringFunc is the synthesised <Name>_to_string function attached
// during type checking.
type EnumDefinition struct {
	StmtBase
	Name         *Identifier
	Members      []*typing.Variable
	EnumType     *typing.Type
	ToStringFunc *FunctionDefinition
}

// StructDefinition is `struct Name { fields }`
type StructDefinition struct {
	StmtBase
	Name   *Identifier
	Fields []*typing.Variable
}

// -----------------------------------------------------------------------------

// ModuleLoader resolves and caches imported modules.  The parser invokes it
// synchronously when it encounters an import statement; a nil program return
// is the soft-failure sentinel.
type ModuleLoader interface {
	Load(name, importerPath string) *Program
}

// Program is the root of one parsed source file: the global block, the root
// scope, a borrowed reference to the source buffer, and a borrowed handle to
// the module context
type Program struct {
	Pos     logging.Span
	Body    *Block
	Scope   *sem.Scope
	Source  *SourceBuffer
	Modules ModuleLoader

	// ID tags the program with a hash of its resolved path when it was
	// loaded as a module
	ID uint
}

func (p *Program) Span() logging.Span { return p.Pos }
