package walk

import (
	"enki/logging"
	"enki/sem"
	"enki/syntax"
	"enki/typing"
)

// Walker performs semantic analysis on a parsed program: it fills every
// expression's resolved type, populates the scope symbol tables, and attaches
// the synthesised enum-to-string functions.  Each block is processed in two
// passes -- signature registration, then full checking -- which gives mutual
// recursion within a block and forward references to types from functions.
type Walker struct {
	program *syntax.Program
	lctx    *logging.LogContext

	scopeStack []*sem.Scope
	funcStack  []*typing.FuncType
}

// NewWalker creates a walker for the given program
func NewWalker(program *syntax.Program) *Walker {
	return &Walker{
		program:    program,
		lctx:       program.Source.LogContext(),
		scopeStack: []*sem.Scope{program.Scope},
	}
}

// WalkProgram type-checks a program in place
func WalkProgram(program *syntax.Program) {
	logging.Debugf("[walk] type checking %s", program.Source.FileName)
	NewWalker(program).walkBlock(program.Body)
}

// -----------------------------------------------------------------------------
// context stacks

func (w *Walker) currentScope() *sem.Scope {
	return w.scopeStack[len(w.scopeStack)-1]
}

func (w *Walker) pushScope(scope *sem.Scope) {
	w.scopeStack = append(w.scopeStack, scope)
}

func (w *Walker) popScope() {
	w.scopeStack = w.scopeStack[:len(w.scopeStack)-1]
}

func (w *Walker) currentFunction() *typing.FuncType {
	if len(w.funcStack) == 0 {
		return nil
	}

	return w.funcStack[len(w.funcStack)-1]
}

func (w *Walker) pushFunction(f *typing.FuncType) {
	w.funcStack = append(w.funcStack, f)
}

func (w *Walker) popFunction() {
	w.funcStack = w.funcStack[:len(w.funcStack)-1]
}

func (w *Walker) fail(message string, kind int, span logging.Span) {
	logging.LogCompileError(w.lctx, message, kind, span)
}

// -----------------------------------------------------------------------------
// block checking

// walkBlock processes one block with the two-pass discipline: first register
// every enum, then every struct, then every function signature; only then
// check statement bodies.  Enum order within a block does not matter as long
// as enums precede functions in the registration order.
func (w *Walker) walkBlock(block *syntax.Block) {
	w.pushScope(block.Scope)

	for _, stmt := range block.Statements {
		if enumDef, ok := stmt.(*syntax.EnumDefinition); ok {
			w.registerEnum(enumDef)
		}
	}
	for _, stmt := range block.Statements {
		if structDef, ok := stmt.(*syntax.StructDefinition); ok {
			w.registerStruct(structDef)
		}
	}
	for _, stmt := range block.Statements {
		if funcDef, ok := stmt.(*syntax.FunctionDefinition); ok {
			w.registerFunction(funcDef)
		}
	}

	for _, stmt := range block.Statements {
		w.walkStmt(stmt)
	}

	w.popScope()
}

// -----------------------------------------------------------------------------
// signature registration

func (w *Walker) registerEnum(enumDef *syntax.EnumDefinition) {
	logging.Tracef("[walk] registering enum signature: %s", enumDef.Name.Name)

	w.currentScope().Define(&sem.Symbol{
		Name: enumDef.Name.Name,
		Kind: sem.KindEnum,
		Type: enumDef.EnumType,
		Span: enumDef.Span(),
	})
}

func (w *Walker) registerStruct(structDef *syntax.StructDefinition) {
	logging.Tracef("[walk] registering struct signature: %s", structDef.Name.Name)

	structType := &typing.StructType{
		Name:   structDef.Name.Name,
		Span:   structDef.Span(),
		Fields: structDef.Fields,
	}

	w.currentScope().Define(&sem.Symbol{
		Name: structDef.Name.Name,
		Kind: sem.KindStruct,
		Type: &typing.Type{
			Base:       typing.Struct,
			Name:       structDef.Name.Name,
			Span:       structDef.Span(),
			StructType: structType,
		},
		Span: structDef.Span(),
	})
}

// registerFunction builds a function's signature metadata and inserts its
// symbol.  Unknown parameter and return types resolve against the enums and
// structs already visible; anything still unresolved is caught when the
// definition itself is checked.
func (w *Walker) registerFunction(funcDef *syntax.FunctionDefinition) {
	logging.Tracef("[walk] registering function signature: %s", funcDef.Name.Name)

	funcType := &typing.FuncType{
		Name:       funcDef.Name.Name,
		Span:       funcDef.Span(),
		ReturnType: w.resolveTypeSoft(funcDef.ReturnType),
	}

	for _, param := range funcDef.Params {
		funcType.Params = append(funcType.Params, &typing.Variable{
			Name: param.Name.Name,
			Span: param.Pos,
			Type: w.resolveTypeSoft(param.ParaType),
		})
	}

	funcDef.Func = funcType

	w.currentScope().Define(&sem.Symbol{
		Name: funcDef.Name.Name,
		Kind: sem.KindFunction,
		Type: &typing.Type{Base: typing.Function, Span: funcDef.Span(), FuncType: funcType},
		Span: funcDef.Span(),
	})
}

// -----------------------------------------------------------------------------
// type resolution

// resolveTypeSoft substitutes Unknown-named types that are already visible
// and leaves the rest untouched for the checking pass to flag
func (w *Walker) resolveTypeSoft(t *typing.Type) *typing.Type {
	if t == nil {
		return nil
	}

	switch t.Base {
	case typing.Unknown:
		if sym := w.currentScope().Lookup(t.Name); sym != nil &&
			(sym.Kind == sem.KindEnum || sym.Kind == sem.KindStruct) {
			return sym.Type
		}
		return t
	case typing.Pointer:
		return &typing.Type{Base: typing.Pointer, Span: t.Span, Pointee: w.resolveTypeSoft(t.Pointee)}
	}

	return t
}

// resolveType substitutes Unknown-named types against the scope chain and
// fails if the name does not resolve to an enum or struct
func (w *Walker) resolveType(t *typing.Type) *typing.Type {
	if t == nil {
		return nil
	}

	switch t.Base {
	case typing.Unknown:
		sym := w.currentScope().Lookup(t.Name)
		if sym == nil || (sym.Kind != sem.KindEnum && sym.Kind != sem.KindStruct) {
			w.fail("could not resolve type: "+t.Name, logging.LMKName, t.Span)
		}
		return sym.Type
	case typing.Pointer:
		return &typing.Type{Base: typing.Pointer, Span: t.Span, Pointee: w.resolveType(t.Pointee)}
	}

	return t
}

// isTypeReference reports whether an expression names a type rather than a
// value: an identifier whose symbol is an enum, a struct, or a primitive
// type keyword.  Used by meta-type parameter checking.
func (w *Walker) isTypeReference(expr syntax.Expression) bool {
	ident, ok := expr.(*syntax.Identifier)
	if !ok {
		return false
	}

	switch ident.Name {
	case "int", "float", "string", "bool", "char", "void":
		return true
	}

	sym := w.currentScope().Lookup(ident.Name)
	if sym == nil {
		return false
	}

	return sym.Kind == sem.KindEnum || sym.Kind == sem.KindStruct
}
