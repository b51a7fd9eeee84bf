package walk

import (
	"fmt"

	"enki/logging"
	"enki/sem"
	"enki/syntax"
	"enki/typing"
)

func (w *Walker) walkStmt(stmt syntax.Statement) {
	switch v := stmt.(type) {
	case *syntax.Block:
		w.walkBlock(v)
	case *syntax.ExprStmt:
		w.walkExpr(v.Expr)
	case *syntax.VarDecl:
		w.walkVarDecl(v)
	case *syntax.Assignment:
		w.walkAssignment(v)
	case *syntax.Return:
		w.walkReturn(v)
	case *syntax.If:
		w.walkIf(v)
	case *syntax.While:
		w.walkWhile(v)
	case *syntax.Import:
		w.walkImport(v)
	case *syntax.Extern:
		w.walkExtern(v)
	case *syntax.FunctionDefinition:
		w.walkFunctionDefinition(v)
	case *syntax.EnumDefinition:
		w.walkEnumDefinition(v)
	case *syntax.StructDefinition:
		// the struct itself was registered in the first pass; here its field
		// types resolve, now that every type in the block is visible
		for _, field := range v.Fields {
			field.Type = w.resolveType(field.Type)
		}
	default:
		w.fail("unknown statement kind", logging.LMKTyping, stmt.Span())
	}
}

func (w *Walker) walkVarDecl(varDecl *syntax.VarDecl) {
	initType := w.walkExpr(varDecl.Init)

	if varDecl.DeclaredType != nil {
		varDecl.DeclaredType = w.resolveType(varDecl.DeclaredType)

		if !typing.CanAssignWithContext(varDecl.DeclaredType, initType, w.isTypeReference(varDecl.Init)) {
			w.fail(fmt.Sprintf("variable declaration type mismatch: declared %s but expression is %s",
				varDecl.DeclaredType, initType), logging.LMKTyping, varDecl.Span())
		}
	}

	symType := varDecl.DeclaredType
	if symType == nil {
		symType = initType
	}

	w.currentScope().Define(&sem.Symbol{
		Name: varDecl.Name.Name,
		Kind: sem.KindVariable,
		Type: symType,
		Span: varDecl.Span(),
	})
}

// walkAssignment requires the right-hand side to be assignable to the
// target's declared type.  The target symbol is left untouched: a variable's
// type is fixed at its declaration.
func (w *Walker) walkAssignment(assignment *syntax.Assignment) {
	targetType := w.walkExpr(assignment.Target)
	valueType := w.walkExpr(assignment.Value)

	if !typing.CanAssign(targetType, valueType) {
		w.fail(fmt.Sprintf("assignment type mismatch: %s != %s", targetType, valueType),
			logging.LMKTyping, assignment.Span())
	}
}

func (w *Walker) walkReturn(ret *syntax.Return) {
	currentFunc := w.currentFunction()
	if currentFunc == nil {
		w.fail("return statement outside of function", logging.LMKTyping, ret.Span())
	}

	// a void function's return must carry no expression
	if currentFunc.ReturnType.Base == typing.Void {
		if ret.Expr != nil {
			w.fail("cannot return a value from a void function", logging.LMKTyping, ret.Span())
		}

		ret.ValueType = currentFunc.ReturnType
		ret.EnclosingFunc = currentFunc
		return
	}

	if ret.Expr == nil {
		w.fail("missing return expression in non-void function", logging.LMKTyping, ret.Span())
	}

	returnType := w.walkExpr(ret.Expr)
	if !typing.CanAssignWithContext(currentFunc.ReturnType, returnType, w.isTypeReference(ret.Expr)) {
		w.fail(fmt.Sprintf("return type mismatch: %s != %s", returnType, currentFunc.ReturnType),
			logging.LMKTyping, ret.Span())
	}

	ret.ValueType = returnType
	ret.EnclosingFunc = currentFunc
}

func (w *Walker) walkCondition(cond syntax.Expression, what string) {
	condType := w.walkExpr(cond)

	if condType.Base == typing.TypeMeta {
		w.fail(fmt.Sprintf("%s condition cannot be a type meta-type, got: %s", what, condType),
			logging.LMKTyping, cond.Span())
	}
	if condType.Base != typing.Bool {
		w.fail(fmt.Sprintf("%s condition must be bool, got: %s", what, condType),
			logging.LMKTyping, cond.Span())
	}
}

func (w *Walker) walkIf(ifStmt *syntax.If) {
	w.walkCondition(ifStmt.Cond, "if")
	w.walkStmt(ifStmt.Then)

	if ifStmt.Else != nil {
		w.walkStmt(ifStmt.Else)
	}
}

func (w *Walker) walkWhile(whileStmt *syntax.While) {
	w.walkCondition(whileStmt.Cond, "while")
	w.walkStmt(whileStmt.Body)
}

func (w *Walker) walkImport(importStmt *syntax.Import) {
	// the module itself was loaded during parsing; here we only validate the
	// path literal
	if importStmt.ModulePath.LitType.Base != typing.String {
		w.fail("import module path must be a string literal", logging.LMKImport, importStmt.Span())
	}
}

// walkExtern registers an externally implemented function; externs are legal
// only in the global scope
func (w *Walker) walkExtern(ext *syntax.Extern) {
	if w.currentScope() != w.program.Scope {
		w.fail("extern declarations must be in the global scope", logging.LMKTyping, ext.Span())
	}

	funcType := &typing.FuncType{
		Name:       ext.Name.Name,
		Span:       ext.Span(),
		ReturnType: w.resolveType(ext.ReturnType),
	}

	for i, argType := range ext.ArgTypes {
		funcType.Params = append(funcType.Params, &typing.Variable{
			Name: fmt.Sprintf("arg_%d", i),
			Span: argType.Span,
			Type: w.resolveType(argType),
		})
	}

	w.currentScope().Define(&sem.Symbol{
		Name: ext.Name.Name,
		Kind: sem.KindFunction,
		Type: &typing.Type{Base: typing.Function, Span: ext.Span(), FuncType: funcType},
		Span: ext.Span(),
	})
}

func (w *Walker) walkFunctionDefinition(funcDef *syntax.FunctionDefinition) {
	logging.Tracef("[walk] checking function definition: %s", funcDef.Name.Name)

	sym := w.currentScope().Lookup(funcDef.Name.Name)
	if sym == nil || sym.Kind != sem.KindFunction {
		w.fail("function not found in symbol table: "+funcDef.Name.Name, logging.LMKName, funcDef.Span())
	}

	funcType := sym.Type.FuncType
	funcDef.Func = funcType

	funcDef.ReturnType = w.resolveType(funcDef.ReturnType)
	funcType.ReturnType = funcDef.ReturnType

	// builtins have no body to check
	if funcDef.Body == nil {
		return
	}

	w.pushFunction(funcType)

	// parameters live in the body's scope, resolved against the enclosing
	// scope chain
	for i, param := range funcDef.Params {
		param.ParaType = w.resolveType(param.ParaType)
		funcType.Params[i].Type = param.ParaType

		funcDef.Body.Scope.Define(&sem.Symbol{
			Name: param.Name.Name,
			Kind: sem.KindArgument,
			Type: param.ParaType,
			Span: param.Pos,
		})
	}

	w.walkBlock(funcDef.Body)
	w.popFunction()
}

// walkEnumDefinition inserts the enum's members into the current scope and
// synthesises the <Enum>_to_string function there.  Synthesis happens here,
// lazily, so the injected function lands in the right scope and after its
// enum type is known.
func (w *Walker) walkEnumDefinition(enumDef *syntax.EnumDefinition) {
	sym := w.currentScope().Lookup(enumDef.Name.Name)
	if sym == nil || sym.Kind != sem.KindEnum {
		w.fail("enum not found in symbol table: "+enumDef.Name.Name, logging.LMKName, enumDef.Span())
	}

	for _, member := range enumDef.EnumType.EnumType.Members {
		w.currentScope().Define(&sem.Symbol{
			Name: member.Name,
			Kind: sem.KindVariable,
			Type: member.Type,
			Span: member.Span,
		})
	}

	if enumDef.ToStringFunc == nil {
		enumDef.ToStringFunc = buildEnumToString(enumDef, w.currentScope())
	}

	logging.Tracef("[walk] injected enum-to-string function for enum '%s'", enumDef.Name.Name)

	w.registerFunction(enumDef.ToStringFunc)
	w.walkFunctionDefinition(enumDef.ToStringFunc)
}
