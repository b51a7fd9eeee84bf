package walk_test

import (
	"testing"

	"enki/sem"
	"enki/syntax"
	"enki/typing"
	"enki/walk"

	"github.com/stretchr/testify/assert"
)

// check runs the whole front-end over a source string: lex, parse, inject,
// type check
func check(t *testing.T, source string) *syntax.Program {
	t.Helper()

	sb := syntax.NewSourceBuffer("<test>", source)
	program := syntax.Parse(syntax.Lex(sb), sb, nil)

	walk.InjectBuiltins(program)
	walk.WalkProgram(program)
	return program
}

func TestArithmeticPromotion(t *testing.T) {
	program := check(t, "let x = 1 + 2.0")

	sym := program.Scope.Lookup("x")
	assert.NotNil(t, sym)
	assert.Equal(t, typing.Float, sym.Type.Base)

	// pure int arithmetic stays int
	program = check(t, "let y = 1 + 2 * 3")
	assert.Equal(t, typing.Int, program.Scope.Lookup("y").Type.Base)
}

func TestPrintInjected(t *testing.T) {
	program := check(t, "print(42)")

	// print is prepended to the global block and registered as a function
	// taking one Any parameter
	printDef := program.Body.Statements[0].(*syntax.FunctionDefinition)
	assert.Equal(t, "print", printDef.Name.Name)
	assert.Nil(t, printDef.Body)

	sym := program.Scope.Lookup("print")
	assert.NotNil(t, sym)
	assert.Equal(t, sem.KindFunction, sym.Kind)
	assert.Len(t, sym.Type.FuncType.Params, 1)
	assert.Equal(t, typing.Any, sym.Type.FuncType.Params[0].Type.Base)
}

func TestInjectBuiltinsIsIdempotent(t *testing.T) {
	sb := syntax.NewSourceBuffer("<test>", "let x = 1")
	program := syntax.Parse(syntax.Lex(sb), sb, nil)

	walk.InjectBuiltins(program)
	count := len(program.Body.Statements)
	walk.InjectBuiltins(program)
	assert.Len(t, program.Body.Statements, count)
}

func TestEnumToStringSynthesised(t *testing.T) {
	program := check(t, "enum Color { Red, Green, Blue }")

	sym := program.Scope.Lookup("Color_to_string")
	assert.NotNil(t, sym)
	assert.Equal(t, sem.KindFunction, sym.Kind)

	funcType := sym.Type.FuncType
	assert.Len(t, funcType.Params, 1)
	assert.Equal(t, typing.Enum, funcType.Params[0].Type.Base)
	assert.Equal(t, "Color", funcType.Params[0].Type.EnumType.Name)
	assert.Equal(t, typing.String, funcType.ReturnType.Base)

	// the synthesised body is an if-chain with one branch per member, in
	// declaration order
	enumDef := program.Body.Statements[1].(*syntax.EnumDefinition)
	assert.NotNil(t, enumDef.ToStringFunc)
	assert.Len(t, enumDef.ToStringFunc.Body.Statements, 3)

	first := enumDef.ToStringFunc.Body.Statements[0].(*syntax.If)
	cond := first.Cond.(*syntax.BinaryOp)
	assert.Equal(t, syntax.OpEquals, cond.Op)
	dot := cond.Right.(*syntax.Dot)
	assert.Equal(t, "Red", dot.Right.(*syntax.Identifier).Name)
}

func TestEnumToStringIsCallable(t *testing.T) {
	program := check(t, `enum Color { Red, Green, Blue }
let name = Color_to_string(Color.Red)`)

	assert.Equal(t, typing.String, program.Scope.Lookup("name").Type.Base)
}

func TestPointerDereferenceRoundTrip(t *testing.T) {
	program := check(t, "let a = 1\nlet p = &a\nlet b = *p")

	p := program.Scope.Lookup("p")
	assert.Equal(t, typing.Pointer, p.Type.Base)
	assert.Equal(t, typing.Int, p.Type.Pointee.Base)

	b := program.Scope.Lookup("b")
	assert.Equal(t, typing.Int, b.Type.Base)
}

// the two-pass design allows calls to functions defined later in the block
func TestForwardReference(t *testing.T) {
	program := check(t, `define a() -> int { return b() }
define b() -> int { return 1 }`)

	aDef := program.Body.Statements[1].(*syntax.FunctionDefinition)
	ret := aDef.Body.Statements[0].(*syntax.Return)
	assert.Equal(t, typing.Int, ret.Expr.Type().Base)
	assert.Same(t, aDef.Func, ret.EnclosingFunc)
}

func TestForwardReferenceToEnumFromFunction(t *testing.T) {
	program := check(t, `define pick() -> Color { return Color.Green }
enum Color { Red, Green, Blue }`)

	pickDef := program.Body.Statements[1].(*syntax.FunctionDefinition)
	assert.Equal(t, typing.Enum, pickDef.Func.ReturnType.Base)
	assert.Equal(t, "Color", pickDef.Func.ReturnType.EnumType.Name)
}

func TestStructFieldAccess(t *testing.T) {
	program := check(t, `struct Point { x: int, y: float }
define getx(p: Point) -> int { return p.x }
let origin = struct Point { 1, 2.0 }`)

	origin := program.Scope.Lookup("origin")
	assert.Equal(t, typing.Struct, origin.Type.Base)
	assert.Equal(t, "Point", origin.Type.StructType.Name)

	getxDef := program.Body.Statements[2].(*syntax.FunctionDefinition)
	ret := getxDef.Body.Statements[0].(*syntax.Return)
	assert.Equal(t, typing.Int, ret.Expr.Type().Base)
}

func TestStructInstantiationRecordsStruct(t *testing.T) {
	program := check(t, `struct Point { x: int, y: int }
let p = struct Point { 1, 2 }`)

	varDecl := program.Body.Statements[2].(*syntax.VarDecl)
	inst := varDecl.Init.(*syntax.StructInstantiation)
	assert.NotNil(t, inst.Struct)
	assert.Equal(t, "Point", inst.Struct.Name)
}

func TestExternMetaTypeParameter(t *testing.T) {
	program := check(t, `enum Color { Red }
extern sizeof(type) -> int from "libc"
let s = sizeof(Color)`)

	sizeofSym := program.Scope.Lookup("sizeof")
	assert.NotNil(t, sizeofSym)
	assert.Equal(t, sem.KindFunction, sizeofSym.Kind)
	assert.Equal(t, typing.TypeMeta, sizeofSym.Type.FuncType.Params[0].Type.Base)

	assert.Equal(t, typing.Int, program.Scope.Lookup("s").Type.Base)
}

func TestExternPointerSignature(t *testing.T) {
	program := check(t, `extern malloc(int) -> &void from "libc"
let p = malloc(16)`)

	p := program.Scope.Lookup("p")
	assert.Equal(t, typing.Pointer, p.Type.Base)
	assert.Equal(t, typing.Void, p.Type.Pointee.Base)
}

// assignment leaves the declared type and the symbol itself untouched
func TestAssignmentKeepsDeclaredType(t *testing.T) {
	program := check(t, "let x = 1\nx = 2")

	sym := program.Scope.Lookup("x")
	assert.Equal(t, typing.Int, sym.Type.Base)

	varDecl := program.Body.Statements[1].(*syntax.VarDecl)
	assert.Equal(t, varDecl.Span(), sym.Span)

	assignment := program.Body.Statements[2].(*syntax.Assignment)
	assert.Equal(t, typing.Int, assignment.Value.Type().Base)
}

func TestShadowingInNestedBlock(t *testing.T) {
	program := check(t, `let x = 1
{
  let x = 2.0
  let y = x
}`)

	// the outer symbol is untouched
	assert.Equal(t, typing.Int, program.Scope.Lookup("x").Type.Base)

	block := program.Body.Statements[2].(*syntax.Block)
	assert.Equal(t, typing.Float, block.Scope.Lookup("y").Type.Base)
}

func TestFunctionParametersAreScoped(t *testing.T) {
	program := check(t, "define add(a: int, b: int) -> int { return a + b }")

	addDef := program.Body.Statements[1].(*syntax.FunctionDefinition)
	aSym := addDef.Body.Scope.Lookup("a")
	assert.NotNil(t, aSym)
	assert.Equal(t, sem.KindArgument, aSym.Kind)

	// parameters are invisible outside the function
	assert.Nil(t, program.Scope.Lookup("a"))
}

func TestVoidFunctionBareReturn(t *testing.T) {
	program := check(t, "define noop() -> void { return }")

	noopDef := program.Body.Statements[1].(*syntax.FunctionDefinition)
	ret := noopDef.Body.Statements[0].(*syntax.Return)
	assert.Equal(t, typing.Void, ret.ValueType.Base)
	assert.NotNil(t, ret.EnclosingFunc)
}

func TestConditionTypes(t *testing.T) {
	program := check(t, `let x = 1
if x < 2 { print(x) }
while x == 1 { print(x) }`)

	ifStmt := program.Body.Statements[2].(*syntax.If)
	assert.Equal(t, typing.Bool, ifStmt.Cond.Type().Base)

	whileStmt := program.Body.Statements[3].(*syntax.While)
	assert.Equal(t, typing.Bool, whileStmt.Cond.Type().Base)
}

func TestDeclaredTypeAnnotationIsChecked(t *testing.T) {
	program := check(t, "let x: float = 1.5")
	assert.Equal(t, typing.Float, program.Scope.Lookup("x").Type.Base)
}

func TestUnknownParamTypesResolve(t *testing.T) {
	program := check(t, `enum Color { Red, Green }
define show(c: Color) -> void { print(Color_to_string(c)) }`)

	showDef := program.Body.Statements[2].(*syntax.FunctionDefinition)
	assert.Equal(t, typing.Enum, showDef.Params[0].ParaType.Base)
	assert.Equal(t, typing.Enum, showDef.Func.Params[0].Type.Base)
}

// after type checking no expression carries an Unknown or missing type, and
// Any survives only as print's parameter
func TestResolvedTypeInvariants(t *testing.T) {
	program := check(t, `enum Color { Red, Green, Blue }
struct Point { x: int, y: int }
define area(p: Point) -> int {
  let w = p.x
  let h = p.y
  return w * h
}
let c = Color.Blue
let p = struct Point { 2, 3 }
let a = area(p)
print(Color_to_string(c))`)

	var checkExpr func(e syntax.Expression)
	checkExpr = func(e syntax.Expression) {
		if e == nil {
			return
		}

		rt := e.Type()
		assert.NotNil(t, rt)
		if rt != nil {
			assert.NotEqual(t, typing.Unknown, rt.Base)
			assert.NotEqual(t, typing.Identifier, rt.Base)
		}

		switch v := e.(type) {
		case *syntax.BinaryOp:
			checkExpr(v.Left)
			checkExpr(v.Right)
		case *syntax.Call:
			for _, arg := range v.Args {
				checkExpr(arg)
			}
		case *syntax.Dereference:
			checkExpr(v.Operand)
		case *syntax.AddressOf:
			checkExpr(v.Operand)
		case *syntax.Dot:
			checkExpr(v.Left)
			checkExpr(v.Right)
		case *syntax.StructInstantiation:
			for _, arg := range v.Args {
				checkExpr(arg)
			}
		}
	}

	var checkStmt func(s syntax.Statement)
	checkStmt = func(s syntax.Statement) {
		switch v := s.(type) {
		case *syntax.Block:
			for _, stmt := range v.Statements {
				checkStmt(stmt)
			}
		case *syntax.VarDecl:
			checkExpr(v.Init)
		case *syntax.Assignment:
			checkExpr(v.Target)
			checkExpr(v.Value)
		case *syntax.ExprStmt:
			checkExpr(v.Expr)
		case *syntax.Return:
			checkExpr(v.Expr)
		case *syntax.If:
			checkExpr(v.Cond)
			checkStmt(v.Then)
			if v.Else != nil {
				checkStmt(v.Else)
			}
		case *syntax.While:
			checkExpr(v.Cond)
			checkStmt(v.Body)
		case *syntax.FunctionDefinition:
			if v.Body != nil {
				checkStmt(v.Body)
			}
		case *syntax.EnumDefinition:
			if v.ToStringFunc != nil {
				checkStmt(v.ToStringFunc)
			}
		}
	}

	for _, stmt := range program.Body.Statements {
		checkStmt(stmt)
	}

	// Any persists only in print's parameter list
	printSym := program.Scope.Lookup("print")
	assert.Equal(t, typing.Any, printSym.Type.FuncType.Params[0].Type.Base)
	for _, name := range []string{"c", "p", "a", "area", "Color", "Point"} {
		sym := program.Scope.Lookup(name)
		assert.NotNil(t, sym)
		assert.NotEqual(t, typing.Any, sym.Type.Base)
	}
}

func TestMutualRecursionWithinBlock(t *testing.T) {
	program := check(t, `define even(n: int) -> int { return odd(n - 1) }
define odd(n: int) -> int { return even(n - 1) }`)

	evenDef := program.Body.Statements[1].(*syntax.FunctionDefinition)
	ret := evenDef.Body.Statements[0].(*syntax.Return)
	assert.Equal(t, typing.Int, ret.Expr.Type().Base)
}

func TestNestedFunctionDefinition(t *testing.T) {
	program := check(t, `define outer() -> int {
  define inner() -> int { return 1 }
  return inner()
}`)

	outerDef := program.Body.Statements[1].(*syntax.FunctionDefinition)
	ret := outerDef.Body.Statements[1].(*syntax.Return)
	assert.Equal(t, typing.Int, ret.Expr.Type().Base)

	// inner stays local to outer's body
	assert.Nil(t, program.Scope.Lookup("inner"))
	assert.NotNil(t, outerDef.Body.Scope.Lookup("inner"))
}

func TestEnumMembersVisibleAsSymbols(t *testing.T) {
	program := check(t, "enum Color { Red, Green }")

	red := program.Scope.Lookup("Red")
	assert.NotNil(t, red)
	assert.Equal(t, sem.KindVariable, red.Kind)
	assert.Equal(t, typing.Enum, red.Type.Base)
}

func TestImportStatementSurvivesMissingModule(t *testing.T) {
	// scenario 6: check() parses with no module loader attached, so the
	// module is never found; the import statement still reaches the
	// checker, which only validates the literal
	program := check(t, `import <"nonexistent">
let x = 1`)

	_, isImport := program.Body.Statements[1].(*syntax.Import)
	assert.True(t, isImport)
	assert.Equal(t, typing.Int, program.Scope.Lookup("x").Type.Base)
}
