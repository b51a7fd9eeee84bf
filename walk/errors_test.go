package walk_test

import (
	"testing"

	"enki/logging"
	"enki/syntax"
	"enki/walk"

	"github.com/stretchr/testify/assert"
)

// checkErr runs the whole front-end over a source string with fatal
// diagnostics trapped, returning the first compile error
func checkErr(t *testing.T, source string) error {
	t.Helper()

	return logging.TrapFatals(func() {
		sb := syntax.NewSourceBuffer("<test>", source)
		program := syntax.Parse(syntax.Lex(sb), sb, nil)

		walk.InjectBuiltins(program)
		walk.WalkProgram(program)
	})
}

type checkErrTest struct {
	name     string
	source   string
	expected string
}

var checkErrTests = []checkErrTest{
	{
		"invalid binary op rejected",
		`let s = "a" + 1`,
		"invalid binary operation: + between string and int",
	},
	{
		"invalid binary op on bools",
		"let b = true + false",
		"invalid binary operation",
	},
	{
		"unknown symbol",
		"let x = y",
		"symbol not found: y",
	},
	{
		"callee is not a function",
		"let x = 1\nlet y = x(2)",
		"symbol is not a function: x",
	},
	{
		"unresolved parameter type",
		"define f(a: Color) -> void { return }",
		"could not resolve type: Color",
	},
	{
		"enum member not found",
		"enum Color { Red }\nlet c = Color.Purple",
		"enum member not found: Purple",
	},
	{
		"struct field not found",
		"struct Point { x: int }\ndefine f(p: Point) -> int { return p.z }",
		"struct member not found: z",
	},
	{
		"dot right side is not an identifier",
		"struct Point { x: int }\ndefine f(p: Point) -> int { return p.x + 1 }",
		"invalid dot expression",
	},
	{
		"declared type mismatch",
		"let x: int = 1.5",
		"variable declaration type mismatch",
	},
	{
		"assignment type mismatch",
		"let x = 1\nx = \"s\"",
		"assignment type mismatch",
	},
	{
		"dereference of a non-pointer",
		"let x = 1\nlet y = *x",
		"dereference operator '*' can only be applied to pointer types",
	},
	{
		"value returned from void function",
		"define f() -> void { return 1 }",
		"cannot return a value from a void function",
	},
	{
		"missing return value in non-void function",
		"define f() -> int { return }",
		"missing return expression in non-void function",
	},
	{
		"return outside of function",
		"return 1",
		"return statement outside of function",
	},
	{
		"argument count mismatch",
		"define f(a: int) -> int { return a }\nlet x = f()",
		"function argument count mismatch: expected 1, got 0",
	},
	{
		"argument type mismatch",
		"define f(a: int) -> int { return a }\nlet x = f(\"s\")",
		"type mismatch in argument 1",
	},
	{
		"extern outside global scope",
		"define f() -> void { extern g() -> void from \"m\" }",
		"extern declarations must be in the global scope",
	},
	{
		"non-bool if condition",
		"if 1 { print(1) }",
		"if condition must be bool",
	},
	{
		"non-bool while condition",
		"while 1 { print(1) }",
		"while condition must be bool",
	},
	{
		"struct instantiation arity mismatch",
		"struct Point { x: int, y: int }\nlet p = struct Point { 1 }",
		"struct has 2 fields but 1 arguments",
	},
	{
		"struct instantiation of a non-struct",
		"enum Color { Red }\nlet p = struct Color { 1 }",
		"struct type is not a struct",
	},
	{
		"meta-type parameter rejects a value argument",
		"enum Color { Red }\nextern sizeof(type) -> int from \"libc\"\nlet c = Color.Red\nlet s = sizeof(c)",
		"type mismatch in argument 1",
	},
}

func TestCheckErrors(t *testing.T) {
	for _, test := range checkErrTests {
		t.Logf("running test '%s'", test.name)

		err := checkErr(t, test.source)
		assert.Error(t, err)
		if err != nil {
			assert.Contains(t, err.Error(), test.expected)
		}
	}
}

// the trapped diagnostic keeps its span and kind
func TestTrappedErrorCarriesSpan(t *testing.T) {
	err := checkErr(t, `let s = "a" + 1`)
	assert.Error(t, err)

	fe, ok := err.(*logging.FatalError)
	assert.True(t, ok)
	assert.Equal(t, logging.LMKTyping, fe.Kind)
	assert.Equal(t, "<test>", fe.Span.Start.FileName)
	assert.Equal(t, 0, fe.Span.Start.Row)
}

// a valid program raises nothing under the trap
func TestTrapFatalsPassesCleanPrograms(t *testing.T) {
	assert.NoError(t, checkErr(t, "let x = 1 + 2"))
}
