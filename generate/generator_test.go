package generate_test

import (
	"strings"
	"testing"

	"enki/generate"
	"enki/syntax"
	"enki/walk"

	"github.com/stretchr/testify/assert"
)

func compile(t *testing.T, source string) string {
	t.Helper()

	sb := syntax.NewSourceBuffer("<test>", source)
	program := syntax.Parse(syntax.Lex(sb), sb, nil)

	walk.InjectBuiltins(program)
	walk.WalkProgram(program)
	return generate.Generate(program)
}

func TestGeneratePreamble(t *testing.T) {
	out := compile(t, "")
	assert.True(t, strings.HasPrefix(out, "#include <iostream>\n#include <string>\n#include <stdlib.h>\n"))
}

func TestGenerateVarDecl(t *testing.T) {
	out := compile(t, "let x = 1 + 2")
	assert.Contains(t, out, "int x = (1 + 2);")

	out = compile(t, "let f = 1.5")
	assert.Contains(t, out, "float f = 1.5;")

	out = compile(t, `let s = "hi"`)
	assert.Contains(t, out, `std::string s = "hi";`)
}

func TestGeneratePrintLowersToCout(t *testing.T) {
	out := compile(t, `print("hello")`)
	assert.Contains(t, out, `std::cout << "hello" << std::endl;`)

	// the bodiless print builtin itself emits nothing
	assert.False(t, strings.Contains(out, "void print"))
}

func TestGenerateFunctionDefinition(t *testing.T) {
	out := compile(t, "define add(a: int, b: int) -> int { return a + b }")
	assert.Contains(t, out, "int add(int a, int b){")
	assert.Contains(t, out, "return (a + b);")
}

func TestGenerateEnumWithToString(t *testing.T) {
	out := compile(t, "enum Color { Red, Green, Blue }")

	assert.Contains(t, out, "enum class Color {\n  Red,\n  Green,\n  Blue,\n};")

	// the synthesised to-string function lowers right after the enum
	assert.Contains(t, out, "std::string Color_to_string(Color value)")
	assert.Contains(t, out, "if ((value == Color::Red))")
	assert.Contains(t, out, `return "Red";`)
}

func TestGenerateStructAndInstantiation(t *testing.T) {
	out := compile(t, `struct Point { x: int, y: float }
let p = struct Point { 1, 2.0 }`)

	assert.Contains(t, out, "struct Point {\n  int x;\n  float y;\n};")
	assert.Contains(t, out, "Point p = Point{1, 2.0};")
}

func TestGeneratePointers(t *testing.T) {
	out := compile(t, "let a = 1\nlet p = &a\nlet b = *p")

	assert.Contains(t, out, "int *p = (&(a));")
	assert.Contains(t, out, "int b = (*(p));")
}

func TestGenerateControlFlow(t *testing.T) {
	out := compile(t, `let x = 1
if x < 2 { print(x) } else { print(0) }
while x == 1 { print(x) }`)

	assert.Contains(t, out, "if ((x < 2)){")
	assert.Contains(t, out, "}\n else {")
	assert.Contains(t, out, "while ((x == 1)){")
}

func TestGenerateExternEmitsNothing(t *testing.T) {
	out := compile(t, `extern malloc(int) -> &void from "libc"`)
	assert.False(t, strings.Contains(out, "malloc"))
}

func TestGenerateCharLiteral(t *testing.T) {
	out := compile(t, "let c = 'x'")
	assert.Contains(t, out, "char c = 'x';")
}

func TestGenerateAssignment(t *testing.T) {
	out := compile(t, "let x = 1\nx = 2")
	assert.Contains(t, out, "x = 2;")
}
