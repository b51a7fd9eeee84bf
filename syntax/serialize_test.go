package syntax_test

import (
	"strings"
	"testing"

	"enki/syntax"

	"github.com/stretchr/testify/assert"
)

const serdeSource = `enum Color { Red, Green, Blue }
struct Point { x: int, y: float }
extern malloc(int) -> &void from "libc"
define dist(p: Point) -> float { return p.x * 1.0 }
let origin = struct Point { 0, 0.0 }
let c = Color.Red
if 1 < 2 { print("smaller") } else { print("bigger") }
while false { print(1) }
`

// parse, serialise, deserialise, re-serialise: the two encodings must be
// byte-equal
func TestSerdeRoundTrip(t *testing.T) {
	sb := syntax.NewSourceBuffer("<test>", serdeSource)
	program := syntax.Parse(syntax.Lex(sb), sb, nil)

	first, err := syntax.MarshalProgram(program, false)
	assert.NoError(t, err)

	decoded, err := syntax.UnmarshalProgram(first, sb)
	assert.NoError(t, err)

	second, err := syntax.MarshalProgram(decoded, false)
	assert.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestSerdeVisualizationModeOmitsSpans(t *testing.T) {
	sb := syntax.NewSourceBuffer("<test>", "let x = 1 + 2")
	program := syntax.Parse(syntax.Lex(sb), sb, nil)

	out, err := syntax.MarshalProgram(program, true)
	assert.NoError(t, err)
	assert.False(t, strings.Contains(string(out), `"span"`))

	full, err := syntax.MarshalProgram(program, false)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(full), `"span"`))
	assert.Greater(t, len(full), len(out))
}

func TestSerdeDiscriminators(t *testing.T) {
	sb := syntax.NewSourceBuffer("<test>", "let x = 1")
	program := syntax.Parse(syntax.Lex(sb), sb, nil)

	out, err := syntax.MarshalProgram(program, true)
	assert.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, `"type": "Program"`)
	assert.Contains(t, text, `"type": "Block"`)
	assert.Contains(t, text, `"type": "VarDecl"`)
	assert.Contains(t, text, `"type": "Literal"`)
}

func TestSerdeRejectsNonProgramRoot(t *testing.T) {
	sb := syntax.NewSourceBuffer("<test>", "")
	_, err := syntax.UnmarshalProgram([]byte(`{"type": "Block"}`), sb)
	assert.Error(t, err)
}

// a decoded program gets a fresh scope tree with one scope per block
func TestSerdeRebuildsScopes(t *testing.T) {
	sb := syntax.NewSourceBuffer("<test>", "define f() -> void { return }")
	program := syntax.Parse(syntax.Lex(sb), sb, nil)

	data, err := syntax.MarshalProgram(program, false)
	assert.NoError(t, err)

	decoded, err := syntax.UnmarshalProgram(data, sb)
	assert.NoError(t, err)

	funcDef := decoded.Body.Statements[0].(*syntax.FunctionDefinition)
	assert.NotNil(t, funcDef.Body.Scope)
	assert.Same(t, decoded.Scope, funcDef.Body.Scope.Parent)
}
