package typing_test

import (
	"testing"

	"enki/logging"
	"enki/typing"

	"github.com/stretchr/testify/assert"
)

func prim(base typing.BaseType) *typing.Type {
	return typing.Primitive(base, logging.Span{})
}

func enumType(name string) *typing.Type {
	return &typing.Type{Base: typing.Enum, Name: name, EnumType: &typing.EnumType{Name: name}}
}

func structType(name string, fields ...*typing.Variable) *typing.Type {
	return &typing.Type{Base: typing.Struct, Name: name, StructType: &typing.StructType{Name: name, Fields: fields}}
}

func TestPrimitiveEquality(t *testing.T) {
	assert.True(t, typing.Equal(prim(typing.Int), prim(typing.Int)))
	assert.True(t, typing.Equal(prim(typing.Bool), prim(typing.Bool)))
	assert.False(t, typing.Equal(prim(typing.Int), prim(typing.Float)))
	assert.False(t, typing.Equal(prim(typing.String), prim(typing.Char)))
}

func TestAnyAcceptsEverything(t *testing.T) {
	any := prim(typing.Any)

	assert.True(t, typing.Equal(any, prim(typing.Int)))
	assert.True(t, typing.Equal(any, enumType("Color")))
	assert.True(t, typing.Equal(any, typing.PointerTo(prim(typing.Int), logging.Span{})))

	// Any only accepts as the destination
	assert.False(t, typing.Equal(prim(typing.Int), any))
}

func TestPointerEqualityIsRecursive(t *testing.T) {
	intPtr := typing.PointerTo(prim(typing.Int), logging.Span{})
	intPtr2 := typing.PointerTo(prim(typing.Int), logging.Span{})
	floatPtr := typing.PointerTo(prim(typing.Float), logging.Span{})

	assert.True(t, typing.Equal(intPtr, intPtr2))
	assert.False(t, typing.Equal(intPtr, floatPtr))
	assert.False(t, typing.Equal(intPtr, prim(typing.Int)))

	intPtrPtr := typing.PointerTo(intPtr, logging.Span{})
	assert.False(t, typing.Equal(intPtrPtr, intPtr2))
	assert.True(t, typing.Equal(intPtrPtr, typing.PointerTo(intPtr2, logging.Span{})))
}

func TestNominalEnumAndStructEquality(t *testing.T) {
	assert.True(t, typing.Equal(enumType("Color"), enumType("Color")))
	assert.False(t, typing.Equal(enumType("Color"), enumType("Fruit")))

	assert.True(t, typing.Equal(structType("Point"), structType("Point")))
	assert.False(t, typing.Equal(structType("Point"), structType("Rect")))

	assert.False(t, typing.Equal(enumType("Color"), structType("Color")))
}

func TestCanAssignMetaTypeRequiresTypeReference(t *testing.T) {
	meta := prim(typing.TypeMeta)

	assert.True(t, typing.CanAssignWithContext(meta, prim(typing.Int), true))
	assert.False(t, typing.CanAssignWithContext(meta, prim(typing.Int), false))

	// non-meta destinations ignore the type-reference flag
	assert.True(t, typing.CanAssignWithContext(prim(typing.Int), prim(typing.Int), false))
	assert.False(t, typing.CanAssignWithContext(prim(typing.Int), prim(typing.Float), true))
}

func TestEnumMemberOrderAndLookup(t *testing.T) {
	et := &typing.EnumType{Name: "Color"}
	et.AddMember(&typing.Variable{Name: "Red"})
	et.AddMember(&typing.Variable{Name: "Green"})
	et.AddMember(&typing.Variable{Name: "Blue"})

	// declaration order is preserved
	names := []string{}
	for _, m := range et.Members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Red", "Green", "Blue"}, names)

	member, ok := et.Member("Blue")
	assert.True(t, ok)
	assert.Equal(t, "Blue", member.Name)

	_, ok = et.Member("Cyan")
	assert.False(t, ok)
}

func TestStructFieldLookup(t *testing.T) {
	st := structType("Point",
		&typing.Variable{Name: "x", Type: prim(typing.Int)},
		&typing.Variable{Name: "y", Type: prim(typing.Float)},
	).StructType

	field, ok := st.Field("y")
	assert.True(t, ok)
	assert.Equal(t, typing.Float, field.Type.Base)

	_, ok = st.Field("z")
	assert.False(t, ok)
}

func TestTypeStrings(t *testing.T) {
	assert.Equal(t, "int", prim(typing.Int).String())
	assert.Equal(t, "&int", typing.PointerTo(prim(typing.Int), logging.Span{}).String())
	assert.Equal(t, "enum Color", enumType("Color").String())
	assert.Equal(t, "struct Point", structType("Point").String())
	assert.Equal(t, "unknown Color", (&typing.Type{Base: typing.Unknown, Name: "Color"}).String())
}

func TestBaseTypeNameRoundTrip(t *testing.T) {
	for _, base := range []typing.BaseType{
		typing.Void, typing.Int, typing.Float, typing.String, typing.Bool,
		typing.Char, typing.Pointer, typing.Enum, typing.Struct,
		typing.Function, typing.TypeMeta, typing.Unknown, typing.Any,
	} {
		back, ok := typing.BaseTypeFromName(base.String())
		assert.True(t, ok)
		assert.Equal(t, base, back)
	}

	_, ok := typing.BaseTypeFromName("no-such-type")
	assert.False(t, ok)
}
