package walk

import (
	"fmt"

	"enki/logging"
	"enki/sem"
	"enki/syntax"
	"enki/typing"
)

// walkExpr computes an expression's type, records it on the node, and
// returns it
func (w *Walker) walkExpr(expr syntax.Expression) *typing.Type {
	t := w.exprType(expr)
	expr.SetType(t)
	return t
}

func (w *Walker) exprType(expr syntax.Expression) *typing.Type {
	switch v := expr.(type) {
	case *syntax.Identifier:
		return w.walkIdentifier(v)
	case *syntax.Literal:
		return v.LitType
	case *syntax.BinaryOp:
		return w.walkBinaryOp(v)
	case *syntax.Call:
		return w.walkCall(v)
	case *syntax.Dereference:
		return w.walkDereference(v)
	case *syntax.AddressOf:
		return w.walkAddressOf(v)
	case *syntax.Dot:
		return w.walkDot(v)
	case *syntax.StructInstantiation:
		return w.walkStructInstantiation(v)
	}

	w.fail("unknown expression kind", logging.LMKTyping, expr.Span())
	return nil
}

func (w *Walker) walkIdentifier(ident *syntax.Identifier) *typing.Type {
	sym := w.currentScope().Lookup(ident.Name)
	if sym == nil {
		w.fail("symbol not found: "+ident.Name, logging.LMKName, ident.Span())
	}

	return sym.Type
}

// isValidBinaryOp checks the operand constraint table: arithmetic and
// relational operators take int or float operands; equality takes any two
// equal types.  The meta-type never participates.
func isValidBinaryOp(op syntax.BinaryOpKind, left, right *typing.Type) bool {
	if left.Base == typing.TypeMeta || right.Base == typing.TypeMeta {
		return false
	}

	isNumeric := func(t *typing.Type) bool {
		return t.Base == typing.Int || t.Base == typing.Float
	}

	switch op {
	case syntax.OpAdd, syntax.OpSubtract, syntax.OpMultiply, syntax.OpDivide, syntax.OpModulo:
		return isNumeric(left) && isNumeric(right)
	case syntax.OpEquals, syntax.OpNotEquals:
		return typing.Equal(left, right)
	case syntax.OpLessThan, syntax.OpGreaterThan, syntax.OpLessThanOrEqual, syntax.OpGreaterThanOrEqual:
		return isNumeric(left) && isNumeric(right)
	}

	return false
}

// binaryOpResultType computes the result: arithmetic promotes to float when
// either operand is float, comparisons always yield bool
func binaryOpResultType(op syntax.BinaryOpKind, left, right *typing.Type, span logging.Span) *typing.Type {
	switch op {
	case syntax.OpAdd, syntax.OpSubtract, syntax.OpMultiply, syntax.OpDivide, syntax.OpModulo:
		if left.Base == typing.Float || right.Base == typing.Float {
			return typing.Primitive(typing.Float, span)
		}
		return typing.Primitive(typing.Int, span)
	}

	return typing.Primitive(typing.Bool, span)
}

func (w *Walker) walkBinaryOp(binOp *syntax.BinaryOp) *typing.Type {
	leftType := w.walkExpr(binOp.Left)
	rightType := w.walkExpr(binOp.Right)

	if !isValidBinaryOp(binOp.Op, leftType, rightType) {
		w.fail(fmt.Sprintf("invalid binary operation: %s between %s and %s",
			binOp.Op, leftType, rightType), logging.LMKTyping, binOp.Span())
	}

	return binaryOpResultType(binOp.Op, leftType, rightType, binOp.Span())
}

func (w *Walker) walkCall(call *syntax.Call) *typing.Type {
	callee := call.Callee.(*syntax.Identifier)

	sym := w.currentScope().Lookup(callee.Name)
	if sym == nil {
		w.fail("function not found: "+callee.Name, logging.LMKName, call.Span())
	}
	if sym.Kind != sem.KindFunction {
		w.fail("symbol is not a function: "+callee.Name, logging.LMKName, call.Span())
	}

	funcType := sym.Type.FuncType
	callee.SetType(sym.Type)

	if len(call.Args) != len(funcType.Params) {
		w.fail(fmt.Sprintf("function argument count mismatch: expected %d, got %d",
			len(funcType.Params), len(call.Args)), logging.LMKArg, call.Span())
	}

	for i, arg := range call.Args {
		argType := w.walkExpr(arg)
		paramType := funcType.Params[i].Type

		if !typing.CanAssignWithContext(paramType, argType, w.isTypeReference(arg)) {
			w.fail(fmt.Sprintf("type mismatch in argument %d: expected %s, got %s",
				i+1, paramType, argType), logging.LMKArg, arg.Span())
		}
	}

	return funcType.ReturnType
}

func (w *Walker) walkDereference(deref *syntax.Dereference) *typing.Type {
	operandType := w.walkExpr(deref.Operand)
	if operandType.Base != typing.Pointer {
		w.fail(fmt.Sprintf("dereference operator '*' can only be applied to pointer types, got: %s",
			operandType), logging.LMKTyping, deref.Span())
	}

	return operandType.Pointee
}

func (w *Walker) walkAddressOf(addrOf *syntax.AddressOf) *typing.Type {
	// any expression may be addressed in this revision; l-value discipline is
	// not yet enforced
	return typing.PointerTo(w.walkExpr(addrOf.Operand), addrOf.Span())
}

// walkDot resolves member access: a struct field's declared type, or an enum
// variant which has the enum type itself
func (w *Walker) walkDot(dot *syntax.Dot) *typing.Type {
	leftType := w.walkExpr(dot.Left)

	if leftType.Base == typing.Struct {
		if right, ok := dot.Right.(*syntax.Identifier); ok {
			field, found := leftType.StructType.Field(right.Name)
			if !found {
				w.fail("struct member not found: "+right.Name, logging.LMKName, right.Span())
			}

			right.SetType(field.Type)
			return field.Type
		}
	}

	if leftType.Base == typing.Enum {
		if right, ok := dot.Right.(*syntax.Identifier); ok {
			member, found := leftType.EnumType.Member(right.Name)
			if !found {
				w.fail("enum member not found: "+right.Name, logging.LMKName, right.Span())
			}

			right.SetType(member.Type)
			return member.Type
		}
	}

	w.fail(fmt.Sprintf("invalid dot expression on %s", leftType), logging.LMKTyping, dot.Span())
	return nil
}

func (w *Walker) walkStructInstantiation(inst *syntax.StructInstantiation) *typing.Type {
	structType := w.walkExpr(inst.TypeName)
	if structType.Base != typing.Struct {
		w.fail("struct type is not a struct: "+inst.TypeName.Name, logging.LMKTyping, inst.TypeName.Span())
	}

	inst.Struct = structType.StructType

	if len(inst.Struct.Fields) != len(inst.Args) {
		w.fail(fmt.Sprintf("struct has %d fields but %d arguments",
			len(inst.Struct.Fields), len(inst.Args)), logging.LMKArg, inst.Span())
	}

	for i, arg := range inst.Args {
		argType := w.walkExpr(arg)
		if !typing.CanAssign(inst.Struct.Fields[i].Type, argType) {
			w.fail(fmt.Sprintf("argument type mismatch: %s != %s",
				argType, inst.Struct.Fields[i].Type), logging.LMKArg, arg.Span())
		}
	}

	return structType
}
