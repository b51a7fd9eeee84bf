package generate

import (
	"fmt"
	"strings"

	"enki/logging"
	"enki/syntax"
	"enki/typing"
)

// Generator lowers a fully typed AST into a C++ translation unit.  It is a
// read-only depth-first traversal: it inspects node kinds, resolved types,
// and ordered children, and performs no further scope lookups.
type Generator struct {
	sb strings.Builder
}

// Generate emits the C++ source for a type-checked program
func Generate(program *syntax.Program) string {
	g := &Generator{}

	g.sb.WriteString("#include <iostream>\n")
	g.sb.WriteString("#include <string>\n")
	g.sb.WriteString("#include <stdlib.h>\n")

	for _, stmt := range program.Body.Statements {
		g.genStmt(stmt)
	}

	return g.sb.String()
}

func (g *Generator) emit(s string) {
	g.sb.WriteString(s)
}

// typeWithName renders a C++ declarator: the type followed by the declared
// name, with pointer stars attached to the name
func (g *Generator) typeWithName(t *typing.Type, name string) string {
	switch t.Base {
	case typing.Int:
		return "int " + name
	case typing.Float:
		return "float " + name
	case typing.String:
		return "std::string " + name
	case typing.Bool:
		return "bool " + name
	case typing.Void:
		return "void " + name
	case typing.Char:
		return "char " + name
	case typing.Enum:
		return t.EnumType.Name + " " + name
	case typing.Struct:
		return t.StructType.Name + " " + name
	case typing.Pointer:
		return g.typeWithName(t.Pointee, "*"+name)
	}

	logging.LogConfigError("Codegen", fmt.Sprintf("cannot lower type %s; the type checker should have rejected it", t))
	return "void " + name
}

func (g *Generator) genBlock(block *syntax.Block) {
	g.emit("{\n")
	for _, stmt := range block.Statements {
		g.genStmt(stmt)
	}
	g.emit("}\n")
}

func (g *Generator) genStmt(stmt syntax.Statement) {
	switch v := stmt.(type) {
	case *syntax.Block:
		g.genBlock(v)
	case *syntax.VarDecl:
		g.emit(g.typeWithName(v.Init.Type(), v.Name.Name))
		g.emit(" = ")
		g.genExpr(v.Init)
		g.emit(";\n")
	case *syntax.Assignment:
		g.genExpr(v.Target)
		g.emit(" = ")
		g.genExpr(v.Value)
		g.emit(";\n")
	case *syntax.ExprStmt:
		g.genExpr(v.Expr)
		g.emit(";\n")
	case *syntax.Return:
		if v.Expr == nil {
			g.emit("return;\n")
		} else {
			g.emit("return ")
			g.genExpr(v.Expr)
			g.emit(";\n")
		}
	case *syntax.If:
		g.emit("if (")
		g.genExpr(v.Cond)
		g.emit(")")
		g.genStmt(v.Then)
		if v.Else != nil {
			g.emit(" else ")
			g.genStmt(v.Else)
		}
	case *syntax.While:
		g.emit("while (")
		g.genExpr(v.Cond)
		g.emit(")")
		g.genStmt(v.Body)
	case *syntax.FunctionDefinition:
		g.genFunctionDefinition(v)
	case *syntax.EnumDefinition:
		g.genEnumDefinition(v)
	case *syntax.StructDefinition:
		g.genStructDefinition(v)
	case *syntax.Extern, *syntax.Import:
		// externs and imports have no lowering of their own
	}
}

func (g *Generator) genEnumDefinition(enumDef *syntax.EnumDefinition) {
	g.emit("enum class " + enumDef.Name.Name + " {\n")
	for _, member := range enumDef.Members {
		g.emit("  " + member.Name + ",\n")
	}
	g.emit("};\n")

	if enumDef.ToStringFunc != nil {
		g.genFunctionDefinition(enumDef.ToStringFunc)
	}
}

func (g *Generator) genStructDefinition(structDef *syntax.StructDefinition) {
	g.emit("struct " + structDef.Name.Name + " {\n")
	for _, field := range structDef.Fields {
		g.emit("  " + g.typeWithName(field.Type, field.Name) + ";\n")
	}
	g.emit("};\n")
}

func (g *Generator) genFunctionDefinition(funcDef *syntax.FunctionDefinition) {
	// bodiless definitions are builtins lowered at their call sites
	if funcDef.Body == nil {
		return
	}

	g.emit(g.typeWithName(funcDef.ReturnType, funcDef.Name.Name))
	g.emit("(")
	for i, param := range funcDef.Params {
		if i > 0 {
			g.emit(", ")
		}
		g.emit(g.typeWithName(param.ParaType, param.Name.Name))
	}
	g.emit(")")
	g.genBlock(funcDef.Body)
}

func (g *Generator) genExpr(expr syntax.Expression) {
	switch v := expr.(type) {
	case *syntax.Identifier:
		g.emit(v.Name)
	case *syntax.Literal:
		if v.LitType.Base == typing.String {
			g.emit("\"" + v.Value + "\"")
		} else if v.LitType.Base == typing.Char {
			g.emit("'" + v.Value + "'")
		} else {
			g.emit(v.Value)
		}
	case *syntax.BinaryOp:
		g.emit("(")
		g.genExpr(v.Left)
		g.emit(" " + v.Op.String() + " ")
		g.genExpr(v.Right)
		g.emit(")")
	case *syntax.Call:
		g.genCall(v)
	case *syntax.Dereference:
		g.emit("(*(")
		g.genExpr(v.Operand)
		g.emit("))")
	case *syntax.AddressOf:
		g.emit("(&(")
		g.genExpr(v.Operand)
		g.emit("))")
	case *syntax.Dot:
		g.genExpr(v.Left)
		// enum member access lowers to the C++ scope operator
		if v.Left.Type() != nil && v.Left.Type().Base == typing.Enum {
			g.emit("::")
		} else {
			g.emit(".")
		}
		g.genExpr(v.Right)
	case *syntax.StructInstantiation:
		g.emit(v.TypeName.Name)
		g.emit("{")
		for i, arg := range v.Args {
			if i > 0 {
				g.emit(", ")
			}
			g.genExpr(arg)
		}
		g.emit("}")
	}
}

// genCall lowers a call; the built-in print maps onto std::cout
func (g *Generator) genCall(call *syntax.Call) {
	if ident, ok := call.Callee.(*syntax.Identifier); ok && ident.Name == "print" {
		g.emit("std::cout << ")
		for i, arg := range call.Args {
			if i > 0 {
				g.emit(" << ")
			}
			g.genExpr(arg)
		}
		g.emit(" << std::endl")
		return
	}

	g.genExpr(call.Callee)
	g.emit("(")
	for i, arg := range call.Args {
		if i > 0 {
			g.emit(", ")
		}
		g.genExpr(arg)
	}
	g.emit(")")
}
