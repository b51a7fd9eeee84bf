package walk

import (
	"enki/logging"
	"enki/sem"
	"enki/syntax"
	"enki/typing"
)

// The injection pass rewrites the AST before and during type checking.  The
// built-in print function is prepended to the global block up front; the
// per-enum to-string functions are synthesised lazily while the checker
// visits each enum definition, which guarantees they land in the right scope
// and after their enum type is known.

// InjectBuiltins prepends the built-in print definition to the program's
// global block.  print takes a single parameter of the internal Any type and
// has no body; the back-end recognises it by name and lowers it to the
// host's standard output primitive.  Re-running the pass is a no-op.
func InjectBuiltins(program *syntax.Program) {
	for _, stmt := range program.Body.Statements {
		if funcDef, ok := stmt.(*syntax.FunctionDefinition); ok && funcDef.Name.Name == "print" && funcDef.Body == nil {
			return
		}
	}

	var noSpan logging.Span

	printDef := &syntax.FunctionDefinition{
		Name:       &syntax.Identifier{Name: "print"},
		ReturnType: typing.Primitive(typing.Void, noSpan),
		Params: []*syntax.Parameter{{
			Name:     &syntax.Identifier{Name: "value"},
			ParaType: typing.Primitive(typing.Any, noSpan),
		}},
	}

	program.Body.Statements = append([]syntax.Statement{printDef}, program.Body.Statements...)
	logging.Debugf("[walk] injected built-in print function")
}

// buildEnumToString synthesises `<Enum>_to_string(value: <Enum>) -> string`:
// an if-chain comparing value against each member and returning the member's
// name as a string literal
func buildEnumToString(enumDef *syntax.EnumDefinition, enclosing *sem.Scope) *syntax.FunctionDefinition {
	enumType := enumDef.EnumType
	enumStruct := enumType.EnumType
	span := enumDef.Span()

	body := &syntax.Block{
		StmtBase: syntax.StmtBase{Pos: span},
		Scope:    sem.NewScope(enclosing),
	}

	for _, member := range enumStruct.Members {
		cond := &syntax.BinaryOp{
			ExprBase: syntax.ExprBase{Pos: span},
			Op:       syntax.OpEquals,
			Left:     &syntax.Identifier{ExprBase: syntax.ExprBase{Pos: span}, Name: "value"},
			Right: &syntax.Dot{
				ExprBase: syntax.ExprBase{Pos: span},
				Left:     &syntax.Identifier{ExprBase: syntax.ExprBase{Pos: span}, Name: enumStruct.Name},
				Right:    &syntax.Identifier{ExprBase: syntax.ExprBase{Pos: span}, Name: member.Name},
			},
		}

		thenBlock := &syntax.Block{
			StmtBase: syntax.StmtBase{Pos: span},
			Scope:    sem.NewScope(body.Scope),
			Statements: []syntax.Statement{&syntax.Return{
				StmtBase: syntax.StmtBase{Pos: span},
				Expr: &syntax.Literal{
					ExprBase: syntax.ExprBase{Pos: span},
					LitType:  typing.Primitive(typing.String, span),
					Value:    member.Name,
				},
			}},
		}

		body.Statements = append(body.Statements, &syntax.If{
			StmtBase: syntax.StmtBase{Pos: span},
			Cond:     cond,
			Then:     thenBlock,
		})
	}

	return &syntax.FunctionDefinition{
		StmtBase:   syntax.StmtBase{Pos: span},
		Name:       &syntax.Identifier{ExprBase: syntax.ExprBase{Pos: span}, Name: enumStruct.Name + "_to_string"},
		ReturnType: typing.Primitive(typing.String, span),
		Params: []*syntax.Parameter{{
			Pos:      span,
			Name:     &syntax.Identifier{ExprBase: syntax.ExprBase{Pos: span}, Name: "value"},
			ParaType: enumType,
		}},
		Body: body,
	}
}
