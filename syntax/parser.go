package syntax

import (
	"fmt"

	"enki/logging"
	"enki/sem"
	"enki/typing"
)

// Parser converts a token stream into a Program by recursive descent,
// building the lexical scope tree as it goes.  It inserts no symbols; symbol
// insertion is entirely the type checker's job.
type Parser struct {
	tokens  []Token
	current int

	program  *Program
	curScope *sem.Scope
	lctx     *logging.LogContext
	filePath string
}

// Parse builds the AST for one token stream.  The loader handle is retained
// on the returned program and invoked synchronously for import statements.
func Parse(tokens []Token, sb *SourceBuffer, loader ModuleLoader) *Program {
	logging.Tracef("[parser] starting with %d tokens", len(tokens))

	program := &Program{
		Scope:   sem.NewScope(nil),
		Source:  sb,
		Modules: loader,
	}

	p := &Parser{
		tokens:   tokens,
		program:  program,
		curScope: program.Scope,
		lctx:     sb.LogContext(),
		filePath: sb.FileName,
	}

	globalBlock := &Block{Scope: program.Scope}

	for !p.eof() && p.currentToken().Kind != EOF {
		stmt := p.parseStatement()
		if stmt == nil {
			if p.currentToken().Kind != EOF {
				p.fail(fmt.Sprintf("expected a statement but got '%s' (%s)",
					p.currentToken().Value, TokenKindName(p.currentToken().Kind)), p.currentToken().Span)
			}
			break
		}

		globalBlock.Statements = append(globalBlock.Statements, stmt)
	}

	if len(tokens) > 0 {
		program.Pos = logging.Span{Start: tokens[0].Span.Start, End: tokens[len(tokens)-1].Span.End}
		globalBlock.Pos = program.Pos
	}

	program.Body = globalBlock
	return program
}

// -----------------------------------------------------------------------------
// token cursor helpers

func (p *Parser) eof() bool {
	return p.current >= len(p.tokens)
}

func (p *Parser) peek(offset int) Token {
	if p.current+offset < len(p.tokens) {
		return p.tokens[p.current+offset]
	}

	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) currentToken() Token {
	return p.peek(0)
}

func (p *Parser) consume() Token {
	tok := p.tokens[p.current]
	p.current++
	return tok
}

func (p *Parser) consumeIf(kind int) bool {
	if !p.eof() && p.currentToken().Kind == kind {
		p.consume()
		return true
	}

	return false
}

func (p *Parser) previousTokenSpan() logging.Span {
	return p.tokens[p.current-1].Span
}

// expect consumes the current token if it has the wanted kind and otherwise
// reports a fatal syntax error
func (p *Parser) expect(kind int, message string) Token {
	if p.currentToken().Kind != kind {
		p.fail(fmt.Sprintf("%s, got %s instead", message, TokenKindName(p.currentToken().Kind)),
			p.currentToken().Span)
	}

	return p.consume()
}

func (p *Parser) fail(message string, span logging.Span) {
	logging.LogCompileError(p.lctx, message, logging.LMKSyntax, span)
}

// -----------------------------------------------------------------------------
// statements

// isAssignable reports whether an expression is a legal assignment target;
// only identifiers qualify in this revision
func isAssignable(expr Expression) bool {
	_, ok := expr.(*Identifier)
	return ok
}

func (p *Parser) parseStatement() Statement {
	if p.eof() || p.currentToken().Kind == EOF {
		return nil
	}

	tok := p.currentToken()
	logging.Tracef("[parser] statement at %s '%s'", TokenKindName(tok.Kind), tok.Value)

	switch tok.Kind {
	case EXTERN:
		return p.parseExtern()
	case ENUM:
		return p.parseEnum()
	case STRUCT:
		return p.parseStruct()
	case DEFINE:
		return p.parseFunctionDefinition()
	case IMPORT:
		return p.parseImport()
	case LET:
		return p.parseVarDecl()
	case RETURN:
		return p.parseReturn()
	case IF:
		return p.parseIf()
	case WHILE:
		return p.parseWhile()
	case LBRACE:
		return p.parseBracedBlock()
	}

	// an expression statement: an assignment or a bare call
	expr := p.parseExpressionOpt()
	if expr == nil {
		return nil
	}

	if p.currentToken().Kind == ASSIGN {
		if !isAssignable(expr) {
			p.fail("expression is not assignable; only identifiers may be assigned to", expr.Span())
		}

		p.consume()
		value := p.parseExpression()
		return &Assignment{
			StmtBase: StmtBase{Pos: logging.SpanBetween(expr.Span(), value.Span())},
			Target:   expr,
			Value:    value,
		}
	}

	if call, ok := expr.(*Call); ok {
		return &ExprStmt{StmtBase: StmtBase{Pos: call.Span()}, Expr: call}
	}

	p.fail("dangling expression is not allowed; only function calls can be used as statements", expr.Span())
	return nil
}

// parseBracedBlock parses `{ statements }` in a fresh child scope
func (p *Parser) parseBracedBlock() *Block {
	start := p.expect(LBRACE, "missing '{' at start of block").Span

	block := &Block{Scope: sem.NewScope(p.curScope)}
	outer := p.curScope
	p.curScope = block.Scope

	for !p.eof() && p.currentToken().Kind != RBRACE {
		stmt := p.parseStatement()
		if stmt == nil {
			break
		}

		block.Statements = append(block.Statements, stmt)
	}

	p.curScope = outer
	p.expect(RBRACE, "missing '}' at end of block")
	block.Pos = logging.SpanBetween(start, p.previousTokenSpan())
	return block
}

func (p *Parser) parseVarDecl() Statement {
	start := p.consume().Span // let

	nameTok := p.expect(IDENT, "missing identifier in let statement")
	name := &Identifier{ExprBase: ExprBase{Pos: nameTok.Span}, Name: nameTok.Value}

	// optional declared type: `let x: int = ...`
	var declared *typing.Type
	if p.consumeIf(COLON) {
		declared = p.parseType()
	}

	p.expect(ASSIGN, "missing '=' in let statement")

	init := p.parseExpression()
	return &VarDecl{
		StmtBase:     StmtBase{Pos: logging.SpanBetween(start, init.Span())},
		Name:         name,
		DeclaredType: declared,
		Init:         init,
	}
}

func (p *Parser) parseReturn() Statement {
	start := p.consume().Span // return

	ret := &Return{StmtBase: StmtBase{Pos: start}}
	if expr := p.parseExpressionOpt(); expr != nil {
		ret.Expr = expr
		ret.Pos = logging.SpanBetween(start, expr.Span())
	}

	p.consumeIf(SEMICOLON)
	return ret
}

func (p *Parser) parseIf() Statement {
	start := p.consume().Span // if

	cond := p.parseExpression()

	ifStmt := &If{Cond: cond}
	ifStmt.Then = p.parseBracedBlock()

	if p.currentToken().Kind == ELSE {
		p.consume()
		ifStmt.Else = p.parseBracedBlock()
	}

	ifStmt.Pos = logging.SpanBetween(start, p.previousTokenSpan())
	return ifStmt
}

func (p *Parser) parseWhile() Statement {
	start := p.consume().Span // while

	cond := p.parseExpression()

	if p.currentToken().Kind != LBRACE {
		p.fail(fmt.Sprintf("expected '{' for while loop body but found '%s' (%s)",
			p.currentToken().Value, TokenKindName(p.currentToken().Kind)), p.currentToken().Span)
	}

	whileStmt := &While{Cond: cond, Body: p.parseBracedBlock()}
	whileStmt.Pos = logging.SpanBetween(start, p.previousTokenSpan())
	return whileStmt
}

func (p *Parser) parseImport() Statement {
	start := p.consume().Span // import

	p.expect(LT, "missing '<' in import statement")

	pathExpr := p.parseAtom()
	pathLit, ok := pathExpr.(*Literal)
	if !ok || pathLit.LitType.Base != typing.String {
		span := start
		if pathExpr != nil {
			span = pathExpr.Span()
		}
		p.fail("expected string literal for module path in import statement", span)
	}

	// load the module eagerly so its parse completes before ours resumes; a
	// nil return is the loader's soft-failure sentinel and the import
	// statement is still emitted
	if p.program.Modules != nil {
		p.program.Modules.Load(pathLit.Value, p.filePath)
	}

	p.expect(GT, "missing '>' in import statement")

	return &Import{
		StmtBase:   StmtBase{Pos: logging.SpanBetween(start, pathLit.Span())},
		ModulePath: pathLit,
	}
}

func (p *Parser) parseExtern() Statement {
	start := p.consume().Span // extern

	nameTok := p.expect(IDENT, "missing identifier in extern declaration")
	name := &Identifier{ExprBase: ExprBase{Pos: nameTok.Span}, Name: nameTok.Value}

	p.expect(LPAREN, "missing '(' in extern declaration")

	ext := &Extern{Name: name}
	for !p.eof() && p.currentToken().Kind != RPAREN {
		ext.ArgTypes = append(ext.ArgTypes, p.parseType())
		p.consumeIf(COMMA)
	}

	p.expect(RPAREN, "missing ')' in extern declaration")
	p.expect(ARROW, "missing return type declaration arrow '->' in extern declaration")
	ext.ReturnType = p.parseType()

	p.expect(FROM, "missing 'from' keyword in extern declaration")

	pathExpr := p.parseAtom()
	pathLit, ok := pathExpr.(*Literal)
	if !ok || pathLit.LitType.Base != typing.String {
		span := p.currentToken().Span
		if pathExpr != nil {
			span = pathExpr.Span()
		}
		p.fail("expected string literal for module path in extern declaration", span)
	}
	ext.ModulePath = pathLit.Value

	ext.Pos = logging.SpanBetween(start, p.previousTokenSpan())
	return ext
}

func (p *Parser) parseFunctionDefinition() Statement {
	start := p.consume().Span // define

	nameTok := p.expect(IDENT, "missing identifier in function definition")
	funcDef := &FunctionDefinition{
		Name: &Identifier{ExprBase: ExprBase{Pos: nameTok.Span}, Name: nameTok.Value},
	}

	p.expect(LPAREN, "missing '(' in function definition")

	for !p.eof() && p.currentToken().Kind != RPAREN {
		funcDef.Params = append(funcDef.Params, p.parseParameter())
		p.consumeIf(COMMA)
	}

	p.expect(RPAREN, "missing ')' in function definition")
	p.expect(ARROW, "missing '->' in function definition")
	funcDef.ReturnType = p.parseType()

	if p.currentToken().Kind != LBRACE {
		p.fail("missing '{' in function definition", p.currentToken().Span)
	}
	funcDef.Body = p.parseBracedBlock()

	funcDef.Pos = logging.SpanBetween(start, p.previousTokenSpan())
	p.consumeIf(SEMICOLON)
	return funcDef
}

func (p *Parser) parseParameter() *Parameter {
	nameTok := p.expect(IDENT, "missing identifier in parameter")
	name := &Identifier{ExprBase: ExprBase{Pos: nameTok.Span}, Name: nameTok.Value}

	p.expect(COLON, "missing ':' in parameter")
	paraType := p.parseType()

	return &Parameter{
		Pos:      logging.SpanBetween(nameTok.Span, paraType.Span),
		Name:     name,
		ParaType: paraType,
	}
}

func (p *Parser) parseEnum() Statement {
	start := p.consume().Span // enum

	nameTok := p.expect(IDENT, "missing identifier in enum definition")
	enumDef := &EnumDefinition{
		Name: &Identifier{ExprBase: ExprBase{Pos: nameTok.Span}, Name: nameTok.Value},
	}

	p.expect(LBRACE, "missing '{' in enum definition")

	enumStruct := &typing.EnumType{Name: nameTok.Value, Span: nameTok.Span}
	enumType := &typing.Type{Base: typing.Enum, Name: nameTok.Value, Span: nameTok.Span, EnumType: enumStruct}
	enumDef.EnumType = enumType

	for !p.eof() && p.currentToken().Kind != RBRACE {
		memberTok := p.expect(IDENT, "missing identifier in enum member")
		member := &typing.Variable{Name: memberTok.Value, Span: memberTok.Span, Type: enumType}
		enumDef.Members = append(enumDef.Members, member)
		enumStruct.AddMember(member)

		p.consumeIf(COMMA)
	}

	p.expect(RBRACE, "missing '}' in enum definition")
	enumDef.Pos = logging.SpanBetween(start, p.previousTokenSpan())
	return enumDef
}

func (p *Parser) parseStruct() Statement {
	start := p.consume().Span // struct

	nameTok := p.expect(IDENT, "missing identifier in struct definition")
	structDef := &StructDefinition{
		Name: &Identifier{ExprBase: ExprBase{Pos: nameTok.Span}, Name: nameTok.Value},
	}

	p.expect(LBRACE, "missing '{' in struct definition")

	for !p.eof() && p.currentToken().Kind != RBRACE {
		structDef.Fields = append(structDef.Fields, p.parseStructField())
		p.consumeIf(COMMA)
	}

	p.expect(RBRACE, "missing '}' in struct definition")
	structDef.Pos = logging.SpanBetween(start, p.previousTokenSpan())
	return structDef
}

func (p *Parser) parseStructField() *typing.Variable {
	nameTok := p.expect(IDENT, "missing identifier in struct field")
	p.expect(COLON, "missing ':' in struct field")
	fieldType := p.parseType()

	return &typing.Variable{
		Name: nameTok.Value,
		Span: logging.SpanBetween(nameTok.Span, fieldType.Span),
		Type: fieldType,
	}
}

// -----------------------------------------------------------------------------
// types

// parseType parses a type annotation.  An identifier in type position
// becomes an Unknown placeholder resolved by the type checker.
func (p *Parser) parseType() *typing.Type {
	tok := p.currentToken()

	switch tok.Kind {
	case INT:
		p.consume()
		return typing.Primitive(typing.Int, tok.Span)
	case FLOAT:
		p.consume()
		return typing.Primitive(typing.Float, tok.Span)
	case STRING:
		p.consume()
		return typing.Primitive(typing.String, tok.Span)
	case BOOL:
		p.consume()
		return typing.Primitive(typing.Bool, tok.Span)
	case VOID:
		p.consume()
		return typing.Primitive(typing.Void, tok.Span)
	case CHAR:
		p.consume()
		return typing.Primitive(typing.Char, tok.Span)

	// the meta-type: only meaningful as an extern parameter, e.g. sizeof(type)
	case TYPE:
		p.consume()
		return typing.Primitive(typing.TypeMeta, tok.Span)

	// this could be an enum or a struct; we don't know until type checking
	case IDENT:
		p.consume()
		return &typing.Type{Base: typing.Unknown, Name: tok.Value, Span: tok.Span}

	case AMP:
		p.consume()
		return typing.PointerTo(p.parseType(), tok.Span)
	}

	p.fail(fmt.Sprintf("expected type keyword but got %s", TokenKindName(tok.Kind)), tok.Span)
	return nil
}
