package syntax

import (
	"fmt"

	"enki/logging"
	"enki/typing"
)

// parseExpression parses an expression and fails if none is present
func (p *Parser) parseExpression() Expression {
	expr := p.parseExpressionOpt()
	if expr == nil {
		p.fail(fmt.Sprintf("expected expression but found '%s' (%s)",
			p.currentToken().Value, TokenKindName(p.currentToken().Kind)), p.currentToken().Span)
	}

	return expr
}

// parseExpressionOpt parses an expression if one starts at the cursor.  The
// binary cascade is resolved with the shunting-yard algorithm; any token
// that is not a binary operator simply terminates it.
func (p *Parser) parseExpressionOpt() Expression {
	left := p.parsePrefixOp()
	if left == nil {
		return nil
	}

	var output []Expression
	var ops []BinaryOpKind
	output = append(output, left)

	reduce := func() {
		right := output[len(output)-1]
		leftExpr := output[len(output)-2]
		output = output[:len(output)-2]

		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]

		output = append(output, &BinaryOp{
			ExprBase: ExprBase{Pos: logging.SpanBetween(leftExpr.Span(), right.Span())},
			Op:       op,
			Left:     leftExpr,
			Right:    right,
		})
	}

	for !p.eof() {
		tok := p.currentToken()
		op, ok := TokenToBinaryOp(tok.Kind)
		if !ok {
			break
		}
		p.consume()

		// pop every operator that binds at least as tightly as the incoming
		// one; equal precedence pops too, giving left associativity
		for len(ops) > 0 && BinaryOpPrecedence(ops[len(ops)-1]) <= BinaryOpPrecedence(op) {
			reduce()
		}

		right := p.parsePrefixOp()
		if right == nil {
			p.fail("expected right operand for binary operator", tok.Span)
		}

		output = append(output, right)
		ops = append(ops, op)
	}

	for len(ops) > 0 {
		reduce()
	}

	return output[0]
}

// parsePrefixOp handles the prefix operators `&` (address-of) and `*`
// (dereference) before falling through to an atom
func (p *Parser) parsePrefixOp() Expression {
	tok := p.currentToken()

	switch tok.Kind {
	case AMP:
		p.consume()
		operand := p.parsePrefixOp()
		if operand == nil {
			p.fail("expected expression after '&'", tok.Span)
		}
		return &AddressOf{
			ExprBase: ExprBase{Pos: logging.SpanBetween(tok.Span, operand.Span())},
			Operand:  operand,
		}

	case STAR:
		p.consume()
		operand := p.parsePrefixOp()
		if operand == nil {
			p.fail("expected expression after '*'", tok.Span)
		}
		return &Dereference{
			ExprBase: ExprBase{Pos: logging.SpanBetween(tok.Span, operand.Span())},
			Operand:  operand,
		}
	}

	return p.parseAtom()
}

// parseAtom parses the smallest expression units: literals, identifiers,
// calls, member access, and struct instantiations.  It returns nil when the
// cursor is not at an expression.
func (p *Parser) parseAtom() Expression {
	tok := p.currentToken()

	switch tok.Kind {
	case INTLIT:
		return p.literal(typing.Int, tok)
	case FLOATLIT:
		return p.literal(typing.Float, tok)
	case STRINGLIT:
		return p.literal(typing.String, tok)
	case CHARLIT:
		return p.literal(typing.Char, tok)

	case TRUE, FALSE:
		p.consume()
		return &Literal{
			ExprBase: ExprBase{Pos: tok.Span},
			LitType:  typing.Primitive(typing.Bool, tok.Span),
			Value:    tok.Value,
		}

	case STRUCT:
		return p.parseStructInstantiation()

	case IDENT:
		// a call when the identifier is followed by '('
		if p.peek(1).Kind == LPAREN {
			return p.parseCall()
		}

		p.consume()
		ident := &Identifier{ExprBase: ExprBase{Pos: tok.Span}, Name: tok.Value}

		// member access; the right side is parsed as a full expression and
		// the type checker later insists it is a plain identifier
		if !p.eof() && p.currentToken().Kind == DOT {
			p.consume()
			right := p.parseExpressionOpt()
			if right == nil {
				p.fail("expected expression after '.' in dot expression", p.currentToken().Span)
			}
			return &Dot{
				ExprBase: ExprBase{Pos: logging.SpanBetween(ident.Span(), right.Span())},
				Left:     ident,
				Right:    right,
			}
		}

		return ident
	}

	return nil
}

func (p *Parser) literal(base typing.BaseType, tok Token) *Literal {
	p.consume()
	return &Literal{
		ExprBase: ExprBase{Pos: tok.Span},
		LitType:  typing.Primitive(base, tok.Span),
		Value:    tok.Value,
	}
}

func (p *Parser) parseCall() Expression {
	calleeTok := p.consume()
	callee := &Identifier{ExprBase: ExprBase{Pos: calleeTok.Span}, Name: calleeTok.Value}

	p.consume() // '('

	call := &Call{ExprBase: ExprBase{Pos: calleeTok.Span}, Callee: callee}

	for !p.eof() && p.currentToken().Kind != RPAREN {
		arg := p.parseExpressionOpt()
		if arg == nil {
			p.fail(fmt.Sprintf("expected expression as function argument but found '%s' (%s)",
				p.currentToken().Value, TokenKindName(p.currentToken().Kind)), p.currentToken().Span)
		}

		call.Args = append(call.Args, arg)
		p.consumeIf(COMMA)
	}

	p.expect(RPAREN, "missing closing parenthesis ')' in function call")
	call.Pos = logging.SpanBetween(calleeTok.Span, p.previousTokenSpan())
	return call
}

func (p *Parser) parseStructInstantiation() Expression {
	start := p.consume().Span // struct

	nameTok := p.expect(IDENT, "missing identifier after 'struct' keyword in struct instantiation")
	inst := &StructInstantiation{
		TypeName: &Identifier{ExprBase: ExprBase{Pos: nameTok.Span}, Name: nameTok.Value},
	}

	p.expect(LBRACE, "missing '{' in struct instantiation")

	for !p.eof() && p.currentToken().Kind != RBRACE {
		arg := p.parseExpressionOpt()
		if arg == nil {
			p.fail(fmt.Sprintf("expected expression as struct argument but found '%s' (%s)",
				p.currentToken().Value, TokenKindName(p.currentToken().Kind)), p.currentToken().Span)
		}

		inst.Args = append(inst.Args, arg)
		p.consumeIf(COMMA)
	}

	p.expect(RBRACE, "missing '}' in struct instantiation")
	inst.Pos = logging.SpanBetween(start, p.previousTokenSpan())
	return inst
}
