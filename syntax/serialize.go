package syntax

import (
	"encoding/json"
	"fmt"

	"enki/logging"
	"enki/sem"
	"enki/typing"
)

// The AST serialisation format: every node is encoded as an object carrying a
// "type" discriminator naming its kind.  Marshalling and unmarshalling share
// the rawNode envelope below, so a decode/re-encode cycle is byte-stable.
// Visualisation mode suppresses span fields to produce a compact tree.

type jsonLocation struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Pos  int    `json:"pos"`
	File string `json:"file"`
}

type jsonSpan struct {
	Start jsonLocation `json:"start"`
	End   jsonLocation `json:"end"`
}

type jsonType struct {
	Base    string    `json:"base"`
	Name    string    `json:"name,omitempty"`
	Span    *jsonSpan `json:"span,omitempty"`
	Pointee *jsonType `json:"pointee,omitempty"`
}

// rawNode is the superset envelope of every node kind; unused fields stay
// empty and are omitted from the encoding
type rawNode struct {
	Type string    `json:"type"`
	Span *jsonSpan `json:"span,omitempty"`

	// Identifier and member names
	Name  string   `json:"name,omitempty"`
	Ident *rawNode `json:"identifier,omitempty"`

	// literals
	LitType *jsonType `json:"literal_type,omitempty"`
	Value   string    `json:"value,omitempty"`

	// operators and operands
	Op      string   `json:"op,omitempty"`
	Left    *rawNode `json:"left,omitempty"`
	Right   *rawNode `json:"right,omitempty"`
	Operand *rawNode `json:"operand,omitempty"`

	// calls and instantiations
	Callee *rawNode   `json:"callee,omitempty"`
	Args   []*rawNode `json:"arguments,omitempty"`

	// statements
	DeclaredType *jsonType  `json:"declared_type,omitempty"`
	Expression   *rawNode   `json:"expression,omitempty"`
	Assignee     *rawNode   `json:"assignee,omitempty"`
	Condition    *rawNode   `json:"condition,omitempty"`
	Then         *rawNode   `json:"then,omitempty"`
	Else         *rawNode   `json:"else,omitempty"`
	Body         *rawNode   `json:"body,omitempty"`
	Statements   []*rawNode `json:"statements,omitempty"`

	// imports and externs
	ModulePath *rawNode    `json:"module_path,omitempty"`
	From       string      `json:"from,omitempty"`
	ArgTypes   []*jsonType `json:"arg_types,omitempty"`

	// definitions
	ReturnType *jsonType  `json:"return_type,omitempty"`
	Params     []*rawNode `json:"parameters,omitempty"`
	ParamType  *jsonType  `json:"param_type,omitempty"`
	Members    []*rawNode `json:"members,omitempty"`
	Fields     []*rawNode `json:"fields,omitempty"`
	FieldType  *jsonType  `json:"field_type,omitempty"`

	// filled by the type checker; encoded shallowly
	ResolvedType *jsonType `json:"resolved_type,omitempty"`
}

var binaryOpFromName = func() map[string]BinaryOpKind {
	m := make(map[string]BinaryOpKind)
	for op, name := range binaryOpNames {
		m[name] = op
	}
	return m
}()

// -----------------------------------------------------------------------------
// encoding

// MarshalProgram serialises a program to indented JSON.  With vis set, span
// fields are suppressed.
func MarshalProgram(program *Program, vis bool) ([]byte, error) {
	m := &marshaller{vis: vis}
	return json.MarshalIndent(m.program(program), "", "  ")
}

type marshaller struct {
	vis bool
}

func (m *marshaller) span(s logging.Span) *jsonSpan {
	if m.vis {
		return nil
	}

	return &jsonSpan{
		Start: jsonLocation{Row: s.Start.Row, Col: s.Start.Col, Pos: s.Start.Pos, File: s.Start.FileName},
		End:   jsonLocation{Row: s.End.Row, Col: s.End.Col, Pos: s.End.Pos, File: s.End.FileName},
	}
}

func (m *marshaller) typ(t *typing.Type) *jsonType {
	if t == nil {
		return nil
	}

	jt := &jsonType{Base: t.Base.String(), Name: t.Name, Span: m.span(t.Span)}
	if t.Base == typing.Pointer {
		jt.Pointee = m.typ(t.Pointee)
	}

	// enum and struct types carry only their name; the definition itself is
	// the source of truth for the structure
	if t.Base == typing.Enum && jt.Name == "" && t.EnumType != nil {
		jt.Name = t.EnumType.Name
	}
	if t.Base == typing.Struct && jt.Name == "" && t.StructType != nil {
		jt.Name = t.StructType.Name
	}

	return jt
}

// shallowType encodes a resolved type without spans or structure
func (m *marshaller) shallowType(t *typing.Type) *jsonType {
	if t == nil {
		return nil
	}

	jt := &jsonType{Base: t.Base.String(), Name: t.Name}
	if t.Base == typing.Pointer {
		jt.Pointee = m.shallowType(t.Pointee)
	}
	if t.Base == typing.Enum && jt.Name == "" && t.EnumType != nil {
		jt.Name = t.EnumType.Name
	}
	if t.Base == typing.Struct && jt.Name == "" && t.StructType != nil {
		jt.Name = t.StructType.Name
	}

	return jt
}

func (m *marshaller) program(p *Program) *rawNode {
	return &rawNode{
		Type: "Program",
		Span: m.span(p.Pos),
		Body: m.stmt(p.Body),
	}
}

func (m *marshaller) ident(id *Identifier) *rawNode {
	if id == nil {
		return nil
	}

	return &rawNode{Type: "Identifier", Span: m.span(id.Pos), Name: id.Name}
}

func (m *marshaller) exprs(exprs []Expression) []*rawNode {
	var out []*rawNode
	for _, e := range exprs {
		out = append(out, m.expr(e))
	}
	return out
}

func (m *marshaller) expr(e Expression) *rawNode {
	if e == nil {
		return nil
	}

	var n *rawNode
	switch v := e.(type) {
	case *Identifier:
		n = m.ident(v)
	case *Literal:
		n = &rawNode{Type: "Literal", Span: m.span(v.Pos), LitType: m.typ(v.LitType), Value: v.Value}
	case *BinaryOp:
		n = &rawNode{Type: "BinaryOp", Span: m.span(v.Pos), Op: v.Op.String(), Left: m.expr(v.Left), Right: m.expr(v.Right)}
	case *Call:
		n = &rawNode{Type: "Call", Span: m.span(v.Pos), Callee: m.expr(v.Callee), Args: m.exprs(v.Args)}
	case *Dereference:
		n = &rawNode{Type: "Dereference", Span: m.span(v.Pos), Operand: m.expr(v.Operand)}
	case *AddressOf:
		n = &rawNode{Type: "AddressOf", Span: m.span(v.Pos), Operand: m.expr(v.Operand)}
	case *Dot:
		n = &rawNode{Type: "Dot", Span: m.span(v.Pos), Left: m.expr(v.Left), Right: m.expr(v.Right)}
	case *StructInstantiation:
		n = &rawNode{Type: "StructInstantiation", Span: m.span(v.Pos), Ident: m.ident(v.TypeName), Args: m.exprs(v.Args)}
	default:
		return nil
	}

	n.ResolvedType = m.shallowType(e.Type())
	return n
}

func (m *marshaller) stmt(s Statement) *rawNode {
	if s == nil {
		return nil
	}

	switch v := s.(type) {
	case *Block:
		n := &rawNode{Type: "Block", Span: m.span(v.Pos)}
		for _, stmt := range v.Statements {
			n.Statements = append(n.Statements, m.stmt(stmt))
		}
		return n
	case *VarDecl:
		return &rawNode{Type: "VarDecl", Span: m.span(v.Pos), Ident: m.ident(v.Name),
			DeclaredType: m.typ(v.DeclaredType), Expression: m.expr(v.Init)}
	case *Assignment:
		return &rawNode{Type: "Assignment", Span: m.span(v.Pos), Assignee: m.expr(v.Target), Expression: m.expr(v.Value)}
	case *ExprStmt:
		return &rawNode{Type: "ExpressionStatement", Span: m.span(v.Pos), Expression: m.expr(v.Expr)}
	case *Return:
		return &rawNode{Type: "Return", Span: m.span(v.Pos), Expression: m.expr(v.Expr)}
	case *If:
		return &rawNode{Type: "If", Span: m.span(v.Pos), Condition: m.expr(v.Cond),
			Then: m.stmt(v.Then), Else: m.stmt(v.Else)}
	case *While:
		return &rawNode{Type: "While", Span: m.span(v.Pos), Condition: m.expr(v.Cond), Body: m.stmt(v.Body)}
	case *Import:
		return &rawNode{Type: "Import", Span: m.span(v.Pos), ModulePath: m.expr(v.ModulePath)}
	case *Extern:
		n := &rawNode{Type: "Extern", Span: m.span(v.Pos), Ident: m.ident(v.Name),
			ReturnType: m.typ(v.ReturnType), From: v.ModulePath}
		for _, at := range v.ArgTypes {
			n.ArgTypes = append(n.ArgTypes, m.typ(at))
		}
		return n
	case *FunctionDefinition:
		n := &rawNode{Type: "FunctionDefinition", Span: m.span(v.Pos), Ident: m.ident(v.Name),
			ReturnType: m.typ(v.ReturnType), Body: m.stmt(v.Body)}
		for _, param := range v.Params {
			n.Params = append(n.Params, &rawNode{
				Type:      "Parameter",
				Span:      m.span(param.Pos),
				Ident:     m.ident(param.Name),
				ParamType: m.typ(param.ParaType),
			})
		}
		return n
	case *EnumDefinition:
		n := &rawNode{Type: "EnumDefinition", Span: m.span(v.Pos), Ident: m.ident(v.Name)}
		for _, member := range v.Members {
			n.Members = append(n.Members, &rawNode{Type: "EnumMember", Span: m.span(member.Span), Name: member.Name})
		}
		return n
	case *StructDefinition:
		n := &rawNode{Type: "StructDefinition", Span: m.span(v.Pos), Ident: m.ident(v.Name)}
		for _, field := range v.Fields {
			n.Fields = append(n.Fields, &rawNode{
				Type:      "StructField",
				Span:      m.span(field.Span),
				Name:      field.Name,
				FieldType: m.typ(field.Type),
			})
		}
		return n
	}

	return nil
}

// -----------------------------------------------------------------------------
// decoding

// UnmarshalProgram reconstructs a program from its JSON encoding.  The
// decoded program gets a fresh scope tree (one scope per block); symbol
// tables are empty until it is type-checked again.
func UnmarshalProgram(data []byte, sb *SourceBuffer) (*Program, error) {
	var root rawNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	if root.Type != "Program" {
		return nil, fmt.Errorf("expected root node of type Program, got %s", root.Type)
	}

	program := &Program{
		Scope:  sem.NewScope(nil),
		Source: sb,
		Pos:    decodeSpan(root.Span),
	}

	d := &decoder{}
	body, err := d.stmt(root.Body, program.Scope, true)
	if err != nil {
		return nil, err
	}

	block, ok := body.(*Block)
	if !ok {
		return nil, fmt.Errorf("program body is not a block")
	}

	program.Body = block
	return program, nil
}

type decoder struct{}

func decodeSpan(js *jsonSpan) logging.Span {
	if js == nil {
		return logging.Span{}
	}

	return logging.Span{
		Start: logging.Location{Row: js.Start.Row, Col: js.Start.Col, Pos: js.Start.Pos, FileName: js.Start.File},
		End:   logging.Location{Row: js.End.Row, Col: js.End.Col, Pos: js.End.Pos, FileName: js.End.File},
	}
}

func decodeType(jt *jsonType) (*typing.Type, error) {
	if jt == nil {
		return nil, nil
	}

	base, ok := typing.BaseTypeFromName(jt.Base)
	if !ok {
		return nil, fmt.Errorf("unknown base type %q", jt.Base)
	}

	t := &typing.Type{Base: base, Name: jt.Name, Span: decodeSpan(jt.Span)}
	if base == typing.Pointer {
		pointee, err := decodeType(jt.Pointee)
		if err != nil {
			return nil, err
		}
		t.Pointee = pointee
	}

	return t, nil
}

func (d *decoder) ident(n *rawNode) (*Identifier, error) {
	if n == nil {
		return nil, nil
	}
	if n.Type != "Identifier" {
		return nil, fmt.Errorf("expected Identifier node, got %s", n.Type)
	}

	return &Identifier{ExprBase: ExprBase{Pos: decodeSpan(n.Span)}, Name: n.Name}, nil
}

func (d *decoder) exprs(nodes []*rawNode) ([]Expression, error) {
	var out []Expression
	for _, n := range nodes {
		e, err := d.expr(n)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *decoder) expr(n *rawNode) (Expression, error) {
	if n == nil {
		return nil, nil
	}

	var expr Expression
	var err error

	switch n.Type {
	case "Identifier":
		expr, err = d.ident(n)
	case "Literal":
		var litType *typing.Type
		if litType, err = decodeType(n.LitType); err == nil {
			expr = &Literal{ExprBase: ExprBase{Pos: decodeSpan(n.Span)}, LitType: litType, Value: n.Value}
		}
	case "BinaryOp":
		op, ok := binaryOpFromName[n.Op]
		if !ok {
			return nil, fmt.Errorf("unknown binary operator %q", n.Op)
		}
		var left, right Expression
		if left, err = d.expr(n.Left); err != nil {
			return nil, err
		}
		if right, err = d.expr(n.Right); err != nil {
			return nil, err
		}
		expr = &BinaryOp{ExprBase: ExprBase{Pos: decodeSpan(n.Span)}, Op: op, Left: left, Right: right}
	case "Call":
		var callee Expression
		var args []Expression
		if callee, err = d.expr(n.Callee); err != nil {
			return nil, err
		}
		if args, err = d.exprs(n.Args); err != nil {
			return nil, err
		}
		expr = &Call{ExprBase: ExprBase{Pos: decodeSpan(n.Span)}, Callee: callee, Args: args}
	case "Dereference":
		var operand Expression
		if operand, err = d.expr(n.Operand); err != nil {
			return nil, err
		}
		expr = &Dereference{ExprBase: ExprBase{Pos: decodeSpan(n.Span)}, Operand: operand}
	case "AddressOf":
		var operand Expression
		if operand, err = d.expr(n.Operand); err != nil {
			return nil, err
		}
		expr = &AddressOf{ExprBase: ExprBase{Pos: decodeSpan(n.Span)}, Operand: operand}
	case "Dot":
		var left, right Expression
		if left, err = d.expr(n.Left); err != nil {
			return nil, err
		}
		if right, err = d.expr(n.Right); err != nil {
			return nil, err
		}
		expr = &Dot{ExprBase: ExprBase{Pos: decodeSpan(n.Span)}, Left: left, Right: right}
	case "StructInstantiation":
		var typeName *Identifier
		var args []Expression
		if typeName, err = d.ident(n.Ident); err != nil {
			return nil, err
		}
		if args, err = d.exprs(n.Args); err != nil {
			return nil, err
		}
		expr = &StructInstantiation{ExprBase: ExprBase{Pos: decodeSpan(n.Span)}, TypeName: typeName, Args: args}
	default:
		return nil, fmt.Errorf("unknown expression node type %q", n.Type)
	}

	if err != nil {
		return nil, err
	}

	if n.ResolvedType != nil {
		resolved, rerr := decodeType(n.ResolvedType)
		if rerr != nil {
			return nil, rerr
		}
		expr.SetType(resolved)
	}

	return expr, nil
}

// stmt decodes one statement.  Blocks create fresh scopes under parent; when
// reuseParent is set (the program's global block) the parent scope itself is
// used instead of a new child.
func (d *decoder) stmt(n *rawNode, parent *sem.Scope, reuseParent bool) (Statement, error) {
	if n == nil {
		return nil, nil
	}

	switch n.Type {
	case "Block":
		scope := parent
		if !reuseParent {
			scope = sem.NewScope(parent)
		}

		block := &Block{StmtBase: StmtBase{Pos: decodeSpan(n.Span)}, Scope: scope}
		for _, raw := range n.Statements {
			stmt, err := d.stmt(raw, scope, false)
			if err != nil {
				return nil, err
			}
			block.Statements = append(block.Statements, stmt)
		}
		return block, nil

	case "VarDecl":
		name, err := d.ident(n.Ident)
		if err != nil {
			return nil, err
		}
		declared, err := decodeType(n.DeclaredType)
		if err != nil {
			return nil, err
		}
		init, err := d.expr(n.Expression)
		if err != nil {
			return nil, err
		}
		return &VarDecl{StmtBase: StmtBase{Pos: decodeSpan(n.Span)}, Name: name, DeclaredType: declared, Init: init}, nil

	case "Assignment":
		target, err := d.expr(n.Assignee)
		if err != nil {
			return nil, err
		}
		value, err := d.expr(n.Expression)
		if err != nil {
			return nil, err
		}
		return &Assignment{StmtBase: StmtBase{Pos: decodeSpan(n.Span)}, Target: target, Value: value}, nil

	case "ExpressionStatement":
		expr, err := d.expr(n.Expression)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{StmtBase: StmtBase{Pos: decodeSpan(n.Span)}, Expr: expr}, nil

	case "Return":
		expr, err := d.expr(n.Expression)
		if err != nil {
			return nil, err
		}
		return &Return{StmtBase: StmtBase{Pos: decodeSpan(n.Span)}, Expr: expr}, nil

	case "If":
		cond, err := d.expr(n.Condition)
		if err != nil {
			return nil, err
		}
		then, err := d.stmt(n.Then, parent, false)
		if err != nil {
			return nil, err
		}
		elseStmt, err := d.stmt(n.Else, parent, false)
		if err != nil {
			return nil, err
		}
		return &If{StmtBase: StmtBase{Pos: decodeSpan(n.Span)}, Cond: cond, Then: then, Else: elseStmt}, nil

	case "While":
		cond, err := d.expr(n.Condition)
		if err != nil {
			return nil, err
		}
		body, err := d.stmt(n.Body, parent, false)
		if err != nil {
			return nil, err
		}
		return &While{StmtBase: StmtBase{Pos: decodeSpan(n.Span)}, Cond: cond, Body: body}, nil

	case "Import":
		pathExpr, err := d.expr(n.ModulePath)
		if err != nil {
			return nil, err
		}
		pathLit, ok := pathExpr.(*Literal)
		if !ok {
			return nil, fmt.Errorf("import module path is not a literal")
		}
		return &Import{StmtBase: StmtBase{Pos: decodeSpan(n.Span)}, ModulePath: pathLit}, nil

	case "Extern":
		name, err := d.ident(n.Ident)
		if err != nil {
			return nil, err
		}
		returnType, err := decodeType(n.ReturnType)
		if err != nil {
			return nil, err
		}
		ext := &Extern{StmtBase: StmtBase{Pos: decodeSpan(n.Span)}, Name: name, ReturnType: returnType, ModulePath: n.From}
		for _, jt := range n.ArgTypes {
			at, err := decodeType(jt)
			if err != nil {
				return nil, err
			}
			ext.ArgTypes = append(ext.ArgTypes, at)
		}
		return ext, nil

	case "FunctionDefinition":
		name, err := d.ident(n.Ident)
		if err != nil {
			return nil, err
		}
		returnType, err := decodeType(n.ReturnType)
		if err != nil {
			return nil, err
		}

		funcDef := &FunctionDefinition{StmtBase: StmtBase{Pos: decodeSpan(n.Span)}, Name: name, ReturnType: returnType}

		for _, raw := range n.Params {
			paramName, err := d.ident(raw.Ident)
			if err != nil {
				return nil, err
			}
			paramType, err := decodeType(raw.ParamType)
			if err != nil {
				return nil, err
			}
			funcDef.Params = append(funcDef.Params, &Parameter{
				Pos:      decodeSpan(raw.Span),
				Name:     paramName,
				ParaType: paramType,
			})
		}

		body, err := d.stmt(n.Body, parent, false)
		if err != nil {
			return nil, err
		}
		if body != nil {
			funcDef.Body = body.(*Block)
		}
		return funcDef, nil

	case "EnumDefinition":
		name, err := d.ident(n.Ident)
		if err != nil {
			return nil, err
		}

		enumStruct := &typing.EnumType{Name: name.Name, Span: name.Span()}
		enumType := &typing.Type{Base: typing.Enum, Name: name.Name, Span: name.Span(), EnumType: enumStruct}

		enumDef := &EnumDefinition{StmtBase: StmtBase{Pos: decodeSpan(n.Span)}, Name: name, EnumType: enumType}
		for _, raw := range n.Members {
			member := &typing.Variable{Name: raw.Name, Span: decodeSpan(raw.Span), Type: enumType}
			enumDef.Members = append(enumDef.Members, member)
			enumStruct.AddMember(member)
		}
		return enumDef, nil

	case "StructDefinition":
		name, err := d.ident(n.Ident)
		if err != nil {
			return nil, err
		}

		structDef := &StructDefinition{StmtBase: StmtBase{Pos: decodeSpan(n.Span)}, Name: name}
		for _, raw := range n.Fields {
			fieldType, err := decodeType(raw.FieldType)
			if err != nil {
				return nil, err
			}
			structDef.Fields = append(structDef.Fields, &typing.Variable{
				Name: raw.Name,
				Span: decodeSpan(raw.Span),
				Type: fieldType,
			})
		}
		return structDef, nil
	}

	return nil, fmt.Errorf("unknown statement node type %q", n.Type)
}
