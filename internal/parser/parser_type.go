package parser

import (
	"tsgo/internal/ast"
	"tsgo/internal/common"
	"tsgo/internal/diag"
	"tsgo/internal/scanner"
)

// parseType is the entry point for type-expression parsing: a union of
// intersections, following TypeScript's precedence ladder
// (conditional < union < intersection < postfix(array/indexed) < primary).
func (p *Parser) parseType() ast.TypeNode {
	return p.parseConditionalType()
}

// parseConditionalType handles `Check extends Extends ? True : False`,
// whose Extends clause may contain `infer T` bindings (spec.md §4.5.5).
func (p *Parser) parseConditionalType() ast.TypeNode {
	start := p.cur.Start
	check := p.parseUnionType()
	if !p.curIs(scanner.KEYWORD_EXTENDS) {
		return check
	}
	p.advance()
	extends := p.parseUnionType()
	if !p.curIs(scanner.QUESTION) {
		// Bare `T extends U` outside a conditional's ternary position is a
		// constraint clause handled by its caller (type param, infer); if
		// we get here it's malformed, so synthesize the clause anyway.
		return &ast.ConditionalTypeNode{Base: ast.NewBase(common.Span{Start: start, End: extends.Span().End}), Check: check, Extends: extends}
	}
	p.advance() // '?'
	trueType := p.parseType()
	p.expect(scanner.COLON)
	falseType := p.parseType()
	return &ast.ConditionalTypeNode{
		Base:    ast.NewBase(common.Span{Start: start, End: falseType.Span().End}),
		Check:   check,
		Extends: extends,
		True:    trueType,
		False:   falseType,
	}
}

func (p *Parser) parseUnionType() ast.TypeNode {
	start := p.cur.Start
	// Leading '|' is permitted (`type T = | A | B`).
	if p.curIs(scanner.BAR) {
		p.advance()
	}
	first := p.parseIntersectionType()
	if !p.curIs(scanner.BAR) {
		return first
	}
	members := []ast.TypeNode{first}
	for p.curIs(scanner.BAR) {
		p.advance()
		members = append(members, p.parseIntersectionType())
	}
	return &ast.UnionTypeNode{Base: ast.NewBase(common.Span{Start: start, End: p.cur.Start}), Members: members}
}

func (p *Parser) parseIntersectionType() ast.TypeNode {
	start := p.cur.Start
	if p.curIs(scanner.AMP) {
		p.advance()
	}
	first := p.parseTypeOperator()
	if !p.curIs(scanner.AMP) {
		return first
	}
	members := []ast.TypeNode{first}
	for p.curIs(scanner.AMP) {
		p.advance()
		members = append(members, p.parseTypeOperator())
	}
	return &ast.IntersectionTypeNode{Base: ast.NewBase(common.Span{Start: start, End: p.cur.Start}), Members: members}
}

// parseTypeOperator handles the prefix operators keyof/readonly/infer/
// unique, which bind tighter than union/intersection but looser than
// postfix array/indexed-access.
func (p *Parser) parseTypeOperator() ast.TypeNode {
	start := p.cur.Start
	switch {
	case p.curIs(scanner.KEYWORD_KEYOF):
		p.advance()
		operand := p.parseTypeOperator()
		return &ast.KeyOfTypeNode{Base: ast.NewBase(common.Span{Start: start, End: operand.Span().End}), Operand: operand}
	case p.curIs(scanner.KEYWORD_READONLY):
		p.advance()
		operand := p.parseTypeOperator()
		return &ast.ReadonlyTypeNode{Base: ast.NewBase(common.Span{Start: start, End: operand.Span().End}), Operand: operand}
	case p.curIs(scanner.KEYWORD_INFER):
		p.advance()
		name := p.intern(p.cur)
		end := p.cur.End
		p.advance()
		node := &ast.InferTypeNode{Base: ast.NewBase(common.Span{Start: start, End: end}), Name: name}
		if p.curIs(scanner.KEYWORD_EXTENDS) {
			// `infer T extends C` (TS 4.7+), only legal inside a
			// conditional-type Extends clause; the constraint itself must
			// not consume a further top-level conditional to avoid eating
			// the enclosing `? :`.
			p.advance()
			node.Constraint = p.parseIntersectionType()
			node.Base = ast.NewBase(common.Span{Start: start, End: node.Constraint.Span().End})
		}
		return node
	case p.curIs(scanner.KEYWORD_TYPEOF):
		p.advance()
		name := p.intern(p.cur)
		end := p.cur.End
		p.advance()
		return &ast.TypeQueryNode{Base: ast.NewBase(common.Span{Start: start, End: end}), Name: name}
	default:
		return p.parsePostfixType()
	}
}

// parsePostfixType handles the postfix operators array (`T[]`) and
// indexed-access (`T[K]`), left-associative.
func (p *Parser) parsePostfixType() ast.TypeNode {
	t := p.parsePrimaryType()
	for p.curIs(scanner.LBRACKET) {
		start := t.Span().Start
		p.advance()
		if p.curIs(scanner.RBRACKET) {
			end := p.cur.End
			p.advance()
			t = &ast.ArrayTypeNode{Base: ast.NewBase(common.Span{Start: start, End: end}), Elem: t}
			continue
		}
		idx := p.parseType()
		end := p.cur.End
		p.expect(scanner.RBRACKET)
		t = &ast.IndexedAccessTypeNode{Base: ast.NewBase(common.Span{Start: start, End: end}), Object: t, Index: idx}
	}
	return t
}

func (p *Parser) parsePrimaryType() ast.TypeNode {
	start := p.cur.Start
	switch {
	case p.curIs(scanner.KEYWORD_ANY), p.curIs(scanner.KEYWORD_UNKNOWN), p.curIs(scanner.KEYWORD_NEVER),
		p.curIs(scanner.KEYWORD_VOID), p.curIs(scanner.KEYWORD_OBJECT), p.curIs(scanner.KEYWORD_STRING_TYPE),
		p.curIs(scanner.KEYWORD_NUMBER_TYPE), p.curIs(scanner.KEYWORD_BOOLEAN_TYPE), p.curIs(scanner.KEYWORD_SYMBOL_TYPE),
		p.curIs(scanner.KEYWORD_BIGINT_TYPE), p.curIs(scanner.KEYWORD_UNDEFINED), p.curIs(scanner.KEYWORD_NULL):
		kw := p.cur.Text
		p.advance()
		return &ast.KeywordTypeNode{Base: ast.NewBase(sp2(start, p.cur.Start)), Keyword: kw}
	case p.curIs(scanner.KEYWORD_TYPEOF):
		return p.parseTypeOperator()
	case p.curIs(scanner.STRING):
		tok := p.cur
		p.advance()
		return &ast.LiteralTypeNode{Base: ast.NewBase(sp(tok)), Kind: ast.LitString, Raw: tok.Text}
	case p.curIs(scanner.NUMBER):
		tok := p.cur
		p.advance()
		return &ast.LiteralTypeNode{Base: ast.NewBase(sp(tok)), Kind: ast.LitNumber, Raw: tok.Text}
	case p.curIs(scanner.BIGINT):
		tok := p.cur
		p.advance()
		return &ast.LiteralTypeNode{Base: ast.NewBase(sp(tok)), Kind: ast.LitBigInt, Raw: tok.Text}
	case p.curIs(scanner.KEYWORD_TRUE), p.curIs(scanner.KEYWORD_FALSE):
		tok := p.cur
		p.advance()
		return &ast.LiteralTypeNode{Base: ast.NewBase(sp(tok)), Kind: ast.LitBoolean, Raw: tok.Text}
	case p.curIs(scanner.MINUS):
		// negative numeric literal type, e.g. `-1`.
		p.advance()
		tok := p.cur
		p.advance()
		return &ast.LiteralTypeNode{Base: ast.NewBase(common.Span{Start: start, End: tok.End}), Kind: ast.LitNumber, Raw: "-" + tok.Text}
	case p.curIs(scanner.NO_SUBST_TEMPLATE), p.curIs(scanner.TEMPLATE_HEAD):
		return p.parseTemplateLiteralType()
	case p.curIs(scanner.LPAREN):
		return p.parseParenOrFunctionType()
	case p.curIs(scanner.KEYWORD_NEW):
		return p.parseConstructorType()
	case p.curIs(scanner.LT):
		return p.parseGenericFunctionType()
	case p.curIs(scanner.LBRACKET):
		return p.parseTupleType()
	case p.curIs(scanner.LBRACE):
		return p.parseObjectOrMappedType()
	case p.curIs(scanner.IDENT) || p.isContextualIdent():
		return p.parseTypeReference()
	default:
		tok := p.cur
		p.errHere(diag.TS1109, "Type expected.")
		p.advance()
		return &ast.KeywordTypeNode{Base: ast.NewBase(sp(tok)), Keyword: "any"}
	}
}

func sp2(start, end uint32) common.Span { return common.Span{Start: start, End: end} }

// isContextualIdent reports whether the current token is a keyword TS
// treats as an ordinary identifier in type-reference position. It always
// reports false: only IDENT tokens start a type reference here, and names
// such as `unique` or `Record` already scan as IDENT.
func (p *Parser) isContextualIdent() bool { return false }

func (p *Parser) parseTypeReference() ast.TypeNode {
	start := p.cur.Start
	qualifier := []common.Atom{}
	name := p.intern(p.cur)
	p.advance()
	for p.curIs(scanner.DOT) {
		qualifier = append(qualifier, name)
		p.advance()
		name = p.intern(p.cur)
		p.advance()
	}
	node := &ast.TypeRefNode{Name: name, Qualifier: qualifier}
	if p.curIs(scanner.LT) {
		args, _ := p.tryParseTypeArgs()
		node.Args = args
	}
	node.Base = ast.NewBase(common.Span{Start: start, End: p.cur.Start})
	return node
}

func (p *Parser) parseTemplateLiteralType() ast.TypeNode {
	start := p.cur.Start
	quasis := []string{p.cur.Text}
	var types []ast.TypeNode
	if p.curIs(scanner.NO_SUBST_TEMPLATE) {
		tok := p.cur
		p.advance()
		return &ast.TemplateLiteralTypeNode{Base: ast.NewBase(sp(tok)), Quasis: []string{tok.Text}}
	}
	p.advance()
	for {
		types = append(types, p.parseType())
		tail := p.sc.RescanTemplateTail()
		quasis = append(quasis, tail.Text)
		p.cur = tail
		p.peek = p.sc.NextToken()
		if tail.Kind == scanner.TEMPLATE_TAIL {
			break
		}
	}
	end := p.cur.End
	p.advance()
	return &ast.TemplateLiteralTypeNode{Base: ast.NewBase(common.Span{Start: start, End: end}), Quasis: quasis, Types: types}
}

// parseParenOrFunctionType resolves `(T)` (parenthesized type) vs
// `(a: T) => U` (function type) by checking whether the parenthesized
// list is followed by '=>'.
func (p *Parser) parseParenOrFunctionType() ast.TypeNode {
	cp := p.mark()
	if params, ok := p.tryParseTypeParamList(); ok && p.curIs(scanner.ARROW) {
		p.commit()
		return p.finishFunctionType(cp.cur.Start, nil, params)
	}
	p.rollback(cp)

	start := p.cur.Start
	p.advance() // '('
	inner := p.parseType()
	p.expect(scanner.RPAREN)
	if p.curIs(scanner.ARROW) {
		// A single-param function type with an inferred-pattern parameter
		// list turned out to be just a parenthesized type the first pass
		// rejected (e.g. a bare type name); rebuild as a function type
		// with one anonymous parameter is not reachable here because
		// tryParseTypeParamList above already handles the common shapes.
		p.advance()
		ret := p.parseType()
		return &ast.FunctionTypeNode{Base: ast.NewBase(common.Span{Start: start, End: ret.Span().End}), ReturnType: ret}
	}
	return &ast.ParenTypeNode{Base: ast.NewBase(common.Span{Start: start, End: p.cur.Start}), Inner: inner}
}

func (p *Parser) tryParseTypeParamList() ([]*ast.FuncParam, bool) {
	if !p.curIs(scanner.LPAREN) {
		return nil, false
	}
	p.advance()
	var params []*ast.FuncParam
	for !p.curIs(scanner.RPAREN) && !p.curIs(scanner.EOF) {
		fp := &ast.FuncParam{}
		if p.curIs(scanner.DOTDOTDOT) {
			fp.Rest = true
			p.advance()
		}
		if !p.curIs(scanner.IDENT) {
			return nil, false
		}
		fp.Pattern = &ast.IdentPat{Base: ast.NewBase(sp(p.cur)), Name: p.intern(p.cur)}
		p.advance()
		if p.curIs(scanner.QUESTION) {
			fp.Optional = true
			p.advance()
		}
		if !p.curIs(scanner.COLON) {
			return nil, false
		}
		p.advance()
		fp.Type = p.parseType()
		params = append(params, fp)
		if p.curIs(scanner.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	if !p.curIs(scanner.RPAREN) {
		return nil, false
	}
	p.advance()
	return params, true
}

func (p *Parser) finishFunctionType(start uint32, typeParams []*ast.TypeParamDecl, params []*ast.FuncParam) ast.TypeNode {
	p.advance() // '=>'
	ret := p.parseType()
	return &ast.FunctionTypeNode{Base: ast.NewBase(common.Span{Start: start, End: ret.Span().End}), TypeParams: typeParams, Params: params, ReturnType: ret}
}

func (p *Parser) parseGenericFunctionType() ast.TypeNode {
	start := p.cur.Start
	typeParams := p.maybeParseTypeParams()
	params, _ := p.tryParseTypeParamList()
	p.expect(scanner.ARROW)
	ret := p.parseType()
	return &ast.FunctionTypeNode{Base: ast.NewBase(common.Span{Start: start, End: ret.Span().End}), TypeParams: typeParams, Params: params, ReturnType: ret}
}

func (p *Parser) parseConstructorType() ast.TypeNode {
	start := p.cur.Start
	p.advance() // 'new'
	typeParams := p.maybeParseTypeParams()
	params, _ := p.tryParseTypeParamList()
	p.expect(scanner.ARROW)
	ret := p.parseType()
	return &ast.ConstructorTypeNode{Base: ast.NewBase(common.Span{Start: start, End: ret.Span().End}), TypeParams: typeParams, Params: params, ReturnType: ret}
}

func (p *Parser) parseTupleType() ast.TypeNode {
	start := p.cur.Start
	p.advance() // '['
	var elems []ast.TupleElemNode
	for !p.curIs(scanner.RBRACKET) && !p.curIs(scanner.EOF) {
		el := ast.TupleElemNode{}
		if p.curIs(scanner.DOTDOTDOT) {
			el.Rest = true
			p.advance()
		}
		// Labeled tuple member: `name: T` or `name?: T`.
		if p.curIs(scanner.IDENT) && (p.peekIs(scanner.COLON) || p.peekIs(scanner.QUESTION)) {
			el.Label = p.intern(p.cur)
			p.advance()
			if p.curIs(scanner.QUESTION) {
				el.Optional = true
				p.advance()
			}
			p.expect(scanner.COLON)
		}
		el.Type = p.parseType()
		if p.curIs(scanner.QUESTION) {
			el.Optional = true
			p.advance()
		}
		elems = append(elems, el)
		if p.curIs(scanner.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	end := p.cur.End
	p.expect(scanner.RBRACKET)
	return &ast.TupleTypeNode{Base: ast.NewBase(common.Span{Start: start, End: end}), Elems: elems}
}

// parseObjectOrMappedType disambiguates `{ [K in T]: U }` (mapped type)
// from an ordinary object-type literal by looking for IDENT "in" inside a
// bracketed member after a speculative peek.
func (p *Parser) parseObjectOrMappedType() ast.TypeNode {
	cp := p.mark()
	if mt, ok := p.tryParseMappedType(cp.cur.Start); ok {
		p.commit()
		return mt
	}
	p.rollback(cp)
	return p.parseObjectType()
}

func (p *Parser) tryParseMappedType(start uint32) (ast.TypeNode, bool) {
	p.advance() // '{'
	readonlyMod := 0
	if p.curIs(scanner.PLUS) || p.curIs(scanner.MINUS) {
		sign := 1
		if p.curIs(scanner.MINUS) {
			sign = -1
		}
		p.advance()
		if !p.curIs(scanner.KEYWORD_READONLY) {
			return nil, false
		}
		readonlyMod = sign
		p.advance()
	} else if p.curIs(scanner.KEYWORD_READONLY) {
		readonlyMod = 1
		p.advance()
	}
	if !p.curIs(scanner.LBRACKET) {
		return nil, false
	}
	p.advance()
	if !p.curIs(scanner.IDENT) {
		return nil, false
	}
	paramName := p.intern(p.cur)
	p.advance()
	if !p.curIs(scanner.KEYWORD_IN) {
		return nil, false
	}
	p.advance()
	constraint := p.parseType()
	var nameType ast.TypeNode
	if p.curIs(scanner.KEYWORD_AS) {
		p.advance()
		nameType = p.parseType()
	}
	if !p.curIs(scanner.RBRACKET) {
		return nil, false
	}
	p.advance()
	optMod := 0
	if p.curIs(scanner.PLUS) || p.curIs(scanner.MINUS) {
		sign := 1
		if p.curIs(scanner.MINUS) {
			sign = -1
		}
		p.advance()
		if !p.curIs(scanner.QUESTION) {
			return nil, false
		}
		optMod = sign
		p.advance()
	} else if p.curIs(scanner.QUESTION) {
		optMod = 1
		p.advance()
	}
	if !p.curIs(scanner.COLON) {
		return nil, false
	}
	p.advance()
	template := p.parseType()
	if p.curIs(scanner.SEMICOLON) {
		p.advance()
	}
	end := p.cur.End
	if !p.curIs(scanner.RBRACE) {
		return nil, false
	}
	p.advance()
	return &ast.MappedTypeNode{
		Base:          ast.NewBase(common.Span{Start: start, End: end}),
		TypeParamName: paramName,
		Constraint:    constraint,
		NameType:      nameType,
		Template:      template,
		ReadonlyMod:   readonlyMod,
		OptionalMod:   optMod,
	}, true
}

func (p *Parser) parseObjectType() ast.TypeNode {
	start := p.cur.Start
	p.advance() // '{'
	var members []ast.ObjectMemberNode
	for !p.curIs(scanner.RBRACE) && !p.curIs(scanner.EOF) {
		members = append(members, p.parseObjectMember())
		if p.curIs(scanner.SEMICOLON) || p.curIs(scanner.COMMA) {
			p.advance()
		}
	}
	end := p.cur.End
	p.expect(scanner.RBRACE)
	return &ast.ObjectTypeNode{Base: ast.NewBase(common.Span{Start: start, End: end}), Members: members}
}

func (p *Parser) parseObjectMember() ast.ObjectMemberNode {
	m := ast.ObjectMemberNode{Kind: "property"}
	if p.curIs(scanner.LPAREN) || p.curIs(scanner.LT) {
		// call signature
		typeParams := p.maybeParseTypeParams()
		params := p.parseParamList()
		p.expect(scanner.COLON)
		ret := p.parseType()
		m.Kind = "call"
		m.Type = &ast.FunctionTypeNode{TypeParams: typeParams, Params: params, ReturnType: ret}
		return m
	}
	if p.curIs(scanner.KEYWORD_NEW) {
		p.advance()
		typeParams := p.maybeParseTypeParams()
		params := p.parseParamList()
		p.expect(scanner.COLON)
		ret := p.parseType()
		m.Kind = "construct"
		m.Type = &ast.ConstructorTypeNode{TypeParams: typeParams, Params: params, ReturnType: ret}
		return m
	}
	if p.curIs(scanner.KEYWORD_READONLY) && p.peekIs(scanner.LBRACKET) {
		m.Readonly = true
		p.advance()
	}
	if p.curIs(scanner.LBRACKET) {
		// index signature: [key: K]: V
		p.advance()
		m.IndexKeyName = p.intern(p.cur)
		p.advance()
		p.expect(scanner.COLON)
		m.IndexKeyType = p.parseType()
		p.expect(scanner.RBRACKET)
		p.expect(scanner.COLON)
		m.Type = p.parseType()
		m.Kind = "index"
		return m
	}
	if p.curIs(scanner.KEYWORD_READONLY) {
		m.Readonly = true
		p.advance()
	}
	m.Name = p.intern(p.cur)
	p.advance()
	if p.curIs(scanner.QUESTION) {
		m.Optional = true
		p.advance()
	}
	if p.curIs(scanner.LPAREN) || p.curIs(scanner.LT) {
		typeParams := p.maybeParseTypeParams()
		params := p.parseParamList()
		var ret ast.TypeNode
		if p.curIs(scanner.COLON) {
			p.advance()
			ret = p.parseReturnTypeAnnotation()
		}
		m.Kind = "method"
		m.Type = &ast.FunctionTypeNode{TypeParams: typeParams, Params: params, ReturnType: ret}
		return m
	}
	p.expect(scanner.COLON)
	m.Type = p.parseType()
	return m
}

// maybeParseTypeParams parses an optional `<T, U extends C = D>` clause.
func (p *Parser) maybeParseTypeParams() []*ast.TypeParamDecl {
	if !p.curIs(scanner.LT) {
		return nil
	}
	p.advance()
	var params []*ast.TypeParamDecl
	for !p.curIs(scanner.GT) && !p.curIs(scanner.GTGT) && !p.curIs(scanner.GTGTGT) && !p.curIs(scanner.EOF) {
		tp := &ast.TypeParamDecl{Name: p.intern(p.cur)}
		p.advance()
		if p.curIs(scanner.KEYWORD_EXTENDS) {
			p.advance()
			tp.Constraint = p.parseType()
		}
		if p.curIs(scanner.ASSIGN) {
			p.advance()
			tp.Default = p.parseType()
		}
		params = append(params, tp)
		if p.curIs(scanner.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.consumeClosingAngle()
	return params
}

// tryParseTypeArgs parses `<T, U>`, using the scanner's GT rescan to split
// a greedily-scanned ">>"/">>>" when closing nested generics (spec.md
// §4.2). Returns ok=false (without consuming anything semantically
// meaningful) if the content doesn't parse as a type-argument list.
func (p *Parser) tryParseTypeArgs() ([]ast.TypeNode, bool) {
	if !p.curIs(scanner.LT) {
		return nil, false
	}
	p.advance()
	var args []ast.TypeNode
	if p.curIs(scanner.GT) || p.curIs(scanner.GTGT) || p.curIs(scanner.GTGTGT) {
		// `<>` is never valid, bail out so the caller can reinterpret.
		return nil, false
	}
	for {
		args = append(args, p.parseType())
		if p.curIs(scanner.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if !(p.curIs(scanner.GT) || p.curIs(scanner.GTGT) || p.curIs(scanner.GTGTGT) || p.curIs(scanner.GTE)) {
		return nil, false
	}
	p.consumeClosingAngle()
	return args, true
}

// consumeClosingAngle consumes a single '>' that closes a generic list,
// rescanning a greedily-lexed '>>'/'>>>'/'>=' token via scanner.RescanGT
// when needed (spec.md §4.2).
func (p *Parser) consumeClosingAngle() {
	switch {
	case p.curIs(scanner.GT):
		p.advance()
	case p.curIs(scanner.GTGT), p.curIs(scanner.GTGTGT), p.curIs(scanner.GTE):
		_, rest := scanner.RescanGT(p.cur)
		p.cur = *rest
		// peek stays as-is; the rest token occupies `cur` now.
	default:
		p.expect(scanner.GT)
	}
}

// parseReturnTypeAnnotation parses a function's return-type position,
// which may be an ordinary type or a type-predicate (`x is T` /
// `asserts x [is T]`), spec.md §4.6's narrowing input from user-defined
// guards.
func (p *Parser) parseReturnTypeAnnotation() ast.TypeNode {
	start := p.cur.Start
	if p.curIs(scanner.IDENT) && p.cur.Text == "asserts" {
		p.advance()
		name := p.intern(p.cur)
		p.advance()
		node := &ast.TypePredicateNode{Base: ast.NewBase(common.Span{Start: start, End: p.cur.Start}), ParamName: name, Asserts: true}
		if p.curIs(scanner.KEYWORD_IS) {
			p.advance()
			node.Type = p.parseType()
			node.Base = ast.NewBase(common.Span{Start: start, End: node.Type.Span().End})
		}
		return node
	}
	if p.curIs(scanner.IDENT) && p.peekIs(scanner.KEYWORD_IS) {
		name := p.intern(p.cur)
		p.advance()
		p.advance() // 'is'
		t := p.parseType()
		return &ast.TypePredicateNode{Base: ast.NewBase(common.Span{Start: start, End: t.Span().End}), ParamName: name, Type: t}
	}
	return p.parseType()
}
