package parser

import (
	"tsgo/internal/ast"
	"tsgo/internal/common"
	"tsgo/internal/diag"
	"tsgo/internal/scanner"
)

func (p *Parser) registerExprParsers() {
	p.registerPrefix(scanner.IDENT, p.parseIdent)
	p.registerPrefix(scanner.NUMBER, p.parseNumberLit)
	p.registerPrefix(scanner.BIGINT, p.parseBigIntLit)
	p.registerPrefix(scanner.STRING, p.parseStringLit)
	p.registerPrefix(scanner.NO_SUBST_TEMPLATE, p.parseNoSubstTemplate)
	p.registerPrefix(scanner.TEMPLATE_HEAD, p.parseTemplateLiteral)
	p.registerPrefix(scanner.KEYWORD_TRUE, p.parseBoolLit)
	p.registerPrefix(scanner.KEYWORD_FALSE, p.parseBoolLit)
	p.registerPrefix(scanner.KEYWORD_NULL, p.parseNullLit)
	p.registerPrefix(scanner.KEYWORD_UNDEFINED, p.parseUndefinedLit)
	p.registerPrefix(scanner.KEYWORD_THIS, p.parseIdent)
	p.registerPrefix(scanner.KEYWORD_SUPER, p.parseIdent)
	p.registerPrefix(scanner.BANG, p.parsePrefixUnary)
	p.registerPrefix(scanner.MINUS, p.parsePrefixUnary)
	p.registerPrefix(scanner.PLUS, p.parsePrefixUnary)
	p.registerPrefix(scanner.TILDE, p.parsePrefixUnary)
	p.registerPrefix(scanner.PLUSPLUS, p.parsePrefixUnary)
	p.registerPrefix(scanner.MINUSMINUS, p.parsePrefixUnary)
	p.registerPrefix(scanner.KEYWORD_TYPEOF, p.parseTypeOf)
	p.registerPrefix(scanner.KEYWORD_NEW, p.parseNew)
	p.registerPrefix(scanner.DOTDOTDOT, p.parseSpread)
	p.registerPrefix(scanner.LPAREN, p.parseParenOrArrow)
	p.registerPrefix(scanner.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(scanner.LBRACE, p.parseObjectLiteral)
	p.registerPrefix(scanner.KEYWORD_FUNCTION, p.parseFunctionExpr)
	p.registerPrefix(scanner.HASH, p.parsePrivateName)
	p.registerPrefix(scanner.KEYWORD_ASYNC, p.parseAsyncExpr)

	p.registerInfix(scanner.PLUS, ADDITIVE, p.parseBinary)
	p.registerInfix(scanner.MINUS, ADDITIVE, p.parseBinary)
	p.registerInfix(scanner.STAR, MULTIPLICATIVE, p.parseBinary)
	p.registerInfix(scanner.SLASH, MULTIPLICATIVE, p.parseBinary)
	p.registerInfix(scanner.PERCENT, MULTIPLICATIVE, p.parseBinary)
	p.registerInfix(scanner.STARSTAR, EXPONENT, p.parseBinaryRightAssoc)
	p.registerInfix(scanner.EQ, EQUALITY, p.parseBinary)
	p.registerInfix(scanner.NEQ, EQUALITY, p.parseBinary)
	p.registerInfix(scanner.EQEQEQ, EQUALITY, p.parseBinary)
	p.registerInfix(scanner.NEQEQ, EQUALITY, p.parseBinary)
	p.registerInfix(scanner.LT, RELATIONAL, p.maybeParseGenericCall)
	p.registerInfix(scanner.GT, RELATIONAL, p.parseBinary)
	p.registerInfix(scanner.LTE, RELATIONAL, p.parseBinary)
	p.registerInfix(scanner.GTE, RELATIONAL, p.parseBinary)
	p.registerInfix(scanner.KEYWORD_INSTANCEOF, RELATIONAL, p.parseBinary)
	p.registerInfix(scanner.KEYWORD_IN, RELATIONAL, p.parseBinary)
	p.registerInfix(scanner.KEYWORD_AS, RELATIONAL, p.parseAsExpr)
	p.registerInfix(scanner.AMP, BITAND, p.parseBinary)
	p.registerInfix(scanner.BAR, BITOR, p.parseBinary)
	p.registerInfix(scanner.CARET, BITXOR, p.parseBinary)
	p.registerInfix(scanner.LTLT, SHIFT, p.parseBinary)
	p.registerInfix(scanner.GTGT, SHIFT, p.parseBinary)
	p.registerInfix(scanner.GTGTGT, SHIFT, p.parseBinary)
	p.registerInfix(scanner.AMPAMP, LOGAND, p.parseLogical)
	p.registerInfix(scanner.BARBAR, LOGOR, p.parseLogical)
	p.registerInfix(scanner.QUESTIONQUESTION, NULLISH_PREC, p.parseLogical)
	p.registerInfix(scanner.QUESTION, COND_PREC, p.parseConditional)
	p.registerInfix(scanner.ASSIGN, ASSIGN_PREC, p.parseAssign)
	p.registerInfix(scanner.PLUSASSIGN, ASSIGN_PREC, p.parseAssign)
	p.registerInfix(scanner.MINUSASSIGN, ASSIGN_PREC, p.parseAssign)
	p.registerInfix(scanner.STARASSIGN, ASSIGN_PREC, p.parseAssign)
	p.registerInfix(scanner.SLASHASSIGN, ASSIGN_PREC, p.parseAssign)
	p.registerInfix(scanner.PERCENTASSIGN, ASSIGN_PREC, p.parseAssign)
	p.registerInfix(scanner.AMPAMPASSIGN, ASSIGN_PREC, p.parseAssign)
	p.registerInfix(scanner.BARBARASSIGN, ASSIGN_PREC, p.parseAssign)
	p.registerInfix(scanner.QUESTIONQUESTIONASSIGN, ASSIGN_PREC, p.parseAssign)
	p.registerInfix(scanner.LPAREN, CALL_PREC, p.parseCall)
	p.registerInfix(scanner.DOT, MEMBER_PREC, p.parseMember)
	p.registerInfix(scanner.QUESTIONDOT, MEMBER_PREC, p.parseOptionalMember)
	p.registerInfix(scanner.LBRACKET, MEMBER_PREC, p.parseIndexMember)
	p.registerInfix(scanner.PLUSPLUS, POSTFIX, p.parsePostfixUnary)
	p.registerInfix(scanner.MINUSMINUS, POSTFIX, p.parsePostfixUnary)
	p.registerInfix(scanner.BANG, POSTFIX, p.parseNonNull)
}

func sp(tok scanner.Token) common.Span { return common.Span{Start: tok.Start, End: tok.End} }

// ParseExpression is the Pratt-parsing core: parse a prefix expression,
// then fold in infix operators whose precedence exceeds minPrec.
func (p *Parser) ParseExpression(minPrec int) ast.Expr {
	prefix, ok := p.prefixFns[p.cur.Kind]
	if !ok {
		p.errHere(diag.TS1109, "Expression expected.")
		bad := p.cur
		p.advance()
		return &ast.Ident{Base: ast.NewBase(sp(bad))}
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for minPrec < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peek.Kind]
		if !ok {
			return left
		}
		p.advance()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdent() ast.Expr {
	tok := p.cur
	name := p.intern(tok)
	p.advance()
	return &ast.Ident{Base: ast.NewBase(sp(tok)), Name: name}
}

func (p *Parser) parseNumberLit() ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.Literal{Base: ast.NewBase(sp(tok)), Kind: ast.LitNumber, Raw: tok.Text}
}

func (p *Parser) parseBigIntLit() ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.Literal{Base: ast.NewBase(sp(tok)), Kind: ast.LitBigInt, Raw: tok.Text}
}

func (p *Parser) parseStringLit() ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.Literal{Base: ast.NewBase(sp(tok)), Kind: ast.LitString, Raw: tok.Text}
}

func (p *Parser) parseBoolLit() ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.Literal{Base: ast.NewBase(sp(tok)), Kind: ast.LitBoolean, Raw: tok.Text}
}

func (p *Parser) parseNullLit() ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.Literal{Base: ast.NewBase(sp(tok)), Kind: ast.LitNull, Raw: "null"}
}

func (p *Parser) parseUndefinedLit() ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.Literal{Base: ast.NewBase(sp(tok)), Kind: ast.LitUndefined, Raw: "undefined"}
}

func (p *Parser) parseNoSubstTemplate() ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.TemplateLiteral{Base: ast.NewBase(sp(tok)), Quasis: []string{tok.Text}}
}

// parseTemplateLiteral handles a TEMPLATE_HEAD ... TEMPLATE_TAIL chain,
// rescanning each `}...${` / `}...`` ` continuation via the scanner's
// bounded rescan (scanner.RescanTemplateTail).
func (p *Parser) parseTemplateLiteral() ast.Expr {
	start := p.cur.Start
	quasis := []string{p.cur.Text}
	var exprs []ast.Expr
	p.advance()
	for {
		exprs = append(exprs, p.ParseExpression(LOWEST))
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
	return &ast.TemplateLiteral{Base: ast.NewBase(common.Span{Start: start, End: end}), Quasis: quasis, Exprs: exprs}
}

func (p *Parser) parsePrivateName() ast.Expr {
	start := p.cur.Start
	p.advance() // '#'
	name := p.intern(p.cur)
	end := p.cur.End
	p.advance()
	return &ast.PrivateName{Base: ast.NewBase(common.Span{Start: start, End: end}), Name: name}
}

func (p *Parser) parsePrefixUnary() ast.Expr {
	op := p.cur
	p.advance()
	arg := p.ParseExpression(UNARY)
	return &ast.UnaryExpr{Base: ast.NewBase(common.Span{Start: op.Start, End: arg.Span().End}), Op: op.Kind.String(), Prefix: true, Arg: arg}
}

func (p *Parser) parsePostfixUnary(left ast.Expr) ast.Expr {
	op := p.cur
	return &ast.UnaryExpr{Base: ast.NewBase(common.Span{Start: left.Span().Start, End: op.End}), Op: op.Kind.String(), Prefix: false, Arg: left}
}

func (p *Parser) parseNonNull(left ast.Expr) ast.Expr {
	return &ast.NonNullExpr{Base: ast.NewBase(common.Span{Start: left.Span().Start, End: p.cur.End}), Expr: left}
}

func (p *Parser) parseTypeOf() ast.Expr {
	start := p.cur.Start
	p.advance()
	arg := p.ParseExpression(UNARY)
	return &ast.TypeOfExpr{Base: ast.NewBase(common.Span{Start: start, End: arg.Span().End}), Expr: arg}
}

func (p *Parser) parseSpread() ast.Expr {
	start := p.cur.Start
	p.advance()
	arg := p.ParseExpression(ASSIGN_PREC)
	return &ast.SpreadExpr{Base: ast.NewBase(common.Span{Start: start, End: arg.Span().End}), Expr: arg}
}

func (p *Parser) parseNew() ast.Expr {
	start := p.cur.Start
	p.advance()
	callee := p.ParseExpression(MEMBER_PREC)
	var typeArgs []ast.TypeNode
	if p.curIs(scanner.LT) {
		cp := p.mark()
		if args, ok := p.tryParseTypeArgs(); ok {
			typeArgs = args
			p.commit()
		} else {
			p.rollback(cp)
		}
	}
	var args []ast.Expr
	if p.curIs(scanner.LPAREN) {
		args = p.parseArgs()
	}
	return &ast.NewExpr{Base: ast.NewBase(common.Span{Start: start, End: p.cur.Start}), Callee: callee, TypeArgs: typeArgs, Args: args}
}

func (p *Parser) parseArgs() []ast.Expr {
	p.advance() // '('
	var args []ast.Expr
	for !p.curIs(scanner.RPAREN) && !p.curIs(scanner.EOF) {
		args = append(args, p.ParseExpression(ASSIGN_PREC))
		if p.curIs(scanner.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(scanner.RPAREN)
	return args
}

func (p *Parser) parseCall(left ast.Expr) ast.Expr {
	start := left.Span().Start
	args := p.parseArgs()
	return &ast.CallExpr{Base: ast.NewBase(common.Span{Start: start, End: p.cur.Start}), Callee: left, Args: args}
}

// maybeParseGenericCall resolves the `f<T>(...)` vs `f < T` ambiguity
// (spec.md §4.3) by speculatively parsing a type-argument list and only
// keeping it if a call's '(' immediately follows.
func (p *Parser) maybeParseGenericCall(left ast.Expr) ast.Expr {
	cp := p.mark()
	typeArgs, ok := p.tryParseTypeArgs()
	if ok && p.curIs(scanner.LPAREN) {
		p.commit()
		args := p.parseArgs()
		return &ast.CallExpr{Base: ast.NewBase(common.Span{Start: left.Span().Start, End: p.cur.Start}), Callee: left, TypeArgs: typeArgs, Args: args}
	}
	p.rollback(cp)
	p.advance() // consume the '<' as a binary operator
	right := p.ParseExpression(RELATIONAL)
	return &ast.BinaryExpr{Base: ast.NewBase(common.Span{Start: left.Span().Start, End: right.Span().End}), Op: "<", Left: left, Right: right}
}

func (p *Parser) parseMember(left ast.Expr) ast.Expr {
	p.advance() // '.'
	name := p.parseMemberName()
	end := p.cur.End
	p.advance()
	return &ast.MemberExpr{Base: ast.NewBase(common.Span{Start: left.Span().Start, End: end}), Object: left, Property: name}
}

// parseMemberName interns the property name following a `.`. A private
// field access (`obj.#p`) spans two tokens -- HASH then the bare name --
// and must intern the same bare atom a class's own `#p` field declaration
// uses (parser_decl.go's ClassField.Name), so Property lookups find the
// PropId by name instead of by sigil-decorated spelling.
func (p *Parser) parseMemberName() common.Atom {
	if p.curIs(scanner.HASH) {
		p.advance() // '#'
	}
	return p.intern(p.cur)
}

func (p *Parser) parseOptionalMember(left ast.Expr) ast.Expr {
	p.advance() // '?.'
	if p.curIs(scanner.LPAREN) {
		args := p.parseArgs()
		return &ast.CallExpr{Base: ast.NewBase(common.Span{Start: left.Span().Start, End: p.cur.Start}), Callee: left, Args: args, Optional: true}
	}
	if p.curIs(scanner.LBRACKET) {
		p.advance()
		idx := p.ParseExpression(LOWEST)
		p.expect(scanner.RBRACKET)
		return &ast.MemberExpr{Base: ast.NewBase(common.Span{Start: left.Span().Start, End: p.cur.Start}), Object: left, Index: idx, Computed: true, Optional: true}
	}
	name := p.parseMemberName()
	end := p.cur.End
	p.advance()
	return &ast.MemberExpr{Base: ast.NewBase(common.Span{Start: left.Span().Start, End: end}), Object: left, Property: name, Optional: true}
}

func (p *Parser) parseIndexMember(left ast.Expr) ast.Expr {
	p.advance() // '['
	idx := p.ParseExpression(LOWEST)
	end := p.cur.End
	p.expect(scanner.RBRACKET)
	return &ast.MemberExpr{Base: ast.NewBase(common.Span{Start: left.Span().Start, End: end}), Object: left, Index: idx, Computed: true}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	op := p.cur
	prec := p.curPrecedence()
	p.advance()
	right := p.ParseExpression(prec)
	return &ast.BinaryExpr{Base: ast.NewBase(common.Span{Start: left.Span().Start, End: right.Span().End}), Op: op.Kind.String(), Left: left, Right: right}
}

func (p *Parser) parseBinaryRightAssoc(left ast.Expr) ast.Expr {
	op := p.cur
	prec := p.curPrecedence()
	p.advance()
	right := p.ParseExpression(prec - 1)
	return &ast.BinaryExpr{Base: ast.NewBase(common.Span{Start: left.Span().Start, End: right.Span().End}), Op: op.Kind.String(), Left: left, Right: right}
}

func (p *Parser) parseLogical(left ast.Expr) ast.Expr {
	op := p.cur
	prec := p.curPrecedence()
	p.advance()
	right := p.ParseExpression(prec)
	return &ast.LogicalExpr{Base: ast.NewBase(common.Span{Start: left.Span().Start, End: right.Span().End}), Op: op.Kind.String(), Left: left, Right: right}
}

func (p *Parser) parseAsExpr(left ast.Expr) ast.Expr {
	p.advance() // 'as'
	if p.curIs(scanner.KEYWORD_CONST) {
		end := p.cur.End
		p.advance()
		return &ast.TypeAssertion{Base: ast.NewBase(common.Span{Start: left.Span().Start, End: end}), Expr: left, Const: true}
	}
	t := p.parseType()
	return &ast.TypeAssertion{Base: ast.NewBase(common.Span{Start: left.Span().Start, End: t.Span().End}), Expr: left, Type: t}
}

func (p *Parser) parseConditional(test ast.Expr) ast.Expr {
	p.advance() // '?'
	then := p.ParseExpression(ASSIGN_PREC)
	p.expect(scanner.COLON)
	els := p.ParseExpression(ASSIGN_PREC)
	return &ast.ConditionalExpr{Base: ast.NewBase(common.Span{Start: test.Span().Start, End: els.Span().End}), Test: test, Then: then, Else: els}
}

func (p *Parser) parseAssign(left ast.Expr) ast.Expr {
	op := p.cur
	p.advance()
	right := p.ParseExpression(ASSIGN_PREC - 1)
	return &ast.AssignExpr{Base: ast.NewBase(common.Span{Start: left.Span().Start, End: right.Span().End}), Op: op.Kind.String(), Target: left, Value: right}
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	start := p.cur.Start
	p.advance() // '['
	var elems []ast.Expr
	var spreads []bool
	for !p.curIs(scanner.RBRACKET) && !p.curIs(scanner.EOF) {
		if p.curIs(scanner.COMMA) {
			elems = append(elems, nil)
			spreads = append(spreads, false)
			p.advance()
			continue
		}
		spread := false
		if p.curIs(scanner.DOTDOTDOT) {
			spread = true
			p.advance()
		}
		elems = append(elems, p.ParseExpression(ASSIGN_PREC))
		spreads = append(spreads, spread)
		if p.curIs(scanner.COMMA) {
			p.advance()
		}
	}
	end := p.cur.End
	p.expect(scanner.RBRACKET)
	return &ast.ArrayLiteral{Base: ast.NewBase(common.Span{Start: start, End: end}), Elems: elems, Spread: spreads}
}

func (p *Parser) parseObjectLiteral() ast.Expr {
	start := p.cur.Start
	p.advance() // '{'
	var props []ast.ObjectProp
	for !p.curIs(scanner.RBRACE) && !p.curIs(scanner.EOF) {
		if p.curIs(scanner.DOTDOTDOT) {
			p.advance()
			e := p.ParseExpression(ASSIGN_PREC)
			props = append(props, ast.ObjectProp{Value: e, Spread: true})
		} else {
			key := p.intern(p.cur)
			p.advance()
			switch {
			case p.curIs(scanner.COLON):
				p.advance()
				v := p.ParseExpression(ASSIGN_PREC)
				props = append(props, ast.ObjectProp{Key: key, Value: v})
			case p.curIs(scanner.LPAREN):
				fn := p.parseFunctionTail(false)
				props = append(props, ast.ObjectProp{Key: key, Value: fn})
			default:
				props = append(props, ast.ObjectProp{Key: key, Shorthand: true})
			}
		}
		if p.curIs(scanner.COMMA) {
			p.advance()
		}
	}
	end := p.cur.End
	p.expect(scanner.RBRACE)
	return &ast.ObjectLiteral{Base: ast.NewBase(common.Span{Start: start, End: end}), Props: props}
}

// parseParenOrArrow resolves the arrow-function-vs-parenthesized-expression
// ambiguity via speculative parse (spec.md §4.3).
func (p *Parser) parseParenOrArrow() ast.Expr {
	cp := p.mark()
	if params, ok := p.tryParseArrowParams(); ok && p.curIs(scanner.ARROW) {
		p.commit()
		return p.finishArrow(params, cp.cur.Start)
	}
	p.rollback(cp)

	p.advance() // '('
	e := p.ParseExpression(LOWEST)
	p.expect(scanner.RPAREN)
	return e
}

func (p *Parser) tryParseArrowParams() ([]*ast.FuncParam, bool) {
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
		if p.curIs(scanner.COLON) {
			p.advance()
			fp.Type = p.parseType()
		}
		if p.curIs(scanner.ASSIGN) {
			p.advance()
			fp.Default = p.ParseExpression(ASSIGN_PREC)
		}
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
	if p.curIs(scanner.COLON) {
		p.advance()
		p.parseType()
	}
	return params, true
}

func (p *Parser) finishArrow(params []*ast.FuncParam, start uint32) ast.Expr {
	p.advance() // '=>'
	fn := &ast.FunctionExpr{Params: params, Arrow: true}
	if p.curIs(scanner.LBRACE) {
		fn.Body = p.parseBlock()
	} else {
		fn.ExprBody = p.ParseExpression(ASSIGN_PREC)
	}
	fn.Base = ast.NewBase(common.Span{Start: start, End: p.cur.Start})
	return fn
}

// maybeSingleIdentArrow handles `x => x`, the unparenthesized single
// untyped parameter spelling of an arrow function.
func (p *Parser) maybeSingleIdentArrow() (ast.Expr, bool) {
	if !p.curIs(scanner.IDENT) || !p.peekIs(scanner.ARROW) {
		return nil, false
	}
	start := p.cur.Start
	name := p.intern(p.cur)
	paramSpan := sp(p.cur)
	p.advance() // ident
	p.advance() // '=>'
	fn := &ast.FunctionExpr{Arrow: true, Params: []*ast.FuncParam{{Pattern: &ast.IdentPat{Base: ast.NewBase(paramSpan), Name: name}}}}
	if p.curIs(scanner.LBRACE) {
		fn.Body = p.parseBlock()
	} else {
		fn.ExprBody = p.ParseExpression(ASSIGN_PREC)
	}
	fn.Base = ast.NewBase(common.Span{Start: start, End: p.cur.Start})
	return fn, true
}

func (p *Parser) parseAsyncExpr() ast.Expr {
	p.advance() // 'async'
	if p.curIs(scanner.KEYWORD_FUNCTION) {
		fn := p.parseFunctionExpr().(*ast.FunctionExpr)
		fn.Async = true
		return fn
	}
	if e, ok := p.maybeSingleIdentArrow(); ok {
		e.(*ast.FunctionExpr).Async = true
		return e
	}
	e := p.parseParenOrArrow()
	if fn, ok := e.(*ast.FunctionExpr); ok {
		fn.Async = true
	}
	return e
}

func (p *Parser) parseFunctionExpr() ast.Expr {
	start := p.cur.Start
	p.advance() // 'function'
	fn := p.parseFunctionTail(true).(*ast.FunctionExpr)
	fn.Base = ast.NewBase(common.Span{Start: start, End: fn.Base.Span().End})
	return fn
}

// parseFunctionTail parses `[name](params)[: Ret] { body }`, shared by
// function expressions and object-literal method shorthand.
func (p *Parser) parseFunctionTail(allowName bool) ast.Expr {
	start := p.cur.Start
	fn := &ast.FunctionExpr{}
	if allowName && p.curIs(scanner.IDENT) {
		fn.Name = p.intern(p.cur)
		p.advance()
	}
	fn.TypeParams = p.maybeParseTypeParams()
	fn.Params = p.parseParamList()
	if p.curIs(scanner.COLON) {
		p.advance()
		fn.ReturnType = p.parseReturnTypeAnnotation()
	}
	fn.Body = p.parseBlock()
	fn.Base = ast.NewBase(common.Span{Start: start, End: p.cur.Start})
	return fn
}

func (p *Parser) parseParamList() []*ast.FuncParam {
	p.expect(scanner.LPAREN)
	var params []*ast.FuncParam
	for !p.curIs(scanner.RPAREN) && !p.curIs(scanner.EOF) {
		fp := &ast.FuncParam{}
		for p.curIs(scanner.KEYWORD_PUBLIC) || p.curIs(scanner.KEYWORD_PRIVATE) ||
			p.curIs(scanner.KEYWORD_PROTECTED) || p.curIs(scanner.KEYWORD_READONLY) {
			p.advance() // parameter-property modifiers (constructor shorthand)
		}
		if p.curIs(scanner.DOTDOTDOT) {
			fp.Rest = true
			p.advance()
		}
		fp.Pattern = p.parsePattern()
		if p.curIs(scanner.QUESTION) {
			fp.Optional = true
			p.advance()
		}
		if p.curIs(scanner.COLON) {
			p.advance()
			fp.Type = p.parseType()
		}
		if p.curIs(scanner.ASSIGN) {
			p.advance()
			fp.Default = p.ParseExpression(ASSIGN_PREC)
		}
		params = append(params, fp)
		if p.curIs(scanner.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(scanner.RPAREN)
	return params
}

// parsePattern parses a binding pattern: identifier, array, or object.
func (p *Parser) parsePattern() ast.Pat {
	switch {
	case p.curIs(scanner.LBRACKET):
		return p.parseArrayPattern()
	case p.curIs(scanner.LBRACE):
		return p.parseObjectPattern()
	default:
		tok := p.cur
		name := p.intern(tok)
		p.advance()
		return &ast.IdentPat{Base: ast.NewBase(sp(tok)), Name: name}
	}
}

func (p *Parser) parseArrayPattern() ast.Pat {
	start := p.cur.Start
	p.advance() // '['
	var elems []ast.Pat
	var rest ast.Pat
	for !p.curIs(scanner.RBRACKET) && !p.curIs(scanner.EOF) {
		if p.curIs(scanner.COMMA) {
			elems = append(elems, nil)
			p.advance()
			continue
		}
		if p.curIs(scanner.DOTDOTDOT) {
			p.advance()
			rest = p.parsePattern()
			break
		}
		elems = append(elems, p.parsePattern())
		if p.curIs(scanner.COMMA) {
			p.advance()
		}
	}
	end := p.cur.End
	p.expect(scanner.RBRACKET)
	return &ast.ArrayPat{Base: ast.NewBase(common.Span{Start: start, End: end}), Elems: elems, Rest: rest}
}

func (p *Parser) parseObjectPattern() ast.Pat {
	start := p.cur.Start
	p.advance() // '{'
	var props []ast.ObjectPatProp
	var rest ast.Pat
	for !p.curIs(scanner.RBRACE) && !p.curIs(scanner.EOF) {
		if p.curIs(scanner.DOTDOTDOT) {
			p.advance()
			rest = p.parsePattern()
			break
		}
		key := p.intern(p.cur)
		p.advance()
		var value ast.Pat
		if p.curIs(scanner.COLON) {
			p.advance()
			value = p.parsePattern()
		} else {
			value = &ast.IdentPat{Name: key}
		}
		var def ast.Expr
		if p.curIs(scanner.ASSIGN) {
			p.advance()
			def = p.ParseExpression(ASSIGN_PREC)
		}
		props = append(props, ast.ObjectPatProp{Key: key, Value: value, Default: def})
		if p.curIs(scanner.COMMA) {
			p.advance()
		}
	}
	end := p.cur.End
	p.expect(scanner.RBRACE)
	return &ast.ObjectPat{Base: ast.NewBase(common.Span{Start: start, End: end}), Props: props, Rest: rest}
}
