package parser

import (
	"tsgo/internal/ast"
	"tsgo/internal/common"
	"tsgo/internal/scanner"
)

// parseStatement dispatches on the current token to the right statement
// or declaration parser, following AILANG's parser_decl.go top-level
// dispatch shape but over TypeScript's statement grammar.
func (p *Parser) parseStatement() ast.Stmt {
	switch {
	case p.curIs(scanner.LBRACE):
		return p.parseBlock()
	case p.curIs(scanner.KEYWORD_VAR), p.curIs(scanner.KEYWORD_LET), p.curIs(scanner.KEYWORD_CONST):
		return p.parseVarDeclStatement()
	case p.curIs(scanner.KEYWORD_FUNCTION):
		return p.parseFuncDecl(false)
	case p.curIs(scanner.KEYWORD_ASYNC) && p.peekIs(scanner.KEYWORD_FUNCTION):
		p.advance()
		return p.parseFuncDecl(true)
	case p.curIs(scanner.KEYWORD_CLASS):
		return p.parseClassDecl(false)
	case p.curIs(scanner.KEYWORD_INTERFACE):
		return p.parseInterfaceDecl()
	case p.curIs(scanner.KEYWORD_TYPE) && p.peekIs(scanner.IDENT):
		return p.parseTypeAliasDecl()
	case p.curIs(scanner.KEYWORD_ENUM):
		return p.parseEnumDecl(false)
	case p.curIs(scanner.KEYWORD_NAMESPACE), p.curIs(scanner.KEYWORD_MODULE):
		return p.parseNamespaceDecl()
	case p.curIs(scanner.KEYWORD_DECLARE):
		return p.parseAmbientDecl()
	case p.curIs(scanner.KEYWORD_IMPORT):
		return p.parseImportDecl()
	case p.curIs(scanner.KEYWORD_EXPORT):
		return p.parseExportDecl()
	case p.curIs(scanner.KEYWORD_IF):
		return p.parseIfStmt()
	case p.curIs(scanner.KEYWORD_WHILE):
		return p.parseWhileStmt()
	case p.curIs(scanner.KEYWORD_FOR):
		return p.parseForStmt()
	case p.curIs(scanner.KEYWORD_RETURN):
		return p.parseReturnStmt()
	case p.curIs(scanner.KEYWORD_BREAK):
		return p.parseBreakStmt()
	case p.curIs(scanner.KEYWORD_CONTINUE):
		return p.parseContinueStmt()
	case p.curIs(scanner.KEYWORD_SWITCH):
		return p.parseSwitchStmt()
	case p.curIs(scanner.KEYWORD_TRY):
		return p.parseTryStmt()
	case p.curIs(scanner.KEYWORD_THROW):
		return p.parseThrowStmt()
	case p.curIs(scanner.SEMICOLON):
		p.advance()
		return nil
	case p.curIs(scanner.IDENT) && p.peekIs(scanner.COLON):
		return p.parseLabeledStmt()
	default:
		return p.parseExprOrMissingStmt()
	}
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.cur.Start
	p.expect(scanner.LBRACE)
	var stmts []ast.Stmt
	for !p.curIs(scanner.RBRACE) && !p.curIs(scanner.EOF) {
		s := p.parseStatement()
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	end := p.cur.End
	p.expect(scanner.RBRACE)
	return &ast.BlockStmt{Base: ast.NewBase(common.Span{Start: start, End: end}), Statements: stmts}
}

func (p *Parser) consumeSemi() {
	if p.curIs(scanner.SEMICOLON) {
		p.advance()
	}
}

func (p *Parser) parseExprOrMissingStmt() ast.Stmt {
	if !p.curHasPrefix() {
		return p.missingStmt("Statement expected.")
	}
	start := p.cur.Start
	e := p.ParseExpression(LOWEST)
	end := p.cur.Start
	p.consumeSemi()
	return &ast.ExprStmt{Base: ast.NewBase(common.Span{Start: start, End: end}), Expr: e}
}

func (p *Parser) curHasPrefix() bool {
	_, ok := p.prefixFns[p.cur.Kind]
	return ok
}

func (p *Parser) parseVarDeclStatement() ast.Stmt {
	start := p.cur.Start
	kind := ast.VarVar
	switch p.cur.Kind {
	case scanner.KEYWORD_LET:
		kind = ast.VarLet
	case scanner.KEYWORD_CONST:
		kind = ast.VarConst
	}
	p.advance()
	var decls []*ast.VarDeclarator
	for {
		pat := p.parsePattern()
		if ip, ok := pat.(*ast.IdentPat); ok && p.curIs(scanner.COLON) {
			p.advance()
			ip.Type = p.parseType()
		}
		var init ast.Expr
		if p.curIs(scanner.ASSIGN) {
			p.advance()
			init = p.ParseExpression(ASSIGN_PREC)
		}
		decls = append(decls, &ast.VarDeclarator{Pattern: pat, Init: init})
		if p.curIs(scanner.COMMA) {
			p.advance()
			continue
		}
		break
	}
	end := p.cur.Start
	p.consumeSemi()
	return &ast.VarDecl{Base: ast.NewBase(common.Span{Start: start, End: end}), Kind: kind, Declarators: decls}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.cur.Start
	p.advance() // 'if'
	p.expect(scanner.LPAREN)
	test := p.ParseExpression(LOWEST)
	p.expect(scanner.RPAREN)
	then := p.parseStatement()
	var els ast.Stmt
	if p.curIs(scanner.KEYWORD_ELSE) {
		p.advance()
		els = p.parseStatement()
	}
	end := p.cur.Start
	if then != nil {
		end = then.Span().End
	}
	if els != nil {
		end = els.Span().End
	}
	return &ast.IfStmt{Base: ast.NewBase(common.Span{Start: start, End: end}), Test: test, Then: then, Else: els}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.cur.Start
	p.advance() // 'while'
	p.expect(scanner.LPAREN)
	test := p.ParseExpression(LOWEST)
	p.expect(scanner.RPAREN)
	body := p.parseStatement()
	end := start
	if body != nil {
		end = body.Span().End
	}
	return &ast.WhileStmt{Base: ast.NewBase(common.Span{Start: start, End: end}), Test: test, Body: body}
}

// parseForStmt parses `for (init; test; update)` as well as `for (x in o)`
// / `for (x of it)`. The parser only records the loop shape; neither the
// Binder nor Lowering desugars for-in/of or models the iteration protocol.
func (p *Parser) parseForStmt() ast.Stmt {
	start := p.cur.Start
	p.advance() // 'for'
	p.expect(scanner.LPAREN)

	var init ast.Stmt
	if !p.curIs(scanner.SEMICOLON) {
		if p.curIs(scanner.KEYWORD_VAR) || p.curIs(scanner.KEYWORD_LET) || p.curIs(scanner.KEYWORD_CONST) {
			init = p.parseForHeadVarDecl()
		} else {
			e := p.ParseExpression(LOWEST)
			init = &ast.ExprStmt{Base: ast.NewBase(e.Span()), Expr: e}
		}
	}
	if p.curIs(scanner.KEYWORD_IN) || p.curIs(scanner.KEYWORD_OF) {
		p.advance()
		iter := p.ParseExpression(LOWEST)
		p.expect(scanner.RPAREN)
		body := p.parseStatement()
		end := start
		if body != nil {
			end = body.Span().End
		}
		// Represented as a ForStmt with Test holding the iterable and no
		// Update; later layers walk it like a C-style loop without a
		// separate for-in/of case.
		return &ast.ForStmt{Base: ast.NewBase(common.Span{Start: start, End: end}), Init: init, Test: iter, Body: body}
	}

	p.expect(scanner.SEMICOLON)
	var test ast.Expr
	if !p.curIs(scanner.SEMICOLON) {
		test = p.ParseExpression(LOWEST)
	}
	p.expect(scanner.SEMICOLON)
	var update ast.Expr
	if !p.curIs(scanner.RPAREN) {
		update = p.ParseExpression(LOWEST)
	}
	p.expect(scanner.RPAREN)
	body := p.parseStatement()
	end := start
	if body != nil {
		end = body.Span().End
	}
	return &ast.ForStmt{Base: ast.NewBase(common.Span{Start: start, End: end}), Init: init, Test: test, Update: update, Body: body}
}

func (p *Parser) parseForHeadVarDecl() ast.Stmt {
	start := p.cur.Start
	kind := ast.VarVar
	switch p.cur.Kind {
	case scanner.KEYWORD_LET:
		kind = ast.VarLet
	case scanner.KEYWORD_CONST:
		kind = ast.VarConst
	}
	p.advance()
	pat := p.parsePattern()
	if ip, ok := pat.(*ast.IdentPat); ok && p.curIs(scanner.COLON) {
		p.advance()
		ip.Type = p.parseType()
	}
	var init ast.Expr
	if p.curIs(scanner.ASSIGN) {
		p.advance()
		init = p.ParseExpression(ASSIGN_PREC)
	}
	return &ast.VarDecl{Base: ast.NewBase(common.Span{Start: start, End: p.cur.Start}), Kind: kind, Declarators: []*ast.VarDeclarator{{Pattern: pat, Init: init}}}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.cur.Start
	p.advance() // 'return'
	var arg ast.Expr
	if !p.curIs(scanner.SEMICOLON) && !p.curIs(scanner.RBRACE) && !p.curIs(scanner.EOF) {
		arg = p.ParseExpression(LOWEST)
	}
	end := p.cur.Start
	p.consumeSemi()
	return &ast.ReturnStmt{Base: ast.NewBase(common.Span{Start: start, End: end}), Arg: arg}
}

func (p *Parser) parseBreakStmt() ast.Stmt {
	start := p.cur.Start
	p.advance()
	var label common.Atom
	if p.curIs(scanner.IDENT) {
		label = p.intern(p.cur)
		p.advance()
	}
	end := p.cur.Start
	p.consumeSemi()
	return &ast.BreakStmt{Base: ast.NewBase(common.Span{Start: start, End: end}), Label: label}
}

func (p *Parser) parseContinueStmt() ast.Stmt {
	start := p.cur.Start
	p.advance()
	var label common.Atom
	if p.curIs(scanner.IDENT) {
		label = p.intern(p.cur)
		p.advance()
	}
	end := p.cur.Start
	p.consumeSemi()
	return &ast.ContinueStmt{Base: ast.NewBase(common.Span{Start: start, End: end}), Label: label}
}

func (p *Parser) parseLabeledStmt() ast.Stmt {
	start := p.cur.Start
	label := p.intern(p.cur)
	p.advance()
	p.advance() // ':'
	body := p.parseStatement()
	end := start
	if body != nil {
		end = body.Span().End
	}
	return &ast.LabeledStmt{Base: ast.NewBase(common.Span{Start: start, End: end}), Label: label, Body: body}
}

func (p *Parser) parseSwitchStmt() ast.Stmt {
	start := p.cur.Start
	p.advance() // 'switch'
	p.expect(scanner.LPAREN)
	disc := p.ParseExpression(LOWEST)
	p.expect(scanner.RPAREN)
	p.expect(scanner.LBRACE)
	var cases []*ast.SwitchCase
	for !p.curIs(scanner.RBRACE) && !p.curIs(scanner.EOF) {
		sc := &ast.SwitchCase{}
		if p.curIs(scanner.KEYWORD_CASE) {
			p.advance()
			sc.Test = p.ParseExpression(LOWEST)
		} else {
			p.expect(scanner.KEYWORD_DEFAULT)
		}
		p.expect(scanner.COLON)
		for !p.curIs(scanner.KEYWORD_CASE) && !p.curIs(scanner.KEYWORD_DEFAULT) &&
			!p.curIs(scanner.RBRACE) && !p.curIs(scanner.EOF) {
			s := p.parseStatement()
			if s != nil {
				sc.Body = append(sc.Body, s)
			}
		}
		cases = append(cases, sc)
	}
	end := p.cur.End
	p.expect(scanner.RBRACE)
	return &ast.SwitchStmt{Base: ast.NewBase(common.Span{Start: start, End: end}), Disc: disc, Cases: cases}
}

func (p *Parser) parseTryStmt() ast.Stmt {
	start := p.cur.Start
	p.advance() // 'try'
	block := p.parseBlock()
	var catch *ast.CatchClause
	if p.curIs(scanner.KEYWORD_CATCH) {
		p.advance()
		cc := &ast.CatchClause{}
		if p.curIs(scanner.LPAREN) {
			p.advance()
			cc.Param = p.parsePattern()
			if p.curIs(scanner.COLON) {
				p.advance()
				cc.Type = p.parseType()
			}
			p.expect(scanner.RPAREN)
		}
		cc.Body = p.parseBlock()
		catch = cc
	}
	var fin *ast.BlockStmt
	if p.curIs(scanner.KEYWORD_FINALLY) {
		p.advance()
		fin = p.parseBlock()
	}
	end := block.Span().End
	if catch != nil {
		end = catch.Body.Span().End
	}
	if fin != nil {
		end = fin.Span().End
	}
	return &ast.TryStmt{Base: ast.NewBase(common.Span{Start: start, End: end}), Block: block, Catch: catch, Finally: fin}
}

func (p *Parser) parseThrowStmt() ast.Stmt {
	start := p.cur.Start
	p.advance() // 'throw'
	arg := p.ParseExpression(LOWEST)
	end := p.cur.Start
	p.consumeSemi()
	return &ast.ThrowStmt{Base: ast.NewBase(common.Span{Start: start, End: end}), Arg: arg}
}
