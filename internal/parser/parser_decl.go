package parser

import (
	"strings"

	"tsgo/internal/ast"
	"tsgo/internal/common"
	"tsgo/internal/scanner"
)

func (p *Parser) parseFuncDecl(async bool) ast.Stmt {
	start := p.cur.Start
	p.advance() // 'function'
	name := p.intern(p.cur)
	p.advance()
	typeParams := p.maybeParseTypeParams()
	params := p.parseParamList()
	var ret ast.TypeNode
	if p.curIs(scanner.COLON) {
		p.advance()
		ret = p.parseReturnTypeAnnotation()
	}
	var body *ast.BlockStmt
	if p.curIs(scanner.LBRACE) {
		body = p.parseBlock()
	} else {
		p.consumeSemi() // overload signature / ambient declaration, no body
	}
	end := p.cur.Start
	if body != nil {
		end = body.Span().End
	}
	return &ast.FuncDecl{
		Base: ast.NewBase(common.Span{Start: start, End: end}),
		Name: name, TypeParams: typeParams, Params: params, ReturnType: ret, Body: body, Async: async,
	}
}

func (p *Parser) parseClassDecl(abstract bool) ast.Stmt {
	start := p.cur.Start
	p.advance() // 'class'
	name := p.intern(p.cur)
	p.advance()
	typeParams := p.maybeParseTypeParams()
	var extends ast.TypeNode
	var implements []ast.TypeNode
	if p.curIs(scanner.KEYWORD_EXTENDS) {
		p.advance()
		extends = p.parseType()
	}
	if p.curIs(scanner.KEYWORD_IMPLEMENTS) {
		p.advance()
		for {
			implements = append(implements, p.parseType())
			if p.curIs(scanner.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(scanner.LBRACE)
	var fields []*ast.ClassField
	var methods []*ast.ClassMethod
	for !p.curIs(scanner.RBRACE) && !p.curIs(scanner.EOF) {
		if p.curIs(scanner.SEMICOLON) {
			p.advance()
			continue
		}
		mods := p.parseClassMemberModifiers()
		memberStart := p.cur.Start
		if p.curIs(scanner.KEYWORD_GET) && !p.peekIs(scanner.LPAREN) && !p.peekIs(scanner.ASSIGN) {
			p.advance()
			methods = append(methods, p.parseClassMethodTail("get", mods, memberStart))
			continue
		}
		if p.curIs(scanner.KEYWORD_SET) && !p.peekIs(scanner.LPAREN) && !p.peekIs(scanner.ASSIGN) {
			p.advance()
			methods = append(methods, p.parseClassMethodTail("set", mods, memberStart))
			continue
		}
		isPrivate := false
		var memberName common.Atom
		if p.curIs(scanner.HASH) {
			isPrivate = true
			p.advance()
		}
		memberName = p.intern(p.cur)
		isCtor := p.cur.Text == "constructor"
		p.advance()
		if p.curIs(scanner.QUESTION) {
			mods.Optional = true
			p.advance()
		}
		if p.curIs(scanner.LPAREN) || p.curIs(scanner.LT) {
			kind := "method"
			if isCtor {
				kind = "constructor"
			}
			methods = append(methods, p.parseClassMethodTailNamed(memberName, kind, mods, memberStart))
			continue
		}
		// field
		f := &ast.ClassField{Name: memberName, Private: isPrivate, Modifiers: mods}
		if p.curIs(scanner.COLON) {
			p.advance()
			f.Type = p.parseType()
		}
		if p.curIs(scanner.ASSIGN) {
			p.advance()
			f.Init = p.ParseExpression(ASSIGN_PREC)
		}
		f.Span = common.Span{Start: memberStart, End: p.cur.Start}
		p.consumeSemi()
		fields = append(fields, f)
	}
	end := p.cur.End
	p.expect(scanner.RBRACE)
	return &ast.ClassDecl{
		Base: ast.NewBase(common.Span{Start: start, End: end}),
		Name: name, TypeParams: typeParams, Extends: extends, Implements: implements,
		Fields: fields, Methods: methods, Abstract: abstract,
	}
}

func (p *Parser) parseClassMemberModifiers() ast.PropertyModifiers {
	var m ast.PropertyModifiers
	for {
		switch {
		case p.curIs(scanner.KEYWORD_STATIC):
			m.Static = true
		case p.curIs(scanner.KEYWORD_READONLY):
			m.Readonly = true
		case p.curIs(scanner.KEYWORD_PRIVATE):
			m.Private = true
		case p.curIs(scanner.KEYWORD_PROTECTED):
			m.Protected = true
		case p.curIs(scanner.KEYWORD_PUBLIC):
			m.Public = true
		case p.curIs(scanner.KEYWORD_ABSTRACT):
			m.Abstract = true
		default:
			return m
		}
		p.advance()
	}
}

func (p *Parser) parseClassMethodTail(kind string, mods ast.PropertyModifiers, start uint32) *ast.ClassMethod {
	name := p.intern(p.cur)
	p.advance()
	return p.parseClassMethodTailNamed(name, kind, mods, start)
}

func (p *Parser) parseClassMethodTailNamed(name common.Atom, kind string, mods ast.PropertyModifiers, start uint32) *ast.ClassMethod {
	fn := &ast.FunctionExpr{Name: name}
	fn.TypeParams = p.maybeParseTypeParams()
	fn.Params = p.parseParamList()
	if p.curIs(scanner.COLON) {
		p.advance()
		fn.ReturnType = p.parseReturnTypeAnnotation()
	}
	if p.curIs(scanner.LBRACE) {
		fn.Body = p.parseBlock()
	} else {
		p.consumeSemi() // abstract/overload method, no body
	}
	end := p.cur.Start
	if fn.Body != nil {
		end = fn.Body.Span().End
	}
	fn.Base = ast.NewBase(common.Span{Start: start, End: end})
	return &ast.ClassMethod{Name: name, Kind: kind, Modifiers: mods, Fn: fn, Span: common.Span{Start: start, End: end}}
}

func (p *Parser) parseInterfaceDecl() ast.Stmt {
	start := p.cur.Start
	p.advance() // 'interface'
	name := p.intern(p.cur)
	p.advance()
	typeParams := p.maybeParseTypeParams()
	var extends []ast.TypeNode
	if p.curIs(scanner.KEYWORD_EXTENDS) {
		p.advance()
		for {
			extends = append(extends, p.parseType())
			if p.curIs(scanner.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(scanner.LBRACE)
	var members []*ast.InterfaceMember
	for !p.curIs(scanner.RBRACE) && !p.curIs(scanner.EOF) {
		m := p.parseObjectMember()
		members = append(members, &ast.InterfaceMember{
			Name: m.Name, Optional: m.Optional, Readonly: m.Readonly, Kind: m.Kind, Type: m.Type,
		})
		if p.curIs(scanner.SEMICOLON) || p.curIs(scanner.COMMA) {
			p.advance()
		}
	}
	end := p.cur.End
	p.expect(scanner.RBRACE)
	return &ast.InterfaceDecl{
		Base: ast.NewBase(common.Span{Start: start, End: end}),
		Name: name, TypeParams: typeParams, Extends: extends, Members: members,
	}
}

func (p *Parser) parseTypeAliasDecl() ast.Stmt {
	start := p.cur.Start
	p.advance() // 'type'
	name := p.intern(p.cur)
	p.advance()
	typeParams := p.maybeParseTypeParams()
	p.expect(scanner.ASSIGN)
	t := p.parseType()
	end := p.cur.Start
	p.consumeSemi()
	return &ast.TypeAliasDecl{Base: ast.NewBase(common.Span{Start: start, End: end}), Name: name, TypeParams: typeParams, Type: t}
}

func (p *Parser) parseEnumDecl(isConst bool) ast.Stmt {
	start := p.cur.Start
	if p.curIs(scanner.KEYWORD_CONST) {
		isConst = true
		p.advance()
	}
	p.advance() // 'enum'
	name := p.intern(p.cur)
	p.advance()
	p.expect(scanner.LBRACE)
	var members []*ast.EnumMember
	for !p.curIs(scanner.RBRACE) && !p.curIs(scanner.EOF) {
		mName := p.intern(p.cur)
		p.advance()
		var init ast.Expr
		if p.curIs(scanner.ASSIGN) {
			p.advance()
			init = p.ParseExpression(ASSIGN_PREC)
		}
		members = append(members, &ast.EnumMember{Name: mName, Init: init})
		if p.curIs(scanner.COMMA) {
			p.advance()
		}
	}
	end := p.cur.End
	p.expect(scanner.RBRACE)
	return &ast.EnumDecl{Base: ast.NewBase(common.Span{Start: start, End: end}), Name: name, Const: isConst, Members: members}
}

func (p *Parser) parseNamespaceDecl() ast.Stmt {
	start := p.cur.Start
	p.advance() // 'namespace' | 'module'
	var name common.Atom
	if p.curIs(scanner.STRING) {
		name = p.intern(p.cur)
		p.advance()
	} else {
		nameBuf := p.intern(p.cur)
		p.advance()
		for p.curIs(scanner.DOT) {
			p.advance()
			nameBuf = p.atoms.Intern(p.atoms.Text(nameBuf) + "." + p.cur.Text)
			p.advance()
		}
		name = nameBuf
	}
	var body []ast.Stmt
	if p.curIs(scanner.LBRACE) {
		block := p.parseBlock()
		body = block.Statements
	} else {
		p.consumeSemi() // ambient module declaration with no body
	}
	end := p.cur.Start
	return &ast.NamespaceDecl{Base: ast.NewBase(common.Span{Start: start, End: end}), Name: name, Body: body}
}

func (p *Parser) parseAmbientDecl() ast.Stmt {
	start := p.cur.Start
	p.advance() // 'declare'
	var inner ast.Decl
	switch {
	case p.curIs(scanner.KEYWORD_FUNCTION):
		inner = p.asDecl(p.parseFuncDecl(false))
	case p.curIs(scanner.KEYWORD_CLASS):
		inner = p.asDecl(p.parseClassDecl(false))
	case p.curIs(scanner.KEYWORD_ABSTRACT) && p.peekIs(scanner.KEYWORD_CLASS):
		p.advance()
		inner = p.asDecl(p.parseClassDecl(true))
	case p.curIs(scanner.KEYWORD_INTERFACE):
		inner = p.asDecl(p.parseInterfaceDecl())
	case p.curIs(scanner.KEYWORD_TYPE):
		inner = p.asDecl(p.parseTypeAliasDecl())
	case p.curIs(scanner.KEYWORD_ENUM), p.curIs(scanner.KEYWORD_CONST) && p.peekIs(scanner.KEYWORD_ENUM):
		inner = p.asDecl(p.parseEnumDecl(false))
	case p.curIs(scanner.KEYWORD_NAMESPACE), p.curIs(scanner.KEYWORD_MODULE):
		inner = p.asDecl(p.parseNamespaceDecl())
	case p.curIs(scanner.KEYWORD_VAR), p.curIs(scanner.KEYWORD_LET), p.curIs(scanner.KEYWORD_CONST):
		inner = p.asDecl(p.parseVarDeclStatement())
	default:
		inner = p.asDecl(p.missingStmt("Declaration expected."))
	}
	end := inner.Span().End
	return &ast.AmbientDecl{Base: ast.NewBase(common.Span{Start: start, End: end}), Inner: inner}
}

// parseImportDecl models only the surface the Binder needs for cross-file
// ambient merging (spec.md §1: module resolution is an external
// collaborator); it does not resolve the module specifier.
func (p *Parser) parseImportDecl() ast.Stmt {
	start := p.cur.Start
	p.advance() // 'import'
	decl := &ast.ImportDecl{}
	if p.curIs(scanner.STRING) {
		decl.Module = strings.Trim(p.cur.Text, `"'`)
		p.advance()
		p.consumeSemi()
		decl.Base = ast.NewBase(common.Span{Start: start, End: p.cur.Start})
		return decl
	}
	if p.curIs(scanner.IDENT) {
		decl.Default = p.intern(p.cur)
		p.advance()
		if p.curIs(scanner.COMMA) {
			p.advance()
		}
	}
	if p.curIs(scanner.STAR) {
		p.advance()
		p.expect(scanner.KEYWORD_AS)
		decl.Star = p.intern(p.cur)
		p.advance()
	} else if p.curIs(scanner.LBRACE) {
		p.advance()
		for !p.curIs(scanner.RBRACE) && !p.curIs(scanner.EOF) {
			imported := p.intern(p.cur)
			p.advance()
			local := imported
			if p.curIs(scanner.KEYWORD_AS) {
				p.advance()
				local = p.intern(p.cur)
				p.advance()
			}
			decl.Bindings = append(decl.Bindings, ast.ImportBinding{Local: local, Imported: imported})
			if p.curIs(scanner.COMMA) {
				p.advance()
			}
		}
		p.expect(scanner.RBRACE)
	}
	if p.curIs(scanner.IDENT) && p.cur.Text == "from" {
		p.advance()
	}
	if p.curIs(scanner.STRING) {
		decl.Module = strings.Trim(p.cur.Text, `"'`)
		p.advance()
	}
	end := p.cur.Start
	p.consumeSemi()
	decl.Base = ast.NewBase(common.Span{Start: start, End: end})
	return decl
}

// parseExportDecl covers `export <decl>`, `export default <expr>`, and
// `export { a, b }`.
func (p *Parser) parseExportDecl() ast.Stmt {
	start := p.cur.Start
	p.advance() // 'export'
	ed := &ast.ExportDecl{}
	if p.curIs(scanner.KEYWORD_DEFAULT) {
		p.advance()
		if p.curHasPrefix() && !p.startsDecl() {
			ed.Default = p.ParseExpression(ASSIGN_PREC)
			p.consumeSemi()
		} else {
			ed.Decl = p.asDecl(p.parseStatement())
		}
		ed.Base = ast.NewBase(common.Span{Start: start, End: p.cur.Start})
		return ed
	}
	if p.curIs(scanner.LBRACE) {
		p.advance()
		for !p.curIs(scanner.RBRACE) && !p.curIs(scanner.EOF) {
			ed.Names = append(ed.Names, p.intern(p.cur))
			p.advance()
			if p.curIs(scanner.KEYWORD_AS) {
				p.advance()
				p.advance()
			}
			if p.curIs(scanner.COMMA) {
				p.advance()
			}
		}
		p.expect(scanner.RBRACE)
		if p.curIs(scanner.IDENT) && p.cur.Text == "from" {
			p.advance()
			p.advance() // module specifier string
		}
		p.consumeSemi()
		ed.Base = ast.NewBase(common.Span{Start: start, End: p.cur.Start})
		return ed
	}
	ed.Decl = p.asDecl(p.parseStatement())
	ed.Base = ast.NewBase(common.Span{Start: start, End: ed.Decl.Span().End})
	return ed
}

// asDecl coerces a parsed statement to a Decl, wrapping it in a
// MissingStmt placeholder if export was applied to something that
// isn't a declaration.
func (p *Parser) asDecl(s ast.Stmt) ast.Decl {
	if d, ok := s.(ast.Decl); ok {
		return d
	}
	return &ast.MissingStmt{Base: ast.NewBase(s.Span())}
}

// startsDecl reports whether the current token begins a declaration
// (used to disambiguate `export default <expr>` from `export default
// function/class ...`).
func (p *Parser) startsDecl() bool {
	switch {
	case p.curIs(scanner.KEYWORD_FUNCTION), p.curIs(scanner.KEYWORD_CLASS),
		p.curIs(scanner.KEYWORD_INTERFACE), p.curIs(scanner.KEYWORD_ABSTRACT):
		return true
	default:
		return false
	}
}
