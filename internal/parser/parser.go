// Package parser turns a scanner.Token stream into an *ast.File, following
// AILANG's internal/parser package: a core Parser struct plus
// Pratt-style prefix/infix function tables for expressions (parser.go),
// split across parser_expr.go/parser_stmt.go/parser_decl.go/parser_type.go
// the same way AILANG splits parser_expr.go/parser_decl.go/
// parser_type.go.
package parser

import (
	"tsgo/internal/ast"
	"tsgo/internal/common"
	"tsgo/internal/diag"
	"tsgo/internal/scanner"
)

// Precedence levels for the expression Pratt parser, following TypeScript/
// JavaScript operator precedence (loosely the same ladder AILANG's
// parser.go uses, extended with TS-specific operators).
const (
	LOWEST int = iota
	COMMA_PREC
	ASSIGN_PREC
	COND_PREC    // ?:
	NULLISH_PREC // ??
	LOGOR
	LOGAND
	BITOR
	BITXOR
	BITAND
	EQUALITY // == != === !==
	RELATIONAL // < > <= >= instanceof in as
	SHIFT
	ADDITIVE
	MULTIPLICATIVE
	EXPONENT
	UNARY
	POSTFIX // ++ -- !
	CALL_PREC
	MEMBER_PREC
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parser holds scanning state, the two-token lookahead buffer, and the
// Pratt tables. It owns the diagnostic bag for the file being parsed.
type Parser struct {
	sc   *scanner.Scanner
	atoms *common.AtomTable
	bag  *diag.Bag
	opts *common.CompilerOptions

	cur  scanner.Token
	peek scanner.Token

	prefixFns map[scanner.Kind]prefixParseFn
	infixFns  map[scanner.Kind]infixParseFn
	precedence map[scanner.Kind]int

	// inType is not set or read by any parsing function; whether "<"
	// starts a generic argument list is decided by speculative parsing
	// (mark/rollback) instead.
	inType int

	// checkpoints is the speculative-parse stack (spec.md §4.3): each
	// entry snapshots the scanner cursor and the two lookahead tokens.
	checkpoints []checkpoint
}

type checkpoint struct {
	scanPos int
	cur     scanner.Token
	peek    scanner.Token
	nodeIDAtMark ast.NodeID
}

// New creates a Parser over src, using atoms for identifier interning and
// bag to collect parse diagnostics (spec.md §4.3).
func New(src string, atoms *common.AtomTable, bag *diag.Bag, opts *common.CompilerOptions) *Parser {
	if opts == nil {
		opts = common.Default()
	}
	p := &Parser{
		sc:    scanner.New(src),
		atoms: atoms,
		bag:   bag,
		opts:  opts,
	}
	p.prefixFns = make(map[scanner.Kind]prefixParseFn)
	p.infixFns = make(map[scanner.Kind]infixParseFn)
	p.precedence = make(map[scanner.Kind]int)
	p.registerExprParsers()

	p.advance()
	p.advance()
	return p
}

func (p *Parser) registerPrefix(k scanner.Kind, fn prefixParseFn) { p.prefixFns[k] = fn }
func (p *Parser) registerInfix(k scanner.Kind, prec int, fn infixParseFn) {
	p.infixFns[k] = fn
	p.precedence[k] = prec
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := p.precedence[p.peek.Kind]; ok {
		return prec
	}
	return LOWEST
}
func (p *Parser) curPrecedence() int {
	if prec, ok := p.precedence[p.cur.Kind]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.sc.NextToken()
}

func (p *Parser) curIs(k scanner.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k scanner.Kind) bool { return p.peek.Kind == k }

func (p *Parser) expect(k scanner.Kind) bool {
	if p.curIs(k) {
		p.advance()
		return true
	}
	p.errExpected(k)
	return false
}

func (p *Parser) errExpected(k scanner.Kind) {
	p.bag.Add(common.Span{Start: p.cur.Start, End: p.cur.End}, diag.TS1005, diag.CategoryError,
		"'%s' expected.", k)
}

func (p *Parser) errHere(code diag.Code, format string, args ...any) {
	p.bag.Add(common.Span{Start: p.cur.Start, End: p.cur.End}, code, diag.CategoryError, format, args...)
}

func (p *Parser) intern(tok scanner.Token) common.Atom { return p.atoms.Intern(tok.Text) }

func (p *Parser) span(start uint32) common.Span {
	return common.Span{Start: start, End: p.cur.Start}
}

// mark begins a speculative parse: a checkpoint the parser can roll back
// to if an ambiguous construct (arrow-function-vs-parenthesized-expr,
// type-assertion-vs-generic-call, JSX-vs-`<T>expr`) turns out wrong
// (spec.md §4.3).
func (p *Parser) mark() checkpoint {
	cp := checkpoint{scanPos: p.sc.Mark(), cur: p.cur, peek: p.peek}
	p.checkpoints = append(p.checkpoints, cp)
	return cp
}

// commit discards the most recent checkpoint: the speculative parse
// succeeded, keep its tokens/nodes.
func (p *Parser) commit() {
	if len(p.checkpoints) > 0 {
		p.checkpoints = p.checkpoints[:len(p.checkpoints)-1]
	}
}

// rollback restores scanner/token state to cp, discarding any tokens
// consumed since. AST nodes already allocated during the abandoned
// attempt are simply unreferenced garbage -- acceptable because Go is
// garbage collected and AILANG's own "discard tokens and nodes
// appended since the checkpoint" contract (spec.md §4.3) only requires
// that nothing abandoned be *reachable* from the final tree.
func (p *Parser) rollback(cp checkpoint) {
	p.sc.Reset(cp.scanPos)
	p.cur = cp.cur
	p.peek = cp.peek
	if len(p.checkpoints) > 0 {
		p.checkpoints = p.checkpoints[:len(p.checkpoints)-1]
	}
}

// ParseFile parses a complete source file into an *ast.File, performing
// statement-boundary recovery on unexpected tokens (spec.md §4.3).
func (p *Parser) ParseFile(path string) *ast.File {
	f := &ast.File{Path: path}
	for !p.curIs(scanner.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			f.Statements = append(f.Statements, stmt)
		}
	}
	return f
}

// recoverToStatementBoundary resynchronizes after a parse error by
// skipping tokens until a statement-boundary token (';', '}', or EOF),
// mirroring spec.md §4.3's recovery contract.
func (p *Parser) recoverToStatementBoundary() {
	for !p.curIs(scanner.SEMICOLON) && !p.curIs(scanner.RBRACE) && !p.curIs(scanner.EOF) {
		p.advance()
	}
	if p.curIs(scanner.SEMICOLON) {
		p.advance()
	}
}

// missingStmt records a parse error and returns a MissingStmt placeholder,
// then resynchronizes (spec.md §4.3).
func (p *Parser) missingStmt(format string, args ...any) ast.Stmt {
	start := p.cur.Start
	p.errHere(diag.TS1128, format, args...)
	p.recoverToStatementBoundary()
	return &ast.MissingStmt{Base: ast.NewBase(common.Span{Start: start, End: start})}
}
