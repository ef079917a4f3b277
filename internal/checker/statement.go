package checker

import (
	"tsgo/internal/ast"
	"tsgo/internal/diag"
	"tsgo/internal/solver"
)

// checkStatement dispatches on every ast.Stmt kind the parser produces
// (spec.md §4.6: "for each AST node kind it emits the right calls into the
// Solver"). Declarations that only introduce type-space symbols (interface,
// type alias, enum) need no further checking here -- Lowering already
// computed their TypeId, and Binder already validated merge conflicts -- so
// this dispatch is a no-op for those cases. A namespace's body statements
// are checked like any other block.
func (c *Checker) checkStatement(stmt ast.Stmt, ctx *CheckerContext) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		c.checkVarDecl(s, ctx)
	case *ast.FuncDecl:
		c.checkFuncDecl(s, ctx)
	case *ast.ClassDecl:
		c.checkClassDecl(s, ctx)
	case *ast.ExprStmt:
		c.typeOfExpr(s.Expr, ctx, solver.InvalidType)
	case *ast.BlockStmt:
		inner := c.childScope(ctx, s)
		for _, st := range s.Statements {
			c.checkStatement(st, inner)
		}
	case *ast.IfStmt:
		c.typeOfExpr(s.Test, ctx, solver.InvalidType)
		c.checkStatement(s.Then, ctx)
		if s.Else != nil {
			c.checkStatement(s.Else, ctx)
		}
	case *ast.WhileStmt:
		c.typeOfExpr(s.Test, ctx, solver.InvalidType)
		c.checkStatement(s.Body, ctx)
	case *ast.ForStmt:
		inner := c.childScope(ctx, s)
		if s.Init != nil {
			c.checkStatement(s.Init, inner)
		}
		if s.Test != nil {
			c.typeOfExpr(s.Test, inner, solver.InvalidType)
		}
		if s.Update != nil {
			c.typeOfExpr(s.Update, inner, solver.InvalidType)
		}
		c.checkStatement(s.Body, inner)
	case *ast.ReturnStmt:
		c.checkReturn(s, ctx)
	case *ast.ThrowStmt:
		c.typeOfExpr(s.Arg, ctx, solver.InvalidType)
	case *ast.SwitchStmt:
		c.checkSwitch(s, ctx)
	case *ast.TryStmt:
		c.checkTry(s, ctx)
	case *ast.LabeledStmt:
		c.checkStatement(s.Body, ctx)
	case *ast.NamespaceDecl:
		inner := c.childScope(ctx, s)
		for _, st := range s.Body {
			c.checkStatement(st, inner)
		}
	case *ast.AmbientDecl:
		c.checkStatement(s.Inner, ctx)
	case *ast.ExportDecl:
		if s.Decl != nil {
			c.checkStatement(s.Decl, ctx)
		}
		if s.Default != nil {
			c.typeOfExpr(s.Default, ctx, solver.InvalidType)
		}
	case *ast.InterfaceDecl, *ast.TypeAliasDecl, *ast.EnumDecl, *ast.ImportDecl,
		*ast.BreakStmt, *ast.ContinueStmt, *ast.MissingStmt:
		// No further checking: type-space declarations are fully realized
		// by Lowering, imports are a value of unchecked external shape
		// (module resolution depth is out of scope), and break/continue
		// carry no type information.
	}
}

// childScope looks up the Scope the Binder built for a scope-introducing
// node, falling back to ctx's current scope if somehow absent (never
// happens for a node the Binder actually walked, but keeps the Checker
// total over any AST rather than panicking on a mismatch).
func (c *Checker) childScope(ctx *CheckerContext, node ast.Node) *CheckerContext {
	scope, ok := c.fb.Scopes[node]
	if !ok {
		scope = ctx.scope
	}
	next := *ctx
	next.scope = scope
	return &next
}

func (c *Checker) checkVarDecl(s *ast.VarDecl, ctx *CheckerContext) {
	for _, d := range s.Declarators {
		ip, ok := d.Pattern.(*ast.IdentPat)
		if !ok {
			if d.Init != nil {
				c.typeOfExpr(d.Init, ctx, solver.InvalidType)
			}
			continue
		}
		var declared solver.TypeId = solver.InvalidType
		if ip.Type != nil {
			declared = c.low.LowerType(ip.Type, ctx.scope)
		}
		if d.Init == nil {
			continue
		}
		initTy := c.typeOfExpr(d.Init, ctx, declared)
		if declared != solver.InvalidType {
			c.checkAssignable(d.Init, initTy, declared, d.Init.Span(), diag.TS2322)
		}
	}
}

func (c *Checker) checkFuncDecl(s *ast.FuncDecl, ctx *CheckerContext) {
	if s.Body == nil {
		return
	}
	inner := &CheckerContext{
		scope:      c.fb.Scopes[s],
		flow:       c.fb.Flows[s],
		thisType:   solver.InvalidType,
		funcReturn: solver.InvalidType,
	}
	if s.ReturnType != nil {
		inner.funcReturn = c.low.LowerType(s.ReturnType, inner.scope)
	}
	c.checkParams(s.Params, inner)
	for _, st := range s.Body.Statements {
		c.checkStatement(st, inner)
	}
}

func (c *Checker) checkParams(params []*ast.FuncParam, ctx *CheckerContext) {
	for _, p := range params {
		ip, ok := p.Pattern.(*ast.IdentPat)
		if !ok || ip.Type == nil || p.Default == nil {
			continue
		}
		declared := c.low.LowerType(ip.Type, ctx.scope)
		defTy := c.typeOfExpr(p.Default, ctx, declared)
		c.checkAssignable(p.Default, defTy, declared, p.Default.Span(), diag.TS2322)
	}
}

func (c *Checker) checkClassDecl(s *ast.ClassDecl, ctx *CheckerContext) {
	sym, ok := ctx.scope.Resolve(s.Name)
	if !ok {
		return
	}
	instanceTy := c.typeOfSymbol(sym)
	classScope, ok := c.fb.Scopes[s]
	if !ok {
		classScope = ctx.scope
	}

	for _, f := range s.Fields {
		if f.Init == nil {
			continue
		}
		fieldCtx := &CheckerContext{scope: classScope, thisType: instanceTy, funcReturn: solver.InvalidType}
		initTy := c.typeOfExpr(f.Init, fieldCtx, solver.InvalidType)
		if f.Type != nil {
			declared := c.low.LowerType(f.Type, classScope)
			c.checkAssignable(f.Init, initTy, declared, f.Init.Span(), diag.TS2322)
		}
	}

	for _, m := range s.Methods {
		if m.Fn.Body == nil {
			continue
		}
		methodScope, ok := c.fb.Scopes[m.Fn]
		if !ok {
			methodScope = classScope
		}
		methodCtx := &CheckerContext{
			scope:      methodScope,
			flow:       c.fb.Flows[m.Fn],
			thisType:   instanceTy,
			funcReturn: solver.InvalidType,
		}
		if m.Fn.ReturnType != nil && m.Kind != "constructor" {
			methodCtx.funcReturn = c.low.LowerType(m.Fn.ReturnType, methodScope)
		}
		c.checkParams(m.Fn.Params, methodCtx)
		for _, st := range m.Fn.Body.Statements {
			c.checkStatement(st, methodCtx)
		}
	}
}

func (c *Checker) checkReturn(s *ast.ReturnStmt, ctx *CheckerContext) {
	if s.Arg == nil {
		return
	}
	argTy := c.typeOfExpr(s.Arg, ctx, ctx.funcReturn)
	if ctx.funcReturn != solver.InvalidType {
		c.checkAssignable(s.Arg, argTy, ctx.funcReturn, s.Arg.Span(), diag.TS2322)
	}
}

func (c *Checker) checkSwitch(s *ast.SwitchStmt, ctx *CheckerContext) {
	c.typeOfExpr(s.Disc, ctx, solver.InvalidType)
	inner := c.childScope(ctx, s)
	for _, cl := range s.Cases {
		if cl.Test != nil {
			c.typeOfExpr(cl.Test, inner, solver.InvalidType)
		}
		for _, st := range cl.Body {
			c.checkStatement(st, inner)
		}
	}
}

func (c *Checker) checkTry(s *ast.TryStmt, ctx *CheckerContext) {
	tryCtx := c.childScope(ctx, s.Block)
	for _, st := range s.Block.Statements {
		c.checkStatement(st, tryCtx)
	}
	if s.Catch != nil {
		// The catch binding is implicitly `any`/`unknown` (its declared
		// type, if present, is already validated by the parser's grammar
		// restriction); nothing further to check on the binding itself.
		catchCtx := c.childScope(ctx, s.Catch.Body)
		for _, st := range s.Catch.Body.Statements {
			c.checkStatement(st, catchCtx)
		}
	}
	if s.Finally != nil {
		finallyCtx := c.childScope(ctx, s.Finally)
		for _, st := range s.Finally.Statements {
			c.checkStatement(st, finallyCtx)
		}
	}
}
