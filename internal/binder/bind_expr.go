package binder

import "tsgo/internal/ast"

// bindExprFunctions descends into an expression tree looking for function
// expressions (arrow functions and `function` expressions), giving each one
// the same scope/parameter-binding/flow-graph treatment bindStatement gives
// a top-level FuncDecl or a class method (spec.md §4.4 behavior 4: every
// function-like container gets a CFG). bindStatement only ever dispatches
// on statement-shaped nodes; a function expression nested inside a
// variable initializer, a call argument, or an object/array literal would
// otherwise never be bound at all, leaving the Checker nothing to resolve
// parameters against or narrow flow through.
func (b *Binder) bindExprFunctions(scope *Scope, e ast.Expr, fb *FileBinding) {
	if e == nil {
		return
	}
	switch ex := e.(type) {
	case *ast.FunctionExpr:
		fnScope := newScope(ScopeFunction, scope)
		fb.Scopes[ex] = fnScope
		for _, tp := range ex.TypeParams {
			b.declare(fnScope, tp.Name, TypeParameter, ex)
		}
		b.bindParams(fnScope, ex.Params)
		if ex.Body != nil {
			fb.Flows[ex] = BuildFlowGraph(ex.Body)
			b.bindBlock(fnScope, ex.Body, fb)
			for _, st := range ex.Body.Statements {
				b.bindStmtExprFunctions(fnScope, st, fb)
			}
		} else if ex.ExprBody != nil {
			b.bindExprFunctions(fnScope, ex.ExprBody, fb)
		}
	case *ast.BinaryExpr:
		b.bindExprFunctions(scope, ex.Left, fb)
		b.bindExprFunctions(scope, ex.Right, fb)
	case *ast.LogicalExpr:
		b.bindExprFunctions(scope, ex.Left, fb)
		b.bindExprFunctions(scope, ex.Right, fb)
	case *ast.UnaryExpr:
		b.bindExprFunctions(scope, ex.Arg, fb)
	case *ast.AssignExpr:
		b.bindExprFunctions(scope, ex.Target, fb)
		b.bindExprFunctions(scope, ex.Value, fb)
	case *ast.ConditionalExpr:
		b.bindExprFunctions(scope, ex.Test, fb)
		b.bindExprFunctions(scope, ex.Then, fb)
		b.bindExprFunctions(scope, ex.Else, fb)
	case *ast.CallExpr:
		b.bindExprFunctions(scope, ex.Callee, fb)
		for _, a := range ex.Args {
			b.bindExprFunctions(scope, a, fb)
		}
	case *ast.NewExpr:
		b.bindExprFunctions(scope, ex.Callee, fb)
		for _, a := range ex.Args {
			b.bindExprFunctions(scope, a, fb)
		}
	case *ast.MemberExpr:
		b.bindExprFunctions(scope, ex.Object, fb)
		if ex.Computed {
			b.bindExprFunctions(scope, ex.Index, fb)
		}
	case *ast.ArrayLiteral:
		for _, el := range ex.Elems {
			b.bindExprFunctions(scope, el, fb)
		}
	case *ast.ObjectLiteral:
		for _, p := range ex.Props {
			b.bindExprFunctions(scope, p.Value, fb)
			b.bindExprFunctions(scope, p.Computed, fb)
		}
	case *ast.TemplateLiteral:
		for _, sub := range ex.Exprs {
			b.bindExprFunctions(scope, sub, fb)
		}
	case *ast.TypeAssertion:
		b.bindExprFunctions(scope, ex.Expr, fb)
	case *ast.NonNullExpr:
		b.bindExprFunctions(scope, ex.Expr, fb)
	case *ast.TypeOfExpr:
		b.bindExprFunctions(scope, ex.Expr, fb)
	case *ast.SpreadExpr:
		b.bindExprFunctions(scope, ex.Expr, fb)
	}
}

// bindStmtExprFunctions reaches the expression-bearing positions within a
// function body's own statements (a nested block's declarators, returns,
// conditions, ...) so a function expression several statements deep still
// gets bound. bindStatement already builds the enclosing scope chain for
// everything else; this only adds the expression-tree descent on top of
// the scope bindStatement produced, so it must run after bindStatement
// itself (see bindExprFunctions's *ast.FunctionExpr case and the
// bindStatement call sites below).
func (b *Binder) bindStmtExprFunctions(scope *Scope, stmt ast.Stmt, fb *FileBinding) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		for _, d := range s.Declarators {
			b.bindExprFunctions(scope, d.Init, fb)
		}
	case *ast.ExprStmt:
		b.bindExprFunctions(scope, s.Expr, fb)
	case *ast.ReturnStmt:
		b.bindExprFunctions(scope, s.Arg, fb)
	case *ast.ThrowStmt:
		b.bindExprFunctions(scope, s.Arg, fb)
	case *ast.IfStmt:
		b.bindExprFunctions(scope, s.Test, fb)
		b.bindStmtExprFunctions(scope, s.Then, fb)
		if s.Else != nil {
			b.bindStmtExprFunctions(scope, s.Else, fb)
		}
	case *ast.WhileStmt:
		b.bindExprFunctions(scope, s.Test, fb)
		b.bindStmtExprFunctions(scope, s.Body, fb)
	case *ast.ForStmt:
		forScope, ok := fb.Scopes[s]
		if !ok {
			forScope = scope
		}
		if s.Test != nil {
			b.bindExprFunctions(forScope, s.Test, fb)
		}
		if s.Update != nil {
			b.bindExprFunctions(forScope, s.Update, fb)
		}
		b.bindStmtExprFunctions(forScope, s.Body, fb)
	case *ast.SwitchStmt:
		swScope, ok := fb.Scopes[s]
		if !ok {
			swScope = scope
		}
		b.bindExprFunctions(swScope, s.Disc, fb)
		for _, cl := range s.Cases {
			if cl.Test != nil {
				b.bindExprFunctions(swScope, cl.Test, fb)
			}
			for _, inner := range cl.Body {
				b.bindStmtExprFunctions(swScope, inner, fb)
			}
		}
	case *ast.BlockStmt:
		blockScope, ok := fb.Scopes[s]
		if !ok {
			blockScope = scope
		}
		for _, inner := range s.Statements {
			b.bindStmtExprFunctions(blockScope, inner, fb)
		}
	case *ast.TryStmt:
		tryScope, ok := fb.Scopes[s.Block]
		if !ok {
			tryScope = scope
		}
		for _, inner := range s.Block.Statements {
			b.bindStmtExprFunctions(tryScope, inner, fb)
		}
		if s.Catch != nil {
			catchScope, ok := fb.Scopes[s.Catch.Body]
			if !ok {
				catchScope = scope
			}
			for _, inner := range s.Catch.Body.Statements {
				b.bindStmtExprFunctions(catchScope, inner, fb)
			}
		}
		if s.Finally != nil {
			finallyScope, ok := fb.Scopes[s.Finally]
			if !ok {
				finallyScope = scope
			}
			for _, inner := range s.Finally.Statements {
				b.bindStmtExprFunctions(finallyScope, inner, fb)
			}
		}
	case *ast.LabeledStmt:
		b.bindStmtExprFunctions(scope, s.Body, fb)
	case *ast.ClassDecl:
		for _, f := range s.Fields {
			b.bindExprFunctions(scope, f.Init, fb)
		}
	}
}
