package checker

import (
	"tsgo/internal/ast"
	"tsgo/internal/binder"
	"tsgo/internal/diag"
	"tsgo/internal/solver"
)

// typeOfExpr computes e's TypeId and records any diagnostic its own shape
// requires, honoring contextual typing where spec.md §4.6 calls for it
// (object/array literals, function expressions, return arguments): expected
// is the type context propagating in, or solver.InvalidType when nothing is
// propagating (a bare expression statement, a call argument -- argument
// contextual typing is this checker's one documented gap, see typeOfCall).
func (c *Checker) typeOfExpr(e ast.Expr, ctx *CheckerContext, expected solver.TypeId) solver.TypeId {
	switch ex := e.(type) {
	case *ast.Ident:
		return c.typeOfIdent(ex, ctx)
	case *ast.Literal:
		return c.low.LowerLiteral(ex.Kind, ex.Raw)
	case *ast.TemplateLiteral:
		for _, sub := range ex.Exprs {
			c.typeOfExpr(sub, ctx, solver.InvalidType)
		}
		return c.in.String()
	case *ast.BinaryExpr:
		return c.typeOfBinary(ex, ctx)
	case *ast.LogicalExpr:
		return c.typeOfLogical(ex, ctx, expected)
	case *ast.UnaryExpr:
		return c.typeOfUnary(ex, ctx)
	case *ast.AssignExpr:
		return c.typeOfAssign(ex, ctx)
	case *ast.ConditionalExpr:
		c.typeOfExpr(ex.Test, ctx, solver.InvalidType)
		t1 := c.typeOfExpr(ex.Then, ctx, expected)
		t2 := c.typeOfExpr(ex.Else, ctx, expected)
		return c.in.MakeUnion([]solver.TypeId{t1, t2})
	case *ast.CallExpr:
		return c.typeOfCall(ex, ctx)
	case *ast.NewExpr:
		return c.typeOfNew(ex, ctx)
	case *ast.MemberExpr:
		return c.typeOfMember(ex, ctx)
	case *ast.PrivateName:
		return c.in.Any() // only meaningful as `#x in obj`'s LHS; see typeOfBinary.
	case *ast.ArrayLiteral:
		return c.typeOfArrayLiteral(ex, ctx, expected)
	case *ast.ObjectLiteral:
		return c.typeOfObjectLiteral(ex, ctx, expected)
	case *ast.FunctionExpr:
		return c.typeOfFunctionExpr(ex, ctx)
	case *ast.TypeAssertion:
		t := c.low.LowerType(ex.Type, ctx.scope)
		c.typeOfExpr(ex.Expr, ctx, t)
		return t
	case *ast.NonNullExpr:
		return c.stripNullish(c.typeOfExpr(ex.Expr, ctx, expected))
	case *ast.TypeOfExpr:
		c.typeOfExpr(ex.Expr, ctx, solver.InvalidType)
		return c.in.String()
	case *ast.SpreadExpr:
		return c.typeOfExpr(ex.Expr, ctx, expected)
	}
	return c.in.Any()
}

func (c *Checker) typeOfIdent(e *ast.Ident, ctx *CheckerContext) solver.TypeId {
	if e.Name == c.thisAtom {
		if ctx.thisType != solver.InvalidType {
			return ctx.thisType
		}
		return c.in.Any()
	}
	sym, ok := c.resolve(ctx.scope, e.Name, e)
	if !ok {
		return c.in.Any()
	}
	declared := c.typeOfSymbol(sym)
	if !sym.Flags.Has(narrowable) || ctx.flow == nil {
		return declared
	}
	at, ok := ctx.flow.RefFlow[e]
	if !ok {
		return declared
	}
	return c.narrowAt(ctx.flow, at, sym, declared, 0)
}

func (c *Checker) typeOfBinary(e *ast.BinaryExpr, ctx *CheckerContext) solver.TypeId {
	if e.Op == "in" {
		if _, ok := e.Left.(*ast.PrivateName); !ok {
			c.typeOfExpr(e.Left, ctx, solver.InvalidType)
		}
		c.typeOfExpr(e.Right, ctx, solver.InvalidType)
		return c.in.Boolean()
	}
	left := c.typeOfExpr(e.Left, ctx, solver.InvalidType)
	right := c.typeOfExpr(e.Right, ctx, solver.InvalidType)
	switch e.Op {
	case "===", "!==", "==", "!=", "<", ">", "<=", ">=", "instanceof":
		if e.Op == "===" || e.Op == "!==" {
			c.checkComparisonOverlap(e, left, right)
		}
		return c.in.Boolean()
	case "+":
		if c.isStringlike(left) || c.isStringlike(right) {
			return c.in.String()
		}
		return c.in.Number()
	case "&&", "||", "??":
		return c.in.MakeUnion([]solver.TypeId{left, right})
	default:
		return c.in.Number()
	}
}

// checkComparisonOverlap flags a strict-equality comparison between two
// types that can never actually be equal (spec.md boundary behavior,
// diag.TS2367): neither side is any/unknown, and neither is assignable to
// the other in either direction.
func (c *Checker) checkComparisonOverlap(e *ast.BinaryExpr, left, right solver.TypeId) {
	if left == c.in.Any() || right == c.in.Any() || left == c.in.Unknown() || right == c.in.Unknown() {
		return
	}
	if c.q.IsAssignable(left, right) || c.q.IsAssignable(right, left) {
		return
	}
	c.bag.Error(e.Span(), diag.TS2367,
		"This comparison appears to be unintentional because the types '%s' and '%s' have no overlap.",
		c.q.Format(left, c.atoms), c.q.Format(right, c.atoms))
}

func (c *Checker) isStringlike(t solver.TypeId) bool {
	k := c.in.Kind(c.q.ApparentType(t))
	return k == "string" || k == "string-literal"
}

func (c *Checker) typeOfLogical(e *ast.LogicalExpr, ctx *CheckerContext, expected solver.TypeId) solver.TypeId {
	left := c.typeOfExpr(e.Left, ctx, solver.InvalidType)
	right := c.typeOfExpr(e.Right, ctx, expected)
	if e.Op == "??" {
		return c.in.MakeUnion([]solver.TypeId{c.stripNullish(left), right})
	}
	return c.in.MakeUnion([]solver.TypeId{left, right})
}

func (c *Checker) stripNullish(t solver.TypeId) solver.TypeId {
	members, _, ok := c.q.Decompose(t)
	if !ok {
		return t
	}
	kept := members[:0]
	for _, m := range members {
		k := c.in.Kind(m)
		if k == "null" || k == "undefined" {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		return t
	}
	return c.in.MakeUnion(kept)
}

func (c *Checker) typeOfUnary(e *ast.UnaryExpr, ctx *CheckerContext) solver.TypeId {
	argTy := c.typeOfExpr(e.Arg, ctx, solver.InvalidType)
	switch e.Op {
	case "!":
		return c.in.Boolean()
	case "typeof":
		return c.in.String()
	case "-", "+", "~":
		_ = argTy
		return c.in.Number()
	case "void":
		return c.in.Undefined()
	default:
		return c.in.Any()
	}
}

func (c *Checker) typeOfAssign(e *ast.AssignExpr, ctx *CheckerContext) solver.TypeId {
	targetTy := c.typeOfExpr(e.Target, ctx, solver.InvalidType)
	valTy := c.typeOfExpr(e.Value, ctx, targetTy)
	if e.Op == "=" {
		c.checkAssignable(e.Value, valTy, targetTy, e.Span(), diag.TS2322)
		return valTy
	}
	return targetTy
}

func (c *Checker) typeOfArrayLiteral(e *ast.ArrayLiteral, ctx *CheckerContext, expected solver.TypeId) solver.TypeId {
	elemExpected := solver.InvalidType
	if expected != solver.InvalidType {
		if elemTy, ok := c.arrayElementType(expected); ok {
			elemExpected = elemTy
		}
	}
	var elemTypes []solver.TypeId
	for i, el := range e.Elems {
		if el == nil {
			continue
		}
		t := c.typeOfExpr(el, ctx, elemExpected)
		if i < len(e.Spread) && e.Spread[i] {
			if inner, ok := c.arrayElementType(t); ok {
				t = inner
			}
		}
		elemTypes = append(elemTypes, t)
	}
	if len(elemTypes) == 0 {
		if elemExpected != solver.InvalidType {
			return c.in.MakeArray(elemExpected)
		}
		return c.in.MakeArray(c.in.Any())
	}
	return c.in.MakeArray(c.in.MakeUnion(elemTypes))
}

// arrayElementType reports t's element type if t is (structurally) an
// array, the minimal decomposition the Checker needs for array-literal
// contextual typing and spread elements; it does not special-case tuples,
// an accepted simplification.
func (c *Checker) arrayElementType(t solver.TypeId) (solver.TypeId, bool) {
	info, ok := c.q.IndexInfoFor(t, solver.IndexNumber)
	if !ok {
		return solver.InvalidType, false
	}
	return info.ValueTy, true
}

func (c *Checker) typeOfObjectLiteral(e *ast.ObjectLiteral, ctx *CheckerContext, expected solver.TypeId) solver.TypeId {
	var props []solver.PropId
	for _, p := range e.Props {
		if p.Spread || p.Computed != nil {
			if p.Value != nil {
				c.typeOfExpr(p.Value, ctx, solver.InvalidType)
			}
			continue
		}
		var propExpected solver.TypeId = solver.InvalidType
		if expected != solver.InvalidType {
			if info, ok := c.q.Property(expected, p.Key); ok {
				propExpected = info.Type
			}
		}
		t := c.typeOfExpr(p.Value, ctx, propExpected)
		props = append(props, solver.PropId{Name: p.Key, Type: t})
	}
	return c.in.MakeObject(solver.ObjAnonymous, props, nil, nil, nil)
}

func (c *Checker) typeOfFunctionExpr(e *ast.FunctionExpr, ctx *CheckerContext) solver.TypeId {
	scope, ok := c.fb.Scopes[e]
	if !ok {
		scope = ctx.scope
	}
	sig := c.low.LowerSignature(e.TypeParams, e.Params, e.ReturnType, scope)
	inner := &CheckerContext{scope: scope, flow: c.fb.Flows[e], thisType: ctx.thisType, funcReturn: sig.Return}
	if e.ReturnType == nil {
		inner.funcReturn = solver.InvalidType
	}
	c.checkParams(e.Params, inner)
	if e.Body != nil {
		for _, st := range e.Body.Statements {
			c.checkStatement(st, inner)
		}
	} else if e.ExprBody != nil {
		bodyTy := c.typeOfExpr(e.ExprBody, inner, inner.funcReturn)
		if inner.funcReturn != solver.InvalidType {
			c.checkAssignable(e.ExprBody, bodyTy, inner.funcReturn, e.ExprBody.Span(), diag.TS2322)
		} else if e.ReturnType == nil {
			sig.Return = bodyTy
		}
	}
	return c.in.MakeFunction(sig)
}

func (c *Checker) typeOfMember(e *ast.MemberExpr, ctx *CheckerContext) solver.TypeId {
	objTy := c.typeOfExpr(e.Object, ctx, solver.InvalidType)
	if e.Computed {
		c.typeOfExpr(e.Index, ctx, solver.InvalidType)
		if info, ok := c.q.IndexInfoFor(objTy, solver.IndexNumber); ok {
			return info.ValueTy
		}
		if info, ok := c.q.IndexInfoFor(objTy, solver.IndexString); ok {
			return info.ValueTy
		}
		return c.in.Any()
	}
	info, ok := c.q.Property(objTy, e.Property)
	if !ok {
		apparentKind := c.in.Kind(c.q.ApparentType(objTy))
		if t, ok := c.intrinsicMember(apparentKind, e.Property); ok {
			return t
		}
		if apparentKind != "any" {
			c.bag.Error(e.Span(), diag.TS2339, "Property '%s' does not exist on type '%s'.",
				c.atoms.Text(e.Property), c.q.Format(objTy, c.atoms))
		}
		return c.in.Any()
	}
	if info.Optional && !e.Optional {
		c.bag.Error(e.Span(), diag.TS2532, "Object is possibly 'undefined'.")
	}
	return info.Type
}

func (c *Checker) typeOfNew(e *ast.NewExpr, ctx *CheckerContext) solver.TypeId {
	calleeTy := c.typeOfExpr(e.Callee, ctx, solver.InvalidType)
	argTypes := make([]solver.TypeId, len(e.Args))
	for i, a := range e.Args {
		argTypes[i] = c.typeOfExpr(a, ctx, solver.InvalidType)
	}
	ctors := c.q.ConstructSignatures(calleeTy)
	if len(ctors) == 0 {
		return calleeTy
	}
	sig := ctors[0]
	c.checkArgs(e.Args, argTypes, sig)
	return sig.Return
}

// typeOfCall checks a call expression's arguments against the callee's
// signature (instantiating fresh type arguments for a generic callee, see
// generics.go) and returns its result type. Argument expressions are
// checked with no contextual type propagating in (spec.md's "contextual
// typing... for object/array literals, function expressions, return
// statements" stops short of parameter-position propagation here -- a
// documented simplification: a callback literal passed as an argument
// infers from its own body rather than from the parameter's declared
// signature).
func (c *Checker) typeOfCall(e *ast.CallExpr, ctx *CheckerContext) solver.TypeId {
	calleeTy := c.typeOfExpr(e.Callee, ctx, solver.InvalidType)
	argTypes := make([]solver.TypeId, len(e.Args))
	for i, a := range e.Args {
		argTypes[i] = c.typeOfExpr(a, ctx, solver.InvalidType)
	}
	sigs := c.q.CallSignatures(calleeTy)
	if len(sigs) == 0 {
		if c.in.Kind(c.q.ApparentType(calleeTy)) != "any" {
			c.bag.Error(e.Span(), diag.TS2769, "No overload matches this call.")
		}
		return c.in.Any()
	}
	sig := sigs[0]
	// A top-level generic function's own Signature carries no TypeParams
	// (lowerFuncSymbol lowers its body with the type parameters already
	// bound in its env, see lower.go's lowerFuncSymbol) -- genericity is
	// only visible on the declaring symbol's DefId, so check there instead
	// of on sig.TypeParams.
	if ident, ok := e.Callee.(*ast.Ident); ok && ident.Name != c.thisAtom {
		if sym, ok := ctx.scope.Resolve(ident.Name); ok && sym.Flags.Has(binder.Function) {
			if _, params := c.low.DefOf(sym); len(params) > 0 {
				sig = c.instantiateCallSite(sym, sig, argTypes)
			}
		}
	}
	c.checkArgs(e.Args, argTypes, sig)
	return sig.Return
}

func (c *Checker) checkArgs(args []ast.Expr, argTypes []solver.TypeId, sig solver.Signature) {
	for i, p := range sig.Params {
		if i >= len(args) {
			continue
		}
		c.checkAssignable(args[i], argTypes[i], p.Type, args[i].Span(), diag.TS2345)
	}
}
