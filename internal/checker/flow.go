package checker

import (
	"tsgo/internal/ast"
	"tsgo/internal/binder"
	"tsgo/internal/common"
	"tsgo/internal/solver"
)

// narrowKey memoizes one (symbol, flow-node) narrowing result (spec.md
// §4.6.1: "memoized per (SymbolId, FlowNodeId)").
type narrowKey struct {
	sym  binder.SymbolId
	flow binder.FlowNodeId
}

// maxNarrowDepth bounds the backward walk so a malformed or deeply nested
// CFG can't recurse unboundedly; a loop back-edge is caught earlier by the
// narrowing-in-progress guard, this is the belt-and-suspenders budget
// spec.md §4.6.1 calls for alongside it.
const maxNarrowDepth = 256

// narrowAt computes sym's narrowed type at flow node at by walking
// backward through antecedents, applying every type-guard condition found
// along the way (spec.md §4.6.1). A cycle (loop back-edge revisiting a node
// still on the current walk) falls back to declared rather than recursing
// forever; the memo table then caches that fallback for the node, exactly
// as a normal result would be.
func (c *Checker) narrowAt(g *binder.FlowGraph, at binder.FlowNodeId, sym *binder.Symbol, declared solver.TypeId, depth int) solver.TypeId {
	key := narrowKey{sym: sym.ID, flow: at}
	if t, ok := c.narrowMemo[key]; ok {
		return t
	}
	if c.narrowing[key] || depth > maxNarrowDepth {
		return declared
	}
	c.narrowing[key] = true
	result := c.narrowAtUncached(g, at, sym, declared, depth)
	delete(c.narrowing, key)
	c.narrowMemo[key] = result
	return result
}

func (c *Checker) narrowAtUncached(g *binder.FlowGraph, at binder.FlowNodeId, sym *binder.Symbol, declared solver.TypeId, depth int) solver.TypeId {
	node := g.Nodes[at]
	switch node.Kind {
	case binder.FlowConditionTrue:
		base := c.narrowAntecedents(g, node, sym, declared, depth)
		return c.applyGuard(node.Test, sym, base, true, depth)
	case binder.FlowConditionFalse:
		base := c.narrowAntecedents(g, node, sym, declared, depth)
		return c.applyGuard(node.Test, sym, base, false, depth)
	case binder.FlowSwitchClause:
		base := c.narrowAntecedents(g, node, sym, declared, depth)
		return c.applySwitchClause(node, sym, base)
	default:
		return c.narrowAntecedents(g, node, sym, declared, depth)
	}
}

// narrowAntecedents narrows through every predecessor and, at a join point
// (more than one antecedent -- an if/else merge or a loop exit), unions the
// branches' narrowed types back together.
func (c *Checker) narrowAntecedents(g *binder.FlowGraph, node *binder.FlowNode, sym *binder.Symbol, declared solver.TypeId, depth int) solver.TypeId {
	if len(node.Antecedents) == 0 {
		return declared
	}
	if len(node.Antecedents) == 1 {
		return c.narrowAt(g, node.Antecedents[0], sym, declared, depth+1)
	}
	types := make([]solver.TypeId, 0, len(node.Antecedents))
	for _, a := range node.Antecedents {
		types = append(types, c.narrowAt(g, a, sym, declared, depth+1))
	}
	return c.in.MakeUnion(types)
}

// applyGuard narrows base by test, assuming test evaluated to truthy (or to
// falsy when !truthy) on the path leading here. Unrecognized test shapes
// are a no-op: returning base unchanged is always sound, just less precise.
func (c *Checker) applyGuard(test ast.Expr, sym *binder.Symbol, base solver.TypeId, truthy bool, depth int) solver.TypeId {
	switch t := test.(type) {
	case *ast.UnaryExpr:
		if t.Op == "!" {
			return c.applyGuard(t.Arg, sym, base, !truthy, depth)
		}
		return base
	case *ast.BinaryExpr:
		switch t.Op {
		case "===", "==":
			return c.narrowEquality(t.Left, t.Right, sym, base, truthy)
		case "!==", "!=":
			return c.narrowEquality(t.Left, t.Right, sym, base, !truthy)
		case "instanceof":
			return c.narrowInstanceof(t.Left, sym, base, truthy)
		}
		return base
	case *ast.LogicalExpr:
		return c.applyLogicalGuard(t, sym, base, truthy, depth)
	case *ast.Ident:
		if t.Name == sym.Name {
			return c.narrowTruthy(base, truthy)
		}
		return base
	default:
		return base
	}
}

// applyLogicalGuard handles a compound `&&`/`||` test used directly as an
// if-condition (the binder gives the whole LogicalExpr a single branch
// pair; see binder/flow.go's IfStmt case, which records the test but not
// its sub-operands as separate branch points): on the truthy side of `&&`,
// both operands held, so guards apply in sequence; on the truthy side of
// `||`, only at least one held, so the precise result is the union of each
// operand's guard applied independently. The falsy sides are the De Morgan
// duals; `??` never narrows, since either branch can be truthy.
func (c *Checker) applyLogicalGuard(l *ast.LogicalExpr, sym *binder.Symbol, base solver.TypeId, truthy bool, depth int) solver.TypeId {
	switch l.Op {
	case "&&":
		if truthy {
			mid := c.applyGuard(l.Left, sym, base, true, depth)
			return c.applyGuard(l.Right, sym, mid, true, depth)
		}
		left := c.applyGuard(l.Left, sym, base, false, depth)
		right := c.applyGuard(l.Right, sym, base, false, depth)
		return c.in.MakeUnion([]solver.TypeId{left, right})
	case "||":
		if !truthy {
			mid := c.applyGuard(l.Left, sym, base, false, depth)
			return c.applyGuard(l.Right, sym, mid, false, depth)
		}
		left := c.applyGuard(l.Left, sym, base, true, depth)
		right := c.applyGuard(l.Right, sym, base, true, depth)
		return c.in.MakeUnion([]solver.TypeId{left, right})
	default:
		return base
	}
}

// narrowEquality handles `typeof x === "tag"` and `x === <literal>`
// discriminant comparisons (spec.md §4.6.1 "typeof x === tag" predicates).
// The operand order is tried both ways since either side may carry the
// `typeof`/literal half of the comparison.
func (c *Checker) narrowEquality(left, right ast.Expr, sym *binder.Symbol, base solver.TypeId, matched bool) solver.TypeId {
	if isTypeofOf(left, sym) {
		if tag, ok := c.stringLiteralValue(right); ok {
			return c.narrowByTypeofTag(base, tag, matched)
		}
	}
	if isTypeofOf(right, sym) {
		if tag, ok := c.stringLiteralValue(left); ok {
			return c.narrowByTypeofTag(base, tag, matched)
		}
	}
	if ident, ok := left.(*ast.Ident); ok && ident.Name == sym.Name {
		return c.narrowByLiteral(base, right, matched)
	}
	if ident, ok := right.(*ast.Ident); ok && ident.Name == sym.Name {
		return c.narrowByLiteral(base, left, matched)
	}
	return base
}

// isTypeofOf reports whether e is exactly `typeof <sym>`.
func isTypeofOf(e ast.Expr, sym *binder.Symbol) bool {
	toe, ok := e.(*ast.TypeOfExpr)
	if !ok {
		return false
	}
	ident, ok := toe.Expr.(*ast.Ident)
	return ok && ident.Name == sym.Name
}

// stringLiteralValue reads a string literal expression's decoded value by
// reusing Lowering's literal conversion instead of re-deriving the
// unquoting/escape rules here.
func (c *Checker) stringLiteralValue(e ast.Expr) (string, bool) {
	lit, ok := e.(*ast.Literal)
	if !ok || lit.Kind != ast.LitString {
		return "", false
	}
	t := c.low.LowerLiteral(lit.Kind, lit.Raw)
	v, ok := c.q.LiteralValue(t)
	if !ok {
		return "", false
	}
	atom, ok := v.(common.Atom)
	if !ok {
		return "", false
	}
	return c.atoms.Text(atom), true
}

func (c *Checker) narrowByTypeofTag(base solver.TypeId, tag string, matched bool) solver.TypeId {
	members, _, ok := c.q.Decompose(base)
	if !ok {
		return base
	}
	var kept []solver.TypeId
	for _, m := range members {
		isTag := c.typeofTagMatches(m, tag)
		if isTag == matched {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return base
	}
	return c.in.MakeUnion(kept)
}

func (c *Checker) typeofTagMatches(t solver.TypeId, tag string) bool {
	kind := c.in.Kind(c.q.ApparentType(t))
	switch tag {
	case "string":
		return kind == "string" || kind == "string-literal"
	case "number":
		return kind == "number" || kind == "number-literal"
	case "boolean":
		return kind == "boolean" || kind == "boolean-literal"
	case "bigint":
		return kind == "bigint"
	case "undefined":
		return kind == "undefined"
	case "symbol":
		return kind == "symbol" || kind == "unique-symbol"
	case "function":
		return kind == "function"
	case "object":
		return kind == "object-shape" || kind == "array" || kind == "readonly-array" ||
			kind == "tuple" || kind == "null"
	default:
		return false
	}
}

// narrowByLiteral narrows base to whichever union members could actually
// equal other's literal value; other is some arbitrary expression, not
// necessarily a literal (in which case this is a no-op).
func (c *Checker) narrowByLiteral(base solver.TypeId, other ast.Expr, matched bool) solver.TypeId {
	lit, ok := other.(*ast.Literal)
	if !ok {
		return base
	}
	litTy := c.low.LowerLiteral(lit.Kind, lit.Raw)
	if !matched {
		members, ok := c.decomposeOrSelf(base)
		if !ok {
			return base
		}
		kept := members[:0]
		for _, m := range members {
			if !c.q.Identical(m, litTy) {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			return base
		}
		return c.in.MakeUnion(kept)
	}
	if c.q.IsAssignable(litTy, base) {
		return litTy
	}
	return base
}

func (c *Checker) decomposeOrSelf(t solver.TypeId) ([]solver.TypeId, bool) {
	members, _, ok := c.q.Decompose(t)
	if !ok {
		return nil, false
	}
	return members, true
}

// narrowInstanceof is a documented no-op: excluding/selecting a class from
// a union by nominal brand needs scope access to resolve the right-hand
// class name to its instance type, which this backward flow walk does not
// carry (narrowAt only ever receives the symbol being narrowed, not a
// lexical scope). Returning base unchanged is sound, just imprecise.
func (c *Checker) narrowInstanceof(left ast.Expr, sym *binder.Symbol, base solver.TypeId, truthy bool) solver.TypeId {
	return base
}

// narrowTruthy strips nullish members from base on the truthy side; the
// falsy side is left unnarrowed (falsy also admits "", 0, false, which a
// union's member list does not let us reconstruct precisely here).
func (c *Checker) narrowTruthy(base solver.TypeId, truthy bool) solver.TypeId {
	if !truthy {
		return base
	}
	return c.stripNullish(base)
}

// applySwitchClause narrows by a `switch (x) { case <literal>: }`
// discriminant comparison, recovering the discriminant expression from the
// enclosing SwitchStmt the binder stashed on the clause node (binder's
// flow.go: FlowSwitchClause's Node is the *ast.SwitchStmt, Test is the
// clause's own case expression, nil for `default`).
func (c *Checker) applySwitchClause(node *binder.FlowNode, sym *binder.Symbol, base solver.TypeId) solver.TypeId {
	sw, ok := node.Node.(*ast.SwitchStmt)
	if !ok || node.Test == nil {
		return base
	}
	ident, ok := sw.Disc.(*ast.Ident)
	if !ok || ident.Name != sym.Name {
		return base
	}
	return c.narrowByLiteral(base, node.Test, true)
}
