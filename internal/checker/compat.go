package checker

import (
	"tsgo/internal/ast"
	"tsgo/internal/common"
	"tsgo/internal/diag"
	"tsgo/internal/solver"
)

// checkAssignable is the single compatibility-checker gateway (spec.md
// §4.6: "assignability-style diagnostics must route through a single
// compatibility-checker gateway; no feature-level module may call the
// relation walker directly"). Every assignment, argument, return, and
// field-initializer check in this package funnels through here instead of
// calling solver.IsAssignable itself.
//
// srcExpr is the expression the source type came from, used only to test
// for the excess-property-checking special case (spec.md §8 boundary
// behavior, relation.go's "the Checker's dedicated pass"): a *fresh*
// object literal assigned directly to a target gets its extra properties
// flagged even though the same value held in a variable would not
// (TypeScript's well-known freshness rule).
func (c *Checker) checkAssignable(srcExpr ast.Expr, srcType, targetType solver.TypeId, span common.Span, code diag.Code) {
	if lit, ok := srcExpr.(*ast.ObjectLiteral); ok {
		if name, bad := c.excessProperty(lit, targetType); bad {
			c.bag.Error(span, diag.TS2322Excess,
				"Object literal may only specify known properties, and '%s' does not exist in the expected type '%s'.",
				c.atoms.Text(name), c.q.Format(targetType, c.atoms))
			return
		}
	}
	if c.q.IsAssignable(srcType, targetType) {
		return
	}
	if code == diag.TS2345 {
		c.bag.Error(span, code, "Argument of type '%s' is not assignable to parameter of type '%s'.",
			c.q.Format(srcType, c.atoms), c.q.Format(targetType, c.atoms))
		return
	}
	c.bag.Error(span, code, "Type '%s' is not assignable to type '%s'.",
		c.q.Format(srcType, c.atoms), c.q.Format(targetType, c.atoms))
}

// excessProperty reports the first literal property name absent from
// target's apparent shape (ignoring index signatures, which legitimately
// accept unknown keys), if target is object-like at all. A target that
// isn't object-shaped (any, unknown, a union, ...) has nothing to check
// here; the general compatibility walk still runs and reports its own
// diagnostic if the literal is incompatible in some other way.
func (c *Checker) excessProperty(lit *ast.ObjectLiteral, target solver.TypeId) (common.Atom, bool) {
	if c.in.Kind(c.q.ApparentType(target)) != "object-shape" {
		return 0, false
	}
	if _, ok := c.q.IndexInfoFor(target, solver.IndexString); ok {
		return 0, false
	}
	for _, p := range lit.Props {
		if p.Spread || p.Computed != nil {
			continue
		}
		if _, ok := c.q.Property(target, p.Key); !ok {
			return p.Key, true
		}
	}
	return 0, false
}
