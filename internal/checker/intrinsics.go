package checker

import (
	"tsgo/internal/common"
	"tsgo/internal/solver"
)

// intrinsicMember reports a built-in JS prototype member's type for a
// primitive or array apparent kind (spec.md §8 scenario 5 requires
// `x.length` / `x.toFixed(2)` to resolve on narrowed string/number
// operands, with no lib.es5.d.ts global-augmentation machinery wired up to
// answer that through the ordinary Property() path). This is a small,
// hand-picked surface covering the members a typical program reaches for
// most -- not the full String/Number/Array prototype -- so an unlisted
// member still reports TS2339 exactly as it does today.
func (c *Checker) intrinsicMember(kind string, name common.Atom) (solver.TypeId, bool) {
	text := c.atoms.Text(name)
	switch kind {
	case "string", "string-literal":
		switch text {
		case "length":
			return c.in.Number(), true
		case "charAt", "slice", "substring", "toUpperCase", "toLowerCase", "trim", "concat":
			return c.intrinsicMethod(c.in.String()), true
		case "charCodeAt", "indexOf", "lastIndexOf":
			return c.intrinsicMethod(c.in.Number()), true
		case "includes", "startsWith", "endsWith":
			return c.intrinsicMethod(c.in.Boolean()), true
		}
	case "number", "number-literal":
		switch text {
		case "toFixed", "toString", "toPrecision", "toExponential":
			return c.intrinsicMethod(c.in.String()), true
		case "valueOf":
			return c.intrinsicMethod(c.in.Number()), true
		}
	case "boolean", "boolean-literal":
		if text == "valueOf" {
			return c.intrinsicMethod(c.in.Boolean()), true
		}
	case "array", "readonly-array", "tuple":
		switch text {
		case "length":
			return c.in.Number(), true
		case "join":
			return c.intrinsicMethod(c.in.String()), true
		}
	}
	return solver.InvalidType, false
}

// intrinsicMethod builds a no-argument built-in method's function type,
// explicitly marking it as having no `this` parameter rather than leaving
// ThisType at its Go zero value (TypeId(0) is a distinct, valid interned
// primitive, not a sentinel -- see solver.InvalidType's doc comment).
func (c *Checker) intrinsicMethod(ret solver.TypeId) solver.TypeId {
	return c.in.MakeFunction(solver.Signature{Return: ret, ThisType: solver.InvalidType})
}
