package solver

import "tsgo/internal/common"

// Decompose reports the members of a union or intersection type in
// canonical order, for callers that test each member against a predicate
// independently -- flow narrowing's primary use (internal/checker, spec.md
// §4.6.1 "type-guard predicates... narrow by removing/selecting union
// members"). ok is false for any other kind, including a would-be
// single-member union that MakeUnion already collapsed away at intern
// time.
func (q *QueryDatabase) Decompose(t TypeId) (members []TypeId, isUnion bool, ok bool) {
	d := q.interner.get(t)
	switch d.kind {
	case kUnion:
		return append([]TypeId(nil), d.members...), true, true
	case kIntersection:
		return append([]TypeId(nil), d.members...), false, true
	default:
		return nil, false, false
	}
}

// LiteralValue reports the constant a literal TypeId carries (float64,
// common.Atom, or bool depending on kind), so a guard predicate can compare
// against the exact value without the solver re-exporting typeData.
func (q *QueryDatabase) LiteralValue(t TypeId) (any, bool) {
	d := q.interner.get(t)
	switch d.kind {
	case kNumberLit:
		return d.numberLit, true
	case kStringLit:
		return d.stringLit, true
	case kBooleanLit:
		return d.boolLit, true
	default:
		return nil, false
	}
}

// PrimitiveForTypeofTag maps a `typeof` operator result string ("string",
// "number", ...) to the primitive keyword type it names (spec.md §4.6.1
// "typeof x === <tag>" predicates), or InvalidType for tags with no single
// structural primitive ("function" narrows by call-signature presence
// instead, handled in the Checker directly).
func (q *QueryDatabase) PrimitiveForTypeofTag(tag string) TypeId {
	switch tag {
	case "string":
		return q.interner.String()
	case "number":
		return q.interner.Number()
	case "boolean":
		return q.interner.Boolean()
	case "bigint":
		return q.interner.BigInt()
	case "undefined":
		return q.interner.Undefined()
	case "object":
		return q.interner.ObjectKw()
	case "symbol":
		return q.interner.SymbolKw()
	default:
		return InvalidType
	}
}

// Atoms exposes the interner's atom table so the Checker can render literal
// string values it reads back via LiteralValue without keeping a second
// table in sync.
func (q *QueryDatabase) Atoms() *common.AtomTable { return q.interner.atoms }
