package solver

import (
	"fmt"
	"sort"

	"tsgo/internal/common"
)

// Interner canonicalizes typeData values into TypeId handles (spec.md
// §4.5.1). Intern key is the canonicalized typeData rendered as a string
// fingerprint -- simple and adequate at the size of type graphs a single
// program produces, and it keeps canonicalization (the part the spec
// actually cares about: flatten/sort/dedupe) front and center instead of
// buried in a hand-rolled struct-hash.
type Interner struct {
	atoms   *common.AtomTable
	types   []typeData
	byFingerprint map[string]TypeId

	// wellKnown caches the handful of primitives every program interns
	// thousands of times, so make* helpers don't pay the fingerprint cost
	// for `any`/`string`/... on every call.
	wellKnown [kFunction + 1]TypeId
}

func NewInterner(atoms *common.AtomTable) *Interner {
	in := &Interner{atoms: atoms, byFingerprint: make(map[string]TypeId)}
	for k := typeKind(0); k <= kSymbolKw; k++ {
		in.wellKnown[k] = in.intern(typeData{kind: k})
	}
	return in
}

func (in *Interner) get(id TypeId) *typeData {
	return &in.types[id]
}

// Kind exposes only the minimal tag needed by callers that must branch on
// "is this a union" etc. through the query boundary (apparent-type, the
// relation walker); it is not a general TypeData accessor.
func (in *Interner) Kind(id TypeId) string {
	switch in.get(id).kind {
	case kAny:
		return "any"
	case kUnknown:
		return "unknown"
	case kVoid:
		return "void"
	case kUndefined:
		return "undefined"
	case kNull:
		return "null"
	case kNever:
		return "never"
	case kNumberKw:
		return "number"
	case kStringKw:
		return "string"
	case kBooleanKw:
		return "boolean"
	case kBigIntKw:
		return "bigint"
	case kObjectKw:
		return "object"
	case kSymbolKw:
		return "symbol"
	case kNumberLit:
		return "number-literal"
	case kStringLit:
		return "string-literal"
	case kBooleanLit:
		return "boolean-literal"
	case kObject:
		return "object-shape"
	case kArray:
		return "array"
	case kReadonlyArray:
		return "readonly-array"
	case kTuple:
		return "tuple"
	case kUnion:
		return "union"
	case kIntersection:
		return "intersection"
	case kTypeParameter:
		return "type-parameter"
	case kInstantiation:
		return "instantiation"
	case kIndexAccess:
		return "index-access"
	case kKeyOf:
		return "keyof"
	case kMapped:
		return "mapped"
	case kConditional:
		return "conditional"
	case kInferTypeVariable:
		return "infer"
	case kLazy:
		return "lazy"
	case kReadonlyType:
		return "readonly"
	case kFunction:
		return "function"
	case kTypeQuery:
		return "typeof-query"
	case kUniqueSymbol:
		return "unique-symbol"
	default:
		return "unknown-kind"
	}
}

func (in *Interner) intern(d typeData) TypeId {
	fp := fingerprint(d)
	if id, ok := in.byFingerprint[fp]; ok {
		return id
	}
	id := TypeId(len(in.types))
	in.types = append(in.types, d)
	in.byFingerprint[fp] = id
	return id
}

// fingerprint renders a typeData's semantically meaningful fields into a
// string key. It deliberately formats only the fields the given kind uses,
// so two kinds that happen to share zero-valued unrelated fields never
// collide, and so canonicalization (sorted members, etc.) is baked in by
// construction -- callers are required to pre-sort before calling intern.
func fingerprint(d typeData) string {
	switch d.kind {
	case kNumberLit:
		return fmt.Sprintf("numlit:%v", d.numberLit)
	case kStringLit:
		return fmt.Sprintf("strlit:%d", d.stringLit)
	case kBooleanLit:
		return fmt.Sprintf("boollit:%v", d.boolLit)
	case kBigIntLit:
		return fmt.Sprintf("bigintlit:%s", d.bigIntLit)
	case kUniqueSymbol, kTypeParameter, kTypeQuery:
		return fmt.Sprintf("ref:%d:%d:%v:constraint=%d:default=%d", d.kind, d.ref.Id, d.ref.Args, d.constraint, d.def)
	case kObject:
		return fmt.Sprintf("obj:%d:%v:%v:%v:%v", d.object, d.props, d.calls, d.ctors, d.idx)
	case kArray, kReadonlyArray, kKeyOf, kReadonlyType:
		return fmt.Sprintf("%d:%d", d.kind, d.elem)
	case kTuple:
		return fmt.Sprintf("tuple:%v", d.elems)
	case kUnion, kIntersection, kTemplateLit:
		return fmt.Sprintf("%d:%v", d.kind, d.members)
	case kInstantiation:
		return fmt.Sprintf("inst:%d:%v", d.defId, d.args)
	case kIndexAccess:
		return fmt.Sprintf("idxacc:%d:%d", d.objectTy, d.indexTy)
	case kMapped:
		return fmt.Sprintf("mapped:%d:%d:%d:%d:%d:%d", d.ref.Id, d.constraint, d.mappedParam, d.mappedTemplate, d.mappedOptional, d.mappedReadonly)
	case kConditional:
		return fmt.Sprintf("cond:%d:%d:%d:%d:%v", d.condCheck, d.condExtends, d.condTrue, d.condFalse, d.distributed)
	case kInferTypeVariable:
		return fmt.Sprintf("infer:%d", d.inferBinding)
	case kLazy:
		return fmt.Sprintf("lazy:%d", d.defId)
	case kFunction:
		return fmt.Sprintf("fn:%v", d.sig)
	default:
		return fmt.Sprintf("k:%d", d.kind)
	}
}

// --- well-known primitive accessors ---

func (in *Interner) Any() TypeId       { return in.wellKnown[kAny] }
func (in *Interner) Unknown() TypeId   { return in.wellKnown[kUnknown] }
func (in *Interner) Void() TypeId      { return in.wellKnown[kVoid] }
func (in *Interner) Undefined() TypeId { return in.wellKnown[kUndefined] }
func (in *Interner) Null() TypeId      { return in.wellKnown[kNull] }
func (in *Interner) Never() TypeId     { return in.wellKnown[kNever] }
func (in *Interner) Number() TypeId    { return in.wellKnown[kNumberKw] }
func (in *Interner) String() TypeId    { return in.wellKnown[kStringKw] }
func (in *Interner) Boolean() TypeId   { return in.wellKnown[kBooleanKw] }
func (in *Interner) BigInt() TypeId    { return in.wellKnown[kBigIntKw] }
func (in *Interner) ObjectKw() TypeId  { return in.wellKnown[kObjectKw] }
func (in *Interner) SymbolKw() TypeId  { return in.wellKnown[kSymbolKw] }

// --- literal constructors ---

func (in *Interner) NumberLit(v float64) TypeId {
	return in.intern(typeData{kind: kNumberLit, numberLit: v})
}

func (in *Interner) StringLit(s common.Atom) TypeId {
	return in.intern(typeData{kind: kStringLit, stringLit: s})
}

func (in *Interner) BooleanLit(v bool) TypeId {
	return in.intern(typeData{kind: kBooleanLit, boolLit: v})
}

// --- composite constructors (spec.md §4.5.6 "make_union, make_array,
// make_object, ..."  -- the only way outside code may build a TypeId) ---

// MakeUnion flattens, sorts, and deduplicates members (spec.md invariant 3),
// and applies Never's absorbing-element rule (spec.md §3.2 invariant 5).
func (in *Interner) MakeUnion(members []TypeId) TypeId {
	flat := in.flatten(members, kUnion)
	flat = dedupeSorted(flat)
	flat = removeIf(flat, func(t TypeId) bool { return t == in.Never() && len(flat) > 1 })
	if len(flat) == 1 {
		return flat[0]
	}
	if containsAny(flat, in.Any()) {
		return in.Any()
	}
	return in.intern(typeData{kind: kUnion, members: flat})
}

// MakeIntersection flattens, sorts, and deduplicates members; Never
// absorbs an intersection to Never (spec.md §3.2 invariant 5 extended: any
// intersection containing Never is Never, standard TS semantics).
func (in *Interner) MakeIntersection(members []TypeId) TypeId {
	flat := in.flatten(members, kIntersection)
	flat = dedupeSorted(flat)
	for _, m := range flat {
		if m == in.Never() {
			return in.Never()
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return in.intern(typeData{kind: kIntersection, members: flat})
}

func (in *Interner) flatten(members []TypeId, kind typeKind) []TypeId {
	var out []TypeId
	for _, m := range members {
		if d := in.get(m); d.kind == kind {
			out = append(out, in.flatten(d.members, kind)...)
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func dedupeSorted(ids []TypeId) []TypeId {
	out := ids[:0:0]
	for i, id := range ids {
		if i == 0 || id != ids[i-1] {
			out = append(out, id)
		}
	}
	return out
}

func removeIf(ids []TypeId, pred func(TypeId) bool) []TypeId {
	out := ids[:0:0]
	for _, id := range ids {
		if !pred(id) {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return ids // never remove the only member
	}
	return out
}

func containsAny(ids []TypeId, any TypeId) bool {
	for _, id := range ids {
		if id == any {
			return true
		}
	}
	return false
}

// MakeArray interns `Elem[]`.
func (in *Interner) MakeArray(elem TypeId) TypeId {
	return in.intern(typeData{kind: kArray, elem: elem})
}

func (in *Interner) MakeReadonlyArray(elem TypeId) TypeId {
	return in.intern(typeData{kind: kReadonlyArray, elem: elem})
}

// MakeTuple interns a tuple type, preserving element order (spec.md §4.5.1
// "preserve tuple element order" -- unlike unions/objects, tuples are not
// sorted).
func (in *Interner) MakeTuple(elems []TupleElem) TypeId {
	cp := append([]TupleElem(nil), elems...)
	return in.intern(typeData{kind: kTuple, elems: cp})
}

// MakeObject interns an object shape, sorting properties by Atom (spec.md
// invariant 4).
func (in *Interner) MakeObject(kind ObjectKind, props []PropId, calls, ctors []Signature, idx []IndexInfo) TypeId {
	cp := append([]PropId(nil), props...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Name < cp[j].Name })
	return in.intern(typeData{kind: kObject, object: kind, props: cp, calls: calls, ctors: ctors, idx: idx})
}

func (in *Interner) MakeFunction(sig Signature) TypeId {
	return in.intern(typeData{kind: kFunction, sig: sig})
}

func (in *Interner) MakeTypeParameter(ref SymbolRef, constraint, def TypeId) TypeId {
	return in.intern(typeData{kind: kTypeParameter, ref: ref, constraint: constraint, def: def})
}

func (in *Interner) MakeInstantiation(def DefId, args []TypeId) TypeId {
	cp := append([]TypeId(nil), args...)
	return in.intern(typeData{kind: kInstantiation, defId: def, args: cp})
}

func (in *Interner) MakeLazy(def DefId) TypeId {
	return in.intern(typeData{kind: kLazy, defId: def})
}

func (in *Interner) MakeReadonly(elem TypeId) TypeId {
	return in.intern(typeData{kind: kReadonlyType, elem: elem})
}

func (in *Interner) MakeKeyOf(elem TypeId) TypeId {
	return in.intern(typeData{kind: kKeyOf, elem: elem})
}

func (in *Interner) MakeIndexAccess(object, index TypeId) TypeId {
	return in.intern(typeData{kind: kIndexAccess, objectTy: object, indexTy: index})
}

func (in *Interner) MakeInferTypeVariable(name common.Atom) TypeId {
	return in.intern(typeData{kind: kInferTypeVariable, inferBinding: name})
}

func (in *Interner) MakeConditional(check, extends, trueB, falseB TypeId, distributed bool) TypeId {
	return in.intern(typeData{kind: kConditional, condCheck: check, condExtends: extends, condTrue: trueB, condFalse: falseB, distributed: distributed})
}

func (in *Interner) MakeMapped(param SymbolRef, constraint, template TypeId, optional, readonly OptionalModifier) TypeId {
	return in.intern(typeData{kind: kMapped, ref: param, constraint: constraint, mappedTemplate: template, mappedOptional: optional, mappedReadonly: readonly})
}

// MakeTypeQuery interns `typeof ref` (spec.md §3.2 TypeQuery variant).
func (in *Interner) MakeTypeQuery(ref SymbolRef) TypeId {
	return in.intern(typeData{kind: kTypeQuery, ref: ref})
}

// MakeUniqueSymbol interns a `unique symbol` type. ref is empty for an
// anonymous unique symbol (the common case: a type position with no
// named declaration to brand it against).
func (in *Interner) MakeUniqueSymbol(ref SymbolRef) TypeId {
	return in.intern(typeData{kind: kUniqueSymbol, ref: ref})
}
