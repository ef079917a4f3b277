// Package solver owns the interned type graph and the relation/inference/
// instantiation machinery that sits at the center of the pipeline (spec.md
// §4.5): "the hardest subsystem." Every exported operation here is part of
// the query boundary (query.go); TypeData itself is never exported, so a
// caller in internal/checker cannot pattern-match on type shape directly.
package solver

import "tsgo/internal/common"

// TypeId is an interned type node (spec.md §3.1): structurally equal types
// share one TypeId after canonicalization in the Interner.
type TypeId uint32

// DefId is a lazy-definition token (spec.md §3.1): "the type that will
// result from analyzing this declaration." Resolution may be deferred and
// memoized; see QueryDatabase.ResolveLazy.
type DefId uint32

// SymbolRef pairs a binder Symbol with an optional substitution context, so
// a type parameter or typeof-query can name "this symbol, under these
// instantiation arguments" without embedding a pointer graph.
type SymbolRef struct {
	Symbol common.Atom // the symbol's interned name; enough for display and
	// identity within one program's symbol graph. The solver intentionally
	// does not import internal/binder (no upward dependency, spec.md
	// "layering rule enforcement"); the Checker passes whatever SymbolId
	// the binder owns as an opaque uint32 via Id below when needed.
	Id   uint32
	Args []TypeId // instantiation context, empty for an uninstantiated ref
}

type typeKind uint8

const (
	kAny typeKind = iota
	kUnknown
	kVoid
	kUndefined
	kNull
	kNever
	kNumberKw
	kStringKw
	kBooleanKw
	kBigIntKw
	kObjectKw
	kSymbolKw
	kUniqueSymbol
	kNumberLit
	kStringLit
	kBooleanLit
	kBigIntLit
	kTemplateLit
	kEnumLit
	kObject
	kArray
	kReadonlyArray
	kTuple
	kUnion
	kIntersection
	kTypeParameter
	kInstantiation
	kTypeQuery
	kIndexAccess
	kKeyOf
	kMapped
	kConditional
	kInferTypeVariable
	kLazy
	kReadonlyType
	kFunction
)

// ObjectKind distinguishes the different shapes that share the Object
// variant (spec.md §3.2 "kind (interface|class-instance|class-static|
// anonymous|tuple|array-like)").
type ObjectKind uint8

const (
	ObjAnonymous ObjectKind = iota
	ObjInterface
	ObjClassInstance
	ObjClassStatic
)

// PropId is one property of an Object shape, kept sorted by Name at intern
// time (spec.md invariant 4: "Object.properties are stored sorted by
// property Atom").
type PropId struct {
	Name     common.Atom
	Type     TypeId
	Optional bool
	Readonly bool
	// Private marks a `#name` class field: its identity is nominal to the
	// declaring class shape, not structural (spec.md §4.5.3 "private-brand
	// checks... consults a side table on each class shape").
	Private     bool
	PrivateBand uint32 // unique per declaring class; 0 when !Private
}

// Signature is a call or construct signature on an Object shape.
type Signature struct {
	TypeParams []TypeId // TypeParameter TypeIds bound by this signature
	Params     []ParamInfo
	Return     TypeId
	ThisType   TypeId // InvalidType when there is no explicit `this` param
}

type ParamInfo struct {
	Name     common.Atom
	Type     TypeId
	Optional bool
	Rest     bool
}

// IndexInfo is an index signature (spec.md §4.5.6 `index_info`).
type IndexInfo struct {
	KeyKind  IndexKeyKind
	ValueTy  TypeId
	Readonly bool
}

type IndexKeyKind uint8

const (
	IndexString IndexKeyKind = iota
	IndexNumber
	IndexSymbol
)

// TupleElem is one element of a Tuple type.
type TupleElem struct {
	Label    common.Atom // empty when unlabeled
	Type     TypeId
	Optional bool
	Rest     bool
}

// typeData is the private sum type every TypeId resolves to (spec.md §3.2).
// Exactly one field set is meaningful per kind; this is a plain union-by-
// convention rather than a tagged Go interface so that canonicalization
// (hashing, equality) stays cheap and allocation-free for the common cases.
type typeData struct {
	kind typeKind

	// Primitive/no-payload kinds need nothing further.

	numberLit  float64
	stringLit  common.Atom
	boolLit    bool
	bigIntLit  string
	ref        SymbolRef // UniqueSymbol, TypeParameter, TypeQuery
	constraint TypeId    // TypeParameter constraint, Mapped constraint
	def        TypeId    // TypeParameter default

	object ObjectKind
	props  []PropId
	calls  []Signature
	ctors  []Signature
	idx    []IndexInfo

	elem TypeId // Array/ReadonlyArray/KeyOf/ReadonlyType element
	elems []TupleElem

	members []TypeId // Union/Intersection/TemplateLit parts

	defId DefId   // Instantiation.base, Lazy
	args  []TypeId // Instantiation.args

	objectTy TypeId // IndexAccess.object
	indexTy  TypeId // IndexAccess.index

	mappedParam    TypeId
	mappedTemplate TypeId
	mappedOptional OptionalModifier
	mappedReadonly OptionalModifier

	condCheck    TypeId
	condExtends  TypeId
	condTrue     TypeId
	condFalse    TypeId
	distributed  bool
	inferBinding common.Atom

	sig Signature // Function
}

// OptionalModifier models Mapped's `+?`/`-?`/`+readonly`/`-readonly`
// modifiers (present, absent, added, removed).
type OptionalModifier uint8

const (
	ModifierUnchanged OptionalModifier = iota
	ModifierAdd
	ModifierRemove
)
