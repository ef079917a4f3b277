package solver

import "tsgo/internal/common"

// nodeRef is an opaque AST-node identity the Checker hands in for
// type-of-expression caching. The solver does not import internal/ast (no
// upward dependency): callers pass any comparable value, typically the
// ast.NodeID the Checker already carries.
type nodeRef = any

// QueryDatabase memoizes the solver's expensive questions (spec.md §4.5.1).
// Every cache is keyed by content-addressed input (a SymbolId, a TypeId
// pair, ...) so results never depend on visit order (spec.md §5 "Ordering
// guarantees").
type QueryDatabase struct {
	interner *Interner

	typeOfSymbol map[uint32]TypeId
	typeOfNode   map[nodeRef]TypeId
	apparent     map[TypeId]TypeId
	subtypeCache map[relKey]bool
	assignCache  map[relKey]bool
	instCache    map[instKey]TypeId
	propCache    map[propKey]*PropInfo

	// inProgress holds the keys currently being resolved, so re-entrant
	// calls detect a cycle (spec.md "every cache must survive cycles").
	inProgress map[uint32]TypeId
	defs       map[uint32]func() TypeId
	resolved   map[uint32]TypeId
	nextDefId  uint32
}

type relKey struct {
	source, target TypeId
}

type instKey struct {
	def  DefId
	args string
}

type propKey struct {
	t    TypeId
	name common.Atom
}

func NewQueryDatabase(interner *Interner) *QueryDatabase {
	return &QueryDatabase{
		interner:     interner,
		typeOfSymbol: make(map[uint32]TypeId),
		typeOfNode:   make(map[nodeRef]TypeId),
		apparent:     make(map[TypeId]TypeId),
		subtypeCache: make(map[relKey]bool),
		assignCache:  make(map[relKey]bool),
		instCache:    make(map[instKey]TypeId),
		propCache:    make(map[propKey]*PropInfo),
		inProgress:   make(map[uint32]TypeId),
		defs:         make(map[uint32]func() TypeId),
		resolved:     make(map[uint32]TypeId),
	}
}

// NewDef registers a lazy definition (spec.md §3.1 DefId): resolve is
// called at most once, the first time the DefId's type is actually needed.
func (q *QueryDatabase) NewDef(resolve func() TypeId) DefId {
	q.nextDefId++
	id := DefId(q.nextDefId)
	q.defs[uint32(id)] = resolve
	return id
}

// ResolveLazy resolves DefId def, returning a provisional Lazy(def) TypeId
// on re-entry (a cycle) instead of recursing (spec.md §4.5.1, §9 "Cyclic
// type graphs"). The second result is false when resolution is still in
// progress -- "non-progress" -- signaling the caller to fall through to a
// non-lazy relation path rather than trusting the provisional id as final.
func (q *QueryDatabase) ResolveLazy(def DefId) (TypeId, bool) {
	key := uint32(def)
	if final, ok := q.resolved[key]; ok {
		return final, true
	}
	if provisional, ok := q.inProgress[key]; ok {
		return provisional, false
	}
	provisional := q.interner.MakeLazy(def)
	q.inProgress[key] = provisional
	resolve, ok := q.defs[key]
	if !ok {
		delete(q.inProgress, key)
		return q.interner.Any(), true
	}
	final := resolve()
	delete(q.inProgress, key)
	q.resolved[key] = final
	return final, true
}

// TypeOfSymbol caches SymbolId -> TypeId (spec.md §4.5.6). The Checker
// supplies the resolver closure the first time a symbol's type is asked
// for; later callers hit the cache.
func (q *QueryDatabase) TypeOfSymbol(symbol uint32, resolve func() TypeId) TypeId {
	if t, ok := q.typeOfSymbol[symbol]; ok {
		return t
	}
	if provisional, ok := q.inProgress[symbol|progressSymbolBit]; ok {
		return provisional
	}
	provisional := q.interner.Any()
	q.inProgress[symbol|progressSymbolBit] = provisional
	t := resolve()
	delete(q.inProgress, symbol|progressSymbolBit)
	q.typeOfSymbol[symbol] = t
	return t
}

// progressSymbolBit keeps the symbol-in-progress keyspace disjoint from
// the DefId-in-progress keyspace sharing the same map.
const progressSymbolBit uint32 = 1 << 31

func (q *QueryDatabase) TypeOfNode(node nodeRef, resolve func() TypeId) TypeId {
	if t, ok := q.typeOfNode[node]; ok {
		return t
	}
	t := resolve()
	q.typeOfNode[node] = t
	return t
}

// ClearPerFile drops the per-file memoization sets (spec.md §5 "Per-file
// memoization sets... are cleared at file boundaries to bound memory").
// Program-wide caches (instantiation, subtype/assignability, apparent
// type) are untouched since they are keyed by content-addressed TypeIds
// that remain valid across files.
func (q *QueryDatabase) ClearPerFile() {
	q.typeOfNode = make(map[nodeRef]TypeId)
}

// PropInfo is the result of a property lookup (spec.md §4.5.6 `property`).
type PropInfo struct {
	Type     TypeId
	Optional bool
	Readonly bool
}
