// Package lowering translates the AST's type-expression nodes
// (internal/ast's TypeNode variants) into interned internal/solver.TypeId
// values (spec.md §4.5's "Lowering: AST type nodes -> Solver type graph").
//
// Lowering makes no semantic decisions -- no assignability, no narrowing,
// no diagnostics. It only resolves names against the Binder's scope chain
// and builds the corresponding solver.TypeId through the Interner's make*
// constructors, deferring declaration bodies through solver.DefId/Lazy so
// forward references (an interface used before its declaration) resolve
// without special-casing declaration order, following the same
// lazy-memoized-closure shape internal/solver's own query.go uses for
// DefId. This generalizes AILANG's internal/types/builder.go, which
// walks AILANG's surface type syntax into its own Type value the same way.
package lowering

import (
	"strconv"
	"strings"

	"tsgo/internal/ast"
	"tsgo/internal/binder"
	"tsgo/internal/common"
	"tsgo/internal/solver"
)

// env is a chain of lexically-scoped type-parameter bindings: the fresh
// TypeIds for a generic declaration's own `<T, U>` list, or the `infer`/
// mapped-type variables bound along the way. It is entirely Lowering's own
// bookkeeping -- the Binder does not track type-parameter scoping for
// interfaces and type aliases (see bind.go), so Lowering threads it
// independently rather than relying on binder.Scope for it.
type env struct {
	parent *env
	params map[common.Atom]solver.TypeId
}

func (e *env) lookup(name common.Atom) (solver.TypeId, bool) {
	for c := e; c != nil; c = c.parent {
		if t, ok := c.params[name]; ok {
			return t, true
		}
	}
	return 0, false
}

// ctx is what a single lower() call needs: the binder scope for resolving
// declared names (interfaces, classes, aliases, enums, namespaces) and the
// env for resolving lexically-bound type parameters.
type ctx struct {
	scope *binder.Scope
	env   *env
}

// symDef is a type-declaring symbol's lazy definition: its DefId plus the
// TypeParameter TypeIds its own `<...>` clause bound, in declaration order,
// the shape solver.Instantiate needs for its params argument.
type symDef struct {
	id     solver.DefId
	params []solver.TypeId
}

// Lowerer holds the per-program state Lowering needs across files: the
// shared Interner/QueryDatabase/AtomTable (spec.md §2's "Type Interner
// shared between Solver and Checker"), and the symbol->DefId memo table
// that makes repeated references to the same interface/class/alias/enum
// resolve to one DefId instead of rebuilding it per reference.
type Lowerer struct {
	in    *solver.Interner
	q     *solver.QueryDatabase
	atoms *common.AtomTable
	defs  map[binder.SymbolId]symDef
}

func New(in *solver.Interner, q *solver.QueryDatabase, atoms *common.AtomTable) *Lowerer {
	return &Lowerer{in: in, q: q, atoms: atoms, defs: make(map[binder.SymbolId]symDef)}
}

// LowerType is Lowering's main entry point: translate one type-expression
// node into a TypeId, resolving names against scope.
func (l *Lowerer) LowerType(node ast.TypeNode, scope *binder.Scope) solver.TypeId {
	return l.lower(node, &ctx{scope: scope})
}

// LowerSignature translates a function-like declaration's type
// parameters, parameter list, and return annotation into a
// solver.Signature -- the shape both function-type syntax and actual
// function/method declarations need.
func (l *Lowerer) LowerSignature(typeParams []*ast.TypeParamDecl, params []*ast.FuncParam, ret ast.TypeNode, scope *binder.Scope) solver.Signature {
	return l.lowerSignatureWithCtx(typeParams, params, ret, &ctx{scope: scope})
}

// LowerLiteral translates a literal expression's kind/raw text into its
// literal TypeId -- the same widening-free conversion type syntax's literal
// nodes go through, exposed so internal/checker's expression typing can
// reuse it verbatim instead of duplicating the escape-unquoting table.
func (l *Lowerer) LowerLiteral(kind ast.LiteralKind, raw string) solver.TypeId {
	return l.lowerLiteral(kind, raw)
}

// TypeOfDecl returns the TypeId for a type-declaring symbol (interface,
// class, type alias, enum, or namespace), resolving and memoizing its
// DefId lazily (spec.md §3.1).
func (l *Lowerer) TypeOfDecl(sym *binder.Symbol) solver.TypeId {
	def := l.defFor(sym)
	t, _ := l.q.ResolveLazy(def.id)
	return t
}

func (l *Lowerer) lower(node ast.TypeNode, c *ctx) solver.TypeId {
	if node == nil {
		return l.in.Any()
	}
	switch n := node.(type) {
	case *ast.KeywordTypeNode:
		return l.lowerKeyword(n.Keyword)
	case *ast.ParenTypeNode:
		return l.lower(n.Inner, c)
	case *ast.LiteralTypeNode:
		return l.lowerLiteral(n.Kind, n.Raw)
	case *ast.TemplateLiteralTypeNode:
		// Template-literal-type string algebra (splitting on each `${T}`
		// slot) is out of scope; widen to string rather than fabricate a
		// TemplateLit member list nothing else in the solver consumes yet.
		return l.in.String()
	case *ast.UnionTypeNode:
		return l.in.MakeUnion(l.lowerAll(n.Members, c))
	case *ast.IntersectionTypeNode:
		return l.in.MakeIntersection(l.lowerAll(n.Members, c))
	case *ast.ArrayTypeNode:
		elem := l.lower(n.Elem, c)
		if n.Readonly {
			return l.in.MakeReadonlyArray(elem)
		}
		return l.in.MakeArray(elem)
	case *ast.TupleTypeNode:
		elems := make([]solver.TupleElem, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = solver.TupleElem{Label: e.Label, Type: l.lower(e.Type, c), Optional: e.Optional, Rest: e.Rest}
		}
		t := l.in.MakeTuple(elems)
		if n.Readonly {
			return l.in.MakeReadonly(t)
		}
		return t
	case *ast.ObjectTypeNode:
		return l.lowerObjectType(n.Members, c)
	case *ast.FunctionTypeNode:
		return l.in.MakeFunction(l.lowerSignatureWithCtx(n.TypeParams, n.Params, n.ReturnType, c))
	case *ast.ConstructorTypeNode:
		sig := l.lowerSignatureWithCtx(n.TypeParams, n.Params, n.ReturnType, c)
		return l.in.MakeObject(solver.ObjAnonymous, nil, nil, []solver.Signature{sig}, nil)
	case *ast.TypeQueryNode:
		return l.lowerTypeQuery(n, c)
	case *ast.KeyOfTypeNode:
		return l.in.MakeKeyOf(l.lower(n.Operand, c))
	case *ast.IndexedAccessTypeNode:
		return l.in.MakeIndexAccess(l.lower(n.Object, c), l.lower(n.Index, c))
	case *ast.ReadonlyTypeNode:
		return l.in.MakeReadonly(l.lower(n.Operand, c))
	case *ast.MappedTypeNode:
		return l.lowerMapped(n, c)
	case *ast.ConditionalTypeNode:
		return l.lowerConditional(n, c)
	case *ast.InferTypeNode:
		// A bare `infer T` outside a conditional's Extends clause is
		// malformed input; bind it fresh so the caller still gets a
		// TypeId rather than a nil-shaped crash.
		return l.in.MakeInferTypeVariable(n.Name)
	case *ast.UniqueSymbolTypeNode:
		return l.in.MakeUniqueSymbol(solver.SymbolRef{})
	case *ast.TypePredicateNode:
		// The node's Type is the narrowed type, used by the Checker's
		// flow analysis when narrowing at a call site; the predicate's
		// own value (as used in `(x): x is T => ...`) is boolean.
		return l.in.Boolean()
	case *ast.TypeRefNode:
		return l.lowerTypeRef(n, c)
	default:
		return l.in.Any()
	}
}

func (l *Lowerer) lowerAll(nodes []ast.TypeNode, c *ctx) []solver.TypeId {
	out := make([]solver.TypeId, len(nodes))
	for i, n := range nodes {
		out[i] = l.lower(n, c)
	}
	return out
}

func (l *Lowerer) lowerKeyword(kw string) solver.TypeId {
	switch kw {
	case "any":
		return l.in.Any()
	case "unknown":
		return l.in.Unknown()
	case "void":
		return l.in.Void()
	case "undefined":
		return l.in.Undefined()
	case "null":
		return l.in.Null()
	case "never":
		return l.in.Never()
	case "object":
		return l.in.ObjectKw()
	case "string":
		return l.in.String()
	case "number":
		return l.in.Number()
	case "boolean":
		return l.in.Boolean()
	case "symbol":
		return l.in.SymbolKw()
	case "bigint":
		return l.in.BigInt()
	default:
		return l.in.Any()
	}
}

func (l *Lowerer) lowerLiteral(kind ast.LiteralKind, raw string) solver.TypeId {
	switch kind {
	case ast.LitNumber:
		v, _ := strconv.ParseFloat(raw, 64)
		return l.in.NumberLit(v)
	case ast.LitString:
		return l.in.StringLit(l.atoms.Intern(unquote(raw)))
	case ast.LitBoolean:
		return l.in.BooleanLit(raw == "true")
	case ast.LitBigInt:
		// bigint literal types (`1n`) aren't modeled as a distinct kind
		// here; widen to bigint.
		return l.in.BigInt()
	default:
		return l.in.Any()
	}
}

// unquote strips a string literal's surrounding quotes and undoes the
// handful of escapes the scanner leaves verbatim in Raw.
func unquote(raw string) string {
	if len(raw) >= 2 {
		raw = raw[1 : len(raw)-1]
	}
	r := strings.NewReplacer(`\\`, `\`, `\"`, `"`, `\'`, `'`, "\\n", "\n", "\\t", "\t")
	return r.Replace(raw)
}

func paramName(p ast.Pat) common.Atom {
	if ip, ok := p.(*ast.IdentPat); ok {
		return ip.Name
	}
	return common.NoAtom
}

// lowerSignatureWithCtx lowers a type-parameter list, parameter list, and
// return annotation under outer's scope, binding the signature's own
// type parameters into a child env visible to the params/return (and
// visible to each other for constraints declared after an earlier one).
func (l *Lowerer) lowerSignatureWithCtx(tps []*ast.TypeParamDecl, params []*ast.FuncParam, ret ast.TypeNode, outer *ctx) solver.Signature {
	childEnv := &env{parent: outer.env, params: make(map[common.Atom]solver.TypeId, len(tps))}
	typeParamIds := make([]solver.TypeId, len(tps))
	for i, tp := range tps {
		pc := &ctx{scope: outer.scope, env: childEnv}
		constraint, def := solver.InvalidType, solver.InvalidType
		if tp.Constraint != nil {
			constraint = l.lower(tp.Constraint, pc)
		}
		if tp.Default != nil {
			def = l.lower(tp.Default, pc)
		}
		tid := l.in.MakeTypeParameter(solver.SymbolRef{Symbol: tp.Name}, constraint, def)
		typeParamIds[i] = tid
		childEnv.params[tp.Name] = tid
	}
	inner := &ctx{scope: outer.scope, env: childEnv}
	paramInfos := make([]solver.ParamInfo, len(params))
	for i, p := range params {
		pt := l.in.Any()
		if p.Type != nil {
			pt = l.lower(p.Type, inner)
		}
		paramInfos[i] = solver.ParamInfo{Name: paramName(p.Pattern), Type: pt, Optional: p.Optional || p.Default != nil, Rest: p.Rest}
	}
	retTy := l.in.Void()
	if pred, ok := ret.(*ast.TypePredicateNode); ok {
		_ = pred
		retTy = l.in.Boolean()
	} else if ret != nil {
		retTy = l.lower(ret, inner)
	}
	return solver.Signature{TypeParams: typeParamIds, Params: paramInfos, Return: retTy, ThisType: solver.InvalidType}
}

// objBuilder accumulates an object shape's members across one or more
// declarations sharing a symbol (interface merging) before the single
// Interner.MakeObject call that actually interns the shape.
type objBuilder struct {
	props []solver.PropId
	calls []solver.Signature
	ctors []solver.Signature
	idx   []solver.IndexInfo
}

func (b *objBuilder) addInterfaceMember(l *Lowerer, m *ast.InterfaceMember, c *ctx) {
	switch m.Kind {
	case "call":
		if fn, ok := m.Type.(*ast.FunctionTypeNode); ok {
			b.calls = append(b.calls, l.lowerSignatureWithCtx(fn.TypeParams, fn.Params, fn.ReturnType, c))
		}
	case "construct":
		if fn, ok := m.Type.(*ast.ConstructorTypeNode); ok {
			b.ctors = append(b.ctors, l.lowerSignatureWithCtx(fn.TypeParams, fn.Params, fn.ReturnType, c))
		}
	case "index":
		// InterfaceMember drops the index-signature key type during
		// parsing (parser_decl.go), so string-keyed is the only kind
		// representable here.
		b.idx = append(b.idx, solver.IndexInfo{KeyKind: solver.IndexString, ValueTy: l.lower(m.Type, c), Readonly: m.Readonly})
	default: // "property", "method"
		b.props = append(b.props, solver.PropId{Name: m.Name, Type: l.lower(m.Type, c), Optional: m.Optional, Readonly: m.Readonly})
	}
}

func (l *Lowerer) lowerObjectType(members []ast.ObjectMemberNode, c *ctx) solver.TypeId {
	var b objBuilder
	for _, m := range members {
		switch m.Kind {
		case "call":
			if fn, ok := m.Type.(*ast.FunctionTypeNode); ok {
				b.calls = append(b.calls, l.lowerSignatureWithCtx(fn.TypeParams, fn.Params, fn.ReturnType, c))
			}
		case "construct":
			if fn, ok := m.Type.(*ast.ConstructorTypeNode); ok {
				b.ctors = append(b.ctors, l.lowerSignatureWithCtx(fn.TypeParams, fn.Params, fn.ReturnType, c))
			}
		case "index":
			keyKind := solver.IndexString
			if m.IndexKeyType != nil {
				switch l.lower(m.IndexKeyType, c) {
				case l.in.Number():
					keyKind = solver.IndexNumber
				case l.in.SymbolKw():
					keyKind = solver.IndexSymbol
				}
			}
			b.idx = append(b.idx, solver.IndexInfo{KeyKind: keyKind, ValueTy: l.lower(m.Type, c), Readonly: m.Readonly})
		default:
			b.props = append(b.props, solver.PropId{Name: m.Name, Type: l.lower(m.Type, c), Optional: m.Optional, Readonly: m.Readonly})
		}
	}
	return l.in.MakeObject(solver.ObjAnonymous, b.props, b.calls, b.ctors, b.idx)
}

func (l *Lowerer) lowerTypeQuery(n *ast.TypeQueryNode, c *ctx) solver.TypeId {
	// `typeof x` names a value's inferred type, which depends on flow-
	// insensitive expression inference Lowering does not perform (that is
	// the Checker's job, downstream of this layer). Lowering resolves the
	// name for display purposes only and otherwise widens to unknown.
	if c.scope != nil {
		if _, ok := c.scope.Resolve(n.Name); ok {
			return l.in.MakeTypeQuery(solver.SymbolRef{Symbol: n.Name})
		}
	}
	return l.in.Unknown()
}

func (l *Lowerer) lowerMapped(n *ast.MappedTypeNode, c *ctx) solver.TypeId {
	constraint := l.lower(n.Constraint, c)
	paramTy := l.in.MakeInferTypeVariable(n.TypeParamName)
	childEnv := &env{parent: c.env, params: map[common.Atom]solver.TypeId{n.TypeParamName: paramTy}}
	inner := &ctx{scope: c.scope, env: childEnv}
	template := l.lower(n.Template, inner)
	// NameType's `as` key-remapping clause has no representation in
	// solver.Mapped; dropped here, same scope as TemplateLiteralTypeNode.
	return l.in.MakeMapped(solver.SymbolRef{Symbol: n.TypeParamName}, constraint, template, modifierOf(n.OptionalMod), modifierOf(n.ReadonlyMod))
}

func modifierOf(v int) solver.OptionalModifier {
	switch {
	case v > 0:
		return solver.ModifierAdd
	case v < 0:
		return solver.ModifierRemove
	default:
		return solver.ModifierUnchanged
	}
}

func (l *Lowerer) lowerConditional(n *ast.ConditionalTypeNode, c *ctx) solver.TypeId {
	infers := map[common.Atom]bool{}
	collectInfers(n.Extends, infers)
	childEnv := &env{parent: c.env, params: make(map[common.Atom]solver.TypeId, len(infers))}
	for name := range infers {
		childEnv.params[name] = l.in.MakeInferTypeVariable(name)
	}
	extendsCtx := &ctx{scope: c.scope, env: childEnv}

	check := l.lower(n.Check, c)
	extends := l.lower(n.Extends, extendsCtx)
	trueB := l.lower(n.True, extendsCtx) // infer bindings are visible in the true branch
	falseB := l.lower(n.False, c)
	return l.in.MakeConditional(check, extends, trueB, falseB, l.isBareTypeParamRef(n.Check, c))
}

// isBareTypeParamRef reports whether node is an unparameterized,
// unqualified reference to a lexically-bound type parameter -- TypeScript's
// "naked type parameter" trigger for distributive conditional types
// (spec.md §4.5.4).
func (l *Lowerer) isBareTypeParamRef(node ast.TypeNode, c *ctx) bool {
	ref, ok := node.(*ast.TypeRefNode)
	if !ok || len(ref.Args) > 0 || len(ref.Qualifier) > 0 {
		return false
	}
	_, ok = c.env.lookup(ref.Name)
	return ok
}

// collectInfers walks a conditional type's Extends clause gathering the
// names `infer T` binds, without descending into a nested conditional's
// own Extends (each conditional owns only its immediate infer bindings).
func collectInfers(node ast.TypeNode, out map[common.Atom]bool) {
	switch n := node.(type) {
	case nil:
		return
	case *ast.InferTypeNode:
		out[n.Name] = true
	case *ast.UnionTypeNode:
		for _, m := range n.Members {
			collectInfers(m, out)
		}
	case *ast.IntersectionTypeNode:
		for _, m := range n.Members {
			collectInfers(m, out)
		}
	case *ast.ParenTypeNode:
		collectInfers(n.Inner, out)
	case *ast.ArrayTypeNode:
		collectInfers(n.Elem, out)
	case *ast.TupleTypeNode:
		for _, e := range n.Elems {
			collectInfers(e.Type, out)
		}
	case *ast.TypeRefNode:
		for _, a := range n.Args {
			collectInfers(a, out)
		}
	case *ast.FunctionTypeNode:
		for _, p := range n.Params {
			collectInfers(p.Type, out)
		}
		collectInfers(n.ReturnType, out)
	case *ast.ConstructorTypeNode:
		for _, p := range n.Params {
			collectInfers(p.Type, out)
		}
		collectInfers(n.ReturnType, out)
	case *ast.IndexedAccessTypeNode:
		collectInfers(n.Object, out)
		collectInfers(n.Index, out)
	case *ast.KeyOfTypeNode:
		collectInfers(n.Operand, out)
	case *ast.ReadonlyTypeNode:
		collectInfers(n.Operand, out)
	}
}

// resolveTypeSymbol resolves a (possibly dotted) TypeRefNode against
// scope, walking the qualifier prefix through each Symbol's Members table
// (spec.md §4.4's container-member model).
func (l *Lowerer) resolveTypeSymbol(scope *binder.Scope, n *ast.TypeRefNode) (*binder.Symbol, bool) {
	if scope == nil {
		return nil, false
	}
	if len(n.Qualifier) == 0 {
		return scope.Resolve(n.Name)
	}
	sym, ok := scope.Resolve(n.Qualifier[0])
	if !ok {
		return nil, false
	}
	for _, seg := range n.Qualifier[1:] {
		sym, ok = sym.Members[seg]
		if !ok {
			return nil, false
		}
	}
	sym, ok = sym.Members[n.Name]
	return sym, ok
}

func (l *Lowerer) lowerTypeRef(n *ast.TypeRefNode, c *ctx) solver.TypeId {
	if len(n.Qualifier) == 0 {
		if t, ok := c.env.lookup(n.Name); ok {
			return t
		}
	}
	sym, ok := l.resolveTypeSymbol(c.scope, n)
	if !ok {
		return l.in.Unknown()
	}
	if sym.Flags.Has(binder.TypeParameter) {
		// Declared in the binder's own scope (function/class type
		// parameters) but not reached through env -- a reference outside
		// its declaring signature's lexical extent.
		return l.in.Unknown()
	}
	def := l.defFor(sym)
	body, _ := l.q.ResolveLazy(def.id)
	if len(def.params) == 0 {
		return body
	}
	args := make([]solver.TypeId, len(def.params))
	for i := range args {
		if i < len(n.Args) {
			args[i] = l.lower(n.Args[i], c)
		} else {
			args[i] = l.in.Any()
		}
	}
	return l.q.Instantiate(def.id, def.params, args, body)
}

// defFor returns sym's memoized DefId, creating it (and interning its own
// type parameters) on first reference.
func (l *Lowerer) defFor(sym *binder.Symbol) symDef {
	if d, ok := l.defs[sym.ID]; ok {
		return d
	}
	tps := typeParamsOf(sym)
	declScope := sym.Parent
	paramEnv := &env{params: make(map[common.Atom]solver.TypeId, len(tps))}
	params := make([]solver.TypeId, len(tps))
	for i, tp := range tps {
		pc := &ctx{scope: declScope, env: paramEnv}
		constraint, def := solver.InvalidType, solver.InvalidType
		if tp.Constraint != nil {
			constraint = l.lower(tp.Constraint, pc)
		}
		if tp.Default != nil {
			def = l.lower(tp.Default, pc)
		}
		tid := l.in.MakeTypeParameter(solver.SymbolRef{Symbol: tp.Name}, constraint, def)
		params[i] = tid
		paramEnv.params[tp.Name] = tid
	}

	var d symDef
	d.params = params
	bodyCtx := &ctx{scope: declScope, env: paramEnv}
	d.id = l.q.NewDef(func() solver.TypeId {
		return l.lowerDeclBody(sym, d.id, bodyCtx)
	})
	l.defs[sym.ID] = d
	return d
}

func typeParamsOf(sym *binder.Symbol) []*ast.TypeParamDecl {
	for _, decl := range sym.Declarations {
		switch d := decl.(type) {
		case *ast.InterfaceDecl:
			return d.TypeParams
		case *ast.TypeAliasDecl:
			return d.TypeParams
		case *ast.ClassDecl:
			return d.TypeParams
		case *ast.FuncDecl:
			return d.TypeParams
		}
	}
	return nil
}

func (l *Lowerer) lowerDeclBody(sym *binder.Symbol, self solver.DefId, c *ctx) solver.TypeId {
	switch {
	case sym.Flags.Has(binder.TypeAlias):
		for _, decl := range sym.Declarations {
			if d, ok := decl.(*ast.TypeAliasDecl); ok {
				return l.lower(d.Type, c)
			}
		}
	case sym.Flags.Has(binder.Interface):
		return l.lowerInterfaceSymbol(sym, c)
	case sym.Flags.Has(binder.Class):
		return l.lowerClassSymbol(sym, self, c)
	case sym.Flags.Has(binder.Enum):
		return l.lowerEnumSymbol(sym)
	case sym.Flags.Has(binder.NamespaceModule):
		return l.lowerNamespaceSymbol(sym)
	case sym.Flags.Has(binder.Function):
		return l.lowerFuncSymbol(sym, c)
	}
	return l.in.Unknown()
}

// lowerFuncSymbol gives a top-level function declaration the same
// DefId/instantiation machinery as an interface or class (spec.md §4.6
// scenario 4: "function id<T>(t: T): T"), so a generic call site can pull
// its Signature and instantiate fresh type arguments per call via
// DefOf+solver.Instantiate instead of the Checker re-deriving parameter
// types from the AST itself. c's env already carries this function's own
// type parameters (bound by defFor before lowerDeclBody runs), so the
// signature lowering here passes no additional type params of its own.
func (l *Lowerer) lowerFuncSymbol(sym *binder.Symbol, c *ctx) solver.TypeId {
	for _, decl := range sym.Declarations {
		if d, ok := decl.(*ast.FuncDecl); ok {
			sig := l.lowerSignatureWithCtx(nil, d.Params, d.ReturnType, c)
			return l.in.MakeFunction(sig)
		}
	}
	return l.in.Unknown()
}

// DefOf exposes a symbol's memoized DefId and its own type-parameter
// TypeIds, so the Checker can call solver.Instantiate directly at a
// generic call site (spec.md §4.6 scenario 4) instead of re-implementing
// defFor's bookkeeping. Safe to call for any symbol defFor already
// supports; Instantiate only ever uses the DefId as a cache key (see
// solver/instantiate.go), so reusing it here for call-site instantiation
// -- rather than a fresh declaration lowering -- does not force or
// duplicate resolution of the underlying definition.
func (l *Lowerer) DefOf(sym *binder.Symbol) (solver.DefId, []solver.TypeId) {
	d := l.defFor(sym)
	return d.id, d.params
}

func (l *Lowerer) lowerInterfaceSymbol(sym *binder.Symbol, c *ctx) solver.TypeId {
	var b objBuilder
	var extends []solver.TypeId
	for _, decl := range sym.Declarations {
		id, ok := decl.(*ast.InterfaceDecl)
		if !ok {
			continue
		}
		for _, m := range id.Members {
			b.addInterfaceMember(l, m, c)
		}
		for _, e := range id.Extends {
			extends = append(extends, l.lower(e, c))
		}
	}
	own := l.in.MakeObject(solver.ObjInterface, b.props, b.calls, b.ctors, b.idx)
	if len(extends) == 0 {
		return own
	}
	return l.in.MakeIntersection(append(extends, own))
}

func privateBandOf(private bool, id binder.SymbolId) uint32 {
	if !private {
		return 0
	}
	return uint32(id)
}

func (l *Lowerer) lowerClassSymbol(sym *binder.Symbol, self solver.DefId, c *ctx) solver.TypeId {
	var b objBuilder
	parent := solver.InvalidType
	for _, decl := range sym.Declarations {
		cd, ok := decl.(*ast.ClassDecl)
		if !ok {
			continue
		}
		for _, f := range cd.Fields {
			ft := l.in.Any()
			if f.Type != nil {
				ft = l.lower(f.Type, c)
			}
			b.props = append(b.props, solver.PropId{
				Name: f.Name, Type: ft, Optional: f.Modifiers.Optional,
				Readonly: f.Modifiers.Readonly, Private: f.Private,
				PrivateBand: privateBandOf(f.Private, sym.ID),
			})
		}
		for _, m := range cd.Methods {
			l.addClassMethod(&b, m, sym.ID, self, c)
		}
		if cd.Extends != nil {
			parent = l.lower(cd.Extends, c)
		}
	}
	own := l.in.MakeObject(solver.ObjClassInstance, b.props, b.calls, b.ctors, b.idx)
	if parent == solver.InvalidType {
		return own
	}
	return l.in.MakeIntersection([]solver.TypeId{parent, own})
}

func (l *Lowerer) addClassMethod(b *objBuilder, m *ast.ClassMethod, ownerID binder.SymbolId, self solver.DefId, c *ctx) {
	private := m.Modifiers.Private
	band := privateBandOf(private, ownerID)
	switch m.Kind {
	case "constructor":
		ctor := l.lowerSignatureWithCtx(nil, m.Fn.Params, nil, c)
		// A constructor's result is the class's own instance type; that
		// type is this very definition, so refer back to it lazily
		// rather than rebuilding it.
		ctor.Return = l.in.MakeLazy(self)
		b.ctors = append(b.ctors, ctor)
	case "get":
		sig := l.lowerSignatureWithCtx(m.Fn.TypeParams, m.Fn.Params, m.Fn.ReturnType, c)
		b.props = append(b.props, solver.PropId{Name: m.Name, Type: sig.Return, Private: private, PrivateBand: band})
	case "set":
		sig := l.lowerSignatureWithCtx(m.Fn.TypeParams, m.Fn.Params, m.Fn.ReturnType, c)
		pt := l.in.Any()
		if len(sig.Params) > 0 {
			pt = sig.Params[0].Type
		}
		b.props = append(b.props, solver.PropId{Name: m.Name, Type: pt, Private: private, PrivateBand: band})
	default: // "method"
		sig := l.lowerSignatureWithCtx(m.Fn.TypeParams, m.Fn.Params, m.Fn.ReturnType, c)
		b.props = append(b.props, solver.PropId{Name: m.Name, Type: l.in.MakeFunction(sig), Private: private, PrivateBand: band})
	}
}

func (l *Lowerer) lowerEnumSymbol(sym *binder.Symbol) solver.TypeId {
	var members []solver.TypeId
	next := 0.0
	for _, decl := range sym.Declarations {
		ed, ok := decl.(*ast.EnumDecl)
		if !ok {
			continue
		}
		for _, m := range ed.Members {
			if lit, ok := m.Init.(*ast.Literal); ok {
				switch lit.Kind {
				case ast.LitNumber:
					v, _ := strconv.ParseFloat(lit.Raw, 64)
					members = append(members, l.in.NumberLit(v))
					next = v + 1
					continue
				case ast.LitString:
					members = append(members, l.in.StringLit(l.atoms.Intern(unquote(lit.Raw))))
					continue
				}
			}
			members = append(members, l.in.NumberLit(next))
			next++
		}
	}
	if len(members) == 0 {
		return l.in.Never()
	}
	return l.in.MakeUnion(members)
}

func (l *Lowerer) lowerNamespaceSymbol(sym *binder.Symbol) solver.TypeId {
	var props []solver.PropId
	for name, member := range sym.Members {
		memberDef := l.defFor(member)
		body, _ := l.q.ResolveLazy(memberDef.id)
		props = append(props, solver.PropId{Name: name, Type: body})
	}
	return l.in.MakeObject(solver.ObjAnonymous, props, nil, nil, nil)
}
