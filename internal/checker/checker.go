// Package checker walks a bound file in program order, computing a TypeId
// for every declaration and expression and reporting assignability/flow
// diagnostics (spec.md §4.6). It is the one package allowed to call the
// Solver's relation walker (solver.IsAssignable/IsSubtype) -- every other
// module that needs a compatibility answer goes through checkAssignable in
// compat.go, this package's single gateway.
package checker

import (
	"tsgo/internal/ast"
	"tsgo/internal/binder"
	"tsgo/internal/common"
	"tsgo/internal/diag"
	"tsgo/internal/lowering"
	"tsgo/internal/solver"
)

// Checker is constructed once per file and shares the program-wide
// Interner/QueryDatabase/Lowerer with every other file (spec.md §5: only
// the per-file memoization sets are file-scoped).
type Checker struct {
	in    *solver.Interner
	q     *solver.QueryDatabase
	low   *lowering.Lowerer
	atoms *common.AtomTable
	bag   *diag.Bag
	fb    *binder.FileBinding

	thisAtom common.Atom

	// narrowMemo/narrowing back the flow narrower (flow.go): memoized
	// results and a visiting set that turns a CFG cycle (a loop back-edge)
	// into a safe fallback to the declared type instead of infinite
	// recursion (spec.md §4.6.1 "cycles hit the memo table").
	narrowMemo map[narrowKey]solver.TypeId
	narrowing  map[narrowKey]bool
}

// narrowable is the set of symbol kinds flow analysis ever applies to.
// Every other kind -- class/function/interface/namespace/type-alias/enum
// names, type parameters -- is read-only for the purposes of flow and
// takes the documented fast path of returning its declared type untouched
// (spec.md §4.6: "identifier references to non-variable-like symbols...
// skip flow analysis entirely").
const narrowable = binder.Variable | binder.BlockScopedVariable | binder.Parameter

func New(in *solver.Interner, q *solver.QueryDatabase, low *lowering.Lowerer, atoms *common.AtomTable, bag *diag.Bag, fb *binder.FileBinding) *Checker {
	return &Checker{
		in: in, q: q, low: low, atoms: atoms, bag: bag, fb: fb,
		thisAtom:   atoms.Intern("this"),
		narrowMemo: make(map[narrowKey]solver.TypeId),
		narrowing:  make(map[narrowKey]bool),
	}
}

// CheckerContext threads the state that changes as the Checker descends the
// AST (spec.md §4.6): the current lexical scope (mirroring the Binder's own
// scope tree via FileBinding.Scopes), the enclosing function's flow graph
// and declared return type, and what `this` resolves to inside a class
// member. At the top of a file scope is the file's own scope, flow is nil,
// and thisType/funcReturn are solver.InvalidType.
type CheckerContext struct {
	scope      *binder.Scope
	flow       *binder.FlowGraph
	thisType   solver.TypeId
	funcReturn solver.TypeId
}

func (c *Checker) rootContext() *CheckerContext {
	return &CheckerContext{
		scope:      c.fb.File,
		thisType:   solver.InvalidType,
		funcReturn: solver.InvalidType,
	}
}

// CheckFile walks file's top-level statements in source order.
func (c *Checker) CheckFile(file *ast.File) {
	ctx := c.rootContext()
	for _, stmt := range file.Statements {
		c.checkStatement(stmt, ctx)
	}
}

// typeOfSymbol resolves a symbol's type, splitting on whether the symbol is
// itself a type-space declaration (interface/class/alias/enum/namespace/
// function/type-parameter, routed to Lowering's DefId machinery) or a
// plain value binding (variable/parameter/import, memoized directly in the
// QueryDatabase -- spec.md §4.5.6 `type_of_symbol`).
func (c *Checker) typeOfSymbol(sym *binder.Symbol) solver.TypeId {
	const typeSpace = binder.TypeParameter | binder.Interface | binder.Class |
		binder.TypeAlias | binder.Enum | binder.NamespaceModule | binder.Function
	if sym.Flags.Has(typeSpace) {
		return c.low.TypeOfDecl(sym)
	}
	return c.q.TypeOfSymbol(uint32(sym.ID), func() solver.TypeId {
		return c.typeOfSymbolDecl(sym)
	})
}

// typeOfSymbolDecl computes a value-space symbol's declared type from
// whichever declaration node bindPattern recorded for it: a bare IdentPat
// (parameters, whose own .Type annotation is directly reachable) or a VarDecl (top-level/block `var`/`let`/`const`, which
// requires re-matching the declarator by name since declare() only ever
// sees the statement, not the individual binding -- spec.md §4.4's binder
// deliberately keeps no finer-grained node for this). A destructured
// pattern's individual bindings fall back to Any: inferring through
// object/array destructuring is out of scope here (SPEC_FULL.md's
// contextual-typing surface stops at literals/calls/returns).
func (c *Checker) typeOfSymbolDecl(sym *binder.Symbol) solver.TypeId {
	for _, decl := range sym.Declarations {
		switch d := decl.(type) {
		case *ast.IdentPat:
			if d.Type != nil {
				return c.low.LowerType(d.Type, sym.Parent)
			}
			return c.in.Any()
		case *ast.VarDecl:
			for _, dtor := range d.Declarators {
				ip, ok := dtor.Pattern.(*ast.IdentPat)
				if !ok || ip.Name != sym.Name {
					continue
				}
				if ip.Type != nil {
					return c.low.LowerType(ip.Type, sym.Parent)
				}
				if dtor.Init != nil {
					return c.typeOfExpr(dtor.Init, c.declContext(sym), solver.InvalidType)
				}
				return c.in.Any()
			}
		}
	}
	return c.in.Any()
}

func (c *Checker) declContext(sym *binder.Symbol) *CheckerContext {
	return &CheckerContext{scope: sym.Parent, thisType: solver.InvalidType, funcReturn: solver.InvalidType}
}

func (c *Checker) resolve(scope *binder.Scope, name common.Atom, at ast.Node) (*binder.Symbol, bool) {
	sym, ok := scope.Resolve(name)
	if !ok {
		c.bag.Error(at.Span(), diag.TS2304, "Cannot find name '%s'.", c.atoms.Text(name))
	}
	return sym, ok
}
