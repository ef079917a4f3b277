package binder

import (
	"tsgo/internal/ast"
	"tsgo/internal/common"
	"tsgo/internal/diag"
)

// FileBinding is the Binder's per-file output: a scope chain rooted at a
// File scope, plus the flow graphs built for every function-like container
// in the file (spec.md §4.4).
type FileBinding struct {
	File  *Scope
	Flows map[ast.Node]*FlowGraph
	// Ambient holds the names of top-level `declare`-wrapped declarations,
	// the candidates for cross-file merging (spec.md §4.4 behavior 3). See
	// merge.go.
	Ambient map[common.Atom]bool
	// Scopes maps every scope-introducing node (function/class/block/for/
	// switch, and the two *ast.BlockStmt halves of a try/catch) to the
	// Scope bound under it, so the Checker can descend the same lexical
	// structure the Binder built instead of re-deriving it (spec.md §4.6
	// "for each AST node kind it emits the right calls into the Solver" --
	// identifier resolution is a prerequisite of every one of those calls).
	Scopes map[ast.Node]*Scope
}

// Binder walks one parsed file and produces its FileBinding. It never
// consults type information (spec.md §4.4: "the binder never consults type
// information. It knows names, structure, and reachability only").
type Binder struct {
	atoms  *common.AtomTable
	bag    *diag.Bag
	nextID SymbolId
}

func New(atoms *common.AtomTable, bag *diag.Bag) *Binder {
	return &Binder{atoms: atoms, bag: bag}
}

// SetBag retargets the diagnostics a subsequent BindFile/MergeAmbient call
// reports into, without resetting the Binder's own SymbolId counter. A
// multi-file Program needs exactly one Binder for the whole run (so
// SymbolIds stay globally unique -- the QueryDatabase caches per-symbol
// results keyed on that ID) but each file's own diagnostics attributed to
// that file's own Bag, not wherever the Binder happened to be constructed.
func (b *Binder) SetBag(bag *diag.Bag) {
	b.bag = bag
}

func (b *Binder) newSymbolID() SymbolId {
	b.nextID++
	return b.nextID
}

// BindFile performs declaration collection and same-scope merging
// (spec.md §4.4 behaviors 1-2) over f, then builds a CFG for every
// function-like container (behavior 4).
func (b *Binder) BindFile(global *Scope, f *ast.File) *FileBinding {
	file := newScope(ScopeFile, global)
	fb := &FileBinding{File: file, Flows: make(map[ast.Node]*FlowGraph), Ambient: make(map[common.Atom]bool), Scopes: make(map[ast.Node]*Scope)}
	for _, stmt := range f.Statements {
		b.bindStatement(file, stmt, fb)
		b.bindStmtExprFunctions(file, stmt, fb)
		if name, ok := ambientName(stmt); ok {
			fb.Ambient[name] = true
		}
	}
	return fb
}

// ambientName returns the declared name of a top-level `declare ...`
// statement, if stmt is one the Binder recognizes as ambient.
func ambientName(stmt ast.Stmt) (common.Atom, bool) {
	amb, ok := stmt.(*ast.AmbientDecl)
	if !ok {
		return 0, false
	}
	switch inner := amb.Inner.(type) {
	case *ast.VarDecl:
		if len(inner.Declarators) == 1 {
			if ip, ok := inner.Declarators[0].Pattern.(*ast.IdentPat); ok {
				return ip.Name, true
			}
		}
	case *ast.FuncDecl:
		return inner.Name, true
	case *ast.ClassDecl:
		return inner.Name, true
	case *ast.InterfaceDecl:
		return inner.Name, true
	case *ast.TypeAliasDecl:
		return inner.Name, true
	case *ast.EnumDecl:
		return inner.Name, true
	case *ast.NamespaceDecl:
		return inner.Name, true
	}
	return 0, false
}

// declare registers a declaration of name/flags/node into scope, merging
// with any existing same-name Symbol under TypeScript's rules (spec.md
// §4.4 behavior 2). It returns the (possibly pre-existing) Symbol.
func (b *Binder) declare(scope *Scope, name common.Atom, flags SymbolFlags, node ast.Node) *Symbol {
	if existing, ok := scope.lookupLocal(name); ok {
		b.mergeInto(existing, flags, node)
		return existing
	}
	sym := &Symbol{ID: b.newSymbolID(), Name: name, Flags: flags, Parent: scope}
	sym.addDeclaration(node, flags)
	scope.Symbols[name] = sym
	return sym
}

// mergeInto combines a new declaration into an existing Symbol, following
// the compatible/incompatible merge table of spec.md §4.4 behavior 2:
// interface+interface and namespace+value merge silently; two block-scoped
// variable declarations of the same name, or a value declaration colliding
// with an incompatibly-kinded one, produce a diagnostic.
func (b *Binder) mergeInto(existing *Symbol, flags SymbolFlags, node ast.Node) {
	bothPlainVar := existing.Flags == Variable && flags == Variable
	switch {
	case existing.Flags.Has(Interface) && flags.Has(Interface):
		// interface+interface: compatible, members accumulate.
	case existing.Flags.Has(NamespaceModule) || flags.Has(NamespaceModule):
		// A namespace may merge with a value (function/class) or another
		// namespace of the same name without conflict.
	case bothPlainVar:
		// `var` may be redeclared any number of times in the same scope.
	case existing.Flags == Function && flags == Function:
		// Overload signatures (and the one implementation) share a name.
	case existing.Flags.Has(BlockScopedVariable) || flags.Has(BlockScopedVariable):
		b.bag.Add(node.Span(), diag.TS2451, diag.CategoryError,
			"Cannot redeclare block-scoped variable '%s'.", b.atoms.Text(existing.Name))
	case existing.Flags.isValue() && flags.isValue():
		b.bag.Add(node.Span(), diag.TS2300, diag.CategoryError,
			"Duplicate identifier '%s'.", b.atoms.Text(existing.Name))
	}
	existing.addDeclaration(node, flags)
}

func (b *Binder) bindStatement(scope *Scope, stmt ast.Stmt, fb *FileBinding) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		flags := Variable
		if s.Kind != ast.VarVar {
			flags = BlockScopedVariable
		}
		for _, d := range s.Declarators {
			b.bindPattern(scope, d.Pattern, flags, s)
		}
	case *ast.FuncDecl:
		b.declare(scope, s.Name, Function, s)
		fnScope := newScope(ScopeFunction, scope)
		fb.Scopes[s] = fnScope
		for _, tp := range s.TypeParams {
			b.declare(fnScope, tp.Name, TypeParameter, s)
		}
		b.bindParams(fnScope, s.Params)
		if s.Body != nil {
			fb.Flows[s] = BuildFlowGraph(s.Body)
			b.bindBlock(fnScope, s.Body, fb)
			for _, st := range s.Body.Statements {
				b.bindStmtExprFunctions(fnScope, st, fb)
			}
		}
	case *ast.ClassDecl:
		sym := b.declare(scope, s.Name, Class, s)
		members := sym.ensureMembers()
		classScope := newScope(ScopeBlock, scope)
		fb.Scopes[s] = classScope
		for _, tp := range s.TypeParams {
			b.declare(classScope, tp.Name, TypeParameter, s)
		}
		for _, field := range s.Fields {
			b.declareMember(members, field.Name, Property, s)
		}
		for _, m := range s.Methods {
			b.declareMember(members, m.Name, Method, s)
			methodScope := newScope(ScopeFunction, classScope)
			fb.Scopes[m.Fn] = methodScope
			b.bindParams(methodScope, m.Fn.Params)
			if m.Fn.Body != nil {
				fb.Flows[m.Fn] = BuildFlowGraph(m.Fn.Body)
				b.bindBlock(methodScope, m.Fn.Body, fb)
				for _, st := range m.Fn.Body.Statements {
					b.bindStmtExprFunctions(methodScope, st, fb)
				}
			}
		}
		for _, f := range s.Fields {
			b.bindExprFunctions(classScope, f.Init, fb)
		}
	case *ast.InterfaceDecl:
		sym := b.declare(scope, s.Name, Interface, s)
		b.validateInterfaceMerge(sym, s)
		for _, m := range s.Members {
			b.declareMember(sym.ensureMembers(), m.Name, Property, s)
		}
	case *ast.TypeAliasDecl:
		b.declare(scope, s.Name, TypeAlias, s)
	case *ast.EnumDecl:
		sym := b.declare(scope, s.Name, Enum, s)
		members := sym.ensureMembers()
		for _, m := range s.Members {
			b.declareMember(members, m.Name, Property, s)
		}
	case *ast.NamespaceDecl:
		sym := b.declare(scope, s.Name, NamespaceModule, s)
		nsScope := newScope(ScopeModule, scope)
		fb.Scopes[s] = nsScope
		for _, inner := range s.Body {
			b.bindStatement(nsScope, inner, fb)
			b.bindStmtExprFunctions(nsScope, inner, fb)
		}
		members := sym.ensureMembers()
		for name, nsSym := range nsScope.Symbols {
			members[name] = nsSym
		}
	case *ast.AmbientDecl:
		b.bindStatement(scope, s.Inner, fb)
	case *ast.ImportDecl:
		if s.Default != 0 {
			b.declare(scope, s.Default, Import, s)
		}
		if s.Star != 0 {
			b.declare(scope, s.Star, Import, s)
		}
		for _, bind := range s.Bindings {
			b.declare(scope, bind.Local, Import, s)
		}
	case *ast.ExportDecl:
		if s.Decl != nil {
			b.bindStatement(scope, s.Decl, fb)
		}
	case *ast.BlockStmt:
		blockScope := newScope(ScopeBlock, scope)
		fb.Scopes[s] = blockScope
		b.bindBlock(blockScope, s, fb)
	case *ast.IfStmt:
		b.bindStatement(scope, s.Then, fb)
		if s.Else != nil {
			b.bindStatement(scope, s.Else, fb)
		}
	case *ast.WhileStmt:
		b.bindStatement(scope, s.Body, fb)
	case *ast.ForStmt:
		forScope := newScope(ScopeBlock, scope)
		fb.Scopes[s] = forScope
		if s.Init != nil {
			b.bindStatement(forScope, s.Init, fb)
		}
		b.bindStatement(forScope, s.Body, fb)
	case *ast.TryStmt:
		tryScope := newScope(ScopeBlock, scope)
		fb.Scopes[s.Block] = tryScope
		b.bindBlock(tryScope, s.Block, fb)
		if s.Catch != nil {
			catchScope := newScope(ScopeBlock, scope)
			fb.Scopes[s.Catch.Body] = catchScope
			if s.Catch.Param != nil {
				b.bindPattern(catchScope, s.Catch.Param, BlockScopedVariable, s)
			}
			b.bindBlock(catchScope, s.Catch.Body, fb)
		}
		if s.Finally != nil {
			finallyScope := newScope(ScopeBlock, scope)
			fb.Scopes[s.Finally] = finallyScope
			b.bindBlock(finallyScope, s.Finally, fb)
		}
	case *ast.SwitchStmt:
		swScope := newScope(ScopeBlock, scope)
		fb.Scopes[s] = swScope
		for _, c := range s.Cases {
			for _, inner := range c.Body {
				b.bindStatement(swScope, inner, fb)
			}
		}
	case *ast.LabeledStmt:
		b.bindStatement(scope, s.Body, fb)
	default:
		// Expression statements, return/break/continue/throw carry no
		// declarations.
	}
}

func (b *Binder) bindBlock(scope *Scope, block *ast.BlockStmt, fb *FileBinding) {
	for _, stmt := range block.Statements {
		b.bindStatement(scope, stmt, fb)
	}
}

func (b *Binder) bindParams(scope *Scope, params []*ast.FuncParam) {
	for _, p := range params {
		b.bindPattern(scope, p.Pattern, Parameter, nil)
	}
}

func (b *Binder) bindPattern(scope *Scope, pat ast.Pat, flags SymbolFlags, node ast.Node) {
	switch p := pat.(type) {
	case *ast.IdentPat:
		n := node
		if n == nil {
			n = p
		}
		b.declare(scope, p.Name, flags, n)
	case *ast.ObjectPat:
		for _, prop := range p.Props {
			b.bindPattern(scope, prop.Value, flags, node)
		}
		if p.Rest != nil {
			b.bindPattern(scope, p.Rest, flags, node)
		}
	case *ast.ArrayPat:
		for _, elem := range p.Elems {
			if elem != nil {
				b.bindPattern(scope, elem, flags, node)
			}
		}
		if p.Rest != nil {
			b.bindPattern(scope, p.Rest, flags, node)
		}
	}
}

func (b *Binder) declareMember(members map[common.Atom]*Symbol, name common.Atom, flags SymbolFlags, node ast.Node) {
	if existing, ok := members[name]; ok {
		existing.addDeclaration(node, flags)
		return
	}
	members[name] = &Symbol{ID: b.newSymbolID(), Name: name, Flags: flags, Declarations: []ast.Node{node}}
}

// validateInterfaceMerge implements spec.md §9's open question: when a
// later interface declaration redeclares a property with a syntactically
// different type than an earlier one in the same scope, emit one TS2717
// per later conflict and keep the first-declared type as the effective
// one. Grounded on an AILANG-adjacent validateInterfaceMerge pattern
// (build a name->type map for the existing declaration, compare each new
// member against it).
func (b *Binder) validateInterfaceMerge(sym *Symbol, decl *ast.InterfaceDecl) {
	if len(sym.Declarations) == 0 {
		return
	}
	existingTypes := make(map[common.Atom]ast.TypeNode)
	for _, d := range sym.Declarations {
		prior, ok := d.(*ast.InterfaceDecl)
		if !ok || prior == decl {
			continue
		}
		for _, m := range prior.Members {
			if _, seen := existingTypes[m.Name]; !seen {
				existingTypes[m.Name] = m.Type
			}
		}
	}
	for _, m := range decl.Members {
		prior, ok := existingTypes[m.Name]
		if !ok {
			continue
		}
		if !typeNodesEqual(prior, m.Type) {
			b.bag.Add(m.Span, diag.TS2717, diag.CategoryError,
				"Subsequent property declarations must have the same type. Property '%s' must be of the same type as in the earlier 'interface' declaration.",
				b.atoms.Text(m.Name))
		}
	}
}
