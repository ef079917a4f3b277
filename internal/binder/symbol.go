// Package binder walks a parsed file once to build its symbol table, scope
// chain, and per-function control-flow graphs (spec.md §4.4), following the
// teacher's internal/elaborate package structure: one file (file.go) drives
// per-declaration dispatch, a separate file (scc.go-style graph) resolves
// cross-declaration dependency order, and a third (verify.go-style pass)
// reports merge conflicts as diagnostics rather than panicking.
package binder

import (
	"tsgo/internal/ast"
	"tsgo/internal/common"
)

// SymbolId is a declared-name binding, owned by the Binder (spec.md §3.1).
type SymbolId uint32

// SymbolFlags is a bitset describing what kind(s) of declaration a Symbol
// merges together (spec.md §3.3). A Symbol can carry more than one flag —
// e.g. a merged namespace+class carries NamespaceModule|Class.
type SymbolFlags uint32

const (
	Variable SymbolFlags = 1 << iota
	BlockScopedVariable
	Function
	Class
	Interface
	TypeAlias
	Enum
	ValueModule
	NamespaceModule
	TypeParameter
	Property
	Method
	Parameter
	Import
	ExportValue
)

func (f SymbolFlags) Has(flag SymbolFlags) bool { return f&flag != 0 }

// isValue reports whether flag denotes a value-space binding (as opposed to
// a pure type-space binding like Interface/TypeAlias/TypeParameter).
func (f SymbolFlags) isValue() bool {
	return f.Has(Variable | BlockScopedVariable | Function | Class | Enum | ValueModule | Parameter)
}

func (f SymbolFlags) isType() bool {
	return f.Has(Class | Interface | TypeAlias | Enum | TypeParameter)
}

// Symbol is a name binding that may merge several declarations together
// under TypeScript's merging rules (spec.md §3.3, §4.4.2).
type Symbol struct {
	ID           SymbolId
	Name         common.Atom
	Flags        SymbolFlags
	Declarations []ast.Node
	Parent       *Scope
	// Members holds the nested symbol table for containers (interfaces,
	// classes, enums, modules) -- keyed by member name, not re-merged here.
	Members map[common.Atom]*Symbol
}

// addDeclaration records another declaring node for an existing Symbol,
// widening its flags. Conflict detection is the caller's job (bind.go) --
// Symbol itself only aggregates.
func (s *Symbol) addDeclaration(node ast.Node, flags SymbolFlags) {
	s.Declarations = append(s.Declarations, node)
	s.Flags |= flags
}

func (s *Symbol) ensureMembers() map[common.Atom]*Symbol {
	if s.Members == nil {
		s.Members = make(map[common.Atom]*Symbol)
	}
	return s.Members
}
