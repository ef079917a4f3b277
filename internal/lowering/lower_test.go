package lowering

import (
	"testing"

	"tsgo/internal/ast"
	"tsgo/internal/binder"
	"tsgo/internal/common"
	"tsgo/internal/diag"
	"tsgo/internal/parser"
	"tsgo/internal/solver"
)

// parseAndBind runs the Scanner->Parser->Binder prefix of the pipeline over
// src and returns the bound file scope plus the shared atoms/interner/query
// state lowering needs, mirroring how internal/program wires the stages
// together (spec.md §4.1).
func parseAndBind(t *testing.T, src string) (*binder.Scope, *common.AtomTable, *solver.Interner, *solver.QueryDatabase) {
	t.Helper()
	atoms := common.NewAtomTable()
	bag := diag.NewBag(0)
	p := parser.New(src, atoms, bag, nil)
	file := p.ParseFile("test.ts")
	if bag.Len() > 0 {
		t.Fatalf("unexpected parse diagnostics: %v", bag.All())
	}
	b := binder.New(atoms, bag)
	global := &binder.Scope{Kind: binder.ScopeGlobal}
	fb := b.BindFile(global, file)

	in := solver.NewInterner(atoms)
	q := solver.NewQueryDatabase(in)
	return fb.File, atoms, in, q
}

func TestLowerKeywordsAndUnion(t *testing.T) {
	scope, atoms, in, q := parseAndBind(t, `type T = string | number;`)
	_ = q
	l := New(in, q, atoms)
	sym, ok := scope.Resolve(atoms.Intern("T"))
	if !ok {
		t.Fatal("expected T to be bound")
	}
	got := l.TypeOfDecl(sym)
	want := in.MakeUnion([]solver.TypeId{in.String(), in.Number()})
	if got != want {
		t.Fatalf("expected string | number, got %s", q.Format(got, atoms))
	}
}

func TestLowerForwardReferencedInterface(t *testing.T) {
	scope, atoms, in, q := parseAndBind(t, `
		interface Node { next: Link; value: number; }
		interface Link { head: Node; }
	`)
	l := New(in, q, atoms)
	nodeSym, ok := scope.Resolve(atoms.Intern("Node"))
	if !ok {
		t.Fatal("expected Node to be bound")
	}
	got := l.TypeOfDecl(nodeSym)
	name := atoms.Intern("next")
	info, ok := q.Property(got, name)
	if !ok {
		t.Fatal("expected Node to have a 'next' property")
	}
	linkSym, _ := scope.Resolve(atoms.Intern("Link"))
	linkTy := l.TypeOfDecl(linkSym)
	if info.Type != linkTy {
		t.Fatalf("expected Node.next to resolve to Link's lowered type, got %s", q.Format(info.Type, atoms))
	}
}

func TestLowerGenericTypeAliasInstantiation(t *testing.T) {
	scope, atoms, in, q := parseAndBind(t, `
		type Box<T> = { value: T };
		type StringBox = Box<string>;
	`)
	l := New(in, q, atoms)
	sym, ok := scope.Resolve(atoms.Intern("StringBox"))
	if !ok {
		t.Fatal("expected StringBox to be bound")
	}
	got := l.TypeOfDecl(sym)
	info, ok := q.Property(got, atoms.Intern("value"))
	if !ok || info.Type != in.String() {
		t.Fatalf("expected StringBox.value to be instantiated to string, got ok=%v %s", ok, q.Format(info.Type, atoms))
	}
}

func TestLowerPrivateClassFieldsAreNominallyDistinct(t *testing.T) {
	scope, atoms, in, q := parseAndBind(t, `
		class C { #p = 1; }
		class D { #p = 1; }
	`)
	l := New(in, q, atoms)
	cSym, _ := scope.Resolve(atoms.Intern("C"))
	dSym, _ := scope.Resolve(atoms.Intern("D"))
	cTy := l.TypeOfDecl(cSym)
	dTy := l.TypeOfDecl(dSym)
	if q.IsAssignable(dTy, cTy) {
		t.Fatal("classes with distinct private-field brands must not be mutually assignable")
	}
}

func TestLowerClassConstructorReturnsSelf(t *testing.T) {
	scope, atoms, in, q := parseAndBind(t, `
		class Box { constructor(v: number) {} }
	`)
	l := New(in, q, atoms)
	sym, _ := scope.Resolve(atoms.Intern("Box"))
	ty := l.TypeOfDecl(sym)
	ctors := q.ConstructSignatures(ty)
	if len(ctors) != 1 {
		t.Fatalf("expected exactly one construct signature, got %d", len(ctors))
	}
	if ctors[0].Return != ty {
		t.Fatalf("expected constructor's return type to be the class's own instance type, got %s", q.Format(ctors[0].Return, atoms))
	}
}

func TestLowerMappedType(t *testing.T) {
	scope, atoms, in, q := parseAndBind(t, `
		interface Pair { a: number; b: string; }
		type Partial2 = { [K in keyof Pair]?: Pair[K] };
	`)
	l := New(in, q, atoms)
	sym, ok := scope.Resolve(atoms.Intern("Partial2"))
	if !ok {
		t.Fatal("expected Partial2 to be bound")
	}
	got := l.TypeOfDecl(sym)
	if q.Format(got, atoms) == "" {
		t.Fatal("expected a non-empty rendering for the mapped type")
	}
	_ = in
}
