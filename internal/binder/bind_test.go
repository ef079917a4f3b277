package binder

import (
	"testing"

	"tsgo/internal/ast"
	"tsgo/internal/common"
	"tsgo/internal/diag"
	"tsgo/internal/parser"
)

func bindSource(t *testing.T, src string) (*FileBinding, *Scope, *diag.Bag) {
	t.Helper()
	atoms := common.NewAtomTable()
	bag := diag.NewBag(common.FileID(0))
	p := parser.New(src, atoms, bag, common.Default())
	f := p.ParseFile("test.ts")
	if bag.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %+v", bag.All())
	}
	global := newScope(ScopeGlobal, nil)
	b := New(atoms, bag)
	fb := b.BindFile(global, f)
	return fb, global, bag
}

func TestBindVarDecl(t *testing.T) {
	fb, _, bag := bindSource(t, `let x: number = 5;`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	if len(fb.File.Symbols) != 1 {
		t.Fatalf("expected 1 symbol, got %d", len(fb.File.Symbols))
	}
	for _, sym := range fb.File.Symbols {
		if !sym.Flags.Has(BlockScopedVariable) {
			t.Fatalf("expected BlockScopedVariable flag, got %v", sym.Flags)
		}
		if len(sym.Declarations) != 1 {
			t.Fatalf("expected 1 declaration, got %d", len(sym.Declarations))
		}
	}
}

func TestBindVarRedeclarationCompatible(t *testing.T) {
	_, _, bag := bindSource(t, `var a = 1; var a = 2;`)
	if bag.Len() != 0 {
		t.Fatalf("var/var redeclaration should not error, got: %+v", bag.All())
	}
}

func TestBindLetRedeclarationConflict(t *testing.T) {
	_, _, bag := bindSource(t, `let a = 1; let a = 2;`)
	diags := bag.All()
	if len(diags) != 1 || diags[0].Code != diag.TS2451 {
		t.Fatalf("expected one TS2451, got: %+v", diags)
	}
}

func TestBindFunctionOverloadsCompatible(t *testing.T) {
	_, _, bag := bindSource(t, `
function f(a: number): void;
function f(a: string): void;
function f(a: any): void { }
`)
	if bag.Len() != 0 {
		t.Fatalf("overload signatures should not conflict, got: %+v", bag.All())
	}
}

func TestBindDuplicateClassIdentifier(t *testing.T) {
	_, _, bag := bindSource(t, `
class Foo { }
class Foo { }
`)
	diags := bag.All()
	if len(diags) != 1 || diags[0].Code != diag.TS2300 {
		t.Fatalf("expected one TS2300, got: %+v", diags)
	}
}

func TestBindInterfaceMergeCompatible(t *testing.T) {
	fb, _, bag := bindSource(t, `
interface Point { x: number; y: number; }
interface Point { z: number; }
`)
	if bag.Len() != 0 {
		t.Fatalf("compatible interface merge should not error, got: %+v", bag.All())
	}
	for _, sym := range fb.File.Symbols {
		if len(sym.Declarations) != 2 {
			t.Fatalf("expected 2 declarations merged, got %d", len(sym.Declarations))
		}
		if len(sym.Members) != 3 {
			t.Fatalf("expected 3 merged members, got %d", len(sym.Members))
		}
	}
}

func TestBindInterfaceMergeConflict(t *testing.T) {
	_, _, bag := bindSource(t, `
interface Box { value: number; }
interface Box { value: string; }
`)
	diags := bag.All()
	if len(diags) != 1 || diags[0].Code != diag.TS2717 {
		t.Fatalf("expected one TS2717 for conflicting property type, got: %+v", diags)
	}
}

func TestBindNamespaceMergeWithFunction(t *testing.T) {
	_, _, bag := bindSource(t, `
function box(): void { }
namespace box { let count = 1; }
`)
	if bag.Len() != 0 {
		t.Fatalf("namespace+function merge should not error, got: %+v", bag.All())
	}
}

func TestScopeResolveWalksParentChain(t *testing.T) {
	global := newScope(ScopeGlobal, nil)
	file := newScope(ScopeFile, global)
	fn := newScope(ScopeFunction, file)

	name := common.Atom(7)
	global.Symbols[name] = &Symbol{ID: 1, Name: name, Flags: Variable}

	if _, ok := fn.lookupLocal(name); ok {
		t.Fatalf("lookupLocal should not see outer-scope symbols")
	}
	sym, ok := fn.Resolve(name)
	if !ok || sym.Name != name {
		t.Fatalf("Resolve should walk up to the global scope, got %v, %v", sym, ok)
	}
}

func TestBuildFlowGraphIfElse(t *testing.T) {
	atoms := common.NewAtomTable()
	bag := diag.NewBag(common.FileID(0))
	p := parser.New(`function f(x: number): number {
	if (x > 0) {
		return 1;
	} else {
		return -1;
	}
}`, atoms, bag, common.Default())
	f := p.ParseFile("test.ts")
	if bag.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %+v", bag.All())
	}
	fn := f.Statements[0].(*ast.FuncDecl)
	g := BuildFlowGraph(fn.Body)
	if len(g.Nodes) == 0 {
		t.Fatalf("expected a non-empty flow graph")
	}
	var sawTrue, sawFalse bool
	for _, n := range g.Nodes {
		if n.Kind == FlowConditionTrue {
			sawTrue = true
		}
		if n.Kind == FlowConditionFalse {
			sawFalse = true
		}
	}
	if !sawTrue || !sawFalse {
		t.Fatalf("expected both condition-true and condition-false nodes in an if/else CFG")
	}
}

func TestMergeAmbientAcrossFiles(t *testing.T) {
	atoms := common.NewAtomTable()
	bag := diag.NewBag(common.FileID(0))
	global := newScope(ScopeGlobal, nil)
	b := New(atoms, bag)

	p1 := parser.New(`declare namespace App { let ready: boolean; }`, atoms, bag, common.Default())
	f1 := p1.ParseFile("a.d.ts")
	p2 := parser.New(`declare namespace App { function start(): void; }`, atoms, bag, common.Default())
	f2 := p2.ParseFile("b.d.ts")
	if bag.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %+v", bag.All())
	}

	fb1 := b.BindFile(global, f1)
	fb2 := b.BindFile(global, f2)
	b.MergeAmbient(global, []*FileBinding{fb1, fb2})

	if bag.Len() != 0 {
		t.Fatalf("compatible ambient namespace merge should not error, got: %+v", bag.All())
	}
	if len(global.Symbols) != 1 {
		t.Fatalf("expected exactly one merged global symbol, got %d", len(global.Symbols))
	}
	for _, merged := range global.Symbols {
		if len(merged.Declarations) != 2 {
			t.Fatalf("expected 2 merged declarations, got %d", len(merged.Declarations))
		}
		if len(merged.Members) != 2 {
			t.Fatalf("expected 2 merged members (ready, start), got %d", len(merged.Members))
		}
	}
}

func TestBuildFlowGraphWhileLoopBackEdge(t *testing.T) {
	atoms := common.NewAtomTable()
	bag := diag.NewBag(common.FileID(0))
	p := parser.New(`function f(): void {
	while (true) {
		doWork();
	}
}`, atoms, bag, common.Default())
	f := p.ParseFile("test.ts")
	if bag.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %+v", bag.All())
	}
	fn := f.Statements[0].(*ast.FuncDecl)
	g := BuildFlowGraph(fn.Body)
	var loopLabelIdx FlowNodeId = -1
	for i, n := range g.Nodes {
		if n.Kind == FlowLoopLabel {
			loopLabelIdx = FlowNodeId(i)
		}
	}
	if loopLabelIdx == -1 {
		t.Fatalf("expected a loop-label node")
	}
	if len(g.Nodes[loopLabelIdx].Antecedents) < 2 {
		t.Fatalf("expected the loop label to have a back-edge antecedent from the loop body, got %d antecedents", len(g.Nodes[loopLabelIdx].Antecedents))
	}
}
