package checker

import (
	"testing"

	"tsgo/internal/binder"
	"tsgo/internal/common"
	"tsgo/internal/diag"
	"tsgo/internal/lowering"
	"tsgo/internal/parser"
	"tsgo/internal/solver"
)

// checkSource runs the full Scanner->Parser->Binder->Lowering->Checker
// pipeline over src and returns the diagnostics the Checker recorded
// (spec.md §4.1), mirroring the wiring internal/lowering's own tests use
// for the prefix of the pipeline.
func checkSource(t *testing.T, src string) []diag.Diagnostic {
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
	if bag.Len() > 0 {
		t.Fatalf("unexpected binder diagnostics: %v", bag.All())
	}

	in := solver.NewInterner(atoms)
	q := solver.NewQueryDatabase(in)
	low := lowering.New(in, q, atoms)

	c := New(in, q, low, atoms, bag, fb)
	c.CheckFile(file)
	return bag.All()
}

func codesOf(ds []diag.Diagnostic) []diag.Code {
	cs := make([]diag.Code, len(ds))
	for i, d := range ds {
		cs[i] = d.Code
	}
	return cs
}

func hasCode(ds []diag.Diagnostic, code diag.Code) bool {
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}

// Scenario 1 (spec.md §8): `const x: number = "hi";` reports exactly one
// TS2322 whose span covers the string literal.
func TestAssignStringToNumber(t *testing.T) {
	src := `const x: number = "hi";`
	ds := checkSource(t, src)
	if len(ds) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", ds)
	}
	if ds[0].Code != diag.TS2322 {
		t.Fatalf("expected TS2322, got %v", ds[0].Code)
	}
	lit := `"hi"`
	wantStart := uint32(len(src) - len(lit) - 1) // before the trailing ';'
	if ds[0].Span.Start != wantStart || ds[0].Span.End != wantStart+uint32(len(lit)) {
		t.Fatalf("expected span over %q, got %+v", lit, ds[0].Span)
	}
}

// Scenario 2 (spec.md §8): merged interfaces with disjoint members produce
// zero diagnostics for a conforming object literal.
func TestInterfaceMergeConforms(t *testing.T) {
	src := `
		interface P { x: number }
		interface P { y: string }
		const p: P = { x: 1, y: "a" };
	`
	ds := checkSource(t, src)
	if len(ds) != 0 {
		t.Fatalf("expected zero diagnostics, got %v", ds)
	}
}

// Scenario 3 (spec.md §8): merged interfaces with a conflicting member
// report at least one diagnostic -- this is entirely the Binder's
// validateInterfaceMerge (TS2717), asserted here end-to-end through the
// Checker's own pipeline wiring.
func TestInterfaceMergeConflict(t *testing.T) {
	src := `
		interface P { x: number }
		interface P { x: string }
		const p: P = { x: 1 };
	`
	ds := checkSource(t, src)
	if len(ds) == 0 {
		t.Fatalf("expected at least one diagnostic about conflicting member 'x', got none")
	}
}

// Scenario 4 (spec.md §8): a generic identity function instantiated at a
// mismatched type reports one TS2322.
func TestGenericIdentityMismatch(t *testing.T) {
	src := `
		function id<T>(t: T): T { return t }
		const n: string = id(42);
	`
	ds := checkSource(t, src)
	if len(ds) != 1 || ds[0].Code != diag.TS2322 {
		t.Fatalf("expected exactly one TS2322, got %v", ds)
	}
}

// Scenario 5 (spec.md §8): typeof-narrowing on each branch of an
// if/else leaves zero diagnostics.
func TestTypeofNarrowingBothBranches(t *testing.T) {
	src := `
		function f(x: string | number) {
			if (typeof x === "string") { x.length; } else { x.toFixed(2); }
		}
	`
	ds := checkSource(t, src)
	if len(ds) != 0 {
		t.Fatalf("expected zero diagnostics, got %v", ds)
	}
}

// Scenario 6 (spec.md §8): two classes with identically-named but
// differently-branded private fields are not assignable to one another.
func TestPrivateBrandMismatch(t *testing.T) {
	src := `
		class C { #p = 1 }
		class D { #p = 1 }
		const c: C = new D();
	`
	ds := checkSource(t, src)
	if len(ds) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", ds)
	}
	if ds[0].Code != diag.TS2322 {
		t.Fatalf("expected TS2322, got %v", ds[0].Code)
	}
}

func TestExcessPropertyOnFreshLiteral(t *testing.T) {
	src := `
		interface P { x: number }
		const p: P = { x: 1, y: 2 };
	`
	ds := checkSource(t, src)
	if len(ds) != 1 || ds[0].Code != diag.TS2322Excess {
		t.Fatalf("expected one excess-property diagnostic, got %v", ds)
	}
}

func TestExcessPropertyNotFlaggedThroughVariable(t *testing.T) {
	src := `
		interface P { x: number }
		const tmp = { x: 1, y: 2 };
		const p: P = tmp;
	`
	ds := checkSource(t, src)
	if len(ds) != 0 {
		t.Fatalf("expected zero diagnostics (freshness only applies to direct literals), got %v", ds)
	}
}

func TestArgumentTypeMismatchReportsTS2345(t *testing.T) {
	src := `
		function needsString(s: string) {}
		needsString(42);
	`
	ds := checkSource(t, src)
	if len(ds) != 1 || ds[0].Code != diag.TS2345 {
		t.Fatalf("expected one TS2345, got %v", ds)
	}
}

func TestUndeclaredNameReportsTS2304(t *testing.T) {
	src := `const x = y;`
	ds := checkSource(t, src)
	if !hasCode(ds, diag.TS2304) {
		t.Fatalf("expected TS2304, got %v", ds)
	}
}

func TestMissingPropertyReportsTS2339(t *testing.T) {
	src := `
		interface P { x: number }
		const p: P = { x: 1 };
		p.y;
	`
	ds := checkSource(t, src)
	if !hasCode(ds, diag.TS2339) {
		t.Fatalf("expected TS2339, got %v", ds)
	}
}

func TestFunctionExpressionInCallArgumentIsChecked(t *testing.T) {
	// Regression for the binder's function-expression binding gap: an
	// arrow function nested in a call argument must still get its own
	// scope/params/flow, or its body is never checked at all.
	src := `
		function call(fn: (n: number) => number) { return fn(1); }
		call((n: number): string => { const bad: number = "oops"; return "x"; });
	`
	ds := checkSource(t, src)
	if !hasCode(ds, diag.TS2322) {
		t.Fatalf("expected the nested arrow body's own TS2322, got %v", ds)
	}
}

func TestNestedTypeofNarrowingInsideBlocks(t *testing.T) {
	src := `
		function f(x: string | number) {
			if (typeof x === "string") {
				const n: number = x.length;
			}
		}
	`
	ds := checkSource(t, src)
	if len(ds) != 0 {
		t.Fatalf("expected zero diagnostics (string.length is a number), got %v", ds)
	}
}
