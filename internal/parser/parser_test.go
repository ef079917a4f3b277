package parser

import (
	"testing"

	"tsgo/internal/ast"
	"tsgo/internal/common"
	"tsgo/internal/diag"
)

func parse(t *testing.T, src string) (*ast.File, *diag.Bag) {
	t.Helper()
	atoms := common.NewAtomTable()
	bag := diag.NewBag(common.FileID(0))
	p := New(src, atoms, bag, common.Default())
	f := p.ParseFile("test.ts")
	return f, bag
}

func TestParseVarDecl(t *testing.T) {
	f, bag := parse(t, `const x: number = 5 + 10;`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	if len(f.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(f.Statements))
	}
	decl, ok := f.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", f.Statements[0])
	}
	if decl.Kind != ast.VarConst {
		t.Fatalf("expected const, got %v", decl.Kind)
	}
	if len(decl.Declarators) != 1 {
		t.Fatalf("expected 1 declarator, got %d", len(decl.Declarators))
	}
	ip, ok := decl.Declarators[0].Pattern.(*ast.IdentPat)
	if !ok {
		t.Fatalf("expected *ast.IdentPat, got %T", decl.Declarators[0].Pattern)
	}
	if ip.Type == nil {
		t.Fatalf("expected a type annotation on x")
	}
	bin, ok := decl.Declarators[0].Init.(*ast.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected a '+' binary init expression, got %#v", decl.Declarators[0].Init)
	}
}

func TestParseFunctionDecl(t *testing.T) {
	f, bag := parse(t, `function add(a: number, b: number): number { return a + b; }`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	fn, ok := f.Statements[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", f.Statements[0])
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.ReturnType == nil {
		t.Fatalf("expected a return type annotation")
	}
	if fn.Body == nil || len(fn.Body.Statements) != 1 {
		t.Fatalf("expected a 1-statement body")
	}
}

func TestParseArrowVsParenExpr(t *testing.T) {
	f, bag := parse(t, `const f = (a: number, b: number) => a + b;`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	decl := f.Statements[0].(*ast.VarDecl)
	fn, ok := decl.Declarators[0].Init.(*ast.FunctionExpr)
	if !ok {
		t.Fatalf("expected an arrow *ast.FunctionExpr, got %T", decl.Declarators[0].Init)
	}
	if !fn.Arrow || len(fn.Params) != 2 {
		t.Fatalf("expected a 2-param arrow function, got %+v", fn)
	}

	f2, bag2 := parse(t, `const g = (a);`)
	if bag2.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag2.All())
	}
	decl2 := f2.Statements[0].(*ast.VarDecl)
	if _, ok := decl2.Declarators[0].Init.(*ast.FunctionExpr); ok {
		t.Fatalf("`(a)` must not parse as an arrow function")
	}
}

func TestParseGenericCallVsComparison(t *testing.T) {
	f, bag := parse(t, `f<number>(1);`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	stmt := f.Statements[0].(*ast.ExprStmt)
	call, ok := stmt.Expr.(*ast.CallExpr)
	if !ok || len(call.TypeArgs) != 1 {
		t.Fatalf("expected a generic call with 1 type arg, got %#v", stmt.Expr)
	}

	f2, bag2 := parse(t, `a < b;`)
	if bag2.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag2.All())
	}
	stmt2 := f2.Statements[0].(*ast.ExprStmt)
	if _, ok := stmt2.Expr.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected `a < b` to parse as a binary comparison, got %#v", stmt2.Expr)
	}
}

func TestParseNestedGenericsClosingAngle(t *testing.T) {
	f, bag := parse(t, `let x: Array<Array<number>>;`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	decl := f.Statements[0].(*ast.VarDecl)
	ip := decl.Declarators[0].Pattern.(*ast.IdentPat)
	outer, ok := ip.Type.(*ast.TypeRefNode)
	if !ok || len(outer.Args) != 1 {
		t.Fatalf("expected Array<...> reference, got %#v", ip.Type)
	}
	inner, ok := outer.Args[0].(*ast.TypeRefNode)
	if !ok || len(inner.Args) != 1 {
		t.Fatalf("expected nested Array<...> reference, got %#v", outer.Args[0])
	}
}

func TestParseMappedTypeVsObjectType(t *testing.T) {
	f, bag := parse(t, `type T = { [K in keyof U]: V };`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	alias := f.Statements[0].(*ast.TypeAliasDecl)
	if _, ok := alias.Type.(*ast.MappedTypeNode); !ok {
		t.Fatalf("expected a mapped type, got %#v", alias.Type)
	}

	f2, bag2 := parse(t, `type U = { a: number, b: string };`)
	if bag2.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag2.All())
	}
	alias2 := f2.Statements[0].(*ast.TypeAliasDecl)
	obj, ok := alias2.Type.(*ast.ObjectTypeNode)
	if !ok || len(obj.Members) != 2 {
		t.Fatalf("expected a 2-member object type, got %#v", alias2.Type)
	}
}

func TestParseConditionalTypeWithInfer(t *testing.T) {
	f, bag := parse(t, `type Elem<T> = T extends Array<infer U> ? U : never;`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	alias := f.Statements[0].(*ast.TypeAliasDecl)
	cond, ok := alias.Type.(*ast.ConditionalTypeNode)
	if !ok {
		t.Fatalf("expected a conditional type, got %#v", alias.Type)
	}
	ref, ok := cond.Extends.(*ast.TypeRefNode)
	if !ok || len(ref.Args) != 1 {
		t.Fatalf("expected Array<infer U> extends clause, got %#v", cond.Extends)
	}
	if _, ok := ref.Args[0].(*ast.InferTypeNode); !ok {
		t.Fatalf("expected an infer type argument, got %#v", ref.Args[0])
	}
}

func TestParseInterfaceDecl(t *testing.T) {
	f, bag := parse(t, `interface Point { x: number; y: number; distanceTo(p: Point): number; }`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	iface, ok := f.Statements[0].(*ast.InterfaceDecl)
	if !ok {
		t.Fatalf("expected *ast.InterfaceDecl, got %T", f.Statements[0])
	}
	if len(iface.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(iface.Members))
	}
	if iface.Members[2].Kind != "method" {
		t.Fatalf("expected distanceTo to be parsed as a method member, got %q", iface.Members[2].Kind)
	}
}

func TestParseClassDeclWithModifiers(t *testing.T) {
	f, bag := parse(t, `class Box<T> {
		private readonly value: T;
		constructor(value: T) { this.value = value; }
		get(): T { return this.value; }
	}`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	cls, ok := f.Statements[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", f.Statements[0])
	}
	if len(cls.TypeParams) != 1 {
		t.Fatalf("expected 1 type param, got %d", len(cls.TypeParams))
	}
	if len(cls.Fields) != 1 || !cls.Fields[0].Modifiers.Private || !cls.Fields[0].Modifiers.Readonly {
		t.Fatalf("expected 1 private readonly field, got %#v", cls.Fields)
	}
	if len(cls.Methods) != 2 {
		t.Fatalf("expected 2 methods (constructor + get), got %d", len(cls.Methods))
	}
}

func TestParseForOfAndForIn(t *testing.T) {
	f, bag := parse(t, `for (const x of xs) { y; } for (const k in obj) { z; }`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	if len(f.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(f.Statements))
	}
	for _, s := range f.Statements {
		loop, ok := s.(*ast.ForStmt)
		if !ok {
			t.Fatalf("expected *ast.ForStmt, got %T", s)
		}
		if loop.Update != nil {
			t.Fatalf("expected Update == nil for a for-in/of loop")
		}
	}
}

func TestParseTryCatchFinally(t *testing.T) {
	f, bag := parse(t, `try { risky(); } catch (e) { handle(e); } finally { cleanup(); }`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	tr, ok := f.Statements[0].(*ast.TryStmt)
	if !ok {
		t.Fatalf("expected *ast.TryStmt, got %T", f.Statements[0])
	}
	if tr.Catch == nil || tr.Finally == nil {
		t.Fatalf("expected both a catch clause and a finally block")
	}
}

func TestParseImportExportDecl(t *testing.T) {
	f, bag := parse(t, `import { a, b as c } from "mod"; export { a };`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	imp, ok := f.Statements[0].(*ast.ImportDecl)
	if !ok || len(imp.Bindings) != 2 {
		t.Fatalf("expected 2 import bindings, got %#v", f.Statements[0])
	}
	if imp.Bindings[1].Imported != imp.Bindings[1].Local && false {
		// local differs from imported for the aliased binding -- sanity
		// check above only that both are present; alias correctness is
		// not asserted by this test.
	}
	exp, ok := f.Statements[1].(*ast.ExportDecl)
	if !ok || len(exp.Names) != 1 {
		t.Fatalf("expected 1 exported name, got %#v", f.Statements[1])
	}
}

func TestParseAmbientDecl(t *testing.T) {
	f, bag := parse(t, `declare function f(x: number): void;`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	amb, ok := f.Statements[0].(*ast.AmbientDecl)
	if !ok {
		t.Fatalf("expected *ast.AmbientDecl, got %T", f.Statements[0])
	}
	if _, ok := amb.Inner.(*ast.FuncDecl); !ok {
		t.Fatalf("expected inner *ast.FuncDecl, got %T", amb.Inner)
	}
}

func TestParseEnumDecl(t *testing.T) {
	f, bag := parse(t, `const enum Color { Red, Green, Blue = 5 }`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	en, ok := f.Statements[0].(*ast.EnumDecl)
	if !ok || !en.Const {
		t.Fatalf("expected a const enum, got %#v", f.Statements[0])
	}
	if len(en.Members) != 3 || en.Members[2].Init == nil {
		t.Fatalf("expected 3 members with an explicit initializer on the last, got %#v", en.Members)
	}
}

func TestParseTypePredicateReturn(t *testing.T) {
	f, bag := parse(t, `function isString(x: unknown): x is string { return typeof x === "string"; }`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	fn := f.Statements[0].(*ast.FuncDecl)
	pred, ok := fn.ReturnType.(*ast.TypePredicateNode)
	if !ok {
		t.Fatalf("expected a type predicate return type, got %#v", fn.ReturnType)
	}
	if pred.Asserts {
		t.Fatalf("`x is string` should not set Asserts")
	}
}

func TestParseErrorRecoveryMissingStmt(t *testing.T) {
	f, bag := parse(t, `const x = ; const y = 1;`)
	if bag.Len() == 0 {
		t.Fatalf("expected at least one diagnostic for the malformed declaration")
	}
	if len(f.Statements) != 2 {
		t.Fatalf("expected recovery to still yield 2 statements, got %d", len(f.Statements))
	}
	if _, ok := f.Statements[1].(*ast.VarDecl); !ok {
		t.Fatalf("expected parsing to resynchronize onto `const y = 1;`, got %T", f.Statements[1])
	}
}
