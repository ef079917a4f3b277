package solver

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tsgo/internal/common"
)

func newTestInterner() (*Interner, *common.AtomTable) {
	atoms := common.NewAtomTable()
	return NewInterner(atoms), atoms
}

func TestWellKnownPrimitivesAreStable(t *testing.T) {
	in, _ := newTestInterner()
	if in.Any() != in.Any() || in.Number() != in.Number() {
		t.Fatal("well-known primitives must be stable across calls")
	}
	if in.Any() == in.Number() {
		t.Fatal("distinct primitives must get distinct TypeIds")
	}
}

func TestMakeUnionDedupesAndFlattens(t *testing.T) {
	in, _ := newTestInterner()
	inner := in.MakeUnion([]TypeId{in.Number(), in.String()})
	outer := in.MakeUnion([]TypeId{inner, in.String(), in.Boolean()})
	d := in.get(outer)
	if d.kind != kUnion {
		t.Fatalf("expected a flattened union, got kind %v", d.kind)
	}
	if len(d.members) != 3 {
		t.Fatalf("expected 3 deduped members, got %d", len(d.members))
	}
}

func TestMakeUnionNeverAbsorbed(t *testing.T) {
	in, _ := newTestInterner()
	u := in.MakeUnion([]TypeId{in.Never(), in.String()})
	if u != in.String() {
		t.Fatal("Never must be absorbed out of a union with another member")
	}
}

func TestMakeUnionSingleNeverSurvives(t *testing.T) {
	in, _ := newTestInterner()
	u := in.MakeUnion([]TypeId{in.Never()})
	if u != in.Never() {
		t.Fatal("a union of only Never must stay Never")
	}
}

func TestMakeIntersectionNeverAbsorbsAll(t *testing.T) {
	in, _ := newTestInterner()
	i := in.MakeIntersection([]TypeId{in.String(), in.Never(), in.Number()})
	if i != in.Never() {
		t.Fatal("an intersection containing Never must collapse to Never")
	}
}

func TestMakeObjectSortsProperties(t *testing.T) {
	in, atoms := newTestInterner()
	// Atom values are assigned in interning order (common.AtomTable), so
	// firstAtom < secondAtom here regardless of the strings chosen.
	firstAtom := atoms.Intern("zzz")
	secondAtom := atoms.Intern("aaa")
	obj := in.MakeObject(ObjAnonymous, []PropId{{Name: secondAtom, Type: in.Number()}, {Name: firstAtom, Type: in.String()}}, nil, nil, nil)
	d := in.get(obj)
	want := []PropId{{Name: firstAtom, Type: in.String()}, {Name: secondAtom, Type: in.Number()}}
	if diff := cmp.Diff(want, d.props); diff != "" {
		t.Fatalf("MakeObject must sort properties by Atom value (-want +got):\n%s", diff)
	}
}

func newTestQuery() (*QueryDatabase, *Interner, *common.AtomTable) {
	in, atoms := newTestInterner()
	return NewQueryDatabase(in), in, atoms
}

func TestApparentTypeOfLiteralWidensToPrimitive(t *testing.T) {
	q, in, _ := newTestQuery()
	lit := in.NumberLit(42)
	if q.ApparentType(lit) != in.Number() {
		t.Fatal("apparent type of a number literal must be number")
	}
}

func TestApparentTypeSelfApparentForAnyUnknownNever(t *testing.T) {
	q, in, _ := newTestQuery()
	for _, id := range []TypeId{in.Any(), in.Unknown(), in.Never()} {
		if q.ApparentType(id) != id {
			t.Fatalf("any/unknown/never must be self-apparent, got %v for %v", q.ApparentType(id), id)
		}
	}
}

func TestApparentTypeOfTypeParameterRecursesIntoConstraint(t *testing.T) {
	q, in, atoms := newTestQuery()
	tp := in.MakeTypeParameter(SymbolRef{Symbol: atoms.Intern("T")}, in.Number(), InvalidType)
	if q.ApparentType(tp) != in.Number() {
		t.Fatal("apparent type of a constrained type parameter must be its constraint's apparent type")
	}
}

func TestIsSubtypeReflexive(t *testing.T) {
	q, in, _ := newTestQuery()
	if !q.IsSubtype(in.Number(), in.Number()) {
		t.Fatal("subtype relation must be reflexive")
	}
}

func TestIsAssignableAnyIsUniversal(t *testing.T) {
	q, in, _ := newTestQuery()
	if !q.IsAssignable(in.Any(), in.String()) {
		t.Fatal("any must be assignable to anything")
	}
	if !q.IsAssignable(in.String(), in.Any()) {
		t.Fatal("anything must be assignable to any")
	}
}

func TestIsAssignableNeverIsBottom(t *testing.T) {
	q, in, _ := newTestQuery()
	if !q.IsAssignable(in.Never(), in.String()) {
		t.Fatal("never must be assignable to anything")
	}
}

func TestIsAssignableLiteralWidensToTarget(t *testing.T) {
	q, in, _ := newTestQuery()
	lit := in.NumberLit(1)
	if !q.IsAssignable(lit, in.Number()) {
		t.Fatal("a number literal must be assignable to number")
	}
}

func TestIsAssignableUnionSourceRequiresAllMembers(t *testing.T) {
	q, in, _ := newTestQuery()
	u := in.MakeUnion([]TypeId{in.Number(), in.Boolean()})
	if q.IsAssignable(u, in.Number()) {
		t.Fatal("a union source is only assignable if every member is")
	}
}

func TestIsAssignableUnionTargetAcceptsAnyMember(t *testing.T) {
	q, in, _ := newTestQuery()
	u := in.MakeUnion([]TypeId{in.Number(), in.String()})
	if !q.IsAssignable(in.String(), u) {
		t.Fatal("a union target accepts a source assignable to any one member")
	}
}

func TestIsAssignablePrivateBrandsMismatch(t *testing.T) {
	q, in, atoms := newTestQuery()
	prop := atoms.Intern("p")
	classA := in.MakeObject(ObjClassInstance, []PropId{{Name: prop, Type: in.Number(), Private: true, PrivateBand: 1}}, nil, nil, nil)
	classB := in.MakeObject(ObjClassInstance, []PropId{{Name: prop, Type: in.Number(), Private: true, PrivateBand: 2}}, nil, nil, nil)
	if q.IsAssignable(classA, classB) {
		t.Fatal("two class instances with different private-field brands must not be assignable")
	}
}

func TestIsAssignableObjectStructuralMatch(t *testing.T) {
	q, in, atoms := newTestQuery()
	x := atoms.Intern("x")
	wide := in.MakeObject(ObjAnonymous, []PropId{{Name: x, Type: in.Number()}}, nil, nil, nil)
	narrow := in.MakeObject(ObjAnonymous, []PropId{{Name: x, Type: in.NumberLit(1)}}, nil, nil, nil)
	if !q.IsAssignable(narrow, wide) {
		t.Fatal("an object with a narrower property type must be assignable to one with a wider property type")
	}
}

func TestInferResolvesCovariantCandidateFromArray(t *testing.T) {
	q, in, atoms := newTestQuery()
	infer := in.MakeInferTypeVariable(atoms.Intern("T"))
	template := in.MakeArray(infer)
	candidate := in.MakeArray(in.String())
	result := q.Infer(template, candidate)
	got, ok := result[infer]
	if !ok || got != in.String() {
		t.Fatalf("expected T to infer as string, got %v ok=%v", got, ok)
	}
}

func TestInferVariableNotInTemplateIsAbsentFromResult(t *testing.T) {
	q, in, atoms := newTestQuery()
	infer := in.MakeInferTypeVariable(atoms.Intern("U"))
	template := in.MakeArray(in.Number())
	candidate := in.MakeArray(in.Number())
	result := q.Infer(template, candidate)
	if _, touched := result[infer]; touched {
		t.Fatal("an infer variable never encountered in the template must not appear in the result")
	}
}

func TestInstantiateSubstitutesTypeParameter(t *testing.T) {
	q, in, atoms := newTestQuery()
	param := in.MakeTypeParameter(SymbolRef{Symbol: atoms.Intern("T")}, InvalidType, InvalidType)
	body := in.MakeArray(param)
	def := q.NewDef(func() TypeId { return body })
	result := q.Instantiate(def, []TypeId{param}, []TypeId{in.String()}, body)
	d := in.get(result)
	if d.kind != kArray || d.elem != in.String() {
		t.Fatal("instantiation must substitute the type parameter through the array element")
	}
}

func TestInstantiateMemoizesSameArgs(t *testing.T) {
	q, in, atoms := newTestQuery()
	param := in.MakeTypeParameter(SymbolRef{Symbol: atoms.Intern("T")}, InvalidType, InvalidType)
	body := in.MakeArray(param)
	def := q.NewDef(func() TypeId { return body })
	first := q.Instantiate(def, []TypeId{param}, []TypeId{in.String()}, body)
	second := q.Instantiate(def, []TypeId{param}, []TypeId{in.String()}, body)
	if first != second {
		t.Fatal("instantiating the same def with the same args must return the same TypeId")
	}
}

func TestPropertyLookupOnObject(t *testing.T) {
	q, in, atoms := newTestQuery()
	name := atoms.Intern("name")
	obj := in.MakeObject(ObjAnonymous, []PropId{{Name: name, Type: in.String()}}, nil, nil, nil)
	info, ok := q.Property(obj, name)
	if !ok || info.Type != in.String() {
		t.Fatal("Property must find a declared property on an object shape")
	}
}

func TestPropertyLookupMissing(t *testing.T) {
	q, in, atoms := newTestQuery()
	obj := in.MakeObject(ObjAnonymous, nil, nil, nil, nil)
	if _, ok := q.Property(obj, atoms.Intern("missing")); ok {
		t.Fatal("Property must report false for a name the shape does not have")
	}
}

func TestResolveLazyMemoizesAndHandlesCycle(t *testing.T) {
	q, in, _ := newTestQuery()
	var def DefId
	def = q.NewDef(func() TypeId {
		resolved, progressed := q.ResolveLazy(def)
		if progressed {
			t.Fatal("re-entrant ResolveLazy of the same DefId must report non-progress")
		}
		_ = resolved
		return in.String()
	})
	final, progressed := q.ResolveLazy(def)
	if !progressed || final != in.String() {
		t.Fatal("ResolveLazy must resolve a self-referential def to its eventual type without hanging")
	}
	again, _ := q.ResolveLazy(def)
	if again != in.String() {
		t.Fatal("a resolved DefId must return the cached final type on subsequent calls")
	}
}

func TestFormatPrimitivesAndUnion(t *testing.T) {
	q, in, atoms := newTestQuery()
	u := in.MakeUnion([]TypeId{in.Number(), in.String()})
	got := q.Format(u, atoms)
	if got != "number | string" {
		t.Fatalf("expected %q, got %q", "number | string", got)
	}
}

func TestFormatObjectShape(t *testing.T) {
	q, in, atoms := newTestQuery()
	name := atoms.Intern("x")
	obj := in.MakeObject(ObjAnonymous, []PropId{{Name: name, Type: in.Number()}}, nil, nil, nil)
	got := q.Format(obj, atoms)
	if got != "{ x: number }" {
		t.Fatalf("expected %q, got %q", "{ x: number }", got)
	}
}
