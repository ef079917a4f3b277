package ast

import "tsgo/internal/common"

// The nodes below are the *type-expression* AST (spec.md §4.5's Lowering
// input): syntax like `string | number`, `keyof T`, `{ [K in T]: U }`.
// They are pure syntax -- Lowering (internal/lowering) is the only layer
// allowed to turn them into interned solver.TypeId values; nothing here
// carries semantic information.

// KeywordTypeNode covers any/unknown/void/undefined/null/never/object/
// string/number/boolean/symbol/bigint written as a keyword in type
// position.
type KeywordTypeNode struct {
	Base
	Keyword string
}

func (t *KeywordTypeNode) typeNode() {}

// TypeRefNode is `Name<Args...>` or a bare `Name`.
type TypeRefNode struct {
	Base
	Name common.Atom
	// Qualifier holds a dotted prefix for `A.B.C<T>` namespace-qualified
	// references; empty when Name is unqualified.
	Qualifier []common.Atom
	Args      []TypeNode
}

func (t *TypeRefNode) typeNode() {}

// LiteralTypeNode is a literal used as a type: `"a"`, `1`, `true`.
type LiteralTypeNode struct {
	Base
	Kind LiteralKind
	Raw  string
}

func (t *LiteralTypeNode) typeNode() {}

// TemplateLiteralTypeNode is `` `prefix${T}suffix` `` in type position.
type TemplateLiteralTypeNode struct {
	Base
	Quasis []string
	Types  []TypeNode
}

func (t *TemplateLiteralTypeNode) typeNode() {}

type UnionTypeNode struct {
	Base
	Members []TypeNode
}

func (t *UnionTypeNode) typeNode() {}

type IntersectionTypeNode struct {
	Base
	Members []TypeNode
}

func (t *IntersectionTypeNode) typeNode() {}

type ArrayTypeNode struct {
	Base
	Elem     TypeNode
	Readonly bool
}

func (t *ArrayTypeNode) typeNode() {}

type TupleElemNode struct {
	Label    common.Atom // optional
	Type     TypeNode
	Optional bool
	Rest     bool
}

type TupleTypeNode struct {
	Base
	Elems    []TupleElemNode
	Readonly bool
}

func (t *TupleTypeNode) typeNode() {}

// ObjectMemberNode mirrors ast.InterfaceMember but appears inline as
// `{ x: number }` type-literal syntax.
type ObjectMemberNode struct {
	Name     common.Atom
	Optional bool
	Readonly bool
	Kind     string // "property" | "method" | "call" | "construct" | "index"
	// IndexKeyType/IndexKeyName are set when Kind == "index".
	IndexKeyName common.Atom
	IndexKeyType TypeNode
	Type         TypeNode
}

type ObjectTypeNode struct {
	Base
	Members []ObjectMemberNode
}

func (t *ObjectTypeNode) typeNode() {}

type FunctionTypeNode struct {
	Base
	TypeParams []*TypeParamDecl
	Params     []*FuncParam
	ReturnType TypeNode
}

func (t *FunctionTypeNode) typeNode() {}

type ConstructorTypeNode struct {
	Base
	TypeParams []*TypeParamDecl
	Params     []*FuncParam
	ReturnType TypeNode
}

func (t *ConstructorTypeNode) typeNode() {}

// TypeQueryNode is `typeof x` in type position.
type TypeQueryNode struct {
	Base
	Name common.Atom
}

func (t *TypeQueryNode) typeNode() {}

// KeyOfTypeNode is `keyof T`.
type KeyOfTypeNode struct {
	Base
	Operand TypeNode
}

func (t *KeyOfTypeNode) typeNode() {}

// IndexedAccessTypeNode is `T[K]`.
type IndexedAccessTypeNode struct {
	Base
	Object TypeNode
	Index  TypeNode
}

func (t *IndexedAccessTypeNode) typeNode() {}

// ReadonlyTypeNode is `readonly T[]` or the readonly modifier applied to a
// tuple/mapped type, reified per spec.md §3.2's ReadonlyType variant.
type ReadonlyTypeNode struct {
	Base
	Operand TypeNode
}

func (t *ReadonlyTypeNode) typeNode() {}

// MappedTypeNode is `{ [K in T]: U }`, optionally with +/-readonly and
// +/-optional modifiers and an `as` name-remapping clause.
type MappedTypeNode struct {
	Base
	TypeParamName common.Atom
	Constraint    TypeNode
	NameType      TypeNode // optional `as` clause
	Template      TypeNode
	ReadonlyMod   int // 0 none, +1 "+readonly"/"readonly", -1 "-readonly"
	OptionalMod   int // 0 none, +1 "+?"/"?", -1 "-?"
}

func (t *MappedTypeNode) typeNode() {}

// ConditionalTypeNode is `Check extends Extends ? True : False`.
type ConditionalTypeNode struct {
	Base
	Check   TypeNode
	Extends TypeNode
	True    TypeNode
	False   TypeNode
}

func (t *ConditionalTypeNode) typeNode() {}

// InferTypeNode is `infer T` appearing inside a conditional type's Extends
// clause.
type InferTypeNode struct {
	Base
	Name       common.Atom
	Constraint TypeNode // optional `infer T extends C`
}

func (t *InferTypeNode) typeNode() {}

// ParenTypeNode preserves explicit parenthesization so the parser's
// precedence climbing for `|`/`&`/function types round-trips; Lowering
// simply unwraps it.
type ParenTypeNode struct {
	Base
	Inner TypeNode
}

func (t *ParenTypeNode) typeNode() {}

// UniqueSymbolTypeNode is `unique symbol`.
type UniqueSymbolTypeNode struct {
	Base
}

func (t *UniqueSymbolTypeNode) typeNode() {}

// TypePredicateNode is `x is T` used as a function's return-type
// annotation (a user-defined type guard).
type TypePredicateNode struct {
	Base
	ParamName common.Atom
	Asserts   bool
	Type      TypeNode // nil for bare `asserts x`
}

func (t *TypePredicateNode) typeNode() {}
