// Package ast defines the node records produced by internal/parser,
// generalizing AILANG's internal/ast package (Node/Expr/Stmt/Type/
// Pattern interfaces over pointer node structs) from AILANG's expression
// grammar to a practical subset of TypeScript's: declarations, statements,
// expressions, and type-expression nodes.
//
// Node identity for the Binder's flow-node indexing (spec.md §3.3) is the
// NodeID assigned at construction time, not the pointer itself -- this
// keeps CFG maps content-addressable and stable across a tree rewrite step
// lowering would otherwise have to pointer-chase.
package ast

import "tsgo/internal/common"

// NodeID identifies an AST node for side-table lookups (symbol-of-node,
// type-of-node, flow-node-of-reference) without requiring every consumer
// to hold the node pointer.
type NodeID uint32

var idSeq NodeID

func nextID() NodeID {
	idSeq++
	return idSeq
}

// ResetIDs reseeds the global node counter; only the top-level Program
// driver calls this, between independent compilations (e.g. in tests),
// matching AILANG's per-run counters (internal/sid).
func ResetIDs() { idSeq = 0 }

// Node is the Base interface every AST node satisfies.
type Node interface {
	ID() NodeID
	Span() common.Span
}

type Base struct {
	id   NodeID
	span common.Span
}

func NewBase(span common.Span) Base {
	return Base{id: nextID(), span: span}
}

func (b Base) ID() NodeID          { return b.id }
func (b Base) Span() common.Span   { return b.span }

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is any top-level or block-scoped declaration node. Every Decl is
// also a Stmt (declarations may appear wherever a statement can).
type Decl interface {
	Stmt
	declNode()
}

// TypeNode is a type-expression AST node (the input to Lowering, spec.md
// §4.5's "Lowering: AST type nodes -> Solver type graph").
type TypeNode interface {
	Node
	typeNode()
}

// Pat is a binding pattern (identifier, object, array, rest).
type Pat interface {
	Node
	patNode()
}

// ---- File -------------------------------------------------------------

// File is one parsed source file.
type File struct {
	Base
	Path       string
	Statements []Stmt
}

// ---- Patterns -----------------------------------------------------------

type IdentPat struct {
	Base
	Name common.Atom
	Type TypeNode // optional annotation
}

func (p *IdentPat) patNode() {}

type ObjectPatProp struct {
	Key     common.Atom
	Value   Pat
	Default Expr
}

type ObjectPat struct {
	Base
	Props []ObjectPatProp
	Rest  Pat // optional "...rest"
}

func (p *ObjectPat) patNode() {}

type ArrayPat struct {
	Base
	Elems []Pat // nil element = elision
	Rest  Pat
}

func (p *ArrayPat) patNode() {}

// ---- Expressions --------------------------------------------------------

type Ident struct {
	Base
	Name common.Atom
}

func (e *Ident) exprNode() {}

type LiteralKind int

const (
	LitNumber LiteralKind = iota
	LitString
	LitBoolean
	LitNull
	LitUndefined
	LitBigInt
)

type Literal struct {
	Base
	Kind LiteralKind
	// Raw is the literal's source text (used for TypeData::NumberLit bit
	// pattern / StringLit Atom construction in Lowering).
	Raw string
}

func (e *Literal) exprNode() {}

// TemplateLiteral is `a${b}c` - parts alternate string chunks and Expr.
type TemplateLiteral struct {
	Base
	Quasis []string
	Exprs  []Expr
}

func (e *TemplateLiteral) exprNode() {}

type BinaryExpr struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) exprNode() {}

type LogicalExpr struct {
	Base
	Op    string // "&&" | "||" | "??"
	Left  Expr
	Right Expr
}

func (e *LogicalExpr) exprNode() {}

type UnaryExpr struct {
	Base
	Op     string
	Prefix bool
	Arg    Expr
}

func (e *UnaryExpr) exprNode() {}

type AssignExpr struct {
	Base
	Op     string // "=", "+=", ...
	Target Expr
	Value  Expr
}

func (e *AssignExpr) exprNode() {}

type ConditionalExpr struct {
	Base
	Test Expr
	Then Expr
	Else Expr
}

func (e *ConditionalExpr) exprNode() {}

type CallExpr struct {
	Base
	Callee    Expr
	TypeArgs  []TypeNode
	Args      []Expr
	Optional  bool // produced by `?.(`
}

func (e *CallExpr) exprNode() {}

type NewExpr struct {
	Base
	Callee   Expr
	TypeArgs []TypeNode
	Args     []Expr
}

func (e *NewExpr) exprNode() {}

type MemberExpr struct {
	Base
	Object   Expr
	Property common.Atom // set when !Computed
	Index    Expr        // set when Computed
	Computed bool
	Optional bool // `?.`
}

func (e *MemberExpr) exprNode() {}

// PrivateName is `#foo`, valid only as a MemberExpr.Property spelling or
// an `in` check's left-hand side.
type PrivateName struct {
	Base
	Name common.Atom
}

func (e *PrivateName) exprNode() {}

type ArrayLiteral struct {
	Base
	Elems []Expr // nil element = elision
	Spread []bool
}

func (e *ArrayLiteral) exprNode() {}

type ObjectProp struct {
	Key      common.Atom
	Computed Expr // set when the key is a computed expression
	Value    Expr
	Shorthand bool
	Spread   bool
}

type ObjectLiteral struct {
	Base
	Props []ObjectProp
}

func (e *ObjectLiteral) exprNode() {}

type FuncParam struct {
	Pattern  Pat
	Type     TypeNode
	Optional bool
	Default  Expr
	Rest     bool
}

type FunctionExpr struct {
	Base
	Name       common.Atom // empty for anonymous
	TypeParams []*TypeParamDecl
	Params     []*FuncParam
	ReturnType TypeNode
	Body       *BlockStmt // nil for arrow expression-bodied
	ExprBody   Expr
	Arrow      bool
	Async      bool
}

func (e *FunctionExpr) exprNode() {}

type TypeAssertion struct {
	Base
	Expr Expr
	Type TypeNode
	// Const is true for `expr as const`.
	Const bool
}

func (e *TypeAssertion) exprNode() {}

// NonNullExpr is `expr!`.
type NonNullExpr struct {
	Base
	Expr Expr
}

func (e *NonNullExpr) exprNode() {}

type TypeOfExpr struct {
	Base
	Expr Expr
}

func (e *TypeOfExpr) exprNode() {}

type SpreadExpr struct {
	Base
	Expr Expr
}

func (e *SpreadExpr) exprNode() {}

// ---- Statements -----------------------------------------------------------

type BlockStmt struct {
	Base
	Statements []Stmt
}

func (s *BlockStmt) stmtNode() {}

type ExprStmt struct {
	Base
	Expr Expr
}

func (s *ExprStmt) stmtNode() {}

type VarKind int

const (
	VarVar VarKind = iota
	VarLet
	VarConst
)

type VarDeclarator struct {
	Pattern Pat
	Init    Expr
}

type VarDecl struct {
	Base
	Kind    VarKind
	Declarators []*VarDeclarator
}

func (s *VarDecl) stmtNode() {}
func (s *VarDecl) declNode() {}

type IfStmt struct {
	Base
	Test Expr
	Then Stmt
	Else Stmt
}

func (s *IfStmt) stmtNode() {}

type WhileStmt struct {
	Base
	Test Expr
	Body Stmt
}

func (s *WhileStmt) stmtNode() {}

type ForStmt struct {
	Base
	Init   Stmt
	Test   Expr
	Update Expr
	Body   Stmt
}

func (s *ForStmt) stmtNode() {}

type ReturnStmt struct {
	Base
	Arg Expr // nil for bare `return;`
}

func (s *ReturnStmt) stmtNode() {}

type BreakStmt struct {
	Base
	Label common.Atom
}

func (s *BreakStmt) stmtNode() {}

type ContinueStmt struct {
	Base
	Label common.Atom
}

func (s *ContinueStmt) stmtNode() {}

type LabeledStmt struct {
	Base
	Label common.Atom
	Body  Stmt
}

func (s *LabeledStmt) stmtNode() {}

type SwitchCase struct {
	Test  Expr // nil for default
	Body  []Stmt
}

type SwitchStmt struct {
	Base
	Disc  Expr
	Cases []*SwitchCase
}

func (s *SwitchStmt) stmtNode() {}

type CatchClause struct {
	Param Pat // optional
	Type  TypeNode // rarely annotated; must be any/unknown if present
	Body  *BlockStmt
}

type TryStmt struct {
	Base
	Block   *BlockStmt
	Catch   *CatchClause
	Finally *BlockStmt
}

func (s *TryStmt) stmtNode() {}

type ThrowStmt struct {
	Base
	Arg Expr
}

func (s *ThrowStmt) stmtNode() {}

// MissingStmt is the Parser's recovery placeholder (spec.md §4.3: "the
// parser inserts a missing-node placeholder").
type MissingStmt struct {
	Base
}

func (s *MissingStmt) stmtNode() {}
func (s *MissingStmt) declNode() {}

// ---- Declarations ---------------------------------------------------------

type TypeParamDecl struct {
	Name       common.Atom
	Constraint TypeNode
	Default    TypeNode
}

type FuncDecl struct {
	Base
	Name       common.Atom
	TypeParams []*TypeParamDecl
	Params     []*FuncParam
	ReturnType TypeNode
	Body       *BlockStmt // nil for an ambient/overload signature
	Async      bool
}

func (d *FuncDecl) stmtNode() {}
func (d *FuncDecl) declNode() {}

type PropertyModifiers struct {
	Static    bool
	Readonly  bool
	Optional  bool
	Private   bool
	Protected bool
	Public    bool
	Abstract  bool
	Override  bool
}

type ClassField struct {
	Name      common.Atom
	Private   bool // `#name` syntax — nominal, not just an access modifier
	Modifiers PropertyModifiers
	Type      TypeNode
	Init      Expr
	Span      common.Span
}

type ClassMethod struct {
	Name      common.Atom
	Kind      string // "method" | "get" | "set" | "constructor"
	Modifiers PropertyModifiers
	Fn        *FunctionExpr
	Span      common.Span
}

type ClassDecl struct {
	Base
	Name       common.Atom
	TypeParams []*TypeParamDecl
	Extends    TypeNode // reference type, may carry type args
	Implements []TypeNode
	Fields     []*ClassField
	Methods    []*ClassMethod
	Abstract   bool
}

func (d *ClassDecl) stmtNode() {}
func (d *ClassDecl) declNode() {}

type InterfaceMember struct {
	Name     common.Atom
	Optional bool
	Readonly bool
	// Kind distinguishes a plain property from a method-shorthand member
	// and from call, construct and index members.
	Kind   string // "property" | "method" | "call" | "construct" | "index"
	Type   TypeNode // property type, or method signature's FunctionType
	Span   common.Span
}

type InterfaceDecl struct {
	Base
	Name       common.Atom
	TypeParams []*TypeParamDecl
	Extends    []TypeNode
	Members    []*InterfaceMember
}

func (d *InterfaceDecl) stmtNode() {}
func (d *InterfaceDecl) declNode() {}

type TypeAliasDecl struct {
	Base
	Name       common.Atom
	TypeParams []*TypeParamDecl
	Type       TypeNode
}

func (d *TypeAliasDecl) stmtNode() {}
func (d *TypeAliasDecl) declNode() {}

type EnumMember struct {
	Name  common.Atom
	Init  Expr // optional
}

type EnumDecl struct {
	Base
	Name    common.Atom
	Const   bool
	Members []*EnumMember
}

func (d *EnumDecl) stmtNode() {}
func (d *EnumDecl) declNode() {}

// NamespaceDecl is `namespace N { ... }` / `module "m" { ... }`.
type NamespaceDecl struct {
	Base
	Name  common.Atom
	Body  []Stmt
}

func (d *NamespaceDecl) stmtNode() {}
func (d *NamespaceDecl) declNode() {}

// ImportDecl models only the surface the Binder needs to merge ambient
// declarations across files (spec.md §4.4.3); module resolution itself is
// an external collaborator (spec.md §1).
type ImportBinding struct {
	Local    common.Atom
	Imported common.Atom // empty for default import
}

type ImportDecl struct {
	Base
	Module   string
	Default  common.Atom
	Bindings []ImportBinding
	Star     common.Atom // `import * as X`
}

func (d *ImportDecl) stmtNode() {}
func (d *ImportDecl) declNode() {}

type ExportDecl struct {
	Base
	Decl Decl // re-exported declaration, may be nil for `export { a, b }`
	Names []common.Atom
	Default Expr
}

func (d *ExportDecl) stmtNode() {}
func (d *ExportDecl) declNode() {}

// AmbientDecl wraps a declaration under `declare`, used by cross-file
// merging (spec.md §4.4.3).
type AmbientDecl struct {
	Base
	Inner Decl
}

func (d *AmbientDecl) stmtNode() {}
func (d *AmbientDecl) declNode() {}
