package binder

import "tsgo/internal/ast"

// typeNodesEqual is a syntactic (not semantic) equality check over type
// AST shapes, used only to decide whether two interface-merge property
// declarations conflict (spec.md §9). The Binder never consults the
// Solver, so this compares surface syntax rather than interned TypeIds --
// two spellings of an equivalent type (e.g. `number` vs `1 extends number
// ? number : number`) are treated as different here and left for the
// Checker/Solver to reconcile once Lowering runs.
func typeNodesEqual(a, b ast.TypeNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch at := a.(type) {
	case *ast.KeywordTypeNode:
		bt, ok := b.(*ast.KeywordTypeNode)
		return ok && at.Keyword == bt.Keyword
	case *ast.LiteralTypeNode:
		bt, ok := b.(*ast.LiteralTypeNode)
		return ok && at.Kind == bt.Kind && at.Raw == bt.Raw
	case *ast.TypeRefNode:
		bt, ok := b.(*ast.TypeRefNode)
		if !ok || at.Name != bt.Name || len(at.Args) != len(bt.Args) || len(at.Qualifier) != len(bt.Qualifier) {
			return false
		}
		for i := range at.Qualifier {
			if at.Qualifier[i] != bt.Qualifier[i] {
				return false
			}
		}
		for i := range at.Args {
			if !typeNodesEqual(at.Args[i], bt.Args[i]) {
				return false
			}
		}
		return true
	case *ast.ArrayTypeNode:
		bt, ok := b.(*ast.ArrayTypeNode)
		return ok && at.Readonly == bt.Readonly && typeNodesEqual(at.Elem, bt.Elem)
	case *ast.UnionTypeNode:
		bt, ok := b.(*ast.UnionTypeNode)
		return ok && typeNodeListEqual(at.Members, bt.Members)
	case *ast.IntersectionTypeNode:
		bt, ok := b.(*ast.IntersectionTypeNode)
		return ok && typeNodeListEqual(at.Members, bt.Members)
	case *ast.ParenTypeNode:
		return typeNodesEqual(at.Inner, b)
	default:
		if pb, ok := b.(*ast.ParenTypeNode); ok {
			return typeNodesEqual(a, pb.Inner)
		}
		// Remaining shapes (function/object/mapped/conditional/...) are
		// rare in interface-merge conflicts; fall back to a conservative
		// "different" so we never silently suppress a real conflict.
		return false
	}
}

func typeNodeListEqual(a, b []ast.TypeNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !typeNodesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
