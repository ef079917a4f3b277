package binder

import "tsgo/internal/common"

// MergeAmbient runs the cross-file pass of spec.md §4.4 behavior 3: once
// every file in a program has been bound, ambient declarations (`declare`
// at the top level) that share a name across files describe the same
// global binding and must merge into one Symbol in the shared global
// scope, under the same compatibility rules same-scope merging uses
// (spec.md §3.3, §4.4 behavior 2).
//
// Non-ambient top-level declarations stay file-scoped: a `function f` in
// one module and a `function f` in another do not collide, since each
// lives under its own File scope. Only names a file itself flagged with
// `declare` are candidates here.
func (b *Binder) MergeAmbient(global *Scope, bindings []*FileBinding) {
	for _, fb := range bindings {
		names := orderedAmbientNames(fb)
		for _, name := range names {
			fileSym, ok := fb.File.lookupLocal(name)
			if !ok {
				continue
			}
			if existing, ok := global.lookupLocal(name); ok {
				for _, decl := range fileSym.Declarations {
					b.mergeInto(existing, fileSym.Flags, decl)
				}
				mergeMembers(existing, fileSym)
				continue
			}
			merged := &Symbol{ID: b.newSymbolID(), Name: name, Flags: fileSym.Flags, Parent: global}
			merged.Declarations = append(merged.Declarations, fileSym.Declarations...)
			mergeMembers(merged, fileSym)
			global.Symbols[name] = merged
		}
	}
}

func mergeMembers(dst, src *Symbol) {
	if len(src.Members) == 0 {
		return
	}
	members := dst.ensureMembers()
	for name, sym := range src.Members {
		if existing, ok := members[name]; ok {
			existing.Declarations = append(existing.Declarations, sym.Declarations...)
			existing.Flags |= sym.Flags
			continue
		}
		members[name] = sym
	}
}

// orderedAmbientNames returns fb's ambient names in a stable order so that
// diagnostics emitted during merging (which depend on encounter order) are
// deterministic across runs, unlike a bare map iteration.
func orderedAmbientNames(fb *FileBinding) []common.Atom {
	names := make([]common.Atom, 0, len(fb.Ambient))
	for name := range fb.Ambient {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}
