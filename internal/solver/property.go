package solver

import "tsgo/internal/common"

// Property resolves name on t's apparent type (spec.md §4.5.6 `property`).
// Union targets require the property on every member (matching
// apparentOfUnion's "intersection of member shapes"); intersection
// targets accept it from any member.
func (q *QueryDatabase) Property(t TypeId, name common.Atom) (PropInfo, bool) {
	key := propKey{t: t, name: name}
	if cached, ok := q.propCache[key]; ok {
		if cached == nil {
			return PropInfo{}, false
		}
		return *cached, true
	}
	info, ok := q.computeProperty(t, name)
	if ok {
		q.propCache[key] = &info
	} else {
		q.propCache[key] = nil
	}
	return info, ok
}

func (q *QueryDatabase) computeProperty(t TypeId, name common.Atom) (PropInfo, bool) {
	apparent := q.ApparentType(t)
	in := q.interner
	d := in.get(apparent)

	switch d.kind {
	case kObject:
		if p, ok := findProp(d.props, name); ok {
			return PropInfo{Type: p.Type, Optional: p.Optional, Readonly: p.Readonly}, true
		}
		for _, ix := range d.idx {
			if ix.KeyKind == IndexString {
				return PropInfo{Type: ix.ValueTy, Optional: false, Readonly: ix.Readonly}, true
			}
		}
		return PropInfo{}, false
	// ApparentType encodes a union's shape as the intersection of its
	// members' apparent types, and an intersection's shape as their union.
	case kIntersection:
		return q.propertyAcrossAll(d.members, name)
	case kUnion:
		return q.propertyFromAny(d.members, name)
	default:
		return PropInfo{}, false
	}
}

func (q *QueryDatabase) propertyAcrossAll(members []TypeId, name common.Atom) (PropInfo, bool) {
	var result PropInfo
	types := make([]TypeId, 0, len(members))
	for i, m := range members {
		p, ok := q.Property(m, name)
		if !ok {
			return PropInfo{}, false
		}
		types = append(types, p.Type)
		if i == 0 {
			result = p
		} else {
			result.Optional = result.Optional || p.Optional
			result.Readonly = result.Readonly || p.Readonly
		}
	}
	result.Type = q.interner.MakeUnion(types)
	return result, true
}

func (q *QueryDatabase) propertyFromAny(members []TypeId, name common.Atom) (PropInfo, bool) {
	for _, m := range members {
		if p, ok := q.Property(m, name); ok {
			return p, true
		}
	}
	return PropInfo{}, false
}

// IndexInfoFor returns the index signature on t's apparent type matching
// keyKind, if any (spec.md §4.5.6 `index_info`).
func (q *QueryDatabase) IndexInfoFor(t TypeId, keyKind IndexKeyKind) (IndexInfo, bool) {
	d := q.interner.get(q.ApparentType(t))
	if d.kind != kObject {
		return IndexInfo{}, false
	}
	for _, ix := range d.idx {
		if ix.KeyKind == keyKind {
			return ix, true
		}
	}
	return IndexInfo{}, false
}

// CallSignatures returns t's apparent call signatures (spec.md §4.5.6
// `call_signatures`).
func (q *QueryDatabase) CallSignatures(t TypeId) []Signature {
	d := q.interner.get(q.ApparentType(t))
	if d.kind == kFunction {
		return []Signature{d.sig}
	}
	if d.kind == kObject {
		return d.calls
	}
	return nil
}

// ConstructSignatures returns t's apparent construct signatures.
func (q *QueryDatabase) ConstructSignatures(t TypeId) []Signature {
	d := q.interner.get(q.ApparentType(t))
	if d.kind == kObject {
		return d.ctors
	}
	return nil
}
