package solver

// ApparentType computes the shape used for property/call/index lookup
// (spec.md §4.5.2). The rules are applied in the order the spec lists
// them; each case either returns itself or recurses into a strictly
// "wider" type, so the function always terminates.
func (q *QueryDatabase) ApparentType(t TypeId) TypeId {
	if cached, ok := q.apparent[t]; ok {
		return cached
	}
	result := q.computeApparent(t)
	q.apparent[t] = result
	return result
}

func (q *QueryDatabase) computeApparent(t TypeId) TypeId {
	in := q.interner
	d := in.get(t)
	switch d.kind {
	case kAny, kUnknown, kNever:
		return t
	case kNumberLit:
		return in.Number()
	case kStringLit:
		return in.String()
	case kBooleanLit:
		return in.Boolean()
	case kBigIntLit:
		return in.BigInt()
	case kTypeParameter:
		if d.constraint != InvalidType {
			return q.ApparentType(d.constraint)
		}
		return in.MakeObject(ObjAnonymous, nil, nil, nil, nil)
	case kUnion:
		return q.apparentOfUnion(d.members)
	case kIntersection:
		return q.apparentOfIntersection(d.members)
	case kLazy:
		if resolved, progressed := q.ResolveLazy(d.defId); progressed {
			return q.ApparentType(resolved)
		}
		return in.Unknown()
	case kReadonlyType:
		return q.ApparentType(d.elem)
	default:
		return t
	}
}

// apparentOfUnion builds the intersection of member apparent shapes: a
// property exists only if every member has it (spec.md §4.5.2).
func (q *QueryDatabase) apparentOfUnion(members []TypeId) TypeId {
	apps := make([]TypeId, len(members))
	for i, m := range members {
		apps[i] = q.ApparentType(m)
	}
	// The merged shape is represented lazily: Property() walks `apps`
	// directly for union/intersection apparent shapes rather than
	// materializing a synthetic Object, since the per-member property
	// sets may differ in ways a single sorted PropId list can't capture
	// without first computing the merge -- which is exactly what
	// Property() below does on demand.
	return q.interner.MakeIntersection(apps)
}

// apparentOfIntersection builds the union of member apparent shapes
// (spec.md §4.5.2: "intersection: the union of member shapes").
func (q *QueryDatabase) apparentOfIntersection(members []TypeId) TypeId {
	apps := make([]TypeId, len(members))
	for i, m := range members {
		apps[i] = q.ApparentType(m)
	}
	return q.interner.MakeUnion(apps)
}

// InvalidType marks "no constraint" / "no explicit this parameter" --
// TypeId 0 is otherwise a valid interned type (the first well-known
// primitive), so solver-internal code that means "absent" uses this named
// sentinel instead of a bare 0 for clarity at call sites like
// MakeTypeParameter(ref, InvalidType, InvalidType).
const InvalidType TypeId = ^TypeId(0)
