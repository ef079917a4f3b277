package solver

// Instantiate substitutes args for def's type parameters and interns the
// result, memoized by (def, args) so repeated instantiation with the same
// arguments returns the same TypeId (spec.md §4.5.6 `instantiate`,
// §4.5.1 "determinism via interning").
func (q *QueryDatabase) Instantiate(def DefId, params []TypeId, args []TypeId, body TypeId) TypeId {
	key := instKey{def: def, args: fingerprintArgs(args)}
	if cached, ok := q.instCache[key]; ok {
		return cached
	}
	sub := newSubstitution(params, args)
	result := q.substitute(body, sub, 0)
	q.instCache[key] = result
	return result
}

func fingerprintArgs(args []TypeId) string {
	b := make([]byte, 0, len(args)*5)
	for _, a := range args {
		b = append(b, byte(a), byte(a>>8), byte(a>>16), byte(a>>24), ',')
	}
	return string(b)
}

type substitution struct {
	from []TypeId
	to   []TypeId
}

func newSubstitution(params, args []TypeId) substitution {
	return substitution{from: params, to: args}
}

func (s substitution) lookup(param TypeId) (TypeId, bool) {
	for i, p := range s.from {
		if p == param {
			if i < len(s.to) {
				return s.to[i], true
			}
			return InvalidType, false
		}
	}
	return InvalidType, false
}

// substitute walks body replacing any TypeParameter TypeId found in sub
// with its argument, rebuilding composite types through the Interner's
// make* constructors so the result stays canonicalized (spec.md §4.5.6:
// "callers never construct TypeData directly").
func (q *QueryDatabase) substitute(t TypeId, sub substitution, depth int) TypeId {
	if depth > maxRelationDepth {
		return t
	}
	if replacement, ok := sub.lookup(t); ok {
		return replacement
	}
	in := q.interner
	d := in.get(t)

	switch d.kind {
	case kArray:
		return in.MakeArray(q.substitute(d.elem, sub, depth+1))
	case kReadonlyArray:
		return in.MakeReadonlyArray(q.substitute(d.elem, sub, depth+1))
	case kReadonlyType:
		return in.MakeReadonly(q.substitute(d.elem, sub, depth+1))
	case kKeyOf:
		return in.MakeKeyOf(q.substitute(d.elem, sub, depth+1))
	case kTuple:
		elems := make([]TupleElem, len(d.elems))
		for i, e := range d.elems {
			elems[i] = TupleElem{Label: e.Label, Type: q.substitute(e.Type, sub, depth+1), Optional: e.Optional, Rest: e.Rest}
		}
		return in.MakeTuple(elems)
	case kUnion:
		return in.MakeUnion(q.substituteAll(d.members, sub, depth))
	case kIntersection:
		return in.MakeIntersection(q.substituteAll(d.members, sub, depth))
	case kObject:
		props := make([]PropId, len(d.props))
		for i, p := range d.props {
			props[i] = PropId{Name: p.Name, Type: q.substitute(p.Type, sub, depth+1), Optional: p.Optional, Readonly: p.Readonly, Private: p.Private, PrivateBand: p.PrivateBand}
		}
		calls := make([]Signature, len(d.calls))
		for i, c := range d.calls {
			calls[i] = q.substituteSignature(c, sub, depth)
		}
		ctors := make([]Signature, len(d.ctors))
		for i, c := range d.ctors {
			ctors[i] = q.substituteSignature(c, sub, depth)
		}
		idx := make([]IndexInfo, len(d.idx))
		for i, ix := range d.idx {
			idx[i] = IndexInfo{KeyKind: ix.KeyKind, ValueTy: q.substitute(ix.ValueTy, sub, depth+1), Readonly: ix.Readonly}
		}
		return in.MakeObject(d.object, props, calls, ctors, idx)
	case kFunction:
		return in.MakeFunction(q.substituteSignature(d.sig, sub, depth))
	case kInstantiation:
		return in.MakeInstantiation(d.defId, q.substituteAll(d.args, sub, depth))
	case kIndexAccess:
		return in.MakeIndexAccess(q.substitute(d.objectTy, sub, depth+1), q.substitute(d.indexTy, sub, depth+1))
	case kConditional:
		check := q.substitute(d.condCheck, sub, depth+1)
		extends := q.substitute(d.condExtends, sub, depth+1)
		if d.distributed {
			if u := in.get(check); u.kind == kUnion {
				branches := make([]TypeId, len(u.members))
				for i, m := range u.members {
					branches[i] = q.evalConditional(m, extends, d.condTrue, d.condFalse, sub, depth)
				}
				return in.MakeUnion(branches)
			}
		}
		return q.evalConditional(check, extends, d.condTrue, d.condFalse, sub, depth)
	case kMapped:
		return in.MakeMapped(d.ref, q.substitute(d.constraint, sub, depth+1), q.substitute(d.mappedTemplate, sub, depth+1), d.mappedOptional, d.mappedReadonly)
	default:
		return t
	}
}

func (q *QueryDatabase) substituteAll(ts []TypeId, sub substitution, depth int) []TypeId {
	out := make([]TypeId, len(ts))
	for i, t := range ts {
		out[i] = q.substitute(t, sub, depth+1)
	}
	return out
}

func (q *QueryDatabase) substituteSignature(s Signature, sub substitution, depth int) Signature {
	params := make([]ParamInfo, len(s.Params))
	for i, p := range s.Params {
		params[i] = ParamInfo{Name: p.Name, Type: q.substitute(p.Type, sub, depth+1), Optional: p.Optional, Rest: p.Rest}
	}
	thisTy := s.ThisType
	if thisTy != InvalidType {
		thisTy = q.substitute(thisTy, sub, depth+1)
	}
	return Signature{TypeParams: s.TypeParams, Params: params, Return: q.substitute(s.Return, sub, depth+1), ThisType: thisTy}
}

// evalConditional resolves a conditional type once check/extends are
// substituted: if check is (already) assignable to extends under this
// binding, the result is the true branch, substituted with any `infer`
// bindings produced along the way (spec.md §4.5.4 "infer inside
// conditional types").
func (q *QueryDatabase) evalConditional(check, extends, trueB, falseB TypeId, outer substitution, depth int) TypeId {
	inferred := q.Infer(extends, check)
	if len(inferred) > 0 {
		combinedFrom := append([]TypeId(nil), outer.from...)
		combinedTo := append([]TypeId(nil), outer.to...)
		for k, v := range inferred {
			combinedFrom = append(combinedFrom, k)
			combinedTo = append(combinedTo, v)
		}
		outer = substitution{from: combinedFrom, to: combinedTo}
	}
	if q.IsAssignable(check, extends) {
		return q.substitute(trueB, outer, depth+1)
	}
	return q.substitute(falseB, outer, depth+1)
}
