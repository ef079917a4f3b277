package solver

// inferVariance tracks the position an InferTypeVariable was encountered
// in, so candidates collected in contravariant position combine with
// intersection instead of union (spec.md §4.5.4).
type inferVariance uint8

const (
	varianceCovariant inferVariance = iota
	varianceContravariant
	varianceInvariant
)

// InferenceContext holds the in-progress candidate sets for one `infer`
// walk (spec.md §4.5.4: "template-vs-candidate lockstep walk"). Keyed by
// the InferTypeVariable's binding name since two `infer T` occurrences of
// the same name in one conditional extends-clause unify to one variable.
type InferenceContext struct {
	q          *QueryDatabase
	candidates map[TypeId][]inferCandidate
}

type inferCandidate struct {
	t        TypeId
	variance inferVariance
}

func newInferenceContext(q *QueryDatabase) *InferenceContext {
	return &InferenceContext{q: q, candidates: make(map[TypeId][]inferCandidate)}
}

// Infer walks template against candidate, recording every InferTypeVariable
// binding it finds, then resolves each to a single TypeId (spec.md §4.5.4
// rule 4: covariant candidates union, contravariant intersect, invariant
// candidates must all be identical or inference fails to Unknown).
func (q *QueryDatabase) Infer(template, candidate TypeId) map[TypeId]TypeId {
	ctx := newInferenceContext(q)
	ctx.walk(template, candidate, varianceCovariant, 0)
	return ctx.resolve()
}

func (ctx *InferenceContext) walk(template, candidate TypeId, variance inferVariance, depth int) {
	if depth > maxRelationDepth {
		return
	}
	in := ctx.q.interner
	td := in.get(template)

	if td.kind == kInferTypeVariable {
		ctx.candidates[template] = append(ctx.candidates[template], inferCandidate{t: candidate, variance: variance})
		return
	}

	cd := in.get(candidate)

	switch td.kind {
	case kArray, kReadonlyArray:
		if cd.kind == kArray || cd.kind == kReadonlyArray {
			ctx.walk(td.elem, cd.elem, variance, depth+1)
		}
	case kTuple:
		if cd.kind == kTuple {
			n := len(td.elems)
			if len(cd.elems) < n {
				n = len(cd.elems)
			}
			for i := 0; i < n; i++ {
				ctx.walk(td.elems[i].Type, cd.elems[i].Type, variance, depth+1)
			}
		}
	case kUnion:
		// Distribute: each template member infers independently against
		// the whole candidate (spec.md §4.5.4 "infer T inside conditional
		// types... distributed over union candidates" covers the
		// conditional-type case directly; this union-template case gives
		// the same per-member treatment when `infer` sits inside a plain
		// union template).
		for _, m := range td.members {
			ctx.walk(m, candidate, variance, depth+1)
		}
	case kIntersection:
		for _, m := range td.members {
			ctx.walk(m, candidate, variance, depth+1)
		}
	case kObject:
		if cd.kind == kObject {
			for _, tp := range td.props {
				if cp, ok := findProp(cd.props, tp.Name); ok {
					ctx.walk(tp.Type, cp.Type, variance, depth+1)
				}
			}
			for i, tc := range td.calls {
				if i < len(cd.calls) {
					ctx.walkSignature(tc, cd.calls[i], variance, depth+1)
				}
			}
		}
	case kFunction:
		if cd.kind == kFunction {
			ctx.walkSignature(td.sig, cd.sig, variance, depth+1)
		}
	case kInstantiation:
		if cd.kind == kInstantiation && td.defId == cd.defId {
			n := len(td.args)
			if len(cd.args) < n {
				n = len(cd.args)
			}
			for i := 0; i < n; i++ {
				ctx.walk(td.args[i], cd.args[i], variance, depth+1)
			}
		}
	case kConditional:
		// infer T inside the extends-clause of a nested conditional type:
		// walk check/extends/true/false branches so a `T extends (infer U)[]
		// ? U : never` buried inside another conditional still binds.
		if cd.kind == kConditional {
			ctx.walk(td.condCheck, cd.condCheck, variance, depth+1)
			ctx.walk(td.condExtends, cd.condExtends, variance, depth+1)
			ctx.walk(td.condTrue, cd.condTrue, variance, depth+1)
			ctx.walk(td.condFalse, cd.condFalse, variance, depth+1)
		}
	case kReadonlyType:
		if cd.kind == kReadonlyType {
			ctx.walk(td.elem, cd.elem, variance, depth+1)
		} else {
			ctx.walk(td.elem, candidate, variance, depth+1)
		}
	case kKeyOf:
		if cd.kind == kKeyOf {
			ctx.walk(td.elem, cd.elem, variance, depth+1)
		}
	case kMapped:
		if cd.kind == kMapped {
			ctx.walk(td.mappedTemplate, cd.mappedTemplate, variance, depth+1)
		}
	}
}

func (ctx *InferenceContext) walkSignature(template, candidate Signature, variance inferVariance, depth int) {
	// Parameters flip variance (contravariant position); the return type
	// keeps the ambient variance (covariant position), per spec.md §4.5.4
	// "parameter positions flip variance, return position does not."
	paramVariance := flip(variance)
	n := len(template.Params)
	if len(candidate.Params) < n {
		n = len(candidate.Params)
	}
	for i := 0; i < n; i++ {
		ctx.walk(template.Params[i].Type, candidate.Params[i].Type, paramVariance, depth+1)
	}
	ctx.walk(template.Return, candidate.Return, variance, depth+1)
}

func flip(v inferVariance) inferVariance {
	switch v {
	case varianceCovariant:
		return varianceContravariant
	case varianceContravariant:
		return varianceCovariant
	default:
		return varianceInvariant
	}
}

// resolve collapses each InferTypeVariable's candidate list to one TypeId
// (spec.md §4.5.4 rule 4). An infer variable carries no constraint or
// default, so no fallback consults one: a variable the walk never reached
// is absent from the result, and one with no usable candidate is Unknown.
func (ctx *InferenceContext) resolve() map[TypeId]TypeId {
	in := ctx.q.interner
	out := make(map[TypeId]TypeId, len(ctx.candidates))
	for variable, cands := range ctx.candidates {
		if len(cands) == 0 {
			out[variable] = in.Unknown()
			continue
		}
		out[variable] = ctx.resolveOne(cands)
	}
	return out
}

func (ctx *InferenceContext) resolveOne(cands []inferCandidate) TypeId {
	in := ctx.q.interner
	var covariant, contravariant, invariant []TypeId
	for _, c := range cands {
		switch c.variance {
		case varianceCovariant:
			covariant = append(covariant, c.t)
		case varianceContravariant:
			contravariant = append(contravariant, c.t)
		case varianceInvariant:
			invariant = append(invariant, c.t)
		}
	}
	if len(invariant) > 0 {
		first := invariant[0]
		for _, t := range invariant[1:] {
			if !ctx.q.Identical(first, t) {
				return in.Unknown() // conflicting invariant candidates: inference fails
			}
		}
		return first
	}
	if len(contravariant) > 0 {
		return in.MakeIntersection(contravariant)
	}
	if len(covariant) > 0 {
		return in.MakeUnion(covariant)
	}
	return in.Unknown()
}
