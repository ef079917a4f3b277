package checker

import (
	"tsgo/internal/binder"
	"tsgo/internal/solver"
)

// instantiateCallSite resolves a generic function's type arguments from the
// types actually passed at one call site (spec.md §4.6 scenario 4:
// "function id<T>(t: T): T; id(42)" must infer T=number), reusing
// Lowering's DefId/Instantiate machinery rather than re-deriving the
// function's signature from the AST a second time.
//
// Binding is a direct match only: a parameter whose declared type IS one of
// the signature's own type parameters (by TypeId identity) binds that type
// parameter to the corresponding argument's type. A type parameter buried
// inside a container (T[], Array<T>, a property of an object type, ...)
// does not infer and is instantiated as unknown; the type parameter's
// constraint and default are not consulted. Full structural unification is
// out of scope here.
func (c *Checker) instantiateCallSite(sym *binder.Symbol, sig solver.Signature, argTypes []solver.TypeId) solver.Signature {
	defID, defParams := c.low.DefOf(sym)
	if len(defParams) == 0 {
		return sig
	}
	body, ok := c.q.ResolveLazy(defID)
	if !ok {
		return sig
	}

	// sig.TypeParams is empty here -- a top-level generic function's
	// Signature is lowered with its type parameters already bound in its
	// own env rather than carried on the Signature itself (see lower.go's
	// lowerFuncSymbol) -- so matching is against defParams, the symbol's
	// own type-parameter TypeIds, not sig.TypeParams.
	bindings := make(map[solver.TypeId]solver.TypeId, len(defParams))
	for i, p := range sig.Params {
		if i >= len(argTypes) {
			break
		}
		if !isTypeParam(defParams, p.Type) {
			continue
		}
		if _, bound := bindings[p.Type]; !bound {
			bindings[p.Type] = argTypes[i]
		}
	}

	args := make([]solver.TypeId, len(defParams))
	for i, tp := range defParams {
		if v, ok := bindings[tp]; ok {
			args[i] = v
		} else {
			args[i] = c.in.Unknown()
		}
	}

	instantiated := c.q.Instantiate(defID, defParams, args, body)
	sigs := c.q.CallSignatures(instantiated)
	if len(sigs) == 0 {
		return sig
	}
	return sigs[0]
}

func isTypeParam(params []solver.TypeId, t solver.TypeId) bool {
	for _, p := range params {
		if p == t {
			return true
		}
	}
	return false
}
