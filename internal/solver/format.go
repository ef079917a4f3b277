package solver

import (
	"fmt"
	"strconv"
	"strings"

	"tsgo/internal/common"
)

// maxFormatDepth bounds the display walk so a self-referential type
// (Lazy wrapping itself through a cycle) renders as `...` instead of
// hanging (spec.md §6.2 "bounded depth/truncation").
const maxFormatDepth = 8

// Format renders t for diagnostics and hover text (spec.md §4.5.6
// `format`). It is the only query-boundary function whose output is
// meant for humans rather than further computation.
func (q *QueryDatabase) Format(t TypeId, atoms *common.AtomTable) string {
	return q.format(t, atoms, 0)
}

func (q *QueryDatabase) format(t TypeId, atoms *common.AtomTable, depth int) string {
	if depth > maxFormatDepth {
		return "..."
	}
	in := q.interner
	d := in.get(t)

	switch d.kind {
	case kAny:
		return "any"
	case kUnknown:
		return "unknown"
	case kVoid:
		return "void"
	case kUndefined:
		return "undefined"
	case kNull:
		return "null"
	case kNever:
		return "never"
	case kNumberKw:
		return "number"
	case kStringKw:
		return "string"
	case kBooleanKw:
		return "boolean"
	case kBigIntKw:
		return "bigint"
	case kObjectKw:
		return "object"
	case kSymbolKw:
		return "symbol"
	case kNumberLit:
		return strconv.FormatFloat(d.numberLit, 'g', -1, 64)
	case kStringLit:
		return fmt.Sprintf("%q", atoms.Text(d.stringLit))
	case kBooleanLit:
		return strconv.FormatBool(d.boolLit)
	case kBigIntLit:
		return d.bigIntLit + "n"
	case kArray:
		return q.format(d.elem, atoms, depth+1) + "[]"
	case kReadonlyArray:
		return "readonly " + q.format(d.elem, atoms, depth+1) + "[]"
	case kReadonlyType:
		return "readonly " + q.format(d.elem, atoms, depth+1)
	case kKeyOf:
		return "keyof " + q.format(d.elem, atoms, depth+1)
	case kTuple:
		parts := make([]string, len(d.elems))
		for i, e := range d.elems {
			s := q.format(e.Type, atoms, depth+1)
			if e.Rest {
				s = "..." + s
			}
			if e.Optional {
				s += "?"
			}
			if e.Label != 0 {
				s = atoms.Text(e.Label) + ": " + s
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case kUnion:
		return q.joinMembers(d.members, " | ", atoms, depth)
	case kIntersection:
		return q.joinMembers(d.members, " & ", atoms, depth)
	case kTypeParameter:
		return atoms.Text(d.ref.Symbol)
	case kTypeQuery:
		return "typeof " + atoms.Text(d.ref.Symbol)
	case kUniqueSymbol:
		return "unique symbol"
	case kInstantiation:
		args := make([]string, len(d.args))
		for i, a := range d.args {
			args[i] = q.format(a, atoms, depth+1)
		}
		return fmt.Sprintf("Def%d<%s>", d.defId, strings.Join(args, ", "))
	case kIndexAccess:
		return q.format(d.objectTy, atoms, depth+1) + "[" + q.format(d.indexTy, atoms, depth+1) + "]"
	case kConditional:
		return fmt.Sprintf("%s extends %s ? %s : %s",
			q.format(d.condCheck, atoms, depth+1), q.format(d.condExtends, atoms, depth+1),
			q.format(d.condTrue, atoms, depth+1), q.format(d.condFalse, atoms, depth+1))
	case kInferTypeVariable:
		return "infer " + atoms.Text(d.inferBinding)
	case kMapped:
		return fmt.Sprintf("{ [%s in keyof %s]: %s }", atoms.Text(d.ref.Symbol), q.format(d.constraint, atoms, depth+1), q.format(d.mappedTemplate, atoms, depth+1))
	case kLazy:
		if resolved, progressed := q.ResolveLazy(d.defId); progressed {
			return q.format(resolved, atoms, depth+1)
		}
		return "..."
	case kFunction:
		return q.formatSignature(d.sig, atoms, depth)
	case kObject:
		return q.formatObject(d, atoms, depth)
	default:
		return "?"
	}
}

func (q *QueryDatabase) joinMembers(members []TypeId, sep string, atoms *common.AtomTable, depth int) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = q.format(m, atoms, depth+1)
	}
	return strings.Join(parts, sep)
}

func (q *QueryDatabase) formatSignature(s Signature, atoms *common.AtomTable, depth int) string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		name := atoms.Text(p.Name)
		if p.Rest {
			name = "..." + name
		}
		suffix := ""
		if p.Optional {
			suffix = "?"
		}
		params[i] = fmt.Sprintf("%s%s: %s", name, suffix, q.format(p.Type, atoms, depth+1))
	}
	return fmt.Sprintf("(%s) => %s", strings.Join(params, ", "), q.format(s.Return, atoms, depth+1))
}

func (q *QueryDatabase) formatObject(d *typeData, atoms *common.AtomTable, depth int) string {
	if len(d.props) == 0 && len(d.calls) == 0 && len(d.ctors) == 0 && len(d.idx) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(d.props)+len(d.calls))
	for _, c := range d.calls {
		parts = append(parts, q.formatSignature(c, atoms, depth+1))
	}
	for _, p := range d.props {
		name := atoms.Text(p.Name)
		if p.Private {
			name = "#" + name
		}
		suffix := ""
		if p.Optional {
			suffix = "?"
		}
		ro := ""
		if p.Readonly {
			ro = "readonly "
		}
		parts = append(parts, fmt.Sprintf("%s%s%s: %s", ro, name, suffix, q.format(p.Type, atoms, depth+1)))
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}
