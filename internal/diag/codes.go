// Package diag provides the diagnostic record, the TS#### code catalogue,
// and the per-file diagnostic bag. It generalizes AILANG's
// internal/errors package (phase-prefixed string codes + ErrorRegistry) to
// the reference compiler's numeric code table (spec.md §6.3).
package diag

// Code is a TypeScript diagnostic code, e.g. 2322 for TS2322.
type Code uint32

// Category classifies how a diagnostic should be surfaced.
type Category int

const (
	CategoryWarning Category = iota
	CategoryError
	CategoryMessage
	CategorySuggestion
)

func (c Category) String() string {
	switch c {
	case CategoryError:
		return "error"
	case CategoryWarning:
		return "warning"
	case CategorySuggestion:
		return "suggestion"
	default:
		return "message"
	}
}

// Parser errors (1000s), resolution/declaration errors (2000s — matching
// the reference compiler's real TS2xxx band for type errors), flow errors
// (7000s-ish band in the reference compiler). Only the codes this checker
// actually emits are named; the full catalogue is generated from the
// canonical JSON in a real build and is out of scope here (spec.md §6.3).
const (
	TS1002 Code = 1002 // Unterminated string literal.
	TS1005 Code = 1005 // '...' expected.
	TS1109 Code = 1109 // Expression expected.
	TS1128 Code = 1128 // Declaration or statement expected.

	TS2300 Code = 2300 // Duplicate identifier.
	TS2304 Code = 2304 // Cannot find name.
	TS2322 Code = 2322 // Type 'X' is not assignable to type 'Y'.
	TS2339 Code = 2339 // Property 'X' does not exist on type 'Y'.
	TS2345 Code = 2345 // Argument of type 'X' is not assignable to parameter of type 'Y'.
	TS2365 Code = 2365 // Operator cannot be applied to types 'X' and 'Y'.
	TS2367 Code = 2367 // Comparison appears unintentional (disjoint types).
	TS2416 Code = 2416 // Class property not assignable to the same property in base.
	TS2322Excess Code = 2353 // Object literal may only specify known properties.
	TS2341 Code = 2341 // Property is private and only accessible within its class.
	TS2403 Code = 2403 // Subsequent variable declaration must be of the same type.
	TS2411 Code = 2411 // Private identifiers are not the same across declarations.
	TS2430 Code = 2430 // Interface incorrectly extends interface.
	TS2451 Code = 2451 // Cannot redeclare block-scoped variable.
	TS2502 Code = 2502 // Variable is referenced directly or indirectly in its own type annotation.
	TS2532 Code = 2532 // Object is possibly 'undefined'.
	TS2717 Code = 2717 // Subsequent property declarations must have the same type (interface merge conflict).
	TS2769 Code = 2769 // No overload matches this call.

	TS7005 Code = 7005 // Variable implicitly has an 'any' type.
	TS7027 Code = 7027 // Unreachable code detected.

	TS18004 Code = 18004 // Private field used outside of class declaration.
	TS18048 Code = 18048 // Value is possibly 'undefined'.
)

// CodeInfo documents a code the way AILANG's ErrorInfo does.
type CodeInfo struct {
	Code        Code
	Phase       string // "parse" | "bind" | "solve" | "check"
	Category    Category
	Description string
}

// Registry mirrors AILANG's ErrorRegistry: a lookup table from code
// to documentation, used by tooling (conformance diffing) rather than by
// the hot diagnostic path.
var Registry = map[Code]CodeInfo{
	TS1002: {TS1002, "parse", CategoryError, "Unterminated string literal"},
	TS1005: {TS1005, "parse", CategoryError, "Token expected"},
	TS1109: {TS1109, "parse", CategoryError, "Expression expected"},
	TS1128: {TS1128, "parse", CategoryError, "Declaration or statement expected"},

	TS2300: {TS2300, "bind", CategoryError, "Duplicate identifier"},
	TS2304: {TS2304, "check", CategoryError, "Cannot find name"},
	TS2322: {TS2322, "check", CategoryError, "Type is not assignable"},
	TS2339: {TS2339, "check", CategoryError, "Property does not exist on type"},
	TS2345: {TS2345, "check", CategoryError, "Argument is not assignable to parameter"},
	TS2365: {TS2365, "check", CategoryError, "Operator cannot be applied to types"},
	TS2367: {TS2367, "check", CategoryError, "Comparison appears unintentional"},
	TS2416: {TS2416, "check", CategoryError, "Class property type incompatible with base"},
	TS2322Excess: {TS2322Excess, "check", CategoryError, "Object literal may only specify known properties"},
	TS2341: {TS2341, "check", CategoryError, "Property is private"},
	TS2403: {TS2403, "bind", CategoryError, "Subsequent variable declaration must have the same type"},
	TS2411: {TS2411, "check", CategoryError, "Private identifiers are not the same across declarations"},
	TS2430: {TS2430, "bind", CategoryError, "Interface incorrectly extends interface"},
	TS2451: {TS2451, "bind", CategoryError, "Cannot redeclare block-scoped variable"},
	TS2502: {TS2502, "solve", CategoryError, "Circular type reference"},
	TS2532: {TS2532, "check", CategoryError, "Object is possibly undefined"},
	TS2717: {TS2717, "bind", CategoryError, "Subsequent property declarations must have the same type"},
	TS2769: {TS2769, "check", CategoryError, "No overload matches this call"},

	TS7005: {TS7005, "check", CategoryError, "Variable implicitly has an 'any' type"},
	TS7027: {TS7027, "check", CategoryWarning, "Unreachable code detected"},

	TS18004: {TS18004, "check", CategoryError, "Private field used outside of its declaring class"},
	TS18048: {TS18048, "check", CategoryError, "Value is possibly undefined"},
}

// IsParseCode mirrors AILANG's IsParserError.
func IsParseCode(c Code) bool { return Registry[c].Phase == "parse" }

// IsBindCode mirrors AILANG's IsModuleError.
func IsBindCode(c Code) bool { return Registry[c].Phase == "bind" }

// IsSolveCode mirrors AILANG's IsTypeError for solver-originated codes.
func IsSolveCode(c Code) bool { return Registry[c].Phase == "solve" }

// IsCheckCode reports whether c is emitted by the Checker layer.
func IsCheckCode(c Code) bool { return Registry[c].Phase == "check" }
