package common

import "fmt"

// CompilerOptions is the immutable-after-construction record of recognized
// compiler flags (spec.md §6.1). Only options with observable effect on the
// core (Scanner/Parser/Binder/Solver/Checker) are modeled as typed fields;
// options that only affect the out-of-scope emit/LSP front-ends are still
// accepted by name (see Unknown) so a driver can round-trip a tsconfig
// without the core rejecting it.
type CompilerOptions struct {
	Target         ScriptTarget
	Module         ModuleKind
	ModuleResolution ModuleResolutionKind
	Lib            []string
	Types          []string

	Strict                     bool
	StrictNullChecks           bool
	StrictFunctionTypes        bool
	StrictBindCallApply        bool
	StrictPropertyInitialization bool
	AlwaysStrict               bool
	NoImplicitAny              bool
	NoImplicitThis             bool
	UseUnknownInCatchVariables bool

	ExactOptionalPropertyTypes bool
	NoUncheckedIndexedAccess   bool
	NoImplicitOverride         bool
	NoImplicitReturns          bool
	NoFallthroughCasesInSwitch bool

	AllowJs bool
	CheckJs bool

	JSX             JSXEmit
	JSXFactory      string
	JSXFragmentFactory string
	JSXImportSource string

	ExperimentalDecorators bool
	EmitDecoratorMetadata  bool
	UseDefineForClassFields bool

	BaseUrl  string
	Paths    map[string][]string
	RootDirs []string

	EsModuleInterop             bool
	AllowSyntheticDefaultImports bool
	ResolveJsonModule           bool

	// Unknown carries any recognized-but-core-irrelevant option by name,
	// so a tsconfig.json can be loaded without the core needing to know
	// about emit/LSP-only flags (declaration, sourceMap, outDir, ...).
	Unknown map[string]any

	built bool
}

// Default returns the reference compiler's default option set for a
// freestanding (no tsconfig.json) invocation.
func Default() *CompilerOptions {
	o := &CompilerOptions{
		Target:           ES5,
		Module:           ModuleNone,
		ModuleResolution: ResolutionClassic,
		JSX:              JSXNone,
		Paths:            map[string][]string{},
		Unknown:          map[string]any{},
	}
	o.built = true
	return o
}

// WithStrict turns on `strict` and every sub-flag it implies unless the
// caller already set that sub-flag explicitly — mirrors the reference
// compiler's "strict implies its family, but an explicit false wins."
func (o *CompilerOptions) WithStrict(explicit map[string]bool) *CompilerOptions {
	o.Strict = true
	set := func(field *bool, name string, def bool) {
		if v, ok := explicit[name]; ok {
			*field = v
			return
		}
		*field = def
	}
	set(&o.StrictNullChecks, "strictNullChecks", true)
	set(&o.StrictFunctionTypes, "strictFunctionTypes", true)
	set(&o.StrictBindCallApply, "strictBindCallApply", true)
	set(&o.StrictPropertyInitialization, "strictPropertyInitialization", true)
	set(&o.AlwaysStrict, "alwaysStrict", true)
	set(&o.NoImplicitAny, "noImplicitAny", true)
	set(&o.NoImplicitThis, "noImplicitThis", true)
	set(&o.UseUnknownInCatchVariables, "useUnknownInCatchVariables", true)
	return o
}

// Validate reports an error for option combinations the reference compiler
// itself rejects (e.g. a baseUrl-less `paths`).
func (o *CompilerOptions) Validate() error {
	if len(o.Paths) > 0 && o.BaseUrl == "" && o.ModuleResolution == ResolutionClassic {
		return fmt.Errorf("compilerOptions: 'paths' requires 'baseUrl' to be set under classic module resolution")
	}
	if o.CheckJs && !o.AllowJs {
		o.AllowJs = true // reference compiler silently implies allowJs
	}
	return nil
}
