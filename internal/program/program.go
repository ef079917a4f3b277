// Package program is the top-level pipeline orchestrator (spec.md §5): it
// owns the per-program state the rest of the core only borrows slices of --
// the shared Interner/QueryDatabase/Lowerer, the global ambient scope, and
// one fileState per source file -- and drives every file through
// Scan(implicit)->Parse->Bind->Lower->Check in the right order, following
// AILANG's internal/pipeline.Run: a single entry point that threads a
// Config through sequential phases and collects one Result, adapted here so
// "phases" are the Scanner/Parser/Binder/Solver/Checker stages spec.md §4
// names instead of AILANG's parse/elaborate/typecheck/lower/link stages.
package program

import (
	"fmt"
	"sort"

	"tsgo/internal/ast"
	"tsgo/internal/binder"
	"tsgo/internal/checker"
	"tsgo/internal/common"
	"tsgo/internal/diag"
	"tsgo/internal/libs"
	"tsgo/internal/lowering"
	"tsgo/internal/parser"
	"tsgo/internal/solver"
)

// fileState is one source file's state at every pipeline stage. Lib files
// and user files are both represented this way (spec.md §6.1: "the core
// consumes [lib files] via the same path-addressed source-file interface").
type fileState struct {
	source  *common.SourceFile
	ast     *ast.File
	bag     *diag.Bag
	binding *binder.FileBinding
}

// Program holds everything that outlives a single file: the shared
// Interner/QueryDatabase/Lowerer (spec.md §5: "only the per-file
// memoization sets are file-scoped") and the global scope ambient
// declarations merge into.
type Program struct {
	opts   *common.CompilerOptions
	atoms  *common.AtomTable
	global *binder.Scope
	b      *binder.Binder
	in     *solver.Interner
	q      *solver.QueryDatabase
	low    *lowering.Lowerer

	libManifest *libs.Manifest
	files       []*fileState
	byID        map[common.FileID]*fileState
	nextID      common.FileID

	// mergeBag collects diagnostics MergeAmbient reports, which by nature
	// span two or more files at once and so cannot be attributed to any
	// single one -- bucketed under the reserved FileID 0 instead (the
	// first real file gets FileID 1; see New and Path).
	mergeBag *diag.Bag
}

// New constructs an empty Program over opts (nil for the reference
// compiler's defaults). One Binder is shared across every file added to
// this Program so that SymbolIds stay unique program-wide -- the shared
// QueryDatabase memoizes per-symbol results keyed on that ID (spec.md §5:
// "only the per-file memoization sets are file-scoped").
func New(opts *common.CompilerOptions) *Program {
	if opts == nil {
		opts = common.Default()
	}
	atoms := common.NewAtomTable()
	in := solver.NewInterner(atoms)
	mergeBag := diag.NewBag(0)
	p := &Program{
		opts:        opts,
		atoms:       atoms,
		global:      &binder.Scope{Kind: binder.ScopeGlobal, Symbols: map[common.Atom]*binder.Symbol{}},
		b:           binder.New(atoms, mergeBag),
		in:          in,
		q:           solver.NewQueryDatabase(in),
		libManifest: libs.Default(),
		mergeBag:    mergeBag,
		nextID:      1,
	}
	p.low = lowering.New(p.in, p.q, p.atoms)
	p.byID = make(map[common.FileID]*fileState)
	return p
}

// LoadLibs parses and binds the requested lib.d.ts files (dependency-first,
// per the manifest's reference graph) before any user file, so their
// ambient declarations are visible to every file MergeAmbient later pulls
// in. An empty names list uses opts.Lib, falling back to just "es5" if that
// is also empty (spec.md §6.1's minimal ambient surface for a freestanding
// run).
func (p *Program) LoadLibs(names []string) error {
	if len(names) == 0 {
		names = p.opts.Lib
	}
	if len(names) == 0 {
		names = []string{"es5"}
	}
	ordered, err := p.libManifest.ResolveSet(names)
	if err != nil {
		return fmt.Errorf("resolve libs: %w", err)
	}
	for _, name := range ordered {
		raw, err := p.libManifest.Content(name)
		if err != nil {
			return fmt.Errorf("load lib %q: %w", name, err)
		}
		if _, err := p.addSource("lib."+name+".d.ts", raw); err != nil {
			return fmt.Errorf("lib %q: %w", name, err)
		}
	}
	return nil
}

// AddFile decodes, scans, parses, and binds one source file, returning its
// FileID. Diagnostics from any stage accumulate in that file's own Bag;
// call Check to run the Checker over every file added so far and collect
// them all.
func (p *Program) AddFile(path string, raw []byte) (common.FileID, error) {
	return p.addSource(path, raw)
}

func (p *Program) addSource(path string, raw []byte) (common.FileID, error) {
	id := p.nextID
	p.nextID++
	sf, err := common.NewSourceFile(id, path, raw)
	if err != nil {
		return 0, err
	}
	bag := diag.NewBag(id)
	pr := parser.New(sf.Text, p.atoms, bag, p.opts)
	file := pr.ParseFile(path)

	p.b.SetBag(bag)
	fs := &fileState{source: sf, ast: file, bag: bag}
	fs.binding = p.b.BindFile(p.global, file)
	p.files = append(p.files, fs)
	p.byID[id] = fs
	return id, nil
}

// Check runs MergeAmbient across every bound file (spec.md §4.4 behavior
// 3), then checks each file's AST in the order it was added, returning
// every diagnostic from every stage sorted per spec.md §5's cross-file
// ordering guarantee (file, span start, code).
func (p *Program) Check() []diag.Diagnostic {
	bindings := make([]*binder.FileBinding, len(p.files))
	for i, fs := range p.files {
		bindings[i] = fs.binding
	}
	p.b.SetBag(p.mergeBag)
	p.b.MergeAmbient(p.global, bindings)

	for _, fs := range p.files {
		c := checker.New(p.in, p.q, p.low, p.atoms, fs.bag, fs.binding)
		c.CheckFile(fs.ast)
	}

	all := append([]diag.Diagnostic(nil), p.mergeBag.All()...)
	for _, fs := range p.files {
		all = append(all, fs.bag.All()...)
	}
	diag.SortDiagnostics(all)
	return all
}

// Path implements diag.FileResolver.
func (p *Program) Path(id common.FileID) string {
	if id == 0 {
		return "<merged ambient declarations>"
	}
	if fs, ok := p.byID[id]; ok {
		return fs.source.Path
	}
	return "<unknown>"
}

// LineCol implements diag.FileResolver.
func (p *Program) LineCol(id common.FileID, unitOffset uint32) (int, int) {
	if fs, ok := p.byID[id]; ok {
		return fs.source.LineCol(unitOffset)
	}
	return 1, 1
}

// Files returns every file path added so far, in addition order, for a
// driver that wants to report "N files checked" or similar.
func (p *Program) Files() []string {
	paths := make([]string, len(p.files))
	for i, fs := range p.files {
		paths[i] = fs.source.Path
	}
	return paths
}

// SortedDiagnosticCodes is a small test/debug helper returning just the
// codes of ds in order, useful for golden-style assertions without pulling
// in the full Diagnostic struct's message text.
func SortedDiagnosticCodes(ds []diag.Diagnostic) []diag.Code {
	codes := make([]diag.Code, len(ds))
	for i, d := range ds {
		codes[i] = d.Code
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
