package diag

import (
	"fmt"
	"sort"

	"tsgo/internal/common"
)

// Diagnostic matches spec.md §3.4.
type Diagnostic struct {
	File     common.FileID
	Span     common.Span
	Code     Code
	Category Category
	Message  string
	Related  []Diagnostic
}

// Bag collects diagnostics for one file. Every layer (Parser, Binder,
// Solver via the Checker's compatibility gateway) pushes into a Bag rather
// than returning an error — "errors are collected, not thrown" (spec.md §7).
type Bag struct {
	file common.FileID
	diags []Diagnostic
}

// NewBag creates an empty diagnostic bag for a file.
func NewBag(file common.FileID) *Bag {
	return &Bag{file: file}
}

// Add appends a diagnostic at span with the given code/category/message.
func (b *Bag) Add(span common.Span, code Code, category Category, format string, args ...any) {
	b.diags = append(b.diags, Diagnostic{
		File:     b.file,
		Span:     span,
		Code:     code,
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	})
}

// AddRelated appends a diagnostic carrying related chained diagnostics
// (spec.md §4.5.6: "elaboration is an optional chained diagnostic").
func (b *Bag) AddRelated(span common.Span, code Code, category Category, related []Diagnostic, format string, args ...any) {
	b.diags = append(b.diags, Diagnostic{
		File:     b.file,
		Span:     span,
		Code:     code,
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Related:  related,
	})
}

// Error is a convenience wrapper for the common CategoryError case.
func (b *Bag) Error(span common.Span, code Code, format string, args ...any) {
	b.Add(span, code, CategoryError, format, args...)
}

// All returns every diagnostic recorded so far, unsorted.
func (b *Bag) All() []Diagnostic { return b.diags }

// Len reports how many diagnostics are in the bag.
func (b *Bag) Len() int { return len(b.diags) }

// SortDiagnostics orders diagnostics by (file, span.start, code) per
// spec.md §5's cross-file ordering guarantee.
func SortDiagnostics(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		return a.Code < b.Code
	})
}
