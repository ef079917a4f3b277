package diag

import (
	"fmt"
	"strings"

	"tsgo/internal/common"
)

// FileResolver maps a FileID to the path/line-col translator the formatter
// needs. Program (internal/program) implements it.
type FileResolver interface {
	Path(common.FileID) string
	LineCol(common.FileID, uint32) (line, col int)
}

// Format renders one diagnostic as
// "<path>(<line>,<col>): error TS<code>: <message>" (spec.md §6.2).
func Format(d Diagnostic, files FileResolver) string {
	path := files.Path(d.File)
	line, col := files.LineCol(d.File, d.Span.Start)
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%d,%d): %s TS%d: %s", path, line, col, d.Category, d.Code, d.Message)
	for _, r := range d.Related {
		rline, rcol := files.LineCol(r.File, r.Span.Start)
		fmt.Fprintf(&b, "\n    %s(%d,%d): %s TS%d: %s", files.Path(r.File), rline, rcol, r.Category, r.Code, r.Message)
	}
	return b.String()
}

// FormatAll renders a sorted diagnostic slice one per line.
func FormatAll(ds []Diagnostic, files FileResolver) string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = Format(d, files)
	}
	return strings.Join(lines, "\n")
}
