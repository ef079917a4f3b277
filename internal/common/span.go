package common

import "fmt"

// Span is a half-open range measured in UTF-16 code units from the start
// of a source file, matching the reference compiler's addressing so that
// line/column conversion and editor-protocol offsets agree with it.
type Span struct {
	Start uint32
	End   uint32
}

// Len reports the span width in UTF-16 code units.
func (s Span) Len() uint32 { return s.End - s.Start }

// Contains reports whether pos falls within [Start, End).
func (s Span) Contains(pos uint32) bool { return pos >= s.Start && pos < s.End }

func (s Span) String() string { return fmt.Sprintf("[%d,%d)", s.Start, s.End) }

// FileID identifies a source file within a Program. Dense, cheap to copy.
type FileID uint32

// Loc pairs a FileID with a Span for diagnostics that must name their file.
type Loc struct {
	File FileID
	Span Span
}
