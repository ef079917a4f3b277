package common

import (
	"bytes"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// SourceFile is a decoded source file: UTF-8 text for the scanner to walk,
// plus a parallel UTF-16 code-unit buffer so spans (which the spec measures
// in UTF-16 code units, matching the reference compiler and LSP consumers)
// can be translated back to byte offsets for diagnostics rendering.
type SourceFile struct {
	ID       FileID
	Path     string
	Text     string   // decoded UTF-8
	Units    []uint16 // UTF-16 code units of Text, 1:1 with Span coordinates
	byteOfUnit []int  // Units[i] starts at byte byteOfUnit[i] in Text
}

// NewSourceFile decodes raw bytes (UTF-8, UTF-16LE, or UTF-16BE, with or
// without a BOM) per spec.md §6.1 and builds the unit/byte index used by
// Span translation.
func NewSourceFile(id FileID, path string, raw []byte) (*SourceFile, error) {
	text, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sf := &SourceFile{ID: id, Path: path, Text: text}
	sf.buildIndex()
	return sf, nil
}

func decode(raw []byte) (string, error) {
	switch {
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		return decodeUTF16(raw[2:], unicode.LittleEndian)
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		return decodeUTF16(raw[2:], unicode.BigEndian)
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return string(raw[3:]), nil
	default:
		if utf8.Valid(raw) {
			return string(raw), nil
		}
		// Fall back to UTF-16LE without BOM: some editors/tools write it bare.
		if len(raw)%2 == 0 {
			if s, err := decodeUTF16(raw, unicode.LittleEndian); err == nil {
				return s, nil
			}
		}
		return "", fmt.Errorf("source is neither valid UTF-8 nor UTF-16")
	}
}

func decodeUTF16(raw []byte, endian unicode.Endianness) (string, error) {
	dec := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (sf *SourceFile) buildIndex() {
	runes := []rune(sf.Text)
	units := utf16.Encode(runes)
	sf.Units = units

	byteOfUnit := make([]int, 0, len(units)+1)
	byteOff := 0
	ri := 0
	for _, r := range runes {
		rsize := utf8.RuneLen(r)
		if r > 0xFFFF {
			// surrogate pair: two code units share this rune's byte span
			byteOfUnit = append(byteOfUnit, byteOff)
			byteOfUnit = append(byteOfUnit, byteOff)
		} else {
			byteOfUnit = append(byteOfUnit, byteOff)
		}
		byteOff += rsize
		ri++
	}
	byteOfUnit = append(byteOfUnit, byteOff)
	sf.byteOfUnit = byteOfUnit
}

// ByteOffset converts a UTF-16 code-unit offset into a byte offset into Text.
func (sf *SourceFile) ByteOffset(unitOffset uint32) int {
	if int(unitOffset) >= len(sf.byteOfUnit) {
		return len(sf.Text)
	}
	return sf.byteOfUnit[unitOffset]
}

// LineCol converts a UTF-16 code-unit offset to a 1-based (line, column)
// pair for display (spec.md §6.2: "1-based for display").
func (sf *SourceFile) LineCol(unitOffset uint32) (line, col int) {
	line, col = 1, 1
	limit := int(unitOffset)
	if limit > len(sf.Units) {
		limit = len(sf.Units)
	}
	for i := 0; i < limit; i++ {
		if sf.Units[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return
}
