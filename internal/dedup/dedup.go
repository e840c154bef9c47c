package dedup

import (
	"bytes"
	"slices"

	"github.com/dshills/uloc/pkg/types"
)

// Compare orders two lines by content. It returns -1, 0 or +1; a strict
// prefix compares less than the longer line.
func Compare(a, b []byte) int {
	return bytes.Compare(a, b)
}

// CountUnique counts distinct contents in an already sorted sequence.
func CountUnique(sorted [][]byte) int {
	if len(sorted) == 0 {
		return 0
	}
	unique := 1
	for i := 1; i < len(sorted); i++ {
		if !bytes.Equal(sorted[i-1], sorted[i]) {
			unique++
		}
	}
	return unique
}

// SortAndCount sorts lines in place and returns the number of distinct contents.
func SortAndCount(lines [][]byte) int {
	slices.SortFunc(lines, Compare)
	return CountUnique(lines)
}

// LineSet is an append-only arena of line views shared by all files of a run
type LineSet struct {
	lines [][]byte
}

// NewLineSet creates an empty LineSet with room for capacity lines.
func NewLineSet(capacity int) *LineSet {
	return &LineSet{lines: make([][]byte, 0, capacity)}
}

// Append adds the lines of buf described by spans and returns the index of
// the first one. The views alias buf.
func (s *LineSet) Append(buf []byte, spans []types.Span) int {
	start := len(s.lines)
	for _, sp := range spans {
		s.lines = append(s.lines, sp.Bytes(buf))
	}
	return start
}

// UniqueRange sorts lines [start, start+count) and counts distinct contents.
func (s *LineSet) UniqueRange(start, count int) int {
	return SortAndCount(s.lines[start : start+count : start+count])
}

// Unique sorts the whole set and counts distinct contents across all files.
func (s *LineSet) Unique() int {
	return SortAndCount(s.lines)
}
