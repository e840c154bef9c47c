// Package dedup counts distinct line contents.
//
// Lines are ordered by lexicographic byte comparison, with a strict prefix
// sorting before its extension, then counted in one pass over the sorted
// sequence: the count starts at one for a non-empty sequence and grows at
// every position whose content differs from its predecessor.
//
// # Line Set
//
// LineSet is the run-wide arena of line views. Each file appends its lines
// once and keeps only the (start, count) range it was given:
//
//	set := dedup.NewLineSet(0)
//	start := set.Append(buf, spans)
//	perFile := set.UniqueRange(start, len(spans))
//	...
//	global := set.Unique()
//
// Sorting a file's range only permutes lines inside that range, so other
// files' ranges stay intact. The global count is a separate sort over the
// whole arena and is never derived from the per-file counts.
package dedup
