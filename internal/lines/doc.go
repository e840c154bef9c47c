// Package lines splits a file buffer into trimmed, non-blank line spans.
//
// Lines are terminated by the '\n' byte only. Each raw line is trimmed of
// leading and trailing space, tab and carriage-return bytes; nothing else
// counts as whitespace (no form feed, no vertical tab, no Unicode spaces).
// A line that is empty after trimming is dropped.
//
//	spans := lines.Extract([]byte("  a b \r\n\n\tc"))
//	// two spans: "a b" and "c"
//
// The scan is a pure byte comparison and is not encoding aware. Returned
// spans are offsets into the input and never copy it.
package lines
