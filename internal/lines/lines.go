package lines

import (
	"bytes"

	"github.com/dshills/uloc/pkg/types"
)

// IsTrimByte reports whether c is stripped from line edges.
func IsTrimByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

// Extract returns one span per non-blank trimmed line of buf, in order.
// A final segment without a trailing newline is still a line.
func Extract(buf []byte) []types.Span {
	spans := make([]types.Span, 0, bytes.Count(buf, []byte{'\n'})+1)

	for pos := 0; pos < len(buf); {
		stop := bytes.IndexByte(buf[pos:], '\n')
		if stop < 0 {
			stop = len(buf)
		} else {
			stop += pos
		}

		if span, ok := trim(buf, pos, stop); ok {
			spans = append(spans, span)
		}
		pos = stop + 1
	}

	return spans
}

// trim narrows [start, end) past edge whitespace; ok is false if nothing is left.
func trim(buf []byte, start, end int) (types.Span, bool) {
	for start < end && IsTrimByte(buf[start]) {
		start++
	}
	for end > start && IsTrimByte(buf[end-1]) {
		end--
	}
	if start >= end {
		return types.Span{}, false
	}
	return types.Span{Offset: start, Len: end - start}, true
}
