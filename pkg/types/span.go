package types

// Span is a read-only view into a file buffer.
type Span struct {
	Offset int
	Len    int
}

// End returns the exclusive end offset of the span.
func (s Span) End() int {
	return s.Offset + s.Len
}

// Bytes returns the span's content within buf. The result aliases buf.
func (s Span) Bytes(buf []byte) []byte {
	return buf[s.Offset:s.End():s.End()]
}
