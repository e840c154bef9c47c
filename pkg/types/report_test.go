package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	t.Run("zero lines reports zero", func(t *testing.T) {
		assert.Equal(t, 0.0, FileStats{}.Ratio())
		assert.Equal(t, 0.0, Totals{}.Ratio())
	})

	t.Run("unique over total", func(t *testing.T) {
		s := FileStats{LineCount: 4, UniqueLineCount: 3}
		assert.InDelta(t, 0.75, s.Ratio(), 1e-9)

		tot := Totals{LineCount: 2, UniqueLineCount: 1}
		assert.InDelta(t, 0.5, tot.Ratio(), 1e-9)
	})
}

func TestSpanBytes(t *testing.T) {
	buf := []byte("  hello  ")
	s := Span{Offset: 2, Len: 5}

	assert.Equal(t, 7, s.End())
	assert.Equal(t, "hello", string(s.Bytes(buf)))
}

func TestFileErrorReason(t *testing.T) {
	err := &FileError{Path: "x", Name: "x", Err: fmt.Errorf("%w: permission denied", ErrOpenFailure)}

	assert.True(t, errors.Is(err, ErrOpenFailure))
	assert.Equal(t, "could not open file", err.Reason())
	assert.Contains(t, err.Error(), "x: ")

	other := &FileError{Path: "y", Err: errors.New("boom")}
	assert.Equal(t, "boom", other.Reason())
}

func TestDisplayPath(t *testing.T) {
	stats := NewFileRecord("a/b/run.sh").Stats()
	assert.Equal(t, "run.sh", stats.DisplayPath(true))
	assert.Equal(t, "a/b/run.sh", stats.DisplayPath(false))

	fe := &FileError{Path: "a/missing.go", Name: "missing.go", Err: ErrOpenFailure}
	assert.Equal(t, "missing.go", fe.DisplayPath(true))
	assert.Equal(t, "a/missing.go", fe.DisplayPath(false))
}
