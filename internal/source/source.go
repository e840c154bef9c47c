// Package source reads whole files into memory for scanning.
package source

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/uloc/pkg/types"
)

// Reader acquires the full content of a file.
//
// ReadFile returns (nil, nil) for a file that opened successfully but has
// no bytes. Failures wrap types.ErrOpenFailure or types.ErrReadFailure.
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// OSReader reads files from the local file system
type OSReader struct{}

// ReadFile implements Reader.
func (OSReader) ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrOpenFailure, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrOpenFailure, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: is a directory", types.ErrReadFailure)
	}

	size := info.Size()
	if size == 0 {
		return nil, nil
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrReadFailure, err)
	}
	return data, nil
}

// MapReader serves file contents from memory. Paths missing from Files
// fail to open; paths in Failing fail to read.
type MapReader struct {
	Files   map[string][]byte
	Failing map[string]bool
}

// ReadFile implements Reader.
func (m MapReader) ReadFile(path string) ([]byte, error) {
	if m.Failing[path] {
		return nil, fmt.Errorf("%w: short read", types.ErrReadFailure)
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s: no such file", types.ErrOpenFailure, path)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}
