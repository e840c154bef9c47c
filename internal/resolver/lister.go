package resolver

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotDirectory is returned by a Lister for paths that are not directories
var ErrNotDirectory = errors.New("not a directory")

// Entry is one directory entry as reported by a Lister
type Entry struct {
	Name  string
	IsDir bool // Hint only; every entry is re-checked when dequeued
}

// Lister enumerates directory entries
type Lister interface {
	// ReadDir returns the entries of path in enumeration order, or an
	// error wrapping ErrNotDirectory if path cannot be opened as a directory.
	ReadDir(path string) ([]Entry, error)
}

// OSLister lists directories on the local file system
type OSLister struct{}

// ReadDir implements Lister using the operating system's directory order.
func (OSLister) ReadDir(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDirectory, err)
	}
	defer func() { _ = f.Close() }()

	dirents, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDirectory, err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		entries = append(entries, Entry{Name: d.Name(), IsDir: d.IsDir()})
	}
	return entries, nil
}
