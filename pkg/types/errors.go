package types

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// ErrOpenFailure marks a path that could not be opened as a file
	ErrOpenFailure = errors.New("could not open file")
	// ErrReadFailure marks a file that opened but could not be read in full
	ErrReadFailure = errors.New("failed to read file")
	// ErrNoInputFiles is returned when no readable, non-empty file remains
	ErrNoInputFiles = errors.New("no files to scan")
	// ErrEmptyPath is returned for a zero-length path argument
	ErrEmptyPath = errors.New("file path must not be empty")
)

// FileError records a per-file acquisition failure. It never aborts a run.
type FileError struct {
	Path string
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Reason returns the human-readable failure reason without the path.
func (e *FileError) Reason() string {
	switch {
	case errors.Is(e.Err, ErrOpenFailure):
		return ErrOpenFailure.Error()
	case errors.Is(e.Err, ErrReadFailure):
		return ErrReadFailure.Error()
	default:
		return e.Err.Error()
	}
}

// DisplayPath returns Name when nameOnly is set, Path otherwise.
func (e *FileError) DisplayPath(nameOnly bool) string {
	return displayPath(e.Path, e.Name, nameOnly)
}
